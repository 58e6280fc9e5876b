package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

const testSecret = "whsec_test_secret"

// signHeader produces a provider-style signature header for the payload.
func signHeader(secret string, timestamp int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", timestamp, payload)
	return fmt.Sprintf("t=%d,v0=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

func fixedVerifier(secret string, now time.Time) *SignatureVerifier {
	v := NewSignatureVerifier(secret, zerolog.Nop())
	v.now = func() time.Time { return now }
	return v
}

func TestVerifySignature(t *testing.T) {
	now := time.Unix(1739537297, 0)
	payload := []byte(`{"data":{"conversation_id":"c1"}}`)

	t.Run("valid_signature_passes", func(t *testing.T) {
		v := fixedVerifier(testSecret, now)
		header := signHeader(testSecret, now.Unix(), payload)
		if !v.Verify(payload, header) {
			t.Error("correctly signed fresh request rejected")
		}
	})

	t.Run("mutated_payload_fails", func(t *testing.T) {
		v := fixedVerifier(testSecret, now)
		header := signHeader(testSecret, now.Unix(), payload)
		mutated := append([]byte{}, payload...)
		mutated[0] ^= 0x01
		if v.Verify(mutated, header) {
			t.Error("mutated payload accepted")
		}
	})

	t.Run("mutated_signature_fails", func(t *testing.T) {
		v := fixedVerifier(testSecret, now)
		header := signHeader(testSecret, now.Unix(), payload)
		mutated := header[:len(header)-1] + flipHexDigit(header[len(header)-1:])
		if v.Verify(payload, mutated) {
			t.Error("mutated signature accepted")
		}
	})

	t.Run("mutated_timestamp_fails", func(t *testing.T) {
		v := fixedVerifier(testSecret, now)
		mac := hmac.New(sha256.New, []byte(testSecret))
		fmt.Fprintf(mac, "%d.%s", now.Unix(), payload)
		tampered := fmt.Sprintf("t=%d,v0=%s", now.Unix()+1, hex.EncodeToString(mac.Sum(nil)))
		if v.Verify(payload, tampered) {
			t.Error("tampered timestamp accepted")
		}
	})

	t.Run("wrong_secret_fails", func(t *testing.T) {
		v := fixedVerifier(testSecret, now)
		header := signHeader("other_secret", now.Unix(), payload)
		if v.Verify(payload, header) {
			t.Error("signature from wrong secret accepted")
		}
	})

	t.Run("stale_timestamp_rejected", func(t *testing.T) {
		v := fixedVerifier(testSecret, now)
		old := now.Unix() - 1801
		header := signHeader(testSecret, old, payload)
		if v.Verify(payload, header) {
			t.Error("signature older than the replay window accepted")
		}
	})

	t.Run("timestamp_at_window_edge_passes", func(t *testing.T) {
		v := fixedVerifier(testSecret, now)
		edge := now.Unix() - 1800
		header := signHeader(testSecret, edge, payload)
		if !v.Verify(payload, header) {
			t.Error("signature exactly at the window edge rejected")
		}
	})

	t.Run("future_timestamp_passes", func(t *testing.T) {
		// No upper bound is enforced; documented gap.
		v := fixedVerifier(testSecret, now)
		header := signHeader(testSecret, now.Unix()+3600, payload)
		if !v.Verify(payload, header) {
			t.Error("future-dated signature rejected; no upper bound exists")
		}
	})

	t.Run("missing_header_rejected", func(t *testing.T) {
		v := fixedVerifier(testSecret, now)
		if v.Verify(payload, "") {
			t.Error("missing header accepted with secret configured")
		}
	})

	t.Run("malformed_headers_rejected", func(t *testing.T) {
		v := fixedVerifier(testSecret, now)
		for _, header := range []string{
			"garbage",
			"t=123",
			"v0=abcd",
			"t=notanumber,v0=abcd",
			"x=1,y=2",
		} {
			if v.Verify(payload, header) {
				t.Errorf("malformed header %q accepted", header)
			}
		}
	})

	t.Run("no_secret_disables_verification", func(t *testing.T) {
		v := fixedVerifier("", now)
		for _, header := range []string{"", "garbage", "t=1,v0=deadbeef"} {
			if !v.Verify(payload, header) {
				t.Errorf("verification not disabled for header %q", header)
			}
		}
	})
}

func TestParseSignatureHeader(t *testing.T) {
	t.Run("v1_preferred_over_v0", func(t *testing.T) {
		ts, sig, ok := parseSignatureHeader("t=100,v0=aaaa,v1=bbbb")
		if !ok {
			t.Fatal("parse failed")
		}
		if ts != 100 {
			t.Errorf("timestamp = %d", ts)
		}
		if sig != "v1=bbbb" {
			t.Errorf("sig = %q, want v1 token", sig)
		}
	})

	t.Run("v0_fallback", func(t *testing.T) {
		_, sig, ok := parseSignatureHeader("t=100,v0=aaaa")
		if !ok || sig != "v0=aaaa" {
			t.Errorf("sig = %q, ok = %v", sig, ok)
		}
	})

	t.Run("whitespace_tolerated", func(t *testing.T) {
		ts, sig, ok := parseSignatureHeader(" t=100 , v0=aaaa ")
		if !ok || ts != 100 || sig != "v0=aaaa" {
			t.Errorf("parse = %d %q %v", ts, sig, ok)
		}
	})
}

// flipHexDigit returns a different hex digit from the one given.
func flipHexDigit(s string) string {
	if s == "0" {
		return "1"
	}
	return "0"
}
