package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/evida/coach-engine/internal/metrics"
)

// signatureMaxAge is the replay window: signed requests older than this are
// rejected. There is deliberately no upper bound — a future-dated timestamp
// passes — and no delivery dedup; both are gaps in the provider contract
// carried as-is rather than silently patched.
const signatureMaxAge = 30 * time.Minute

// SignatureVerifier authenticates provider webhook deliveries via the
// timestamped HMAC-SHA256 header scheme. Each verification is a pure
// function of its inputs and the clock; no state is shared across calls.
type SignatureVerifier struct {
	secret string
	log    zerolog.Logger
	now    func() time.Time
}

// NewSignatureVerifier creates a verifier for the given shared secret. An
// empty secret disables verification entirely: every request passes. That
// is an explicit opt-out for local development, not a secure default —
// deploying without MEETING_PROVIDER_WEBHOOK_SECRET leaves the endpoint
// open to anyone who can reach it.
func NewSignatureVerifier(secret string, log zerolog.Logger) *SignatureVerifier {
	return &SignatureVerifier{
		secret: secret,
		log:    log.With().Str("component", "signature").Logger(),
		now:    time.Now,
	}
}

// Verify reports whether the payload carries an authentic, fresh signature.
//
// Header format: comma-separated key=value pairs with a t=<unix-seconds>
// field and a v1=<hex> or v0=<hex> field (v1 preferred when both present).
// The signed string is "<timestamp>.<payload>" and the expected digest is
// "v0=" + hex(HMAC-SHA256(secret, signed string)) — always v0-prefixed,
// even against a v1 header value: the provider uses the two labels
// interchangeably over the same MAC scheme.
func (v *SignatureVerifier) Verify(payload []byte, header string) bool {
	if v.secret == "" {
		// Verification disabled; see NewSignatureVerifier.
		return true
	}
	if header == "" {
		v.log.Error().Msg("missing signature header")
		metrics.SignatureRejectionsTotal.WithLabelValues("missing_header").Inc()
		return false
	}

	timestamp, sig, ok := parseSignatureHeader(header)
	if !ok {
		v.log.Error().Msg("signature header missing expected t= or v0/v1= parts")
		metrics.SignatureRejectionsTotal.WithLabelValues("parse_failure").Inc()
		return false
	}

	cutoff := v.now().Add(-signatureMaxAge).Unix()
	if timestamp < cutoff {
		v.log.Error().
			Int64("timestamp", timestamp).
			Int64("cutoff", cutoff).
			Msg("signature timestamp too old")
		metrics.SignatureRejectionsTotal.WithLabelValues("stale_timestamp").Inc()
		return false
	}

	signed := fmt.Sprintf("%d.%s", timestamp, payload)
	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write([]byte(signed))
	digest := "v0=" + hex.EncodeToString(mac.Sum(nil))

	// hmac.Equal is constant-time; never compare signatures with ==.
	if !hmac.Equal([]byte(digest), []byte(sig)) {
		v.log.Error().Msg("signature mismatch")
		metrics.SignatureRejectionsTotal.WithLabelValues("mismatch").Inc()
		return false
	}
	return true
}

// parseSignatureHeader splits a header like "t=1739537297,v0=abcdef..."
// into its timestamp and full signature token ("v0=<hex>" or "v1=<hex>",
// label included — the label is part of what gets compared). v1 is searched
// before v0.
func parseSignatureHeader(header string) (int64, string, bool) {
	parts := make([]string, 0, 2)
	for _, part := range strings.Split(header, ",") {
		parts = append(parts, strings.TrimSpace(part))
	}

	var tPart, vPart string
	for _, part := range parts {
		if tPart == "" && strings.HasPrefix(part, "t=") {
			tPart = part
		}
		if vPart == "" && strings.HasPrefix(part, "v1=") {
			vPart = part
		}
	}
	if vPart == "" {
		for _, part := range parts {
			if strings.HasPrefix(part, "v0=") {
				vPart = part
				break
			}
		}
	}
	if tPart == "" || vPart == "" {
		return 0, "", false
	}

	timestamp, err := strconv.ParseInt(strings.TrimPrefix(tPart, "t="), 10, 64)
	if err != nil {
		return 0, "", false
	}
	return timestamp, vPart, true
}
