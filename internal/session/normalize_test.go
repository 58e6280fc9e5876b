package session

import (
	"encoding/json"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Run("provider_payload", func(t *testing.T) {
		body := `{"data":{"conversation_id":"c1","transcript":[{"role":"coach","message":"Hi"},{"role":"client","text":"Hello"}]}}`
		var payload ConversationPayload
		if err := json.Unmarshal([]byte(body), &payload); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		tr := payload.Normalize()
		if tr.SessionID != "c1" {
			t.Errorf("SessionID = %q, want c1", tr.SessionID)
		}
		if tr.RawText != "Hi\nHello" {
			t.Errorf("RawText = %q, want %q", tr.RawText, "Hi\nHello")
		}
		if len(tr.Utterances) != 2 {
			t.Fatalf("got %d utterances, want 2", len(tr.Utterances))
		}
		if tr.Utterances[0].Speaker != "coach" || tr.Utterances[1].Speaker != "client" {
			t.Errorf("speakers = %q, %q", tr.Utterances[0].Speaker, tr.Utterances[1].Speaker)
		}
	})

	t.Run("id_fallback_to_id_field", func(t *testing.T) {
		payload := ConversationPayload{Data: ConversationData{ID: "fallback"}}
		if got := payload.Normalize().SessionID; got != "fallback" {
			t.Errorf("SessionID = %q, want fallback", got)
		}
	})

	t.Run("missing_id_defaults_to_unknown", func(t *testing.T) {
		var payload ConversationPayload
		if got := payload.Normalize().SessionID; got != "unknown" {
			t.Errorf("SessionID = %q, want unknown", got)
		}
	})

	t.Run("conversation_id_wins_over_id", func(t *testing.T) {
		payload := ConversationPayload{Data: ConversationData{ConversationID: "a", ID: "b"}}
		if got := payload.Normalize().SessionID; got != "a" {
			t.Errorf("SessionID = %q, want a", got)
		}
	})

	t.Run("empty_turns_dropped", func(t *testing.T) {
		payload := ConversationPayload{Data: ConversationData{
			ConversationID: "c2",
			Transcript: []ConversationTurn{
				{Role: "coach", Message: "one"},
				{Role: "client"},
				{Speaker: "client", Text: "two"},
			},
		}}
		tr := payload.Normalize()
		if len(tr.Utterances) != 2 {
			t.Fatalf("got %d utterances, want 2", len(tr.Utterances))
		}
		if tr.RawText != "one\ntwo" {
			t.Errorf("RawText = %q, want %q", tr.RawText, "one\ntwo")
		}
	})

	t.Run("missing_speaker_defaults_to_unknown", func(t *testing.T) {
		payload := ConversationPayload{Data: ConversationData{
			ConversationID: "c3",
			Transcript:     []ConversationTurn{{Message: "hi"}},
		}}
		tr := payload.Normalize()
		if tr.Utterances[0].Speaker != "unknown" {
			t.Errorf("Speaker = %q, want unknown", tr.Utterances[0].Speaker)
		}
	})

	t.Run("zero_turns_never_fails", func(t *testing.T) {
		payload := ConversationPayload{Data: ConversationData{ConversationID: "empty"}}
		tr := payload.Normalize()
		if tr.RawText != "" {
			t.Errorf("RawText = %q, want empty", tr.RawText)
		}
		if len(tr.Utterances) != 0 {
			t.Errorf("got %d utterances, want 0", len(tr.Utterances))
		}
	})
}

func TestDomainTitle(t *testing.T) {
	cases := map[string]string{
		"healthy_eating":     "Healthy Eating",
		"sleep":              "Sleep",
		"social_connections": "Social Connections",
	}
	for in, want := range cases {
		if got := DomainTitle(in); got != want {
			t.Errorf("DomainTitle(%q) = %q, want %q", in, got, want)
		}
	}
}
