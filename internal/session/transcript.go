package session

import "strings"

// Utterance is one speaker turn in a session transcript.
type Utterance struct {
	Speaker   string   `json:"speaker"`
	StartTime *float64 `json:"start_time,omitempty"`
	EndTime   *float64 `json:"end_time,omitempty"`
	Text      string   `json:"text"`
}

// Transcript is the canonical record of one coaching session. Utterances are
// in chronological order. RawText is the newline-joined utterance texts when
// built by this package; transcripts loaded from a file keep whatever
// RawText they were saved with.
type Transcript struct {
	SessionID  string      `json:"session_id"`
	RawText    string      `json:"raw_text"`
	Utterances []Utterance `json:"transcript"`
}

// NewTranscript builds a transcript from ordered utterances, deriving
// RawText from the utterance texts.
func NewTranscript(sessionID string, utterances []Utterance) *Transcript {
	return &Transcript{
		SessionID:  sessionID,
		RawText:    JoinTexts(utterances),
		Utterances: utterances,
	}
}

// JoinTexts joins utterance texts with newlines, preserving order.
func JoinTexts(utterances []Utterance) string {
	parts := make([]string, 0, len(utterances))
	for _, u := range utterances {
		if u.Text == "" {
			continue
		}
		parts = append(parts, u.Text)
	}
	return strings.Join(parts, "\n")
}
