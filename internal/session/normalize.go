package session

// ConversationPayload is the provider's post-call webhook event. The
// provider has shipped several shapes over time, so every field the
// normalizer reads has an alias; unknown fields are ignored.
type ConversationPayload struct {
	Data ConversationData `json:"data"`
}

// ConversationData is the event body under the "data" key.
type ConversationData struct {
	ConversationID string             `json:"conversation_id"`
	ID             string             `json:"id"`
	Transcript     []ConversationTurn `json:"transcript"`
}

// ConversationTurn is one turn of the provider transcript. Message/Text and
// Role/Speaker are aliases; the first non-empty one wins.
type ConversationTurn struct {
	Role    string `json:"role"`
	Speaker string `json:"speaker"`
	Message string `json:"message"`
	Text    string `json:"text"`
}

// Normalize converts the provider event into a canonical transcript. It
// never fails: a payload with no usable identifier gets session_id
// "unknown", turns without text are dropped, and a payload with no usable
// turns degrades to an empty transcript. Whether an empty transcript is
// worth extracting from is the caller's call.
func (p *ConversationPayload) Normalize() *Transcript {
	id := p.Data.ConversationID
	if id == "" {
		id = p.Data.ID
	}
	if id == "" {
		id = "unknown"
	}

	var utterances []Utterance
	for _, turn := range p.Data.Transcript {
		text := turn.Message
		if text == "" {
			text = turn.Text
		}
		if text == "" {
			continue
		}
		speaker := turn.Role
		if speaker == "" {
			speaker = turn.Speaker
		}
		if speaker == "" {
			speaker = "unknown"
		}
		utterances = append(utterances, Utterance{Speaker: speaker, Text: text})
	}

	return NewTranscript(id, utterances)
}
