package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/evida/coach-engine/internal/session"
)

const elevenLabsSTTEndpoint = "https://api.elevenlabs.io/v1/speech-to-text"

// ElevenLabsClient calls the ElevenLabs Speech-to-Text API with diarization
// enabled, producing per-speaker utterances.
type ElevenLabsClient struct {
	apiKey string
	model  string
	url    string
	client *http.Client
}

// elevenlabsResponse is the JSON response from the ElevenLabs STT API. The
// API has shipped both "transcript" and "segments" for the item list, and
// plain-text fallbacks, so all aliases are decoded.
type elevenlabsResponse struct {
	Transcript     []elevenlabsItem `json:"transcript"`
	Segments       []elevenlabsItem `json:"segments"`
	Text           string           `json:"text"`
	TranscriptText string           `json:"transcript_text"`
}

// elevenlabsItem is one diarized segment.
type elevenlabsItem struct {
	Speaker      string `json:"speaker"`
	SpeakerLabel string `json:"speaker_label"`
	Text         string `json:"text"`
}

// NewElevenLabsClient creates an ElevenLabs STT client.
func NewElevenLabsClient(apiKey, model string, timeout time.Duration) *ElevenLabsClient {
	return &ElevenLabsClient{
		apiKey: apiKey,
		model:  model,
		url:    elevenLabsSTTEndpoint,
		client: &http.Client{Timeout: timeout},
	}
}

// Name returns the provider name.
func (el *ElevenLabsClient) Name() string { return "elevenlabs" }

// Model returns the configured model identifier.
func (el *ElevenLabsClient) Model() string { return el.model }

// Transcribe sends the audio to the ElevenLabs STT API and returns the
// session transcript.
func (el *ElevenLabsClient) Transcribe(ctx context.Context, audio []byte, sessionID string) (*session.Transcript, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", "session.wav")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, fmt.Errorf("write audio data: %w", err)
	}

	w.WriteField("model_id", el.model)
	w.WriteField("diarize", "true")
	w.WriteField("language", "en")
	w.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, el.url, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("xi-api-key", el.apiKey)

	resp, err := el.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("elevenlabs API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result elevenlabsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	items := result.Transcript
	if len(items) == 0 {
		items = result.Segments
	}

	var utterances []session.Utterance
	for _, item := range items {
		if item.Text == "" {
			continue
		}
		speaker := item.Speaker
		if speaker == "" {
			speaker = item.SpeakerLabel
		}
		if speaker == "" {
			speaker = "unknown"
		}
		utterances = append(utterances, session.Utterance{Speaker: speaker, Text: item.Text})
	}

	// Whole-session text fallback for responses without segment items.
	if len(utterances) == 0 {
		fallback := result.Text
		if fallback == "" {
			fallback = result.TranscriptText
		}
		if fallback != "" {
			utterances = append(utterances, session.Utterance{Speaker: "unknown", Text: fallback})
		}
	}

	t := session.NewTranscript(sessionID, utterances)
	t.RawText = strings.TrimSpace(t.RawText)
	return t, nil
}
