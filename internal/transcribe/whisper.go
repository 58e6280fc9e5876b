package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/evida/coach-engine/internal/session"
)

const whisperEndpoint = "https://api.openai.com/v1/audio/transcriptions"

// WhisperClient calls the OpenAI /v1/audio/transcriptions endpoint. Whisper
// does no diarization, so the result is a single speaker="unknown"
// utterance covering the whole session.
type WhisperClient struct {
	apiKey string
	model  string
	url    string
	client *http.Client
}

// whisperResponse is the JSON response from the transcription API.
type whisperResponse struct {
	Text string `json:"text"`
}

// NewWhisperClient creates a Whisper STT client.
func NewWhisperClient(apiKey, model string, timeout time.Duration) *WhisperClient {
	return &WhisperClient{
		apiKey: apiKey,
		model:  model,
		url:    whisperEndpoint,
		client: &http.Client{Timeout: timeout},
	}
}

// Name returns the provider name.
func (wc *WhisperClient) Name() string { return "whisper" }

// Model returns the configured model identifier.
func (wc *WhisperClient) Model() string { return wc.model }

// Transcribe sends the audio to the Whisper API and returns the session
// transcript.
func (wc *WhisperClient) Transcribe(ctx context.Context, audio []byte, sessionID string) (*session.Transcript, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", "session.wav")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, fmt.Errorf("write audio data: %w", err)
	}

	w.WriteField("model", wc.model)
	w.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wc.url, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+wc.apiKey)

	resp, err := wc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whisper request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("whisper API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result whisperResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return session.NewTranscript(sessionID, []session.Utterance{
		{Speaker: "unknown", Text: result.Text},
	}), nil
}
