package transcribe

import (
	"context"
	"fmt"
	"strings"

	"github.com/evida/coach-engine/internal/config"
	"github.com/evida/coach-engine/internal/session"
)

// Provider is the interface for speech-to-text backends.
type Provider interface {
	Transcribe(ctx context.Context, audio []byte, sessionID string) (*session.Transcript, error)
	Name() string  // "whisper", "elevenlabs"
	Model() string // model identifier for logs
}

// ForName returns the provider selected by name, validating that the
// credentials it needs are configured.
func ForName(name string, cfg *config.Config) (Provider, error) {
	switch strings.ToLower(name) {
	case "whisper":
		return NewWhisperClient(cfg.OpenAIAPIKey, cfg.OpenAITranscribeModel, cfg.STTTimeout), nil
	case "elevenlabs":
		if cfg.ElevenLabsAPIKey == "" {
			return nil, fmt.Errorf("ELEVENLABS_API_KEY is required to use ElevenLabs STT")
		}
		return NewElevenLabsClient(cfg.ElevenLabsAPIKey, cfg.ElevenLabsSTTModel, cfg.STTTimeout), nil
	}
	return nil, fmt.Errorf("unknown transcription provider %q: must be one of whisper, elevenlabs", name)
}
