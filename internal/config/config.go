package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	OpenAIAPIKey     string `env:"OPENAI_API_KEY,required,notEmpty"`
	ElevenLabsAPIKey string `env:"ELEVENLABS_API_KEY"`

	OpenAITranscribeModel string `env:"OPENAI_TRANSCRIBE_MODEL" envDefault:"gpt-4o-mini-transcribe"`
	OpenAILLMModel        string `env:"OPENAI_LLM_MODEL" envDefault:"gpt-4.1-mini"`
	ElevenLabsSTTModel    string `env:"ELEVENLABS_STT_MODEL" envDefault:"scribe_v2"`

	DefaultProvider string `env:"DEFAULT_TRANSCRIPTION_PROVIDER" envDefault:"whisper"`
	OutputDir       string `env:"OUTPUT_DIR" envDefault:"./output"`

	// Shared secret for the meeting provider's webhook signatures. Leaving
	// it unset disables signature verification entirely — acceptable for
	// local development, a deployment hazard anywhere a provider can reach
	// the server.
	WebhookSecret string `env:"MEETING_PROVIDER_WEBHOOK_SECRET"`

	HTTPAddr     string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"120s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`

	STTTimeout time.Duration `env:"STT_TIMEOUT" envDefault:"120s"`
	LLMTimeout time.Duration `env:"LLM_TIMEOUT" envDefault:"120s"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Overrides holds CLI flag values that take priority over env vars.
type Overrides struct {
	EnvFile   string
	HTTPAddr  string
	LogLevel  string
	OutputDir string
	Provider  string
}

// Load reads configuration from .env file, environment variables, and CLI
// overrides. Priority: CLI flags > environment variables > .env file >
// struct defaults.
func Load(overrides Overrides) (*Config, error) {
	// Load .env file (silent if missing)
	envFile := overrides.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		_ = godotenv.Load(envFile)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Apply CLI overrides (non-empty values win)
	if overrides.HTTPAddr != "" {
		cfg.HTTPAddr = overrides.HTTPAddr
	}
	if overrides.LogLevel != "" {
		cfg.LogLevel = overrides.LogLevel
	}
	if overrides.OutputDir != "" {
		cfg.OutputDir = overrides.OutputDir
	}
	if overrides.Provider != "" {
		cfg.DefaultProvider = overrides.Provider
	}

	return cfg, nil
}
