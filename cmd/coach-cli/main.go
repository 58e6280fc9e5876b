package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/evida/coach-engine/internal/artifacts"
	"github.com/evida/coach-engine/internal/config"
	"github.com/evida/coach-engine/internal/extract"
	"github.com/evida/coach-engine/internal/llm"
	"github.com/evida/coach-engine/internal/pipeline"
	"github.com/evida/coach-engine/internal/session"
	"github.com/evida/coach-engine/internal/transcribe"
)

func main() {
	audioPath := flag.String("audio", "", "path to a local audio file")
	notesPath := flag.String("notes", "", "optional path to coach notes")
	provider := flag.String("provider", "", `transcription provider: "whisper" or "elevenlabs"`)
	sessionID := flag.String("session-id", "", "session identifier; defaults to the audio filename stem")
	transcriptPath := flag.String("transcript", "", "path to a pre-generated transcript JSON, skipping speech-to-text")
	envFile := flag.String("env-file", "", "path to .env file")
	outputDir := flag.String("output-dir", "", "artifact output root")
	logLevel := flag.String("log-level", "", "log level (debug, info, warn, error)")
	flag.Parse()

	cfg, err := config.Load(config.Overrides{
		EnvFile:   *envFile,
		OutputDir: *outputDir,
		LogLevel:  *logLevel,
		Provider:  *provider,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(2)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level)

	if *audioPath == "" && *transcriptPath == "" {
		fmt.Fprintln(os.Stderr, "either -audio or -transcript is required")
		flag.Usage()
		os.Exit(2)
	}

	id := *sessionID
	if id == "" {
		source := *audioPath
		if source == "" {
			source = *transcriptPath
		}
		id = fileStem(source)
	}

	fmt.Printf("[info] session_id=%s\n", id)
	fmt.Printf("[info] provider=%s (ignored if -transcript is provided)\n", cfg.DefaultProvider)
	fmt.Printf("[info] notes=%s\n", presence(*notesPath))
	fmt.Printf("[info] transcript_source=%s\n", transcriptSource(*transcriptPath))

	ctx := context.Background()

	transcript, err := loadTranscript(ctx, cfg, log, id, *audioPath, *transcriptPath)
	if err != nil {
		log.Error().Err(err).Msg("transcription failed")
		os.Exit(1)
	}

	notes, err := loadNotes(*notesPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to read notes")
		os.Exit(1)
	}

	llmClient := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAILLMModel, cfg.LLMTimeout)
	pipe := pipeline.New(
		extract.New(llmClient, log),
		artifacts.NewWriter(cfg.OutputDir),
		log,
	)

	result, err := pipe.Process(ctx, transcript, notes)
	if err != nil {
		var xerr *extract.Error
		if errors.As(err, &xerr) {
			fmt.Printf("Transcription saved, but plan generation failed. See: %s\n", result.SessionDir)
			os.Exit(1)
		}
		log.Error().Err(err).Msg("plan generation failed")
		os.Exit(1)
	}

	fmt.Printf("Session artifacts written to: %s\n", result.SessionDir)
}

// loadTranscript sources the session transcript: from a pre-built
// transcript file when given (STT skipped entirely), otherwise by
// transcribing the audio with the configured provider.
func loadTranscript(ctx context.Context, cfg *config.Config, log zerolog.Logger, sessionID, audioPath, transcriptPath string) (*session.Transcript, error) {
	if transcriptPath != "" {
		data, err := os.ReadFile(transcriptPath)
		if err != nil {
			return nil, fmt.Errorf("read transcript file: %w", err)
		}
		var t session.Transcript
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("decode transcript file: %w", err)
		}
		log.Info().Str("path", transcriptPath).Msg("loaded existing transcript")
		return &t, nil
	}

	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("read audio file: %w", err)
	}

	provider, err := transcribe.ForName(cfg.DefaultProvider, cfg)
	if err != nil {
		return nil, err
	}

	log.Info().Str("provider", provider.Name()).Str("model", provider.Model()).Str("session_id", sessionID).Msg("transcribing audio")
	transcript, err := provider.Transcribe(ctx, audio, sessionID)
	if err != nil {
		return nil, err
	}
	log.Info().Str("session_id", sessionID).Msg("transcription completed")
	return transcript, nil
}

func loadNotes(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// fileStem returns the base name without extension.
func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func presence(path string) string {
	if path == "" {
		return "none"
	}
	return "provided"
}

func transcriptSource(transcriptPath string) string {
	if transcriptPath != "" {
		return "file"
	}
	return "stt"
}
