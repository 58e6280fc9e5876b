package extract

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"

	"github.com/evida/coach-engine/internal/llm"
	"github.com/evida/coach-engine/internal/session"
)

// ErrorKind classifies why model output was unusable.
type ErrorKind int

const (
	// KindDecode means the response body was not parseable JSON.
	KindDecode ErrorKind = iota + 1
	// KindSchema means the JSON parsed but did not match the plan shape.
	KindSchema
)

func (k ErrorKind) String() string {
	switch k {
	case KindDecode:
		return "decode"
	case KindSchema:
		return "schema"
	}
	return "unknown"
}

// Error is a failed extraction attempt. RawResponse carries the model
// output verbatim so the failure artifact can preserve it for diagnosis;
// no partial plan ever accompanies an Error.
type Error struct {
	Kind        ErrorKind
	Msg         string
	RawResponse string
}

func (e *Error) Error() string { return e.Msg }

// Extractor turns a session transcript plus free-form notes into a
// schema-validated lifestyle plan via the generative model. One attempt per
// call: there is no retry against the model on either failure kind, so any
// retry policy belongs to the caller (and none exists today).
type Extractor struct {
	llm llm.Completer
	log zerolog.Logger
}

// New creates an extractor backed by the given model client.
func New(completer llm.Completer, log zerolog.Logger) *Extractor {
	return &Extractor{llm: completer, log: log.With().Str("component", "extract").Logger()}
}

// Extract prompts the model and validates its output. On success it returns
// the plan together with the raw JSON text, retained for audit. Decode and
// schema failures come back as *Error; anything else (transport, HTTP) is a
// plain wrapped error from the model client.
func (e *Extractor) Extract(ctx context.Context, transcript *session.Transcript, notes string) (*session.Plan, string, error) {
	prompt := buildPrompt(transcript.RawText, notes)

	e.log.Info().
		Str("session_id", transcript.SessionID).
		Int("transcript_chars", len(transcript.RawText)).
		Int("notes_chars", len(notes)).
		Msg("generating lifestyle plan")

	raw, err := e.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, "", fmt.Errorf("llm completion: %w", err)
	}

	e.log.Debug().Int("raw_chars", len(raw)).Msg("model response received")

	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		e.log.Error().Err(err).Msg("model response is not valid JSON")
		return nil, "", &Error{
			Kind:        KindDecode,
			Msg:         "failed to parse model response as JSON",
			RawResponse: raw,
		}
	}

	result, err := gojsonschema.Validate(planSchema, gojsonschema.NewGoLoader(decoded))
	if err != nil {
		return nil, "", fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		detail := "schema validation failed"
		if errs := result.Errors(); len(errs) > 0 {
			detail = fmt.Sprintf("schema validation failed: %s", errs[0].String())
		}
		e.log.Error().Str("detail", detail).Msg("model response did not match plan schema")
		return nil, "", &Error{
			Kind:        KindSchema,
			Msg:         detail,
			RawResponse: raw,
		}
	}

	var plan session.Plan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		// Schema passed, so this should be unreachable; classify it as a
		// schema failure rather than crash.
		return nil, "", &Error{
			Kind:        KindSchema,
			Msg:         fmt.Sprintf("plan decode after validation: %v", err),
			RawResponse: raw,
		}
	}

	e.log.Info().Str("session_id", transcript.SessionID).Msg("lifestyle plan extracted")
	return &plan, raw, nil
}
