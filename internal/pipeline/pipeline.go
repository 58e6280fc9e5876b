package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/evida/coach-engine/internal/artifacts"
	"github.com/evida/coach-engine/internal/extract"
	"github.com/evida/coach-engine/internal/metrics"
	"github.com/evida/coach-engine/internal/session"
)

// Result is the outcome of processing one session. SessionDir is set
// whenever artifacts were written, including the failure path.
type Result struct {
	SessionDir string
	Plan       *session.Plan
	RawJSON    string
}

// Pipeline runs a transcript through plan extraction and persists the
// session artifact set. It is shared by the webhook handler and the CLI;
// collaborators are injected at construction, no ambient state.
type Pipeline struct {
	extractor *extract.Extractor
	writer    *artifacts.Writer
	log       zerolog.Logger
}

// New creates a pipeline.
func New(extractor *extract.Extractor, writer *artifacts.Writer, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		writer:    writer,
		log:       log.With().Str("component", "pipeline").Logger(),
	}
}

// Process extracts a plan for the transcript and writes artifacts.
//
// Extraction decode/schema failures still persist the transcript plus a
// failure note (the raw model output is never discarded) and return the
// *extract.Error with the session dir set in the Result. Upstream transport
// failures return without writing anything. Success writes the full
// artifact set.
func (p *Pipeline) Process(ctx context.Context, transcript *session.Transcript, notes string) (Result, error) {
	plan, rawJSON, err := p.extractor.Extract(ctx, transcript, notes)
	if err != nil {
		var xerr *extract.Error
		if !errors.As(err, &xerr) {
			return Result{}, err
		}

		metrics.ExtractionFailuresTotal.WithLabelValues(xerr.Kind.String()).Inc()
		dir, werr := p.writer.WriteFailure(transcript.SessionID, transcript, xerr.RawResponse, xerr.Msg)
		if werr != nil {
			return Result{}, fmt.Errorf("write failure artifacts after %s error: %w", xerr.Kind, werr)
		}
		p.log.Error().
			Str("session_id", transcript.SessionID).
			Str("kind", xerr.Kind.String()).
			Str("session_dir", dir).
			Msg("plan extraction failed, failure artifacts written")
		return Result{SessionDir: dir}, err
	}

	dir, err := p.writer.WriteSuccess(transcript.SessionID, transcript, plan)
	if err != nil {
		return Result{}, fmt.Errorf("write session artifacts: %w", err)
	}
	metrics.PlansGeneratedTotal.Inc()
	p.log.Info().
		Str("session_id", transcript.SessionID).
		Str("session_dir", dir).
		Msg("session processed")

	return Result{SessionDir: dir, Plan: plan, RawJSON: rawJSON}, nil
}
