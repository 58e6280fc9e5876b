package artifacts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/evida/coach-engine/internal/session"
)

// Artifact file names within a session directory.
const (
	TranscriptFile   = "session_transcript.json"
	PlanFile         = "session_plan.json"
	PlanMarkdownFile = "session_plan.md"
	FailureFile      = "plan_failure.txt"
)

// Writer persists session artifact sets under a configured output root, one
// directory per session_id. Re-processing a session overwrites its prior
// artifacts: last writer wins, with no versioning and no lock against
// concurrent writers for the same session (duplicate webhook deliveries
// race; known hazard).
type Writer struct {
	root string
}

// NewWriter creates a writer rooted at the given output directory.
func NewWriter(root string) *Writer {
	return &Writer{root: root}
}

// Root returns the output root directory.
func (w *Writer) Root() string { return w.root }

// WriteSuccess persists the transcript, the validated plan, and a
// human-readable markdown rendering of the plan. Returns the session
// directory.
func (w *Writer) WriteSuccess(sessionID string, transcript *session.Transcript, plan *session.Plan) (string, error) {
	dir, err := w.sessionDir(sessionID)
	if err != nil {
		return "", err
	}

	if err := writeJSON(dir, TranscriptFile, transcript); err != nil {
		return "", err
	}
	if err := writeJSON(dir, PlanFile, plan); err != nil {
		return "", err
	}
	if err := writeFileAtomic(dir, PlanMarkdownFile, renderMarkdown(sessionID, plan)); err != nil {
		return "", err
	}

	return dir, nil
}

// WriteFailure persists the transcript and a failure note carrying the
// error message and, when available, the raw upstream response verbatim so
// the session can be recovered by hand later.
func (w *Writer) WriteFailure(sessionID string, transcript *session.Transcript, rawResponse, errorMessage string) (string, error) {
	dir, err := w.sessionDir(sessionID)
	if err != nil {
		return "", err
	}

	if err := writeJSON(dir, TranscriptFile, transcript); err != nil {
		return "", err
	}

	var note bytes.Buffer
	fmt.Fprintf(&note, "Plan generation failed: %s\n\n", errorMessage)
	if rawResponse != "" {
		note.WriteString("Raw LLM response:\n")
		note.WriteString(rawResponse)
	}
	if err := writeFileAtomic(dir, FailureFile, note.Bytes()); err != nil {
		return "", err
	}

	return dir, nil
}

// ReadPlan loads a previously persisted plan record.
func (w *Writer) ReadPlan(sessionID string) (*session.Plan, error) {
	data, err := os.ReadFile(filepath.Join(w.root, sessionID, PlanFile))
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	var plan session.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	return &plan, nil
}

// ReadTranscript loads a previously persisted transcript record.
func (w *Writer) ReadTranscript(sessionID string) (*session.Transcript, error) {
	data, err := os.ReadFile(filepath.Join(w.root, sessionID, TranscriptFile))
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	var t session.Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	return &t, nil
}

// sessionDir ensures the per-session directory exists.
func (w *Writer) sessionDir(sessionID string) (string, error) {
	dir := filepath.Join(w.root, sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

func writeJSON(dir, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	return writeFileAtomic(dir, name, append(data, '\n'))
}

// writeFileAtomic writes via temp file + rename so a crashed or concurrent
// writer never leaves a half-written artifact behind.
func writeFileAtomic(dir, name string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".artifact-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, filepath.Join(dir, name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

// renderMarkdown produces the human-readable plan, domains in canonical
// order with title-cased headings.
func renderMarkdown(sessionID string, plan *session.Plan) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# Lifestyle Plan for session %s\n\n", sessionID)
	for _, name := range session.DomainOrder {
		d := plan.DomainByName(name)
		fmt.Fprintf(&b, "## %s\n\n", session.DomainTitle(name))
		fmt.Fprintf(&b, "**Baseline**\n\n%s\n\n", d.Baseline)
		b.WriteString("**SMART Goals**\n\n")
		for _, goal := range d.SmartGoals {
			fmt.Fprintf(&b, "- %s\n", goal)
		}
		b.WriteString("\n**Tracking KPIs**\n\n")
		for _, kpi := range d.TrackingKPIs {
			fmt.Fprintf(&b, "- %s\n", kpi)
		}
		b.WriteString("\n\n")
	}
	return b.Bytes()
}
