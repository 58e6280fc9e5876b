package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/evida/coach-engine/internal/extract"
	"github.com/evida/coach-engine/internal/metrics"
	"github.com/evida/coach-engine/internal/pipeline"
	"github.com/evida/coach-engine/internal/session"
)

// WebhookHandler receives the meeting provider's post-call transcript
// events, authenticates them, and runs them through the plan pipeline.
type WebhookHandler struct {
	verifier *SignatureVerifier
	pipe     *pipeline.Pipeline
	log      zerolog.Logger
}

// NewWebhookHandler creates the webhook handler.
func NewWebhookHandler(verifier *SignatureVerifier, pipe *pipeline.Pipeline, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		verifier: verifier,
		pipe:     pipe,
		log:      log.With().Str("handler", "webhook").Logger(),
	}
}

// Routes registers the webhook endpoint.
func (h *WebhookHandler) Routes(r chi.Router) {
	r.Post("/elevenlabs/webhook", h.Receive)
}

// webhookResponse is the response envelope for processed deliveries.
// Extraction failures still answer 200 with status "plan_failed" so the
// provider does not retry-storm on content-shape problems it cannot fix.
type webhookResponse struct {
	Status         string `json:"status"`
	ConversationID string `json:"conversation_id"`
	SessionDir     string `json:"session_dir"`
	Error          string `json:"error,omitempty"`
}

// Receive handles POST /elevenlabs/webhook.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		metrics.WebhookRequestsTotal.WithLabelValues("bad_body").Inc()
		WriteError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	// The provider has sent the signature under four case variants of the
	// same two names; Header.Get is case-insensitive, so two lookups cover
	// all of them.
	signature := r.Header.Get("Elevenlabs-Signature")
	if signature == "" {
		signature = r.Header.Get("X-Elevenlabs-Signature")
	}
	if !h.verifier.Verify(body, signature) {
		h.log.Error().Msg("invalid or missing webhook signature; check webhook secret configuration")
		metrics.WebhookRequestsTotal.WithLabelValues("unauthorized").Inc()
		WriteError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	var payload session.ConversationPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		metrics.WebhookRequestsTotal.WithLabelValues("invalid_json").Inc()
		WriteError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	transcript := payload.Normalize()

	// Webhook deliveries carry no coach notes; notes exist only on the CLI
	// path.
	result, err := h.pipe.Process(r.Context(), transcript, "")
	if err != nil {
		var xerr *extract.Error
		if errors.As(err, &xerr) {
			metrics.WebhookRequestsTotal.WithLabelValues("plan_failed").Inc()
			WriteJSON(w, http.StatusOK, webhookResponse{
				Status:         "plan_failed",
				ConversationID: transcript.SessionID,
				SessionDir:     result.SessionDir,
				Error:          xerr.Error(),
			})
			return
		}
		h.log.Error().Err(err).Str("conversation_id", transcript.SessionID).Msg("webhook processing failed")
		metrics.WebhookRequestsTotal.WithLabelValues("error").Inc()
		WriteError(w, http.StatusInternalServerError, "plan generation failed")
		return
	}

	h.log.Info().Str("conversation_id", transcript.SessionID).Msg("processed provider transcript")
	metrics.WebhookRequestsTotal.WithLabelValues("ok").Inc()
	WriteJSON(w, http.StatusOK, webhookResponse{
		Status:         "ok",
		ConversationID: transcript.SessionID,
		SessionDir:     result.SessionDir,
	})
}
