// Package webhookhandler receives WhatsApp Cloud API webhook callbacks.
package webhookhandler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"companion-server/internal/config"
	"companion-server/internal/domain/companion"
	"companion-server/internal/infrastructure/logger"
	"companion-server/internal/infrastructure/metrics"
)

// handleTimeout bounds one pipeline run; webhook acks must not wait on it.
const handleTimeout = 60 * time.Second

// WebhookPayload mirrors the Cloud API webhook envelope for message events.
type WebhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		ID      string `json:"id"`
		Changes []struct {
			Field string `json:"field"`
			Value struct {
				MessagingProduct string `json:"messaging_product"`
				Messages         []struct {
					From string `json:"from"`
					ID   string `json:"id"`
					Type string `json:"type"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type WebhookHandler struct {
	companion *companion.Service
	cfg       *config.Config
}

func NewWebhookHandler(companionService *companion.Service, cfg *config.Config) *WebhookHandler {
	return &WebhookHandler{companion: companionService, cfg: cfg}
}

// Verify handles GET /webhook, the Cloud API subscription handshake.
func (h *WebhookHandler) Verify(reqCtx *gin.Context) {
	mode := reqCtx.Query("hub.mode")
	token := reqCtx.Query("hub.verify_token")
	challenge := reqCtx.Query("hub.challenge")

	log := logger.GetLogger()
	if mode == "subscribe" && token == h.cfg.WebhookVerifyToken {
		log.Info().Msg("webhook verified")
		reqCtx.String(http.StatusOK, challenge)
		return
	}

	log.Warn().Str("mode", mode).Msg("webhook verification rejected")
	reqCtx.Status(http.StatusForbidden)
}

type inboundText struct {
	from string
	text string
}

// Receive handles POST /webhook. The payload is acked immediately and its
// text messages run through the pipeline in the background, in payload order
// so same-user updates apply as they arrived; the Cloud API retries on slow
// acks, which would duplicate replies.
func (h *WebhookHandler) Receive(reqCtx *gin.Context) {
	log := logger.GetLogger()

	var payload WebhookPayload
	if err := reqCtx.ShouldBindJSON(&payload); err != nil {
		log.Warn().Err(err).Msg("unparsable webhook payload")
		reqCtx.Status(http.StatusOK)
		return
	}

	var inbound []inboundText
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}
			for _, msg := range change.Value.Messages {
				metrics.WebhookMessagesTotal.WithLabelValues(msg.Type).Inc()
				if msg.Type != "text" || msg.Text.Body == "" {
					continue
				}
				inbound = append(inbound, inboundText{from: msg.From, text: msg.Text.Body})
			}
		}
	}

	if len(inbound) > 0 {
		go func() {
			for _, msg := range inbound {
				ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
				if err := h.companion.HandleMessage(ctx, msg.from, msg.text); err != nil {
					log.Error().Err(err).Str("from", msg.from).Msg("failed to handle inbound message")
				}
				cancel()
			}
		}()
	}

	reqCtx.Status(http.StatusOK)
}
