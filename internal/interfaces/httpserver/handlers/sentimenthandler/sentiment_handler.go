// Package sentimenthandler exposes the sentiment monitoring endpoints.
package sentimenthandler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"companion-server/internal/domain/sentiment"
	"companion-server/internal/interfaces/httpserver/responses"
	"companion-server/internal/utils/phone"
)

type SentimentHandler struct {
	monitoring *sentiment.Service
}

func NewSentimentHandler(monitoring *sentiment.Service) *SentimentHandler {
	return &SentimentHandler{monitoring: monitoring}
}

// RecordResponse is the JSON shape of one stored classification.
type RecordResponse struct {
	ID                uint      `json:"id"`
	PhoneNumber       string    `json:"phone_number"`
	UserMessage       string    `json:"user_message"`
	AIResponse        string    `json:"ai_response,omitempty"`
	Category          string    `json:"category"`
	Confidence        float64   `json:"confidence"`
	Indicators        string    `json:"emotional_indicators,omitempty"`
	ConcernLevel      string    `json:"concern_level"`
	Reasoning         string    `json:"reasoning,omitempty"`
	RequiresAttention bool      `json:"requires_attention"`
	CreatedAt         time.Time `json:"created_at"`
}

// Overview handles GET /v1/sentiments/overview.
func (h *SentimentHandler) Overview(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	overview, err := h.monitoring.BuildOverview(ctx)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to build sentiment overview")
		return
	}
	reqCtx.JSON(http.StatusOK, overview)
}

// History handles GET /v1/sentiments/history/:phone. ?recent=true limits the
// window to the last 24 hours.
func (h *SentimentHandler) History(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	phoneNumber := phone.Normalize(reqCtx.Param("phone"))

	var (
		records []sentiment.Record
		err     error
	)
	if reqCtx.Query("recent") == "true" {
		records, err = h.monitoring.RecentHistory(ctx, phoneNumber)
	} else {
		records, err = h.monitoring.History(ctx, phoneNumber)
	}
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to load sentiment history")
		return
	}

	reqCtx.JSON(http.StatusOK, gin.H{
		"phone_number": phoneNumber,
		"count":        len(records),
		"records":      mapRecords(records),
	})
}

// Trend handles GET /v1/sentiments/trend/:phone.
func (h *SentimentHandler) Trend(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	phoneNumber := phone.Normalize(reqCtx.Param("phone"))

	trend, err := h.monitoring.BuildTrend(ctx, phoneNumber)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to build sentiment trend")
		return
	}
	reqCtx.JSON(http.StatusOK, trend)
}

// Attention handles GET /v1/sentiments/attention.
func (h *SentimentHandler) Attention(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	records, err := h.monitoring.RequiringAttention(ctx)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to load records requiring attention")
		return
	}

	reqCtx.JSON(http.StatusOK, gin.H{
		"count":   len(records),
		"records": mapRecords(records),
	})
}

func mapRecords(records []sentiment.Record) []RecordResponse {
	out := make([]RecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, RecordResponse{
			ID:                r.ID,
			PhoneNumber:       r.PhoneNumber,
			UserMessage:       r.UserMessage,
			AIResponse:        r.AIResponse,
			Category:          string(r.Category),
			Confidence:        r.Confidence,
			Indicators:        r.Indicators,
			ConcernLevel:      r.ConcernLevel,
			Reasoning:         r.Reasoning,
			RequiresAttention: r.RequiresAttention,
			CreatedAt:         r.CreatedAt,
		})
	}
	return out
}
