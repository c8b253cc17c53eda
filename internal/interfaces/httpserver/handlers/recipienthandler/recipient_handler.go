// Package recipienthandler exposes recipient management endpoints.
package recipienthandler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"companion-server/internal/domain/recipient"
	"companion-server/internal/interfaces/httpserver/responses"
	"companion-server/internal/utils/platformerrors"
)

type RecipientHandler struct {
	recipients *recipient.Service
}

func NewRecipientHandler(recipients *recipient.Service) *RecipientHandler {
	return &RecipientHandler{recipients: recipients}
}

// RecipientRequest is the create/update body.
type RecipientRequest struct {
	Name              string `json:"name" binding:"required"`
	DisplayName       string `json:"display_name"`
	PhoneNumber       string `json:"phone_number" binding:"required"`
	CaretakerName     string `json:"caretaker_name"`
	CaretakerPhone    string `json:"caretaker_phone"`
	PreferredLanguage string `json:"preferred_language"`
	Topics            string `json:"topics"`
	Active            *bool  `json:"active"`
}

// RecipientResponse is the JSON shape of one recipient.
type RecipientResponse struct {
	ID                uint       `json:"id"`
	Name              string     `json:"name"`
	DisplayName       string     `json:"display_name,omitempty"`
	PhoneNumber       string     `json:"phone_number"`
	CaretakerName     string     `json:"caretaker_name,omitempty"`
	CaretakerPhone    string     `json:"caretaker_phone,omitempty"`
	PreferredLanguage string     `json:"preferred_language,omitempty"`
	Topics            string     `json:"topics,omitempty"`
	Active            bool       `json:"active"`
	LastCheckSentAt   *time.Time `json:"last_check_sent_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Create handles POST /v1/recipients.
func (h *RecipientHandler) Create(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	var req RecipientRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation,
			"invalid request body", "7d3a9f1c-5e8b-4264-90a7-2f6c1d8e5b39")
		return
	}

	rcpt := toDomain(&req)
	if err := h.recipients.Enroll(ctx, rcpt); err != nil {
		responses.HandleError(reqCtx, err, "failed to enroll recipient")
		return
	}

	reqCtx.JSON(http.StatusCreated, toResponse(rcpt))
}

// List handles GET /v1/recipients.
func (h *RecipientHandler) List(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	recipients, err := h.recipients.List(ctx)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to list recipients")
		return
	}

	out := make([]RecipientResponse, 0, len(recipients))
	for i := range recipients {
		out = append(out, toResponse(&recipients[i]))
	}
	reqCtx.JSON(http.StatusOK, gin.H{"recipients": out})
}

// Get handles GET /v1/recipients/:id.
func (h *RecipientHandler) Get(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	id, ok := parseID(reqCtx)
	if !ok {
		return
	}

	rcpt, err := h.recipients.Get(ctx, id)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to load recipient")
		return
	}
	reqCtx.JSON(http.StatusOK, toResponse(rcpt))
}

// Update handles PUT /v1/recipients/:id.
func (h *RecipientHandler) Update(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	id, ok := parseID(reqCtx)
	if !ok {
		return
	}

	var req RecipientRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation,
			"invalid request body", "2c6e1f9d-8b4a-4578-a3c0-5d9f2e7b1846")
		return
	}

	rcpt := toDomain(&req)
	rcpt.ID = id
	if err := h.recipients.Update(ctx, rcpt); err != nil {
		responses.HandleError(reqCtx, err, "failed to update recipient")
		return
	}
	reqCtx.JSON(http.StatusOK, toResponse(rcpt))
}

// Delete handles DELETE /v1/recipients/:id.
func (h *RecipientHandler) Delete(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	id, ok := parseID(reqCtx)
	if !ok {
		return
	}

	if err := h.recipients.Remove(ctx, id); err != nil {
		responses.HandleError(reqCtx, err, "failed to delete recipient")
		return
	}
	reqCtx.Status(http.StatusNoContent)
}

func parseID(reqCtx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(reqCtx.Param("id"), 10, 32)
	if err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation,
			"invalid recipient id", "9a4d2e7f-1c8b-4350-b6d9-3e5f8a2c1674")
		return 0, false
	}
	return uint(id), true
}

func toDomain(req *RecipientRequest) *recipient.Recipient {
	rcpt := &recipient.Recipient{
		Name:              req.Name,
		DisplayName:       req.DisplayName,
		PhoneNumber:       req.PhoneNumber,
		CaretakerName:     req.CaretakerName,
		CaretakerPhone:    req.CaretakerPhone,
		PreferredLanguage: req.PreferredLanguage,
		Topics:            req.Topics,
		Active:            true,
	}
	if req.Active != nil {
		rcpt.Active = *req.Active
	}
	return rcpt
}

func toResponse(rcpt *recipient.Recipient) RecipientResponse {
	return RecipientResponse{
		ID:                rcpt.ID,
		Name:              rcpt.Name,
		DisplayName:       rcpt.DisplayName,
		PhoneNumber:       rcpt.PhoneNumber,
		CaretakerName:     rcpt.CaretakerName,
		CaretakerPhone:    rcpt.CaretakerPhone,
		PreferredLanguage: rcpt.PreferredLanguage,
		Topics:            rcpt.Topics,
		Active:            rcpt.Active,
		LastCheckSentAt:   rcpt.LastCheckSentAt,
		CreatedAt:         rcpt.CreatedAt,
		UpdatedAt:         rcpt.UpdatedAt,
	}
}
