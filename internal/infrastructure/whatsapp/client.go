// Package whatsapp sends outbound messages through the WhatsApp Business
// Cloud API.
package whatsapp

import (
	"context"
	"fmt"
	"strings"

	"resty.dev/v3"

	"companion-server/internal/infrastructure/logger"
	"companion-server/internal/utils/httpclients"
	"companion-server/internal/utils/phone"
	"companion-server/internal/utils/platformerrors"
)

// Config carries the Cloud API credentials.
type Config struct {
	BaseURL       string
	AccessToken   string
	PhoneNumberID string
}

// Client posts text messages to the Graph API messages endpoint. It satisfies
// the outbound transport of the companion, escalation and wellness services.
type Client struct {
	cfg   Config
	resty *resty.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:   cfg,
		resty: httpclients.NewClient("whatsappClient"),
	}
}

type textPayload struct {
	MessagingProduct string   `json:"messaging_product"`
	RecipientType    string   `json:"recipient_type"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// SendMessage delivers one text message to a phone number in any formatting.
func (c *Client) SendMessage(ctx context.Context, toPhone, body string) error {
	payload := textPayload{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               phone.Normalize(toPhone),
		Type:             "text",
		Text:             textBody{Body: body},
	}

	var result sendResponse
	var errBody apiError
	resp, err := c.resty.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", c.cfg.AccessToken)).
		SetBody(payload).
		SetResult(&result).
		SetError(&errBody).
		Post(c.messagesEndpoint())
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"whatsapp send failed", err, "0c7e5d1b-8f4a-4296-a3d0-6b9f2c8e5147")
	}
	if resp.IsError() {
		msg := fmt.Sprintf("whatsapp api returned status %d", resp.StatusCode())
		if errBody.Error.Message != "" {
			msg = fmt.Sprintf("%s: %s", msg, errBody.Error.Message)
		}
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			msg, nil, "6e2a9f4c-1d8b-4573-b0e6-4c7f1a3d9285")
	}

	if len(result.Messages) > 0 {
		log := logger.GetLogger()
		log.Debug().
			Str("message_id", result.Messages[0].ID).
			Str("to", payload.To).
			Msg("whatsapp message accepted")
	}
	return nil
}

func (c *Client) messagesEndpoint() string {
	return fmt.Sprintf("%s/%s/messages", strings.TrimSuffix(c.cfg.BaseURL, "/"), c.cfg.PhoneNumberID)
}
