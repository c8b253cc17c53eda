package webhookhandler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"companion-server/internal/config"
)

func verifyRouter(token string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewWebhookHandler(nil, &config.Config{WebhookVerifyToken: token})
	router := gin.New()
	router.GET("/webhook", handler.Verify)
	return router
}

func TestVerifyAcceptsMatchingToken(t *testing.T) {
	router := verifyRouter("secret-token")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=secret-token&hub.challenge=12345", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "12345", w.Body.String())
}

func TestVerifyRejectsWrongToken(t *testing.T) {
	router := verifyRouter("secret-token")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NotContains(t, w.Body.String(), "12345")
}

func TestVerifyRejectsMissingMode(t *testing.T) {
	router := verifyRouter("secret-token")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.verify_token=secret-token&hub.challenge=12345", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
