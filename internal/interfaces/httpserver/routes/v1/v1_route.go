package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"companion-server/internal/config"
	"companion-server/internal/interfaces/httpserver/handlers/providerhandler"
	"companion-server/internal/interfaces/httpserver/handlers/recipienthandler"
	"companion-server/internal/interfaces/httpserver/handlers/sentimenthandler"
	"companion-server/internal/interfaces/httpserver/handlers/wellnesshandler"
)

type V1Route struct {
	provider  *providerhandler.ProviderHandler
	recipient *recipienthandler.RecipientHandler
	sentiment *sentimenthandler.SentimentHandler
	wellness  *wellnesshandler.WellnessHandler
}

func NewV1Route(
	provider *providerhandler.ProviderHandler,
	recipient *recipienthandler.RecipientHandler,
	sentiment *sentimenthandler.SentimentHandler,
	wellness *wellnesshandler.WellnessHandler,
) *V1Route {
	return &V1Route{
		provider,
		recipient,
		sentiment,
		wellness,
	}
}

func (v1Route *V1Route) RegisterRouter(router gin.IRouter) {
	v1Router := router.Group("/v1")
	v1Router.GET("/version", GetVersion)

	providers := v1Router.Group("/providers")
	providers.GET("", v1Route.provider.Status)
	providers.POST("/primary", v1Route.provider.SwitchPrimary)

	recipients := v1Router.Group("/recipients")
	recipients.POST("", v1Route.recipient.Create)
	recipients.GET("", v1Route.recipient.List)
	recipients.GET("/:id", v1Route.recipient.Get)
	recipients.PUT("/:id", v1Route.recipient.Update)
	recipients.DELETE("/:id", v1Route.recipient.Delete)

	sentiments := v1Router.Group("/sentiments")
	sentiments.GET("/overview", v1Route.sentiment.Overview)
	sentiments.GET("/history/:phone", v1Route.sentiment.History)
	sentiments.GET("/trend/:phone", v1Route.sentiment.Trend)
	sentiments.GET("/attention", v1Route.sentiment.Attention)

	wellnessGroup := v1Router.Group("/wellness")
	wellnessGroup.POST("/send/:id", v1Route.wellness.SendOne)
	wellnessGroup.POST("/dispatch", v1Route.wellness.SendAll)
}

// GetVersion reports the build version.
func GetVersion(reqCtx *gin.Context) {
	reqCtx.JSON(http.StatusOK, gin.H{"version": config.Version})
}
