package interfaces

import (
	"github.com/google/wire"

	"companion-server/internal/interfaces/httpserver"
	"companion-server/internal/interfaces/httpserver/handlers/providerhandler"
	"companion-server/internal/interfaces/httpserver/handlers/recipienthandler"
	"companion-server/internal/interfaces/httpserver/handlers/sentimenthandler"
	"companion-server/internal/interfaces/httpserver/handlers/webhookhandler"
	"companion-server/internal/interfaces/httpserver/handlers/wellnesshandler"
	v1 "companion-server/internal/interfaces/httpserver/routes/v1"
)

var InterfacesProvider = wire.NewSet(
	webhookhandler.NewWebhookHandler,
	providerhandler.NewProviderHandler,
	recipienthandler.NewRecipientHandler,
	sentimenthandler.NewSentimentHandler,
	wellnesshandler.NewWellnessHandler,
	v1.NewV1Route,
	httpserver.NewHTTPServer,
)
