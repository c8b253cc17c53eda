package infrastructure

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"companion-server/internal/config"
	"companion-server/internal/domain/chat"
	"companion-server/internal/domain/companion"
	"companion-server/internal/domain/escalation"
	"companion-server/internal/domain/recipient"
	"companion-server/internal/domain/sentiment"
	"companion-server/internal/domain/wellness"
	"companion-server/internal/infrastructure/database"
	"companion-server/internal/infrastructure/database/repository/recipientrepo"
	"companion-server/internal/infrastructure/database/repository/sentimentrepo"
	"companion-server/internal/infrastructure/inference"
	"companion-server/internal/infrastructure/logger"
	"companion-server/internal/infrastructure/scheduler"
	"companion-server/internal/infrastructure/whatsapp"
)

// ProvideConfig loads and provides the application configuration
func ProvideConfig() (*config.Config, error) {
	return config.Load()
}

// ProvideDatabase opens the connection and runs migrations when enabled.
func ProvideDatabase(cfg *config.Config) (*gorm.DB, error) {
	log := logger.GetLogger()

	db, err := database.Connect(database.Config{DSN: cfg.DatabaseURL})
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		log.Info().Msg("running database migrations")
		if err := database.Migrate(db); err != nil {
			log.Error().Err(err).Msg("database migration failed")
			return nil, err
		}
	}
	return db, nil
}

// ProvideWhatsAppClient builds the Cloud API client from config.
func ProvideWhatsAppClient(cfg *config.Config) *whatsapp.Client {
	return whatsapp.NewClient(whatsapp.Config{
		BaseURL:       cfg.WhatsAppBaseURL,
		AccessToken:   cfg.WhatsAppAccessToken,
		PhoneNumberID: cfg.WhatsAppPhoneNumberID,
	})
}

func ProvideCompleter(client *inference.Client) chat.Completer {
	return client
}

func ProvideTransport(client *whatsapp.Client) companion.Transport {
	return client
}

func ProvideAlertSender(client *whatsapp.Client) escalation.AlertSender {
	return client
}

func ProvideWellnessSender(client *whatsapp.Client) wellness.Sender {
	return client
}

func ProvideRecipientRepository(repo *recipientrepo.Repository) recipient.Repository {
	return repo
}

func ProvideSentimentRepository(repo *sentimentrepo.Repository) sentiment.RecordRepository {
	return repo
}

// InfrastructureProvider provides all infrastructure dependencies
var InfrastructureProvider = wire.NewSet(
	ProvideConfig,
	ProvideDatabase,

	recipientrepo.NewRepository,
	sentimentrepo.NewRepository,
	ProvideRecipientRepository,
	ProvideSentimentRepository,

	inference.NewClient,
	ProvideCompleter,

	ProvideWhatsAppClient,
	ProvideTransport,
	ProvideAlertSender,
	ProvideWellnessSender,

	scheduler.NewScheduler,
)
