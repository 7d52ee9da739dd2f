package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pos_sales/api"
	"pos_sales/internal/catalog"
	"pos_sales/internal/config"
	"pos_sales/internal/jsonstore"
	"pos_sales/internal/notify"
	"pos_sales/internal/sales"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		panic(fmt.Errorf("error loading configuration: %v", err))
	}

	logger, err := newLogger(cfg.App)
	if err != nil {
		panic(fmt.Errorf("error creating logger: %v", err))
	}
	defer logger.Sync()

	productStorage, err := jsonstore.NewFile[catalog.Product](cfg.Storage.CatalogFile)
	if err != nil {
		logger.Fatal("failed to open catalog storage", zap.Error(err))
	}
	saleStorage, err := jsonstore.NewFile[sales.Sale](cfg.Storage.LedgerFile)
	if err != nil {
		logger.Fatal("failed to open ledger storage", zap.Error(err))
	}

	notifier := notify.New(logger, cfg.Notify.Timeout, channels(cfg, logger)...)

	catalogService := catalog.NewService(productStorage, logger)
	salesService := sales.NewService(sales.NewLedger(saleStorage), catalogService, notifier, logger, cfg.Reset.ConfirmTTL)

	if cfg.App.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	api.InitRoutes(r, catalogService, salesService, logger, api.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		SessionIdleTTL: cfg.Sessions.IdleTTL,
	})

	logger.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("port", cfg.App.Port),
		zap.String("catalog_file", cfg.Storage.CatalogFile),
		zap.String("ledger_file", cfg.Storage.LedgerFile),
		zap.Strings("notification_channels", notifier.Channels()),
	)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		panic(fmt.Errorf("error trying to start server: %v", err))
	}
}

func newLogger(app config.AppConfig) (*zap.Logger, error) {
	if app.Production() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// channels builds the notification channels whose credentials are configured.
func channels(cfg *config.Config, logger *zap.Logger) []notify.Channel {
	var chs []notify.Channel

	email := notify.EmailConfig{
		SMTPHost:      cfg.Email.SMTPHost,
		SMTPPort:      cfg.Email.SMTPPort,
		SMTPUsername:  cfg.Email.SMTPUsername,
		SMTPPassword:  cfg.Email.SMTPPassword,
		FromEmail:     cfg.Email.From,
		To:            cfg.Email.To,
		SubjectPrefix: cfg.Email.SubjectPrefix,
	}
	if email.Enabled() {
		chs = append(chs, notify.NewEmailChannel(email))
	} else {
		logger.Info("email notifications disabled: SMTP settings incomplete")
	}

	messaging := notify.MessagingConfig{
		BaseURL:    cfg.Messaging.APIURL,
		AccountSID: cfg.Messaging.AccountSID,
		AuthToken:  cfg.Messaging.AuthToken,
		From:       cfg.Messaging.From,
		To:         cfg.Messaging.To,
	}
	if messaging.Enabled() {
		chs = append(chs, notify.NewMessagingChannel(messaging))
	} else {
		logger.Info("messaging notifications disabled: API credentials incomplete")
	}

	return chs
}
