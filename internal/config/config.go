package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Storage   StorageConfig
	Notify    NotifyConfig
	Email     EmailConfig
	Messaging MessagingConfig
	CORS      CORSConfig
	Reset     ResetConfig
	Sessions  SessionConfig
}

type AppConfig struct {
	Name string
	Env  string
	Port string
}

// Production reports whether the app runs with release settings.
func (c AppConfig) Production() bool {
	return c.Env == "production"
}

type StorageConfig struct {
	CatalogFile string
	LedgerFile  string
}

type NotifyConfig struct {
	Timeout time.Duration
}

type EmailConfig struct {
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	From          string
	To            []string
	SubjectPrefix string
}

type MessagingConfig struct {
	APIURL     string
	AccountSID string
	AuthToken  string
	From       string
	To         string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type ResetConfig struct {
	ConfirmTTL time.Duration
}

type SessionConfig struct {
	IdleTTL time.Duration
}

// Load reads envFile when it exists, then environment variables, which win.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
			}
		}
	}

	// Set defaults
	v.SetDefault("APP_NAME", "pos-sales")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8081")
	v.SetDefault("CATALOG_FILE", "data/products.json")
	v.SetDefault("LEDGER_FILE", "data/sales.json")
	v.SetDefault("NOTIFY_TIMEOUT_SECONDS", 10)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("EMAIL_SUBJECT_PREFIX", "[POS]")
	v.SetDefault("MESSAGING_API_URL", "https://api.twilio.com")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:8501")
	v.SetDefault("RESET_CONFIRM_TTL_SECONDS", 60)
	v.SetDefault("SESSION_IDLE_TTL_SECONDS", 1800)

	return &Config{
		App: AppConfig{
			Name: v.GetString("APP_NAME"),
			Env:  v.GetString("APP_ENV"),
			Port: v.GetString("APP_PORT"),
		},
		Storage: StorageConfig{
			CatalogFile: v.GetString("CATALOG_FILE"),
			LedgerFile:  v.GetString("LEDGER_FILE"),
		},
		Notify: NotifyConfig{
			Timeout: time.Duration(v.GetInt("NOTIFY_TIMEOUT_SECONDS")) * time.Second,
		},
		Email: EmailConfig{
			SMTPHost:      v.GetString("SMTP_HOST"),
			SMTPPort:      v.GetInt("SMTP_PORT"),
			SMTPUsername:  v.GetString("SMTP_USERNAME"),
			SMTPPassword:  v.GetString("SMTP_PASSWORD"),
			From:          v.GetString("EMAIL_FROM"),
			To:            splitList(v.GetString("EMAIL_TO")),
			SubjectPrefix: v.GetString("EMAIL_SUBJECT_PREFIX"),
		},
		Messaging: MessagingConfig{
			APIURL:     v.GetString("MESSAGING_API_URL"),
			AccountSID: v.GetString("MESSAGING_ACCOUNT_SID"),
			AuthToken:  v.GetString("MESSAGING_AUTH_TOKEN"),
			From:       v.GetString("MESSAGING_FROM"),
			To:         v.GetString("MESSAGING_TO"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Reset: ResetConfig{
			ConfirmTTL: time.Duration(v.GetInt("RESET_CONFIRM_TTL_SECONDS")) * time.Second,
		},
		Sessions: SessionConfig{
			IdleTTL: time.Duration(v.GetInt("SESSION_IDLE_TTL_SECONDS")) * time.Second,
		},
	}, nil
}

// splitList splits a comma separated value, dropping blanks.
func splitList(value string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
