package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultVerifyToken is the webhook verification token the platform is
// registered with. Overridable via WEBHOOK_VERIFY_TOKEN.
const DefaultVerifyToken = "summy_webhook_verify_token_2025"

// Config is the process-wide configuration, loaded once at startup.
type Config struct {
	AccessToken       string
	AppSecret         string
	BusinessAccountID string
	VerifyToken       string
	Port              string
	LogFile           string
	KafkaBrokers      []string
}

// Load reads configuration from the environment. A .env file in the
// working directory is honored when present; missing files are fine.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AccessToken:       os.Getenv("INSTAGRAM_ACCESS_TOKEN"),
		AppSecret:         os.Getenv("INSTAGRAM_APP_SECRET"),
		BusinessAccountID: os.Getenv("INSTAGRAM_BUSINESS_ACCOUNT_ID"),
		VerifyToken:       getenv("WEBHOOK_VERIFY_TOKEN", DefaultVerifyToken),
		Port:              ":" + getenv("PORT", "5001"),
		LogFile:           getenv("MESSAGES_LOG_FILE", "messages.txt"),
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	return cfg
}

// AccessTokenConfigured reports whether the platform access token is set.
// The status API exposes this as a boolean, never the value itself.
func (c *Config) AccessTokenConfigured() bool { return c.AccessToken != "" }

// AppSecretConfigured reports whether the webhook signing secret is set.
func (c *Config) AppSecretConfigured() bool { return c.AppSecret != "" }

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
