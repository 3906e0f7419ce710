// Package conf loads application configuration from the environment.
package conf

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"zonebot/internal/keychain"
)

// Config represents application configuration.
type Config struct {
	// Telegram configuration
	Telegram TelegramConfig

	// Cloudflare configuration
	Cloudflare CloudflareConfig

	// Whitelist store configuration
	DBPath string

	// HTTP server configuration
	HTTP HTTPConfig

	// Debug mode
	Debug bool
}

// TelegramConfig contains Telegram configuration.
type TelegramConfig struct {
	BotToken string
	// AllowedChatID is the single group/supergroup chat permitted to
	// issue commands. Kept raw here; the access guard normalizes it.
	AllowedChatID string
}

// CloudflareConfig contains Cloudflare credentials. Either an API token or
// the legacy email/global-key pair must be set.
type CloudflareConfig struct {
	Token        string
	Email        string
	GlobalAPIKey string
	AccountID    string
}

// HTTPConfig contains the notify relay and admin API configuration.
type HTTPConfig struct {
	Port         int
	NotifySecret string
	AdminToken   string
}

// LoadFromEnv loads configuration from environment variables. Secrets
// absent from the environment fall back to the system keychain.
func LoadFromEnv() *Config {
	port := 3000
	if val := os.Getenv("PORT"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			port = parsed
		}
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		homeDir, _ := os.UserHomeDir()
		dbPath = filepath.Join(homeDir, ".zonebot", "users.db")
	}

	return &Config{
		Telegram: TelegramConfig{
			BotToken:      secret("TELEGRAM_TOKEN", "telegram-token"),
			AllowedChatID: os.Getenv("ALLOWED_CHAT_ID"),
		},
		Cloudflare: CloudflareConfig{
			Token:        secret("CLOUDFLARE_TOKEN", "cloudflare-token"),
			Email:        os.Getenv("CF_EMAIL"),
			GlobalAPIKey: os.Getenv("CF_GLOBAL_API_KEY"),
			AccountID:    os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
		},
		DBPath: dbPath,
		HTTP: HTTPConfig{
			Port:         port,
			NotifySecret: os.Getenv("NOTIFY_SECRET"),
			AdminToken:   secret("ADMIN_TOKEN", "admin-token"),
		},
		Debug: os.Getenv("DEBUG") == "true",
	}
}

// Validate checks that the required credentials are present.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return errors.New("TELEGRAM_TOKEN is required")
	}
	if c.Cloudflare.Token == "" && (c.Cloudflare.Email == "" || c.Cloudflare.GlobalAPIKey == "") {
		return errors.New("CLOUDFLARE_TOKEN or CF_EMAIL + CF_GLOBAL_API_KEY is required")
	}
	return nil
}

// secret reads an environment variable, falling back to the system
// keychain account when unset.
func secret(envName, account string) string {
	if v := os.Getenv(envName); v != "" {
		return v
	}
	v, err := keychain.Get(account)
	if err != nil {
		return ""
	}
	return v
}
