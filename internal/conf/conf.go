package conf

import (
	"os"
	"path/filepath"
)

// Config represents application configuration.
type Config struct {
	// Telegram bot token
	BotToken string

	// Path to the SQLite database file
	DBPath string

	// Path to the bot texts YAML (quotes, toasts); optional
	TextsPath string

	// Debug mode
	Debug bool
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() *Config {
	dbPath := os.Getenv("BOT_DB_PATH")
	if dbPath == "" {
		homeDir, _ := os.UserHomeDir()
		dbPath = filepath.Join(homeDir, ".kniga-bratan", "bot.db")
	}

	return &Config{
		BotToken:  os.Getenv("BOT_TOKEN"),
		DBPath:    dbPath,
		TextsPath: os.Getenv("TEXTS_CONFIG_PATH"),
		Debug:     os.Getenv("DEBUG") == "true",
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return &ConfigError{Field: "BOT_TOKEN", Message: "required"}
	}
	return nil
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
