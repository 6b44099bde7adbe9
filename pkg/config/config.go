package config

import (
	"errors"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// BotConfig holds the configuration of the launcher bot.
type BotConfig struct {
	BotToken  string
	WebAppURL string
	Debug     bool
}

// LoadBotConfig loads the bot configuration from environment variables.
// It looks for a .env file first.
func LoadBotConfig() (*BotConfig, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		return nil, errors.New("BOT_TOKEN environment variable not set")
	}

	webAppURL := os.Getenv("WEB_APP_URL")
	if webAppURL == "" {
		log.Println("Warning: WEB_APP_URL environment variable not set. /start will not offer the app button.")
	}

	debugStr := os.Getenv("BOT_DEBUG")
	debug, err := strconv.ParseBool(debugStr)
	if err != nil {
		debug = false
		if debugStr != "" {
			log.Printf("Warning: Invalid value for BOT_DEBUG ('%s'). Defaulting to false.\n", debugStr)
		}
	}

	return &BotConfig{
		BotToken:  token,
		WebAppURL: webAppURL,
		Debug:     debug,
	}, nil
}
