package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultBaseURL is the deployed chatbot backend.
const DefaultBaseURL = "https://chatbot-backend-822791247982.us-central1.run.app"

// EnvBaseURL overrides the backend URL at run time.
const EnvBaseURL = "CHATBOT_API_URL"

// buildBaseURL can be set at link time:
//
//	go build -ldflags "-X PortfolioChat/internal/config.buildBaseURL=https://..."
var buildBaseURL string

// Config holds application configuration
type Config struct {
	BaseURL   string // Chatbot backend, without trailing slash
	StorePath string // SQLite file holding the session identifier
	Ephemeral bool   // Keep the session identifier in memory only
	LogDir    string
	Debug     bool
}

// Load returns the defaults, with the base URL resolved from the build, an
// optional .env file, and the environment, in increasing priority.
// godotenv never overwrites variables that are already set.
func Load() Config {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	return Config{
		BaseURL:   ResolveBaseURL(os.Getenv(EnvBaseURL)),
		StorePath: "chatbot.db",
		LogDir:    "logs",
	}
}

// ResolveBaseURL picks override if set, then the link-time URL, then the default.
func ResolveBaseURL(override string) string {
	url := DefaultBaseURL
	if buildBaseURL != "" {
		url = buildBaseURL
	}
	if v := strings.TrimSpace(override); v != "" {
		url = v
	}
	return strings.TrimRight(url, "/")
}
