package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config collects the environment settings the service runs with
type Config struct {
	Port string

	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioWhatsAppFrom string // "whatsapp:+14155238886"

	// PublicBaseURL is the externally reachable address of this service,
	// used to build media URLs for outbound photo messages.
	PublicBaseURL string
	MediaDir      string

	UseMemoryStore bool

	// SessionTTL enables idle dialog expiry when positive; zero keeps
	// abandoned sessions resident, matching the default behavior.
	SessionTTL time.Duration
}

// Load reads configuration from the environment, with .env as a fallback
// for local development
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Port:               os.Getenv("PORT"),
		TwilioAccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppFrom: os.Getenv("TWILIO_WHATSAPP_FROM"),
		PublicBaseURL:      os.Getenv("PUBLIC_BASE_URL"),
		MediaDir:           os.Getenv("MEDIA_DIR"),
		UseMemoryStore:     os.Getenv("USE_MEMORY_STORE") == "true",
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.MediaDir == "" {
		cfg.MediaDir = "media"
	}

	if raw := os.Getenv("SESSION_TTL_MINUTES"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes < 0 {
			return nil, fmt.Errorf("invalid SESSION_TTL_MINUTES %q", raw)
		}
		cfg.SessionTTL = time.Duration(minutes) * time.Minute
	}

	return cfg, nil
}

// TwilioConfigured reports whether outbound messaging can be set up
func (c *Config) TwilioConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioWhatsAppFrom != ""
}
