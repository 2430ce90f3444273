package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds server-level parameters. These come from the environment
// (optionally via a .env file loaded in main) and are fixed for the
// process lifetime; the per-game Settings live in settings.go.
type Config struct {
	Host         string
	Port         int
	PacksDir     string
	SettingsPath string

	// AdminKey is the shared admin passphrase used when AdminJWKSURL is
	// not configured.
	AdminKey string

	// AdminJWKSURL switches admin authorization to JWT validation against
	// this JWKS endpoint when non-empty.
	AdminJWKSURL string
	AdminIssuer  string

	// DatabaseURL enables the Postgres history store when non-empty.
	DatabaseURL string

	// Bot pacing. Bots act through the same serialized action path as
	// humans, after these simulated thinking delays.
	BotSubmitDelayMS int
	BotFollowDelayMS int
	BotJudgeDelayMS  int

	MaxNameLength int
	MaxChatLength int
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		Host:             "0.0.0.0",
		Port:             3000,
		PacksDir:         "packs",
		SettingsPath:     "settings.json",
		AdminKey:         "kmadmin",
		BotSubmitDelayMS: 600,
		BotFollowDelayMS: 350,
		BotJudgeDelayMS:  900,
		MaxNameLength:    24,
		MaxChatLength:    220,
	}
}

// Load builds the server config from defaults plus environment overrides.
func Load() *Config {
	cfg := Defaults()

	overrideString(&cfg.Host, "HOST")
	overrideInt(&cfg.Port, "PORT")
	overrideString(&cfg.PacksDir, "PACKS_DIR")
	overrideString(&cfg.SettingsPath, "SETTINGS_PATH")
	overrideString(&cfg.AdminKey, "ADMIN_KEY")
	overrideString(&cfg.AdminJWKSURL, "ADMIN_JWKS_URL")
	overrideString(&cfg.AdminIssuer, "ADMIN_ISSUER")
	overrideString(&cfg.DatabaseURL, "DATABASE_URL")
	overrideInt(&cfg.BotSubmitDelayMS, "BOT_SUBMIT_DELAY_MS")
	overrideInt(&cfg.BotFollowDelayMS, "BOT_FOLLOW_DELAY_MS")
	overrideInt(&cfg.BotJudgeDelayMS, "BOT_JUDGE_DELAY_MS")
	overrideInt(&cfg.MaxNameLength, "MAX_NAME_LENGTH")
	overrideInt(&cfg.MaxChatLength, "MAX_CHAT_LENGTH")

	return cfg
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			log.Printf("Warning: invalid value for %s: %q", envKey, val)
		}
	}
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
