package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                string
	DBPath              string
	LogLevel            string
	AIAPIKey            string
	AIBaseURL           string
	AIGradingModel      string
	AIGeneratorModel    string
	GenerationMaxCards  int
	DraftTTLHours       int
	JanitorIntervalMins int
	JanitorWorkerCount  int
	JanitorQueueSize    int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                envOr("ADDR", ":8080"),
		DBPath:              envOr("DB_PATH", "file:flashdeck.db"),
		LogLevel:            envOr("LOG_LEVEL", "INFO"),
		AIAPIKey:            envOr("AI_API_KEY", ""),
		AIBaseURL:           envOr("AI_BASE_URL", "https://api.openai.com/v1"),
		AIGradingModel:      envOr("AI_GRADING_MODEL", "gpt-4o-mini"),
		AIGeneratorModel:    envOr("AI_GENERATOR_MODEL", "gpt-4o-mini"),
		GenerationMaxCards:  envIntOr("GENERATION_MAX_CARDS", 20),
		DraftTTLHours:       envIntOr("DRAFT_TTL_HOURS", 72),
		JanitorIntervalMins: envIntOr("JANITOR_INTERVAL_MINS", 60),
		JanitorWorkerCount:  envIntOr("JANITOR_WORKER_COUNT", 1),
		JanitorQueueSize:    envIntOr("JANITOR_QUEUE_SIZE", 8),
	}
}

// Validate checks that the loaded configuration is usable.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.GenerationMaxCards < 1 {
		return fmt.Errorf("GENERATION_MAX_CARDS must be at least 1")
	}
	if c.DraftTTLHours < 1 {
		return fmt.Errorf("DRAFT_TTL_HOURS must be at least 1")
	}
	if c.JanitorIntervalMins < 1 {
		return fmt.Errorf("JANITOR_INTERVAL_MINS must be at least 1")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
