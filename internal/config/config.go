package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
	_ "time/tzdata" // provided.al2 images ship without zoneinfo

	"github.com/joho/godotenv"
)

// Config holds the settings shared by the bot, api and worker binaries.
type Config struct {
	BooksTable        string
	ReservationsTable string
	IdempotencyTable  string
	EventsQueueURL    string
	MetricsNamespace  string

	// TimeZone names the zone reservation dates are computed and formatted in.
	TimeZone string
	Location *time.Location

	ReservationDays int
	IdempotencyTTL  time.Duration

	Port     string
	RunLocal bool
}

// Load reads the configuration from the environment. When RUN_LOCAL=true a
// .env file is loaded first if one can be found.
func Load() (*Config, error) {
	runLocal := os.Getenv("RUN_LOCAL") == "true"
	if runLocal {
		for _, path := range []string{".env", "../.env", "../../.env"} {
			if err := godotenv.Load(path); err == nil {
				log.Printf("[config] loaded %s", path)
				break
			}
		}
	}

	cfg := &Config{
		BooksTable:        getEnv("BOOKS_TABLE", "books"),
		ReservationsTable: getEnv("RESERVATIONS_TABLE", "reservation"),
		IdempotencyTable:  getEnv("IDEMPOTENCY_TABLE", "idempotency"),
		EventsQueueURL:    os.Getenv("RESERVATION_EVENTS_QUEUE_URL"),
		MetricsNamespace:  getEnv("METRICS_NAMESPACE", "BookReservationBot"),
		TimeZone:          getEnv("BOT_TIMEZONE", "America/New_York"),
		Port:              getEnv("PORT", "8080"),
		RunLocal:          runLocal,
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", cfg.TimeZone, err)
	}
	cfg.Location = loc

	days, err := strconv.Atoi(getEnv("RESERVATION_DAYS", "7"))
	if err != nil || days < 1 {
		return nil, fmt.Errorf("invalid RESERVATION_DAYS %q", os.Getenv("RESERVATION_DAYS"))
	}
	cfg.ReservationDays = days

	ttl, err := time.ParseDuration(getEnv("IDEMPOTENCY_TTL", "48h"))
	if err != nil {
		return nil, fmt.Errorf("invalid IDEMPOTENCY_TTL: %w", err)
	}
	cfg.IdempotencyTTL = ttl

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}
