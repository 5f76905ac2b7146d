package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BackendURL string

	ListenAddr string

	StatePath string

	LogLevel string

	RequestTimeout time.Duration

	KafkaBrokers []string
	KafkaTopic   string
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		BackendURL:     os.Getenv("BACKEND_URL"),
		ListenAddr:     EnvDefault("LISTEN_ADDR", ":8090"),
		StatePath:      EnvDefault("STATE_PATH", "shop_client.db"),
		LogLevel:       EnvDefault("LOG_LEVEL", "info"),
		RequestTimeout: EnvDurationDefault("REQUEST_TIMEOUT", 10*time.Second),
		KafkaBrokers:   CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:     EnvDefault("KAFKA_TOPIC", "client_events"),
	}

	MustNonEmpty(cfg.BackendURL, "BACKEND_URL")

	return cfg, nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}
