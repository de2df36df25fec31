package config

import (
	"log"
	"os"
	"strconv"

	// this will automatically load your .env file:
	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Logs   LogConfig
	DB     PostgresConfig
	Engine EngineConfig
	Server ServerConfig
}

type LogConfig struct {
	Style string // "console" or "json"
	Level string // zerolog level name
}

type PostgresConfig struct {
	Username string
	Password string
	URL      string
	Port     string
}

type EngineConfig struct {
	Path               string
	MoveTime           int // milliseconds per analysis
	WatchdogFactor     int // upper-bound wait = movetime*factor + margin
	HandshakeTimeoutMS int
	QueueSize          int // pending requests/events per session
}

type ServerConfig struct {
	Addr string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Logs: LogConfig{
			Style: envString("LOG_STYLE", "console"),
			Level: envString("LOG_LEVEL", "info"),
		},
		DB: PostgresConfig{
			Username: os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PWD"),
			URL:      os.Getenv("POSTGRES_URL"),
			Port:     os.Getenv("POSTGRES_PORT"),
		},
		Engine: EngineConfig{
			Path:               envString("ENGINE_PATH", ""),
			MoveTime:           envInt("ENGINE_MOVE_TIME", 2000),
			WatchdogFactor:     envInt("ENGINE_WATCHDOG_FACTOR", 3),
			HandshakeTimeoutMS: envInt("ENGINE_HANDSHAKE_TIMEOUT_MS", 5000),
			QueueSize:          envInt("SESSION_QUEUE_SIZE", 16),
		},
		Server: ServerConfig{
			Addr: envString("SERVER_ADDR", ":8080"),
		},
	}

	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Error converting string to int: %s: %v", key, err)
	}
	return v
}
