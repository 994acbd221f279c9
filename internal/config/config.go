package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	DBPath          string
	SessionLifetime time.Duration
	CORSOrigins     []string
}

// Load reads a .env file when present, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		Addr:        getEnv("BRACKET_ADDR", ":8080"),
		DBPath:      getEnv("BRACKET_DB_PATH", "brackets.db"),
		CORSOrigins: splitList(getEnv("BRACKET_CORS_ORIGINS", "*")),
	}

	lifetime, err := time.ParseDuration(getEnv("BRACKET_SESSION_LIFETIME", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid BRACKET_SESSION_LIFETIME: %w", err)
	}
	cfg.SessionLifetime = lifetime

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
