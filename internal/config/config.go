// Package config centralises all environment configuration for the API.
// It should be imported only by `cmd/server` (and test code). Business-logic
// layers receive an already-built Config instance via dependency-injection.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime option the server needs.
// Keep it flat and simple—prefer primitive types over embedding structs.
type Config struct {
	// Network
	Port string

	// Data store
	MongoURI string
	DBName   string

	// Environment ("dev" enables console logging)
	AppEnv string

	// GitHub webhook
	WebhookSecret string // empty disables signature verification

	// Membership guard policy: authorize on store failure when true.
	MembershipFailOpen bool

	// Server tuning
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Load parses the environment (and an optional .env file) into Config.
// It panics on missing critical variables so mis-configurations fail fast.
func Load() Config {
	// godotenv.Load() is a no-op if .env doesn't exist—safe in production.
	_ = godotenv.Load()

	return Config{
		Port:               getEnv("PORT", "8080"),
		MongoURI:           must("MONGODB_URI"),
		DBName:             getEnv("MONGODB_DB", "ontrackr"),
		AppEnv:             getEnv("APP_ENV", "prod"),
		WebhookSecret:      os.Getenv("GITHUB_WEBHOOK_SECRET"),
		MembershipFailOpen: getBool("MEMBERSHIP_FAIL_OPEN", true),
		ReadTimeout:        getDuration("READ_TIMEOUT_SEC", 5),
		WriteTimeout:       getDuration("WRITE_TIMEOUT_SEC", 10),
	}
}

// must fetches a required env var or terminates the program.
func must(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("env var %s is required", key)
	}
	return val
}

// getEnv returns env[key] if set, otherwise defaultVal.
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getBool reads a boolean from env, falling back to defaultVal.
func getBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid %s=%q; using default %t", key, v, defaultVal)
	}
	return defaultVal
}

// getDuration reads an integer (seconds) from env, falling back to defaultSec.
func getDuration(key string, defaultSec int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if sec, err := strconv.Atoi(v); err == nil {
			return time.Duration(sec) * time.Second
		}
		log.Printf("invalid %s=%q; using default %ds", key, v, defaultSec)
	}
	return time.Duration(defaultSec) * time.Second
}
