package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port       string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret    string
	JWTExpiresIn string // minutes

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// BroadcastScope selects room-scoped delivery ("room", the default) or a
	// broadcast to every connected client ("global"). Global exists only for
	// compatibility; room is the correct behavior.
	BroadcastScope string

	// AdvanceEvery is the cron spec for the room status sweep.
	AdvanceEvery string

	// SeedDemo creates a demo host and room on startup for local development.
	SeedDemo bool
}

func Load() *Config {
	return &Config{
		Port:       getenv("PORT", "8080"),
		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     getenv("DB_USER", "postgres"),
		DBPassword: getenv("DB_PASSWORD", "postgres"),
		DBName:     getenv("DB_NAME", "roomloop_db"),
		DBSSLMode:  getenv("DB_SSLMODE", "disable"),

		JWTSecret:    getenv("JWT_SECRET", "supersecret_change_me"),
		JWTExpiresIn: getenv("JWT_EXPIRES_IN", "60"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),

		BroadcastScope: getenv("BROADCAST_SCOPE", "room"),
		AdvanceEvery:   getenv("ROOM_ADVANCE_EVERY", "@every 1m"),

		SeedDemo: getenv("SEED_DEMO", "false") == "true",
	}
}

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getint(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
