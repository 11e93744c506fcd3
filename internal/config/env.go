package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Env struct {
	AppAddr string
	GinMode string

	DBDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	JWTExpiry time.Duration

	// Booking engine knobs.
	MaxPassengersPerBooking int
	MaxReserveAttempts      int
	ReserveBackoffBase      time.Duration
	PNRMaxAttempts          int
}

func LoadEnv() Env {
	return Env{
		AppAddr: getEnv("APP_ADDR", ":8080"),
		GinMode: strings.TrimSpace(os.Getenv("GIN_MODE")),

		DBDSN: getEnv("DB_DSN", "root:@tcp(127.0.0.1:3306)/railbook?parseTime=true&loc=UTC&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		JWTSecret: getEnv("JWT_SECRET", "super-secret-key-change-me"),
		JWTExpiry: getEnvAsDuration("JWT_EXPIRY", "24h"),

		MaxPassengersPerBooking: getEnvAsInt("MAX_PASSENGERS_PER_BOOKING", 6),
		MaxReserveAttempts:      getEnvAsInt("MAX_RESERVE_ATTEMPTS", 5),
		ReserveBackoffBase:      getEnvAsDuration("RESERVE_BACKOFF_BASE", "20ms"),
		PNRMaxAttempts:          getEnvAsInt("PNR_MAX_ATTEMPTS", 3),
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvAsDuration(key, defaultValue string) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	d, _ := time.ParseDuration(defaultValue)
	return d
}
