package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// JWT
	JWTSecret            string
	AccessTokenTTLMin    int
	RefreshTokenTTLHours int

	// Bootstrap admin account, created at startup when absent
	AdminUsername string
	AdminPassword string

	// CORS
	AllowedOrigin string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                 getEnvOrDefault("PORT", "8080"),
		Env:                  getEnvOrDefault("ENV", "development"),
		DatabaseURL:          mustGetEnv("DATABASE_URL"),
		RedisURL:             mustGetEnv("REDIS_URL"),
		JWTSecret:            mustGetEnv("JWT_SECRET"),
		AccessTokenTTLMin:    getEnvAsIntOrDefault("ACCESS_TOKEN_TTL_MINUTES", 15),
		RefreshTokenTTLHours: getEnvAsIntOrDefault("REFRESH_TOKEN_TTL_HOURS", 168),
		AdminUsername:        getEnvOrDefault("ADMIN_USERNAME", ""),
		AdminPassword:        getEnvOrDefault("ADMIN_PASSWORD", ""),
		AllowedOrigin:        getEnvOrDefault("ALLOWED_ORIGIN", "*"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
