package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is everything the server reads from the environment (or .env).
type Config struct {
	Port        string
	GinMode     string
	DatabaseDSN string // empty means an in-memory sqlite database
	DBDebug     bool
	SeedDemo    bool

	JWTSecret     string
	TokenTTL      time.Duration
	AdminEmail    string
	AdminPassword string
	AdminName     string

	AllowedOrigins    []string
	LowStockThreshold int
	TerminalID        string

	RabbitMQURL      string
	RabbitMQExchange string
	GeminiAPIKey     string
	WebDir           string
}

// Load reads .env if present, then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		DatabaseDSN: os.Getenv("DB_DSN"),
		DBDebug:     getBool("DB_DEBUG", false),
		SeedDemo:    getBool("SEED_DEMO", true),

		JWTSecret:     getEnv("JWT_SECRET", "change-me-stockmaster-secret"),
		TokenTTL:      getDuration("TOKEN_TTL", 24*time.Hour),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		AdminName:     getEnv("ADMIN_NAME", "Admin User"),

		AllowedOrigins:    getList("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		LowStockThreshold: getInt("LOW_STOCK_THRESHOLD", 10),
		TerminalID:        os.Getenv("TERMINAL_ID"),

		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", "stockmaster"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		WebDir:           getEnv("WEB_DIR", "./web"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func getList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
