package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Gemini AI
	GeminiAPIKey        string
	GeminiBaseURL       string
	GeminiAPIVersion    string
	GeminiAllowedModels []string

	// HTTP
	CORSAllowedOrigins []string
	RateLimitPerMinute int
	StaticDir          string

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string
}

// Load reads the process environment once at startup. A missing GEMINI_API_KEY
// is not fatal here: the relay reports it on every request instead.
func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                getEnvOrDefault("PORT", "3000"),
		Env:                 getEnvOrDefault("ENV", "development"),
		GeminiAPIKey:        strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiBaseURL:       getEnvOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiAPIVersion:    getEnvOrDefault("GEMINI_API_VERSION", "v1"),
		GeminiAllowedModels: getEnvAsListOrDefault("GEMINI_ALLOWED_MODELS", []string{"gemini-1.5-pro"}),
		CORSAllowedOrigins:  getEnvAsListOrDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitPerMinute:  getEnvAsIntOrDefault("RATE_LIMIT_PER_MINUTE", 0),
		StaticDir:           getEnvOrDefault("STATIC_DIR", ""),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		LogFile:             getEnvOrDefault("LOG_FILE", ""),
	}

	return cfg
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

// getEnvAsListOrDefault splits a comma-separated value, dropping blank entries.
func getEnvAsListOrDefault(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
