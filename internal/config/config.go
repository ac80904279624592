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

	// MongoDB
	MongoURL string
	MongoDB  string

	// Redis
	RedisURL string

	// Ollama
	OllamaHost           string
	OllamaModel          string
	OllamaTimeoutSeconds int

	// Model decoding parameters — static configuration, never tuned per request
	OllamaNumPredict  int
	OllamaTemperature float64
	OllamaNumCtx      int
	OllamaTopP        float64

	// Rate limiting
	ChatRateLimit int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:     getEnvOrDefault("PORT", "8080"),
		Env:      getEnvOrDefault("ENV", "development"),
		MongoURL: mustGetEnv("MONGO_URL"),
		MongoDB:  getEnvOrDefault("MONGO_DB", "portfolio_chat"),
		RedisURL: mustGetEnv("REDIS_URL"),

		OllamaHost:           getEnvOrDefault("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:          getEnvOrDefault("OLLAMA_MODEL", "tinyllama:1.1b-q4_0"),
		OllamaTimeoutSeconds: getEnvAsIntOrDefault("OLLAMA_TIMEOUT_SECONDS", 30),

		OllamaNumPredict:  getEnvAsIntOrDefault("OLLAMA_NUM_PREDICT", 150),
		OllamaTemperature: getEnvAsFloatOrDefault("OLLAMA_TEMPERATURE", 0.7),
		OllamaNumCtx:      getEnvAsIntOrDefault("OLLAMA_NUM_CTX", 512),
		OllamaTopP:        getEnvAsFloatOrDefault("OLLAMA_TOP_P", 0.9),

		ChatRateLimit: getEnvAsIntOrDefault("CHAT_RATE_LIMIT", 30),
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

func getEnvAsFloatOrDefault(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
}
