// Package config centralises all environment / file configuration for the API.
// It should be imported only by `cmd/server` (and test code). Business‑logic
// layers receive an already‑built Config instance via dependency‑injection.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Supported LLM providers.
const (
	ProviderGemini = "gemini"
	ProviderVertex = "vertex"
	ProviderOllama = "ollama"
	ProviderDummy  = "dummy"
)

// Config holds every runtime option the server needs.
// Keep it flat and simple; prefer primitive types over embedding structs.
type Config struct {
	// Network
	Port        string
	CORSOrigins string
	MaxUploadMB int

	// Server tuning
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// LLM
	LLMProvider    string
	LLMTemperature float32
	GeminiAPIKey   string
	GeminiModel    string
	GeminiBaseURL  string

	// Vertex AI
	ProjectID       string
	Location        string
	CredentialsFile string

	// Ollama
	OllamaHost  string
	OllamaModel string

	// Event log (optional)
	MongoURI string
	DBName   string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load parses the environment (and an optional .env / config file) into Config.
// It terminates the process on missing critical variables so mis‑configurations fail fast.
func Load() Config {
	cfg, err := Parse()
	if err != nil {
		logrus.Fatalf("configuration: %v", err)
	}
	return cfg
}

// Parse is Load without the exit, so callers and tests can inspect the error.
func Parse() (Config, error) {
	// godotenv.Load() is a no‑op if .env doesn't exist.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	cfg := Config{
		Port:            v.GetString("PORT"),
		CORSOrigins:     v.GetString("CORS_ORIGINS"),
		MaxUploadMB:     v.GetInt("MAX_UPLOAD_MB"),
		ReadTimeout:     seconds(v, "READ_TIMEOUT_SEC"),
		WriteTimeout:    seconds(v, "WRITE_TIMEOUT_SEC"),
		LLMProvider:     strings.ToLower(v.GetString("LLM_PROVIDER")),
		LLMTemperature:  float32(v.GetFloat64("LLM_TEMPERATURE")),
		GeminiAPIKey:    v.GetString("GEMINI_API_KEY"),
		GeminiModel:     v.GetString("GEMINI_MODEL"),
		GeminiBaseURL:   v.GetString("GEMINI_BASE_URL"),
		ProjectID:       v.GetString("GCP_PROJECT_ID"),
		Location:        v.GetString("GCP_LOCATION"),
		CredentialsFile: v.GetString("GOOGLE_APPLICATION_CREDENTIALS"),
		OllamaHost:      v.GetString("OLLAMA_HOST"),
		OllamaModel:     v.GetString("OLLAMA_MODEL"),
		MongoURI:        v.GetString("MONGODB_URI"),
		DBName:          v.GetString("MONGODB_DB"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// BodyLimit is the maximum accepted request body in bytes.
func (c Config) BodyLimit() int {
	return c.MaxUploadMB * 1024 * 1024
}

func (c Config) validate() error {
	switch c.LLMProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("env var GEMINI_API_KEY is required")
		}
	case ProviderVertex:
		if c.ProjectID == "" {
			return fmt.Errorf("env var GCP_PROJECT_ID is required for the vertex provider")
		}
	case ProviderOllama:
		if c.OllamaHost == "" {
			return fmt.Errorf("env var OLLAMA_HOST is required for the ollama provider")
		}
	case ProviderDummy:
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8000")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("MAX_UPLOAD_MB", 4)
	v.SetDefault("READ_TIMEOUT_SEC", 10)
	v.SetDefault("WRITE_TIMEOUT_SEC", 120)
	v.SetDefault("LLM_PROVIDER", ProviderGemini)
	v.SetDefault("LLM_TEMPERATURE", 0.7)
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/")
	v.SetDefault("GCP_LOCATION", "us-central1")
	v.SetDefault("OLLAMA_HOST", "http://localhost:11434")
	v.SetDefault("OLLAMA_MODEL", "llama3")
	v.SetDefault("MONGODB_DB", "code_analyzer")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// seconds reads an integer (seconds) from config; invalid values fall back to the default.
func seconds(v *viper.Viper, key string) time.Duration {
	sec := v.GetInt(key)
	if sec <= 0 {
		logrus.Warnf("invalid %s=%q; using default", key, v.GetString(key))
		sec = 10
	}
	return time.Duration(sec) * time.Second
}
