package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AIConfig struct {
	Provider          string
	APIKey            string
	Model             string
	MaxTokens         int
	Timeout           time.Duration
	QuestionsPerRound int
	PromptsFile       string
}

type Config struct {
	Port               int
	GinMode            string
	DB                 DBConfig
	Redis              RedisConfig
	AccessTokenSecret  string
	AI                 AIConfig
	CORSAllowedOrigins []string
	LogLevel           string
	LogFormat          string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables take precedence over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		GinMode:   getEnv("GIN_MODE", "release"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.Port, err = getInt("PORT", 8080); err != nil {
		return nil, err
	}

	for _, req := range []struct {
		key string
		dst *string
	}{
		{"DB_HOST", &cfg.DB.Host},
		{"DB_PORT", &cfg.DB.Port},
		{"DB_USERNAME", &cfg.DB.User},
		{"DB_PASSWORD", &cfg.DB.Password},
		{"DB_DATABASE", &cfg.DB.Database},
		{"ACCESS_TOKEN_SECRET", &cfg.AccessTokenSecret},
	} {
		*req.dst = os.Getenv(req.key)
		if *req.dst == "" {
			return nil, fmt.Errorf("%s environment variable is required", req.key)
		}
	}
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if cfg.Redis.DB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}

	cfg.AI.Provider = strings.ToLower(getEnv("AI_PROVIDER", "anthropic"))
	cfg.AI.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.AI.Model = os.Getenv("AI_MODEL")
	cfg.AI.PromptsFile = os.Getenv("PROMPTS_FILE")

	if cfg.AI.MaxTokens, err = getInt("AI_MAX_TOKENS", 8192); err != nil {
		return nil, err
	}

	timeoutSec, err := getInt("AI_TIMEOUT_SEC", 120)
	if err != nil {
		return nil, err
	}
	cfg.AI.Timeout = time.Duration(timeoutSec) * time.Second

	if cfg.AI.QuestionsPerRound, err = getInt("QUESTIONS_PER_ROUND", 5); err != nil {
		return nil, err
	}
	if cfg.AI.QuestionsPerRound < 1 {
		return nil, fmt.Errorf("QUESTIONS_PER_ROUND must be at least 1")
	}

	switch cfg.AI.Provider {
	case "anthropic":
		if cfg.AI.APIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is required when AI_PROVIDER=anthropic")
		}
	case "mock":
	default:
		return nil, fmt.Errorf("AI_PROVIDER must be 'anthropic' or 'mock', got %q", cfg.AI.Provider)
	}

	for _, origin := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}

// ConfigureLogging applies LOG_LEVEL and LOG_FORMAT to the standard logrus logger.
func (c *Config) ConfigureLogging() error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	log.SetLevel(level)

	switch c.LogFormat {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("LOG_FORMAT must be 'text' or 'json', got %q", c.LogFormat)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
