package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Model backends.
const (
	BackendHuggingFace = "huggingface"
	BackendGemini      = "gemini"
	BackendOpenRouter  = "openrouter"
)

type Config struct {
	Port           string `validate:"required,numeric"`
	FrontendOrigin string `validate:"required,url"`
	LogLevel       string `validate:"oneof=debug info warn error"`

	// Optional bearer key for the jobs and stats routes.
	APIKey string

	// Upload limits
	MaxUploadBytes int64 `validate:"gt=0"`

	// Chunking
	ChunkSize int `validate:"gt=0"`

	// Summarization model
	ModelBackend string        `validate:"oneof=huggingface gemini openrouter"`
	ModelTimeout time.Duration `validate:"gte=0"`

	HFAPIToken string
	HFBaseURL  string `validate:"required,url"`
	HFModel    string `validate:"required"`

	GeminiAPIKey string
	GeminiModel  string

	OpenRouterAPIKey  string
	OpenRouterBaseURL string `validate:"omitempty,url"`
	OpenRouterModel   string

	// Cloud Vision; empty uses application default credentials.
	VisionCredentialsFile string

	// Summarizer
	MaxConcurrentSummaries int           `validate:"gt=0"`
	SummaryCacheSize       int           `validate:"gte=0"`
	SummaryCacheTTL        time.Duration `validate:"gt=0"`

	// Async jobs
	WorkerCount  int           `validate:"gt=0"`
	MaxQueueSize int           `validate:"gt=0"`
	JobTTL       time.Duration `validate:"gt=0"`

	// PDF
	PDFFallbackPdftotext bool
}

// Load reads configuration from the environment. Variables from ENV_FILE
// (default .env) are applied first when the file exists; real environment
// variables win over the file. A file that exists but cannot be parsed is
// an error.
func Load() (Config, error) {
	envFile := envOr("ENV_FILE", ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := Config{
		Port:           envOr("PORT", "5000"),
		FrontendOrigin: envOr("FRONTEND_ORIGIN", "http://localhost:5173"),
		LogLevel:       strings.ToLower(envOr("LOG_LEVEL", "info")),

		APIKey: os.Getenv("API_KEY"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 20*1024*1024), // 20MB

		ChunkSize: envInt("CHUNK_SIZE", 500),

		ModelBackend: strings.ToLower(envOr("MODEL_BACKEND", BackendHuggingFace)),
		ModelTimeout: envDuration("MODEL_TIMEOUT", 2*time.Minute),

		HFAPIToken: os.Getenv("HF_API_TOKEN"),
		HFBaseURL:  envOr("HF_BASE_URL", "https://router.huggingface.co/hf-inference/models"),
		HFModel:    envOr("HF_MODEL", "facebook/bart-large-cnn"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  envOr("GEMINI_MODEL", "gemini-2.5-flash"),

		OpenRouterAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterBaseURL: envOr("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenRouterModel:   envOr("OPENROUTER_MODEL", "google/gemma-3-1b-it:free"),

		VisionCredentialsFile: envOr("VISION_CREDENTIALS_FILE", "vision-credentials.json"),

		MaxConcurrentSummaries: envInt("MAX_CONCURRENT_SUMMARIES", 4),
		SummaryCacheSize:       envInt("SUMMARY_CACHE_SIZE", 256),
		SummaryCacheTTL:        envDuration("SUMMARY_CACHE_TTL", 1*time.Hour),

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 50),
		JobTTL:       envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20 * 1024 * 1024
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 500
	}
	if cfg.ModelTimeout < 0 {
		cfg.ModelTimeout = 0
	}
	if cfg.MaxConcurrentSummaries <= 0 {
		cfg.MaxConcurrentSummaries = 4
	}
	if cfg.SummaryCacheSize < 0 {
		cfg.SummaryCacheSize = 0
	}
	if cfg.SummaryCacheTTL <= 0 {
		cfg.SummaryCacheTTL = 1 * time.Hour
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 50
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid %s: failed %q check (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return err
	}

	switch c.ModelBackend {
	case BackendHuggingFace:
		if c.HFAPIToken == "" {
			return fmt.Errorf("HF_API_TOKEN is required for the %s backend", c.ModelBackend)
		}
	case BackendGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the %s backend", c.ModelBackend)
		}
	case BackendOpenRouter:
		if c.OpenRouterAPIKey == "" {
			return fmt.Errorf("OPENROUTER_API_KEY is required for the %s backend", c.ModelBackend)
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
