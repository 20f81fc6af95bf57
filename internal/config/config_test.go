package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	// Point ENV_FILE somewhere empty so a developer's .env never leaks in.
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	for _, k := range []string{
		"PORT", "FRONTEND_ORIGIN", "LOG_LEVEL", "API_KEY", "MAX_UPLOAD_BYTES", "CHUNK_SIZE",
		"MODEL_BACKEND", "MODEL_TIMEOUT", "HF_API_TOKEN", "HF_BASE_URL", "HF_MODEL",
		"GEMINI_API_KEY", "GEMINI_MODEL", "OPENROUTER_API_KEY", "OPENROUTER_BASE_URL", "OPENROUTER_MODEL",
		"VISION_CREDENTIALS_FILE", "MAX_CONCURRENT_SUMMARIES", "SUMMARY_CACHE_SIZE", "SUMMARY_CACHE_TTL",
		"WORKER_COUNT", "MAX_QUEUE_SIZE", "JOB_TTL", "PDF_FALLBACK_PDFTOTEXT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "http://localhost:5173", cfg.FrontendOrigin)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, int64(20*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, 500, cfg.ChunkSize)
	assert.Equal(t, BackendHuggingFace, cfg.ModelBackend)
	assert.Equal(t, 2*time.Minute, cfg.ModelTimeout)
	assert.Equal(t, "facebook/bart-large-cnn", cfg.HFModel)
	assert.Equal(t, "vision-credentials.json", cfg.VisionCredentialsFile)
	assert.Equal(t, 4, cfg.MaxConcurrentSummaries)
	assert.Equal(t, 2, cfg.WorkerCount)
	assert.Equal(t, 50, cfg.MaxQueueSize)
	assert.True(t, cfg.PDFFallbackPdftotext)
}

func TestLoadOverridesAndClamps(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("MODEL_BACKEND", "Gemini")
	t.Setenv("CHUNK_SIZE", "-1")
	t.Setenv("WORKER_COUNT", "zero")
	t.Setenv("JOB_TTL", "10m")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendGemini, cfg.ModelBackend)
	assert.Equal(t, 500, cfg.ChunkSize)
	assert.Equal(t, 2, cfg.WorkerCount)
	assert.Equal(t, 10*time.Minute, cfg.JobTTL)
	assert.False(t, cfg.PDFFallbackPdftotext)
}

func TestLoadReadsEnvFile(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("HF_MODEL=sshleifer/distilbart-cnn-12-6\nCHUNK_SIZE=300\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	// godotenv does not override variables that are already set, even to "".
	require.NoError(t, os.Unsetenv("HF_MODEL"))
	require.NoError(t, os.Unsetenv("CHUNK_SIZE"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sshleifer/distilbart-cnn-12-6", cfg.HFModel)
	assert.Equal(t, 300, cfg.ChunkSize)
}

func TestLoadRejectsMalformedEnvFile(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "bad.env")
	require.NoError(t, os.WriteFile(path, []byte("HF_MODEL='unterminated\n"), 0o600))
	t.Setenv("ENV_FILE", path)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestValidate(t *testing.T) {
	isolateEnv(t)
	base, err := Load()
	require.NoError(t, err)
	base.HFAPIToken = "hf_test"
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing hf token", func(c *Config) { c.HFAPIToken = "" }, "HF_API_TOKEN"},
		{"unknown backend", func(c *Config) { c.ModelBackend = "bert" }, "ModelBackend"},
		{"gemini without key", func(c *Config) { c.ModelBackend = BackendGemini }, "GEMINI_API_KEY"},
		{"openrouter without key", func(c *Config) { c.ModelBackend = BackendOpenRouter }, "OPENROUTER_API_KEY"},
		{"bad port", func(c *Config) { c.Port = "http" }, "Port"},
		{"bad origin", func(c *Config) { c.FrontendOrigin = "not a url" }, "FrontendOrigin"},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, "LogLevel"},
		{"zero workers", func(c *Config) { c.WorkerCount = 0 }, "WorkerCount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
