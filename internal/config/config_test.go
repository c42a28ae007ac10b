package config

import (
	"os"
	"testing"
)

func TestNewFromEnv(t *testing.T) {
	setEnv := func(key, value string) {
		t.Helper()
		t.Setenv(key, value)
	}

	t.Run("Success", func(t *testing.T) {
		setEnv("OPENAI_API_KEY", "openai_key")
		setEnv("GEMINI_API_KEY", "gemini_key")
		setEnv("SESSION_JWT_SECRET", "secret")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.OpenAIAPIKey != "openai_key" {
			t.Errorf("Expected OpenAIAPIKey to be 'openai_key', got '%s'", cfg.OpenAIAPIKey)
		}
		if cfg.GeminiAPIKey != "gemini_key" {
			t.Errorf("Expected GeminiAPIKey to be 'gemini_key', got '%s'", cfg.GeminiAPIKey)
		}
		if cfg.OpenAIModel != DefaultOpenAIModel {
			t.Errorf("Expected default OpenAI model, got '%s'", cfg.OpenAIModel)
		}
		if cfg.DatabasePath != DefaultDatabasePath {
			t.Errorf("Expected default database path, got '%s'", cfg.DatabasePath)
		}
		if cfg.Port != DefaultPort {
			t.Errorf("Expected default port, got '%s'", cfg.Port)
		}
	})

	t.Run("OnlyGeminiKey", func(t *testing.T) {
		setEnv("OPENAI_API_KEY", "")
		setEnv("GEMINI_API_KEY", "gemini_key")
		setEnv("SESSION_JWT_SECRET", "secret")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.OpenAIAPIKey != "" {
			t.Errorf("Expected empty OpenAIAPIKey, got '%s'", cfg.OpenAIAPIKey)
		}
	})

	t.Run("MissingGenerationKeys", func(t *testing.T) {
		setEnv("OPENAI_API_KEY", "")
		setEnv("GEMINI_API_KEY", "")
		setEnv("SESSION_JWT_SECRET", "secret")
		os.Unsetenv("OPENAI_API_KEY")
		os.Unsetenv("GEMINI_API_KEY")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error when no generation API key is set, got nil")
		}
	})

	t.Run("MissingSessionSecret", func(t *testing.T) {
		setEnv("OPENAI_API_KEY", "openai_key")
		setEnv("SESSION_JWT_SECRET", "")
		os.Unsetenv("SESSION_JWT_SECRET")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error when SESSION_JWT_SECRET is not set, got nil")
		}
	})

	t.Run("Overrides", func(t *testing.T) {
		setEnv("OPENAI_API_KEY", "openai_key")
		setEnv("SESSION_JWT_SECRET", "secret")
		setEnv("OPENAI_MODEL", "gpt-4o")
		setEnv("DATABASE_PATH", "/tmp/test.db")
		setEnv("PORT", "9090")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.OpenAIModel != "gpt-4o" {
			t.Errorf("Expected OpenAIModel 'gpt-4o', got '%s'", cfg.OpenAIModel)
		}
		if cfg.DatabasePath != "/tmp/test.db" {
			t.Errorf("Expected DatabasePath '/tmp/test.db', got '%s'", cfg.DatabasePath)
		}
		if cfg.Port != "9090" {
			t.Errorf("Expected Port '9090', got '%s'", cfg.Port)
		}
	})
}
