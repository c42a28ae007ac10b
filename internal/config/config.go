package config

import (
	"fmt"
	"os"
)

// Config holds the configuration for the application.
type Config struct {
	OpenAIAPIKey string
	GeminiAPIKey string
	OpenAIModel  string
	GeminiModel  string

	SessionSecret string
	DatabasePath  string
	Port          string
}

// Defaults used when the corresponding environment variable is not set.
const (
	DefaultOpenAIModel  = "gpt-4-1106-preview"
	DefaultGeminiModel  = "gemini-1.5-flash"
	DefaultDatabasePath = "data/foodie.db"
	DefaultPort         = "8080"
)

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	openAIKey := os.Getenv("OPENAI_API_KEY")
	geminiKey := os.Getenv("GEMINI_API_KEY")
	if openAIKey == "" && geminiKey == "" {
		return nil, fmt.Errorf("neither OPENAI_API_KEY nor GEMINI_API_KEY environment variable is set")
	}

	sessionSecret := os.Getenv("SESSION_JWT_SECRET")
	if sessionSecret == "" {
		return nil, fmt.Errorf("SESSION_JWT_SECRET environment variable not set")
	}

	openAIModel := os.Getenv("OPENAI_MODEL")
	if openAIModel == "" {
		openAIModel = DefaultOpenAIModel
	}

	geminiModel := os.Getenv("GEMINI_MODEL")
	if geminiModel == "" {
		geminiModel = DefaultGeminiModel
	}

	databasePath := os.Getenv("DATABASE_PATH")
	if databasePath == "" {
		databasePath = DefaultDatabasePath
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = DefaultPort
	}

	return &Config{
		OpenAIAPIKey:  openAIKey,
		GeminiAPIKey:  geminiKey,
		OpenAIModel:   openAIModel,
		GeminiModel:   geminiModel,
		SessionSecret: sessionSecret,
		DatabasePath:  databasePath,
		Port:          port,
	}, nil
}
