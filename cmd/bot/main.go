package main

import (
	"context"

	"github.com/xaenox/homework-bot/internal/assistant"
	"github.com/xaenox/homework-bot/internal/bot"
	"github.com/xaenox/homework-bot/internal/storage"
	"github.com/xaenox/homework-bot/pkg/config"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// A bot without its token can never start. Inference keys are not
	// validated here; a bad key surfaces as a call failure.
	if cfg.Telegram.Token == "" {
		logger.Fatal("No Telegram bot token configured")
	}

	// Initialize the grade registry
	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory grade registry")
		store = storage.NewMemoryStorage()
	} else {
		logger.Info("Using PostgreSQL grade registry")
		store, err = storage.NewPostgresStorage(storage.DatabaseConfig{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			DBName:      cfg.Database.DBName,
			SSLMode:     cfg.Database.SSLMode,
			UseInMemory: cfg.Database.UseInMemory,
		})
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	// Initialize the Gemini assistant
	gemini, err := assistant.NewGeminiAssistant(context.Background(), assistant.GeminiConfig{
		APIKey:          cfg.Gemini.APIKey,
		Model:           cfg.Gemini.Model,
		VisionModel:     cfg.Gemini.VisionModel,
		Temperature:     cfg.Gemini.Temperature,
		TopP:            cfg.Gemini.TopP,
		TopK:            cfg.Gemini.TopK,
		MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
		SessionIdle:     cfg.Session.IdleTimeout,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create assistant", zap.Error(err))
	}
	defer gemini.Close()

	// Pick the vision backend
	var vision assistant.ImageAssistant = gemini
	if cfg.Vision.Provider == "groq" {
		logger.Info("Using Groq vision backend", zap.String("model", cfg.Groq.Model))
		vision = assistant.NewGroqVision(assistant.GroqConfig{
			APIKey:      cfg.Groq.APIKey,
			BaseURL:     cfg.Groq.BaseURL,
			Model:       cfg.Groq.Model,
			MaxTokens:   cfg.Groq.MaxTokens,
			Temperature: cfg.Groq.Temperature,
		}, logger)
	}

	// Initialize bot
	b, err := bot.New(cfg.Telegram.Token, store, gemini, vision, logger)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	// Start the bot
	logger.Info("Starting homework answer bot")
	if err := b.Start(); err != nil {
		logger.Fatal("Bot error", zap.Error(err))
	}
}
