package assistant

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/xaenox/homework-bot/internal/models"
	"go.uber.org/zap"
)

const defaultGroqBaseURL = "https://api.groq.com/openai/v1"

type GroqConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// GroqVision analyzes homework photos through Groq's OpenAI-compatible
// chat API.
type GroqVision struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

func NewGroqVision(cfg GroqConfig, logger *zap.Logger) *GroqVision {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.BaseURL
	if clientConfig.BaseURL == "" {
		clientConfig.BaseURL = defaultGroqBaseURL
	}

	return &GroqVision{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      logger,
	}
}

func (g *GroqVision) AnalyzeHomeworkImage(ctx context.Context, data []byte, grade models.Grade) (string, error) {
	mime, err := sniffImage(data)
	if err != nil {
		g.logger.Error("Failed to decode homework image", zap.Error(err))
		return "", err
	}

	imageURL := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))

	resp, err := g.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: g.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role: openai.ChatMessageRoleUser,
					MultiContent: []openai.ChatMessagePart{
						{
							Type: openai.ChatMessagePartTypeText,
							Text: imagePrompt(grade),
						},
						{
							Type:     openai.ChatMessagePartTypeImageURL,
							ImageURL: &openai.ChatMessageImageURL{URL: imageURL},
						},
					},
				},
			},
			MaxTokens:   g.maxTokens,
			Temperature: float32(g.temperature),
		},
	)
	if err != nil {
		g.logger.Error("Failed to analyze homework image",
			zap.Error(err),
			zap.String("mime_type", mime))
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		g.logger.Error("No choices in vision response", zap.String("mime_type", mime))
		return "", errors.New("empty model response")
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", errors.New("empty model response")
	}

	return answer, nil
}
