package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xaenox/homework-bot/internal/models"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const janitorInterval = time.Minute

type GeminiConfig struct {
	APIKey          string
	Model           string
	VisionModel     string
	Temperature     float64
	TopP            float64
	TopK            float64
	MaxOutputTokens int
	SessionIdle     time.Duration
}

// chatSession is one user's conversation with the model. The mutex
// serializes messages from the same user; different users never share a
// session, so one user's history cannot leak into another's answer.
type chatSession struct {
	id       uuid.UUID
	mu       sync.Mutex
	chat     *genai.Chat
	lastUsed time.Time
}

type GeminiAssistant struct {
	client      *genai.Client
	model       string
	visionModel string
	genConfig   *genai.GenerateContentConfig
	idle        time.Duration
	logger      *zap.Logger

	mu       sync.Mutex
	sessions map[int64]*chatSession
	done     chan struct{}
}

func NewGeminiAssistant(ctx context.Context, cfg GeminiConfig, logger *zap.Logger) (*GeminiAssistant, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	a := &GeminiAssistant{
		client:      client,
		model:       cfg.Model,
		visionModel: cfg.VisionModel,
		genConfig: &genai.GenerateContentConfig{
			Temperature:     genai.Ptr(float32(cfg.Temperature)),
			TopP:            genai.Ptr(float32(cfg.TopP)),
			TopK:            genai.Ptr(float32(cfg.TopK)),
			MaxOutputTokens: int32(cfg.MaxOutputTokens),
		},
		idle:     cfg.SessionIdle,
		logger:   logger,
		sessions: make(map[int64]*chatSession),
		done:     make(chan struct{}),
	}
	go a.janitor()

	return a, nil
}

func (a *GeminiAssistant) GetHomeworkHelp(ctx context.Context, userID int64, question string, grade models.Grade) (string, error) {
	s, err := a.session(ctx, userID)
	if err != nil {
		a.logger.Error("Failed to start chat session",
			zap.Error(err),
			zap.Int64("user_id", userID))
		return "", err
	}

	s.mu.Lock()
	resp, err := s.chat.SendMessage(ctx, genai.Part{Text: questionPrompt(question, grade)})
	s.mu.Unlock()
	if err != nil {
		a.logger.Error("Failed to get homework help",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.String("session_id", s.id.String()))
		return "", fmt.Errorf("send message: %w", err)
	}

	answer := strings.TrimSpace(resp.Text())
	if answer == "" {
		a.logger.Error("Empty response from model",
			zap.Int64("user_id", userID),
			zap.String("session_id", s.id.String()))
		return "", errors.New("empty model response")
	}

	return answer, nil
}

func (a *GeminiAssistant) AnalyzeHomeworkImage(ctx context.Context, data []byte, grade models.Grade) (string, error) {
	mime, err := sniffImage(data)
	if err != nil {
		a.logger.Error("Failed to decode homework image", zap.Error(err))
		return "", err
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(imagePrompt(grade)),
			genai.NewPartFromBytes(data, mime),
		}, genai.RoleUser),
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.visionModel, contents, a.genConfig)
	if err != nil {
		a.logger.Error("Failed to analyze homework image",
			zap.Error(err),
			zap.String("mime_type", mime))
		return "", fmt.Errorf("generate content: %w", err)
	}

	answer := strings.TrimSpace(resp.Text())
	if answer == "" {
		a.logger.Error("Empty response from vision model", zap.String("mime_type", mime))
		return "", errors.New("empty model response")
	}

	return answer, nil
}

// session returns the user's chat session, creating it on first use.
func (a *GeminiAssistant) session(ctx context.Context, userID int64) (*chatSession, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if s, exists := a.sessions[userID]; exists {
		s.lastUsed = time.Now()
		return s, nil
	}

	chat, err := a.client.Chats.Create(ctx, a.model, a.genConfig, nil)
	if err != nil {
		return nil, fmt.Errorf("create chat session: %w", err)
	}

	s := &chatSession{
		id:       uuid.New(),
		chat:     chat,
		lastUsed: time.Now(),
	}
	a.sessions[userID] = s
	a.logger.Info("Started chat session",
		zap.Int64("user_id", userID),
		zap.String("session_id", s.id.String()))

	return s, nil
}

func (a *GeminiAssistant) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.done:
			return
		case <-ticker.C:
			a.evictIdle(time.Now())
		}
	}
}

func (a *GeminiAssistant) evictIdle(now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for userID, s := range a.sessions {
		if now.Sub(s.lastUsed) > a.idle {
			delete(a.sessions, userID)
			a.logger.Info("Evicted idle chat session",
				zap.Int64("user_id", userID),
				zap.String("session_id", s.id.String()))
		}
	}
}

func (a *GeminiAssistant) Close() error {
	close(a.done)
	return nil
}
