package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xaenox/homework-bot/internal/assistant"
	"github.com/xaenox/homework-bot/internal/models"
	"github.com/xaenox/homework-bot/internal/storage"
	"go.uber.org/zap"
)

const (
	gradeCallbackPrefix = "grade_"

	welcomeMessage        = "👋 Welcome to the Homework Answer Bot!\n\nPlease select your child's grade level:"
	changeGradeMessage    = "Select new grade level:"
	configureFirstMessage = "Please set your child's grade level first using /start"
	analyzingMessage      = "Analyzing homework..."
	questionFailedMessage = "Sorry, I couldn't process that question. Please try again."
	imageFailedMessage    = "Sorry, I couldn't read that image. Please try a clearer photo."
	photoErrorMessage     = "Sorry, there was an error processing your photo. Please try again."
)

// telegram is the slice of *tgbotapi.BotAPI the bot uses.
type telegram interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type Bot struct {
	api     telegram
	storage storage.Storage
	helper  assistant.Assistant
	vision  assistant.ImageAssistant
	files   *http.Client
	logger  *zap.Logger
}

func New(token string, store storage.Storage, helper assistant.Assistant, vision assistant.ImageAssistant, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api:     api,
		storage: store,
		helper:  helper,
		vision:  vision,
		files:   &http.Client{Timeout: time.Minute},
		logger:  logger,
	}, nil
}

func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		go b.handleUpdate(update)
	}

	return nil
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	ctx := context.Background()

	switch {
	case update.CallbackQuery != nil:
		b.handleGradeSelection(ctx, update.CallbackQuery)
	case update.Message == nil:
	case update.Message.IsCommand():
		b.handleCommand(update.Message)
	case len(update.Message.Photo) > 0:
		b.handlePhoto(ctx, update.Message)
	case update.Message.Text != "":
		b.handleText(ctx, update.Message)
	}
}

func (b *Bot) handleCommand(message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.sendGradeKeyboard(message.Chat.ID, welcomeMessage)
	case "change_grade":
		b.sendGradeKeyboard(message.Chat.ID, changeGradeMessage)
	case "help":
		b.handleHelp(message)
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	help := `Available commands:
/start - Start the bot and select a grade level
/change_grade - Change the grade level
/help - Show this help message

Send a homework question as text, or a photo of the assignment, and I'll reply with the direct answer.`

	b.sendMessage(message.Chat.ID, help)
}

func (b *Bot) handleGradeSelection(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.logger.Error("Failed to answer callback query",
			zap.Error(err),
			zap.String("callback_id", query.ID))
	}

	if !strings.HasPrefix(query.Data, gradeCallbackPrefix) || query.Message == nil {
		return
	}

	band := strings.TrimPrefix(query.Data, gradeCallbackPrefix)
	grade, ok := models.ParseGradeToken(band)
	if !ok {
		b.logger.Warn("Unknown grade band in callback", zap.String("data", query.Data))
		return
	}

	userID := query.From.ID
	if err := b.storage.SetGrade(ctx, userID, grade); err != nil {
		b.logger.Error("Failed to store grade",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.String("grade", string(grade)))
		b.sendErrorMessage(query.Message.Chat.ID, "Sorry, I couldn't save your grade level. Please try again.")
		return
	}

	confirmation := fmt.Sprintf("Grade level set to: %s\n\n"+
		"You can now send homework questions or photos to get direct answers.\n"+
		"Use /change_grade to change the grade level.", band)

	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, confirmation)
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Error("Failed to edit grade message",
			zap.Error(err),
			zap.Int64("chat_id", query.Message.Chat.ID))
	}
}

func (b *Bot) handleText(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID

	grade, ok, err := b.storage.GetGrade(ctx, userID)
	if err != nil {
		b.logger.Error("Failed to look up grade",
			zap.Error(err),
			zap.Int64("user_id", userID))
		b.sendErrorMessage(message.Chat.ID, questionFailedMessage)
		return
	}
	if !ok {
		b.sendMessage(message.Chat.ID, configureFirstMessage)
		return
	}

	answer, err := b.helper.GetHomeworkHelp(ctx, userID, message.Text, grade)
	if err != nil {
		b.sendMessage(message.Chat.ID, questionFailedMessage)
		return
	}

	b.sendMessage(message.Chat.ID, answer)
}

func (b *Bot) handlePhoto(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID

	grade, ok, err := b.storage.GetGrade(ctx, userID)
	if err != nil {
		b.logger.Error("Failed to look up grade",
			zap.Error(err),
			zap.Int64("user_id", userID))
		b.sendErrorMessage(message.Chat.ID, photoErrorMessage)
		return
	}
	if !ok {
		b.sendMessage(message.Chat.ID, configureFirstMessage)
		return
	}

	b.sendMessage(message.Chat.ID, analyzingMessage)

	// Telegram lists photo sizes smallest first
	photo := message.Photo[len(message.Photo)-1]
	data, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		b.logger.Error("Failed to download photo",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.String("file_id", photo.FileID))
		b.sendErrorMessage(message.Chat.ID, photoErrorMessage)
		return
	}

	analysis, err := b.vision.AnalyzeHomeworkImage(ctx, data, grade)
	if err != nil {
		b.sendMessage(message.Chat.ID, imageFailedMessage)
		return
	}

	b.sendMessage(message.Chat.ID, analysis)
}

func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolve file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build file request: %w", err)
	}

	resp, err := b.files.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}

func gradeKeyboard() tgbotapi.InlineKeyboardMarkup {
	bands := models.GradeBands()
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(bands))
	for _, band := range bands {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("Grades "+band, gradeCallbackPrefix+band))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func (b *Bot) sendGradeKeyboard(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = gradeKeyboard()
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send grade keyboard",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "⚠️ "+text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send error message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}
