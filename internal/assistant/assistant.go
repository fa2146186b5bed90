package assistant

import (
	"bytes"
	"context"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/xaenox/homework-bot/internal/models"
)

// Assistant answers text homework questions for a configured user.
type Assistant interface {
	GetHomeworkHelp(ctx context.Context, userID int64, question string, grade models.Grade) (string, error)
}

// ImageAssistant answers photographed homework. Stateless per call.
type ImageAssistant interface {
	AnalyzeHomeworkImage(ctx context.Context, data []byte, grade models.Grade) (string, error)
}

func questionPrompt(question string, grade models.Grade) string {
	return fmt.Sprintf("You are helping with %s school homework. Question: %s\n\n"+
		"Provide ONLY the direct answer. No explanations unless specifically asked.\n"+
		"Format the answer neatly and clearly.", grade, question)
}

func imagePrompt(grade models.Grade) string {
	return fmt.Sprintf(`You are helping with %s school homework.
Look at the image, solve any problems shown, and provide the answers.
If there are multiple questions, number your answers.
Provide ONLY the solution/answer without explanations unless specifically asked.
If you see a math problem, show the final answer.
If you see a question, provide the direct answer.`, grade)
}

// sniffImage checks that data holds a decodable image and reports its MIME
// type. Decoders for the formats Telegram delivers are registered above.
func sniffImage(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	return "image/" + format, nil
}
