package assistant

import (
	"bytes"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/homework-bot/internal/models"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// go.opencensus.io starts a background worker from package init
		// (pulled in transitively); it is not a leak in this package.
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"),
	)
}

func TestQuestionPromptCarriesGradeAndQuestion(t *testing.T) {
	prompt := questionPrompt("What is 7×8?", models.GradeMiddle)

	assert.Contains(t, prompt, "middle school homework")
	assert.Contains(t, prompt, "What is 7×8?")
	assert.Contains(t, prompt, "ONLY the direct answer")
}

func TestImagePromptCarriesGrade(t *testing.T) {
	prompt := imagePrompt(models.GradeHigh)

	assert.Contains(t, prompt, "high school homework")
	assert.Contains(t, prompt, "number your answers")
}

func TestSniffImagePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))

	mime, err := sniffImage(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
}

func TestSniffImageRejectsGarbage(t *testing.T) {
	_, err := sniffImage([]byte("not an image at all"))
	assert.Error(t, err)
}

func TestEvictIdleDropsStaleSessions(t *testing.T) {
	now := time.Now()
	a := &GeminiAssistant{
		idle:   30 * time.Minute,
		logger: zap.NewNop(),
		sessions: map[int64]*chatSession{
			1: {id: uuid.New(), lastUsed: now.Add(-time.Hour)},
			2: {id: uuid.New(), lastUsed: now.Add(-time.Minute)},
		},
	}

	a.evictIdle(now)

	assert.NotContains(t, a.sessions, int64(1))
	assert.Contains(t, a.sessions, int64(2))
}

func TestCloseStopsJanitor(t *testing.T) {
	a := &GeminiAssistant{
		idle:     time.Minute,
		logger:   zap.NewNop(),
		sessions: make(map[int64]*chatSession),
		done:     make(chan struct{}),
	}
	go a.janitor()

	require.NoError(t, a.Close())
}
