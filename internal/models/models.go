package models

import "time"

// Grade is the semantic grade label stored for a user.
type Grade string

const (
	GradeElementary Grade = "elementary"
	GradeMiddle     Grade = "middle"
	GradeHigh       Grade = "high"
)

// gradeTokens maps the user-facing grade bands to their semantic labels.
var gradeTokens = map[string]Grade{
	"1-5":  GradeElementary,
	"6-8":  GradeMiddle,
	"9-12": GradeHigh,
}

// bandOrder keeps keyboard rendering stable.
var bandOrder = []string{"1-5", "6-8", "9-12"}

// ParseGradeToken resolves a grade-band token ("1-5", "6-8", "9-12") to its
// semantic label. ok is false for anything outside the closed set.
func ParseGradeToken(token string) (Grade, bool) {
	grade, ok := gradeTokens[token]
	return grade, ok
}

// GradeBands returns the grade-band tokens in display order.
func GradeBands() []string {
	bands := make([]string, len(bandOrder))
	copy(bands, bandOrder)
	return bands
}

// User represents a bot user and their selected grade level
type User struct {
	ID         int64     `json:"id"`
	Grade      Grade     `json:"grade"`
	LastUsedAt time.Time `json:"last_used_at"`
}
