package storage

import (
	"context"

	"github.com/xaenox/homework-bot/internal/models"
)

// Storage is the grade registry: the user to grade-level mapping the bot
// consults before answering anything.
type Storage interface {
	// GetGrade returns the stored grade for a user; ok is false when the
	// user has not selected one yet.
	GetGrade(ctx context.Context, userID int64) (grade models.Grade, ok bool, err error)
	// SetGrade stores the grade for a user, overwriting any prior value.
	SetGrade(ctx context.Context, userID int64, grade models.Grade) error
	Close() error
}
