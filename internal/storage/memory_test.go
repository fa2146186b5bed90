package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/homework-bot/internal/models"
)

func TestMemoryStorageAbsentUser(t *testing.T) {
	s := NewMemoryStorage()
	defer s.Close()

	_, ok, err := s.GetGrade(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStorageSetAndGet(t *testing.T) {
	s := NewMemoryStorage()
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.SetGrade(ctx, 42, models.GradeMiddle))

	grade, ok, err := s.GetGrade(ctx, 42)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.GradeMiddle, grade)
}

func TestMemoryStorageOverwrites(t *testing.T) {
	s := NewMemoryStorage()
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.SetGrade(ctx, 42, models.GradeElementary))
	require.NoError(t, s.SetGrade(ctx, 42, models.GradeHigh))

	grade, ok, err := s.GetGrade(ctx, 42)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.GradeHigh, grade)
}

func TestMemoryStorageSetGradeIdempotent(t *testing.T) {
	s := NewMemoryStorage()
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.SetGrade(ctx, 7, models.GradeMiddle))
	require.NoError(t, s.SetGrade(ctx, 7, models.GradeMiddle))

	grade, ok, err := s.GetGrade(ctx, 7)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.GradeMiddle, grade)
}

func TestMemoryStorageIsolatesUsers(t *testing.T) {
	s := NewMemoryStorage()
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.SetGrade(ctx, 1, models.GradeElementary))

	_, ok, err := s.GetGrade(ctx, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}
