package settings

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/grovetools/companion/errors"
	"github.com/grovetools/companion/pkg/models"
	"github.com/grovetools/companion/pkg/repository"
	"github.com/grovetools/companion/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager() *Manager {
	return NewManager(repository.NewSettings(store.NewMemoryStore(), 3))
}

func TestSet(t *testing.T) {
	ctx := context.Background()
	home := t.TempDir()
	t.Setenv("HOME", home)
	m := newManager()

	s, err := m.Set(ctx, "superclaude-path", "~/bin/superclaude")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "bin", "superclaude"), s.SuperClaudePath)

	s, err = m.Set(ctx, "DEFAULT_EDITOR", "cursor")
	require.NoError(t, err)
	assert.Equal(t, "cursor", s.DefaultEditor)
	assert.Equal(t, filepath.Join(home, "bin", "superclaude"), s.SuperClaudePath)

	s, err = m.Set(ctx, "superclaude_path", "")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSuperClaudePath, s.SuperClaudePath)

	_, err = m.Set(ctx, "theme", "dark")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	stored, err := m.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cursor", stored.DefaultEditor)
}

func TestAcknowledge(t *testing.T) {
	ctx := context.Background()
	m := newManager()

	ok, err := m.Acknowledged(ctx, "gemini")
	require.NoError(t, err)
	assert.False(t, ok)

	s, err := m.Acknowledge(ctx, "Gemini")
	require.NoError(t, err)
	assert.Equal(t, []string{"gemini"}, s.TOSAcknowledged)

	s, err = m.Acknowledge(ctx, "gemini")
	require.NoError(t, err)
	assert.Equal(t, []string{"gemini"}, s.TOSAcknowledged)

	ok, err = m.Acknowledged(ctx, "gemini")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = m.Acknowledge(ctx, "copilot")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}
