package scripts

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/companion/errors"
	"github.com/grovetools/companion/pkg/models"
	"github.com/grovetools/companion/pkg/repository"
	"github.com/grovetools/companion/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	repos := repository.New(store.NewMemoryStore(), 3)
	return NewManager(repos.Scripts)
}

func writeScript(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
	return path
}

func TestAdd(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		file string
		want models.Language
	}{
		{"build.py", models.LanguagePython},
		{"deploy.sh", models.LanguageBash},
		{"setup.bash", models.LanguageBash},
		{"watch.mjs", models.LanguageNode},
		{"lint.ts", models.LanguageNode},
		{"Makefile", models.LanguageOther},
	}
	m := newManager(t)
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			script, err := m.Add(ctx, writeScript(t, dir, tt.file), AddOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, script.Language)
			assert.Equal(t, tt.file, script.Name)
			assert.Contains(t, script.ID, "script-")
			assert.Equal(t, []string{}, script.Tags)
			assert.False(t, script.LastEdited.IsZero())
		})
	}

	all, err := m.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(tests))
}

func TestAddRejections(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	m := newManager(t)
	path := writeScript(t, dir, "run.sh")
	_, err := m.Add(ctx, path, AddOptions{Name: "runner", Tags: []string{"ci"}})
	require.NoError(t, err)

	tests := []struct {
		name string
		path string
		want errors.ErrorCode
	}{
		{"duplicate", path, errors.ErrCodeAlreadyExists},
		{"missing", filepath.Join(dir, "absent.sh"), errors.ErrCodeNotFound},
		{"directory", dir, errors.ErrCodeInvalidInput},
		{"empty", " ", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Add(ctx, tt.path, AddOptions{})
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestPinAndRemove(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	m := newManager(t)
	first, err := m.Add(ctx, writeScript(t, dir, "a.sh"), AddOptions{})
	require.NoError(t, err)
	second, err := m.Add(ctx, writeScript(t, dir, "b.sh"), AddOptions{})
	require.NoError(t, err)

	pinned, err := m.TogglePin(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, pinned.Pinned)

	all, err := m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID, first.ID}, []string{all[0].ID, all[1].ID})

	require.NoError(t, m.Remove(ctx, first.ID))
	assert.True(t, errors.Is(m.Remove(ctx, first.ID), errors.ErrCodeNotFound))
	_, err = m.TogglePin(ctx, first.ID)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))

	_, statErr := os.Stat(filepath.Join(dir, "a.sh"))
	assert.NoError(t, statErr)
}
