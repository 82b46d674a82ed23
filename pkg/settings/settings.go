// Package settings edits the user preferences singleton.
package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/grovetools/companion/errors"
	"github.com/grovetools/companion/pkg/models"
	"github.com/grovetools/companion/pkg/repository"
	"github.com/grovetools/companion/util/pathutil"
)

// Settable field names.
const (
	FieldSuperClaudePath = "superclaude_path"
	FieldDefaultEditor   = "default_editor"
)

// Fields lists the names Set accepts.
var Fields = []string{FieldSuperClaudePath, FieldDefaultEditor}

// Manager applies preference edits.
type Manager struct {
	repo *repository.SettingsRepository
}

// NewManager creates a Manager over the settings repository.
func NewManager(repo *repository.SettingsRepository) *Manager {
	return &Manager{repo: repo}
}

// Get returns the current settings.
func (m *Manager) Get(ctx context.Context) (models.Settings, error) {
	return m.repo.Get(ctx)
}

// Set assigns value to field. An empty value restores the default.
func (m *Manager) Set(ctx context.Context, field, value string) (models.Settings, error) {
	field = strings.ToLower(strings.ReplaceAll(field, "-", "_"))
	value = strings.TrimSpace(value)

	var apply func(*models.Settings)
	switch field {
	case FieldSuperClaudePath:
		path := models.DefaultSuperClaudePath
		if value != "" {
			expanded, err := pathutil.Expand(value)
			if err != nil {
				return models.Settings{}, errors.InvalidInput(err.Error())
			}
			path = expanded
		}
		apply = func(s *models.Settings) { s.SuperClaudePath = path }
	case FieldDefaultEditor:
		editor := value
		if editor == "" {
			editor = models.DefaultEditorCommand
		}
		apply = func(s *models.Settings) { s.DefaultEditor = editor }
	default:
		return models.Settings{}, errors.InvalidInput(fmt.Sprintf("unknown settings field '%s'", field)).
			WithDetail("fields", strings.Join(Fields, ", "))
	}

	var result models.Settings
	err := m.repo.Update(ctx, func(s *models.Settings) error {
		apply(s)
		result = *s
		return nil
	})
	return result, err
}

// Acknowledge records that the terms of tool were accepted. Acknowledging
// twice keeps a single entry.
func (m *Manager) Acknowledge(ctx context.Context, tool string) (models.Settings, error) {
	tool = strings.ToLower(strings.TrimSpace(tool))
	known := false
	for _, t := range models.TOSTools {
		if t == tool {
			known = true
			break
		}
	}
	if !known {
		return models.Settings{}, errors.InvalidInput(fmt.Sprintf("unknown tool '%s'", tool)).
			WithDetail("tools", strings.Join(models.TOSTools, ", "))
	}

	var result models.Settings
	err := m.repo.Update(ctx, func(s *models.Settings) error {
		for _, t := range s.TOSAcknowledged {
			if t == tool {
				result = *s
				return nil
			}
		}
		s.TOSAcknowledged = append(s.TOSAcknowledged, tool)
		result = *s
		return nil
	})
	return result, err
}

// Acknowledged reports whether the terms of tool were accepted.
func (m *Manager) Acknowledged(ctx context.Context, tool string) (bool, error) {
	s, err := m.repo.Get(ctx)
	if err != nil {
		return false, err
	}
	for _, t := range s.TOSAcknowledged {
		if t == tool {
			return true, nil
		}
	}
	return false, nil
}
