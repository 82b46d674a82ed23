// Package scripts catalogues helper scripts found on disk.
package scripts

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/grovetools/companion/errors"
	"github.com/grovetools/companion/pkg/models"
	"github.com/grovetools/companion/pkg/repository"
	"github.com/grovetools/companion/util/pathutil"
)

// AddOptions are the optional attributes of a new script.
type AddOptions struct {
	Name        string
	Description string
	Tags        []string
	Projects    []string
}

// Manager adds, lists and edits catalogued scripts.
type Manager struct {
	scripts *repository.Collection[models.Script]
	now     func() time.Time
}

// NewManager creates a Manager over the script collection.
func NewManager(scripts *repository.Collection[models.Script]) *Manager {
	return &Manager{scripts: scripts, now: time.Now}
}

// List returns the scripts with pinned ones first, otherwise in stored order.
func (m *Manager) List(ctx context.Context) ([]models.Script, error) {
	all, err := m.scripts.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Pinned && !all[j].Pinned
	})
	return all, nil
}

// Add catalogues the file at rawPath. The language comes from the file
// extension and the name defaults to the file name; the file's modification
// time becomes LastEdited.
func (m *Manager) Add(ctx context.Context, rawPath string, opts AddOptions) (models.Script, error) {
	if strings.TrimSpace(rawPath) == "" {
		return models.Script{}, errors.InvalidInput("script path cannot be empty")
	}
	path, err := pathutil.Expand(rawPath)
	if err != nil {
		return models.Script{}, errors.InvalidInput(err.Error())
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Script{}, errors.NotFound("file", path)
		}
		return models.Script{}, errors.Wrap(err, errors.ErrCodeInternal, "failed to stat script")
	}
	if info.IsDir() {
		return models.Script{}, errors.InvalidInput("not a file: " + path).WithDetail("path", path)
	}

	name := opts.Name
	if name == "" {
		name = filepath.Base(path)
	}
	script := models.Script{
		ID:                 models.NewScriptID(),
		Name:               name,
		Path:               path,
		Language:           models.LanguageFromPath(path),
		Description:        opts.Description,
		Tags:               opts.Tags,
		AssociatedProjects: opts.Projects,
		LastEdited:         info.ModTime().UTC(),
	}
	script.Normalize()
	if err := models.Validate(script); err != nil {
		return models.Script{}, err
	}
	err = m.scripts.AddUnique(ctx, script, func(stored, item models.Script) bool {
		return repository.SamePath(stored.Path, item.Path)
	})
	if err != nil {
		if errors.Is(err, errors.ErrCodeAlreadyExists) {
			return models.Script{}, errors.AlreadyExists("script", path)
		}
		return models.Script{}, err
	}
	return script, nil
}

// Remove deletes the script record. The file is left alone.
func (m *Manager) Remove(ctx context.Context, id string) error {
	removed, err := m.scripts.Remove(ctx, id)
	if err != nil {
		return err
	}
	if removed == 0 {
		return errors.NotFound("script", id)
	}
	return nil
}

// TogglePin flips the pinned flag of the script.
func (m *Manager) TogglePin(ctx context.Context, id string) (models.Script, error) {
	return m.scripts.Modify(ctx, id, func(s *models.Script) error {
		s.Pinned = !s.Pinned
		return nil
	})
}
