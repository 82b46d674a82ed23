// Package workspace implements the project flows: adding a folder, editing,
// pinning and removing it, with the checks that keep project paths unique.
package workspace

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/grovetools/companion/command"
	"github.com/grovetools/companion/errors"
	"github.com/grovetools/companion/git"
	"github.com/grovetools/companion/logging"
	"github.com/grovetools/companion/pkg/models"
	"github.com/grovetools/companion/pkg/repository"
	"github.com/grovetools/companion/util/pathutil"
)

// Manager runs project operations against the project repository.
type Manager struct {
	projects *repository.Projects
	now      func() time.Time
}

// NewManager creates a Manager.
func NewManager(projects *repository.Projects) *Manager {
	return &Manager{projects: projects, now: time.Now}
}

// AddOptions are the optional attributes of a new project.
type AddOptions struct {
	Name   string
	Agent  models.Agent
	Editor models.Editor
}

// EditOptions are the project attributes an edit may change. Nil fields
// are left alone.
type EditOptions struct {
	Name   *string
	Path   *string
	Agent  *models.Agent
	Editor *models.Editor
}

// List returns all projects, pinned ones first, otherwise in stored order.
func (m *Manager) List(ctx context.Context) ([]models.Project, error) {
	projects, err := m.projects.List(ctx)
	if err != nil {
		return nil, err
	}
	ordered := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if p.Pinned {
			ordered = append(ordered, p)
		}
	}
	for _, p := range projects {
		if !p.Pinned {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// Add registers the folder at rawPath as a project.
func (m *Manager) Add(ctx context.Context, rawPath string, opts AddOptions) (models.Project, error) {
	path, err := checkFolder(rawPath)
	if err != nil {
		return models.Project{}, err
	}

	name := opts.Name
	if name == "" {
		name = filepath.Base(path)
	}
	project := models.Project{
		Name:       name,
		Path:       path,
		IsGit:      git.HasGitDir(path),
		LastActive: m.now().UTC(),
		Agent:      opts.Agent,
		Editor:     opts.Editor,
	}
	project.Normalize()
	if err := models.Validate(project); err != nil {
		return models.Project{}, err
	}

	if err := m.projects.AddUnique(ctx, project); err != nil {
		return models.Project{}, err
	}
	logging.NewLogger("workspace").WithField("path", path).Debug("Project added")
	return project, nil
}

// Edit applies opts to the project at path. A new path is validated like
// on add and its git status is re-detected.
func (m *Manager) Edit(ctx context.Context, path string, opts EditOptions) (models.Project, error) {
	current, err := m.Get(ctx, path)
	if err != nil {
		return models.Project{}, err
	}

	patch := repository.ProjectPatch{
		Name:   opts.Name,
		Agent:  opts.Agent,
		Editor: opts.Editor,
	}
	if opts.Path != nil {
		newPath, err := checkFolder(*opts.Path)
		if err != nil {
			return models.Project{}, err
		}
		isGit := git.HasGitDir(newPath)
		patch.Path = &newPath
		patch.IsGit = &isGit
	}
	return m.projects.ReplaceIdentity(ctx, current.Path, patch)
}

// Get resolves rawPath to a stored project. The stored path is tried as
// given first, then by canonical comparison.
func (m *Manager) Get(ctx context.Context, rawPath string) (models.Project, error) {
	projects, err := m.projects.List(ctx)
	if err != nil {
		return models.Project{}, err
	}
	for _, p := range projects {
		if p.Path == rawPath {
			return p, nil
		}
	}

	expanded, err := pathutil.Expand(rawPath)
	if err != nil {
		return models.Project{}, errors.InvalidInput("project path is required")
	}
	for _, p := range projects {
		if same, _ := pathutil.ComparePaths(p.Path, expanded); same {
			return p, nil
		}
	}
	return models.Project{}, errors.NotFound("project", expanded)
}

// Remove deletes the project at path.
func (m *Manager) Remove(ctx context.Context, path string) error {
	project, err := m.Get(ctx, path)
	if err != nil {
		return err
	}
	_, err = m.projects.Remove(ctx, project.Path)
	return err
}

// TogglePin flips the pinned flag of the project at path.
func (m *Manager) TogglePin(ctx context.Context, path string) (models.Project, error) {
	project, err := m.Get(ctx, path)
	if err != nil {
		return models.Project{}, err
	}
	return m.projects.TogglePin(ctx, project.Path)
}

// SetCommands replaces the SuperClaude commands enabled for the project.
// Every entry must be a plain subcommand token.
func (m *Manager) SetCommands(ctx context.Context, path string, commands []string) (models.Project, error) {
	for _, c := range commands {
		if err := command.ValidateSubcommand(c); err != nil {
			return models.Project{}, errors.Wrap(err, errors.ErrCodeInvalidInput, err.Error()).
				WithDetail("command", c)
		}
	}
	project, err := m.Get(ctx, path)
	if err != nil {
		return models.Project{}, err
	}
	return m.projects.Modify(ctx, project.Path, func(p *models.Project) error {
		p.SuperClaudeCommands = append([]string{}, commands...)
		return nil
	})
}

// RecordSession appends sessionID to the project's recent sessions and
// marks the project as active now.
func (m *Manager) RecordSession(ctx context.Context, path, sessionID string) (models.Project, error) {
	now := m.now().UTC()
	return m.projects.Modify(ctx, path, func(p *models.Project) error {
		p.RecentSessions = append(p.RecentSessions, sessionID)
		p.LastActive = now
		return nil
	})
}

// checkFolder expands rawPath and requires it to be an existing directory.
func checkFolder(rawPath string) (string, error) {
	path, err := pathutil.Expand(rawPath)
	if err != nil {
		return "", errors.InvalidInput("project path is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NotFound("folder", path)
		}
		return "", errors.Wrap(err, errors.ErrCodeInvalidInput, "cannot inspect folder").
			WithDetail("path", path)
	}
	if !info.IsDir() {
		return "", errors.NotADirectory(path)
	}
	return path, nil
}
