// Package projects is the interactive project picker.
package projects

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/companion/pkg/models"
	"github.com/grovetools/companion/tui/theme"
)

// Source is the project storage the picker reads and edits.
type Source interface {
	List(ctx context.Context) ([]models.Project, error)
	TogglePin(ctx context.Context, path string) (models.Project, error)
	Remove(ctx context.Context, path string) error
}

type projectItem struct {
	project models.Project
}

func (i projectItem) Title() string {
	title := i.project.Name
	if i.project.Pinned {
		title = theme.DefaultTheme.Pinned.Render(theme.Icons.Pinned) + " " + title
	}
	if i.project.IsGit {
		title += " " + theme.DefaultTheme.Muted.Render(theme.Icons.Git)
	}
	return title
}

func (i projectItem) Description() string {
	parts := []string{shortenPath(i.project.Path)}
	if i.project.Agent != "" {
		parts = append(parts, string(i.project.Agent))
	}
	if i.project.Editor != "" {
		parts = append(parts, string(i.project.Editor))
	}
	return strings.Join(parts, " · ")
}

func (i projectItem) FilterValue() string { return i.project.Name + " " + i.project.Path }

// projectsLoadedMsg carries a fresh project list after a load or an edit.
type projectsLoadedMsg struct {
	projects []models.Project
	err      error
}

// Model is the bubbletea model of the picker.
type Model struct {
	ctx    context.Context
	source Source
	keys   KeyMap
	list   list.Model
	err    error

	// Selected is the project chosen with enter, nil when the picker was quit.
	Selected *models.Project
}

// New creates a picker over source.
func New(ctx context.Context, source Source) *Model {
	keys := DefaultKeyMap
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Projects"
	l.SetShowStatusBar(false)
	l.DisableQuitKeybindings()
	l.AdditionalShortHelpKeys = keys.ShortHelp
	l.Styles.Title = theme.DefaultTheme.Header

	return &Model{ctx: ctx, source: source, keys: keys, list: l}
}

// Err returns the last error reported by the source.
func (m *Model) Err() error { return m.err }

// Init loads the projects.
func (m *Model) Init() tea.Cmd {
	return m.load
}

func (m *Model) load() tea.Msg {
	projects, err := m.source.List(m.ctx)
	return projectsLoadedMsg{projects: projects, err: err}
}

// Update handles messages and updates the model accordingly.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil

	case projectsLoadedMsg:
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		items := make([]list.Item, len(msg.projects))
		for i, p := range msg.projects {
			items[i] = projectItem{project: p}
		}
		return m, m.list.SetItems(items)

	case tea.KeyMsg:
		// While the filter input is open every key belongs to it.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Start):
			if item, ok := m.list.SelectedItem().(projectItem); ok {
				selected := item.project
				m.Selected = &selected
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.Pin):
			if item, ok := m.list.SelectedItem().(projectItem); ok {
				return m, m.edit(func() error {
					_, err := m.source.TogglePin(m.ctx, item.project.Path)
					return err
				})
			}
			return m, nil

		case key.Matches(msg, m.keys.Remove):
			if item, ok := m.list.SelectedItem().(projectItem); ok {
				return m, m.edit(func() error {
					return m.source.Remove(m.ctx, item.project.Path)
				})
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// edit runs fn and reloads the list.
func (m *Model) edit(fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return projectsLoadedMsg{err: err}
		}
		return m.load()
	}
}

// View renders the list, or the last error above it.
func (m *Model) View() string {
	if len(m.list.Items()) == 0 && m.err == nil {
		return "No projects yet.\n\nAdd one with: companion projects add <path>\n"
	}
	view := m.list.View()
	if m.err != nil {
		view = theme.DefaultTheme.Error.Render(fmt.Sprintf("%s %v", theme.Icons.Error, m.err)) + "\n" + view
	}
	return view
}

// shortenPath replaces the home directory prefix with a tilde (~).
func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home+string(filepath.Separator)) {
		return filepath.Join("~", strings.TrimPrefix(path, home))
	}
	return path
}
