package projects

import (
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/companion/errors"
	"github.com/grovetools/companion/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	projects []models.Project
	pinned   []string
	removed  []string
	err      error
}

func (f *fakeSource) List(context.Context) ([]models.Project, error) {
	return append([]models.Project(nil), f.projects...), f.err
}

func (f *fakeSource) TogglePin(_ context.Context, path string) (models.Project, error) {
	f.pinned = append(f.pinned, path)
	for i := range f.projects {
		if f.projects[i].Path == path {
			f.projects[i].Pinned = !f.projects[i].Pinned
			return f.projects[i], nil
		}
	}
	return models.Project{}, errors.NotFound("project", path)
}

func (f *fakeSource) Remove(_ context.Context, path string) error {
	f.removed = append(f.removed, path)
	kept := f.projects[:0]
	for _, p := range f.projects {
		if p.Path != path {
			kept = append(kept, p)
		}
	}
	f.projects = kept
	return nil
}

// run feeds msg to the model and executes the returned command chain until
// it yields nothing or quits. It reports whether the model quit.
func run(m *Model, msg tea.Msg) bool {
	for msg != nil {
		if _, ok := msg.(tea.QuitMsg); ok {
			return true
		}
		_, cmd := m.Update(msg)
		if cmd == nil {
			return false
		}
		msg = cmd()
		if _, ok := msg.(tea.BatchMsg); ok {
			return false
		}
	}
	return false
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newPicker(t *testing.T) (*Model, *fakeSource) {
	t.Helper()
	src := &fakeSource{projects: []models.Project{
		{Name: "api", Path: "/code/api", Pinned: true, Agent: models.AgentClaude},
		{Name: "web", Path: "/code/web", IsGit: true},
	}}
	m := New(context.Background(), src)
	run(m, tea.WindowSizeMsg{Width: 80, Height: 24})
	run(m, m.Init()())
	require.Len(t, m.list.Items(), 2)
	return m, src
}

func TestPickerSelect(t *testing.T) {
	m, _ := newPicker(t)

	assert.True(t, run(m, tea.KeyMsg{Type: tea.KeyEnter}))
	require.NotNil(t, m.Selected)
	assert.Equal(t, "/code/api", m.Selected.Path)
}

func TestPickerQuit(t *testing.T) {
	m, _ := newPicker(t)
	assert.True(t, run(m, runeKey('q')))
	assert.Nil(t, m.Selected)
}

func TestPickerPinAndRemove(t *testing.T) {
	m, src := newPicker(t)

	run(m, runeKey('p'))
	assert.Equal(t, []string{"/code/api"}, src.pinned)
	assert.False(t, m.list.Items()[0].(projectItem).project.Pinned)

	run(m, runeKey('x'))
	assert.Equal(t, []string{"/code/api"}, src.removed)
	require.Len(t, m.list.Items(), 1)
	assert.Equal(t, "web", m.list.Items()[0].(projectItem).project.Name)
}

func TestPickerLoadError(t *testing.T) {
	src := &fakeSource{err: errors.New(errors.ErrCodeCorruptData, "bad projects")}
	m := New(context.Background(), src)
	run(m, m.Init()())
	assert.Error(t, m.Err())
	assert.Contains(t, m.View(), "bad projects")
}

func TestItemRendering(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	item := projectItem{project: models.Project{
		Name:   "api",
		Path:   filepath.Join(home, "code", "api"),
		Agent:  models.AgentGemini,
		Editor: models.EditorCursor,
	}}
	assert.Equal(t, "api", item.Title())
	assert.Equal(t, filepath.Join("~", "code", "api")+" · Gemini · Cursor", item.Description())
	assert.Contains(t, item.FilterValue(), "/code/api")

	empty := New(context.Background(), &fakeSource{})
	assert.Contains(t, empty.View(), "No projects yet")
}
