package sessions

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/grovetools/companion/command"
	"github.com/grovetools/companion/errors"
	"github.com/grovetools/companion/pkg/models"
	"github.com/grovetools/companion/pkg/repository"
	"github.com/grovetools/companion/pkg/store"
	"github.com/grovetools/companion/pkg/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type startCall struct {
	path, agent, editor string
}

type fakeStarter struct {
	calls []startCall
	err   error
}

func (f *fakeStarter) StartSession(_ context.Context, path, agent, editor string) (command.Result, error) {
	f.calls = append(f.calls, startCall{path, agent, editor})
	return command.Result{}, f.err
}

type fixture struct {
	manager  *Manager
	repos    *repository.Repositories
	projects *workspace.Manager
	starter  *fakeStarter
	dir      string
}

func setup(t *testing.T, opts workspace.AddOptions) fixture {
	t.Helper()
	repos := repository.New(store.NewMemoryStore(), 3)
	projects := workspace.NewManager(repos.Projects)

	dir := filepath.Join(t.TempDir(), "p1")
	require.NoError(t, os.Mkdir(dir, 0o755))
	_, err := projects.Add(context.Background(), dir, opts)
	require.NoError(t, err)

	starter := &fakeStarter{}
	return fixture{
		manager:  NewManager(repos.Sessions, projects, starter),
		repos:    repos,
		projects: projects,
		starter:  starter,
		dir:      dir,
	}
}

func TestStart(t *testing.T) {
	ctx := context.Background()

	t.Run("records the session and runs the script", func(t *testing.T) {
		f := setup(t, workspace.AddOptions{Agent: models.AgentGemini, Editor: models.EditorVSCode})

		session, err := f.manager.Start(ctx, f.dir)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(session.ID, "session-"))
		assert.Equal(t, f.dir, session.ProjectID)
		assert.True(t, session.Active)
		assert.Nil(t, session.EndTime)
		assert.Equal(t, models.AgentGemini, session.Agent)

		project, err := f.projects.Get(ctx, f.dir)
		require.NoError(t, err)
		assert.Equal(t, []string{session.ID}, project.RecentSessions)

		require.Len(t, f.starter.calls, 1)
		assert.Equal(t, startCall{f.dir, "Gemini", "VSCode"}, f.starter.calls[0])
	})

	t.Run("project without agent", func(t *testing.T) {
		f := setup(t, workspace.AddOptions{})

		session, err := f.manager.Start(ctx, f.dir)
		require.NoError(t, err)
		assert.Equal(t, models.AgentNone, session.Agent)
		assert.Equal(t, startCall{f.dir, "", ""}, f.starter.calls[0])
	})

	t.Run("script failure keeps the record", func(t *testing.T) {
		f := setup(t, workspace.AddOptions{})
		f.starter.err = errors.New(errors.ErrCodeCommandFailed, "boom")

		session, err := f.manager.Start(ctx, f.dir)
		assert.True(t, errors.Is(err, errors.ErrCodeCommandFailed))

		stored, ok, err := f.repos.Sessions.Get(ctx, session.ID)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, stored.Active)
	})

	t.Run("unknown project", func(t *testing.T) {
		f := setup(t, workspace.AddOptions{})
		_, err := f.manager.Start(ctx, filepath.Join(f.dir, "other"))
		assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
		assert.Empty(t, f.starter.calls)

		sessions, err := f.manager.List(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, sessions)
	})
}

func TestToggleAndEnd(t *testing.T) {
	ctx := context.Background()
	f := setup(t, workspace.AddOptions{})
	stop := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	f.manager.now = func() time.Time { return stop }

	session, err := f.manager.Start(ctx, f.dir)
	require.NoError(t, err)

	stopped, err := f.manager.Toggle(ctx, session.ID)
	require.NoError(t, err)
	assert.False(t, stopped.Active)
	require.NotNil(t, stopped.EndTime)
	assert.Equal(t, stop, *stopped.EndTime)

	resumed, err := f.manager.Toggle(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, resumed.Active)
	assert.Nil(t, resumed.EndTime)

	ended, err := f.manager.End(ctx, session.ID)
	require.NoError(t, err)
	assert.False(t, ended.Active)
	assert.Equal(t, stop, *ended.EndTime)

	f.manager.now = func() time.Time { return stop.Add(time.Hour) }
	again, err := f.manager.End(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, stop, *again.EndTime)

	_, err = f.manager.Toggle(ctx, "session-missing")
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestListAndRemove(t *testing.T) {
	ctx := context.Background()
	f := setup(t, workspace.AddOptions{})
	base := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		f.manager.now = func() time.Time { return at }
		s, err := f.manager.Start(ctx, f.dir)
		require.NoError(t, err)
		ids = append(ids, s.ID)
	}
	require.NoError(t, f.repos.Sessions.Add(ctx, models.Session{ID: "session-other", ProjectID: "/elsewhere", StartTime: base.Add(time.Hour), Agent: models.AgentNone}))

	sessions, err := f.manager.List(ctx, f.dir)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{sessions[0].ID, sessions[1].ID, sessions[2].ID})

	all, err := f.manager.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "session-other", all[0].ID)

	require.NoError(t, f.manager.Remove(ctx, ids[1]))
	assert.True(t, errors.Is(f.manager.Remove(ctx, ids[1]), errors.ErrCodeNotFound))

	sessions, err = f.manager.List(ctx, f.dir)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}
