// Package sessions records agent sessions against projects and hands them
// to the session-start script.
package sessions

import (
	"context"
	"sort"
	"time"

	"github.com/grovetools/companion/command"
	"github.com/grovetools/companion/errors"
	"github.com/grovetools/companion/logging"
	"github.com/grovetools/companion/pkg/models"
	"github.com/grovetools/companion/pkg/repository"
	"github.com/grovetools/companion/pkg/workspace"
)

// Starter launches the external side of a session.
type Starter interface {
	StartSession(ctx context.Context, projectPath, agent, editor string) (command.Result, error)
}

// Manager creates and updates sessions.
type Manager struct {
	sessions *repository.Collection[models.Session]
	projects *workspace.Manager
	starter  Starter
	now      func() time.Time
}

// NewManager creates a Manager. starter may be nil, in which case sessions
// are only recorded.
func NewManager(sessions *repository.Collection[models.Session], projects *workspace.Manager, starter Starter) *Manager {
	return &Manager{
		sessions: sessions,
		projects: projects,
		starter:  starter,
		now:      time.Now,
	}
}

// List returns sessions, most recently started first. A non-empty
// projectPath restricts the result to that project.
func (m *Manager) List(ctx context.Context, projectPath string) ([]models.Session, error) {
	all, err := m.sessions.List(ctx)
	if err != nil {
		return nil, err
	}

	result := all[:0:0]
	for _, s := range all {
		if projectPath == "" || s.ProjectID == projectPath {
			result = append(result, s)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StartTime.After(result[j].StartTime)
	})
	return result, nil
}

// Start records a new active session for the project at projectPath, adds
// it to the project's recent sessions and runs the session-start script.
// The session stays recorded when the script fails; the failure is returned
// with the session.
func (m *Manager) Start(ctx context.Context, projectPath string) (models.Session, error) {
	project, err := m.projects.Get(ctx, projectPath)
	if err != nil {
		return models.Session{}, err
	}

	agent := project.Agent
	if agent == "" {
		agent = models.AgentNone
	}
	session := models.Session{
		ID:        models.NewSessionID(),
		ProjectID: project.Path,
		StartTime: m.now().UTC(),
		Active:    true,
		Agent:     agent,
	}
	if err := models.Validate(session); err != nil {
		return models.Session{}, err
	}

	if err := m.sessions.Add(ctx, session); err != nil {
		return models.Session{}, err
	}
	if _, err := m.projects.RecordSession(ctx, project.Path, session.ID); err != nil {
		return session, err
	}

	log := logging.NewLogger("sessions").WithField("session", session.ID).WithField("project", project.Path)
	log.Info("Session recorded")

	if m.starter == nil {
		return session, nil
	}
	if _, err := m.starter.StartSession(ctx, project.Path, string(project.Agent), string(project.Editor)); err != nil {
		log.WithError(err).Warn("Session script failed")
		return session, err
	}
	return session, nil
}

// Toggle stops an active session or resumes a stopped one.
func (m *Manager) Toggle(ctx context.Context, id string) (models.Session, error) {
	now := m.now().UTC()
	return m.sessions.Modify(ctx, id, func(s *models.Session) error {
		s.Active = !s.Active
		if s.Active {
			s.EndTime = nil
		} else {
			s.EndTime = &now
		}
		return nil
	})
}

// End marks the session as finished. Ending an ended session keeps its
// original end time.
func (m *Manager) End(ctx context.Context, id string) (models.Session, error) {
	now := m.now().UTC()
	return m.sessions.Modify(ctx, id, func(s *models.Session) error {
		if !s.Active && s.EndTime != nil {
			return nil
		}
		s.Active = false
		s.EndTime = &now
		return nil
	})
}

// Remove deletes the session record.
func (m *Manager) Remove(ctx context.Context, id string) error {
	removed, err := m.sessions.Remove(ctx, id)
	if err != nil {
		return err
	}
	if removed == 0 {
		return errors.NotFound("session", id)
	}
	return nil
}
