package repository

import (
	"github.com/grovetools/companion/config"
	"github.com/grovetools/companion/pkg/models"
	"github.com/grovetools/companion/pkg/store"
)

// Repositories groups the repositories that share one store.
type Repositories struct {
	Store    store.Store
	Projects *Projects
	Scripts  *Collection[models.Script]
	Sessions *Collection[models.Session]
	Settings *SettingsRepository
}

// New wires every repository to s.
func New(s store.Store, maxRetries int) *Repositories {
	return &Repositories{
		Store:    s,
		Projects: NewProjects(s, maxRetries),
		Scripts:  NewCollection[models.Script](s, KeyScripts, "script", maxRetries),
		Sessions: NewCollection[models.Session](s, KeySessions, "session", maxRetries),
		Settings: NewSettings(s, maxRetries),
	}
}

// Open opens the configured store and wires the repositories to it. The
// caller closes Store when done.
func Open(cfg config.StoreConfig) (*Repositories, error) {
	s, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}
	return New(s, retriesFrom(cfg)), nil
}

// Close releases the underlying store.
func (r *Repositories) Close() error {
	return r.Store.Close()
}
