// Package repository persists companion records through a store.Store. Each
// collection is one JSON array under a fixed key, rewritten whole on every
// change.
package repository

import (
	"context"
	"encoding/json"

	"github.com/grovetools/companion/config"
	"github.com/grovetools/companion/errors"
	"github.com/grovetools/companion/logging"
	"github.com/grovetools/companion/pkg/store"
)

// Keys under which the collections are stored.
const (
	KeyProjects = "projects"
	KeyScripts  = "scripts"
	KeySessions = "sessions"
	KeySettings = "settings"
)

// Entity is a record with a unique identity inside its collection.
type Entity interface {
	Identity() string
}

type normalizer interface {
	Normalize()
}

// Collection is the list/add/update/remove repository for one record type.
// Mutations are read-modify-write cycles guarded by the blob revision and
// retried when another writer got there first.
type Collection[T Entity] struct {
	store      store.Store
	key        string
	kind       string
	maxRetries int
}

// NewCollection returns a repository for the records stored under key.
// kind names the record type in errors.
func NewCollection[T Entity](s store.Store, key, kind string, maxRetries int) *Collection[T] {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Collection[T]{store: s, key: key, kind: kind, maxRetries: maxRetries}
}

// Key returns the store key of the collection.
func (c *Collection[T]) Key() string { return c.key }

// List returns the records in insertion order. An absent blob is an empty list.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	items, _, err := c.load(ctx)
	return items, err
}

// Get returns the first record with the given identity.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	items, err := c.List(ctx)
	if err != nil {
		return zero, false, err
	}
	for _, item := range items {
		if item.Identity() == id {
			return item, true, nil
		}
	}
	return zero, false, nil
}

// Add appends a record. Identity uniqueness is the caller's concern.
func (c *Collection[T]) Add(ctx context.Context, item T) error {
	return c.Mutate(ctx, func(items []T) ([]T, bool, error) {
		return append(items, item), true, nil
	})
}

// AddUnique appends item unless clashes reports a conflict with a stored
// record, in which case it fails with ALREADY_EXISTS. The check runs inside
// the same revision-guarded cycle as the write, so a concurrent add of the
// same record is seen on retry.
func (c *Collection[T]) AddUnique(ctx context.Context, item T, clashes func(stored, item T) bool) error {
	return c.Mutate(ctx, func(items []T) ([]T, bool, error) {
		for _, stored := range items {
			if clashes(stored, item) {
				return nil, false, errors.AlreadyExists(c.kind, item.Identity())
			}
		}
		return append(items, item), true, nil
	})
}

// Update replaces the first record sharing item's identity and reports
// whether one was found. Nothing is written when none matches.
func (c *Collection[T]) Update(ctx context.Context, item T) (bool, error) {
	found := false
	err := c.Mutate(ctx, func(items []T) ([]T, bool, error) {
		found = false
		for i := range items {
			if items[i].Identity() == item.Identity() {
				items[i] = item
				found = true
				return items, true, nil
			}
		}
		return items, false, nil
	})
	return found && err == nil, err
}

// Remove deletes every record with the given identity and returns how many
// were removed.
func (c *Collection[T]) Remove(ctx context.Context, id string) (int, error) {
	removed := 0
	err := c.Mutate(ctx, func(items []T) ([]T, bool, error) {
		kept := make([]T, 0, len(items))
		for _, item := range items {
			if item.Identity() != id {
				kept = append(kept, item)
			}
		}
		removed = len(items) - len(kept)
		return kept, removed > 0, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// Modify applies fn to the record with the given identity and stores the
// result. It fails with NOT_FOUND when no record matches.
func (c *Collection[T]) Modify(ctx context.Context, id string, fn func(*T) error) (T, error) {
	var result T
	err := c.Mutate(ctx, func(items []T) ([]T, bool, error) {
		for i := range items {
			if items[i].Identity() != id {
				continue
			}
			if err := fn(&items[i]); err != nil {
				return nil, false, err
			}
			result = items[i]
			return items, true, nil
		}
		return nil, false, errors.NotFound(c.kind, id)
	})
	return result, err
}

// Mutate runs one read-modify-write cycle. fn receives the current records
// and returns the new list and whether it must be written. The cycle is
// repeated when the blob changed underneath it, up to the retry budget.
func (c *Collection[T]) Mutate(ctx context.Context, fn func([]T) ([]T, bool, error)) error {
	return retry(ctx, c.key, c.maxRetries, func() error {
		items, revision, err := c.load(ctx)
		if err != nil {
			return err
		}
		next, changed, err := fn(items)
		if err != nil || !changed {
			return err
		}
		return c.save(ctx, next, revision)
	})
}

func (c *Collection[T]) load(ctx context.Context) ([]T, int64, error) {
	blob, ok, err := c.store.Read(ctx, c.key)
	if err != nil {
		return nil, 0, err
	}
	items := []T{}
	if !ok || len(blob.Data) == 0 {
		return items, blob.Revision, nil
	}
	if err := json.Unmarshal(blob.Data, &items); err != nil {
		return nil, 0, errors.CorruptData(c.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, blob.Revision, nil
}

func (c *Collection[T]) save(ctx context.Context, items []T, revision int64) error {
	for i := range items {
		if n, ok := any(&items[i]).(normalizer); ok {
			n.Normalize()
		}
	}
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to encode "+c.kind+" records")
	}
	_, err = c.store.Write(ctx, c.key, data, revision)
	return err
}

// retry repeats op while it fails with a revision conflict.
func retry(ctx context.Context, key string, maxRetries int, op func() error) error {
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = op()
		if !errors.Is(err, errors.ErrCodeRevisionConflict) {
			return err
		}
		logging.NewLogger("repository").
			WithField("key", key).
			WithField("attempt", attempt+1).
			Debug("Revision conflict, retrying")
	}
	return err
}

// retriesFrom reads the retry budget from the store configuration.
func retriesFrom(cfg config.StoreConfig) int {
	if cfg.MaxRetries <= 0 {
		return config.DefaultMaxRetries
	}
	return cfg.MaxRetries
}
