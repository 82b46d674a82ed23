package store

import (
	"fmt"
	"path/filepath"

	"github.com/grovetools/companion/config"
	"github.com/grovetools/companion/errors"
	"github.com/grovetools/companion/pkg/paths"
	"github.com/grovetools/companion/util/pathutil"
)

// Open builds the store selected by the configuration. An empty path falls
// back to the data directory (companion.db for sqlite, companion.json for
// the file driver).
func Open(cfg config.StoreConfig) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = config.DefaultStoreDriver
	}

	switch driver {
	case config.DriverMemory:
		return NewMemoryStore(), nil
	case config.DriverSQLite:
		path, err := resolvePath(cfg.Path, paths.DatabasePath())
		if err != nil {
			return nil, err
		}
		return OpenSQLite(path)
	case config.DriverFile:
		path, err := resolvePath(cfg.Path, filepath.Join(paths.DataDir(), "companion.json"))
		if err != nil {
			return nil, err
		}
		return NewFileStore(path), nil
	default:
		return nil, errors.ConfigInvalid(fmt.Sprintf("unknown store driver '%s'", driver)).
			WithDetail("driver", driver)
	}
}

func resolvePath(configured, fallback string) (string, error) {
	if configured == "" {
		return fallback, nil
	}
	path, err := pathutil.Expand(configured)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid store path").
			WithDetail("path", configured)
	}
	return path, nil
}
