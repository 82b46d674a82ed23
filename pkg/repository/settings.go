package repository

import (
	"context"
	"encoding/json"

	"github.com/grovetools/companion/errors"
	"github.com/grovetools/companion/pkg/models"
	"github.com/grovetools/companion/pkg/store"
)

// SettingsRepository stores the settings singleton.
type SettingsRepository struct {
	store      store.Store
	maxRetries int
}

// NewSettings returns the settings repository.
func NewSettings(s store.Store, maxRetries int) *SettingsRepository {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &SettingsRepository{store: s, maxRetries: maxRetries}
}

// Get returns the stored settings, or models.DefaultSettings when none are stored.
func (r *SettingsRepository) Get(ctx context.Context) (models.Settings, error) {
	settings, _, err := r.load(ctx)
	return settings, err
}

// Save overwrites the stored settings with s.
func (r *SettingsRepository) Save(ctx context.Context, s models.Settings) error {
	return r.Update(ctx, func(current *models.Settings) error {
		*current = s
		return nil
	})
}

// Update applies fn to the current settings and stores the result.
func (r *SettingsRepository) Update(ctx context.Context, fn func(*models.Settings) error) error {
	return retry(ctx, KeySettings, r.maxRetries, func() error {
		settings, revision, err := r.load(ctx)
		if err != nil {
			return err
		}
		if err := fn(&settings); err != nil {
			return err
		}
		settings.Normalize()

		data, err := json.Marshal(settings)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to encode settings")
		}
		_, err = r.store.Write(ctx, KeySettings, data, revision)
		return err
	})
}

func (r *SettingsRepository) load(ctx context.Context) (models.Settings, int64, error) {
	blob, ok, err := r.store.Read(ctx, KeySettings)
	if err != nil {
		return models.Settings{}, 0, err
	}
	if !ok || len(blob.Data) == 0 {
		return models.DefaultSettings(), blob.Revision, nil
	}

	var settings models.Settings
	if err := json.Unmarshal(blob.Data, &settings); err != nil {
		return models.Settings{}, 0, errors.CorruptData(KeySettings, err)
	}
	settings.Normalize()
	return settings, blob.Revision, nil
}
