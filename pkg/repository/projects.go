package repository

import (
	"context"

	"github.com/grovetools/companion/errors"
	"github.com/grovetools/companion/pkg/models"
	"github.com/grovetools/companion/pkg/store"
	"github.com/grovetools/companion/util/pathutil"
)

// ProjectPatch holds the project fields an edit may change. Nil fields keep
// their stored value.
type ProjectPatch struct {
	Name   *string
	Path   *string
	IsGit  *bool
	Agent  *models.Agent
	Editor *models.Editor
}

func (p ProjectPatch) apply(project models.Project) models.Project {
	if p.Name != nil {
		project.Name = *p.Name
	}
	if p.Path != nil {
		project.Path = *p.Path
	}
	if p.IsGit != nil {
		project.IsGit = *p.IsGit
	}
	if p.Agent != nil {
		project.Agent = *p.Agent
	}
	if p.Editor != nil {
		project.Editor = *p.Editor
	}
	return project
}

// Projects is the project collection, keyed by path.
type Projects struct {
	*Collection[models.Project]
}

// NewProjects returns the project repository.
func NewProjects(s store.Store, maxRetries int) *Projects {
	return &Projects{NewCollection[models.Project](s, KeyProjects, "project", maxRetries)}
}

// SamePath reports whether two records point at the same location.
func SamePath(a, b string) bool {
	same, _ := pathutil.ComparePaths(a, b)
	return same
}

// AddUnique appends project unless another project already points at the
// same folder.
func (p *Projects) AddUnique(ctx context.Context, project models.Project) error {
	return p.Collection.AddUnique(ctx, project, func(stored, item models.Project) bool {
		return SamePath(stored.Path, item.Path)
	})
}

// ReplaceIdentity merges patch onto the project at oldPath. When the path
// changes the record is removed and re-appended under its new path, so it
// moves to the end of the list. Fails with NOT_FOUND for an unknown oldPath
// and ALREADY_EXISTS when the new path belongs to another project.
func (p *Projects) ReplaceIdentity(ctx context.Context, oldPath string, patch ProjectPatch) (models.Project, error) {
	var result models.Project
	err := p.Mutate(ctx, func(items []models.Project) ([]models.Project, bool, error) {
		idx := -1
		for i := range items {
			if items[i].Path == oldPath {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, false, errors.NotFound("project", oldPath)
		}

		merged := patch.apply(items[idx])
		if err := models.Validate(merged); err != nil {
			return nil, false, err
		}
		result = merged

		if merged.Path == oldPath {
			items[idx] = merged
			return items, true, nil
		}

		kept := make([]models.Project, 0, len(items))
		for _, item := range items {
			if item.Path != oldPath && SamePath(item.Path, merged.Path) {
				return nil, false, errors.AlreadyExists("project", merged.Path)
			}
			if item.Path != oldPath {
				kept = append(kept, item)
			}
		}
		return append(kept, merged), true, nil
	})
	return result, err
}

// TogglePin flips the pinned flag of the project at path.
func (p *Projects) TogglePin(ctx context.Context, path string) (models.Project, error) {
	return p.Modify(ctx, path, func(project *models.Project) error {
		project.Pinned = !project.Pinned
		return nil
	})
}
