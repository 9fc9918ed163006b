package reports

import (
	"context"
	"fmt"
	"strings"

	"civicreporter-be/models"
	"civicreporter-be/store"
)

var referenceProps = []string{"id", "title", "slug", "type", "metadata"}

// listReference fetches all objects of a reference kind. A store 404 means
// none exist yet.
func listReference[T models.Entity](ctx context.Context, r *Repository, kind models.ObjectType, depth int) ([]T, error) {
	var found []T
	err := r.withTimeout(ctx, func(ctx context.Context) error {
		return r.store.Find(ctx, store.Query{
			Type:          kind,
			Props:         referenceProps,
			Depth:         depth,
			OnDecodeError: r.skipUndecodable(kind),
		}, &found)
	})
	if store.IsNotFound(err) {
		return []T{}, nil
	}
	if err != nil {
		return nil, storeError("list "+string(kind), err)
	}

	valid := make([]T, 0, len(found))
	for _, e := range found {
		if err := models.Validate(e); err != nil {
			r.logger.Warn("skipping invalid object", "kind", kind, "id", e.Header().ID, "error", err)
			continue
		}
		valid = append(valid, e)
	}
	return valid, nil
}

func (r *Repository) ListDepartments(ctx context.Context) ([]models.Department, error) {
	return listReference[models.Department](ctx, r, models.KindDepartment, 0)
}

func (r *Repository) ListStaff(ctx context.Context) ([]models.StaffMember, error) {
	return listReference[models.StaffMember](ctx, r, models.KindStaffMember, 1)
}

func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	return listReference[models.Category](ctx, r, models.KindCategory, 1)
}

// DepartmentByCategory returns the department whose categories include c.
func (r *Repository) DepartmentByCategory(ctx context.Context, c models.IssueCategory) (models.Department, error) {
	if !c.IsValid() {
		return models.Department{}, invalid("invalid category %q", c)
	}
	departments, err := r.ListDepartments(ctx)
	if err != nil {
		return models.Department{}, err
	}
	if d, ok := owningDepartment(departments, c); ok {
		return d, nil
	}
	return models.Department{}, fmt.Errorf("department for %s: %w", c, models.ErrNotFound)
}

func owningDepartment(departments []models.Department, c models.IssueCategory) (models.Department, bool) {
	for _, d := range departments {
		if d.Owns(c) {
			return d, true
		}
	}
	return models.Department{}, false
}

// resolveDepartment finds the department object for a new report. It prefers
// the department that owns the category, then one titled like the mapped
// name, and otherwise falls back to the bare name.
func (r *Repository) resolveDepartment(ctx context.Context, c models.IssueCategory, name string) models.Ref {
	fallback := models.Ref{ID: name, Title: name}

	departments, err := r.ListDepartments(ctx)
	if err != nil {
		r.logger.Warn("department lookup failed, using department name", "category", c, "error", err)
		return fallback
	}

	if d, ok := owningDepartment(departments, c); ok {
		return models.Ref{ID: d.ID, Slug: d.Slug, Title: d.Title}
	}
	for _, d := range departments {
		if strings.EqualFold(d.Title, name) {
			return models.Ref{ID: d.ID, Slug: d.Slug, Title: d.Title}
		}
	}
	return fallback
}
