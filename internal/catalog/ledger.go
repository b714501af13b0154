// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"log/slog"

	"github.com/google/uuid"

	"dreamtales/internal/models"
	"dreamtales/internal/slug"
)

// CategorySpec is the editorial input for creating or updating a category.
type CategorySpec struct {
	Name        string
	Description string
	ParentID    *uuid.UUID
	SortOrder   int
	Color       string
	Icon        string
}

// CreateCategory validates the spec, allocates a slug from the name, and
// inserts the category with a zero content count.
func (s *Service) CreateCategory(spec CategorySpec) (*models.Category, error) {
	if spec.Name == "" {
		return nil, &models.ValidationError{Field: "name", Reason: "required"}
	}

	sl := slug.Generate(spec.Name)
	if sl == "" {
		return nil, &models.ValidationError{Field: "name", Reason: "yields an empty slug"}
	}

	if spec.ParentID != nil {
		parent, err := s.categories.FindByID(*spec.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, &models.NotFoundError{Resource: "category", ID: spec.ParentID.String()}
		}
	}

	created, err := s.categories.Create(&models.Category{
		Name:        spec.Name,
		Slug:        sl,
		Description: spec.Description,
		ParentID:    spec.ParentID,
		SortOrder:   spec.SortOrder,
		Color:       spec.Color,
		Icon:        spec.Icon,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("category created", "id", created.ID, "slug", created.Slug)
	return created, nil
}

// UpdateCategory edits a category's editorial fields. Renames regenerate
// the slug; the content counter is never touched here.
func (s *Service) UpdateCategory(id uuid.UUID, spec CategorySpec) (*models.Category, error) {
	if spec.Name == "" {
		return nil, &models.ValidationError{Field: "name", Reason: "required"}
	}

	c, err := s.categories.FindByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, &models.NotFoundError{Resource: "category", ID: id.String()}
	}

	if spec.ParentID != nil {
		if *spec.ParentID == id {
			return nil, &models.ValidationError{Field: "parent_id", Reason: "category cannot be its own parent"}
		}
		parent, err := s.categories.FindByID(*spec.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, &models.NotFoundError{Resource: "category", ID: spec.ParentID.String()}
		}
	}

	if spec.Name != c.Name {
		newSlug := slug.Generate(spec.Name)
		if newSlug == "" {
			return nil, &models.ValidationError{Field: "name", Reason: "yields an empty slug"}
		}
		c.Slug = newSlug
	}
	c.Name = spec.Name
	c.Description = spec.Description
	c.ParentID = spec.ParentID
	c.SortOrder = spec.SortOrder
	c.Color = spec.Color
	c.Icon = spec.Icon

	if err := s.categories.Update(c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory removes a category. Deletion is refused while the
// category still has active content or child categories; the refusal uses
// a live count, not the denormalized ledger, so drift can't block or
// permit a delete incorrectly.
func (s *Service) DeleteCategory(id uuid.UUID) error {
	c, err := s.categories.FindByID(id)
	if err != nil {
		return err
	}
	if c == nil {
		return &models.NotFoundError{Resource: "category", ID: id.String()}
	}

	live, err := s.content.CountActiveByCategory(id)
	if err != nil {
		return err
	}
	if live > 0 {
		return &models.CategoryHasContentError{CategoryID: id, Count: live}
	}

	children, err := s.categories.HasChildren(id)
	if err != nil {
		return err
	}
	if children {
		return &models.CategoryHasChildrenError{CategoryID: id}
	}

	if err := s.categories.Delete(id); err != nil {
		return err
	}
	slog.Info("category deleted", "id", id)
	return nil
}

// ListCategories returns the active categories in display order.
func (s *Service) ListCategories() ([]models.Category, error) {
	return s.categories.List()
}

// CategoryTree returns the active categories as a nested tree.
func (s *Service) CategoryTree() ([]models.Category, error) {
	return s.categories.Tree()
}

// GetCategory returns one category by ID.
func (s *Service) GetCategory(id uuid.UUID) (*models.Category, error) {
	c, err := s.categories.FindByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, &models.NotFoundError{Resource: "category", ID: id.String()}
	}
	return c, nil
}

// RecomputeAllCounts walks every category and resets its denormalized
// content count from the actual rows. Per-category failures are logged
// and skipped so one bad category can't abort the sweep; the pass holds
// no global lock, so counts land at values that were each true at some
// instant during the sweep.
func (s *Service) RecomputeAllCounts() (int, error) {
	ids, err := s.categories.AllIDs()
	if err != nil {
		return 0, err
	}

	recomputed := 0
	for _, id := range ids {
		if err := s.categories.RecomputeCount(id); err != nil {
			slog.Warn("category recompute failed", "category_id", id, "error", err)
			continue
		}
		recomputed++
	}

	slog.Info("category counts recomputed", "categories", recomputed, "total", len(ids))
	return recomputed, nil
}
