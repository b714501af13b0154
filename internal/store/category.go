// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"dreamtales/internal/models"
)

// CategoryStore manages categories and their denormalized content counts.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, parent_id, status, content_count, sort_order, color, icon, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID, &c.Status,
		&c.ContentCount, &c.SortOrder, &c.Color, &c.Icon,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all active categories ordered by sort_order, then name.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT ` + categoryColumns + ` FROM categories
		WHERE status = 'active'
		ORDER BY sort_order, name
	`)
	if err != nil {
		return nil, classify("list categories", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Tree returns active categories as a nested tree structure.
func (s *CategoryStore) Tree() ([]models.Category, error) {
	flat, err := s.List()
	if err != nil {
		return nil, err
	}
	return buildTree(flat, nil, 0), nil
}

// buildTree recursively builds a tree from a flat list.
func buildTree(flat []models.Category, parentID *uuid.UUID, depth int) []models.Category {
	var result []models.Category
	for _, c := range flat {
		if ptrEqual(c.ParentID, parentID) {
			c.Depth = depth
			c.Children = buildTree(flat, &c.ID, depth+1)
			result = append(result, c)
		}
	}
	return result
}

// ptrEqual compares two *uuid.UUID for equality (both nil or same value).
func ptrEqual(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, classify("find category by id", err)
	}
	return c, nil
}

// FindBySlug retrieves an active category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(slug string) (*models.Category, error) {
	row := s.db.QueryRow(`
		SELECT `+categoryColumns+` FROM categories WHERE slug = $1 AND status = 'active'
	`, slug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, classify("find category by slug", err)
	}
	return c, nil
}

// Create inserts a new category and returns it. Name and slug collisions
// surface as ConflictError.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	if c.Status == "" {
		c.Status = models.ContentStatusActive
	}
	row := s.db.QueryRow(`
		INSERT INTO categories (name, slug, description, parent_id, status, sort_order, color, icon)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.ParentID, c.Status, c.SortOrder, c.Color, c.Icon,
	)
	result, err := scanCategory(row)
	if err != nil {
		if isUniqueViolation(err, "") {
			return nil, &models.ConflictError{Resource: "category", Value: c.Name}
		}
		return nil, classify("create category", err)
	}
	return result, nil
}

// Update modifies an existing category. The content counter is managed by
// the ledger operations, never by Update.
func (s *CategoryStore) Update(c *models.Category) error {
	_, err := s.db.Exec(`
		UPDATE categories SET
			name = $1, slug = $2, description = $3, parent_id = $4,
			status = $5, sort_order = $6, color = $7, icon = $8,
			updated_at = NOW()
		WHERE id = $9
	`, c.Name, c.Slug, c.Description, c.ParentID, c.Status, c.SortOrder, c.Color, c.Icon, c.ID)
	if err != nil {
		if isUniqueViolation(err, "") {
			return &models.ConflictError{Resource: "category", Value: c.Name}
		}
		return classify("update category", err)
	}
	return nil
}

// Delete removes a category row. Precondition checks (no active content,
// no children) are the service's responsibility.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return classify("delete category", err)
	}
	return nil
}

// HasChildren reports whether any category has this one as parent.
func (s *CategoryStore) HasChildren(id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM categories WHERE parent_id = $1)
	`, id).Scan(&exists)
	if err != nil {
		return false, classify("check category children", err)
	}
	return exists, nil
}

// IncrementContentCount adds amount to the denormalized counter in a
// single atomic statement.
func (s *CategoryStore) IncrementContentCount(id uuid.UUID, amount int) error {
	_, err := s.db.Exec(`
		UPDATE categories SET content_count = content_count + $2, updated_at = NOW()
		WHERE id = $1
	`, id, amount)
	if err != nil {
		return classify("increment category count", err)
	}
	return nil
}

// DecrementContentCount subtracts amount from the counter, floored at
// zero so drift can never push it negative.
func (s *CategoryStore) DecrementContentCount(id uuid.UUID, amount int) error {
	_, err := s.db.Exec(`
		UPDATE categories SET content_count = GREATEST(content_count - $2, 0), updated_at = NOW()
		WHERE id = $1
	`, id, amount)
	if err != nil {
		return classify("decrement category count", err)
	}
	return nil
}

// RecomputeCount resets one category's counter to the actual number of
// active content rows referencing it, in a single statement so concurrent
// increments between the subquery and the write can't be lost wholesale.
func (s *CategoryStore) RecomputeCount(id uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE categories SET content_count = (
			SELECT COUNT(*) FROM content
			WHERE category_id = categories.id AND status = 'active'
		), updated_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return classify("recompute category count", err)
	}
	return nil
}

// AllIDs returns the IDs of every category, including archived ones, for
// the reconciliation pass.
func (s *CategoryStore) AllIDs() ([]uuid.UUID, error) {
	rows, err := s.db.Query(`SELECT id FROM categories ORDER BY id`)
	if err != nil {
		return nil, classify("list category ids", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan category id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
