// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a named grouping of content items. ContentCount is a
// denormalized cache of the number of active items referencing the
// category; it may drift transiently under concurrent traffic and is
// reconciled by the recompute pass.
type Category struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	Slug         string        `json:"slug"`
	Description  string        `json:"description"`
	ParentID     *uuid.UUID    `json:"parent_id,omitempty"`
	Status       ContentStatus `json:"status"`
	ContentCount int           `json:"content_count"`
	SortOrder    int           `json:"sort_order"`
	Color        string        `json:"color"`
	Icon         string        `json:"icon"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`

	// Virtual fields populated by store methods.
	Children []Category `json:"children,omitempty"`
	Depth    int        `json:"depth"`
}

// IsActive returns true if the category is in the active lifecycle state.
func (c *Category) IsActive() bool {
	return c.Status == ContentStatusActive
}
