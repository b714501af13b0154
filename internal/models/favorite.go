// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite is a per-kid bookmark of a content item. At most one row may
// exist per (kid, content) pair; the unique compound index enforces this.
// Favorites are never updated in place — remove then re-add.
type Favorite struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	KidID     uuid.UUID `json:"kid_id"`
	ContentID uuid.UUID `json:"content_id"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteItem is a favorite joined with its content row, as returned by
// the list queries (most recent first).
type FavoriteItem struct {
	Favorite Favorite `json:"favorite"`
	Content  Content  `json:"content"`
}
