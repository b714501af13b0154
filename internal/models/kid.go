// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Kid is a child profile under a parent account. The catalog only reads
// kids to validate favorite ownership; profile management lives in the
// account service, which owns writes to this table.
type Kid struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BelongsTo reports whether the kid profile is owned by the given account.
func (k *Kid) BelongsTo(userID uuid.UUID) bool {
	return k.UserID == userID
}
