// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"dreamtales/internal/models"
)

// LanguageStore manages the per-language variant rows of content items.
// One row per (content, language); the unique compound index makes the
// upsert race-free.
type LanguageStore struct {
	db *sql.DB
}

// NewLanguageStore returns a new LanguageStore.
func NewLanguageStore(db *sql.DB) *LanguageStore {
	return &LanguageStore{db: db}
}

// Upsert inserts or replaces the variant for (contentID, code). Concurrent
// upserts for the same pair are serialized by ON CONFLICT.
func (s *LanguageStore) Upsert(contentID uuid.UUID, code models.LanguageCode, v models.LanguageVariant) error {
	_, err := s.db.Exec(`
		INSERT INTO content_languages (content_id, language_code, title, description,
		                               audio_url, image_url, thumbnail_url, short_key, summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (content_id, language_code) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			audio_url = EXCLUDED.audio_url,
			image_url = EXCLUDED.image_url,
			thumbnail_url = EXCLUDED.thumbnail_url,
			short_key = EXCLUDED.short_key,
			summary = EXCLUDED.summary,
			updated_at = NOW()
	`, contentID, code, v.Title, v.Description, v.AudioURL, v.ImageURL, v.ThumbnailURL, v.ShortKey, v.Summary)
	if err != nil {
		return classify("upsert language variant", err)
	}
	return nil
}

// ListForContent returns all variants of a content item keyed by language.
func (s *LanguageStore) ListForContent(contentID uuid.UUID) (map[models.LanguageCode]models.LanguageVariant, error) {
	rows, err := s.db.Query(`
		SELECT language_code, title, description, audio_url, image_url, thumbnail_url, short_key, summary
		FROM content_languages WHERE content_id = $1
	`, contentID)
	if err != nil {
		return nil, classify("list language variants", err)
	}
	defer rows.Close()

	out := make(map[models.LanguageCode]models.LanguageVariant)
	for rows.Next() {
		var code models.LanguageCode
		var v models.LanguageVariant
		if err := rows.Scan(&code, &v.Title, &v.Description, &v.AudioURL, &v.ImageURL, &v.ThumbnailURL, &v.ShortKey, &v.Summary); err != nil {
			return nil, fmt.Errorf("scan language variant: %w", err)
		}
		out[code] = v
	}
	return out, rows.Err()
}

// Attach bulk-loads variants for a slice of content items in one query
// and populates each item's Languages map in place.
func (s *LanguageStore) Attach(items []models.Content) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]string, len(items))
	index := make(map[uuid.UUID]int, len(items))
	for i := range items {
		ids[i] = items[i].ID.String()
		index[items[i].ID] = i
		items[i].Languages = make(map[models.LanguageCode]models.LanguageVariant)
	}

	rows, err := s.db.Query(`
		SELECT content_id, language_code, title, description, audio_url, image_url, thumbnail_url, short_key, summary
		FROM content_languages
		WHERE content_id = ANY(string_to_array($1, ',')::uuid[])
	`, strings.Join(ids, ","))
	if err != nil {
		return classify("attach language variants", err)
	}
	defer rows.Close()

	for rows.Next() {
		var contentID uuid.UUID
		var code models.LanguageCode
		var v models.LanguageVariant
		if err := rows.Scan(&contentID, &code, &v.Title, &v.Description, &v.AudioURL, &v.ImageURL, &v.ThumbnailURL, &v.ShortKey, &v.Summary); err != nil {
			return fmt.Errorf("scan language variant: %w", err)
		}
		if i, ok := index[contentID]; ok {
			items[i].Languages[code] = v
		}
	}
	return rows.Err()
}
