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

// FavoriteStore manages per-kid content bookmarks. The unique compound
// index on (kid_id, content_id) is the correctness guard for concurrent
// adds.
type FavoriteStore struct {
	db *sql.DB
}

// NewFavoriteStore returns a new FavoriteStore.
func NewFavoriteStore(db *sql.DB) *FavoriteStore {
	return &FavoriteStore{db: db}
}

// Insert creates a favorite row. A second insert for the same
// (kid, content) pair — even one racing the first — comes back as
// DuplicateError from the unique index.
func (s *FavoriteStore) Insert(f *models.Favorite) (*models.Favorite, error) {
	result := &models.Favorite{}
	err := s.db.QueryRow(`
		INSERT INTO favorites (user_id, kid_id, content_id)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, kid_id, content_id, created_at
	`, f.UserID, f.KidID, f.ContentID).Scan(
		&result.ID, &result.UserID, &result.KidID, &result.ContentID, &result.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "favorites_kid_content_key") {
			return nil, &models.DuplicateError{KidID: f.KidID, ContentID: f.ContentID}
		}
		return nil, classify("insert favorite", err)
	}
	return result, nil
}

// Delete removes the favorite for (kid, content). Returns whether a row
// was actually deleted so the caller can skip the counter decrement on a
// no-op remove.
func (s *FavoriteStore) Delete(kidID, contentID uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`
		DELETE FROM favorites WHERE kid_id = $1 AND content_id = $2
	`, kidID, contentID)
	if err != nil {
		return false, classify("delete favorite", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete favorite rows affected: %w", err)
	}
	return n > 0, nil
}

// Exists is the O(1) membership check backed by the unique compound index.
func (s *FavoriteStore) Exists(kidID, contentID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM favorites WHERE kid_id = $1 AND content_id = $2)
	`, kidID, contentID).Scan(&exists)
	if err != nil {
		return false, classify("check favorite", err)
	}
	return exists, nil
}

const favoriteJoinColumns = `f.id, f.user_id, f.kid_id, f.content_id, f.created_at, ` + joinedContentColumns

// joinedContentColumns mirrors contentColumns with the c. alias for the
// favorite join queries.
const joinedContentColumns = `c.id, c.type, c.title, c.slug, c.duration_sec, c.age_range,
       array_to_string(c.tags, ','), c.default_language, c.status,
       c.is_featured, c.is_new_collection, c.is_trending_now,
       c.popularity_score, c.view_count, c.favorite_count,
       c.published_at, c.category_id,
       c.legacy_title, c.legacy_description, c.legacy_audio_url,
       c.legacy_image_url, c.legacy_thumbnail_url,
       c.created_at, c.updated_at`

// scanFavoriteItem scans one joined favorite+content row.
func scanFavoriteItem(scanner interface{ Scan(...any) error }) (*models.FavoriteItem, error) {
	var item models.FavoriteItem
	var tags string
	err := scanner.Scan(
		&item.Favorite.ID, &item.Favorite.UserID, &item.Favorite.KidID,
		&item.Favorite.ContentID, &item.Favorite.CreatedAt,
		&item.Content.ID, &item.Content.Type, &item.Content.Title, &item.Content.Slug,
		&item.Content.DurationSec, &item.Content.AgeRange,
		&tags, &item.Content.DefaultLanguage, &item.Content.Status,
		&item.Content.IsFeatured, &item.Content.IsNewCollection, &item.Content.IsTrendingNow,
		&item.Content.PopularityScore, &item.Content.ViewCount, &item.Content.FavoriteCount,
		&item.Content.PublishedAt, &item.Content.CategoryID,
		&item.Content.LegacyTitle, &item.Content.LegacyDescription, &item.Content.LegacyAudioURL,
		&item.Content.LegacyImageURL, &item.Content.LegacyThumbnailURL,
		&item.Content.CreatedAt, &item.Content.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if tags != "" {
		item.Content.Tags = strings.Split(tags, ",")
	}
	return &item, nil
}

// ListByKid returns a kid's favorites joined with their content rows,
// most recent first.
func (s *FavoriteStore) ListByKid(kidID uuid.UUID) ([]models.FavoriteItem, error) {
	rows, err := s.db.Query(`
		SELECT `+favoriteJoinColumns+`
		FROM favorites f
		JOIN content c ON c.id = f.content_id
		WHERE f.kid_id = $1
		ORDER BY f.created_at DESC
	`, kidID)
	if err != nil {
		return nil, classify("list favorites by kid", err)
	}
	defer rows.Close()
	return collectFavoriteItems(rows)
}

// ListByUser returns favorites across all of an account's kids, most
// recent first.
func (s *FavoriteStore) ListByUser(userID uuid.UUID) ([]models.FavoriteItem, error) {
	rows, err := s.db.Query(`
		SELECT `+favoriteJoinColumns+`
		FROM favorites f
		JOIN content c ON c.id = f.content_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		return nil, classify("list favorites by user", err)
	}
	defer rows.Close()
	return collectFavoriteItems(rows)
}

func collectFavoriteItems(rows *sql.Rows) ([]models.FavoriteItem, error) {
	var items []models.FavoriteItem
	for rows.Next() {
		item, err := scanFavoriteItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}
