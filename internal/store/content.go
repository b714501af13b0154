// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"dreamtales/internal/models"
)

// ContentStore handles all content-related database operations.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore with the given database connection.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

// Tags are stored as TEXT[] but travel as comma-joined strings so the
// stdlib driver interface can scan them.
const contentColumns = `id, type, title, slug, duration_sec, age_range,
       array_to_string(tags, ','), default_language, status,
       is_featured, is_new_collection, is_trending_now,
       popularity_score, view_count, favorite_count,
       published_at, category_id,
       legacy_title, legacy_description, legacy_audio_url,
       legacy_image_url, legacy_thumbnail_url,
       created_at, updated_at`

// scanContent scans a row into a Content struct.
func scanContent(scanner interface{ Scan(...any) error }) (*models.Content, error) {
	var c models.Content
	var tags string
	err := scanner.Scan(
		&c.ID, &c.Type, &c.Title, &c.Slug, &c.DurationSec, &c.AgeRange,
		&tags, &c.DefaultLanguage, &c.Status,
		&c.IsFeatured, &c.IsNewCollection, &c.IsTrendingNow,
		&c.PopularityScore, &c.ViewCount, &c.FavoriteCount,
		&c.PublishedAt, &c.CategoryID,
		&c.LegacyTitle, &c.LegacyDescription, &c.LegacyAudioURL,
		&c.LegacyImageURL, &c.LegacyThumbnailURL,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if tags != "" {
		c.Tags = strings.Split(tags, ",")
	}
	return &c, nil
}

// Create inserts a new content item and returns it with the generated ID.
// A slug collision surfaces as ConflictError even when the pre-check
// missed it — the unique index is the authority.
func (s *ContentStore) Create(c *models.Content) (*models.Content, error) {
	if c.Status == "" {
		c.Status = models.ContentStatusActive
	}
	if c.Status == models.ContentStatusActive && c.PublishedAt == nil {
		now := time.Now()
		c.PublishedAt = &now
	}

	row := s.db.QueryRow(`
		INSERT INTO content (type, title, slug, duration_sec, age_range, tags,
		                     default_language, status,
		                     is_featured, is_new_collection, is_trending_now,
		                     published_at, category_id,
		                     legacy_title, legacy_description, legacy_audio_url,
		                     legacy_image_url, legacy_thumbnail_url)
		VALUES ($1, $2, $3, $4, $5, string_to_array(NULLIF($6, ''), ','),
		        $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING `+contentColumns,
		c.Type, c.Title, c.Slug, c.DurationSec, c.AgeRange, strings.Join(c.Tags, ","),
		c.DefaultLanguage, c.Status,
		c.IsFeatured, c.IsNewCollection, c.IsTrendingNow,
		c.PublishedAt, c.CategoryID,
		c.LegacyTitle, c.LegacyDescription, c.LegacyAudioURL,
		c.LegacyImageURL, c.LegacyThumbnailURL,
	)
	result, err := scanContent(row)
	if err != nil {
		if isUniqueViolation(err, "") {
			return nil, &models.ConflictError{Resource: "content slug", Value: c.Slug}
		}
		return nil, classify("create content", err)
	}
	return result, nil
}

// FindByID retrieves a content item by its UUID. Returns nil if not found.
func (s *ContentStore) FindByID(id uuid.UUID) (*models.Content, error) {
	row := s.db.QueryRow(`SELECT `+contentColumns+` FROM content WHERE id = $1`, id)
	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, classify("find content by id", err)
	}
	return c, nil
}

// FindBySlug retrieves an active content item by its slug. Used for
// deep links from the apps.
func (s *ContentStore) FindBySlug(slug string) (*models.Content, error) {
	row := s.db.QueryRow(`
		SELECT `+contentColumns+` FROM content
		WHERE slug = $1 AND status = 'active'
	`, slug)
	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, classify("find content by slug", err)
	}
	return c, nil
}

// SlugExists reports whether another content row already holds the slug.
// This is the fast-path pre-check only; concurrent creators may both pass
// it and the unique index decides the winner.
func (s *ContentStore) SlugExists(slug string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM content WHERE slug = $1 AND id <> $2)
	`, slug, excludeID).Scan(&exists)
	if err != nil {
		return false, classify("check slug", err)
	}
	return exists, nil
}

// Update modifies the mutable fields of an existing content item. The
// default language is deliberately not updatable.
func (s *ContentStore) Update(c *models.Content) error {
	_, err := s.db.Exec(`
		UPDATE content SET
			title = $1, slug = $2, duration_sec = $3, age_range = $4,
			tags = string_to_array(NULLIF($5, ''), ','),
			is_featured = $6, is_new_collection = $7, is_trending_now = $8,
			published_at = $9, category_id = $10, status = $11,
			updated_at = NOW()
		WHERE id = $12
	`, c.Title, c.Slug, c.DurationSec, c.AgeRange, strings.Join(c.Tags, ","),
		c.IsFeatured, c.IsNewCollection, c.IsTrendingNow,
		c.PublishedAt, c.CategoryID, c.Status, c.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return &models.ConflictError{Resource: "content slug", Value: c.Slug}
		}
		return classify("update content", err)
	}
	return nil
}

// Rename updates title and slug in one statement. A collision with
// another row's slug surfaces as ConflictError.
func (s *ContentStore) Rename(id uuid.UUID, title, slug string) error {
	res, err := s.db.Exec(`
		UPDATE content SET title = $1, slug = $2, updated_at = NOW() WHERE id = $3
	`, title, slug, id)
	if err != nil {
		if isUniqueViolation(err, "") {
			return &models.ConflictError{Resource: "content slug", Value: slug}
		}
		return classify("rename content", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &models.NotFoundError{Resource: "content", ID: id.String()}
	}
	return nil
}

// SetStatus moves a content item between lifecycle states. Archived items
// are never hard-deleted; favorites may still reference them.
func (s *ContentStore) SetStatus(id uuid.UUID, status models.ContentStatus) error {
	res, err := s.db.Exec(`
		UPDATE content SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, id)
	if err != nil {
		return classify("set content status", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &models.NotFoundError{Resource: "content", ID: id.String()}
	}
	return nil
}

// RecordPlay bumps the view and popularity counters in a single atomic
// statement. Never read-then-write: concurrent playback events must not
// lose updates.
func (s *ContentStore) RecordPlay(id uuid.UUID) error {
	res, err := s.db.Exec(`
		UPDATE content SET
			view_count = view_count + 1,
			popularity_score = popularity_score + 1
		WHERE id = $1 AND status = 'active'
	`, id)
	if err != nil {
		return classify("record play", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &models.NotFoundError{Resource: "content", ID: id.String()}
	}
	return nil
}

// IncrementPopularity adds amount to the popularity counter atomically.
func (s *ContentStore) IncrementPopularity(id uuid.UUID, amount int64) error {
	res, err := s.db.Exec(`
		UPDATE content SET popularity_score = popularity_score + $2 WHERE id = $1
	`, id, amount)
	if err != nil {
		return classify("increment popularity", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &models.NotFoundError{Resource: "content", ID: id.String()}
	}
	return nil
}

// AdjustFavoriteCount moves the denormalized favorite counter by delta,
// floored at zero.
func (s *ContentStore) AdjustFavoriteCount(id uuid.UUID, delta int64) error {
	_, err := s.db.Exec(`
		UPDATE content SET favorite_count = GREATEST(favorite_count + $2, 0) WHERE id = $1
	`, id, delta)
	if err != nil {
		return classify("adjust favorite count", err)
	}
	return nil
}

// ContentFilter narrows a listing query. Zero values mean "no filter".
type ContentFilter struct {
	Type              models.ContentType
	AgeRange          models.AgeRange
	Tag               string
	CategoryID        *uuid.UUID
	Language          models.LanguageCode
	FeaturedOnly      bool
	TrendingOnly      bool
	NewCollectionOnly bool
	Limit             int
	Offset            int
}

// List returns active content matching the filter, in the canonical
// listing order: featured first, then popularity, then recency, with a
// stable ID tie-break.
func (s *ContentStore) List(f ContentFilter) ([]models.Content, error) {
	var (
		where = []string{"status = 'active'"}
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Type != "" {
		where = append(where, "type = "+arg(f.Type))
	}
	if f.AgeRange != "" {
		where = append(where, "age_range = "+arg(f.AgeRange))
	}
	if f.Tag != "" {
		where = append(where, arg(f.Tag)+" = ANY(tags)")
	}
	if f.CategoryID != nil {
		where = append(where, "category_id = "+arg(*f.CategoryID))
	}
	if f.Language != "" {
		where = append(where, "EXISTS (SELECT 1 FROM content_languages cl WHERE cl.content_id = content.id AND cl.language_code = "+arg(f.Language)+")")
	}
	if f.FeaturedOnly {
		where = append(where, "is_featured")
	}
	if f.TrendingOnly {
		where = append(where, "is_trending_now")
	}
	if f.NewCollectionOnly {
		where = append(where, "is_new_collection")
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `SELECT ` + contentColumns + ` FROM content
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY is_featured DESC, popularity_score DESC, published_at DESC NULLS LAST, id
		LIMIT ` + arg(limit) + ` OFFSET ` + arg(f.Offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, classify("list content", err)
	}
	defer rows.Close()

	var items []models.Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Search runs a full-text query over titles, tags, and legacy
// descriptions of active content.
func (s *ContentStore) Search(query string, limit int) ([]models.Content, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT `+contentColumns+` FROM content
		WHERE status = 'active'
		  AND to_tsvector('simple', title || ' ' || array_to_string(tags, ' ') || ' ' || COALESCE(legacy_description, ''))
		      @@ plainto_tsquery('simple', $1)
		ORDER BY is_featured DESC, popularity_score DESC, published_at DESC NULLS LAST, id
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, classify("search content", err)
	}
	defer rows.Close()

	var items []models.Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// CountActiveByCategory returns the number of active content items in the
// category. This is the ground truth the denormalized category counter
// reconciles against.
func (s *ContentStore) CountActiveByCategory(categoryID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM content WHERE category_id = $1 AND status = 'active'
	`, categoryID).Scan(&count)
	if err != nil {
		return 0, classify("count content by category", err)
	}
	return count, nil
}
