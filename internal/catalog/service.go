// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog is the content catalog engine: content creation and
// editing, per-language variants with fallback resolution, delivery URL
// normalization, playback counters, the category ledger, and per-kid
// favorites. The HTTP boundary above it stays thin; everything with
// business meaning lives here.
package catalog

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dreamtales/internal/cdn"
	"dreamtales/internal/models"
	"dreamtales/internal/ranking"
	"dreamtales/internal/slug"
	"dreamtales/internal/store"
)

// Service wires the entity stores together with the CDN resolver.
type Service struct {
	content    *store.ContentStore
	languages  *store.LanguageStore
	categories *store.CategoryStore
	favorites  *store.FavoriteStore
	kids       *store.KidStore
	resolver   *cdn.Resolver
}

// New creates the catalog service.
func New(
	content *store.ContentStore,
	languages *store.LanguageStore,
	categories *store.CategoryStore,
	favorites *store.FavoriteStore,
	kids *store.KidStore,
	resolver *cdn.Resolver,
) *Service {
	return &Service{
		content:    content,
		languages:  languages,
		categories: categories,
		favorites:  favorites,
		kids:       kids,
		resolver:   resolver,
	}
}

// ContentSpec is the editorial input for creating a content item. Either
// Variant (the default-language variant) or the Legacy* flat fields must
// carry the media URLs; legacy fields are bridged into the variant rows
// at create time so new rows never rely on them.
type ContentSpec struct {
	Type            models.ContentType
	Title           string
	DurationSec     int
	AgeRange        models.AgeRange
	Tags            []string
	DefaultLanguage models.LanguageCode
	CategoryID      *uuid.UUID
	IsFeatured      bool
	IsNewCollection bool
	IsTrendingNow   bool

	Variant *models.LanguageVariant

	LegacyTitle        string
	LegacyDescription  string
	LegacyAudioURL     string
	LegacyImageURL     string
	LegacyThumbnailURL string
}

// CreateContent validates the spec, allocates a slug, seeds the
// default-language variant (bridging legacy flat fields when that's all
// the caller has), and adjusts the category ledger. The created item
// always satisfies availableLanguages ⊇ {defaultLanguage}.
func (s *Service) CreateContent(spec ContentSpec) (*models.Content, error) {
	if spec.DefaultLanguage == "" {
		spec.DefaultLanguage = models.LanguageEnglish
	}
	if err := validateSpec(&spec); err != nil {
		return nil, err
	}

	variant := spec.Variant
	if variant == nil {
		// Pre-bilingual import path: seed the default-language variant
		// from the flat fields.
		v := models.LanguageVariant{
			Title:        spec.LegacyTitle,
			Description:  spec.LegacyDescription,
			AudioURL:     spec.LegacyAudioURL,
			ImageURL:     spec.LegacyImageURL,
			ThumbnailURL: spec.LegacyThumbnailURL,
		}
		if v.Title == "" {
			v.Title = spec.Title
		}
		variant = &v
	}
	if variant.AudioURL == "" {
		return nil, &models.ValidationError{Field: "audio_url", Reason: "required"}
	}
	if variant.ImageURL == "" {
		return nil, &models.ValidationError{Field: "image_url", Reason: "required"}
	}

	sl := slug.Generate(spec.Title)
	if sl == "" {
		return nil, &models.ValidationError{Field: "title", Reason: "yields an empty slug"}
	}

	// Fast-path collision check; the unique index remains the authority
	// when two creates race.
	if taken, err := s.content.SlugExists(sl, uuid.Nil); err != nil {
		return nil, err
	} else if taken {
		return nil, &models.ConflictError{Resource: "content slug", Value: sl}
	}

	if spec.CategoryID != nil {
		cat, err := s.categories.FindByID(*spec.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, &models.NotFoundError{Resource: "category", ID: spec.CategoryID.String()}
		}
	}

	c := &models.Content{
		Type:            spec.Type,
		Title:           spec.Title,
		Slug:            sl,
		DurationSec:     spec.DurationSec,
		AgeRange:        spec.AgeRange,
		Tags:            spec.Tags,
		DefaultLanguage: spec.DefaultLanguage,
		Status:          models.ContentStatusActive,
		IsFeatured:      spec.IsFeatured,
		IsNewCollection: spec.IsNewCollection,
		IsTrendingNow:   spec.IsTrendingNow,
		CategoryID:      spec.CategoryID,
	}
	if spec.Variant == nil && spec.LegacyAudioURL != "" {
		c.LegacyTitle = optional(spec.LegacyTitle)
		c.LegacyDescription = optional(spec.LegacyDescription)
		c.LegacyAudioURL = optional(spec.LegacyAudioURL)
		c.LegacyImageURL = optional(spec.LegacyImageURL)
		c.LegacyThumbnailURL = optional(spec.LegacyThumbnailURL)
	}

	created, err := s.content.Create(c)
	if err != nil {
		return nil, err
	}

	if err := s.languages.Upsert(created.ID, created.DefaultLanguage, *variant); err != nil {
		return nil, err
	}
	created.Languages = map[models.LanguageCode]models.LanguageVariant{
		created.DefaultLanguage: *variant,
	}

	if created.CategoryID != nil {
		// Ledger drift here is transient: the recompute pass reconciles.
		if err := s.categories.IncrementContentCount(*created.CategoryID, 1); err != nil {
			slog.Warn("category count increment failed", "category_id", *created.CategoryID, "error", err)
		}
	}

	slog.Info("content created",
		"id", created.ID,
		"type", created.Type,
		"slug", created.Slug,
	)
	return created, nil
}

// validateSpec checks the enum and required fields of a create request.
func validateSpec(spec *ContentSpec) error {
	if !models.ValidContentType(spec.Type) {
		return &models.ValidationError{Field: "type", Reason: "unknown content type"}
	}
	if spec.Title == "" {
		return &models.ValidationError{Field: "title", Reason: "required"}
	}
	if !models.ValidAgeRange(spec.AgeRange) {
		return &models.ValidationError{Field: "age_range", Reason: "unknown age range"}
	}
	if !models.ValidLanguage(spec.DefaultLanguage) {
		return &models.ValidationError{Field: "default_language", Reason: "unsupported language"}
	}
	if spec.DurationSec < 0 {
		return &models.ValidationError{Field: "duration_sec", Reason: "must not be negative"}
	}
	for _, tag := range spec.Tags {
		if !models.ValidTag(tag) {
			return &models.ValidationError{Field: "tags", Reason: "unknown tag " + tag}
		}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// SetLanguage upserts a language variant on an existing item and extends
// its available-language set. The default language never changes here.
func (s *Service) SetLanguage(id uuid.UUID, code models.LanguageCode, v models.LanguageVariant) error {
	if !models.ValidLanguage(code) {
		return &models.ValidationError{Field: "language_code", Reason: "unsupported language"}
	}
	if v.Title == "" {
		return &models.ValidationError{Field: "title", Reason: "required"}
	}
	if v.AudioURL == "" {
		return &models.ValidationError{Field: "audio_url", Reason: "required"}
	}

	c, err := s.content.FindByID(id)
	if err != nil {
		return err
	}
	if c == nil {
		return &models.NotFoundError{Resource: "content", ID: id.String()}
	}

	return s.languages.Upsert(id, code, v)
}

// Resolve returns the delivery view of a content item in the requested
// language, falling back requested → default → legacy flat fields. All
// URLs come back normalized; the response carries the full available
// language set for client-side switching.
func (s *Service) Resolve(id uuid.UUID, requested models.LanguageCode) (*models.ResolvedContent, error) {
	if requested != "" && !models.ValidLanguage(requested) {
		return nil, &models.ValidationError{Field: "lang", Reason: "unsupported language"}
	}

	c, err := s.content.FindByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil || !c.IsActive() {
		return nil, &models.NotFoundError{Resource: "content", ID: id.String()}
	}

	c.Languages, err = s.languages.ListForContent(id)
	if err != nil {
		return nil, err
	}

	if requested == "" {
		requested = c.DefaultLanguage
	}

	served := requested
	variant, ok := c.Languages[requested]
	if !ok {
		served = c.DefaultLanguage
		variant, ok = c.Languages[c.DefaultLanguage]
	}
	if !ok && c.HasLegacyMedia() {
		served = c.DefaultLanguage
		variant = c.LegacyVariant()
		ok = true
	}
	if !ok {
		return nil, &models.NotFoundError{Resource: "content variant", ID: id.String()}
	}

	variant = s.resolver.RewriteVariant(variant)
	now := time.Now()

	return &models.ResolvedContent{
		ID:                 c.ID,
		Type:               c.Type,
		Slug:               c.Slug,
		DurationSec:        c.DurationSec,
		AgeRange:           c.AgeRange,
		Tags:               c.Tags,
		RequestedLanguage:  requested,
		Language:           served,
		AvailableLanguages: c.AvailableLanguages(),
		Title:              variant.Title,
		Description:        variant.Description,
		AudioURL:           variant.AudioURL,
		ImageURL:           variant.ImageURL,
		ThumbnailURL:       variant.ThumbnailURL,
		ShortKey:           variant.ShortKey,
		Summary:            variant.Summary,
		IsFeatured:         c.IsFeatured,
		IsNewCollection:    c.IsNewCollection,
		IsTrendingNow:      c.IsTrendingNow,
		ViewCount:          c.ViewCount,
		FavoriteCount:      c.FavoriteCount,
		PublishedAt:        c.PublishedAt,
		CategoryID:         c.CategoryID,
		RankingScore:       ranking.Score(c, now),
		EngagementScore:    ranking.EngagementScore(c),
	}, nil
}

// Rename retitles a content item. The slug is regenerated only when the
// title actually changed; a collision with another item's slug fails with
// ConflictError and no disambiguation suffix is applied.
func (s *Service) Rename(id uuid.UUID, newTitle string) (*models.Content, error) {
	if newTitle == "" {
		return nil, &models.ValidationError{Field: "title", Reason: "required"}
	}

	c, err := s.content.FindByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, &models.NotFoundError{Resource: "content", ID: id.String()}
	}
	if c.Title == newTitle {
		return c, nil
	}

	newSlug := slug.Generate(newTitle)
	if newSlug == "" {
		return nil, &models.ValidationError{Field: "title", Reason: "yields an empty slug"}
	}

	if newSlug != c.Slug {
		if taken, err := s.content.SlugExists(newSlug, id); err != nil {
			return nil, err
		} else if taken {
			return nil, &models.ConflictError{Resource: "content slug", Value: newSlug}
		}
	}

	if err := s.content.Rename(id, newTitle, newSlug); err != nil {
		return nil, err
	}

	c.Title = newTitle
	c.Slug = newSlug
	slog.Info("content renamed", "id", id, "slug", newSlug)
	return c, nil
}

// ContentEdit carries the admin-editable fields of a content item. Nil
// pointers mean "leave unchanged".
type ContentEdit struct {
	DurationSec     *int
	AgeRange        *models.AgeRange
	Tags            []string
	CategoryID      *uuid.UUID
	ClearCategory   bool
	IsFeatured      *bool
	IsNewCollection *bool
	IsTrendingNow   *bool
}

// UpdateContent applies an editorial edit. Moving an item between
// categories adjusts both ledgers.
func (s *Service) UpdateContent(id uuid.UUID, edit ContentEdit) (*models.Content, error) {
	c, err := s.content.FindByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, &models.NotFoundError{Resource: "content", ID: id.String()}
	}

	oldCategory := c.CategoryID

	if edit.DurationSec != nil {
		if *edit.DurationSec < 0 {
			return nil, &models.ValidationError{Field: "duration_sec", Reason: "must not be negative"}
		}
		c.DurationSec = *edit.DurationSec
	}
	if edit.AgeRange != nil {
		if !models.ValidAgeRange(*edit.AgeRange) {
			return nil, &models.ValidationError{Field: "age_range", Reason: "unknown age range"}
		}
		c.AgeRange = *edit.AgeRange
	}
	if edit.Tags != nil {
		for _, tag := range edit.Tags {
			if !models.ValidTag(tag) {
				return nil, &models.ValidationError{Field: "tags", Reason: "unknown tag " + tag}
			}
		}
		c.Tags = edit.Tags
	}
	if edit.ClearCategory {
		c.CategoryID = nil
	} else if edit.CategoryID != nil {
		cat, err := s.categories.FindByID(*edit.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, &models.NotFoundError{Resource: "category", ID: edit.CategoryID.String()}
		}
		c.CategoryID = edit.CategoryID
	}
	if edit.IsFeatured != nil {
		c.IsFeatured = *edit.IsFeatured
	}
	if edit.IsNewCollection != nil {
		c.IsNewCollection = *edit.IsNewCollection
	}
	if edit.IsTrendingNow != nil {
		c.IsTrendingNow = *edit.IsTrendingNow
	}

	if err := s.content.Update(c); err != nil {
		return nil, err
	}

	// Category moves adjust both ledgers; drift reconciles in recompute.
	if c.IsActive() && !uuidPtrEqual(oldCategory, c.CategoryID) {
		if oldCategory != nil {
			if err := s.categories.DecrementContentCount(*oldCategory, 1); err != nil {
				slog.Warn("category count decrement failed", "category_id", *oldCategory, "error", err)
			}
		}
		if c.CategoryID != nil {
			if err := s.categories.IncrementContentCount(*c.CategoryID, 1); err != nil {
				slog.Warn("category count increment failed", "category_id", *c.CategoryID, "error", err)
			}
		}
	}

	return c, nil
}

// Archive soft-deletes a content item. The row and its favorites stay;
// the item just leaves public listings and its category's ledger.
func (s *Service) Archive(id uuid.UUID) error {
	c, err := s.content.FindByID(id)
	if err != nil {
		return err
	}
	if c == nil {
		return &models.NotFoundError{Resource: "content", ID: id.String()}
	}
	if !c.IsActive() {
		return nil
	}

	if err := s.content.SetStatus(id, models.ContentStatusArchived); err != nil {
		return err
	}
	if c.CategoryID != nil {
		if err := s.categories.DecrementContentCount(*c.CategoryID, 1); err != nil {
			slog.Warn("category count decrement failed", "category_id", *c.CategoryID, "error", err)
		}
	}
	slog.Info("content archived", "id", id)
	return nil
}

// Restore brings an archived item back into the active catalog.
func (s *Service) Restore(id uuid.UUID) error {
	c, err := s.content.FindByID(id)
	if err != nil {
		return err
	}
	if c == nil {
		return &models.NotFoundError{Resource: "content", ID: id.String()}
	}
	if c.IsActive() {
		return nil
	}

	if err := s.content.SetStatus(id, models.ContentStatusActive); err != nil {
		return err
	}
	if c.CategoryID != nil {
		if err := s.categories.IncrementContentCount(*c.CategoryID, 1); err != nil {
			slog.Warn("category count increment failed", "category_id", *c.CategoryID, "error", err)
		}
	}
	slog.Info("content restored", "id", id)
	return nil
}

// RecordPlay registers a playback event: one view, one popularity point,
// in a single atomic statement.
func (s *Service) RecordPlay(id uuid.UUID) error {
	return s.content.RecordPlay(id)
}

// IncrementPopularity adds amount popularity points atomically. Used by
// batch ingestion of engagement events.
func (s *Service) IncrementPopularity(id uuid.UUID, amount int64) error {
	if amount <= 0 {
		return &models.ValidationError{Field: "amount", Reason: "must be positive"}
	}
	return s.content.IncrementPopularity(id, amount)
}

// ListContent returns active content matching the filter with language
// variants attached, in the canonical listing order.
func (s *Service) ListContent(f store.ContentFilter) ([]models.Content, error) {
	items, err := s.content.List(f)
	if err != nil {
		return nil, err
	}
	if err := s.languages.Attach(items); err != nil {
		return nil, err
	}
	return items, nil
}

// SearchContent runs a full-text search over the active catalog.
func (s *Service) SearchContent(query string, limit int) ([]models.Content, error) {
	if query == "" {
		return nil, &models.ValidationError{Field: "q", Reason: "required"}
	}
	items, err := s.content.Search(query, limit)
	if err != nil {
		return nil, err
	}
	if err := s.languages.Attach(items); err != nil {
		return nil, err
	}
	return items, nil
}

// ResolveBySlug is the deep-link path: slug lookup plus language
// resolution in one call.
func (s *Service) ResolveBySlug(sl string, requested models.LanguageCode) (*models.ResolvedContent, error) {
	c, err := s.content.FindBySlug(sl)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, &models.NotFoundError{Resource: "content", ID: sl}
	}
	return s.Resolve(c.ID, requested)
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
