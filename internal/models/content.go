// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ContentType distinguishes the four kinds of playable items in the catalog.
type ContentType string

const (
	ContentTypeStory       ContentType = "story"
	ContentTypeAffirmation ContentType = "affirmation"
	ContentTypeMeditation  ContentType = "meditation"
	ContentTypeMusic       ContentType = "music"
)

// ValidContentType reports whether t is one of the known content types.
func ValidContentType(t ContentType) bool {
	switch t {
	case ContentTypeStory, ContentTypeAffirmation, ContentTypeMeditation, ContentTypeMusic:
		return true
	}
	return false
}

// AgeRange is the editorial age band a content item targets.
type AgeRange string

const (
	AgeRange0To3  AgeRange = "0-3"
	AgeRange3To5  AgeRange = "3-5"
	AgeRange5To8  AgeRange = "5-8"
	AgeRange8To12 AgeRange = "8-12"
)

// ValidAgeRange reports whether a is one of the known age bands.
func ValidAgeRange(a AgeRange) bool {
	switch a {
	case AgeRange0To3, AgeRange3To5, AgeRange5To8, AgeRange8To12:
		return true
	}
	return false
}

// LanguageCode identifies a supported content language. The set is fixed;
// variants are stored one row per (content, language) rather than as an
// open-ended map.
type LanguageCode string

const (
	LanguageEnglish LanguageCode = "en"
	LanguageHindi   LanguageCode = "hi"
)

// SupportedLanguages lists every language the catalog can store, in
// display order.
var SupportedLanguages = []LanguageCode{LanguageEnglish, LanguageHindi}

// ValidLanguage reports whether code is a supported language.
func ValidLanguage(code LanguageCode) bool {
	for _, l := range SupportedLanguages {
		if l == code {
			return true
		}
	}
	return false
}

// ContentStatus is the lifecycle state of a catalog entity. Archived items
// stay in the database (favorites may still reference them) but disappear
// from public listings.
type ContentStatus string

const (
	ContentStatusActive   ContentStatus = "active"
	ContentStatusArchived ContentStatus = "archived"
)

// contentTags is the closed set of editorial tags.
var contentTags = map[string]bool{
	"bedtime":   true,
	"calming":   true,
	"adventure": true,
	"animals":   true,
	"fantasy":   true,
	"nature":    true,
	"family":    true,
	"learning":  true,
	"festive":   true,
	"courage":   true,
}

// ValidTag reports whether tag is one of the known editorial tags.
func ValidTag(tag string) bool {
	return contentTags[tag]
}

// LanguageVariant holds the language-specific text and media fields of a
// content item. It is a value object addressed only through its parent
// content and language code.
type LanguageVariant struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	AudioURL     string `json:"audio_url"`
	ImageURL     string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	ShortKey     string `json:"short_key,omitempty"`
	Summary      string `json:"summary,omitempty"`
}

// Content is a playable media item: a story, affirmation, meditation, or
// music track. Language-specific fields live in Languages; the Legacy*
// columns are a read-only bridge for rows created before the catalog went
// bilingual and are consulted only as a last-resort fallback.
type Content struct {
	ID              uuid.UUID     `json:"id"`
	Type            ContentType   `json:"type"`
	Title           string        `json:"title"`
	Slug            string        `json:"slug"`
	DurationSec     int           `json:"duration_sec"`
	AgeRange        AgeRange      `json:"age_range"`
	Tags            []string      `json:"tags"`
	DefaultLanguage LanguageCode  `json:"default_language"`
	Status          ContentStatus `json:"status"`
	IsFeatured      bool          `json:"is_featured"`
	IsNewCollection bool          `json:"is_new_collection"`
	IsTrendingNow   bool          `json:"is_trending_now"`
	PopularityScore int64         `json:"popularity_score"`
	ViewCount       int64         `json:"view_count"`
	FavoriteCount   int64         `json:"favorite_count"`
	PublishedAt     *time.Time    `json:"published_at,omitempty"`
	CategoryID      *uuid.UUID    `json:"category_id,omitempty"`

	LegacyTitle        *string `json:"legacy_title,omitempty"`
	LegacyDescription  *string `json:"legacy_description,omitempty"`
	LegacyAudioURL     *string `json:"legacy_audio_url,omitempty"`
	LegacyImageURL     *string `json:"legacy_image_url,omitempty"`
	LegacyThumbnailURL *string `json:"legacy_thumbnail_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Languages is populated by store methods from the variant rows.
	Languages map[LanguageCode]LanguageVariant `json:"languages,omitempty"`
}

// IsActive returns true if the item is in the active lifecycle state.
func (c *Content) IsActive() bool {
	return c.Status == ContentStatusActive
}

// AvailableLanguages returns the languages the item has variants for, in
// the fixed SupportedLanguages order. The default language is always a
// member for well-formed content.
func (c *Content) AvailableLanguages() []LanguageCode {
	var out []LanguageCode
	for _, l := range SupportedLanguages {
		if _, ok := c.Languages[l]; ok {
			out = append(out, l)
		}
	}
	return out
}

// HasLegacyMedia reports whether the pre-bilingual flat columns carry a
// resolvable variant (at minimum an audio URL).
func (c *Content) HasLegacyMedia() bool {
	return c.LegacyAudioURL != nil && *c.LegacyAudioURL != ""
}

// LegacyVariant assembles a LanguageVariant from the flat legacy columns.
// Callers should check HasLegacyMedia first.
func (c *Content) LegacyVariant() LanguageVariant {
	v := LanguageVariant{Title: c.Title}
	if c.LegacyTitle != nil && *c.LegacyTitle != "" {
		v.Title = *c.LegacyTitle
	}
	if c.LegacyDescription != nil {
		v.Description = *c.LegacyDescription
	}
	if c.LegacyAudioURL != nil {
		v.AudioURL = *c.LegacyAudioURL
	}
	if c.LegacyImageURL != nil {
		v.ImageURL = *c.LegacyImageURL
	}
	if c.LegacyThumbnailURL != nil {
		v.ThumbnailURL = *c.LegacyThumbnailURL
	}
	return v
}

// ResolvedContent is the delivery view of a content item in one effective
// language: the variant chosen by the fallback chain with its URLs already
// rewritten to absolute CDN form, plus the language set for client-side
// switching.
type ResolvedContent struct {
	ID                 uuid.UUID      `json:"id"`
	Type               ContentType    `json:"type"`
	Slug               string         `json:"slug"`
	DurationSec        int            `json:"duration_sec"`
	AgeRange           AgeRange       `json:"age_range"`
	Tags               []string       `json:"tags"`
	RequestedLanguage  LanguageCode   `json:"requested_language"`
	Language           LanguageCode   `json:"language"`
	AvailableLanguages []LanguageCode `json:"available_languages"`

	Title        string `json:"title"`
	Description  string `json:"description"`
	AudioURL     string `json:"audio_url"`
	ImageURL     string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	ShortKey     string `json:"short_key,omitempty"`
	Summary      string `json:"summary,omitempty"`

	IsFeatured      bool       `json:"is_featured"`
	IsNewCollection bool       `json:"is_new_collection"`
	IsTrendingNow   bool       `json:"is_trending_now"`
	ViewCount       int64      `json:"view_count"`
	FavoriteCount   int64      `json:"favorite_count"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	CategoryID      *uuid.UUID `json:"category_id,omitempty"`

	// RankingScore is the canonical log-scale ordering signal; the bounded
	// EngagementScore is kept for legacy clients that render 0-5 meters.
	RankingScore    float64 `json:"ranking_score"`
	EngagementScore float64 `json:"engagement_score"`
}
