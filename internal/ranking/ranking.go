// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ranking computes the ordering signals for catalog listings.
// Scores are derived on read from the persisted counters and are never
// cached or stored, so concurrent counter updates can't leave a stale
// score behind.
package ranking

import (
	"math"
	"time"

	"dreamtales/internal/models"
)

const (
	// featuredBoost is the flat score bonus for editorially featured items.
	featuredBoost = 5.0

	// recencyCeiling and recencyDecayDays shape the freshness term:
	// a just-published item gets +2, decaying linearly to zero over 60 days.
	recencyCeiling   = 2.0
	recencyDecayDays = 30.0
)

// Score returns the canonical ranking score:
//
//	featuredBoost + ln(1 + popularity) + max(0, 2 - daysSincePublished/30)
//
// Unpublished items get no recency term.
func Score(c *models.Content, now time.Time) float64 {
	s := 0.0
	if c.IsFeatured {
		s += featuredBoost
	}
	s += math.Log1p(float64(c.PopularityScore))
	if c.PublishedAt != nil {
		days := now.Sub(*c.PublishedAt).Hours() / 24
		s += math.Max(0, recencyCeiling-days/recencyDecayDays)
	}
	return s
}

// EngagementScore returns the bounded 0-5 scheme kept for legacy mobile
// clients that render star-style meters:
//
//	min(5, (favorites*2 + views*0.1) / 100)
//
// rounded to one decimal. It saturates quickly and is never used for
// listing order.
func EngagementScore(c *models.Content) float64 {
	raw := (float64(c.FavoriteCount)*2 + float64(c.ViewCount)*0.1) / 100
	if raw > 5 {
		raw = 5
	}
	return math.Round(raw*10) / 10
}

// Less is the listing sort comparator: featured first, then popularity
// descending, then most recently published, with a stable tie-break by ID
// so paginated listings never shuffle.
func Less(a, b *models.Content) bool {
	if a.IsFeatured != b.IsFeatured {
		return a.IsFeatured
	}
	if a.PopularityScore != b.PopularityScore {
		return a.PopularityScore > b.PopularityScore
	}
	at, bt := publishedOrZero(a), publishedOrZero(b)
	if !at.Equal(bt) {
		return at.After(bt)
	}
	return a.ID.String() < b.ID.String()
}

// publishedOrZero treats unpublished items as oldest.
func publishedOrZero(c *models.Content) time.Time {
	if c.PublishedAt == nil {
		return time.Time{}
	}
	return *c.PublishedAt
}
