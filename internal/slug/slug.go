// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives deterministic, URL-safe identifiers from titles.
// The same title always yields the same slug, so idempotent re-saves never
// churn identifiers. Global uniqueness is not handled here — the content
// store's unique index is the authority for collisions.
package slug

import (
	"regexp"
	"strings"
)

var (
	// nonAlphanumeric matches anything that isn't a lowercase letter,
	// digit, space, or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// separatorRun collapses consecutive spaces and hyphens into one hyphen.
	separatorRun = regexp.MustCompile(`[\s-]+`)
)

// Generate creates a URL-friendly slug from the given title.
// Example: "The Sleepy Forest" → "the-sleepy-forest"
func Generate(title string) string {
	result := strings.ToLower(strings.TrimSpace(title))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = separatorRun.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}
