// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cdn rewrites internally-stored relative asset paths into
// absolute delivery URLs. The catalog stores only URLs and paths; it never
// uploads or transcodes media.
package cdn

import (
	"strings"

	"dreamtales/internal/models"
)

// DefaultAssetPrefix is the internal relative-asset convention used by the
// editorial pipeline for files living in the media bucket.
const DefaultAssetPrefix = "/assets/"

// Resolver turns stored asset references into client-deliverable URLs.
type Resolver struct {
	baseURL     string
	assetPrefix string
}

// New creates a Resolver for the given CDN base URL. Trailing slashes on
// the base and a missing prefix fall back to defaults so config typos
// don't produce doubled or missing separators.
func New(baseURL, assetPrefix string) *Resolver {
	if assetPrefix == "" {
		assetPrefix = DefaultAssetPrefix
	}
	return &Resolver{
		baseURL:     strings.TrimRight(baseURL, "/"),
		assetPrefix: assetPrefix,
	}
}

// Rewrite normalizes a stored asset reference:
//   - already-absolute URLs pass through unchanged (idempotent),
//   - references using the internal asset prefix are rewritten to
//     "<base>/<path>",
//   - any other relative value is returned unmodified.
func (r *Resolver) Rewrite(raw string) string {
	if raw == "" {
		return ""
	}
	if isAbsolute(raw) {
		return raw
	}
	if strings.HasPrefix(raw, r.assetPrefix) {
		return r.baseURL + "/" + strings.TrimPrefix(raw, r.assetPrefix)
	}
	return raw
}

// RewriteVariant returns a copy of the variant with all media URLs
// normalized for delivery.
func (r *Resolver) RewriteVariant(v models.LanguageVariant) models.LanguageVariant {
	v.AudioURL = r.Rewrite(v.AudioURL)
	v.ImageURL = r.Rewrite(v.ImageURL)
	v.ThumbnailURL = r.Rewrite(v.ThumbnailURL)
	return v
}

// isAbsolute reports whether raw already carries an http(s) scheme.
func isAbsolute(raw string) bool {
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
}
