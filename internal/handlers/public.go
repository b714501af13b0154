// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"dreamtales/internal/cache"
	"dreamtales/internal/catalog"
	"dreamtales/internal/models"
	"dreamtales/internal/store"
)

// Public groups the read-side handlers the apps call: listings, search,
// deep links, language resolution, playback events, categories.
type Public struct {
	svc      *catalog.Service
	listings *cache.ListingCache
}

// NewPublic creates the public handler group. listings may be nil when
// Valkey is not configured; listing responses are then always computed.
func NewPublic(svc *catalog.Service, listings *cache.ListingCache) *Public {
	return &Public{svc: svc, listings: listings}
}

// ListContent serves GET /api/v1/content. The full query string is the
// cache key; any admin write clears the whole listing cache.
func (h *Public) ListContent(w http.ResponseWriter, r *http.Request) {
	cacheKey := "list?" + r.URL.RawQuery
	if h.listings != nil {
		if body, ok := h.listings.Get(r.Context(), cacheKey); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write(body)
			return
		}
	}

	filter, err := filterFromQuery(r)
	if err != nil {
		respondError(w, err)
		return
	}

	items, err := h.svc.ListContent(filter)
	if err != nil {
		respondError(w, err)
		return
	}

	body, err := json.Marshal(envelope{Success: true, Data: items})
	if err != nil {
		respondError(w, err)
		return
	}
	if h.listings != nil {
		h.listings.Set(r.Context(), cacheKey, body)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// filterFromQuery builds a ContentFilter from the listing query params.
func filterFromQuery(r *http.Request) (store.ContentFilter, error) {
	q := r.URL.Query()
	f := store.ContentFilter{
		Type:              models.ContentType(q.Get("type")),
		AgeRange:          models.AgeRange(q.Get("age_range")),
		Tag:               q.Get("tag"),
		Language:          models.LanguageCode(q.Get("lang")),
		FeaturedOnly:      q.Get("featured") == "true",
		TrendingOnly:      q.Get("trending") == "true",
		NewCollectionOnly: q.Get("new") == "true",
	}

	if f.Type != "" && !models.ValidContentType(f.Type) {
		return f, &models.ValidationError{Field: "type", Reason: "unknown content type"}
	}
	if f.AgeRange != "" && !models.ValidAgeRange(f.AgeRange) {
		return f, &models.ValidationError{Field: "age_range", Reason: "unknown age range"}
	}
	if f.Language != "" && !models.ValidLanguage(f.Language) {
		return f, &models.ValidationError{Field: "lang", Reason: "unsupported language"}
	}

	if v := q.Get("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, &models.ValidationError{Field: "category_id", Reason: "invalid UUID"}
		}
		f.CategoryID = &id
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, &models.ValidationError{Field: "limit", Reason: "must be an integer"}
		}
		f.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, &models.ValidationError{Field: "offset", Reason: "must be a non-negative integer"}
		}
		f.Offset = n
	}
	return f, nil
}

// SearchContent serves GET /api/v1/content/search?q=.
func (h *Public) SearchContent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	items, err := h.svc.SearchContent(r.URL.Query().Get("q"), limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, items)
}

// GetContent serves GET /api/v1/content/{id}?lang=: the resolved delivery
// view in the requested language.
func (h *Public) GetContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, &models.ValidationError{Field: "id", Reason: "invalid UUID"})
		return
	}

	resolved, err := h.svc.Resolve(id, models.LanguageCode(r.URL.Query().Get("lang")))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, resolved)
}

// GetContentBySlug serves GET /api/v1/content/slug/{slug}?lang= for deep
// links from the apps.
func (h *Public) GetContentBySlug(w http.ResponseWriter, r *http.Request) {
	resolved, err := h.svc.ResolveBySlug(chi.URLParam(r, "slug"), models.LanguageCode(r.URL.Query().Get("lang")))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, resolved)
}

// RecordPlay serves POST /api/v1/content/{id}/play. The apps fire this on
// playback start; the route sits behind the per-IP rate limiter.
func (h *Public) RecordPlay(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, &models.ValidationError{Field: "id", Reason: "invalid UUID"})
		return
	}

	if err := h.svc.RecordPlay(id); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "play recorded")
}

// ListCategories serves GET /api/v1/categories. With ?tree=true the
// response nests children under their parents.
func (h *Public) ListCategories(w http.ResponseWriter, r *http.Request) {
	var (
		items []models.Category
		err   error
	)
	if r.URL.Query().Get("tree") == "true" {
		items, err = h.svc.CategoryTree()
	} else {
		items, err = h.svc.ListCategories()
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, items)
}

// Health serves GET /health.
func (h *Public) Health(w http.ResponseWriter, r *http.Request) {
	respondMessage(w, http.StatusOK, "ok")
}
