// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"dreamtales/internal/cache"
	"dreamtales/internal/catalog"
	"dreamtales/internal/models"
	"dreamtales/internal/storage"
)

const (
	// maxUploadSize is the maximum allowed media upload size (200 MB);
	// sleep story audio runs long.
	maxUploadSize = 200 << 20
)

// allowedMediaTypes defines MIME types accepted for catalog media.
var allowedMediaTypes = map[string]bool{
	"audio/mpeg":    true,
	"audio/mp4":     true,
	"audio/aac":     true,
	"audio/ogg":     true,
	"image/jpeg":    true,
	"image/png":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// Admin groups the write-side handlers behind the gateway's admin guard.
type Admin struct {
	svc      *catalog.Service
	listings *cache.ListingCache
	storage  *storage.Client
}

// NewAdmin creates the admin handler group. listings and storage may be
// nil when Valkey or S3 are not configured.
func NewAdmin(svc *catalog.Service, listings *cache.ListingCache, storageClient *storage.Client) *Admin {
	return &Admin{svc: svc, listings: listings, storage: storageClient}
}

// invalidateListings clears the listing cache after any catalog write.
func (a *Admin) invalidateListings(r *http.Request) {
	if a.listings != nil {
		a.listings.InvalidateAll(r.Context())
	}
}

// contentRequest is the JSON body for content creation.
type contentRequest struct {
	Type            models.ContentType      `json:"type"`
	Title           string                  `json:"title"`
	DurationSec     int                     `json:"duration_sec"`
	AgeRange        models.AgeRange         `json:"age_range"`
	Tags            []string                `json:"tags"`
	DefaultLanguage models.LanguageCode     `json:"default_language"`
	CategoryID      *uuid.UUID              `json:"category_id"`
	IsFeatured      bool                    `json:"is_featured"`
	IsNewCollection bool                    `json:"is_new_collection"`
	IsTrendingNow   bool                    `json:"is_trending_now"`
	Variant         *models.LanguageVariant `json:"variant"`

	LegacyTitle        string `json:"legacy_title"`
	LegacyDescription  string `json:"legacy_description"`
	LegacyAudioURL     string `json:"legacy_audio_url"`
	LegacyImageURL     string `json:"legacy_image_url"`
	LegacyThumbnailURL string `json:"legacy_thumbnail_url"`
}

// CreateContent serves POST /api/v1/admin/content.
func (a *Admin) CreateContent(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	created, err := a.svc.CreateContent(catalog.ContentSpec{
		Type:               req.Type,
		Title:              req.Title,
		DurationSec:        req.DurationSec,
		AgeRange:           req.AgeRange,
		Tags:               req.Tags,
		DefaultLanguage:    req.DefaultLanguage,
		CategoryID:         req.CategoryID,
		IsFeatured:         req.IsFeatured,
		IsNewCollection:    req.IsNewCollection,
		IsTrendingNow:      req.IsTrendingNow,
		Variant:            req.Variant,
		LegacyTitle:        req.LegacyTitle,
		LegacyDescription:  req.LegacyDescription,
		LegacyAudioURL:     req.LegacyAudioURL,
		LegacyImageURL:     req.LegacyImageURL,
		LegacyThumbnailURL: req.LegacyThumbnailURL,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	a.invalidateListings(r)
	respond(w, http.StatusCreated, created)
}

// UpdateContent serves PUT /api/v1/admin/content/{id}.
func (a *Admin) UpdateContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, &models.ValidationError{Field: "id", Reason: "invalid UUID"})
		return
	}

	var req struct {
		DurationSec     *int             `json:"duration_sec"`
		AgeRange        *models.AgeRange `json:"age_range"`
		Tags            []string         `json:"tags"`
		CategoryID      *uuid.UUID       `json:"category_id"`
		ClearCategory   bool             `json:"clear_category"`
		IsFeatured      *bool            `json:"is_featured"`
		IsNewCollection *bool            `json:"is_new_collection"`
		IsTrendingNow   *bool            `json:"is_trending_now"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	updated, err := a.svc.UpdateContent(id, catalog.ContentEdit{
		DurationSec:     req.DurationSec,
		AgeRange:        req.AgeRange,
		Tags:            req.Tags,
		CategoryID:      req.CategoryID,
		ClearCategory:   req.ClearCategory,
		IsFeatured:      req.IsFeatured,
		IsNewCollection: req.IsNewCollection,
		IsTrendingNow:   req.IsTrendingNow,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	a.invalidateListings(r)
	respond(w, http.StatusOK, updated)
}

// RenameContent serves POST /api/v1/admin/content/{id}/rename. The slug
// is regenerated from the new title; collisions come back as 409.
func (a *Admin) RenameContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, &models.ValidationError{Field: "id", Reason: "invalid UUID"})
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	renamed, err := a.svc.Rename(id, req.Title)
	if err != nil {
		respondError(w, err)
		return
	}

	a.invalidateListings(r)
	respond(w, http.StatusOK, renamed)
}

// SetLanguage serves PUT /api/v1/admin/content/{id}/languages/{code}.
func (a *Admin) SetLanguage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, &models.ValidationError{Field: "id", Reason: "invalid UUID"})
		return
	}

	var v models.LanguageVariant
	if err := decodeJSON(r, &v); err != nil {
		respondError(w, err)
		return
	}

	code := models.LanguageCode(chi.URLParam(r, "code"))
	if err := a.svc.SetLanguage(id, code, v); err != nil {
		respondError(w, err)
		return
	}

	a.invalidateListings(r)
	respondMessage(w, http.StatusOK, "language variant saved")
}

// ArchiveContent serves DELETE /api/v1/admin/content/{id}. Archived items
// keep their row and favorites; only listings forget them.
func (a *Admin) ArchiveContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, &models.ValidationError{Field: "id", Reason: "invalid UUID"})
		return
	}

	if err := a.svc.Archive(id); err != nil {
		respondError(w, err)
		return
	}

	a.invalidateListings(r)
	respondMessage(w, http.StatusOK, "content archived")
}

// RestoreContent serves POST /api/v1/admin/content/{id}/restore.
func (a *Admin) RestoreContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, &models.ValidationError{Field: "id", Reason: "invalid UUID"})
		return
	}

	if err := a.svc.Restore(id); err != nil {
		respondError(w, err)
		return
	}

	a.invalidateListings(r)
	respondMessage(w, http.StatusOK, "content restored")
}

// BoostPopularity serves POST /api/v1/admin/content/{id}/popularity:
// batch ingestion of engagement events scored outside the catalog.
func (a *Admin) BoostPopularity(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, &models.ValidationError{Field: "id", Reason: "invalid UUID"})
		return
	}

	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := a.svc.IncrementPopularity(id, req.Amount); err != nil {
		respondError(w, err)
		return
	}

	a.invalidateListings(r)
	respondMessage(w, http.StatusOK, "popularity updated")
}

// --- Categories ---

// categoryRequest is the JSON body for category create/update.
type categoryRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	SortOrder   int        `json:"sort_order"`
	Color       string     `json:"color"`
	Icon        string     `json:"icon"`
}

func (req *categoryRequest) spec() catalog.CategorySpec {
	return catalog.CategorySpec{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		SortOrder:   req.SortOrder,
		Color:       req.Color,
		Icon:        req.Icon,
	}
}

// CreateCategory serves POST /api/v1/admin/categories.
func (a *Admin) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	created, err := a.svc.CreateCategory(req.spec())
	if err != nil {
		respondError(w, err)
		return
	}

	a.invalidateListings(r)
	respond(w, http.StatusCreated, created)
}

// UpdateCategory serves PUT /api/v1/admin/categories/{id}.
func (a *Admin) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, &models.ValidationError{Field: "id", Reason: "invalid UUID"})
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	updated, err := a.svc.UpdateCategory(id, req.spec())
	if err != nil {
		respondError(w, err)
		return
	}

	a.invalidateListings(r)
	respond(w, http.StatusOK, updated)
}

// DeleteCategory serves DELETE /api/v1/admin/categories/{id}. Refused
// with 409 while the category still holds active content or children.
func (a *Admin) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, &models.ValidationError{Field: "id", Reason: "invalid UUID"})
		return
	}

	if err := a.svc.DeleteCategory(id); err != nil {
		respondError(w, err)
		return
	}

	a.invalidateListings(r)
	respondMessage(w, http.StatusOK, "category deleted")
}

// RecountCategories serves POST /api/v1/admin/categories/recount: the
// ledger reconciliation sweep.
func (a *Admin) RecountCategories(w http.ResponseWriter, r *http.Request) {
	recomputed, err := a.svc.RecomputeAllCounts()
	if err != nil {
		respondError(w, err)
		return
	}

	a.invalidateListings(r)
	respond(w, http.StatusOK, map[string]int{"recomputed": recomputed})
}

// --- Media ---

// UploadMedia serves POST /api/v1/admin/media: multipart upload to S3,
// returning the delivery URL the editor pastes into a variant.
func (a *Admin) UploadMedia(w http.ResponseWriter, r *http.Request) {
	if a.storage == nil {
		respondError(w, &models.RetryableError{Op: "media upload", Err: fmt.Errorf("object storage not configured")})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, &models.ValidationError{Field: "file", Reason: "upload too large or malformed"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, &models.ValidationError{Field: "file", Reason: "missing file field"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedMediaTypes[contentType] {
		respondError(w, &models.ValidationError{Field: "file", Reason: "unsupported media type " + contentType})
		return
	}

	kind := "images"
	if strings.HasPrefix(contentType, "audio/") {
		kind = "audio"
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := fmt.Sprintf("%s/%s%s", kind, uuid.NewString(), ext)

	if err := a.storage.Upload(r.Context(), key, contentType, file, header.Size); err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusCreated, map[string]string{
		"key": key,
		"url": a.storage.FileURL(key),
	})
}
