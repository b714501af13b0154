// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"dreamtales/internal/catalog"
	"dreamtales/internal/models"
)

// userIDHeader carries the authenticated account ID, set by the API
// gateway after verifying the session. The catalog trusts it and only
// checks kid ownership against it.
const userIDHeader = "X-User-ID"

// Favorites groups the per-kid bookmark handlers.
type Favorites struct {
	svc *catalog.Service
}

// NewFavorites creates the favorites handler group.
func NewFavorites(svc *catalog.Service) *Favorites {
	return &Favorites{svc: svc}
}

// callerID extracts the authenticated account ID from the request.
func callerID(r *http.Request) (uuid.UUID, error) {
	raw := r.Header.Get(userIDHeader)
	if raw == "" {
		return uuid.Nil, &models.ValidationError{Field: userIDHeader, Reason: "required"}
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &models.ValidationError{Field: userIDHeader, Reason: "invalid UUID"}
	}
	return id, nil
}

func kidIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "kidID"))
	if err != nil {
		return uuid.Nil, &models.ValidationError{Field: "kidID", Reason: "invalid UUID"}
	}
	return id, nil
}

// Add serves POST /api/v1/kids/{kidID}/favorites.
func (h *Favorites) Add(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	kidID, err := kidIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req struct {
		ContentID uuid.UUID `json:"content_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.ContentID == uuid.Nil {
		respondError(w, &models.ValidationError{Field: "content_id", Reason: "required"})
		return
	}

	created, err := h.svc.AddFavorite(userID, kidID, req.ContentID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, created)
}

// Remove serves DELETE /api/v1/kids/{kidID}/favorites/{contentID}.
// Removing an absent favorite still returns 200.
func (h *Favorites) Remove(w http.ResponseWriter, r *http.Request) {
	kidID, err := kidIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}
	contentID, err := uuid.Parse(chi.URLParam(r, "contentID"))
	if err != nil {
		respondError(w, &models.ValidationError{Field: "contentID", Reason: "invalid UUID"})
		return
	}

	if err := h.svc.RemoveFavorite(kidID, contentID); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "favorite removed")
}

// List serves GET /api/v1/kids/{kidID}/favorites, most recent first.
func (h *Favorites) List(w http.ResponseWriter, r *http.Request) {
	kidID, err := kidIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	items, err := h.svc.FavoritesByKid(kidID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, items)
}

// ListByUser serves GET /api/v1/favorites: bookmarks across all of the
// calling account's kids.
func (h *Favorites) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	items, err := h.svc.FavoritesByUser(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, items)
}

// Check serves GET /api/v1/kids/{kidID}/favorites/{contentID}: membership
// probe used by the player UI.
func (h *Favorites) Check(w http.ResponseWriter, r *http.Request) {
	kidID, err := kidIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}
	contentID, err := uuid.Parse(chi.URLParam(r, "contentID"))
	if err != nil {
		respondError(w, &models.ValidationError{Field: "contentID", Reason: "invalid UUID"})
		return
	}

	exists, err := h.svc.IsFavorite(kidID, contentID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]bool{"favorite": exists})
}
