// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the catalog API.
// Handlers are grouped by concern (public, favorites, admin) and receive
// their dependencies through the handler struct. All business logic lives
// in the catalog engine; handlers only decode, delegate, and encode.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"dreamtales/internal/models"
)

// envelope is the uniform JSON response shape of the API.
type envelope struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Error   []string `json:"error,omitempty"`
	Message string   `json:"message,omitempty"`
}

// respond writes a success envelope.
func respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data}); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// respondMessage writes a success envelope with only a message.
func respondMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Message: msg}); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// respondError maps an engine error onto the HTTP status taxonomy and
// writes a failure envelope. Unclassified errors are logged and returned
// as an opaque 500 so internals never leak to clients.
func respondError(w http.ResponseWriter, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		msg = "internal server error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(envelope{Success: false, Error: []string{msg}}); encErr != nil {
		slog.Error("encode error response failed", "error", encErr)
	}
}

// statusFor classifies an engine error into an HTTP status.
func statusFor(err error) (int, string) {
	var (
		validation  *models.ValidationError
		ownership   *models.OwnershipError
		notFound    *models.NotFoundError
		conflict    *models.ConflictError
		duplicate   *models.DuplicateError
		hasContent  *models.CategoryHasContentError
		hasChildren *models.CategoryHasChildrenError
		retryable   *models.RetryableError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Error()
	case errors.As(err, &ownership):
		return http.StatusForbidden, ownership.Error()
	case errors.As(err, &notFound):
		return http.StatusNotFound, notFound.Error()
	case errors.As(err, &conflict):
		return http.StatusConflict, conflict.Error()
	case errors.As(err, &duplicate):
		return http.StatusConflict, duplicate.Error()
	case errors.As(err, &hasContent):
		return http.StatusConflict, hasContent.Error()
	case errors.As(err, &hasChildren):
		return http.StatusConflict, hasChildren.Error()
	case errors.As(err, &retryable):
		return http.StatusServiceUnavailable, "temporarily unavailable, retry shortly"
	}
	return http.StatusInternalServerError, err.Error()
}

// decodeJSON decodes a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &models.ValidationError{Field: "body", Reason: "invalid JSON: " + err.Error()}
	}
	return nil
}
