package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"dreamtales/internal/models"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &models.ValidationError{Field: "title", Reason: "required"}, http.StatusBadRequest},
		{"ownership", &models.OwnershipError{KidID: uuid.New(), UserID: uuid.New()}, http.StatusForbidden},
		{"not found", &models.NotFoundError{Resource: "content", ID: "x"}, http.StatusNotFound},
		{"conflict", &models.ConflictError{Resource: "content slug", Value: "x"}, http.StatusConflict},
		{"duplicate", &models.DuplicateError{KidID: uuid.New(), ContentID: uuid.New()}, http.StatusConflict},
		{"has content", &models.CategoryHasContentError{CategoryID: uuid.New(), Count: 2}, http.StatusConflict},
		{"has children", &models.CategoryHasChildrenError{CategoryID: uuid.New()}, http.StatusConflict},
		{"retryable", &models.RetryableError{Op: "list", Err: errors.New("timeout")}, http.StatusServiceUnavailable},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped validation", fmt.Errorf("outer: %w", &models.ValidationError{Field: "q", Reason: "required"}), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := statusFor(tt.err)
			if status != tt.want {
				t.Errorf("statusFor(%v): got %d, want %d", tt.err, status, tt.want)
			}
		})
	}
}

func TestRespondErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, &models.ValidationError{Field: "title", Reason: "required"})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Success {
		t.Error("expected success=false")
	}
	if len(env.Error) != 1 || env.Error[0] != "validation: title: required" {
		t.Errorf("error: got %v", env.Error)
	}
}

func TestRespondErrorHidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, errors.New("pq: column does not exist"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rec.Code)
	}

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if len(env.Error) != 1 || env.Error[0] != "internal server error" {
		t.Errorf("expected opaque message, got %v", env.Error)
	}
}

func TestRespondEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	respond(rec, http.StatusCreated, map[string]string{"id": "abc"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201", rec.Code)
	}

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !env.Success {
		t.Error("expected success=true")
	}
}
