// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"

	"github.com/google/uuid"
)

// The catalog error taxonomy. Stores and services return these typed
// errors; the HTTP boundary matches them with errors.As to pick a status
// code. Validation and ownership errors are terminal and surface verbatim;
// only RetryableError is eligible for caller-driven retry.

// ValidationError reports a malformed or missing field, or an enum
// violation. Never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// ConflictError reports a uniqueness collision (content slug, category
// name or slug). The storage unique index is the final authority; the
// read-then-write pre-check only produces this earlier on the fast path.
type ConflictError struct {
	Resource string
	Value    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s %q already exists", e.Resource, e.Value)
}

// DuplicateError reports an attempt to favorite a (kid, content) pair
// that already has a favorite row.
type DuplicateError struct {
	KidID     uuid.UUID
	ContentID uuid.UUID
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate favorite: kid %s already favorited content %s", e.KidID, e.ContentID)
}

// OwnershipError reports that a kid profile does not belong to the acting
// account. Never retried.
type OwnershipError struct {
	KidID  uuid.UUID
	UserID uuid.UUID
}

func (e *OwnershipError) Error() string {
	return fmt.Sprintf("ownership: kid %s does not belong to user %s", e.KidID, e.UserID)
}

// NotFoundError reports that a referenced entity does not exist or is not
// visible to the caller.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// CategoryHasContentError blocks deletion of a category that still owns
// active content.
type CategoryHasContentError struct {
	CategoryID uuid.UUID
	Count      int
}

func (e *CategoryHasContentError) Error() string {
	return fmt.Sprintf("category %s still has %d active content item(s)", e.CategoryID, e.Count)
}

// CategoryHasChildrenError blocks deletion of a category that still has
// child categories.
type CategoryHasChildrenError struct {
	CategoryID uuid.UUID
}

func (e *CategoryHasChildrenError) Error() string {
	return fmt.Sprintf("category %s still has child categories", e.CategoryID)
}

// RetryableError wraps a transient storage failure (timeout, dropped
// connection). The engine never retries internally; callers may retry
// with backoff.
type RetryableError struct {
	Op  string
	Err error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("transient failure in %s: %v", e.Op, e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}
