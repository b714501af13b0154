// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"log/slog"

	"github.com/google/uuid"

	"dreamtales/internal/models"
)

// AddFavorite bookmarks a content item for a kid profile. The kid must
// belong to the calling account, the content must be active, and each
// (kid, content) pair can exist at most once; the unique index is the
// final word when two adds race.
func (s *Service) AddFavorite(userID, kidID, contentID uuid.UUID) (*models.Favorite, error) {
	kid, err := s.kids.FindByID(kidID)
	if err != nil {
		return nil, err
	}
	if kid == nil {
		return nil, &models.NotFoundError{Resource: "kid", ID: kidID.String()}
	}
	if !kid.BelongsTo(userID) {
		return nil, &models.OwnershipError{KidID: kidID, UserID: userID}
	}

	c, err := s.content.FindByID(contentID)
	if err != nil {
		return nil, err
	}
	if c == nil || !c.IsActive() {
		return nil, &models.NotFoundError{Resource: "content", ID: contentID.String()}
	}

	// Friendly fast path; the insert below still catches the race.
	if exists, err := s.favorites.Exists(kidID, contentID); err != nil {
		return nil, err
	} else if exists {
		return nil, &models.DuplicateError{KidID: kidID, ContentID: contentID}
	}

	created, err := s.favorites.Insert(&models.Favorite{
		UserID:    userID,
		KidID:     kidID,
		ContentID: contentID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.content.AdjustFavoriteCount(contentID, 1); err != nil {
		slog.Warn("favorite count increment failed", "content_id", contentID, "error", err)
	}

	return created, nil
}

// RemoveFavorite deletes the bookmark for (kid, content). Removing a
// favorite that does not exist is a no-op, and the content counter is
// only decremented when a row was actually deleted.
func (s *Service) RemoveFavorite(kidID, contentID uuid.UUID) error {
	deleted, err := s.favorites.Delete(kidID, contentID)
	if err != nil {
		return err
	}
	if !deleted {
		return nil
	}

	if err := s.content.AdjustFavoriteCount(contentID, -1); err != nil {
		slog.Warn("favorite count decrement failed", "content_id", contentID, "error", err)
	}
	return nil
}

// IsFavorite reports whether a kid has bookmarked a content item.
func (s *Service) IsFavorite(kidID, contentID uuid.UUID) (bool, error) {
	return s.favorites.Exists(kidID, contentID)
}

// FavoritesByKid returns a kid's bookmarks with their content, most
// recent first.
func (s *Service) FavoritesByKid(kidID uuid.UUID) ([]models.FavoriteItem, error) {
	return s.favorites.ListByKid(kidID)
}

// FavoritesByUser returns bookmarks across all of an account's kids.
func (s *Service) FavoritesByUser(userID uuid.UUID) ([]models.FavoriteItem, error) {
	return s.favorites.ListByUser(userID)
}
