package store

import (
	"database/sql"

	"github.com/google/uuid"

	"dreamtales/internal/models"
)

// KidStore is the read model over kid profiles used for favorite
// ownership validation. The account service owns writes; Create exists
// for seeding and tests.
type KidStore struct {
	db *sql.DB
}

// NewKidStore returns a new KidStore.
func NewKidStore(db *sql.DB) *KidStore {
	return &KidStore{db: db}
}

// FindByID retrieves a kid profile by ID. Returns nil if not found.
func (s *KidStore) FindByID(id uuid.UUID) (*models.Kid, error) {
	k := &models.Kid{}
	err := s.db.QueryRow(`
		SELECT id, user_id, name, avatar_url, created_at, updated_at
		FROM kids WHERE id = $1
	`, id).Scan(&k.ID, &k.UserID, &k.Name, &k.AvatarURL, &k.CreatedAt, &k.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, classify("find kid by id", err)
	}
	return k, nil
}

// Create inserts a kid profile and returns it.
func (s *KidStore) Create(k *models.Kid) (*models.Kid, error) {
	result := &models.Kid{}
	err := s.db.QueryRow(`
		INSERT INTO kids (user_id, name, avatar_url)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, name, avatar_url, created_at, updated_at
	`, k.UserID, k.Name, k.AvatarURL).Scan(
		&result.ID, &result.UserID, &result.Name, &result.AvatarURL,
		&result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, classify("create kid", err)
	}
	return result, nil
}
