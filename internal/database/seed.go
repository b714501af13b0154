package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with initial development data: a couple of
// categories, bilingual demo content, and a kid profile under a fixed
// parent account so favorites can be exercised locally. No-op if content
// already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM content").Scan(&count); err != nil {
		return fmt.Errorf("seed check content: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	var bedtimeID, calmID string
	err = tx.QueryRow(`
		INSERT INTO categories (name, slug, description, sort_order, color, icon)
		VALUES ('Bedtime Stories', 'bedtime-stories', 'Wind-down tales for sleepy heads', 0, '#6C5CE7', 'moon')
		RETURNING id::text
	`).Scan(&bedtimeID)
	if err != nil {
		return fmt.Errorf("seed category bedtime: %w", err)
	}
	err = tx.QueryRow(`
		INSERT INTO categories (name, slug, description, sort_order, color, icon)
		VALUES ('Calm Minds', 'calm-minds', 'Meditations and affirmations', 1, '#00B894', 'lotus')
		RETURNING id::text
	`).Scan(&calmID)
	if err != nil {
		return fmt.Errorf("seed category calm: %w", err)
	}

	// A bilingual story with variants in both supported languages.
	var storyID string
	err = tx.QueryRow(`
		INSERT INTO content (type, title, slug, duration_sec, age_range, tags,
		                     default_language, is_featured, published_at, category_id)
		VALUES ('story', 'The Sleepy Forest', 'the-sleepy-forest', 420, '3-5',
		        '{bedtime,animals}', 'en', TRUE, NOW(), $1)
		RETURNING id::text
	`, bedtimeID).Scan(&storyID)
	if err != nil {
		return fmt.Errorf("seed story: %w", err)
	}
	_, err = tx.Exec(`
		INSERT INTO content_languages (content_id, language_code, title, description, audio_url, image_url, thumbnail_url)
		VALUES
			($1, 'en', 'The Sleepy Forest', 'A gentle walk through a forest where everyone is falling asleep.',
			 '/assets/audio/the-sleepy-forest-en.mp3', '/assets/images/the-sleepy-forest.webp', '/assets/thumbs/the-sleepy-forest.webp'),
			($1, 'hi', 'Neend Bhara Jungle', 'Ek shaant jungle ki kahani jahan sab so rahe hain.',
			 '/assets/audio/the-sleepy-forest-hi.mp3', '/assets/images/the-sleepy-forest.webp', '/assets/thumbs/the-sleepy-forest.webp')
	`, storyID)
	if err != nil {
		return fmt.Errorf("seed story languages: %w", err)
	}

	// A pre-bilingual meditation carried on the legacy flat columns plus
	// the bridged default-language variant.
	var medID string
	err = tx.QueryRow(`
		INSERT INTO content (type, title, slug, duration_sec, age_range, tags,
		                     default_language, published_at, category_id,
		                     legacy_title, legacy_description, legacy_audio_url, legacy_image_url)
		VALUES ('meditation', 'Ocean Breathing', 'ocean-breathing', 300, '5-8',
		        '{calming}', 'en', NOW(), $1,
		        'Ocean Breathing', 'Slow breaths with the waves.',
		        '/assets/audio/ocean-breathing.mp3', '/assets/images/ocean-breathing.webp')
		RETURNING id::text
	`, calmID).Scan(&medID)
	if err != nil {
		return fmt.Errorf("seed meditation: %w", err)
	}
	_, err = tx.Exec(`
		INSERT INTO content_languages (content_id, language_code, title, description, audio_url, image_url)
		VALUES ($1, 'en', 'Ocean Breathing', 'Slow breaths with the waves.',
		        '/assets/audio/ocean-breathing.mp3', '/assets/images/ocean-breathing.webp')
	`, medID)
	if err != nil {
		return fmt.Errorf("seed meditation language: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE categories SET content_count = (
			SELECT COUNT(*) FROM content WHERE category_id = categories.id AND status = 'active'
		)
	`)
	if err != nil {
		return fmt.Errorf("seed category counts: %w", err)
	}

	// A kid profile under a fixed dev account for exercising favorites.
	_, err = tx.Exec(`
		INSERT INTO kids (id, user_id, name)
		VALUES ('00000000-0000-0000-0000-0000000000d1'::uuid, '00000000-0000-0000-0000-0000000000a1'::uuid, 'Demo Kid')
	`)
	if err != nil {
		return fmt.Errorf("seed kid: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with demo catalog",
		"categories", 2,
		"content", 2,
	)

	return nil
}
