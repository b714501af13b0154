// catalog_test.go exercises the engine against a real database. Tests
// are skipped if PostgreSQL is not available.
package catalog

import (
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"dreamtales/internal/cdn"
	"dreamtales/internal/database"
	"dreamtales/internal/models"
	"dreamtales/internal/store"
)

func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "dreamtales")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "dreamtales")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testService builds a Service over the test database, skipping when the
// database is unreachable.
func testService(t *testing.T) (*Service, *sql.DB) {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)
	t.Cleanup(func() { db.Close() })

	resolver := cdn.New("https://cdn.test.dreamtales.app", cdn.DefaultAssetPrefix)
	svc := New(
		store.NewContentStore(db),
		store.NewLanguageStore(db),
		store.NewCategoryStore(db),
		store.NewFavoriteStore(db),
		store.NewKidStore(db),
		resolver,
	)
	return svc, db
}

func cleanupContent(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, s := range slugs {
			db.Exec("DELETE FROM content WHERE slug = $1", s)
		}
	})
}

func cleanupCategories(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, s := range slugs {
			db.Exec("DELETE FROM categories WHERE slug = $1", s)
		}
	})
}

func cleanupKids(t *testing.T, db *sql.DB, names ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, n := range names {
			db.Exec("DELETE FROM kids WHERE name = $1", n)
		}
	})
}

func uniqueTitle(prefix string) string {
	return prefix + " " + uuid.NewString()[:8]
}

func TestCreateContentBridgesLegacyFields(t *testing.T) {
	svc, db := testService(t)

	title := uniqueTitle("Legacy Bridge")
	created, err := svc.CreateContent(ContentSpec{
		Type:           models.ContentTypeStory,
		Title:          title,
		DurationSec:    240,
		AgeRange:       models.AgeRange3To5,
		LegacyAudioURL: "/assets/audio/legacy.mp3",
		LegacyImageURL: "/assets/img/legacy.png",
	})
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	cleanupContent(t, db, created.Slug)

	// The default-language variant must be seeded from the flat fields.
	v, ok := created.Languages[models.LanguageEnglish]
	if !ok {
		t.Fatal("expected en variant seeded from legacy fields")
	}
	if v.AudioURL != "/assets/audio/legacy.mp3" {
		t.Errorf("audio_url: got %q", v.AudioURL)
	}
	if got := created.AvailableLanguages(); len(got) != 1 || got[0] != models.LanguageEnglish {
		t.Errorf("available languages: got %v", got)
	}
}

func TestCreateContentValidation(t *testing.T) {
	svc, _ := testService(t)

	tests := []struct {
		name string
		spec ContentSpec
	}{
		{"bad type", ContentSpec{Type: "podcast", Title: "X", AgeRange: models.AgeRange3To5}},
		{"empty title", ContentSpec{Type: models.ContentTypeStory, AgeRange: models.AgeRange3To5}},
		{"bad age range", ContentSpec{Type: models.ContentTypeStory, Title: "X", AgeRange: "13-99"}},
		{"bad tag", ContentSpec{Type: models.ContentTypeStory, Title: "X", AgeRange: models.AgeRange3To5, Tags: []string{"scary"}}},
		{"no media", ContentSpec{Type: models.ContentTypeStory, Title: "X", AgeRange: models.AgeRange3To5}},
		{"symbols-only title", ContentSpec{Type: models.ContentTypeStory, Title: "!!!", AgeRange: models.AgeRange3To5,
			Variant: &models.LanguageVariant{Title: "X", AudioURL: "/a.mp3", ImageURL: "/i.png"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateContent(tt.spec)
			var verr *models.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestCreateContentAdjustsCategoryLedger(t *testing.T) {
	svc, db := testService(t)

	cat, err := svc.CreateCategory(CategorySpec{Name: uniqueTitle("Ledger Cat")})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	cleanupCategories(t, db, cat.Slug)

	created, err := svc.CreateContent(ContentSpec{
		Type:       models.ContentTypeStory,
		Title:      uniqueTitle("Ledger Story"),
		AgeRange:   models.AgeRange3To5,
		CategoryID: &cat.ID,
		Variant:    &models.LanguageVariant{Title: "T", AudioURL: "/a.mp3", ImageURL: "/i.png"},
	})
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	cleanupContent(t, db, created.Slug)

	after, err := svc.GetCategory(cat.ID)
	if err != nil {
		t.Fatalf("GetCategory: %v", err)
	}
	if after.ContentCount != 1 {
		t.Errorf("content_count: got %d, want 1", after.ContentCount)
	}

	// Archiving releases the slot.
	if err := svc.Archive(created.ID); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	after, _ = svc.GetCategory(cat.ID)
	if after.ContentCount != 0 {
		t.Errorf("content_count after archive: got %d, want 0", after.ContentCount)
	}
}

func TestResolveFallbackChain(t *testing.T) {
	svc, db := testService(t)

	created, err := svc.CreateContent(ContentSpec{
		Type:     models.ContentTypeStory,
		Title:    uniqueTitle("Fallback Story"),
		AgeRange: models.AgeRange5To8,
		Variant: &models.LanguageVariant{
			Title:    "English Title",
			AudioURL: "/assets/audio/en.mp3",
			ImageURL: "https://example.com/img.png",
		},
	})
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	cleanupContent(t, db, created.Slug)

	// Requesting a missing language falls back to the default.
	resolved, err := svc.Resolve(created.ID, models.LanguageHindi)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.RequestedLanguage != models.LanguageHindi {
		t.Errorf("requested_language: got %q", resolved.RequestedLanguage)
	}
	if resolved.Language != models.LanguageEnglish {
		t.Errorf("served language: got %q, want en fallback", resolved.Language)
	}
	if resolved.Title != "English Title" {
		t.Errorf("title: got %q", resolved.Title)
	}

	// Asset-prefixed URLs are rewritten; absolute ones pass through.
	if resolved.AudioURL != "https://cdn.test.dreamtales.app/audio/en.mp3" {
		t.Errorf("audio_url: got %q", resolved.AudioURL)
	}
	if resolved.ImageURL != "https://example.com/img.png" {
		t.Errorf("image_url: got %q", resolved.ImageURL)
	}

	// Once the requested variant exists it is served directly.
	if err := svc.SetLanguage(created.ID, models.LanguageHindi, models.LanguageVariant{
		Title:    "Hindi Title",
		AudioURL: "/assets/audio/hi.mp3",
		ImageURL: "/assets/img/hi.png",
	}); err != nil {
		t.Fatalf("SetLanguage: %v", err)
	}
	resolved, err = svc.Resolve(created.ID, models.LanguageHindi)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.Language != models.LanguageHindi || resolved.Title != "Hindi Title" {
		t.Errorf("got language %q title %q", resolved.Language, resolved.Title)
	}
	if len(resolved.AvailableLanguages) != 2 {
		t.Errorf("available languages: got %v", resolved.AvailableLanguages)
	}

	// Unknown requested language is rejected outright.
	if _, err := svc.Resolve(created.ID, "fr"); err == nil {
		t.Error("expected validation error for unsupported language")
	}
}

func TestRenameRegeneratesSlug(t *testing.T) {
	svc, db := testService(t)

	suffix := uuid.NewString()[:8]
	created, err := svc.CreateContent(ContentSpec{
		Type:     models.ContentTypeStory,
		Title:    "Old Name " + suffix,
		AgeRange: models.AgeRange3To5,
		Variant:  &models.LanguageVariant{Title: "T", AudioURL: "/a.mp3", ImageURL: "/i.png"},
	})
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	cleanupContent(t, db, created.Slug, "new-name-"+suffix)

	renamed, err := svc.Rename(created.ID, "New Name "+suffix)
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if renamed.Slug != "new-name-"+suffix {
		t.Errorf("slug: got %q", renamed.Slug)
	}

	// Renaming onto another item's slug is refused, no suffixing.
	other, err := svc.CreateContent(ContentSpec{
		Type:     models.ContentTypeStory,
		Title:    "Taken Title " + suffix,
		AgeRange: models.AgeRange3To5,
		Variant:  &models.LanguageVariant{Title: "T", AudioURL: "/a.mp3", ImageURL: "/i.png"},
	})
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	cleanupContent(t, db, other.Slug)

	_, err = svc.Rename(created.ID, "Taken Title "+suffix)
	var conflict *models.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestDeleteCategoryPreconditions(t *testing.T) {
	svc, db := testService(t)

	parent, err := svc.CreateCategory(CategorySpec{Name: uniqueTitle("Parent Cat")})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	child, err := svc.CreateCategory(CategorySpec{Name: uniqueTitle("Child Cat"), ParentID: &parent.ID})
	if err != nil {
		t.Fatalf("CreateCategory child: %v", err)
	}
	cleanupCategories(t, db, child.Slug, parent.Slug)

	err = svc.DeleteCategory(parent.ID)
	var hasChildren *models.CategoryHasChildrenError
	if !errors.As(err, &hasChildren) {
		t.Fatalf("expected CategoryHasChildrenError, got %v", err)
	}

	created, err := svc.CreateContent(ContentSpec{
		Type:       models.ContentTypeStory,
		Title:      uniqueTitle("Blocking Story"),
		AgeRange:   models.AgeRange3To5,
		CategoryID: &child.ID,
		Variant:    &models.LanguageVariant{Title: "T", AudioURL: "/a.mp3", ImageURL: "/i.png"},
	})
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	cleanupContent(t, db, created.Slug)

	err = svc.DeleteCategory(child.ID)
	var hasContent *models.CategoryHasContentError
	if !errors.As(err, &hasContent) {
		t.Fatalf("expected CategoryHasContentError, got %v", err)
	}
	if hasContent.Count != 1 {
		t.Errorf("blocking count: got %d, want 1", hasContent.Count)
	}

	// Archived content no longer blocks deletion.
	if err := svc.Archive(created.ID); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if err := svc.DeleteCategory(child.ID); err != nil {
		t.Fatalf("DeleteCategory after archive: %v", err)
	}
	if err := svc.DeleteCategory(parent.ID); err != nil {
		t.Fatalf("DeleteCategory parent: %v", err)
	}
}

func TestRecomputeAllCountsRepairsDrift(t *testing.T) {
	svc, db := testService(t)

	cat, err := svc.CreateCategory(CategorySpec{Name: uniqueTitle("Drift Cat")})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	cleanupCategories(t, db, cat.Slug)

	// Force drift directly, then reconcile through the engine.
	if _, err := db.Exec("UPDATE categories SET content_count = 99 WHERE id = $1", cat.ID); err != nil {
		t.Fatalf("inject drift: %v", err)
	}

	if _, err := svc.RecomputeAllCounts(); err != nil {
		t.Fatalf("RecomputeAllCounts: %v", err)
	}

	after, err := svc.GetCategory(cat.ID)
	if err != nil {
		t.Fatalf("GetCategory: %v", err)
	}
	if after.ContentCount != 0 {
		t.Errorf("content_count: got %d, want 0", after.ContentCount)
	}
}

func TestAddFavoriteOwnershipAndDuplicates(t *testing.T) {
	svc, db := testService(t)

	kidName := "test-kid-" + uuid.NewString()[:8]
	cleanupKids(t, db, kidName)
	kid, err := store.NewKidStore(db).Create(&models.Kid{UserID: uuid.New(), Name: kidName})
	if err != nil {
		t.Fatalf("create kid: %v", err)
	}

	content, err := svc.CreateContent(ContentSpec{
		Type:     models.ContentTypeMusic,
		Title:    uniqueTitle("Favorite Song"),
		AgeRange: models.AgeRange0To3,
		Variant:  &models.LanguageVariant{Title: "T", AudioURL: "/a.mp3", ImageURL: "/i.png"},
	})
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	cleanupContent(t, db, content.Slug)

	// A foreign account cannot favorite on this kid's behalf.
	_, err = svc.AddFavorite(uuid.New(), kid.ID, content.ID)
	var owner *models.OwnershipError
	if !errors.As(err, &owner) {
		t.Fatalf("expected OwnershipError, got %v", err)
	}

	if _, err := svc.AddFavorite(kid.UserID, kid.ID, content.ID); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}

	_, err = svc.AddFavorite(kid.UserID, kid.ID, content.ID)
	var dup *models.DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateError, got %v", err)
	}

	// The denormalized counter followed the add.
	after, err := svc.Resolve(content.ID, "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if after.FavoriteCount != 1 {
		t.Errorf("favorite_count: got %d, want 1", after.FavoriteCount)
	}

	// Remove is idempotent and only decrements when a row went away.
	if err := svc.RemoveFavorite(kid.ID, content.ID); err != nil {
		t.Fatalf("RemoveFavorite: %v", err)
	}
	if err := svc.RemoveFavorite(kid.ID, content.ID); err != nil {
		t.Fatalf("second RemoveFavorite: %v", err)
	}
	after, _ = svc.Resolve(content.ID, "")
	if after.FavoriteCount != 0 {
		t.Errorf("favorite_count after removes: got %d, want 0", after.FavoriteCount)
	}
}

func TestArchivedContentCannotBeFavorited(t *testing.T) {
	svc, db := testService(t)

	kidName := "test-kid-" + uuid.NewString()[:8]
	cleanupKids(t, db, kidName)
	kid, err := store.NewKidStore(db).Create(&models.Kid{UserID: uuid.New(), Name: kidName})
	if err != nil {
		t.Fatalf("create kid: %v", err)
	}

	content, err := svc.CreateContent(ContentSpec{
		Type:     models.ContentTypeStory,
		Title:    uniqueTitle("Archived Story"),
		AgeRange: models.AgeRange3To5,
		Variant:  &models.LanguageVariant{Title: "T", AudioURL: "/a.mp3", ImageURL: "/i.png"},
	})
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	cleanupContent(t, db, content.Slug)

	if err := svc.Archive(content.ID); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	_, err = svc.AddFavorite(kid.UserID, kid.ID, content.ID)
	var notFound *models.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
