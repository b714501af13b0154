package cdn

import (
	"strings"
	"testing"

	"dreamtales/internal/models"
)

func TestRewrite(t *testing.T) {
	r := New("https://cdn.dreamtales.app", "/assets/")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "internal asset path rewritten",
			input: "/assets/audio/sleepy-forest-en.mp3",
			want:  "https://cdn.dreamtales.app/audio/sleepy-forest-en.mp3",
		},
		{
			name:  "internal thumbnail path rewritten",
			input: "/assets/thumbs/moon-tale.webp",
			want:  "https://cdn.dreamtales.app/thumbs/moon-tale.webp",
		},
		{
			name:  "absolute https passes through",
			input: "https://media.example.com/a.mp3",
			want:  "https://media.example.com/a.mp3",
		},
		{
			name:  "absolute http passes through",
			input: "http://media.example.com/a.mp3",
			want:  "http://media.example.com/a.mp3",
		},
		{
			name:  "foreign relative value unmodified",
			input: "uploads/old/a.mp3",
			want:  "uploads/old/a.mp3",
		},
		{
			name:  "empty stays empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Rewrite(tt.input); got != tt.want {
				t.Errorf("Rewrite(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestRewrite_Idempotent verifies that rewriting an already-rewritten URL
// is a no-op and that the internal prefix never survives a rewrite.
func TestRewrite_Idempotent(t *testing.T) {
	r := New("https://cdn.dreamtales.app/", "/assets/")

	inputs := []string{
		"/assets/audio/sleepy-forest-en.mp3",
		"https://cdn.dreamtales.app/audio/sleepy-forest-en.mp3",
		"legacy/path.mp3",
	}

	for _, in := range inputs {
		once := r.Rewrite(in)
		twice := r.Rewrite(once)
		if once != twice {
			t.Errorf("Rewrite not idempotent for %q: %q then %q", in, once, twice)
		}
		if strings.HasPrefix(once, "/assets/") {
			t.Errorf("Rewrite(%q) = %q still carries the internal prefix", in, once)
		}
	}
}

func TestRewriteVariant(t *testing.T) {
	r := New("https://cdn.dreamtales.app", "")

	v := models.LanguageVariant{
		Title:        "The Sleepy Forest",
		AudioURL:     "/assets/audio/sleepy-forest-en.mp3",
		ImageURL:     "https://media.example.com/cover.webp",
		ThumbnailURL: "/assets/thumbs/sleepy-forest.webp",
	}

	got := r.RewriteVariant(v)

	if got.AudioURL != "https://cdn.dreamtales.app/audio/sleepy-forest-en.mp3" {
		t.Errorf("AudioURL = %q", got.AudioURL)
	}
	if got.ImageURL != v.ImageURL {
		t.Errorf("absolute ImageURL changed: %q", got.ImageURL)
	}
	if got.ThumbnailURL != "https://cdn.dreamtales.app/thumbs/sleepy-forest.webp" {
		t.Errorf("ThumbnailURL = %q", got.ThumbnailURL)
	}
	if got.Title != v.Title {
		t.Errorf("non-URL field changed: %q", got.Title)
	}
}
