package ranking

import (
	"math"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"dreamtales/internal/models"
)

func contentAt(popularity int64, featured bool, published *time.Time) *models.Content {
	return &models.Content{
		ID:              uuid.New(),
		PopularityScore: popularity,
		IsFeatured:      featured,
		PublishedAt:     published,
	}
}

func TestScore(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	daysAgo := func(d float64) *time.Time {
		ts := now.Add(-time.Duration(d * 24 * float64(time.Hour)))
		return &ts
	}

	tests := []struct {
		name string
		c    *models.Content
		want float64
	}{
		{
			name: "fresh unfeatured item with no plays",
			c:    contentAt(0, false, daysAgo(0)),
			want: 2.0,
		},
		{
			name: "featured adds flat boost",
			c:    contentAt(0, true, daysAgo(0)),
			want: 7.0,
		},
		{
			name: "popularity is log scaled",
			c:    contentAt(99, false, nil),
			want: math.Log1p(99),
		},
		{
			name: "recency decays linearly",
			c:    contentAt(0, false, daysAgo(30)),
			want: 1.0,
		},
		{
			name: "recency bottoms out at zero",
			c:    contentAt(0, false, daysAgo(365)),
			want: 0.0,
		},
		{
			name: "unpublished has no recency term",
			c:    contentAt(10, true, nil),
			want: 5.0 + math.Log1p(10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.c, now)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEngagementScore(t *testing.T) {
	tests := []struct {
		name      string
		favorites int64
		views     int64
		want      float64
	}{
		{"no engagement", 0, 0, 0},
		{"favorites weigh double", 10, 0, 0.2},
		{"views weigh a tenth", 0, 1000, 1.0},
		{"combined", 50, 500, 1.5},
		{"capped at five", 10000, 1000000, 5.0},
		{"rounded to one decimal", 7, 10, 0.2}, // (14 + 1) / 100 = 0.15 → 0.2
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &models.Content{FavoriteCount: tt.favorites, ViewCount: tt.views}
			if got := EngagementScore(c); got != tt.want {
				t.Errorf("EngagementScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLess_Ordering(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	older := now.Add(-48 * time.Hour)

	featured := contentAt(1, true, &older)
	popular := contentAt(500, false, &older)
	recent := contentAt(10, false, &now)
	stale := contentAt(10, false, &older)

	items := []*models.Content{stale, recent, popular, featured}
	sort.Slice(items, func(i, j int) bool { return Less(items[i], items[j]) })

	want := []*models.Content{featured, popular, recent, stale}
	for i := range want {
		if items[i] != want[i] {
			t.Fatalf("position %d: got popularity=%d featured=%v, want popularity=%d featured=%v",
				i, items[i].PopularityScore, items[i].IsFeatured,
				want[i].PopularityScore, want[i].IsFeatured)
		}
	}
}

// TestLess_StableTieBreak verifies that fully tied items order by ID, so
// repeated sorts of the same set never shuffle.
func TestLess_StableTieBreak(t *testing.T) {
	ts := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	a := contentAt(5, false, &ts)
	b := contentAt(5, false, &ts)

	if Less(a, b) == Less(b, a) {
		t.Fatal("tied items must have a strict order")
	}
}
