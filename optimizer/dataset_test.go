package optimizer

import (
	"testing"
	"time"

	srs "github.com/dstorey87/learning-portuguese-sub004"
)

var t0 = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestFormatRevlogsEmpty(t *testing.T) {
	got := formatRevlogs(nil)
	if len(got) != 0 {
		t.Errorf("formatRevlogs(nil) returned %d groups, want 0", len(got))
	}
}

func TestFormatRevlogsSingleItem(t *testing.T) {
	logs := []srs.ReviewLog{
		{ItemID: "a", Rating: srs.Good, ReviewedAt: t0.Add(10 * time.Minute)},
		{ItemID: "a", Rating: srs.Again, ReviewedAt: t0},
		{ItemID: "a", Rating: srs.Easy, ReviewedAt: t0.Add(24 * time.Hour)},
	}
	got := formatRevlogs(logs)

	if len(got) != 1 {
		t.Fatalf("got %d groups, want 1", len(got))
	}
	reviews := got["a"]
	if len(reviews) != 3 {
		t.Fatalf("item a has %d reviews, want 3", len(reviews))
	}
	// Should be sorted by time.
	if reviews[0].rating != srs.Again {
		t.Errorf("first review rating = %v, want Again", reviews[0].rating)
	}
	if reviews[1].rating != srs.Good {
		t.Errorf("second review rating = %v, want Good", reviews[1].rating)
	}
	if reviews[2].rating != srs.Easy {
		t.Errorf("third review rating = %v, want Easy", reviews[2].rating)
	}
}

func TestFormatRevlogsMultiItem(t *testing.T) {
	logs := []srs.ReviewLog{
		{ItemID: "b", Rating: srs.Hard, ReviewedAt: t0},
		{ItemID: "a", Rating: srs.Good, ReviewedAt: t0},
		{ItemID: "b", Rating: srs.Good, ReviewedAt: t0.Add(time.Hour)},
	}
	got := formatRevlogs(logs)

	if len(got) != 2 {
		t.Fatalf("got %d groups, want 2", len(got))
	}
	if len(got["a"]) != 1 {
		t.Errorf("item a has %d reviews, want 1", len(got["a"]))
	}
	if len(got["b"]) != 2 {
		t.Errorf("item b has %d reviews, want 2", len(got["b"]))
	}
}

func TestFormatRevlogsElapsedDays(t *testing.T) {
	logs := []srs.ReviewLog{
		{ItemID: "a", Rating: srs.Good, ReviewedAt: t0},
		{ItemID: "a", Rating: srs.Good, ReviewedAt: t0.Add(3 * 24 * time.Hour)},
		{ItemID: "a", Rating: srs.Again, ReviewedAt: t0.Add(3*24*time.Hour + time.Hour)},
	}
	got := formatRevlogs(logs)
	reviews := got["a"]

	// First review: no previous, elapsed 0.
	if reviews[0].elapsedDays != 0 {
		t.Errorf("review[0].elapsedDays = %f, want 0", reviews[0].elapsedDays)
	}
	assertFloatOpt(t, "review[1].elapsedDays", reviews[1].elapsedDays, 3.0)
	assertFloatOpt(t, "review[2].elapsedDays", reviews[2].elapsedDays, 1.0/24.0)
}

func TestFormatRevlogsLabel(t *testing.T) {
	logs := []srs.ReviewLog{
		{ItemID: "a", Rating: srs.Again, ReviewedAt: t0},
		{ItemID: "a", Rating: srs.Hard, ReviewedAt: t0.Add(24 * time.Hour)},
		{ItemID: "a", Rating: srs.Good, ReviewedAt: t0.Add(48 * time.Hour)},
	}
	got := formatRevlogs(logs)
	reviews := got["a"]

	// Again → label=0, Hard/Good/Easy → label=1.
	if reviews[0].label != 0 {
		t.Errorf("Again label = %f, want 0", reviews[0].label)
	}
	if reviews[1].label != 1 {
		t.Errorf("Hard label = %f, want 1", reviews[1].label)
	}
	if reviews[2].label != 1 {
		t.Errorf("Good label = %f, want 1", reviews[2].label)
	}
}

func TestCountCrossDayReviews(t *testing.T) {
	logs := []srs.ReviewLog{
		{ItemID: "a", Rating: srs.Good, ReviewedAt: t0},
		{ItemID: "a", Rating: srs.Good, ReviewedAt: t0.Add(3 * 24 * time.Hour)},
		{ItemID: "a", Rating: srs.Good, ReviewedAt: t0.Add(3*24*time.Hour + time.Minute)},
		{ItemID: "b", Rating: srs.Hard, ReviewedAt: t0},
		{ItemID: "b", Rating: srs.Easy, ReviewedAt: t0.Add(7 * 24 * time.Hour)},
	}
	data := formatRevlogs(logs)
	got := countCrossDayReviews(data)
	// Item a: first review never cross-day, +3d is, same-day follow-up is not.
	// Item b: first review, then +7d cross-day. Total: 2.
	if got != 2 {
		t.Errorf("countCrossDayReviews = %d, want 2", got)
	}
}

func TestCountCrossDayReviewsEmpty(t *testing.T) {
	if got := countCrossDayReviews(nil); got != 0 {
		t.Errorf("countCrossDayReviews(nil) = %d, want 0", got)
	}
}

func assertFloatOpt(t *testing.T, name string, got, want float64) {
	t.Helper()
	const eps = 1e-4
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	if diff > eps {
		t.Errorf("%s = %.6f, want %.6f (diff %.6f)", name, got, want, diff)
	}
}
