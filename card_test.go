package srs

import (
	"errors"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

func mustCard(t *testing.T, itemID string) Card {
	t.Helper()
	c, err := NewCard(itemID)
	if err != nil {
		t.Fatalf("NewCard(%q): %v", itemID, err)
	}
	return c
}

func TestNewCard(t *testing.T) {
	c := mustCard(t, "vocab:olá")
	if c.ItemID != "vocab:olá" {
		t.Errorf("ItemID = %q, want %q", c.ItemID, "vocab:olá")
	}
	if c.State != New {
		t.Errorf("State = %v, want New", c.State)
	}
	if c.Step != nil {
		t.Errorf("Step = %v, want nil", c.Step)
	}
	if c.Stability != 0 {
		t.Errorf("Stability = %f, want 0", c.Stability)
	}
	if c.Difficulty != 0 {
		t.Errorf("Difficulty = %f, want 0", c.Difficulty)
	}
	if c.Reps != 0 || c.Lapses != 0 {
		t.Errorf("Reps = %d, Lapses = %d, want 0, 0", c.Reps, c.Lapses)
	}
	if c.Due.IsZero() {
		t.Error("Due should be set to now")
	}
	if c.LastReview != nil {
		t.Errorf("LastReview = %v, want nil", c.LastReview)
	}
}

func TestNewCardEmptyItemID(t *testing.T) {
	_, err := NewCard("")
	if err == nil {
		t.Fatal("NewCard(\"\") should return error")
	}
	if !errors.Is(err, ErrInvalidCard) {
		t.Errorf("error = %v, want ErrInvalidCard", err)
	}
}

func TestCardValidate(t *testing.T) {
	now := time.Now()
	valid := Card{
		ItemID:     "x",
		State:      Review,
		Stability:  5.0,
		Difficulty: 5.0,
		Due:        now,
		LastReview: &now,
		Reps:       3,
	}

	tests := []struct {
		name   string
		mutate func(*Card)
		ok     bool
	}{
		{"valid review card", func(c *Card) {}, true},
		{"valid new card", func(c *Card) { *c = Card{ItemID: "x", State: New, Due: now} }, true},
		{"empty item ID", func(c *Card) { c.ItemID = "" }, false},
		{"state below range", func(c *Card) { c.State = State(-1) }, false},
		{"state above range", func(c *Card) { c.State = State(4) }, false},
		{"negative stability", func(c *Card) { c.Stability = -1 }, false},
		{"negative difficulty", func(c *Card) { c.Difficulty = -0.5 }, false},
		{"negative reps", func(c *Card) { c.Reps = -1 }, false},
		{"negative lapses", func(c *Card) { c.Lapses = -1 }, false},
		{"new card with reps", func(c *Card) { *c = Card{ItemID: "x", State: New, Reps: 2, Due: now} }, false},
		{"new card with stability", func(c *Card) { *c = Card{ItemID: "x", State: New, Stability: 1, Due: now} }, false},
	}
	for _, tt := range tests {
		c := valid.clone()
		tt.mutate(&c)
		err := c.Validate()
		if tt.ok && err != nil {
			t.Errorf("%s: Validate() = %v, want nil", tt.name, err)
		}
		if !tt.ok {
			if err == nil {
				t.Errorf("%s: Validate() = nil, want error", tt.name)
			} else if !errors.Is(err, ErrInvalidCard) {
				t.Errorf("%s: error = %v, want ErrInvalidCard", tt.name, err)
			}
		}
	}
}

func TestCardClone(t *testing.T) {
	c := mustCard(t, "item-1")
	step := 1
	now := time.Now()
	c.Step = &step
	c.LastReview = &now
	c.Stability = 3.5
	c.Difficulty = 5.0

	cloned := c.clone()

	if cloned.ItemID != c.ItemID || cloned.Stability != c.Stability || cloned.Difficulty != c.Difficulty {
		t.Error("clone value mismatch")
	}
	if *cloned.Step != *c.Step {
		t.Error("clone Step value mismatch")
	}
	if !cloned.LastReview.Equal(*c.LastReview) {
		t.Error("clone LastReview value mismatch")
	}

	// Pointer fields independent.
	*cloned.Step = 99
	if *c.Step == 99 {
		t.Error("clone Step pointer not independent")
	}
	*cloned.LastReview = now.Add(time.Hour)
	if !c.LastReview.Equal(now) {
		t.Error("clone LastReview pointer not independent")
	}
}

func TestCardCloneNilFields(t *testing.T) {
	c := mustCard(t, "item-1")
	cloned := c.clone()
	if cloned.Step != nil || cloned.LastReview != nil {
		t.Error("clone should preserve nil fields")
	}
}

func TestCardJSONRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	step := 1

	c := Card{
		ItemID:        "vocab:saudade",
		State:         Relearning,
		Step:          &step,
		Stability:     3.5,
		Difficulty:    5.0,
		Due:           now,
		LastReview:    &now,
		ElapsedDays:   2.5,
		ScheduledDays: 4,
		Reps:          7,
		Lapses:        1,
	}

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got Card
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.ItemID != c.ItemID || got.State != c.State || *got.Step != *c.Step {
		t.Errorf("round-trip mismatch: got %+v", got)
	}
	if got.Stability != c.Stability || got.Difficulty != c.Difficulty {
		t.Errorf("memory state mismatch: got S=%f D=%f", got.Stability, got.Difficulty)
	}
	if got.Reps != c.Reps || got.Lapses != c.Lapses || got.ScheduledDays != c.ScheduledDays {
		t.Errorf("counter mismatch: got %+v", got)
	}
	if !got.Due.Equal(c.Due) || !got.LastReview.Equal(*c.LastReview) {
		t.Errorf("timestamp mismatch: got %+v", got)
	}
}

func TestCardJSONNewCardShape(t *testing.T) {
	c := Card{
		ItemID: "item-1",
		State:  New,
		Due:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	s := string(data)
	for _, substr := range []string{`"state":"New"`, `"step":null`, `"last_review":null`, `"stability":0`, `"reps":0`} {
		if !strings.Contains(s, substr) {
			t.Errorf("JSON should contain %s, got %s", substr, s)
		}
	}
}
