package srs

import (
	"fmt"
	"time"
)

// Card is the persisted memory-state record for one learnable item.
// Stability and Difficulty are 0 until the card's first review; afterwards
// Stability is always positive and Difficulty stays within [1, 10].
type Card struct {
	ItemID        string     `json:"item_id"`
	State         State      `json:"state"`
	Step          *int       `json:"step"`       // nil outside Learning/Relearning.
	Stability     float64    `json:"stability"`  // Expected days until recall decays to the retention target.
	Difficulty    float64    `json:"difficulty"` // Intrinsic hardness, higher = harder.
	Due           time.Time  `json:"due"`
	LastReview    *time.Time `json:"last_review"` // nil before first review.
	ElapsedDays   float64    `json:"elapsed_days"`
	ScheduledDays int        `json:"scheduled_days"`
	Reps          int        `json:"reps"`
	Lapses        int        `json:"lapses"`
}

// NewCard creates a New-state card for the given item, due immediately.
// Returns ErrInvalidCard if itemID is empty.
func NewCard(itemID string) (Card, error) {
	if itemID == "" {
		return Card{}, fmt.Errorf("%w: empty item ID", ErrInvalidCard)
	}
	return Card{
		ItemID: itemID,
		State:  New,
		Due:    time.Now(),
	}, nil
}

// Validate checks the record invariants a caller-supplied card must satisfy
// before it can be scheduled. All failures wrap ErrInvalidCard.
func (c Card) Validate() error {
	if c.ItemID == "" {
		return fmt.Errorf("%w: empty item ID", ErrInvalidCard)
	}
	if !c.State.IsValid() {
		return fmt.Errorf("%w: state %d", ErrInvalidCard, int(c.State))
	}
	if c.Stability < 0 {
		return fmt.Errorf("%w: negative stability %f", ErrInvalidCard, c.Stability)
	}
	if c.Difficulty < 0 {
		return fmt.Errorf("%w: negative difficulty %f", ErrInvalidCard, c.Difficulty)
	}
	if c.Reps < 0 || c.Lapses < 0 {
		return fmt.Errorf("%w: negative review counters (reps=%d, lapses=%d)", ErrInvalidCard, c.Reps, c.Lapses)
	}
	if c.State == New && (c.Reps != 0 || c.Stability != 0 || c.Difficulty != 0) {
		return fmt.Errorf("%w: New card with review history", ErrInvalidCard)
	}
	return nil
}

// clone returns a deep copy of the card. Pointer fields are copied by value.
func (c Card) clone() Card {
	out := c
	if c.Step != nil {
		v := *c.Step
		out.Step = &v
	}
	if c.LastReview != nil {
		v := *c.LastReview
		out.LastReview = &v
	}
	return out
}

func (c *Card) setStep(step int) {
	c.Step = &step
}

func (c *Card) clearStep() {
	c.Step = nil
}
