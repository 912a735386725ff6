package srs

import (
	"fmt"
	"math"
	"time"

	json "github.com/goccy/go-json"
)

// Legacy SM-2 record fields. Records come from the portal's pre-FSRS
// progress store, where each item mapped to an object with these keys.
const (
	sm2FieldInterval    = "interval"
	sm2FieldEaseFactor  = "easeFactor"
	sm2FieldRepetitions = "repetitions"
	sm2FieldDueDate     = "dueDate"
	sm2FieldLapses      = "lapses"
)

// MigrateFromSM2 converts a legacy SM-2 record into a Card for itemID.
//
// The legacy interval seeds the initial stability estimate, easeFactor seeds
// difficulty (lower ease maps to higher difficulty), and repetitions and
// lapses carry over unchanged — nothing is fabricated. A record with
// repetitions and a positive interval had finished its learning phase and
// lands in Review; repetitions without an interval land back in Learning;
// a never-reviewed record stays New.
//
// All five fields are required. A missing or ill-typed field fails with
// ErrMigration; an empty itemID fails with ErrInvalidCard.
func MigrateFromSM2(itemID string, record map[string]any) (Card, error) {
	if itemID == "" {
		return Card{}, fmt.Errorf("%w: empty item ID", ErrInvalidCard)
	}

	interval, err := sm2Number(record, sm2FieldInterval)
	if err != nil {
		return Card{}, err
	}
	ease, err := sm2Number(record, sm2FieldEaseFactor)
	if err != nil {
		return Card{}, err
	}
	reps, err := sm2Count(record, sm2FieldRepetitions)
	if err != nil {
		return Card{}, err
	}
	lapses, err := sm2Count(record, sm2FieldLapses)
	if err != nil {
		return Card{}, err
	}
	due, err := sm2Time(record, sm2FieldDueDate)
	if err != nil {
		return Card{}, err
	}
	if interval < 0 {
		return Card{}, fmt.Errorf("%w: negative %s %f", ErrMigration, sm2FieldInterval, interval)
	}

	card := Card{
		ItemID: itemID,
		Due:    due,
		Reps:   reps,
		Lapses: lapses,
	}

	switch {
	case reps > 0 && interval > 0:
		card.State = Review
		card.Stability = interval
		card.Difficulty = difficultyFromEase(ease)
		card.ScheduledDays = int(math.Round(interval))
	case reps > 0:
		// Reviewed but never out of the learning phase.
		card.State = Learning
		card.setStep(0)
		card.Difficulty = difficultyFromEase(ease)
	default:
		// Never reviewed: a New card keeps zero stability and difficulty.
		card.State = New
	}

	return card, nil
}

// MigrateFromSM2JSON parses a JSON-encoded legacy record and converts it.
func MigrateFromSM2JSON(itemID string, data []byte) (Card, error) {
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return Card{}, fmt.Errorf("%w: %v", ErrMigration, err)
	}
	return MigrateFromSM2(itemID, record)
}

// difficultyFromEase maps the SM-2 ease factor range [1.3, 2.5] linearly
// onto the FSRS difficulty range [10, 1].
func difficultyFromEase(ease float64) float64 {
	return clampDifficulty(10 - (ease-1.3)*9/1.2)
}

func sm2Number(record map[string]any, field string) (float64, error) {
	v, ok := record[field]
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", ErrMigration, field)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: %s is %T, want number", ErrMigration, field, v)
	}
}

func sm2Count(record map[string]any, field string) (int, error) {
	n, err := sm2Number(record, field)
	if err != nil {
		return 0, err
	}
	if n < 0 || n != math.Trunc(n) {
		return 0, fmt.Errorf("%w: %s %f is not a non-negative integer", ErrMigration, field, n)
	}
	return int(n), nil
}

func sm2Time(record map[string]any, field string) (time.Time, error) {
	v, ok := record[field]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: missing %s", ErrMigration, field)
	}
	str, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s is %T, want RFC 3339 string", ErrMigration, field, v)
	}
	t, err := time.Parse(time.RFC3339, str)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", ErrMigration, field, err)
	}
	return t, nil
}
