package srs

import (
	"sort"
	"time"
)

// Statistics summarizes a caller-owned card collection.
// Total is always the exact sum of the four per-state counts.
type Statistics struct {
	Total      int `json:"total"`
	New        int `json:"new"`
	Learning   int `json:"learning"`
	Review     int `json:"review"`
	Relearning int `json:"relearning"`
	Due        int `json:"due"`
}

// GetDueCards returns the cards whose Due is at or before now, sorted
// ascending by Due (oldest overdue first). The sort is stable, so cards
// sharing a due time keep their input order. The input slice is never
// mutated; an empty (non-nil) slice is returned when nothing is due.
func GetDueCards(cards []Card, now time.Time) []Card {
	due := make([]Card, 0, len(cards))
	for _, c := range cards {
		if !c.Due.After(now) {
			due = append(due, c.clone())
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].Due.Before(due[j].Due)
	})
	return due
}

// GetStatistics counts the cards by state and how many are due at now.
func GetStatistics(cards []Card, now time.Time) Statistics {
	var stats Statistics
	for _, c := range cards {
		stats.Total++
		switch c.State {
		case New:
			stats.New++
		case Learning:
			stats.Learning++
		case Review:
			stats.Review++
		case Relearning:
			stats.Relearning++
		}
		if !c.Due.After(now) {
			stats.Due++
		}
	}
	return stats
}
