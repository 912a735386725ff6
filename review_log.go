package srs

import "time"

// ReviewLog records a single review event for an item. Callers persist logs
// to rebuild card state with [Scheduler.RescheduleCard] and to train
// parameters with the srs/optimizer subpackage.
type ReviewLog struct {
	ItemID         string    `json:"item_id"`
	Rating         Rating    `json:"rating"`
	ReviewedAt     time.Time `json:"reviewed_at"`
	ReviewDuration *int      `json:"review_duration,omitempty"` // milliseconds, optional.
}
