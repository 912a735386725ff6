package optimizer

import (
	"sort"
	"time"

	srs "github.com/dstorey87/learning-portuguese-sub004"
)

// review is an internal representation of a single review event for training.
type review struct {
	rating      srs.Rating
	elapsedDays float64   // days since previous review (0 for first)
	label       float64   // 0 if Again, 1 otherwise
	reviewTime  time.Time // original review timestamp (for Scheduler replay)
}

// formatRevlogs groups review logs by item ID and sorts each group by time.
// Each review computes elapsed days from the previous review and a binary label.
func formatRevlogs(logs []srs.ReviewLog) map[string][]review {
	if len(logs) == 0 {
		return nil
	}

	// Group by item ID.
	groups := make(map[string][]srs.ReviewLog)
	for _, log := range logs {
		groups[log.ItemID] = append(groups[log.ItemID], log)
	}

	result := make(map[string][]review, len(groups))
	for itemID, itemLogs := range groups {
		// Sort by review time.
		sort.Slice(itemLogs, func(i, j int) bool {
			return itemLogs[i].ReviewedAt.Before(itemLogs[j].ReviewedAt)
		})

		reviews := make([]review, len(itemLogs))
		for i, log := range itemLogs {
			var elapsed float64
			if i > 0 {
				elapsed = log.ReviewedAt.Sub(itemLogs[i-1].ReviewedAt).Hours() / 24.0
			}

			label := 1.0
			if log.Rating == srs.Again {
				label = 0.0
			}

			reviews[i] = review{
				rating:      log.Rating,
				elapsedDays: elapsed,
				label:       label,
				reviewTime:  log.ReviewedAt,
			}
		}
		result[itemID] = reviews
	}

	return result
}

// countCrossDayReviews counts reviews where elapsed days >= 1 (cross-day
// reviews). The first review of each item is never cross-day.
func countCrossDayReviews(data map[string][]review) int {
	count := 0
	for _, reviews := range data {
		for _, r := range reviews {
			if r.elapsedDays >= 1.0 {
				count++
			}
		}
	}
	return count
}
