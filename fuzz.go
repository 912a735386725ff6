package srs

import (
	"math"
	"math/rand"
	"sync"
)

// fuzzBand is one segment of the FSRS fuzz schedule: the days an interval
// covers inside [start, end) widen the fuzz window by factor per day.
type fuzzBand struct {
	start, end float64
	factor     float64
}

var fuzzBands = []fuzzBand{
	{start: 2.5, end: 7.0, factor: 0.15},
	{start: 7.0, end: 20.0, factor: 0.10},
	{start: 20.0, end: math.Inf(1), factor: 0.05},
}

// fuzzDelta computes the half-width of the fuzz window for an interval:
// delta = 1.0 + Σ(factor * max(min(interval, end) - start, 0))
func fuzzDelta(interval float64) float64 {
	delta := 1.0
	for _, b := range fuzzBands {
		delta += b.factor * math.Max(math.Min(interval, b.end)-b.start, 0)
	}
	return delta
}

// floatSource yields uniform draws from [0, 1). Satisfied by *rand.Rand and
// by lockedRand, which schedulers use so fuzzing stays safe under concurrent
// ReviewCard calls.
type floatSource interface {
	Float64() float64
}

// lockedRand is a seedable rand.Rand guarded by a mutex. rand.Rand itself is
// not safe for concurrent use, and the fuzz draw is the only mutable state a
// Scheduler touches after construction.
type lockedRand struct {
	mu  sync.Mutex
	src *rand.Rand
}

func newLockedRand(seed int64) *lockedRand {
	return &lockedRand{src: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

// applyFuzz randomizes the interval to prevent review clustering.
// Intervals below 2.5 days are returned unchanged.
func applyFuzz(interval, maxIvl int, rng floatSource) int {
	if float64(interval) < 2.5 {
		return interval
	}

	ivl := float64(interval)
	delta := fuzzDelta(ivl)

	lo := max(2, int(math.Round(ivl-delta)))
	hi := min(int(math.Round(ivl+delta)), maxIvl)
	lo = min(lo, hi)

	fuzzed := int(math.Round(rng.Float64()*float64(hi-lo+1))) + lo
	return min(fuzzed, maxIvl)
}
