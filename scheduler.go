package srs

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// SchedulerConfig configures a Scheduler.
// Zero values produce sensible defaults; see field comments.
type SchedulerConfig struct {
	Parameters       [21]float64     `json:"parameters"`        // zero → DefaultParameters
	DesiredRetention float64         `json:"desired_retention"` // zero → 0.9
	LearningSteps    []time.Duration `json:"learning_steps"`    // nil → [1m, 10m]; empty → no steps
	RelearningSteps  []time.Duration `json:"relearning_steps"`  // nil → [10m]; empty → no steps
	MaximumInterval  int             `json:"maximum_interval"`  // zero → 36500
	DisableFuzzing   bool            `json:"disable_fuzzing"`   // zero false → fuzz enabled
}

// Scheduler computes review schedules with the FSRS v6 algorithm. Each
// Scheduler is an independent value: its configuration is immutable after
// construction and it holds no card collection. ReviewCard is a pure
// transformation of its inputs and is safe to call from multiple goroutines;
// the fuzz RNG is the only mutable field and serializes its draws (disable
// fuzzing for fully deterministic output).
type Scheduler struct {
	curve            curve
	desiredRetention float64
	learningSteps    []time.Duration
	relearningSteps  []time.Duration
	maximumInterval  int
	disableFuzzing   bool
	rng              *lockedRand
}

// NewScheduler creates a Scheduler from the given config.
// Zero-value fields are filled with defaults; invalid values return an error.
func NewScheduler(cfg SchedulerConfig) (*Scheduler, error) {
	// Parameters: zero array → defaults.
	params := cfg.Parameters
	if params == [21]float64{} {
		params = DefaultParameters
	}
	if err := ValidateParameters(params); err != nil {
		return nil, err
	}

	// DesiredRetention: zero → 0.9.
	dr := cfg.DesiredRetention
	if dr == 0 {
		dr = 0.9
	}
	if dr <= 0 || dr >= 1 {
		return nil, fmt.Errorf("srs: desired retention %f out of range (0, 1)", dr)
	}

	// MaximumInterval: zero → 36500.
	maxIvl := cfg.MaximumInterval
	if maxIvl == 0 {
		maxIvl = 36500
	}
	if maxIvl < 0 {
		return nil, fmt.Errorf("srs: maximum interval %d must be positive", maxIvl)
	}

	// LearningSteps: nil → defaults.
	ls := cfg.LearningSteps
	if ls == nil {
		ls = []time.Duration{time.Minute, 10 * time.Minute}
	}

	// RelearningSteps: nil → defaults.
	rs := cfg.RelearningSteps
	if rs == nil {
		rs = []time.Duration{10 * time.Minute}
	}

	return &Scheduler{
		curve:            newCurve(params),
		desiredRetention: dr,
		learningSteps:    ls,
		relearningSteps:  rs,
		maximumInterval:  maxIvl,
		disableFuzzing:   cfg.DisableFuzzing,
		rng:              newLockedRand(time.Now().UnixNano()),
	}, nil
}

// Config returns the scheduler's effective configuration, with every default
// resolved. The returned value is a copy; mutating it has no effect on the
// scheduler.
func (s *Scheduler) Config() SchedulerConfig {
	ls := make([]time.Duration, len(s.learningSteps))
	copy(ls, s.learningSteps)
	rs := make([]time.Duration, len(s.relearningSteps))
	copy(rs, s.relearningSteps)
	return SchedulerConfig{
		Parameters:       s.curve.w,
		DesiredRetention: s.desiredRetention,
		LearningSteps:    ls,
		RelearningSteps:  rs,
		MaximumInterval:  s.maximumInterval,
		DisableFuzzing:   s.disableFuzzing,
	}
}

// ReviewCard processes a review of the card at the given time. It returns
// the updated card and a review log; the input card is never mutated, and on
// error the returned card is the zero value (no partial update).
//
// Reps increases by one on every successful call. Lapses increases only when
// a Review-state card is rated Again. Returns ErrInvalidRating for a rating
// outside Again..Easy and ErrInvalidCard for a malformed record.
func (s *Scheduler) ReviewCard(card Card, rating Rating, now time.Time) (Card, ReviewLog, error) {
	if !rating.IsValid() {
		return Card{}, ReviewLog{}, fmt.Errorf("%w: %d", ErrInvalidRating, int(rating))
	}
	if err := card.Validate(); err != nil {
		return Card{}, ReviewLog{}, err
	}

	c := card.clone()

	// Days since the previous review; 0 for a first review.
	var elapsedDays float64
	if c.LastReview != nil {
		elapsedDays = now.Sub(*c.LastReview).Hours() / 24.0
		if elapsedDays < 0 {
			elapsedDays = 0
		}
	}
	c.ElapsedDays = elapsedDays

	s.updateMemory(&c, rating, elapsedDays)

	// A New card's first exposure enters the learning ladder at step 0;
	// the transition below may graduate it straight to Review (Easy, or an
	// empty ladder).
	if c.State == New {
		c.State = Learning
		c.setStep(0)
	}

	interval := s.transition(&c, rating, s.stepsForState(c.State))

	// Apply fuzz if enabled and the final state is Review.
	days := int(interval.Hours() / 24.0)
	if !s.disableFuzzing && c.State == Review && days > 0 {
		days = applyFuzz(days, s.maximumInterval, s.rng)
		interval = time.Duration(days) * 24 * time.Hour
	}

	c.ScheduledDays = days
	c.Due = now.Add(interval)
	c.LastReview = &now
	c.Reps++

	log := ReviewLog{
		ItemID:     c.ItemID,
		Rating:     rating,
		ReviewedAt: now,
	}

	return c, log, nil
}

// PreviewCard returns the would-be outcome of reviewing the card with each
// possible rating, without committing any of them.
func (s *Scheduler) PreviewCard(card Card, now time.Time) (map[Rating]Card, error) {
	result := make(map[Rating]Card, 4)
	for _, r := range []Rating{Again, Hard, Good, Easy} {
		c, _, err := s.ReviewCard(card, r, now)
		if err != nil {
			return nil, err
		}
		result[r] = c
	}
	return result, nil
}

// RescheduleCard replays the given review logs to rebuild the card's
// scheduling state. Returns ErrItemIDMismatch if any log belongs to a
// different item.
func (s *Scheduler) RescheduleCard(card Card, logs []ReviewLog) (Card, error) {
	c := card.clone()
	for _, log := range logs {
		if log.ItemID != c.ItemID {
			return Card{}, fmt.Errorf("%w: card %q, log %q", ErrItemIDMismatch, c.ItemID, log.ItemID)
		}
		var err error
		c, _, err = s.ReviewCard(c, log.Rating, log.ReviewedAt)
		if err != nil {
			return Card{}, err
		}
	}
	return c, nil
}

// Retrievability evaluates the scheduler's forgetting curve: the estimated
// probability of recall after elapsedDays for the given stability.
func (s *Scheduler) Retrievability(elapsedDays, stability float64) float64 {
	return s.curve.retrievability(elapsedDays, stability)
}

// CardRetrievability returns the probability of recall for the card at the
// given time. Returns 0 for a card that has never been reviewed.
func (s *Scheduler) CardRetrievability(card Card, now time.Time) float64 {
	if card.LastReview == nil || card.Stability == 0 {
		return 0
	}
	elapsed := now.Sub(*card.LastReview).Hours() / 24.0
	return s.curve.retrievability(elapsed, card.Stability)
}

// updateMemory updates the card's stability and difficulty for the review.
func (s *Scheduler) updateMemory(c *Card, rating Rating, elapsedDays float64) {
	if c.Stability == 0 {
		// First effective review: seed S, and D unless the card already
		// carries one (an SM-2 Learning import keeps its migrated value).
		c.Stability = s.curve.initStability(rating)
		if c.Difficulty == 0 {
			c.Difficulty = s.curve.initDifficulty(rating, true)
		}
		return
	}

	if elapsedDays < 1 {
		// Same-day review.
		c.Stability = s.curve.shortTermStability(c.Stability, rating)
	} else {
		// Cross-day review: the update depends on how far the memory had
		// decayed when the answer was given.
		r := s.curve.retrievability(elapsedDays, c.Stability)
		c.Stability = s.curve.nextStability(c.Difficulty, c.Stability, r, rating)
	}
	c.Difficulty = s.curve.nextDifficulty(c.Difficulty, rating)
}

// stepsForState returns the step durations for the given state.
func (s *Scheduler) stepsForState(state State) []time.Duration {
	switch state {
	case Learning:
		return s.learningSteps
	case Relearning:
		return s.relearningSteps
	default:
		return nil
	}
}

// transition applies the state machine and returns the scheduling interval.
func (s *Scheduler) transition(c *Card, rating Rating, steps []time.Duration) time.Duration {
	switch c.State {
	case Learning, Relearning:
		return s.transitionLearning(c, rating, steps)
	default:
		return s.transitionReview(c, rating)
	}
}

// transitionLearning handles Learning and Relearning state transitions.
// Step counts consecutive non-Again ratings: every Hard/Good advances the
// ladder by one, Easy graduates immediately, and Again resets progress.
// Completing the ladder (len(steps) successes) graduates to Review. A lapse
// is never counted here: Again inside a ladder only resets progress.
func (s *Scheduler) transitionLearning(c *Card, rating Rating, steps []time.Duration) time.Duration {
	step := 0
	if c.Step != nil {
		step = *c.Step
	}

	// Empty ladder or step overflow → graduate to Review.
	if len(steps) == 0 || (step >= len(steps) && rating != Again) {
		return s.graduateToReview(c)
	}

	switch rating {
	case Again:
		c.setStep(0)
		return steps[0]

	case Hard, Good:
		next := step + 1
		if next >= len(steps) {
			// Ladder complete → graduate.
			return s.graduateToReview(c)
		}
		c.setStep(next)
		if rating == Hard && step == 0 {
			// First Hard: retry sooner than a clean Good would.
			return (steps[0] + steps[1]) / 2
		}
		return steps[next]

	default: // Easy
		return s.graduateToReview(c)
	}
}

// transitionReview handles Review state transitions. Again counts a lapse
// and drops the card into the relearning ladder; with an empty ladder the
// card re-enters Review immediately but the lapse still counts.
func (s *Scheduler) transitionReview(c *Card, rating Rating) time.Duration {
	if rating == Again {
		c.Lapses++
		if len(s.relearningSteps) > 0 {
			c.State = Relearning
			c.setStep(0)
			return s.relearningSteps[0]
		}
	}

	// Hard, Good, Easy, or Again with an empty relearning ladder.
	c.clearStep()
	days := s.curve.interval(c.Stability, s.desiredRetention, s.maximumInterval)
	return time.Duration(days) * 24 * time.Hour
}

// graduateToReview transitions a card from Learning/Relearning to Review.
func (s *Scheduler) graduateToReview(c *Card) time.Duration {
	c.State = Review
	c.clearStep()
	days := s.curve.interval(c.Stability, s.desiredRetention, s.maximumInterval)
	return time.Duration(days) * 24 * time.Hour
}

// schedulerJSON is the serialized form of a Scheduler.
type schedulerJSON struct {
	Parameters       [21]float64 `json:"parameters"`
	DesiredRetention float64     `json:"desired_retention"`
	LearningSteps    []int64     `json:"learning_steps"`   // nanoseconds
	RelearningSteps  []int64     `json:"relearning_steps"` // nanoseconds
	MaximumInterval  int         `json:"maximum_interval"`
	DisableFuzzing   bool        `json:"disable_fuzzing"`
}

// MarshalJSON implements json.Marshaler.
func (s *Scheduler) MarshalJSON() ([]byte, error) {
	j := schedulerJSON{
		Parameters:       s.curve.w,
		DesiredRetention: s.desiredRetention,
		MaximumInterval:  s.maximumInterval,
		DisableFuzzing:   s.disableFuzzing,
	}
	j.LearningSteps = durationsToNanos(s.learningSteps)
	j.RelearningSteps = durationsToNanos(s.relearningSteps)
	return json.Marshal(j)
}

// UnmarshalJSON implements json.Unmarshaler.
// It rebuilds the internal precomputed state from the serialized config.
func (s *Scheduler) UnmarshalJSON(data []byte) error {
	var j schedulerJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	cfg := SchedulerConfig{
		Parameters:       j.Parameters,
		DesiredRetention: j.DesiredRetention,
		MaximumInterval:  j.MaximumInterval,
		DisableFuzzing:   j.DisableFuzzing,
		LearningSteps:    nanosToDurations(j.LearningSteps),
		RelearningSteps:  nanosToDurations(j.RelearningSteps),
	}
	rebuilt, err := NewScheduler(cfg)
	if err != nil {
		return err
	}
	*s = *rebuilt
	return nil
}

func durationsToNanos(ds []time.Duration) []int64 {
	ns := make([]int64, len(ds))
	for i, d := range ds {
		ns[i] = int64(d)
	}
	return ns
}

func nanosToDurations(ns []int64) []time.Duration {
	if ns == nil {
		return nil
	}
	ds := make([]time.Duration, len(ns))
	for i, n := range ns {
		ds[i] = time.Duration(n)
	}
	return ds
}
