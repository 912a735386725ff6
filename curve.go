package srs

import "math"

// curve holds the forgetting curve and memory-update rules, with constants
// precomputed from the 21 FSRS parameters.
type curve struct {
	w      [21]float64
	decay  float64 // -w[20]
	factor float64 // 0.9^(1/decay) - 1
}

func newCurve(p [21]float64) curve {
	decay := -p[20]
	factor := math.Pow(0.9, 1.0/decay) - 1.0
	return curve{w: p, decay: decay, factor: factor}
}

// retrievability computes R(t, S) = (1 + FACTOR * t / S) ^ DECAY.
// R(0, S) = 1 for any S > 0; R decreases strictly as t grows.
func (cv *curve) retrievability(elapsedDays, stability float64) float64 {
	if stability <= 0 {
		return 0
	}
	if elapsedDays < 0 {
		elapsedDays = 0
	}
	return math.Pow(1+cv.factor*elapsedDays/stability, cv.decay)
}

// interval inverts the curve at the given retention target:
// I(r, S) = round((S / FACTOR) * (r^(1/DECAY) - 1)), clamped to [1, maxIvl].
func (cv *curve) interval(stability, desiredRetention float64, maxIvl int) int {
	ivl := stability / cv.factor * (math.Pow(desiredRetention, 1.0/cv.decay) - 1)
	days := int(math.Round(ivl))
	if days < 1 {
		days = 1
	}
	if days > maxIvl {
		days = maxIvl
	}
	return days
}

// initStability returns the initial stability S₀(G) = clamp_s(w[G-1]).
func (cv *curve) initStability(r Rating) float64 {
	return clampStability(cv.w[r-1])
}

// initDifficulty returns the initial difficulty D₀(G) = w[4] - e^(w[5]*(G-1)) + 1.
// When clamp is true, the result is clamped to [1, 10]; the unclamped form is
// the mean-reversion target used by nextDifficulty.
func (cv *curve) initDifficulty(r Rating, clamp bool) float64 {
	d := cv.w[4] - math.Exp(cv.w[5]*float64(r-1)) + 1
	if clamp {
		return clampDifficulty(d)
	}
	return d
}

// nextDifficulty computes the updated difficulty after a review.
// ΔD = -w[6] * (G - 3)
// D' = D + (10 - D) * ΔD / 9     (linear damping)
// D'' = w[7]*D₀(Easy) + (1-w[7])*D'  (mean reversion)
func (cv *curve) nextDifficulty(difficulty float64, r Rating) float64 {
	deltaD := -cv.w[6] * (float64(r) - 3)
	damped := difficulty + (10-difficulty)*deltaD/9
	reverted := cv.w[7]*cv.initDifficulty(Easy, false) + (1-cv.w[7])*damped
	return clampDifficulty(reverted)
}

// nextStability dispatches on the rating: Again reduces memory strength,
// the rest strengthen it.
func (cv *curve) nextStability(d, s, r float64, rating Rating) float64 {
	if rating == Again {
		return cv.forgetStability(d, s, r)
	}
	return cv.recallStability(d, s, r, rating)
}

// recallStability computes stability after a successful recall (Hard/Good/Easy).
// S'_r = S * (1 + e^w[8] * (11-D) * S^(-w[9]) * (e^((1-R)*w[10]) - 1) * hardPenalty * easyBonus)
// Lower retrievability at review time (a longer, harder-won recall) grows
// stability more than a quick confirmation.
func (cv *curve) recallStability(d, s, r float64, rating Rating) float64 {
	hardPenalty := 1.0
	if rating == Hard {
		hardPenalty = cv.w[15]
	}
	easyBonus := 1.0
	if rating == Easy {
		easyBonus = cv.w[16]
	}
	return s * (1 + math.Exp(cv.w[8])*
		(11-d)*
		math.Pow(s, -cv.w[9])*
		(math.Exp((1-r)*cv.w[10])-1)*
		hardPenalty*easyBonus)
}

// forgetStability computes stability after forgetting (Again).
// S'_f = min(long, short)
// long = w[11] * D^(-w[12]) * ((S+1)^w[13] - 1) * e^((1-R)*w[14])
// short = S / e^(w[17] * w[18])
func (cv *curve) forgetStability(d, s, r float64) float64 {
	long := cv.w[11] *
		math.Pow(d, -cv.w[12]) *
		(math.Pow(s+1, cv.w[13]) - 1) *
		math.Exp((1-r)*cv.w[14])
	short := s / math.Exp(cv.w[17]*cv.w[18])
	return math.Min(long, short)
}

// shortTermStability computes the same-day review stability.
// SInc = e^(w[17] * (G - 3 + w[18])) * S^(-w[19])
// If G ∈ {Good, Easy}: SInc = max(SInc, 1.0)
func (cv *curve) shortTermStability(stability float64, r Rating) float64 {
	sInc := math.Exp(cv.w[17]*(float64(r)-3+cv.w[18])) * math.Pow(stability, -cv.w[19])
	if r == Good || r == Easy {
		sInc = math.Max(sInc, 1.0)
	}
	return clampStability(stability * sInc)
}

// clampStability clamps stability to a minimum of 0.001.
func clampStability(s float64) float64 {
	return math.Max(s, 0.001)
}

// clampDifficulty clamps difficulty to [1, 10].
func clampDifficulty(d float64) float64 {
	return math.Min(math.Max(d, 1), 10)
}

var defaultCurve = newCurve(DefaultParameters)

// Retrievability estimates the probability of successful recall after
// elapsedDays for a card with the given stability, using DefaultParameters.
// Returns a value in [0, 1]; 1 at zero elapsed time for any positive
// stability, 0 for a card that has never been scheduled (stability 0).
// Schedulers with custom parameters expose the same curve via
// [Scheduler.Retrievability].
func Retrievability(elapsedDays, stability float64) float64 {
	return defaultCurve.retrievability(elapsedDays, stability)
}
