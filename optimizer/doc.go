// Package optimizer fits the 21 FSRS v6 parameters to a learner's own
// review history, so the scheduler predicts that learner instead of the
// population defaults.
//
// Input is the []srs.ReviewLog stream the portal already persists per item;
// no other data source is needed. Two entry points:
//
//   - [Optimizer.ComputeOptimalParameters] runs mini-batch gradient descent
//     over the logs: binary cross-entropy loss on cross-day reviews,
//     numerical central-difference gradients, the [Adam] update rule, and a
//     [CosineAnnealing] learning-rate schedule.
//
//   - [Optimizer.ComputeOptimalRetention] picks the desired-retention value
//     that minimizes simulated study time per retained item, via Monte Carlo
//     replay with rating probabilities and answer durations estimated from
//     the same logs.
//
// Typical flow:
//
//	opt := optimizer.NewOptimizer(optimizer.OptimizerConfig{})
//	params, err := opt.ComputeOptimalParameters(ctx, logs)
//	retention, err := opt.ComputeOptimalRetention(ctx, params, logs)
//
// Parameter fitting needs at least MiniBatchSize (default 512) cross-day
// reviews to produce anything better than srs.DefaultParameters; retention
// optimization additionally requires ReviewDuration on every log.
package optimizer
