// Package srs implements the spaced-repetition scheduling engine behind the
// learning portal: an FSRS v6 state machine that decides, for each learned
// item, when it should next be reviewed and how its stability and difficulty
// evolve with every answer.
//
// The engine owns no card collection and performs no I/O. Callers create a
// Card when an item first enters the learning pool, call
// [Scheduler.ReviewCard] after every review, persist the returned Card, and
// drive review queues and dashboards with [GetDueCards] and [GetStatistics].
//
// Basic usage:
//
//	s, err := srs.NewScheduler(srs.SchedulerConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	card, err := srs.NewCard("vocab:obrigado")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	card, _, err = s.ReviewCard(card, srs.Good, time.Now())
//
// Records from the portal's earlier SM-2 scheduler are converted with
// [MigrateFromSM2]. FSRS parameters can be trained from review history with
// the srs/optimizer subpackage.
package srs
