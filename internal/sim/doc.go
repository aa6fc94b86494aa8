// Package sim is the statute application engine: it drives the
// population × statute-catalog cross-product through the condition
// evaluator, classifies each pair into one of three terminal outcomes,
// and folds the outcomes into aggregate metrics.
//
// The engine itself is synchronous and CPU-bound. RunSimulation accepts a
// context so a host can cancel it alongside I/O-bound work, but no
// internal step blocks on I/O; cancellation is observed at batch
// boundaries only.
package sim
