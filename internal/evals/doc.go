// Package evals runs the golden-set intent-classification checks used to
// gate model behavior in CI. Timeouts are explicit context deadlines rather
// than OS signals, so the runner behaves the same on every platform and is
// testable without interrupt delivery.
package evals
