// Package attendance holds the pure decision logic of the pipeline: the
// per-day classification policy and the weekly aggregation over its
// results.
//
// The classifier is an explicit ordered rule table rather than nested
// conditionals so the priority order is an auditable, testable artifact.
// Every result carries the reason code of the rule that fired.
package attendance
