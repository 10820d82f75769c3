// Package dataprocessing turns heterogeneous telematics exports into the
// canonical event and driver-day records the attendance classifier
// consumes.
//
// The package owns the first four stages of the pipeline:
//
//   - schema.go resolves each file's raw headers against a per-source
//     alias table, producing a FieldMap so no downstream code ever looks
//     at a raw header string.
//   - identity.go parses the compound driver-identifier spellings into a
//     canonical DriverKey via an ordered list of parse strategies.
//   - loader.go reads .xlsx and .csv sources in a single forward pass,
//     emitting canonical events plus a per-file rejection tally. Row-level
//     failures are counted and skipped; only unreadable files and missing
//     mandatory headers are fatal.
//   - merge.go groups the union of all events by (driver, calendar date)
//     using order-independent reductions only, so the resulting DriverDay
//     set does not depend on file or row ordering.
//
// Loaders for distinct files share no state and may run concurrently; the
// merge is the single join point and expects the complete event set.
package dataprocessing
