// Package operations orchestrates the attendance pipeline: load, merge,
// classify, summarize. Each stage is a Step with its own lifecycle
// state; the Pipeline runner executes them in order against one shared
// typed OperationState and stops at the first failure.
//
// Source files load concurrently inside the load step. Everything after
// the load runs sequentially, since each later stage consumes the
// complete output of the previous one.
package operations
