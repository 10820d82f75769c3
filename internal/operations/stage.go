package operations

import (
	"context"
	"sync"
	"time"
)

// Step is a single stage of the attendance pipeline. Steps read their
// input from the operation state and write their output back into it;
// the runner owns ordering and error handling.
type Step interface {
	// ID returns the unique identifier for this step.
	ID() string

	// Name returns the human-readable name for this step.
	Name() string

	// Execute runs the step against the shared operation state.
	Execute(ctx context.Context, state *OperationState) error

	// Validate checks whether the step can run with the current state.
	Validate(state *OperationState) error
}

// StepStatus is the lifecycle status of one step.
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// StepState is the runtime state of one step. Safe for concurrent reads
// while the runner executes.
type StepState struct {
	mu        sync.RWMutex
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Status    StepStatus `json:"status"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Message   string     `json:"message,omitempty"`
	Error     error      `json:"error,omitempty"`
}

// NewStepState creates a pending step state.
func NewStepState(id, name string) *StepState {
	return &StepState{
		ID:     id,
		Name:   name,
		Status: StepStatusPending,
	}
}

// Start marks the step as active and records the start time.
func (s *StepState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.StartTime = &now
	s.Status = StepStatusActive
}

// Complete marks the step as completed and records the end time.
func (s *StepState) Complete(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusCompleted
	s.Message = message
}

// Fail marks the step as failed with the given error.
func (s *StepState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusFailed
	s.Error = err
}

// Skip marks the step as skipped with the given reason.
func (s *StepState) Skip(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusSkipped
	s.Message = reason
}

// Duration returns how long the step has been running, or ran.
func (s *StepState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.StartTime == nil {
		return 0
	}
	if s.EndTime != nil {
		return s.EndTime.Sub(*s.StartTime)
	}
	return time.Since(*s.StartTime)
}

// CurrentStatus returns the status under the read lock.
func (s *StepState) CurrentStatus() StepStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status
}

// BaseStep carries the identity shared by every step implementation.
type BaseStep struct {
	id   string
	name string
}

// NewBaseStep creates the embedded identity for a step.
func NewBaseStep(id, name string) BaseStep {
	return BaseStep{id: id, name: name}
}

// ID returns the step ID.
func (b *BaseStep) ID() string {
	return b.id
}

// Name returns the step name.
func (b *BaseStep) Name() string {
	return b.name
}

// Validate passes by default; steps with preconditions override it.
func (b *BaseStep) Validate(state *OperationState) error {
	return nil
}
