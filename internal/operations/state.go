package operations

import (
	"sync"
	"time"

	"attendcli/pkg/contracts/domain"
)

// OperationStatus is the overall status of one pipeline run.
type OperationStatus string

const (
	OperationStatusPending   OperationStatus = "pending"
	OperationStatusRunning   OperationStatus = "running"
	OperationStatusCompleted OperationStatus = "completed"
	OperationStatusFailed    OperationStatus = "failed"
)

// OperationState is the shared state of one pipeline run. Steps exchange
// data through its typed fields rather than an untyped bag, so a step
// reading the wrong stage's output is a compile error.
type OperationState struct {
	mu sync.RWMutex

	ID        string          `json:"id"`
	Status    OperationStatus `json:"status"`
	StartTime time.Time       `json:"start_time"`
	EndTime   *time.Time      `json:"end_time,omitempty"`

	Steps map[string]*StepState `json:"steps"`

	// Stage outputs, in pipeline order.
	Events  []domain.CanonicalEvent       `json:"-"`
	Tallies []*domain.RejectionTally      `json:"tallies,omitempty"`
	Days    []domain.DriverDay            `json:"-"`
	Results []domain.ClassificationResult `json:"-"`
	Summary *domain.WeeklySummary         `json:"-"`

	Error error `json:"error,omitempty"`
}

// NewOperationState creates a pending operation state.
func NewOperationState(id string) *OperationState {
	return &OperationState{
		ID:        id,
		Status:    OperationStatusPending,
		StartTime: time.Now(),
		Steps:     make(map[string]*StepState),
	}
}

// Start marks the operation as running.
func (s *OperationState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = OperationStatusRunning
	s.StartTime = time.Now()
}

// Complete marks the operation as completed.
func (s *OperationState) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = OperationStatusCompleted
}

// Fail marks the operation as failed.
func (s *OperationState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = OperationStatusFailed
	s.Error = err
}

// GetStep returns the state of one step.
func (s *OperationState) GetStep(id string) *StepState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Steps[id]
}

// SetStep records the state of one step.
func (s *OperationState) SetStep(id string, step *StepState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Steps[id] = step
}

// SetEvents stores the loader output.
func (s *OperationState) SetEvents(events []domain.CanonicalEvent, tallies []*domain.RejectionTally) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = events
	s.Tallies = tallies
}

// GetEvents returns the loader output.
func (s *OperationState) GetEvents() []domain.CanonicalEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Events
}

// GetTallies returns the per-file rejection tallies.
func (s *OperationState) GetTallies() []*domain.RejectionTally {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Tallies
}

// SetDays stores the merge output.
func (s *OperationState) SetDays(days []domain.DriverDay) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Days = days
}

// GetDays returns the merge output.
func (s *OperationState) GetDays() []domain.DriverDay {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Days
}

// SetResults stores the classifier output.
func (s *OperationState) SetResults(results []domain.ClassificationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Results = results
}

// GetResults returns the classifier output.
func (s *OperationState) GetResults() []domain.ClassificationResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Results
}

// SetSummary stores the weekly summary.
func (s *OperationState) SetSummary(summary *domain.WeeklySummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Summary = summary
}

// GetSummary returns the weekly summary, nil until the summarize step ran.
func (s *OperationState) GetSummary() *domain.WeeklySummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Summary
}

// Duration returns how long the operation has been running, or ran.
func (s *OperationState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.EndTime != nil {
		return s.EndTime.Sub(s.StartTime)
	}
	return time.Since(s.StartTime)
}

// HasFailures reports whether any step failed.
func (s *OperationState) HasFailures() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, step := range s.Steps {
		if step.CurrentStatus() == StepStatusFailed {
			return true
		}
	}
	return false
}
