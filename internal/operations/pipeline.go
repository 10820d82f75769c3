package operations

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"attendcli/internal/infrastructure"
)

// tracerName identifies spans emitted by the pipeline runner.
const tracerName = "attendcli/operations"

// Pipeline runs the attendance steps in order against one shared state.
// A step failure stops the run; later steps never see partial input.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
	tracer trace.Tracer
}

// NewPipeline creates a runner for the given steps, executed in slice
// order.
func NewPipeline(logger *slog.Logger, steps ...Step) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		steps:  steps,
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}
}

// Run executes every step in order. The returned state is always
// non-nil; on error it records which step failed and why.
func (p *Pipeline) Run(ctx context.Context) (*OperationState, error) {
	runID := uuid.New().String()
	ctx = infrastructure.WithTraceID(ctx, runID)

	state := NewOperationState(runID)
	for _, step := range p.steps {
		state.SetStep(step.ID(), NewStepState(step.ID(), step.Name()))
	}
	state.Start()

	ctx, span := p.tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("step.count", len(p.steps)),
		))
	defer span.End()

	p.logger.InfoContext(ctx, "pipeline started",
		slog.String("run_id", runID),
		slog.Int("steps", len(p.steps)))

	for _, step := range p.steps {
		if err := p.runStep(ctx, step, state); err != nil {
			state.Fail(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			p.logger.ErrorContext(ctx, "pipeline failed",
				slog.String("run_id", runID),
				slog.String("step", step.ID()),
				slog.String("error", err.Error()))
			return state, fmt.Errorf("step %s: %w", step.ID(), err)
		}
	}

	state.Complete()
	span.SetStatus(codes.Ok, "")
	p.logger.InfoContext(ctx, "pipeline completed",
		slog.String("run_id", runID),
		slog.Duration("duration", state.Duration()))

	return state, nil
}

// runStep drives one step through its state lifecycle inside its own
// span.
func (p *Pipeline) runStep(ctx context.Context, step Step, state *OperationState) error {
	stepState := state.GetStep(step.ID())

	ctx, span := p.tracer.Start(ctx, "pipeline.step."+step.ID(),
		trace.WithAttributes(attribute.String("step.name", step.Name())))
	defer span.End()

	if err := step.Validate(state); err != nil {
		stepState.Fail(err)
		return err
	}

	stepState.Start()
	p.logger.InfoContext(ctx, "step started", slog.String("step", step.ID()))

	if err := step.Execute(ctx, state); err != nil {
		stepState.Fail(err)
		infrastructure.RecordError(ctx, err)
		return err
	}

	stepState.Complete("")
	p.logger.InfoContext(ctx, "step completed",
		slog.String("step", step.ID()),
		slog.Duration("duration", stepState.Duration()))

	return nil
}
