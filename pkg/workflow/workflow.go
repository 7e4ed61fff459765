// Package workflow runs an ordered list of dependent, side-effecting steps.
// A step failure aborts the remaining steps and the returned error names
// the step that failed. Steps may declare a compensating action, but the
// runner only invokes compensations when explicitly enabled; the default
// policy is forward-only with no rollback.
package workflow

import (
	"context"
	"log/slog"

	"shipflow/pkg/faults"
)

// Step is one stage of a workflow. Mutates marks steps whose forward
// action changes external state; a later failure behind a completed
// mutating step classifies as partial completion.
type Step struct {
	Name       string
	Mutates    bool
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

type Option func(*Runner)

// WithCompensation makes the runner invoke the compensating actions of
// completed steps in reverse order after a failure. Steps with no
// compensating action are skipped.
func WithCompensation() Option {
	return func(r *Runner) { r.compensate = true }
}

// WithObserver registers a callback invoked once per finished run with the
// failed step name ("" on success).
func WithObserver(fn func(workflow, step string, err error)) Option {
	return func(r *Runner) { r.observe = fn }
}

type Runner struct {
	log        *slog.Logger
	compensate bool
	observe    func(workflow, step string, err error)
}

func NewRunner(log *slog.Logger, opts ...Option) *Runner {
	r := &Runner{log: log}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Execute runs steps in order, stopping at the first failure. The error
// carries the failed step's name and classifies as partial completion when
// a completed earlier step already mutated external state, or when the
// step's own error says so.
func (r *Runner) Execute(ctx context.Context, name string, steps []Step) error {
	var done []Step
	mutated := false
	for _, step := range steps {
		if err := step.Run(ctx); err != nil {
			r.log.Error("workflow step failed",
				"workflow", name, "step", step.Name, "err", err)
			if r.compensate {
				r.rollback(ctx, name, done)
			}
			if r.observe != nil {
				r.observe(name, step.Name, err)
			}
			if mutated || faults.KindOf(err) == faults.KindPartial {
				return faults.PartialAtStep(step.Name, err)
			}
			return faults.AtStep(step.Name, err)
		}
		if step.Mutates {
			mutated = true
		}
		done = append(done, step)
	}
	if r.observe != nil {
		r.observe(name, "", nil)
	}
	return nil
}

func (r *Runner) rollback(ctx context.Context, name string, done []Step) {
	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			r.log.Error("workflow compensation failed",
				"workflow", name, "step", step.Name, "err", err)
		}
	}
}
