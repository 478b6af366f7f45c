// Package pipeline records the ordered filter steps a quality-control run
// applies to one scope. Steps are stored as parsed filters; evaluating them
// against data happens elsewhere.
package pipeline

import (
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/qcfilter/errors"
	"github.com/teranos/qcfilter/logger"
	"github.com/teranos/qcfilter/processing"
)

// Step is one installed filter.
type Step struct {
	ID     uuid.UUID
	Filter processing.Filter
}

// Descriptor renders the step filter in canonical grammar.
func (s Step) Descriptor() string { return s.Filter.String() }

// Pipeline holds the steps for one scope, in installation order.
// It is safe for concurrent use.
type Pipeline struct {
	scope  Scope
	logger *zap.SugaredLogger

	mu    sync.RWMutex
	steps []Step
}

// New parses scope and returns an empty pipeline. A nil logger falls back to
// the global one.
func New(scope string, log *zap.SugaredLogger) (*Pipeline, error) {
	s, err := ParseScope(scope)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.ComponentLogger("pipeline")
	}
	return &Pipeline{
		scope:  s,
		logger: log.With(logger.FieldScope, s.String()),
	}, nil
}

// Scope returns the pipeline scope.
func (p *Pipeline) Scope() Scope { return p.scope }

// Install parses descriptor and appends it as a new step.
func (p *Pipeline) Install(descriptor string) (Step, error) {
	f, err := processing.ParseFilter(descriptor)
	if err != nil {
		p.logger.Debugw("Rejected filter",
			logger.FieldDescriptor, descriptor,
			logger.FieldError, err)
		return Step{}, errors.Mark(errors.Wrapf(err, "install %q", descriptor), ErrInvalidSelection)
	}
	return p.add(f), nil
}

// Select appends a mask built from an operand marker ("=", "!=", ">", ">=",
// "<", "<=") and item text.
func (p *Pipeline) Select(operand, item string) (Step, error) {
	op, err := processing.ParseMaskOperand(operand)
	if err != nil {
		return Step{}, errors.Mark(err, ErrInvalidOperand)
	}

	m, err := processing.BuildMask(op, item)
	if err != nil {
		if errors.Is(err, processing.ErrInvalidOperand) {
			return Step{}, errors.Mark(err, ErrInvalidOperand)
		}
		return Step{}, errors.Mark(errors.Wrapf(err, "select %s %q", operand, item), ErrInvalidSelection)
	}
	return p.add(processing.FromMask(m)), nil
}

func (p *Pipeline) add(f processing.Filter) Step {
	step := Step{ID: uuid.New(), Filter: f}

	p.mu.Lock()
	p.steps = append(p.steps, step)
	p.mu.Unlock()

	desc := processing.Describe(f)
	fields := []any{
		logger.FieldStepID, step.ID.String(),
		logger.FieldFilterKind, desc.Kind,
		logger.FieldDescriptor, desc.Descriptor,
	}
	if desc.Operand != "" {
		fields = append(fields, logger.FieldOperand, desc.Operand, logger.FieldItemKind, desc.ItemKind)
	}
	p.logger.Debugw("Installed filter", fields...)
	return step
}

// Negate replaces the filter of step id with its negation and returns the
// updated step. Decimation steps are left as they are.
func (p *Pipeline) Negate(id uuid.UUID) (Step, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := slices.IndexFunc(p.steps, func(s Step) bool { return s.ID == id })
	if idx < 0 {
		return Step{}, errors.NewNotFoundError("step %s", id)
	}

	step := &p.steps[idx]
	if step.Filter.Kind() == processing.KindDecimation {
		p.logger.Warnw("Decimation cannot be negated",
			logger.FieldStepID, id.String(),
			logger.FieldDescriptor, step.Filter.String())
		return *step, nil
	}

	step.Filter = processing.Not(step.Filter)
	p.logger.Debugw("Negated filter",
		logger.FieldStepID, id.String(),
		logger.FieldDescriptor, step.Filter.String())
	return *step, nil
}

// Remove drops step id.
func (p *Pipeline) Remove(id uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := slices.IndexFunc(p.steps, func(s Step) bool { return s.ID == id })
	if idx < 0 {
		return errors.NewNotFoundError("step %s", id)
	}
	p.steps = slices.Delete(p.steps, idx, idx+1)
	return nil
}

// Steps returns a copy of the installed steps.
func (p *Pipeline) Steps() []Step {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.steps)
}

// Len returns the number of installed steps.
func (p *Pipeline) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.steps)
}

// Descriptors renders every step in canonical grammar. Installing the
// result into a fresh pipeline reproduces equal filters.
func (p *Pipeline) Descriptors() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]string, len(p.steps))
	for i, s := range p.steps {
		out[i] = s.Descriptor()
	}
	return out
}

// InstallAll installs every descriptor, stopping at the first failure.
func (p *Pipeline) InstallAll(descriptors []string) error {
	for _, d := range descriptors {
		if _, err := p.Install(d); err != nil {
			return err
		}
	}
	p.logger.Infow("Pipeline ready", logger.FieldCount, p.Len())
	return nil
}
