package recurring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Scheduler materializes due recurring templates into shared debts, at most
// once per template and due date.
type Scheduler struct {
	repo    Repository
	metrics *Metrics
	now     func() time.Time
}

func NewScheduler(repo Repository, metrics *Metrics) *Scheduler {
	return &Scheduler{
		repo:    repo,
		metrics: metrics,
		now:     time.Now,
	}
}

type TickResult struct {
	AsOf      time.Time
	Generated []Instance
	// Skipped counts due occurrences that turned out to be generated already
	// or whose template was deactivated meanwhile.
	Skipped int
	Failed  []*GenerationError
}

// ShouldGenerate reports whether t has an occurrence due as of asOf that has
// no instance yet.
func (s *Scheduler) ShouldGenerate(ctx context.Context, t *Template, asOf time.Time) (bool, error) {
	if !t.Active {
		return false, nil
	}

	due, ok := t.DueFor(asOf)
	if !ok {
		return false, nil
	}

	exists, err := s.repo.InstanceExists(ctx, t.ID, due)
	if err != nil {
		return false, fmt.Errorf("checking instance: %w", err)
	}

	return !exists, nil
}

// Tick generates every occurrence due as of asOf. A template that fails is
// recorded in the result and does not stop the others. The returned error is
// only set when the templates could not be listed at all.
func (s *Scheduler) Tick(ctx context.Context, asOf time.Time) (*TickResult, error) {
	started := s.now()
	asOf = Date(asOf)

	templates, err := s.repo.ActiveTemplates(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("fetching active templates: %w", err)
	}

	res := &TickResult{AsOf: asOf}

	// Occurrences committed before a cancellation still count.
	defer func() { s.metrics.observe(res, s.now().Sub(started)) }()

	for _, t := range templates {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		should, err := s.ShouldGenerate(ctx, t, asOf)
		if err != nil {
			due, _ := t.DueFor(asOf)
			res.Failed = append(res.Failed, &GenerationError{TemplateID: t.ID, DueDate: due, Err: err})

			continue
		}

		if !should {
			continue
		}

		due, _ := t.DueFor(asOf)

		inst, err := s.generate(ctx, t, due)
		switch {
		case err == nil:
			res.Generated = append(res.Generated, inst)
		case errors.Is(err, ErrAlreadyGenerated), errors.Is(err, ErrInactive):
			res.Skipped++
		default:
			genErr := &GenerationError{TemplateID: t.ID, DueDate: due, Err: err}
			slog.Error("recurring generation failed", "template_id", t.ID, "due_date", due.Format(time.DateOnly), "error", err)
			res.Failed = append(res.Failed, genErr)
		}
	}

	return res, nil
}

func (s *Scheduler) generate(ctx context.Context, t *Template, due time.Time) (Instance, error) {
	debt, _, err := t.Materialize()
	if err != nil {
		return Instance{}, err
	}

	tx, err := s.repo.BeginGeneration(ctx, t.ID, due)
	if err != nil {
		return Instance{}, fmt.Errorf("beginning generation: %w", err)
	}
	defer tx.Rollback()

	active, err := tx.TemplateActive(ctx, t.ID)
	if err != nil {
		return Instance{}, fmt.Errorf("checking template: %w", err)
	}

	if !active {
		return Instance{}, ErrInactive
	}

	exists, err := tx.InstanceExists(ctx, t.ID, due)
	if err != nil {
		return Instance{}, fmt.Errorf("checking instance: %w", err)
	}

	if exists {
		return Instance{}, ErrAlreadyGenerated
	}

	if err := tx.CreateSharedDebt(ctx, debt); err != nil {
		return Instance{}, fmt.Errorf("creating shared debt: %w", err)
	}

	inst := Instance{TemplateID: t.ID, DueDate: due, SharedDebtID: debt.ID}
	if err := tx.RecordInstance(ctx, inst); err != nil {
		return Instance{}, err
	}

	if err := tx.Commit(); err != nil {
		return Instance{}, fmt.Errorf("committing generation: %w", err)
	}

	return inst, nil
}
