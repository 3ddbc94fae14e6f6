package recurring_test

import (
	"context"
	"sync"
	"time"

	"github.com/MrJamesThe3rd/tally/internal/ledger"
	"github.com/MrJamesThe3rd/tally/internal/recurring"
)

type instanceKey struct {
	templateID int64
	due        string
}

// memRepo is an in-memory Repository whose generation transactions are
// serialized by a single lock, standing in for the advisory lock.
type memRepo struct {
	mu        sync.Mutex
	genLock   sync.Mutex
	templates map[int64]*recurring.Template
	instances map[instanceKey]recurring.Instance
	debts     []*ledger.SharedDebt
	nextID    int64
}

func newMemRepo(templates ...*recurring.Template) *memRepo {
	r := &memRepo{
		templates: map[int64]*recurring.Template{},
		instances: map[instanceKey]recurring.Instance{},
	}

	for _, t := range templates {
		r.templates[t.ID] = t
	}

	return r
}

func key(templateID int64, due time.Time) instanceKey {
	return instanceKey{templateID: templateID, due: due.Format(time.DateOnly)}
}

func (r *memRepo) CreateTemplate(_ context.Context, t *recurring.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	t.ID = r.nextID
	r.templates[t.ID] = t

	return nil
}

func (r *memRepo) GetTemplate(_ context.Context, id int64) (*recurring.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.templates[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}

	cp := *t

	return &cp, nil
}

func (r *memRepo) ListTemplates(_ context.Context, groupID int64) ([]*recurring.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*recurring.Template

	for _, t := range r.templates {
		if t.GroupID == groupID {
			cp := *t
			out = append(out, &cp)
		}
	}

	return out, nil
}

func (r *memRepo) SetActive(_ context.Context, id int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.templates[id].Active = active

	return nil
}

func (r *memRepo) IsMember(context.Context, int64, int64) (bool, error) {
	return true, nil
}

func (r *memRepo) DeleteTemplate(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.templates, id)

	return nil
}

func (r *memRepo) ActiveTemplates(_ context.Context, asOf time.Time) ([]*recurring.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*recurring.Template

	for _, t := range r.templates {
		if !t.Active || t.StartDate.After(asOf) {
			continue
		}

		cp := *t
		cp.LastGenerated = nil

		for _, inst := range r.instances {
			if inst.TemplateID == t.ID && (cp.LastGenerated == nil || inst.DueDate.After(*cp.LastGenerated)) {
				due := inst.DueDate
				cp.LastGenerated = &due
			}
		}

		out = append(out, &cp)
	}

	return out, nil
}

func (r *memRepo) InstanceExists(_ context.Context, templateID int64, due time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.instances[key(templateID, due)]

	return ok, nil
}

func (r *memRepo) BeginGeneration(context.Context, int64, time.Time) (recurring.GenerationTx, error) {
	r.genLock.Lock()

	return &memTx{repo: r}, nil
}

func (r *memRepo) generatedDebts() []*ledger.SharedDebt {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]*ledger.SharedDebt(nil), r.debts...)
}

type memTx struct {
	repo *memRepo
	debt *ledger.SharedDebt
	inst *recurring.Instance
	done bool
}

func (tx *memTx) TemplateActive(_ context.Context, id int64) (bool, error) {
	tx.repo.mu.Lock()
	defer tx.repo.mu.Unlock()

	t, ok := tx.repo.templates[id]

	return ok && t.Active, nil
}

func (tx *memTx) InstanceExists(ctx context.Context, templateID int64, due time.Time) (bool, error) {
	return tx.repo.InstanceExists(ctx, templateID, due)
}

func (tx *memTx) CreateSharedDebt(_ context.Context, debt *ledger.SharedDebt) error {
	tx.repo.mu.Lock()
	tx.repo.nextID++
	debt.ID = tx.repo.nextID
	tx.repo.mu.Unlock()

	tx.debt = debt

	return nil
}

func (tx *memTx) RecordInstance(_ context.Context, inst recurring.Instance) error {
	tx.inst = &inst
	return nil
}

func (tx *memTx) Commit() error {
	if tx.done {
		return nil
	}

	tx.repo.mu.Lock()
	if tx.inst != nil {
		if _, ok := tx.repo.instances[key(tx.inst.TemplateID, tx.inst.DueDate)]; ok {
			tx.repo.mu.Unlock()
			tx.finish()

			return recurring.ErrAlreadyGenerated
		}

		tx.repo.instances[key(tx.inst.TemplateID, tx.inst.DueDate)] = *tx.inst
	}

	if tx.debt != nil {
		tx.repo.debts = append(tx.repo.debts, tx.debt)
	}
	tx.repo.mu.Unlock()

	tx.finish()

	return nil
}

func (tx *memTx) Rollback() error {
	tx.finish()
	return nil
}

func (tx *memTx) finish() {
	if tx.done {
		return
	}

	tx.done = true
	tx.repo.genLock.Unlock()
}
