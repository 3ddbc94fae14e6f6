package recurring

import (
	"context"
	"time"

	"github.com/MrJamesThe3rd/tally/internal/ledger"
)

// Instance records that a template produced a ledger entry for one due date.
type Instance struct {
	TemplateID   int64
	DueDate      time.Time
	SharedDebtID int64
}

//go:generate mockgen -source=repository.go -destination=repository_mock.go -package=recurring
type Repository interface {
	CreateTemplate(ctx context.Context, t *Template) error
	GetTemplate(ctx context.Context, id int64) (*Template, error)
	ListTemplates(ctx context.Context, groupID int64) ([]*Template, error)
	SetActive(ctx context.Context, id int64, active bool) error
	IsMember(ctx context.Context, groupID, userID int64) (bool, error)
	// DeleteTemplate removes the template and its participant rows and detaches
	// every ledger entry and instance it generated. History is kept.
	DeleteTemplate(ctx context.Context, id int64) error

	// ActiveTemplates returns active templates whose start date is on or before asOf.
	ActiveTemplates(ctx context.Context, asOf time.Time) ([]*Template, error)
	InstanceExists(ctx context.Context, templateID int64, dueDate time.Time) (bool, error)

	// BeginGeneration opens the unit of work for one occurrence. Concurrent
	// callers for the same template and due date are serialized until Commit
	// or Rollback.
	BeginGeneration(ctx context.Context, templateID int64, dueDate time.Time) (GenerationTx, error)
}

type GenerationTx interface {
	TemplateActive(ctx context.Context, templateID int64) (bool, error)
	InstanceExists(ctx context.Context, templateID int64, dueDate time.Time) (bool, error)
	CreateSharedDebt(ctx context.Context, debt *ledger.SharedDebt) error
	// RecordInstance returns ErrAlreadyGenerated if the occurrence is taken.
	RecordInstance(ctx context.Context, inst Instance) error
	Commit() error
	Rollback() error
}
