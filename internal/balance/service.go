package balance

import (
	"context"

	"github.com/MrJamesThe3rd/tally/internal/ledger"
)

//go:generate mockgen -source=service.go -destination=reader_mock.go -package=balance
type Reader interface {
	// FetchGroupEntries returns every entry of a group read from one consistent snapshot.
	FetchGroupEntries(ctx context.Context, groupID int64) (*ledger.GroupEntries, error)
}

type Service struct {
	repo Reader
}

func NewService(repo Reader) *Service {
	return &Service{repo: repo}
}

// Group returns the balance of every member. Only members may look.
func (s *Service) Group(ctx context.Context, who ledger.Identity, groupID int64) (map[int64]UserBalance, error) {
	entries, err := s.snapshot(ctx, who, groupID)
	if err != nil {
		return nil, err
	}

	return Compute(entries), nil
}

// Between returns the caller's relationship with another member, or nil when
// the two are settled.
func (s *Service) Between(ctx context.Context, who ledger.Identity, groupID, otherID int64) (*DebtRelationship, error) {
	entries, err := s.snapshot(ctx, who, groupID)
	if err != nil {
		return nil, err
	}

	if !entries.IsMember(otherID) {
		return nil, ledger.ErrNotFound
	}

	mine := Compute(entries)[who.UserID]
	for _, rel := range mine.Relationships {
		if rel.OtherUserID == otherID {
			return &rel, nil
		}
	}

	return nil, nil
}

func (s *Service) snapshot(ctx context.Context, who ledger.Identity, groupID int64) (*ledger.GroupEntries, error) {
	entries, err := s.repo.FetchGroupEntries(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if !entries.IsMember(who.UserID) {
		return nil, ledger.ErrForbidden
	}

	return entries, nil
}
