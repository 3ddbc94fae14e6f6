package recurring

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/ledger"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateParams struct {
	GroupID        int64
	Amount         decimal.Decimal
	Description    string
	Frequency      Frequency
	ParticipantIDs []int64
	// StartDate defaults to today.
	StartDate time.Time
}

// Create registers a recurring debt fronted by the caller. Its first
// occurrence is due on the start date.
func (s *Service) Create(ctx context.Context, who ledger.Identity, params CreateParams) (*Template, error) {
	if err := ledger.ValidateEntry(params.GroupID, params.Amount, params.Description); err != nil {
		return nil, err
	}

	if !params.Frequency.Valid() {
		return nil, &ledger.ValidationError{Field: "frequency", Err: ErrUnknownFrequency}
	}

	participants := make([]ledger.User, 0, len(params.ParticipantIDs))
	seen := map[int64]bool{who.UserID: true}

	for _, id := range params.ParticipantIDs {
		if id <= 0 {
			return nil, &ledger.ValidationError{Field: "participant_ids", Err: ledger.ErrUnknownUser}
		}

		if seen[id] {
			continue
		}

		seen[id] = true
		participants = append(participants, ledger.User{ID: id})
	}

	if len(participants) == 0 {
		return nil, &ledger.ValidationError{Field: "participant_ids", Err: ledger.ErrNoParticipants}
	}

	start := params.StartDate
	if start.IsZero() {
		start = s.now()
	}

	t := &Template{
		GroupID:      params.GroupID,
		CreatedBy:    who.UserID,
		Amount:       params.Amount,
		Description:  params.Description,
		Frequency:    params.Frequency,
		Participants: participants,
		Active:       true,
		StartDate:    Date(start),
	}
	if err := s.repo.CreateTemplate(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

// Get returns a template of a group the caller belongs to.
func (s *Service) Get(ctx context.Context, who ledger.Identity, id int64) (*Template, error) {
	t, err := s.repo.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.member(ctx, who, t.GroupID); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Service) List(ctx context.Context, who ledger.Identity, groupID int64) ([]*Template, error) {
	if err := s.member(ctx, who, groupID); err != nil {
		return nil, err
	}

	return s.repo.ListTemplates(ctx, groupID)
}

// SetActive pauses or resumes a template. Resuming does not back-fill the
// occurrences that fell due while it was paused beyond the latest one.
func (s *Service) SetActive(ctx context.Context, who ledger.Identity, id int64, active bool) (*Template, error) {
	t, err := s.owned(ctx, who, id)
	if err != nil {
		return nil, err
	}

	if t.Active == active {
		return t, nil
	}

	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}

	t.Active = active

	return t, nil
}

// Delete removes a template. Debts it already generated stay in the ledger.
func (s *Service) Delete(ctx context.Context, who ledger.Identity, id int64) error {
	if _, err := s.owned(ctx, who, id); err != nil {
		return err
	}

	return s.repo.DeleteTemplate(ctx, id)
}

func (s *Service) member(ctx context.Context, who ledger.Identity, groupID int64) error {
	ok, err := s.repo.IsMember(ctx, groupID, who.UserID)
	if err != nil {
		return err
	}

	if !ok {
		return ledger.ErrForbidden
	}

	return nil
}

func (s *Service) owned(ctx context.Context, who ledger.Identity, id int64) (*Template, error) {
	t, err := s.repo.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}

	if t.CreatedBy != who.UserID {
		return nil, ledger.ErrForbidden
	}

	return t, nil
}
