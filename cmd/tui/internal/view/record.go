package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tally/internal/balance"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
	"github.com/MrJamesThe3rd/tally/internal/money"
)

// RecordKind selects which ledger entry the form records.
type RecordKind int

const (
	RecordDebt RecordKind = iota
	RecordExpense
)

type recordState int

const (
	recordStateLoading recordState = iota
	recordStateForm
	recordStateSaving
	recordStateResult
)

type RecordModel struct {
	session    Session
	kind       RecordKind
	ledgerSvc  *ledger.Service
	balanceSvc *balance.Service

	state   recordState
	members []balance.UserBalance
	form    *huh.Form
	spinner spinner.Model

	summary string
	err     error
}

func NewRecordModel(session Session, kind RecordKind, ledgerSvc *ledger.Service, balanceSvc *balance.Service) RecordModel {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return RecordModel{
		session:    session,
		kind:       kind,
		ledgerSvc:  ledgerSvc,
		balanceSvc: balanceSvc,
		spinner:    s,
	}
}

func (m RecordModel) Init() tea.Cmd {
	return m.loadMembersCmd()
}

func (m RecordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	switch m.state {
	case recordStateLoading:
		return m.updateLoading(msg)
	case recordStateForm:
		return m.updateForm(msg)
	case recordStateSaving:
		return m.updateSaving(msg)
	}

	return m, nil
}

func (m RecordModel) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	loaded, ok := msg.(membersMsg)
	if !ok {
		return m, nil
	}

	if loaded.err != nil {
		m.state = recordStateResult
		m.err = loaded.err

		return m, nil
	}

	m.members = loaded.members
	m.form = m.buildForm()
	m.state = recordStateForm

	return m, m.form.Init()
}

func (m RecordModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = recordStateSaving

	return m, tea.Batch(m.spinner.Tick, m.saveCmd())
}

func (m RecordModel) updateSaving(msg tea.Msg) (tea.Model, tea.Cmd) {
	if saved, ok := msg.(savedMsg); ok {
		m.state = recordStateResult
		m.summary = saved.summary
		m.err = saved.err

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m RecordModel) otherMembers() []huh.Option[int64] {
	opts := make([]huh.Option[int64], 0, len(m.members))
	for _, u := range m.members {
		if u.UserID == m.session.Who.UserID {
			continue
		}

		opts = append(opts, huh.NewOption(u.UserName, u.UserID))
	}

	return opts
}

func (m RecordModel) buildForm() *huh.Form {
	var who huh.Field

	switch m.kind {
	case RecordDebt:
		who = huh.NewSelect[int64]().
			Key("recipient").
			Title("You owe").
			Options(m.otherMembers()...)
	case RecordExpense:
		who = huh.NewMultiSelect[int64]().
			Key("participants").
			Title("Split with").
			Description("You are always part of the split").
			Options(m.otherMembers()...).
			Validate(func(ids []int64) error {
				if len(ids) == 0 {
					return fmt.Errorf("pick at least one member")
				}

				return nil
			})
	}

	return huh.NewForm(
		huh.NewGroup(
			who,
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("0.00").
				Validate(func(s string) error {
					_, err := money.Parse(s)
					return err
				}),
			huh.NewInput().
				Key("description").
				Title("Description").
				CharLimit(ledger.MaxDescriptionLength).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("description is required")
					}

					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m RecordModel) View() string {
	switch m.state {
	case recordStateLoading:
		return lipgloss.NewStyle().Padding(2).Render("Loading members...")

	case recordStateForm:
		title := "Record what you owe"
		if m.kind == RecordExpense {
			title = "Split an expense"
		}

		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				lipgloss.NewStyle().Bold(true).PaddingBottom(1).Render(title),
				m.form.View(),
				faint("Esc: back"),
			),
		)

	case recordStateSaving:
		return lipgloss.NewStyle().Padding(1).Render(fmt.Sprintf("%s Saving...", m.spinner.View()))

	case recordStateResult:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(1).Render(
				lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)) +
					"\n\n" + faint("Esc: back"),
			)
		}

		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")).Render("Saved!") +
				"\n\n" + m.summary + "\n\n" + faint("Esc: back"),
		)
	}

	return ""
}

type membersMsg struct {
	members []balance.UserBalance
	err     error
}

func (m RecordModel) loadMembersCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		balances, err := m.balanceSvc.Group(ctx, m.session.Who, m.session.GroupID)
		if err != nil {
			return membersMsg{err: err}
		}

		return membersMsg{members: balance.Sorted(balances)}
	}
}

type savedMsg struct {
	summary string
	err     error
}

func (m RecordModel) saveCmd() tea.Cmd {
	amount, err := money.Parse(m.form.GetString("amount"))
	if err != nil {
		return func() tea.Msg { return savedMsg{err: err} }
	}

	description := strings.TrimSpace(m.form.GetString("description"))

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		switch m.kind {
		case RecordDebt:
			recipient, _ := m.form.Get("recipient").(int64)

			tx, err := m.ledgerSvc.CreateTransaction(ctx, m.session.Who, ledger.TransactionParams{
				GroupID:     m.session.GroupID,
				PayerID:     m.session.Who.UserID,
				RecipientID: recipient,
				Amount:      amount,
				Description: description,
			})
			if err != nil {
				return savedMsg{err: err}
			}

			return savedMsg{summary: fmt.Sprintf("Debt #%d of %s recorded.", tx.ID, FormatAmount(tx.Amount))}

		case RecordExpense:
			participants, _ := m.form.Get("participants").([]int64)

			debt, err := m.ledgerSvc.CreateSharedDebt(ctx, m.session.Who, ledger.SharedDebtParams{
				GroupID:        m.session.GroupID,
				Amount:         amount,
				Description:    description,
				ParticipantIDs: participants,
			})
			if err != nil {
				return savedMsg{err: err}
			}

			return savedMsg{summary: fmt.Sprintf(
				"Expense #%d of %s split between %d members.", debt.ID, FormatAmount(debt.Amount), len(participants)+1,
			)}
		}

		return savedMsg{err: fmt.Errorf("unknown record kind %d", m.kind)}
	}
}
