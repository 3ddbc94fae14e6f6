package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tally/internal/balance"
)

type BalancesModel struct {
	session    Session
	balanceSvc *balance.Service

	users    table.Model
	details  table.Model
	balances []balance.UserBalance

	loading bool
	err     error
}

func NewBalancesModel(session Session, balanceSvc *balance.Service) BalancesModel {
	users := newTable([]table.Column{
		{Title: "Member", Width: 20},
		{Title: "Owed", Width: 12},
		{Title: "Owing", Width: 12},
		{Title: "Net", Width: 12},
		{Title: "Position", Width: 10},
	}, 10)

	details := newTable([]table.Column{
		{Title: "Counterparty", Width: 20},
		{Title: "Direction", Width: 10},
		{Title: "Amount", Width: 12},
	}, 8)
	details.Blur()

	return BalancesModel{
		session:    session,
		balanceSvc: balanceSvc,
		users:      users,
		details:    details,
		loading:    true,
	}
}

func (m BalancesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m BalancesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadBalancesMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.balances = msg.balances
			m.refreshUsers()
			m.refreshDetails()
		}

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.users, cmd = m.users.Update(msg)
	m.refreshDetails()

	return m, cmd
}

func (m BalancesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading balances...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("Group %s balances", activeStyle(fmt.Sprint(m.session.GroupID)))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxed(m.users.View()),
		"",
		boxed(m.details.View()),
		faint("Esc: back | r: refresh | ↑/↓: select member"),
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *BalancesModel) refreshUsers() {
	rows := make([]table.Row, 0, len(m.balances))
	for _, b := range m.balances {
		rows = append(rows, table.Row{
			b.UserName,
			FormatAmount(b.TotalOwed),
			FormatAmount(b.TotalOwing),
			FormatAmount(b.NetAmount),
			b.NetType.String(),
		})
	}

	m.users.SetRows(rows)
}

func (m *BalancesModel) refreshDetails() {
	idx := m.users.Cursor()
	if idx < 0 || idx >= len(m.balances) {
		m.details.SetRows(nil)
		return
	}

	rels := m.balances[idx].Relationships

	rows := make([]table.Row, 0, len(rels))
	for _, rel := range rels {
		rows = append(rows, table.Row{rel.OtherUserName, rel.Direction.String(), FormatAmount(rel.Amount)})
	}

	m.details.SetRows(rows)
}

type loadBalancesMsg struct {
	balances []balance.UserBalance
	err      error
}

func (m BalancesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		balances, err := m.balanceSvc.Group(ctx, m.session.Who, m.session.GroupID)
		if err != nil {
			return loadBalancesMsg{err: err}
		}

		return loadBalancesMsg{balances: balance.Sorted(balances)}
	}
}
