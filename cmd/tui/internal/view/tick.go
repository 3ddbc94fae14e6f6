package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tally/internal/recurring"
)

type tickState int

const (
	tickStateForm tickState = iota
	tickStateRunning
	tickStateResult
)

type TickModel struct {
	scheduler *recurring.Scheduler
	loc       *time.Location

	state   tickState
	form    *huh.Form
	spinner spinner.Model
	table   table.Model

	result *recurring.TickResult
	err    error
}

func NewTickModel(scheduler *recurring.Scheduler, loc *time.Location) TickModel {
	s := spinner.New()
	s.Spinner = spinner.Dot

	m := TickModel{
		scheduler: scheduler,
		loc:       loc,
		spinner:   s,
		table: newTable([]table.Column{
			{Title: "Template", Width: 10},
			{Title: "Due", Width: 12},
			{Title: "Outcome", Width: 40},
		}, 10),
	}
	m.form = m.buildForm()

	return m
}

func (m TickModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m TickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	switch m.state {
	case tickStateForm:
		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State != huh.StateCompleted {
			return m, cmd
		}

		asOf, err := time.ParseInLocation(time.DateOnly, m.form.GetString("as_of"), m.loc)
		if err != nil {
			m.state = tickStateResult
			m.err = err

			return m, nil
		}

		m.state = tickStateRunning

		return m, tea.Batch(m.spinner.Tick, m.tickCmd(asOf))

	case tickStateRunning:
		if done, ok := msg.(tickDoneMsg); ok {
			m.state = tickStateResult
			m.result = done.result
			m.err = done.err
			m.refreshTable()

			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case tickStateResult:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m TickModel) buildForm() *huh.Form {
	today := time.Now().In(m.loc).Format(time.DateOnly)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("as_of").
				Title("Generate occurrences due on or before").
				Placeholder(today).
				Value(&today).
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, s); err != nil {
						return fmt.Errorf("use YYYY-MM-DD")
					}

					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m *TickModel) refreshTable() {
	if m.result == nil {
		return
	}

	rows := make([]table.Row, 0, len(m.result.Generated)+len(m.result.Failed))
	for _, inst := range m.result.Generated {
		rows = append(rows, table.Row{
			fmt.Sprint(inst.TemplateID),
			FormatDate(inst.DueDate),
			fmt.Sprintf("generated shared debt #%d", inst.SharedDebtID),
		})
	}

	for _, f := range m.result.Failed {
		rows = append(rows, table.Row{fmt.Sprint(f.TemplateID), FormatDate(f.DueDate), f.Err.Error()})
	}

	m.table.SetRows(rows)
}

func (m TickModel) View() string {
	switch m.state {
	case tickStateForm:
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				lipgloss.NewStyle().Bold(true).PaddingBottom(1).Render("Run recurring scheduler"),
				m.form.View(),
				faint("Esc: back"),
			),
		)

	case tickStateRunning:
		return lipgloss.NewStyle().Padding(1).Render(fmt.Sprintf("%s Generating due occurrences...", m.spinner.View()))

	case tickStateResult:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(1).Render(
				lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)) +
					"\n\n" + faint("Esc: back"),
			)
		}

		summary := fmt.Sprintf("As of %s: %d generated, %d skipped, %d failed",
			FormatDate(m.result.AsOf), len(m.result.Generated), m.result.Skipped, len(m.result.Failed))

		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")).PaddingBottom(1).Render(summary),
				boxed(m.table.View()),
				faint("Esc: back"),
			),
		)
	}

	return ""
}

type tickDoneMsg struct {
	result *recurring.TickResult
	err    error
}

func (m TickModel) tickCmd(asOf time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		result, err := m.scheduler.Tick(ctx, asOf)

		return tickDoneMsg{result: result, err: err}
	}
}
