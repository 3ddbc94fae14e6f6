package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/tally/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/tally/internal/balance"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/tally/internal/ledger/store"
	"github.com/MrJamesThe3rd/tally/internal/recurring"
	recurringStore "github.com/MrJamesThe3rd/tally/internal/recurring/store"
	"github.com/MrJamesThe3rd/tally/pkg/logging"
)

type model struct {
	session    view.Session
	loc        *time.Location
	ledgerSvc  *ledger.Service
	balanceSvc *balance.Service
	scheduler  *recurring.Scheduler

	currentView View

	balancesView view.BalancesModel
	recordView   view.RecordModel
	tickView     view.TickModel
}

type View int

const (
	ViewMenu     View = 0
	ViewBalances View = 1
	ViewDebt     View = 2
	ViewExpense  View = 3
	ViewTick     View = 4
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.LoadTUI()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The terminal owns stdout, so only warnings and errors are worth printing.
	logging.Setup("warn")

	loc, err := cfg.Scheduler.Location()
	if err != nil {
		slog.Error("failed to resolve timezone", "error", err)
		os.Exit(1)
	}

	session, err := resolveSession(cfg)
	if err != nil {
		slog.Error("failed to resolve session", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.New(ctx, cfg.DB.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	ledgers := ledgerStore.New(db)

	return model{
		session:     session,
		loc:         loc,
		ledgerSvc:   ledger.NewService(ledgers),
		balanceSvc:  balance.NewService(ledgers),
		scheduler:   recurring.NewScheduler(recurringStore.New(db), nil),
		currentView: ViewMenu,
	}
}

// resolveSession takes the user and group from the environment and asks for
// whatever is missing.
func resolveSession(cfg *config.TUIConfig) (view.Session, error) {
	userID := idString(cfg.Session.UserID)
	groupID := idString(cfg.Session.GroupID)

	if userID != "" && groupID != "" {
		return view.Session{Who: ledger.Identity{UserID: cfg.Session.UserID}, GroupID: cfg.Session.GroupID}, nil
	}

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Your user id").Value(&userID).Validate(validateID),
			huh.NewInput().Title("Group id").Value(&groupID).Validate(validateID),
		),
	).WithWidth(45).WithShowHelp(false).Run()
	if err != nil {
		return view.Session{}, fmt.Errorf("reading session: %w", err)
	}

	uid, _ := strconv.ParseInt(userID, 10, 64)
	gid, _ := strconv.ParseInt(groupID, 10, 64)

	return view.Session{Who: ledger.Identity{UserID: uid}, GroupID: gid}, nil
}

func idString(id int64) string {
	if id <= 0 {
		return ""
	}

	return strconv.FormatInt(id, 10)
}

func validateID(s string) error {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("must be a positive number")
	}

	return nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewBalances
				m.balancesView = view.NewBalancesModel(m.session, m.balanceSvc)

				return m, m.balancesView.Init()
			case "2":
				m.currentView = ViewDebt
				m.recordView = view.NewRecordModel(m.session, view.RecordDebt, m.ledgerSvc, m.balanceSvc)

				return m, m.recordView.Init()
			case "3":
				m.currentView = ViewExpense
				m.recordView = view.NewRecordModel(m.session, view.RecordExpense, m.ledgerSvc, m.balanceSvc)

				return m, m.recordView.Init()
			case "4":
				m.currentView = ViewTick
				m.tickView = view.NewTickModel(m.scheduler, m.loc)

				return m, m.tickView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewBalances:
		var newModel tea.Model
		newModel, cmd = m.balancesView.Update(msg)
		m.balancesView = newModel.(view.BalancesModel)
	case ViewDebt, ViewExpense:
		var newModel tea.Model
		newModel, cmd = m.recordView.Update(msg)
		m.recordView = newModel.(view.RecordModel)
	case ViewTick:
		var newModel tea.Model
		newModel, cmd = m.tickView.Update(msg)
		m.tickView = newModel.(view.TickModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("Tally (user %d, group %d)\n\n", m.session.Who.UserID, m.session.GroupID) +
				"1. Group Balances\n" +
				"2. Record What You Owe\n" +
				"3. Split an Expense\n" +
				"4. Run Recurring Scheduler\n\n" +
				"q. Quit",
		)
	case ViewBalances:
		return m.balancesView.View()
	case ViewDebt, ViewExpense:
		return m.recordView.View()
	case ViewTick:
		return m.tickView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
