package export

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/tally/internal/balance"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
)

// Archive members. transactions.csv uses the layout the importer reads back.
const (
	TransactionsFile = "transactions.csv"
	SharedDebtsFile  = "shared_debts.csv"
	BalancesFile     = "balances.csv"
	SummaryFile      = "summary.txt"
)

// Service packs a group's ledger into a zip archive.
type Service struct {
	repo balance.Reader
}

func NewService(repo balance.Reader) *Service {
	return &Service{repo: repo}
}

// Export writes the archive for groupID to w. Every file is produced from the
// same snapshot, so the balances always agree with the listed entries.
func (s *Service) Export(ctx context.Context, who ledger.Identity, groupID int64, w io.Writer) error {
	entries, err := s.repo.FetchGroupEntries(ctx, groupID)
	if err != nil {
		return err
	}

	if !entries.IsMember(who.UserID) {
		return ledger.ErrForbidden
	}

	balances := balance.Sorted(balance.Compute(entries))

	zw := zip.NewWriter(w)

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{TransactionsFile, func(w io.Writer) error { return writeTransactions(w, entries.Transactions) }},
		{SharedDebtsFile, func(w io.Writer) error { return writeSharedDebts(w, entries.SharedDebts) }},
		{BalancesFile, func(w io.Writer) error { return writeBalances(w, balances) }},
		{SummaryFile, func(w io.Writer) error {
			_, err := io.WriteString(w, Summary(balances))
			return err
		}},
	}

	for _, f := range files {
		fw, err := zw.Create(f.name)
		if err != nil {
			return fmt.Errorf("creating %s: %w", f.name, err)
		}

		if err := f.write(fw); err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}

	return nil
}

func newCSVWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	return cw
}

func writeTransactions(w io.Writer, txs []*ledger.Transaction) error {
	cw := newCSVWriter(w)

	rows := [][]string{{"payer", "recipient", "amount", "description", "created_at"}}
	for _, tx := range txs {
		rows = append(rows, []string{
			id(tx.PayerID),
			id(tx.RecipientID),
			tx.Amount.StringFixed(2),
			tx.Description,
			tx.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return cw.WriteAll(rows)
}

func writeSharedDebts(w io.Writer, debts []*ledger.SharedDebt) error {
	cw := newCSVWriter(w)

	rows := [][]string{{"id", "created_by", "amount", "description", "participants", "recurring_template_id", "created_at"}}
	for _, d := range debts {
		participants := make([]string, 0, len(d.Participants))
		for _, p := range d.Participants {
			participants = append(participants, id(p.ID))
		}

		template := ""
		if d.TemplateID != nil {
			template = id(*d.TemplateID)
		}

		rows = append(rows, []string{
			id(d.ID),
			id(d.CreatedBy),
			d.Amount.StringFixed(2),
			d.Description,
			strings.Join(participants, ","),
			template,
			d.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return cw.WriteAll(rows)
}

func writeBalances(w io.Writer, balances []balance.UserBalance) error {
	cw := newCSVWriter(w)

	rows := [][]string{{"user_id", "user_name", "total_owed", "total_owing", "net_amount", "net_type"}}
	for _, b := range balances {
		rows = append(rows, []string{
			id(b.UserID),
			b.UserName,
			b.TotalOwed.StringFixed(2),
			b.TotalOwing.StringFixed(2),
			b.NetAmount.StringFixed(2),
			b.NetType.String(),
		})
	}

	return cw.WriteAll(rows)
}

// Summary lists who has to pay whom to settle the group, one line per pair.
func Summary(balances []balance.UserBalance) string {
	var sb strings.Builder

	for _, b := range balances {
		for _, rel := range b.Relationships {
			if rel.Direction != balance.Owes {
				continue
			}

			fmt.Fprintf(&sb, "%s owes %s %s\n", b.UserName, rel.OtherUserName, rel.Amount.StringFixed(2))
		}
	}

	if sb.Len() == 0 {
		return "Everyone is settled up.\n"
	}

	return sb.String()
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}
