package ledgercsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MrJamesThe3rd/tally/internal/ledger"
)

var ErrNoHeader = errors.New("no header found: expected payer;recipient;amount;description")

// RowError points at the record of the file that was rejected, counting from 1.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Parser reads semicolon separated transaction exports. Any preamble before
// the header row is ignored.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse returns one entry per data row. A zero PayerID means the row is paid
// by whoever imports the file; the ledger refuses rows naming anyone else.
// GroupID is left for the caller.
func (p *Parser) Parse(r io.Reader) ([]ledger.TransactionParams, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, &ledger.ValidationError{Field: "file", Err: ErrNoHeader}
	}

	return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
}

type colIndex map[string]int

func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows converts the data rows. headerRow is the 1-based number of the
// header record.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRow int) ([]ledger.TransactionParams, error) {
	var out []ledger.TransactionParams

	for i, row := range rows {
		if blank(row) {
			continue
		}

		params, err := parseRow(p, cols, row)
		if err != nil {
			return nil, &RowError{Row: headerRow + i + 1, Err: err}
		}

		out = append(out, params)
	}

	return out, nil
}

func parseRow(p *Profile, cols colIndex, row []string) (ledger.TransactionParams, error) {
	var params ledger.TransactionParams

	if p.PayerCol != "" {
		if s := cellValue(row, cols[p.PayerCol]); s != "" {
			id, err := parseUserID(s)
			if err != nil {
				return params, &ledger.ValidationError{Field: "payer", Err: err}
			}

			params.PayerID = id
		}
	}

	recipient, err := parseUserID(cellValue(row, cols[p.RecipientCol]))
	if err != nil {
		return params, &ledger.ValidationError{Field: "recipient", Err: err}
	}

	amount, err := parseAmount(cellValue(row, cols[p.AmountCol]))
	if err != nil {
		return params, &ledger.ValidationError{Field: "amount", Err: err}
	}

	params.RecipientID = recipient
	params.Amount = amount
	params.Description = cellValue(row, cols[p.DescCol])

	return params, nil
}

func parseUserID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ledger.ErrUnknownUser
	}

	return id, nil
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
