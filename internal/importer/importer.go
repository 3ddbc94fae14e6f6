package importer

import (
	"io"

	"github.com/MrJamesThe3rd/tally/internal/ledger"
)

type Format string

const (
	FormatCSV Format = "csv"
)

type Importer interface {
	Parse(r io.Reader) ([]ledger.TransactionParams, error)
}
