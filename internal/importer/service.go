package importer

import (
	"errors"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/tally/internal/encoding"
	"github.com/MrJamesThe3rd/tally/internal/importer/ledgercsv"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
)

var ErrUnknownFormat = errors.New("unknown import format")

type Service struct {
	csvImporter Importer
}

func NewService() *Service {
	return &Service{
		csvImporter: ledgercsv.NewParser(),
	}
}

// Import decodes r to UTF-8 and parses it into transactions of groupID. An
// empty format means CSV.
func (s *Service) Import(format Format, groupID int64, r io.Reader) ([]ledger.TransactionParams, error) {
	var importer Importer

	switch format {
	case FormatCSV, "":
		importer = s.csvImporter
	default:
		return nil, &ledger.ValidationError{Field: "format", Err: fmt.Errorf("%w: %s", ErrUnknownFormat, format)}
	}

	utf8r, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detecting encoding: %w", err)
	}

	params, err := importer.Parse(utf8r)
	if err != nil {
		return nil, err
	}

	for i := range params {
		params[i].GroupID = groupID
	}

	return params, nil
}
