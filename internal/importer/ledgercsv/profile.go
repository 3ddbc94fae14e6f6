package ledgercsv

// Profile describes the column layout of a transactions export. Column names
// are matched case-insensitively.
type Profile struct {
	Name string
	// PayerCol may be empty, in which case every row is paid by the importer.
	PayerCol     string
	RecipientCol string
	AmountCol    string
	DescCol      string
}

func (p Profile) requiredCols() []string {
	cols := []string{p.RecipientCol, p.AmountCol, p.DescCol}
	if p.PayerCol != "" {
		cols = append(cols, p.PayerCol)
	}

	return cols
}

// profiles are tried in order. Layouts with a payer column come first so a
// full header never matches the shorter one.
var profiles = []Profile{
	{
		Name:         "ledger",
		PayerCol:     "payer",
		RecipientCol: "recipient",
		AmountCol:    "amount",
		DescCol:      "description",
	},
	{
		Name:         "razão",
		PayerCol:     "pagador",
		RecipientCol: "destinatário",
		AmountCol:    "montante",
		DescCol:      "descrição",
	},
	{
		Name:         "payments",
		RecipientCol: "recipient",
		AmountCol:    "amount",
		DescCol:      "description",
	},
}
