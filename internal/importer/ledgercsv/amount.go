package ledgercsv

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/money"
)

// parseAmount accepts both "1,234.56" and the European "1.234,56". The last
// separator in the cell is the decimal one.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimSuffix(strings.TrimPrefix(clean, "€"), "€")
	clean = strings.TrimSpace(strings.TrimSuffix(clean, "EUR"))
	clean = strings.ReplaceAll(clean, " ", "")

	comma := strings.LastIndex(clean, ",")
	dot := strings.LastIndex(clean, ".")

	if comma > dot {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	return money.Parse(clean)
}
