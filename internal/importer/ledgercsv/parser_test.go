package ledgercsv_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/importer/ledgercsv"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
	"github.com/MrJamesThe3rd/tally/internal/money"
)

func TestParser_Parse(t *testing.T) {
	type args struct {
		csvContent string
	}

	type testCase struct {
		name    string
		args    args
		wantLen int
		verify  func(t *testing.T, params []ledger.TransactionParams)
		wantErr error
	}

	tests := []testCase{
		{
			name: "Standard",
			args: args{csvContent: "payer;recipient;amount;description\n" +
				"1;2;20.00;Dinner\n" +
				"2;3;1,234.50;Flights\n"},
			wantLen: 2,
			verify: func(t *testing.T, params []ledger.TransactionParams) {
				assert.Equal(t, int64(1), params[0].PayerID)
				assert.Equal(t, int64(2), params[0].RecipientID)
				assert.Equal(t, "20", params[0].Amount.String())
				assert.Equal(t, "Dinner", params[0].Description)
				assert.Equal(t, "1234.5", params[1].Amount.String())
			},
		},
		{
			name: "PortugueseHeaderWithPreamble",
			args: args{csvContent: "Exportado em;19-10-2026\n" +
				"\n" +
				"Pagador;Destinatário;Montante;Descrição\n" +
				"4;5;1.234,56 €;Renda\n"},
			wantLen: 1,
			verify: func(t *testing.T, params []ledger.TransactionParams) {
				assert.Equal(t, int64(4), params[0].PayerID)
				assert.Equal(t, "1234.56", params[0].Amount.String())
				assert.Equal(t, "Renda", params[0].Description)
			},
		},
		{
			name: "NoPayerColumn",
			args: args{csvContent: "Recipient;Amount;Description\n" +
				"3;10,50;Coffee\n" +
				";;\n" +
				"2;7;Taxi\n"},
			wantLen: 2,
			verify: func(t *testing.T, params []ledger.TransactionParams) {
				assert.Zero(t, params[0].PayerID)
				assert.Equal(t, "10.5", params[0].Amount.String())
				assert.Equal(t, int64(2), params[1].RecipientID)
			},
		},
		{
			name:    "MissingHeader",
			args:    args{csvContent: "1;2;20.00;Dinner\n"},
			wantErr: ledgercsv.ErrNoHeader,
		},
		{
			name: "TooPrecise",
			args: args{csvContent: "payer;recipient;amount;description\n" +
				"1;2;20.00;ok\n" +
				"1;2;10.999;bad\n"},
			wantErr: money.ErrTooPrecise,
		},
		{
			name: "NegativeAmount",
			args: args{csvContent: "payer;recipient;amount;description\n" +
				"1;2;-5,00;refund\n"},
			wantErr: money.ErrNotPositive,
		},
		{
			name: "BadRecipient",
			args: args{csvContent: "payer;recipient;amount;description\n" +
				"1;bob;5;x\n"},
			wantErr: ledger.ErrUnknownUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := ledgercsv.NewParser().Parse(strings.NewReader(tt.args.csvContent))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				var ve *ledger.ValidationError
				assert.ErrorAs(t, err, &ve)

				return
			}

			require.NoError(t, err)
			require.Len(t, params, tt.wantLen)

			if tt.verify != nil {
				tt.verify(t, params)
			}
		})
	}
}

func TestParser_RowNumber(t *testing.T) {
	_, err := ledgercsv.NewParser().Parse(strings.NewReader("payer;recipient;amount;description\n" +
		"1;2;1;a\n" +
		"1;2;x;b\n"))

	var rowErr *ledgercsv.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 3, rowErr.Row)
	assert.ErrorIs(t, err, money.ErrNotNumeric)
	assert.Contains(t, err.Error(), "row 3: amount")
}
