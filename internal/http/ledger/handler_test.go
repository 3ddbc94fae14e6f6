package ledger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/http/auth"
	ledgerHandler "github.com/MrJamesThe3rd/tally/internal/http/ledger"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
)

func newServer(t *testing.T, setupMock func(m *ledger.MockRepository)) http.Handler {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := ledger.NewMockRepository(ctrl)

	if setupMock != nil {
		setupMock(repo)
	}

	h := ledgerHandler.NewHandler(ledger.NewService(repo), importer.NewService())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), ledger.Identity{UserID: 1})))
		})
	})
	r.Route("/groups/{groupID}", h.Routes)

	return r
}

func TestHandler_CreateSharedDebt(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		setupMock  func(m *ledger.MockRepository)
		wantStatus int
		wantBody   string
	}

	tests := []testCase{
		{
			name: "Created",
			body: `{"amount":"100.00","description":"Dinner","participant_ids":[2,3]}`,
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().CreateSharedDebt(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, d *ledger.SharedDebt) error {
					d.ID = 5
					return nil
				})
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"amount":"100.00"`,
		},
		{
			name:       "TooPrecise",
			body:       `{"amount":"10.999","participant_ids":[2]}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "amount: amount must have at most 2 decimal places",
		},
		{
			name:       "Empty",
			body:       `{"amount":"","participant_ids":[2]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "NoParticipants",
			body:       `{"amount":"5"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "participant_ids",
		},
		{
			name:       "BadJSON",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.setupMock)

			req := httptest.NewRequest(http.MethodPost, "/groups/10/shared-debts", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestHandler_CreateTransaction(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		setupMock  func(m *ledger.MockRepository)
		wantStatus int
		wantBody   string
	}

	tests := []testCase{
		{
			name: "CallerOwes",
			body: `{"recipient_id":2,"amount":"20.00","description":"Tickets"}`,
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, tx *ledger.Transaction) error {
					tx.ID = 4
					return nil
				})
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"payer_id":1`,
		},
		{
			name:       "OtherMemberOwesCaller",
			body:       `{"payer_id":3,"recipient_id":1,"amount":"500.00","description":"Made up"}`,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "SameParty",
			body:       `{"recipient_id":1,"amount":"5","description":"Self"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.setupMock)

			req := httptest.NewRequest(http.MethodPost, "/groups/10/transactions", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestHandler_DeleteTransaction(t *testing.T) {
	type testCase struct {
		name       string
		path       string
		setupMock  func(m *ledger.MockRepository)
		wantStatus int
	}

	tests := []testCase{
		{
			name: "Deleted",
			path: "/groups/10/transactions/3",
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().GetTransaction(gomock.Any(), int64(3)).Return(&ledger.Transaction{ID: 3, GroupID: 10, PayerID: 1, RecipientID: 2}, nil)
				m.EXPECT().DeleteTransaction(gomock.Any(), int64(3)).Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name: "NotPayer",
			path: "/groups/10/transactions/3",
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().GetTransaction(gomock.Any(), int64(3)).Return(&ledger.Transaction{ID: 3, GroupID: 10, PayerID: 2, RecipientID: 1}, nil)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name: "Missing",
			path: "/groups/10/transactions/3",
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().GetTransaction(gomock.Any(), int64(3)).Return(nil, ledger.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "BadID",
			path:       "/groups/10/transactions/abc",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.setupMock)

			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_ImportTransactions(t *testing.T) {
	srv := newServer(t, func(m *ledger.MockRepository) {
		m.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(2)).DoAndReturn(func(_ context.Context, txs []*ledger.Transaction) error {
			for i, tx := range txs {
				tx.ID = int64(i + 1)
			}

			return nil
		})
	})

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "ledger.csv")
	require.NoError(t, err)

	_, err = fw.Write([]byte("recipient;amount;description\n2;12,50;Lunch\n3;7;Taxi\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/groups/10/transactions/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Imported     int `json:"imported"`
		Transactions []struct {
			PayerID int64  `json:"payer_id"`
			Amount  string `json:"amount"`
		} `json:"transactions"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.Equal(t, 2, resp.Imported)
	assert.Equal(t, int64(1), resp.Transactions[0].PayerID)
	assert.Equal(t, "12.50", resp.Transactions[0].Amount)
}
