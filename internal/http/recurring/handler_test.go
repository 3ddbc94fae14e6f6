package recurring_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/http/auth"
	recurringHandler "github.com/MrJamesThe3rd/tally/internal/http/recurring"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
	"github.com/MrJamesThe3rd/tally/internal/recurring"
)

func newServer(t *testing.T, setupMock func(m *recurring.MockRepository)) http.Handler {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := recurring.NewMockRepository(ctrl)

	if setupMock != nil {
		setupMock(repo)
	}

	h := recurringHandler.NewHandler(recurring.NewService(repo), recurring.NewScheduler(repo, nil), time.UTC)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), ledger.Identity{UserID: 1})))
		})
	})
	r.Route("/groups/{groupID}", h.GroupRoutes)
	r.Route("/recurring", h.Routes)
	r.Route("/scheduler", h.SchedulerRoutes)

	return r
}

func template() *recurring.Template {
	return &recurring.Template{
		ID:           4,
		GroupID:      10,
		CreatedBy:    1,
		Amount:       decimal.RequireFromString("30"),
		Description:  "Gym",
		Frequency:    recurring.Monthly,
		Participants: []ledger.User{{ID: 2}},
		Active:       true,
		StartDate:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestHandler_Create(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		setupMock  func(m *recurring.MockRepository)
		wantStatus int
		wantBody   string
	}

	tests := []testCase{
		{
			name: "Created",
			body: `{"amount":"30.00","description":"Gym","frequency":"monthly","participant_ids":[2],"start_date":"2024-01-31"}`,
			setupMock: func(m *recurring.MockRepository) {
				m.EXPECT().CreateTemplate(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, tmpl *recurring.Template) error {
					tmpl.ID = 4
					return nil
				})
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"next_due":"2024-01-31"`,
		},
		{
			name:       "BadFrequency",
			body:       `{"amount":"30.00","frequency":"hourly","participant_ids":[2]}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "frequency",
		},
		{
			name:       "BadStartDate",
			body:       `{"amount":"30.00","frequency":"daily","participant_ids":[2],"start_date":"31/01/2024"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "start_date",
		},
		{
			name:       "BadAmount",
			body:       `{"amount":"abc","frequency":"daily","participant_ids":[2]}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "amount must be a number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.setupMock)

			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/groups/10/recurring", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestHandler_SetActive(t *testing.T) {
	srv := newServer(t, func(m *recurring.MockRepository) {
		m.EXPECT().GetTemplate(gomock.Any(), int64(4)).Return(template(), nil)
		m.EXPECT().SetActive(gomock.Any(), int64(4), false).Return(nil)
	})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/recurring/4/active", strings.NewReader(`{"active":false}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_active":false`)
}

func TestHandler_SetActive_MissingField(t *testing.T) {
	srv := newServer(t, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/recurring/4/active", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Delete_Forbidden(t *testing.T) {
	srv := newServer(t, func(m *recurring.MockRepository) {
		tmpl := template()
		tmpl.CreatedBy = 2
		m.EXPECT().GetTemplate(gomock.Any(), int64(4)).Return(tmpl, nil)
	})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/recurring/4", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandler_Tick(t *testing.T) {
	asOf := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	srv := newServer(t, func(m *recurring.MockRepository) {
		m.EXPECT().ActiveTemplates(gomock.Any(), asOf).Return(nil, nil)
	})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/scheduler/tick", strings.NewReader(`{"as_of":"2024-03-31"}`)))

	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		AsOf      string `json:"as_of"`
		Generated []any  `json:"generated"`
		Skipped   int    `json:"skipped"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "2024-03-31", got.AsOf)
	assert.Empty(t, got.Generated)
}

func TestHandler_Tick_EmptyBody(t *testing.T) {
	srv := newServer(t, func(m *recurring.MockRepository) {
		m.EXPECT().ActiveTemplates(gomock.Any(), gomock.Any()).Return(nil, nil)
	})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/scheduler/tick", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
