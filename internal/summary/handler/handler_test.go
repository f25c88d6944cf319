package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"awardsreport/internal/summary/models"
	dErrors "awardsreport/pkg/domain-errors"
)

type stubService struct {
	table *models.Table
	err   error

	gotGB    models.GroupKey
	gotLimit int
}

func (s *stubService) SummaryTable(_ context.Context, gb models.GroupKey, _ models.FilterSet, limit int) (*models.Table, error) {
	s.gotGB = gb
	s.gotLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.table, nil
}

func newTestRouter(svc Service) chi.Router {
	h := New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func TestHandleSummaryTableOK(t *testing.T) {
	svc := &stubService{table: &models.Table{
		Schema: models.SchemaFields{Fields: []models.SchemaField{
			{Name: "cfda", Title: "CFDA Number", Type: "string"},
			{Name: "obligations", Title: "Total Spending", Type: "number"},
		}},
		Data: []models.Row{{"cfda": "10.001", "obligations": 3.0}},
	}}
	r := newTestRouter(svc)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/summary_tables/?gb=cfda&limit=5", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, models.GroupKey{"cfda"}, svc.gotGB)
	assert.Equal(t, 5, svc.gotLimit)

	var got models.Table
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Data, 1)
	assert.Equal(t, "10.001", got.Data[0]["cfda"])
	assert.Equal(t, float64(3), got.Data[0]["obligations"])
	require.Len(t, got.Schema.Fields, 2)
	assert.Equal(t, "Total Spending", got.Schema.Fields[1].Title)
}

func TestHandleSummaryTableRejectsBadRequest(t *testing.T) {
	svc := &stubService{}
	r := newTestRouter(svc)

	for name, target := range map[string]string{
		"no gb":       "/summary_tables/",
		"unknown gb":  "/summary_tables/?gb=fake",
		"bad year":    "/summary_tables/?gb=y&y=2000",
		"bad limit":   "/summary_tables/?gb=y&limit=0",
		"bad ym":      "/summary_tables/?gb=ym&ym=2023-13",
		"bad atc":     "/summary_tables/?gb=atc&atc=99",
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, string(dErrors.CodeValidation), body["error"])
			assert.NotEmpty(t, body["error_description"])
		})
	}

	// the service must never see a rejected request
	assert.Nil(t, svc.gotGB)
}

func TestHandleSummaryTableInternalErrorIsOpaque(t *testing.T) {
	svc := &stubService{err: errors.New("pq: relation does not exist")}
	r := newTestRouter(svc)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/summary_tables/?gb=cfda", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(dErrors.CodeInternal), body["error"])
	assert.NotContains(t, rec.Body.String(), "pq:")
}

func TestHandleSummaryTableDefaultLimit(t *testing.T) {
	svc := &stubService{table: &models.Table{}}
	r := newTestRouter(svc)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/summary_tables/?gb=awag", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.DefaultLimit, svc.gotLimit)
}
