package topline

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

	dErrors "awardsreport/pkg/domain-errors"
)

type stubAggregator struct {
	result []AgencyObligation
	err    error

	gotLimit int
}

func (s *stubAggregator) TopAgencyObligations(_ context.Context, limit int) ([]AgencyObligation, error) {
	s.gotLimit = limit
	return s.result, s.err
}

func newTestRouter(svc Aggregator) chi.Router {
	h := NewHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func TestHandleTopAgencyObligationsOK(t *testing.T) {
	svc := &stubAggregator{result: []AgencyObligation{
		{AwardingAgencyName: "Department of Defense", Obligations: 100.5},
		{AwardingAgencyName: "Department of Energy", Obligations: 50.25},
	}}
	r := newTestRouter(svc)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/topline/top_agency_obligations", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, DefaultLimit, svc.gotLimit)

	var got []AgencyObligation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Department of Defense", got[0].AwardingAgencyName)
	assert.Equal(t, 100.5, got[0].Obligations)
}

func TestHandleTopAgencyObligationsLimit(t *testing.T) {
	svc := &stubAggregator{}
	r := newTestRouter(svc)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/topline/top_agency_obligations?limit=7", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, svc.gotLimit)
}

func TestHandleTopAgencyObligationsBadLimit(t *testing.T) {
	svc := &stubAggregator{}
	r := newTestRouter(svc)

	for _, raw := range []string{"0", "-1", "three"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/topline/top_agency_obligations?limit="+raw, nil))

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, raw)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, string(dErrors.CodeValidation), body["error"])
	}
	assert.Zero(t, svc.gotLimit)
}

func TestHandleTopAgencyObligationsServiceError(t *testing.T) {
	svc := &stubAggregator{err: errors.New("pq: connection refused")}
	r := newTestRouter(svc)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/topline/top_agency_obligations", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pq:")
}
