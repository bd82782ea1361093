package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"eldtrip/backend/geo"
	"eldtrip/backend/model"
	"eldtrip/backend/planner"
)

type stubPlanner struct {
	plan *model.TripPlan
	err  error
	got  model.TripRequest
}

func (s *stubPlanner) PlanTrip(ctx context.Context, req model.TripRequest) (*model.TripPlan, error) {
	s.got = req
	return s.plan, s.err
}

type stubSuggester struct {
	out []geo.Suggestion
	err error
}

func (s stubSuggester) Suggest(ctx context.Context, query string) ([]geo.Suggestion, error) {
	return s.out, s.err
}

func testServer(p TripPlanner, sg Suggester) *Server {
	return New(p, sg, zap.NewNop().Sugar())
}

func validBody() string {
	return `{
		"current_location": "Chicago, IL",
		"pickup_location": "Indianapolis, IN",
		"dropoff_location": "Columbus, OH",
		"cycle_used_hours": 10
	}`
}

func TestHealth(t *testing.T) {
	srv := testServer(&stubPlanner{}, nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestPlanTripOK(t *testing.T) {
	p := &stubPlanner{plan: &model.TripPlan{
		Summary: model.TripSummary{TotalDays: 1, CycleHoursAtStart: 10},
	}}
	srv := testServer(p, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/plan-trip/", strings.NewReader(validBody()))
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "Chicago, IL", p.got.CurrentLocation)
	assert.Equal(t, 10.0, p.got.CycleUsedHours)

	var plan model.TripPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, 1, plan.Summary.TotalDays)
}

func TestPlanTripBadJSON(t *testing.T) {
	srv := testServer(&stubPlanner{}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/plan-trip/", strings.NewReader("{not json"))
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlanTripValidation(t *testing.T) {
	srv := testServer(&stubPlanner{}, nil)
	rec := httptest.NewRecorder()
	body := `{"current_location":"A","pickup_location":"B","dropoff_location":"C","cycle_used_hours":99}`
	req := httptest.NewRequest(http.MethodPost, "/api/plan-trip/", strings.NewReader(body))
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["error"])
}

func TestPlanTripPipelineFailure(t *testing.T) {
	perr := planner.Wrap(errors.New("geocode \"Nowhere\": not found"))
	srv := testServer(&stubPlanner{err: perr}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/plan-trip/", strings.NewReader(validBody()))
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "not found")
}

func TestPlanTripInternalError(t *testing.T) {
	srv := testServer(&stubPlanner{err: errors.New("boom")}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/plan-trip/", strings.NewReader(validBody()))
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "internal error", resp["error"], "internal details never leak")
}

func TestAutocomplete(t *testing.T) {
	sg := stubSuggester{out: []geo.Suggestion{{DisplayName: "Chicago, Cook County, Illinois"}}}
	srv := testServer(&stubPlanner{}, sg)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/autocomplete/?q=chic", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var out []geo.Suggestion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "Chicago, Cook County, Illinois", out[0].DisplayName)
}

func TestAutocompleteDisabled(t *testing.T) {
	srv := testServer(&stubPlanner{}, nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/autocomplete/?q=chic", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestAutocompleteDegradesOnError(t *testing.T) {
	srv := testServer(&stubPlanner{}, stubSuggester{err: errors.New("upstream down")})
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/autocomplete/?q=chic", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	srv := testServer(&stubPlanner{}, nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/plan-trip/", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDPropagated(t *testing.T) {
	srv := testServer(&stubPlanner{}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}
