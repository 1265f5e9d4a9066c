package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/itax/internal/cache"
	"github.com/rgehrsitz/itax/internal/calculation"
	"github.com/rgehrsitz/itax/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const computeBody = `{
  "fiscal_year": "2025-26",
  "age_band": "below60",
  "residency": {"status": "ROR"},
  "income": {"gross_salary": "15,00,000"}
}`

type TestLogger struct {
	warnings []string
}

func (l *TestLogger) Debugf(format string, args ...any) {}
func (l *TestLogger) Infof(format string, args ...any)  {}
func (l *TestLogger) Warnf(format string, args ...any)  { l.warnings = append(l.warnings, format) }
func (l *TestLogger) Errorf(format string, args ...any) {}

func newTestServer() *Server {
	return New(calculation.NewEngine(nil))
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer().Handler(), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err, "Should assign a request id")
}

func TestRequestID_Propagated(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()

	newTestServer().Handler().ServeHTTP(rec, req)

	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))
}

func TestCompute(t *testing.T) {
	rec := do(t, newTestServer().Handler(), http.MethodPost, "/v1/compute", computeBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ComputeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Cached)
	assert.Equal(t, rec.Header().Get(RequestIDHeader), resp.RequestID)
	require.NotNil(t, resp.Result)
	assert.True(t, resp.Result.New.TotalTax.Equal(decimal.NewFromInt(97500)))
	assert.True(t, resp.Result.Old.TotalTax.Equal(decimal.NewFromInt(257400)))
	assert.Equal(t, domain.RegimeNew, resp.Result.Cheaper)
	assert.NotEmpty(t, resp.Recommendations)
}

func TestCompute_BadRequests(t *testing.T) {
	tests := []struct {
		name        string
		description string
		body        string
	}{
		{"malformed", "Body is not a document", `{"fiscal_year": `},
		{"unknown fiscal year", "Fiscal year missing from the rules", `{"fiscal_year": "1999-00"}`},
		{"unknown age band", "Age band is not one of the three bands", `{"age_band": "teen"}`},
		{"unknown term", "Capital gain term is invalid", `{"capital_gains": [{"term": "medium", "amount": 1000}]}`},
	}

	h := newTestServer().Handler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/compute", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, tt.description)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestCompute_WhatIf(t *testing.T) {
	h := newTestServer().Handler()

	rec := do(t, h, http.MethodPost, "/v1/compute?what_if=set_fiscal_year:fy%3D2024-25", computeBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ComputeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.FiscalYear("2024-25"), resp.Result.FiscalYear)
	assert.True(t, resp.Result.New.TotalTax.Equal(decimal.NewFromInt(130000)))

	rec = do(t, h, http.MethodPost, "/v1/compute?what_if=nonsense", computeBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompute_MethodNotAllowed(t *testing.T) {
	rec := do(t, newTestServer().Handler(), http.MethodGet, "/v1/compute", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCompute_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCache := cache.NewMockStore(ctrl)

	engine := calculation.NewEngine(nil)
	cached, err := engine.Compute(domain.TaxRequest{
		FiscalYear: "2025-26",
		AgeBand:    domain.AgeBelow60,
		Residency:  domain.ResidentOrdinary,
		Income:     domain.IncomeInputs{GrossSalary: decimal.NewFromInt(1500000)},
	})
	require.NoError(t, err)
	data, err := json.Marshal(cached)
	require.NoError(t, err)

	mockCache.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(string(data), true, nil)

	s := New(engine)
	s.Cache = mockCache

	rec := do(t, s.Handler(), http.MethodPost, "/v1/compute", computeBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ComputeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Cached)
	assert.True(t, resp.Result.New.TotalTax.Equal(decimal.NewFromInt(97500)))
}

func TestCompute_CacheMissStores(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCache := cache.NewMockStore(ctrl)

	var storedKey string
	mockCache.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string) (string, bool, error) {
			storedKey = key
			return "", false, nil
		})
	mockCache.EXPECT().
		Set(gomock.Any(), gomock.Any(), gomock.Any(), 10*time.Minute).
		DoAndReturn(func(_ context.Context, key, value string, _ time.Duration) error {
			assert.Equal(t, storedKey, key)
			assert.Contains(t, value, `"fiscal_year":"2025-26"`)
			return nil
		})

	s := newTestServer()
	s.Cache = mockCache
	s.CacheTTL = 10 * time.Minute

	rec := do(t, s.Handler(), http.MethodPost, "/v1/compute", computeBody)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCompute_CacheFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCache := cache.NewMockStore(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return("", false, errors.New("connection refused"))
	mockCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

	logger := &TestLogger{}
	s := newTestServer()
	s.Cache = mockCache
	s.SetLogger(logger)

	rec := do(t, s.Handler(), http.MethodPost, "/v1/compute", computeBody)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, logger.warnings, 2, "Should log both cache failures")
}

func TestCompute_MemoryCacheRoundTrip(t *testing.T) {
	s := newTestServer()
	s.Cache = cache.NewMemoryStore()
	h := s.Handler()

	first := do(t, h, http.MethodPost, "/v1/compute", computeBody)
	second := do(t, h, http.MethodPost, "/v1/compute", computeBody)

	var r1, r2 ComputeResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &r1))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &r2))
	assert.False(t, r1.Cached)
	assert.True(t, r2.Cached)
	assert.True(t, r1.Result.Old.TotalTax.Equal(r2.Result.Old.TotalTax))
}

func TestResidency(t *testing.T) {
	tests := []struct {
		body     string
		expected domain.ResidencyStatus
	}{
		{`{"days_current_fy": 200, "resident_2_of_10": true, "days_prev_7_fy": 800}`, domain.ResidentOrdinary},
		{`{"days_current_fy": 200, "resident_2_of_10": true, "days_prev_7_fy": 100}`, domain.ResidentNotOrdinary},
		{`{"days_current_fy": 30}`, domain.NonResident},
	}

	h := newTestServer().Handler()
	for _, tt := range tests {
		rec := do(t, h, http.MethodPost, "/v1/residency", tt.body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp ResidencyResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, tt.expected, resp.Status, tt.body)
		assert.Equal(t, tt.expected.Description(), resp.Description)
	}

	rec := do(t, h, http.MethodPost, "/v1/residency", `{"days": 1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "Unknown fields should be rejected")

}

func TestResidency_OutOfRangeDays(t *testing.T) {
	tests := []struct {
		body     string
		expected domain.ResidencyStatus
	}{
		{`{"days_current_fy": 200, "days_prev_4_fy": -1, "days_prev_7_fy": -1, "resident_2_of_10": true}`, domain.ResidentNotOrdinary},
		{`{"days_current_fy": 400}`, domain.ResidentNotOrdinary},
		{`{"days_current_fy": -1}`, domain.NonResident},
	}

	h := newTestServer().Handler()
	for _, tt := range tests {
		rec := do(t, h, http.MethodPost, "/v1/residency", tt.body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp ResidencyResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, tt.expected, resp.Status, tt.body)
	}
}

func TestRules(t *testing.T) {
	s := newTestServer()
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/v1/rules", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RulesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, s.Engine.Rules.Fingerprint(), resp.Fingerprint)
	require.Len(t, resp.FiscalYears, 2)
	assert.Equal(t, domain.FiscalYear("2024-25"), resp.FiscalYears[0].FiscalYear)
	assert.Equal(t, "FY 2024-25 (AY 2025-26)", resp.FiscalYears[0].Description)

	rec = do(t, h, http.MethodGet, "/v1/rules/2025-26", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"CessRate":"0.04"`)

	rec = do(t, h, http.MethodGet, "/v1/rules/1999-00", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORS(t *testing.T) {
	s := newTestServer()
	s.AllowedOrigins = []string{"http://localhost:5173"}

	req := httptest.NewRequest(http.MethodOptions, "/v1/compute", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
