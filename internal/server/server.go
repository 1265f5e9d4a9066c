// Package server exposes the regime comparator over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/itax/internal/cache"
	"github.com/rgehrsitz/itax/internal/calculation"
	"github.com/rgehrsitz/itax/internal/compare"
	"github.com/rgehrsitz/itax/internal/config"
	"github.com/rgehrsitz/itax/internal/domain"
	"github.com/rgehrsitz/itax/internal/transform"
	"github.com/rs/cors"
)

// RequestIDHeader carries the per-request id in both directions.
const RequestIDHeader = "X-Request-ID"

const maxBodyBytes = 1 << 20

type ctxKey struct{}

// RequestID returns the id assigned by the request id middleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Server handles the HTTP API.
type Server struct {
	Engine *calculation.Engine
	Parser *config.InputParser
	// Cache is optional. Cache failures are logged and never fail a request.
	Cache          cache.Store
	CacheTTL       time.Duration
	AllowedOrigins []string
	Logger         calculation.Logger
}

// New creates a server backed by engine with no cache.
func New(engine *calculation.Engine) *Server {
	return &Server{
		Engine:   engine,
		Parser:   config.NewInputParserWithRules(engine.Rules),
		CacheTTL: time.Hour,
		Logger:   calculation.NopLogger{},
	}
}

// SetLogger sets the logger; nil restores the no-op logger.
func (s *Server) SetLogger(l calculation.Logger) {
	if l == nil {
		s.Logger = calculation.NopLogger{}
		return
	}
	s.Logger = l
}

// Handler returns the routed handler wrapped in request id and CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/compute", s.handleCompute)
	mux.HandleFunc("POST /v1/residency", s.handleResidency)
	mux.HandleFunc("GET /v1/rules", s.handleRulesList)
	mux.HandleFunc("GET /v1/rules/{fy}", s.handleRulesShow)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	origins := s.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			RequestIDHeader,
		},
		ExposedHeaders: []string{
			RequestIDHeader,
		},
	})

	return s.withRequestID(c.Handler(mux))
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
		s.Logger.Debugf("%s %s %s (%s)", id, r.Method, r.URL.Path, time.Since(start))
	})
}

// ComputeResponse is the body returned by POST /v1/compute.
type ComputeResponse struct {
	RequestID       string                   `json:"request_id"`
	Cached          bool                     `json:"cached"`
	Result          *domain.ComparisonResult `json:"result"`
	Recommendations []string                 `json:"recommendations"`
}

// ResidencyResponse is the body returned by POST /v1/residency.
type ResidencyResponse struct {
	Status      domain.ResidencyStatus `json:"status"`
	Description string                 `json:"description"`
}

// RulesSummary lists one available fiscal year.
type RulesSummary struct {
	FiscalYear  domain.FiscalYear `json:"fiscal_year"`
	Description string            `json:"description"`
}

// RulesResponse is the body returned by GET /v1/rules.
type RulesResponse struct {
	Fingerprint string         `json:"fingerprint"`
	FiscalYears []RulesSummary `json:"fiscal_years"`
}

type errorResponse struct {
	RequestID string `json:"request_id"`
	Error     string `json:"error"`
}

func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("failed to read body: %w", err))
		return
	}
	profile, err := s.Parser.Parse(body)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	req, err := profile.ToRequest()
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if specs := r.URL.Query()["what_if"]; len(specs) > 0 {
		transforms, err := transform.NewTransformRegistry().ParseTransformSpecs(specs)
		if err == nil {
			req, err = transform.ApplyTransforms(req, transforms)
		}
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, err)
			return
		}
	}

	result, cached := s.lookup(r.Context(), req)
	if result == nil {
		result, err = s.Engine.Compute(req)
		if err != nil {
			status := http.StatusInternalServerError
			if domain.IsConfigError(err) {
				status = http.StatusBadRequest
			}
			s.writeError(w, r, status, err)
			return
		}
		s.store(r.Context(), req, result)
	}

	s.writeJSON(w, http.StatusOK, ComputeResponse{
		RequestID:       RequestID(r.Context()),
		Cached:          cached,
		Result:          result,
		Recommendations: compare.RegimeRecommendations(result),
	})
}

func (s *Server) lookup(ctx context.Context, req domain.TaxRequest) (*domain.ComparisonResult, bool) {
	if s.Cache == nil {
		return nil, false
	}
	key, err := cache.Key(s.Engine.Rules.Fingerprint(), req)
	if err != nil {
		s.Logger.Warnf("%s cache key: %v", RequestID(ctx), err)
		return nil, false
	}
	val, ok, err := s.Cache.Get(ctx, key)
	if err != nil {
		s.Logger.Warnf("%s cache get: %v", RequestID(ctx), err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var result domain.ComparisonResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		s.Logger.Warnf("%s cache decode: %v", RequestID(ctx), err)
		return nil, false
	}
	return &result, true
}

func (s *Server) store(ctx context.Context, req domain.TaxRequest, result *domain.ComparisonResult) {
	if s.Cache == nil {
		return
	}
	key, err := cache.Key(s.Engine.Rules.Fingerprint(), req)
	if err != nil {
		s.Logger.Warnf("%s cache key: %v", RequestID(ctx), err)
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		s.Logger.Warnf("%s cache encode: %v", RequestID(ctx), err)
		return
	}
	if err := s.Cache.Set(ctx, key, string(data), s.CacheTTL); err != nil {
		s.Logger.Warnf("%s cache set: %v", RequestID(ctx), err)
	}
}

func (s *Server) handleResidency(w http.ResponseWriter, r *http.Request) {
	var in domain.ResidencyInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("failed to parse JSON: %w", err))
		return
	}
	status := calculation.ClassifyResidency(in)
	s.writeJSON(w, http.StatusOK, ResidencyResponse{Status: status, Description: status.Description()})
}

func (s *Server) handleRulesList(w http.ResponseWriter, r *http.Request) {
	resp := RulesResponse{Fingerprint: s.Engine.Rules.Fingerprint()}
	for _, fy := range s.Engine.Rules.FiscalYears() {
		rt, err := s.Engine.Rules.Lookup(fy)
		if err != nil {
			s.writeError(w, r, http.StatusInternalServerError, err)
			return
		}
		resp.FiscalYears = append(resp.FiscalYears, RulesSummary{FiscalYear: fy, Description: rt.Description})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRulesShow(w http.ResponseWriter, r *http.Request) {
	rt, err := s.Engine.Rules.Lookup(domain.FiscalYear(r.PathValue("fy")))
	if err != nil {
		s.writeError(w, r, http.StatusNotFound, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rt)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Errorf("failed to write response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	id := RequestID(r.Context())
	if status >= http.StatusInternalServerError {
		s.Logger.Errorf("%s %s %s: %v", id, r.Method, r.URL.Path, err)
	} else {
		s.Logger.Infof("%s %s %s: %v", id, r.Method, r.URL.Path, err)
	}
	s.writeJSON(w, status, errorResponse{RequestID: id, Error: err.Error()})
}
