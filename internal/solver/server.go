package solver

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

const (
	msgInvalidInput = "Invalid input"
	msgNotIntegers  = "Dials must be a list of integers."
	msgTooMany      = "Too many dials."

	maxBodyBytes = 1 << 20
)

// Server answers POST /solve requests of the form {"dials":[...]} with
// {"result":[...]} or {"result":"No valid path found"}.
type Server struct {
	cache    Cache
	logger   *log.Logger
	maxDials int
	mux      *http.ServeMux
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithCache makes the server remember answers in c.
func WithCache(c Cache) ServerOption {
	return func(s *Server) { s.cache = c }
}

// WithServerLogger sets the logger receiving request logs.
func WithServerLogger(l *log.Logger) ServerOption {
	return func(s *Server) { s.logger = l }
}

// WithMaxDials rejects clocks with more than n dials. Zero means no limit.
func WithMaxDials(n int) ServerOption {
	return func(s *Server) { s.maxDials = n }
}

// NewServer returns a solver HTTP handler.
func NewServer(opts ...ServerOption) *Server {
	s := &Server{
		cache:  NopCache{},
		logger: log.New(io.Discard, "", 0),
		mux:    http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mux.HandleFunc("/solve", s.handleSolve)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set("X-Request-ID", id)
	w.Header().Set("Access-Control-Allow-Origin", "*")

	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	s.logger.Printf("%s %s %s -> %d (%s)", id, r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPost:
	default:
		w.Header().Set("Allow", "POST, OPTIONS")
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msgInvalidInput})
		return
	}
	dials, msg := parseDials(body)
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}
	if s.maxDials > 0 && len(dials) > s.maxDials {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msgTooMany})
		return
	}

	ctx := r.Context()
	answer, hit, err := s.cache.Get(ctx, dials)
	if err != nil {
		s.logger.Printf("cache lookup: %v", err)
	}
	if !hit {
		path, found := Solve(dials)
		answer = Answer{Path: path, Found: found}
		if err := s.cache.Put(ctx, dials, answer); err != nil {
			s.logger.Printf("cache store: %v", err)
		}
	}

	if !answer.Found {
		writeJSON(w, http.StatusOK, map[string]any{"result": NoPathMessage})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": answer.Path})
}

// parseDials extracts the dial values from a request body, or returns the
// error message to answer with.
func parseDials(body []byte) ([]int, string) {
	if !gjson.ValidBytes(body) {
		return nil, msgInvalidInput
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, msgInvalidInput
	}
	raw := root.Get("dials")
	if !raw.Exists() {
		return nil, msgInvalidInput
	}
	if !raw.IsArray() {
		return nil, msgNotIntegers
	}

	elems := raw.Array()
	dials := make([]int, 0, len(elems))
	for _, e := range elems {
		if e.Type != gjson.Number || strings.ContainsAny(e.Raw, ".eE") {
			return nil, msgNotIntegers
		}
		dials = append(dials, int(e.Int()))
	}
	return dials, ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
