package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rmax-ai/skillgraph/pkg/graph"
	"github.com/rmax-ai/skillgraph/pkg/metrics"
	"github.com/rmax-ai/skillgraph/pkg/store"
	"github.com/rmax-ai/skillgraph/pkg/visibility"
)

// Context keys
type contextKey string

const traceIDKey contextKey = "trace_id"

// DatasetStore is the slice of the sqlite store the API reads from.
type DatasetStore interface {
	ListDatasets(ctx context.Context) ([]store.DatasetInfo, error)
	LoadDataset(ctx context.Context, name string, opts ...graph.Option) (*graph.Dataset, error)
}

// Server encapsulates the HTTP API server
type Server struct {
	ds      *graph.Dataset
	store   DatasetStore
	server  *http.Server
	handler http.Handler
	log     *slog.Logger

	// TLS Config
	tlsCertFile string
	tlsKeyFile  string
}

// NewServer creates a server over ds. st may be nil, in which case the
// named-dataset routes answer 503.
func NewServer(ds *graph.Dataset, st DatasetStore, addr string) *Server {
	s := &Server{
		ds:    ds,
		store: st,
		log:   slog.Default(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/health", handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/v1/graph", s.handleGraph)
	mux.HandleFunc("/v1/nodes/{id}", s.handleNode)
	mux.HandleFunc("/v1/datasets", s.handleDatasets)

	// Middleware: Logging, Panic Recovery, Security Headers
	s.handler = s.withLogging(s.withRecovery(withSecureHeaders(mux)))

	if addr == "" {
		addr = ":8090"
	}

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	return s
}

// SetLogger replaces the request logger.
func (s *Server) SetLogger(l *slog.Logger) {
	if l != nil {
		s.log = l
	}
}

// SetTLS configures the server to use TLS
func (s *Server) SetTLS(certFile, keyFile string) {
	s.tlsCertFile = certFile
	s.tlsKeyFile = keyFile
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start runs the HTTP server (blocking)
func (s *Server) Start() error {
	if s.tlsCertFile != "" && s.tlsKeyFile != "" {
		s.log.Info("Server starting", "addr", s.server.Addr, "tls", true)
		if err := s.server.ListenAndServeTLS(s.tlsCertFile, s.tlsKeyFile); err != http.ErrServerClosed {
			return err
		}
		return nil
	}
	s.log.Info("Server starting", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Server stopping")
	return s.server.Shutdown(ctx)
}

// dataset resolves the ?dataset= parameter, defaulting to the served one.
func (s *Server) dataset(r *http.Request) (*graph.Dataset, int, string) {
	name := r.URL.Query().Get("dataset")
	if name == "" {
		return s.ds, 0, ""
	}
	if s.store == nil {
		return nil, http.StatusServiceUnavailable, `{"error":"store_not_available"}`
	}
	ds, err := s.store.LoadDataset(r.Context(), name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, http.StatusNotFound, `{"error":"dataset_not_found"}`
	case err != nil:
		s.log.Error("Failed to load dataset", "traceID", getTraceID(r.Context()), "dataset", name, "error", err)
		return nil, http.StatusInternalServerError, `{"error":"internal_server_error"}`
	}
	return ds, 0, ""
}

// handleGraph returns the filtered graph for ?expand=id,id or ?all=1.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	ds, status, body := s.dataset(r)
	if ds == nil {
		http.Error(w, body, status)
		return
	}

	all, _ := strconv.ParseBool(r.URL.Query().Get("all"))
	var ids []string
	if raw := r.URL.Query().Get("expand"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}

	vis, err := visibility.Expand(ds, all, ids...)
	switch {
	case errors.Is(err, graph.ErrUnknownNode):
		http.Error(w, `{"error":"unknown_node"}`, http.StatusNotFound)
		return
	case errors.Is(err, visibility.ErrNotExpandable):
		http.Error(w, `{"error":"not_expandable"}`, http.StatusBadRequest)
		return
	case err != nil:
		http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, s.log, NewGraphResponse(vis))
}

// handleNode returns a node and its relations in the full dataset.
func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	ds, status, body := s.dataset(r)
	if ds == nil {
		http.Error(w, body, status)
		return
	}

	resp, ok := NewNodeResponse(ds, r.PathValue("id"))
	if !ok {
		http.Error(w, `{"error":"unknown_node"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, r, s.log, resp)
}

// handleDatasets lists the datasets in the store.
func (s *Server) handleDatasets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	if s.store == nil {
		http.Error(w, `{"error":"store_not_available"}`, http.StatusServiceUnavailable)
		return
	}

	infos, err := s.store.ListDatasets(r.Context())
	if err != nil {
		s.log.Error("Failed to list datasets", "traceID", getTraceID(r.Context()), "error", err)
		http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
		return
	}
	if infos == nil {
		infos = []store.DatasetInfo{}
	}
	writeJSON(w, r, s.log, infos)
}

// handleHealth returns simple status
func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func writeJSON(w http.ResponseWriter, r *http.Request, log *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "traceID", getTraceID(r.Context()), "path", r.URL.Path, "error", err)
	}
}

// Middleware: Panic Recovery
func (s *Server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.log.Error("Panic recovered", "error", fmt.Sprint(err), "path", r.URL.Path)
				http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Middleware: Request Logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = generateTraceID()
		}

		ctx := context.WithValue(r.Context(), traceIDKey, traceID)
		r = r.WithContext(ctx)

		// Wrap writer to capture status code
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		w.Header().Set("X-Trace-ID", traceID)

		next.ServeHTTP(ww, r)

		// The mux records the matched pattern on the request.
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.APIRequestsTotal.WithLabelValues(route, strconv.Itoa(ww.status)).Inc()

		s.log.Info("HTTP request",
			"traceID", traceID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"durationMs", time.Since(start).Milliseconds(),
		)
	})
}

func generateTraceID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// Fallback if random fails (unlikely)
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

func getTraceID(ctx context.Context) string {
	if v, ok := ctx.Value(traceIDKey).(string); ok {
		return v
	}
	return ""
}

// statusWriter captures HTTP status code
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Middleware: Secure Headers
func withSecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")

		next.ServeHTTP(w, r)
	})
}
