package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rmax-ai/skillgraph/pkg/graph"
	"github.com/rmax-ai/skillgraph/pkg/graph/graphtest"
	"github.com/rmax-ai/skillgraph/pkg/metrics"
	"github.com/rmax-ai/skillgraph/pkg/store"
)

// MockStore satisfies DatasetStore
type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListDatasets(ctx context.Context) ([]store.DatasetInfo, error) {
	args := m.Called(ctx)
	infos, _ := args.Get(0).([]store.DatasetInfo)
	return infos, args.Error(1)
}

func (m *MockStore) LoadDataset(ctx context.Context, name string, opts ...graph.Option) (*graph.Dataset, error) {
	args := m.Called(ctx, name)
	ds, _ := args.Get(0).(*graph.Dataset)
	return ds, args.Error(1)
}

func newTestServer(t *testing.T, st DatasetStore) *Server {
	t.Helper()
	s := NewServer(graphtest.Fixture(t), st, "")
	s.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return s
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func TestSecureHeaders(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	withSecureHeaders(handler).ServeHTTP(w, req)

	expectedHeaders := map[string]string{
		"Content-Security-Policy":   "default-src 'self'",
		"Strict-Transport-Security": "max-age=63072000; includeSubDomains",
		"X-Content-Type-Options":    "nosniff",
		"X-Frame-Options":           "DENY",
		"Referrer-Policy":           "no-referrer",
	}
	for key, expected := range expectedHeaders {
		assert.Equal(t, expected, w.Header().Get(key), "header %s", key)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	before := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("/v1/health", "200"))

	w := get(t, s, "/v1/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("/v1/health", "200")))
}

func TestTraceIDPropagates(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	req.Header.Set("X-Trace-ID", "abc123")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, "abc123", w.Header().Get("X-Trace-ID"))
}

func TestGraph_Base(t *testing.T) {
	s := newTestServer(t, nil)

	w := get(t, s, "/v1/graph")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[GraphResponse](t, w)
	assert.Len(t, resp.Nodes, 5)
	assert.Len(t, resp.Links, 4)
	assert.Empty(t, resp.Disclosed)
}

func TestGraph_Expand(t *testing.T) {
	s := newTestServer(t, nil)

	w := get(t, s, "/v1/graph?expand=branchA,+domainB")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[GraphResponse](t, w)
	assert.Equal(t, []string{"toolA1", "toolA2", "toolB1"}, resp.Disclosed)
	assert.Len(t, resp.Nodes, 8)
	assert.Contains(t, resp.Links, graph.Edge{Source: "toolA1", Target: "toolB1", Category: graph.EdgeCross, Weight: 3})
}

func TestGraph_All(t *testing.T) {
	s := newTestServer(t, nil)

	resp := decode[GraphResponse](t, get(t, s, "/v1/graph?all=1"))
	assert.Len(t, resp.Nodes, len(graphtest.FixtureNodes))
	assert.Len(t, resp.Links, len(graphtest.FixtureEdges))
}

func TestGraph_Errors(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name   string
		target string
		method string
		code   int
	}{
		{"unknown node", "/v1/graph?expand=ghost", http.MethodGet, http.StatusNotFound},
		{"tool not expandable", "/v1/graph?expand=toolA1", http.MethodGet, http.StatusBadRequest},
		{"method", "/v1/graph", http.MethodPost, http.StatusMethodNotAllowed},
		{"dataset without store", "/v1/graph?dataset=x", http.MethodGet, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, req)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestNode(t *testing.T) {
	s := newTestServer(t, nil)

	w := get(t, s, "/v1/nodes/domainA")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[NodeResponse](t, w)
	assert.Equal(t, "Domain A", resp.Node.Name)
	assert.Equal(t, "branchA", resp.Parent)
	assert.Equal(t, []string{"toolA1", "toolA2"}, resp.Children)
	assert.Equal(t, []string{"toolA1", "toolA2"}, resp.Tools)
	assert.ElementsMatch(t, []string{"branchA", "toolA1", "toolA2"}, resp.Neighbors)
	assert.Nil(t, resp.Node.Details)

	w = get(t, s, "/v1/nodes/toolA1")
	assert.Contains(t, w.Body.String(), `"details":{"description":"First tool under domain A.","proficiency":80,"years":4}`)
	tool := decode[NodeResponse](t, w)
	assert.Empty(t, tool.Tools)
	assert.ElementsMatch(t, []string{"domainA", "toolB1"}, tool.Neighbors)

	assert.Equal(t, http.StatusNotFound, get(t, s, "/v1/nodes/ghost").Code)
}

func TestDatasets(t *testing.T) {
	st := &MockStore{}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	st.On("ListDatasets", mock.Anything).Return([]store.DatasetInfo{
		{Name: "default", ImportedAt: now, Nodes: 8, Edges: 8},
	}, nil).Once()
	s := newTestServer(t, st)

	w := get(t, s, "/v1/datasets")
	require.Equal(t, http.StatusOK, w.Code)
	infos := decode[[]store.DatasetInfo](t, w)
	require.Len(t, infos, 1)
	assert.Equal(t, "default", infos[0].Name)
	st.AssertExpectations(t)
}

func TestDatasets_NoStore(t *testing.T) {
	s := newTestServer(t, nil)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, s, "/v1/datasets").Code)
}

func TestGraph_NamedDataset(t *testing.T) {
	st := &MockStore{}
	st.On("LoadDataset", mock.Anything, "single").Return(graphtest.Single(t), nil)
	st.On("LoadDataset", mock.Anything, "missing").Return(nil, store.ErrNotFound)
	st.On("LoadDataset", mock.Anything, "broken").Return(nil, errors.New("disk on fire"))
	s := newTestServer(t, st)

	resp := decode[GraphResponse](t, get(t, s, "/v1/graph?dataset=single"))
	assert.Len(t, resp.Nodes, 1)
	assert.Empty(t, resp.Links)

	assert.Equal(t, http.StatusNotFound, get(t, s, "/v1/graph?dataset=missing").Code)
	assert.Equal(t, http.StatusInternalServerError, get(t, s, "/v1/nodes/central?dataset=broken").Code)
	st.AssertExpectations(t)
}

func TestRecovery(t *testing.T) {
	s := newTestServer(t, nil)
	h := s.withRecovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	w := get(t, s, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "skillgraph_")
}
