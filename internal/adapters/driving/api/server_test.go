package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quickfind/internal/core/domain"
)

type mockLookup struct {
	state     domain.AggregateState
	lastQuery domain.SearchQuery
	lastLimit int
	calls     int
}

func (m *mockLookup) Lookup(_ context.Context, query domain.SearchQuery, limit int) domain.AggregateState {
	m.calls++
	m.lastQuery = query
	m.lastLimit = limit
	return m.state
}

type mockCatalog struct {
	items  map[string]domain.Item
	counts map[domain.Category]int
	err    error
}

func (m *mockCatalog) Get(_ context.Context, category domain.Category, id string) (*domain.Item, error) {
	if m.err != nil {
		return nil, m.err
	}
	item, ok := m.items[string(category)+"/"+id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &item, nil
}

func (m *mockCatalog) Count(_ context.Context, category domain.Category) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.counts[category], nil
}

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	s, err := NewServer(ports, nil)
	require.NoError(t, err)
	return s
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestNewServer_RequiresLookup(t *testing.T) {
	_, err := NewServer(&Ports{}, nil)
	assert.ErrorIs(t, err, ErrMissingLookup)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &Ports{Lookup: &mockLookup{}})
	rr := get(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestCategories(t *testing.T) {
	t.Run("labels in order", func(t *testing.T) {
		s := newTestServer(t, &Ports{Lookup: &mockLookup{}})
		rr := get(t, s, "/api/v1/categories")
		require.Equal(t, http.StatusOK, rr.Code)

		var out []CategoryResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
		require.Len(t, out, len(domain.Categories()))
		assert.Equal(t, "people", out[0].ID)
		assert.Equal(t, "Locations", out[4].Label)
		assert.Nil(t, out[0].Count)
	})

	t.Run("with counts", func(t *testing.T) {
		catalog := &mockCatalog{counts: map[domain.Category]int{domain.CategoryPeople: 7}}
		s := newTestServer(t, &Ports{Lookup: &mockLookup{}, Catalog: catalog})
		rr := get(t, s, "/api/v1/categories")
		require.Equal(t, http.StatusOK, rr.Code)

		var out []CategoryResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
		require.NotNil(t, out[0].Count)
		assert.Equal(t, 7, *out[0].Count)
	})

	t.Run("catalog failure", func(t *testing.T) {
		catalog := &mockCatalog{err: errors.New("disk")}
		s := newTestServer(t, &Ports{Lookup: &mockLookup{}, Catalog: catalog})
		rr := get(t, s, "/api/v1/categories")
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestSearch(t *testing.T) {
	state := domain.NewAggregateState(domain.Categories())
	people := state[domain.CategoryPeople]
	people.Complete("anna", []domain.Item{{ID: "p1", Title: "Anna"}}, 0, 1)
	state[domain.CategoryPeople] = people
	events := state[domain.CategoryEvents]
	events.Fail(&domain.FetchError{Category: domain.CategoryEvents, Err: errors.New("down")})
	state[domain.CategoryEvents] = events

	t.Run("all categories", func(t *testing.T) {
		lookup := &mockLookup{state: state}
		s := newTestServer(t, &Ports{Lookup: lookup})

		rr := get(t, s, "/api/v1/search?q=Anna")
		require.Equal(t, http.StatusOK, rr.Code)

		var resp SearchResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "anna", resp.Query)
		require.Len(t, resp.Categories, 5)
		assert.Equal(t, "people", resp.Categories[0].Category)
		assert.True(t, resp.Categories[0].HasMore)
		assert.Equal(t, "failed", resp.Categories[2].Status)
		assert.Contains(t, resp.Categories[2].Error, "down")
		assert.NotNil(t, resp.Categories[1].Items)
		assert.Equal(t, domain.CategoryAll, lookup.lastQuery.Category)
	})

	t.Run("single category with paging", func(t *testing.T) {
		lookup := &mockLookup{state: state}
		s := newTestServer(t, &Ports{Lookup: lookup})

		rr := get(t, s, "/api/v1/search?q=anna&category=people&limit=12&offset=6")
		require.Equal(t, http.StatusOK, rr.Code)

		var resp SearchResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.Len(t, resp.Categories, 1)
		assert.Equal(t, domain.CategoryPeople, lookup.lastQuery.Category)
		assert.Equal(t, 6, lookup.lastQuery.Offset)
		assert.Equal(t, 12, lookup.lastLimit)
	})

	bad := []string{
		"/api/v1/search",
		"/api/v1/search?q=%20%20",
		"/api/v1/search?q=x&category=videos",
		"/api/v1/search?q=x&limit=abc",
		"/api/v1/search?q=x&limit=1000",
		"/api/v1/search?q=x&offset=-1",
	}
	for _, target := range bad {
		t.Run("rejects "+target, func(t *testing.T) {
			lookup := &mockLookup{state: state}
			s := newTestServer(t, &Ports{Lookup: lookup})
			rr := get(t, s, target)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Zero(t, lookup.calls)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, codeBadRequest, resp.Code)
		})
	}
}

func TestItem(t *testing.T) {
	catalog := &mockCatalog{items: map[string]domain.Item{
		"posts/x1": {ID: "x1", Category: domain.CategoryPosts, Title: "Hello"},
	}}
	s := newTestServer(t, &Ports{Lookup: &mockLookup{}, Catalog: catalog})

	rr := get(t, s, "/api/v1/items/posts/x1")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Hello")

	assert.Equal(t, http.StatusNotFound, get(t, s, "/api/v1/items/posts/nope").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, s, "/api/v1/items/videos/x1").Code)

	bare := newTestServer(t, &Ports{Lookup: &mockLookup{}})
	assert.Equal(t, http.StatusNotFound, get(t, bare, "/api/v1/items/posts/x1").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	registry := prometheus.NewRegistry()
	s, err := NewServer(&Ports{Lookup: &mockLookup{}}, registry)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, get(t, s, "/healthz").Code)

	m := registeredRequestCounter(t, registry)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WithLabelValues("GET", "/healthz", "200")))

	rr := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "quickfind_http_requests_total"))
}

// registeredRequestCounter returns the request counter registered on registry.
func registeredRequestCounter(t *testing.T, registry *prometheus.Registry) *prometheus.CounterVec {
	t.Helper()
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quickfind",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	err := registry.Register(counter)
	var are prometheus.AlreadyRegisteredError
	require.ErrorAs(t, err, &are)
	existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
	require.True(t, ok)
	return existing
}

func TestPanicRecovery(t *testing.T) {
	s := newTestServer(t, &Ports{Lookup: panicLookup{}})
	rr := get(t, s, "/api/v1/search?q=x")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), codeInternal)
}

type panicLookup struct{}

func (panicLookup) Lookup(context.Context, domain.SearchQuery, int) domain.AggregateState {
	panic("boom")
}

func TestIntParam(t *testing.T) {
	n, err := intParam("", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = intParam("500", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, 500, n)

	_, err = intParam("11", 0, 10)
	assert.Error(t, err)
}
