package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/dgmlkit/pkg/cache"
	"github.com/matzehuels/dgmlkit/pkg/store"
)

const buildPayload = `{
  "title": "Services",
  "objects": [
    {"id": "api", "label": "API", "category": "service"},
    {"id": "db", "label": "DB"},
    {"link": {"source": "api", "target": "db"}}
  ],
  "analyses": ["hubs"]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	return New(Config{Cache: c, Store: store.NewMemoryStore()})
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestBuildGraphReturnsDGML(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/graphs", strings.NewReader(buildPayload))
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/xml")
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/v1/graphs/"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	body := rec.Body.String()
	assert.Contains(t, body, `Id="api"`)
	assert.Contains(t, body, `Source="api"`)
	assert.Contains(t, body, `Title="Services"`)
	assert.Contains(t, body, `InboundLinkCount=`, "hub analysis should have run")
}

func TestBuildGraphJSONFormat(t *testing.T) {
	s := newTestServer(t)
	payload := strings.Replace(buildPayload, `"analyses": ["hubs"]`, `"format": "json"`, 1)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/graphs", strings.NewReader(payload)))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var got store.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.Document.Nodes, 2)
	assert.Len(t, got.Document.Links, 1)
}

func TestBuildGraphCacheHit(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/v1/graphs", strings.NewReader(buildPayload)))
	require.Equal(t, http.StatusCreated, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/v1/graphs", strings.NewReader(buildPayload)))

	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "hit", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Header().Get("Location"), second.Header().Get("Location"))
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())
}

func TestBuildGraphValidation(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	tests := []struct {
		name    string
		payload string
		status  int
	}{
		{"MalformedJSON", `{not json`, http.StatusBadRequest},
		{"EmptyObjects", `{"objects": []}`, http.StatusBadRequest},
		{"UnknownFormat", `{"objects": [{"id": "a"}], "format": "svg"}`, http.StatusBadRequest},
		{"UnknownAnalysis", `{"objects": [{"id": "a"}], "analyses": ["bogus"]}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/graphs", strings.NewReader(tt.payload)))
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["code"])
		})
	}
}

func TestGetGraphByID(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	build := httptest.NewRecorder()
	handler.ServeHTTP(build, httptest.NewRequest(http.MethodPost, "/v1/graphs", strings.NewReader(buildPayload)))
	require.Equal(t, http.StatusCreated, build.Code)
	location := build.Header().Get("Location")

	get := httptest.NewRecorder()
	handler.ServeHTTP(get, httptest.NewRequest(http.MethodGet, location, nil))
	require.Equal(t, http.StatusOK, get.Code)
	assert.Contains(t, get.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, get.Body.String(), `Id="api"`)

	asJSON := httptest.NewRecorder()
	handler.ServeHTTP(asJSON, httptest.NewRequest(http.MethodGet, location+"?format=json", nil))
	require.Equal(t, http.StatusOK, asJSON.Code)
	assert.Contains(t, asJSON.Header().Get("Content-Type"), "application/json")
}

func TestGetGraphNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/graphs/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestListGraphs(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	for _, title := range []string{"first", "second"} {
		payload := strings.Replace(buildPayload, "Services", title, 1)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/graphs", strings.NewReader(payload)))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/graphs", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestRequestIDPassthrough(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "client-chosen")

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "client-chosen", rec.Header().Get("X-Request-Id"))
}

func TestBuildDeterministicAcrossServers(t *testing.T) {
	// Two independent servers must render byte-identical documents for the
	// same dataset.
	render := func() []byte {
		s := New(Config{Store: store.NewMemoryStore()})
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/graphs", strings.NewReader(buildPayload)))
		require.Equal(t, http.StatusCreated, rec.Code)
		return rec.Body.Bytes()
	}
	assert.True(t, bytes.Equal(render(), render()))
}
