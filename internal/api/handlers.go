package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/dgmlkit/pkg/analysis"
	"github.com/matzehuels/dgmlkit/pkg/builder"
	"github.com/matzehuels/dgmlkit/pkg/cache"
	"github.com/matzehuels/dgmlkit/pkg/dataset"
	"github.com/matzehuels/dgmlkit/pkg/dgml"
	"github.com/matzehuels/dgmlkit/pkg/errors"
	"github.com/matzehuels/dgmlkit/pkg/store"
)

const (
	formatDGML = "dgml"
	formatJSON = "json"

	contentTypeXML  = "application/xml; charset=utf-8"
	contentTypeJSON = "application/json; charset=utf-8"

	cacheTTL = 24 * time.Hour
)

// buildRequest is the POST /v1/graphs payload.
type buildRequest struct {
	Title    string           `json:"title,omitempty"`
	Objects  []map[string]any `json:"objects"`
	Analyses []string         `json:"analyses,omitempty"`
	Format   string           `json:"format,omitempty"`
}

// cachedResponse is the envelope stored in the cache, so a hit can replay
// the response including the record ID.
type cachedResponse struct {
	ID          string `json:"id"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleBuildGraph(w http.ResponseWriter, r *http.Request) {
	var req buildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decoding request body"))
		return
	}
	if len(req.Objects) == 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "objects must not be empty"))
		return
	}
	format := req.Format
	if format == "" {
		format = formatDGML
	}
	if format != formatDGML && format != formatJSON {
		s.writeError(w, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format))
		return
	}

	key, err := requestKey(req, format)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if raw, found, err := s.cache.Get(r.Context(), key); err != nil {
		s.logger.Warn("cache lookup failed", "error", err)
	} else if found {
		var cached cachedResponse
		if err := json.Unmarshal(raw, &cached); err == nil {
			w.Header().Set("Content-Type", cached.ContentType)
			w.Header().Set("Location", "/v1/graphs/"+cached.ID)
			w.Header().Set("X-Cache", "hit")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached.Body)
			return
		}
	}

	analyses, err := analysis.ByName(req.Analyses...)
	if err != nil {
		s.writeError(w, err)
		return
	}

	objects := make([]any, len(req.Objects))
	for i, obj := range req.Objects {
		objects[i] = obj
	}

	g, err := builder.New(dataset.Rules(),
		builder.WithAnalyses(analyses...),
		builder.WithLogger(s.logger),
	).Build(objects)
	if err != nil {
		s.writeError(w, err)
		return
	}
	g.Title = req.Title

	rec := store.Record{
		ID:        uuid.NewString(),
		Title:     req.Title,
		CreatedAt: time.Now().UTC(),
		Document:  g.Document(),
	}
	if err := s.store.Put(r.Context(), rec); err != nil {
		s.writeError(w, err)
		return
	}

	body, contentType, err := encodeGraph(g, rec, format)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if raw, err := json.Marshal(cachedResponse{ID: rec.ID, ContentType: contentType, Body: body}); err == nil {
		if err := s.cache.Set(r.Context(), key, raw, cacheTTL); err != nil {
			s.logger.Warn("cache store failed", "error", err)
		}
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Location", "/v1/graphs/"+rec.ID)
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(body)
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = formatDGML
	}

	g := dgml.FromDocument(rec.Document)
	body, contentType, err := encodeGraph(g, rec, format)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(body)
}

func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", raw))
			return
		}
		limit = n
	}

	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	type summary struct {
		ID        string    `json:"id"`
		Title     string    `json:"title,omitempty"`
		CreatedAt time.Time `json:"created_at"`
		Nodes     int       `json:"nodes"`
		Links     int       `json:"links"`
	}
	out := make([]summary, len(recs))
	for i, rec := range recs {
		out[i] = summary{
			ID:        rec.ID,
			Title:     rec.Title,
			CreatedAt: rec.CreatedAt,
			Nodes:     len(rec.Document.Nodes),
			Links:     len(rec.Document.Links),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// encodeGraph renders a graph in the requested response format.
func encodeGraph(g *dgml.Graph, rec store.Record, format string) ([]byte, string, error) {
	switch format {
	case formatDGML:
		body, err := dgml.MarshalDGML(g)
		if err != nil {
			return nil, "", err
		}
		return body, contentTypeXML, nil
	case formatJSON:
		body, err := json.Marshal(rec)
		if err != nil {
			return nil, "", errors.Wrap(errors.ErrCodeEncodeFailed, err, "encoding record")
		}
		return body, contentTypeJSON, nil
	default:
		return nil, "", errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
	}
}

// requestKey derives the cache key from everything that shapes the response.
func requestKey(req buildRequest, format string) (string, error) {
	content, err := json.Marshal(struct {
		Title   string           `json:"title"`
		Objects []map[string]any `json:"objects"`
	}{req.Title, req.Objects})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "hashing request")
	}
	return cache.DocumentKey(cache.Hash(content), req.Analyses, format), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps error codes onto HTTP statuses and renders a JSON body
// with the user-facing message.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeUnsupported:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeRuleFailed, errors.ErrCodeAnalysisFailed:
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}

	writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}
