package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todo-service/internal/logging"
	"github.com/idilsaglam/todo-service/internal/model"
	"github.com/idilsaglam/todo-service/internal/store/memstore"
)

func setupTest(t *testing.T, seed bool) (http.Handler, *memstore.Store) {
	t.Helper()
	var opts []memstore.Option
	if seed {
		opts = append(opts, memstore.WithSeed(memstore.DefaultSeed()))
	}
	store := memstore.New(opts...)
	srv := NewServer(store, ServerOptions{Logger: logging.Discard(), MaxBodyBytes: 1024})
	return srv.Handler(), store
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeItem(t *testing.T, w *httptest.ResponseRecorder) model.TodoItem {
	t.Helper()
	var it model.TodoItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &it), w.Body.String())
	return it
}

func TestList_Seeded(t *testing.T) {
	h, _ := setupTest(t, true)

	w := do(t, h, http.MethodGet, "/api/todos", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var items []model.TodoItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{items[0].ID, items[1].ID, items[2].ID})
	assert.Equal(t, "Setup CI/CD", items[1].Title)
}

func TestList_EmptyIsArray(t *testing.T) {
	h, _ := setupTest(t, false)

	w := do(t, h, http.MethodGet, "/todos", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestScenario_CreateGetDelete(t *testing.T) {
	for _, base := range []string{BasePath, AliasPath} {
		t.Run(base, func(t *testing.T) {
			h, _ := setupTest(t, true)

			w := do(t, h, http.MethodPost, base, `{"title":"X"}`)
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			created := decodeItem(t, w)
			assert.Equal(t, model.TodoItem{ID: 4, Title: "X"}, created)
			assert.Equal(t, base+"/4", w.Header().Get("Location"))

			w = do(t, h, http.MethodGet, base+"/4", "")
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, created, decodeItem(t, w))

			w = do(t, h, http.MethodDelete, base+"/4", "")
			assert.Equal(t, http.StatusNoContent, w.Code)
			assert.Empty(t, w.Body.String())

			w = do(t, h, http.MethodGet, base+"/4", "")
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Empty(t, w.Body.String())
		})
	}
}

func TestScenario_UpdateReplacesFields(t *testing.T) {
	h, store := setupTest(t, true)

	w := do(t, h, http.MethodPut, "/api/todos/2", `{"id": 77, "title":"Y","completed":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	// Description was not sent, so it is cleared: update replaces wholesale.
	assert.Equal(t, model.TodoItem{ID: 2, Title: "Y", Completed: true}, decodeItem(t, w))

	w = do(t, h, http.MethodGet, "/api/todos/2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.TodoItem{ID: 2, Title: "Y", Completed: true}, decodeItem(t, w))

	for _, id := range []int64{1, 3} {
		it, err := store.Get(id)
		require.NoError(t, err)
		assert.False(t, it.Completed)
		assert.NotEmpty(t, it.Description)
	}
	_, err := store.Get(77)
	assert.ErrorIs(t, err, memstore.ErrNotFound)
}

func TestCreate_WithAllFields(t *testing.T) {
	h, _ := setupTest(t, false)

	w := do(t, h, http.MethodPost, "/api/todos", `{"id":9,"title":"t","description":"d","completed":true,"extra":1}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, model.TodoItem{ID: 1, Title: "t", Description: "d", Completed: true}, decodeItem(t, w))
}

func TestCreate_LenientBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
		want model.TodoItem
	}{
		{"null description", `{"title":"a","description":null}`, model.TodoItem{ID: 4, Title: "a"}},
		{"null completed", `{"title":"a","completed":null}`, model.TodoItem{ID: 4, Title: "a"}},
		{"null id", `{"id":null,"title":"a"}`, model.TodoItem{ID: 4, Title: "a"}},
		{"string id", `{"id":"7","title":"a"}`, model.TodoItem{ID: 4, Title: "a"}},
		{"fractional id", `{"id":1.5,"title":"a","completed":true}`, model.TodoItem{ID: 4, Title: "a", Completed: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, store := setupTest(t, true)

			w := do(t, h, http.MethodPost, "/todos", tt.body)
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			assert.Equal(t, tt.want, decodeItem(t, w))
			assert.Equal(t, 4, store.Len())
		})
	}
}

func TestUpdate_NullFieldsClear(t *testing.T) {
	h, store := setupTest(t, true)

	w := do(t, h, http.MethodPut, "/api/todos/1", `{"id":"x","title":"b","description":null,"completed":null}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, model.TodoItem{ID: 1, Title: "b"}, decodeItem(t, w))

	got, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, model.TodoItem{ID: 1, Title: "b"}, got)
}

func TestCreate_ResponseEscapesHTML(t *testing.T) {
	h, _ := setupTest(t, false)

	w := do(t, h, http.MethodPost, "/todos", `{"title":"<b>x</b>"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `\u003cb\u003ex\u003c/b\u003e`)
	assert.Equal(t, "<b>x</b>", decodeItem(t, w).Title)
}

func TestCreate_BadBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", "", "empty body"},
		{"not json", "{title", "invalid JSON"},
		{"array", `[{"title":"x"}]`, "invalid todo"},
		{"missing title", `{"description":"d"}`, "invalid todo"},
		{"empty title", `{"title":""}`, "invalid todo"},
		{"null title", `{"title":null}`, "invalid todo"},
		{"wrong completed type", `{"title":"a","completed":"yes"}`, "invalid todo"},
		{"trailing data", `{"title":"a"} {"title":"b"}`, "trailing data"},
		{"too large", `{"title":"` + strings.Repeat("a", 2048) + `"}`, "larger than"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, store := setupTest(t, true)

			w := do(t, h, http.MethodPost, "/api/todos", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var apiErr APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
			assert.Contains(t, apiErr.Error, tt.want)
			assert.NotEmpty(t, apiErr.Timestamp)
			assert.Equal(t, 3, len(store.List()), "failed request must not change state")
		})
	}
}

func TestCreate_SchemaDetails(t *testing.T) {
	h, _ := setupTest(t, false)

	w := do(t, h, http.MethodPost, "/todos", `{"title":"a","completed":"no"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	require.NotEmpty(t, apiErr.Details)
	assert.True(t, strings.HasPrefix(apiErr.Details[0], "completed:"), apiErr.Details[0])
}

func TestUpdate_Missing(t *testing.T) {
	h, store := setupTest(t, true)
	before := store.List()

	w := do(t, h, http.MethodPut, "/api/todos/99", `{"title":"Z"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, before, store.List())
}

func TestUpdate_BadBodyBeatsNotFound(t *testing.T) {
	h, _ := setupTest(t, true)

	w := do(t, h, http.MethodPut, "/api/todos/99", `{"completed":true}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDelete_Missing(t *testing.T) {
	h, _ := setupTest(t, true)

	w := do(t, h, http.MethodDelete, "/todos/42", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestBadID(t *testing.T) {
	h, _ := setupTest(t, true)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		w := do(t, h, method, "/api/todos/abc", "")
		assert.Equal(t, http.StatusBadRequest, w.Code, method)
	}
	w := do(t, h, http.MethodPut, "/api/todos/abc", `{"title":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth_IndependentOfStore(t *testing.T) {
	h, store := setupTest(t, true)

	check := func() {
		for _, p := range []string{"/health", "/api/todos/health", "/todos/health"} {
			w := do(t, h, http.MethodGet, p, "")
			require.Equal(t, http.StatusOK, w.Code, p)
			assert.Equal(t, "Todo Service is running - Version 1.0.0", w.Body.String())
			assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
		}
	}
	check()
	for _, it := range store.List() {
		store.Delete(it.ID)
	}
	check()
	assert.Equal(t, 0, len(store.List()))
}

func TestMethodNotAllowed(t *testing.T) {
	h, _ := setupTest(t, true)

	w := do(t, h, http.MethodPatch, "/api/todos/1", `{"title":"x"}`)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRequestID(t *testing.T) {
	h, _ := setupTest(t, true)

	w := do(t, h, http.MethodGet, "/health", "")
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, logging.Options{Level: "info", Format: "logfmt"})
	srv := NewServer(memstore.New(), ServerOptions{Logger: logger})

	w := do(t, srv.Handler(), http.MethodGet, "/api/todos/5", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	out := buf.String()
	assert.Contains(t, out, "method=GET")
	assert.Contains(t, out, "path=/api/todos/5")
	assert.Contains(t, out, "status=404")
	assert.Contains(t, out, "request_id=")

	buf.Reset()
	do(t, srv.Handler(), http.MethodGet, "/health", "")
	assert.Empty(t, buf.String(), "health checks log at debug")
}

func TestServer_StartStop(t *testing.T) {
	srv := NewServer(memstore.New(memstore.WithSeed(memstore.DefaultSeed())), ServerOptions{
		Addr:   "127.0.0.1:0",
		Logger: logging.Discard(),
	})
	require.NoError(t, srv.Start())

	resp, err := http.Get("http://" + srv.Addr() + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, HealthMessage, string(body))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
}

func TestServer_StartBindError(t *testing.T) {
	first := NewServer(memstore.New(), ServerOptions{Addr: "127.0.0.1:0", Logger: logging.Discard()})
	require.NoError(t, first.Start())
	defer first.Stop(context.Background())

	second := NewServer(memstore.New(), ServerOptions{Addr: first.Addr(), Logger: logging.Discard()})
	assert.Error(t, second.Start())
}

func TestNewServer_NilStorePanics(t *testing.T) {
	assert.Panics(t, func() { NewServer(nil, ServerOptions{}) })
}
