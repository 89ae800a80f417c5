package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Humans-Not-Required/agent-docs/internal/eventbus"
	"github.com/Humans-Not-Required/agent-docs/internal/lockmgr"
	"github.com/Humans-Not-Required/agent-docs/internal/logging"
	"github.com/Humans-Not-Required/agent-docs/internal/ratelimit"
	"github.com/Humans-Not-Required/agent-docs/internal/store"
)

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (nopLogger) With(...any) logging.Logger            { return nopLogger{} }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "agentdocs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	h := New(Deps{
		Store:              st,
		Locks:              lockmgr.New(st),
		Bus:                eventbus.New(),
		Limiter:            ratelimit.New(time.Hour, 10),
		Logger:             nopLogger{},
		WorkspaceRateLimit: 10,
		DefaultLockTTL:     60 * time.Second,
	})
	srv := httptest.NewServer(h.Router(""))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, key string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	if resp.ContentLength != 0 {
		_ = json.NewDecoder(resp.Body).Decode(&out)
	}
	return resp, out
}

func TestWorkspaceLifecycle_CreateListGetPatch(t *testing.T) {
	srv := newTestServer(t)

	resp, created := doJSON(t, http.MethodPost, srv.URL+"/api/v1/workspaces", "", map[string]any{
		"name": "Specs", "is_public": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	key := created["manage_key"].(string)
	require.NotEmpty(t, key)
	id := created["id"].(string)

	resp, list := doJSON(t, http.MethodGet, srv.URL+"/api/v1/workspaces", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = list

	resp, got := doJSON(t, http.MethodGet, srv.URL+"/api/v1/workspaces/"+id, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Specs", got["name"])
	require.Nil(t, got["manage_key"])

	resp, _ = doJSON(t, http.MethodPatch, srv.URL+"/api/v1/workspaces/"+id, "", map[string]any{"name": "Renamed"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, patched := doJSON(t, http.MethodPatch, srv.URL+"/api/v1/workspaces/"+id, key, map[string]any{"name": "Renamed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Renamed", patched["name"])
}

func TestDocumentLifecycle_CreateSlugVersionAndLock(t *testing.T) {
	srv := newTestServer(t)

	_, created := doJSON(t, http.MethodPost, srv.URL+"/api/v1/workspaces", "", map[string]any{"name": "Docs"})
	key := created["manage_key"].(string)
	wsID := created["id"].(string)

	resp, doc := doJSON(t, http.MethodPost, srv.URL+"/api/v1/workspaces/"+wsID+"/docs", key, map[string]any{
		"title": "Hello World", "content": "# Hi",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "hello-world", doc["slug"])
	require.Equal(t, float64(1), doc["word_count"])

	resp, doc2 := doJSON(t, http.MethodPost, srv.URL+"/api/v1/workspaces/"+wsID+"/docs", key, map[string]any{
		"title": "Hello World", "content": "more",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "hello-world-2", doc2["slug"])

	docID := doc["id"].(string)
	resp, updated := doJSON(t, http.MethodPatch, srv.URL+"/api/v1/workspaces/"+wsID+"/docs/"+docID, key, map[string]any{
		"content": "# Hi\nmore words here",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, float64(4), updated["word_count"])

	resp, versions := doJSON(t, http.MethodGet, srv.URL+"/api/v1/workspaces/"+wsID+"/docs/"+docID+"/versions", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = versions

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/v1/workspaces/"+wsID+"/docs/"+docID+"/lock", key, map[string]any{
		"editor": "A", "ttl_seconds": 5,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, conflict := doJSON(t, http.MethodPost, srv.URL+"/api/v1/workspaces/"+wsID+"/docs/"+docID+"/lock", key, map[string]any{
		"editor": "B",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	errBody := conflict["error"].(map[string]any)
	require.Equal(t, "A", errBody["holder"])
}

func TestComments_CreateListNoAuthRequired(t *testing.T) {
	srv := newTestServer(t)

	_, created := doJSON(t, http.MethodPost, srv.URL+"/api/v1/workspaces", "", map[string]any{"name": "Docs"})
	key := created["manage_key"].(string)
	wsID := created["id"].(string)

	_, doc := doJSON(t, http.MethodPost, srv.URL+"/api/v1/workspaces/"+wsID+"/docs", key, map[string]any{
		"title": "Notes", "content": "body",
	})
	docID := doc["id"].(string)

	resp, comment := doJSON(t, http.MethodPost, srv.URL+"/api/v1/workspaces/"+wsID+"/docs/"+docID+"/comments", "", map[string]any{
		"author_name": "agent-1", "content": "looks good",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "agent-1", comment["author_name"])

	resp, list := doJSON(t, http.MethodGet, srv.URL+"/api/v1/workspaces/"+wsID+"/docs/"+docID+"/comments", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = list
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body["status"])
}
