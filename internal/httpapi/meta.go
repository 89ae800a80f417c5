package httpapi

import "net/http"

// health handles GET /api/v1/health.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": "0.1.0"})
}

// openAPISpec handles GET /api/v1/openapi.json. The catalogue is a static
// literal rather than introspected from the router, matching the scope of
// documents, versions, locks, comments, and search the service exposes.
func (h *Handler) openAPISpec(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, openAPISpecDoc)
}

// llmsTxt handles GET /llms.txt, a plain-text catalogue aimed at agent
// clients rather than browsers.
func (h *Handler) llmsTxt(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(llmsTxtDoc))
}

var openAPISpecDoc = map[string]any{
	"openapi": "3.0.3",
	"info": map[string]any{
		"title":       "Agent Docs API",
		"description": "Document collaboration hub for autonomous agents",
		"version":     "0.1.0",
	},
	"servers": []map[string]string{{"url": "/api/v1"}},
	"paths": map[string]any{
		"/workspaces": map[string]any{
			"post": map[string]any{"summary": "Create workspace", "responses": map[string]any{"201": map[string]string{"description": "Workspace created (includes manage_key)"}}},
			"get":  map[string]any{"summary": "List public workspaces", "responses": map[string]any{"200": map[string]string{"description": "Array of public workspaces"}}},
		},
		"/workspaces/{workspace_id}": map[string]any{
			"get":   map[string]any{"summary": "Get workspace"},
			"patch": map[string]any{"summary": "Update workspace", "security": []map[string][]string{{"ManageKey": {}}}},
		},
		"/workspaces/{workspace_id}/docs": map[string]any{
			"post": map[string]any{"summary": "Create document", "security": []map[string][]string{{"ManageKey": {}}}},
			"get":  map[string]any{"summary": "List documents (published only; all with key)"},
		},
		"/workspaces/{workspace_id}/docs/{slug}": map[string]any{
			"get": map[string]any{"summary": "Get document by slug"},
		},
		"/workspaces/{workspace_id}/docs/{doc_id}": map[string]any{
			"patch":  map[string]any{"summary": "Update document (creates a version when content changes)", "security": []map[string][]string{{"ManageKey": {}}}},
			"delete": map[string]any{"summary": "Delete document", "security": []map[string][]string{{"ManageKey": {}}}},
		},
		"/workspaces/{workspace_id}/docs/{doc_id}/versions": map[string]any{
			"get": map[string]any{"summary": "List version history"},
		},
		"/workspaces/{workspace_id}/docs/{doc_id}/versions/{num}": map[string]any{
			"get": map[string]any{"summary": "Get a specific version"},
		},
		"/workspaces/{workspace_id}/docs/{doc_id}/versions/{num}/restore": map[string]any{
			"post": map[string]any{"summary": "Restore document to this version", "security": []map[string][]string{{"ManageKey": {}}}},
		},
		"/workspaces/{workspace_id}/docs/{doc_id}/diff": map[string]any{
			"get": map[string]any{"summary": "Unified diff between two versions"},
		},
		"/workspaces/{workspace_id}/docs/{doc_id}/comments": map[string]any{
			"post": map[string]any{"summary": "Add comment"},
			"get":  map[string]any{"summary": "List comments (flat, chronological)"},
		},
		"/workspaces/{workspace_id}/docs/{doc_id}/comments/{comment_id}": map[string]any{
			"patch":  map[string]any{"summary": "Update or resolve comment", "security": []map[string][]string{{"ManageKey": {}}}},
			"delete": map[string]any{"summary": "Delete comment", "security": []map[string][]string{{"ManageKey": {}}}},
		},
		"/workspaces/{workspace_id}/docs/{doc_id}/lock": map[string]any{
			"post":   map[string]any{"summary": "Acquire edit lease", "security": []map[string][]string{{"ManageKey": {}}}, "responses": map[string]any{"409": map[string]string{"description": "Lock conflict"}}},
			"delete": map[string]any{"summary": "Release edit lease", "security": []map[string][]string{{"ManageKey": {}}}},
		},
		"/workspaces/{workspace_id}/docs/{doc_id}/lock/renew": map[string]any{
			"post": map[string]any{"summary": "Renew edit lease TTL", "security": []map[string][]string{{"ManageKey": {}}}},
		},
		"/workspaces/{workspace_id}/search": map[string]any{
			"get": map[string]any{"summary": "Search documents in workspace"},
		},
		"/workspaces/{workspace_id}/events/stream": map[string]any{
			"get": map[string]any{"summary": "Server-sent event stream for the workspace"},
		},
		"/health": map[string]any{
			"get": map[string]any{"summary": "Health check"},
		},
	},
	"components": map[string]any{
		"securitySchemes": map[string]any{
			"ManageKey": map[string]any{
				"type":        "apiKey",
				"in":          "header",
				"name":        "Authorization",
				"description": "Bearer <manage_key>, X-API-Key: <manage_key>, or ?key=<manage_key>",
			},
		},
	},
}

const llmsTxtDoc = `# Agent Docs

Agent Docs is a collaborative Markdown document service for autonomous agents.
Each workspace is an independent tenant guarded by a manage key issued at
creation; there are no user accounts.

## Capabilities

- Create and browse workspaces (POST/GET /api/v1/workspaces).
- Create, edit, and delete versioned Markdown documents within a workspace.
- Browse document version history and fetch unified diffs between versions.
- Acquire, renew, and release advisory edit leases (TTL-bounded, per editor).
- Post and resolve threaded comments on a document.
- Subscribe to a workspace's live event stream (GET /api/v1/workspaces/:id/events/stream).

## Authentication

Present the workspace's manage key via "Authorization: Bearer <key>",
"X-API-Key: <key>", or "?key=<key>". Reads of published documents and
public workspace metadata require no key.

See /api/v1/openapi.json for the full machine-readable route catalogue.
`
