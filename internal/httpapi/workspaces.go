package httpapi

import (
	"net/http"

	"github.com/Humans-Not-Required/agent-docs/internal/store"
)

type createWorkspaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

type workspaceResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	ManageKey   string `json:"manage_key,omitempty"`
}

func toWorkspaceResponse(ws *store.Workspace, manageKey string) workspaceResponse {
	return workspaceResponse{
		ID:          ws.ID,
		Name:        ws.Name,
		Description: ws.Description,
		IsPublic:    ws.IsPublic,
		CreatedAt:   ws.CreatedAt.Format(timeFormat),
		UpdatedAt:   ws.UpdatedAt.Format(timeFormat),
		ManageKey:   manageKey,
	}
}

// createWorkspace handles POST /workspaces.
func (h *Handler) createWorkspace(w http.ResponseWriter, r *http.Request) {
	var req createWorkspaceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "name is required")
		return
	}

	ws, key, err := h.store.CreateWorkspace(r.Context(), req.Name, req.Description, req.IsPublic)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	h.bus.Publish(ws.ID, "workspace.created", map[string]any{"workspace_id": ws.ID})
	writeJSON(w, http.StatusCreated, toWorkspaceResponse(ws, key))
}

// listPublicWorkspaces handles GET /workspaces.
func (h *Handler) listPublicWorkspaces(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListPublicWorkspaces(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	out := make([]workspaceResponse, 0, len(list))
	for _, ws := range list {
		out = append(out, toWorkspaceResponse(ws, ""))
	}
	writeJSON(w, http.StatusOK, out)
}

// getWorkspace handles GET /workspaces/:workspaceID. Workspace loading
// already happened in loadWorkspace.
func (h *Handler) getWorkspace(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	writeJSON(w, http.StatusOK, toWorkspaceResponse(ws, ""))
}

type patchWorkspaceRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

// updateWorkspace handles PATCH /workspaces/:workspaceID.
func (h *Handler) updateWorkspace(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	var req patchWorkspaceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	updated, err := h.store.UpdateWorkspace(r.Context(), ws.ID, store.WorkspacePatch{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkspaceResponse(updated, ""))
}
