package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Humans-Not-Required/agent-docs/internal/authguard"
	"github.com/Humans-Not-Required/agent-docs/internal/store"
)

type documentResponse struct {
	ID            string   `json:"id"`
	WorkspaceID   string   `json:"workspace_id"`
	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	Content       string   `json:"content"`
	ContentHTML   string   `json:"content_html"`
	Summary       string   `json:"summary"`
	Tags          []string `json:"tags"`
	Status        string   `json:"status"`
	AuthorName    string   `json:"author_name"`
	WordCount     int      `json:"word_count"`
	LockedBy      *string  `json:"locked_by,omitempty"`
	LockedAt      *string  `json:"locked_at,omitempty"`
	LockExpiresAt *string  `json:"lock_expires_at,omitempty"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

func toDocumentResponse(d *store.Document) documentResponse {
	resp := documentResponse{
		ID:          d.ID,
		WorkspaceID: d.WorkspaceID,
		Title:       d.Title,
		Slug:        d.Slug,
		Content:     d.Content,
		ContentHTML: d.ContentHTML,
		Summary:     d.Summary,
		Tags:        d.Tags,
		Status:      d.Status,
		AuthorName:  d.AuthorName,
		WordCount:   d.WordCount,
		CreatedAt:   d.CreatedAt.Format(timeFormat),
		UpdatedAt:   d.UpdatedAt.Format(timeFormat),
	}
	if d.LockedBy != nil {
		resp.LockedBy = d.LockedBy
	}
	if d.LockedAt != nil {
		s := d.LockedAt.Format(timeFormat)
		resp.LockedAt = &s
	}
	if d.LockExpiresAt != nil {
		s := d.LockExpiresAt.Format(timeFormat)
		resp.LockExpiresAt = &s
	}
	return resp
}

type createDocumentRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
	Status  string   `json:"status"`
	Author  string   `json:"author_name"`
}

// createDocument handles POST /workspaces/:workspaceID/docs.
func (h *Handler) createDocument(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	var req createDocumentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "title is required")
		return
	}

	doc, err := h.store.CreateDocument(r.Context(), ws.ID, req.Title, req.Content, req.Summary, req.Tags, req.Status, req.Author)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	h.bus.Publish(ws.ID, "document.created", map[string]any{"document_id": doc.ID})
	writeJSON(w, http.StatusCreated, toDocumentResponse(doc))
}

// listDocuments handles GET /workspaces/:workspaceID/docs. Callers presenting
// a valid manage key see drafts and archived documents too.
func (h *Handler) listDocuments(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	includeDrafts := authguard.Verify(authguard.ExtractKey(r), ws.ManageKeyHash)

	docs, err := h.store.ListDocuments(r.Context(), ws.ID, includeDrafts)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	out := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

// getDocumentBySlug handles GET /workspaces/:workspaceID/docs/:slug. The
// path param is named docID because the route is registered inside the
// /docs/{docID} sub-router; here it holds a slug, not an id.
func (h *Handler) getDocumentBySlug(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	slug := chi.URLParam(r, "docID")
	doc, err := h.store.GetDocumentBySlug(r.Context(), ws.ID, slug)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDocumentResponse(doc))
}

type patchDocumentRequest struct {
	Title             *string   `json:"title"`
	Content           *string   `json:"content"`
	Summary           *string   `json:"summary"`
	Tags              *[]string `json:"tags"`
	Status            *string   `json:"status"`
	Author            string    `json:"author_name"`
	ChangeDescription string    `json:"change_description"`
}

// updateDocument handles PATCH /workspaces/:workspaceID/docs/:docID.
func (h *Handler) updateDocument(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	docID := chi.URLParam(r, "docID")
	var req patchDocumentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	doc, err := h.store.UpdateDocument(r.Context(), docID, store.DocumentPatch{
		Title:   req.Title,
		Content: req.Content,
		Summary: req.Summary,
		Tags:    req.Tags,
		Status:  req.Status,
	}, req.Author, req.ChangeDescription)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	h.bus.Publish(ws.ID, "document.updated", map[string]any{"document_id": doc.ID})
	writeJSON(w, http.StatusOK, toDocumentResponse(doc))
}

// deleteDocument handles DELETE /workspaces/:workspaceID/docs/:docID.
func (h *Handler) deleteDocument(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	docID := chi.URLParam(r, "docID")
	if err := h.store.DeleteDocument(r.Context(), docID); err != nil {
		writeStoreError(w, err)
		return
	}
	h.bus.Publish(ws.ID, "document.deleted", map[string]any{"document_id": docID})
	w.WriteHeader(http.StatusNoContent)
}

// searchDocuments handles GET /workspaces/:workspaceID/search.
func (h *Handler) searchDocuments(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	q := r.URL.Query().Get("q")
	docs, err := h.store.Search(r.Context(), ws.ID, q)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	out := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}
