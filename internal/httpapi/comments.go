package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Humans-Not-Required/agent-docs/internal/store"
)

type commentResponse struct {
	ID         string  `json:"id"`
	DocumentID string  `json:"document_id"`
	ParentID   *string `json:"parent_id,omitempty"`
	AuthorName string  `json:"author_name"`
	Content    string  `json:"content"`
	Resolved   bool    `json:"resolved"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

func toCommentResponse(c *store.Comment) commentResponse {
	return commentResponse{
		ID:         c.ID,
		DocumentID: c.DocumentID,
		ParentID:   c.ParentID,
		AuthorName: c.AuthorName,
		Content:    c.Content,
		Resolved:   c.Resolved,
		CreatedAt:  c.CreatedAt.Format(timeFormat),
		UpdatedAt:  c.UpdatedAt.Format(timeFormat),
	}
}

type createCommentRequest struct {
	AuthorName string  `json:"author_name"`
	Content    string  `json:"content"`
	ParentID   *string `json:"parent_id"`
}

// createComment handles POST .../docs/:docID/comments. No auth: any client
// that knows the workspace can comment.
func (h *Handler) createComment(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	docID := chi.URLParam(r, "docID")
	var req createCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if req.AuthorName == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "author_name is required")
		return
	}

	c, err := h.store.CreateComment(r.Context(), docID, req.ParentID, req.AuthorName, req.Content)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	h.bus.Publish(ws.ID, "comment.created", map[string]any{"document_id": docID, "comment_id": c.ID})
	writeJSON(w, http.StatusCreated, toCommentResponse(c))
}

// listComments handles GET .../docs/:docID/comments.
func (h *Handler) listComments(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	comments, err := h.store.ListComments(r.Context(), docID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	out := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

type patchCommentRequest struct {
	Content  *string `json:"content"`
	Resolved *bool   `json:"resolved"`
}

// updateComment handles PATCH .../docs/:docID/comments/:cid.
func (h *Handler) updateComment(w http.ResponseWriter, r *http.Request) {
	cid := chi.URLParam(r, "cid")
	var req patchCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	c, err := h.store.UpdateComment(r.Context(), cid, store.UpdateCommentPatch{
		Content:  req.Content,
		Resolved: req.Resolved,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCommentResponse(c))
}

// deleteComment handles DELETE .../docs/:docID/comments/:cid.
func (h *Handler) deleteComment(w http.ResponseWriter, r *http.Request) {
	cid := chi.URLParam(r, "cid")
	if err := h.store.DeleteComment(r.Context(), cid); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
