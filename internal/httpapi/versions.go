package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Humans-Not-Required/agent-docs/internal/store"
)

type versionResponse struct {
	ID                string `json:"id"`
	DocumentID        string `json:"document_id"`
	VersionNumber     int    `json:"version_number"`
	Content           string `json:"content"`
	ContentHTML       string `json:"content_html"`
	Summary           string `json:"summary"`
	AuthorName        string `json:"author_name"`
	ChangeDescription string `json:"change_description"`
	WordCount         int    `json:"word_count"`
	CreatedAt         string `json:"created_at"`
}

func toVersionResponse(v *store.DocumentVersion) versionResponse {
	return versionResponse{
		ID:                v.ID,
		DocumentID:        v.DocumentID,
		VersionNumber:     v.VersionNumber,
		Content:           v.Content,
		ContentHTML:       v.ContentHTML,
		Summary:           v.Summary,
		AuthorName:        v.AuthorName,
		ChangeDescription: v.ChangeDescription,
		WordCount:         v.WordCount,
		CreatedAt:         v.CreatedAt.Format(timeFormat),
	}
}

// listVersions handles GET .../docs/:docID/versions.
func (h *Handler) listVersions(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	versions, err := h.store.ListVersions(r.Context(), docID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	out := make([]versionResponse, 0, len(versions))
	for _, v := range versions {
		out = append(out, toVersionResponse(v))
	}
	writeJSON(w, http.StatusOK, out)
}

// getVersion handles GET .../docs/:docID/versions/:n.
func (h *Handler) getVersion(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "version number must be an integer")
		return
	}
	v, err := h.store.GetVersion(r.Context(), docID, n)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVersionResponse(v))
}

type restoreVersionRequest struct {
	Author string `json:"author_name"`
}

// restoreVersion handles POST .../docs/:docID/versions/:n/restore.
func (h *Handler) restoreVersion(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	docID := chi.URLParam(r, "docID")
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "version number must be an integer")
		return
	}
	var req restoreVersionRequest
	_ = decodeJSON(r, &req)

	doc, err := h.store.RestoreVersion(r.Context(), docID, n, req.Author)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	h.bus.Publish(ws.ID, "document.updated", map[string]any{"document_id": doc.ID})
	writeJSON(w, http.StatusOK, toDocumentResponse(doc))
}

type diffResponse struct {
	FromVersion int    `json:"from_version"`
	ToVersion   int    `json:"to_version"`
	Diff        string `json:"diff"`
}

// diffVersions handles GET .../docs/:docID/diff?from=N&to=M.
func (h *Handler) diffVersions(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	from, err := strconv.Atoi(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "from must be an integer")
		return
	}
	to, err := strconv.Atoi(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "to must be an integer")
		return
	}

	text, _, _, err := h.store.DiffVersions(r.Context(), docID, from, to)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, diffResponse{FromVersion: from, ToVersion: to, Diff: text})
}
