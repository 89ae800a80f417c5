package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type lockRequest struct {
	Editor     string `json:"editor"`
	TTLSeconds int    `json:"ttl_seconds"`
}

func (r lockRequest) ttl(defaultTTL time.Duration) time.Duration {
	if r.TTLSeconds <= 0 {
		return defaultTTL
	}
	return time.Duration(r.TTLSeconds) * time.Second
}

// acquireLock handles POST .../docs/:docID/lock.
func (h *Handler) acquireLock(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	docID := chi.URLParam(r, "docID")
	var req lockRequest
	if err := decodeJSON(r, &req); err != nil || req.Editor == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "editor is required")
		return
	}

	doc, err := h.locks.Acquire(r.Context(), docID, req.Editor, req.ttl(h.defaultLockTTL))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	h.bus.Publish(ws.ID, "lock.acquired", map[string]any{"document_id": docID, "editor": req.Editor})
	writeJSON(w, http.StatusOK, toDocumentResponse(doc))
}

// renewLock handles POST .../docs/:docID/lock/renew.
func (h *Handler) renewLock(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	var req lockRequest
	if err := decodeJSON(r, &req); err != nil || req.Editor == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "editor is required")
		return
	}

	doc, err := h.locks.Renew(r.Context(), docID, req.Editor, req.ttl(h.defaultLockTTL))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDocumentResponse(doc))
}

// releaseLock handles DELETE .../docs/:docID/lock.
func (h *Handler) releaseLock(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	docID := chi.URLParam(r, "docID")
	editor := r.URL.Query().Get("editor")
	if editor == "" {
		var req lockRequest
		_ = decodeJSON(r, &req)
		editor = req.Editor
	}
	if editor == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "editor is required")
		return
	}

	if _, err := h.locks.Release(r.Context(), docID, editor); err != nil {
		writeStoreError(w, err)
		return
	}
	h.bus.Publish(ws.ID, "lock.released", map[string]any{"document_id": docID, "editor": editor})
	w.WriteHeader(http.StatusNoContent)
}
