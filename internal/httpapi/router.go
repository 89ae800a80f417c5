package httpapi

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Router builds the full chi.Router for the service. staticDir, if
// non-empty, serves a static-asset SPA fallback for any path the API
// router doesn't claim: existing files are served as-is, and any other
// path gets staticDir/index.html.
func (h *Handler) Router(staticDir string) chi.Router {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(h.requestLogger)
	r.Use(cors)

	r.Get("/llms.txt", h.llmsTxt)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.health)
		r.Get("/openapi.json", h.openAPISpec)
		r.Get("/llms.txt", h.llmsTxt)

		r.Post("/workspaces", h.withWorkspaceRateLimit(h.createWorkspace))
		r.Get("/workspaces", h.listPublicWorkspaces)

		r.Route("/workspaces/{workspaceID}", func(r chi.Router) {
			r.Use(h.loadWorkspace)

			r.Get("/", h.getWorkspace)
			r.Patch("/", h.requireManageKey(http.HandlerFunc(h.updateWorkspace)).ServeHTTP)

			r.Get("/search", h.searchDocuments)
			r.Get("/events/stream", h.streamEvents)

			r.Post("/docs", h.requireManageKey(http.HandlerFunc(h.createDocument)).ServeHTTP)
			r.Get("/docs", h.listDocuments)

			r.Route("/docs/{docID}", func(r chi.Router) {
				// Mounting this sub-router claims every method on
				// /docs/{docID}, so the slug lookup is registered here too;
				// for this GET the {docID} param holds a slug value.
				r.Get("/", h.getDocumentBySlug)
				r.Patch("/", h.requireManageKey(http.HandlerFunc(h.updateDocument)).ServeHTTP)
				r.Delete("/", h.requireManageKey(http.HandlerFunc(h.deleteDocument)).ServeHTTP)

				r.Get("/versions", h.listVersions)
				r.Get("/versions/{n}", h.getVersion)
				r.Post("/versions/{n}/restore", h.requireManageKey(http.HandlerFunc(h.restoreVersion)).ServeHTTP)
				r.Get("/diff", h.diffVersions)

				r.Post("/lock", h.requireManageKey(http.HandlerFunc(h.acquireLock)).ServeHTTP)
				r.Post("/lock/renew", h.requireManageKey(http.HandlerFunc(h.renewLock)).ServeHTTP)
				r.Delete("/lock", h.requireManageKey(http.HandlerFunc(h.releaseLock)).ServeHTTP)

				r.Post("/comments", h.createComment)
				r.Get("/comments", h.listComments)
				r.Patch("/comments/{cid}", h.requireManageKey(http.HandlerFunc(h.updateComment)).ServeHTTP)
				r.Delete("/comments/{cid}", h.requireManageKey(http.HandlerFunc(h.deleteComment)).ServeHTTP)
			})
		})
	})

	if staticDir != "" {
		fileServer := http.FileServer(http.Dir(staticDir))
		r.Handle("/*", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			name := filepath.Join(staticDir, filepath.FromSlash(path.Clean("/"+req.URL.Path)))
			if _, err := os.Stat(name); err != nil {
				http.ServeFile(w, req, filepath.Join(staticDir, "index.html"))
				return
			}
			fileServer.ServeHTTP(w, req)
		}))
	}

	return r
}

// withWorkspaceRateLimit wraps a plain handler func with the workspace
// creation rate limit, since chi's route table takes http.HandlerFunc
// rather than http.Handler at registration time.
func (h *Handler) withWorkspaceRateLimit(next http.HandlerFunc) http.HandlerFunc {
	return h.rateLimitWorkspaceCreate(next).ServeHTTP
}
