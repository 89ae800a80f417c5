package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Humans-Not-Required/agent-docs/internal/authguard"
	"github.com/Humans-Not-Required/agent-docs/internal/ratelimit"
	"github.com/Humans-Not-Required/agent-docs/internal/store"
)

type ctxKey int

const workspaceCtxKey ctxKey = iota

func withWorkspace(ctx context.Context, ws *store.Workspace) context.Context {
	return context.WithValue(ctx, workspaceCtxKey, ws)
}

func workspaceFromContext(ctx context.Context) *store.Workspace {
	ws, _ := ctx.Value(workspaceCtxKey).(*store.Workspace)
	return ws
}

// loadWorkspace resolves the :workspaceID path param into a Workspace and
// stores it on the request context, 404ing if it does not exist. It does
// not check the manage key; use requireManageKey for write routes.
func (h *Handler) loadWorkspace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "workspaceID")
		ws, err := h.store.GetWorkspace(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withWorkspace(r.Context(), ws)))
	})
}

// requireManageKey enforces that the request carries a key matching the
// workspace loaded by loadWorkspace. Missing and wrong keys are both
// reported as 401, matching the taxonomy's anti-probing requirement.
func (h *Handler) requireManageKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws := workspaceFromContext(r.Context())
		key := authguard.ExtractKey(r)
		if !authguard.Verify(key, ws.ManageKeyHash) {
			writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimitWorkspaceCreate throttles POST /workspaces per client IP.
func (h *Handler) rateLimitWorkspaceCreate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := h.limiter.Check(ratelimit.ClientIP(r), h.workspaceRateLimit)
		if !res.Allowed {
			writeError(w, http.StatusTooManyRequests, "rate_limited", "rate limited")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs each request's method, path and duration at info level.
func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.log.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).String(),
		)
	})
}

// cors allows any origin, matching the API's documented open-CORS policy
// for agent clients that have no cookie session to protect.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
