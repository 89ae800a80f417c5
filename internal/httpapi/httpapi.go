// Package httpapi maps the external HTTP+JSON interface onto the server's
// components: Store, LockManager, EventBus, RateLimiter, and AuthGuard. It
// owns no state of its own.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Humans-Not-Required/agent-docs/internal/eventbus"
	"github.com/Humans-Not-Required/agent-docs/internal/lockmgr"
	"github.com/Humans-Not-Required/agent-docs/internal/logging"
	"github.com/Humans-Not-Required/agent-docs/internal/ratelimit"
	"github.com/Humans-Not-Required/agent-docs/internal/store"
)

// timeFormat is the RFC 3339 UTC rendering used in every JSON response.
const timeFormat = time.RFC3339Nano

// Handler holds every dependency the route handlers need.
type Handler struct {
	store   *store.Store
	locks   *lockmgr.Manager
	bus     *eventbus.Bus
	limiter *ratelimit.Limiter
	log     logging.Logger

	workspaceRateLimit int
	defaultLockTTL     time.Duration
}

// Deps bundles the constructor arguments for Handler.
type Deps struct {
	Store              *store.Store
	Locks              *lockmgr.Manager
	Bus                *eventbus.Bus
	Limiter            *ratelimit.Limiter
	Logger             logging.Logger
	WorkspaceRateLimit int
	DefaultLockTTL     time.Duration
}

// New builds a Handler from its dependencies.
func New(d Deps) *Handler {
	if d.DefaultLockTTL <= 0 {
		d.DefaultLockTTL = lockmgr.DefaultTTL
	}
	return &Handler{
		store:              d.Store,
		locks:              d.Locks,
		bus:                d.Bus,
		limiter:            d.Limiter,
		log:                d.Logger,
		workspaceRateLimit: d.WorkspaceRateLimit,
		defaultLockTTL:     d.DefaultLockTTL,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type errorBody struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code      string     `json:"code"`
	Message   string     `json:"message"`
	Holder    string     `json:"holder,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: errorPayload{Code: code, Message: message}})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
