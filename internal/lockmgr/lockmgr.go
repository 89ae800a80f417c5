// Package lockmgr implements the advisory editing lease on top of the
// lock triple Store persists on each document row. It holds no state of
// its own; every call reads and writes through Store.UpdateLock so the
// read-check-write sequence is atomic.
package lockmgr

import (
	"context"
	"fmt"
	"time"

	"github.com/Humans-Not-Required/agent-docs/internal/apperr"
	"github.com/Humans-Not-Required/agent-docs/internal/store"
)

// DefaultTTL is the lease lifetime used when a caller does not specify one.
const DefaultTTL = 60 * time.Second

// DocumentLocker is the subset of *store.Store the manager needs.
type DocumentLocker interface {
	UpdateLock(ctx context.Context, documentID string, mutate func(current *store.LockState, now time.Time) (*store.LockState, error)) (*store.Document, error)
}

// Manager grants, renews, and releases document editing leases.
type Manager struct {
	store DocumentLocker
}

// New builds a Manager backed by s.
func New(s DocumentLocker) *Manager {
	return &Manager{store: s}
}

// Acquire grants editor a lease on documentID for ttl, as long as the
// current lease (if any) is unset, expired, or already held by editor.
func (m *Manager) Acquire(ctx context.Context, documentID, editor string, ttl time.Duration) (*store.Document, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	doc, err := m.store.UpdateLock(ctx, documentID, func(current *store.LockState, now time.Time) (*store.LockState, error) {
		if current != nil && current.ExpiresAt.After(now) && current.LockedBy != editor {
			return nil, &apperr.LockConflict{Holder: current.LockedBy, ExpiresAt: current.ExpiresAt}
		}
		return &store.LockState{LockedBy: editor, LockedAt: now, ExpiresAt: now.Add(ttl)}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("lockmgr: acquire: %w", err)
	}
	return doc, nil
}

// Renew resets editor's existing lease to expire ttl from now, leaving
// LockedAt unchanged. It fails with NoLease if
// there is no live lease, and with LockConflict if the live lease belongs
// to a different editor.
func (m *Manager) Renew(ctx context.Context, documentID, editor string, ttl time.Duration) (*store.Document, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	doc, err := m.store.UpdateLock(ctx, documentID, func(current *store.LockState, now time.Time) (*store.LockState, error) {
		if current == nil || !current.ExpiresAt.After(now) {
			return nil, &apperr.NoLease{}
		}
		if current.LockedBy != editor {
			return nil, &apperr.LockConflict{Holder: current.LockedBy, ExpiresAt: current.ExpiresAt}
		}
		return &store.LockState{LockedBy: editor, LockedAt: current.LockedAt, ExpiresAt: now.Add(ttl)}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("lockmgr: renew: %w", err)
	}
	return doc, nil
}

// Release clears editor's lease. It is idempotent: releasing an unset or
// already-expired lease succeeds without error. Releasing a live lease held
// by a different editor fails with LockConflict.
func (m *Manager) Release(ctx context.Context, documentID, editor string) (*store.Document, error) {
	doc, err := m.store.UpdateLock(ctx, documentID, func(current *store.LockState, now time.Time) (*store.LockState, error) {
		if current == nil || current.LockedBy == editor || !current.ExpiresAt.After(now) {
			return nil, nil
		}
		return nil, &apperr.LockConflict{Holder: current.LockedBy, ExpiresAt: current.ExpiresAt}
	})
	if err != nil {
		return nil, fmt.Errorf("lockmgr: release: %w", err)
	}
	return doc, nil
}
