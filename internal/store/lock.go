package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Humans-Not-Required/agent-docs/internal/apperr"
)

// UpdateLock reads the current lock triple on a document and atomically
// replaces it with whatever mutate returns. mutate returning (nil, nil)
// clears the lock; returning an error aborts the whole operation, leaving
// the row untouched. The document id must exist or ErrNotFound is returned.
func (s *Store) UpdateLock(ctx context.Context, documentID string, mutate func(current *LockState, now time.Time) (*LockState, error)) (*Document, error) {
	var doc *Document
	txErr := s.tx(ctx, func(ctx context.Context, tx dbTx) error {
		row := tx.QueryRowContext(ctx, `SELECT locked_by, locked_at, lock_expires_at FROM documents WHERE id = ?`, documentID)
		var lockedBy, lockedAt, lockExpiresAt sql.NullString
		if err := row.Scan(&lockedBy, &lockedAt, &lockExpiresAt); err != nil {
			return err
		}

		current, err := toLockState(lockedBy, lockedAt, lockExpiresAt)
		if err != nil {
			return err
		}

		now := s.now()
		next, err := mutate(current, now)
		if err != nil {
			return err
		}

		updatedAt := now
		if next == nil {
			_, err = tx.ExecContext(ctx, `
				UPDATE documents SET locked_by = NULL, locked_at = NULL, lock_expires_at = NULL, updated_at = ?
				WHERE id = ?`, formatTime(updatedAt), documentID)
		} else {
			_, err = tx.ExecContext(ctx, `
				UPDATE documents SET locked_by = ?, locked_at = ?, lock_expires_at = ?, updated_at = ?
				WHERE id = ?`, next.LockedBy, formatTime(next.LockedAt), formatTime(next.ExpiresAt), formatTime(updatedAt), documentID)
		}
		if err != nil {
			return err
		}

		row = tx.QueryRowContext(ctx, `
			SELECT id, workspace_id, title, slug, content, content_html, summary, tags, status, author_name, word_count, locked_by, locked_at, lock_expires_at, created_at, updated_at
			FROM documents WHERE id = ?`, documentID)
		d, err := scanDocument(row)
		if err != nil {
			return err
		}
		doc = d
		return nil
	})
	if errors.Is(txErr, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if txErr != nil {
		var lc *apperr.LockConflict
		var nl *apperr.NoLease
		if errors.As(txErr, &lc) || errors.As(txErr, &nl) {
			return nil, txErr
		}
		return nil, fmt.Errorf("store: update lock: %w", txErr)
	}
	sanitizeLock(doc, s.now())
	return doc, nil
}

func toLockState(lockedBy, lockedAt, lockExpiresAt sql.NullString) (*LockState, error) {
	if !lockedBy.Valid || !lockExpiresAt.Valid {
		return nil, nil
	}
	at, err := parseTime(lockedAt.String)
	if err != nil {
		return nil, err
	}
	exp, err := parseTime(lockExpiresAt.String)
	if err != nil {
		return nil, err
	}
	return &LockState{LockedBy: lockedBy.String, LockedAt: at, ExpiresAt: exp}, nil
}
