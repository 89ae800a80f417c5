package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Humans-Not-Required/agent-docs/internal/apperr"
	"github.com/Humans-Not-Required/agent-docs/internal/cryptox"
	"github.com/Humans-Not-Required/agent-docs/internal/idgen"
)

// CreateWorkspace inserts a new workspace and returns it along with the
// plaintext manage key, which is returned exactly once and never persisted.
func (s *Store) CreateWorkspace(ctx context.Context, name, description string, isPublic bool) (*Workspace, string, error) {
	id, err := idgen.WorkspaceID()
	if err != nil {
		return nil, "", fmt.Errorf("store: %w", err)
	}
	key, err := idgen.RandomHex(16)
	if err != nil {
		return nil, "", fmt.Errorf("store: %w", err)
	}
	keyHash, err := cryptox.HashSecret(key)
	if err != nil {
		return nil, "", fmt.Errorf("store: hash manage key: %w", err)
	}

	now := s.now()
	ws := &Workspace{
		ID:            id,
		Name:          name,
		Description:   description,
		ManageKeyHash: keyHash,
		IsPublic:      isPublic,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.tx(ctx, func(ctx context.Context, tx dbTx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO workspaces (id, name, description, manage_key_hash, is_public, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			ws.ID, ws.Name, ws.Description, ws.ManageKeyHash, boolToInt(ws.IsPublic), formatTime(ws.CreatedAt), formatTime(ws.UpdatedAt))
		return err
	})
	if err != nil {
		return nil, "", fmt.Errorf("store: create workspace: %w", err)
	}
	return ws, key, nil
}

// GetWorkspace fetches a workspace by id.
func (s *Store) GetWorkspace(ctx context.Context, id string) (*Workspace, error) {
	var ws *Workspace
	err := s.rlock(func() error {
		row := s.db.QueryRowContext(ctx, `
			SELECT id, name, description, manage_key_hash, is_public, created_at, updated_at
			FROM workspaces WHERE id = ?`, id)
		w, err := scanWorkspace(row)
		if err != nil {
			return err
		}
		ws = w
		return nil
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get workspace: %w", err)
	}
	return ws, nil
}

// ListPublicWorkspaces returns every workspace marked is_public, most
// recently updated first.
func (s *Store) ListPublicWorkspaces(ctx context.Context) ([]*Workspace, error) {
	var out []*Workspace
	err := s.rlock(func() error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, name, description, manage_key_hash, is_public, created_at, updated_at
			FROM workspaces WHERE is_public = 1 ORDER BY updated_at DESC`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			ws, err := scanWorkspace(rows)
			if err != nil {
				return err
			}
			out = append(out, ws)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("store: list public workspaces: %w", err)
	}
	return out, nil
}

// UpdateWorkspace applies patch to the workspace identified by id.
func (s *Store) UpdateWorkspace(ctx context.Context, id string, patch WorkspacePatch) (*Workspace, error) {
	var ws *Workspace
	err := s.tx(ctx, func(ctx context.Context, tx dbTx) error {
		row := tx.QueryRowContext(ctx, `
			SELECT id, name, description, manage_key_hash, is_public, created_at, updated_at
			FROM workspaces WHERE id = ?`, id)
		cur, err := scanWorkspace(row)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			cur.Name = *patch.Name
		}
		if patch.Description != nil {
			cur.Description = *patch.Description
		}
		if patch.IsPublic != nil {
			cur.IsPublic = *patch.IsPublic
		}
		cur.UpdatedAt = s.now()

		_, err = tx.ExecContext(ctx, `
			UPDATE workspaces SET name = ?, description = ?, is_public = ?, updated_at = ?
			WHERE id = ?`,
			cur.Name, cur.Description, boolToInt(cur.IsPublic), formatTime(cur.UpdatedAt), cur.ID)
		if err != nil {
			return err
		}
		ws = cur
		return nil
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: update workspace: %w", err)
	}
	return ws, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkspace(row rowScanner) (*Workspace, error) {
	var ws Workspace
	var isPublic int
	var createdAt, updatedAt string
	if err := row.Scan(&ws.ID, &ws.Name, &ws.Description, &ws.ManageKeyHash, &isPublic, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	ws.IsPublic = isPublic != 0
	var err error
	if ws.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if ws.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &ws, nil
}
