package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Humans-Not-Required/agent-docs/internal/apperr"
	"github.com/Humans-Not-Required/agent-docs/internal/idgen"
)

// CreateComment adds a comment to a document, optionally replying to
// another comment.
func (s *Store) CreateComment(ctx context.Context, documentID string, parentID *string, author, content string) (*Comment, error) {
	now := s.now()
	c := &Comment{
		ID:         idgen.EntityID(),
		DocumentID: documentID,
		ParentID:   parentID,
		AuthorName: author,
		Content:    content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err := s.tx(ctx, func(ctx context.Context, tx dbTx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO comments (id, document_id, parent_id, author_name, content, resolved, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
			c.ID, c.DocumentID, c.ParentID, c.AuthorName, c.Content, formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("store: create comment: %w", err)
	}
	return c, nil
}

// ListComments returns a document's comments ordered oldest first, so
// replies naturally follow the comment they reference.
func (s *Store) ListComments(ctx context.Context, documentID string) ([]*Comment, error) {
	var out []*Comment
	err := s.rlock(func() error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, document_id, parent_id, author_name, content, resolved, created_at, updated_at
			FROM comments WHERE document_id = ? ORDER BY created_at ASC`, documentID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			c, err := scanComment(rows)
			if err != nil {
				return err
			}
			out = append(out, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("store: list comments: %w", err)
	}
	return out, nil
}

// UpdateCommentPatch carries the subset of comment fields an update may
// touch. A nil field is left unchanged.
type UpdateCommentPatch struct {
	Content  *string
	Resolved *bool
}

// UpdateComment edits a comment's text and/or resolved flag. Both changes
// bump updated_at.
func (s *Store) UpdateComment(ctx context.Context, id string, patch UpdateCommentPatch) (*Comment, error) {
	var c *Comment
	err := s.tx(ctx, func(ctx context.Context, tx dbTx) error {
		row := tx.QueryRowContext(ctx, `
			SELECT id, document_id, parent_id, author_name, content, resolved, created_at, updated_at
			FROM comments WHERE id = ?`, id)
		cur, err := scanComment(row)
		if err != nil {
			return err
		}
		if patch.Content != nil {
			cur.Content = *patch.Content
		}
		if patch.Resolved != nil {
			cur.Resolved = *patch.Resolved
		}
		cur.UpdatedAt = s.now()

		if _, err := tx.ExecContext(ctx, `
			UPDATE comments SET content = ?, resolved = ?, updated_at = ? WHERE id = ?`,
			cur.Content, boolToInt(cur.Resolved), formatTime(cur.UpdatedAt), id); err != nil {
			return err
		}
		c = cur
		return nil
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: update comment: %w", err)
	}
	return c, nil
}

// DeleteComment removes a comment and, by ON DELETE CASCADE, every reply
// chained beneath it.
func (s *Store) DeleteComment(ctx context.Context, id string) error {
	var found bool
	err := s.tx(ctx, func(ctx context.Context, tx dbTx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		found = n > 0
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: delete comment: %w", err)
	}
	if !found {
		return apperr.ErrNotFound
	}
	return nil
}

func scanComment(row rowScanner) (*Comment, error) {
	var c Comment
	var parentID sql.NullString
	var resolved int
	var createdAt, updatedAt string
	if err := row.Scan(&c.ID, &c.DocumentID, &parentID, &c.AuthorName, &c.Content, &resolved, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if parentID.Valid {
		v := parentID.String
		c.ParentID = &v
	}
	c.Resolved = resolved != 0
	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
