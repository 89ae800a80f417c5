package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Humans-Not-Required/agent-docs/internal/apperr"
	"github.com/Humans-Not-Required/agent-docs/internal/diff"
)

// ListVersions returns a document's version history, newest first.
func (s *Store) ListVersions(ctx context.Context, documentID string) ([]*DocumentVersion, error) {
	var out []*DocumentVersion
	err := s.rlock(func() error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, document_id, version_number, content, content_html, summary, author_name, change_description, word_count, created_at
			FROM document_versions WHERE document_id = ? ORDER BY version_number DESC`, documentID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			v, err := scanVersion(rows)
			if err != nil {
				return err
			}
			out = append(out, v)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("store: list versions: %w", err)
	}
	return out, nil
}

// GetVersion fetches a single version by its number.
func (s *Store) GetVersion(ctx context.Context, documentID string, number int) (*DocumentVersion, error) {
	var v *DocumentVersion
	err := s.rlock(func() error {
		row := s.db.QueryRowContext(ctx, `
			SELECT id, document_id, version_number, content, content_html, summary, author_name, change_description, word_count, created_at
			FROM document_versions WHERE document_id = ? AND version_number = ?`, documentID, number)
		got, err := scanVersion(row)
		if err != nil {
			return err
		}
		v = got
		return nil
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get version: %w", err)
	}
	return v, nil
}

// DiffVersions returns the unified diff and change stats between two
// versions of the same document.
func (s *Store) DiffVersions(ctx context.Context, documentID string, from, to int) (text string, insertions, deletions int, err error) {
	a, err := s.GetVersion(ctx, documentID, from)
	if err != nil {
		return "", 0, 0, err
	}
	b, err := s.GetVersion(ctx, documentID, to)
	if err != nil {
		return "", 0, 0, err
	}
	text = diff.Unified(fmt.Sprintf("version %d", from), fmt.Sprintf("version %d", to), a.Content, b.Content)
	insertions, deletions = diff.Stats(a.Content, b.Content)
	return text, insertions, deletions, nil
}

// RestoreVersion rewrites the document's current content from an older
// version, recording the restoration as a new version in its own right
// rather than rewinding the chain.
func (s *Store) RestoreVersion(ctx context.Context, documentID string, number int, author string) (*Document, error) {
	v, err := s.GetVersion(ctx, documentID, number)
	if err != nil {
		return nil, err
	}
	content := v.Content
	summary := v.Summary
	return s.UpdateDocument(ctx, documentID, DocumentPatch{
		Content: &content,
		Summary: &summary,
	}, author, fmt.Sprintf("Restored from version %d", number))
}

func scanVersion(row rowScanner) (*DocumentVersion, error) {
	var v DocumentVersion
	var createdAt string
	if err := row.Scan(&v.ID, &v.DocumentID, &v.VersionNumber, &v.Content, &v.ContentHTML, &v.Summary, &v.AuthorName, &v.ChangeDescription, &v.WordCount, &createdAt); err != nil {
		return nil, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	v.CreatedAt = t
	return &v, nil
}
