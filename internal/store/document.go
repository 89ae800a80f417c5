package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Humans-Not-Required/agent-docs/internal/apperr"
	"github.com/Humans-Not-Required/agent-docs/internal/idgen"
	"github.com/Humans-Not-Required/agent-docs/internal/render"
)

// Slugify mirrors the title-to-slug rule: lowercase, non-alphanumeric runs
// collapsed to a single hyphen, leading/trailing hyphens trimmed.
func Slugify(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	parts := strings.Split(b.String(), "-")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "-")
}

// CreateDocument renders content to HTML, derives a unique slug from title,
// inserts the document, and snapshots it as version 1.
func (s *Store) CreateDocument(ctx context.Context, workspaceID, title, content, summary string, tags []string, status, author string) (*Document, error) {
	if status == "" {
		status = string(StatusDraft)
	}
	if !ValidStatus(status) {
		return nil, fmt.Errorf("store: %w: invalid status %q", apperr.ErrBadRequest, status)
	}
	tagsJSON, err := marshalTags(tags)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	now := s.now()
	doc := &Document{
		ID:          idgen.EntityID(),
		WorkspaceID: workspaceID,
		Title:       title,
		Content:     content,
		ContentHTML: render.HTML(content),
		Summary:     summary,
		Tags:        tags,
		Status:      status,
		AuthorName:  author,
		WordCount:   render.WordCount(content),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.tx(ctx, func(ctx context.Context, tx dbTx) error {
		slug, err := uniqueSlug(ctx, tx, workspaceID, Slugify(title))
		if err != nil {
			return err
		}
		doc.Slug = slug

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO documents (id, workspace_id, title, slug, content, content_html, summary, tags, status, author_name, word_count, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			doc.ID, doc.WorkspaceID, doc.Title, doc.Slug, doc.Content, doc.ContentHTML, doc.Summary, tagsJSON, doc.Status, doc.AuthorName, doc.WordCount, formatTime(doc.CreatedAt), formatTime(doc.UpdatedAt)); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO document_versions (id, document_id, version_number, content, content_html, summary, author_name, change_description, word_count, created_at)
			VALUES (?, ?, 1, ?, ?, ?, ?, 'Initial version', ?, ?)`,
			idgen.EntityID(), doc.ID, doc.Content, doc.ContentHTML, doc.Summary, doc.AuthorName, doc.WordCount, formatTime(doc.CreatedAt))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("store: create document: %w", err)
	}
	return doc, nil
}

// uniqueSlug returns base, or base suffixed with -2, -3, … on collision
// within the workspace. If title yields an empty base, a short random hex
// token stands in for it.
func uniqueSlug(ctx context.Context, tx dbTx, workspaceID, base string) (string, error) {
	if base == "" {
		suffix, err := idgen.RandomHex(4)
		if err != nil {
			return "", err
		}
		base = suffix
	}
	slug := base
	for n := 2; ; n++ {
		var exists int
		row := tx.QueryRowContext(ctx, `SELECT 1 FROM documents WHERE workspace_id = ? AND slug = ?`, workspaceID, slug)
		err := row.Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}

// GetDocumentBySlug fetches a document by its workspace-scoped slug.
func (s *Store) GetDocumentBySlug(ctx context.Context, workspaceID, slug string) (*Document, error) {
	return s.getDocument(ctx, `
		SELECT id, workspace_id, title, slug, content, content_html, summary, tags, status, author_name, word_count, locked_by, locked_at, lock_expires_at, created_at, updated_at
		FROM documents WHERE workspace_id = ? AND slug = ?`, workspaceID, slug)
}

// GetDocumentByID fetches a document by its id.
func (s *Store) GetDocumentByID(ctx context.Context, id string) (*Document, error) {
	return s.getDocument(ctx, `
		SELECT id, workspace_id, title, slug, content, content_html, summary, tags, status, author_name, word_count, locked_by, locked_at, lock_expires_at, created_at, updated_at
		FROM documents WHERE id = ?`, id)
}

func (s *Store) getDocument(ctx context.Context, query string, args ...any) (*Document, error) {
	var doc *Document
	err := s.rlock(func() error {
		row := s.db.QueryRowContext(ctx, query, args...)
		d, err := scanDocument(row)
		if err != nil {
			return err
		}
		doc = d
		return nil
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get document: %w", err)
	}
	sanitizeLock(doc, s.now())
	return doc, nil
}

// ListDocuments returns a workspace's documents ordered by most recently
// updated. Drafts and archived documents are excluded unless includeDrafts.
func (s *Store) ListDocuments(ctx context.Context, workspaceID string, includeDrafts bool) ([]*Document, error) {
	query := `
		SELECT id, workspace_id, title, slug, content, content_html, summary, tags, status, author_name, word_count, locked_by, locked_at, lock_expires_at, created_at, updated_at
		FROM documents WHERE workspace_id = ?`
	args := []any{workspaceID}
	if !includeDrafts {
		query += ` AND status = 'published'`
	}
	query += ` ORDER BY updated_at DESC`

	var out []*Document
	err := s.rlock(func() error {
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			d, err := scanDocument(rows)
			if err != nil {
				return err
			}
			out = append(out, d)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("store: list documents: %w", err)
	}
	now := s.now()
	for _, d := range out {
		sanitizeLock(d, now)
	}
	return out, nil
}

// Search returns documents in the workspace whose title, content, summary,
// or tags contain query, case-insensitively, most recently updated first.
// An empty query returns no results.
func (s *Store) Search(ctx context.Context, workspaceID, query string) ([]*Document, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	needle := "%" + strings.ToLower(query) + "%"

	var out []*Document
	err := s.rlock(func() error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, workspace_id, title, slug, content, content_html, summary, tags, status, author_name, word_count, locked_by, locked_at, lock_expires_at, created_at, updated_at
			FROM documents
			WHERE workspace_id = ? AND (
				LOWER(title) LIKE ? OR LOWER(content) LIKE ? OR LOWER(summary) LIKE ? OR LOWER(tags) LIKE ?
			)
			ORDER BY updated_at DESC`,
			workspaceID, needle, needle, needle, needle)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			d, err := scanDocument(rows)
			if err != nil {
				return err
			}
			out = append(out, d)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("store: search documents: %w", err)
	}
	now := s.now()
	for _, d := range out {
		sanitizeLock(d, now)
	}
	return out, nil
}

// UpdateDocument applies patch to a document. A non-nil Content bumps the
// version chain: the new state (content plus the other patched fields) is
// snapshotted as the next version in the same transaction that rewrites the
// row. A patch without Content creates no version.
func (s *Store) UpdateDocument(ctx context.Context, id string, patch DocumentPatch, author, changeDescription string) (*Document, error) {
	var doc *Document
	err := s.tx(ctx, func(ctx context.Context, tx dbTx) error {
		row := tx.QueryRowContext(ctx, `
			SELECT id, workspace_id, title, slug, content, content_html, summary, tags, status, author_name, word_count, locked_by, locked_at, lock_expires_at, created_at, updated_at
			FROM documents WHERE id = ?`, id)
		cur, err := scanDocument(row)
		if err != nil {
			return err
		}

		if patch.Title != nil {
			cur.Title = *patch.Title
		}
		if patch.Summary != nil {
			cur.Summary = *patch.Summary
		}
		if patch.Tags != nil {
			cur.Tags = *patch.Tags
		}
		if patch.Status != nil {
			if !ValidStatus(*patch.Status) {
				return fmt.Errorf("%w: invalid status %q", apperr.ErrBadRequest, *patch.Status)
			}
			cur.Status = *patch.Status
		}

		contentChanged := patch.Content != nil
		if contentChanged {
			cur.Content = *patch.Content
			cur.ContentHTML = render.HTML(cur.Content)
			cur.WordCount = render.WordCount(cur.Content)
		}
		cur.UpdatedAt = s.now()

		if contentChanged {
			var maxVersion int
			row := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version_number), 0) FROM document_versions WHERE document_id = ?`, id)
			if err := row.Scan(&maxVersion); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO document_versions (id, document_id, version_number, content, content_html, summary, author_name, change_description, word_count, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				idgen.EntityID(), id, maxVersion+1, cur.Content, cur.ContentHTML, cur.Summary, author, changeDescription, cur.WordCount, formatTime(cur.UpdatedAt)); err != nil {
				return err
			}
		}

		tagsJSON, err := marshalTags(cur.Tags)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE documents SET title = ?, content = ?, content_html = ?, summary = ?, tags = ?, status = ?, word_count = ?, updated_at = ?
			WHERE id = ?`,
			cur.Title, cur.Content, cur.ContentHTML, cur.Summary, tagsJSON, cur.Status, cur.WordCount, formatTime(cur.UpdatedAt), id); err != nil {
			return err
		}

		doc = cur
		return nil
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: update document: %w", err)
	}
	sanitizeLock(doc, s.now())
	return doc, nil
}

// DeleteDocument removes a document along with its versions and comments
// (enforced by ON DELETE CASCADE foreign keys).
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	var found bool
	err := s.tx(ctx, func(ctx context.Context, tx dbTx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
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
		return fmt.Errorf("store: delete document: %w", err)
	}
	if !found {
		return apperr.ErrNotFound
	}
	return nil
}

func scanDocument(row rowScanner) (*Document, error) {
	var d Document
	var tagsStr string
	var lockedBy, lockedAt, lockExpiresAt sql.NullString
	var createdAt, updatedAt string
	if err := row.Scan(&d.ID, &d.WorkspaceID, &d.Title, &d.Slug, &d.Content, &d.ContentHTML, &d.Summary,
		&tagsStr, &d.Status, &d.AuthorName, &d.WordCount, &lockedBy, &lockedAt, &lockExpiresAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	tags, err := unmarshalTags(tagsStr)
	if err != nil {
		return nil, err
	}
	d.Tags = tags

	if d.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if d.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if lockedBy.Valid {
		v := lockedBy.String
		d.LockedBy = &v
	}
	if lockedAt.Valid {
		t, err := parseTime(lockedAt.String)
		if err != nil {
			return nil, err
		}
		d.LockedAt = &t
	}
	if lockExpiresAt.Valid {
		t, err := parseTime(lockExpiresAt.String)
		if err != nil {
			return nil, err
		}
		d.LockExpiresAt = &t
	}
	return &d, nil
}

// sanitizeLock clears an expired lock triple from an in-memory Document
// without touching the stored row; the row is only rewritten the next time
// a writer acquires, renews, or releases the lock.
func sanitizeLock(d *Document, now time.Time) {
	if d.LockExpiresAt != nil && !d.LockExpiresAt.After(now) {
		d.LockedBy = nil
		d.LockedAt = nil
		d.LockExpiresAt = nil
	}
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("marshal tags: %w", err)
	}
	return string(b), nil
}

func unmarshalTags(s string) ([]string, error) {
	if s == "" {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(s), &tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	return tags, nil
}
