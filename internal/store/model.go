package store

import "time"

// Workspace is a tenant boundary containing documents, comments, and events.
type Workspace struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	ManageKeyHash string    `json:"-"`
	IsPublic      bool      `json:"is_public"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// WorkspacePatch carries the subset of workspace fields PATCH may touch.
type WorkspacePatch struct {
	Name        *string
	Description *string
	IsPublic    *bool
}

// Status is the closed enum a Document's Status field is restricted to.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// ValidStatus reports whether s is one of the closed enum values.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	default:
		return false
	}
}

// Document belongs to exactly one workspace.
type Document struct {
	ID            string     `json:"id"`
	WorkspaceID   string     `json:"workspace_id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content"`
	ContentHTML   string     `json:"content_html"`
	Summary       string     `json:"summary"`
	Tags          []string   `json:"tags"`
	Status        string     `json:"status"`
	AuthorName    string     `json:"author_name"`
	WordCount     int        `json:"word_count"`
	LockedBy      *string    `json:"locked_by,omitempty"`
	LockedAt      *time.Time `json:"locked_at,omitempty"`
	LockExpiresAt *time.Time `json:"lock_expires_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// DocumentPatch carries the subset of document fields an update may touch.
// A nil field is left unchanged.
type DocumentPatch struct {
	Title   *string
	Content *string
	Summary *string
	Tags    *[]string
	Status  *string
}

// DocumentVersion is an immutable historical snapshot of a document.
type DocumentVersion struct {
	ID                 string    `json:"id"`
	DocumentID         string    `json:"document_id"`
	VersionNumber      int       `json:"version_number"`
	Content            string    `json:"content"`
	ContentHTML        string    `json:"content_html"`
	Summary            string    `json:"summary"`
	AuthorName         string    `json:"author_name"`
	ChangeDescription  string    `json:"change_description"`
	WordCount          int       `json:"word_count"`
	CreatedAt          time.Time `json:"created_at"`
}

// Comment belongs to a document and may reply to another comment.
type Comment struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id"`
	ParentID    *string   `json:"parent_id,omitempty"`
	AuthorName  string    `json:"author_name"`
	Content     string    `json:"content"`
	Resolved    bool      `json:"resolved"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LockState is the live lease triple on a Document, or nil when unset.
type LockState struct {
	LockedBy  string
	LockedAt  time.Time
	ExpiresAt time.Time
}
