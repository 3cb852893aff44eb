package types

import "time"

// Context item type constants. The set is fixed; writes with any other
// value are rejected with ErrInvalidType.
const (
	TypeConstraint = "constraint"
	TypeDecision   = "decision"
	TypeNote       = "note"
	TypeTask       = "task"
	TypeEntity     = "entity"
	TypeRunbook    = "runbook"
	TypeSnippet    = "snippet"
)

// ScopeGlobal marks a context item as visible at every path in its
// workspace.
const ScopeGlobal = "*"

// validItemTypes is the set of recognized context item types.
var validItemTypes = map[string]bool{
	TypeConstraint: true,
	TypeDecision:   true,
	TypeNote:       true,
	TypeTask:       true,
	TypeEntity:     true,
	TypeRunbook:    true,
	TypeSnippet:    true,
}

// ValidItemType reports whether t is a recognized context item type.
func ValidItemType(t string) bool {
	return validItemTypes[t]
}

// ItemTypes lists the recognized context item types for enumeration.
var ItemTypes = []string{
	TypeConstraint,
	TypeDecision,
	TypeNote,
	TypeTask,
	TypeEntity,
	TypeRunbook,
	TypeSnippet,
}

// ContextItem is the atomic unit of captured knowledge. Tags is an
// unordered set; Meta is an opaque key/value payload. Both are stored as
// JSON text at the storage boundary. SyncedAt is owned exclusively by the
// sync engine; store writes never touch it. A non-nil DeletedAt excludes
// the item from every read path while keeping the row for sync and audit.
type ContextItem struct {
	ItemID      string            `json:"item_id"`
	WorkspaceID string            `json:"workspace_id"`
	Type        string            `json:"type"`
	Content     string            `json:"content"`
	Tags        []string          `json:"tags,omitempty"`
	Scope       string            `json:"scope"`
	Meta        map[string]string `json:"meta,omitempty"`
	RemoteID    string            `json:"remote_id,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	SyncedAt    *time.Time        `json:"synced_at,omitempty"`
	DeletedAt   *time.Time        `json:"deleted_at,omitempty"`
}

// Deleted reports whether the item has been soft-deleted.
func (c *ContextItem) Deleted() bool {
	return c.DeletedAt != nil
}

// HasTag reports whether the item carries the given tag.
func (c *ContextItem) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// PendingSync reports whether the item has local changes the remote has
// not seen: never synced, or modified since the last successful sync.
func (c *ContextItem) PendingSync() bool {
	return c.SyncedAt == nil || c.UpdatedAt.After(*c.SyncedAt)
}
