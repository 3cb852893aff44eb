package types

import "time"

// Workspace is a named container of captured context. ProjectID is the
// stable cross-machine identifier; RemoteID is assigned by the remote
// service on first sync. A workspace is bound to remote iff RemoteID is
// non-empty.
type Workspace struct {
	WorkspaceID string     `json:"workspace_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	ProjectID   string     `json:"project_id"`
	RemoteID    string     `json:"remote_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	SyncedAt    *time.Time `json:"synced_at,omitempty"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// Bound reports whether the workspace has been bound to the remote service.
func (w *Workspace) Bound() bool {
	return w.RemoteID != ""
}
