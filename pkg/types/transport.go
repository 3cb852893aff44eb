package types

import (
	"context"
	"time"
)

// RemoteItem is the wire representation of a context item exchanged with
// the remote service. ID is the remote identifier; LocalID carries the
// originating store's item ID so push responses can be correlated.
type RemoteItem struct {
	ID        string            `json:"id,omitempty"`
	LocalID   string            `json:"local_id,omitempty"`
	Type      string            `json:"type"`
	Content   string            `json:"content"`
	Tags      []string          `json:"tags,omitempty"`
	Scope     string            `json:"scope"`
	Meta      map[string]string `json:"meta,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	DeletedAt *time.Time        `json:"deleted_at,omitempty"`
}

// PushReceipt is the per-item outcome of a batch upsert. Exactly one of
// RemoteID or Error is meaningful: a receipt with a non-empty Error leaves
// the local item's sync state untouched.
type PushReceipt struct {
	LocalID  string `json:"local_id"`
	RemoteID string `json:"id,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Failed reports whether the receipt records a per-item failure.
func (r PushReceipt) Failed() bool {
	return r.Error != ""
}

// RemoteTransport is the boundary to the remote context service. Every
// method returns ErrOffline (possibly wrapped) when the service cannot be
// reached at the connection level, so callers are forced to distinguish
// "remote said no" from "remote not there".
type RemoteTransport interface {
	// CreateWorkspace registers a workspace remotely and returns the
	// remote workspace ID.
	CreateWorkspace(ctx context.Context, name, description, projectID string) (string, error)

	// SyncPush batch-upserts items into the remote workspace and returns
	// one receipt per submitted item. Partial failure is carried in the
	// receipts, not in the error.
	SyncPush(ctx context.Context, remoteWorkspaceID string, items []RemoteItem) ([]PushReceipt, error)

	// SyncPull returns the remote items modified strictly after since, or
	// all items when since is nil.
	SyncPull(ctx context.Context, remoteWorkspaceID string, since *time.Time) ([]RemoteItem, error)

	// LinkContext records a directed, typed edge between two remote items.
	// Re-creating an existing edge is idempotent on the remote side.
	LinkContext(ctx context.Context, remoteWorkspaceID, fromID, toID, relation string) error

	// GetRelated returns items linked to the given remote item within
	// depth hops.
	GetRelated(ctx context.Context, remoteWorkspaceID, itemID string, depth int) ([]RemoteItem, error)
}
