// Package sync reconciles the local store with the remote context service.
// Push and pull are independent one-way flows; bidirectional sync is push
// then pull, never interleaved, so pending local edits reach the remote
// before incoming changes are reconciled. Conflicts resolve by
// last-write-wins on updated_at, ties favoring the local copy. See
// docs/ARCHITECTURE.md § Sync Engine.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mesh-intelligence/satchel/internal/sqlite"
	"github.com/mesh-intelligence/satchel/pkg/types"
)

// Engine drives push/pull reconciliation for one store against one remote.
type Engine struct {
	store  *sqlite.Store
	remote types.RemoteTransport
	logger *slog.Logger
	clock  func() time.Time
}

// New creates a sync engine. A nil logger falls back to slog.Default.
func New(store *sqlite.Store, remote types.RemoteTransport, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:  store,
		remote: remote,
		logger: logger,
		clock:  func() time.Time { return time.Now().UTC() },
	}
}

// ItemFailure records one item that failed to push or pull. The batch
// continues past it.
type ItemFailure struct {
	ItemID string `json:"item_id"`
	Reason string `json:"reason"`
}

// Result summarizes one sync operation. Offline means the remote was
// unreachable and the operation made no progress; it is a recoverable
// outcome, not an error.
type Result struct {
	WorkspaceID string        `json:"workspace_id"`
	Pushed      int           `json:"pushed"`
	Pulled      int           `json:"pulled"`
	Updated     int           `json:"updated"`
	Failed      int           `json:"failed"`
	Offline     bool          `json:"offline"`
	Failures    []ItemFailure `json:"failures,omitempty"`
}

func (r *Result) merge(other *Result) {
	r.Pushed += other.Pushed
	r.Pulled += other.Pulled
	r.Updated += other.Updated
	r.Failed += other.Failed
	r.Offline = r.Offline || other.Offline
	r.Failures = append(r.Failures, other.Failures...)
}

// Sync performs push then pull for a workspace, sequentially. An offline
// push short-circuits the pull; the remote is not going to answer twice.
func (e *Engine) Sync(ctx context.Context, workspaceID string) (*Result, error) {
	result, err := e.Push(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if result.Offline {
		return result, nil
	}

	pulled, err := e.Pull(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	result.merge(pulled)
	return result, nil
}

// Push sends every pending item of the workspace to the remote batch
// upsert. Binding the workspace remotely is a precondition: its failure
// aborts the push. Per-item failures are recorded and do not abort the
// batch. Link pushes run last and their failures are swallowed; edges are
// re-created idempotently on the next sync.
func (e *Engine) Push(ctx context.Context, workspaceID string) (*Result, error) {
	ws, err := e.store.GetWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}
	result := &Result{WorkspaceID: workspaceID}

	if !ws.Bound() {
		remoteID, err := e.remote.CreateWorkspace(ctx, ws.Name, ws.Description, ws.ProjectID)
		if err != nil {
			if errors.Is(err, types.ErrOffline) {
				result.Offline = true
				return result, nil
			}
			return nil, fmt.Errorf("binding workspace %s: %w", workspaceID, err)
		}
		if err := e.store.BindWorkspaceRemote(ws.WorkspaceID, remoteID); err != nil {
			return nil, err
		}
		ws.RemoteID = remoteID
		e.logger.Debug("workspace bound to remote", "workspace", ws.Name, "remote_id", remoteID)
	}

	pending, err := e.store.PendingSyncContext(workspaceID)
	if err != nil {
		return nil, err
	}

	if len(pending) > 0 {
		items := make([]types.RemoteItem, len(pending))
		for i, item := range pending {
			items[i] = toWire(item)
		}

		receipts, err := e.remote.SyncPush(ctx, ws.RemoteID, items)
		if err != nil {
			if errors.Is(err, types.ErrOffline) {
				result.Offline = true
				return result, nil
			}
			return nil, fmt.Errorf("pushing workspace %s: %w", workspaceID, err)
		}

		for _, receipt := range receipts {
			if receipt.Failed() {
				result.Failed++
				result.Failures = append(result.Failures, ItemFailure{
					ItemID: receipt.LocalID,
					Reason: receipt.Error,
				})
				e.logger.Debug("item push failed", "item", receipt.LocalID, "reason", receipt.Error)
				continue
			}
			if err := e.store.MarkContextSynced(receipt.LocalID, receipt.RemoteID, e.clock()); err != nil {
				return nil, fmt.Errorf("marking item %s synced: %w", receipt.LocalID, err)
			}
			result.Pushed++
		}
	}

	e.pushLinks(ctx, ws)
	return result, nil
}

// pushLinks best-effort mirrors the workspace's edges to the remote. Links
// may legitimately already exist remotely; every failure is swallowed.
func (e *Engine) pushLinks(ctx context.Context, ws *types.Workspace) {
	links, err := e.store.WorkspaceLinks(ws.WorkspaceID)
	if err != nil {
		e.logger.Debug("listing links for push failed", "workspace", ws.Name, "error", err)
		return
	}

	for _, l := range links {
		from, err := e.store.GetContextAny(l.FromID)
		if err != nil || from.RemoteID == "" {
			continue
		}
		to, err := e.store.GetContextAny(l.ToID)
		if err != nil || to.RemoteID == "" {
			continue
		}
		if err := e.remote.LinkContext(ctx, ws.RemoteID, from.RemoteID, to.RemoteID, l.Relation); err != nil {
			e.logger.Debug("link push failed", "from", l.FromID, "to", l.ToID, "error", err)
		}
	}
}

// Pull fetches remote items modified since the workspace's sync watermark
// and reconciles them into the store. An item with no local identity is
// inserted fresh; an item with local identity overwrites the local copy
// only when the remote updated_at is strictly newer. Re-pulling the same
// snapshot therefore changes nothing. The watermark advances only after a
// pull without transport failure.
func (e *Engine) Pull(ctx context.Context, workspaceID string) (*Result, error) {
	ws, err := e.store.GetWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}
	if !ws.Bound() {
		return nil, types.ErrWorkspaceNotBound
	}
	result := &Result{WorkspaceID: workspaceID}

	// Taken before the fetch so remote writes landing mid-pull are seen
	// again next time.
	pullStart := e.clock()

	remoteItems, err := e.remote.SyncPull(ctx, ws.RemoteID, ws.SyncedAt)
	if err != nil {
		if errors.Is(err, types.ErrOffline) {
			result.Offline = true
			return result, nil
		}
		return nil, fmt.Errorf("pulling workspace %s: %w", workspaceID, err)
	}

	for _, ri := range remoteItems {
		local, err := e.matchLocal(workspaceID, ri)
		if err != nil {
			return nil, err
		}

		if local == nil {
			item := fromWire(workspaceID, ri)
			if _, err := e.store.ImportRemoteContext(item, e.clock()); err != nil {
				result.Failed++
				result.Failures = append(result.Failures, ItemFailure{ItemID: ri.ID, Reason: err.Error()})
				e.logger.Debug("importing remote item failed", "remote_id", ri.ID, "error", err)
				continue
			}
			result.Pulled++
			continue
		}

		if !ri.UpdatedAt.After(local.UpdatedAt) {
			continue // local copy wins ties and newer local edits
		}

		item := fromWire(workspaceID, ri)
		if err := e.store.ApplyRemoteContext(local.ItemID, item, e.clock()); err != nil {
			result.Failed++
			result.Failures = append(result.Failures, ItemFailure{ItemID: local.ItemID, Reason: err.Error()})
			e.logger.Debug("applying remote item failed", "item", local.ItemID, "error", err)
			continue
		}
		result.Updated++
	}

	if err := e.store.MarkWorkspaceSynced(workspaceID, pullStart); err != nil {
		return nil, err
	}
	return result, nil
}

// matchLocal finds the local item sharing identity with a remote item:
// first by the local ID echoed back by the remote, then by remote ID.
// Soft-deleted local rows still count as identity so pull never
// resurrects a deletion by re-insert.
func (e *Engine) matchLocal(workspaceID string, ri types.RemoteItem) (*types.ContextItem, error) {
	if ri.LocalID != "" {
		item, err := e.store.GetContextAny(ri.LocalID)
		if err == nil {
			return item, nil
		}
		if !errors.Is(err, types.ErrNotFound) {
			return nil, err
		}
	}
	if ri.ID != "" {
		item, err := e.store.FindContextByRemoteID(workspaceID, ri.ID)
		if err == nil {
			return item, nil
		}
		if !errors.Is(err, types.ErrNotFound) {
			return nil, err
		}
	}
	return nil, nil
}

// toWire converts a local item to its wire representation.
func toWire(item *types.ContextItem) types.RemoteItem {
	return types.RemoteItem{
		ID:        item.RemoteID,
		LocalID:   item.ItemID,
		Type:      item.Type,
		Content:   item.Content,
		Tags:      item.Tags,
		Scope:     item.Scope,
		Meta:      item.Meta,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
		DeletedAt: item.DeletedAt,
	}
}

// fromWire converts a remote item to a local item owned by the workspace,
// preserving remote timestamps.
func fromWire(workspaceID string, ri types.RemoteItem) *types.ContextItem {
	return &types.ContextItem{
		ItemID:      ri.LocalID,
		WorkspaceID: workspaceID,
		Type:        ri.Type,
		Content:     ri.Content,
		Tags:        ri.Tags,
		Scope:       ri.Scope,
		Meta:        ri.Meta,
		RemoteID:    ri.ID,
		CreatedAt:   ri.CreatedAt,
		UpdatedAt:   ri.UpdatedAt,
		DeletedAt:   ri.DeletedAt,
	}
}
