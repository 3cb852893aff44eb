// This file implements context item persistence for the SQLite store.
// Every read path excludes soft-deleted rows; the *Any lookups used by the
// sync engine are the deliberate exceptions. Local writes stamp updated_at
// and never touch synced_at, which belongs to the sync engine alone.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/satchel/internal/resolve"
	"github.com/mesh-intelligence/satchel/pkg/types"
)

const contextColumns = "item_id, workspace_id, item_type, content, tags, scope, meta, remote_id, created_at, updated_at, synced_at, deleted_at"

// ContextFilter narrows ListContext results. Zero values mean "no filter".
// Tag membership and scope visibility are applied as post-filters over the
// decoded rows since tags are stored as an encoded set.
type ContextFilter struct {
	WorkspaceID string
	Type        string
	Tag         string
	QueryPath   string // workspace-relative path for scope visibility
	Limit       int
}

// CreateContext persists a new context item. Generates the item ID and
// stamps creation and update times. Scope defaults to the global wildcard.
func (s *Store) CreateContext(item *types.ContextItem) (string, error) {
	if err := s.checkOpen(); err != nil {
		return "", err
	}
	if item == nil || item.WorkspaceID == "" {
		return "", types.ErrInvalidData
	}
	if strings.TrimSpace(item.Content) == "" {
		return "", types.ErrInvalidContent
	}
	if !types.ValidItemType(item.Type) {
		return "", types.ErrInvalidType
	}
	if item.Scope == "" {
		item.Scope = types.ScopeGlobal
	}

	tags, err := encodeStrings(item.Tags)
	if err != nil {
		return "", err
	}
	meta, err := encodeMeta(item.Meta)
	if err != nil {
		return "", err
	}

	ts := now()
	item.ItemID = generateUUID()
	item.CreatedAt = ts
	item.UpdatedAt = ts

	_, err = s.db.Exec(
		"INSERT INTO context (item_id, workspace_id, item_type, content, tags, scope, meta, remote_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		item.ItemID, item.WorkspaceID, item.Type, item.Content, tags, item.Scope, meta, item.RemoteID,
		fmtTime(ts), fmtTime(ts),
	)
	if err != nil {
		return "", fmt.Errorf("persisting context item: %w", err)
	}
	return item.ItemID, nil
}

// UpdateContext overwrites the mutable fields of an existing item and
// stamps updated_at. Identity, creation time, and sync bookkeeping are
// untouched.
func (s *Store) UpdateContext(item *types.ContextItem) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if item == nil || item.ItemID == "" {
		return types.ErrInvalidID
	}
	if strings.TrimSpace(item.Content) == "" {
		return types.ErrInvalidContent
	}
	if !types.ValidItemType(item.Type) {
		return types.ErrInvalidType
	}

	tags, err := encodeStrings(item.Tags)
	if err != nil {
		return err
	}
	meta, err := encodeMeta(item.Meta)
	if err != nil {
		return err
	}

	item.UpdatedAt = now()
	res, err := s.db.Exec(
		"UPDATE context SET item_type = ?, content = ?, tags = ?, scope = ?, meta = ?, updated_at = ? WHERE item_id = ? AND deleted_at IS NULL",
		item.Type, item.Content, tags, item.Scope, meta, fmtTime(item.UpdatedAt), item.ItemID,
	)
	if err != nil {
		return fmt.Errorf("updating context item %s: %w", item.ItemID, err)
	}
	return requireAffected(res)
}

// SoftDeleteContext marks an item deleted. The row is retained so deletion
// propagates on the next push; updated_at is stamped to make the item
// pending again.
func (s *Store) SoftDeleteContext(id string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if id == "" {
		return types.ErrInvalidID
	}

	ts := fmtTime(now())
	res, err := s.db.Exec(
		"UPDATE context SET deleted_at = ?, updated_at = ? WHERE item_id = ? AND deleted_at IS NULL",
		ts, ts, id,
	)
	if err != nil {
		return fmt.Errorf("deleting context item %s: %w", id, err)
	}
	return requireAffected(res)
}

// GetContext retrieves a non-deleted item by ID.
func (s *Store) GetContext(id string) (*types.ContextItem, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, types.ErrInvalidID
	}

	row := s.db.QueryRow(
		"SELECT "+contextColumns+" FROM context WHERE item_id = ? AND deleted_at IS NULL", id,
	)
	item, err := hydrateContext(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting context item %s: %w", id, err)
	}
	return item, nil
}

// GetContextAny retrieves an item by ID including soft-deleted rows. Used
// by the sync engine to match incoming remote items against local identity.
func (s *Store) GetContextAny(id string) (*types.ContextItem, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, types.ErrInvalidID
	}

	row := s.db.QueryRow("SELECT "+contextColumns+" FROM context WHERE item_id = ?", id)
	item, err := hydrateContext(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting context item %s: %w", id, err)
	}
	return item, nil
}

// FindContextByRemoteID retrieves the workspace's item carrying the given
// remote ID, including soft-deleted rows.
func (s *Store) FindContextByRemoteID(workspaceID, remoteID string) (*types.ContextItem, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if workspaceID == "" || remoteID == "" {
		return nil, types.ErrInvalidID
	}

	row := s.db.QueryRow(
		"SELECT "+contextColumns+" FROM context WHERE workspace_id = ? AND remote_id = ?",
		workspaceID, remoteID,
	)
	item, err := hydrateContext(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("finding context item by remote ID %s: %w", remoteID, err)
	}
	return item, nil
}

// FindContextByPrefix returns every non-deleted item whose ID starts with
// the given prefix. Callers treat one match as a resolution, several as an
// ambiguous reference.
func (s *Store) FindContextByPrefix(prefix string) ([]*types.ContextItem, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if prefix == "" {
		return nil, types.ErrInvalidID
	}

	rows, err := s.db.Query(
		"SELECT "+contextColumns+" FROM context WHERE item_id LIKE ? AND deleted_at IS NULL ORDER BY item_id",
		prefix+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("finding context items by prefix: %w", err)
	}
	defer rows.Close()
	return collectContext(rows, 0)
}

// ResolveContextID resolves a full or shortened item ID to a single item.
// Returns ErrAmbiguousID when the prefix matches more than one item; the
// caller fetches the candidate set for reporting.
func (s *Store) ResolveContextID(ref string) (*types.ContextItem, error) {
	matches, err := s.FindContextByPrefix(ref)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, types.ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return nil, types.ErrAmbiguousID
	}
}

// ListContext returns non-deleted items matching the filter, newest first.
func (s *Store) ListContext(filter ContextFilter) ([]*types.ContextItem, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	query := "SELECT " + contextColumns + " FROM context WHERE deleted_at IS NULL"
	var args []any
	if filter.WorkspaceID != "" {
		query += " AND workspace_id = ?"
		args = append(args, filter.WorkspaceID)
	}
	if filter.Type != "" {
		if !types.ValidItemType(filter.Type) {
			return nil, types.ErrInvalidType
		}
		query += " AND item_type = ?"
		args = append(args, filter.Type)
	}
	query += " ORDER BY updated_at DESC, item_id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing context items: %w", err)
	}
	defer rows.Close()

	items, err := collectContext(rows, 0)
	if err != nil {
		return nil, err
	}

	// Tag and scope filters run over decoded rows.
	var results []*types.ContextItem
	for _, item := range items {
		if filter.Tag != "" && !item.HasTag(filter.Tag) {
			continue
		}
		if filter.QueryPath != "" && !resolve.ScopeMatches(item.Scope, filter.QueryPath) {
			continue
		}
		results = append(results, item)
		if filter.Limit > 0 && len(results) >= filter.Limit {
			break
		}
	}
	return results, nil
}

// RecentContext returns the most recently updated non-deleted items in a
// workspace, optionally narrowed by type. The similarity guard uses this
// window to bound the cost of each duplicate check.
func (s *Store) RecentContext(workspaceID, itemType string, limit int) ([]*types.ContextItem, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if workspaceID == "" {
		return nil, types.ErrInvalidID
	}

	query := "SELECT " + contextColumns + " FROM context WHERE workspace_id = ? AND deleted_at IS NULL"
	args := []any{workspaceID}
	if itemType != "" {
		query += " AND item_type = ?"
		args = append(args, itemType)
	}
	query += " ORDER BY updated_at DESC, item_id"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing recent context items: %w", err)
	}
	defer rows.Close()
	return collectContext(rows, 0)
}

// PendingSyncContext returns the workspace's items that the remote has not
// seen: never synced, or modified since the last successful sync. Soft-
// deleted items are included so deletion propagates.
func (s *Store) PendingSyncContext(workspaceID string) ([]*types.ContextItem, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if workspaceID == "" {
		return nil, types.ErrInvalidID
	}

	rows, err := s.db.Query(
		"SELECT "+contextColumns+" FROM context WHERE workspace_id = ? AND (synced_at IS NULL OR updated_at > synced_at) ORDER BY created_at, item_id",
		workspaceID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing pending context items: %w", err)
	}
	defer rows.Close()
	return collectContext(rows, 0)
}

// MarkContextSynced records a successful push of a single item. Exclusive
// to the sync engine; no other write path touches synced_at or remote_id.
func (s *Store) MarkContextSynced(id, remoteID string, at time.Time) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if id == "" {
		return types.ErrInvalidID
	}

	res, err := s.db.Exec(
		"UPDATE context SET remote_id = ?, synced_at = ? WHERE item_id = ?",
		remoteID, fmtTime(at), id,
	)
	if err != nil {
		return fmt.Errorf("marking context item %s synced: %w", id, err)
	}
	return requireAffected(res)
}

// ImportRemoteContext inserts an item received from the remote service,
// preserving the remote timestamps and stamping synced_at. Used by pull for
// items with no local identity.
func (s *Store) ImportRemoteContext(item *types.ContextItem, syncedAt time.Time) (string, error) {
	if err := s.checkOpen(); err != nil {
		return "", err
	}
	if item == nil || item.WorkspaceID == "" || item.RemoteID == "" {
		return "", types.ErrInvalidData
	}
	if !types.ValidItemType(item.Type) {
		return "", types.ErrInvalidType
	}
	if item.Scope == "" {
		item.Scope = types.ScopeGlobal
	}

	tags, err := encodeStrings(item.Tags)
	if err != nil {
		return "", err
	}
	meta, err := encodeMeta(item.Meta)
	if err != nil {
		return "", err
	}

	if item.ItemID == "" {
		item.ItemID = generateUUID()
	}
	ts := syncedAt
	item.SyncedAt = &ts

	_, err = s.db.Exec(
		"INSERT INTO context ("+contextColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		item.ItemID, item.WorkspaceID, item.Type, item.Content, tags, item.Scope, meta, item.RemoteID,
		fmtTime(item.CreatedAt), fmtTime(item.UpdatedAt), fmtTime(ts), fmtTimePtr(item.DeletedAt),
	)
	if err != nil {
		return "", fmt.Errorf("importing remote context item: %w", err)
	}
	return item.ItemID, nil
}

// ApplyRemoteContext overwrites a local item's mutable fields with the
// remote copy and stamps synced_at. Identity and creation metadata are
// preserved. Used by pull when the remote copy wins last-write-wins.
func (s *Store) ApplyRemoteContext(localID string, item *types.ContextItem, syncedAt time.Time) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if localID == "" {
		return types.ErrInvalidID
	}
	if item == nil || !types.ValidItemType(item.Type) {
		return types.ErrInvalidData
	}

	tags, err := encodeStrings(item.Tags)
	if err != nil {
		return err
	}
	meta, err := encodeMeta(item.Meta)
	if err != nil {
		return err
	}

	res, err := s.db.Exec(
		"UPDATE context SET item_type = ?, content = ?, tags = ?, scope = ?, meta = ?, remote_id = ?, updated_at = ?, synced_at = ?, deleted_at = ? WHERE item_id = ?",
		item.Type, item.Content, tags, item.Scope, meta, item.RemoteID,
		fmtTime(item.UpdatedAt), fmtTime(syncedAt), fmtTimePtr(item.DeletedAt), localID,
	)
	if err != nil {
		return fmt.Errorf("applying remote context item to %s: %w", localID, err)
	}
	return requireAffected(res)
}

// hydrateContext converts a row into a *types.ContextItem via the given
// scan function, shared between sql.Row and sql.Rows.
func hydrateContext(scan func(...any) error) (*types.ContextItem, error) {
	var item types.ContextItem
	var tags, meta, createdAt, updatedAt string
	var syncedAt, deletedAt sql.NullString
	if err := scan(&item.ItemID, &item.WorkspaceID, &item.Type, &item.Content, &tags, &item.Scope,
		&meta, &item.RemoteID, &createdAt, &updatedAt, &syncedAt, &deletedAt); err != nil {
		return nil, err
	}

	var err error
	if item.Tags, err = decodeStrings(tags); err != nil {
		return nil, err
	}
	if item.Meta, err = decodeMeta(meta); err != nil {
		return nil, err
	}
	if item.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if item.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if item.SyncedAt, err = parseTimePtr(syncedAt); err != nil {
		return nil, err
	}
	if item.DeletedAt, err = parseTimePtr(deletedAt); err != nil {
		return nil, err
	}
	return &item, nil
}

// collectContext drains rows into a slice, stopping at limit when positive.
func collectContext(rows *sql.Rows, limit int) ([]*types.ContextItem, error) {
	var results []*types.ContextItem
	for rows.Next() {
		item, err := hydrateContext(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("hydrating context item: %w", err)
		}
		results = append(results, item)
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating context items: %w", err)
	}
	return results, nil
}
