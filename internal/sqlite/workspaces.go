// This file implements workspace persistence for the SQLite store.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

const workspaceColumns = "workspace_id, name, description, project_id, remote_id, created_at, updated_at, synced_at, deleted_at"

// CreateWorkspace persists a new workspace. Generates the workspace ID and,
// when absent, the project ID. Returns ErrDuplicateProjectID if another
// workspace already carries the same project ID.
func (s *Store) CreateWorkspace(w *types.Workspace) (string, error) {
	if err := s.checkOpen(); err != nil {
		return "", err
	}
	if w == nil || w.Name == "" {
		return "", types.ErrInvalidData
	}

	if w.ProjectID == "" {
		w.ProjectID = generateUUID()
	}

	var dupID string
	err := s.db.QueryRow(
		"SELECT workspace_id FROM workspaces WHERE project_id = ? AND deleted_at IS NULL",
		w.ProjectID,
	).Scan(&dupID)
	if err == nil {
		return "", types.ErrDuplicateProjectID
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("checking project ID uniqueness: %w", err)
	}

	ts := now()
	w.WorkspaceID = generateUUID()
	w.CreatedAt = ts
	w.UpdatedAt = ts

	_, err = s.db.Exec(
		"INSERT INTO workspaces (workspace_id, name, description, project_id, remote_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		w.WorkspaceID, w.Name, w.Description, w.ProjectID, w.RemoteID, fmtTime(ts), fmtTime(ts),
	)
	if err != nil {
		return "", fmt.Errorf("persisting workspace: %w", err)
	}
	return w.WorkspaceID, nil
}

// GetWorkspace retrieves a workspace by ID, excluding soft-deleted rows.
func (s *Store) GetWorkspace(id string) (*types.Workspace, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, types.ErrInvalidID
	}

	row := s.db.QueryRow(
		"SELECT "+workspaceColumns+" FROM workspaces WHERE workspace_id = ? AND deleted_at IS NULL",
		id,
	)
	w, err := hydrateWorkspace(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting workspace %s: %w", id, err)
	}
	return w, nil
}

// FindWorkspaceByName retrieves a workspace by exact name.
func (s *Store) FindWorkspaceByName(name string) (*types.Workspace, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, types.ErrInvalidID
	}

	row := s.db.QueryRow(
		"SELECT "+workspaceColumns+" FROM workspaces WHERE name = ? AND deleted_at IS NULL ORDER BY created_at LIMIT 1",
		name,
	)
	w, err := hydrateWorkspace(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("finding workspace %q: %w", name, err)
	}
	return w, nil
}

// ListWorkspaces returns all non-deleted workspaces, oldest first.
func (s *Store) ListWorkspaces() ([]*types.Workspace, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		"SELECT " + workspaceColumns + " FROM workspaces WHERE deleted_at IS NULL ORDER BY created_at",
	)
	if err != nil {
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}
	defer rows.Close()

	var results []*types.Workspace
	for rows.Next() {
		w, err := hydrateWorkspaceFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating workspace: %w", err)
		}
		results = append(results, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating workspaces: %w", err)
	}
	return results, nil
}

// BindWorkspaceRemote records the remote ID assigned to a workspace by the
// remote service. Does not touch synced_at; binding is not a sync.
func (s *Store) BindWorkspaceRemote(id, remoteID string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if id == "" || remoteID == "" {
		return types.ErrInvalidID
	}

	res, err := s.db.Exec(
		"UPDATE workspaces SET remote_id = ?, updated_at = ? WHERE workspace_id = ? AND deleted_at IS NULL",
		remoteID, fmtTime(now()), id,
	)
	if err != nil {
		return fmt.Errorf("binding workspace %s: %w", id, err)
	}
	return requireAffected(res)
}

// MarkWorkspaceSynced advances the workspace's sync watermark. Exclusive to
// the sync engine.
func (s *Store) MarkWorkspaceSynced(id string, at time.Time) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if id == "" {
		return types.ErrInvalidID
	}

	res, err := s.db.Exec(
		"UPDATE workspaces SET synced_at = ? WHERE workspace_id = ? AND deleted_at IS NULL",
		fmtTime(at), id,
	)
	if err != nil {
		return fmt.Errorf("marking workspace %s synced: %w", id, err)
	}
	return requireAffected(res)
}

// requireAffected maps a zero-row UPDATE to ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// hydrateWorkspace converts a single SQLite row into a *types.Workspace.
func hydrateWorkspace(row *sql.Row) (*types.Workspace, error) {
	var w types.Workspace
	var createdAt, updatedAt string
	var syncedAt, deletedAt sql.NullString
	if err := row.Scan(&w.WorkspaceID, &w.Name, &w.Description, &w.ProjectID, &w.RemoteID,
		&createdAt, &updatedAt, &syncedAt, &deletedAt); err != nil {
		return nil, err
	}
	return finishWorkspace(&w, createdAt, updatedAt, syncedAt, deletedAt)
}

// hydrateWorkspaceFromRows converts a row from sql.Rows into a *types.Workspace.
func hydrateWorkspaceFromRows(rows *sql.Rows) (*types.Workspace, error) {
	var w types.Workspace
	var createdAt, updatedAt string
	var syncedAt, deletedAt sql.NullString
	if err := rows.Scan(&w.WorkspaceID, &w.Name, &w.Description, &w.ProjectID, &w.RemoteID,
		&createdAt, &updatedAt, &syncedAt, &deletedAt); err != nil {
		return nil, err
	}
	return finishWorkspace(&w, createdAt, updatedAt, syncedAt, deletedAt)
}

func finishWorkspace(w *types.Workspace, createdAt, updatedAt string, syncedAt, deletedAt sql.NullString) (*types.Workspace, error) {
	var err error
	if w.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if w.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if w.SyncedAt, err = parseTimePtr(syncedAt); err != nil {
		return nil, err
	}
	if w.DeletedAt, err = parseTimePtr(deletedAt); err != nil {
		return nil, err
	}
	return w, nil
}
