// This file implements mount persistence for the SQLite store. Mounts are
// resolved against candidate paths by the resolve package; the store only
// guarantees path uniqueness and deterministic listing order.
package sqlite

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// CreateMount persists a new mount. The path must be absolute and not yet
// mounted; overlap with existing mounts is allowed and resolved by
// longest-prefix match at lookup time.
func (s *Store) CreateMount(m *types.Mount) (string, error) {
	if err := s.checkOpen(); err != nil {
		return "", err
	}
	if m == nil || m.WorkspaceID == "" {
		return "", types.ErrInvalidData
	}
	if m.Path == "" || !filepath.IsAbs(m.Path) {
		return "", types.ErrInvalidData
	}
	m.Path = filepath.Clean(m.Path)

	var dupID string
	err := s.db.QueryRow("SELECT mount_id FROM mounts WHERE path = ?", m.Path).Scan(&dupID)
	if err == nil {
		return "", types.ErrDuplicateMountPath
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("checking mount uniqueness: %w", err)
	}

	tags, err := encodeStrings(m.Tags)
	if err != nil {
		return "", err
	}

	m.MountID = generateUUID()
	m.CreatedAt = now()

	_, err = s.db.Exec(
		"INSERT INTO mounts (mount_id, workspace_id, path, scope, tags, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		m.MountID, m.WorkspaceID, m.Path, m.Scope, tags, fmtTime(m.CreatedAt),
	)
	if err != nil {
		return "", fmt.Errorf("persisting mount: %w", err)
	}
	return m.MountID, nil
}

// ListMounts returns all mounts in insertion order. The order is the
// deterministic tie-break for equal-length prefix matches.
func (s *Store) ListMounts() ([]*types.Mount, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		"SELECT mount_id, workspace_id, path, scope, tags, created_at FROM mounts ORDER BY created_at, mount_id",
	)
	if err != nil {
		return nil, fmt.Errorf("listing mounts: %w", err)
	}
	defer rows.Close()

	var results []*types.Mount
	for rows.Next() {
		var m types.Mount
		var tags, createdAt string
		if err := rows.Scan(&m.MountID, &m.WorkspaceID, &m.Path, &m.Scope, &tags, &createdAt); err != nil {
			return nil, fmt.Errorf("hydrating mount: %w", err)
		}
		if m.Tags, err = decodeStrings(tags); err != nil {
			return nil, err
		}
		if m.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		results = append(results, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating mounts: %w", err)
	}
	return results, nil
}

// DeleteMount removes a mount by ID. Mounts are pure local bindings and are
// hard-deleted; they never sync.
func (s *Store) DeleteMount(id string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if id == "" {
		return types.ErrInvalidID
	}

	res, err := s.db.Exec("DELETE FROM mounts WHERE mount_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting mount %s: %w", id, err)
	}
	return requireAffected(res)
}
