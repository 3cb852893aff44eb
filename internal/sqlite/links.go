// This file implements link persistence for the SQLite store. A link is a
// directed, typed edge between two context items; at most one link exists
// per ordered (from, to) pair.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

const linkColumns = "link_id, from_id, to_id, relation, created_at"

// CreateLink persists a new link. Both endpoints must be existing,
// non-deleted context items. A second link with the same endpoints and
// direction is rejected with ErrDuplicateLink; the reverse direction is a
// distinct edge.
func (s *Store) CreateLink(l *types.Link) (string, error) {
	if err := s.checkOpen(); err != nil {
		return "", err
	}
	if l == nil || l.FromID == "" || l.ToID == "" {
		return "", types.ErrInvalidData
	}
	if !types.ValidRelation(l.Relation) {
		return "", types.ErrInvalidRelation
	}

	if _, err := s.GetContext(l.FromID); err != nil {
		return "", fmt.Errorf("link source: %w", err)
	}
	if _, err := s.GetContext(l.ToID); err != nil {
		return "", fmt.Errorf("link target: %w", err)
	}

	var dupID string
	err := s.db.QueryRow(
		"SELECT link_id FROM links WHERE from_id = ? AND to_id = ?", l.FromID, l.ToID,
	).Scan(&dupID)
	if err == nil {
		return "", types.ErrDuplicateLink
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("checking link uniqueness: %w", err)
	}

	l.LinkID = generateUUID()
	l.CreatedAt = now()

	_, err = s.db.Exec(
		"INSERT INTO links (link_id, from_id, to_id, relation, created_at) VALUES (?, ?, ?, ?, ?)",
		l.LinkID, l.FromID, l.ToID, l.Relation, fmtTime(l.CreatedAt),
	)
	if err != nil {
		return "", fmt.Errorf("persisting link: %w", err)
	}
	return l.LinkID, nil
}

// LinksFrom returns the outbound links of an item, oldest first.
func (s *Store) LinksFrom(itemID string) ([]*types.Link, error) {
	return s.queryLinks("SELECT "+linkColumns+" FROM links WHERE from_id = ? ORDER BY created_at, link_id", itemID)
}

// LinksTo returns the inbound links of an item, oldest first.
func (s *Store) LinksTo(itemID string) ([]*types.Link, error) {
	return s.queryLinks("SELECT "+linkColumns+" FROM links WHERE to_id = ? ORDER BY created_at, link_id", itemID)
}

// WorkspaceLinks returns every link whose source item belongs to the given
// workspace. Used by the sync engine to push the workspace's edges.
func (s *Store) WorkspaceLinks(workspaceID string) ([]*types.Link, error) {
	if workspaceID == "" {
		return nil, types.ErrInvalidID
	}
	return s.queryLinks(
		"SELECT l.link_id, l.from_id, l.to_id, l.relation, l.created_at FROM links l JOIN context c ON l.from_id = c.item_id WHERE c.workspace_id = ? ORDER BY l.created_at, l.link_id",
		workspaceID,
	)
}

func (s *Store) queryLinks(query string, args ...any) ([]*types.Link, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching links: %w", err)
	}
	defer rows.Close()

	var results []*types.Link
	for rows.Next() {
		var l types.Link
		var createdAt string
		if err := rows.Scan(&l.LinkID, &l.FromID, &l.ToID, &l.Relation, &createdAt); err != nil {
			return nil, fmt.Errorf("hydrating link: %w", err)
		}
		if l.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		results = append(results, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating links: %w", err)
	}
	return results, nil
}
