// This file implements session persistence for the SQLite store. The store
// does not enforce a single active session per workspace; that is caller
// policy, checked at the command layer.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

const sessionColumns = "session_id, workspace_id, name, started_at, ended_at"

// StartSession persists a new active session for a workspace.
func (s *Store) StartSession(workspaceID, name string) (*types.Session, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if workspaceID == "" {
		return nil, types.ErrInvalidID
	}

	sess := &types.Session{
		SessionID:   generateUUID(),
		WorkspaceID: workspaceID,
		Name:        name,
		StartedAt:   now(),
	}

	_, err := s.db.Exec(
		"INSERT INTO sessions (session_id, workspace_id, name, started_at) VALUES (?, ?, ?, ?)",
		sess.SessionID, sess.WorkspaceID, sess.Name, fmtTime(sess.StartedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("persisting session: %w", err)
	}
	return sess, nil
}

// EndSession closes a session at the given time.
func (s *Store) EndSession(id string, at time.Time) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if id == "" {
		return types.ErrInvalidID
	}

	res, err := s.db.Exec(
		"UPDATE sessions SET ended_at = ? WHERE session_id = ? AND ended_at IS NULL",
		fmtTime(at), id,
	)
	if err != nil {
		return fmt.Errorf("ending session %s: %w", id, err)
	}
	return requireAffected(res)
}

// ActiveSession returns the workspace's open session, or ErrNotFound when
// none is active. When caller policy has been bypassed and several are
// open, the most recently started one wins.
func (s *Store) ActiveSession(workspaceID string) (*types.Session, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if workspaceID == "" {
		return nil, types.ErrInvalidID
	}

	row := s.db.QueryRow(
		"SELECT "+sessionColumns+" FROM sessions WHERE workspace_id = ? AND ended_at IS NULL ORDER BY started_at DESC, session_id LIMIT 1",
		workspaceID,
	)
	sess, err := hydrateSession(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting active session: %w", err)
	}
	return sess, nil
}

// ListSessions returns a workspace's sessions, newest first.
func (s *Store) ListSessions(workspaceID string) ([]*types.Session, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if workspaceID == "" {
		return nil, types.ErrInvalidID
	}

	rows, err := s.db.Query(
		"SELECT "+sessionColumns+" FROM sessions WHERE workspace_id = ? ORDER BY started_at DESC, session_id",
		workspaceID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var results []*types.Session
	for rows.Next() {
		sess, err := hydrateSession(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("hydrating session: %w", err)
		}
		results = append(results, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return results, nil
}

func hydrateSession(scan func(...any) error) (*types.Session, error) {
	var sess types.Session
	var startedAt string
	var endedAt sql.NullString
	if err := scan(&sess.SessionID, &sess.WorkspaceID, &sess.Name, &startedAt, &endedAt); err != nil {
		return nil, err
	}
	var err error
	if sess.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, err
	}
	if sess.EndedAt, err = parseTimePtr(endedAt); err != nil {
		return nil, err
	}
	return &sess, nil
}
