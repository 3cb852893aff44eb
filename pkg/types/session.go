package types

import "time"

// Session is a time-boxed window used to attribute context items to a unit
// of work. A nil EndedAt means the session is active. The store does not
// enforce a single active session per workspace; that is caller policy.
type Session struct {
	SessionID   string     `json:"session_id"`
	WorkspaceID string     `json:"workspace_id"`
	Name        string     `json:"name,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
}

// Active reports whether the session is still open.
func (s *Session) Active() bool {
	return s.EndedAt == nil
}
