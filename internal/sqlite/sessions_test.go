package sqlite

import (
	"errors"
	"testing"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

func TestSession_StartAndEnd(t *testing.T) {
	s := openStore(t)
	ws := makeWorkspace(t, s)

	sess, err := s.StartSession(ws.WorkspaceID, "refactor auth")
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if !sess.Active() {
		t.Error("fresh session must be active")
	}

	active, err := s.ActiveSession(ws.WorkspaceID)
	if err != nil {
		t.Fatalf("ActiveSession failed: %v", err)
	}
	if active.SessionID != sess.SessionID || active.Name != "refactor auth" {
		t.Errorf("active session mismatch: %+v", active)
	}

	if err := s.EndSession(sess.SessionID, now()); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}
	if _, err := s.ActiveSession(ws.WorkspaceID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected no active session, got %v", err)
	}

	// Ending an already-ended session is not found.
	if err := s.EndSession(sess.SessionID, now()); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSession_List(t *testing.T) {
	s := openStore(t)
	ws := makeWorkspace(t, s)

	first, err := s.StartSession(ws.WorkspaceID, "one")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.EndSession(first.SessionID, now()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.StartSession(ws.WorkspaceID, "two"); err != nil {
		t.Fatal(err)
	}

	list, err := s.ListSessions(ws.WorkspaceID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d sessions, want 2", len(list))
	}
	if list[0].Name != "two" {
		t.Errorf("newest first expected, got %s", list[0].Name)
	}
}
