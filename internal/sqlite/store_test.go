// Tests for the store lifecycle.
package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

func testConfig(t *testing.T) types.Config {
	t.Helper()
	return types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}
}

func openStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	if err := s.Open(testConfig(t)); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_Open(t *testing.T) {
	config := testConfig(t)

	s := NewStore()
	if err := s.Open(config); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(filepath.Join(config.DataDir, dbFileName)); os.IsNotExist(err) {
		t.Error("satchel.db not created")
	}

	if err := s.Open(config); err != types.ErrAlreadyOpen {
		t.Errorf("expected ErrAlreadyOpen, got %v", err)
	}
}

func TestStore_OpenRejectsBadConfig(t *testing.T) {
	s := NewStore()
	if err := s.Open(types.Config{}); err != types.ErrBackendEmpty {
		t.Errorf("expected ErrBackendEmpty, got %v", err)
	}
	if err := s.Open(types.Config{Backend: "dynamo"}); err != types.ErrBackendUnknown {
		t.Errorf("expected ErrBackendUnknown, got %v", err)
	}
}

func TestStore_Close(t *testing.T) {
	s := NewStore()
	if err := s.Open(testConfig(t)); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close should not error, got %v", err)
	}

	if _, err := s.ListWorkspaces(); err != types.ErrStoreClosed {
		t.Errorf("expected ErrStoreClosed, got %v", err)
	}
}

func TestStore_ReopenKeepsData(t *testing.T) {
	config := testConfig(t)

	s := NewStore()
	if err := s.Open(config); err != nil {
		t.Fatal(err)
	}
	ws := &types.Workspace{Name: "api"}
	if _, err := s.CreateWorkspace(ws); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2 := NewStore()
	if err := s2.Open(config); err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	got, err := s2.GetWorkspace(ws.WorkspaceID)
	if err != nil {
		t.Fatalf("workspace lost across reopen: %v", err)
	}
	if got.Name != "api" {
		t.Errorf("got name %q, want api", got.Name)
	}
}
