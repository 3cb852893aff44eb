package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

func makeWorkspace(t *testing.T, s *Store) *types.Workspace {
	t.Helper()
	ws := &types.Workspace{Name: "api"}
	if _, err := s.CreateWorkspace(ws); err != nil {
		t.Fatal(err)
	}
	return ws
}

func makeItem(t *testing.T, s *Store, wsID string, mutate func(*types.ContextItem)) *types.ContextItem {
	t.Helper()
	item := &types.ContextItem{WorkspaceID: wsID, Type: types.TypeNote, Content: "some note"}
	if mutate != nil {
		mutate(item)
	}
	if _, err := s.CreateContext(item); err != nil {
		t.Fatalf("CreateContext failed: %v", err)
	}
	return item
}

func TestContext_CreateAndGet(t *testing.T) {
	s := openStore(t)
	ws := makeWorkspace(t, s)

	item := makeItem(t, s, ws.WorkspaceID, func(c *types.ContextItem) {
		c.Type = types.TypeConstraint
		c.Content = "API must return JSON"
		c.Tags = []string{"api", "backend"}
		c.Meta = map[string]string{"source": "review"}
	})

	got, err := s.GetContext(item.ItemID)
	if err != nil {
		t.Fatalf("GetContext failed: %v", err)
	}
	if got.Content != "API must return JSON" || got.Type != types.TypeConstraint {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if len(got.Tags) != 2 || !got.HasTag("api") {
		t.Errorf("tags mismatch: %v", got.Tags)
	}
	if got.Meta["source"] != "review" {
		t.Errorf("meta mismatch: %v", got.Meta)
	}
	if got.Scope != types.ScopeGlobal {
		t.Errorf("scope default = %q, want %q", got.Scope, types.ScopeGlobal)
	}
	if !got.PendingSync() {
		t.Error("fresh item must be pending sync")
	}
}

func TestContext_CreateValidation(t *testing.T) {
	s := openStore(t)
	ws := makeWorkspace(t, s)

	tests := []struct {
		name    string
		item    *types.ContextItem
		wantErr error
	}{
		{"empty content", &types.ContextItem{WorkspaceID: ws.WorkspaceID, Type: types.TypeNote, Content: "   "}, types.ErrInvalidContent},
		{"bad type", &types.ContextItem{WorkspaceID: ws.WorkspaceID, Type: "idea", Content: "x"}, types.ErrInvalidType},
		{"no workspace", &types.ContextItem{Type: types.TypeNote, Content: "x"}, types.ErrInvalidData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.CreateContext(tt.item); !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestContext_UpdateStampsUpdatedAtOnly(t *testing.T) {
	s := openStore(t)
	ws := makeWorkspace(t, s)
	item := makeItem(t, s, ws.WorkspaceID, nil)

	if err := s.MarkContextSynced(item.ItemID, "r-1", now()); err != nil {
		t.Fatal(err)
	}

	item.Content = "edited note"
	if err := s.UpdateContext(item); err != nil {
		t.Fatalf("UpdateContext failed: %v", err)
	}

	got, err := s.GetContext(item.ItemID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Content != "edited note" {
		t.Errorf("content = %q", got.Content)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Error("updated_at not advanced")
	}
	if got.SyncedAt == nil {
		t.Fatal("update must not clear synced_at")
	}
	if !got.PendingSync() {
		t.Error("edited item must be pending again")
	}
}

func TestContext_SoftDelete(t *testing.T) {
	s := openStore(t)
	ws := makeWorkspace(t, s)
	item := makeItem(t, s, ws.WorkspaceID, nil)

	if err := s.SoftDeleteContext(item.ItemID); err != nil {
		t.Fatalf("SoftDeleteContext failed: %v", err)
	}

	// Excluded from every read path.
	if _, err := s.GetContext(item.ItemID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("deleted item visible via GetContext: %v", err)
	}
	list, err := s.ListContext(ContextFilter{WorkspaceID: ws.WorkspaceID})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("deleted item visible via ListContext")
	}
	recent, err := s.RecentContext(ws.WorkspaceID, "", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 0 {
		t.Errorf("deleted item visible via RecentContext")
	}

	// Retained for sync: still matchable and still pending.
	got, err := s.GetContextAny(item.ItemID)
	if err != nil {
		t.Fatalf("deleted item lost entirely: %v", err)
	}
	if !got.Deleted() {
		t.Error("DeletedAt not set")
	}
	pending, err := s.PendingSyncContext(ws.WorkspaceID)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 {
		t.Errorf("deleted item must remain pending for push, got %d", len(pending))
	}

	if err := s.SoftDeleteContext(item.ItemID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("double delete should be ErrNotFound, got %v", err)
	}
}

func TestContext_ListFilters(t *testing.T) {
	s := openStore(t)
	ws := makeWorkspace(t, s)

	makeItem(t, s, ws.WorkspaceID, func(c *types.ContextItem) {
		c.Type = types.TypeDecision
		c.Content = "use postgres"
		c.Tags = []string{"db"}
	})
	makeItem(t, s, ws.WorkspaceID, func(c *types.ContextItem) {
		c.Type = types.TypeTask
		c.Content = "migrate schema"
		c.Tags = []string{"db", "urgent"}
		c.Scope = "service/api"
	})
	makeItem(t, s, ws.WorkspaceID, func(c *types.ContextItem) {
		c.Type = types.TypeNote
		c.Content = "docs note"
		c.Scope = "docs"
	})

	t.Run("by type", func(t *testing.T) {
		list, err := s.ListContext(ContextFilter{WorkspaceID: ws.WorkspaceID, Type: types.TypeDecision})
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 1 || list[0].Content != "use postgres" {
			t.Errorf("type filter: %+v", list)
		}
	})

	t.Run("by tag", func(t *testing.T) {
		list, err := s.ListContext(ContextFilter{WorkspaceID: ws.WorkspaceID, Tag: "db"})
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 2 {
			t.Errorf("tag filter: got %d, want 2", len(list))
		}
	})

	t.Run("by scope either-ancestor rule", func(t *testing.T) {
		// Query under service/api/handlers: global and service/api match,
		// docs does not.
		list, err := s.ListContext(ContextFilter{WorkspaceID: ws.WorkspaceID, QueryPath: "service/api/handlers"})
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 2 {
			t.Errorf("scope filter: got %d, want 2: %+v", len(list), list)
		}
		for _, item := range list {
			if item.Scope == "docs" {
				t.Error("docs-scoped item visible under service/api/handlers")
			}
		}
	})

	t.Run("limit", func(t *testing.T) {
		list, err := s.ListContext(ContextFilter{WorkspaceID: ws.WorkspaceID, Limit: 1})
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 1 {
			t.Errorf("limit: got %d, want 1", len(list))
		}
	})

	t.Run("invalid type filter", func(t *testing.T) {
		if _, err := s.ListContext(ContextFilter{Type: "idea"}); !errors.Is(err, types.ErrInvalidType) {
			t.Errorf("expected ErrInvalidType, got %v", err)
		}
	})
}

func TestContext_RecentWindowOrder(t *testing.T) {
	s := openStore(t)
	ws := makeWorkspace(t, s)

	older := makeItem(t, s, ws.WorkspaceID, func(c *types.ContextItem) { c.Content = "older" })
	time.Sleep(2 * time.Millisecond)
	newer := makeItem(t, s, ws.WorkspaceID, func(c *types.ContextItem) { c.Content = "newer" })

	recent, err := s.RecentContext(ws.WorkspaceID, "", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0].ItemID != newer.ItemID {
		t.Errorf("recent window should return newest first, got %+v", recent)
	}
	_ = older
}

func TestContext_PendingSyncQuery(t *testing.T) {
	s := openStore(t)
	ws := makeWorkspace(t, s)

	synced := makeItem(t, s, ws.WorkspaceID, func(c *types.ContextItem) { c.Content = "synced item" })
	pending := makeItem(t, s, ws.WorkspaceID, func(c *types.ContextItem) { c.Content = "pending item" })

	if err := s.MarkContextSynced(synced.ItemID, "r-1", now()); err != nil {
		t.Fatal(err)
	}

	list, err := s.PendingSyncContext(ws.WorkspaceID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ItemID != pending.ItemID {
		t.Errorf("pending query wrong: %+v", list)
	}

	// Editing the synced item makes it pending again.
	synced.Content = "synced item, edited"
	if err := s.UpdateContext(synced); err != nil {
		t.Fatal(err)
	}
	list, err = s.PendingSyncContext(ws.WorkspaceID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Errorf("edited item not pending: got %d, want 2", len(list))
	}
}

func TestContext_ResolveByPrefix(t *testing.T) {
	s := openStore(t)
	ws := makeWorkspace(t, s)
	item := makeItem(t, s, ws.WorkspaceID, nil)

	got, err := s.ResolveContextID(item.ItemID[:8])
	if err != nil {
		t.Fatalf("ResolveContextID failed: %v", err)
	}
	if got.ItemID != item.ItemID {
		t.Errorf("resolved %s, want %s", got.ItemID, item.ItemID)
	}

	if _, err := s.ResolveContextID("zzzzzzzz"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// UUID v7 ids share a millisecond timestamp prefix, so two items
	// created back to back collide on a short prefix.
	makeItem(t, s, ws.WorkspaceID, nil)
	if _, err := s.ResolveContextID(item.ItemID[:4]); !errors.Is(err, types.ErrAmbiguousID) {
		t.Errorf("expected ErrAmbiguousID, got %v", err)
	}
}

func TestContext_ImportAndApplyRemote(t *testing.T) {
	s := openStore(t)
	ws := makeWorkspace(t, s)

	created := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)
	syncedAt := updated.Add(time.Hour)

	imported := &types.ContextItem{
		WorkspaceID: ws.WorkspaceID,
		Type:        types.TypeRunbook,
		Content:     "restart the ingest worker",
		RemoteID:    "r-55",
		CreatedAt:   created,
		UpdatedAt:   updated,
	}
	id, err := s.ImportRemoteContext(imported, syncedAt)
	if err != nil {
		t.Fatalf("ImportRemoteContext failed: %v", err)
	}

	got, err := s.GetContext(id)
	if err != nil {
		t.Fatal(err)
	}
	if !got.CreatedAt.Equal(created) || !got.UpdatedAt.Equal(updated) {
		t.Errorf("remote timestamps not preserved: %+v", got)
	}
	if got.SyncedAt == nil || !got.SyncedAt.Equal(syncedAt) {
		t.Errorf("synced_at = %v, want %v", got.SyncedAt, syncedAt)
	}
	if got.PendingSync() {
		t.Error("imported item must not be pending")
	}

	newer := updated.Add(2 * time.Hour)
	if err := s.ApplyRemoteContext(id, &types.ContextItem{
		Type:      types.TypeRunbook,
		Content:   "restart the ingest worker, then verify offsets",
		RemoteID:  "r-55",
		UpdatedAt: newer,
	}, newer); err != nil {
		t.Fatalf("ApplyRemoteContext failed: %v", err)
	}

	got, err = s.GetContext(id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Content != "restart the ingest worker, then verify offsets" {
		t.Errorf("content not overwritten: %q", got.Content)
	}
	if !got.UpdatedAt.Equal(newer) {
		t.Errorf("updated_at = %v, want %v", got.UpdatedAt, newer)
	}
	if !got.CreatedAt.Equal(created) {
		t.Error("created_at must be preserved on overwrite")
	}
}

func TestContext_FindByRemoteID(t *testing.T) {
	s := openStore(t)
	ws := makeWorkspace(t, s)
	item := makeItem(t, s, ws.WorkspaceID, nil)

	if err := s.MarkContextSynced(item.ItemID, "r-9", now()); err != nil {
		t.Fatal(err)
	}

	got, err := s.FindContextByRemoteID(ws.WorkspaceID, "r-9")
	if err != nil {
		t.Fatalf("FindContextByRemoteID failed: %v", err)
	}
	if got.ItemID != item.ItemID {
		t.Errorf("found %s, want %s", got.ItemID, item.ItemID)
	}

	// Soft-deleted rows still count as identity.
	if err := s.SoftDeleteContext(item.ItemID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.FindContextByRemoteID(ws.WorkspaceID, "r-9"); err != nil {
		t.Errorf("deleted item must stay matchable by remote ID: %v", err)
	}
}
