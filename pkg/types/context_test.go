package types

import (
	"testing"
	"time"
)

func TestValidItemType(t *testing.T) {
	for _, typ := range ItemTypes {
		if !ValidItemType(typ) {
			t.Errorf("ValidItemType(%q) = false, want true", typ)
		}
	}
	for _, typ := range []string{"", "idea", "Note", "task "} {
		if ValidItemType(typ) {
			t.Errorf("ValidItemType(%q) = true, want false", typ)
		}
	}
}

func TestContextItem_PendingSync(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	later := base.Add(time.Hour)

	tests := []struct {
		name     string
		updated  time.Time
		synced   *time.Time
		expected bool
	}{
		{"never synced", base, nil, true},
		{"modified after sync", later, &base, true},
		{"synced after modification", base, &later, false},
		{"synced at modification time", base, &base, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := ContextItem{UpdatedAt: tt.updated, SyncedAt: tt.synced}
			if got := item.PendingSync(); got != tt.expected {
				t.Errorf("PendingSync() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestContextItem_Deleted(t *testing.T) {
	item := ContextItem{}
	if item.Deleted() {
		t.Error("item without DeletedAt reported deleted")
	}
	now := time.Now()
	item.DeletedAt = &now
	if !item.Deleted() {
		t.Error("item with DeletedAt not reported deleted")
	}
}

func TestContextItem_HasTag(t *testing.T) {
	item := ContextItem{Tags: []string{"api", "backend"}}
	if !item.HasTag("api") {
		t.Error("HasTag(api) = false, want true")
	}
	if item.HasTag("frontend") {
		t.Error("HasTag(frontend) = true, want false")
	}
	empty := ContextItem{}
	if empty.HasTag("api") {
		t.Error("HasTag on empty tag set = true, want false")
	}
}
