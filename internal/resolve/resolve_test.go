package resolve

import (
	"errors"
	"testing"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

func mount(id, path string) *types.Mount {
	return &types.Mount{MountID: id, WorkspaceID: "ws-" + id, Path: path}
}

func TestMount_LongestPrefixWins(t *testing.T) {
	mounts := []*types.Mount{
		mount("a", "/repo"),
		mount("b", "/repo/service"),
		mount("c", "/other"),
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"nested path resolves to most specific mount", "/repo/service/api", "b"},
		{"mount root resolves to itself", "/repo/service", "b"},
		{"ancestor path resolves to ancestor mount", "/repo/docs", "a"},
		{"exact ancestor root", "/repo", "a"},
		{"unrelated tree", "/other/x/y", "c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Mount(mounts, tt.path)
			if err != nil {
				t.Fatalf("Mount(%q) error: %v", tt.path, err)
			}
			if got.MountID != tt.want {
				t.Errorf("Mount(%q) = %s, want %s", tt.path, got.MountID, tt.want)
			}
		})
	}
}

func TestMount_OrderIndependent(t *testing.T) {
	// The more specific mount must win regardless of registration order.
	forward := []*types.Mount{mount("a", "/repo"), mount("b", "/repo/service")}
	reverse := []*types.Mount{mount("b", "/repo/service"), mount("a", "/repo")}

	for _, mounts := range [][]*types.Mount{forward, reverse} {
		got, err := Mount(mounts, "/repo/service/pkg")
		if err != nil {
			t.Fatal(err)
		}
		if got.MountID != "b" {
			t.Errorf("got %s, want b", got.MountID)
		}
	}
}

func TestMount_NoMatch(t *testing.T) {
	mounts := []*types.Mount{mount("a", "/repo")}
	_, err := Mount(mounts, "/elsewhere")
	if !errors.Is(err, types.ErrNoWorkspace) {
		t.Errorf("expected ErrNoWorkspace, got %v", err)
	}

	_, err = Mount(nil, "/repo")
	if !errors.Is(err, types.ErrNoWorkspace) {
		t.Errorf("expected ErrNoWorkspace for empty mount set, got %v", err)
	}
}

func TestHasPathPrefix_ComponentBoundaries(t *testing.T) {
	tests := []struct {
		path   string
		prefix string
		want   bool
	}{
		{"/repo/service", "/repo", true},
		{"/repo", "/repo", true},
		{"/repository", "/repo", false},
		{"/repo", "/repo/service", false},
		{"/anything", "/", true},
	}
	for _, tt := range tests {
		if got := HasPathPrefix(tt.path, tt.prefix); got != tt.want {
			t.Errorf("HasPathPrefix(%q, %q) = %v, want %v", tt.path, tt.prefix, got, tt.want)
		}
	}
}

func TestRelPath(t *testing.T) {
	tests := []struct {
		mountPath string
		queryPath string
		want      string
	}{
		{"/repo", "/repo/service/api", "service/api"},
		{"/repo", "/repo", ""},
	}
	for _, tt := range tests {
		if got := RelPath(tt.mountPath, tt.queryPath); got != tt.want {
			t.Errorf("RelPath(%q, %q) = %q, want %q", tt.mountPath, tt.queryPath, got, tt.want)
		}
	}
}

func TestScopeMatches(t *testing.T) {
	tests := []struct {
		name      string
		scope     string
		queryPath string
		want      bool
	}{
		{"wildcard scope matches everywhere", "*", "service/api", true},
		{"empty scope matches everywhere", "", "service/api", true},
		{"mount root sees everything", "service", "", true},
		{"exact match", "service", "service", true},
		{"scope is ancestor of query", "service", "service/api", true},
		{"query is ancestor of scope", "service/api", "service", true},
		{"sibling paths do not match", "service", "docs", false},
		{"component boundary respected", "service", "services", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScopeMatches(tt.scope, tt.queryPath); got != tt.want {
				t.Errorf("ScopeMatches(%q, %q) = %v, want %v", tt.scope, tt.queryPath, got, tt.want)
			}
		})
	}
}
