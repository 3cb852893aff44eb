// Package resolve maps filesystem locations to workspaces and decides
// scope visibility for context items. See docs/ARCHITECTURE.md § Workspace
// Resolution.
package resolve

import (
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// Mount returns the mount whose path is a prefix of the query path and has
// the greatest length among all matches, so a more specific mount always
// wins over an ancestor directory's mount. Equal-length matches cannot
// occur (mount paths are unique); equal candidates from slice order are
// broken by first-wins, which ListMounts makes insertion order. Returns
// ErrNoWorkspace when nothing matches; callers decide whether that is
// fatal for their command.
func Mount(mounts []*types.Mount, path string) (*types.Mount, error) {
	path = filepath.Clean(path)

	var best *types.Mount
	for _, m := range mounts {
		if !HasPathPrefix(path, m.Path) {
			continue
		}
		if best == nil || len(m.Path) > len(best.Path) {
			best = m
		}
	}
	if best == nil {
		return nil, types.ErrNoWorkspace
	}
	return best, nil
}

// HasPathPrefix reports whether path lies at or under prefix, respecting
// path component boundaries: /repo is a prefix of /repo/service but not of
// /repository.
func HasPathPrefix(path, prefix string) bool {
	path = filepath.Clean(path)
	prefix = filepath.Clean(prefix)
	if path == prefix {
		return true
	}
	if prefix == string(filepath.Separator) {
		return strings.HasPrefix(path, prefix)
	}
	return strings.HasPrefix(path, prefix+string(filepath.Separator))
}

// RelPath returns the query path relative to the mount path, with forward
// slashes, for use as a scope query. Returns "" when the query path is the
// mount path itself.
func RelPath(mountPath, queryPath string) string {
	rel, err := filepath.Rel(filepath.Clean(mountPath), filepath.Clean(queryPath))
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

// ScopeMatches decides whether an item with the given scope is visible at
// the given workspace-relative query path. The wildcard scope is visible
// everywhere, and an empty query path (the mount root) sees everything.
// Otherwise either side being an ancestor of the other matches: a scope
// narrower than the query and one broader both surface. The symmetric rule
// is intentionally permissive; docs/ARCHITECTURE.md flags it for review.
func ScopeMatches(scope, queryPath string) bool {
	if scope == "" || scope == types.ScopeGlobal {
		return true
	}
	if queryPath == "" {
		return true
	}
	scope = strings.Trim(filepath.ToSlash(scope), "/")
	queryPath = strings.Trim(filepath.ToSlash(queryPath), "/")
	if scope == queryPath {
		return true
	}
	return strings.HasPrefix(queryPath, scope+"/") || strings.HasPrefix(scope, queryPath+"/")
}
