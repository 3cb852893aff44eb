// Shared helpers for satchel CLI commands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mesh-intelligence/satchel/internal/remote"
	"github.com/mesh-intelligence/satchel/internal/resolve"
	"github.com/mesh-intelligence/satchel/internal/sqlite"
	syncengine "github.com/mesh-intelligence/satchel/internal/sync"
	"github.com/mesh-intelligence/satchel/pkg/types"
)

// errDuplicateContext is returned by `satchel add` when the similarity
// guard blocks a near-duplicate item and --force was not given.
var errDuplicateContext = errors.New("similar context item already exists")

// timeFmt renders timestamps for table output.
const timeFmt = "2006-01-02 15:04"

// openStore resolves the data directory, creates a SQLite store, and opens
// it with the loaded config. The caller must defer store.Close().
func openStore() (*sqlite.Store, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
		Remote:  configRemote,
	}

	store := sqlite.NewStore()
	if err := store.Open(cfg); err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return store, nil
}

// newLogger builds the CLI logger. Logs go to stderr so --json output on
// stdout stays parseable; --verbose lowers the level to debug.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newEngine builds a sync engine against the configured remote. Returns an
// error when no remote URL is configured; callers that tolerate a missing
// remote check configRemote.URL first.
func newEngine(store *sqlite.Store) (*syncengine.Engine, error) {
	client, err := remote.NewClient(configRemote, newLogger())
	if err != nil {
		return nil, err
	}
	return syncengine.New(store, client, newLogger()), nil
}

// currentMount resolves the working directory against the mount table by
// longest-prefix match.
func currentMount(store *sqlite.Store) (*types.Mount, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	mounts, err := store.ListMounts()
	if err != nil {
		return nil, err
	}

	return resolve.Mount(mounts, cwd)
}

// currentWorkspace resolves the working directory to its workspace. When
// --workspace names a workspace explicitly, the mount table is bypassed and
// the returned mount is nil.
func currentWorkspace(store *sqlite.Store, workspaceFlag string) (*types.Workspace, *types.Mount, error) {
	if workspaceFlag != "" {
		ws, err := store.FindWorkspaceByName(workspaceFlag)
		if err != nil {
			return nil, nil, err
		}
		return ws, nil, nil
	}

	mount, err := currentMount(store)
	if err != nil {
		return nil, nil, err
	}

	ws, err := store.GetWorkspace(mount.WorkspaceID)
	if err != nil {
		return nil, nil, err
	}
	return ws, mount, nil
}

// resolveItem resolves a full ID or unique prefix to a context item. An
// ambiguous prefix fails with the candidate set so the user can extend it.
func resolveItem(store *sqlite.Store, ref string) (*types.ContextItem, error) {
	item, err := store.ResolveContextID(ref)
	if err == nil {
		return item, nil
	}
	if errors.Is(err, types.ErrAmbiguousID) {
		matches, lerr := store.FindContextByPrefix(ref)
		if lerr == nil {
			ids := make([]string, len(matches))
			for i, m := range matches {
				ids[i] = shortID(m.ItemID)
			}
			return nil, fmt.Errorf("%w: %q matches %s", types.ErrAmbiguousID, ref, strings.Join(ids, ", "))
		}
	}
	return nil, err
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// shortID returns the first eight characters of a UUID for table output.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// fmtTimePtr renders an optional timestamp for table output.
func fmtTimePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(timeFmt)
}
