// Package sqlite implements the embedded SQLite store for satchel.
// SQLite is the store of record: one file per data directory, shared by
// concurrent CLI invocations, relying on the engine's file locking for
// cross-process writes. See docs/ARCHITECTURE.md § Entity Store.
package sqlite

// Schema DDL for all tables. Timestamps are RFC3339 UTC text with a fixed
// nine-digit fraction so SQL-level string comparison orders correctly.
const (
	createWorkspaces = `CREATE TABLE IF NOT EXISTS workspaces (
    workspace_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    project_id TEXT NOT NULL UNIQUE,
    remote_id TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    synced_at TEXT,
    deleted_at TEXT
);`

	createMounts = `CREATE TABLE IF NOT EXISTS mounts (
    mount_id TEXT PRIMARY KEY,
    workspace_id TEXT NOT NULL,
    path TEXT NOT NULL UNIQUE,
    scope TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '[]',
    created_at TEXT NOT NULL
);`

	createContext = `CREATE TABLE IF NOT EXISTS context (
    item_id TEXT PRIMARY KEY,
    workspace_id TEXT NOT NULL,
    item_type TEXT NOT NULL,
    content TEXT NOT NULL,
    tags TEXT NOT NULL DEFAULT '[]',
    scope TEXT NOT NULL DEFAULT '*',
    meta TEXT NOT NULL DEFAULT '{}',
    remote_id TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    synced_at TEXT,
    deleted_at TEXT
);`

	createLinks = `CREATE TABLE IF NOT EXISTS links (
    link_id TEXT PRIMARY KEY,
    from_id TEXT NOT NULL,
    to_id TEXT NOT NULL,
    relation TEXT NOT NULL,
    created_at TEXT NOT NULL,
    UNIQUE (from_id, to_id)
);`

	createSessions = `CREATE TABLE IF NOT EXISTS sessions (
    session_id TEXT PRIMARY KEY,
    workspace_id TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    started_at TEXT NOT NULL,
    ended_at TEXT
);`
)

// Indexes supporting mount resolution, filtered listing, and the sync
// watermark queries.
var createIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_mounts_path ON mounts (path);`,
	`CREATE INDEX IF NOT EXISTS idx_context_workspace ON context (workspace_id);`,
	`CREATE INDEX IF NOT EXISTS idx_context_type ON context (workspace_id, item_type);`,
	`CREATE INDEX IF NOT EXISTS idx_context_updated ON context (workspace_id, updated_at);`,
	`CREATE INDEX IF NOT EXISTS idx_context_remote ON context (workspace_id, remote_id);`,
	`CREATE INDEX IF NOT EXISTS idx_links_from ON links (from_id);`,
	`CREATE INDEX IF NOT EXISTS idx_links_to ON links (to_id);`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_workspace ON sessions (workspace_id);`,
}

// allTables lists the DDL statements executed on Open, in creation order.
var allTables = []string{
	createWorkspaces,
	createMounts,
	createContext,
	createLinks,
	createSessions,
}
