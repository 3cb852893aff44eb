package types

import "time"

// Mount binds an absolute directory path to a workspace. Scope optionally
// narrows captured context to a sub-path; Tags are applied to every context
// item captured under the mount. Mount paths are unique; lookups resolve by
// longest-prefix match so a more specific mount always wins over an
// ancestor's mount.
type Mount struct {
	MountID     string    `json:"mount_id"`
	WorkspaceID string    `json:"workspace_id"`
	Path        string    `json:"path"`
	Scope       string    `json:"scope,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
