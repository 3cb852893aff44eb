package types

import "errors"

// Store lifecycle errors.
var (
	ErrStoreClosed    = errors.New("store is closed")
	ErrAlreadyOpen    = errors.New("store is already open")
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// Entity operation errors.
var (
	ErrNotFound           = errors.New("entity not found")
	ErrInvalidID          = errors.New("invalid entity ID")
	ErrInvalidData        = errors.New("invalid entity data")
	ErrInvalidType        = errors.New("invalid context item type")
	ErrInvalidRelation    = errors.New("invalid link relation")
	ErrInvalidContent     = errors.New("content must not be empty")
	ErrDuplicateLink      = errors.New("link already exists for this pair and direction")
	ErrDuplicateProjectID = errors.New("project ID already in use by another workspace")
	ErrDuplicateMountPath = errors.New("path is already mounted")
)

// ErrAmbiguousID is returned when a shortened identifier matches more than
// one entity. Callers report the candidate set and abort.
var ErrAmbiguousID = errors.New("identifier prefix is ambiguous")

// Resolution and sync errors.
var (
	ErrNoWorkspace       = errors.New("no workspace mounted at this path")
	ErrWorkspaceNotBound = errors.New("workspace is not bound to remote")
)

// ErrOffline is the sentinel returned by a RemoteTransport when the remote
// service cannot be reached at the connection level. Sync treats it as a
// recoverable zero-progress result, never as a command failure.
var ErrOffline = errors.New("remote service unreachable")
