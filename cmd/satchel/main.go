// Package main provides the satchel CLI, an offline-first store for
// project context: rules, decisions, notes, and tasks captured locally,
// linked into a graph, and reconciled with a remote service.
// See docs/ARCHITECTURE.md § CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// Exit codes. Local logic errors (not found, ambiguous reference, blocked
// duplicate) are user errors; broken storage or config is a system error.
// Remote unreachability is neither: offline sync degrades and exits zero.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the CLI exit code.
func exitCode(err error) int {
	switch {
	case errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrAmbiguousID),
		errors.Is(err, types.ErrNoWorkspace),
		errors.Is(err, types.ErrWorkspaceNotBound),
		errors.Is(err, types.ErrDuplicateLink),
		errors.Is(err, types.ErrDuplicateMountPath),
		errors.Is(err, types.ErrDuplicateProjectID),
		errors.Is(err, types.ErrInvalidType),
		errors.Is(err, types.ErrInvalidRelation),
		errors.Is(err, types.ErrInvalidContent),
		errors.Is(err, errDuplicateContext):
		return exitUserError
	default:
		return exitSysError
	}
}
