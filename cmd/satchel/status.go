// Status command summarizes the workspace owning the current directory.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satchel/internal/sqlite"
)

var statusWorkspace string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show workspace, sync, and session status",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusWorkspace, "workspace", "", "workspace name (default: resolved from the current directory)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ws, mount, err := currentWorkspace(store, statusWorkspace)
	if err != nil {
		return err
	}

	items, err := store.ListContext(sqlite.ContextFilter{WorkspaceID: ws.WorkspaceID})
	if err != nil {
		return fmt.Errorf("list context: %w", err)
	}

	pending, err := store.PendingSyncContext(ws.WorkspaceID)
	if err != nil {
		return fmt.Errorf("pending context: %w", err)
	}

	byType := map[string]int{}
	for _, item := range items {
		byType[item.Type]++
	}

	sess, sessErr := store.ActiveSession(ws.WorkspaceID)

	if flagJSON {
		out := map[string]any{
			"workspace":     ws,
			"items":         len(items),
			"items_by_type": byType,
			"pending_sync":  len(pending),
		}
		if mount != nil {
			out["mount"] = mount
		}
		if sessErr == nil {
			out["active_session"] = sess
		}
		return printJSON(out)
	}

	fmt.Printf("Workspace: %s (%s)\n", ws.Name, shortID(ws.WorkspaceID))
	if mount != nil {
		fmt.Println("Mount:    ", mount.Path)
	}
	if ws.Bound() {
		fmt.Println("Remote:   ", ws.RemoteID)
		fmt.Println("Synced:   ", fmtTimePtr(ws.SyncedAt))
	} else {
		fmt.Println("Remote:    not bound")
	}
	fmt.Printf("Items:     %d (%d pending sync)\n", len(items), len(pending))
	for t, n := range byType {
		fmt.Printf("  %-11s %d\n", t, n)
	}
	if sessErr == nil {
		fmt.Println("Session:  ", sessionName(sess))
	}
	return nil
}
