// Sync commands reconcile the local store with the remote context service.
// An unreachable remote is not an error: the command reports it and exits
// zero, and the next invocation picks up where this one left off.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	syncengine "github.com/mesh-intelligence/satchel/internal/sync"
)

var syncWorkspace string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push local changes and pull remote ones",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(func(e *syncengine.Engine, wsID string) (*syncengine.Result, error) {
			return e.Sync(cmd.Context(), wsID)
		})
	},
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push local changes to the remote",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(func(e *syncengine.Engine, wsID string) (*syncengine.Result, error) {
			return e.Push(cmd.Context(), wsID)
		})
	},
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Pull remote changes into the local store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(func(e *syncengine.Engine, wsID string) (*syncengine.Result, error) {
			return e.Pull(cmd.Context(), wsID)
		})
	},
}

func init() {
	syncCmd.PersistentFlags().StringVar(&syncWorkspace, "workspace", "", "workspace name (default: resolved from the current directory)")

	syncCmd.AddCommand(syncPushCmd)
	syncCmd.AddCommand(syncPullCmd)
}

func runSync(op func(*syncengine.Engine, string) (*syncengine.Result, error)) error {
	if configRemote.URL == "" {
		fmt.Println("No remote configured; staying offline.")
		return nil
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ws, _, err := currentWorkspace(store, syncWorkspace)
	if err != nil {
		return err
	}

	engine, err := newEngine(store)
	if err != nil {
		return err
	}

	result, err := op(engine, ws.WorkspaceID)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(result)
	}

	if result.Offline {
		fmt.Println("Remote unreachable; changes kept local.")
		return nil
	}

	fmt.Printf("Synced workspace %s: pushed %d, pulled %d, updated %d\n",
		ws.Name, result.Pushed, result.Pulled, result.Updated)
	if result.Failed > 0 {
		fmt.Printf("%d item(s) rejected by the remote:\n", result.Failed)
		for _, f := range result.Failures {
			fmt.Printf("  %s: %s\n", shortID(f.ItemID), f.Reason)
		}
	}
	return nil
}
