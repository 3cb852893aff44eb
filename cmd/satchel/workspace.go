// Workspace commands create and inspect workspaces.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

var (
	workspaceDescription string
	workspaceProjectID   string
)

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage workspaces",
}

var workspaceCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new workspace",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkspaceCreate,
}

var workspaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspaces",
	RunE:  runWorkspaceList,
}

func init() {
	workspaceCreateCmd.Flags().StringVar(&workspaceDescription, "description", "", "workspace description")
	workspaceCreateCmd.Flags().StringVar(&workspaceProjectID, "project-id", "", "stable cross-machine project identifier (default: generated)")

	workspaceCmd.AddCommand(workspaceCreateCmd)
	workspaceCmd.AddCommand(workspaceListCmd)
}

func runWorkspaceCreate(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ws := &types.Workspace{
		Name:        args[0],
		Description: workspaceDescription,
		ProjectID:   workspaceProjectID,
	}
	if _, err := store.CreateWorkspace(ws); err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}

	if flagJSON {
		return printJSON(ws)
	}
	fmt.Printf("Created workspace %s (%s)\n", ws.Name, shortID(ws.WorkspaceID))
	return nil
}

func runWorkspaceList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	list, err := store.ListWorkspaces()
	if err != nil {
		return fmt.Errorf("list workspaces: %w", err)
	}

	if flagJSON {
		return printJSON(list)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPROJECT\tREMOTE\tSYNCED")
	for _, ws := range list {
		bound := "-"
		if ws.Bound() {
			bound = shortID(ws.RemoteID)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			shortID(ws.WorkspaceID), ws.Name, ws.ProjectID, bound, fmtTimePtr(ws.SyncedAt))
	}
	return w.Flush()
}
