// Mount commands bind directories to workspaces.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

var (
	mountWorkspace string
	mountScope     string
	mountTags      []string
)

var mountCmd = &cobra.Command{
	Use:   "mount",
	Short: "Manage directory mounts",
}

var mountAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Bind a directory to a workspace",
	Args:  cobra.ExactArgs(1),
	RunE:  runMountAdd,
}

var mountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List mounts",
	RunE:  runMountList,
}

var mountRemoveCmd = &cobra.Command{
	Use:   "remove <mount-id>",
	Short: "Remove a mount",
	Args:  cobra.ExactArgs(1),
	RunE:  runMountRemove,
}

func init() {
	mountAddCmd.Flags().StringVar(&mountWorkspace, "workspace", "", "workspace name (required)")
	mountAddCmd.Flags().StringVar(&mountScope, "scope", "", "scope applied to items captured under this mount")
	mountAddCmd.Flags().StringSliceVar(&mountTags, "tag", nil, "tag applied to items captured under this mount (repeatable)")
	_ = mountAddCmd.MarkFlagRequired("workspace")

	mountCmd.AddCommand(mountAddCmd)
	mountCmd.AddCommand(mountListCmd)
	mountCmd.AddCommand(mountRemoveCmd)
}

func runMountAdd(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ws, err := store.FindWorkspaceByName(mountWorkspace)
	if err != nil {
		return fmt.Errorf("workspace %q: %w", mountWorkspace, err)
	}

	path := args[0]
	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolve path: %w", err)
		}
		path = abs
	}

	m := &types.Mount{
		WorkspaceID: ws.WorkspaceID,
		Path:        path,
		Scope:       mountScope,
		Tags:        mountTags,
	}
	if _, err := store.CreateMount(m); err != nil {
		return fmt.Errorf("create mount: %w", err)
	}

	if flagJSON {
		return printJSON(m)
	}
	fmt.Printf("Mounted %s -> %s\n", m.Path, ws.Name)
	return nil
}

func runMountList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	list, err := store.ListMounts()
	if err != nil {
		return fmt.Errorf("list mounts: %w", err)
	}

	if flagJSON {
		return printJSON(list)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPATH\tWORKSPACE\tSCOPE\tTAGS")
	for _, m := range list {
		scope := m.Scope
		if scope == "" {
			scope = "-"
		}
		tags := "-"
		if len(m.Tags) > 0 {
			tags = strings.Join(m.Tags, ",")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			shortID(m.MountID), m.Path, shortID(m.WorkspaceID), scope, tags)
	}
	return w.Flush()
}

func runMountRemove(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteMount(args[0]); err != nil {
		return fmt.Errorf("remove mount: %w", err)
	}
	if !flagJSON {
		fmt.Println("Removed mount", args[0])
	}
	return nil
}
