// List command shows context items visible at the current directory.
package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satchel/internal/resolve"
	"github.com/mesh-intelligence/satchel/internal/sqlite"
)

var (
	listType      string
	listTag       string
	listWorkspace string
	listLimit     int
	listAll       bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List context items visible here",
	Long: `List shows the context items of the workspace that owns the current
directory, filtered to the items whose scope is visible at this path.
Use --all to ignore scope and show the whole workspace.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listType, "type", "", "filter by item type")
	listCmd.Flags().StringVar(&listTag, "tag", "", "filter by tag")
	listCmd.Flags().StringVar(&listWorkspace, "workspace", "", "workspace name (default: resolved from the current directory)")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of items (0 = no limit)")
	listCmd.Flags().BoolVar(&listAll, "all", false, "ignore scope; show every item in the workspace")
}

func runList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ws, mount, err := currentWorkspace(store, listWorkspace)
	if err != nil {
		return err
	}

	filter := sqlite.ContextFilter{
		WorkspaceID: ws.WorkspaceID,
		Type:        listType,
		Tag:         listTag,
		Limit:       listLimit,
	}
	if !listAll && mount != nil {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		filter.QueryPath = resolve.RelPath(mount.Path, cwd)
	}

	items, err := store.ListContext(filter)
	if err != nil {
		return fmt.Errorf("list context: %w", err)
	}

	if flagJSON {
		return printJSON(items)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tSCOPE\tTAGS\tUPDATED\tCONTENT")
	for _, item := range items {
		tags := "-"
		if len(item.Tags) > 0 {
			tags = strings.Join(item.Tags, ",")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(item.ItemID), item.Type, item.Scope, tags,
			item.UpdatedAt.Local().Format(timeFmt), truncate(item.Content, 60))
	}
	return w.Flush()
}

// truncate shortens s for table output.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
