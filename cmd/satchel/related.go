// Related command walks the link graph around a context item.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satchel/internal/graph"
)

var relatedDepth int

var relatedCmd = &cobra.Command{
	Use:   "related <id>",
	Short: "Show items linked to a context item",
	Long: `Related walks the link graph outward from an item, following edges in
both directions, and prints each reachable item once at its shallowest
depth. Depth is clamped to at most two hops.`,
	Args: cobra.ExactArgs(1),
	RunE: runRelated,
}

func init() {
	relatedCmd.Flags().IntVar(&relatedDepth, "depth", graph.MinDepth, "hops to walk (1 or 2)")
}

func runRelated(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	item, err := resolveItem(store, args[0])
	if err != nil {
		return fmt.Errorf("context item %q: %w", args[0], err)
	}

	related, err := graph.Walk(store, item.ItemID, relatedDepth)
	if err != nil {
		return fmt.Errorf("walk graph: %w", err)
	}

	if flagJSON {
		return printJSON(related)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "HOPS\tDIRECTION\tRELATION\tID\tTYPE\tCONTENT")
	for _, r := range related {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.Hops, r.Direction, r.Relation, shortID(r.Item.ItemID), r.Item.Type,
			truncate(r.Item.Content, 50))
	}
	return w.Flush()
}
