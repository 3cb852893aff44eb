// Link commands manage typed edges between context items.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

var linkRelation string

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Manage links between context items",
}

var linkAddCmd = &cobra.Command{
	Use:   "add <from-id> <to-id>",
	Short: "Link two context items",
	Args:  cobra.ExactArgs(2),
	RunE:  runLinkAdd,
}

var linkListCmd = &cobra.Command{
	Use:   "list <id>",
	Short: "List links touching a context item",
	Args:  cobra.ExactArgs(1),
	RunE:  runLinkList,
}

func init() {
	linkAddCmd.Flags().StringVar(&linkRelation, "relation", types.RelationRelatesTo, "edge relation (relates_to, depends_on, blocks, implements, extends, references)")

	linkCmd.AddCommand(linkAddCmd)
	linkCmd.AddCommand(linkListCmd)
}

func runLinkAdd(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	from, err := resolveItem(store, args[0])
	if err != nil {
		return fmt.Errorf("context item %q: %w", args[0], err)
	}
	to, err := resolveItem(store, args[1])
	if err != nil {
		return fmt.Errorf("context item %q: %w", args[1], err)
	}

	l := &types.Link{
		FromID:   from.ItemID,
		ToID:     to.ItemID,
		Relation: linkRelation,
	}
	if _, err := store.CreateLink(l); err != nil {
		return fmt.Errorf("create link: %w", err)
	}

	if flagJSON {
		return printJSON(l)
	}
	fmt.Printf("Linked %s -%s-> %s\n", shortID(from.ItemID), l.Relation, shortID(to.ItemID))
	return nil
}

func runLinkList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	item, err := resolveItem(store, args[0])
	if err != nil {
		return fmt.Errorf("context item %q: %w", args[0], err)
	}

	out, err := store.LinksFrom(item.ItemID)
	if err != nil {
		return fmt.Errorf("list links: %w", err)
	}
	in, err := store.LinksTo(item.ItemID)
	if err != nil {
		return fmt.Errorf("list links: %w", err)
	}

	if flagJSON {
		return printJSON(map[string]any{"outbound": out, "inbound": in})
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DIRECTION\tRELATION\tITEM")
	for _, l := range out {
		fmt.Fprintf(w, "outbound\t%s\t%s\n", l.Relation, shortID(l.ToID))
	}
	for _, l := range in {
		fmt.Fprintf(w, "inbound\t%s\t%s\n", l.Relation, shortID(l.FromID))
	}
	return w.Flush()
}
