// Delete command soft-deletes a context item. The row stays in the store
// so the deletion propagates on the next sync.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a context item",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	item, err := resolveItem(store, args[0])
	if err != nil {
		return fmt.Errorf("context item %q: %w", args[0], err)
	}

	if err := store.SoftDeleteContext(item.ItemID); err != nil {
		return fmt.Errorf("delete context item: %w", err)
	}

	if flagJSON {
		return printJSON(map[string]string{"deleted": item.ItemID})
	}
	fmt.Printf("Deleted %s %s\n", item.Type, shortID(item.ItemID))
	return nil
}
