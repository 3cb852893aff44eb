// Show command prints one context item resolved by ID or unique prefix.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a context item",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	item, err := resolveItem(store, args[0])
	if err != nil {
		return fmt.Errorf("context item %q: %w", args[0], err)
	}

	if flagJSON {
		return printJSON(item)
	}

	fmt.Println("ID:      ", item.ItemID)
	fmt.Println("Type:    ", item.Type)
	fmt.Println("Scope:   ", item.Scope)
	if len(item.Tags) > 0 {
		fmt.Println("Tags:    ", strings.Join(item.Tags, ", "))
	}
	fmt.Println("Created: ", item.CreatedAt.Local().Format(timeFmt))
	fmt.Println("Updated: ", item.UpdatedAt.Local().Format(timeFmt))
	fmt.Println("Synced:  ", fmtTimePtr(item.SyncedAt))
	if item.RemoteID != "" {
		fmt.Println("Remote:  ", item.RemoteID)
	}
	for k, v := range item.Meta {
		fmt.Printf("Meta:     %s=%s\n", k, v)
	}
	fmt.Println()
	fmt.Println(item.Content)
	return nil
}
