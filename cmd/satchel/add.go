// Add command captures a new context item in the workspace resolved from
// the working directory.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satchel/internal/similarity"
	"github.com/mesh-intelligence/satchel/pkg/types"
)

var (
	addType      string
	addTags      []string
	addScope     string
	addWorkspace string
	addForce     bool
)

var addCmd = &cobra.Command{
	Use:   "add <content>",
	Short: "Capture a context item",
	Long: `Add captures a context item in the workspace that owns the current
directory. Near-duplicates of recent items of the same type are blocked;
pass --force to capture anyway.

Example:
  satchel add "All service errors must be wrapped with context"
  satchel add --type decision "Use SQLite for local storage"
  satchel add --type task --tag auth "Rotate the signing keys"`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addType, "type", types.TypeNote, "item type (constraint, decision, note, task, entity, runbook, snippet)")
	addCmd.Flags().StringSliceVar(&addTags, "tag", nil, "tag for the item (repeatable)")
	addCmd.Flags().StringVar(&addScope, "scope", "", "visibility scope relative to the mount (default: mount scope, else global)")
	addCmd.Flags().StringVar(&addWorkspace, "workspace", "", "workspace name (default: resolved from the current directory)")
	addCmd.Flags().BoolVar(&addForce, "force", false, "capture even when a similar item exists")
}

func runAdd(cmd *cobra.Command, args []string) error {
	content := args[0]

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ws, mount, err := currentWorkspace(store, addWorkspace)
	if err != nil {
		return err
	}

	if !addForce {
		match, err := similarity.Check(store, ws.WorkspaceID, addType, content, similarity.BlockThreshold)
		if err != nil {
			return fmt.Errorf("similarity check: %w", err)
		}
		if match.Blocks() {
			return fmt.Errorf("%w: %d%% similar to %s %q (use --force to capture anyway)",
				errDuplicateContext, match.Percent(), shortID(match.Item.ItemID), match.Item.Content)
		}
	}

	item := &types.ContextItem{
		WorkspaceID: ws.WorkspaceID,
		Type:        addType,
		Content:     content,
		Tags:        addTags,
		Scope:       addScope,
	}

	// Mount defaults: tags accumulate, scope fills in only when not given.
	if mount != nil {
		for _, t := range mount.Tags {
			if !item.HasTag(t) {
				item.Tags = append(item.Tags, t)
			}
		}
		if item.Scope == "" {
			item.Scope = mount.Scope
		}
	}

	// Attribute the item to the active session, if one is open.
	if sess, err := store.ActiveSession(ws.WorkspaceID); err == nil {
		if item.Meta == nil {
			item.Meta = map[string]string{}
		}
		item.Meta["session_id"] = sess.SessionID
	}

	if _, err := store.CreateContext(item); err != nil {
		return fmt.Errorf("create context item: %w", err)
	}

	if flagJSON {
		return printJSON(item)
	}
	fmt.Printf("Added %s %s\n", item.Type, shortID(item.ItemID))
	return nil
}
