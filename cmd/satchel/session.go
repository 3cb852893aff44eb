// Session commands open and close work sessions. The CLI enforces one
// active session per workspace; the store itself does not.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

var sessionWorkspace string

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage work sessions",
}

var sessionStartCmd = &cobra.Command{
	Use:   "start [name]",
	Short: "Start a work session",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSessionStart,
}

var sessionEndCmd = &cobra.Command{
	Use:   "end",
	Short: "End the active work session",
	RunE:  runSessionEnd,
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List work sessions",
	RunE:  runSessionList,
}

func init() {
	sessionCmd.PersistentFlags().StringVar(&sessionWorkspace, "workspace", "", "workspace name (default: resolved from the current directory)")

	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionEndCmd)
	sessionCmd.AddCommand(sessionListCmd)
}

func runSessionStart(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ws, _, err := currentWorkspace(store, sessionWorkspace)
	if err != nil {
		return err
	}

	// Close any session left open before starting the new one.
	if prev, err := store.ActiveSession(ws.WorkspaceID); err == nil {
		if err := store.EndSession(prev.SessionID, time.Now().UTC()); err != nil {
			return fmt.Errorf("end previous session: %w", err)
		}
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	sess, err := store.StartSession(ws.WorkspaceID, name)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	if flagJSON {
		return printJSON(sess)
	}
	fmt.Printf("Started session %s\n", shortID(sess.SessionID))
	return nil
}

func runSessionEnd(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ws, _, err := currentWorkspace(store, sessionWorkspace)
	if err != nil {
		return err
	}

	sess, err := store.ActiveSession(ws.WorkspaceID)
	if err != nil {
		return fmt.Errorf("active session: %w", err)
	}
	if err := store.EndSession(sess.SessionID, time.Now().UTC()); err != nil {
		return fmt.Errorf("end session: %w", err)
	}

	if flagJSON {
		return printJSON(map[string]string{"ended": sess.SessionID})
	}
	fmt.Printf("Ended session %s\n", shortID(sess.SessionID))
	return nil
}

func runSessionList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ws, _, err := currentWorkspace(store, sessionWorkspace)
	if err != nil {
		return err
	}

	list, err := store.ListSessions(ws.WorkspaceID)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if flagJSON {
		return printJSON(list)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTARTED\tENDED")
	for _, sess := range list {
		name := sess.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			shortID(sess.SessionID), name,
			sess.StartedAt.Local().Format(timeFmt), fmtTimePtr(sess.EndedAt))
	}
	return w.Flush()
}

// sessionName renders a session reference for status output.
func sessionName(sess *types.Session) string {
	if sess.Name != "" {
		return sess.Name
	}
	return shortID(sess.SessionID)
}
