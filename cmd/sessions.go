package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/samsaffron/oatmeal/internal/config"
	"github.com/samsaffron/oatmeal/internal/session"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List, open, or delete saved chat sessions",
	RunE:  runSessionsList,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved session IDs, most recent first",
	RunE:  runSessionsList,
}

var sessionsOpenCmd = &cobra.Command{
	Use:   "open ID",
	Short: "Print a saved session's transcript, one line per message",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsOpen,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a saved session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd, sessionsOpenCmd, sessionsDeleteCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func sessionsDir() (string, error) {
	dataDir, err := config.DataDir()
	if err != nil {
		return "", fmt.Errorf("config: %w", err)
	}
	return filepath.Join(dataDir, "sessions"), nil
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	dir, err := sessionsDir()
	if err != nil {
		return err
	}
	ids, err := session.List(dir)
	if err != nil {
		return fmt.Errorf("sessions: %w", err)
	}
	for _, id := range ids {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}

func runSessionsOpen(cmd *cobra.Command, args []string) error {
	dir, err := sessionsDir()
	if err != nil {
		return err
	}
	sess, err := session.Load(dir, args[0])
	if err != nil {
		return fmt.Errorf("sessions: %w", err)
	}
	for _, m := range sess.Messages {
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: %s\n", m.CreatedAt.Format("15:04:05"), m.Author, m.Text)
	}
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	dir, err := sessionsDir()
	if err != nil {
		return err
	}
	if err := session.Delete(dir, args[0]); err != nil {
		return fmt.Errorf("sessions: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
	return nil
}
