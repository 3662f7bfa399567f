package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/wayfare/internal/cli"
	"github.com/aretw0/wayfare/internal/presentation/tui"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"conversation"},
	Short:   "Manage stored conversations",
	Long:    `List, inspect, and remove conversations held by the configured store.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all stored conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, _, cleanup, err := setup(cmd, prometheus.NewRegistry())
		if err != nil {
			return err
		}
		defer cleanup()

		ids, err := engine.Conversations(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing conversations: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintln(out, "No conversations found.")
			return nil
		}
		fmt.Fprintln(out, "Conversations:")
		for _, id := range ids {
			fmt.Fprintln(out, "- "+id)
		}
		return nil
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <conversation-id>",
	Short: "Inspect the state of a conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, _, cleanup, err := setup(cmd, prometheus.NewRegistry())
		if err != nil {
			return err
		}
		defer cleanup()

		conv, err := engine.Conversation(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error loading conversation '%s': %w", args[0], err)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			data, err := json.MarshalIndent(conv, "", "  ")
			if err != nil {
				return fmt.Errorf("error marshaling conversation: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}

		out, err := tui.NewRenderer(os.Stdout)(cli.ConversationMarkdown(conv))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <conversation-id>...",
	Short: "Remove one or more conversations",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, _, cleanup, err := setup(cmd, prometheus.NewRegistry())
		if err != nil {
			return err
		}
		defer cleanup()

		out := cmd.OutOrStdout()
		failed := 0
		for _, id := range args {
			if err := engine.Delete(cmd.Context(), id); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error removing '%s': %v\n", id, err)
				failed++
				continue
			}
			fmt.Fprintf(out, "Removed conversation '%s'\n", id)
		}
		if failed > 0 {
			return fmt.Errorf("%d conversation(s) could not be removed", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
	sessionInspectCmd.Flags().Bool("json", false, "Print the raw conversation as JSON")
}
