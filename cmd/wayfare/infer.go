package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/wayfare/internal/cli"
	"github.com/aretw0/wayfare/internal/presentation/tui"
	"github.com/aretw0/wayfare/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var inferCmd = &cobra.Command{
	Use:   "infer <message>...",
	Short: "Show which cities a message mentions and the roles they get",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, _, cleanup, err := setup(cmd, prometheus.NewRegistry())
		if err != nil {
			return err
		}
		defer cleanup()

		vocab := engine.Vocabulary()
		var known domain.SlotState
		for _, f := range []struct {
			flag string
			dst  *domain.City
		}{{"source", &known.Source}, {"destination", &known.Destination}} {
			name, _ := cmd.Flags().GetString(f.flag)
			if name == "" {
				continue
			}
			city, ok := vocab.Lookup(name)
			if !ok {
				return fmt.Errorf("--%s: %q is not a known city", f.flag, name)
			}
			*f.dst = city
		}

		message := strings.Join(args, " ")
		report := engine.Infer(message, known)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		out, err := tui.NewRenderer(os.Stdout)(cli.InferenceMarkdown(message, report))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inferCmd)
	inferCmd.Flags().String("source", "", "Source already known")
	inferCmd.Flags().String("destination", "", "Destination already known")
	inferCmd.Flags().Bool("json", false, "Print the report as JSON")
}
