package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/fundmesh/core"
)

func newConsultCmd() *cobra.Command {
	var (
		inputJSON string
		sessionID string
	)

	cmd := &cobra.Command{
		Use:   "consult",
		Short: "Run one advisory consultation and stream it to the terminal",
		Long:  "Runs the financial analyst, portfolio architect and risk analyst in sequence over the given client profile, printing the live stream and each stage's final result.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var input map[string]any
			if err := json.Unmarshal([]byte(inputJSON), &input); err != nil {
				return fmt.Errorf("invalid --input: %w", err)
			}

			app, err := wireApp()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			id, events, errs := app.runner.Consult(cmd.Context(), input, sessionID)
			fmt.Fprintf(out, "session: %s\n", id)

			for ev := range events {
				switch ev.Type {
				case core.EventNodeStart:
					fmt.Fprintf(out, "\n=== %s ===\n", ev.AgentName)
				case core.EventTextChunk:
					fmt.Fprint(out, ev.Data)
				case core.EventToolUse:
					fmt.Fprintf(out, "\n[tool] %s\n", ev.ToolName)
				case core.EventNodeComplete:
					fmt.Fprintf(out, "\n--- %s result ---\n%s\n", ev.AgentName, ev.Result)
				case core.EventError:
					fmt.Fprintf(out, "\nerror: %s\n", ev.Error)
				}
			}

			return <-errs
		},
	}

	cmd.Flags().StringVar(&inputJSON, "input", `{"age": 34, "total_investable_amount": 50000000, "target_amount": 70000000}`, "client profile as JSON")
	cmd.Flags().StringVar(&sessionID, "session", "", "session id (minted when empty)")

	return cmd
}
