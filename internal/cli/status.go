package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show local ledger state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			led, err := rootOpts.openLedger()
			if err != nil {
				return err
			}
			defer led.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			watermark, err := led.Watermark(ctx)
			if err != nil {
				return err
			}
			if watermark == nil {
				fmt.Fprintln(out, "watermark: (never synced — next pull is a bootstrap)")
			} else {
				fmt.Fprintln(out, "watermark:", watermark.UTC().Format(time.RFC3339))
			}

			counts, err := led.CountRows(ctx)
			if err != nil {
				return err
			}
			for _, table := range []string{"subjects", "lessons", "topics", "exams", "questions"} {
				fmt.Fprintf(out, "%-10s %d\n", table, counts[table])
			}

			pending, err := led.PendingAttempts(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "pending attempts: %d\n", len(pending))
			return nil
		},
	}

	return cmd
}
