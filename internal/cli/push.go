package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPushCommand creates the push command.
func NewPushCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Upload pending attempts for server grading",
		Long: `Push submits every unsynced attempt in the ledger. The server grades
each one against its current answer key; attempts it has already seen are
acknowledged as duplicates and cleared locally. Failed uploads stay pending.

Example:
  trailctl push --db examtrack.db --token $TOKEN`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			led, err := rootOpts.openLedger()
			if err != nil {
				return err
			}
			defer led.Close()

			result, err := rootOpts.client().Push(cmd.Context(), led)
			if result != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "synced: %d  duplicate: %d  failed: %d\n",
					result.Synced, result.Duplicate, result.Failed)
			}
			return err
		},
	}

	return cmd
}
