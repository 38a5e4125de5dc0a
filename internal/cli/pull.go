package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPullCommand creates the pull command.
func NewPullCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Fetch server changes into the local ledger",
		Long: `Pull downloads every reference-data change since the ledger's stored
watermark and applies it locally. A fresh ledger performs a full bootstrap.

Example:
  trailctl pull --db examtrack.db --token $TOKEN`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			led, err := rootOpts.openLedger()
			if err != nil {
				return err
			}
			defer led.Close()

			rows, err := rootOpts.client().Pull(cmd.Context(), led)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "applied %d rows\n", rows)
			return nil
		},
	}

	return cmd
}
