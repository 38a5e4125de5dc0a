package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/examtrack/examtrack-backend/internal/syncclient"
)

// NewRegisterCommand creates the register command.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Enroll this device and print its sync token",
		Long: `Register generates a device UUID, enrolls it with the server and prints
the sync token. Pass the token to every other command via --token.

Example:
  trailctl register --server http://localhost:8080 --name laptop`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deviceUUID := uuid.New().String()

			token, err := syncclient.Register(cmd.Context(), rootOpts.Server, deviceUUID, name)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "device_uuid:", deviceUUID)
			fmt.Fprintln(cmd.OutOrStdout(), "token:", token)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "trailctl", "display name for this device")

	return cmd
}
