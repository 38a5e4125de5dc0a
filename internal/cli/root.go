package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/examtrack/examtrack-backend/internal/ledger"
	"github.com/examtrack/examtrack-backend/internal/logger"
	"github.com/examtrack/examtrack-backend/internal/syncclient"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Database string
	Server   string
	Token    string
	Verbose  bool
}

// NewRootCommand creates the root command for the trailctl CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "trailctl",
		Short: "ExamTrack offline sync client",
		Long: `trailctl drives the client half of the ExamTrack sync protocol:
a durable local SQLite ledger of reference data and offline attempts,
watermark-based delta pulls, and at-least-once attempt pushes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "examtrack.db", "path to the local ledger database")
	cmd.PersistentFlags().StringVar(&opts.Server, "server", "http://localhost:8080", "server base URL")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", "", "device token from 'trailctl register'")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewPullCommand(opts))
	cmd.AddCommand(NewRecordCommand(opts))
	cmd.AddCommand(NewPushCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))

	return cmd
}

func (o *RootOptions) logger() zerolog.Logger {
	level := "warn"
	if o.Verbose {
		level = "debug"
	}
	return logger.Setup(level, "pretty")
}

func (o *RootOptions) openLedger() (*ledger.Ledger, error) {
	return ledger.Open(o.Database)
}

func (o *RootOptions) client() *syncclient.Client {
	return syncclient.New(o.Server, o.Token, o.logger())
}
