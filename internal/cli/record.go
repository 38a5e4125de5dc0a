package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// NewRecordCommand creates the record command.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		examID      string
		answersFile string
		duration    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Durably record a finished offline attempt",
		Long: `Record stores an attempt in the local ledger: a fresh attempt token,
the integrity checksum over the answers, and a provisional local score when
the exam is replicated. Nothing touches the network — push uploads it later.

The answers file is a JSON object mapping question id to selected option:
  {"<question-uuid>": "B", "<question-uuid>": "D"}

Example:
  trailctl record --exam 4f1c... --answers answers.json --duration 42m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(answersFile)
			if err != nil {
				return fmt.Errorf("read answers: %w", err)
			}

			var answers map[string]string
			if err := json.Unmarshal(raw, &answers); err != nil {
				return fmt.Errorf("parse answers: %w", err)
			}

			led, err := rootOpts.openLedger()
			if err != nil {
				return err
			}
			defer led.Close()

			endedAt := time.Now().UTC()
			startedAt := endedAt.Add(-duration)

			attempt, err := led.RecordAttempt(cmd.Context(), examID, answers, startedAt, endedAt)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "attempt_token:", attempt.AttemptToken)
			fmt.Fprintln(cmd.OutOrStdout(), "checksum:", attempt.Checksum)
			if attempt.LocalScore != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "local_score: %.2f (provisional, server re-grades)\n", *attempt.LocalScore)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&examID, "exam", "", "exam UUID (required)")
	cmd.Flags().StringVar(&answersFile, "answers", "", "path to answers JSON file (required)")
	cmd.Flags().DurationVar(&duration, "duration", 0, "time spent on the attempt")
	_ = cmd.MarkFlagRequired("exam")
	_ = cmd.MarkFlagRequired("answers")

	return cmd
}
