package commands

import (
	"errors"
	"os"

	"github.com/dafibh/tally/tally-backend/internal/seed"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// ErrUnsubmittable is returned by validate when at least one entry cannot be posted
var ErrUnsubmittable = errors.New("one or more entries cannot be submitted")

// NewRootCommand builds the tallyctl command tree
func NewRootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "tallyctl",
		Short: "Offline tools for the tally ledger",
		Long: `tallyctl works with a chart of accounts file without a running server.

Subcommands:
  chart     - Print the chart of accounts as YAML
  validate  - Check journal lines from a CSV file for double-entry balance
  report    - Render a financial report from the chart's balances

Examples:
  tallyctl chart --seed chart.yaml
  tallyctl validate entries.csv
  tallyctl report balance-sheet --format pdf > balance-sheet.pdf`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.WarnLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
				Level(level).
				With().Timestamp().Logger()
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(newChartCommand())
	root.AddCommand(newValidateCommand())
	root.AddCommand(newReportCommand())
	return root
}

// Execute runs tallyctl and returns the process exit code
func Execute() int {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		if !errors.Is(err, ErrUnsubmittable) {
			root.PrintErrln("Error:", err)
		}
		return 1
	}
	return 0
}

func addSeedFlag(cmd *cobra.Command, path *string) {
	cmd.Flags().StringVarP(path, "seed", "s", os.Getenv("SEED_FILE"), "chart of accounts YAML (built-in chart when empty)")
}

func loadChart(path string) (seed.Chart, error) {
	chart, err := seed.Load(path)
	if err != nil {
		return seed.Chart{}, err
	}
	log.Debug().Str("seed_file", path).Int("accounts", len(chart.Accounts)).Msg("Chart loaded")
	return chart, nil
}
