package commands

import (
	"fmt"
	"os"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/dafibh/tally/tally-backend/internal/export"
	"github.com/dafibh/tally/tally-backend/internal/service"
	"github.com/spf13/cobra"
)

func newReportCommand() *cobra.Command {
	var (
		seedPath string
		format   string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "report <balances|balance-sheet|income-statement>",
		Short: "Render a financial report from the chart of accounts",
		Long: `Render a report from the opening balances in the chart of accounts.
The file is written to standard output unless --output is given.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(domain.ReportAccountBalances), string(domain.ReportBalanceSheet), string(domain.ReportIncomeStatement)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseReportKind(args[0])
			if err != nil {
				return fmt.Errorf("%w: %s", err, args[0])
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return fmt.Errorf("%w: %s", err, format)
			}

			store, err := seededStore(seedPath)
			if err != nil {
				return err
			}
			exportService := service.NewExportService(service.NewReportService(store.Accounts()))
			file, err := exportService.Export(kind, f)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(file.Data)
				return err
			}
			if err := os.WriteFile(output, file.Data, 0o644); err != nil {
				return err
			}
			cmd.PrintErrf("Wrote %s (%d bytes)\n", output, len(file.Data))
			return nil
		},
	}
	addSeedFlag(cmd, &seedPath)
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "output format: csv or pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}
