package commands

import (
	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/dafibh/tally/tally-backend/internal/repository/memory"
	"github.com/dafibh/tally/tally-backend/internal/seed"
	"github.com/spf13/cobra"
)

func newChartCommand() *cobra.Command {
	var seedPath string

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Print the chart of accounts as YAML",
		Long:  "Validate the chart of accounts and print it sorted by code, with normalized types, statuses and balances.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := seededStore(seedPath)
			if err != nil {
				return err
			}
			accounts, err := store.Accounts().List(domain.AccountFilter{})
			if err != nil {
				return err
			}
			return seed.Write(cmd.OutOrStdout(), seed.FromAccounts(accounts))
		},
	}
	addSeedFlag(cmd, &seedPath)
	return cmd
}

// seededStore loads the chart into a fresh in-memory ledger
func seededStore(seedPath string) (*memory.Store, error) {
	chart, err := loadChart(seedPath)
	if err != nil {
		return nil, err
	}
	store := memory.NewStore()
	if _, err := seed.Apply(store.Accounts(), chart); err != nil {
		return nil, err
	}
	return store, nil
}
