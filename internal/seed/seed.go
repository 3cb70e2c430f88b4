// Package seed loads the starting chart of accounts from YAML.
package seed

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"gopkg.in/yaml.v3"
)

// AccountSeed is one account in a seed file. Balance is a decimal string.
type AccountSeed struct {
	Code        string `yaml:"code"`
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Category    string `yaml:"category,omitempty"`
	Description string `yaml:"description,omitempty"`
	Balance     string `yaml:"balance,omitempty"`
	Status      string `yaml:"status,omitempty"`
}

// Chart is the top-level seed document
type Chart struct {
	Accounts []AccountSeed `yaml:"accounts"`
}

// DefaultChart returns the built-in chart of accounts. Opening balances
// satisfy Assets == Liabilities + Equity.
func DefaultChart() Chart {
	return Chart{Accounts: []AccountSeed{
		{Code: "1000", Name: "Cash", Type: "Asset", Category: "Current Assets", Balance: "50000.00"},
		{Code: "1100", Name: "Accounts Receivable", Type: "Asset", Category: "Current Assets", Balance: "25000.00"},
		{Code: "1200", Name: "Inventory", Type: "Asset", Category: "Current Assets", Balance: "10000.00"},
		{Code: "2000", Name: "Accounts Payable", Type: "Liability", Category: "Current Liabilities", Balance: "15000.00"},
		{Code: "3000", Name: "Owner's Equity", Type: "Equity", Category: "Owner's Equity", Balance: "70000.00"},
		{Code: "4000", Name: "Sales Revenue", Type: "Revenue", Category: "Operating Revenue"},
		{Code: "4100", Name: "Service Revenue", Type: "Revenue", Category: "Operating Revenue"},
		{Code: "5000", Name: "Cost of Goods Sold", Type: "Expense", Category: "Cost of Sales"},
		{Code: "5100", Name: "Operating Expenses", Type: "Expense", Category: "Operating Expenses"},
		{Code: "5200", Name: "Rent Expense", Type: "Expense", Category: "Operating Expenses"},
	}}
}

// Load reads a seed file. An empty path returns the default chart.
func Load(path string) (Chart, error) {
	if path == "" {
		return DefaultChart(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Chart{}, fmt.Errorf("opening seed file: %w", err)
	}
	defer f.Close()

	chart, err := Parse(f)
	if err != nil {
		return Chart{}, fmt.Errorf("reading seed file %s: %w", path, err)
	}
	return chart, nil
}

// Parse decodes a seed document, rejecting unknown keys
func Parse(r io.Reader) (Chart, error) {
	var chart Chart
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&chart); err != nil {
		if errors.Is(err, io.EOF) {
			return Chart{}, nil
		}
		return Chart{}, err
	}
	return chart, nil
}

// Write encodes a chart as YAML
func Write(w io.Writer, chart Chart) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(chart); err != nil {
		return err
	}
	return enc.Close()
}

// ToAccounts converts and validates every seed row
func (c Chart) ToAccounts() ([]*domain.Account, error) {
	accounts := make([]*domain.Account, 0, len(c.Accounts))
	seen := make(map[string]bool, len(c.Accounts))
	for i, s := range c.Accounts {
		account, err := s.toAccount()
		if err != nil {
			return nil, fmt.Errorf("account %d (%s): %w", i+1, s.Code, err)
		}
		if seen[account.Code] {
			return nil, fmt.Errorf("account %d (%s): %w", i+1, s.Code, domain.ErrDuplicateCode)
		}
		seen[account.Code] = true
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func (s AccountSeed) toAccount() (*domain.Account, error) {
	accountType, err := domain.ParseAccountType(s.Type)
	if err != nil {
		return nil, err
	}
	status, err := domain.ParseAccountStatus(s.Status)
	if err != nil {
		return nil, err
	}
	var balance domain.Cents
	if s.Balance != "" {
		balance, err = domain.ParseCents(s.Balance)
		if err != nil {
			return nil, fmt.Errorf("balance %q: %w", s.Balance, err)
		}
	}

	account := &domain.Account{
		Code:        s.Code,
		Name:        s.Name,
		Type:        accountType,
		Category:    s.Category,
		Description: s.Description,
		Balance:     balance,
		Status:      status,
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}
	return account, nil
}

// FromAccounts builds a seed document from existing accounts
func FromAccounts(accounts []*domain.Account) Chart {
	chart := Chart{Accounts: make([]AccountSeed, 0, len(accounts))}
	for _, a := range accounts {
		chart.Accounts = append(chart.Accounts, AccountSeed{
			Code:        a.Code,
			Name:        a.Name,
			Type:        string(a.Type),
			Category:    a.Category,
			Description: a.Description,
			Balance:     a.Balance.String(),
			Status:      string(a.Status),
		})
	}
	return chart
}

// Apply validates the chart and creates every account in the repository
func Apply(repo domain.AccountRepository, chart Chart) (int, error) {
	accounts, err := chart.ToAccounts()
	if err != nil {
		return 0, err
	}
	for _, account := range accounts {
		if _, err := repo.Create(account); err != nil {
			return 0, fmt.Errorf("seeding account %s: %w", account.Code, err)
		}
	}
	return len(accounts), nil
}
