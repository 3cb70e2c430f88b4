package seed

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/dafibh/tally/tally-backend/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultChart_IsValidAndBalanced(t *testing.T) {
	accounts, err := DefaultChart().ToAccounts()
	require.NoError(t, err)
	require.NotEmpty(t, accounts)

	totals := make(map[domain.AccountType]domain.Cents)
	for _, a := range accounts {
		totals[a.Type] += a.Balance
	}
	assert.Equal(t, totals[domain.AccountTypeAsset],
		totals[domain.AccountTypeLiability]+totals[domain.AccountTypeEquity])
}

func TestParse(t *testing.T) {
	doc := `
accounts:
  - code: "1000"
    name: Cash
    type: asset
    category: Current Assets
    balance: 1250.50
  - code: "2000"
    name: Loan
    type: Liability
    status: inactive
`
	chart, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, chart.Accounts, 2)

	accounts, err := chart.ToAccounts()
	require.NoError(t, err)
	assert.Equal(t, domain.AccountTypeAsset, accounts[0].Type)
	assert.Equal(t, domain.Cents(125050), accounts[0].Balance)
	assert.Equal(t, domain.AccountStatusActive, accounts[0].Status)
	assert.Equal(t, domain.AccountStatusInactive, accounts[1].Status)
	assert.Equal(t, domain.Cents(0), accounts[1].Balance)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse(strings.NewReader("accounts:\n  - code: \"1000\"\n    colour: red\n"))
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	chart, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, chart.Accounts)
}

func TestToAccounts_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		seed    AccountSeed
		wantErr error
	}{
		{"bad code", AccountSeed{Code: "12a4", Name: "X", Type: "Asset"}, domain.ErrInvalidCode},
		{"bad type", AccountSeed{Code: "1000", Name: "X", Type: "Income"}, domain.ErrInvalidAccountType},
		{"negative", AccountSeed{Code: "1000", Name: "X", Type: "Asset", Balance: "-1"}, domain.ErrNegativeBalance},
		{"sub-cent", AccountSeed{Code: "1000", Name: "X", Type: "Asset", Balance: "1.001"}, domain.ErrTooManyDecimals},
		{"beyond maximum", AccountSeed{Code: "1000", Name: "X", Type: "Asset", Balance: "184467440737095516.16"}, domain.ErrAmountTooLarge},
		{"bad status", AccountSeed{Code: "1000", Name: "X", Type: "Asset", Status: "gone"}, domain.ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Chart{Accounts: []AccountSeed{tt.seed}}.ToAccounts()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	dup := Chart{Accounts: []AccountSeed{
		{Code: "1000", Name: "Cash", Type: "Asset"},
		{Code: "1000", Name: "Cash again", Type: "Asset"},
	}}
	_, err := dup.ToAccounts()
	assert.ErrorIs(t, err, domain.ErrDuplicateCode)
}

func TestWriteRoundTrip(t *testing.T) {
	accounts, err := DefaultChart().ToAccounts()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FromAccounts(accounts)))

	chart, err := Parse(&buf)
	require.NoError(t, err)
	again, err := chart.ToAccounts()
	require.NoError(t, err)
	assert.Equal(t, accounts, again)
}

func TestLoad(t *testing.T) {
	chart, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultChart(), chart)

	path := filepath.Join(t.TempDir(), "chart.yaml")
	require.NoError(t, os.WriteFile(path, []byte("accounts:\n  - {code: \"1000\", name: Cash, type: Asset}\n"), 0o644))
	chart, err = Load(path)
	require.NoError(t, err)
	assert.Len(t, chart.Accounts, 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	store := memory.NewStore()
	n, err := Apply(store.Accounts(), DefaultChart())
	require.NoError(t, err)
	assert.Equal(t, len(DefaultChart().Accounts), n)

	cash, err := store.Accounts().GetByCode("1000")
	require.NoError(t, err)
	assert.Equal(t, domain.Cents(5000000), cash.Balance)
}
