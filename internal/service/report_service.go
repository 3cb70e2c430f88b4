package service

import (
	"time"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// ReportService builds financial reports from the current chart of accounts
type ReportService struct {
	accountRepo domain.AccountRepository
	now         func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(accountRepo domain.AccountRepository) *ReportService {
	return &ReportService{
		accountRepo: accountRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *ReportService) accounts() ([]*domain.Account, error) {
	return s.accountRepo.List(domain.AccountFilter{})
}

// GetBalanceSummaries returns the total balance and account count of every account type
func (s *ReportService) GetBalanceSummaries() ([]domain.AccountBalanceSummary, error) {
	accounts, err := s.accounts()
	if err != nil {
		return nil, err
	}
	return SummarizeByType(accounts), nil
}

// GetAccountBalances returns the account balances report
func (s *ReportService) GetAccountBalances() (*domain.AccountBalancesReport, error) {
	accounts, err := s.accounts()
	if err != nil {
		return nil, err
	}
	return BuildAccountBalances(accounts, s.now()), nil
}

// GetBalanceSheet returns the balance sheet. An unbalanced sheet is returned
// as is, with the difference reported.
func (s *ReportService) GetBalanceSheet() (*domain.BalanceSheet, error) {
	accounts, err := s.accounts()
	if err != nil {
		return nil, err
	}

	sheet := BuildBalanceSheet(accounts, s.now())
	if !sheet.Balanced {
		log.Warn().
			Str("total_assets", sheet.TotalAssets.String()).
			Str("total_liabilities", sheet.TotalLiabilities.String()).
			Str("total_equity", sheet.TotalEquity.String()).
			Str("net_income", sheet.NetIncome.String()).
			Str("difference", sheet.Difference.String()).
			Msg("Balance sheet does not balance")
	}
	return sheet, nil
}

// GetIncomeStatement returns the income statement
func (s *ReportService) GetIncomeStatement() (*domain.IncomeStatement, error) {
	accounts, err := s.accounts()
	if err != nil {
		return nil, err
	}
	return BuildIncomeStatement(accounts, s.now()), nil
}
