package service

import (
	"github.com/dafibh/tally/tally-backend/internal/domain"
)

// DashboardService aggregates the headline dashboard figures
type DashboardService struct {
	accountRepo domain.AccountRepository
	journalRepo domain.JournalRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(accountRepo domain.AccountRepository, journalRepo domain.JournalRepository) *DashboardService {
	return &DashboardService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
	}
}

// GetSummary returns revenue, expenses, net income and ledger counts
func (s *DashboardService) GetSummary() (*domain.DashboardSummary, error) {
	accounts, err := s.accountRepo.List(domain.AccountFilter{})
	if err != nil {
		return nil, err
	}
	count, err := s.journalRepo.Count()
	if err != nil {
		return nil, err
	}
	return BuildDashboardSummary(accounts, count), nil
}
