package service

import (
	"fmt"
	"strings"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/dafibh/tally/tally-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AccountService manages the chart of accounts
type AccountService struct {
	accountRepo    domain.AccountRepository
	eventPublisher websocket.EventPublisher
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo domain.AccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *AccountService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *AccountService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// AccountInput holds the editable fields of an account.
// Type and Status are parsed case-insensitively; an empty Status means active.
type AccountInput struct {
	Code        string
	Name        string
	Type        string
	Category    string
	Description string
	Balance     decimal.Decimal
	Status      string
}

func (in AccountInput) apply(account *domain.Account) error {
	accountType, err := domain.ParseAccountType(in.Type)
	if err != nil {
		return err
	}
	status, err := domain.ParseAccountStatus(in.Status)
	if err != nil {
		return err
	}
	if in.Balance.IsNegative() {
		return domain.ErrNegativeBalance
	}
	balance, err := domain.ToCents(in.Balance)
	if err != nil {
		return err
	}

	account.Code = strings.TrimSpace(in.Code)
	account.Name = strings.TrimSpace(in.Name)
	account.Type = accountType
	account.Category = strings.TrimSpace(in.Category)
	account.Description = strings.TrimSpace(in.Description)
	account.Balance = balance
	account.Status = status
	return account.Validate()
}

// CreateAccount validates the input and adds the account to the chart
func (s *AccountService) CreateAccount(input AccountInput) (*domain.Account, error) {
	account := &domain.Account{}
	if err := input.apply(account); err != nil {
		return nil, err
	}

	created, err := s.accountRepo.Create(account)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("account_id", created.ID.String()).
		Str("code", created.Code).
		Str("type", string(created.Type)).
		Msg("Account created")
	s.publishEvent(websocket.AccountCreated(created))
	return created, nil
}

// GetAccount retrieves an account by ID
func (s *AccountService) GetAccount(id uuid.UUID) (*domain.Account, error) {
	return s.accountRepo.GetByID(id)
}

// ListAccounts returns the accounts matching the filter, sorted by code
func (s *AccountService) ListAccounts(filter domain.AccountFilter) ([]*domain.Account, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.accountRepo.List(filter)
}

// UpdateAccount replaces every editable field of an existing account
func (s *AccountService) UpdateAccount(id uuid.UUID, input AccountInput) (*domain.Account, error) {
	existing, err := s.accountRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	account := *existing
	if err := input.apply(&account); err != nil {
		return nil, err
	}

	updated, err := s.accountRepo.Update(&account)
	if err != nil {
		return nil, fmt.Errorf("updating account %s: %w", existing.Code, err)
	}

	log.Info().
		Str("account_id", updated.ID.String()).
		Str("code", updated.Code).
		Msg("Account updated")
	s.publishEvent(websocket.AccountUpdated(updated))
	return updated, nil
}

// DeleteAccount removes an account that no journal entry references
func (s *AccountService) DeleteAccount(id uuid.UUID) error {
	account, err := s.accountRepo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.accountRepo.Delete(id); err != nil {
		return err
	}

	log.Info().
		Str("account_id", id.String()).
		Str("code", account.Code).
		Msg("Account deleted")
	s.publishEvent(websocket.AccountDeleted(account))
	return nil
}
