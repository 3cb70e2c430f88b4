package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/dafibh/tally/tally-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// MockAccountRepository is a mock implementation of domain.AccountRepository
type MockAccountRepository struct {
	Accounts map[uuid.UUID]*domain.Account
	CreateFn func(account *domain.Account) (*domain.Account, error)
	UpdateFn func(account *domain.Account) (*domain.Account, error)
	DeleteFn func(id uuid.UUID) error
	ListFn   func(filter domain.AccountFilter) ([]*domain.Account, error)
}

// NewMockAccountRepository creates a new MockAccountRepository
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		Accounts: make(map[uuid.UUID]*domain.Account),
	}
}

// Create stores an account after checking code uniqueness
func (m *MockAccountRepository) Create(account *domain.Account) (*domain.Account, error) {
	if m.CreateFn != nil {
		return m.CreateFn(account)
	}
	for _, a := range m.Accounts {
		if a.Code == account.Code {
			return nil, domain.ErrDuplicateCode
		}
	}
	account.ID = uuid.New()
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	m.Accounts[account.ID] = account
	return account, nil
}

// GetByID retrieves an account by ID
func (m *MockAccountRepository) GetByID(id uuid.UUID) (*domain.Account, error) {
	if account, ok := m.Accounts[id]; ok {
		return account, nil
	}
	return nil, domain.ErrAccountNotFound
}

// GetByCode retrieves an account by code
func (m *MockAccountRepository) GetByCode(code string) (*domain.Account, error) {
	for _, a := range m.Accounts {
		if a.Code == code {
			return a, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

// List returns matching accounts sorted by code
func (m *MockAccountRepository) List(filter domain.AccountFilter) ([]*domain.Account, error) {
	if m.ListFn != nil {
		return m.ListFn(filter)
	}
	result := make([]*domain.Account, 0, len(m.Accounts))
	for _, a := range m.Accounts {
		if filter.Matches(a) {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

// Update replaces an existing account
func (m *MockAccountRepository) Update(account *domain.Account) (*domain.Account, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(account)
	}
	if _, ok := m.Accounts[account.ID]; !ok {
		return nil, domain.ErrAccountNotFound
	}
	for _, a := range m.Accounts {
		if a.ID != account.ID && a.Code == account.Code {
			return nil, domain.ErrDuplicateCode
		}
	}
	account.UpdatedAt = time.Now()
	m.Accounts[account.ID] = account
	return account, nil
}

// Delete removes an account
func (m *MockAccountRepository) Delete(id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(id)
	}
	if _, ok := m.Accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(m.Accounts, id)
	return nil
}

// AddAccount adds an account to the mock repository (helper for tests)
func (m *MockAccountRepository) AddAccount(account *domain.Account) *domain.Account {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if account.Status == "" {
		account.Status = domain.AccountStatusActive
	}
	m.Accounts[account.ID] = account
	return account
}

// MockJournalRepository is a mock implementation of domain.JournalRepository.
// Post updates the balances of the linked MockAccountRepository.
type MockJournalRepository struct {
	Entries     map[ulid.ULID]*domain.JournalEntry
	AccountRepo *MockAccountRepository
	PostFn      func(entry *domain.JournalEntry) (*domain.JournalEntry, error)
	CountFn     func() (int, error)
}

// NewMockJournalRepository creates a new MockJournalRepository
func NewMockJournalRepository(accountRepo *MockAccountRepository) *MockJournalRepository {
	return &MockJournalRepository{
		Entries:     make(map[ulid.ULID]*domain.JournalEntry),
		AccountRepo: accountRepo,
	}
}

// Post applies each line to the linked accounts by their current type, then
// stores the entry
func (m *MockJournalRepository) Post(entry *domain.JournalEntry) (*domain.JournalEntry, error) {
	if m.PostFn != nil {
		return m.PostFn(entry)
	}
	if m.AccountRepo != nil {
		deltas, err := domain.BalanceDeltas(entry.Lines, func(id uuid.UUID) (domain.AccountType, error) {
			account, ok := m.AccountRepo.Accounts[id]
			if !ok {
				return "", domain.ErrAccountNotFound
			}
			if !account.IsActive() {
				return "", domain.ErrAccountInactive
			}
			return account.Type, nil
		})
		if err != nil {
			return nil, err
		}
		next := make(map[uuid.UUID]domain.Cents, len(deltas))
		for id, delta := range deltas {
			balance, err := domain.ApplyDelta(m.AccountRepo.Accounts[id].Balance, delta)
			if err != nil {
				return nil, err
			}
			next[id] = balance
		}
		for id, balance := range next {
			m.AccountRepo.Accounts[id].Balance = balance
		}
	}
	entry.ID = ulid.Make()
	entry.CreatedAt = time.Now()
	m.Entries[entry.ID] = entry
	return entry, nil
}

// GetByID retrieves an entry by ID
func (m *MockJournalRepository) GetByID(id ulid.ULID) (*domain.JournalEntry, error) {
	if entry, ok := m.Entries[id]; ok {
		return entry, nil
	}
	return nil, domain.ErrEntryNotFound
}

// List returns matching entries, newest date first
func (m *MockJournalRepository) List(filter domain.JournalFilter) ([]*domain.JournalEntry, error) {
	result := make([]*domain.JournalEntry, 0, len(m.Entries))
	for _, e := range m.Entries {
		if filter.Matches(e) {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].ID.Compare(result[j].ID) > 0
	})
	return result, nil
}

// Count returns the number of stored entries
func (m *MockJournalRepository) Count() (int, error) {
	if m.CountFn != nil {
		return m.CountFn()
	}
	return len(m.Entries), nil
}

// AddEntry adds an entry to the mock repository (helper for tests)
func (m *MockJournalRepository) AddEntry(entry *domain.JournalEntry) *domain.JournalEntry {
	if entry.ID == (ulid.ULID{}) {
		entry.ID = ulid.Make()
	}
	m.Entries[entry.ID] = entry
	return entry
}

// RecordingPublisher captures published events
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []websocket.Event
}

var _ websocket.EventPublisher = (*RecordingPublisher)(nil)

// Publish records the event
func (p *RecordingPublisher) Publish(event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, event)
}

// Types returns the type of every recorded event in order
func (p *RecordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.Events))
	for i, e := range p.Events {
		types[i] = e.Type
	}
	return types
}

// MockReportStore is an in-memory report object store
type MockReportStore struct {
	Objects     map[string][]byte
	ContentType map[string]string
	UploadFn    func(ctx context.Context, key string, data []byte, contentType string) error
	PresignFn   func(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// NewMockReportStore creates a new MockReportStore
func NewMockReportStore() *MockReportStore {
	return &MockReportStore{
		Objects:     make(map[string][]byte),
		ContentType: make(map[string]string),
	}
}

// Upload stores the object
func (m *MockReportStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if m.UploadFn != nil {
		return m.UploadFn(ctx, key, data, contentType)
	}
	m.Objects[key] = data
	m.ContentType[key] = contentType
	return nil
}

// PresignURL returns a fake download URL for a stored object
func (m *MockReportStore) PresignURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if m.PresignFn != nil {
		return m.PresignFn(ctx, key, ttl)
	}
	if _, ok := m.Objects[key]; !ok {
		return "", domain.ErrNotFound
	}
	return fmt.Sprintf("https://reports.example.com/%s?expires=%d", key, int(ttl.Seconds())), nil
}
