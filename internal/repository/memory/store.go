package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Store is an in-process ledger holding the chart of accounts and the journal.
// It implements domain.AccountRepository and domain.JournalRepository behind a
// single lock so that postings and account deletes cannot interleave.
// It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*domain.Account
	byCode   map[string]uuid.UUID
	entries  map[ulid.ULID]*domain.JournalEntry
	order    []ulid.ULID
	now      func() time.Time
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{
		accounts: make(map[uuid.UUID]*domain.Account),
		byCode:   make(map[string]uuid.UUID),
		entries:  make(map[ulid.ULID]*domain.JournalEntry),
		now:      time.Now,
	}
}

// Accounts returns the store as a domain.AccountRepository
func (s *Store) Accounts() domain.AccountRepository {
	return (*accountRepo)(s)
}

// Journal returns the store as a domain.JournalRepository
func (s *Store) Journal() domain.JournalRepository {
	return (*journalRepo)(s)
}

type accountRepo Store

// Create stores a new account, assigning an ID if missing
func (r *accountRepo) Create(account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byCode[account.Code]; taken {
		return nil, domain.ErrDuplicateCode
	}

	stored := *account
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	now := r.now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.accounts[stored.ID] = &stored
	r.byCode[stored.Code] = stored.ID
	return copyAccount(&stored), nil
}

// GetByID retrieves an account by its ID
func (r *accountRepo) GetByID(id uuid.UUID) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return copyAccount(account), nil
}

// GetByCode retrieves an account by its 4-digit code
func (r *accountRepo) GetByCode(code string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byCode[code]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return copyAccount(r.accounts[id]), nil
}

// List returns accounts passing the filter, ordered by code
func (r *accountRepo) List(filter domain.AccountFilter) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		if filter.Matches(account) {
			result = append(result, copyAccount(account))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Code < result[j].Code
	})
	return result, nil
}

// Update replaces every mutable field of an existing account
func (r *accountRepo) Update(account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.accounts[account.ID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if account.Code != existing.Code {
		if _, taken := r.byCode[account.Code]; taken {
			return nil, domain.ErrDuplicateCode
		}
		delete(r.byCode, existing.Code)
		r.byCode[account.Code] = existing.ID
	}

	updated := *account
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = r.now().UTC()
	r.accounts[updated.ID] = &updated
	return copyAccount(&updated), nil
}

// Delete removes an account that no journal entry references
func (r *accountRepo) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	for _, entry := range r.entries {
		if entry.References(id) {
			return domain.ErrAccountInUse
		}
	}
	delete(r.byCode, account.Code)
	delete(r.accounts, id)
	return nil
}

type journalRepo Store

// Post stores a journal entry and applies its balance deltas atomically
func (r *journalRepo) Post(entry *domain.JournalEntry) (*domain.JournalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Deltas use the account types as they are now, under the lock
	deltas, err := domain.BalanceDeltas(entry.Lines, func(id uuid.UUID) (domain.AccountType, error) {
		account, ok := r.accounts[id]
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

	// Validate every account before touching any balance
	next := make(map[uuid.UUID]domain.Cents, len(deltas))
	for id, delta := range deltas {
		balance, err := domain.ApplyDelta(r.accounts[id].Balance, delta)
		if err != nil {
			return nil, err
		}
		next[id] = balance
	}

	now := r.now().UTC()
	for id, balance := range next {
		account := r.accounts[id]
		account.Balance = balance
		account.UpdatedAt = now
	}

	stored := copyEntry(entry)
	if stored.ID == (ulid.ULID{}) {
		stored.ID = ulid.Make()
	}
	stored.CreatedAt = now
	r.entries[stored.ID] = stored
	r.order = append(r.order, stored.ID)
	return copyEntry(stored), nil
}

// GetByID retrieves a journal entry by its ID
func (r *journalRepo) GetByID(id ulid.ULID) (*domain.JournalEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	return copyEntry(entry), nil
}

// List returns entries passing the filter, newest entry date first.
// Entries on the same date keep reverse posting order.
func (r *journalRepo) List(filter domain.JournalFilter) ([]*domain.JournalEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.JournalEntry, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		entry := r.entries[r.order[i]]
		if filter.Matches(entry) {
			result = append(result, copyEntry(entry))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.After(result[j].Date)
	})
	return result, nil
}

// Count returns the number of posted entries
func (r *journalRepo) Count() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries), nil
}

func copyAccount(a *domain.Account) *domain.Account {
	c := *a
	return &c
}

func copyEntry(e *domain.JournalEntry) *domain.JournalEntry {
	c := *e
	c.Lines = append([]domain.JournalLine(nil), e.Lines...)
	return &c
}
