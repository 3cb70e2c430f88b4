package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/dafibh/tally/tally-backend/internal/websocket"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
)

// JournalService checks and posts double-entry journal entries
type JournalService struct {
	journalRepo    domain.JournalRepository
	accountRepo    domain.AccountRepository
	eventPublisher websocket.EventPublisher
	now            func() time.Time
}

// NewJournalService creates a new JournalService
func NewJournalService(journalRepo domain.JournalRepository, accountRepo domain.AccountRepository) *JournalService {
	return &JournalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *JournalService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *JournalService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// PostEntryInput holds the input for posting a journal entry.
// A zero Date means today.
type PostEntryInput struct {
	Date        time.Time
	Description string
	Lines       []domain.LineInput
}

// ValidateLines runs the balance check without posting anything
func (s *JournalService) ValidateLines(lines []domain.LineInput) domain.BalanceCheck {
	return domain.CheckLines(lines)
}

// PostEntry checks the entry, applies every line to its account balance by
// normal side and stores the entry. Nothing is applied unless every account
// accepts its change.
func (s *JournalService) PostEntry(input PostEntryInput) (*domain.JournalEntry, error) {
	description := strings.TrimSpace(input.Description)
	if len(description) > domain.MaxDescriptionLength {
		return nil, domain.ErrDescriptionTooLong
	}

	check := domain.CheckLines(input.Lines)
	if !check.Submittable() {
		return nil, &domain.EntryError{Check: check}
	}

	// Per-line account errors; the repository checks again at commit
	lines := make([]domain.JournalLine, len(input.Lines))
	for i, in := range input.Lines {
		account, err := s.accountRepo.GetByID(in.AccountID)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if !account.IsActive() {
			return nil, fmt.Errorf("line %d (%s): %w", i+1, account.Code, domain.ErrAccountInactive)
		}

		lines[i] = domain.JournalLine{
			AccountID: in.AccountID,
			Debit:     domain.RoundToCents(in.Debit),
			Credit:    domain.RoundToCents(in.Credit),
		}
	}

	date := input.Date
	if date.IsZero() {
		date = s.now()
	}
	y, m, d := date.Date()

	entry := &domain.JournalEntry{
		Date:        time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Description: description,
		Lines:       lines,
		TotalDebit:  check.TotalDebit,
		TotalCredit: check.TotalCredit,
	}

	posted, err := s.journalRepo.Post(entry)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("entry_id", posted.ID.String()).
		Int("lines", len(posted.Lines)).
		Str("total", posted.TotalDebit.String()).
		Msg("Journal entry posted")
	s.publishEvent(websocket.JournalEntryPosted(posted))
	return posted, nil
}

// GetEntry retrieves a journal entry by ID
func (s *JournalService) GetEntry(id ulid.ULID) (*domain.JournalEntry, error) {
	return s.journalRepo.GetByID(id)
}

// ListEntries returns entries newest first
func (s *JournalService) ListEntries(filter domain.JournalFilter) ([]*domain.JournalEntry, error) {
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return nil, domain.ErrInvalidInput
	}
	return s.journalRepo.List(filter)
}
