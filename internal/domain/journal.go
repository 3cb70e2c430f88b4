package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// LineInput is a journal line as submitted, before it is checked
type LineInput struct {
	AccountID uuid.UUID
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// LineProblem explains why a single line blocks submission
type LineProblem struct {
	Line  int    // zero-based line index
	Field string // accountId, debit or credit
	Err   error
}

// BalanceCheck is the outcome of checking lines for double-entry balance.
// Totals are in cents, so equality is exact.
type BalanceCheck struct {
	TotalDebit  Cents
	TotalCredit Cents
	LineCount   int
	Problems    []LineProblem
}

// CheckLines totals debits and credits and records every line problem.
// An entry is submittable iff it has at least two lines, every line has an
// account, amounts are non-negative whole cents, and debits equal credits.
func CheckLines(lines []LineInput) BalanceCheck {
	check := BalanceCheck{LineCount: len(lines)}
	for i, line := range lines {
		if line.AccountID == uuid.Nil {
			check.addProblem(i, "accountId", ErrLineMissingAccount)
		}
		check.TotalDebit = check.accumulate(i, "debit", check.TotalDebit, line.Debit)
		check.TotalCredit = check.accumulate(i, "credit", check.TotalCredit, line.Credit)
	}
	return check
}

// accumulate adds one line amount to a running total. A total that would pass
// MaxCents is left unchanged and the line is flagged.
func (b *BalanceCheck) accumulate(line int, field string, total Cents, d decimal.Decimal) Cents {
	if d.IsNegative() {
		b.addProblem(line, field, ErrNegativeAmount)
	}
	cents, err := ToCents(d)
	switch {
	case errors.Is(err, ErrAmountTooLarge):
		b.addProblem(line, field, err)
		return total
	case err != nil:
		b.addProblem(line, field, err)
		cents = RoundToCents(d)
	}
	sum, err := total.Add(cents)
	if err != nil {
		b.addProblem(line, field, err)
		return total
	}
	return sum
}

func (b *BalanceCheck) addProblem(line int, field string, err error) {
	b.Problems = append(b.Problems, LineProblem{Line: line, Field: field, Err: err})
}

// Balanced reports whether total debits equal total credits
func (b BalanceCheck) Balanced() bool {
	return b.TotalDebit == b.TotalCredit
}

// Difference is debits minus credits
func (b BalanceCheck) Difference() Cents {
	return b.TotalDebit - b.TotalCredit
}

// Err returns the first reason the lines cannot be submitted, or nil
func (b BalanceCheck) Err() error {
	if b.LineCount < MinJournalLines {
		return ErrTooFewLines
	}
	if len(b.Problems) > 0 {
		return b.Problems[0].Err
	}
	if !b.Balanced() {
		return ErrUnbalancedEntry
	}
	return nil
}

// Submittable reports whether the lines may be posted
func (b BalanceCheck) Submittable() bool {
	return b.Err() == nil
}

// JournalLine is one side of a posted double entry
type JournalLine struct {
	AccountID uuid.UUID `json:"accountId"`
	Debit     Cents     `json:"debit"`
	Credit    Cents     `json:"credit"`
}

// Effect returns the change this line makes to the balance of an account of type t
func (l JournalLine) Effect(t AccountType) Cents {
	if t.IsDebitNormal() {
		return l.Debit - l.Credit
	}
	return l.Credit - l.Debit
}

// BalanceDeltas sums the balance change of every account the lines touch.
// typeOf resolves an account to its type.
func BalanceDeltas(lines []JournalLine, typeOf func(uuid.UUID) (AccountType, error)) (map[uuid.UUID]Cents, error) {
	deltas := make(map[uuid.UUID]Cents)
	for _, l := range lines {
		t, err := typeOf(l.AccountID)
		if err != nil {
			return nil, err
		}
		sum, err := deltas[l.AccountID].Add(l.Effect(t))
		if err != nil {
			return nil, err
		}
		deltas[l.AccountID] = sum
	}
	return deltas, nil
}

// ApplyDelta returns the balance after adding delta, or ErrInsufficientBalance
// when it would turn negative
func ApplyDelta(balance, delta Cents) (Cents, error) {
	next, err := balance.Add(delta)
	if err != nil {
		return 0, err
	}
	if next < 0 {
		return 0, ErrInsufficientBalance
	}
	return next, nil
}

// JournalEntry is a balanced set of journal lines
type JournalEntry struct {
	ID          ulid.ULID     `json:"id"`
	Date        time.Time     `json:"date"`
	Description string        `json:"description"`
	Lines       []JournalLine `json:"lines"`
	TotalDebit  Cents         `json:"totalDebit"`
	TotalCredit Cents         `json:"totalCredit"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// References reports whether any line posts to the account
func (e *JournalEntry) References(accountID uuid.UUID) bool {
	for _, l := range e.Lines {
		if l.AccountID == accountID {
			return true
		}
	}
	return false
}

// JournalFilter narrows a journal listing. Zero values mean unbounded.
type JournalFilter struct {
	From      time.Time
	To        time.Time
	AccountID uuid.UUID
}

// Matches reports whether the entry passes the filter (date bounds inclusive)
func (f JournalFilter) Matches(e *JournalEntry) bool {
	if !f.From.IsZero() && e.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && e.Date.After(f.To) {
		return false
	}
	if f.AccountID != uuid.Nil && !e.References(f.AccountID) {
		return false
	}
	return true
}

type JournalRepository interface {
	// Post stores the entry and applies each line to its account balance as
	// one atomic step, using the account types current at commit time. The
	// whole entry is rejected if any account is missing or inactive, or would
	// end with a negative balance or one beyond MaxCents.
	Post(entry *JournalEntry) (*JournalEntry, error)
	GetByID(id ulid.ULID) (*JournalEntry, error)
	List(filter JournalFilter) ([]*JournalEntry, error)
	Count() (int, error)
}

// EntryError reports every problem found while checking an entry's lines.
// It unwraps to the first blocking sentinel error.
type EntryError struct {
	Check BalanceCheck
}

func (e *EntryError) Error() string {
	return e.Check.Err().Error()
}

func (e *EntryError) Unwrap() error {
	return e.Check.Err()
}
