package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type AccountType string
type AccountStatus string

const (
	AccountTypeAsset     AccountType = "Asset"
	AccountTypeLiability AccountType = "Liability"
	AccountTypeEquity    AccountType = "Equity"
	AccountTypeRevenue   AccountType = "Revenue"
	AccountTypeExpense   AccountType = "Expense"
)

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
)

// AccountTypes lists every account type in reporting order
var AccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeRevenue,
	AccountTypeExpense,
}

// ParseAccountType resolves a type name case-insensitively ("asset" -> Asset)
func ParseAccountType(s string) (AccountType, error) {
	s = strings.TrimSpace(s)
	for _, t := range AccountTypes {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", ErrInvalidAccountType
}

// IsDebitNormal reports whether debits increase accounts of this type.
// Assets and expenses are debit-normal; liabilities, equity and revenue are credit-normal.
func (t AccountType) IsDebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// ParseAccountStatus resolves a status; empty input means active
func ParseAccountStatus(s string) (AccountStatus, error) {
	switch AccountStatus(strings.ToLower(strings.TrimSpace(s))) {
	case "", AccountStatusActive:
		return AccountStatusActive, nil
	case AccountStatusInactive:
		return AccountStatusInactive, nil
	}
	return "", ErrInvalidStatus
}

var accountCodePattern = regexp.MustCompile(`^\d{4}$`)

// ValidateAccountCode checks that a code is exactly four ASCII digits
func ValidateAccountCode(code string) error {
	if !accountCodePattern.MatchString(code) {
		return ErrInvalidCode
	}
	return nil
}

// Account is a row in the chart of accounts
type Account struct {
	ID          uuid.UUID     `json:"id"`
	Code        string        `json:"code"`
	Name        string        `json:"name"`
	Type        AccountType   `json:"type"`
	Category    string        `json:"category"`
	Description string        `json:"description,omitempty"`
	Balance     Cents         `json:"balance"`
	Status      AccountStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// IsActive reports whether the account accepts postings
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// Validate checks field invariants in form order.
func (a *Account) Validate() error {
	if err := ValidateAccountCode(a.Code); err != nil {
		return err
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrNameRequired
	}
	if len(a.Name) > MaxAccountNameLength {
		return ErrNameTooLong
	}
	if _, err := ParseAccountType(string(a.Type)); err != nil {
		return err
	}
	if len(a.Category) > MaxCategoryLength {
		return ErrCategoryTooLong
	}
	if len(a.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if a.Status != AccountStatusActive && a.Status != AccountStatusInactive {
		return ErrInvalidStatus
	}
	if a.Balance < 0 {
		return ErrNegativeBalance
	}
	if a.Balance > MaxCents {
		return ErrAmountTooLarge
	}
	return nil
}

// AccountFilter narrows an account listing
type AccountFilter struct {
	// Search matches the name case-insensitively or the code as a substring
	Search string
	Type   AccountType
	Status AccountStatus
}

// Matches reports whether the account passes the filter
func (f AccountFilter) Matches(a *Account) bool {
	if f.Type != "" && a.Type != f.Type {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.Search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(a.Name), strings.ToLower(f.Search)) ||
		strings.Contains(a.Code, f.Search)
}

type AccountRepository interface {
	Create(account *Account) (*Account, error)
	GetByID(id uuid.UUID) (*Account, error)
	GetByCode(code string) (*Account, error)
	List(filter AccountFilter) ([]*Account, error)
	Update(account *Account) (*Account, error)
	Delete(id uuid.UUID) error
}
