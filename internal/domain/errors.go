package domain

import "errors"

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrAccountNotFound    = errors.New("account not found")
	ErrDuplicateCode      = errors.New("account code already exists")
	ErrInvalidCode        = errors.New("account code must be 4 digits")
	ErrNameRequired       = errors.New("name is required")
	ErrNameTooLong        = errors.New("name exceeds maximum length")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInvalidStatus      = errors.New("invalid account status")
	ErrNegativeBalance    = errors.New("balance cannot be negative")
	ErrTooManyDecimals    = errors.New("amount has more than 2 decimal places")
	ErrAmountTooLarge     = errors.New("amount exceeds the maximum supported value")
	ErrAccountInUse       = errors.New("account is referenced by journal entries")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrCategoryTooLong    = errors.New("category exceeds maximum length")

	ErrEntryNotFound       = errors.New("journal entry not found")
	ErrUnbalancedEntry     = errors.New("total debits do not equal total credits")
	ErrTooFewLines         = errors.New("journal entry needs at least two lines")
	ErrLineMissingAccount  = errors.New("journal line has no account")
	ErrNegativeAmount      = errors.New("amount cannot be negative")
	ErrInsufficientBalance = errors.New("posting would make an account balance negative")
	ErrDescriptionTooLong  = errors.New("description exceeds maximum length")

	ErrUnknownReport        = errors.New("unknown report")
	ErrUnsupportedFormat    = errors.New("unsupported export format")
	ErrStorageNotConfigured = errors.New("export storage not configured")
)

// Validation constants
const (
	MaxAccountNameLength = 255
	MaxCategoryLength    = 100
	MaxDescriptionLength = 500
	MinJournalLines      = 2
)
