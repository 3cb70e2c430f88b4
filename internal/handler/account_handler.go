package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/dafibh/tally/tally-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AccountHandler handles chart of accounts HTTP requests
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// AccountRequest represents the create and update account request body
type AccountRequest struct {
	Code        string `json:"code" example:"1000"`
	Name        string `json:"name" example:"Cash"`
	Type        string `json:"type" example:"Asset"`
	Category    string `json:"category,omitempty" example:"Current Assets"`
	Description string `json:"description,omitempty"`
	Balance     string `json:"balance,omitempty" example:"50000.00"`
	Status      string `json:"status,omitempty" example:"active"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Balance     string `json:"balance"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:          a.ID.String(),
		Code:        a.Code,
		Name:        a.Name,
		Type:        string(a.Type),
		Category:    a.Category,
		Description: a.Description,
		Balance:     a.Balance.String(),
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
	}
}

func (r AccountRequest) toInput() (service.AccountInput, *ValidationError) {
	balance := decimal.Zero
	if r.Balance != "" {
		var err error
		balance, err = decimal.NewFromString(r.Balance)
		if err != nil {
			return service.AccountInput{}, &ValidationError{Field: "balance", Message: "Must be a valid decimal number"}
		}
	}
	return service.AccountInput{
		Code:        r.Code,
		Name:        r.Name,
		Type:        r.Type,
		Category:    r.Category,
		Description: r.Description,
		Balance:     balance,
		Status:      r.Status,
	}, nil
}

// accountFieldError maps an account validation error to the offending field
func accountFieldError(err error) (ValidationError, bool) {
	switch {
	case errors.Is(err, domain.ErrInvalidCode):
		return ValidationError{Field: "code", Message: "Code must be exactly 4 digits"}, true
	case errors.Is(err, domain.ErrDuplicateCode):
		return ValidationError{Field: "code", Message: "Code is already used by another account"}, true
	case errors.Is(err, domain.ErrNameRequired):
		return ValidationError{Field: "name", Message: "Name is required"}, true
	case errors.Is(err, domain.ErrNameTooLong):
		return ValidationError{Field: "name", Message: fmt.Sprintf("Name must be %d characters or less", domain.MaxAccountNameLength)}, true
	case errors.Is(err, domain.ErrInvalidAccountType):
		return ValidationError{Field: "type", Message: "Type must be one of: Asset, Liability, Equity, Revenue, Expense"}, true
	case errors.Is(err, domain.ErrCategoryTooLong):
		return ValidationError{Field: "category", Message: fmt.Sprintf("Category must be %d characters or less", domain.MaxCategoryLength)}, true
	case errors.Is(err, domain.ErrDescriptionTooLong):
		return ValidationError{Field: "description", Message: fmt.Sprintf("Description must be %d characters or less", domain.MaxDescriptionLength)}, true
	case errors.Is(err, domain.ErrInvalidStatus):
		return ValidationError{Field: "status", Message: "Status must be active or inactive"}, true
	case errors.Is(err, domain.ErrNegativeBalance):
		return ValidationError{Field: "balance", Message: "Balance cannot be negative"}, true
	case errors.Is(err, domain.ErrTooManyDecimals):
		return ValidationError{Field: "balance", Message: "Balance can have at most 2 decimal places"}, true
	case errors.Is(err, domain.ErrAmountTooLarge):
		return ValidationError{Field: "balance", Message: fmt.Sprintf("Balance must not exceed %s", domain.MaxCents)}, true
	}
	return ValidationError{}, false
}

func invalidAccountIDError(c echo.Context) error {
	return NewValidationError(c, "Invalid account ID", []ValidationError{
		{Field: "id", Message: "Must be a UUID"},
	})
}

// CreateAccount godoc
// @Summary Create an account
// @Description Add an account to the chart of accounts
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body AccountRequest true "Account"
// @Success 201 {object} AccountResponse
// @Failure 400 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /accounts [post]
func (h *AccountHandler) CreateAccount(c echo.Context) error {
	var req AccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	input, fieldErr := req.toInput()
	if fieldErr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*fieldErr})
	}

	account, err := h.accountService.CreateAccount(input)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateCode) {
			return NewConflictError(c, fmt.Sprintf("Account code %s already exists", input.Code))
		}
		if fe, ok := accountFieldError(err); ok {
			return NewValidationError(c, "Validation failed", []ValidationError{fe})
		}
		log.Error().Err(err).Str("code", input.Code).Msg("Failed to create account")
		return NewInternalError(c, "Failed to create account")
	}

	return c.JSON(http.StatusCreated, toAccountResponse(account))
}

// GetAccounts godoc
// @Summary List accounts
// @Description List the chart of accounts sorted by code
// @Tags accounts
// @Produce json
// @Param search query string false "Case-insensitive name or code match"
// @Param type query string false "Account type"
// @Param status query string false "active or inactive"
// @Success 200 {array} AccountResponse
// @Failure 400 {object} ProblemDetails
// @Router /accounts [get]
func (h *AccountHandler) GetAccounts(c echo.Context) error {
	filter := domain.AccountFilter{Search: c.QueryParam("search")}

	if t := c.QueryParam("type"); t != "" {
		accountType, err := domain.ParseAccountType(t)
		if err != nil {
			fe, _ := accountFieldError(err)
			return NewValidationError(c, "Invalid filter", []ValidationError{fe})
		}
		filter.Type = accountType
	}
	if s := c.QueryParam("status"); s != "" {
		status, err := domain.ParseAccountStatus(s)
		if err != nil {
			fe, _ := accountFieldError(err)
			return NewValidationError(c, "Invalid filter", []ValidationError{fe})
		}
		filter.Status = status
	}

	accounts, err := h.accountService.ListAccounts(filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list accounts")
		return NewInternalError(c, "Failed to list accounts")
	}

	response := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		response[i] = toAccountResponse(a)
	}
	return c.JSON(http.StatusOK, response)
}

// GetAccount godoc
// @Summary Get an account
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} AccountResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /accounts/{id} [get]
func (h *AccountHandler) GetAccount(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidAccountIDError(c)
	}

	account, err := h.accountService.GetAccount(id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return NewNotFoundError(c, "Account not found")
		}
		log.Error().Err(err).Str("account_id", id.String()).Msg("Failed to get account")
		return NewInternalError(c, "Failed to get account")
	}

	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// UpdateAccount godoc
// @Summary Update an account
// @Description Replace every editable field of an account
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body AccountRequest true "Account"
// @Success 200 {object} AccountResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /accounts/{id} [put]
func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidAccountIDError(c)
	}

	var req AccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	input, fieldErr := req.toInput()
	if fieldErr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*fieldErr})
	}

	account, err := h.accountService.UpdateAccount(id, input)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return NewNotFoundError(c, "Account not found")
		}
		if errors.Is(err, domain.ErrDuplicateCode) {
			return NewConflictError(c, fmt.Sprintf("Account code %s already exists", input.Code))
		}
		if fe, ok := accountFieldError(err); ok {
			return NewValidationError(c, "Validation failed", []ValidationError{fe})
		}
		log.Error().Err(err).Str("account_id", id.String()).Msg("Failed to update account")
		return NewInternalError(c, "Failed to update account")
	}

	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// DeleteAccount godoc
// @Summary Delete an account
// @Description Accounts referenced by journal entries cannot be deleted
// @Tags accounts
// @Param id path string true "Account ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidAccountIDError(c)
	}

	if err := h.accountService.DeleteAccount(id); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return NewNotFoundError(c, "Account not found")
		}
		if errors.Is(err, domain.ErrAccountInUse) {
			return NewConflictError(c, "Account is referenced by journal entries; set it inactive instead")
		}
		log.Error().Err(err).Str("account_id", id.String()).Msg("Failed to delete account")
		return NewInternalError(c, "Failed to delete account")
	}

	return c.NoContent(http.StatusNoContent)
}
