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
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// JournalHandler handles journal entry HTTP requests
type JournalHandler struct {
	journalService *service.JournalService
}

// NewJournalHandler creates a new JournalHandler
func NewJournalHandler(journalService *service.JournalService) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

// JournalLineRequest is one debit or credit line. Amounts accept JSON numbers or decimal strings.
type JournalLineRequest struct {
	AccountID string          `json:"accountId"`
	Debit     decimal.Decimal `json:"debit" swaggertype:"string" example:"100.00"`
	Credit    decimal.Decimal `json:"credit" swaggertype:"string" example:"0"`
}

// ValidateEntryRequest represents the balance check request body
type ValidateEntryRequest struct {
	Lines []JournalLineRequest `json:"lines"`
}

// PostEntryRequest represents the post journal entry request body
type PostEntryRequest struct {
	Date        string               `json:"date,omitempty" example:"2026-04-02"`
	Description string               `json:"description"`
	Lines       []JournalLineRequest `json:"lines"`
}

// BalanceCheckResponse reports whether lines are balanced and may be submitted
type BalanceCheckResponse struct {
	TotalDebit  string            `json:"totalDebit"`
	TotalCredit string            `json:"totalCredit"`
	Difference  string            `json:"difference"`
	LineCount   int               `json:"lineCount"`
	Balanced    bool              `json:"balanced"`
	Submittable bool              `json:"submittable"`
	Problems    []ValidationError `json:"problems"`
}

// JournalLineResponse represents a posted line
type JournalLineResponse struct {
	AccountID string `json:"accountId"`
	Debit     string `json:"debit"`
	Credit    string `json:"credit"`
}

// JournalEntryResponse represents a journal entry in API responses
type JournalEntryResponse struct {
	ID          string                `json:"id"`
	Date        string                `json:"date"`
	Description string                `json:"description"`
	Lines       []JournalLineResponse `json:"lines"`
	TotalDebit  string                `json:"totalDebit"`
	TotalCredit string                `json:"totalCredit"`
	CreatedAt   string                `json:"createdAt"`
}

func toJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			AccountID: l.AccountID.String(),
			Debit:     l.Debit.String(),
			Credit:    l.Credit.String(),
		}
	}
	return JournalEntryResponse{
		ID:          e.ID.String(),
		Date:        e.Date.Format(dateLayout),
		Description: e.Description,
		Lines:       lines,
		TotalDebit:  e.TotalDebit.String(),
		TotalCredit: e.TotalCredit.String(),
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
}

func lineProblems(check domain.BalanceCheck) []ValidationError {
	problems := make([]ValidationError, 0, len(check.Problems)+1)
	if check.LineCount < domain.MinJournalLines {
		problems = append(problems, ValidationError{Field: "lines", Message: fmt.Sprintf("At least %d lines are required", domain.MinJournalLines)})
	}
	for _, p := range check.Problems {
		problems = append(problems, ValidationError{
			Field:   fmt.Sprintf("lines[%d].%s", p.Line, p.Field),
			Message: p.Err.Error(),
		})
	}
	if !check.Balanced() {
		problems = append(problems, ValidationError{
			Field:   "lines",
			Message: fmt.Sprintf("Debits %s do not equal credits %s", check.TotalDebit, check.TotalCredit),
		})
	}
	return problems
}

func toBalanceCheckResponse(check domain.BalanceCheck) BalanceCheckResponse {
	return BalanceCheckResponse{
		TotalDebit:  check.TotalDebit.String(),
		TotalCredit: check.TotalCredit.String(),
		Difference:  check.Difference().String(),
		LineCount:   check.LineCount,
		Balanced:    check.Balanced(),
		Submittable: check.Submittable(),
		Problems:    lineProblems(check),
	}
}

func toLineInputs(lines []JournalLineRequest) ([]domain.LineInput, []ValidationError) {
	inputs := make([]domain.LineInput, len(lines))
	var fieldErrs []ValidationError
	for i, l := range lines {
		inputs[i] = domain.LineInput{Debit: l.Debit, Credit: l.Credit}
		if l.AccountID == "" {
			continue
		}
		id, err := uuid.Parse(l.AccountID)
		if err != nil {
			fieldErrs = append(fieldErrs, ValidationError{Field: fmt.Sprintf("lines[%d].accountId", i), Message: "Must be a UUID"})
			continue
		}
		inputs[i].AccountID = id
	}
	return inputs, fieldErrs
}

// ValidateEntry godoc
// @Summary Check journal lines
// @Description Total debits and credits and report whether the entry may be submitted. Nothing is posted.
// @Tags journal-entries
// @Accept json
// @Produce json
// @Param request body ValidateEntryRequest true "Lines"
// @Success 200 {object} BalanceCheckResponse
// @Failure 400 {object} ProblemDetails
// @Router /journal-entries/validate [post]
func (h *JournalHandler) ValidateEntry(c echo.Context) error {
	var req ValidateEntryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	lines, fieldErrs := toLineInputs(req.Lines)
	if len(fieldErrs) > 0 {
		return NewValidationError(c, "Validation failed", fieldErrs)
	}

	check := h.journalService.ValidateLines(lines)
	return c.JSON(http.StatusOK, toBalanceCheckResponse(check))
}

// PostEntry godoc
// @Summary Post a journal entry
// @Description Post a balanced entry and apply it to account balances
// @Tags journal-entries
// @Accept json
// @Produce json
// @Param request body PostEntryRequest true "Journal entry"
// @Success 201 {object} JournalEntryResponse
// @Failure 400 {object} ProblemDetails
// @Failure 422 {object} ProblemDetails
// @Router /journal-entries [post]
func (h *JournalHandler) PostEntry(c echo.Context) error {
	var req PostEntryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	var date time.Time
	if req.Date != "" {
		var err error
		date, err = time.Parse(dateLayout, req.Date)
		if err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "date", Message: "Date must be YYYY-MM-DD"},
			})
		}
	}
	lines, fieldErrs := toLineInputs(req.Lines)
	if len(fieldErrs) > 0 {
		return NewValidationError(c, "Validation failed", fieldErrs)
	}

	entry, err := h.journalService.PostEntry(service.PostEntryInput{
		Date:        date,
		Description: req.Description,
		Lines:       lines,
	})
	if err != nil {
		var entryErr *domain.EntryError
		switch {
		case errors.As(err, &entryErr):
			return NewValidationError(c, entryErr.Error(), lineProblems(entryErr.Check))
		case errors.Is(err, domain.ErrDescriptionTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "description", Message: fmt.Sprintf("Description must be %d characters or less", domain.MaxDescriptionLength)},
			})
		case errors.Is(err, domain.ErrAccountNotFound),
			errors.Is(err, domain.ErrAccountInactive),
			errors.Is(err, domain.ErrInsufficientBalance),
			errors.Is(err, domain.ErrAmountTooLarge):
			return NewUnprocessableError(c, err.Error())
		}
		log.Error().Err(err).Msg("Failed to post journal entry")
		return NewInternalError(c, "Failed to post journal entry")
	}

	return c.JSON(http.StatusCreated, toJournalEntryResponse(entry))
}

// GetEntries godoc
// @Summary List journal entries
// @Description Newest first, optionally limited to a date range or an account
// @Tags journal-entries
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param accountId query string false "Only entries posting to this account"
// @Success 200 {array} JournalEntryResponse
// @Failure 400 {object} ProblemDetails
// @Router /journal-entries [get]
func (h *JournalHandler) GetEntries(c echo.Context) error {
	var filter domain.JournalFilter
	var fieldErrs []ValidationError

	if from := c.QueryParam("from"); from != "" {
		d, err := time.Parse(dateLayout, from)
		if err != nil {
			fieldErrs = append(fieldErrs, ValidationError{Field: "from", Message: "Date must be YYYY-MM-DD"})
		}
		filter.From = d
	}
	if to := c.QueryParam("to"); to != "" {
		d, err := time.Parse(dateLayout, to)
		if err != nil {
			fieldErrs = append(fieldErrs, ValidationError{Field: "to", Message: "Date must be YYYY-MM-DD"})
		}
		filter.To = d
	}
	if accountID := c.QueryParam("accountId"); accountID != "" {
		id, err := uuid.Parse(accountID)
		if err != nil {
			fieldErrs = append(fieldErrs, ValidationError{Field: "accountId", Message: "Must be a UUID"})
		}
		filter.AccountID = id
	}
	if len(fieldErrs) > 0 {
		return NewValidationError(c, "Invalid filter", fieldErrs)
	}

	entries, err := h.journalService.ListEntries(filter)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Invalid filter", []ValidationError{
				{Field: "to", Message: "End date must not be before start date"},
			})
		}
		log.Error().Err(err).Msg("Failed to list journal entries")
		return NewInternalError(c, "Failed to list journal entries")
	}

	response := make([]JournalEntryResponse, len(entries))
	for i, e := range entries {
		response[i] = toJournalEntryResponse(e)
	}
	return c.JSON(http.StatusOK, response)
}

// GetEntry godoc
// @Summary Get a journal entry
// @Tags journal-entries
// @Produce json
// @Param id path string true "Journal entry ID (ULID)"
// @Success 200 {object} JournalEntryResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /journal-entries/{id} [get]
func (h *JournalHandler) GetEntry(c echo.Context) error {
	id, err := ulid.ParseStrict(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid journal entry ID", []ValidationError{
			{Field: "id", Message: "Must be a ULID"},
		})
	}

	entry, err := h.journalService.GetEntry(id)
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return NewNotFoundError(c, "Journal entry not found")
		}
		log.Error().Err(err).Str("entry_id", id.String()).Msg("Failed to get journal entry")
		return NewInternalError(c, "Failed to get journal entry")
	}

	return c.JSON(http.StatusOK, toJournalEntryResponse(entry))
}
