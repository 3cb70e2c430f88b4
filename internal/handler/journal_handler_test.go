package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryBody(date, description string, lines ...string) string {
	body := fmt.Sprintf(`{"description": %q, "lines": [`, description)
	if date != "" {
		body = fmt.Sprintf(`{"date": %q, "description": %q, "lines": [`, date, description)
	}
	for i, l := range lines {
		if i > 0 {
			body += ","
		}
		body += l
	}
	return body + "]}"
}

func debit(a *domain.Account, amount string) string {
	return fmt.Sprintf(`{"accountId": %q, "debit": %q}`, a.ID.String(), amount)
}

func credit(a *domain.Account, amount string) string {
	return fmt.Sprintf(`{"accountId": %q, "credit": %q}`, a.ID.String(), amount)
}

func TestValidateEntry(t *testing.T) {
	api := newTestAPI(t)
	cash := api.account(t, "1000")
	sales := api.account(t, "4000")

	tests := []struct {
		name        string
		lines       []string
		totalDebit  string
		totalCredit string
		difference  string
		balanced    bool
		submittable bool
	}{
		{"balanced", []string{debit(cash, "100"), credit(sales, "100")}, "100.00", "100.00", "0.00", true, true},
		{"off by one", []string{debit(cash, "100"), credit(sales, "99")}, "100.00", "99.00", "1.00", false, false},
		{"numeric amounts", []string{
			fmt.Sprintf(`{"accountId": %q, "debit": 12.5}`, cash.ID),
			fmt.Sprintf(`{"accountId": %q, "credit": 12.50}`, sales.ID),
		}, "12.50", "12.50", "0.00", true, true},
		{"single line", []string{debit(cash, "0")}, "0.00", "0.00", "0.00", true, false},
		{"fractional cents", []string{debit(cash, "10.005"), credit(sales, "10.01")}, "10.01", "10.01", "0.00", true, false},
		{"no account", []string{`{"debit": "5"}`, credit(sales, "5")}, "5.00", "5.00", "0.00", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(http.MethodPost, "/api/v1/journal-entries/validate", entryBody("", "", tt.lines...))

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			var check BalanceCheckResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &check))
			assert.Equal(t, tt.totalDebit, check.TotalDebit)
			assert.Equal(t, tt.totalCredit, check.TotalCredit)
			assert.Equal(t, tt.difference, check.Difference)
			assert.Equal(t, tt.balanced, check.Balanced)
			assert.Equal(t, tt.submittable, check.Submittable)
			assert.Equal(t, tt.submittable, len(check.Problems) == 0)
		})
	}

	assert.Empty(t, api.publisher.Events, "validation must not post")
}

func TestValidateEntry_ProblemFields(t *testing.T) {
	api := newTestAPI(t)
	cash := api.account(t, "1000")

	rec := api.do(http.MethodPost, "/api/v1/journal-entries/validate", entryBody("", "",
		debit(cash, "-5"),
		`{"credit": "3"}`,
	))

	require.Equal(t, http.StatusOK, rec.Code)
	var check BalanceCheckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &check))

	fields := make([]string, len(check.Problems))
	for i, p := range check.Problems {
		fields[i] = p.Field
	}
	assert.Equal(t, []string{"lines[0].debit", "lines[1].accountId", "lines"}, fields)
}

func TestValidateEntry_MalformedAccountID(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/v1/journal-entries/validate", `{"lines": [{"accountId": "nope", "debit": "1"}]}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decodeProblem(t, rec)
	require.Len(t, problem.Errors, 1)
	assert.Equal(t, "lines[0].accountId", problem.Errors[0].Field)
}

func TestPostEntry_Success(t *testing.T) {
	api := newTestAPI(t)
	cash := api.account(t, "1000")
	payable := api.account(t, "2000")
	sales := api.account(t, "4000")

	rec := api.do(http.MethodPost, "/api/v1/journal-entries", entryBody("2026-04-02", "Cash sale and supplier payment",
		debit(cash, "3000"),
		credit(sales, "3000"),
		debit(payable, "500"),
		credit(cash, "500"),
	))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var entry JournalEntryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	assert.Equal(t, "2026-04-02", entry.Date)
	assert.Equal(t, "3500.00", entry.TotalDebit)
	assert.Equal(t, "3500.00", entry.TotalCredit)
	assert.Len(t, entry.Lines, 4)
	_, err := ulid.ParseStrict(entry.ID)
	assert.NoError(t, err)

	// Debit-normal cash: +3000 - 500; credit-normal payable: -500; revenue: +3000
	assert.Equal(t, domain.Cents(5250000), api.account(t, "1000").Balance)
	assert.Equal(t, domain.Cents(1450000), api.account(t, "2000").Balance)
	assert.Equal(t, domain.Cents(300000), api.account(t, "4000").Balance)
	assert.Equal(t, []string{"journal_entry.posted"}, api.publisher.Types())

	rec = api.do(http.MethodGet, "/api/v1/journal-entries/"+entry.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched JournalEntryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, entry, fetched)
}

func TestPostEntry_Rejected(t *testing.T) {
	api := newTestAPI(t)
	cash := api.account(t, "1000")
	sales := api.account(t, "4000")
	rent := api.account(t, "5200")

	inactive := *api.account(t, "5100")
	inactive.Status = domain.AccountStatusInactive
	_, err := api.store.Accounts().Update(&inactive)
	require.NoError(t, err)

	tests := []struct {
		name   string
		body   string
		status int
		field  string
	}{
		{"unbalanced", entryBody("", "Sale", debit(cash, "100"), credit(sales, "99")), http.StatusBadRequest, "lines"},
		{"one line", entryBody("", "Sale", debit(cash, "0")), http.StatusBadRequest, "lines"},
		{"missing account", entryBody("", "Sale", `{"debit": "10"}`, credit(sales, "10")), http.StatusBadRequest, "lines[0].accountId"},
		{"amount beyond int64 cents", entryBody("", "Sale", debit(cash, "184467440737095516.16"), credit(sales, "0")), http.StatusBadRequest, "lines[0].debit"},
		{"bad date", entryBody("04/02/2026", "Sale", debit(cash, "10"), credit(sales, "10")), http.StatusBadRequest, "date"},
		{"overdrawn cash", entryBody("", "Rent", debit(rent, "60000"), credit(cash, "60000")), http.StatusUnprocessableEntity, ""},
		{"inactive account", entryBody("", "Supplies", debit(&inactive, "10"), credit(cash, "10")), http.StatusUnprocessableEntity, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(http.MethodPost, "/api/v1/journal-entries", tt.body)

			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.field != "" {
				problem := decodeProblem(t, rec)
				require.NotEmpty(t, problem.Errors)
				assert.Equal(t, tt.field, problem.Errors[0].Field)
			}
		})
	}

	assert.Equal(t, domain.Cents(5000000), api.account(t, "1000").Balance)
	assert.Equal(t, domain.Cents(0), api.account(t, "5200").Balance)
	assert.Empty(t, api.publisher.Events)
}

func TestPostEntry_UnbalancedDetail(t *testing.T) {
	api := newTestAPI(t)
	cash := api.account(t, "1000")
	sales := api.account(t, "4000")

	rec := api.do(http.MethodPost, "/api/v1/journal-entries", entryBody("", "Sale", debit(cash, "100"), credit(sales, "99")))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Equal(t, domain.ErrUnbalancedEntry.Error(), problem.Detail)
	assert.Equal(t, "Debits 100.00 do not equal credits 99.00", problem.Errors[0].Message)
}

func TestGetEntries(t *testing.T) {
	api := newTestAPI(t)
	cash := api.account(t, "1000")
	sales := api.account(t, "4000")
	rent := api.account(t, "5200")

	for _, body := range []string{
		entryBody("2026-03-01", "March sale", debit(cash, "100"), credit(sales, "100")),
		entryBody("2026-04-01", "April rent", debit(rent, "40"), credit(cash, "40")),
		entryBody("2026-05-01", "May sale", debit(cash, "70"), credit(sales, "70")),
	} {
		rec := api.do(http.MethodPost, "/api/v1/journal-entries", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	descriptions := func(query string) []string {
		rec := api.do(http.MethodGet, "/api/v1/journal-entries"+query, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var entries []JournalEntryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
		result := make([]string, len(entries))
		for i, e := range entries {
			result[i] = e.Description
		}
		return result
	}

	assert.Equal(t, []string{"May sale", "April rent", "March sale"}, descriptions(""))
	assert.Equal(t, []string{"April rent", "March sale"}, descriptions("?from=2026-03-01&to=2026-04-01"))
	assert.Equal(t, []string{"April rent"}, descriptions("?accountId="+rent.ID.String()))
}

func TestGetEntries_InvalidFilter(t *testing.T) {
	api := newTestAPI(t)

	for _, query := range []string{"?from=yesterday", "?to=2026-13-01", "?accountId=abc", "?from=2026-05-01&to=2026-04-01"} {
		rec := api.do(http.MethodGet, "/api/v1/journal-entries"+query, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func TestGetEntry_Errors(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/v1/journal-entries/not-a-ulid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/journal-entries/"+ulid.Make().String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
