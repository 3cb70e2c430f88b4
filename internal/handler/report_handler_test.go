package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/dafibh/tally/tally-backend/internal/service"
	"github.com/dafibh/tally/tally-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBalanceSummaries_BothPaths(t *testing.T) {
	api := newTestAPI(t)

	expected := `[
		{"accountType": "Asset", "total": "85000.00", "count": 3},
		{"accountType": "Liability", "total": "15000.00", "count": 1},
		{"accountType": "Equity", "total": "70000.00", "count": 1},
		{"accountType": "Revenue", "total": "0.00", "count": 2},
		{"accountType": "Expense", "total": "0.00", "count": 3}
	]`

	for _, path := range []string{"/api/accounts/balances", "/api/v1/accounts/balances"} {
		rec := api.do(http.MethodGet, path, "")

		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.JSONEq(t, expected, rec.Body.String(), path)
	}
}

func TestGetAccountBalances(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/v1/reports/balances", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var report struct {
		Summaries     []domain.AccountBalanceSummary `json:"summaries"`
		TotalBalance  string                         `json:"totalBalance"`
		TotalAccounts int                            `json:"totalAccounts"`
		AccountTypes  int                            `json:"accountTypes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Len(t, report.Summaries, 5)
	assert.Equal(t, "170000.00", report.TotalBalance)
	assert.Equal(t, 10, report.TotalAccounts)
	assert.Equal(t, 5, report.AccountTypes)
}

func TestGetBalanceSheet(t *testing.T) {
	api := newTestAPI(t)
	cash := api.account(t, "1000")
	sales := api.account(t, "4000")

	rec := api.do(http.MethodPost, "/api/v1/journal-entries", entryBody("", "Sale", debit(cash, "1200"), credit(sales, "1200")))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/reports/balance-sheet", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var sheet struct {
		TotalAssets      string `json:"totalAssets"`
		TotalLiabilities string `json:"totalLiabilities"`
		TotalEquity      string `json:"totalEquity"`
		NetIncome        string `json:"netIncome"`
		Difference       string `json:"difference"`
		Balanced         bool   `json:"balanced"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sheet))
	assert.Equal(t, "86200.00", sheet.TotalAssets)
	assert.Equal(t, "15000.00", sheet.TotalLiabilities)
	assert.Equal(t, "70000.00", sheet.TotalEquity)
	assert.Equal(t, "1200.00", sheet.NetIncome)
	assert.Equal(t, "0.00", sheet.Difference)
	assert.True(t, sheet.Balanced)
}

func TestGetIncomeStatement(t *testing.T) {
	api := newTestAPI(t)
	cash := api.account(t, "1000")
	sales := api.account(t, "4000")
	rent := api.account(t, "5200")

	for _, body := range []string{
		entryBody("", "Sale", debit(cash, "900"), credit(sales, "900")),
		entryBody("", "Rent", debit(rent, "350.25"), credit(cash, "350.25")),
	} {
		rec := api.do(http.MethodPost, "/api/v1/journal-entries", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := api.do(http.MethodGet, "/api/v1/reports/income-statement", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var statement struct {
		TotalRevenue  string `json:"totalRevenue"`
		TotalExpenses string `json:"totalExpenses"`
		NetIncome     string `json:"netIncome"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &statement))
	assert.Equal(t, "900.00", statement.TotalRevenue)
	assert.Equal(t, "350.25", statement.TotalExpenses)
	assert.Equal(t, "549.75", statement.NetIncome)
}

func TestExportReport(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/v1/reports/balance-sheet/export", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	disposition := rec.Header().Get("Content-Disposition")
	assert.True(t, strings.HasPrefix(disposition, `attachment; filename="balance-sheet-`), disposition)
	assert.True(t, strings.HasSuffix(disposition, `.csv"`), disposition)
	assert.Contains(t, rec.Body.String(), "Cash")

	rec = api.do(http.MethodGet, "/api/v1/reports/income-statement/export?format=pdf", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestExportReport_BadRequest(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/v1/reports/trial-balance/export", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/reports/balances/export?format=xlsx", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decodeProblem(t, rec)
	require.Len(t, problem.Errors, 1)
	assert.Equal(t, "format", problem.Errors[0].Field)
}

func TestArchiveReport_NotConfigured(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/v1/reports/balances/archive", "")

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, ErrorTypeUnavailable, decodeProblem(t, rec).Type)
}

func TestArchiveReport(t *testing.T) {
	api := newTestAPI(t)
	store := testutil.NewMockReportStore()
	api.exports.SetReportStore(store, time.Hour)

	rec := api.do(http.MethodPost, "/api/v1/reports/balance-sheet/archive?format=pdf", "")

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var archived service.ArchivedReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &archived))
	assert.True(t, strings.HasPrefix(archived.Key, "reports/balance-sheet/balance-sheet-"), archived.Key)
	assert.True(t, strings.HasSuffix(archived.Key, ".pdf"), archived.Key)
	assert.Equal(t, "https://reports.example.com/"+archived.Key+"?expires=3600", archived.URL)
	require.Contains(t, store.Objects, archived.Key)
	assert.Equal(t, len(store.Objects[archived.Key]), archived.Size)
	assert.Equal(t, "application/pdf", store.ContentType[archived.Key])
}

func TestGetDashboardSummary(t *testing.T) {
	api := newTestAPI(t)
	cash := api.account(t, "1000")
	sales := api.account(t, "4100")
	rent := api.account(t, "5200")

	for _, body := range []string{
		entryBody("", "Consulting", debit(cash, "2000"), credit(sales, "2000")),
		entryBody("", "Rent", debit(rent, "800"), credit(cash, "800")),
	} {
		rec := api.do(http.MethodPost, "/api/v1/journal-entries", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := api.do(http.MethodGet, "/api/v1/dashboard/summary", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"totalRevenue": "2000.00",
		"totalExpenses": "800.00",
		"netIncome": "1200.00",
		"journalEntries": 2,
		"accounts": 10
	}`, rec.Body.String())
}
