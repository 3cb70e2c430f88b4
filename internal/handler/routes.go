package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Handlers bundles every HTTP handler the API serves
type Handlers struct {
	Account   *AccountHandler
	Journal   *JournalHandler
	Report    *ReportHandler
	Dashboard *DashboardHandler
	WebSocket *WebSocketHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if h.WebSocket != nil {
		e.GET("/ws", h.WebSocket.HandleWS)
	}

	// API docs
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/api/openapi.json", ServeOpenAPI3Spec)

	// Unversioned path kept for the balances page
	e.GET("/api/accounts/balances", h.Report.GetBalanceSummaries)

	// API version 1
	api := e.Group("/api/v1")

	// Account routes
	accounts := api.Group("/accounts")
	accounts.POST("", h.Account.CreateAccount)
	accounts.GET("", h.Account.GetAccounts)
	accounts.GET("/balances", h.Report.GetBalanceSummaries)
	accounts.GET("/:id", h.Account.GetAccount)
	accounts.PUT("/:id", h.Account.UpdateAccount)
	accounts.DELETE("/:id", h.Account.DeleteAccount)

	// Journal entry routes
	entries := api.Group("/journal-entries")
	entries.POST("", h.Journal.PostEntry)
	entries.GET("", h.Journal.GetEntries)
	entries.POST("/validate", h.Journal.ValidateEntry)
	entries.GET("/:id", h.Journal.GetEntry)

	// Report routes
	reports := api.Group("/reports")
	reports.GET("/balances", h.Report.GetAccountBalances)
	reports.GET("/balance-sheet", h.Report.GetBalanceSheet)
	reports.GET("/income-statement", h.Report.GetIncomeStatement)
	reports.GET("/:report/export", h.Report.ExportReport)
	reports.POST("/:report/archive", h.Report.ArchiveReport)

	// Dashboard routes
	dashboard := api.Group("/dashboard")
	dashboard.GET("/summary", h.Dashboard.GetSummary)
}
