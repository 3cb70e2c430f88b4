package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/dafibh/tally/tally-backend/internal/export"
	"github.com/dafibh/tally/tally-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ReportHandler handles financial report HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
	exportService *service.ExportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService, exportService *service.ExportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		exportService: exportService,
	}
}

// GetBalanceSummaries godoc
// @Summary Account balances by type
// @Description Total balance and account count for each of the five account types
// @Tags reports
// @Produce json
// @Success 200 {array} domain.AccountBalanceSummary
// @Failure 500 {object} ProblemDetails
// @Router /accounts/balances [get]
func (h *ReportHandler) GetBalanceSummaries(c echo.Context) error {
	summaries, err := h.reportService.GetBalanceSummaries()
	if err != nil {
		log.Error().Err(err).Msg("Failed to summarize account balances")
		return NewInternalError(c, "Failed to get account balances")
	}
	return c.JSON(http.StatusOK, summaries)
}

// GetAccountBalances godoc
// @Summary Account balances report
// @Tags reports
// @Produce json
// @Success 200 {object} domain.AccountBalancesReport
// @Failure 500 {object} ProblemDetails
// @Router /reports/balances [get]
func (h *ReportHandler) GetAccountBalances(c echo.Context) error {
	report, err := h.reportService.GetAccountBalances()
	if err != nil {
		log.Error().Err(err).Msg("Failed to build account balances report")
		return NewInternalError(c, "Failed to get account balances report")
	}
	return c.JSON(http.StatusOK, report)
}

// GetBalanceSheet godoc
// @Summary Balance sheet
// @Description Assets against liabilities, equity and current net income
// @Tags reports
// @Produce json
// @Success 200 {object} domain.BalanceSheet
// @Failure 500 {object} ProblemDetails
// @Router /reports/balance-sheet [get]
func (h *ReportHandler) GetBalanceSheet(c echo.Context) error {
	sheet, err := h.reportService.GetBalanceSheet()
	if err != nil {
		log.Error().Err(err).Msg("Failed to build balance sheet")
		return NewInternalError(c, "Failed to get balance sheet")
	}
	return c.JSON(http.StatusOK, sheet)
}

// GetIncomeStatement godoc
// @Summary Income statement
// @Tags reports
// @Produce json
// @Success 200 {object} domain.IncomeStatement
// @Failure 500 {object} ProblemDetails
// @Router /reports/income-statement [get]
func (h *ReportHandler) GetIncomeStatement(c echo.Context) error {
	statement, err := h.reportService.GetIncomeStatement()
	if err != nil {
		log.Error().Err(err).Msg("Failed to build income statement")
		return NewInternalError(c, "Failed to get income statement")
	}
	return c.JSON(http.StatusOK, statement)
}

func unknownReportError(c echo.Context) error {
	return NewNotFoundError(c, fmt.Sprintf("Unknown report %q", c.Param("report")))
}

func unsupportedFormatError(c echo.Context) error {
	return NewValidationError(c, "Unsupported export format", []ValidationError{
		{Field: "format", Message: "Format must be csv or pdf"},
	})
}

// ExportReport godoc
// @Summary Download a report
// @Description Render a report as CSV or PDF and return it as an attachment
// @Tags reports
// @Produce text/csv
// @Produce application/pdf
// @Param report path string true "Report" Enums(balances, balance-sheet, income-statement)
// @Param format query string false "File format" Enums(csv, pdf) default(csv)
// @Success 200 {file} file
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /reports/{report}/export [get]
func (h *ReportHandler) ExportReport(c echo.Context) error {
	kind, err := domain.ParseReportKind(c.Param("report"))
	if err != nil {
		return unknownReportError(c)
	}
	format, err := export.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return unsupportedFormatError(c)
	}

	file, err := h.exportService.Export(kind, format)
	if err != nil {
		log.Error().Err(err).Str("report", string(kind)).Str("format", string(format)).Msg("Failed to export report")
		return NewInternalError(c, "Failed to export report")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Filename))
	return c.Blob(http.StatusOK, file.ContentType, file.Data)
}

// ArchiveReport godoc
// @Summary Archive a report
// @Description Render a report, upload it to object storage and return a temporary download link
// @Tags reports
// @Produce json
// @Param report path string true "Report" Enums(balances, balance-sheet, income-statement)
// @Param format query string false "File format" Enums(csv, pdf) default(csv)
// @Success 201 {object} service.ArchivedReport
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /reports/{report}/archive [post]
func (h *ReportHandler) ArchiveReport(c echo.Context) error {
	kind, err := domain.ParseReportKind(c.Param("report"))
	if err != nil {
		return unknownReportError(c)
	}
	format, err := export.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return unsupportedFormatError(c)
	}

	archived, err := h.exportService.Archive(c.Request().Context(), kind, format)
	if err != nil {
		if errors.Is(err, domain.ErrStorageNotConfigured) {
			return NewServiceUnavailableError(c, "Report storage is not configured")
		}
		log.Error().Err(err).Str("report", string(kind)).Str("format", string(format)).Msg("Failed to archive report")
		return NewInternalError(c, "Failed to archive report")
	}

	return c.JSON(http.StatusCreated, archived)
}
