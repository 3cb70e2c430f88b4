package domain

import (
	"strings"
	"time"
)

// ReportKind identifies an exportable report
type ReportKind string

const (
	ReportAccountBalances ReportKind = "balances"
	ReportBalanceSheet    ReportKind = "balance-sheet"
	ReportIncomeStatement ReportKind = "income-statement"
)

// ParseReportKind resolves a report name from a URL segment
func ParseReportKind(s string) (ReportKind, error) {
	switch k := ReportKind(strings.ToLower(s)); k {
	case ReportAccountBalances, ReportBalanceSheet, ReportIncomeStatement:
		return k, nil
	}
	return "", ErrUnknownReport
}

// AccountBalanceSummary is the total balance and account count of one account type
type AccountBalanceSummary struct {
	AccountType AccountType `json:"accountType"`
	Total       Cents       `json:"total" swaggertype:"string"`
	Count       int         `json:"count"`
}

// ReportLine is a single account row within a report section
type ReportLine struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Balance  Cents  `json:"balance" swaggertype:"string"`
}

// ReportSection groups the accounts of one type
type ReportSection struct {
	Summary  AccountBalanceSummary `json:"summary"`
	Accounts []ReportLine          `json:"accounts"`
}

// AccountBalancesReport backs the account balances page
type AccountBalancesReport struct {
	Summaries     []AccountBalanceSummary `json:"summaries"`
	TotalBalance  Cents                   `json:"totalBalance" swaggertype:"string"`
	TotalAccounts int                     `json:"totalAccounts"`
	AccountTypes  int                     `json:"accountTypes"`
	GeneratedAt   time.Time               `json:"generatedAt"`
}

// BalanceSheet reports assets against liabilities and equity.
// NetIncome is current-period revenue minus expenses, which belongs to equity
// until it is closed out, so the accounting equation checked here is
// Assets == Liabilities + Equity + NetIncome.
type BalanceSheet struct {
	Assets           ReportSection `json:"assets"`
	Liabilities      ReportSection `json:"liabilities"`
	Equity           ReportSection `json:"equity"`
	TotalAssets      Cents         `json:"totalAssets" swaggertype:"string"`
	TotalLiabilities Cents         `json:"totalLiabilities" swaggertype:"string"`
	TotalEquity      Cents         `json:"totalEquity" swaggertype:"string"`
	NetIncome        Cents         `json:"netIncome" swaggertype:"string"`
	Difference       Cents         `json:"difference" swaggertype:"string"`
	Balanced         bool          `json:"balanced"`
	GeneratedAt      time.Time     `json:"generatedAt"`
}

// IncomeStatement reports revenue against expenses
type IncomeStatement struct {
	Revenue       ReportSection `json:"revenue"`
	Expenses      ReportSection `json:"expenses"`
	TotalRevenue  Cents         `json:"totalRevenue" swaggertype:"string"`
	TotalExpenses Cents         `json:"totalExpenses" swaggertype:"string"`
	NetIncome     Cents         `json:"netIncome" swaggertype:"string"`
	GeneratedAt   time.Time     `json:"generatedAt"`
}

// DashboardSummary contains the headline dashboard stats
type DashboardSummary struct {
	TotalRevenue   Cents `json:"totalRevenue" swaggertype:"string"`
	TotalExpenses  Cents `json:"totalExpenses" swaggertype:"string"`
	NetIncome      Cents `json:"netIncome" swaggertype:"string"`
	JournalEntries int   `json:"journalEntries"`
	Accounts       int   `json:"accounts"`
}
