package export

import (
	"strconv"
	"time"

	"github.com/dafibh/tally/tally-backend/internal/domain"
)

// Column describes one table column. Numeric columns are right aligned.
type Column struct {
	Name    string
	Width   float64 // relative width
	Numeric bool
}

// Table is a titled grid of cells with an optional totals row
type Table struct {
	Title   string
	Columns []Column
	Rows    [][]string
	Totals  []string
}

// Document is a report ready to be written in any format
type Document struct {
	Title       string
	GeneratedAt time.Time
	Tables      []Table
}

var accountColumns = []Column{
	{Name: "Code", Width: 1},
	{Name: "Account", Width: 3},
	{Name: "Category", Width: 2.5},
	{Name: "Balance", Width: 1.5, Numeric: true},
}

func sectionTable(title string, section domain.ReportSection) Table {
	table := Table{Title: title, Columns: accountColumns, Rows: [][]string{}}
	for _, line := range section.Accounts {
		table.Rows = append(table.Rows, []string{line.Code, line.Name, line.Category, line.Balance.String()})
	}
	table.Totals = []string{"", "Total " + title, "", section.Summary.Total.String()}
	return table
}

func summaryTable(rows [][]string) Table {
	return Table{
		Title: "Summary",
		Columns: []Column{
			{Name: "Item", Width: 5},
			{Name: "Amount", Width: 3, Numeric: true},
		},
		Rows: rows,
	}
}

// AccountBalancesDocument lays out the account balances report
func AccountBalancesDocument(r *domain.AccountBalancesReport) Document {
	table := Table{
		Title: "Balances by Account Type",
		Columns: []Column{
			{Name: "Account Type", Width: 4},
			{Name: "Accounts", Width: 2, Numeric: true},
			{Name: "Total Balance", Width: 3, Numeric: true},
		},
	}
	for _, s := range r.Summaries {
		table.Rows = append(table.Rows, []string{string(s.AccountType), strconv.Itoa(s.Count), s.Total.String()})
	}
	table.Totals = []string{"Total", strconv.Itoa(r.TotalAccounts), r.TotalBalance.String()}

	return Document{
		Title:       "Account Balances Report",
		GeneratedAt: r.GeneratedAt,
		Tables:      []Table{table},
	}
}

// BalanceSheetDocument lays out the balance sheet
func BalanceSheetDocument(s *domain.BalanceSheet) Document {
	status := "Balanced"
	if !s.Balanced {
		status = "Not Balanced"
	}
	return Document{
		Title:       "Balance Sheet",
		GeneratedAt: s.GeneratedAt,
		Tables: []Table{
			sectionTable("Assets", s.Assets),
			sectionTable("Liabilities", s.Liabilities),
			sectionTable("Equity", s.Equity),
			summaryTable([][]string{
				{"Total Assets", s.TotalAssets.String()},
				{"Total Liabilities", s.TotalLiabilities.String()},
				{"Total Equity", s.TotalEquity.String()},
				{"Net Income", s.NetIncome.String()},
				{"Liabilities + Equity + Net Income", (s.TotalLiabilities + s.TotalEquity + s.NetIncome).String()},
				{"Difference", s.Difference.String()},
				{"Status", status},
			}),
		},
	}
}

// IncomeStatementDocument lays out the income statement
func IncomeStatementDocument(s *domain.IncomeStatement) Document {
	return Document{
		Title:       "Income Statement",
		GeneratedAt: s.GeneratedAt,
		Tables: []Table{
			sectionTable("Revenue", s.Revenue),
			sectionTable("Expenses", s.Expenses),
			summaryTable([][]string{
				{"Total Revenue", s.TotalRevenue.String()},
				{"Total Expenses", s.TotalExpenses.String()},
				{"Net Income", s.NetIncome.String()},
			}),
		},
	}
}
