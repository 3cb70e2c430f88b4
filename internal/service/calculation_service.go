package service

import (
	"sort"
	"time"

	"github.com/dafibh/tally/tally-backend/internal/domain"
)

// SummarizeByType partitions accounts by type and sums their balances.
// Every account type appears in the result, in reporting order, even when it
// has no accounts, so the totals always add up to the sum of all balances.
func SummarizeByType(accounts []*domain.Account) []domain.AccountBalanceSummary {
	index := make(map[domain.AccountType]int, len(domain.AccountTypes))
	summaries := make([]domain.AccountBalanceSummary, len(domain.AccountTypes))
	for i, t := range domain.AccountTypes {
		index[t] = i
		summaries[i] = domain.AccountBalanceSummary{AccountType: t}
	}

	for _, a := range accounts {
		i, ok := index[a.Type]
		if !ok {
			continue
		}
		summaries[i].Total += a.Balance
		summaries[i].Count++
	}
	return summaries
}

// BuildAccountBalances produces the account balances report
func BuildAccountBalances(accounts []*domain.Account, generatedAt time.Time) *domain.AccountBalancesReport {
	report := &domain.AccountBalancesReport{
		Summaries:   SummarizeByType(accounts),
		GeneratedAt: generatedAt,
	}
	for _, s := range report.Summaries {
		report.TotalBalance += s.Total
		report.TotalAccounts += s.Count
		if s.Count > 0 {
			report.AccountTypes++
		}
	}
	return report
}

// BuildIncomeStatement reports revenue and expenses and their difference
func BuildIncomeStatement(accounts []*domain.Account, generatedAt time.Time) *domain.IncomeStatement {
	sections := buildSections(accounts)
	revenue := sections[domain.AccountTypeRevenue]
	expenses := sections[domain.AccountTypeExpense]

	return &domain.IncomeStatement{
		Revenue:       revenue,
		Expenses:      expenses,
		TotalRevenue:  revenue.Summary.Total,
		TotalExpenses: expenses.Summary.Total,
		NetIncome:     revenue.Summary.Total - expenses.Summary.Total,
		GeneratedAt:   generatedAt,
	}
}

// BuildBalanceSheet reports assets against liabilities and equity and checks
// Assets == Liabilities + Equity + NetIncome.
func BuildBalanceSheet(accounts []*domain.Account, generatedAt time.Time) *domain.BalanceSheet {
	sections := buildSections(accounts)
	assets := sections[domain.AccountTypeAsset]
	liabilities := sections[domain.AccountTypeLiability]
	equity := sections[domain.AccountTypeEquity]
	netIncome := sections[domain.AccountTypeRevenue].Summary.Total - sections[domain.AccountTypeExpense].Summary.Total

	sheet := &domain.BalanceSheet{
		Assets:           assets,
		Liabilities:      liabilities,
		Equity:           equity,
		TotalAssets:      assets.Summary.Total,
		TotalLiabilities: liabilities.Summary.Total,
		TotalEquity:      equity.Summary.Total,
		NetIncome:        netIncome,
		GeneratedAt:      generatedAt,
	}
	sheet.Difference = sheet.TotalAssets - (sheet.TotalLiabilities + sheet.TotalEquity + sheet.NetIncome)
	sheet.Balanced = sheet.Difference == 0
	return sheet
}

// BuildDashboardSummary computes the headline dashboard figures
func BuildDashboardSummary(accounts []*domain.Account, entryCount int) *domain.DashboardSummary {
	summary := &domain.DashboardSummary{
		JournalEntries: entryCount,
		Accounts:       len(accounts),
	}
	for _, a := range accounts {
		switch a.Type {
		case domain.AccountTypeRevenue:
			summary.TotalRevenue += a.Balance
		case domain.AccountTypeExpense:
			summary.TotalExpenses += a.Balance
		}
	}
	summary.NetIncome = summary.TotalRevenue - summary.TotalExpenses
	return summary
}

// buildSections groups accounts into one section per type with rows sorted by code
func buildSections(accounts []*domain.Account) map[domain.AccountType]domain.ReportSection {
	sorted := make([]*domain.Account, len(accounts))
	copy(sorted, accounts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })

	sections := make(map[domain.AccountType]domain.ReportSection, len(domain.AccountTypes))
	for _, s := range SummarizeByType(sorted) {
		sections[s.AccountType] = domain.ReportSection{Summary: s, Accounts: []domain.ReportLine{}}
	}
	for _, a := range sorted {
		section, ok := sections[a.Type]
		if !ok {
			continue
		}
		section.Accounts = append(section.Accounts, domain.ReportLine{
			Code:     a.Code,
			Name:     a.Name,
			Category: a.Category,
			Balance:  a.Balance,
		})
		sections[a.Type] = section
	}
	return sections
}
