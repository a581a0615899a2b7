package core

import (
	"sort"
	"time"
)

type (
	// ReportLineItem is one row of a breakdown: a category (service type for
	// revenue, expense category for costs) and the summed amount.
	ReportLineItem struct {
		Category string
		Amount   Money
	}

	// FinancialReport is the aggregate picture for one period. NetProfit is
	// always TotalRevenue minus TotalExpenses; ProfitMarginPct is zero when
	// there is no revenue. The breakdown amounts sum exactly to their totals
	// since everything is integer cents.
	FinancialReport struct {
		Range            DateRange
		TotalRevenue     Money
		TotalExpenses    Money
		NetProfit        Money
		ProfitMarginPct  float64
		RevenueBreakdown []ReportLineItem
		ExpenseBreakdown []ReportLineItem
	}

	// ReportEngine computes financial reports. It holds only configuration,
	// never mutable state, so one engine may serve concurrent callers.
	ReportEngine struct {
		weekStart WeekStart
	}
)

// NewReportEngine returns an engine using the given week boundary
// convention. An empty weekStart falls back to ISO Monday.
func NewReportEngine(weekStart WeekStart) *ReportEngine {
	if weekStart != WeekStartSunday {
		weekStart = WeekStartMonday
	}
	return &ReportEngine{weekStart: weekStart}
}

// Generate filters the full charge and expense collections down to the
// period resolved against now, then aggregates. It never fails on empty
// data: a period with no matching records yields zero totals and empty
// breakdowns. Inputs are not mutated.
func (e *ReportEngine) Generate(period Period, charges []Charge, expenses []Expense, now time.Time) (FinancialReport, error) {
	rng, err := period.Resolve(now, e.weekStart)
	if err != nil {
		return FinancialReport{}, err
	}

	report := FinancialReport{
		Range:            rng,
		RevenueBreakdown: []ReportLineItem{},
		ExpenseBreakdown: []ReportLineItem{},
	}

	revenueByType := make(map[string]Money)
	for _, c := range charges {
		if !rng.Contains(c.Date) {
			continue
		}
		report.TotalRevenue = report.TotalRevenue.Add(c.Amount)
		revenueByType[c.Type] = revenueByType[c.Type].Add(c.Amount)
	}

	expenseByCategory := make(map[string]Money)
	for _, x := range expenses {
		if !rng.Contains(x.Date) {
			continue
		}
		report.TotalExpenses = report.TotalExpenses.Add(x.Amount)
		expenseByCategory[x.Category] = expenseByCategory[x.Category].Add(x.Amount)
	}

	report.NetProfit = report.TotalRevenue.Sub(report.TotalExpenses)
	if report.TotalRevenue.Cents > 0 {
		report.ProfitMarginPct = float64(report.NetProfit.Cents) / float64(report.TotalRevenue.Cents) * 100
	}

	report.RevenueBreakdown = sortedBreakdown(revenueByType)
	report.ExpenseBreakdown = sortedBreakdown(expenseByCategory)

	return report, nil
}

// sortedBreakdown flattens a category sum map into line items ordered by
// amount descending, with the category name ascending as tiebreak so equal
// amounts always render in the same order.
func sortedBreakdown(sums map[string]Money) []ReportLineItem {
	items := make([]ReportLineItem, 0, len(sums))
	for cat, amt := range sums {
		items = append(items, ReportLineItem{Category: cat, Amount: amt})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Amount.Cents != items[j].Amount.Cents {
			return items[i].Amount.Cents > items[j].Amount.Cents
		}
		return items[i].Category < items[j].Category
	})
	return items
}
