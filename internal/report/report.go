// Package report turns a snapshot of records into chart-ready series.
//
// Every function here is pure: it takes the snapshot and, where "today"
// matters, an explicit reference time. Calling twice with the same input
// yields the same output. All date bucketing uses the calendar date in the
// reference time's location, never UTC.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/codewithmeedev/personal-finance-manager/internal/core"
)

// DefaultDaysBack is the trailing window for BalanceOverTime when the
// caller does not pick one.
const DefaultDaysBack = 30

const dayLayout = "2006-01-02"

type (
	// Series is a pair of parallel slices: one label per bucket and one
	// value per label, in chronological order.
	Series struct {
		Labels []string
		Values []decimal.Decimal
	}

	// MonthTotals holds the income and expense sums for one month.
	MonthTotals struct {
		Income  decimal.Decimal
		Expense decimal.Decimal
	}

	// CategoryAmount is one category's summed amount.
	CategoryAmount struct {
		Name   string
		Amount decimal.Decimal
	}

	// CategoryTotals keeps per-category sums split by record type, each in
	// first-seen order of the input. Slices rather than maps: insertion
	// order must survive all the way to the doughnut data.
	CategoryTotals struct {
		Expense []CategoryAmount
		Income  []CategoryAmount
	}
)

// BalanceOverTime buckets signed deltas (income positive, expense negative)
// by local day over the trailing daysBack window ending at now, then returns
// the cumulative running totals in label order. Days without activity are
// not zero-filled; only days with at least one contributing record appear.
// A daysBack of zero or less falls back to DefaultDaysBack.
func BalanceOverTime(records []core.Record, daysBack int, now time.Time) Series {
	if daysBack <= 0 {
		daysBack = DefaultDaysBack
	}
	loc := now.Location()

	deltas := make(map[string]decimal.Decimal)
	for _, rec := range records {
		diffDays := now.Sub(rec.Date).Hours() / 24
		if diffDays < 0 || diffDays > float64(daysBack) {
			continue
		}
		key := rec.LocalDay(loc)
		deltas[key] = deltas[key].Add(rec.SignedAmount())
	}

	labels := make([]string, 0, len(deltas))
	for day := range deltas {
		labels = append(labels, day)
	}
	// Lexicographic order is chronological for yyyy-MM-dd.
	sort.Strings(labels)

	values := make([]decimal.Decimal, 0, len(labels))
	running := decimal.Zero
	for _, day := range labels {
		running = running.Add(deltas[day])
		values = append(values, running)
	}
	return Series{Labels: labels, Values: values}
}

// Last7DaysExpenses sums expense amounts per local day over the 7 calendar
// days ending at and including now's date. The result always has exactly 7
// labels in chronological order, zero-filled where no expense occurred.
// Income records and anything outside the window are ignored.
func Last7DaysExpenses(records []core.Record, now time.Time) Series {
	loc := now.Location()

	perDay := make(map[string]decimal.Decimal)
	for _, rec := range records {
		if rec.Type != core.Expense {
			continue
		}
		diffDays := now.Sub(rec.Date).Hours() / 24
		if diffDays < 0 || diffDays >= 7 {
			continue
		}
		key := rec.LocalDay(loc)
		perDay[key] = perDay[key].Add(rec.Amount)
	}

	labels := make([]string, 0, 7)
	values := make([]decimal.Decimal, 0, 7)
	for i := 6; i >= 0; i-- {
		day := time.Date(now.Year(), now.Month(), now.Day()-i, 0, 0, 0, 0, loc)
		key := day.Format(dayLayout)
		labels = append(labels, key)
		values = append(values, perDay[key])
	}
	return Series{Labels: labels, Values: values}
}

// TotalsForMonth sums income and expense amounts over records whose local
// date falls in the given month and year. A nil loc means time.Local.
func TotalsForMonth(records []core.Record, month time.Month, year int, loc *time.Location) MonthTotals {
	if loc == nil {
		loc = time.Local
	}
	totals := MonthTotals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, rec := range records {
		local := rec.Date.In(loc)
		if local.Month() != month || local.Year() != year {
			continue
		}
		switch rec.Type {
		case core.Income:
			totals.Income = totals.Income.Add(rec.Amount)
		case core.Expense:
			totals.Expense = totals.Expense.Add(rec.Amount)
		}
	}
	return totals
}

// ComputeCategoryTotals sums amounts per raw category string, split by type.
// Categories are not normalized: "Food" and "food" are distinct buckets.
// Each side keeps the order in which its categories first appear.
func ComputeCategoryTotals(records []core.Record) CategoryTotals {
	var totals CategoryTotals
	expIdx := make(map[string]int)
	incIdx := make(map[string]int)

	for _, rec := range records {
		switch rec.Type {
		case core.Expense:
			if i, ok := expIdx[rec.Category]; ok {
				totals.Expense[i].Amount = totals.Expense[i].Amount.Add(rec.Amount)
			} else {
				expIdx[rec.Category] = len(totals.Expense)
				totals.Expense = append(totals.Expense, CategoryAmount{Name: rec.Category, Amount: rec.Amount})
			}
		case core.Income:
			if i, ok := incIdx[rec.Category]; ok {
				totals.Income[i].Amount = totals.Income[i].Amount.Add(rec.Amount)
			} else {
				incIdx[rec.Category] = len(totals.Income)
				totals.Income = append(totals.Income, CategoryAmount{Name: rec.Category, Amount: rec.Amount})
			}
		}
	}
	return totals
}

// Sum adds up the amounts of one side of a category split.
func Sum(amounts []CategoryAmount) decimal.Decimal {
	total := decimal.Zero
	for _, ca := range amounts {
		total = total.Add(ca.Amount)
	}
	return total
}
