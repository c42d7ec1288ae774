package report

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/codewithmeedev/personal-finance-manager/internal/core"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func rec(day string, typ core.RecordType, amount, category string) core.Record {
	dt, err := time.ParseInLocation("2006-01-02", day, time.UTC)
	if err != nil {
		panic(err)
	}
	return core.Record{
		ID:       "r-" + day,
		Amount:   dec(amount),
		Category: category,
		Date:     dt,
		Type:     typ,
	}
}

// now is fixed so the trailing windows are deterministic.
var now = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func TestBalanceOverTimeEmpty(t *testing.T) {
	s := BalanceOverTime(nil, 30, now)
	if len(s.Labels) != 0 || len(s.Values) != 0 {
		t.Fatalf("expected empty series, got %v", s)
	}
}

func TestBalanceOverTime(t *testing.T) {
	records := []core.Record{
		rec("2024-01-10", core.Income, "100", "salary"),
		rec("2024-01-10", core.Expense, "40", "food"),
		rec("2024-01-12", core.Expense, "10", "food"),
		rec("2023-11-01", core.Income, "999", "salary"), // outside window
		rec("2024-02-01", core.Income, "999", "salary"), // in the future
	}
	s := BalanceOverTime(records, 30, now)

	wantLabels := []string{"2024-01-10", "2024-01-12"}
	if !reflect.DeepEqual(s.Labels, wantLabels) {
		t.Fatalf("labels = %v, want %v", s.Labels, wantLabels)
	}
	if !s.Values[0].Equal(dec("60")) || !s.Values[1].Equal(dec("50")) {
		t.Fatalf("values = %v", s.Values)
	}

	// The last value equals the net sum of all included deltas.
	net := dec("100").Sub(dec("40")).Sub(dec("10"))
	if !s.Values[len(s.Values)-1].Equal(net) {
		t.Fatalf("last value = %s, want %s", s.Values[len(s.Values)-1], net)
	}

	// Idempotent for the same input and reference time.
	again := BalanceOverTime(records, 30, now)
	if !reflect.DeepEqual(s.Labels, again.Labels) {
		t.Fatalf("second call diverged: %v vs %v", s.Labels, again.Labels)
	}
	for i := range s.Values {
		if !s.Values[i].Equal(again.Values[i]) {
			t.Fatalf("second call value %d diverged", i)
		}
	}
}

func TestBalanceOverTimeDefaultWindow(t *testing.T) {
	records := []core.Record{
		rec("2024-01-01", core.Income, "5", "salary"), // 14.5 days back, in
		rec("2023-12-10", core.Income, "7", "salary"), // ~36 days back, out
	}
	s := BalanceOverTime(records, 0, now)
	if len(s.Labels) != 1 || s.Labels[0] != "2024-01-01" {
		t.Fatalf("labels = %v", s.Labels)
	}
}

func TestLast7DaysExpensesShape(t *testing.T) {
	cases := []struct {
		name    string
		records []core.Record
	}{
		{"empty", nil},
		{"only income", []core.Record{rec("2024-01-14", core.Income, "50", "salary")}},
		{"mixed", []core.Record{
			rec("2024-01-14", core.Expense, "20", "food"),
			rec("2024-01-01", core.Expense, "99", "food"), // outside window
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Last7DaysExpenses(tc.records, now)
			if len(s.Labels) != 7 || len(s.Values) != 7 {
				t.Fatalf("expected 7 buckets, got %d/%d", len(s.Labels), len(s.Values))
			}
			if s.Labels[0] != "2024-01-09" || s.Labels[6] != "2024-01-15" {
				t.Fatalf("window = %v", s.Labels)
			}
			for i := 1; i < len(s.Labels); i++ {
				if s.Labels[i] <= s.Labels[i-1] {
					t.Fatalf("labels not chronological: %v", s.Labels)
				}
			}
		})
	}
}

func TestLast7DaysExpensesValues(t *testing.T) {
	records := []core.Record{
		rec("2024-01-14", core.Expense, "20", "food"),
		rec("2024-01-14", core.Expense, "5", "transport"),
		rec("2024-01-09", core.Expense, "3", "food"),
		rec("2024-01-14", core.Income, "100", "salary"), // ignored
		rec("2024-01-08", core.Expense, "99", "food"),   // just outside
	}
	s := Last7DaysExpenses(records, now)

	byLabel := make(map[string]decimal.Decimal, 7)
	for i, l := range s.Labels {
		byLabel[l] = s.Values[i]
	}
	if !byLabel["2024-01-14"].Equal(dec("25")) {
		t.Fatalf("2024-01-14 = %s", byLabel["2024-01-14"])
	}
	if !byLabel["2024-01-09"].Equal(dec("3")) {
		t.Fatalf("2024-01-09 = %s", byLabel["2024-01-09"])
	}
	if !byLabel["2024-01-10"].IsZero() {
		t.Fatalf("expected zero-fill for idle day, got %s", byLabel["2024-01-10"])
	}
}

func TestTotalsForMonth(t *testing.T) {
	records := []core.Record{
		rec("2024-01-01", core.Income, "100", "salary"),
		rec("2024-01-01", core.Expense, "40", "food"),
		rec("2024-01-20", core.Expense, "20", "food"),
		rec("2024-02-01", core.Expense, "500", "rent"),
	}
	got := TotalsForMonth(records, time.January, 2024, time.UTC)
	if !got.Income.Equal(dec("100")) || !got.Expense.Equal(dec("60")) {
		t.Fatalf("totals = {%s %s}", got.Income, got.Expense)
	}

	empty := TotalsForMonth(nil, time.January, 2024, time.UTC)
	if !empty.Income.IsZero() || !empty.Expense.IsZero() {
		t.Fatalf("empty input totals = {%s %s}", empty.Income, empty.Expense)
	}
}

func TestTotalsForMonthLocalBucketing(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 2024-02-01 02:00 UTC is still January 31st in New York.
	r := core.Record{
		Amount:   dec("10"),
		Category: "food",
		Date:     time.Date(2024, 2, 1, 2, 0, 0, 0, time.UTC),
		Type:     core.Expense,
	}
	got := TotalsForMonth([]core.Record{r}, time.January, 2024, ny)
	if !got.Expense.Equal(dec("10")) {
		t.Fatalf("expected record bucketed into local January, got %s", got.Expense)
	}
}

func TestComputeCategoryTotals(t *testing.T) {
	records := []core.Record{
		rec("2024-01-01", core.Expense, "10", "food"),
		rec("2024-01-02", core.Expense, "5", "food"),
		rec("2024-01-03", core.Expense, "7", "Food"), // distinct bucket, no folding
		rec("2024-01-04", core.Income, "100", "salary"),
	}
	totals := ComputeCategoryTotals(records)

	if len(totals.Expense) != 2 {
		t.Fatalf("expense buckets = %d", len(totals.Expense))
	}
	if totals.Expense[0].Name != "food" || !totals.Expense[0].Amount.Equal(dec("15")) {
		t.Fatalf("first expense bucket = %+v", totals.Expense[0])
	}
	if totals.Expense[1].Name != "Food" || !totals.Expense[1].Amount.Equal(dec("7")) {
		t.Fatalf("second expense bucket = %+v", totals.Expense[1])
	}
	if len(totals.Income) != 1 || totals.Income[0].Name != "salary" {
		t.Fatalf("income buckets = %+v", totals.Income)
	}

	// Sum property: bucket sums match per-type record sums.
	if !Sum(totals.Expense).Equal(dec("22")) {
		t.Fatalf("expense sum = %s", Sum(totals.Expense))
	}
	if !Sum(totals.Income).Equal(dec("100")) {
		t.Fatalf("income sum = %s", Sum(totals.Income))
	}
}

func TestComputeCategoryTotalsEmptySides(t *testing.T) {
	totals := ComputeCategoryTotals([]core.Record{
		rec("2024-01-01", core.Expense, "10", "food"),
	})
	if len(totals.Income) != 0 {
		t.Fatalf("expected no income buckets, got %+v", totals.Income)
	}
}

func TestMapToDoughnutData(t *testing.T) {
	totals := []CategoryAmount{
		{Name: "food", Amount: dec("15")},
		{Name: "vacation", Amount: dec("200")}, // no table entry
		{Name: "rent", Amount: dec("500")},
	}
	data := MapToDoughnutData(totals, nil)

	wantLabels := []string{"food", "vacation", "rent"}
	if !reflect.DeepEqual(data.Labels, wantLabels) {
		t.Fatalf("labels = %v", data.Labels)
	}
	if data.Colors[0] != DefaultColors["food"] || data.Colors[2] != DefaultColors["rent"] {
		t.Fatalf("table colors not applied: %v", data.Colors)
	}
	if data.Colors[1] == "" {
		t.Fatalf("overflow category has no color")
	}

	// Overflow color is stable across calls.
	again := MapToDoughnutData(totals, nil)
	if again.Colors[1] != data.Colors[1] {
		t.Fatalf("overflow color not deterministic: %s vs %s", data.Colors[1], again.Colors[1])
	}
}

func TestMapToDoughnutDataCustomTable(t *testing.T) {
	totals := []CategoryAmount{{Name: "books", Amount: dec("30")}}
	data := MapToDoughnutData(totals, ColorTable{"books": "#123456"})
	if data.Colors[0] != "#123456" {
		t.Fatalf("custom table ignored: %v", data.Colors)
	}
}
