package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestRecordTypeValid(t *testing.T) {
	cases := []struct {
		t  RecordType
		ok bool
	}{
		{Income, true},
		{Expense, true},
		{RecordType(""), false},
		{RecordType("transfer"), false},
	}
	for i, tc := range cases {
		if got := tc.t.Valid(); got != tc.ok {
			t.Fatalf("case %d: Valid()=%v, want %v", i, got, tc.ok)
		}
	}
}

func TestRecordValidate(t *testing.T) {
	good := Record{
		ID:       "1",
		Amount:   decimal.NewFromInt(10),
		Category: "food",
		Date:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Type:     Expense,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Record{
		{Amount: decimal.NewFromInt(10), Category: "c", Date: good.Date, Type: "x"},
		{Amount: decimal.NewFromInt(-1), Category: "c", Date: good.Date, Type: Income},
		{Amount: decimal.NewFromInt(1), Category: "  ", Date: good.Date, Type: Income},
		{Amount: decimal.NewFromInt(1), Category: "c", Type: Income}, // zero date
	}
	for i, r := range bads {
		if err := r.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestSignedAmount(t *testing.T) {
	inc := Record{Amount: decimal.NewFromInt(100), Type: Income}
	exp := Record{Amount: decimal.NewFromInt(40), Type: Expense}
	if !inc.SignedAmount().Equal(decimal.NewFromInt(100)) {
		t.Fatalf("income signed amount = %s", inc.SignedAmount())
	}
	if !exp.SignedAmount().Equal(decimal.NewFromInt(-40)) {
		t.Fatalf("expense signed amount = %s", exp.SignedAmount())
	}
}

func TestLocalDay(t *testing.T) {
	// 2024-03-01 02:30 UTC is still 2024-02-29 in New York.
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	r := Record{Date: time.Date(2024, 3, 1, 2, 30, 0, 0, time.UTC)}
	if got := r.LocalDay(time.UTC); got != "2024-03-01" {
		t.Fatalf("UTC day = %s", got)
	}
	if got := r.LocalDay(ny); got != "2024-02-29" {
		t.Fatalf("NY day = %s", got)
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"12.34", "12.34", true},
		{"12,34", "12.34", true},
		{" 7 ", "7", true},
		{"0", "0", true},
		{"", "", false},
		{"-5", "", false},
		{"+5", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
	}
	for i, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("case %d (%q): unexpected error %v", i, tc.in, err)
			}
			want, _ := decimal.NewFromString(tc.want)
			if !got.Equal(want) {
				t.Fatalf("case %d (%q): got %s, want %s", i, tc.in, got, want)
			}
			continue
		}
		if err == nil {
			t.Fatalf("case %d (%q): expected error", i, tc.in)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	d, _ := decimal.NewFromString("12.5")
	if got := FormatAmount(d); got != "12.50" {
		t.Fatalf("FormatAmount = %s", got)
	}
}
