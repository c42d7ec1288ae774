package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  RecordType = "income"
	Expense RecordType = "expense"
)

type (
	// RecordType discriminates the sign of a record in every monetary
	// aggregation: income counts positive, expense negative.
	RecordType string

	// Record is a single financial transaction owned by a user. Records are
	// created, updated and deleted only through the remote store; everything
	// in this module holds a transient read-only snapshot.
	Record struct {
		ID          string          `json:"id"`
		UserID      string          `json:"user_id"`
		Amount      decimal.Decimal `json:"amount"`
		Category    string          `json:"category"`
		Description string          `json:"description,omitempty"`
		Date        time.Time       `json:"date"`
		Type        RecordType      `json:"type"`
	}

	// RecordDraft carries the user-editable fields for create and update
	// calls. The store assigns ID, UserID and Date.
	RecordDraft struct {
		Amount      decimal.Decimal `json:"amount"`
		Category    string          `json:"category"`
		Description string          `json:"description,omitempty"`
		Type        RecordType      `json:"type"`
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid record type")
	ErrEmptyCategory = errors.New("empty category")
	ErrInvalidDate   = errors.New("invalid date")
)

func (t RecordType) Valid() bool {
	return t == Income || t == Expense
}

// Sign returns +1 for income and -1 for expense.
func (t RecordType) Sign() int {
	if t == Expense {
		return -1
	}
	return 1
}

func (r Record) Validate() error {
	if !r.Type.Valid() {
		return ErrInvalidType
	}
	if r.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	if r.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d RecordDraft) Validate() error {
	if !d.Type.Valid() {
		return ErrInvalidType
	}
	if d.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(d.Category) == "" {
		return ErrEmptyCategory
	}
	if len(d.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

// SignedAmount is the record's contribution to a running balance.
func (r Record) SignedAmount() decimal.Decimal {
	if r.Type == Expense {
		return r.Amount.Neg()
	}
	return r.Amount
}

// LocalDay formats the record's date as yyyy-MM-dd in the given location.
// All bucketing is local-date based, never UTC.
func (r Record) LocalDay(loc *time.Location) string {
	return r.Date.In(loc).Format("2006-01-02")
}
