package core

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	StatusPlanned  BudgetStatus = "planned"
	StatusApproved BudgetStatus = "approved"
	StatusSpent    BudgetStatus = "spent"
)

const (
	maxDescriptionLen = 500
	maxNameLen        = 200
	dateLayout        = "2006-01-02"
)

type (
	TransactionType string

	BudgetStatus string

	Date struct {
		time.Time
	}

	Transaction struct {
		ID          int64
		Type        TransactionType
		Amount      decimal.Decimal
		Description string
		Category    string
		Vendor      string // expense only
		Date        Date
		CreatedAt   time.Time
	}

	BudgetItem struct {
		ID              int64
		EventName       string
		Category        string
		Description     string
		EstimatedAmount decimal.Decimal
		ActualAmount    decimal.NullDecimal
		Status          BudgetStatus
		CreatedAt       time.Time
		UpdatedAt       time.Time
	}

	// TransactionFilter narrows a listing. Nil bounds and an empty type
	// match everything; bounds are inclusive.
	TransactionFilter struct {
		From *Date
		To   *Date
		Type TransactionType
	}

	Receipt struct {
		Name        string
		Size        int64
		ContentType string
		CreatedAt   time.Time
	}
)

var (
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyDescription  = errors.New("empty description")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrInvalidType       = errors.New("invalid transaction type")
	ErrInvalidStatus     = errors.New("invalid budget status")
	ErrEmptyEventName    = errors.New("empty event name")
	ErrDescriptionLength = errors.New("description too long")
	ErrInvalidRange      = errors.New("from date after to date")
	ErrNotFound          = errors.New("not found")
)

var (
	IncomeCategories = []string{
		"Membership Fees", "Sponsorships", "Event Earnings",
		"Donations", "Grants", "Other Income",
	}
	ExpenseCategories = []string{
		"Event Costs", "Office Supplies", "Marketing", "Equipment",
		"Travel", "Professional Services", "Other Expenses",
	}
	BudgetCategories = []string{
		"Venue", "Catering", "Equipment", "Marketing", "Entertainment",
		"Decorations", "Transportation", "Staff", "Miscellaneous",
	}
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// ParseTransactionType accepts "income" or "expense" in any case.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

// Categories returns the category list of a transaction type.
func (t TransactionType) Categories() []string {
	switch t {
	case Income:
		return IncomeCategories
	case Expense:
		return ExpenseCategories
	default:
		return nil
	}
}

func (s BudgetStatus) Valid() bool {
	switch s {
	case StatusPlanned, StatusApproved, StatusSpent:
		return true
	}
	return false
}

func ParseBudgetStatus(s string) (BudgetStatus, error) {
	st := BudgetStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

func validateAmount(a decimal.Decimal) error {
	if !a.IsPositive() {
		return ErrInvalidAmount
	}
	if !a.Equal(a.Round(2)) {
		return fmt.Errorf("%w: more than two decimals", ErrInvalidAmount)
	}
	return nil
}

func validateDescription(s string, required bool) error {
	if required && strings.TrimSpace(s) == "" {
		return ErrEmptyDescription
	}
	if len(s) > maxDescriptionLen {
		return fmt.Errorf("%w (max %d characters)", ErrDescriptionLength, maxDescriptionLen)
	}
	return nil
}

// Normalize trims text fields, rounds the amount to cents and drops the
// vendor on income.
func (t Transaction) Normalize() Transaction {
	t.Description = strings.TrimSpace(t.Description)
	t.Category = strings.TrimSpace(t.Category)
	t.Vendor = strings.TrimSpace(t.Vendor)
	t.Amount = t.Amount.Round(2)
	if t.Type == Income {
		t.Vendor = ""
	}
	return t
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if err := validateAmount(t.Amount); err != nil {
		return err
	}
	if err := validateDescription(t.Description, true); err != nil {
		return err
	}
	if !slices.Contains(t.Type.Categories(), t.Category) {
		return fmt.Errorf("%w: %q for %s", ErrInvalidCategory, t.Category, t.Type)
	}
	if len(t.Vendor) > maxNameLen {
		return fmt.Errorf("vendor too long (max %d characters)", maxNameLen)
	}
	return t.Date.Validate()
}

func (b BudgetItem) Validate() error {
	if strings.TrimSpace(b.EventName) == "" {
		return ErrEmptyEventName
	}
	if len(b.EventName) > maxNameLen {
		return fmt.Errorf("event name too long (max %d characters)", maxNameLen)
	}
	if !slices.Contains(BudgetCategories, b.Category) {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, b.Category)
	}
	if err := validateDescription(b.Description, false); err != nil {
		return err
	}
	if err := validateAmount(b.EstimatedAmount); err != nil {
		return fmt.Errorf("estimated: %w", err)
	}
	if b.ActualAmount.Valid {
		a := b.ActualAmount.Decimal
		if a.IsNegative() || !a.Equal(a.Round(2)) {
			return fmt.Errorf("actual: %w", ErrInvalidAmount)
		}
	}
	if !b.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// Validate checks that the bounds, when both set, are ordered.
func (f TransactionFilter) Validate() error {
	if f.Type != "" && !f.Type.Valid() {
		return ErrInvalidType
	}
	if f.From != nil && f.To != nil && f.From.After(f.To.Time) {
		return ErrInvalidRange
	}
	return nil
}

// Match reports whether t passes the filter.
func (f TransactionFilter) Match(t Transaction) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.From != nil && t.Date.Before(f.From.Time) {
		return false
	}
	if f.To != nil && t.Date.After(f.To.Time) {
		return false
	}
	return true
}
