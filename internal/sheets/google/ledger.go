package google

import (
	"fmt"
	"strconv"
	"strings"

	"fintrack/internal/core"
)

// LedgerHeader names the columns written by ledgerRow.
var LedgerHeader = []string{"Date", "Type", "Description", "Category", "Vendor", "Amount"}

// ledgerRow renders a transaction as ledger cells. Amounts are plain decimal
// strings with two places; USER_ENTERED input turns them into numbers.
func ledgerRow(t core.Transaction) []any {
	vendor := t.Vendor
	if t.Type == core.Income {
		vendor = ""
	}
	return []any{
		t.Date.String(),
		string(t.Type),
		t.Description,
		t.Category,
		vendor,
		t.Amount.StringFixed(2),
	}
}

// ledgerSheetName returns "<year> <base>" unless base already starts with a
// 4-digit year.
func ledgerSheetName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = DefaultLedgerSheet
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}

// quoteSheet quotes a sheet name for A1 notation.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
