package google

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
)

func sampleTx() core.Transaction {
	return core.Transaction{
		ID:          3,
		Type:        core.Expense,
		Amount:      decimal.RequireFromString("1234.5"),
		Description: "Stage hire",
		Category:    "Event Costs",
		Vendor:      "Acme Events",
		Date:        core.NewDate(2025, 4, 2),
	}
}

func TestNewFromEnv_MissingSpreadsheetID(t *testing.T) {
	t.Setenv("GOOGLE_SPREADSHEET_ID", "")

	_, err := NewFromEnv(context.Background())
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewFromEnv_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_SPREADSHEET_ID", "sheet-id")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	t.Setenv("GOOGLE_OAUTH_CLIENT_JSON", "")
	t.Setenv("GOOGLE_OAUTH_CLIENT_FILE", "")

	if _, err := NewFromEnv(context.Background()); err == nil {
		t.Fatal("expected error without credentials")
	}
}

func TestLedgerRow(t *testing.T) {
	row := ledgerRow(sampleTx())
	want := []any{"2025-04-02", "expense", "Stage hire", "Event Costs", "Acme Events", "1234.50"}
	if len(row) != len(LedgerHeader) {
		t.Fatalf("row has %d cells, header has %d", len(row), len(LedgerHeader))
	}
	for i := range want {
		if row[i] != want[i] {
			t.Fatalf("cell %d (%s): got %v, want %v", i, LedgerHeader[i], row[i], want[i])
		}
	}

	income := sampleTx()
	income.Type = core.Income
	income.Category = "Grants"
	if v := ledgerRow(income)[4]; v != "" {
		t.Fatalf("income rows carry no vendor, got %v", v)
	}
}

func TestLedgerSheetName(t *testing.T) {
	cases := []struct {
		base string
		year int
		want string
	}{
		{"Ledger", 2025, "2025 Ledger"},
		{"", 2024, "2024 Ledger"},
		{"2023 Ledger", 2025, "2023 Ledger"},
		{"Books", 2026, "2026 Books"},
	}
	for _, tc := range cases {
		if got := ledgerSheetName(tc.base, tc.year); got != tc.want {
			t.Fatalf("ledgerSheetName(%q, %d) = %q, want %q", tc.base, tc.year, got, tc.want)
		}
	}
	if q := quoteSheet("Bob's 2025"); q != "'Bob''s 2025'" {
		t.Fatalf("unexpected quoting %q", q)
	}
}

func TestAppendTransaction_Validation(t *testing.T) {
	c := &Client{spreadsheetID: "test", ledgerBase: DefaultLedgerSheet}

	bad := sampleTx()
	bad.Category = "Nope"
	if _, err := c.AppendTransaction(context.Background(), bad); !errors.Is(err, core.ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
	if _, err := c.AppendTransaction(context.Background(), sampleTx()); err == nil {
		t.Fatal("expected error without a sheets service")
	}
}

func TestNewFromEnv_OAuthClientWithoutToken(t *testing.T) {
	t.Setenv("GOOGLE_SPREADSHEET_ID", "sheet-id")
	t.Setenv("GOOGLE_OAUTH_CLIENT_JSON", `{"installed":{"client_id":"id","client_secret":"secret","auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token","redirect_uris":["http://localhost"]}}`)
	t.Setenv("GOOGLE_OAUTH_TOKEN_FILE", filepath.Join(t.TempDir(), "missing.json"))

	if _, err := NewFromEnv(context.Background()); err == nil {
		t.Fatal("expected error for missing token file")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	tok := &oauth2.Token{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer"}
	if err := SaveToken(path, tok); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	got, err := LoadToken(path)
	if err != nil {
		t.Fatalf("LoadToken: %v", err)
	}
	if got.RefreshToken != "r" || got.AccessToken != "a" {
		t.Fatalf("unexpected token %+v", got)
	}
	info, err := os.Stat(path)
	if err != nil || info.Mode().Perm() != 0o600 {
		t.Fatalf("token file mode = %v, %v", info.Mode().Perm(), err)
	}

	if err := os.WriteFile(path, []byte(`{}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadToken(path); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestOAuthConfigFromEnv_Unset(t *testing.T) {
	t.Setenv("GOOGLE_OAUTH_CLIENT_JSON", "")
	t.Setenv("GOOGLE_OAUTH_CLIENT_FILE", "")
	cfg, err := OAuthConfigFromEnv()
	if err != nil || cfg != nil {
		t.Fatalf("got %v, %v", cfg, err)
	}
	t.Setenv("GOOGLE_OAUTH_TOKEN_FILE", "")
	if TokenFile() != DefaultTokenFile {
		t.Fatalf("TokenFile() = %q", TokenFile())
	}
}
