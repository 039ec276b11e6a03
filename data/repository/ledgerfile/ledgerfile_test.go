package ledgerfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"mutualfund-bot/config"
	"mutualfund-bot/data/repository"
	"mutualfund-bot/internal/model"
)

func newTestLedger(t *testing.T) *LedgerFile {
	t.Helper()
	cfg := &config.Config{Storage: config.Storage{LedgerPath: filepath.Join(t.TempDir(), "transactions.json")}}
	return New(cfg)
}

func txn(date, fundID string, amount int64) model.Transaction {
	return model.Transaction{
		Date:     date,
		Amount:   decimal.NewFromInt(amount),
		FundName: "Fund " + fundID,
		FundID:   fundID,
	}
}

func TestEntryNotFound(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.Entry(context.Background(), "9999999999")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAppendCreatesEntryAndFile(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	if err := l.AppendTransaction(ctx, "9876543210", txn("2024-05-01", "F1", 2000)); err != nil {
		t.Fatalf("append: %v", err)
	}

	entry, err := l.Entry(ctx, "9876543210")
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if len(entry.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(entry.Transactions))
	}
	if entry.Transactions[0].FundID != "F1" {
		t.Errorf("expected fund F1, got %q", entry.Transactions[0].FundID)
	}
}

func TestAppendPreservesInsertionOrder(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	dates := []string{"2024-05-01", "2024-04-01", "2024-06-01"}
	for i, d := range dates {
		if err := l.AppendTransaction(ctx, "9876543210", txn(d, "F1", int64(1000*(i+1)))); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	entry, err := l.Entry(ctx, "9876543210")
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	for i, d := range dates {
		if entry.Transactions[i].Date != d {
			t.Errorf("transaction %d date = %q, want %q", i, entry.Transactions[i].Date, d)
		}
	}
}

func TestSeparateEntriesPerMobile(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	if err := l.AppendTransaction(ctx, "1111111111", txn("2024-05-01", "F1", 1000)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := l.AppendTransaction(ctx, "2222222222", txn("2024-05-02", "F2", 2000)); err != nil {
		t.Fatalf("append: %v", err)
	}

	first, err := l.Entry(ctx, "1111111111")
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if len(first.Transactions) != 1 || first.Transactions[0].FundID != "F1" {
		t.Errorf("unexpected entry for first mobile: %+v", first)
	}
}

func TestFileIsPrettyPrintedWithNumericAmounts(t *testing.T) {
	l := newTestLedger(t)

	if err := l.AppendTransaction(context.Background(), "9876543210", txn("2024-05-01", "F1", 2000)); err != nil {
		t.Fatalf("append: %v", err)
	}

	raw, err := os.ReadFile(l.path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	content := string(raw)
	if !strings.Contains(content, "\n  ") {
		t.Error("expected indented output")
	}
	if !strings.Contains(content, `"amount": 2000`) {
		t.Errorf("expected plain numeric amount, got:\n%s", content)
	}
}

// Two request cycles that both read the ledger before either writes race with
// last-write-wins semantics: the first writer's update is silently lost. The
// file contract deliberately preserves this behavior.
func TestConcurrentWritersLastWriteWins(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	if err := l.AppendTransaction(ctx, "9876543210", txn("2024-05-01", "F1", 1000)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// both writers read this state
	snapshot, err := os.ReadFile(l.path)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	// writer A commits
	if err := l.AppendTransaction(ctx, "9876543210", txn("2024-05-02", "FA", 2000)); err != nil {
		t.Fatalf("writer A: %v", err)
	}

	// writer B still holds the old state and commits over A
	if err := os.WriteFile(l.path, snapshot, 0644); err != nil {
		t.Fatalf("restore snapshot: %v", err)
	}
	if err := l.AppendTransaction(ctx, "9876543210", txn("2024-05-02", "FB", 3000)); err != nil {
		t.Fatalf("writer B: %v", err)
	}

	entry, err := l.Entry(ctx, "9876543210")
	if err != nil {
		t.Fatalf("entry: %v", err)
	}

	var fundIDs []string
	for _, tx := range entry.Transactions {
		fundIDs = append(fundIDs, tx.FundID)
	}
	if len(entry.Transactions) != 2 {
		t.Fatalf("expected 2 transactions (seed + B), got %d (%v)", len(entry.Transactions), fundIDs)
	}
	for _, tx := range entry.Transactions {
		if tx.FundID == "FA" {
			t.Error("writer A's transaction survived; expected last-write-wins to drop it")
		}
	}
	if entry.Transactions[1].FundID != "FB" {
		t.Errorf("expected writer B's transaction last, got %v", fundIDs)
	}
}
