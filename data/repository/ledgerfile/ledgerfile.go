// Package ledgerfile persists the transaction ledger as a single JSON
// document. Every query reads the whole file and every mutation rewrites it
// wholesale; concurrent writers race with last-write-wins semantics.
package ledgerfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"mutualfund-bot/config"
	"mutualfund-bot/data/repository"
	"mutualfund-bot/internal/model"
	"mutualfund-bot/utils"
)

type LedgerFile struct {
	path string
}

func New(cfg *config.Config) *LedgerFile {
	return &LedgerFile{path: cfg.Storage.LedgerPath}
}

// Entry returns the ledger entry for the given mobile number, or
// repository.ErrNotFound when the user has no record.
func (l *LedgerFile) Entry(ctx context.Context, mobile string) (model.LedgerEntry, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "LedgerFile.Entry"

	entries, err := l.readAll()
	if err != nil {
		slog.Error("can't read ledger file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.LedgerEntry{}, err
	}

	for _, entry := range entries {
		if entry.Mobile == mobile {
			return entry, nil
		}
	}

	return model.LedgerEntry{}, repository.ErrNotFound
}

// AppendTransaction appends a transaction to the user's entry, creating the
// entry (and the file) when absent, then rewrites the whole document.
func (l *LedgerFile) AppendTransaction(ctx context.Context, mobile string, txn model.Transaction) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "LedgerFile.AppendTransaction"

	slog.Debug("AppendTransaction start", slog.String("rqID", rqID), slog.String("op", op), slog.String("mobile", mobile))

	entries, err := l.readAll()
	if err != nil {
		slog.Error("can't read ledger file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	found := false
	for i := range entries {
		if entries[i].Mobile == mobile {
			entries[i].Transactions = append(entries[i].Transactions, txn)
			found = true
			break
		}
	}
	if !found {
		entries = append(entries, model.LedgerEntry{Mobile: mobile, Transactions: []model.Transaction{txn}})
	}

	if err := l.writeAll(entries); err != nil {
		slog.Error("can't write ledger file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	slog.Debug("AppendTransaction finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("mobile", mobile))
	return nil
}

func (l *LedgerFile) readAll() ([]model.LedgerEntry, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.LedgerEntry{}, nil
		}
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	if len(raw) == 0 {
		return []model.LedgerEntry{}, nil
	}

	var entries []model.LedgerEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse ledger: %w", err)
	}
	return entries, nil
}

func (l *LedgerFile) writeAll(entries []model.LedgerEntry) error {
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}
	if err := os.WriteFile(l.path, raw, 0644); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	return nil
}
