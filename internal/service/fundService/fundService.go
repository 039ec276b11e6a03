package fundService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"mutualfund-bot/data/repository"
	"mutualfund-bot/internal/model"
	"mutualfund-bot/internal/service"
	"mutualfund-bot/utils"
)

// ChipValues are the quick-pick amount buttons. A chip click is matched
// against the raw input string and bypasses the typed-amount ceiling.
var ChipValues = []string{"1000", "2000", "5000", "10000"}

var typedAmountLimit = decimal.NewFromInt(50000)

const contactNumberLength = 10

type Catalog interface {
	Categories() []model.FundCategory
	Category(name string) (model.FundCategory, bool)
	FindFund(fundID string) (model.Fund, bool)
}

type Ledger interface {
	Entry(ctx context.Context, mobile string) (model.LedgerEntry, error)
	AppendTransaction(ctx context.Context, mobile string, txn model.Transaction) error
}

type FundService struct {
	catalog Catalog
	ledger  Ledger
	now     func() time.Time
}

func New(catalog Catalog, ledger Ledger) *FundService {
	return NewWithClock(catalog, ledger, time.Now)
}

func NewWithClock(catalog Catalog, ledger Ledger, now func() time.Time) *FundService {
	return &FundService{catalog: catalog, ledger: ledger, now: now}
}

// Categories returns all fund categories in catalog order.
func (s *FundService) Categories(ctx context.Context) []model.FundCategory {
	return s.catalog.Categories()
}

// FundsForCategory returns the funds of the named category, or
// service.ErrNotFound when the category does not exist or is empty.
func (s *FundService) FundsForCategory(ctx context.Context, category string) ([]model.Fund, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "FundService.FundsForCategory"

	cat, ok := s.catalog.Category(category)
	if !ok {
		slog.Warn("category not found", slog.String("rqID", rqID), slog.String("op", op), slog.String("category", category))
		return nil, service.ErrNotFound
	}
	if len(cat.Funds) == 0 {
		slog.Warn("category has no funds", slog.String("rqID", rqID), slog.String("op", op), slog.String("category", category))
		return nil, service.ErrNotFound
	}
	return cat.Funds, nil
}

// FundDetails returns the catalog entry for a fund id.
func (s *FundService) FundDetails(ctx context.Context, fundID string) (model.Fund, error) {
	fund, ok := s.catalog.FindFund(fundID)
	if !ok {
		return model.Fund{}, service.ErrNotFound
	}
	return fund, nil
}

// FundName resolves a fund's display name, falling back to "Fund ID <id>"
// when the id is not in the catalog.
func (s *FundService) FundName(ctx context.Context, fundID string) string {
	if fund, ok := s.catalog.FindFund(fundID); ok {
		return fund.FundName
	}
	return fmt.Sprintf("Fund ID %s", fundID)
}

// ValidateContact reports whether the input is exactly 10 digits.
func ValidateContact(input string) bool {
	if len(input) != contactNumberLength {
		return false
	}
	for _, r := range input {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NormalizeContact strips everything but digits, returning the contact number
// when the remainder is valid and "" otherwise. Used when reading the cached
// session value.
func NormalizeContact(input string) string {
	var b strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if contact := b.String(); ValidateContact(contact) {
		return contact
	}
	return ""
}

// ValidateAmount parses a raw amount input. Chip values pass by exact string
// match regardless of the ceiling; free-typed input is sanitized to digits
// and dots, must parse to a positive decimal and stay below 50,000.
func (s *FundService) ValidateAmount(raw string) (decimal.Decimal, error) {
	chip := false
	for _, v := range ChipValues {
		if raw == v {
			chip = true
			break
		}
	}

	amount, err := decimal.NewFromString(sanitizeAmount(raw))
	if err != nil || !amount.IsPositive() {
		return decimal.Decimal{}, service.ErrAmountNotPositive
	}

	if !chip && amount.GreaterThanOrEqual(typedAmountLimit) {
		return decimal.Decimal{}, service.ErrAmountExceedsLimit
	}

	return amount, nil
}

func sanitizeAmount(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// RecordInvestment appends a transaction dated today to the user's ledger
// entry and persists the whole ledger.
func (s *FundService) RecordInvestment(ctx context.Context, mobile, fundID, fundName string, amount decimal.Decimal) (model.Transaction, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "FundService.RecordInvestment"

	slog.Debug("RecordInvestment start", slog.String("rqID", rqID), slog.String("op", op), slog.String("mobile", mobile), slog.String("fundID", fundID))

	txn := model.Transaction{
		Date:     s.now().Format(model.DateLayout),
		Amount:   amount,
		FundName: fundName,
		FundID:   fundID,
	}

	if err := s.ledger.AppendTransaction(ctx, mobile, txn); err != nil {
		slog.Error("got error from ledger.AppendTransaction", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Transaction{}, err
	}

	slog.Debug("RecordInvestment finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("mobile", mobile), slog.String("fundID", fundID))
	return txn, nil
}

// PortfolioFundIDs returns the distinct fund ids the user has transacted in,
// in order of first appearance. service.ErrNotFound when the user has no
// recorded transactions at all.
func (s *FundService) PortfolioFundIDs(ctx context.Context, mobile string) ([]string, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "FundService.PortfolioFundIDs"

	entry, err := s.ledger.Entry(ctx, mobile)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, service.ErrNotFound
		}
		slog.Error("got error from ledger.Entry", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}
	if len(entry.Transactions) == 0 {
		return nil, service.ErrNotFound
	}

	seen := make(map[string]struct{}, len(entry.Transactions))
	ids := make([]string, 0, len(entry.Transactions))
	for _, txn := range entry.Transactions {
		if _, ok := seen[txn.FundID]; ok {
			continue
		}
		seen[txn.FundID] = struct{}{}
		ids = append(ids, txn.FundID)
	}
	return ids, nil
}

// PortfolioValuation sums the user's transactions for one fund. The total
// invested amount is treated as the valuation, dated today.
func (s *FundService) PortfolioValuation(ctx context.Context, mobile, fundID string) (model.Valuation, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "FundService.PortfolioValuation"

	entry, err := s.ledger.Entry(ctx, mobile)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Valuation{}, service.ErrNotFound
		}
		slog.Error("got error from ledger.Entry", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Valuation{}, err
	}

	total := decimal.Zero
	for _, txn := range entry.Transactions {
		if txn.FundID == fundID {
			total = total.Add(txn.Amount)
		}
	}

	return model.Valuation{FundID: fundID, Total: total, Date: s.now()}, nil
}

// FYWindow returns the inclusive date window of the chosen financial year
// relative to today. The financial year starts April 1: when today's month is
// April or later the current FY started this calendar year, otherwise it
// started the previous one.
func FYWindow(today time.Time, period model.Period) model.DateRange {
	fyStartYear := today.Year()
	if today.Month() < time.April {
		fyStartYear--
	}
	if period == model.PeriodPreviousFY {
		fyStartYear--
	}

	return model.DateRange{
		From: time.Date(fyStartYear, time.April, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(fyStartYear+1, time.March, 31, 0, 0, 0, 0, time.UTC),
	}
}

// TransactionsForPeriod returns at most the 3 most recent transactions of the
// chosen financial year, newest first, plus the window that was applied. An
// absent ledger entry yields an empty result, not an error.
func (s *FundService) TransactionsForPeriod(ctx context.Context, mobile string, period model.Period) ([]model.Transaction, model.DateRange, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "FundService.TransactionsForPeriod"

	window := FYWindow(s.now(), period)

	entry, err := s.ledger.Entry(ctx, mobile)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, window, nil
		}
		slog.Error("got error from ledger.Entry", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, window, err
	}

	matches := make([]model.Transaction, 0, len(entry.Transactions))
	for _, txn := range entry.Transactions {
		date, err := txn.ParsedDate()
		if err != nil {
			slog.Warn("skipping transaction with bad date", slog.String("rqID", rqID), slog.String("op", op), slog.String("date", txn.Date))
			continue
		}
		if window.Contains(date) {
			matches = append(matches, txn)
		}
	}

	// ISO dates sort lexicographically
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Date > matches[j].Date })

	if len(matches) > 3 {
		matches = matches[:3]
	}
	return matches, window, nil
}
