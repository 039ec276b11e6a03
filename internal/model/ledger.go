package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

func init() {
	// the ledger document stores amounts as plain JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Transaction is one recorded investment. Date is an ISO calendar date
// (yyyy-mm-dd), matching the ledger document format.
type Transaction struct {
	Date     string          `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	FundName string          `json:"fund_name"`
	FundID   string          `json:"fund_id"`
}

func (t Transaction) ParsedDate() (time.Time, error) {
	return time.Parse(DateLayout, t.Date)
}

// LedgerEntry holds all transactions of one user, keyed by mobile number.
// Transactions are append-only and kept in insertion order.
type LedgerEntry struct {
	Mobile       string        `json:"mobile"`
	Transactions []Transaction `json:"transactions"`
}

// Valuation is the result of summing a user's transactions for one fund.
type Valuation struct {
	FundID string
	Total  decimal.Decimal
	Date   time.Time
}
