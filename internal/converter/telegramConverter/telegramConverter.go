// Package telegramConverter builds the Telegram chat payloads (text plus
// inline keyboards) returned inside fulfillment responses.
package telegramConverter

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	tele "gopkg.in/telebot.v4"

	"mutualfund-bot/internal/model"
	"mutualfund-bot/internal/model/tg"
	"mutualfund-bot/internal/model/tg/tgCallback"
)

// Menu entries double as intent-training phrases on the dialog platform, so
// their callback data is the plain service name.
const (
	menuPortfolioValuation = "Portfolio Valuation"
	menuExploreFunds       = "Explore Funds"
	menuTransactionHistory = "Transaction History"
)

var rupeePrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatRupees renders an amount with the ₹ sign and en-IN digit grouping,
// matching what users saw from the chat platform before.
func FormatRupees(amount decimal.Decimal) string {
	return rupeePrinter.Sprintf("₹%v", number.Decimal(amount.InexactFloat64()))
}

func MainMenu() tg.Payload {
	return tg.NewPayload(
		"Hi, welcome to Mutual Fund Services. What service would you like to use?",
		[][]tele.InlineButton{
			{tg.Btn(menuPortfolioValuation, menuPortfolioValuation)},
			{tg.Btn(menuExploreFunds, menuExploreFunds)},
			{tg.Btn(menuTransactionHistory, menuTransactionHistory)},
		},
	)
}

func CategoryList(categories []model.FundCategory) tg.Payload {
	rows := make([][]tele.InlineButton, 0, len(categories))
	for _, cat := range categories {
		rows = append(rows, []tele.InlineButton{tg.Btn(cat.Category, tgCallback.CategoryPrefix+cat.Category)})
	}
	return tg.NewPayload("Kindly select one of the categories to see funds:", rows)
}

func FundList(category string, funds []model.Fund) tg.Payload {
	rows := make([][]tele.InlineButton, 0, len(funds))
	for _, fund := range funds {
		rows = append(rows, []tele.InlineButton{tg.Btn(fund.FundName, tgCallback.FundPrefix+fund.FundID)})
	}
	return tg.NewPayload(fmt.Sprintf("Select one of the below funds from %s:", category), rows)
}

func FundDetails(fund model.Fund) tg.Payload {
	text := fmt.Sprintf(
		"Selected Fund: %s (ID: %s)\n\nIt has a ratio of approximately %s with a %s%% CAGR.\n\nFor more details: %s",
		fund.FundName, fund.FundID, fund.Ratio, fund.CAGR, fund.DetailsLink,
	)
	return tg.NewPayload(text, [][]tele.InlineButton{
		{tg.Btn("Invest", tgCallback.InvestPrefix+fund.FundID)},
		{tg.Btn("Return to Main menu", tgCallback.MainMenu)},
	})
}

func ContactPrompt(serviceName string) tg.Payload {
	return tg.NewPayload(
		fmt.Sprintf("Kindly enter your 10-digit registered contact number to proceed with %s.", serviceName),
		nil,
	)
}

func AmountPrompt(fundName string, chipValues []string) tg.Payload {
	rows := make([][]tele.InlineButton, 0, len(chipValues))
	for _, v := range chipValues {
		rows = append(rows, []tele.InlineButton{tg.Btn("₹"+v, v)})
	}
	return tg.NewPayload(
		fmt.Sprintf("Investing in: %s.\nPlease enter the amount in Rupees you wish to invest.", fundName),
		rows,
	)
}

func PortfolioList(fundIDs []string) tg.Payload {
	rows := make([][]tele.InlineButton, 0, len(fundIDs))
	for _, id := range fundIDs {
		rows = append(rows, []tele.InlineButton{tg.Btn(id, tgCallback.PortfolioPrefix+id)})
	}
	return tg.NewPayload("Kindly select one of your portfolios.", rows)
}

func NoRecordFallback(mobile string) tg.Payload {
	return tg.NewPayload(
		fmt.Sprintf("No Record Exists for the user with mobile number: %s. \nWhat would you like to do next?", mobile),
		[][]tele.InlineButton{{
			tg.Btn("Invest", tgCallback.MainMenu),
			tg.Btn("Return to Main menu", tgCallback.MainMenu),
		}},
	)
}

func ValuationMessage(v model.Valuation) string {
	return fmt.Sprintf(
		"Your Portfolio %s valuation is %s on %s",
		v.FundID, FormatRupees(v.Total), v.Date.Format(model.DateLayout),
	)
}

func PeriodPrompt() tg.Payload {
	return tg.NewPayload("Kindly provide a time period.", [][]tele.InlineButton{
		{tg.Btn("Current Financial Year", tgCallback.PeriodCurrentFY)},
		{tg.Btn("Previous Financial Year", tgCallback.PeriodPreviousFY)},
	})
}

func InvestMorePrompt() tg.Payload {
	return tg.NewPayload("Do you want to invest more?", [][]tele.InlineButton{
		{tg.Btn("Yes", tgCallback.InvestYes)},
		{tg.Btn("No", tgCallback.InvestNo)},
	})
}

// HistoryTable renders up to the latest transactions as a fixed-width table
// wrapped in a code fence. Fund names are truncated to 18 characters.
func HistoryTable(mobile string, period model.Period, txns []model.Transaction) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Latest %d transactions for %s (%s):\n", len(txns), mobile, period))
	sb.WriteString("```\n")
	sb.WriteString("Date                | Fund Name                    | Amount        |\n")
	sb.WriteString("----------------------|---------------------------------------|---------------|\n")

	for _, txn := range txns {
		name := txn.FundName
		if name == "" {
			name = "N/A"
		}
		if len(name) > 18 {
			name = name[:18]
		}
		sb.WriteString(fmt.Sprintf("%-15s | %-25s | %15s |\n", txn.Date, name, FormatRupees(txn.Amount)))
	}

	sb.WriteString("```")
	return sb.String()
}

func NoTransactionsMessage(mobile string, period model.Period) string {
	return fmt.Sprintf("No transactions found for %s for the selected period: %s.", mobile, period)
}
