package tgCallback

import "strings"

// Callback button prefixes and tokens
const (
	CategoryPrefix  string = "category_"
	FundPrefix      string = "fundchoice_"
	PortfolioPrefix string = "portfolio_"
	InvestPrefix    string = "invest_"

	MainMenu         string = "action_main_menu"
	PeriodCurrentFY  string = "th_period_current_fy"
	PeriodPreviousFY string = "th_period_previous_fy"
	InvestYes        string = "th_invest_yes"
	InvestNo         string = "th_invest_no"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindCategory
	KindFund
	KindPortfolio
	KindInvest
	KindMainMenu
	KindPeriodCurrentFY
	KindPeriodPreviousFY
	KindInvestYes
	KindInvestNo
)

// Action is a decoded callback-data string. Arg carries the category name or
// fund id for prefixed callbacks and is empty for plain tokens.
type Action struct {
	Kind Kind
	Arg  string
}

// Parse converts a raw callback-data string into a typed action. Anything
// that is not a known token or prefixed value decodes as KindUnknown.
func Parse(raw string) Action {
	switch raw {
	case MainMenu:
		return Action{Kind: KindMainMenu}
	case PeriodCurrentFY:
		return Action{Kind: KindPeriodCurrentFY}
	case PeriodPreviousFY:
		return Action{Kind: KindPeriodPreviousFY}
	case InvestYes:
		return Action{Kind: KindInvestYes}
	case InvestNo:
		return Action{Kind: KindInvestNo}
	}

	for _, p := range []struct {
		prefix string
		kind   Kind
	}{
		{CategoryPrefix, KindCategory},
		{FundPrefix, KindFund},
		{PortfolioPrefix, KindPortfolio},
		{InvestPrefix, KindInvest},
	} {
		if arg, ok := strings.CutPrefix(raw, p.prefix); ok && arg != "" {
			return Action{Kind: p.kind, Arg: arg}
		}
	}

	return Action{Kind: KindUnknown}
}
