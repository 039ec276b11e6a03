// Package webhook implements the fulfillment webhook: it dispatches
// recognized intents to conversation-flow handlers and renders their replies.
package webhook

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"mutualfund-bot/config"
	"mutualfund-bot/internal/converter/telegramConverter"
	"mutualfund-bot/internal/dialog"
	"mutualfund-bot/internal/model"
	"mutualfund-bot/internal/model/dfModel"
	"mutualfund-bot/internal/model/tg/tgCallback"
	"mutualfund-bot/internal/service"
	"mutualfund-bot/internal/service/fundService"
	"mutualfund-bot/utils"
)

// Intent display names as configured on the dialog platform.
const (
	IntentWelcome           = "Default Welcome Intent"
	IntentFallback          = "Default Fallback Intent"
	IntentExploreFunds      = "Explore Funds"
	IntentSelectedCategory  = "Selected Fund Categories"
	IntentShowFundDetails   = "Show Fund Details"
	IntentHandleInvestment  = "Handle Investment"
	IntentCaptureAmount     = "Capture Investment Amount"
	IntentCaptureContact    = "Capture Contact Number"
	IntentInvokePV          = "Invoke Portfolio Valuation"
	IntentShowFundPortfolio = "Show Selected Fund Portfolio"
	IntentInvokeTH          = "Invoke Transaction History"
	IntentSelectTHPeriod    = "Select Transaction History Period"
	IntentTHInvestDecision  = "Transaction History Invest Decision"
)

// Flow types carried in the contact-capture gating context.
const (
	flowPortfolioValuation = "Portfolio Valuation"
	flowTransactionHistory = "Transaction History"
	flowInvest             = "Invest"
)

// Context parameter keys.
const (
	paramContactNumber  = "contact_number"
	paramFlowType       = "flow_type"
	paramFundID         = "fund_id"
	paramFundName       = "fund_name"
	paramInvestFundID   = "fund_id_for_investment"
	paramInvestFundName = "fund_name_for_investment"
)

type FundService interface {
	Categories(ctx context.Context) []model.FundCategory
	FundsForCategory(ctx context.Context, category string) ([]model.Fund, error)
	FundDetails(ctx context.Context, fundID string) (model.Fund, error)
	FundName(ctx context.Context, fundID string) string
	ValidateAmount(raw string) (decimal.Decimal, error)
	RecordInvestment(ctx context.Context, mobile, fundID, fundName string, amount decimal.Decimal) (model.Transaction, error)
	PortfolioFundIDs(ctx context.Context, mobile string) ([]string, error)
	PortfolioValuation(ctx context.Context, mobile, fundID string) (model.Valuation, error)
	TransactionsForPeriod(ctx context.Context, mobile string, period model.Period) ([]model.Transaction, model.DateRange, error)
}

type handlerFunc func(ctx context.Context, ag *dialog.Agent) error

type Controller struct {
	cfg         *config.Config
	fundService FundService
	intents     map[string]handlerFunc
}

func NewController(cfg *config.Config, fundService FundService) *Controller {
	ctrl := &Controller{cfg: cfg, fundService: fundService}
	ctrl.intents = map[string]handlerFunc{
		IntentWelcome:           ctrl.Welcome,
		IntentFallback:          ctrl.Fallback,
		IntentExploreFunds:      ctrl.ExploreFunds,
		IntentSelectedCategory:  ctrl.SelectedFundCategory,
		IntentShowFundDetails:   ctrl.ShowFundDetails,
		IntentHandleInvestment:  ctrl.HandleInvestment,
		IntentCaptureAmount:     ctrl.CaptureInvestmentAmount,
		IntentCaptureContact:    ctrl.CaptureContactNumber,
		IntentInvokePV:          ctrl.InvokePortfolioValuation,
		IntentShowFundPortfolio: ctrl.ShowSelectedFundPortfolio,
		IntentInvokeTH:          ctrl.InvokeTransactionHistory,
		IntentSelectTHPeriod:    ctrl.SelectTHPeriod,
		IntentTHInvestDecision:  ctrl.THInvestDecision,
	}
	return ctrl
}

// Handle is the fiber endpoint for the fulfillment webhook.
func (ctrl *Controller) Handle(c *fiber.Ctx) error {
	var req dfModel.WebhookRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Warn("can't parse webhook request", slog.String("err", err.Error()))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid webhook payload"})
	}

	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	ag := dialog.NewAgent(&req)
	slog.Info("intent triggered", slog.String("rqID", rqID), slog.String("intent", ag.Intent()))

	handler, ok := ctrl.intents[ag.Intent()]
	if !ok {
		slog.Warn("no handler for intent", slog.String("rqID", rqID), slog.String("intent", ag.Intent()))
		handler = ctrl.Fallback
	}

	if err := handler(ctx, ag); err != nil {
		slog.Error("handler failed", slog.String("rqID", rqID), slog.String("intent", ag.Intent()), slog.String("err", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "fulfillment error"})
	}

	return c.JSON(ag.Response())
}

func (ctrl *Controller) Welcome(ctx context.Context, ag *dialog.Agent) error {
	ag.AddPayload(telegramConverter.MainMenu())
	return nil
}

func (ctrl *Controller) Fallback(ctx context.Context, ag *dialog.Agent) error {
	ag.AddText("Triggered from webhook: Something went wrong!")
	return nil
}

func (ctrl *Controller) ExploreFunds(ctx context.Context, ag *dialog.Agent) error {
	categories := ctrl.fundService.Categories(ctx)
	if len(categories) == 0 {
		ag.AddText("Sorry, no fund categories are available.")
		return nil
	}

	ag.AddPayload(telegramConverter.CategoryList(categories))
	ag.SetContext(dialog.CtxAwaitingCategoryChoice, 1, nil)
	return nil
}

func (ctrl *Controller) SelectedFundCategory(ctx context.Context, ag *dialog.Agent) error {
	if ag.Query() == "" {
		ag.AddText("I'm having trouble understanding your choice. Please try again from the menu.")
		ag.DeleteContext(dialog.CtxAwaitingCategoryChoice)
		return nil
	}

	action := tgCallback.Parse(ag.Query())
	if action.Kind != tgCallback.KindCategory {
		ag.AddText("I'm not sure what to do with that selection. Please try an option from the main menu.")
		ag.DeleteContext(dialog.CtxAwaitingCategoryChoice)
		return nil
	}

	funds, err := ctrl.fundService.FundsForCategory(ctx, action.Arg)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			ag.AddText("Sorry, no funds found for the category: " + action.Arg + ". Please pick another category.")
			ag.DeleteContext(dialog.CtxAwaitingCategoryChoice)
			return nil
		}
		return err
	}

	ag.AddPayload(telegramConverter.FundList(action.Arg, funds))
	ag.SetContext(dialog.CtxAwaitingFundChoice, 1, nil)
	return nil
}

func (ctrl *Controller) ShowFundDetails(ctx context.Context, ag *dialog.Agent) error {
	action := tgCallback.Parse(ag.Query())
	if action.Kind != tgCallback.KindFund {
		ag.AddText("I couldn't determine which fund you selected. Please try again.")
		ag.DeleteContext(dialog.CtxAwaitingFundChoice)
		return nil
	}

	fund, err := ctrl.fundService.FundDetails(ctx, action.Arg)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			ag.AddText("Sorry, there was an issue fetching the fund details.")
			ag.DeleteContext(dialog.CtxAwaitingFundChoice)
			return nil
		}
		return err
	}

	ag.AddPayload(telegramConverter.FundDetails(fund))
	ag.DeleteContext(dialog.CtxAwaitingFundChoice)
	return nil
}

func (ctrl *Controller) HandleInvestment(ctx context.Context, ag *dialog.Agent) error {
	payload := ag.StringParam("invest_payload")
	if payload == "" {
		payload = ag.Query()
	}

	action := tgCallback.Parse(payload)
	if action.Kind != tgCallback.KindInvest {
		ag.AddText("Sorry, I couldn't identify the fund for investment. Please try again.")
		return nil
	}

	fundID := action.Arg
	fundName := ctrl.fundService.FundName(ctx, fundID)

	if contact := contactFromSession(ag); contact != "" {
		ctrl.promptForInvestmentAmount(ag, fundID, contact, fundName)
		return nil
	}

	investParams := map[string]any{
		paramInvestFundID:   fundID,
		paramInvestFundName: fundName,
	}
	ag.SetContext(dialog.CtxAwaitingContactForInvest, 1, investParams)
	ctrl.askForContactNumber(ag, flowInvest, investParams)
	return nil
}

func (ctrl *Controller) CaptureContactNumber(ctx context.Context, ag *dialog.Agent) error {
	contact := ag.StringParam("contact_number_input")

	gate, gateActive := ag.Context(dialog.CtxAwaitingContactNumber)
	flowType := gate.StringParam(paramFlowType)

	if !fundService.ValidateContact(contact) {
		ag.AddText("Validation Error: Contact number must be 10 digits only. Please enter a valid contact number.")
		if gateActive && flowType != "" {
			// keep the in-flight flow's parameters alive for one more turn
			ag.SetContext(dialog.CtxAwaitingContactNumber, 1, gate.Parameters)
		} else {
			ag.DeleteContext(dialog.CtxAwaitingContactNumber)
			ag.AddText("Please try selecting Portfolio Valuation or Transaction History again.")
		}
		return nil
	}

	ag.SetContext(dialog.CtxUserSession, ctrl.cfg.Dialog.UserSessionLifespan, map[string]any{paramContactNumber: contact})
	ag.DeleteContext(dialog.CtxAwaitingContactNumber)

	switch {
	case flowType == flowPortfolioValuation:
		return ctrl.displayPortfolioValuation(ctx, ag, contact)
	case flowType == flowTransactionHistory:
		ctrl.promptForTHPeriod(ag, contact)
		return nil
	case flowType == flowInvest || gate.StringParam(paramInvestFundID) != "":
		fundID := gate.StringParam(paramInvestFundID)
		if fundID == "" {
			ag.AddText("Something went wrong with the investment flow. Please try selecting the fund again.")
			return nil
		}
		fundName := gate.StringParam(paramInvestFundName)
		if fundName == "" {
			fundName = "Fund ID " + fundID
		}
		ctrl.promptForInvestmentAmount(ag, fundID, contact, fundName)
		return nil
	}

	ag.AddText("Contact number captured, but I'm unsure of the next step. Please try again from the main menu.")
	return nil
}

func (ctrl *Controller) CaptureInvestmentAmount(ctx context.Context, ag *dialog.Agent) error {
	amountCtx, _ := ag.Context(dialog.CtxAwaitingInvestmentAmount)
	fundID := amountCtx.StringParam(paramFundID)
	contact := amountCtx.StringParam(paramContactNumber)
	fundName := amountCtx.StringParam(paramFundName)
	if fundName == "" {
		fundName = "Fund ID " + fundID
	}

	if fundID == "" || contact == "" {
		ag.AddText("Sorry, something went wrong with your investment selection. Please try again from the fund details.")
		ag.DeleteContext(dialog.CtxAwaitingInvestmentAmount)
		return nil
	}

	raw := ag.StringParam("amount")
	if raw == "" {
		raw = ag.Query()
	}

	amount, err := ctrl.fundService.ValidateAmount(raw)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAmountExceedsLimit):
			ag.AddText("If typing an amount, it must be less than ₹50,000. Please enter a valid amount or select an option.")
		default:
			ag.AddText("Please enter a valid positive number for the amount.")
		}
		ctrl.promptForInvestmentAmount(ag, fundID, contact, fundName)
		return nil
	}

	if _, err := ctrl.fundService.RecordInvestment(ctx, contact, fundID, fundName, amount); err != nil {
		ag.AddText("Thank you for choosing our services. There was an issue recording your investment, please contact support.")
	} else {
		ag.AddText("Thank you for choosing our services. Your investment has been recorded.")
	}

	ag.DeleteContext(dialog.CtxAwaitingInvestmentAmount)
	return ctrl.Welcome(ctx, ag)
}

func (ctrl *Controller) InvokePortfolioValuation(ctx context.Context, ag *dialog.Agent) error {
	if contact := contactFromSession(ag); contact != "" {
		return ctrl.displayPortfolioValuation(ctx, ag, contact)
	}
	ctrl.askForContactNumber(ag, flowPortfolioValuation, nil)
	return nil
}

func (ctrl *Controller) ShowSelectedFundPortfolio(ctx context.Context, ag *dialog.Agent) error {
	action := tgCallback.Parse(ag.Query())
	if action.Kind != tgCallback.KindPortfolio {
		ag.AddText("I couldn't determine which fund you selected. Please try again.")
		ag.DeleteContext(dialog.CtxAwaitingPVFundChoice)
		return nil
	}

	contact := contactFromSession(ag)
	if contact == "" {
		ag.AddText("Sorry, your session seems to have expired. Please start over by selecting Portfolio Valuation again.")
		ag.DeleteContext(dialog.CtxAwaitingPVFundChoice)
		return nil
	}

	valuation, err := ctrl.fundService.PortfolioValuation(ctx, contact, action.Arg)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			ag.AddPayload(telegramConverter.NoRecordFallback(contact))
			ag.DeleteContext(dialog.CtxAwaitingPVFundChoice)
			return nil
		}
		return err
	}

	ag.AddText(telegramConverter.ValuationMessage(valuation))
	ag.DeleteContext(dialog.CtxAwaitingPVFundChoice)
	return nil
}

func (ctrl *Controller) InvokeTransactionHistory(ctx context.Context, ag *dialog.Agent) error {
	if contact := contactFromSession(ag); contact != "" {
		ctrl.promptForTHPeriod(ag, contact)
		return nil
	}
	ctrl.askForContactNumber(ag, flowTransactionHistory, nil)
	return nil
}

func (ctrl *Controller) SelectTHPeriod(ctx context.Context, ag *dialog.Agent) error {
	periodCtx, _ := ag.Context(dialog.CtxAwaitingTHPeriod)
	contact := periodCtx.StringParam(paramContactNumber)
	if contact == "" {
		ag.AddText("Sorry, your session seems to have expired. Please start over by selecting Transaction History again.")
		ag.DeleteContext(dialog.CtxAwaitingTHPeriod)
		return nil
	}

	var period model.Period
	switch tgCallback.Parse(ag.Query()).Kind {
	case tgCallback.KindPeriodCurrentFY:
		period = model.PeriodCurrentFY
	case tgCallback.KindPeriodPreviousFY:
		period = model.PeriodPreviousFY
	default:
		ag.AddText("Invalid period selection. Please choose a valid period.")
		ctrl.promptForTHPeriod(ag, contact)
		return nil
	}

	txns, _, err := ctrl.fundService.TransactionsForPeriod(ctx, contact, period)
	if err != nil {
		ag.AddText("Sorry, an error occurred while fetching transaction history.")
		ag.DeleteContext(dialog.CtxAwaitingTHPeriod)
		return nil
	}

	if len(txns) > 0 {
		ag.AddText(telegramConverter.HistoryTable(contact, period, txns))
	} else {
		ag.AddText(telegramConverter.NoTransactionsMessage(contact, period))
	}

	ag.DeleteContext(dialog.CtxAwaitingTHPeriod)

	ag.AddPayload(telegramConverter.InvestMorePrompt())
	ag.SetContext(dialog.CtxAwaitingTHInvestDecision, 1, map[string]any{paramContactNumber: contact})
	return nil
}

func (ctrl *Controller) THInvestDecision(ctx context.Context, ag *dialog.Agent) error {
	decisionCtx, _ := ag.Context(dialog.CtxAwaitingTHInvestDecision)
	contact := decisionCtx.StringParam(paramContactNumber)
	if contact == "" {
		contact = contactFromSession(ag)
	}

	switch tgCallback.Parse(ag.Query()).Kind {
	case tgCallback.KindInvestYes:
		ag.AddText("Great! Let's find some funds for you.")
		ag.DeleteContext(dialog.CtxAwaitingTHInvestDecision)
		return ctrl.ExploreFunds(ctx, ag)
	case tgCallback.KindInvestNo:
		ag.AddText("Thank you for using our services!")
		ag.DeleteContext(dialog.CtxAwaitingTHInvestDecision)
		return nil
	}

	ag.AddText("Sorry, I didn't understand that. Please choose Yes or No.")
	ag.AddPayload(telegramConverter.InvestMorePrompt())
	ag.SetContext(dialog.CtxAwaitingTHInvestDecision, 1, map[string]any{paramContactNumber: contact})
	return nil
}

func (ctrl *Controller) displayPortfolioValuation(ctx context.Context, ag *dialog.Agent, contact string) error {
	fundIDs, err := ctrl.fundService.PortfolioFundIDs(ctx, contact)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			ag.AddPayload(telegramConverter.NoRecordFallback(contact))
			return nil
		}
		return err
	}

	ag.AddPayload(telegramConverter.PortfolioList(fundIDs))
	ag.SetContext(dialog.CtxAwaitingPVFundChoice, 1, nil)
	return nil
}

func (ctrl *Controller) promptForTHPeriod(ag *dialog.Agent, contact string) {
	ag.AddPayload(telegramConverter.PeriodPrompt())
	ag.SetContext(dialog.CtxAwaitingTHPeriod, 1, map[string]any{paramContactNumber: contact})
}

func (ctrl *Controller) promptForInvestmentAmount(ag *dialog.Agent, fundID, contact, fundName string) {
	ag.AddPayload(telegramConverter.AmountPrompt(fundName, fundService.ChipValues))
	ag.SetContext(dialog.CtxAwaitingInvestmentAmount, 1, map[string]any{
		paramFundID:        fundID,
		paramContactNumber: contact,
		paramFundName:      fundName,
	})
}

func (ctrl *Controller) askForContactNumber(ag *dialog.Agent, flowType string, extra map[string]any) {
	ag.AddPayload(telegramConverter.ContactPrompt(flowType))

	params := map[string]any{paramFlowType: flowType}
	for k, v := range extra {
		params[k] = v
	}
	ag.SetContext(dialog.CtxAwaitingContactNumber, 2, params)
}

func contactFromSession(ag *dialog.Agent) string {
	sess, ok := ag.Context(dialog.CtxUserSession)
	if !ok {
		return ""
	}
	return fundService.NormalizeContact(sess.StringParam(paramContactNumber))
}
