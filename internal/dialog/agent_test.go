package dialog

import (
	"testing"

	"mutualfund-bot/internal/model/dfModel"
)

const testSession = "projects/test-project/agent/sessions/abc123"

func newTestAgent(contexts ...dfModel.Context) *Agent {
	return NewAgent(&dfModel.WebhookRequest{
		Session: testSession,
		QueryResult: dfModel.QueryResult{
			QueryText:      "hello",
			Parameters:     map[string]any{"contact_number_input": "9876543210", "amount": float64(2000)},
			OutputContexts: contexts,
			Intent:         dfModel.Intent{DisplayName: "Default Welcome Intent"},
		},
	})
}

func TestAgentBasics(t *testing.T) {
	ag := newTestAgent()

	if ag.Intent() != "Default Welcome Intent" {
		t.Errorf("Intent = %q", ag.Intent())
	}
	if ag.Query() != "hello" {
		t.Errorf("Query = %q", ag.Query())
	}
	if got := ag.StringParam("contact_number_input"); got != "9876543210" {
		t.Errorf("StringParam = %q", got)
	}
	if got := ag.StringParam("amount"); got != "2000" {
		t.Errorf("numeric param coerced to %q, want 2000", got)
	}
	if got := ag.StringParam("missing"); got != "" {
		t.Errorf("missing param = %q, want empty", got)
	}
}

func TestAgentReadsInboundContexts(t *testing.T) {
	ag := newTestAgent(dfModel.Context{
		Name:          testSession + "/contexts/" + CtxUserSession,
		LifespanCount: 42,
		Parameters:    map[string]any{"contact_number": "9876543210"},
	})

	sess, ok := ag.Context(CtxUserSession)
	if !ok {
		t.Fatal("expected user-session context")
	}
	if sess.Lifespan != 42 {
		t.Errorf("lifespan = %d", sess.Lifespan)
	}
	if got := sess.StringParam("contact_number"); got != "9876543210" {
		t.Errorf("contact_number = %q", got)
	}

	if _, ok := ag.Context(CtxAwaitingTHPeriod); ok {
		t.Error("unexpected th-period context")
	}
}

func TestAgentSetOverwriteDelete(t *testing.T) {
	ag := newTestAgent()

	ag.SetContext(CtxAwaitingCategoryChoice, 1, nil)
	if _, ok := ag.Context(CtxAwaitingCategoryChoice); !ok {
		t.Fatal("set context not visible")
	}

	ag.SetContext(CtxAwaitingCategoryChoice, 5, map[string]any{"x": "y"})
	ctx, _ := ag.Context(CtxAwaitingCategoryChoice)
	if ctx.Lifespan != 5 || ctx.StringParam("x") != "y" {
		t.Errorf("overwrite lost: %+v", ctx)
	}

	ag.DeleteContext(CtxAwaitingCategoryChoice)
	if _, ok := ag.Context(CtxAwaitingCategoryChoice); ok {
		t.Error("deleted context still visible")
	}
}

func TestAgentDeleteShadowsInbound(t *testing.T) {
	ag := newTestAgent(dfModel.Context{
		Name:          testSession + "/contexts/" + CtxAwaitingFundChoice,
		LifespanCount: 1,
	})

	ag.DeleteContext(CtxAwaitingFundChoice)
	if _, ok := ag.Context(CtxAwaitingFundChoice); ok {
		t.Error("deleted inbound context still visible")
	}
}

func TestAgentResponse(t *testing.T) {
	ag := newTestAgent()

	ag.AddText("first")
	ag.SetContext(CtxAwaitingTHPeriod, 1, map[string]any{"contact_number": "9876543210"})
	ag.DeleteContext(CtxAwaitingTHInvestDecision)

	resp := ag.Response()
	if len(resp.FulfillmentMessages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(resp.FulfillmentMessages))
	}
	if resp.FulfillmentMessages[0].Text.Text[0] != "first" {
		t.Errorf("text = %q", resp.FulfillmentMessages[0].Text.Text[0])
	}

	if len(resp.OutputContexts) != 2 {
		t.Fatalf("expected 2 output contexts, got %d", len(resp.OutputContexts))
	}
	want := testSession + "/contexts/" + CtxAwaitingTHPeriod
	if resp.OutputContexts[0].Name != want {
		t.Errorf("context name = %q, want %q", resp.OutputContexts[0].Name, want)
	}
	if resp.OutputContexts[1].LifespanCount != 0 {
		t.Errorf("deleted context lifespan = %d, want 0", resp.OutputContexts[1].LifespanCount)
	}
}
