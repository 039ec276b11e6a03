// Package dialog wraps one fulfillment request/response cycle: it exposes the
// recognized intent, query and active contexts, and buffers the messages and
// context mutations the handlers produce.
package dialog

import (
	"strconv"

	"mutualfund-bot/internal/model/dfModel"
)

// Context names used across the conversation flows.
const (
	CtxAwaitingCategoryChoice   = "awaiting-category-selection"
	CtxAwaitingFundChoice       = "awaiting-fund-selection"
	CtxAwaitingContactNumber    = "awaiting-contact-number"
	CtxUserSession              = "user-session"
	CtxAwaitingContactForInvest = "awaiting-contact-for-investment"
	CtxAwaitingInvestmentAmount = "awaiting-investment-amount"
	CtxAwaitingPVFundChoice     = "awaiting-pv-fund-selection"
	CtxAwaitingTHPeriod         = "awaiting-th-period-selection"
	CtxAwaitingTHInvestDecision = "awaiting-th-invest-decision"
)

// Context is an active conversation context as handlers see it.
type Context struct {
	Name       string
	Lifespan   int
	Parameters map[string]any
}

// StringParam returns a context parameter coerced to string. Numbers coming
// from the dialog platform arrive as float64.
func (c Context) StringParam(key string) string {
	return coerceString(c.Parameters[key])
}

type Agent struct {
	session    string
	intent     string
	query      string
	parameters map[string]any

	input   map[string]dfModel.Context
	updates map[string]dfModel.Context
	order   []string

	messages []dfModel.Message
}

func NewAgent(req *dfModel.WebhookRequest) *Agent {
	a := &Agent{
		session:    req.Session,
		intent:     req.QueryResult.Intent.DisplayName,
		query:      req.QueryResult.QueryText,
		parameters: req.QueryResult.Parameters,
		input:      make(map[string]dfModel.Context, len(req.QueryResult.OutputContexts)),
		updates:    make(map[string]dfModel.Context),
	}
	for _, ctx := range req.QueryResult.OutputContexts {
		a.input[ctx.ShortName()] = ctx
	}
	return a
}

func (a *Agent) Intent() string { return a.intent }

func (a *Agent) Query() string { return a.query }

// StringParam returns a recognized intent parameter coerced to string.
func (a *Agent) StringParam(name string) string {
	return coerceString(a.parameters[name])
}

// Context returns the named context if it is active this turn, mutations from
// the current turn included.
func (a *Agent) Context(name string) (Context, bool) {
	if ctx, ok := a.updates[name]; ok {
		if ctx.LifespanCount <= 0 {
			return Context{}, false
		}
		return Context{Name: name, Lifespan: ctx.LifespanCount, Parameters: ctx.Parameters}, true
	}
	if ctx, ok := a.input[name]; ok && ctx.LifespanCount > 0 {
		return Context{Name: name, Lifespan: ctx.LifespanCount, Parameters: ctx.Parameters}, true
	}
	return Context{}, false
}

// SetContext creates or overwrites a context for the outbound response.
func (a *Agent) SetContext(name string, lifespan int, params map[string]any) {
	a.record(name, dfModel.Context{
		Name:          dfModel.ContextPath(a.session, name),
		LifespanCount: lifespan,
		Parameters:    params,
	})
}

// DeleteContext expires a context by sending it back with lifespan 0.
func (a *Agent) DeleteContext(name string) {
	a.record(name, dfModel.Context{
		Name:          dfModel.ContextPath(a.session, name),
		LifespanCount: 0,
	})
}

func (a *Agent) record(name string, ctx dfModel.Context) {
	if _, seen := a.updates[name]; !seen {
		a.order = append(a.order, name)
	}
	a.updates[name] = ctx
}

func (a *Agent) AddText(text string) {
	a.messages = append(a.messages, dfModel.NewTextMessage(text))
}

func (a *Agent) AddPayload(payload any) {
	a.messages = append(a.messages, dfModel.Message{Payload: payload})
}

// Messages exposes the outbound buffer, mainly for tests.
func (a *Agent) Messages() []dfModel.Message { return a.messages }

// Response renders the buffered messages and context mutations into the
// fulfillment response body.
func (a *Agent) Response() *dfModel.WebhookResponse {
	resp := &dfModel.WebhookResponse{FulfillmentMessages: a.messages}
	for _, name := range a.order {
		resp.OutputContexts = append(resp.OutputContexts, a.updates[name])
	}
	return resp
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return ""
	}
	return ""
}
