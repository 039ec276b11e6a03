// Package dfModel contains the Dialogflow fulfillment wire format consumed
// and produced by the webhook.
package dfModel

import "strings"

type WebhookRequest struct {
	ResponseID  string      `json:"responseId"`
	Session     string      `json:"session"`
	QueryResult QueryResult `json:"queryResult"`
}

type QueryResult struct {
	QueryText      string         `json:"queryText"`
	Parameters     map[string]any `json:"parameters"`
	OutputContexts []Context      `json:"outputContexts"`
	Intent         Intent         `json:"intent"`
}

type Intent struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// Context is a named parameter bag with a remaining-turn lifespan. Name is the
// full resource path (.../sessions/<id>/contexts/<short-name>); lifespan 0 in
// a response deletes the context.
type Context struct {
	Name          string         `json:"name"`
	LifespanCount int            `json:"lifespanCount"`
	Parameters    map[string]any `json:"parameters,omitempty"`
}

// ShortName strips the session prefix from the context resource path.
func (c Context) ShortName() string {
	if i := strings.LastIndex(c.Name, "/contexts/"); i >= 0 {
		return c.Name[i+len("/contexts/"):]
	}
	return c.Name
}

func ContextPath(session, shortName string) string {
	return session + "/contexts/" + shortName
}

type WebhookResponse struct {
	FulfillmentMessages []Message `json:"fulfillmentMessages"`
	OutputContexts      []Context `json:"outputContexts,omitempty"`
}

type Message struct {
	Text    *Text `json:"text,omitempty"`
	Payload any   `json:"payload,omitempty"`
}

type Text struct {
	Text []string `json:"text"`
}

func NewTextMessage(text string) Message {
	return Message{Text: &Text{Text: []string{text}}}
}
