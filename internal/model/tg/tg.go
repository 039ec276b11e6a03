// Package tg holds the Telegram-specific payload rendered inside Dialogflow
// fulfillment messages.
package tg

import tele "gopkg.in/telebot.v4"

// Payload is the custom payload envelope Dialogflow forwards verbatim to the
// Telegram integration.
type Payload struct {
	Telegram Message `json:"telegram"`
}

type Message struct {
	Text        string            `json:"text"`
	ReplyMarkup *tele.ReplyMarkup `json:"reply_markup,omitempty"`
}

func NewPayload(text string, rows [][]tele.InlineButton) Payload {
	msg := Message{Text: text}
	if len(rows) > 0 {
		msg.ReplyMarkup = &tele.ReplyMarkup{InlineKeyboard: rows}
	}
	return Payload{Telegram: msg}
}

func Btn(text, callbackData string) tele.InlineButton {
	return tele.InlineButton{Text: text, Data: callbackData}
}
