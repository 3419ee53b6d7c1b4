// internal/infra/telegram/sink.go
package telegram

import (
	"context"
	"fmt"

	"bizbook_notifier/internal/domain/notification"

	"gopkg.in/telebot.v3"
)

// TelebotSink surfaces engine notifications as Telegram messages to the
// owner's chat, using the gopkg.in/telebot.v3 library.
type TelebotSink struct {
	bot    *telebot.Bot
	chatID int64
}

func NewTelebotSink(b *telebot.Bot, chatID int64) *TelebotSink {
	return &TelebotSink{bot: b, chatID: chatID}
}

// Deliver renders the payload as a bold-title message. The screen hint in the
// payload data has no equivalent in a chat, so only title and body are shown.
func (t *TelebotSink) Deliver(ctx context.Context, p notification.Payload) error {
	text := fmt.Sprintf("*%s*\n%s", p.Title, p.Body)
	recipient := &telebot.User{ID: t.chatID}
	_, err := t.bot.Send(recipient, text, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	return err
}
