package telegram

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/zamontech/yaqinbot/internal/conversation"
	"github.com/zamontech/yaqinbot/internal/entity"
)

// API captures the bot operations the transport needs, so tests can supply
// a stub instead of a live connection.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

// Handler processes one user action into screens.
type Handler interface {
	Handle(ctx context.Context, act conversation.Action) []conversation.Reply
}

// Bot bridges Telegram updates to the conversation machine and delivers its
// replies, pacing outbound sends through a shared limiter.
type Bot struct {
	api     API
	handler Handler
	limiter *rate.Limiter
}

// NewBot wires the transport.
func NewBot(api API, handler Handler, limiter *rate.Limiter) *Bot {
	return &Bot{api: api, handler: handler, limiter: limiter}
}

// actionFromUpdate maps one Telegram update to a conversation action.
// Returns false for update kinds the bot does not react to.
func actionFromUpdate(update tgbotapi.Update) (conversation.Action, bool) {
	if cb := update.CallbackQuery; cb != nil && cb.From != nil {
		return conversation.Action{
			UserID: cb.From.ID,
			Kind:   conversation.ActionCallback,
			Text:   cb.Data,
		}, true
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return conversation.Action{}, false
	}

	act := conversation.Action{UserID: msg.From.ID}
	switch {
	case msg.IsCommand():
		act.Kind = conversation.ActionCommand
		act.Text = msg.Command()
	case msg.Contact != nil:
		act.Kind = conversation.ActionContact
		act.ContactPhone = msg.Contact.PhoneNumber
	case msg.Location != nil:
		act.Kind = conversation.ActionLocation
		act.Location = &entity.LatLng{
			Latitude:  msg.Location.Latitude,
			Longitude: msg.Location.Longitude,
		}
	default:
		act.Kind = conversation.ActionText
		act.Text = msg.Text
	}
	return act, true
}

// Dispatch handles one update end to end: acknowledge, run the machine,
// deliver the screens. Delivery failures are logged, not propagated; the
// session has already advanced.
func (b *Bot) Dispatch(ctx context.Context, update tgbotapi.Update) {
	if cb := update.CallbackQuery; cb != nil {
		if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			log.Printf("event=callback_ack_failed id=%s error=%q", cb.ID, err)
		}
	}

	act, ok := actionFromUpdate(update)
	if !ok {
		return
	}

	replies := b.handler.Handle(ctx, act)
	for _, reply := range replies {
		if err := b.send(ctx, act.UserID, reply); err != nil {
			log.Printf("event=send_failed user=%d error=%q", act.UserID, err)
		}
	}
}

func (b *Bot) send(ctx context.Context, chatID int64, reply conversation.Reply) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("send limiter: %w", err)
	}

	if reply.Location != nil {
		loc := tgbotapi.NewLocation(chatID, reply.Location.Latitude, reply.Location.Longitude)
		_, err := b.api.Send(loc)
		return err
	}

	if reply.PhotoURL != "" {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(reply.PhotoURL))
		photo.Caption = reply.Text
		if reply.HTML {
			photo.ParseMode = tgbotapi.ModeHTML
		}
		photo.ReplyMarkup = replyMarkup(reply)
		if _, err := b.api.Send(photo); err == nil {
			return nil
		}
		// stale or unfetchable media; the caption carries everything
	}

	msg := tgbotapi.NewMessage(chatID, reply.Text)
	if reply.HTML {
		msg.ParseMode = tgbotapi.ModeHTML
	}
	msg.ReplyMarkup = replyMarkup(reply)
	_, err := b.api.Send(msg)
	return err
}

// replyMarkup converts the machine's keyboard model to the wire format.
func replyMarkup(reply conversation.Reply) interface{} {
	switch {
	case reply.InlineKeyboard != nil:
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(reply.InlineKeyboard.Rows))
		for _, row := range reply.InlineKeyboard.Rows {
			buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
			for _, btn := range row {
				if btn.URL != "" {
					buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(btn.Label, btn.URL))
				} else {
					buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Data))
				}
			}
			rows = append(rows, buttons)
		}
		return tgbotapi.NewInlineKeyboardMarkup(rows...)

	case reply.ReplyKeyboard != nil:
		rows := make([][]tgbotapi.KeyboardButton, 0, len(reply.ReplyKeyboard.Rows))
		for _, row := range reply.ReplyKeyboard.Rows {
			buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
			for _, btn := range row {
				switch {
				case btn.RequestContact:
					buttons = append(buttons, tgbotapi.NewKeyboardButtonContact(btn.Label))
				case btn.RequestLocation:
					buttons = append(buttons, tgbotapi.NewKeyboardButtonLocation(btn.Label))
				default:
					buttons = append(buttons, tgbotapi.NewKeyboardButton(btn.Label))
				}
			}
			rows = append(rows, buttons)
		}
		keyboard := tgbotapi.NewReplyKeyboard(rows...)
		keyboard.ResizeKeyboard = true
		keyboard.OneTimeKeyboard = reply.ReplyKeyboard.OneTime
		return keyboard

	case reply.RemoveKeyboard:
		return tgbotapi.NewRemoveKeyboard(false)
	}
	return nil
}
