package handler

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"
)

const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// UpdateDispatcher processes one decoded Telegram update.
type UpdateDispatcher interface {
	Dispatch(ctx context.Context, update tgbotapi.Update)
}

// WebhookHandler receives Telegram webhook posts.
type WebhookHandler struct {
	dispatcher UpdateDispatcher
	secret     string
}

// NewWebhookHandler constructs a webhook handler. An empty secret disables
// the token check.
func NewWebhookHandler(dispatcher UpdateDispatcher, secret string) *WebhookHandler {
	return &WebhookHandler{dispatcher: dispatcher, secret: secret}
}

// Receive handles POST /webhook. Telegram expects a fast acknowledgement, so
// the update is dispatched off the request goroutine.
func (h *WebhookHandler) Receive(c echo.Context) error {
	if h.secret != "" {
		got := c.Request().Header.Get(secretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
			return Error(c, http.StatusUnauthorized, "invalid secret token")
		}
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(c.Request().Body).Decode(&update); err != nil {
		return Error(c, http.StatusBadRequest, "invalid update payload")
	}

	go h.dispatcher.Dispatch(context.Background(), update)

	return Success(c, http.StatusOK, "update accepted", nil)
}
