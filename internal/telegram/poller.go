package telegram

import (
	"context"
	"fmt"
	"log"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const pollTimeoutSeconds = 30

// Poller consumes updates over long polling and dispatches each one on its
// own goroutine; per-user ordering is enforced by the session lock, not here.
type Poller struct {
	api API
	bot *Bot
}

// NewPoller builds a poller over the same API handle the bot sends through.
func NewPoller(api API, bot *Bot) *Poller {
	return &Poller{api: api, bot: bot}
}

// Run polls until ctx is canceled. Updates queued while the bot was down are
// dropped so a redeploy does not replay a backlog of stale taps.
func (p *Poller) Run(ctx context.Context) error {
	if _, err := p.api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		return fmt.Errorf("clear webhook: %w", err)
	}

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeoutSeconds
	updates := p.api.GetUpdatesChan(cfg)

	log.Printf("event=polling_started timeout=%ds", pollTimeoutSeconds)

	var wg sync.WaitGroup
	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				wg.Wait()
				return nil
			}
			wg.Add(1)
			go func(u tgbotapi.Update) {
				defer wg.Done()
				p.bot.Dispatch(ctx, u)
			}(update)
		}
	}
}
