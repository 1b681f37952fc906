package telegram

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/zamontech/yaqinbot/internal/config"
)

// NewLimiter builds the outbound send limiter. Telegram throttles bots at
// roughly 30 messages per second across chats; the default config stays
// under that.
func NewLimiter(cfg config.RateLimitConfig) *rate.Limiter {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		cfg = config.RateLimitConfig{Requests: 25, Interval: time.Second}
	}
	interval := cfg.Interval / time.Duration(cfg.Requests)
	return rate.NewLimiter(rate.Every(interval), cfg.Requests)
}
