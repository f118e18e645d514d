// Package notifier delivers operational security alerts. The only
// producer today is the login throttle, which reports keys it has
// started blocking.
package notifier

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Notifier receives security events worth a human's attention.
type Notifier interface {
	LoginBlocked(key string)
}

// Telegram sends alerts to a configured chat.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *zap.Logger
}

func NewTelegram(botToken string, chatID int64, log *zap.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telegram bot: %w", err)
	}
	log.Info("Telegram alerts enabled", zap.String("bot", bot.Self.UserName))
	return &Telegram{bot: bot, chatID: chatID, log: log}, nil
}

func (t *Telegram) LoginBlocked(key string) {
	text := fmt.Sprintf("⚠️ Login throttled: too many failed attempts for %q", key)
	if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
		// Alert delivery is best effort, a login must never fail on it.
		t.log.Warn("Failed to send telegram alert", zap.Error(err))
	}
}

// Noop discards all events. Used when alerting is not configured.
type Noop struct{}

func (Noop) LoginBlocked(string) {}
