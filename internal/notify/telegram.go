// Package notify delivers search summaries to a Telegram chat.
package notify

import (
	"context"
	"errors"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jotajotaz/bcn-flights/pkg/retry"
)

// maxMessageLength is Telegram's per-message character limit.
const maxMessageLength = 4096

const errorAlertPrefix = "🔴 ERROR en buscador de vuelos BCN\n\n"

var ErrMissingTelegramConfig = errors.New("missing Telegram credentials: set TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID")

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier sends messages to one chat, retrying delivery a fixed number of
// times with a fixed delay. Delivery failure never panics; it is reported
// through the boolean return.
type Notifier struct {
	bot    sender
	chatID int64
	policy retry.Policy
	log    *slog.Logger
}

func New(token string, chatID int64, policy retry.Policy, log *slog.Logger) (*Notifier, error) {
	if token == "" || chatID == 0 {
		return nil, ErrMissingTelegramConfig
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return newWithSender(bot, chatID, policy, log), nil
}

func newWithSender(bot sender, chatID int64, policy retry.Policy, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{
		bot:    bot,
		chatID: chatID,
		policy: policy,
		log:    log,
	}
}

// Send delivers a text message, truncating it to Telegram's limit with a
// visible marker. Returns false once all retries are exhausted.
func (n *Notifier) Send(text string) bool {
	text = truncate(text)

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	err := n.policy.Do(context.Background(), func() error {
		_, err := n.bot.Send(msg)
		if err != nil {
			n.log.Warn("telegram send failed", "error", err)
		}
		return err
	})
	if err != nil {
		n.log.Error("message not delivered after retries", "error", err)
		return false
	}

	n.log.Info("message delivered", "chars", len(text))
	return true
}

// SendErrorAlert delivers a failure description with a distinguishing
// error marker.
func (n *Notifier) SendErrorAlert(description string) bool {
	return n.Send(errorAlertPrefix + description)
}

func truncate(text string) string {
	r := []rune(text)
	if len(r) <= maxMessageLength {
		return text
	}
	return string(r[:maxMessageLength-4]) + "\n..."
}
