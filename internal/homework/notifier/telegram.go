package notifier

import (
	"context"
	"net/http"
	"strings"
	"time"

	pkgerrors "hwbot/pkg/errors"
	"hwbot/pkg/utils/logger"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Notifier delivers a text message to the operator.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Sender is the part of *tele.Bot the notifier uses.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Config configures the Telegram notifier.
type Config struct {
	Token   string
	ChatID  string
	APIURL  string // empty means tele.DefaultApiURL
	Timeout time.Duration
}

// chatRecipient addresses a chat by numeric id or @username.
type chatRecipient string

func (c chatRecipient) Recipient() string { return string(c) }

// TelegramNotifier sends messages through the Telegram Bot API.
type TelegramNotifier struct {
	sender Sender
	chat   chatRecipient
}

// NewTelegramNotifier builds a bot in offline mode; no getMe call is made.
func NewTelegramNotifier(cfg Config) (*TelegramNotifier, error) {
	if cfg.Token == "" {
		return nil, pkgerrors.New(pkgerrors.ConfigInvalid).WithMessage("telegram token is required")
	}
	if strings.TrimSpace(cfg.ChatID) == "" {
		return nil, pkgerrors.New(pkgerrors.ConfigInvalid).WithMessage("telegram chat id is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	bot, err := tele.NewBot(tele.Settings{
		Token:   cfg.Token,
		URL:     cfg.APIURL,
		Offline: true,
		Client:  &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ConfigInvalid)
	}
	return NewWithSender(bot, cfg.ChatID), nil
}

// NewWithSender wires a notifier around an existing sender.
func NewWithSender(sender Sender, chatID string) *TelegramNotifier {
	return &TelegramNotifier{sender: sender, chat: chatRecipient(strings.TrimSpace(chatID))}
}

// Notify sends message to the configured chat.
func (n *TelegramNotifier) Notify(ctx context.Context, message string) error {
	if message == "" {
		return pkgerrors.BadRequest("message is empty")
	}
	if _, err := n.sender.Send(n.chat, message); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.NotificationFailed).
			WithDetail("chat_id", string(n.chat)).
			WithDetail("message", message)
	}
	logger.Debug(ctx, "telegram message sent", zap.String("chat_id", string(n.chat)))
	return nil
}
