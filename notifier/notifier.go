// Package notifier delivers listing alerts to a chat.
package notifier

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// Notifier sends one pre-formatted message.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// TelegramOptions configures a Telegram notifier.
type TelegramOptions struct {
	Token  string
	ChatID string
	// APIEndpoint overrides the Bot API URL template, used by tests.
	APIEndpoint string
	// MinInterval is the minimum gap between two messages.
	MinInterval time.Duration
}

// Telegram sends Markdown messages through the Telegram Bot API.
type Telegram struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	channel string
	limiter *rate.Limiter
}

// NewTelegram authenticates against the Bot API and returns a notifier bound
// to a single chat. ChatID may be a numeric ID or an @channel username.
func NewTelegram(opts TelegramOptions) (*Telegram, error) {
	endpoint := opts.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(opts.Token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("telegram: connect: %w", err)
	}

	t := &Telegram{bot: bot, limiter: rate.NewLimiter(rate.Inf, 1)}
	if opts.MinInterval > 0 {
		t.limiter = rate.NewLimiter(rate.Every(opts.MinInterval), 1)
	}

	chat := strings.TrimSpace(opts.ChatID)
	if id, err := strconv.ParseInt(chat, 10, 64); err == nil {
		t.chatID = id
	} else if chat != "" {
		t.channel = chat
	} else {
		return nil, fmt.Errorf("telegram: empty chat id")
	}

	return t, nil
}

// BotName returns the bot's username as reported by getMe.
func (t *Telegram) BotName() string {
	return t.bot.Self.UserName
}

// Send delivers text to the configured chat with Markdown parsing and link
// previews enabled.
func (t *Telegram) Send(ctx context.Context, text string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram: %w", err)
	}

	var msg tgbotapi.MessageConfig
	if t.channel != "" {
		msg = tgbotapi.NewMessageToChannel(t.channel, text)
	} else {
		msg = tgbotapi.NewMessage(t.chatID, text)
	}
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = false

	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram: send: %w", err)
	}
	return nil
}

// EscapeMarkdown escapes the characters that legacy Telegram Markdown treats
// as formatting.
func EscapeMarkdown(text string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, text)
}

var markupStripper = strings.NewReplacer("*", "", "_", "", "`", "", "[", "")

// StripMarkdown removes the legacy Markdown control characters from text.
// Telegram ignores backslash escapes inside an entity, so text placed inside
// *bold* has to be stripped rather than escaped.
func StripMarkdown(text string) string {
	return markupStripper.Replace(text)
}
