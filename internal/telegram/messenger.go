// Package telegram sends announcements and status messages through the
// Telegram Bot API.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"otabot/internal/config"
	"otabot/internal/ota"
)

// Messenger implements ota.Messenger. The bot client is created on first
// use, so a run with nothing to post never contacts Telegram.
type Messenger struct {
	token      string
	endpoint   string
	httpClient *http.Client

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

var _ ota.Messenger = (*Messenger)(nil)

// NewMessenger creates a Messenger for the bot token. endpoint is a format
// string taking the token and the method name; empty means the public API.
func NewMessenger(token, endpoint string, httpClient *http.Client) *Messenger {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Messenger{token: token, endpoint: endpoint, httpClient: httpClient}
}

// NewMessengerFromConfig creates a Messenger from config and the bot token.
func NewMessengerFromConfig(cfg config.TelegramConfig, token string, timeout time.Duration) *Messenger {
	return NewMessenger(token, cfg.APIEndpoint, &http.Client{Timeout: timeout})
}

func (m *Messenger) client() (*tgbotapi.BotAPI, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bot != nil {
		return m.bot, nil
	}
	bot, err := tgbotapi.NewBotAPIWithClient(m.token, m.endpoint, m.httpClient)
	if err != nil {
		return nil, fmt.Errorf("connecting to telegram: %w", err)
	}
	m.bot = bot
	return bot, nil
}

// target resolves a chat identifier. Numeric IDs address a chat directly,
// anything else is taken as a public @username.
func target(chat string) (chatID int64, username string) {
	if id, err := strconv.ParseInt(chat, 10, 64); err == nil {
		return id, ""
	}
	return 0, chat
}

// SendPhoto uploads the image at photoPath with an HTML caption.
func (m *Messenger) SendPhoto(ctx context.Context, chat, photoPath, caption string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	bot, err := m.client()
	if err != nil {
		return err
	}

	id, username := target(chat)
	cfg := tgbotapi.NewPhoto(id, tgbotapi.FilePath(photoPath))
	cfg.ChannelUsername = username
	cfg.Caption = caption
	cfg.ParseMode = tgbotapi.ModeHTML

	if _, err := bot.Send(cfg); err != nil {
		return fmt.Errorf("sendPhoto to %s: %w", chat, err)
	}
	return nil
}

// SendMessage sends an HTML text message, optionally with a single inline
// URL button under it.
func (m *Messenger) SendMessage(ctx context.Context, chat, text string, button *ota.Button) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	bot, err := m.client()
	if err != nil {
		return err
	}

	id, username := target(chat)
	cfg := tgbotapi.NewMessage(id, text)
	cfg.ChannelUsername = username
	cfg.ParseMode = tgbotapi.ModeHTML
	cfg.DisableWebPagePreview = true
	if button != nil {
		cfg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL(button.Text, button.URL)),
		)
	}

	if _, err := bot.Send(cfg); err != nil {
		return fmt.Errorf("sendMessage to %s: %w", chat, err)
	}
	return nil
}
