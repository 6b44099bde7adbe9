// Package bot runs the Telegram bot that opens the HomeOS mini app.
package bot

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	startText   = "👋 Добро пожаловать в HomeOS!\nНажмите кнопку ниже, чтобы открыть приложение."
	noAppText   = "👋 Добро пожаловать в HomeOS!\nПриложение пока не настроено."
	helpText    = "🏠 Доступные команды:\n/start - открыть приложение\n/help - список команд"
	unknownText = "ℹ️ Используйте /help для списка команд"
	openAppText = "🚀 Открыть HomeOS"
)

// The library's InlineKeyboardButton predates web_app buttons, so the
// keyboard is spelled out here and marshalled as is.
type webAppInfo struct {
	URL string `json:"url"`
}

type webAppButton struct {
	Text   string     `json:"text"`
	WebApp webAppInfo `json:"web_app"`
}

type webAppKeyboard struct {
	InlineKeyboard [][]webAppButton `json:"inline_keyboard"`
}

// Sender is the part of tgbotapi.BotAPI the launcher needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Launcher answers bot commands with a button that opens the web app.
type Launcher struct {
	sender    Sender
	webAppURL string
	logger    *slog.Logger
}

// NewLauncher creates a Launcher. An empty webAppURL disables the app button.
func NewLauncher(sender Sender, webAppURL string, logger *slog.Logger) *Launcher {
	return &Launcher{sender: sender, webAppURL: webAppURL, logger: logger}
}

// Run consumes updates until ctx is cancelled or the channel closes.
func (l *Launcher) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			l.HandleMessage(update.Message)
		}
	}
}

// HandleMessage replies to a single incoming message.
func (l *Launcher) HandleMessage(msg *tgbotapi.Message) {
	response := l.Reply(msg)
	if _, err := l.sender.Send(response); err != nil {
		l.logger.Error("Failed to send reply", slog.Int64("chat_id", msg.Chat.ID), slog.String("error", err.Error()))
	}
}

// Reply builds the answer to msg without sending it.
func (l *Launcher) Reply(msg *tgbotapi.Message) tgbotapi.MessageConfig {
	response := tgbotapi.NewMessage(msg.Chat.ID, unknownText)
	if !msg.IsCommand() {
		return response
	}

	switch msg.Command() {
	case "start":
		if l.webAppURL == "" {
			response.Text = noAppText
			return response
		}
		response.Text = startText
		response.ReplyMarkup = webAppKeyboard{
			InlineKeyboard: [][]webAppButton{{{Text: openAppText, WebApp: webAppInfo{URL: l.webAppURL}}}},
		}
	case "help":
		response.Text = helpText
	}
	return response
}
