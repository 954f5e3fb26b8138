// Package bot wires the download pipeline to Telegram: long polling, command
// routing, the quality-selection keyboard, and conversion of every pipeline
// failure into a user-visible message. Handlers run concurrently; the poll
// loop itself never blocks on a download.
package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/config"
	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/delivery"
	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/download"
	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/gate"
	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/lifecycle"
	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/quality"
	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/remux"
)

// PollTimeout is the long-poll timeout in seconds.
const PollTimeout = 30

// Bot holds the wired services behind the Telegram frontend.
type Bot struct {
	api        *tgbotapi.BotAPI
	cfg        *config.Config
	sessions   *quality.Sessions
	downloads  *download.Service
	fetcher    *download.Fetcher
	dispatcher *delivery.Dispatcher
	files      *lifecycle.Manager
	gate       *gate.Gate
	remuxer    *remux.Service
	log        *logrus.Logger
}

// Deps are the collaborators the bot needs.
type Deps struct {
	API        *tgbotapi.BotAPI
	Config     *config.Config
	Downloads  *download.Service
	Fetcher    *download.Fetcher
	Dispatcher *delivery.Dispatcher
	Files      *lifecycle.Manager
	Gate       *gate.Gate
	Remuxer    *remux.Service
	Log        *logrus.Logger
}

// New creates a bot from its dependencies.
func New(deps Deps) *Bot {
	return &Bot{
		api:        deps.API,
		cfg:        deps.Config,
		sessions:   quality.NewSessions(),
		downloads:  deps.Downloads,
		fetcher:    deps.Fetcher,
		dispatcher: deps.Dispatcher,
		files:      deps.Files,
		gate:       deps.Gate,
		remuxer:    deps.Remuxer,
		log:        deps.Log,
	}
}

// Run polls for updates until the context is cancelled. Each update is
// handled in its own goroutine so slow downloads never stall the poll loop.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = PollTimeout
	updates := b.api.GetUpdatesChan(u)

	b.log.WithField("username", b.api.Self.UserName).Info("bot started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.Message != nil && update.Message.Text != "":
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.WithField("chat", chatID).WithError(err).Warn("send message failed")
	}
}

func (b *Bot) editText(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := b.api.Send(edit); err != nil {
		b.log.WithField("chat", chatID).WithError(err).Warn("edit message failed")
	}
}

// report replies via message edit when a keyboard message is being updated,
// otherwise as a fresh message.
func (b *Bot) report(chatID int64, editMessageID int, text string) {
	if editMessageID != 0 {
		b.editText(chatID, editMessageID, text)
		return
	}
	b.sendText(chatID, text)
}
