package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Transport implements delivery.Transport over the Telegram Bot API, sending
// media from local file paths.
type Transport struct {
	api *tgbotapi.BotAPI
}

// NewTransport wraps a bot API client.
func NewTransport(api *tgbotapi.BotAPI) *Transport {
	return &Transport{api: api}
}

// SendAudio sends the file as an audio reply.
func (t *Transport) SendAudio(chatID int64, filePath, caption string) error {
	msg := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(filePath))
	msg.Caption = caption
	_, err := t.api.Send(msg)
	return err
}

// SendVideo sends the file as a video reply.
func (t *Transport) SendVideo(chatID int64, filePath, caption string) error {
	msg := tgbotapi.NewVideo(chatID, tgbotapi.FilePath(filePath))
	msg.Caption = caption
	_, err := t.api.Send(msg)
	return err
}

// SendPhoto sends the file as a photo reply.
func (t *Transport) SendPhoto(chatID int64, filePath, caption string) error {
	msg := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(filePath))
	msg.Caption = caption
	_, err := t.api.Send(msg)
	return err
}

// SendDocument sends the file as a generic document reply.
func (t *Transport) SendDocument(chatID int64, filePath, caption string) error {
	msg := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(filePath))
	msg.Caption = caption
	_, err := t.api.Send(msg)
	return err
}
