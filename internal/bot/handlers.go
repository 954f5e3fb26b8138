package bot

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/delivery"
	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/download"
	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/gate"
	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/model"
	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/platform"
	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/quality"
)

// maxReasonLength caps error reasons shown to users.
const maxReasonLength = 100

// handleMessage routes free-text messages: gate check, URL validation,
// platform classification, then either the quality flow or a direct
// download.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	if decision := b.gate.Evaluate(); !decision.Allowed {
		b.log.WithField("user", msg.From.ID).Info("request blocked by gate")
		b.sendText(chatID, denialText(decision))
		return
	}

	if !strings.HasPrefix(text, "http://") && !strings.HasPrefix(text, "https://") {
		b.sendText(chatID, usageHint)
		return
	}

	p := platform.Classify(text)
	b.log.WithFields(logrus.Fields{
		"user":     msg.From.ID,
		"platform": p,
	}).Info("URL received")

	switch {
	case p.SupportsQualitySelection():
		b.startQualityFlow(ctx, chatID, msg.From.ID, text, p)
	case p.IsDirect():
		b.sendText(chatID, "📥 Downloading file...")
		result, err := b.fetcher.Fetch(ctx, text)
		if err != nil {
			b.sendText(chatID, errorText(err))
			return
		}
		b.deliver(ctx, chatID, 0, result)
	default:
		// Instagram, TikTok, Facebook, generic pages: single best format.
		b.sendText(chatID, "📥 Downloading...")
		b.runDownload(ctx, chatID, 0, text, download.BestFormatSpec)
	}
}

// startQualityFlow probes formats, builds the catalog, and shows the
// keyboard. An empty catalog falls back to the default format spec instead of
// blocking the user.
func (b *Bot) startQualityFlow(ctx context.Context, chatID, userID int64, url string, p platform.Platform) {
	b.sendText(chatID, "🔍 Getting available qualities...")

	formats, err := b.downloads.ListFormats(ctx, url)
	if err != nil {
		b.log.WithField("user", userID).WithError(err).Warn("format probe failed")
	}

	catalog := quality.BuildCatalog(formats, b.cfg.Telegram.MaxFileSizeMB)
	if len(catalog) == 0 {
		b.sendText(chatID, "📥 Downloading with default quality...")
		b.runDownload(ctx, chatID, 0, url, download.DefaultFormatSpec)
		return
	}

	session := b.sessions.SetCatalog(userID, url, p, catalog)

	msg := tgbotapi.NewMessage(chatID, catalogSummary(p, session.Catalog))
	msg.ReplyMarkup = qualityKeyboard(session)
	if _, err := b.api.Send(msg); err != nil {
		b.log.WithField("chat", chatID).WithError(err).Warn("send keyboard failed")
	}
}

// handleCallback resolves a quality selection token and runs the download.
// Tokens from an overwritten catalog are rejected, never remapped.
func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.log.WithError(err).Warn("answer callback failed")
	}
	if query.Message == nil {
		return
	}
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	if query.Data == quality.CancelToken {
		b.editText(chatID, messageID, "❌ Download cancelled.")
		return
	}

	session, selection, err := b.sessions.Resolve(query.From.ID, query.Data)
	switch {
	case errors.Is(err, quality.ErrTokenStale):
		b.editText(chatID, messageID, "⚠️ This menu is out of date. Please send the URL again.")
		return
	case err != nil:
		b.editText(chatID, messageID, "⚠️ Invalid selection. Please send the URL again.")
		return
	}

	formatSpec := selection.Option.FormatSpec
	if selection.AudioOnly {
		formatSpec = download.AudioFormatSpec
	}

	b.editText(chatID, messageID, "⏳ Downloading with selected quality...")
	b.runDownload(ctx, chatID, messageID, session.URL, formatSpec)
}

// runDownload drives the extractor pipeline and reports the outcome.
// editMessageID, when non-zero, is the keyboard message updated in place.
func (b *Bot) runDownload(ctx context.Context, chatID int64, editMessageID int, url, formatSpec string) {
	result, err := b.downloads.Download(ctx, url, formatSpec)
	if err != nil {
		b.report(chatID, editMessageID, errorText(err))
		return
	}
	b.deliver(ctx, chatID, editMessageID, result)
}

// deliver runs the optional remux step, sends the file, and reports the
// outcome. The file is owned by the lifecycle manager once Deliver returns.
func (b *Bot) deliver(ctx context.Context, chatID int64, editMessageID int, result *model.DownloadResult) {
	if newPath := b.remuxer.Process(ctx, result.FilePath); newPath != result.FilePath {
		result.FilePath = newPath
		if stat, err := os.Stat(newPath); err == nil {
			result.SizeBytes = stat.Size()
		}
	}

	if err := b.dispatcher.Deliver(result, chatID); err != nil {
		b.report(chatID, editMessageID, errorText(err))
		return
	}
	b.report(chatID, editMessageID, fmt.Sprintf("✅ Download complete! (%.1fMB)", result.SizeMB()))
}

// qualityKeyboard builds the inline keyboard for a live catalog: one row per
// option, an audio row for YouTube, and a cancel row.
func qualityKeyboard(session quality.Session) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(session.Catalog)+2)
	for _, option := range session.Catalog {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎬 "+option.Label, option.Token),
		))
	}
	if session.Platform == platform.YouTube {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎵 MP3 Audio Only", quality.EncodeAudio(session.Generation)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", quality.CancelToken),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// catalogSummary lists the first few options above the keyboard.
func catalogSummary(p platform.Platform, catalog []quality.Option) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📹 %s video detected\n\nAvailable qualities:\n", p.DisplayName())
	for i, option := range catalog {
		if i == 3 {
			fmt.Fprintf(&sb, "... and %d more\n", len(catalog)-3)
			break
		}
		fmt.Fprintf(&sb, "%d. %s\n", i+1, option.Label)
	}
	sb.WriteString("\n👇 Please select quality:")
	return sb.String()
}

// denialText renders a gate rejection.
func denialText(decision gate.Decision) string {
	switch decision.State {
	case gate.StatePaused:
		hours := int(decision.Remaining.Hours())
		minutes := int(decision.Remaining.Minutes()) % 60
		return fmt.Sprintf("⏸ Bot is paused\nWill resume in: %dh %dm", hours, minutes)
	case gate.StateOutsideWindow:
		return fmt.Sprintf("🕐 Bot is outside its working hours\nActive window: %s", decision.Window)
	default:
		return "Bot is unavailable right now."
	}
}

// errorText converts a pipeline failure into a user-visible message.
func errorText(err error) string {
	var tooLarge *download.FileTooLargeError
	if errors.As(err, &tooLarge) {
		return fmt.Sprintf("❌ File too large: %.1fMB > %.0fMB limit",
			float64(tooLarge.Actual)/(1024*1024), float64(tooLarge.Max)/(1024*1024))
	}

	var dlErr *download.Error
	if errors.As(err, &dlErr) {
		return "❌ Download error: " + truncate(dlErr.Reason, maxReasonLength)
	}

	var dvErr *delivery.Error
	if errors.As(err, &dvErr) {
		return "❌ Delivery failed: " + truncate(dvErr.Reason, maxReasonLength)
	}

	return "❌ Error: " + truncate(err.Error(), maxReasonLength)
}

// truncate shortens s to at most max bytes, never splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
