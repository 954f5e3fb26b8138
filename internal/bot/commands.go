package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/gate"
	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/model"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID := msg.From.ID

	switch msg.Command() {
	case "start":
		if decision := b.gate.Evaluate(); !decision.Allowed {
			b.sendText(chatID, denialText(decision))
			return
		}
		b.sendText(chatID, fmt.Sprintf(welcomeText, msg.From.FirstName))
		b.log.WithField("user", userID).Info("user started bot")

	case "help":
		b.sendText(chatID, helpText)

	case "status":
		if !b.requireAdmin(chatID, userID) {
			return
		}
		b.sendText(chatID, b.statusText(userID))

	case "pause":
		if !b.requireAdmin(chatID, userID) {
			return
		}
		b.pauseCommand(chatID, userID, msg.CommandArguments())

	case "resume":
		if !b.requireAdmin(chatID, userID) {
			return
		}
		b.gate.Resume()
		b.sendText(chatID, "▶️ Bot resumed successfully!")
		b.log.WithField("user", userID).Info("bot resumed")

	case "clean":
		if !b.requireAdmin(chatID, userID) {
			return
		}
		removed := b.files.CleanAll()
		b.sendText(chatID, fmt.Sprintf("🧹 Cleaned %d temporary files", removed))
		b.log.WithField("count", removed).Info("manual clean")

	case "schedule":
		if !b.requireAdmin(chatID, userID) {
			return
		}
		b.scheduleCommand(chatID, msg.CommandArguments())

	default:
		b.sendText(chatID, "Unknown command. See /help")
	}
}

// requireAdmin rejects non-admin callers with a fixed message. Denials are
// informational, not errors.
func (b *Bot) requireAdmin(chatID, userID int64) bool {
	if b.cfg.IsAdmin(userID) {
		return true
	}
	b.log.WithField("user", userID).Info("admin command denied")
	b.sendText(chatID, "⛔ Admin only command!")
	return false
}

func (b *Bot) pauseCommand(chatID, userID int64, args string) {
	hours := gate.DefaultPauseHours
	if fields := strings.Fields(args); len(fields) > 0 {
		if n, err := strconv.Atoi(fields[0]); err == nil && n > 0 {
			hours = n
		}
	}
	if hours > gate.MaxPauseHours {
		hours = gate.MaxPauseHours
	}

	until := b.gate.Pause(hours)
	b.sendText(chatID, fmt.Sprintf(
		"⏸ Bot paused for %d hour(s)\nWill resume at: %s",
		hours, until.Format("2006-01-02 15:04:05"),
	))
	b.log.WithField("user", userID).WithField("hours", hours).Info("bot paused")
}

func (b *Bot) scheduleCommand(chatID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		b.sendText(chatID, scheduleUsage)
		return
	}

	switch fields[0] {
	case "off":
		sched := b.gate.Schedule()
		sched.Enabled = false
		b.gate.SetSchedule(sched)
		b.sendText(chatID, "🗓 Schedule disabled, bot is always available")

	case "on":
		sched := b.gate.Schedule()
		if len(fields) >= 3 {
			start, err := gate.ParseClock(fields[1])
			if err != nil {
				b.sendText(chatID, "Invalid start time, expected HH:MM")
				return
			}
			end, err := gate.ParseClock(fields[2])
			if err != nil {
				b.sendText(chatID, "Invalid end time, expected HH:MM")
				return
			}
			sched.Start, sched.End = start, end
		}
		sched.Enabled = true
		b.gate.SetSchedule(sched)
		b.sendText(chatID, fmt.Sprintf("🗓 Schedule enabled, active window: %s", sched.Window()))

	default:
		b.sendText(chatID, scheduleUsage)
	}
}

// maxStatusTasks caps the recent-downloads section of the /status report.
const maxStatusTasks = 5

func (b *Bot) statusText(userID int64) string {
	count, totalBytes := b.files.Usage()

	var sb strings.Builder
	fmt.Fprintf(&sb, `📊 Bot Status

• State: %s
• Active downloads: %d
• Max file size: %.0fMB
• Temp files: %d (%.1fMB)
`,
		b.gate.Describe(),
		b.downloads.ActiveCount(),
		b.cfg.Telegram.MaxFileSizeMB,
		count, float64(totalBytes)/(1024*1024),
	)

	if tasks := b.downloads.Tasks(); len(tasks) > 0 {
		sb.WriteString("\n📥 Recent downloads:\n")
		for i, task := range tasks {
			if i == maxStatusTasks {
				fmt.Fprintf(&sb, "... and %d more\n", len(tasks)-maxStatusTasks)
				break
			}
			fmt.Fprintf(&sb, "%s %s\n", taskSymbol(task.Status), truncate(task.GetDisplayTitle(), maxReasonLength))
		}
	}

	fmt.Fprintf(&sb, "\n👤 Your ID: %d (admin)", userID)
	return sb.String()
}

func taskSymbol(status model.TaskStatus) string {
	switch {
	case status.IsActive():
		return "⏳"
	case status == model.TaskStatusError:
		return "❌"
	default:
		return "✅"
	}
}
