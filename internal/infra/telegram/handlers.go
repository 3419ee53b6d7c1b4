// internal/infra/telegram/handlers.go
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bizbook_notifier/internal/app"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterBotCommands wires the owner-facing settings commands. Every change
// goes through Engine.SaveSettings, so recurring triggers are reinstalled
// right after the record is persisted.
func RegisterBotCommands(
	ctx context.Context,
	b *telebot.Bot,
	engine *app.Engine,
	ownerChatID int64,
	baseLogger *logrus.Entry,
) {
	cmdLogger := baseLogger.WithField("handler_group", "settings_commands")

	ownerOnly := func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			if c.Sender().ID != ownerChatID {
				return c.Send("This bot only serves its configured owner.")
			}
			return next(c)
		}
	}

	b.Handle("/start", ownerOnly(func(c telebot.Context) error {
		return c.Send("Hi! I'll keep you posted on your sales: daily and weekly summaries, target reminders and milestones.\n\nUse /status to see the current setup, /help for all commands.")
	}))

	b.Handle("/help", ownerOnly(func(c telebot.Context) error {
		var help strings.Builder
		help.WriteString("Available commands:\n\n")
		help.WriteString("`/status`\n - Show the current notification settings.\n\n")
		help.WriteString("`/notifications on|off`\n - Master switch. 'off' also cancels scheduled summaries.\n\n")
		help.WriteString("`/daily_time HH:MM`\n - When the daily summary arrives.\n\n")
		help.WriteString("`/weekly_day 0-6`\n - Weekday of the weekly summary (0 = Sunday).\n")
		return c.Send(help.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	}))

	b.Handle("/status", ownerOnly(func(c telebot.Context) error {
		st := engine.LoadSettings(ctx)
		onOff := func(v bool) string {
			if v {
				return "on"
			}
			return "off"
		}
		text := fmt.Sprintf(
			"Notifications: %s\nTarget reminders: %s\nDaily summary: %s at %02d:%02d\nWeekly summary: %s on %s",
			onOff(st.Enabled),
			onOff(st.TargetReminders),
			onOff(st.DailySummary), st.DailySummaryTime.Hour, st.DailySummaryTime.Minute,
			onOff(st.WeeklySummary), st.WeeklySummaryDay.String(),
		)
		return c.Send(text)
	}))

	b.Handle("/notifications", ownerOnly(func(c telebot.Context) error {
		logCtx := cmdLogger.WithField("command", "/notifications")
		args := c.Args()
		if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
			return c.Send("Usage: /notifications on|off")
		}

		st := engine.LoadSettings(ctx)
		st.Enabled = args[0] == "on"
		if err := engine.SaveSettings(ctx, st); err != nil {
			logCtx.WithError(err).Error("Failed to save settings")
			return c.Send("Couldn't save that, please try again.")
		}
		if st.Enabled {
			return c.Send("Notifications are on.")
		}
		return c.Send("Notifications are off. Scheduled summaries have been cancelled.")
	}))

	b.Handle("/daily_time", ownerOnly(func(c telebot.Context) error {
		logCtx := cmdLogger.WithField("command", "/daily_time")
		args := c.Args()
		if len(args) != 1 {
			return c.Send("Usage: /daily_time HH:MM (e.g. /daily_time 20:00)")
		}
		t, err := time.Parse("15:04", args[0])
		if err != nil {
			return c.Send("That doesn't look like a time. Use HH:MM, e.g. 20:00.")
		}

		st := engine.LoadSettings(ctx)
		st.DailySummaryTime.Hour = t.Hour()
		st.DailySummaryTime.Minute = t.Minute()
		if err := engine.SaveSettings(ctx, st); err != nil {
			logCtx.WithError(err).Error("Failed to save settings")
			return c.Send("Couldn't save that, please try again.")
		}
		return c.Send(fmt.Sprintf("Daily summary will arrive at %02d:%02d.", t.Hour(), t.Minute()))
	}))

	b.Handle("/weekly_day", ownerOnly(func(c telebot.Context) error {
		logCtx := cmdLogger.WithField("command", "/weekly_day")
		args := c.Args()
		day, err := strconv.Atoi(strings.TrimSpace(strings.Join(args, "")))
		if err != nil || day < 0 || day > 6 {
			return c.Send("Usage: /weekly_day 0-6 (0 = Sunday)")
		}

		st := engine.LoadSettings(ctx)
		st.WeeklySummaryDay = time.Weekday(day)
		if err := engine.SaveSettings(ctx, st); err != nil {
			logCtx.WithError(err).Error("Failed to save settings")
			return c.Send("Couldn't save that, please try again.")
		}
		return c.Send(fmt.Sprintf("Weekly summary will arrive on %s.", st.WeeklySummaryDay.String()))
	}))
}
