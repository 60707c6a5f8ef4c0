// Package telegram exposes the command parser to a Telegram chat, by webhook or long polling.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"walletwhisper/internal/domain"
	"walletwhisper/internal/reply"
	"walletwhisper/internal/storage"
)

const helpText = "WalletWhisper\n\n" +
	"Commands:\n" +
	"add 25 groceries - record an expense (\"spent\" works too)\n" +
	"balance - current balance\n" +
	"last - recent transactions\n" +
	"/help - this message"

const (
	invalidReply = "Invalid command format. Send /help to see what I understand."
	failureReply = "Something went wrong, please try again later."
)

type Parser interface {
	Parse(message string) (domain.Command, error)
}

// Sender is the part of *tgbotapi.BotAPI used to answer.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Responder struct {
	parser  Parser
	sender  Sender
	journal storage.JournalStorage
	allowed map[int64]struct{}
}

// NewResponder answers everyone when allowedUsers is empty.
func NewResponder(parser Parser, sender Sender, journal storage.JournalStorage, allowedUsers []int64) *Responder {
	if journal == nil {
		journal = storage.NopJournal{}
	}
	allowed := make(map[int64]struct{}, len(allowedUsers))
	for _, id := range allowedUsers {
		allowed[id] = struct{}{}
	}
	return &Responder{parser: parser, sender: sender, journal: journal, allowed: allowed}
}

// Handle answers one update. Updates without a text message are ignored.
func (r *Responder) Handle(ctx context.Context, update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return nil
	}

	text, ok := r.Reply(ctx, msg)
	if !ok {
		return nil
	}

	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ReplyToMessageID = msg.MessageID
	if _, err := r.sender.Send(out); err != nil {
		return fmt.Errorf("send reply to chat %d: %w", msg.Chat.ID, err)
	}
	return nil
}

// Reply returns the answer for msg, or ok=false when the message must be ignored.
func (r *Responder) Reply(ctx context.Context, msg *tgbotapi.Message) (string, bool) {
	if !r.isAllowed(msg.From) {
		slog.Warn("telegram message from unknown user ignored", "user_id", userID(msg.From))
		return "", false
	}

	text := strings.TrimSpace(fixEncoding(msg.Text))
	if text == "" {
		return "", false
	}

	if strings.HasPrefix(text, "/") {
		text = stripBotCommand(text)
		switch strings.ToLower(text) {
		case "start", "help":
			return helpText, true
		}
	}

	entry := domain.JournalEntry{
		RequestID:  uuid.NewString(),
		Source:     domain.SourceTelegram,
		ReceivedAt: time.Now(),
	}

	var answer string
	cmd, err := r.parser.Parse(text)
	switch {
	case err == nil:
		entry.Kind = cmd.Kind()
		entry.Outcome = domain.OutcomeSuccess
		answer = reply.Text(cmd)
		slog.Info("telegram command handled", "kind", cmd.Kind(), "user_id", userID(msg.From), "request_id", entry.RequestID)
	case errors.Is(err, domain.ErrInvalidCommandFormat):
		entry.Outcome = domain.OutcomeInvalidCommand
		answer = invalidReply
	default:
		entry.Outcome = domain.OutcomeError
		answer = failureReply
		slog.Error("telegram command failed", "error", err, "request_id", entry.RequestID)
	}

	if err := r.journal.RecordCommand(ctx, entry); err != nil {
		slog.Error("journal write failed", "error", err, "request_id", entry.RequestID)
	}
	return answer, true
}

func (r *Responder) isAllowed(from *tgbotapi.User) bool {
	if len(r.allowed) == 0 {
		return true
	}
	if from == nil {
		return false
	}
	_, ok := r.allowed[from.ID]
	return ok
}

// stripBotCommand turns "/balance@my_bot" into "balance" and keeps any arguments.
func stripBotCommand(text string) string {
	rest := strings.TrimPrefix(text, "/")
	end := strings.IndexFunc(rest, unicode.IsSpace)
	if end < 0 {
		end = len(rest)
	}
	name, args := rest[:end], rest[end:]
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	return strings.TrimSpace(name + args)
}

func userID(u *tgbotapi.User) int64 {
	if u == nil {
		return 0
	}
	return u.ID
}
