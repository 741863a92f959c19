package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/WhoAbdullahSheikh/drivesmart/internal/domain/entities"
	"github.com/WhoAbdullahSheikh/drivesmart/internal/service"
)

func (h *Handler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	if !message.IsCommand() {
		_ = h.withErrorHandling(h.helpHandler())(ctx, chatID)
		return
	}

	switch message.Command() {
	case "start":
		_ = h.withErrorHandling(h.startHandler(message.From))(ctx, chatID)
	case "test":
		_ = h.withErrorHandling(h.testHandler(message.CommandArguments()))(ctx, chatID)
	case "language":
		_ = h.withErrorHandling(h.languageHandler())(ctx, chatID)
	case "rules":
		_ = h.withErrorHandling(h.rulesHandler())(ctx, chatID)
	case "quit":
		_ = h.withErrorHandling(h.quitHandler())(ctx, chatID)
	default:
		_ = h.withErrorHandling(h.helpHandler())(ctx, chatID)
	}
}

// startHandler greets the user. On first contact the language is taken from
// the Telegram client.
func (h *Handler) startHandler(from *tgbotapi.User) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		loc := h.locale(ctx, chatID)
		if !loc.HasPreference() && from != nil && from.LanguageCode != "" {
			lang := entities.MatchLanguage(from.LanguageCode)
			if _, err := loc.SetLanguage(ctx, lang); err != nil {
				return err
			}
			h.logger.Info("language detected",
				zap.Int64("chat_id", chatID),
				zap.String("client_language", from.LanguageCode),
				zap.String("language", lang.String()),
			)
		}

		return h.sendHome(ctx, chatID)
	}
}

func (h *Handler) sendHome(ctx context.Context, chatID int64) error {
	loc := h.locale(ctx, chatID)
	t := textsFor(loc.State().ActiveLanguage)

	msg := newMessage(chatID, renderHome(loc.Layout(), t))
	msg.ReplyMarkup = buildMainMenuKeyboard(loc.Layout(), t)
	h.send(msg)
	return nil
}

// testHandler starts a test right away when the argument is a count or "all",
// otherwise it shows the count picker.
func (h *Handler) testHandler(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		args = strings.TrimSpace(args)
		if strings.EqualFold(args, "all") {
			return h.startQuiz(ctx, chatID, 0)
		}
		if n, err := strconv.Atoi(args); err == nil && n > 0 {
			return h.startQuiz(ctx, chatID, n)
		}

		loc := h.locale(ctx, chatID)
		t := textsFor(loc.State().ActiveLanguage)

		msg := newMessage(chatID, renderCountPicker(loc.Layout(), t))
		msg.ReplyMarkup = buildCountKeyboard(loc.Layout(), t, h.presets)
		h.send(msg)
		return nil
	}
}

// startQuiz starts a session with count questions and sends its first card.
// The card of a replaced session is deleted.
func (h *Handler) startQuiz(ctx context.Context, chatID int64, count int) error {
	loc := h.locale(ctx, chatID)
	t := textsFor(loc.State().ActiveLanguage)

	snap, err := h.quiz.Start(ctx, chatID, loc.State().ActiveLanguage, entities.SessionConfig{
		RequestedQuestionCount: count,
	})
	if err != nil {
		return fmt.Errorf("start quiz: %w", err)
	}

	msg := newMessage(chatID, renderQuestion(loc.Layout(), t, snap))
	msg.ReplyMarkup = buildQuizKeyboard(loc.Layout(), t, snap)

	sent, err := h.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("send quiz card: %w", err)
	}

	if prev, ok := h.cards.UpsertAndGetPrev(chatID, sent.MessageID); ok && prev.MessageID != sent.MessageID {
		if _, err := h.bot.Request(tgbotapi.NewDeleteMessage(chatID, prev.MessageID)); err != nil {
			h.logger.Debug("delete previous quiz card", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}
	return nil
}

func (h *Handler) languageHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		loc := h.locale(ctx, chatID)
		state := loc.State()
		t := textsFor(state.ActiveLanguage)

		msg := newMessage(chatID, renderLanguagePicker(loc.Layout(), t))
		msg.ReplyMarkup = buildLanguageKeyboard(loc.Layout(), t, state.ActiveLanguage)
		h.send(msg)
		return nil
	}
}

func (h *Handler) rulesHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		loc := h.locale(ctx, chatID)
		lang := loc.State().ActiveLanguage
		t := textsFor(lang)

		msg := newMessage(chatID, renderRules(loc.Layout(), t))
		msg.ReplyMarkup = buildRulesKeyboard(loc.Layout(), t, lang, h.rules.Categories())
		h.send(msg)
		return nil
	}
}

func (h *Handler) quitHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		loc := h.locale(ctx, chatID)
		t := textsFor(loc.State().ActiveLanguage)

		text := t.Abandoned
		if err := h.quiz.Abandon(chatID); err != nil {
			if !errors.Is(err, service.ErrSessionNotFound) && !errors.Is(err, entities.ErrInvalidState) {
				return err
			}
			text = t.NoSession
		}

		if card, ok := h.cards.Get(chatID); ok {
			h.cards.Delete(chatID)
			h.send(tgbotapi.NewEditMessageReplyMarkup(chatID, card.MessageID, emptyKeyboard()))
		}

		h.send(newMessage(chatID, directional(loc.Layout(), md(text))))
		return nil
	}
}

func (h *Handler) helpHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		loc := h.locale(ctx, chatID)
		t := textsFor(loc.State().ActiveLanguage)

		h.send(newMessage(chatID, directional(loc.Layout(), md(t.Help))))
		return nil
	}
}

func emptyKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
}
