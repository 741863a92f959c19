package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/WhoAbdullahSheikh/drivesmart/internal/domain/entities"
	"github.com/WhoAbdullahSheikh/drivesmart/internal/service"
)

// callbackFunc handles one callback and returns the notice shown to the user.
type callbackFunc func(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil || cb.Message.Chat == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	data := decodeCallback(cb.Data)

	var fn callbackFunc
	switch data.Action {
	case actionMenu:
		fn = h.handleMenuCallback
	case actionCount:
		fn = h.handleCountCallback
	case actionQuiz:
		fn = h.handleQuizCallback
	case actionResult:
		fn = h.handleResultCallback
	case actionLang:
		fn = h.handleLanguageCallback
	case actionRules:
		fn = h.handleRulesCallback
	default:
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
		h.answerCallback(cb.ID, "")
		return
	}

	notice, err := fn(ctx, cb, data)
	if err != nil {
		chatID := cb.Message.Chat.ID
		h.logger.Error("handle callback",
			zap.Int64("chat_id", chatID),
			zap.String("data", cb.Data),
			zap.Error(err),
		)
		notice = h.chatTexts(ctx, chatID).InternalError
	}

	// Remove the user's "clock".
	h.answerCallback(cb.ID, notice)
}

func (h *Handler) handleMenuCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID
	loc := h.locale(ctx, chatID)
	lang := loc.State().ActiveLanguage
	t := textsFor(lang)

	var edit tgbotapi.EditMessageTextConfig
	switch data.param(0) {
	case menuTest:
		edit = newEdit(chatID, msgID, renderCountPicker(loc.Layout(), t))
		kb := buildCountKeyboard(loc.Layout(), t, h.presets)
		edit.ReplyMarkup = &kb
	case menuLanguage:
		edit = newEdit(chatID, msgID, renderLanguagePicker(loc.Layout(), t))
		kb := buildLanguageKeyboard(loc.Layout(), t, lang)
		edit.ReplyMarkup = &kb
	case menuRules:
		return h.handleRulesCallback(ctx, cb, callbackData{Action: actionRules})
	default:
		edit = newEdit(chatID, msgID, renderHome(loc.Layout(), t))
		kb := buildMainMenuKeyboard(loc.Layout(), t)
		edit.ReplyMarkup = &kb
	}

	h.send(edit)
	return "", nil
}

func (h *Handler) handleCountCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	n, err := strconv.Atoi(data.param(0))
	if err != nil || n < 0 {
		return "", fmt.Errorf("invalid count %q", data.param(0))
	}
	return "", h.startQuiz(ctx, cb.Message.Chat.ID, n)
}

// handleQuizCallback applies a quiz card button to the chat's session.
// Buttons of other sessions and forbidden transitions only produce a notice.
func (h *Handler) handleQuizCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID
	loc := h.locale(ctx, chatID)
	t := textsFor(loc.State().ActiveLanguage)

	session, err := h.quiz.Current(chatID)
	if errors.Is(err, service.ErrSessionNotFound) ||
		(err == nil && (shortID(session.ID) != data.param(0) || session.Status() != entities.SessionInProgress)) {
		return t.NoSession, nil
	}
	if err != nil {
		return "", err
	}

	var snap entities.SessionSnapshot
	switch data.param(1) {
	case quizSelect:
		option, convErr := strconv.Atoi(data.param(2))
		if convErr != nil {
			return t.InvalidOption, nil
		}
		if before := session.Snapshot(); !before.IsLocked && before.SelectedOption == option {
			return "", nil
		}
		snap, err = h.quiz.Select(chatID, option)

	case quizSubmit:
		_, snap, err = h.quiz.Submit(chatID, h.onAdvance(ctx, chatID, msgID))

	case quizPrev:
		snap, err = h.quiz.Retreat(chatID)

	case quizNext:
		var completed bool
		snap, completed, err = h.quiz.Advance(chatID)
		if err == nil && completed {
			return "", h.showResult(ctx, chatID, msgID)
		}

	case quizQuit:
		if err := h.quiz.Abandon(chatID); err != nil {
			return "", err
		}
		h.cards.Delete(chatID)

		edit := newEdit(chatID, msgID, directional(loc.Layout(), md(t.Abandoned)))
		kb := buildMainMenuKeyboard(loc.Layout(), t)
		edit.ReplyMarkup = &kb
		h.send(edit)
		return "", nil

	default:
		return "", nil
	}

	if err != nil {
		if errors.Is(err, entities.ErrInvalidState) {
			return invalidStateNotice(t, snap, err), nil
		}
		return "", err
	}

	h.editCard(ctx, chatID, msgID, snap)
	return "", nil
}

func invalidStateNotice(t texts, snap entities.SessionSnapshot, err error) string {
	switch {
	case errors.Is(err, entities.ErrInvalidOption):
		return t.InvalidOption
	case snap.AdvancePending:
		return t.WaitNext
	case snap.IsLocked:
		return t.AnswerLocked
	default:
		return t.SelectFirst
	}
}

// onAdvance updates the card once the scheduled advance ran, unless the card
// was replaced in the meantime.
func (h *Handler) onAdvance(ctx context.Context, chatID int64, msgID int) entities.AdvanceCallback {
	ctx = context.WithoutCancel(ctx)

	return func(snap entities.SessionSnapshot, completed bool, err error) {
		if err != nil {
			h.logger.Debug("scheduled advance", zap.Int64("chat_id", chatID), zap.Error(err))
			return
		}
		if card, ok := h.cards.Get(chatID); !ok || card.MessageID != msgID {
			return
		}

		if completed {
			if err := h.showResult(ctx, chatID, msgID); err != nil {
				h.logger.Error("show result", zap.Int64("chat_id", chatID), zap.Error(err))
			}
			return
		}
		h.editCard(ctx, chatID, msgID, snap)
	}
}

func (h *Handler) editCard(ctx context.Context, chatID int64, msgID int, snap entities.SessionSnapshot) {
	loc := h.locale(ctx, chatID)
	t := textsFor(loc.State().ActiveLanguage)

	edit := newEdit(chatID, msgID, renderQuestion(loc.Layout(), t, snap))
	kb := buildQuizKeyboard(loc.Layout(), t, snap)
	edit.ReplyMarkup = &kb
	h.send(edit)
}

// showResult turns the card into the results screen.
func (h *Handler) showResult(ctx context.Context, chatID int64, msgID int) error {
	loc := h.locale(ctx, chatID)
	t := textsFor(loc.State().ActiveLanguage)

	report, _, err := h.quiz.Result(chatID)
	if err != nil {
		return fmt.Errorf("quiz result: %w", err)
	}
	h.cards.Delete(chatID)

	edit := newEdit(chatID, msgID, renderResult(loc.Layout(), t, report))
	kb := buildResultKeyboard(loc.Layout(), t)
	edit.ReplyMarkup = &kb
	h.send(edit)
	return nil
}

func (h *Handler) handleResultCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	chatID := cb.Message.Chat.ID
	loc := h.locale(ctx, chatID)
	t := textsFor(loc.State().ActiveLanguage)

	session, err := h.quiz.Current(chatID)
	if errors.Is(err, service.ErrSessionNotFound) {
		return t.NoSession, nil
	}
	if err != nil {
		return "", err
	}

	switch data.param(0) {
	case resultRestart:
		return "", h.startQuiz(ctx, chatID, len(session.Questions()))

	case resultDetails:
		_, review, err := h.quiz.Result(chatID)
		if errors.Is(err, entities.ErrInvalidState) {
			return t.NoSession, nil
		}
		if err != nil {
			return "", err
		}
		for _, chunk := range renderReview(loc.Layout(), t, review) {
			h.send(newMessage(chatID, chunk))
		}
	}
	return "", nil
}

func (h *Handler) handleLanguageCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	chatID := cb.Message.Chat.ID
	loc := h.locale(ctx, chatID)

	code, err := entities.ParseLanguageCode(data.param(0))
	if err != nil {
		return textsFor(loc.State().ActiveLanguage).InvalidOption, nil
	}

	before := loc.State().ActiveLanguage
	state, err := loc.SetLanguage(ctx, code)
	if err != nil {
		return "", err
	}
	if state.ActiveLanguage != before {
		h.recorder.LanguageChanged(state.ActiveLanguage)
		h.logger.Info("language changed",
			zap.Int64("chat_id", chatID),
			zap.String("language", state.ActiveLanguage.String()),
		)
	}

	t := textsFor(state.ActiveLanguage)
	edit := newEdit(chatID, cb.Message.MessageID, renderHome(loc.Layout(), t))
	kb := buildMainMenuKeyboard(loc.Layout(), t)
	edit.ReplyMarkup = &kb
	h.send(edit)

	return fmt.Sprintf(t.LanguageChangedFmt, state.ActiveLanguage.Info().NativeName), nil
}

func (h *Handler) handleRulesCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID
	loc := h.locale(ctx, chatID)
	lang := loc.State().ActiveLanguage
	t := textsFor(lang)

	var edit tgbotapi.EditMessageTextConfig
	if id := data.param(0); id != "" {
		category, ok := h.rules.Category(id)
		if !ok {
			return t.InvalidOption, nil
		}
		edit = newEdit(chatID, msgID, renderRuleCategory(loc.Layout(), lang, category))
		kb := buildRuleCategoryKeyboard(loc.Layout(), t)
		edit.ReplyMarkup = &kb
	} else {
		edit = newEdit(chatID, msgID, renderRules(loc.Layout(), t))
		kb := buildRulesKeyboard(loc.Layout(), t, lang, h.rules.Categories())
		edit.ReplyMarkup = &kb
	}

	h.send(edit)
	return "", nil
}
