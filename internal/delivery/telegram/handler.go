package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/WhoAbdullahSheikh/drivesmart/internal/service"
)

// Update kinds reported to the recorder.
const (
	updateCommand  = "command"
	updateMessage  = "message"
	updateCallback = "callback"
)

const (
	limiterPruneInterval = time.Minute
	limiterExpiry        = 10 * time.Minute
)

// Options tunes the handler.
type Options struct {
	// Presets are the question counts offered by the count picker.
	Presets []int
	// UpdateTimeout is the long polling timeout in seconds.
	UpdateTimeout int
	// RateLimit is the number of updates per second allowed per chat.
	// Zero disables throttling.
	RateLimit rate.Limit
	RateBurst int
	Recorder  Recorder
}

type Handler struct {
	bot      BotAPI
	logger   *zap.Logger
	quiz     QuizService
	locales  LocalizationRegistry
	rules    RulesBook
	cards    MessageStorage
	recorder Recorder
	limiter  *chatLimiter

	presets       []int
	updateTimeout int
}

func NewHandler(
	bot BotAPI,
	logger *zap.Logger,
	quiz QuizService,
	locales LocalizationRegistry,
	rules RulesBook,
	cards MessageStorage,
	opts Options,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	recorder := opts.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}

	timeout := opts.UpdateTimeout
	if timeout <= 0 {
		timeout = 60
	}

	return &Handler{
		bot:           bot,
		logger:        logger,
		quiz:          quiz,
		locales:       locales,
		rules:         rules,
		cards:         cards,
		recorder:      recorder,
		limiter:       newChatLimiter(opts.RateLimit, opts.RateBurst, limiterExpiry),
		presets:       opts.Presets,
		updateTimeout: timeout,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = h.updateTimeout

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	ticker := time.NewTicker(limiterPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if n := h.limiter.prune(now); n > 0 {
				h.logger.Debug("rate limiter pruned", zap.Int("chats", n))
			}
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	chat := update.FromChat()
	if chat == nil || (update.Message == nil && update.CallbackQuery == nil) {
		h.logger.Debug("update without message and callback")
		return
	}

	if !h.limiter.allow(chat.ID, time.Now()) {
		h.recorder.UpdateRateLimited()
		h.logger.Debug("update rate limited", zap.Int64("chat_id", chat.ID))
		if update.CallbackQuery != nil {
			h.answerCallback(update.CallbackQuery.ID, h.chatTexts(ctx, chat.ID).TooManyRequests)
		}
		return
	}

	if update.CallbackQuery != nil {
		h.recorder.UpdateHandled(updateCallback)
		h.logger.Debug("callback received",
			zap.Int64("chat_id", chat.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message.IsCommand() {
		h.recorder.UpdateHandled(updateCommand)
	} else {
		h.recorder.UpdateHandled(updateMessage)
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", chat.ID),
		zap.String("text", update.Message.Text),
	)
	h.handleMessage(ctx, update.Message)
}

func (h *Handler) locale(ctx context.Context, chatID int64) *service.LocalizationStore {
	return h.locales.For(ctx, chatID)
}

func (h *Handler) chatTexts(ctx context.Context, chatID int64) texts {
	return textsFor(h.locale(ctx, chatID).State().ActiveLanguage)
}

func (h *Handler) sendError(ctx context.Context, chatID int64) {
	loc := h.locale(ctx, chatID)
	t := textsFor(loc.State().ActiveLanguage)
	h.send(newMessage(chatID, directional(loc.Layout(), md(t.InternalError))))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}

func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}
