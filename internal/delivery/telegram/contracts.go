package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/WhoAbdullahSheikh/drivesmart/internal/domain/entities"
	"github.com/WhoAbdullahSheikh/drivesmart/internal/service"
	"github.com/WhoAbdullahSheikh/drivesmart/internal/storage"
)

// BotAPI is the subset of *tgbotapi.BotAPI the handler uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type QuizService interface {
	Start(ctx context.Context, chatID int64, lang entities.LanguageCode, cfg entities.SessionConfig) (entities.SessionSnapshot, error)
	Current(chatID int64) (*entities.QuizSession, error)
	Select(chatID int64, option int) (entities.SessionSnapshot, error)
	Submit(chatID int64, onAdvance entities.AdvanceCallback) (entities.AnswerRecord, entities.SessionSnapshot, error)
	Advance(chatID int64) (entities.SessionSnapshot, bool, error)
	Retreat(chatID int64) (entities.SessionSnapshot, error)
	Abandon(chatID int64) error
	Result(chatID int64) (entities.ScoreReport, []entities.ReviewItem, error)
}

type LocalizationRegistry interface {
	For(ctx context.Context, chatID int64) *service.LocalizationStore
}

type RulesBook interface {
	Categories() []entities.RuleCategory
	Category(id string) (entities.RuleCategory, bool)
}

type MessageStorage interface {
	Get(chatID int64) (storage.CardMessage, bool)
	Delete(chatID int64)
	UpsertAndGetPrev(chatID int64, messageID int) (storage.CardMessage, bool)
}

// Recorder receives update and language events for metrics.
type Recorder interface {
	LanguageChanged(lang entities.LanguageCode)
	UpdateHandled(kind string)
	UpdateRateLimited()
}

type nopRecorder struct{}

func (nopRecorder) LanguageChanged(entities.LanguageCode) {}
func (nopRecorder) UpdateHandled(string)                  {}
func (nopRecorder) UpdateRateLimited()                    {}
