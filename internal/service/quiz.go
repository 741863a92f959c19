package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/WhoAbdullahSheikh/drivesmart/internal/domain/entities"
)

// ErrSessionNotFound is returned when a chat has no active quiz session.
var ErrSessionNotFound = errors.New("quiz session not found")

// Abandon reasons reported to the recorder.
const (
	AbandonReasonUser     = "user"
	AbandonReasonReplaced = "replaced"
	AbandonReasonIdle     = "idle"
)

// QuizConfig holds the timing parameters of the quiz service.
type QuizConfig struct {
	CorrectAdvanceDelay   time.Duration
	IncorrectAdvanceDelay time.Duration
	SessionIdleTTL        time.Duration
	SweepSpec             string
}

// DefaultQuizConfig returns the delays of the mobile app and a 30 minute idle TTL.
func DefaultQuizConfig() QuizConfig {
	return QuizConfig{
		CorrectAdvanceDelay:   500 * time.Millisecond,
		IncorrectAdvanceDelay: 2 * time.Second,
		SessionIdleTTL:        30 * time.Minute,
		SweepSpec:             "@every 1m",
	}
}

// QuizServiceOption configures a QuizService.
type QuizServiceOption func(*QuizService)

// WithQuizRecorder sets the metrics recorder.
func WithQuizRecorder(r QuizRecorder) QuizServiceOption {
	return func(s *QuizService) { s.recorder = r }
}

// WithSessionOptions applies opts to every session the service creates.
func WithSessionOptions(opts ...entities.SessionOption) QuizServiceOption {
	return func(s *QuizService) { s.sessionOpts = append(s.sessionOpts, opts...) }
}

// QuizService hosts one quiz session per chat.
type QuizService struct {
	questions   QuestionSampler
	sessions    QuizStorage
	recorder    QuizRecorder
	logger      *zap.Logger
	cfg         QuizConfig
	sessionOpts []entities.SessionOption
}

// NewQuizService creates a new quiz service.
func NewQuizService(
	questions QuestionSampler,
	sessions QuizStorage,
	cfg QuizConfig,
	logger *zap.Logger,
	opts ...QuizServiceOption,
) *QuizService {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &QuizService{
		questions: questions,
		sessions:  sessions,
		recorder:  nopRecorder{},
		logger:    logger,
		cfg:       cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start samples a new session for the chat, replacing any previous one.
func (s *QuizService) Start(
	ctx context.Context, chatID int64, lang entities.LanguageCode, cfg entities.SessionConfig,
) (entities.SessionSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return entities.SessionSnapshot{}, err
	}
	if cfg.RequestedQuestionCount < 0 {
		return entities.SessionSnapshot{}, fmt.Errorf("%w: %d", entities.ErrInvalidQuestionCount, cfg.RequestedQuestionCount)
	}

	questions, err := s.questions.SampleSession(lang, cfg.RequestedQuestionCount)
	if err != nil {
		return entities.SessionSnapshot{}, fmt.Errorf("sample questions: %w", err)
	}

	opts := append([]entities.SessionOption{entities.WithLanguage(lang)}, s.sessionOpts...)
	session, err := entities.NewQuizSession(questions, opts...)
	if err != nil {
		return entities.SessionSnapshot{}, fmt.Errorf("create session: %w", err)
	}
	session.ID = uuid.NewString()

	if prev := s.sessions.Store(chatID, session); prev != nil {
		s.abandon(prev, AbandonReasonReplaced)
	}

	s.recorder.SessionStarted(lang, len(questions))
	s.logger.Info("quiz session started",
		zap.Int64("chat_id", chatID),
		zap.String("session_id", session.ID),
		zap.String("language", lang.String()),
		zap.Int("questions", len(questions)),
	)

	return session.Snapshot(), nil
}

// Current returns the chat's session.
func (s *QuizService) Current(chatID int64) (*entities.QuizSession, error) {
	session := s.sessions.Get(chatID)
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Select marks option as the tentative answer on the current question.
func (s *QuizService) Select(chatID int64, option int) (entities.SessionSnapshot, error) {
	session, err := s.Current(chatID)
	if err != nil {
		return entities.SessionSnapshot{}, err
	}

	if err := session.SelectOption(option); err != nil {
		return session.Snapshot(), err
	}
	return session.Snapshot(), nil
}

// Submit records the selected answer and schedules the automatic advance.
// onAdvance receives the state after the advance ran.
func (s *QuizService) Submit(
	chatID int64, onAdvance entities.AdvanceCallback,
) (entities.AnswerRecord, entities.SessionSnapshot, error) {
	session, err := s.Current(chatID)
	if err != nil {
		return entities.AnswerRecord{}, entities.SessionSnapshot{}, err
	}

	rec, err := session.Submit()
	if err != nil {
		return entities.AnswerRecord{}, session.Snapshot(), err
	}

	delay := s.cfg.IncorrectAdvanceDelay
	if rec.IsCorrect {
		delay = s.cfg.CorrectAdvanceDelay
	}

	cb := func(snap entities.SessionSnapshot, completed bool, err error) {
		if err == nil && completed {
			s.recordCompletion(session)
		}
		if onAdvance != nil {
			onAdvance(snap, completed, err)
		}
	}
	if err := session.ScheduleAdvance(delay, cb); err != nil {
		return rec, session.Snapshot(), fmt.Errorf("schedule advance: %w", err)
	}

	return rec, session.Snapshot(), nil
}

// Advance moves the chat's session forward without waiting for the scheduled advance.
func (s *QuizService) Advance(chatID int64) (entities.SessionSnapshot, bool, error) {
	session, err := s.Current(chatID)
	if err != nil {
		return entities.SessionSnapshot{}, false, err
	}

	completed, err := session.Advance()
	if err != nil {
		return session.Snapshot(), false, err
	}
	if completed {
		s.recordCompletion(session)
	}
	return session.Snapshot(), completed, nil
}

// Retreat moves the chat's session back to the previous question.
func (s *QuizService) Retreat(chatID int64) (entities.SessionSnapshot, error) {
	session, err := s.Current(chatID)
	if err != nil {
		return entities.SessionSnapshot{}, err
	}

	if err := session.Retreat(); err != nil {
		return session.Snapshot(), err
	}
	return session.Snapshot(), nil
}

// Abandon drops the chat's session and cancels its pending advance.
func (s *QuizService) Abandon(chatID int64) error {
	session, err := s.Current(chatID)
	if err != nil {
		return err
	}

	s.sessions.DeleteIf(chatID, session)
	s.abandon(session, AbandonReasonUser)
	return nil
}

// Result returns the score and review of the chat's completed session.
func (s *QuizService) Result(chatID int64) (entities.ScoreReport, []entities.ReviewItem, error) {
	session, err := s.Current(chatID)
	if err != nil {
		return entities.ScoreReport{}, nil, err
	}

	report, err := session.Report()
	if err != nil {
		return entities.ScoreReport{}, nil, err
	}
	review, err := session.Review()
	if err != nil {
		return entities.ScoreReport{}, nil, err
	}
	return report, review, nil
}

// Run sweeps idle sessions on the configured schedule until ctx is done.
func (s *QuizService) Run(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(s.cfg.SweepSpec, func() {
		if n := s.SweepIdle(time.Now()); n > 0 {
			s.logger.Info("idle quiz sessions swept", zap.Int("count", n))
		}
	})
	if err != nil {
		return fmt.Errorf("add sweep job: %w", err)
	}

	c.Start()
	s.logger.Info("quiz sweeper started", zap.String("spec", s.cfg.SweepSpec))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("quiz sweeper stopped")
	return nil
}

// SweepIdle abandons and drops every session idle for longer than the TTL.
// It returns the number of dropped sessions.
func (s *QuizService) SweepIdle(now time.Time) int {
	if s.cfg.SessionIdleTTL <= 0 {
		return 0
	}

	swept := 0
	for chatID, session := range s.sessions.All() {
		if now.Sub(session.LastActivity()) <= s.cfg.SessionIdleTTL {
			continue
		}
		if !s.sessions.DeleteIf(chatID, session) {
			continue
		}
		s.abandon(session, AbandonReasonIdle)
		swept++
	}
	return swept
}

func (s *QuizService) abandon(session *entities.QuizSession, reason string) {
	wasActive := session.Status() == entities.SessionInProgress
	if err := session.Abandon(); err != nil {
		s.logger.Debug("abandon session", zap.String("session_id", session.ID), zap.Error(err))
		return
	}
	if !wasActive {
		return
	}

	s.recorder.SessionAbandoned(session.Language(), reason)
	s.logger.Info("quiz session abandoned",
		zap.String("session_id", session.ID),
		zap.String("reason", reason),
	)
}

func (s *QuizService) recordCompletion(session *entities.QuizSession) {
	report, err := session.Report()
	if err != nil {
		return
	}

	s.recorder.SessionCompleted(session.Language(), report)
	s.logger.Info("quiz session completed",
		zap.String("session_id", session.ID),
		zap.Int("correct", report.CorrectCount),
		zap.Int("total", report.TotalCount),
		zap.Int("percentage", report.Percentage),
		zap.Bool("passed", report.Passed),
	)
}
