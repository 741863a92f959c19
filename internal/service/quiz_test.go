package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/WhoAbdullahSheikh/drivesmart/internal/domain/entities"
	"github.com/WhoAbdullahSheikh/drivesmart/internal/storage"
)

type manualTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// manualScheduler records armed timers; tests fire them explicitly.
type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

func (m *manualScheduler) AfterFunc(d time.Duration, f func()) entities.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &manualTimer{delay: d, fn: f}
	m.timers = append(m.timers, t)
	return t
}

func (m *manualScheduler) last(t *testing.T) *manualTimer {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.timers) == 0 {
		t.Fatal("no timer armed")
	}
	return m.timers[len(m.timers)-1]
}

type quizEvents struct {
	nopRecorder
	started   int
	completed []entities.ScoreReport
	abandoned []string
}

func (q *quizEvents) SessionStarted(entities.LanguageCode, int) { q.started++ }

func (q *quizEvents) SessionCompleted(_ entities.LanguageCode, r entities.ScoreReport) {
	q.completed = append(q.completed, r)
}

func (q *quizEvents) SessionAbandoned(_ entities.LanguageCode, reason string) {
	q.abandoned = append(q.abandoned, reason)
}

type quizFixture struct {
	svc      *QuizService
	sched    *manualScheduler
	events   *quizEvents
	sessions *storage.QuizStorage
	clock    *time.Time
}

func newQuizFixture(t *testing.T) *quizFixture {
	t.Helper()

	bank, err := NewQuestionBank(map[entities.LanguageCode][]entities.Question{
		entities.LanguageEnglish: catalog("en", 3),
	}, nil)
	if err != nil {
		t.Fatalf("NewQuestionBank() error = %v", err)
	}

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	f := &quizFixture{
		sched:    &manualScheduler{},
		events:   &quizEvents{},
		sessions: storage.NewQuizStorage(),
		clock:    &now,
	}
	f.svc = NewQuizService(bank, f.sessions, DefaultQuizConfig(), nil,
		WithQuizRecorder(f.events),
		WithSessionOptions(
			entities.WithAfterFunc(f.sched.AfterFunc),
			entities.WithClock(func() time.Time { return *f.clock }),
		),
	)
	return f
}

// answerCurrent selects the correct or a wrong option and submits it.
func (f *quizFixture) answerCurrent(t *testing.T, chatID int64, correct bool, cb entities.AdvanceCallback) entities.AnswerRecord {
	t.Helper()

	session, err := f.svc.Current(chatID)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	q := session.Snapshot().Question
	option := q.CorrectOptionIndex
	if !correct {
		option = (option + 1) % len(q.Options)
	}

	if _, err := f.svc.Select(chatID, option); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	rec, _, err := f.svc.Submit(chatID, cb)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	return rec
}

func TestQuizServiceStart(t *testing.T) {
	f := newQuizFixture(t)

	snap, err := f.svc.Start(context.Background(), 1, entities.LanguageEnglish, entities.SessionConfig{RequestedQuestionCount: 2})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if snap.Total != 2 || snap.CurrentIndex != 0 || snap.Status != entities.SessionInProgress {
		t.Errorf("Start() snapshot = %+v", snap)
	}
	if snap.ID == "" {
		t.Error("session has no id")
	}
	if f.events.started != 1 {
		t.Errorf("started = %d, want 1", f.events.started)
	}

	_, err = f.svc.Start(context.Background(), 1, entities.LanguageEnglish, entities.SessionConfig{RequestedQuestionCount: -5})
	if !errors.Is(err, entities.ErrInvalidQuestionCount) {
		t.Errorf("Start(-5) error = %v, want ErrInvalidQuestionCount", err)
	}
}

func TestQuizServiceStartReplacesSession(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	first, _ := f.svc.Start(ctx, 1, entities.LanguageEnglish, entities.SessionConfig{})
	old, _ := f.svc.Current(1)

	second, err := f.svc.Start(ctx, 1, entities.LanguageEnglish, entities.SessionConfig{})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if first.ID == second.ID {
		t.Error("replacement session reused the id")
	}
	if old.Status() != entities.SessionAbandoned {
		t.Errorf("replaced session status = %s, want abandoned", old.Status())
	}
	if len(f.events.abandoned) != 1 || f.events.abandoned[0] != AbandonReasonReplaced {
		t.Errorf("abandoned = %v", f.events.abandoned)
	}
}

func TestQuizServiceUnknownChat(t *testing.T) {
	f := newQuizFixture(t)

	if _, err := f.svc.Select(9, 0); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Select() error = %v", err)
	}
	if _, _, err := f.svc.Submit(9, nil); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Submit() error = %v", err)
	}
	if _, _, err := f.svc.Advance(9); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Advance() error = %v", err)
	}
	if _, err := f.svc.Retreat(9); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Retreat() error = %v", err)
	}
	if err := f.svc.Abandon(9); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Abandon() error = %v", err)
	}
}

func TestQuizServiceAdvanceDelays(t *testing.T) {
	f := newQuizFixture(t)
	cfg := DefaultQuizConfig()

	if _, err := f.svc.Start(context.Background(), 1, entities.LanguageEnglish, entities.SessionConfig{}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	f.answerCurrent(t, 1, true, nil)
	if d := f.sched.last(t).delay; d != cfg.CorrectAdvanceDelay {
		t.Errorf("correct answer delay = %v, want %v", d, cfg.CorrectAdvanceDelay)
	}
	f.sched.last(t).fn()

	f.answerCurrent(t, 1, false, nil)
	if d := f.sched.last(t).delay; d != cfg.IncorrectAdvanceDelay {
		t.Errorf("incorrect answer delay = %v, want %v", d, cfg.IncorrectAdvanceDelay)
	}
}

func TestQuizServiceCompletesThroughScheduledAdvance(t *testing.T) {
	f := newQuizFixture(t)

	if _, err := f.svc.Start(context.Background(), 1, entities.LanguageEnglish, entities.SessionConfig{}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	var last entities.SessionSnapshot
	var done bool
	cb := func(snap entities.SessionSnapshot, completed bool, err error) {
		if err != nil {
			t.Errorf("advance callback error = %v", err)
		}
		last, done = snap, completed
	}

	for i, correct := range []bool{true, true, false} {
		f.answerCurrent(t, 1, correct, cb)
		f.sched.last(t).fn()
		if done != (i == 2) {
			t.Fatalf("after question %d completed = %v", i, done)
		}
	}

	if last.Status != entities.SessionCompleted {
		t.Errorf("final status = %s", last.Status)
	}

	report, review, err := f.svc.Result(1)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	want := entities.ScoreReport{CorrectCount: 2, TotalCount: 3, Percentage: 67, Passed: false}
	if report != want {
		t.Errorf("Result() report = %+v, want %+v", report, want)
	}
	if len(review) != 3 {
		t.Errorf("len(review) = %d, want 3", len(review))
	}
	if len(f.events.completed) != 1 || f.events.completed[0] != want {
		t.Errorf("completed events = %+v", f.events.completed)
	}
}

func TestQuizServiceManualAdvanceCancelsTimer(t *testing.T) {
	f := newQuizFixture(t)

	if _, err := f.svc.Start(context.Background(), 1, entities.LanguageEnglish, entities.SessionConfig{}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	calls := 0
	f.answerCurrent(t, 1, true, func(entities.SessionSnapshot, bool, error) { calls++ })
	timer := f.sched.last(t)

	snap, completed, err := f.svc.Advance(1)
	if err != nil || completed || snap.CurrentIndex != 1 {
		t.Fatalf("Advance() = %+v, %v, %v", snap, completed, err)
	}
	if !timer.stopped {
		t.Error("manual advance did not stop the timer")
	}

	timer.fn()
	if calls != 0 {
		t.Errorf("stale timer invoked the callback %d times", calls)
	}
	if s, _ := f.svc.Current(1); s.Snapshot().CurrentIndex != 1 {
		t.Error("stale timer moved the session")
	}
}

func TestQuizServiceRetreat(t *testing.T) {
	f := newQuizFixture(t)

	if _, err := f.svc.Start(context.Background(), 1, entities.LanguageEnglish, entities.SessionConfig{}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	rec := f.answerCurrent(t, 1, false, nil)
	if _, err := f.svc.Retreat(1); !errors.Is(err, entities.ErrInvalidState) {
		t.Fatalf("Retreat() during evaluation error = %v, want ErrInvalidState", err)
	}

	f.sched.last(t).fn()

	snap, err := f.svc.Retreat(1)
	if err != nil {
		t.Fatalf("Retreat() error = %v", err)
	}
	if snap.CurrentIndex != 0 || !snap.IsLocked || snap.SelectedOption != rec.SelectedOption {
		t.Errorf("Retreat() snapshot = %+v", snap)
	}
}

func TestQuizServiceAbandon(t *testing.T) {
	f := newQuizFixture(t)

	if _, err := f.svc.Start(context.Background(), 1, entities.LanguageEnglish, entities.SessionConfig{}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	calls := 0
	f.answerCurrent(t, 1, true, func(entities.SessionSnapshot, bool, error) { calls++ })
	timer := f.sched.last(t)

	if err := f.svc.Abandon(1); err != nil {
		t.Fatalf("Abandon() error = %v", err)
	}
	if !timer.stopped {
		t.Error("Abandon() did not stop the pending advance")
	}

	timer.fn()
	if calls != 0 {
		t.Error("auto-advance ran after Abandon()")
	}
	if _, err := f.svc.Current(1); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Current() after Abandon() error = %v", err)
	}
	if len(f.events.abandoned) != 1 || f.events.abandoned[0] != AbandonReasonUser {
		t.Errorf("abandoned = %v", f.events.abandoned)
	}
}

func TestQuizServiceSweepIdle(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()
	ttl := DefaultQuizConfig().SessionIdleTTL

	if _, err := f.svc.Start(ctx, 1, entities.LanguageEnglish, entities.SessionConfig{}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	start := *f.clock

	*f.clock = start.Add(ttl / 2)
	if _, err := f.svc.Start(ctx, 2, entities.LanguageEnglish, entities.SessionConfig{}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if n := f.svc.SweepIdle(start.Add(ttl)); n != 0 {
		t.Errorf("SweepIdle() at TTL = %d, want 0", n)
	}
	if n := f.svc.SweepIdle(start.Add(ttl + time.Second)); n != 1 {
		t.Errorf("SweepIdle() past TTL = %d, want 1", n)
	}

	if _, err := f.svc.Current(1); !errors.Is(err, ErrSessionNotFound) {
		t.Error("idle session 1 was not swept")
	}
	if _, err := f.svc.Current(2); err != nil {
		t.Error("active session 2 was swept")
	}
	if len(f.events.abandoned) != 1 || f.events.abandoned[0] != AbandonReasonIdle {
		t.Errorf("abandoned = %v", f.events.abandoned)
	}
}

func TestQuizServiceRunStopsWithContext(t *testing.T) {
	f := newQuizFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- f.svc.Run(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
