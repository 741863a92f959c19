package entities

import (
	"slices"
	"sync"
	"time"
)

// SessionStatus is the lifecycle state of a quiz session.
type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionAbandoned  SessionStatus = "abandoned"
)

// NoSelection marks that no option is selected on the current question.
const NoSelection = -1

// SessionConfig is the user's choice for a new session.
// A zero RequestedQuestionCount means the whole question bank.
type SessionConfig struct {
	RequestedQuestionCount int
}

// AnswerRecord is the answer submitted for one question of a session.
type AnswerRecord struct {
	QuestionID     string
	SelectedOption int
	IsCorrect      bool
	AnsweredAt     time.Time
}

// Timer is a scheduled task that can be cancelled before it fires.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

func stdAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// AdvanceCallback receives the session state after a scheduled advance ran.
type AdvanceCallback func(snap SessionSnapshot, completed bool, err error)

// SessionOption configures a QuizSession.
type SessionOption func(*QuizSession)

// WithAfterFunc replaces the scheduler used for automatic advances.
func WithAfterFunc(fn AfterFunc) SessionOption {
	return func(s *QuizSession) { s.afterFunc = fn }
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) SessionOption {
	return func(s *QuizSession) { s.now = now }
}

// WithLanguage records the language the questions were sampled in.
func WithLanguage(code LanguageCode) SessionOption {
	return func(s *QuizSession) { s.language = code }
}

// QuizSession is one attempt over a fixed, sampled list of questions.
//
// All transitions are serialized by an internal mutex, so a session may be
// driven from the update loop and from its own auto-advance timer at once.
// With the strict lock, an answer is written once per question and a
// revisited question can be viewed but not answered again.
type QuizSession struct {
	ID        string    // unique session ID, assigned by the owner
	StartedAt time.Time // timestamp when the session was created

	mu           sync.Mutex
	language     LanguageCode
	questions    []Question
	answers      []*AnswerRecord // one slot per question, nil until answered
	currentIndex int
	selected     int
	locked       bool
	evaluating   bool // submitted during the current visit, advance not yet done
	status       SessionStatus
	completedAt  *time.Time
	lastActivity time.Time

	afterFunc  AfterFunc
	pending    Timer
	pendingSeq uint64
	now        func() time.Time
}

// NewQuizSession creates a session positioned on the first question.
// It fails with ErrEmptyQuestionSet when questions is empty.
func NewQuizSession(questions []Question, opts ...SessionOption) (*QuizSession, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyQuestionSet
	}

	s := &QuizSession{
		language:  DefaultLanguage,
		questions: slices.Clone(questions),
		answers:   make([]*AnswerRecord, len(questions)),
		selected:  NoSelection,
		status:    SessionInProgress,
		afterFunc: stdAfterFunc,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.StartedAt = s.now()
	s.lastActivity = s.StartedAt

	return s, nil
}

// SelectOption marks option as the tentative answer for the current question.
func (s *QuizSession) SelectOption(option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != SessionInProgress {
		return invalidState("select on %s session", s.status)
	}
	if s.locked {
		return invalidState("question %d is locked", s.currentIndex)
	}
	if !s.questions[s.currentIndex].HasOption(option) {
		return ErrInvalidOption
	}

	s.selected = option
	s.touch()
	return nil
}

// Submit records the selected option for the current question and locks it.
// The session is left unchanged when nothing is selected or the question is already locked.
func (s *QuizSession) Submit() (AnswerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != SessionInProgress {
		return AnswerRecord{}, invalidState("submit on %s session", s.status)
	}
	if s.locked {
		return AnswerRecord{}, invalidState("question %d already submitted", s.currentIndex)
	}
	if s.selected == NoSelection {
		return AnswerRecord{}, invalidState("submit without a selected option")
	}

	q := s.questions[s.currentIndex]
	rec := &AnswerRecord{
		QuestionID:     q.ID,
		SelectedOption: s.selected,
		IsCorrect:      q.IsCorrect(s.selected),
		AnsweredAt:     s.now(),
	}

	s.answers[s.currentIndex] = rec
	s.locked = true
	s.evaluating = true
	s.touch()

	return *rec, nil
}

// Advance moves to the next question, or completes the session when called
// on the last one. It reports whether the session completed.
func (s *QuizSession) Advance() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.advanceLocked()
}

// Retreat moves back to the previous question and restores its recorded answer.
// It is rejected on the first question and while a submitted answer awaits its advance.
func (s *QuizSession) Retreat() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != SessionInProgress {
		return invalidState("retreat on %s session", s.status)
	}
	if s.currentIndex == 0 {
		return invalidState("retreat from the first question")
	}
	if s.evaluating {
		return invalidState("retreat while question %d is being evaluated", s.currentIndex)
	}

	s.cancelPendingLocked()
	s.currentIndex--
	s.restoreLocked()
	s.touch()
	return nil
}

// Abandon terminates the session early and cancels a pending advance.
// No report is available for an abandoned session.
func (s *QuizSession) Abandon() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == SessionAbandoned {
		return invalidState("session already abandoned")
	}

	s.cancelPendingLocked()
	s.status = SessionAbandoned
	s.evaluating = false
	s.touch()
	return nil
}

// ScheduleAdvance arms the automatic advance after a submitted answer.
// A previously armed advance is replaced. Advance, Retreat and Abandon cancel it;
// a timer that fires after cancellation does nothing.
func (s *QuizSession) ScheduleAdvance(delay time.Duration, cb AdvanceCallback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != SessionInProgress {
		return invalidState("schedule advance on %s session", s.status)
	}
	if !s.locked {
		return invalidState("schedule advance before submitting")
	}

	s.cancelPendingLocked()
	seq := s.pendingSeq
	s.pending = s.afterFunc(delay, func() {
		s.firePending(seq, cb)
	})
	return nil
}

// CancelScheduledAdvance stops a pending automatic advance, if any.
func (s *QuizSession) CancelScheduledAdvance() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelPendingLocked()
}

func (s *QuizSession) firePending(seq uint64, cb AdvanceCallback) {
	s.mu.Lock()
	if s.pending == nil || s.pendingSeq != seq {
		s.mu.Unlock()
		return
	}
	s.pending = nil

	completed, err := s.advanceLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if cb != nil {
		cb(snap, completed, err)
	}
}

func (s *QuizSession) advanceLocked() (bool, error) {
	if s.status != SessionInProgress {
		return false, invalidState("advance on %s session", s.status)
	}
	if !s.locked {
		return false, invalidState("advance before submitting question %d", s.currentIndex)
	}

	s.cancelPendingLocked()
	s.evaluating = false
	s.touch()

	if s.currentIndex == len(s.questions)-1 {
		now := s.now()
		s.status = SessionCompleted
		s.completedAt = &now
		return true, nil
	}

	s.currentIndex++
	s.restoreLocked()
	return false, nil
}

// restoreLocked loads selection and lock state from the record at the current index.
func (s *QuizSession) restoreLocked() {
	if rec := s.answers[s.currentIndex]; rec != nil {
		s.selected = rec.SelectedOption
		s.locked = true
		return
	}
	s.selected = NoSelection
	s.locked = false
}

func (s *QuizSession) cancelPendingLocked() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.pendingSeq++
}

func (s *QuizSession) touch() {
	s.lastActivity = s.now()
}

// Status returns the lifecycle state.
func (s *QuizSession) Status() SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Language returns the language the questions were sampled in.
func (s *QuizSession) Language() LanguageCode {
	return s.language
}

// LastActivity returns the time of the last transition.
func (s *QuizSession) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// CompletedAt returns when the session completed, or nil.
func (s *QuizSession) CompletedAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completedAt
}

// Questions returns a copy of the sampled questions.
func (s *QuizSession) Questions() []Question {
	return slices.Clone(s.questions)
}

// Answers returns the recorded answers in question order.
func (s *QuizSession) Answers() []AnswerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answersLocked()
}

func (s *QuizSession) answersLocked() []AnswerRecord {
	out := make([]AnswerRecord, 0, len(s.answers))
	for _, rec := range s.answers {
		if rec != nil {
			out = append(out, *rec)
		}
	}
	return out
}

// Report scores a completed session.
func (s *QuizSession) Report() (ScoreReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != SessionCompleted {
		return ScoreReport{}, invalidState("report on %s session", s.status)
	}
	return Score(s.questions, s.answersLocked()), nil
}

// Review lists every question of a completed session with the given answer.
func (s *QuizSession) Review() ([]ReviewItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != SessionCompleted {
		return nil, invalidState("review on %s session", s.status)
	}
	return Review(s.questions, s.answersLocked()), nil
}

// SessionSnapshot is an immutable view of a session handed to presentation.
type SessionSnapshot struct {
	ID             string
	Language       LanguageCode
	Status         SessionStatus
	CurrentIndex   int
	Total          int
	Question       Question
	SelectedOption int
	IsLocked       bool
	AdvancePending bool
	Answer         *AnswerRecord // record of the current question, if answered
	AnsweredCount  int
	CorrectCount   int
}

// IsFirst reports whether the current question is the first one.
func (s SessionSnapshot) IsFirst() bool {
	return s.CurrentIndex == 0
}

// IsLast reports whether the current question is the last one.
func (s SessionSnapshot) IsLast() bool {
	return s.CurrentIndex == s.Total-1
}

// Progress returns the position of the current question as a percentage.
func (s SessionSnapshot) Progress() int {
	if s.Total == 0 {
		return 0
	}
	return (s.CurrentIndex + 1) * 100 / s.Total
}

// Snapshot returns the current state of the session.
func (s *QuizSession) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *QuizSession) snapshotLocked() SessionSnapshot {
	snap := SessionSnapshot{
		ID:             s.ID,
		Language:       s.language,
		Status:         s.status,
		CurrentIndex:   s.currentIndex,
		Total:          len(s.questions),
		Question:       s.questions[s.currentIndex],
		SelectedOption: s.selected,
		IsLocked:       s.locked,
		AdvancePending: s.pending != nil,
	}

	if rec := s.answers[s.currentIndex]; rec != nil {
		r := *rec
		snap.Answer = &r
	}

	for _, rec := range s.answers {
		if rec == nil {
			continue
		}
		snap.AnsweredCount++
		if rec.IsCorrect {
			snap.CorrectCount++
		}
	}

	return snap
}
