// Package metrics exposes Prometheus collectors for quiz and bot activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/WhoAbdullahSheikh/drivesmart/internal/domain/entities"
)

const namespace = "drivesmart"

// Metrics holds the application collectors.
type Metrics struct {
	SessionsStarted         *prometheus.CounterVec
	SessionsCompleted       *prometheus.CounterVec
	SessionsAbandoned       *prometheus.CounterVec
	ScorePercentage         *prometheus.HistogramVec
	QuestionsPerSession     prometheus.Histogram
	PreferenceStorageErrors *prometheus.CounterVec
	LanguageChanges         *prometheus.CounterVec
	Updates                 *prometheus.CounterVec
	RateLimited             prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quiz_sessions_started_total",
			Help:      "Quiz sessions started.",
		}, []string{"language"}),
		SessionsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quiz_sessions_completed_total",
			Help:      "Quiz sessions completed, by result.",
		}, []string{"language", "result"}),
		SessionsAbandoned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quiz_sessions_abandoned_total",
			Help:      "Quiz sessions abandoned before completion.",
		}, []string{"language", "reason"}),
		ScorePercentage: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quiz_score_percentage",
			Help:      "Score percentage of completed sessions.",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}, []string{"language"}),
		QuestionsPerSession: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quiz_session_questions",
			Help:      "Number of questions per started session.",
			Buckets:   []float64{10, 20, 40, 60, 100, 200},
		}),
		PreferenceStorageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "preference_storage_errors_total",
			Help:      "Failed language preference reads and writes.",
		}, []string{"op"}),
		LanguageChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "language_changes_total",
			Help:      "Language switches, by new language.",
		}, []string{"language"}),
		Updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telegram_updates_total",
			Help:      "Telegram updates handled, by kind.",
		}, []string{"kind"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telegram_updates_rate_limited_total",
			Help:      "Telegram updates dropped by the per-chat rate limiter.",
		}),
	}

	reg.MustRegister(
		m.SessionsStarted,
		m.SessionsCompleted,
		m.SessionsAbandoned,
		m.ScorePercentage,
		m.QuestionsPerSession,
		m.PreferenceStorageErrors,
		m.LanguageChanges,
		m.Updates,
		m.RateLimited,
	)

	return m
}

func (m *Metrics) SessionStarted(lang entities.LanguageCode, questions int) {
	m.SessionsStarted.WithLabelValues(lang.String()).Inc()
	m.QuestionsPerSession.Observe(float64(questions))
}

func (m *Metrics) SessionCompleted(lang entities.LanguageCode, report entities.ScoreReport) {
	result := "failed"
	if report.Passed {
		result = "passed"
	}
	m.SessionsCompleted.WithLabelValues(lang.String(), result).Inc()
	m.ScorePercentage.WithLabelValues(lang.String()).Observe(float64(report.Percentage))
}

func (m *Metrics) SessionAbandoned(lang entities.LanguageCode, reason string) {
	m.SessionsAbandoned.WithLabelValues(lang.String(), reason).Inc()
}

func (m *Metrics) PreferenceStorageError(op string) {
	m.PreferenceStorageErrors.WithLabelValues(op).Inc()
}

func (m *Metrics) LanguageChanged(lang entities.LanguageCode) {
	m.LanguageChanges.WithLabelValues(lang.String()).Inc()
}

func (m *Metrics) UpdateHandled(kind string) {
	m.Updates.WithLabelValues(kind).Inc()
}

func (m *Metrics) UpdateRateLimited() {
	m.RateLimited.Inc()
}
