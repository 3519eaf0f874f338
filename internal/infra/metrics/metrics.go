package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "quizbot"

// Metrics коллекторы движка викторин. Реализует quiz.Observer.
type Metrics struct {
	registry *prometheus.Registry

	sessionsStarted    prometheus.Counter
	sessionsFinished   *prometheus.CounterVec
	questionsPublished prometheus.Counter
	answers            *prometheus.CounterVec
	running            prometheus.Gauge
}

// New регистрирует коллекторы в собственном реестре вместе с метриками процесса и Go рантайма
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Quiz sections started.",
		}),
		sessionsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_finished_total",
			Help:      "Quiz sections finished, by reason.",
		}, []string{"reason"}),
		questionsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "questions_published_total",
			Help:      "Quiz polls published.",
		}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Poll answers received, by result.",
		}, []string{"result"}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "running_sessions",
			Help:      "Quiz sections currently running.",
		}),
	}

	m.registry.MustRegister(
		m.sessionsStarted,
		m.sessionsFinished,
		m.questionsPublished,
		m.answers,
		m.running,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) SessionStarted() {
	m.sessionsStarted.Inc()
	m.running.Inc()
}

func (m *Metrics) SessionFinished(reason string) {
	m.sessionsFinished.WithLabelValues(reason).Inc()
	m.running.Dec()
}

func (m *Metrics) QuestionPublished() {
	m.questionsPublished.Inc()
}

func (m *Metrics) AnswerReceived(result string) {
	m.answers.WithLabelValues(result).Inc()
}

// Registry реестр для тестов и дополнительных коллекторов
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler отдает метрики в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
