// Package metrics exposes game counters on a private Prometheus registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is safe to use as a nil pointer; every recorder is then a no-op.
type Metrics struct {
	reg           *prometheus.Registry
	gamesStarted  prometheus.Counter
	gamesFinished *prometheus.CounterVec
	moves         *prometheus.CounterVec
	aiMove        prometheus.Histogram
}

// New registers the game collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		gamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gomoku",
			Name:      "games_started_total",
			Help:      "Rounds started, including new rounds of an existing game.",
		}),
		gamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gomoku",
			Name:      "games_finished_total",
			Help:      "Rounds finished, by outcome.",
		}, []string{"outcome"}),
		moves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gomoku",
			Name:      "moves_total",
			Help:      "Marks placed, by player and strategy.",
		}, []string{"player", "strategy"}),
		aiMove: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gomoku",
			Name:      "ai_move_seconds",
			Help:      "Time the computer spends choosing a move.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
	}
	m.reg.MustRegister(m.gamesStarted, m.gamesFinished, m.moves, m.aiMove)
	return m
}

func (m *Metrics) GameStarted() {
	if m == nil {
		return
	}
	m.gamesStarted.Inc()
}

func (m *Metrics) GameFinished(outcome string) {
	if m == nil {
		return
	}
	m.gamesFinished.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Move(player, strategy string) {
	if m == nil {
		return
	}
	m.moves.WithLabelValues(player, strategy).Inc()
}

func (m *Metrics) ObserveAIMove(d time.Duration) {
	if m == nil {
		return
	}
	m.aiMove.Observe(d.Seconds())
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
