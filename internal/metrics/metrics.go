package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/samwell-mp4/samwell/internal/bracket"
)

const namespace = "brackets"

// Metrics groups the collectors for tournament activity. Each instance owns
// its collectors so tests can register them on a private registry.
type Metrics struct {
	TournamentsCreated *prometheus.CounterVec
	MatchesDecided     prometheus.Counter
	Walkovers          prometheus.Counter
	Byes               prometheus.Counter
	Completed          prometheus.Counter
	PersistFailures    *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TournamentsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tournaments_created_total",
			Help:      "Tournaments created, by bracket size.",
		}, []string{"size"}),
		MatchesDecided: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_decided_total",
			Help:      "Match results recorded by a user.",
		}),
		Walkovers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "walkovers_total",
			Help:      "Matches decided automatically because no opponent could ever arrive.",
		}),
		Byes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "byes_total",
			Help:      "Round-1 byes produced when building brackets.",
		}),
		Completed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tournaments_completed_total",
			Help:      "Tournaments that reached a champion.",
		}),
		PersistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_failures_total",
			Help:      "Storage writes that failed, by operation.",
		}, []string{"operation"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.TournamentsCreated,
			m.MatchesDecided,
			m.Walkovers,
			m.Byes,
			m.Completed,
			m.PersistFailures,
		)
	}
	return m
}

func (m *Metrics) ObserveCreated(t bracket.Tournament) {
	m.TournamentsCreated.WithLabelValues(sizeLabel(t.Size)).Inc()
	for _, match := range t.Matches {
		if match.IsBye() {
			m.Byes.Inc()
		}
	}
}

// ObserveDecision records one user decision and the walkovers it triggered.
func (m *Metrics) ObserveDecision(before, after bracket.Tournament) {
	m.MatchesDecided.Inc()
	decided := 0
	for _, match := range bracket.ChangedMatches(before.Matches, after.Matches) {
		if match.IsDecided() {
			decided++
		}
	}
	if decided > 1 {
		m.Walkovers.Add(float64(decided - 1))
	}
	if before.Status != bracket.StatusCompleted && after.Status == bracket.StatusCompleted {
		m.Completed.Inc()
	}
}

func (m *Metrics) ObservePersistFailure(operation string) {
	m.PersistFailures.WithLabelValues(operation).Inc()
}

func sizeLabel(s bracket.Size) string {
	switch s {
	case bracket.Size8:
		return "8"
	case bracket.Size16:
		return "16"
	case bracket.Size32:
		return "32"
	}
	return "other"
}
