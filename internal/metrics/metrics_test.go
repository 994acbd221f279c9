package metrics

import (
	"math/rand/v2"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samwell-mp4/samwell/internal/bracket"
)

func TestObserveCreated(t *testing.T) {
	m := New(prometheus.NewRegistry())

	participants := []bracket.Participant{{ID: 1, Name: "Ana"}, {ID: 2, Name: "Bruno"}, {ID: 3, Name: "Carla"}}
	tournament := bracket.NewTournament("Trio", bracket.Size8, participants, rand.New(rand.NewPCG(1, 1)))
	m.ObserveCreated(tournament)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.TournamentsCreated.WithLabelValues("8")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.TournamentsCreated.WithLabelValues("16")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Byes))
}

func TestObserveDecision(t *testing.T) {
	m := New(prometheus.NewRegistry())

	participants := []bracket.Participant{{ID: 1, Name: "Ana"}, {ID: 2, Name: "Bruno"}}
	tournament := bracket.NewTournament("Duel", bracket.Size8, participants, rand.New(rand.NewPCG(2, 2)))
	done, err := bracket.SelectWinner(tournament, 0, 1)
	require.NoError(t, err)

	m.ObserveDecision(tournament, done)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.MatchesDecided))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Walkovers), "the semi-final and the final are walkovers")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Completed))
}

func TestObservePersistFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObservePersistFailure("update")
	m.ObservePersistFailure("update")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PersistFailures.WithLabelValues("update")))

	count, err := testutil.GatherAndCount(reg, "brackets_persist_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
