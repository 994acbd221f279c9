package bracket

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newParticipants(names ...string) []Participant {
	ps := make([]Participant, len(names))
	for i, name := range names {
		ps[i] = Participant{ID: i + 1, Name: name}
	}
	return ps
}

func numbered(n int) []Participant {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("Player %d", i+1)
	}
	return newParticipants(names...)
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed*31+7))
}

func TestSizeHelpers(t *testing.T) {
	testCases := []struct {
		size    Size
		rounds  int
		matches int
	}{
		{Size8, 3, 7},
		{Size16, 4, 15},
		{Size32, 5, 31},
	}
	for _, tc := range testCases {
		assert.True(t, tc.size.Valid())
		assert.Equal(t, tc.rounds, tc.size.Rounds())
		assert.Equal(t, tc.matches, tc.size.MatchCount())
	}

	_, err := ParseSize(12)
	assert.Error(t, err)
	s, err := ParseSize(16)
	require.NoError(t, err)
	assert.Equal(t, Size16, s)
}

func TestShuffle(t *testing.T) {
	ps := numbered(10)
	original := append([]Participant(nil), ps...)

	shuffled := Shuffle(ps, seeded(1))
	assert.ElementsMatch(t, ps, shuffled)
	assert.Equal(t, original, ps, "input must not be reordered")

	assert.ElementsMatch(t, ps, Shuffle(ps, nil))
}

func TestShuffle_Uniform(t *testing.T) {
	ps := newParticipants("a", "b", "c")
	rng := seeded(42)

	const draws = 60000
	counts := make(map[string]int)
	for i := 0; i < draws; i++ {
		s := Shuffle(ps, rng)
		counts[s[0].Name+s[1].Name+s[2].Name]++
	}

	require.Len(t, counts, 6, "every permutation should appear")
	expected := draws / 6
	for perm, c := range counts {
		assert.InDelta(t, expected, c, float64(expected)/10, "permutation %s is biased", perm)
	}
}

func TestBuild_Structure(t *testing.T) {
	for _, size := range Sizes {
		for _, n := range []int{2, 3, int(size) / 2, int(size)/2 + 1, int(size) - 1, int(size)} {
			t.Run(fmt.Sprintf("%d of %d", n, size), func(t *testing.T) {
				matches := Build(numbered(n), size, seeded(uint64(n)))
				require.Len(t, matches, int(size)-1)

				rounds := Rounds(matches)
				require.Len(t, rounds, size.Rounds())
				for i, r := range rounds {
					assert.Len(t, r, int(size)>>(i+1), "round %d", i+1)
				}

				byID := make(map[int]Match)
				fedBy := make(map[int]int)
				for _, m := range matches {
					byID[m.ID] = m
					if m.NextMatchID != nil {
						fedBy[*m.NextMatchID]++
					}
				}
				for _, m := range matches {
					if m.Round == size.Rounds() {
						assert.Nil(t, m.NextMatchID, "final must not link anywhere")
						continue
					}
					require.NotNil(t, m.NextMatchID)
					next := byID[*m.NextMatchID]
					assert.Equal(t, m.Round+1, next.Round)
					assert.Equal(t, m.MatchInRound/2, next.MatchInRound)
					assert.Equal(t, 2, fedBy[next.ID])
				}

				tournament := NewTournament("t", size, numbered(n), seeded(uint64(n)))
				assert.NoError(t, Validate(tournament))
				assert.Equal(t, StatusActive, tournament.Status)
			})
		}
	}
}

func TestBuild_Byes(t *testing.T) {
	for _, n := range []int{3, 5, 7, 9, 13, 15} {
		t.Run(fmt.Sprintf("%d of 16", n), func(t *testing.T) {
			matches := Build(numbered(n), Size16, seeded(uint64(n)))
			tr := newTree(matches)

			seated := 0
			for _, m := range matches {
				if m.Round != 1 {
					continue
				}
				switch {
				case m.IsFull():
					seated += 2
					assert.Nil(t, m.WinnerID, "a full match needs a decision")
				case m.IsEmpty():
					assert.Nil(t, m.WinnerID, "an empty match has no winner")
				default:
					seated++
					require.NotNil(t, m.WinnerID, "a bye is decided on build")
					assert.True(t, m.HasParticipant(*m.WinnerID))
					next := tr.get(*m.NextMatchID)
					assert.True(t, next.HasParticipant(*m.WinnerID), "bye winner must already be seated downstream")
				}
			}
			assert.Equal(t, n, seated)
		})
	}
}

func TestBuild_EveryParticipantSeatedOnce(t *testing.T) {
	matches := Build(numbered(32), Size32, seeded(9))
	seen := make(map[int]int)
	for _, m := range Rounds(matches)[0] {
		seen[*m.Participant1ID]++
		seen[*m.Participant2ID]++
		assert.Nil(t, m.WinnerID)
	}
	assert.Len(t, seen, 32)
	for id, c := range seen {
		assert.Equal(t, 1, c, "participant %d", id)
	}
}

func TestBuild_TwoOfEight(t *testing.T) {
	ps := newParticipants("Ana", "Bruno")
	matches := Build(ps, Size8, seeded(3))
	require.Len(t, matches, 7)

	m0 := matches[0]
	require.True(t, m0.IsFull())
	assert.ElementsMatch(t, []int{1, 2}, []int{*m0.Participant1ID, *m0.Participant2ID})
	assert.Nil(t, m0.WinnerID)

	for _, m := range matches[1:4] {
		assert.True(t, m.IsEmpty(), "match %d", m.ID)
		assert.Nil(t, m.WinnerID, "match %d", m.ID)
	}
	for _, m := range matches[4:] {
		assert.True(t, m.IsEmpty(), "match %d", m.ID)
		assert.Nil(t, m.WinnerID, "match %d", m.ID)
	}
}

func TestBuild_ThreeOfEight(t *testing.T) {
	ps := newParticipants("Ana", "Bruno", "Carla")
	matches := Build(ps, Size8, seeded(5))
	require.Len(t, matches, 7)

	assert.True(t, matches[0].IsFull())
	assert.Nil(t, matches[0].WinnerID)

	m1 := matches[1]
	require.NotNil(t, m1.Participant1ID)
	assert.Nil(t, m1.Participant2ID)
	require.NotNil(t, m1.WinnerID)
	assert.Equal(t, *m1.Participant1ID, *m1.WinnerID)

	require.NotNil(t, m1.NextMatchID)
	round2 := matches[*m1.NextMatchID]
	assert.Equal(t, 2, round2.Round)
	require.NotNil(t, round2.Participant1ID)
	assert.Equal(t, *m1.WinnerID, *round2.Participant1ID)
	assert.Nil(t, round2.Participant2ID)
	assert.Nil(t, round2.WinnerID, "the other feeder still has to be played")
}

func TestBuild_ByeWalksOverVoidSide(t *testing.T) {
	// 5 of 8: two full matches, a bye in match 2, match 3 empty.
	matches := Build(numbered(5), Size8, seeded(11))

	bye := matches[2]
	require.True(t, bye.IsBye())
	assert.True(t, matches[3].IsEmpty())

	semi := matches[*bye.NextMatchID]
	require.NotNil(t, semi.WinnerID, "nobody can ever reach the other side of the semi-final")
	assert.Equal(t, *bye.WinnerID, *semi.WinnerID)

	final := matches[*semi.NextMatchID]
	require.NotNil(t, final.Participant1ID)
	assert.Equal(t, *bye.WinnerID, *final.Participant1ID)
	assert.Nil(t, final.WinnerID)
}

func TestNewTournament_StartsActive(t *testing.T) {
	for _, size := range Sizes {
		for n := 2; n <= int(size); n++ {
			for seed := uint64(0); seed < 5; seed++ {
				tournament := NewTournament("Open", size, numbered(n), seeded(seed))

				require.Equal(t, StatusActive, tournament.Status, "size %d, %d participants", size, n)
				assert.Nil(t, tournament.Winner)
				assert.True(t, tournament.Matches[0].IsFull())
				assert.False(t, Final(tournament.Matches).IsDecided())
				require.NoError(t, Validate(tournament))
			}
		}
	}
}
