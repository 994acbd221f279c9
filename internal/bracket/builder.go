package bracket

import (
	"math/rand/v2"

	"github.com/samwell-mp4/samwell/internal/utils"
)

// Shuffle returns a uniformly random permutation of participants (Fisher-Yates).
// A nil rng uses the package level source.
func Shuffle(participants []Participant, rng *rand.Rand) []Participant {
	shuffled := append([]Participant(nil), participants...)
	for i := len(shuffled) - 1; i > 0; i-- {
		var j int
		if rng != nil {
			j = rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// Build generates every match of a single elimination bracket up front.
// Callers guarantee 2 <= len(participants) <= size, so round-1 match 0 is
// always full and the final is never decided here.
func Build(participants []Participant, size Size, rng *rand.Rand) []Match {
	shuffled := Shuffle(participants, rng)
	matches := make([]Match, 0, size.MatchCount())

	slot := func(i int) *int {
		if i < len(shuffled) {
			return utils.Ptr(shuffled[i].ID)
		}
		return nil
	}

	for i := 0; i < int(size)/2; i++ {
		m := Match{
			ID:             len(matches),
			Round:          1,
			MatchInRound:   i,
			Participant1ID: slot(2 * i),
			Participant2ID: slot(2*i + 1),
		}
		// Byes need no decision
		switch {
		case m.Participant1ID != nil && m.Participant2ID == nil:
			m.WinnerID = utils.Ptr(*m.Participant1ID)
		case m.Participant1ID == nil && m.Participant2ID != nil:
			m.WinnerID = utils.Ptr(*m.Participant2ID)
		}
		matches = append(matches, m)
	}

	prevStart := 0
	for round, count := 2, int(size)/4; count >= 1; round, count = round+1, count/2 {
		start := len(matches)
		for k := 0; k < count; k++ {
			id := len(matches)
			matches = append(matches, Match{ID: id, Round: round, MatchInRound: k})
			matches[prevStart+2*k].NextMatchID = utils.Ptr(id)
			matches[prevStart+2*k+1].NextMatchID = utils.Ptr(id)
		}
		prevStart = start
	}

	// Bye winners were fixed before their next match existed
	t := newTree(matches)
	for i := range matches {
		if !matches[i].IsBye() {
			continue
		}
		if _, _, err := t.propagate(&matches[i]); err != nil {
			// The links above are fresh, a conflict here is a bug in this function.
			panic(err)
		}
	}
	return matches
}

// NewTournament builds the whole aggregate in one step as an active
// tournament. The store assigns the id and creation time.
func NewTournament(name string, size Size, participants []Participant, rng *rand.Rand) Tournament {
	return Tournament{
		Name:         name,
		Size:         size,
		Participants: append([]Participant(nil), participants...),
		Matches:      Build(participants, size, rng),
		Status:       StatusActive,
	}
}
