package bracket

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samwell-mp4/samwell/internal/utils"
)

var ErrInvalidBracket = errors.New("invalid bracket")

// Rounds groups matches by round, each round ordered by position.
// The result is indexed by round-1.
func Rounds(matches []Match) [][]Match {
	maxRound := 0
	for _, m := range matches {
		if m.Round > maxRound {
			maxRound = m.Round
		}
	}
	rounds := make([][]Match, maxRound)
	for _, m := range matches {
		if m.Round < 1 {
			continue
		}
		rounds[m.Round-1] = append(rounds[m.Round-1], m)
	}
	for _, r := range rounds {
		sort.Slice(r, func(i, j int) bool {
			return r[i].MatchInRound < r[j].MatchInRound
		})
	}
	return rounds
}

func Final(matches []Match) *Match {
	for i := range matches {
		if matches[i].IsFinal() {
			return &matches[i]
		}
	}
	return nil
}

// ChangedMatches returns the matches of after that differ from the match with
// the same id in before.
func ChangedMatches(before, after []Match) []Match {
	prev := make(map[int]Match, len(before))
	for _, m := range before {
		prev[m.ID] = m
	}
	var changed []Match
	for _, m := range after {
		old, ok := prev[m.ID]
		if !ok || !sameMatch(old, m) {
			changed = append(changed, m)
		}
	}
	return changed
}

func sameMatch(a, b Match) bool {
	return a.ID == b.ID &&
		a.Round == b.Round &&
		a.MatchInRound == b.MatchInRound &&
		utils.PtrEqual(a.Participant1ID, b.Participant1ID) &&
		utils.PtrEqual(a.Participant2ID, b.Participant2ID) &&
		utils.PtrEqual(a.WinnerID, b.WinnerID) &&
		utils.PtrEqual(a.NextMatchID, b.NextMatchID)
}

// Validate checks the structural invariants of a tournament aggregate.
func Validate(t Tournament) error {
	if !t.Size.Valid() {
		return fmt.Errorf("%w: size %d", ErrInvalidBracket, t.Size)
	}
	if len(t.Participants) > int(t.Size) {
		return fmt.Errorf("%w: %d participants in a bracket of %d", ErrInvalidBracket, len(t.Participants), t.Size)
	}
	if len(t.Matches) != t.Size.MatchCount() {
		return fmt.Errorf("%w: %d matches, want %d", ErrInvalidBracket, len(t.Matches), t.Size.MatchCount())
	}

	tr := newTree(t.Matches)
	if len(tr.byID) != len(t.Matches) {
		return fmt.Errorf("%w: duplicate match ids", ErrInvalidBracket)
	}

	rounds := Rounds(t.Matches)
	if len(rounds) != t.Size.Rounds() {
		return fmt.Errorf("%w: %d rounds, want %d", ErrInvalidBracket, len(rounds), t.Size.Rounds())
	}
	for i, r := range rounds {
		want := int(t.Size) >> (i + 1)
		if len(r) != want {
			return fmt.Errorf("%w: round %d has %d matches, want %d", ErrInvalidBracket, i+1, len(r), want)
		}
		for k, m := range r {
			if m.MatchInRound != k {
				return fmt.Errorf("%w: round %d has no match at position %d", ErrInvalidBracket, i+1, k)
			}
			if err := validateMatch(t, tr, m, len(rounds)); err != nil {
				return err
			}
		}
	}

	final := Final(t.Matches)
	if (t.Status == StatusCompleted) != final.IsDecided() {
		return fmt.Errorf("%w: status %q with final winner %v", ErrInvalidBracket, t.Status, final.WinnerID)
	}
	if t.Status == StatusCompleted && (t.Winner == nil || t.Winner.ID != *final.WinnerID) {
		return fmt.Errorf("%w: tournament winner does not match the final", ErrInvalidBracket)
	}
	return nil
}

func validateMatch(t Tournament, tr *tree, m Match, lastRound int) error {
	if m.Round == lastRound {
		if m.NextMatchID != nil {
			return fmt.Errorf("%w: final %d links to %d", ErrInvalidBracket, m.ID, *m.NextMatchID)
		}
	} else {
		if m.NextMatchID == nil {
			return fmt.Errorf("%w: match %d has no next match", ErrInvalidBracket, m.ID)
		}
		next := tr.get(*m.NextMatchID)
		if next == nil || next.Round != m.Round+1 || next.MatchInRound != m.MatchInRound/2 {
			return fmt.Errorf("%w: match %d links to the wrong match", ErrInvalidBracket, m.ID)
		}
	}
	if m.Round > 1 && len(tr.feeders[m.ID]) != 2 {
		return fmt.Errorf("%w: match %d is fed by %d matches", ErrInvalidBracket, m.ID, len(tr.feeders[m.ID]))
	}
	for _, id := range []*int{m.Participant1ID, m.Participant2ID} {
		if id != nil && t.Participant(*id) == nil {
			return fmt.Errorf("%w: match %d seats unknown participant %d", ErrInvalidBracket, m.ID, *id)
		}
	}
	if m.WinnerID != nil && !m.HasParticipant(*m.WinnerID) {
		return fmt.Errorf("%w: match %d winner %d is not seated", ErrInvalidBracket, m.ID, *m.WinnerID)
	}
	return nil
}
