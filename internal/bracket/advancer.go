package bracket

import (
	"errors"
	"fmt"

	"github.com/samwell-mp4/samwell/internal/utils"
)

// Guard violations. The aggregate passed to SelectWinner is returned unchanged.
var (
	ErrTournamentCompleted = errors.New("tournament is already completed")
	ErrTournamentNotActive = errors.New("tournament is not active")
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchDecided        = errors.New("match already has a winner")
	ErrMatchNotReady       = errors.New("match is still waiting for a participant")
	ErrNotAParticipant     = errors.New("winner is not part of this match")
)

// Structural violations, these mean the match links are broken.
var (
	ErrSlotConflict = errors.New("next match already has both participants")
	ErrBrokenLink   = errors.New("match links to a missing match")
)

// IsGuardError reports whether err is a rejected call that left the state untouched
// rather than a broken bracket.
func IsGuardError(err error) bool {
	return errors.Is(err, ErrTournamentCompleted) ||
		errors.Is(err, ErrTournamentNotActive) ||
		errors.Is(err, ErrMatchNotFound) ||
		errors.Is(err, ErrMatchDecided) ||
		errors.Is(err, ErrMatchNotReady) ||
		errors.Is(err, ErrNotAParticipant)
}

// SelectWinner records the winner of a match and returns the new aggregate.
// The input is never modified. Deciding the final completes the tournament.
func SelectWinner(t Tournament, matchID, winnerID int) (Tournament, error) {
	switch t.Status {
	case StatusActive:
	case StatusCompleted:
		return t, ErrTournamentCompleted
	default:
		return t, fmt.Errorf("%w: status %q", ErrTournamentNotActive, t.Status)
	}

	next := t.Clone()
	tr := newTree(next.Matches)

	m := tr.get(matchID)
	if m == nil {
		return t, fmt.Errorf("%w: %d", ErrMatchNotFound, matchID)
	}
	if m.IsDecided() {
		return t, fmt.Errorf("%w: match %d", ErrMatchDecided, matchID)
	}
	if !m.HasParticipant(winnerID) {
		return t, fmt.Errorf("%w: participant %d, match %d", ErrNotAParticipant, winnerID, matchID)
	}
	if !m.IsFull() {
		return t, fmt.Errorf("%w: match %d", ErrMatchNotReady, matchID)
	}

	m.WinnerID = utils.Ptr(winnerID)
	final, _, err := tr.propagate(m)
	if err != nil {
		return t, err
	}
	if final != nil {
		if err := next.complete(*final.WinnerID); err != nil {
			return t, err
		}
	}
	return next, nil
}

func (t *Tournament) complete(winnerID int) error {
	p := t.Participant(winnerID)
	if p == nil {
		return fmt.Errorf("winner %d is not registered in tournament %q", winnerID, t.ID)
	}
	w := *p
	t.Status = StatusCompleted
	t.Winner = &w
	return nil
}
