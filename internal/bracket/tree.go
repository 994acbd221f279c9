package bracket

import (
	"fmt"

	"github.com/samwell-mp4/samwell/internal/utils"
)

// tree indexes a flat match list by id so links can be followed without a scan.
// It shares the backing array of the slice it was built from.
type tree struct {
	matches []Match
	byID    map[int]int
	feeders map[int][]int
}

func newTree(matches []Match) *tree {
	t := &tree{
		matches: matches,
		byID:    make(map[int]int, len(matches)),
		feeders: make(map[int][]int, len(matches)/2),
	}
	for i, m := range matches {
		t.byID[m.ID] = i
		if m.NextMatchID != nil {
			t.feeders[*m.NextMatchID] = append(t.feeders[*m.NextMatchID], m.ID)
		}
	}
	return t
}

func (t *tree) get(id int) *Match {
	i, ok := t.byID[id]
	if !ok {
		return nil
	}
	return &t.matches[i]
}

// void reports whether a match can never receive a participant: an empty
// round-1 match, or a match fed only by void matches.
func (t *tree) void(id int) bool {
	m := t.get(id)
	if m == nil || !m.IsEmpty() || m.IsDecided() {
		return false
	}
	for _, f := range t.feeders[id] {
		if !t.void(f) {
			return false
		}
	}
	return true
}

func (t *tree) otherFeedersVoid(id, from int) bool {
	for _, f := range t.feeders[id] {
		if f != from && !t.void(f) {
			return false
		}
	}
	return true
}

// propagate seats the winner of m in the next match. When the next match can
// never get an opponent it is decided as a walkover and the walk continues.
// It returns the final when the walk decided it, and the number of walkovers.
func (t *tree) propagate(m *Match) (*Match, int, error) {
	walkovers := 0
	for {
		if m.NextMatchID == nil {
			return m, walkovers, nil
		}
		next := t.get(*m.NextMatchID)
		if next == nil {
			return nil, walkovers, fmt.Errorf("%w: match %d points to %d", ErrBrokenLink, m.ID, *m.NextMatchID)
		}
		if err := seat(next, *m.WinnerID); err != nil {
			return nil, walkovers, fmt.Errorf("match %d: %w", next.ID, err)
		}
		if !t.otherFeedersVoid(next.ID, m.ID) {
			return nil, walkovers, nil
		}
		next.WinnerID = utils.Ptr(*m.WinnerID)
		walkovers++
		m = next
	}
}

// seat places a participant in the first empty slot.
func seat(m *Match, participantID int) error {
	switch {
	case m.Participant1ID == nil:
		m.Participant1ID = utils.Ptr(participantID)
	case m.Participant2ID == nil:
		m.Participant2ID = utils.Ptr(participantID)
	default:
		return ErrSlotConflict
	}
	return nil
}
