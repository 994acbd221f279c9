package bracket

import (
	"fmt"
	"math/bits"
	"time"
)

type Status string

const (
	// Admitted for stored records; creation never produces it.
	StatusConfiguring Status = "configuring"
	StatusActive      Status = "active"
	StatusCompleted   Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusConfiguring, StatusActive, StatusCompleted:
		return true
	}
	return false
}

// Size is the number of round-1 slots in a bracket.
type Size int

const (
	Size8  Size = 8
	Size16 Size = 16
	Size32 Size = 32
)

var Sizes = []Size{Size8, Size16, Size32}

func (s Size) Valid() bool {
	return s == Size8 || s == Size16 || s == Size32
}

// Rounds returns log2(size), the number of the final round.
func (s Size) Rounds() int {
	return bits.Len(uint(s)) - 1
}

// MatchCount returns the number of matches in a full single elimination bracket.
func (s Size) MatchCount() int {
	return int(s) - 1
}

func ParseSize(n int) (Size, error) {
	s := Size(n)
	if !s.Valid() {
		return 0, fmt.Errorf("unsupported bracket size %d", n)
	}
	return s, nil
}

type Tournament struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Size         Size          `json:"size"`
	Participants []Participant `json:"participants"`
	Matches      []Match       `json:"matches"`
	Status       Status        `json:"status"`
	Winner       *Participant  `json:"winner"`
	CreatedAt    time.Time     `json:"createdAt"`
}

func (t *Tournament) Participant(id int) *Participant {
	for i := range t.Participants {
		if t.Participants[i].ID == id {
			return &t.Participants[i]
		}
	}
	return nil
}

func (t *Tournament) Match(id int) *Match {
	for i := range t.Matches {
		if t.Matches[i].ID == id {
			return &t.Matches[i]
		}
	}
	return nil
}

// Playable reports whether a winner can currently be recorded for the match.
func (t *Tournament) Playable(m *Match) bool {
	return t.Status == StatusActive && m.IsFull() && !m.IsDecided()
}

// Clone returns a deep copy so a transition never touches the caller's state.
func (t Tournament) Clone() Tournament {
	c := t
	c.Participants = append([]Participant(nil), t.Participants...)
	c.Matches = append([]Match(nil), t.Matches...)
	if t.Winner != nil {
		w := *t.Winner
		c.Winner = &w
	}
	return c
}
