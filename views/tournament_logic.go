package views

import (
	"fmt"
	"time"

	"github.com/samwell-mp4/samwell/internal/bracket"
	"github.com/samwell-mp4/samwell/internal/utils"
)

type SlotView struct {
	ID     int
	Name   string
	Avatar string
	Filled bool
	Winner bool
	Loser  bool
}

type MatchView struct {
	ID       int
	Slots    [2]SlotView
	Playable bool
	Bye      bool
}

type RoundView struct {
	Number  int
	Title   string
	Matches []MatchView
}

type BracketData struct {
	TournamentID string
	Rounds       []RoundView
	Champion     *bracket.Participant
}

type TournamentSummary struct {
	ID           string
	Name         string
	Status       bracket.Status
	Participants int
	Size         int
	Winner       string
	CreatedAt    time.Time
}

// PrepareBracketData lays the matches out column by column, round 1 first.
func PrepareBracketData(t bracket.Tournament) BracketData {
	rounds := bracket.Rounds(t.Matches)
	data := BracketData{
		TournamentID: t.ID,
		Rounds:       make([]RoundView, 0, len(rounds)),
	}
	if t.Status == bracket.StatusCompleted {
		data.Champion = t.Winner
	}

	for i, matches := range rounds {
		round := RoundView{
			Number:  i + 1,
			Title:   roundTitle(i+1, len(rounds)),
			Matches: make([]MatchView, 0, len(matches)),
		}
		for _, m := range matches {
			round.Matches = append(round.Matches, MatchView{
				ID: m.ID,
				Slots: [2]SlotView{
					slotView(&t, m, m.Participant1ID),
					slotView(&t, m, m.Participant2ID),
				},
				Playable: t.Playable(&m),
				Bye:      m.IsBye(),
			})
		}
		data.Rounds = append(data.Rounds, round)
	}
	return data
}

func slotView(t *bracket.Tournament, m bracket.Match, participantID *int) SlotView {
	if participantID == nil {
		name := "To be decided"
		if m.IsBye() {
			name = "Bye"
		}
		return SlotView{Name: name}
	}

	slot := SlotView{
		ID:     *participantID,
		Filled: true,
		Winner: m.IsWinner(*participantID),
		Loser:  m.IsLoser(*participantID),
	}
	if p := t.Participant(*participantID); p != nil {
		slot.Name = p.Name
		slot.Avatar = utils.OrZero(p.Avatar)
	} else {
		slot.Name = fmt.Sprintf("Participant %d", *participantID)
	}
	return slot
}

func roundTitle(round, total int) string {
	switch total - round {
	case 0:
		return "Final"
	case 1:
		return "Semifinals"
	case 2:
		return "Quarterfinals"
	}
	return fmt.Sprintf("Round %d", round)
}

func Summarize(t bracket.Tournament) TournamentSummary {
	s := TournamentSummary{
		ID:           t.ID,
		Name:         t.Name,
		Status:       t.Status,
		Participants: len(t.Participants),
		Size:         int(t.Size),
		Winner:       "To be decided",
		CreatedAt:    t.CreatedAt,
	}
	if t.Winner != nil {
		s.Winner = t.Winner.Name
	}
	return s
}
