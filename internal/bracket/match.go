package bracket

type Match struct {
	ID int `db:"id" json:"id"`

	// Position in the bracket for reconstructing the view
	Round        int `db:"round" json:"round"`
	MatchInRound int `db:"match_in_round" json:"matchInRound"`

	Participant1ID *int `db:"participant_1_id" json:"participant1Id"`
	Participant2ID *int `db:"participant_2_id" json:"participant2Id"`
	WinnerID       *int `db:"winner_id" json:"winnerId"`

	// Nil only for the final
	NextMatchID *int `db:"next_match_id" json:"nextMatchId"`
}

func (m *Match) IsDecided() bool {
	return m.WinnerID != nil
}

func (m *Match) IsFinal() bool {
	return m.NextMatchID == nil
}

func (m *Match) IsEmpty() bool {
	return m.Participant1ID == nil && m.Participant2ID == nil
}

func (m *Match) IsFull() bool {
	return m.Participant1ID != nil && m.Participant2ID != nil
}

func (m *Match) HasParticipant(id int) bool {
	return (m.Participant1ID != nil && *m.Participant1ID == id) ||
		(m.Participant2ID != nil && *m.Participant2ID == id)
}

func (m *Match) IsWinner(id int) bool {
	return m.WinnerID != nil && *m.WinnerID == id
}

func (m *Match) IsLoser(id int) bool {
	return m.WinnerID != nil && *m.WinnerID != id && m.HasParticipant(id)
}

// A round-1 match decided without being played
func (m *Match) IsBye() bool {
	return m.Round == 1 && m.IsDecided() && !m.IsFull()
}
