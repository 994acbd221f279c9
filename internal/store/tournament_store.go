package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/samwell-mp4/samwell/internal/bracket"
)

var ErrNotFound = errors.New("tournament not found")

// TournamentUpdate holds the fields to merge into a stored tournament.
// Nil fields are left alone. Matches are matched by id; only their
// participant and winner slots are written.
type TournamentUpdate struct {
	Name    *string
	Status  *bracket.Status
	Winner  *bracket.Participant
	Matches []bracket.Match
}

type tournamentRow struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	Size      bracket.Size   `db:"size"`
	Status    bracket.Status `db:"status"`
	WinnerID  *int           `db:"winner_id"`
	CreatedAt time.Time      `db:"created_at"`
}

type participantRow struct {
	TournamentID string `db:"tournament_id"`
	bracket.Participant
}

type matchRow struct {
	TournamentID string `db:"tournament_id"`
	bracket.Match
}

const (
	insertTournamentQuery = `
		INSERT INTO tournaments (id, name, size, status, winner_id, created_at)
		VALUES (:id, :name, :size, :status, :winner_id, :created_at)
	`
	insertParticipantsQuery = `
		INSERT INTO participants (tournament_id, id, name, avatar)
		VALUES (:tournament_id, :id, :name, :avatar)
	`
	insertMatchesQuery = `
		INSERT INTO matches (tournament_id, id, round, match_in_round, participant_1_id, participant_2_id, winner_id, next_match_id)
		VALUES (:tournament_id, :id, :round, :match_in_round, :participant_1_id, :participant_2_id, :winner_id, :next_match_id)
	`
	selectTournamentQuery  = "SELECT id, name, size, status, winner_id, created_at FROM tournaments WHERE id = ?"
	selectTournamentsQuery = "SELECT id, name, size, status, winner_id, created_at FROM tournaments ORDER BY created_at DESC, rowid DESC"
	selectParticipantsQuery = `
		SELECT tournament_id, id, name, avatar FROM participants
		WHERE tournament_id = ? ORDER BY id ASC
	`
	selectAllParticipantsQuery = "SELECT tournament_id, id, name, avatar FROM participants ORDER BY tournament_id, id ASC"
	selectMatchesQuery         = `
		SELECT tournament_id, id, round, match_in_round, participant_1_id, participant_2_id, winner_id, next_match_id
		FROM matches WHERE tournament_id = ? ORDER BY round ASC, match_in_round ASC
	`
	selectAllMatchesQuery = `
		SELECT tournament_id, id, round, match_in_round, participant_1_id, participant_2_id, winner_id, next_match_id
		FROM matches ORDER BY tournament_id, round ASC, match_in_round ASC
	`
	updateTournamentQuery = `
		UPDATE tournaments SET
		name = :name,
		status = :status,
		winner_id = :winner_id
		WHERE id = :id
	`
	updateMatchQuery = `
		UPDATE matches SET
		participant_1_id = :participant_1_id,
		participant_2_id = :participant_2_id,
		winner_id = :winner_id
		WHERE tournament_id = :tournament_id AND id = :id
	`
	deleteTournamentQuery = "DELETE FROM tournaments WHERE id = ?"
)

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

// CreateTournament assigns an id and creation time and persists the whole aggregate.
func (s *TournamentStore) CreateTournament(ctx context.Context, t bracket.Tournament) (*bracket.Tournament, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	t.ID = uuid.NewString()
	t.CreatedAt = time.Now().UTC()

	row := tournamentRow{
		ID:        t.ID,
		Name:      t.Name,
		Size:      t.Size,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
	}
	if t.Winner != nil {
		row.WinnerID = &t.Winner.ID
	}
	if _, err := tx.NamedExecContext(ctx, insertTournamentQuery, row); err != nil {
		return nil, fmt.Errorf("failed to insert tournament: %w", err)
	}

	if len(t.Participants) > 0 {
		participants := make([]participantRow, len(t.Participants))
		for i, p := range t.Participants {
			participants[i] = participantRow{TournamentID: t.ID, Participant: p}
		}
		if _, err := tx.NamedExecContext(ctx, insertParticipantsQuery, participants); err != nil {
			return nil, fmt.Errorf("failed to insert participants: %w", err)
		}
	}

	if len(t.Matches) > 0 {
		matches := make([]matchRow, len(t.Matches))
		for i, m := range t.Matches {
			matches[i] = matchRow{TournamentID: t.ID, Match: m}
		}
		if _, err := tx.NamedExecContext(ctx, insertMatchesQuery, matches); err != nil {
			return nil, fmt.Errorf("failed to insert matches: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TournamentStore) GetTournament(ctx context.Context, id string) (*bracket.Tournament, error) {
	return loadTournament(ctx, s.db, id)
}

// ListTournaments returns every tournament, most recent first.
func (s *TournamentStore) ListTournaments(ctx context.Context) ([]bracket.Tournament, error) {
	var rows []tournamentRow
	if err := s.db.SelectContext(ctx, &rows, selectTournamentsQuery); err != nil {
		return nil, err
	}

	var participants []participantRow
	if err := s.db.SelectContext(ctx, &participants, selectAllParticipantsQuery); err != nil {
		return nil, err
	}
	var matches []matchRow
	if err := s.db.SelectContext(ctx, &matches, selectAllMatchesQuery); err != nil {
		return nil, err
	}

	participantsByTournament := make(map[string][]bracket.Participant)
	for _, p := range participants {
		participantsByTournament[p.TournamentID] = append(participantsByTournament[p.TournamentID], p.Participant)
	}
	matchesByTournament := make(map[string][]bracket.Match)
	for _, m := range matches {
		matchesByTournament[m.TournamentID] = append(matchesByTournament[m.TournamentID], m.Match)
	}

	tournaments := make([]bracket.Tournament, 0, len(rows))
	for _, row := range rows {
		tournaments = append(tournaments, assemble(row, participantsByTournament[row.ID], matchesByTournament[row.ID]))
	}
	return tournaments, nil
}

// UpdateTournament merges u into the stored tournament and returns the merged record.
func (s *TournamentStore) UpdateTournament(ctx context.Context, id string, u TournamentUpdate) (*bracket.Tournament, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var row tournamentRow
	if err := tx.GetContext(ctx, &row, selectTournamentQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}

	if u.Name != nil {
		row.Name = *u.Name
	}
	if u.Status != nil {
		row.Status = *u.Status
	}
	if u.Winner != nil {
		row.WinnerID = &u.Winner.ID
	}
	if _, err := tx.NamedExecContext(ctx, updateTournamentQuery, row); err != nil {
		return nil, fmt.Errorf("failed to update tournament: %w", err)
	}

	if len(u.Matches) > 0 {
		stmt, err := tx.PrepareNamedContext(ctx, updateMatchQuery)
		if err != nil {
			return nil, err
		}
		defer stmt.Close()

		for _, m := range u.Matches {
			res, err := stmt.ExecContext(ctx, matchRow{TournamentID: id, Match: m})
			if err != nil {
				return nil, fmt.Errorf("failed to update match %d: %w", m.ID, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return nil, fmt.Errorf("failed to count updated rows for match %d: %w", m.ID, err)
			}
			if n == 0 {
				return nil, fmt.Errorf("match %d does not belong to tournament %s", m.ID, id)
			}
		}
	}

	t, err := loadTournament(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	return t, tx.Commit()
}

// DeleteTournament removes the aggregate. Unknown ids are not an error.
func (s *TournamentStore) DeleteTournament(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, deleteTournamentQuery, id)
	return err
}

func loadTournament(ctx context.Context, q sqlx.QueryerContext, id string) (*bracket.Tournament, error) {
	var row tournamentRow
	if err := sqlx.GetContext(ctx, q, &row, selectTournamentQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}

	var participants []participantRow
	if err := sqlx.SelectContext(ctx, q, &participants, selectParticipantsQuery, id); err != nil {
		return nil, err
	}
	var matches []matchRow
	if err := sqlx.SelectContext(ctx, q, &matches, selectMatchesQuery, id); err != nil {
		return nil, err
	}

	ps := make([]bracket.Participant, len(participants))
	for i, p := range participants {
		ps[i] = p.Participant
	}
	ms := make([]bracket.Match, len(matches))
	for i, m := range matches {
		ms[i] = m.Match
	}

	t := assemble(row, ps, ms)
	return &t, nil
}

func assemble(row tournamentRow, participants []bracket.Participant, matches []bracket.Match) bracket.Tournament {
	t := bracket.Tournament{
		ID:           row.ID,
		Name:         row.Name,
		Size:         row.Size,
		Participants: participants,
		Matches:      matches,
		Status:       row.Status,
		CreatedAt:    row.CreatedAt,
	}
	if row.WinnerID != nil {
		if p := t.Participant(*row.WinnerID); p != nil {
			w := *p
			t.Winner = &w
		}
	}
	return t
}
