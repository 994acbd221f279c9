package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"unicode/utf8"

	"github.com/samwell-mp4/samwell/internal/bracket"
	"github.com/samwell-mp4/samwell/internal/metrics"
	"github.com/samwell-mp4/samwell/internal/store"
	"github.com/samwell-mp4/samwell/internal/utils"
)

var (
	ErrInvalidInput  = errors.New("invalid tournament input")
	ErrPersistFailed = errors.New("failed to save tournament")
)

const (
	MinParticipants = 2
	MaxNameLength   = 50
)

// TournamentRepository is the storage the service needs. *store.TournamentStore implements it.
type TournamentRepository interface {
	CreateTournament(ctx context.Context, t bracket.Tournament) (*bracket.Tournament, error)
	GetTournament(ctx context.Context, id string) (*bracket.Tournament, error)
	ListTournaments(ctx context.Context) ([]bracket.Tournament, error)
	UpdateTournament(ctx context.Context, id string, u store.TournamentUpdate) (*bracket.Tournament, error)
	DeleteTournament(ctx context.Context, id string) error
}

type ParticipantInput struct {
	Name   string
	Avatar string
}

type TournamentService struct {
	store    TournamentRepository
	metrics  *metrics.Metrics
	rng      *rand.Rand
	listener func(bracket.Tournament)
}

type Option func(*TournamentService)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *TournamentService) { s.metrics = m }
}

// WithRand fixes the shuffle source, mostly for tests.
func WithRand(rng *rand.Rand) Option {
	return func(s *TournamentService) { s.rng = rng }
}

// WithListener is called with the new state as soon as a result is applied,
// and again with the previous state if saving it fails.
func WithListener(fn func(bracket.Tournament)) Option {
	return func(s *TournamentService) { s.listener = fn }
}

func NewTournamentService(store TournamentRepository, opts ...Option) *TournamentService {
	s := &TournamentService{store: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New(nil)
	}
	return s
}

// ParticipantsFromLines turns one name per line into inputs, skipping blank lines.
func ParticipantsFromLines(text string) []ParticipantInput {
	var inputs []ParticipantInput
	for _, line := range strings.Split(text, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			inputs = append(inputs, ParticipantInput{Name: name})
		}
	}
	return inputs
}

func (s *TournamentService) CreateTournament(ctx context.Context, name string, size int, inputs []ParticipantInput) (*bracket.Tournament, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: tournament name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return nil, fmt.Errorf("%w: tournament name exceeds %d characters", ErrInvalidInput, MaxNameLength)
	}

	bracketSize, err := bracket.ParseSize(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var participants []bracket.Participant
	for _, input := range inputs {
		entryName := strings.TrimSpace(input.Name)
		if entryName == "" {
			continue
		}
		if utf8.RuneCountInString(entryName) > MaxNameLength {
			return nil, fmt.Errorf("%w: participant name '%s' exceeds %d characters", ErrInvalidInput, entryName, MaxNameLength)
		}
		participants = append(participants, bracket.Participant{
			ID:     len(participants) + 1,
			Name:   entryName,
			Avatar: utils.StringOrNil(input.Avatar),
		})
	}

	if len(participants) < MinParticipants {
		return nil, fmt.Errorf("%w: at least %d participants are required", ErrInvalidInput, MinParticipants)
	}
	if len(participants) > int(bracketSize) {
		return nil, fmt.Errorf("%w: %d participants exceed the bracket size of %d", ErrInvalidInput, len(participants), bracketSize)
	}

	t := bracket.NewTournament(name, bracketSize, participants, s.rng)
	if err := bracket.Validate(t); err != nil {
		return nil, fmt.Errorf("generated bracket is invalid: %w", err)
	}

	created, err := s.store.CreateTournament(ctx, t)
	if err != nil {
		s.metrics.ObservePersistFailure("create")
		return nil, fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	s.metrics.ObserveCreated(*created)
	slog.Info("tournament created", "id", created.ID, "size", int(created.Size), "participants", len(created.Participants))
	return created, nil
}

func (s *TournamentService) GetTournament(ctx context.Context, id string) (*bracket.Tournament, error) {
	return s.store.GetTournament(ctx, id)
}

func (s *TournamentService) ListTournaments(ctx context.Context) ([]bracket.Tournament, error) {
	return s.store.ListTournaments(ctx)
}

func (s *TournamentService) DeleteTournament(ctx context.Context, id string) error {
	if err := s.store.DeleteTournament(ctx, id); err != nil {
		s.metrics.ObservePersistFailure("delete")
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}
	slog.Info("tournament deleted", "id", id)
	return nil
}

// SelectWinner applies a match result, then saves it. If saving fails the
// previous state is announced again and returned with ErrPersistFailed.
// Rejected calls return the current state with the bracket guard error.
func (s *TournamentService) SelectWinner(ctx context.Context, tournamentID string, matchID, winnerID int) (*bracket.Tournament, error) {
	current, err := s.store.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	next, err := bracket.SelectWinner(*current, matchID, winnerID)
	if err != nil {
		if !bracket.IsGuardError(err) {
			slog.Error("bracket invariant violated", "tournament", tournamentID, "match", matchID, "error", err)
		}
		return current, err
	}

	s.notify(next)

	update := store.TournamentUpdate{
		Matches: bracket.ChangedMatches(current.Matches, next.Matches),
	}
	if next.Status != current.Status {
		update.Status = &next.Status
		update.Winner = next.Winner
	}

	saved, err := s.store.UpdateTournament(ctx, tournamentID, update)
	if err != nil {
		slog.Warn("failed to save match result, restoring previous bracket", "tournament", tournamentID, "match", matchID, "error", err)
		s.metrics.ObservePersistFailure("update")
		s.notify(*current)
		return current, fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	s.metrics.ObserveDecision(*current, next)
	if saved.Status == bracket.StatusCompleted && saved.Winner != nil {
		slog.Info("tournament completed", "id", saved.ID, "winner", saved.Winner.Name)
	}
	return saved, nil
}

func (s *TournamentService) notify(t bracket.Tournament) {
	if s.listener != nil {
		s.listener(t)
	}
}
