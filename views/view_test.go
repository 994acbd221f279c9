package views

import (
	"bytes"
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samwell-mp4/samwell/internal/bracket"
	"github.com/samwell-mp4/samwell/internal/utils"
)

func newTournament(n int, size bracket.Size) bracket.Tournament {
	participants := make([]bracket.Participant, n)
	for i := range participants {
		participants[i] = bracket.Participant{ID: i + 1, Name: fmt.Sprintf("Player %d", i+1)}
	}
	t := bracket.NewTournament("Friday Cup", size, participants, rand.New(rand.NewPCG(1, 2)))
	t.ID = "t-1"
	t.CreatedAt = time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)
	return t
}

func playAll(t *testing.T, tournament bracket.Tournament) bracket.Tournament {
	t.Helper()
	for tournament.Status == bracket.StatusActive {
		progressed := false
		for i := range tournament.Matches {
			m := &tournament.Matches[i]
			if !tournament.Playable(m) {
				continue
			}
			next, err := bracket.SelectWinner(tournament, m.ID, *m.Participant1ID)
			require.NoError(t, err)
			tournament = next
			progressed = true
			break
		}
		require.True(t, progressed, "bracket stalled")
	}
	return tournament
}

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestPrepareBracketData_FullBracket(t *testing.T) {
	data := PrepareBracketData(newTournament(8, bracket.Size8))

	assert.Equal(t, "t-1", data.TournamentID)
	assert.Nil(t, data.Champion)
	require.Len(t, data.Rounds, 3)

	titles := []string{"Quarterfinals", "Semifinals", "Final"}
	for i, round := range data.Rounds {
		assert.Equal(t, i+1, round.Number)
		assert.Equal(t, titles[i], round.Title)
		assert.Len(t, round.Matches, 4>>i)
	}

	for _, m := range data.Rounds[0].Matches {
		assert.True(t, m.Playable)
		assert.False(t, m.Bye)
		assert.True(t, m.Slots[0].Filled)
		assert.True(t, m.Slots[1].Filled)
		assert.NotEqual(t, m.Slots[0].ID, m.Slots[1].ID)
	}
	for _, m := range data.Rounds[1].Matches {
		assert.False(t, m.Playable)
		assert.Equal(t, "To be decided", m.Slots[0].Name)
		assert.False(t, m.Slots[0].Filled)
	}
}

func TestPrepareBracketData_RoundTitles(t *testing.T) {
	data := PrepareBracketData(newTournament(32, bracket.Size32))

	require.Len(t, data.Rounds, 5)
	assert.Equal(t, "Round 1", data.Rounds[0].Title)
	assert.Equal(t, "Round 2", data.Rounds[1].Title)
	assert.Equal(t, "Quarterfinals", data.Rounds[2].Title)
}

func TestPrepareBracketData_Byes(t *testing.T) {
	data := PrepareBracketData(newTournament(5, bracket.Size8))

	byes := 0
	for _, m := range data.Rounds[0].Matches {
		if !m.Bye {
			continue
		}
		byes++
		assert.False(t, m.Playable)
		assert.True(t, m.Slots[0].Winner)
		assert.Equal(t, "Bye", m.Slots[1].Name)
	}
	assert.Equal(t, 1, byes)
}

func TestPrepareBracketData_Completed(t *testing.T) {
	tournament := playAll(t, newTournament(8, bracket.Size8))
	data := PrepareBracketData(tournament)

	require.NotNil(t, data.Champion)
	assert.Equal(t, tournament.Winner.ID, data.Champion.ID)

	final := data.Rounds[2].Matches[0]
	assert.False(t, final.Playable)
	assert.True(t, final.Slots[0].Winner)
	assert.True(t, final.Slots[1].Loser)
}

func TestSlotView_Avatar(t *testing.T) {
	tournament := newTournament(8, bracket.Size8)
	for i := range tournament.Participants {
		tournament.Participants[i].Avatar = utils.Ptr("https://example.com/a.png")
	}

	data := PrepareBracketData(tournament)
	assert.Equal(t, "https://example.com/a.png", data.Rounds[0].Matches[0].Slots[0].Avatar)
}

func TestSummarize(t *testing.T) {
	active := Summarize(newTournament(5, bracket.Size16))
	assert.Equal(t, 5, active.Participants)
	assert.Equal(t, 16, active.Size)
	assert.Equal(t, "To be decided", active.Winner)

	done := Summarize(playAll(t, newTournament(8, bracket.Size8)))
	assert.Equal(t, bracket.StatusCompleted, done.Status)
	assert.NotEqual(t, "To be decided", done.Winner)
}

func TestIndex(t *testing.T) {
	completed := playAll(t, newTournament(8, bracket.Size8))
	completed.ID = "t-2"
	completed.Name = "Sunday <Cup>"

	html := renderString(t, Index([]bracket.Tournament{newTournament(5, bracket.Size8), completed}, "Tournament deleted"))

	assert.Contains(t, html, "Friday Cup")
	assert.Contains(t, html, "Sunday &lt;Cup&gt;")
	assert.Contains(t, html, "5 / 8")
	assert.Contains(t, html, "Active")
	assert.Contains(t, html, "Completed")
	assert.Contains(t, html, `href="/tournaments/t-2"`)
	assert.Contains(t, html, "Tournament deleted")
}

func TestIndex_Empty(t *testing.T) {
	html := renderString(t, Index(nil, ""))
	assert.Contains(t, html, "No tournaments yet")
	assert.NotContains(t, html, `class="flash"`)
}

func TestCreateTournamentPage(t *testing.T) {
	html := renderString(t, CreateTournamentPage(CreateForm{
		Name:         "Cup",
		Size:         bracket.Size16,
		Participants: "Ana\nBruno",
		Error:        "at least 2 participants are required",
	}))

	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, `value="16" selected`)
	assert.Contains(t, html, "Ana\nBruno")
	assert.Contains(t, html, "at least 2 participants are required")

	fragment := renderString(t, CreateTournamentForm(CreateForm{}))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(fragment), `<form id="create-form"`))
	assert.Contains(t, fragment, `value="8" selected`)
}

func TestTournamentView(t *testing.T) {
	tournament := newTournament(8, bracket.Size8)

	html := renderString(t, TournamentView(tournament, ""))
	assert.Contains(t, html, "<title>Friday Cup | Brackets</title>")
	assert.Equal(t, 8, strings.Count(html, `name="winner_id"`), "two buttons per playable quarterfinal")
	assert.Contains(t, html, fmt.Sprintf("/tournaments/t-1/matches/%d/winner", tournament.Matches[0].ID))
	assert.NotContains(t, html, "Champion")
}

func TestBracket_Fragment(t *testing.T) {
	tournament := playAll(t, newTournament(8, bracket.Size8))

	html := renderString(t, Bracket(tournament, "Result could not be saved"))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(html), `<section id="bracket">`))
	assert.Contains(t, html, "Result could not be saved")
	assert.Contains(t, html, "Champion: <strong>"+tournament.Winner.Name+"</strong>")
	assert.NotContains(t, html, `name="winner_id"`)
	assert.NotContains(t, html, "<!DOCTYPE html>")
}

func TestBracket_EscapesUserContent(t *testing.T) {
	tournament := newTournament(8, bracket.Size8)
	tournament.Participants[0].Name = `<script>alert("x")</script>`
	tournament.Participants[1].Avatar = utils.Ptr("javascript:alert(1)")
	tournament.Participants[2].Avatar = utils.Ptr(`https://example.com/a.png?s=1&r="g"`)

	html := renderString(t, TournamentView(tournament, `<b>saved</b>`))

	assert.NotContains(t, html, "<script>alert")
	assert.Contains(t, html, "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;")
	assert.NotContains(t, html, "javascript:alert(1)")
	assert.Contains(t, html, `src="about:invalid#TemplFailedSanitizationURL"`)
	assert.Contains(t, html, `src="https://example.com/a.png?s=1&amp;r=&#34;g&#34;"`)
	assert.Contains(t, html, "&lt;b&gt;saved&lt;/b&gt;")
}

func TestTournamentRow_EscapesID(t *testing.T) {
	tournament := newTournament(2, bracket.Size8)
	tournament.ID = "a b/c"

	html := renderString(t, Index([]bracket.Tournament{tournament}, ""))
	assert.Contains(t, html, `href="/tournaments/a%20b%2Fc"`)
	assert.Contains(t, html, `action="/tournaments/a%20b%2Fc/delete"`)
}
