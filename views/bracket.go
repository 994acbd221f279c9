package views

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/samwell-mp4/samwell/internal/bracket"
)

func TournamentView(t bracket.Tournament, flash string) templ.Component {
	data := PrepareBracketData(t)
	return layout(t.Name, component(func(m *markup) {
		m.raw("<h1>")
		m.text(t.Name)
		m.raw(" ")
		m.child(statusBadge(t.Status))
		m.raw("</h1>\n")
		m.child(bracketSection(data, flash))
	}))
}

// Bracket renders the bracket section alone. HTMX swaps it in after a result is recorded.
func Bracket(t bracket.Tournament, flash string) templ.Component {
	return bracketSection(PrepareBracketData(t), flash)
}

func bracketSection(data BracketData, flash string) templ.Component {
	return component(func(m *markup) {
		m.raw(`<section id="bracket">` + "\n")
		m.child(flashMessage(flash, "alert"))
		if data.Champion != nil {
			m.raw(`<div class="champion">Champion: <strong>`)
			m.text(data.Champion.Name)
			m.raw("</strong></div>\n")
		}

		m.raw(`<div class="rounds">` + "\n")
		for _, round := range data.Rounds {
			m.raw(`<div class="round">` + "\n<h3>")
			m.text(round.Title)
			m.raw("</h3>\n")
			for _, match := range round.Matches {
				m.child(matchCard(data.TournamentID, match))
			}
			m.raw("</div>\n")
		}
		m.raw("</div>\n</section>\n")
	})
}

func matchCard(tournamentID string, match MatchView) templ.Component {
	action := templ.URL(fmt.Sprintf("/tournaments/%s/matches/%d/winner", url.PathEscape(tournamentID), match.ID))
	class := "match"
	if match.Bye {
		class += " bye"
	}

	return component(func(m *markup) {
		m.raw(`<div class="`)
		m.text(class)
		m.raw(`" id="match-`)
		m.text(strconv.Itoa(match.ID))
		m.raw(`">` + "\n")

		for _, s := range match.Slots {
			if !match.Playable {
				m.raw(`<div class="`)
				m.text(slotClass(s))
				m.raw(`">`)
				m.child(slot(s))
				m.raw("</div>\n")
				continue
			}

			m.raw(`<form method="post" action="`)
			m.url(action)
			m.raw(`" hx-post="`)
			m.url(action)
			m.raw(`" hx-target="#bracket" hx-swap="outerHTML">` + "\n")
			m.raw(`<input type="hidden" name="winner_id" value="`)
			m.text(strconv.Itoa(s.ID))
			m.raw(`">` + "\n")
			m.raw(`<button type="submit" class="slot">`)
			m.child(slot(s))
			m.raw("</button>\n</form>\n")
		}
		m.raw("</div>\n")
	})
}

func slot(s SlotView) templ.Component {
	return component(func(m *markup) {
		if s.Avatar != "" {
			m.raw(`<img src="`)
			m.url(templ.URL(s.Avatar))
			m.raw(`" alt="" class="avatar">`)
		}
		m.raw("<span>")
		m.text(s.Name)
		m.raw("</span>")
	})
}

func slotClass(s SlotView) string {
	class := "slot"
	if s.Winner {
		class += " winner"
	}
	if s.Loser {
		class += " loser"
	}
	if !s.Filled {
		class += " empty"
	}
	return class
}
