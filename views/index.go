package views

import (
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/samwell-mp4/samwell/internal/bracket"
)

func Index(tournaments []bracket.Tournament, flash string) templ.Component {
	summaries := make([]TournamentSummary, 0, len(tournaments))
	for _, t := range tournaments {
		summaries = append(summaries, Summarize(t))
	}
	return layout("Tournaments", tournamentList(summaries, flash))
}

func tournamentList(summaries []TournamentSummary, flash string) templ.Component {
	return component(func(m *markup) {
		m.child(flashMessage(flash, "status"))
		m.raw("<h1>Tournaments</h1>\n")
		if len(summaries) == 0 {
			m.raw(`<p>No tournaments yet. <a href="/tournaments/new">Create one.</a></p>` + "\n")
			return
		}
		m.raw("<table>\n<thead>\n")
		m.raw("<tr><th>Name</th><th>Status</th><th>Participants</th><th>Winner</th><th>Created</th><th></th></tr>\n")
		m.raw("</thead>\n<tbody>\n")
		for _, s := range summaries {
			m.child(tournamentRow(s))
		}
		m.raw("</tbody>\n</table>\n")
	})
}

func tournamentRow(s TournamentSummary) templ.Component {
	page := templ.URL("/tournaments/" + url.PathEscape(s.ID))
	remove := templ.URL("/tournaments/" + url.PathEscape(s.ID) + "/delete")

	return component(func(m *markup) {
		m.raw("<tr>\n<td><a href=\"")
		m.url(page)
		m.raw(`">`)
		m.text(s.Name)
		m.raw("</a></td>\n<td>")
		m.child(statusBadge(s.Status))
		m.raw("</td>\n<td>")
		m.text(strconv.Itoa(s.Participants))
		m.raw(" / ")
		m.text(strconv.Itoa(s.Size))
		m.raw("</td>\n<td>")
		m.text(s.Winner)
		m.raw("</td>\n<td>")
		m.text(formatDate(s.CreatedAt))
		m.raw("</td>\n<td>\n")

		m.raw(`<form method="post" action="`)
		m.url(remove)
		m.raw(`" hx-post="`)
		m.url(remove)
		m.raw(`" hx-confirm="`)
		m.text("Delete " + s.Name + "?")
		m.raw(`"><button type="submit">Delete</button></form>`)
		m.raw("\n</td>\n</tr>\n")
	})
}
