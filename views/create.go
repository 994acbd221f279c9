package views

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/samwell-mp4/samwell/internal/bracket"
)

type CreateForm struct {
	Name         string
	Size         bracket.Size
	Participants string
	Error        string
}

func CreateTournamentPage(form CreateForm) templ.Component {
	return layout("New tournament", component(func(m *markup) {
		m.raw("<h1>New tournament</h1>\n")
		m.child(CreateTournamentForm(form))
	}))
}

// CreateTournamentForm renders only the form, for swapping after a rejected submit.
func CreateTournamentForm(form CreateForm) templ.Component {
	if !form.Size.Valid() {
		form.Size = bracket.Size8
	}

	return component(func(m *markup) {
		m.raw(`<form id="create-form" method="post" action="/tournaments" hx-post="/tournaments" hx-swap="outerHTML">` + "\n")
		if form.Error != "" {
			m.raw(`<p class="error" role="alert">`)
			m.text(form.Error)
			m.raw("</p>\n")
		}

		m.raw(`<label>Name <input name="name" value="`)
		m.text(form.Name)
		m.raw(`" maxlength="50" required></label>` + "\n")

		m.raw(`<label>Size <select name="size">` + "\n")
		for _, size := range bracket.Sizes {
			value := strconv.Itoa(int(size))
			m.raw(`<option value="`)
			m.text(value)
			m.raw(`"`)
			if size == form.Size {
				m.raw(" selected")
			}
			m.raw(">")
			m.text(value)
			m.raw(" slots</option>\n")
		}
		m.raw("</select></label>\n")

		m.raw(`<label>Participants, one per line <textarea name="participants" rows="12">`)
		m.text(form.Participants)
		m.raw("</textarea></label>\n")
		m.raw(`<button type="submit">Create bracket</button>` + "\n</form>\n")
	})
}
