package views

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"github.com/samwell-mp4/samwell/internal/bracket"
)

func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	return component.Render(r.Context(), w)
}

// markup writes a component's HTML and keeps the first error, so components
// can be read top to bottom.
type markup struct {
	ctx context.Context
	w   io.Writer
	err error
}

func component(fn func(m *markup)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := &markup{ctx: ctx, w: w}
		fn(m)
		return m.err
	})
}

func (m *markup) raw(s string) {
	if m.err != nil {
		return
	}
	_, m.err = io.WriteString(m.w, s)
}

// text writes s escaped, safe for element content and quoted attribute values.
func (m *markup) text(s string, errs ...error) {
	v, err := templ.JoinStringErrs(s, errs...)
	if err != nil {
		if m.err == nil {
			m.err = err
		}
		return
	}
	m.raw(templ.EscapeString(v))
}

func (m *markup) url(u templ.SafeURL) {
	m.raw(templ.EscapeString(string(u)))
}

func (m *markup) child(c templ.Component) {
	if m.err != nil {
		return
	}
	m.err = c.Render(m.ctx, m.w)
}

const styles = `
body { font-family: system-ui, sans-serif; background: #0f172a; color: #e2e8f0; margin: 0; }
header { display: flex; gap: 1.5rem; padding: 1rem 2rem; background: #1e293b; }
header a { color: #e2e8f0; text-decoration: none; font-weight: 600; }
main { padding: 2rem; }
.flash { background: #7f1d1d; padding: .75rem 1rem; border-radius: .5rem; margin-bottom: 1rem; }
.badge { font-size: .75rem; padding: .2rem .6rem; border-radius: 999px; background: #1d4ed8; }
.badge.completed { background: #15803d; }
.rounds { display: flex; gap: 2rem; overflow-x: auto; }
.round { display: flex; flex-direction: column; justify-content: space-around; min-width: 220px; gap: 1rem; }
.match { background: #1e293b; border-radius: .5rem; padding: .5rem; }
.slot { display: flex; align-items: center; gap: .5rem; width: 100%; padding: .4rem; border: 0; background: none; color: inherit; text-align: left; }
button.slot { cursor: pointer; }
button.slot:hover { background: #334155; }
.slot.empty { color: #94a3b8; font-style: italic; }
.slot.winner { font-weight: 700; color: #4ade80; }
.slot.loser { color: #64748b; text-decoration: line-through; }
.avatar { width: 24px; height: 24px; border-radius: 50%; }
.champion { font-size: 1.25rem; margin-bottom: 1rem; }
.error { color: #f87171; }
label { display: block; margin-bottom: 1rem; }
`

func layout(title string, content templ.Component) templ.Component {
	return component(func(m *markup) {
		m.raw("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
		m.raw("<meta charset=\"utf-8\">\n<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
		m.raw("<title>")
		m.text(title)
		m.raw(" | Brackets</title>\n")
		m.raw("<script src=\"https://unpkg.com/htmx.org@2.0.4\"></script>\n")
		m.raw("<style>" + styles + "</style>\n</head>\n<body>\n")
		m.raw("<header>\n<a href=\"/\">Brackets</a>\n<a href=\"/tournaments/new\">New tournament</a>\n</header>\n")
		m.raw("<main>\n")
		m.child(content)
		m.raw("</main>\n</body>\n</html>\n")
	})
}

func flashMessage(msg, role string) templ.Component {
	return component(func(m *markup) {
		if msg == "" {
			return
		}
		m.raw(`<div class="flash" role="`)
		m.text(role)
		m.raw(`">`)
		m.text(msg)
		m.raw("</div>\n")
	})
}

func statusBadge(s bracket.Status) templ.Component {
	return component(func(m *markup) {
		m.raw(`<span class="badge `)
		m.text(string(s))
		m.raw(`">`)
		m.text(statusLabel(s))
		m.raw("</span>")
	})
}

func statusLabel(s bracket.Status) string {
	switch s {
	case bracket.StatusActive:
		return "Active"
	case bracket.StatusCompleted:
		return "Completed"
	case bracket.StatusConfiguring:
		return "Configuring"
	}
	return string(s)
}

func formatDate(t time.Time) string {
	return t.Local().Format("02 Jan 2006 15:04")
}
