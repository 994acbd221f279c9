package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/samwell-mp4/samwell/internal/bracket"
	"github.com/samwell-mp4/samwell/internal/httputil"
	"github.com/samwell-mp4/samwell/internal/middleware"
	"github.com/samwell-mp4/samwell/internal/service"
	"github.com/samwell-mp4/samwell/internal/store"
	"github.com/samwell-mp4/samwell/views"
)

const (
	flashRestored = "The result could not be saved. The bracket was restored."
	flashDeleted  = "Tournament deleted."
)

func newRouter(sessionManager *scs.SessionManager, tournaments *service.TournamentService, gatherer prometheus.Gatherer, corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		apiRoutes(r, tournaments, corsOrigins)
	})

	r.Group(func(r chi.Router) {
		r.Use(sessionManager.LoadAndSave)
		r.Use(middleware.LoadFlash(sessionManager))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			list, err := tournaments.ListTournaments(r.Context())
			if err != nil {
				httputil.InternalServerError(w, "Failed to get tournaments", err)
				return
			}
			views.Render(w, r, views.Index(list, middleware.GetFlash(r.Context())))
		})

		r.Get("/tournaments/new", func(w http.ResponseWriter, r *http.Request) {
			views.Render(w, r, views.CreateTournamentPage(views.CreateForm{Size: bracket.Size8}))
		})

		r.Post("/tournaments", func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				httputil.BadRequest(w, "Invalid form data", err)
				return
			}
			form := views.CreateForm{
				Name:         r.Form.Get("name"),
				Participants: r.Form.Get("participants"),
			}
			size, err := strconv.Atoi(r.Form.Get("size"))
			if err != nil {
				httputil.BadRequest(w, "Invalid bracket size", err)
				return
			}
			form.Size = bracket.Size(size)

			created, err := tournaments.CreateTournament(r.Context(), form.Name, size, service.ParticipantsFromLines(form.Participants))
			if err != nil {
				if !errors.Is(err, service.ErrInvalidInput) {
					httputil.InternalServerError(w, "Failed to create tournament", err)
					return
				}
				form.Error = err.Error()
				if isHTMX(r) {
					views.Render(w, r, views.CreateTournamentForm(form))
					return
				}
				w.WriteHeader(http.StatusBadRequest)
				views.Render(w, r, views.CreateTournamentPage(form))
				return
			}

			redirect(w, r, fmt.Sprintf("/tournaments/%s", created.ID))
		})

		r.Get("/tournaments/{id}", func(w http.ResponseWriter, r *http.Request) {
			t, err := tournaments.GetTournament(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					httputil.NotFound(w, "Tournament not found", err)
					return
				}
				httputil.InternalServerError(w, "Failed to get tournament", err)
				return
			}
			views.Render(w, r, views.TournamentView(*t, middleware.GetFlash(r.Context())))
		})

		r.Post("/tournaments/{id}/matches/{matchID}/winner", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			matchID, err := strconv.Atoi(chi.URLParam(r, "matchID"))
			if err != nil {
				httputil.BadRequest(w, "Invalid match ID", err)
				return
			}
			if err := r.ParseForm(); err != nil {
				httputil.BadRequest(w, "Invalid form data", err)
				return
			}
			winnerID, err := strconv.Atoi(r.Form.Get("winner_id"))
			if err != nil {
				httputil.BadRequest(w, "Invalid winner ID", err)
				return
			}

			t, err := tournaments.SelectWinner(r.Context(), id, matchID, winnerID)
			var flash string
			switch {
			case err == nil:
			case errors.Is(err, store.ErrNotFound):
				httputil.NotFound(w, "Tournament not found", err)
				return
			case errors.Is(err, bracket.ErrMatchNotFound):
				httputil.NotFound(w, "Match not found", err)
				return
			case errors.Is(err, service.ErrPersistFailed):
				flash = flashRestored
			case bracket.IsGuardError(err):
				flash = err.Error()
			default:
				httputil.InternalServerError(w, "Failed to record winner", err)
				return
			}

			if isHTMX(r) {
				views.Render(w, r, views.Bracket(*t, flash))
				return
			}
			if flash != "" {
				middleware.SetFlash(sessionManager, r.Context(), flash)
			}
			http.Redirect(w, r, fmt.Sprintf("/tournaments/%s", id), http.StatusSeeOther)
		})

		r.Post("/tournaments/{id}/delete", func(w http.ResponseWriter, r *http.Request) {
			if err := tournaments.DeleteTournament(r.Context(), chi.URLParam(r, "id")); err != nil {
				httputil.InternalServerError(w, "Failed to delete tournament", err)
				return
			}
			middleware.SetFlash(sessionManager, r.Context(), flashDeleted)
			redirect(w, r, "/")
		})
	})

	return r
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") != ""
}

// redirect sends HTMX requests an HX-Redirect and everything else a 303.
func redirect(w http.ResponseWriter, r *http.Request, url string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
