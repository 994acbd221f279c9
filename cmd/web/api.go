package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/samwell-mp4/samwell/internal/bracket"
	"github.com/samwell-mp4/samwell/internal/httputil"
	"github.com/samwell-mp4/samwell/internal/service"
	"github.com/samwell-mp4/samwell/internal/store"
)

type createTournamentRequest struct {
	Name         string `json:"name"`
	Size         int    `json:"size"`
	Participants []struct {
		Name   string `json:"name"`
		Avatar string `json:"avatar"`
	} `json:"participants"`
}

type selectWinnerRequest struct {
	WinnerID int `json:"winnerId"`
}

// persistFailureResponse carries the restored bracket so clients can redraw it.
type persistFailureResponse struct {
	Error      string             `json:"error"`
	Tournament bracket.Tournament `json:"tournament"`
}

func apiRoutes(r chi.Router, tournaments *service.TournamentService, corsOrigins []string) {
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(chimiddleware.AllowContentType("application/json"))

	r.Get("/tournaments", func(w http.ResponseWriter, r *http.Request) {
		list, err := tournaments.ListTournaments(r.Context())
		if err != nil {
			httputil.JSONError(w, http.StatusInternalServerError, "failed to list tournaments", err)
			return
		}
		if list == nil {
			list = []bracket.Tournament{}
		}
		httputil.WriteJSON(w, http.StatusOK, list)
	})

	r.Post("/tournaments", func(w http.ResponseWriter, r *http.Request) {
		var req createTournamentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.JSONError(w, http.StatusBadRequest, "invalid request body", err)
			return
		}

		inputs := make([]service.ParticipantInput, len(req.Participants))
		for i, p := range req.Participants {
			inputs[i] = service.ParticipantInput{Name: p.Name, Avatar: p.Avatar}
		}

		created, err := tournaments.CreateTournament(r.Context(), req.Name, req.Size, inputs)
		if err != nil {
			if errors.Is(err, service.ErrInvalidInput) {
				httputil.JSONError(w, http.StatusBadRequest, err.Error(), err)
				return
			}
			httputil.JSONError(w, http.StatusInternalServerError, "failed to create tournament", err)
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, created)
	})

	r.Get("/tournaments/{id}", func(w http.ResponseWriter, r *http.Request) {
		t, err := tournaments.GetTournament(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeAPIError(w, err, "failed to get tournament")
			return
		}
		httputil.WriteJSON(w, http.StatusOK, t)
	})

	r.Delete("/tournaments/{id}", func(w http.ResponseWriter, r *http.Request) {
		if err := tournaments.DeleteTournament(r.Context(), chi.URLParam(r, "id")); err != nil {
			httputil.JSONError(w, http.StatusInternalServerError, "failed to delete tournament", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Post("/tournaments/{id}/matches/{matchID}/winner", func(w http.ResponseWriter, r *http.Request) {
		matchID, err := strconv.Atoi(chi.URLParam(r, "matchID"))
		if err != nil {
			httputil.JSONError(w, http.StatusBadRequest, "invalid match id", err)
			return
		}
		var req selectWinnerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.JSONError(w, http.StatusBadRequest, "invalid request body", err)
			return
		}

		t, err := tournaments.SelectWinner(r.Context(), chi.URLParam(r, "id"), matchID, req.WinnerID)
		if err != nil {
			if errors.Is(err, service.ErrPersistFailed) {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, persistFailureResponse{
					Error:      err.Error(),
					Tournament: *t,
				})
				return
			}
			writeAPIError(w, err, "failed to record winner")
			return
		}
		httputil.WriteJSON(w, http.StatusOK, t)
	})
}

func writeAPIError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, bracket.ErrMatchNotFound):
		httputil.JSONError(w, http.StatusNotFound, err.Error(), err)
	case bracket.IsGuardError(err):
		httputil.JSONError(w, http.StatusConflict, err.Error(), err)
	default:
		httputil.JSONError(w, http.StatusInternalServerError, msg, err)
	}
}
