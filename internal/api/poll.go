package api

import (
	"log/slog"
	"net/http"

	v1 "github.com/jdholdren/podsite/api/poll/v1"
	siteerrs "github.com/jdholdren/podsite/internal/errors"
	"github.com/jdholdren/podsite/internal/poll"
	"github.com/jdholdren/podsite/internal/serverutil"
	"github.com/jdholdren/podsite/logger"
)

func (s Server) getPoll(w http.ResponseWriter, r *http.Request) error {
	id := r.URL.Query().Get("id")
	if id == "" {
		return siteerrs.E(http.StatusBadRequest, "Missing poll id")
	}

	votes, err := s.store.Votes(r.Context(), id)
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, v1.VotesResponse{Votes: votes})
}

func (s Server) postPoll(w http.ResponseWriter, r *http.Request) error {
	body, err := serverutil.DecodeValid[v1.VoteRequest](r.Body)
	if err != nil {
		return err
	}

	ctx := logger.Ctx(r.Context(), slog.String("poll_id", body.ID))
	if err := poll.ValidateOption(string(body.Option)); err != nil {
		slog.InfoContext(ctx, "refused option", "error", err)
		return siteerrs.E(http.StatusUnprocessableEntity, err)
	}

	votes, err := s.store.Increment(ctx, body.ID, string(body.Option))
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, v1.VotesResponse{Votes: votes})
}
