package api

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	siteerrs "github.com/jdholdren/podsite/internal/errors"
	"github.com/jdholdren/podsite/internal/serverutil"
	"github.com/jdholdren/podsite/internal/stats"
)

func (s Server) getStats(w http.ResponseWriter, r *http.Request) error {
	if s.statsPath == "" {
		return siteerrs.E(http.StatusNotFound, "no stats snapshot")
	}

	info, err := os.Stat(s.statsPath)
	if errors.Is(err, fs.ErrNotExist) {
		return siteerrs.E(http.StatusNotFound, "no stats snapshot")
	}
	if err != nil {
		return err
	}

	if rep, ok := s.reports.Get(info.ModTime()); ok {
		return serverutil.WriteJSON(w, http.StatusOK, rep)
	}

	snapshot, err := stats.Load(s.statsPath)
	if errors.Is(err, stats.ErrNoSnapshot) {
		return siteerrs.E(http.StatusNotFound, "no stats snapshot")
	}
	if err != nil {
		return err
	}

	rep := stats.Build(snapshot)
	s.reports.Add(info.ModTime(), rep)
	slog.InfoContext(r.Context(), "built stats report", "as_of", rep.AsOf)

	return serverutil.WriteJSON(w, http.StatusOK, rep)
}
