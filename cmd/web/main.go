package main

import (
	"log"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/samwell-mp4/samwell/internal/bracket"
	"github.com/samwell-mp4/samwell/internal/config"
	"github.com/samwell-mp4/samwell/internal/db"
	"github.com/samwell-mp4/samwell/internal/metrics"
	"github.com/samwell-mp4/samwell/internal/service"
	"github.com/samwell-mp4/samwell/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	database := db.InitDB(cfg.DBPath)
	defer database.Close()

	if err := db.RunMigrations(database); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.SessionLifetime
	sessionManager.Store = sqlite3store.New(database.DB)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	tournaments := service.NewTournamentService(
		store.NewTournamentStore(database),
		service.WithMetrics(metrics.New(registry)),
		service.WithListener(func(t bracket.Tournament) {
			slog.Debug("bracket updated", "tournament", t.ID, "status", t.Status)
		}),
	)

	router := newRouter(sessionManager, tournaments, registry, cfg.CORSOrigins)

	log.Printf("Server starting on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatal(err)
	}
}
