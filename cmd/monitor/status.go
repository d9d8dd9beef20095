package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/JurrevE/pararius-monitor/pkg/config"
	"github.com/JurrevE/pararius-monitor/pkg/monitor"
)

type monitorStatus struct {
	Sources        int        `json:"sources"`
	Cycles         int        `json:"cycles"`
	NewListings    int        `json:"new_listings"`
	KnownListings  int        `json:"known_listings"`
	SourceErrors   int        `json:"source_errors"`
	NotifyFailures int        `json:"notify_failures"`
	LastCycle      *time.Time `json:"last_cycle,omitempty"`
}

func newStatusServer(cfg *config.Config, monitors []*monitor.Monitor) *http.Server {
	r := mux.NewRouter()
	r.HandleFunc("/", handleHome(cfg, monitors)).Methods(http.MethodGet)
	r.HandleFunc("/health", handleHealth(monitors)).Methods(http.MethodGet)

	return &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: r,
	}
}

func handleHome(cfg *config.Config, monitors []*monitor.Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{
			"status":         "app_running",
			"check_interval": cfg.Monitor.CheckInterval,
			"monitors":       statusByMonitor(monitors),
		}
		if len(monitors) == 0 {
			body["message"] = "No monitor URLs configured. App is running but no monitoring is active."
		}
		writeJSON(w, http.StatusOK, body)
	}
}

func handleHealth(monitors []*monitor.Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "healthy"
		byMonitor := statusByMonitor(monitors)

		// a monitor that has never completed a cycle after a full interval
		// is worth flagging, but startup itself is not a failure
		for _, m := range monitors {
			if m.Stats().Cycles == 0 && time.Since(m.Stats().StartTime) > 2*time.Minute {
				status = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status":   status,
			"monitors": byMonitor,
		})
	}
}

func statusByMonitor(monitors []*monitor.Monitor) map[string]monitorStatus {
	out := make(map[string]monitorStatus, len(monitors))
	for _, m := range monitors {
		stats := m.Stats()
		s := monitorStatus{
			Sources:        m.SourceCount(),
			Cycles:         stats.Cycles,
			NewListings:    stats.NewListings,
			KnownListings:  stats.SeenTotal,
			SourceErrors:   stats.SourceErrors,
			NotifyFailures: stats.NotifyFailures,
		}
		if !stats.LastCycle.IsZero() {
			t := stats.LastCycle
			s.LastCycle = &t
		}
		out[m.Name()] = s
	}
	return out
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode status response", slog.Any("err", err))
	}
}
