package server

import (
	"fmt"
	"net/http"

	"trading-agents-go/internal/advisor"

	"go.uber.org/zap"
)

// New builds the dashboard HTTP server over the advisor.
func New(log *zap.Logger, adv *advisor.Advisor, port int) *http.Server {
	mux := http.NewServeMux()
	h := NewAPIHandler(log, adv)

	mux.HandleFunc("/api/status", h.StatusHandler)
	mux.HandleFunc("/api/analyze", h.AnalyzeHandler)
	mux.HandleFunc("/api/step", h.StepHandler)
	mux.HandleFunc("/api/session", h.SessionHandler)
	mux.HandleFunc("/api/execute", h.ExecuteHandler)
	mux.HandleFunc("/api/decisions", h.DecisionsHandler)
	mux.HandleFunc("/api/audit", h.AuditHandler)
	mux.HandleFunc("/api/signals", h.SignalsHandler)
	mux.HandleFunc("/api/screened", h.ScreenedHandler)

	// Static file serving for the dashboard assets.
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "web/templates/index.html")
	})

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
}
