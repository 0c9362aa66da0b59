package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Spok95/labstock/internal/domain/inventory"
	"github.com/Spok95/labstock/internal/domain/procedure"
	"github.com/Spok95/labstock/internal/domain/requests"
)

// Deps — зависимости API-слоя.
type Deps struct {
	Log        *slog.Logger
	Procedures *procedure.Repo
	Inventory  *inventory.Repo
	Requests   *requests.Repo
	Ledger     *requests.Ledger
	Store      requests.Store
}

type Server struct {
	srv *http.Server
}

func New(addr string, exposeMetrics bool, d Deps) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if exposeMetrics {
		mux.Handle("/metrics", promhttp.Handler())
	}

	h := &handlers{d: d}

	mux.HandleFunc("POST /api/calculate", h.calculate)
	mux.HandleFunc("POST /api/capacity", h.capacity)

	mux.HandleFunc("GET /api/procedures", h.listProcedures)
	mux.HandleFunc("POST /api/procedures", h.createProcedure)

	mux.HandleFunc("GET /api/inventory", h.listInventory)
	mux.HandleFunc("POST /api/inventory", h.createMaterial)
	mux.HandleFunc("GET /api/inventory/export", h.exportInventory)
	mux.HandleFunc("POST /api/inventory/import", h.importInventory)
	mux.HandleFunc("GET /api/movements", h.listMovements)

	mux.HandleFunc("GET /api/requests", h.listRequests)
	mux.HandleFunc("POST /api/requests", h.createRequest)
	mux.HandleFunc("GET /api/requests/{id}", h.getRequest)
	mux.HandleFunc("POST /api/requests/{id}/approve", h.approveRequest)
	mux.HandleFunc("POST /api/requests/{id}/revoke", h.revokeRequest)
	mux.HandleFunc("POST /api/requests/{id}/reject", h.rejectRequest)

	return &Server{srv: &http.Server{Addr: addr, Handler: mux}}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
