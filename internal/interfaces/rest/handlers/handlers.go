package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/giftwell/fulfillment-service/internal/application"
)

// Fulfiller is the single operation this API exposes.
type Fulfiller interface {
	Fulfill(ctx context.Context, sessionID string) (*application.Result, error)
}

type Handlers struct {
	fulfillment Fulfiller
	logger      *slog.Logger
}

func NewHandlers(fulfillment Fulfiller, logger *slog.Logger) *Handlers {
	return &Handlers{
		fulfillment: fulfillment,
		logger:      logger,
	}
}

func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/fulfillments", h.Fulfill)
	mux.HandleFunc("GET /healthz", h.Health)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
