// Package gateway exposes the storefront operations as MCP tools so
// shopping agents can browse, manage a cart, and place orders through one
// HTTP endpoint.
package gateway

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"perdecim-client/internal/api"
)

// Gateway holds dependencies for the MCP tool handlers.
type Gateway struct {
	store  api.Storefront
	logger *slog.Logger
}

// New creates a Gateway over the given storefront client.
func New(store api.Storefront, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{store: store, logger: logger}
}

// RegisterRoutes registers all HTTP routes with the given ServeMux.
func (g *Gateway) RegisterRoutes(mux *http.ServeMux) {
	// MCP transport - JSON-RPC endpoint using official MCP SDK
	mux.Handle("/mcp", g.NewMCPHandler())

	// Health check
	mux.HandleFunc("GET /health", g.handleHealth)
	mux.HandleFunc("GET /healthz", g.handleHealth)
}

func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		g.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}
