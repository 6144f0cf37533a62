package transport

import (
	"context"
	"net/http"

	"royal-seed/internal/middleware"
	"royal-seed/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HealthChecker reports store connectivity
type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

// SeedHandler exposes the seeding procedure over HTTP
type SeedHandler struct {
	seedService service.SeedService
	health      HealthChecker
	logger      *zap.Logger
}

// NewSeedHandler creates a new SeedHandler
func NewSeedHandler(seedService service.SeedService, health HealthChecker, logger *zap.Logger) *SeedHandler {
	return &SeedHandler{
		seedService: seedService,
		health:      health,
		logger:      logger,
	}
}

// RegisterRoutes registers /health publicly and /seed behind the given middleware
func (h *SeedHandler) RegisterRoutes(r chi.Router, seedMiddleware ...func(http.Handler) http.Handler) {
	r.Get("/health", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(seedMiddleware...)
		r.Post("/seed", h.Seed)
	})
}

// Health reports 200 when the store answers and 503 otherwise
func (h *SeedHandler) Health(w http.ResponseWriter, r *http.Request) {
	stats := h.health.Health(r.Context())

	status := http.StatusOK
	if stats["status"] != "up" {
		status = http.StatusServiceUnavailable
	}

	middleware.RespondWithJSON(w, status, stats)
}

// Seed ensures the test user and product exist and returns their identifiers
func (h *SeedHandler) Seed(w http.ResponseWriter, r *http.Request) {
	result, err := h.seedService.EnsureTestData(r.Context())
	if err != nil {
		h.logger.Error("Seeding failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to seed test data")
		return
	}

	status := http.StatusOK
	if result.UserCreated || result.ProductCreated {
		status = http.StatusCreated
	}

	middleware.RespondWithJSON(w, status, result)
}
