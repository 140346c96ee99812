package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/novelistan/novelistan-api/internal/persistence"
	"github.com/novelistan/novelistan-api/internal/storage"
)

// HealthHandler reports process and dependency health.
type HealthHandler struct {
	version string
	pool    *pgxpool.Pool
	redis   *persistence.Redis
	store   storage.Store
}

// NewHealthHandler constructs handler.
func NewHealthHandler(version string, pool *pgxpool.Pool, redis *persistence.Redis, store storage.Store) *HealthHandler {
	return &HealthHandler{version: version, pool: pool, redis: redis, store: store}
}

// Live handles GET /health/live. Answers as long as the process serves.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": h.version,
	})
}

// Ready handles GET /health/ready. Probes each dependency; any failure
// yields 503 with the per-dependency breakdown.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	checks := fiber.Map{}
	healthy := true

	if h.pool == nil {
		checks["postgres"] = "not configured"
		healthy = false
	} else if err := h.pool.Ping(c.Context()); err != nil {
		checks["postgres"] = err.Error()
		healthy = false
	} else {
		checks["postgres"] = "ok"
	}

	if err := h.redis.Ping(c.Context()); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	} else {
		checks["redis"] = "ok"
	}

	if h.store == nil {
		checks["storage"] = "not configured"
		healthy = false
	} else if err := h.store.Ping(c.Context()); err != nil {
		checks["storage"] = err.Error()
		healthy = false
	} else {
		checks["storage"] = "ok"
	}

	status := "ok"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status":  status,
		"version": h.version,
		"checks":  checks,
	})
}
