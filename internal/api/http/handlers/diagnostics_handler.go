package handlers

import (
	"crypto/subtle"
	"os"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/novelistan/novelistan-api/internal/config"
	"github.com/novelistan/novelistan-api/internal/storage"
	apperrors "github.com/novelistan/novelistan-api/pkg/util"
)

// Environment variables whose values never leave the process, even through
// the guarded diagnostic routes.
var redactedEnvSuffixes = []string{"SECRET", "PASSWORD", "KEY", "DSN", "TOKEN"}

// DiagnosticsHandler serves operator-only introspection routes. Every route
// requires the X-Diag-Key header to match the configured key; when no key is
// configured the routes answer 404 so probes cannot tell them apart from
// unknown paths.
type DiagnosticsHandler struct {
	cfg   config.DiagConfig
	pool  *pgxpool.Pool
	store storage.Store
}

// NewDiagnosticsHandler constructs handler.
func NewDiagnosticsHandler(cfg config.DiagConfig, pool *pgxpool.Pool, store storage.Store) *DiagnosticsHandler {
	return &DiagnosticsHandler{cfg: cfg, pool: pool, store: store}
}

// RequireKey gates diagnostic routes with a constant-time key comparison.
func (h *DiagnosticsHandler) RequireKey(c *fiber.Ctx) error {
	if h.cfg.Key == "" {
		return apperrors.NewNotFound("route", nil)
	}
	provided := c.Get("X-Diag-Key")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.cfg.Key)) != 1 {
		return apperrors.NewForbidden("invalid diagnostic key")
	}
	return c.Next()
}

// Env handles GET /diag/env. Secret-bearing variables are redacted.
func (h *DiagnosticsHandler) Env(c *fiber.Ctx) error {
	vars := map[string]string{}
	for _, entry := range os.Environ() {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if isRedactedEnv(name) {
			value = "[redacted]"
		}
		vars[name] = value
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	ordered := make([]fiber.Map, 0, len(names))
	for _, name := range names {
		ordered = append(ordered, fiber.Map{"name": name, "value": vars[name]})
	}
	return c.JSON(fiber.Map{"data": ordered})
}

// DB handles GET /diag/db and reports pool connectivity and stats.
func (h *DiagnosticsHandler) DB(c *fiber.Ctx) error {
	if h.pool == nil {
		return c.JSON(fiber.Map{"data": fiber.Map{"status": "not configured"}})
	}
	status := "ok"
	if err := h.pool.Ping(c.Context()); err != nil {
		status = err.Error()
	}
	stats := h.pool.Stat()
	return c.JSON(fiber.Map{"data": fiber.Map{
		"status":      status,
		"total_conns": stats.TotalConns(),
		"idle_conns":  stats.IdleConns(),
		"max_conns":   stats.MaxConns(),
	}})
}

// Storage handles GET /diag/storage and probes the asset backend.
func (h *DiagnosticsHandler) Storage(c *fiber.Ctx) error {
	if h.store == nil {
		return c.JSON(fiber.Map{"data": fiber.Map{"status": "not configured"}})
	}
	status := "ok"
	if err := h.store.Ping(c.Context()); err != nil {
		status = err.Error()
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": status}})
}

func isRedactedEnv(name string) bool {
	upper := strings.ToUpper(name)
	for _, suffix := range redactedEnvSuffixes {
		if strings.Contains(upper, suffix) {
			return true
		}
	}
	return false
}
