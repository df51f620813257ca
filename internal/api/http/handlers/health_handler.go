package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger is a dependency that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	deps        map[string]Pinger
	optional    map[string]Pinger
}

// NewHealthHandler returns a new handler instance. Dependencies left nil (in-memory mode) are skipped.
func NewHealthHandler(serviceName, version string, deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, deps: deps, optional: map[string]Pinger{}}
}

// WithOptional adds a dependency whose outage degrades the service without
// taking it out of rotation.
func (h *HealthHandler) WithOptional(name string, dep Pinger) *HealthHandler {
	h.optional[name] = dep
	return h
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking dependencies.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready, degraded := true, false
	for name, dep := range h.deps {
		if !probe(ctx, name, dep, depStatus) {
			ready = false
		}
	}
	for name, dep := range h.optional {
		if !probe(ctx, name, dep, depStatus) {
			degraded = true
		}
	}

	if !ready {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "DEPENDENCY_UNAVAILABLE",
				"message": "one or more dependencies unavailable",
				"details": depStatus,
			},
		})
	}

	status := "ready"
	if degraded {
		status = "degraded"
	}
	return c.JSON(fiber.Map{
		"status":       status,
		"dependencies": depStatus,
	})
}

func probe(ctx context.Context, name string, dep Pinger, out fiber.Map) bool {
	if dep == nil {
		out[name] = "in-memory"
		return true
	}
	if err := dep.Ping(ctx); err != nil {
		out[name] = err.Error()
		return false
	}
	out[name] = "ok"
	return true
}
