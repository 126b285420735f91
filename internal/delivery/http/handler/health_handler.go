package handler

import (
	"context"

	"talentmatch/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

// NewHealthHandler accepts nil pingers for components that are not
// configured; those report "disabled" rather than failing the check.
func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

type healthStatus struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	out := healthStatus{Status: "ok", Components: map[string]string{}}

	out.Components["database"] = componentStatus(c.Context(), h.db)
	out.Components["cache"] = componentStatus(c.Context(), h.cache)

	if out.Components["database"] == "down" {
		out.Status = "degraded"
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func componentStatus(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		return "down"
	}
	return "up"
}
