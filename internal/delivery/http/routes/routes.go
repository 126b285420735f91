package routes

import (
	"talentmatch/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health *handler.HealthHandler
	match  *handler.MatchHandler
}

func NewRegistry(health *handler.HealthHandler, match *handler.MatchHandler) *Registry {
	return &Registry{health: health, match: match}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health != nil {
		r.health.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	v1 := api.Group("/v1")
	if r.match != nil {
		r.match.RegisterRoutes(v1)
	}
}
