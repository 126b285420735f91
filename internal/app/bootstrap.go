package app

import (
	"fmt"
	"strings"

	"talentmatch/internal/config"
	"talentmatch/internal/delivery/http/handler"
	"talentmatch/internal/delivery/http/middleware"
	"talentmatch/internal/delivery/http/routes"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func Bootstrap(cfg config.Config, logger *zap.Logger) (*App, func() error, error) {
	container, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{
		AppName: cfg.App.AppName,
	})

	registerGlobalMiddleware(f, logger)

	health := handler.NewHealthHandler(container.DB, container.CachePinger)
	match := handler.NewMatchHandler(container.Match, container.Candidates, container.Jobs)
	routes.NewRegistry(health, match).Register(f)

	app := &App{Fiber: f, Container: container}
	return app, container.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *zap.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
