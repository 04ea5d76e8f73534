// Package calls records call attempts between farmers and buyers.
package calls

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"agrolink_backend/internal/calls/handler"
	"agrolink_backend/internal/calls/repository"
	"agrolink_backend/internal/calls/service"
	apphttp "agrolink_backend/internal/http"
	"agrolink_backend/platform/events"
	"agrolink_backend/platform/logger"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	return &Module{handler: handler.New(svc)}
}

func (m *Module) Name() string { return "calls" }

func (m *Module) RegisterRoutes(rc *apphttp.RouterContext) {
	calls := rc.Protected.Group("/calls")
	{
		calls.GET("", m.handler.List)
		calls.POST("", m.handler.Create)
		calls.PATCH("/:id", m.handler.Update)
	}
}
