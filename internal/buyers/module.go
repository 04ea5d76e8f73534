// Package buyers implements the buyer directory: browsing recent buyers and
// the ranked crop search farmers use to find someone to sell to.
package buyers

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"agrolink_backend/internal/buyers/handler"
	"agrolink_backend/internal/buyers/repository"
	"agrolink_backend/internal/buyers/service"
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

func (m *Module) Name() string { return "buyers" }

func (m *Module) RegisterRoutes(rc *apphttp.RouterContext) {
	buyers := rc.Protected.Group("/buyers")
	{
		buyers.GET("", m.handler.List)
		buyers.POST("/search", m.handler.Search)
	}
}
