// Package profile manages farmer profiles.
package profile

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "agrolink_backend/internal/http"
	"agrolink_backend/internal/profile/handler"
	"agrolink_backend/internal/profile/repository"
	"agrolink_backend/internal/profile/service"
	"agrolink_backend/platform/logger"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	return &Module{handler: handler.New(svc)}
}

func (m *Module) Name() string { return "profile" }

func (m *Module) RegisterRoutes(rc *apphttp.RouterContext) {
	users := rc.Protected.Group("/users")
	{
		users.GET("/profile", m.handler.Get)
		users.PUT("/profile", m.handler.Update)
	}
}
