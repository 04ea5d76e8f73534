// Package crops manages the crop catalog and each farmer's sellable crops.
package crops

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"agrolink_backend/internal/crops/handler"
	"agrolink_backend/internal/crops/repository"
	"agrolink_backend/internal/crops/service"
	apphttp "agrolink_backend/internal/http"
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

func (m *Module) Name() string { return "crops" }

func (m *Module) RegisterRoutes(rc *apphttp.RouterContext) {
	rc.V1.GET("/crops", m.handler.Catalog)

	mine := rc.Protected.Group("/users/crops")
	{
		mine.GET("", m.handler.ListMine)
		mine.POST("", m.handler.Add)
		mine.DELETE("/:id", m.handler.Remove)
		mine.PATCH("/:id/status", m.handler.SetStatus)
	}
}
