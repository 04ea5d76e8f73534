// Package listings manages farmers' crop listings and their images.
package listings

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "agrolink_backend/internal/http"
	"agrolink_backend/internal/listings/handler"
	"agrolink_backend/internal/listings/repository"
	"agrolink_backend/internal/listings/service"
	"agrolink_backend/platform/logger"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, images service.ImageStore, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, images, log)
	return &Module{handler: handler.New(svc)}
}

func (m *Module) Name() string { return "listings" }

func (m *Module) RegisterRoutes(rc *apphttp.RouterContext) {
	listings := rc.Protected.Group("/listings")
	{
		listings.GET("", m.handler.ListMine)
		listings.POST("", m.handler.Create)
		listings.PATCH("/:id", m.handler.Update)
		listings.DELETE("/:id", m.handler.Delete)
		listings.POST("/:id/images", m.handler.UploadImage)
	}
}
