// Package auth implements phone-and-OTP authentication and session token
// issuance.
package auth

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"agrolink_backend/internal/auth/handler"
	"agrolink_backend/internal/auth/repository"
	"agrolink_backend/internal/auth/service"
	apphttp "agrolink_backend/internal/http"
	"agrolink_backend/internal/sms"
	"agrolink_backend/platform/config"
	"agrolink_backend/platform/events"
	"agrolink_backend/platform/logger"
	"agrolink_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, sender sms.Sender, scheduler service.PurgeScheduler, bus events.Bus, log *logger.Logger, cfg config.AuthServiceConfig, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, sender, scheduler, bus, log, cfg)
	return &Module{handler: handler.New(svc, val)}
}

func (m *Module) Name() string { return "auth" }

func (m *Module) RegisterRoutes(rc *apphttp.RouterContext) {
	authGroup := rc.V1.Group("/auth")
	authGroup.Use(rc.AuthRateLimiter.RateLimit())
	{
		authGroup.POST("/send-otp", m.handler.SendOTP)
		authGroup.POST("/verify-otp", m.handler.VerifyOTP)
	}

	rc.Protected.POST("/auth/logout", m.handler.Logout)
	rc.Protected.GET("/users/me", m.handler.Me)
}
