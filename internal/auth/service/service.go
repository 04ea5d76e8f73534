package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"agrolink_backend/internal/auth/otp"
	"agrolink_backend/internal/auth/repository"
	"agrolink_backend/internal/auth/transport"
	domainevents "agrolink_backend/internal/events"
	"agrolink_backend/internal/sms"
	"agrolink_backend/platform/apperr"
	"agrolink_backend/platform/config"
	"agrolink_backend/platform/events"
	"agrolink_backend/platform/logger"
	"agrolink_backend/platform/phone"
)

// PurgeScheduler enqueues a cleanup task to run once an OTP batch expires.
type PurgeScheduler interface {
	ScheduleOTPPurge(ctx context.Context, runAt time.Time) error
}

// NoopPurgeScheduler is used when no task queue is configured; expired OTPs
// then only go away through the next scheduled purge run or manual cleanup.
type NoopPurgeScheduler struct{}

func (NoopPurgeScheduler) ScheduleOTPPurge(ctx context.Context, runAt time.Time) error { return nil }

type Service struct {
	store     repository.Store
	sender    sms.Sender
	scheduler PurgeScheduler
	bus       events.Bus
	log       *logger.Logger
	cfg       config.AuthServiceConfig
	now       func() time.Time
}

func New(store repository.Store, sender sms.Sender, scheduler PurgeScheduler, bus events.Bus, log *logger.Logger, cfg config.AuthServiceConfig) *Service {
	return &Service{
		store:     store,
		sender:    sender,
		scheduler: scheduler,
		bus:       bus,
		log:       log,
		cfg:       cfg,
		now:       time.Now,
	}
}

// SendOTP generates a one-time password for the phone, stores its hash, and
// delivers the code over SMS.
func (s *Service) SendOTP(ctx context.Context, rawPhone string) error {
	normalized := phone.NormalizeE164(rawPhone)
	if !phone.IsValid(normalized) {
		return apperr.Validation("invalid phone number")
	}

	code, err := otp.GenerateCode(s.cfg.GetOTPLength())
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to generate OTP", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to hash OTP", err)
	}

	expiresAt := s.now().Add(s.cfg.GetOTPTTL())
	if _, err := s.store.CreateOTP(ctx, normalized, string(hash), expiresAt); err != nil {
		return err
	}

	body := fmt.Sprintf("Your AgroLink verification code is %s. It expires in %d minutes.",
		code, int(s.cfg.GetOTPTTL().Minutes()))
	if err := s.sender.Send(ctx, normalized, body); err != nil {
		s.log.AuthEvent("otp_send", normalized, false, "sms delivery failed")
		return err
	}

	if err := s.scheduler.ScheduleOTPPurge(ctx, expiresAt); err != nil {
		// Delivery already happened; a missed purge only delays cleanup.
		s.log.Warn("failed to schedule otp purge", "error", err)
	}

	s.log.AuthEvent("otp_send", normalized, true, "")
	return nil
}

// VerifyOTP checks the submitted code against the newest active OTP for the
// phone, consumes it, and issues a session token.
func (s *Service) VerifyOTP(ctx context.Context, rawPhone, code string) (*transport.VerifyOTPResponse, error) {
	normalized := phone.NormalizeE164(rawPhone)
	if !phone.IsValid(normalized) {
		return nil, apperr.Validation("invalid phone number")
	}

	record, err := s.store.LatestActiveOTP(ctx, normalized, s.now())
	if err != nil {
		return nil, err
	}
	if record == nil {
		s.log.AuthEvent("otp_verify", normalized, false, "no active otp")
		return nil, apperr.Unauthorized("Invalid OTP")
	}

	if bcrypt.CompareHashAndPassword([]byte(record.CodeHash), []byte(code)) != nil {
		s.log.AuthEvent("otp_verify", normalized, false, "code mismatch")
		return nil, apperr.Unauthorized("Invalid OTP")
	}

	if err := s.store.ConsumeOTP(ctx, record.ID); err != nil {
		return nil, err
	}

	user, err := s.store.UpsertUserByPhone(ctx, normalized, s.now())
	if err != nil {
		return nil, err
	}

	token, err := s.signSessionToken(user.ID, user.Phone)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to sign session token", err)
	}

	s.log.AuthEvent("otp_verify", normalized, true, "")
	s.bus.Publish(ctx, domainevents.NewUserLoggedIn(user.ID, user.Phone))

	return &transport.VerifyOTPResponse{
		Token: token,
		User: transport.UserResponse{
			ID:        user.ID,
			Phone:     user.Phone,
			CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
		},
	}, nil
}

// Me returns the account behind a session token's subject.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*transport.UserResponse, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &transport.UserResponse{
		ID:        user.ID,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}

// signSessionToken issues an HS256 token with the subject, phone, issue and
// expiry claims.
func (s *Service) signSessionToken(userID uuid.UUID, userPhone string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"phone": userPhone,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.GetSessionTokenTTL()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.GetJWTSecret()))
}
