package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"agrolink_backend/internal/auth/repository"
	"agrolink_backend/platform/apperr"
	"agrolink_backend/platform/events"
	"agrolink_backend/platform/logger"
)

type authConfigStub struct{}

func (authConfigStub) GetJWTSecret() string              { return "test-secret" }
func (authConfigStub) GetSessionTokenTTL() time.Duration { return 24 * time.Hour }
func (authConfigStub) GetOTPTTL() time.Duration          { return 5 * time.Minute }
func (authConfigStub) GetOTPLength() int                 { return 6 }

type fakeStore struct {
	otps      map[uuid.UUID]*repository.OTP
	users     map[string]*repository.User
	createErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		otps:  make(map[uuid.UUID]*repository.OTP),
		users: make(map[string]*repository.User),
	}
}

func (f *fakeStore) CreateOTP(ctx context.Context, phone, codeHash string, expiresAt time.Time) (uuid.UUID, error) {
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
	id := uuid.New()
	f.otps[id] = &repository.OTP{ID: id, Phone: phone, CodeHash: codeHash, ExpiresAt: expiresAt, CreatedAt: time.Now()}
	return id, nil
}

func (f *fakeStore) LatestActiveOTP(ctx context.Context, phone string, now time.Time) (*repository.OTP, error) {
	var newest *repository.OTP
	for _, o := range f.otps {
		if o.Phone != phone || !o.ExpiresAt.After(now) {
			continue
		}
		if newest == nil || o.CreatedAt.After(newest.CreatedAt) {
			newest = o
		}
	}
	return newest, nil
}

func (f *fakeStore) ConsumeOTP(ctx context.Context, id uuid.UUID) error {
	delete(f.otps, id)
	return nil
}

func (f *fakeStore) DeleteExpiredOTPs(ctx context.Context, before time.Time) (int64, error) {
	var n int64
	for id, o := range f.otps {
		if !o.ExpiresAt.After(before) {
			delete(f.otps, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) UpsertUserByPhone(ctx context.Context, phone string, now time.Time) (*repository.User, error) {
	if u, ok := f.users[phone]; ok {
		u.LastLoginAt = &now
		return u, nil
	}
	u := &repository.User{ID: uuid.New(), Phone: phone, CreatedAt: now, LastLoginAt: &now}
	f.users[phone] = u
	return u, nil
}

func (f *fakeStore) FindUserByID(ctx context.Context, id uuid.UUID) (*repository.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) Send(ctx context.Context, to, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, body)
	return nil
}

type fakeScheduler struct {
	runs []time.Time
}

func (f *fakeScheduler) ScheduleOTPPurge(ctx context.Context, runAt time.Time) error {
	f.runs = append(f.runs, runAt)
	return nil
}

func newTestService(store repository.Store, sender *fakeSender, sched *fakeScheduler) *Service {
	log := logger.New("test")
	return New(store, sender, sched, events.NewInMemoryBus(log), log, authConfigStub{})
}

func TestSendOTPStoresHashAndDelivers(t *testing.T) {
	store := newFakeStore()
	sender := &fakeSender{}
	sched := &fakeScheduler{}
	svc := newTestService(store, sender, sched)

	err := svc.SendOTP(context.Background(), "98765 43210")
	require.NoError(t, err)

	require.Len(t, store.otps, 1)
	for _, o := range store.otps {
		assert.Equal(t, "+919876543210", o.Phone)
		assert.NotEmpty(t, o.CodeHash)
		assert.True(t, o.ExpiresAt.After(time.Now()))
	}
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "expires in 5 minutes")
	require.Len(t, sched.runs, 1)
}

func TestSendOTPRejectsInvalidPhone(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeSender{}, &fakeScheduler{})

	err := svc.SendOTP(context.Background(), "not-a-phone")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Empty(t, store.otps)
}

func TestSendOTPPropagatesDeliveryFailure(t *testing.T) {
	sender := &fakeSender{err: apperr.Dependency("failed to reach SMS gateway", assert.AnError)}
	svc := newTestService(newFakeStore(), sender, &fakeScheduler{})

	err := svc.SendOTP(context.Background(), "+919876543210")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindDependency))
}

func seedOTP(t *testing.T, store *fakeStore, phone, code string, expiresAt time.Time) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	require.NoError(t, err)
	id := uuid.New()
	store.otps[id] = &repository.OTP{ID: id, Phone: phone, CodeHash: string(hash), ExpiresAt: expiresAt, CreatedAt: time.Now()}
}

func TestVerifyOTPIssuesSessionToken(t *testing.T) {
	store := newFakeStore()
	seedOTP(t, store, "+919876543210", "123456", time.Now().Add(5*time.Minute))
	svc := newTestService(store, &fakeSender{}, &fakeScheduler{})

	resp, err := svc.VerifyOTP(context.Background(), "+919876543210", "123456")
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "+919876543210", resp.User.Phone)

	// The OTP is single use.
	assert.Empty(t, store.otps)

	// The token must parse with the configured secret and carry the session
	// claims.
	parsed, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, resp.User.ID.String(), claims["sub"])
	assert.Equal(t, "+919876543210", claims["phone"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	iat, err := claims.GetIssuedAt()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, exp.Sub(iat.Time))
}

func TestVerifyOTPRejectsWrongCode(t *testing.T) {
	store := newFakeStore()
	seedOTP(t, store, "+919876543210", "123456", time.Now().Add(5*time.Minute))
	svc := newTestService(store, &fakeSender{}, &fakeScheduler{})

	_, err := svc.VerifyOTP(context.Background(), "+919876543210", "999999")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	// A failed attempt does not consume the OTP.
	assert.Len(t, store.otps, 1)
}

func TestVerifyOTPRejectsExpiredCode(t *testing.T) {
	store := newFakeStore()
	seedOTP(t, store, "+919876543210", "123456", time.Now().Add(-time.Minute))
	svc := newTestService(store, &fakeSender{}, &fakeScheduler{})

	_, err := svc.VerifyOTP(context.Background(), "+919876543210", "123456")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestVerifyOTPRejectsUnknownPhone(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeSender{}, &fakeScheduler{})

	_, err := svc.VerifyOTP(context.Background(), "+919876543210", "123456")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestVerifyOTPReusesExistingAccount(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeSender{}, &fakeScheduler{})

	seedOTP(t, store, "+919876543210", "111111", time.Now().Add(5*time.Minute))
	first, err := svc.VerifyOTP(context.Background(), "+919876543210", "111111")
	require.NoError(t, err)

	seedOTP(t, store, "+919876543210", "222222", time.Now().Add(5*time.Minute))
	second, err := svc.VerifyOTP(context.Background(), "+919876543210", "222222")
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID)
}

func TestMe(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeSender{}, &fakeScheduler{})

	user, err := store.UpsertUserByPhone(context.Background(), "+919876543210", time.Now())
	require.NoError(t, err)

	resp, err := svc.Me(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Phone, resp.Phone)

	_, err = svc.Me(context.Background(), uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
