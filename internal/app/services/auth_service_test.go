package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sahan/schoolpride/internal/app/models"
	"github.com/sahan/schoolpride/internal/pkg/apperrors"
	"github.com/sahan/schoolpride/internal/pkg/auth"
)

type fakeAdminAccessStore struct {
	allowed   map[string]bool
	allowErr  error
	stored    *models.AdminLoginCode
	deleted   []string
	lastLogin []string
	touchErr  error
}

func (f *fakeAdminAccessStore) IsAllowedAdminEmail(ctx context.Context, email string) (bool, error) {
	if f.allowErr != nil {
		return false, f.allowErr
	}
	return f.allowed[email], nil
}

func (f *fakeAdminAccessStore) StoreLoginCode(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	f.stored = &models.AdminLoginCode{Email: email, CodeHash: codeHash, ExpiresAt: expiresAt}
	return nil
}

func (f *fakeAdminAccessStore) GetLoginCode(ctx context.Context, email string) (*models.AdminLoginCode, error) {
	if f.stored == nil || f.stored.Email != email {
		return nil, nil
	}
	return f.stored, nil
}

func (f *fakeAdminAccessStore) DeleteLoginCode(ctx context.Context, email string) error {
	f.deleted = append(f.deleted, email)
	f.stored = nil
	return nil
}

func (f *fakeAdminAccessStore) TouchLastLogin(ctx context.Context, email string) error {
	f.lastLogin = append(f.lastLogin, email)
	return f.touchErr
}

type fakeMailer struct {
	sentTo   []string
	lastCode string
	err      error
}

func (f *fakeMailer) SendLoginCode(toEmail, code string) error {
	if f.err != nil {
		return f.err
	}
	f.sentTo = append(f.sentTo, toEmail)
	f.lastCode = code
	return nil
}

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "schoolpride.test",
	})
}

func TestRequestCode(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a hashed single-use code to an allowed admin", func(t *testing.T) {
		store := &fakeAdminAccessStore{allowed: map[string]bool{"admin@school.lk": true}}
		mailer := &fakeMailer{}
		svc := NewAuthService(store, testJWTService(), mailer, 10*time.Minute)

		if err := svc.RequestCode(ctx, "  Admin@School.LK "); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(mailer.sentTo) != 1 || mailer.sentTo[0] != "admin@school.lk" {
			t.Fatalf("expected code sent to normalized address, got %v", mailer.sentTo)
		}
		if len(mailer.lastCode) != auth.LoginCodeLength {
			t.Errorf("expected %d digit code, got %q", auth.LoginCodeLength, mailer.lastCode)
		}
		if store.stored == nil {
			t.Fatal("expected code stored")
		}
		if store.stored.CodeHash == mailer.lastCode {
			t.Error("stored code must be hashed, not plain text")
		}
		if !auth.CheckLoginCode(store.stored.CodeHash, mailer.lastCode) {
			t.Error("stored hash does not match the sent code")
		}
		if remaining := time.Until(store.stored.ExpiresAt); remaining < 9*time.Minute || remaining > 10*time.Minute {
			t.Errorf("unexpected expiry window: %v", remaining)
		}
	})

	t.Run("rejects emails outside the allow-list before sending", func(t *testing.T) {
		store := &fakeAdminAccessStore{allowed: map[string]bool{}}
		mailer := &fakeMailer{}
		svc := NewAuthService(store, testJWTService(), mailer, 10*time.Minute)

		err := svc.RequestCode(ctx, "stranger@example.com")
		if !errors.Is(err, apperrors.ErrNotAllowListed) {
			t.Fatalf("expected ErrNotAllowListed, got %v", err)
		}
		if len(mailer.sentTo) != 0 {
			t.Error("no email should be sent to a rejected address")
		}
		if store.stored != nil {
			t.Error("no code should be stored for a rejected address")
		}
	})

	t.Run("allow-list check failure surfaces", func(t *testing.T) {
		store := &fakeAdminAccessStore{allowErr: errors.New("connection refused")}
		svc := NewAuthService(store, testJWTService(), &fakeMailer{}, 10*time.Minute)

		if err := svc.RequestCode(ctx, "admin@school.lk"); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestVerifyCode(t *testing.T) {
	ctx := context.Background()

	issueCode := func(t *testing.T, store *fakeAdminAccessStore, mailer *fakeMailer, svc AuthService) string {
		t.Helper()
		if err := svc.RequestCode(ctx, "admin@school.lk"); err != nil {
			t.Fatalf("request code failed: %v", err)
		}
		return mailer.lastCode
	}

	t.Run("valid code yields a token and consumes the code", func(t *testing.T) {
		store := &fakeAdminAccessStore{allowed: map[string]bool{"admin@school.lk": true}}
		mailer := &fakeMailer{}
		jwtService := testJWTService()
		svc := NewAuthService(store, jwtService, mailer, 10*time.Minute)
		code := issueCode(t, store, mailer, svc)

		resp, err := svc.VerifyCode(ctx, "Admin@School.LK", code)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.TokenType != "Bearer" {
			t.Errorf("expected Bearer token type, got %q", resp.TokenType)
		}
		if resp.ExpiresIn != 3600 {
			t.Errorf("expected 3600s expiry, got %d", resp.ExpiresIn)
		}

		claims, err := jwtService.ValidateToken(resp.AccessToken)
		if err != nil {
			t.Fatalf("issued token failed validation: %v", err)
		}
		if claims.Email != "admin@school.lk" {
			t.Errorf("expected normalized email claim, got %q", claims.Email)
		}

		if store.stored != nil {
			t.Error("code should be deleted after use")
		}
		if len(store.lastLogin) != 1 {
			t.Error("expected last login recorded")
		}

		// Second attempt with the same code must fail.
		if _, err := svc.VerifyCode(ctx, "admin@school.lk", code); !errors.Is(err, apperrors.ErrCodeInvalid) {
			t.Fatalf("expected ErrCodeInvalid on reuse, got %v", err)
		}
	})

	t.Run("no pending code", func(t *testing.T) {
		store := &fakeAdminAccessStore{allowed: map[string]bool{"admin@school.lk": true}}
		svc := NewAuthService(store, testJWTService(), &fakeMailer{}, 10*time.Minute)

		if _, err := svc.VerifyCode(ctx, "admin@school.lk", "123456"); !errors.Is(err, apperrors.ErrCodeInvalid) {
			t.Fatalf("expected ErrCodeInvalid, got %v", err)
		}
	})

	t.Run("wrong code", func(t *testing.T) {
		store := &fakeAdminAccessStore{allowed: map[string]bool{"admin@school.lk": true}}
		mailer := &fakeMailer{}
		svc := NewAuthService(store, testJWTService(), mailer, 10*time.Minute)
		code := issueCode(t, store, mailer, svc)

		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}
		if _, err := svc.VerifyCode(ctx, "admin@school.lk", wrong); !errors.Is(err, apperrors.ErrCodeInvalid) {
			t.Fatalf("expected ErrCodeInvalid, got %v", err)
		}
		if store.stored == nil {
			t.Error("a wrong guess must not consume the pending code")
		}
	})

	t.Run("expired code is rejected and removed", func(t *testing.T) {
		store := &fakeAdminAccessStore{allowed: map[string]bool{"admin@school.lk": true}}
		mailer := &fakeMailer{}
		svc := NewAuthService(store, testJWTService(), mailer, -time.Minute)
		code := issueCode(t, store, mailer, svc)

		if _, err := svc.VerifyCode(ctx, "admin@school.lk", code); !errors.Is(err, apperrors.ErrCodeExpired) {
			t.Fatalf("expected ErrCodeExpired, got %v", err)
		}
		if store.stored != nil {
			t.Error("expired code should be deleted")
		}
	})

	t.Run("last login failure does not block the token", func(t *testing.T) {
		store := &fakeAdminAccessStore{
			allowed:  map[string]bool{"admin@school.lk": true},
			touchErr: errors.New("connection refused"),
		}
		mailer := &fakeMailer{}
		svc := NewAuthService(store, testJWTService(), mailer, 10*time.Minute)
		code := issueCode(t, store, mailer, svc)

		resp, err := svc.VerifyCode(ctx, "admin@school.lk", code)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.AccessToken == "" {
			t.Error("expected token despite last-login failure")
		}
	})
}
