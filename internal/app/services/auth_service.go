package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sahan/schoolpride/internal/app/models"
	"github.com/sahan/schoolpride/internal/app/models/dto"
	"github.com/sahan/schoolpride/internal/pkg/apperrors"
	"github.com/sahan/schoolpride/internal/pkg/auth"
	"github.com/sahan/schoolpride/internal/pkg/email"
	"github.com/sahan/schoolpride/internal/pkg/logger"
)

// AdminAccessStore is the allow-list and login code persistence surface.
type AdminAccessStore interface {
	IsAllowedAdminEmail(ctx context.Context, email string) (bool, error)
	StoreLoginCode(ctx context.Context, email, codeHash string, expiresAt time.Time) error
	GetLoginCode(ctx context.Context, email string) (*models.AdminLoginCode, error)
	DeleteLoginCode(ctx context.Context, email string) error
	TouchLastLogin(ctx context.Context, email string) error
}

// AuthService defines the interface for the admin login code exchange
type AuthService interface {
	RequestCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) (*dto.TokenResponse, error)
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	adminRepo  AdminAccessStore
	jwtService *auth.JWTService
	mailer     email.Service
	codeTTL    time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(adminRepo AdminAccessStore, jwtService *auth.JWTService, mailer email.Service, codeTTL time.Duration) AuthService {
	return &authServiceImpl{
		adminRepo:  adminRepo,
		jwtService: jwtService,
		mailer:     mailer,
		codeTTL:    codeTTL,
	}
}

// RequestCode issues a one-time login code to an allow-listed admin email.
// Emails not on the allow-list are rejected before anything is sent, so the
// endpoint cannot be used to spam arbitrary addresses.
func (s *authServiceImpl) RequestCode(ctx context.Context, emailAddr string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	allowed, err := s.adminRepo.IsAllowedAdminEmail(ctx, emailAddr)
	if err != nil {
		return fmt.Errorf("error checking allow-list: %w", err)
	}
	if !allowed {
		logger.Warn().Str("email", emailAddr).Msg("Login code requested for non-admin email")
		return apperrors.ErrNotAllowListed
	}

	code, err := auth.GenerateLoginCode()
	if err != nil {
		return fmt.Errorf("error generating login code: %w", err)
	}
	codeHash, err := auth.HashLoginCode(code)
	if err != nil {
		return fmt.Errorf("error hashing login code: %w", err)
	}

	if err := s.adminRepo.StoreLoginCode(ctx, emailAddr, codeHash, time.Now().Add(s.codeTTL)); err != nil {
		return err
	}

	if err := s.mailer.SendLoginCode(emailAddr, code); err != nil {
		return fmt.Errorf("error sending login code: %w", err)
	}

	logger.Info().Str("email", emailAddr).Msg("Login code issued")
	return nil
}

// VerifyCode exchanges a pending login code for an access token. Codes are
// single use and expire after the configured TTL.
func (s *authServiceImpl) VerifyCode(ctx context.Context, emailAddr, code string) (*dto.TokenResponse, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	pending, err := s.adminRepo.GetLoginCode(ctx, emailAddr)
	if err != nil {
		return nil, fmt.Errorf("error fetching login code: %w", err)
	}
	if pending == nil {
		return nil, apperrors.ErrCodeInvalid
	}

	if time.Now().After(pending.ExpiresAt) {
		_ = s.adminRepo.DeleteLoginCode(ctx, emailAddr)
		return nil, apperrors.ErrCodeExpired
	}

	if !auth.CheckLoginCode(pending.CodeHash, code) {
		return nil, apperrors.ErrCodeInvalid
	}

	if err := s.adminRepo.DeleteLoginCode(ctx, emailAddr); err != nil {
		return nil, err
	}

	token, expiresIn, err := s.jwtService.GenerateToken(emailAddr)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	if err := s.adminRepo.TouchLastLogin(ctx, emailAddr); err != nil {
		logger.Warn().Err(err).Str("email", emailAddr).Msg("Failed to record last login")
	}

	logger.Info().Str("email", emailAddr).Msg("Admin logged in")
	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	}, nil
}
