package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sahan/schoolpride/internal/app/models"
	"github.com/sahan/schoolpride/internal/pkg/logger"
)

// AdminRepository handles admin allow-list and login code database operations
type AdminRepository struct {
	db *pgxpool.Pool
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{db: db}
}

// IsAllowedAdminEmail checks the allow-list through the database function so
// the comparison stays case-insensitive in exactly one place.
func (r *AdminRepository) IsAllowedAdminEmail(ctx context.Context, email string) (bool, error) {
	var allowed bool
	err := r.db.QueryRow(ctx, "SELECT is_allowed_admin_email($1)", email).Scan(&allowed)
	if err != nil {
		logger.Error().Err(err).Msg("Error checking admin allow-list")
		return false, fmt.Errorf("failed to check admin allow-list: %w", err)
	}
	return allowed, nil
}

// EnsureAllowListed seeds the allow-list with the configured admin emails.
// Existing rows are left untouched.
func (r *AdminRepository) EnsureAllowListed(ctx context.Context, emails []string) error {
	for _, email := range emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			continue
		}
		_, err := r.db.Exec(ctx,
			"INSERT INTO admin_users (email) VALUES ($1) ON CONFLICT (email) DO NOTHING", email)
		if err != nil {
			return fmt.Errorf("failed to seed admin email %s: %w", email, err)
		}
	}
	return nil
}

// TouchLastLogin records a successful admin login.
func (r *AdminRepository) TouchLastLogin(ctx context.Context, email string) error {
	_, err := r.db.Exec(ctx,
		"UPDATE admin_users SET last_login = $1 WHERE LOWER(email) = LOWER($2)", time.Now(), email)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// StoreLoginCode stores the hash of a freshly issued login code, replacing
// any pending code for the same email.
func (r *AdminRepository) StoreLoginCode(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO admin_login_codes (email, code_hash, expires_at)
		VALUES (LOWER($1), $2, $3)
		ON CONFLICT (email) DO UPDATE SET
			code_hash = EXCLUDED.code_hash,
			expires_at = EXCLUDED.expires_at,
			created_at = NOW()`

	_, err := r.db.Exec(ctx, query, email, codeHash, expiresAt)
	if err != nil {
		logger.Error().Err(err).Msg("Error storing login code")
		return fmt.Errorf("failed to store login code: %w", err)
	}
	return nil
}

// GetLoginCode returns the pending login code for an email, or (nil, nil)
// when none exists.
func (r *AdminRepository) GetLoginCode(ctx context.Context, email string) (*models.AdminLoginCode, error) {
	var code models.AdminLoginCode
	err := r.db.QueryRow(ctx,
		"SELECT id, email, code_hash, expires_at, created_at FROM admin_login_codes WHERE email = LOWER($1)",
		email,
	).Scan(&code.ID, &code.Email, &code.CodeHash, &code.ExpiresAt, &code.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query login code: %w", err)
	}

	return &code, nil
}

// DeleteLoginCode discards the pending login code for an email. Codes are
// single use; the service calls this after a successful verification.
func (r *AdminRepository) DeleteLoginCode(ctx context.Context, email string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM admin_login_codes WHERE email = LOWER($1)", email)
	if err != nil {
		return fmt.Errorf("failed to delete login code: %w", err)
	}
	return nil
}
