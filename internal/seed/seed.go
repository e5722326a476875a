package seed

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	appRepos "github.com/sahan/schoolpride/internal/app/repositories"
	"github.com/sahan/schoolpride/internal/config"
)

// CreateDefaultData seeds the admin allow-list from configuration. Emails
// already present are left alone, so removing an email from the config does
// not revoke access; that is done by deleting the row.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	adminRepo := appRepos.NewAdminRepository(dbPool)

	if len(cfg.Auth.AdminEmails) == 0 {
		lgr.Warn().Msg("No admin emails configured, admin panel will be unreachable")
		return nil
	}

	lgr.Info().Int("count", len(cfg.Auth.AdminEmails)).Msg("Seeding admin allow-list")
	if err := adminRepo.EnsureAllowListed(ctx, cfg.Auth.AdminEmails); err != nil {
		lgr.Error().Err(err).Msg("Error seeding admin allow-list")
		return err
	}

	return nil
}
