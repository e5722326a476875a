package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sahan/schoolpride/internal/app/models"
	"github.com/sahan/schoolpride/internal/pkg/apperrors"
	"github.com/sahan/schoolpride/internal/pkg/logger"
)

// MediaRepository handles achievement media database operations
type MediaRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMediaRepository creates a new MediaRepository
func NewMediaRepository(db *pgxpool.Pool) *MediaRepository {
	return &MediaRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *MediaRepository) queryMedia(ctx context.Context, query squirrel.SelectBuilder) ([]models.Media, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build media query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying media")
		return nil, fmt.Errorf("failed to query media: %w", err)
	}
	defer rows.Close()

	media := []models.Media{}
	for rows.Next() {
		var m models.Media
		err := rows.Scan(&m.ID, &m.AchievementID, &m.FileURL, &m.FileType, &m.DisplayOrder, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media row: %w", err)
		}
		media = append(media, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating media rows: %w", err)
	}

	return media, nil
}

// ListByAchievementID returns the media attached to one achievement in
// display order.
func (r *MediaRepository) ListByAchievementID(ctx context.Context, achievementID string) ([]models.Media, error) {
	query := r.sb.Select("id", "achievement_id", "file_url", "file_type", "display_order", "created_at").
		From("media").
		Where(squirrel.Eq{"achievement_id": achievementID}).
		OrderBy("display_order ASC", "created_at ASC")
	return r.queryMedia(ctx, query)
}

// ListByAchievementIDs fetches media for a batch of achievements in one
// query, grouped by achievement id.
func (r *MediaRepository) ListByAchievementIDs(ctx context.Context, achievementIDs []string) (map[string][]models.Media, error) {
	grouped := map[string][]models.Media{}
	if len(achievementIDs) == 0 {
		return grouped, nil
	}

	query := r.sb.Select("id", "achievement_id", "file_url", "file_type", "display_order", "created_at").
		From("media").
		Where(squirrel.Eq{"achievement_id": achievementIDs}).
		OrderBy("display_order ASC", "created_at ASC")

	media, err := r.queryMedia(ctx, query)
	if err != nil {
		return nil, err
	}

	for _, m := range media {
		grouped[m.AchievementID] = append(grouped[m.AchievementID], m)
	}

	return grouped, nil
}

// GetByID retrieves a single media row.
func (r *MediaRepository) GetByID(ctx context.Context, id string) (*models.Media, error) {
	var m models.Media
	err := r.db.QueryRow(ctx,
		"SELECT id, achievement_id, file_url, file_type, display_order, created_at FROM media WHERE id = $1",
		id,
	).Scan(&m.ID, &m.AchievementID, &m.FileURL, &m.FileType, &m.DisplayOrder, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMediaNotFound
		}
		return nil, fmt.Errorf("failed to query media: %w", err)
	}

	return &m, nil
}

// Insert attaches a media file to an achievement, appending it to the end of
// the display order.
func (r *MediaRepository) Insert(ctx context.Context, media *models.Media) (string, error) {
	query := `
		INSERT INTO media (achievement_id, file_url, file_type, display_order)
		VALUES ($1, $2, $3, (
			SELECT COALESCE(MAX(display_order) + 1, 0)
			FROM media WHERE achievement_id = $1
		))
		RETURNING id, display_order`

	var id string
	var order int
	err := r.db.QueryRow(ctx, query, media.AchievementID, media.FileURL, media.FileType).Scan(&id, &order)
	if err != nil {
		logger.Error().Err(err).Str("achievement_id", media.AchievementID).Msg("Error inserting media")
		return "", fmt.Errorf("failed to insert media: %w", err)
	}

	media.ID = id
	media.DisplayOrder = order
	return id, nil
}

// Delete removes a media row. The stored file is the caller's responsibility.
func (r *MediaRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM media WHERE id = $1", id)
	if err != nil {
		logger.Error().Err(err).Str("media_id", id).Msg("Error deleting media")
		return fmt.Errorf("failed to delete media: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMediaNotFound
	}

	return nil
}
