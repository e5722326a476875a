package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sahan/schoolpride/internal/app/models"
	"github.com/sahan/schoolpride/internal/pkg/apperrors"
	"github.com/sahan/schoolpride/internal/pkg/helpers"
	"github.com/sahan/schoolpride/internal/pkg/logger"
)

// AchievementFilters are the exact-match predicates applied in SQL when
// listing published achievements. Zero values mean "no filter". Free-text
// search is applied afterwards in the service layer, not here.
type AchievementFilters struct {
	Year            int
	Category        string
	CurriculumType  string
	AchievementType string
	Gender          string
	Limit           int
}

// AchievementRepository handles achievement database operations
type AchievementRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAchievementRepository creates a new AchievementRepository
func NewAchievementRepository(db *pgxpool.Pool) *AchievementRepository {
	return &AchievementRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *AchievementRepository) baseSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"a.id", "a.student_id", "a.title", "a.description", "a.category",
		"a.curriculum_type", "a.achievement_type", "a.level", "a.event_name", "a.year",
		"a.is_published", "a.age_group", "a.result_position", "a.timing", "a.notes", "a.created_at",
		"s.id", "s.full_name", "s.index_number", "s.gender", "s.student_type", "s.batch_year",
	).
		From("achievements a").
		LeftJoin("students s ON a.student_id = s.id")
}

// scanAchievementRow scans one joined achievement row, populating the Student
// relation when the left join matched.
func scanAchievementRow(row pgx.Row) (*models.Achievement, error) {
	var a models.Achievement
	var studentID, description, eventName, ageGroup, resultPosition, timing, notes sql.NullString
	var sID, sFullName, sIndexNumber, sGender, sStudentType, sBatchYear sql.NullString

	err := row.Scan(
		&a.ID, &studentID, &a.Title, &description, &a.Category,
		&a.CurriculumType, &a.AchievementType, &a.Level, &eventName, &a.Year,
		&a.IsPublished, &ageGroup, &resultPosition, &timing, &notes, &a.CreatedAt,
		&sID, &sFullName, &sIndexNumber, &sGender, &sStudentType, &sBatchYear,
	)
	if err != nil {
		return nil, err
	}

	a.StudentID = helpers.StringPtrFromNull(studentID)
	a.Description = helpers.StringPtrFromNull(description)
	a.EventName = helpers.StringPtrFromNull(eventName)
	a.AgeGroup = helpers.StringPtrFromNull(ageGroup)
	a.ResultPosition = helpers.StringPtrFromNull(resultPosition)
	a.Timing = helpers.StringPtrFromNull(timing)
	a.Notes = helpers.StringPtrFromNull(notes)
	a.Media = []models.Media{}

	if sID.Valid {
		a.Student = &models.Student{
			ID:          sID.String,
			FullName:    sFullName.String,
			IndexNumber: sIndexNumber.String,
			Gender:      models.Gender(sGender.String),
			StudentType: models.StudentType(sStudentType.String),
			BatchYear:   sBatchYear.String,
		}
	}

	return &a, nil
}

func (r *AchievementRepository) queryAchievements(ctx context.Context, query squirrel.SelectBuilder) ([]models.Achievement, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building achievements SQL")
		return nil, fmt.Errorf("failed to build achievements query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying achievements")
		return nil, fmt.Errorf("failed to query achievements: %w", err)
	}
	defer rows.Close()

	achievements := []models.Achievement{}
	for rows.Next() {
		a, err := scanAchievementRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan achievement row: %w", err)
		}
		achievements = append(achievements, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating achievement rows: %w", err)
	}

	return achievements, nil
}

// ListPublished returns published achievements matching the exact-match
// filters, newest year first. The gender filter applies to the linked student
// row, so records without a linked student never match it.
func (r *AchievementRepository) ListPublished(ctx context.Context, filters AchievementFilters) ([]models.Achievement, error) {
	query := r.baseSelect().Where(squirrel.Eq{"a.is_published": true})

	if filters.Year > 0 {
		query = query.Where(squirrel.Eq{"a.year": filters.Year})
	}
	if filters.Category != "" {
		query = query.Where(squirrel.Eq{"a.category": filters.Category})
	}
	if filters.CurriculumType != "" {
		query = query.Where(squirrel.Eq{"a.curriculum_type": filters.CurriculumType})
	}
	if filters.AchievementType != "" {
		query = query.Where(squirrel.Eq{"a.achievement_type": filters.AchievementType})
	}
	if filters.Gender != "" {
		query = query.Where(squirrel.Eq{"s.gender": filters.Gender})
	}

	query = query.OrderBy("a.year DESC", "a.created_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(uint64(filters.Limit))
	}

	return r.queryAchievements(ctx, query)
}

// ListAll returns every achievement regardless of publish state, newest
// first. Used by the admin dashboard.
func (r *AchievementRepository) ListAll(ctx context.Context) ([]models.Achievement, error) {
	query := r.baseSelect().OrderBy("a.created_at DESC")
	return r.queryAchievements(ctx, query)
}

// GetPublishedByID retrieves a single published achievement.
func (r *AchievementRepository) GetPublishedByID(ctx context.Context, id string) (*models.Achievement, error) {
	return r.getByID(ctx, id, true)
}

// GetByID retrieves an achievement regardless of publish state.
func (r *AchievementRepository) GetByID(ctx context.Context, id string) (*models.Achievement, error) {
	return r.getByID(ctx, id, false)
}

func (r *AchievementRepository) getByID(ctx context.Context, id string, publishedOnly bool) (*models.Achievement, error) {
	query := r.baseSelect().Where(squirrel.Eq{"a.id": id})
	if publishedOnly {
		query = query.Where(squirrel.Eq{"a.is_published": true})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build achievement query: %w", err)
	}

	a, err := scanAchievementRow(r.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAchievementNotFound
		}
		logger.Error().Err(err).Str("achievement_id", id).Msg("Error querying achievement")
		return nil, fmt.Errorf("failed to query achievement: %w", err)
	}

	return a, nil
}

// Insert creates a new achievement row and returns its id.
func (r *AchievementRepository) Insert(ctx context.Context, q Querier, a *models.Achievement) (string, error) {
	query := `
		INSERT INTO achievements (
			student_id, title, description, category, curriculum_type,
			achievement_type, level, event_name, year, is_published,
			age_group, result_position, timing, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`

	var id string
	err := q.QueryRow(ctx, query,
		helpers.GetNullString(a.StudentID), a.Title, helpers.GetNullString(a.Description),
		a.Category, a.CurriculumType, a.AchievementType, a.Level,
		helpers.GetNullString(a.EventName), a.Year, a.IsPublished,
		helpers.GetNullString(a.AgeGroup), helpers.GetNullString(a.ResultPosition),
		helpers.GetNullString(a.Timing), helpers.GetNullString(a.Notes),
	).Scan(&id)
	if err != nil {
		logger.Error().Err(err).Str("title", a.Title).Msg("Error inserting achievement")
		return "", fmt.Errorf("failed to insert achievement: %w", err)
	}

	return id, nil
}

// Update rewrites every editable column of an existing achievement.
func (r *AchievementRepository) Update(ctx context.Context, q Querier, a *models.Achievement) error {
	query := `
		UPDATE achievements SET
			student_id = $1, title = $2, description = $3, category = $4,
			curriculum_type = $5, achievement_type = $6, level = $7,
			event_name = $8, year = $9, is_published = $10,
			age_group = $11, result_position = $12, timing = $13, notes = $14
		WHERE id = $15`

	tag, err := q.Exec(ctx, query,
		helpers.GetNullString(a.StudentID), a.Title, helpers.GetNullString(a.Description),
		a.Category, a.CurriculumType, a.AchievementType, a.Level,
		helpers.GetNullString(a.EventName), a.Year, a.IsPublished,
		helpers.GetNullString(a.AgeGroup), helpers.GetNullString(a.ResultPosition),
		helpers.GetNullString(a.Timing), helpers.GetNullString(a.Notes),
		a.ID,
	)
	if err != nil {
		logger.Error().Err(err).Str("achievement_id", a.ID).Msg("Error updating achievement")
		return fmt.Errorf("failed to update achievement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAchievementNotFound
	}

	return nil
}

// Delete removes an achievement. Participants and media rows go with it via
// ON DELETE CASCADE; media files are the caller's responsibility.
func (r *AchievementRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM achievements WHERE id = $1", id)
	if err != nil {
		logger.Error().Err(err).Str("achievement_id", id).Msg("Error deleting achievement")
		return fmt.Errorf("failed to delete achievement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAchievementNotFound
	}

	return nil
}

// SetPublished flips the publish flag on an achievement.
func (r *AchievementRepository) SetPublished(ctx context.Context, id string, published bool) error {
	tag, err := r.db.Exec(ctx, "UPDATE achievements SET is_published = $1 WHERE id = $2", published, id)
	if err != nil {
		logger.Error().Err(err).Str("achievement_id", id).Msg("Error updating publish state")
		return fmt.Errorf("failed to update publish state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAchievementNotFound
	}

	return nil
}

// PublishedIDs returns the ids of all published achievements, for static
// page generation.
func (r *AchievementRepository) PublishedIDs(ctx context.Context) ([]string, error) {
	return r.queryStrings(ctx, "SELECT id FROM achievements WHERE is_published = true ORDER BY created_at DESC")
}

// CountPublished returns the number of published achievements.
func (r *AchievementRepository) CountPublished(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM achievements WHERE is_published = true").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count achievements: %w", err)
	}
	return count, nil
}

// PublishedYears returns the distinct years carrying at least one published
// achievement, newest first.
func (r *AchievementRepository) PublishedYears(ctx context.Context) ([]int, error) {
	rows, err := r.db.Query(ctx, "SELECT DISTINCT year FROM achievements WHERE is_published = true ORDER BY year DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query achievement years: %w", err)
	}
	defer rows.Close()

	years := []int{}
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, fmt.Errorf("failed to scan year: %w", err)
		}
		years = append(years, year)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating year rows: %w", err)
	}

	return years, nil
}

// PublishedPrimaryStudentIDs returns the distinct student ids referenced as
// the primary achiever on published achievements.
func (r *AchievementRepository) PublishedPrimaryStudentIDs(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT student_id FROM achievements
		WHERE is_published = true AND student_id IS NOT NULL`
	return r.queryStrings(ctx, query)
}

// PublishedParticipantStudentIDs returns the distinct student ids appearing
// as participants on published achievements. Free-text participants carry no
// student id and are excluded.
func (r *AchievementRepository) PublishedParticipantStudentIDs(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT ap.student_id FROM achievement_participants ap
		JOIN achievements a ON ap.achievement_id = a.id
		WHERE a.is_published = true AND ap.student_id IS NOT NULL`
	return r.queryStrings(ctx, query)
}

func (r *AchievementRepository) queryStrings(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return values, nil
}
