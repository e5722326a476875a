package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sahan/schoolpride/internal/app/models"
	"github.com/sahan/schoolpride/internal/pkg/logger"
)

// StudentRepository handles student database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByIndexNumber looks a student up by the school-issued index number.
// Returns (nil, nil) when no student carries that number.
func (r *StudentRepository) GetByIndexNumber(ctx context.Context, q Querier, indexNumber string) (*models.Student, error) {
	sqlStr, args, err := r.sb.Select("id", "full_name", "index_number", "gender", "student_type", "batch_year", "created_at").
		From("students").
		Where(squirrel.Eq{"index_number": indexNumber}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student lookup query: %w", err)
	}

	var student models.Student
	err = q.QueryRow(ctx, sqlStr, args...).Scan(
		&student.ID, &student.FullName, &student.IndexNumber,
		&student.Gender, &student.StudentType, &student.BatchYear, &student.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		logger.Error().Err(err).Str("index_number", indexNumber).Msg("Error querying student by index number")
		return nil, fmt.Errorf("failed to query student: %w", err)
	}

	return &student, nil
}

// GetByID retrieves a student by primary key.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	sqlStr, args, err := r.sb.Select("id", "full_name", "index_number", "gender", "student_type", "batch_year", "created_at").
		From("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student query: %w", err)
	}

	var student models.Student
	err = r.db.QueryRow(ctx, sqlStr, args...).Scan(
		&student.ID, &student.FullName, &student.IndexNumber,
		&student.Gender, &student.StudentType, &student.BatchYear, &student.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("student %s: %w", id, pgx.ErrNoRows)
		}
		return nil, fmt.Errorf("failed to query student: %w", err)
	}

	return &student, nil
}

// Upsert inserts a student or, when the index number already exists, refreshes
// the profile fields on the existing row. Returns the student id either way.
func (r *StudentRepository) Upsert(ctx context.Context, q Querier, student *models.Student) (string, error) {
	query := `
		INSERT INTO students (full_name, index_number, gender, student_type, batch_year)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (index_number) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			gender = EXCLUDED.gender,
			student_type = EXCLUDED.student_type,
			batch_year = EXCLUDED.batch_year
		RETURNING id`

	var id string
	err := q.QueryRow(ctx, query,
		student.FullName, student.IndexNumber, student.Gender,
		student.StudentType, student.BatchYear,
	).Scan(&id)
	if err != nil {
		logger.Error().Err(err).Str("index_number", student.IndexNumber).Msg("Error upserting student")
		return "", fmt.Errorf("failed to upsert student: %w", err)
	}

	return id, nil
}
