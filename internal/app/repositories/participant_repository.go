package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sahan/schoolpride/internal/app/models"
	"github.com/sahan/schoolpride/internal/pkg/helpers"
	"github.com/sahan/schoolpride/internal/pkg/logger"
)

// ParticipantRepository handles achievement participant database operations
type ParticipantRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewParticipantRepository creates a new ParticipantRepository
func NewParticipantRepository(db *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ParticipantRepository) participantSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"ap.id", "ap.achievement_id", "ap.role", "ap.student_id", "ap.name",
		"ap.display_order", "ap.created_at",
		"s.id", "s.full_name", "s.index_number", "s.gender", "s.student_type", "s.batch_year",
	).
		From("achievement_participants ap").
		LeftJoin("students s ON ap.student_id = s.id")
}

func (r *ParticipantRepository) queryParticipants(ctx context.Context, query squirrel.SelectBuilder) ([]models.AchievementParticipant, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build participants query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying participants")
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	participants := []models.AchievementParticipant{}
	for rows.Next() {
		var p models.AchievementParticipant
		var studentID, name sql.NullString
		var sID, sFullName, sIndexNumber, sGender, sStudentType, sBatchYear sql.NullString

		err := rows.Scan(
			&p.ID, &p.AchievementID, &p.Role, &studentID, &name,
			&p.DisplayOrder, &p.CreatedAt,
			&sID, &sFullName, &sIndexNumber, &sGender, &sStudentType, &sBatchYear,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}

		p.StudentID = helpers.StringPtrFromNull(studentID)
		p.Name = helpers.StringPtrFromNull(name)
		if sID.Valid {
			p.Student = &models.Student{
				ID:          sID.String,
				FullName:    sFullName.String,
				IndexNumber: sIndexNumber.String,
				Gender:      models.Gender(sGender.String),
				StudentType: models.StudentType(sStudentType.String),
				BatchYear:   sBatchYear.String,
			}
		}

		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant rows: %w", err)
	}

	return participants, nil
}

// ListByAchievementID returns the participants of one achievement in display
// order, with linked student rows populated.
func (r *ParticipantRepository) ListByAchievementID(ctx context.Context, achievementID string) ([]models.AchievementParticipant, error) {
	query := r.participantSelect().
		Where(squirrel.Eq{"ap.achievement_id": achievementID}).
		OrderBy("ap.display_order ASC", "ap.created_at ASC")
	return r.queryParticipants(ctx, query)
}

// ListByAchievementIDs returns participants for a batch of achievements,
// grouped by achievement id. Used to decorate list responses in one query.
func (r *ParticipantRepository) ListByAchievementIDs(ctx context.Context, achievementIDs []string) (map[string][]models.AchievementParticipant, error) {
	grouped := map[string][]models.AchievementParticipant{}
	if len(achievementIDs) == 0 {
		return grouped, nil
	}

	query := r.participantSelect().
		Where(squirrel.Eq{"ap.achievement_id": achievementIDs}).
		OrderBy("ap.display_order ASC", "ap.created_at ASC")

	participants, err := r.queryParticipants(ctx, query)
	if err != nil {
		return nil, err
	}

	for _, p := range participants {
		grouped[p.AchievementID] = append(grouped[p.AchievementID], p)
	}

	return grouped, nil
}

// ParticipantDiff describes how to move the stored participant set to the
// desired one without rewriting rows that did not change.
type ParticipantDiff struct {
	ToInsert  []models.AchievementParticipant
	ToDelete  []string       // participant row ids
	ToReorder map[string]int // participant row id -> new display order
}

// Empty reports whether applying the diff would be a no-op.
func (d ParticipantDiff) Empty() bool {
	return len(d.ToInsert) == 0 && len(d.ToDelete) == 0 && len(d.ToReorder) == 0
}

// participantKey identifies a participant row by role and who it points at.
// Display order is deliberately excluded so a pure reorder becomes an update
// instead of a delete plus insert.
type participantKey struct {
	role      models.ParticipantRole
	studentID string
	name      string
}

func keyFor(p models.AchievementParticipant) participantKey {
	return participantKey{
		role:      p.Role,
		studentID: helpers.StringValue(p.StudentID),
		name:      helpers.StringValue(p.Name),
	}
}

// DiffParticipants compares the stored participant rows against the desired
// set. Matching is keyed by (role, student or name); rows present on both
// sides survive, with a display order update when the position moved.
// Duplicate keys on either side collapse to a single row.
func DiffParticipants(current, desired []models.AchievementParticipant) ParticipantDiff {
	diff := ParticipantDiff{ToReorder: map[string]int{}}

	existing := map[participantKey]models.AchievementParticipant{}
	for _, p := range current {
		if _, ok := existing[keyFor(p)]; ok {
			// stale duplicate row, clean it up
			diff.ToDelete = append(diff.ToDelete, p.ID)
			continue
		}
		existing[keyFor(p)] = p
	}

	wanted := map[participantKey]bool{}
	for _, p := range desired {
		k := keyFor(p)
		if wanted[k] {
			continue
		}
		wanted[k] = true

		if old, ok := existing[k]; ok {
			if old.DisplayOrder != p.DisplayOrder {
				diff.ToReorder[old.ID] = p.DisplayOrder
			}
			continue
		}
		diff.ToInsert = append(diff.ToInsert, p)
	}

	for k, p := range existing {
		if !wanted[k] {
			diff.ToDelete = append(diff.ToDelete, p.ID)
		}
	}

	return diff
}

// ApplyDiff executes a participant diff against one achievement inside the
// caller's transaction.
func (r *ParticipantRepository) ApplyDiff(ctx context.Context, q Querier, achievementID string, diff ParticipantDiff) error {
	for _, id := range diff.ToDelete {
		if _, err := q.Exec(ctx, "DELETE FROM achievement_participants WHERE id = $1 AND achievement_id = $2", id, achievementID); err != nil {
			logger.Error().Err(err).Str("participant_id", id).Msg("Error deleting participant")
			return fmt.Errorf("failed to delete participant: %w", err)
		}
	}

	for id, order := range diff.ToReorder {
		if _, err := q.Exec(ctx, "UPDATE achievement_participants SET display_order = $1 WHERE id = $2 AND achievement_id = $3", order, id, achievementID); err != nil {
			logger.Error().Err(err).Str("participant_id", id).Msg("Error reordering participant")
			return fmt.Errorf("failed to reorder participant: %w", err)
		}
	}

	for _, p := range diff.ToInsert {
		_, err := q.Exec(ctx, `
			INSERT INTO achievement_participants (achievement_id, role, student_id, name, display_order)
			VALUES ($1, $2, $3, $4, $5)`,
			achievementID, p.Role,
			helpers.GetNullString(p.StudentID), helpers.GetNullString(p.Name),
			p.DisplayOrder,
		)
		if err != nil {
			logger.Error().Err(err).Str("achievement_id", achievementID).Msg("Error inserting participant")
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	return nil
}
