package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/sahan/schoolpride/internal/app/models"
	"github.com/sahan/schoolpride/internal/app/models/dto"
	"github.com/sahan/schoolpride/internal/app/repositories"
	"github.com/sahan/schoolpride/internal/db"
	"github.com/sahan/schoolpride/internal/pkg/apperrors"
	"github.com/sahan/schoolpride/internal/pkg/filestorage"
	"github.com/sahan/schoolpride/internal/pkg/helpers"
	"github.com/sahan/schoolpride/internal/pkg/logger"
)

// TxRunner executes a function inside a database transaction. It exists so
// the service can be exercised without a live pool.
type TxRunner func(ctx context.Context, fn db.TransactionFn) error

// AchievementStore is the persistence surface the admin write path needs.
type AchievementStore interface {
	ListAll(ctx context.Context) ([]models.Achievement, error)
	GetByID(ctx context.Context, id string) (*models.Achievement, error)
	Insert(ctx context.Context, q repositories.Querier, a *models.Achievement) (string, error)
	Update(ctx context.Context, q repositories.Querier, a *models.Achievement) error
	Delete(ctx context.Context, id string) error
	SetPublished(ctx context.Context, id string, published bool) error
}

// StudentStore resolves and upserts student rows.
type StudentStore interface {
	GetByIndexNumber(ctx context.Context, q repositories.Querier, indexNumber string) (*models.Student, error)
	Upsert(ctx context.Context, q repositories.Querier, student *models.Student) (string, error)
}

// ParticipantStore reads and rewrites participant rows.
type ParticipantStore interface {
	ListByAchievementID(ctx context.Context, achievementID string) ([]models.AchievementParticipant, error)
	ListByAchievementIDs(ctx context.Context, achievementIDs []string) (map[string][]models.AchievementParticipant, error)
	ApplyDiff(ctx context.Context, q repositories.Querier, achievementID string, diff repositories.ParticipantDiff) error
}

// MediaStore manages media rows.
type MediaStore interface {
	ListByAchievementID(ctx context.Context, achievementID string) ([]models.Media, error)
	ListByAchievementIDs(ctx context.Context, achievementIDs []string) (map[string][]models.Media, error)
	GetByID(ctx context.Context, id string) (*models.Media, error)
	Insert(ctx context.Context, media *models.Media) (string, error)
	Delete(ctx context.Context, id string) error
}

// AdminService defines the interface for admin achievement management
type AdminService interface {
	ListAchievements(ctx context.Context) ([]models.Achievement, error)
	GetAchievementForEdit(ctx context.Context, id string) (*models.Achievement, error)
	SaveAchievement(ctx context.Context, input *dto.SaveAchievementInput) (*dto.SaveAchievementResponse, error)
	DeleteAchievement(ctx context.Context, id string) error
	SetPublished(ctx context.Context, id string, published bool) error
	AddMedia(ctx context.Context, achievementID string, file *multipart.FileHeader) (*models.Media, error)
	DeleteMedia(ctx context.Context, mediaID string) error
}

// adminServiceImpl implements AdminService
type adminServiceImpl struct {
	achievementRepo AchievementStore
	studentRepo     StudentStore
	participantRepo ParticipantStore
	mediaRepo       MediaStore
	storage         filestorage.Storage
	runTx           TxRunner
}

// NewAdminService creates a new AdminService
func NewAdminService(
	achievementRepo AchievementStore,
	studentRepo StudentStore,
	participantRepo ParticipantStore,
	mediaRepo MediaStore,
	storage filestorage.Storage,
	runTx TxRunner,
) AdminService {
	return &adminServiceImpl{
		achievementRepo: achievementRepo,
		studentRepo:     studentRepo,
		participantRepo: participantRepo,
		mediaRepo:       mediaRepo,
		storage:         storage,
		runTx:           runTx,
	}
}

// ListAchievements returns every achievement for the dashboard, drafts
// included, with media and participants attached.
func (s *adminServiceImpl) ListAchievements(ctx context.Context) ([]models.Achievement, error) {
	achievements, err := s.achievementRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing achievements: %w", err)
	}

	if len(achievements) == 0 {
		return achievements, nil
	}

	ids := make([]string, 0, len(achievements))
	for _, a := range achievements {
		ids = append(ids, a.ID)
	}

	media, err := s.mediaRepo.ListByAchievementIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("error fetching media: %w", err)
	}
	participants, err := s.participantRepo.ListByAchievementIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("error fetching participants: %w", err)
	}

	for i := range achievements {
		if m, ok := media[achievements[i].ID]; ok {
			achievements[i].Media = m
		} else {
			achievements[i].Media = []models.Media{}
		}
		achievements[i].Participants = participants[achievements[i].ID]
	}

	return achievements, nil
}

// GetAchievementForEdit returns one achievement regardless of publish state,
// with relations, for the edit form.
func (s *adminServiceImpl) GetAchievementForEdit(ctx context.Context, id string) (*models.Achievement, error) {
	achievement, err := s.achievementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	media, err := s.mediaRepo.ListByAchievementID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error fetching media: %w", err)
	}
	participants, err := s.participantRepo.ListByAchievementID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error fetching participants: %w", err)
	}

	achievement.Media = media
	achievement.Participants = participants
	return achievement, nil
}

// validateSaveInput trims and checks the form fields that must carry a value
// from a closed set.
func validateSaveInput(input *dto.SaveAchievementInput) error {
	input.FullName = strings.TrimSpace(input.FullName)
	input.IndexNumber = strings.TrimSpace(input.IndexNumber)
	input.BatchYear = strings.TrimSpace(input.BatchYear)
	input.Title = strings.TrimSpace(input.Title)

	switch {
	case input.FullName == "":
		return apperrors.NewBadRequestError("full_name is required")
	case input.IndexNumber == "":
		return apperrors.NewBadRequestError("index_number is required")
	case input.BatchYear == "":
		return apperrors.NewBadRequestError("batch_year is required")
	case input.Title == "":
		return apperrors.NewBadRequestError("title is required")
	case input.Year <= 0:
		return apperrors.NewBadRequestError("year is required")
	case !models.IsValidGender(input.Gender):
		return apperrors.NewBadRequestError("invalid gender")
	case !models.IsValidStudentType(input.StudentType):
		return apperrors.NewBadRequestError("invalid student_type")
	case !models.IsValidCategory(input.Category):
		return apperrors.NewBadRequestError("invalid category")
	case !models.IsValidCurriculumType(input.CurriculumType):
		return apperrors.NewBadRequestError("invalid curriculum_type")
	case !models.IsValidAchievementType(input.AchievementType):
		return apperrors.NewBadRequestError("invalid achievement_type")
	case !models.IsValidLevel(input.Level):
		return apperrors.NewBadRequestError("invalid level")
	}

	return nil
}

// FilterValidParticipants keeps the submitted participant rows whose role is
// in the fixed set and whose trimmed value is non-empty. Invalid rows are
// dropped without failing the submission.
func FilterValidParticipants(inputs []dto.ParticipantInput) []dto.ParticipantInput {
	valid := []dto.ParticipantInput{}
	for _, in := range inputs {
		value := strings.TrimSpace(in.Value)
		if value == "" || !models.IsValidParticipantRole(in.Role) {
			continue
		}
		valid = append(valid, dto.ParticipantInput{Role: in.Role, Value: value})
	}
	return valid
}

// SaveAchievement handles both create and update of an achievement. The
// whole write runs in one transaction: student upsert by index number, then
// the achievement row, then the participant set. Participant values are
// resolved as student index numbers where possible and kept as free-text
// names otherwise.
func (s *adminServiceImpl) SaveAchievement(ctx context.Context, input *dto.SaveAchievementInput) (*dto.SaveAchievementResponse, error) {
	if err := validateSaveInput(input); err != nil {
		return nil, err
	}
	participants := FilterValidParticipants(input.Participants)

	// Current participant rows, for the diff. Empty on create.
	var current []models.AchievementParticipant
	if input.ID != "" {
		if _, err := s.achievementRepo.GetByID(ctx, input.ID); err != nil {
			return nil, err
		}
		var err error
		current, err = s.participantRepo.ListByAchievementID(ctx, input.ID)
		if err != nil {
			return nil, fmt.Errorf("error fetching participants: %w", err)
		}
	}

	achievementID := input.ID
	err := s.runTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		studentID, err := s.studentRepo.Upsert(ctx, tx, &models.Student{
			FullName:    input.FullName,
			IndexNumber: input.IndexNumber,
			Gender:      models.Gender(input.Gender),
			StudentType: models.StudentType(input.StudentType),
			BatchYear:   input.BatchYear,
		})
		if err != nil {
			return err
		}

		achievement := &models.Achievement{
			ID:              input.ID,
			StudentID:       &studentID,
			Title:           input.Title,
			Description:     helpers.StringPtr(strings.TrimSpace(input.Description)),
			Category:        models.Category(input.Category),
			CurriculumType:  models.CurriculumType(input.CurriculumType),
			AchievementType: models.AchievementType(input.AchievementType),
			Level:           models.Level(input.Level),
			EventName:       helpers.StringPtr(strings.TrimSpace(input.EventName)),
			Year:            input.Year,
			IsPublished:     input.IsPublished,
			AgeGroup:        helpers.StringPtr(strings.TrimSpace(input.AgeGroup)),
			ResultPosition:  helpers.StringPtr(strings.TrimSpace(input.ResultPosition)),
			Timing:          helpers.StringPtr(strings.TrimSpace(input.Timing)),
			Notes:           helpers.StringPtr(strings.TrimSpace(input.Notes)),
		}

		if input.ID == "" {
			achievementID, err = s.achievementRepo.Insert(ctx, tx, achievement)
			if err != nil {
				return err
			}
		} else if err := s.achievementRepo.Update(ctx, tx, achievement); err != nil {
			return err
		}

		desired, err := s.resolveParticipants(ctx, tx, achievementID, participants)
		if err != nil {
			return err
		}

		diff := repositories.DiffParticipants(current, desired)
		if diff.Empty() {
			return nil
		}
		return s.participantRepo.ApplyDiff(ctx, tx, achievementID, diff)
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Str("achievement_id", achievementID).Bool("created", input.ID == "").Msg("Achievement saved")
	return &dto.SaveAchievementResponse{ID: achievementID}, nil
}

// resolveParticipants maps submitted (role, value) rows to participant rows,
// looking each value up as a student index number first. Submission order
// becomes display order.
func (s *adminServiceImpl) resolveParticipants(ctx context.Context, q repositories.Querier, achievementID string, inputs []dto.ParticipantInput) ([]models.AchievementParticipant, error) {
	desired := make([]models.AchievementParticipant, 0, len(inputs))
	for order, in := range inputs {
		p := models.AchievementParticipant{
			AchievementID: achievementID,
			Role:          models.ParticipantRole(in.Role),
			DisplayOrder:  order,
		}

		student, err := s.studentRepo.GetByIndexNumber(ctx, q, in.Value)
		if err != nil {
			return nil, err
		}
		if student != nil {
			p.StudentID = &student.ID
		} else {
			value := in.Value
			p.Name = &value
		}

		desired = append(desired, p)
	}

	return desired, nil
}

// DeleteAchievement removes an achievement row and then its stored media
// files. File cleanup failures are logged, not surfaced; the rows are
// already gone.
func (s *adminServiceImpl) DeleteAchievement(ctx context.Context, id string) error {
	media, err := s.mediaRepo.ListByAchievementID(ctx, id)
	if err != nil {
		return fmt.Errorf("error fetching media: %w", err)
	}

	if err := s.achievementRepo.Delete(ctx, id); err != nil {
		return err
	}

	for _, m := range media {
		if err := s.storage.DeleteFile(m.FileURL); err != nil {
			logger.Warn().Err(err).Str("file_url", m.FileURL).Msg("Failed to remove media file after delete")
		}
	}

	return nil
}

// SetPublished flips the publish flag.
func (s *adminServiceImpl) SetPublished(ctx context.Context, id string, published bool) error {
	return s.achievementRepo.SetPublished(ctx, id, published)
}

// AddMedia stores an uploaded file and attaches it to an achievement at the
// end of the gallery.
func (s *adminServiceImpl) AddMedia(ctx context.Context, achievementID string, file *multipart.FileHeader) (*models.Media, error) {
	if _, err := s.achievementRepo.GetByID(ctx, achievementID); err != nil {
		return nil, err
	}

	fileURL, err := s.storage.SaveFile(file)
	if err != nil {
		return nil, fmt.Errorf("error saving media file: %w", err)
	}

	media := &models.Media{
		AchievementID: achievementID,
		FileURL:       fileURL,
		FileType:      mediaFileType(file),
	}

	if _, err := s.mediaRepo.Insert(ctx, media); err != nil {
		if cleanupErr := s.storage.DeleteFile(fileURL); cleanupErr != nil {
			logger.Warn().Err(cleanupErr).Str("file_url", fileURL).Msg("Failed to remove orphaned media file")
		}
		return nil, err
	}

	return media, nil
}

func mediaFileType(file *multipart.FileHeader) string {
	if file != nil && strings.HasPrefix(file.Header.Get("Content-Type"), "video/") {
		return "video"
	}
	return "image"
}

// DeleteMedia removes one media row and its stored file.
func (s *adminServiceImpl) DeleteMedia(ctx context.Context, mediaID string) error {
	media, err := s.mediaRepo.GetByID(ctx, mediaID)
	if err != nil {
		return err
	}

	if err := s.mediaRepo.Delete(ctx, mediaID); err != nil {
		return err
	}

	if err := s.storage.DeleteFile(media.FileURL); err != nil {
		logger.Warn().Err(err).Str("file_url", media.FileURL).Msg("Failed to remove media file")
	}

	return nil
}
