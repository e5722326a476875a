package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sahan/schoolpride/internal/app/models"
	"github.com/sahan/schoolpride/internal/app/models/dto"
	"github.com/sahan/schoolpride/internal/app/repositories"
	"github.com/sahan/schoolpride/internal/pkg/logger"
)

// AchievementReader is the persistence surface the public query layer reads
// from.
type AchievementReader interface {
	ListPublished(ctx context.Context, filters repositories.AchievementFilters) ([]models.Achievement, error)
	GetPublishedByID(ctx context.Context, id string) (*models.Achievement, error)
	PublishedIDs(ctx context.Context) ([]string, error)
	CountPublished(ctx context.Context) (int, error)
	PublishedYears(ctx context.Context) ([]int, error)
	PublishedPrimaryStudentIDs(ctx context.Context) ([]string, error)
	PublishedParticipantStudentIDs(ctx context.Context) ([]string, error)
}

// MediaReader loads media attachments for achievements.
type MediaReader interface {
	ListByAchievementID(ctx context.Context, achievementID string) ([]models.Media, error)
	ListByAchievementIDs(ctx context.Context, achievementIDs []string) (map[string][]models.Media, error)
}

// ParticipantReader loads participant rows for achievements.
type ParticipantReader interface {
	ListByAchievementID(ctx context.Context, achievementID string) ([]models.AchievementParticipant, error)
	ListByAchievementIDs(ctx context.Context, achievementIDs []string) (map[string][]models.AchievementParticipant, error)
}

// AchievementService defines the interface for the public achievement read
// operations
type AchievementService interface {
	ListPublished(ctx context.Context, filter *dto.AchievementFilterRequest) ([]models.Achievement, error)
	GetPublishedByID(ctx context.Context, id string) (*models.Achievement, error)
	GetPublishedIDs(ctx context.Context) (*dto.AchievementIDsResponse, error)
	GetStats(ctx context.Context) (*dto.StatsResponse, error)
}

// achievementServiceImpl implements AchievementService
type achievementServiceImpl struct {
	achievementRepo AchievementReader
	mediaRepo       MediaReader
	participantRepo ParticipantReader
}

// NewAchievementService creates a new AchievementService
func NewAchievementService(
	achievementRepo AchievementReader,
	mediaRepo MediaReader,
	participantRepo ParticipantReader,
) AchievementService {
	return &achievementServiceImpl{
		achievementRepo: achievementRepo,
		mediaRepo:       mediaRepo,
		participantRepo: participantRepo,
	}
}

// ListPublished returns published achievements for the public list. Exact
// filters run in SQL; free-text search runs afterwards over the fetched
// rows because it spans columns of both the achievement and the joined
// student. Read errors degrade to an empty list rather than a failure.
func (s *achievementServiceImpl) ListPublished(ctx context.Context, filter *dto.AchievementFilterRequest) ([]models.Achievement, error) {
	achievements, err := s.achievementRepo.ListPublished(ctx, repositories.AchievementFilters{
		Year:            filter.Year,
		Category:        filter.Category,
		CurriculumType:  filter.CurriculumType,
		AchievementType: filter.AchievementType,
		Gender:          filter.Gender,
		Limit:           filter.Limit,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Error listing achievements, degrading to empty list")
		return []models.Achievement{}, nil
	}

	achievements = FilterBySearch(achievements, filter.Search)

	if err := s.attachRelations(ctx, achievements); err != nil {
		logger.Error().Err(err).Msg("Error attaching achievement relations, degrading to empty list")
		return []models.Achievement{}, nil
	}

	return achievements, nil
}

// FilterBySearch applies the case-insensitive substring match across student
// full name, student index number, and achievement title. Blank search text
// returns the input unchanged.
func FilterBySearch(achievements []models.Achievement, search string) []models.Achievement {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return achievements
	}

	matched := []models.Achievement{}
	for _, a := range achievements {
		if strings.Contains(strings.ToLower(a.Title), search) {
			matched = append(matched, a)
			continue
		}
		if a.Student != nil {
			if strings.Contains(strings.ToLower(a.Student.FullName), search) ||
				strings.Contains(strings.ToLower(a.Student.IndexNumber), search) {
				matched = append(matched, a)
			}
		}
	}

	return matched
}

// attachRelations decorates a batch of achievements with their media and
// participants using one query per relation.
func (s *achievementServiceImpl) attachRelations(ctx context.Context, achievements []models.Achievement) error {
	if len(achievements) == 0 {
		return nil
	}

	ids := make([]string, 0, len(achievements))
	for _, a := range achievements {
		ids = append(ids, a.ID)
	}

	media, err := s.mediaRepo.ListByAchievementIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("error fetching media: %w", err)
	}
	participants, err := s.participantRepo.ListByAchievementIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("error fetching participants: %w", err)
	}

	for i := range achievements {
		if m, ok := media[achievements[i].ID]; ok {
			achievements[i].Media = m
		} else {
			achievements[i].Media = []models.Media{}
		}
		achievements[i].Participants = participants[achievements[i].ID]
	}

	return nil
}

// GetPublishedByID returns one published achievement with its media and
// participants. The two relation fetches are independent and run
// concurrently.
func (s *achievementServiceImpl) GetPublishedByID(ctx context.Context, id string) (*models.Achievement, error) {
	achievement, err := s.achievementRepo.GetPublishedByID(ctx, id)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		media, err := s.mediaRepo.ListByAchievementID(gctx, id)
		if err != nil {
			return fmt.Errorf("error fetching media: %w", err)
		}
		achievement.Media = media
		return nil
	})
	g.Go(func() error {
		participants, err := s.participantRepo.ListByAchievementID(gctx, id)
		if err != nil {
			return fmt.Errorf("error fetching participants: %w", err)
		}
		achievement.Participants = participants
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return achievement, nil
}

// GetPublishedIDs enumerates published achievement ids for static page
// generation.
func (s *achievementServiceImpl) GetPublishedIDs(ctx context.Context) (*dto.AchievementIDsResponse, error) {
	ids, err := s.achievementRepo.PublishedIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching achievement ids: %w", err)
	}
	return &dto.AchievementIDsResponse{IDs: ids}, nil
}

// GetStats computes the landing page counters. The four underlying queries
// touch disjoint data and run concurrently; unique achievers is the union of
// primary-student ids and participant-student ids across published records.
func (s *achievementServiceImpl) GetStats(ctx context.Context) (*dto.StatsResponse, error) {
	var (
		total          int
		years          []int
		primaryIDs     []string
		participantIDs []string
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		total, err = s.achievementRepo.CountPublished(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		years, err = s.achievementRepo.PublishedYears(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		primaryIDs, err = s.achievementRepo.PublishedPrimaryStudentIDs(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		participantIDs, err = s.achievementRepo.PublishedParticipantStudentIDs(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("error computing stats: %w", err)
	}

	return &dto.StatsResponse{
		TotalAchievements: total,
		UniqueAchievers:   CountUniqueAchievers(primaryIDs, participantIDs),
		YearsCovered:      len(years),
		Years:             years,
	}, nil
}

// CountUniqueAchievers unions the two student id lists into a set and
// returns its size. A student credited both as primary achiever and as a
// participant counts once.
func CountUniqueAchievers(primaryIDs, participantIDs []string) int {
	unique := map[string]struct{}{}
	for _, id := range primaryIDs {
		unique[id] = struct{}{}
	}
	for _, id := range participantIDs {
		unique[id] = struct{}{}
	}
	return len(unique)
}
