package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sahan/schoolpride/internal/app/models"
	"github.com/sahan/schoolpride/internal/app/models/dto"
	"github.com/sahan/schoolpride/internal/app/repositories"
)

type fakeAchievementReader struct {
	listResult     []models.Achievement
	listErr        error
	lastFilters    repositories.AchievementFilters
	byID           *models.Achievement
	byIDErr        error
	ids            []string
	count          int
	years          []int
	primaryIDs     []string
	participantIDs []string
}

func (f *fakeAchievementReader) ListPublished(ctx context.Context, filters repositories.AchievementFilters) ([]models.Achievement, error) {
	f.lastFilters = filters
	return f.listResult, f.listErr
}

func (f *fakeAchievementReader) GetPublishedByID(ctx context.Context, id string) (*models.Achievement, error) {
	return f.byID, f.byIDErr
}

func (f *fakeAchievementReader) PublishedIDs(ctx context.Context) ([]string, error) {
	return f.ids, nil
}

func (f *fakeAchievementReader) CountPublished(ctx context.Context) (int, error) {
	return f.count, nil
}

func (f *fakeAchievementReader) PublishedYears(ctx context.Context) ([]int, error) {
	return f.years, nil
}

func (f *fakeAchievementReader) PublishedPrimaryStudentIDs(ctx context.Context) ([]string, error) {
	return f.primaryIDs, nil
}

func (f *fakeAchievementReader) PublishedParticipantStudentIDs(ctx context.Context) ([]string, error) {
	return f.participantIDs, nil
}

type fakeMediaReader struct {
	byAchievement map[string][]models.Media
	err           error
}

func (f *fakeMediaReader) ListByAchievementID(ctx context.Context, achievementID string) ([]models.Media, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byAchievement[achievementID], nil
}

func (f *fakeMediaReader) ListByAchievementIDs(ctx context.Context, achievementIDs []string) (map[string][]models.Media, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byAchievement, nil
}

type fakeParticipantReader struct {
	byAchievement map[string][]models.AchievementParticipant
	err           error
}

func (f *fakeParticipantReader) ListByAchievementID(ctx context.Context, achievementID string) ([]models.AchievementParticipant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byAchievement[achievementID], nil
}

func (f *fakeParticipantReader) ListByAchievementIDs(ctx context.Context, achievementIDs []string) (map[string][]models.AchievementParticipant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byAchievement, nil
}

func publishedAchievement(id, title string, student *models.Student) models.Achievement {
	return models.Achievement{
		ID:          id,
		Title:       title,
		Student:     student,
		IsPublished: true,
	}
}

func TestFilterBySearch(t *testing.T) {
	student := &models.Student{FullName: "Kasun Perera", IndexNumber: "IX-1042"}
	achievements := []models.Achievement{
		publishedAchievement("a1", "Zonal Chess Champion", student),
		publishedAchievement("a2", "National Swimming Meet", nil),
		publishedAchievement("a3", "Inter-School Debate", &models.Student{FullName: "Nimali Silva", IndexNumber: "IX-2077"}),
	}

	cases := []struct {
		name   string
		search string
		want   []string
	}{
		{name: "blank search returns everything", search: "  ", want: []string{"a1", "a2", "a3"}},
		{name: "matches title case-insensitively", search: "SWIMMING", want: []string{"a2"}},
		{name: "matches student full name", search: "kasun", want: []string{"a1"}},
		{name: "matches index number", search: "ix-2077", want: []string{"a3"}},
		{name: "substring in title", search: "chess", want: []string{"a1"}},
		{name: "no match yields empty slice", search: "cricket", want: []string{}},
		{name: "nil student only matched on title", search: "perera", want: []string{"a1"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterBySearch(achievements, tc.search)
			if got == nil {
				t.Fatal("expected non-nil result")
			}
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d results, got %d", len(tc.want), len(got))
			}
			for i, id := range tc.want {
				if got[i].ID != id {
					t.Errorf("result %d: expected id %q, got %q", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestCountUniqueAchievers(t *testing.T) {
	t.Run("unions both id lists", func(t *testing.T) {
		got := CountUniqueAchievers([]string{"s1", "s2"}, []string{"s3", "s4"})
		if got != 4 {
			t.Errorf("expected 4, got %d", got)
		}
	})

	t.Run("overlapping ids count once", func(t *testing.T) {
		got := CountUniqueAchievers([]string{"s1", "s2"}, []string{"s2", "s3", "s2"})
		if got != 3 {
			t.Errorf("expected 3, got %d", got)
		}
	})

	t.Run("empty inputs", func(t *testing.T) {
		if got := CountUniqueAchievers(nil, nil); got != 0 {
			t.Errorf("expected 0, got %d", got)
		}
	})
}

func TestAchievementServiceListPublished(t *testing.T) {
	ctx := context.Background()

	t.Run("passes exact filters through and attaches relations", func(t *testing.T) {
		student := &models.Student{FullName: "Kasun Perera", IndexNumber: "IX-1042"}
		reader := &fakeAchievementReader{
			listResult: []models.Achievement{
				publishedAchievement("a1", "Zonal Chess Champion", student),
				publishedAchievement("a2", "National Swimming Meet", nil),
			},
		}
		media := &fakeMediaReader{byAchievement: map[string][]models.Media{
			"a1": {{ID: "m1", AchievementID: "a1", FileURL: "/uploads/m1.jpg", FileType: "image"}},
		}}
		participants := &fakeParticipantReader{byAchievement: map[string][]models.AchievementParticipant{
			"a2": {{ID: "p1", AchievementID: "a2", Role: "player"}},
		}}

		svc := NewAchievementService(reader, media, participants)
		got, err := svc.ListPublished(ctx, &dto.AchievementFilterRequest{
			Year:     2024,
			Category: "sports",
			Gender:   "male",
			Limit:    50,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if reader.lastFilters.Year != 2024 || reader.lastFilters.Category != "sports" ||
			reader.lastFilters.Gender != "male" || reader.lastFilters.Limit != 50 {
			t.Errorf("filters not forwarded: %+v", reader.lastFilters)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 achievements, got %d", len(got))
		}
		if len(got[0].Media) != 1 || got[0].Media[0].ID != "m1" {
			t.Errorf("expected media attached to first achievement, got %+v", got[0].Media)
		}
		if got[1].Media == nil || len(got[1].Media) != 0 {
			t.Errorf("expected empty non-nil media for second achievement, got %+v", got[1].Media)
		}
		if len(got[1].Participants) != 1 || got[1].Participants[0].ID != "p1" {
			t.Errorf("expected participant attached to second achievement, got %+v", got[1].Participants)
		}
	})

	t.Run("search filters fetched rows", func(t *testing.T) {
		reader := &fakeAchievementReader{
			listResult: []models.Achievement{
				publishedAchievement("a1", "Zonal Chess Champion", nil),
				publishedAchievement("a2", "National Swimming Meet", nil),
			},
		}
		svc := NewAchievementService(reader, &fakeMediaReader{}, &fakeParticipantReader{})

		got, err := svc.ListPublished(ctx, &dto.AchievementFilterRequest{Search: "swimming"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || got[0].ID != "a2" {
			t.Fatalf("expected only a2, got %+v", got)
		}
	})

	t.Run("repository error degrades to empty list", func(t *testing.T) {
		reader := &fakeAchievementReader{listErr: errors.New("connection refused")}
		svc := NewAchievementService(reader, &fakeMediaReader{}, &fakeParticipantReader{})

		got, err := svc.ListPublished(ctx, &dto.AchievementFilterRequest{})
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty slice, got %+v", got)
		}
	})

	t.Run("relation fetch error degrades to empty list", func(t *testing.T) {
		reader := &fakeAchievementReader{
			listResult: []models.Achievement{publishedAchievement("a1", "Zonal Chess Champion", nil)},
		}
		media := &fakeMediaReader{err: errors.New("connection refused")}
		svc := NewAchievementService(reader, media, &fakeParticipantReader{})

		got, err := svc.ListPublished(ctx, &dto.AchievementFilterRequest{})
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty slice, got %+v", got)
		}
	})
}

func TestAchievementServiceGetPublishedByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns achievement with media and participants", func(t *testing.T) {
		detail := publishedAchievement("a1", "Zonal Chess Champion", nil)
		reader := &fakeAchievementReader{byID: &detail}
		media := &fakeMediaReader{byAchievement: map[string][]models.Media{
			"a1": {{ID: "m1"}, {ID: "m2"}},
		}}
		participants := &fakeParticipantReader{byAchievement: map[string][]models.AchievementParticipant{
			"a1": {{ID: "p1", Role: "captain"}},
		}}

		svc := NewAchievementService(reader, media, participants)
		got, err := svc.GetPublishedByID(ctx, "a1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got.Media) != 2 {
			t.Errorf("expected 2 media items, got %d", len(got.Media))
		}
		if len(got.Participants) != 1 || got.Participants[0].Role != "captain" {
			t.Errorf("expected captain participant, got %+v", got.Participants)
		}
	})

	t.Run("not found propagates", func(t *testing.T) {
		wantErr := errors.New("achievement not found")
		reader := &fakeAchievementReader{byIDErr: wantErr}
		svc := NewAchievementService(reader, &fakeMediaReader{}, &fakeParticipantReader{})

		if _, err := svc.GetPublishedByID(ctx, "missing"); !errors.Is(err, wantErr) {
			t.Fatalf("expected %v, got %v", wantErr, err)
		}
	})

	t.Run("relation error fails the lookup", func(t *testing.T) {
		detail := publishedAchievement("a1", "Zonal Chess Champion", nil)
		reader := &fakeAchievementReader{byID: &detail}
		participants := &fakeParticipantReader{err: errors.New("connection refused")}
		svc := NewAchievementService(reader, &fakeMediaReader{}, participants)

		if _, err := svc.GetPublishedByID(ctx, "a1"); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestAchievementServiceGetStats(t *testing.T) {
	reader := &fakeAchievementReader{
		count:          12,
		years:          []int{2025, 2024, 2022},
		primaryIDs:     []string{"s1", "s2"},
		participantIDs: []string{"s2", "s3", "s4"},
	}
	svc := NewAchievementService(reader, &fakeMediaReader{}, &fakeParticipantReader{})

	stats, err := svc.GetStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalAchievements != 12 {
		t.Errorf("expected 12 total achievements, got %d", stats.TotalAchievements)
	}
	if stats.UniqueAchievers != 4 {
		t.Errorf("expected 4 unique achievers, got %d", stats.UniqueAchievers)
	}
	if stats.YearsCovered != 3 {
		t.Errorf("expected 3 years covered, got %d", stats.YearsCovered)
	}
	if len(stats.Years) != 3 || stats.Years[0] != 2025 {
		t.Errorf("unexpected years: %v", stats.Years)
	}
}

func TestAchievementServiceGetPublishedIDs(t *testing.T) {
	reader := &fakeAchievementReader{ids: []string{"a1", "a2"}}
	svc := NewAchievementService(reader, &fakeMediaReader{}, &fakeParticipantReader{})

	resp, err := svc.GetPublishedIDs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.IDs) != 2 || resp.IDs[0] != "a1" {
		t.Errorf("unexpected ids: %v", resp.IDs)
	}
}
