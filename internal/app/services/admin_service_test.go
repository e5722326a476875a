package services

import (
	"context"
	"errors"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/sahan/schoolpride/internal/app/models"
	"github.com/sahan/schoolpride/internal/app/models/dto"
	"github.com/sahan/schoolpride/internal/app/repositories"
	"github.com/sahan/schoolpride/internal/db"
	"github.com/sahan/schoolpride/internal/pkg/apperrors"
)

type fakeAchievementStore struct {
	all       []models.Achievement
	byID      map[string]*models.Achievement
	inserted  *models.Achievement
	updated   *models.Achievement
	deleted   []string
	published map[string]bool
	insertID  string
	insertErr error
}

func (f *fakeAchievementStore) ListAll(ctx context.Context) ([]models.Achievement, error) {
	return f.all, nil
}

func (f *fakeAchievementStore) GetByID(ctx context.Context, id string) (*models.Achievement, error) {
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, apperrors.ErrAchievementNotFound
}

func (f *fakeAchievementStore) Insert(ctx context.Context, q repositories.Querier, a *models.Achievement) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	f.inserted = a
	return f.insertID, nil
}

func (f *fakeAchievementStore) Update(ctx context.Context, q repositories.Querier, a *models.Achievement) error {
	f.updated = a
	return nil
}

func (f *fakeAchievementStore) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAchievementStore) SetPublished(ctx context.Context, id string, published bool) error {
	if f.published == nil {
		f.published = map[string]bool{}
	}
	f.published[id] = published
	return nil
}

type fakeStudentStore struct {
	byIndexNumber map[string]*models.Student
	upserted      *models.Student
	upsertID      string
}

func (f *fakeStudentStore) GetByIndexNumber(ctx context.Context, q repositories.Querier, indexNumber string) (*models.Student, error) {
	return f.byIndexNumber[indexNumber], nil
}

func (f *fakeStudentStore) Upsert(ctx context.Context, q repositories.Querier, student *models.Student) (string, error) {
	f.upserted = student
	return f.upsertID, nil
}

type fakeParticipantStore struct {
	current     []models.AchievementParticipant
	appliedID   string
	appliedDiff *repositories.ParticipantDiff
}

func (f *fakeParticipantStore) ListByAchievementID(ctx context.Context, achievementID string) ([]models.AchievementParticipant, error) {
	return f.current, nil
}

func (f *fakeParticipantStore) ListByAchievementIDs(ctx context.Context, achievementIDs []string) (map[string][]models.AchievementParticipant, error) {
	return map[string][]models.AchievementParticipant{}, nil
}

func (f *fakeParticipantStore) ApplyDiff(ctx context.Context, q repositories.Querier, achievementID string, diff repositories.ParticipantDiff) error {
	f.appliedID = achievementID
	f.appliedDiff = &diff
	return nil
}

type fakeMediaStore struct {
	byAchievement map[string][]models.Media
	byID          map[string]*models.Media
	inserted      *models.Media
	insertErr     error
	deleted       []string
}

func (f *fakeMediaStore) ListByAchievementID(ctx context.Context, achievementID string) ([]models.Media, error) {
	return f.byAchievement[achievementID], nil
}

func (f *fakeMediaStore) ListByAchievementIDs(ctx context.Context, achievementIDs []string) (map[string][]models.Media, error) {
	return f.byAchievement, nil
}

func (f *fakeMediaStore) GetByID(ctx context.Context, id string) (*models.Media, error) {
	if m, ok := f.byID[id]; ok {
		return m, nil
	}
	return nil, apperrors.ErrMediaNotFound
}

func (f *fakeMediaStore) Insert(ctx context.Context, media *models.Media) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	f.inserted = media
	return "new-media-id", nil
}

func (f *fakeMediaStore) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeStorage struct {
	savedURL  string
	saveErr   error
	deleted   []string
	deleteErr error
}

func (f *fakeStorage) SaveFile(file *multipart.FileHeader) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	return f.savedURL, nil
}

func (f *fakeStorage) DeleteFile(fileURL string) error {
	f.deleted = append(f.deleted, fileURL)
	return f.deleteErr
}

// passthroughTx runs the transaction body directly. The fakes never touch the
// Querier, so a nil tx is fine.
func passthroughTx(ctx context.Context, fn db.TransactionFn) error {
	return fn(ctx, nil)
}

func validSaveInput() *dto.SaveAchievementInput {
	return &dto.SaveAchievementInput{
		StudentType:     "old_boy",
		Gender:          "male",
		AchievementType: "individual",
		CurriculumType:  "co_curricular",
		Category:        "sports",
		FullName:        "Kasun Perera",
		IndexNumber:     "IX-1042",
		BatchYear:       "2015",
		Title:           "Zonal Chess Champion",
		Level:           "zonal",
		Year:            2024,
		IsPublished:     true,
	}
}

func newAdminFixture() (*fakeAchievementStore, *fakeStudentStore, *fakeParticipantStore, *fakeMediaStore, *fakeStorage, AdminService) {
	achievements := &fakeAchievementStore{byID: map[string]*models.Achievement{}, insertID: "new-achievement-id"}
	students := &fakeStudentStore{byIndexNumber: map[string]*models.Student{}, upsertID: "student-id"}
	participants := &fakeParticipantStore{}
	media := &fakeMediaStore{byAchievement: map[string][]models.Media{}, byID: map[string]*models.Media{}}
	storage := &fakeStorage{savedURL: "/uploads/file.jpg"}
	svc := NewAdminService(achievements, students, participants, media, storage, passthroughTx)
	return achievements, students, participants, media, storage, svc
}

func TestSaveAchievementCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("upserts student and inserts achievement", func(t *testing.T) {
		achievements, students, _, _, _, svc := newAdminFixture()

		input := validSaveInput()
		input.Description = "  Won the under 19 title  "
		resp, err := svc.SaveAchievement(ctx, input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.ID != "new-achievement-id" {
			t.Errorf("expected new achievement id, got %q", resp.ID)
		}

		if students.upserted == nil {
			t.Fatal("expected student upsert")
		}
		if students.upserted.IndexNumber != "IX-1042" || students.upserted.Gender != models.GenderMale {
			t.Errorf("unexpected student: %+v", students.upserted)
		}

		a := achievements.inserted
		if a == nil {
			t.Fatal("expected achievement insert")
		}
		if a.StudentID == nil || *a.StudentID != "student-id" {
			t.Errorf("expected linked student id, got %v", a.StudentID)
		}
		if a.Description == nil || *a.Description != "Won the under 19 title" {
			t.Errorf("expected trimmed description, got %v", a.Description)
		}
		if a.EventName != nil || a.AgeGroup != nil || a.Timing != nil || a.Notes != nil {
			t.Errorf("expected blank optionals to stay nil: %+v", a)
		}
		if achievements.updated != nil {
			t.Error("update should not run on create")
		}
	})

	t.Run("participants resolve to students or free text in order", func(t *testing.T) {
		_, students, participants, _, _, svc := newAdminFixture()
		students.byIndexNumber["IX-2077"] = &models.Student{ID: "s-2077", IndexNumber: "IX-2077"}

		input := validSaveInput()
		input.Participants = []dto.ParticipantInput{
			{Role: "captain", Value: "IX-2077"},
			{Role: "coach", Value: "Mr. Fernando"},
		}
		if _, err := svc.SaveAchievement(ctx, input); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		diff := participants.appliedDiff
		if diff == nil {
			t.Fatal("expected participant diff to be applied")
		}
		if len(diff.ToInsert) != 2 {
			t.Fatalf("expected 2 inserts, got %d", len(diff.ToInsert))
		}
		captain := diff.ToInsert[0]
		if captain.Role != "captain" || captain.StudentID == nil || *captain.StudentID != "s-2077" {
			t.Errorf("expected captain resolved to student, got %+v", captain)
		}
		if captain.DisplayOrder != 0 {
			t.Errorf("expected display order 0, got %d", captain.DisplayOrder)
		}
		coach := diff.ToInsert[1]
		if coach.StudentID != nil || coach.Name == nil || *coach.Name != "Mr. Fernando" {
			t.Errorf("expected coach kept as free text, got %+v", coach)
		}
		if coach.DisplayOrder != 1 {
			t.Errorf("expected display order 1, got %d", coach.DisplayOrder)
		}
	})

	t.Run("no participants means no diff application", func(t *testing.T) {
		_, _, participants, _, _, svc := newAdminFixture()

		if _, err := svc.SaveAchievement(ctx, validSaveInput()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if participants.appliedDiff != nil {
			t.Errorf("expected no diff, got %+v", participants.appliedDiff)
		}
	})
}

func TestSaveAchievementUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("existing achievement is updated in place", func(t *testing.T) {
		achievements, _, participants, _, _, svc := newAdminFixture()
		achievements.byID["a1"] = &models.Achievement{ID: "a1", Title: "Old Title"}
		stale := "Mr. Fernando"
		participants.current = []models.AchievementParticipant{
			{ID: "p1", AchievementID: "a1", Role: "coach", Name: &stale, DisplayOrder: 0},
		}

		input := validSaveInput()
		input.ID = "a1"
		resp, err := svc.SaveAchievement(ctx, input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.ID != "a1" {
			t.Errorf("expected id a1, got %q", resp.ID)
		}
		if achievements.updated == nil || achievements.updated.ID != "a1" {
			t.Fatalf("expected update of a1, got %+v", achievements.updated)
		}
		if achievements.inserted != nil {
			t.Error("insert should not run on update")
		}

		diff := participants.appliedDiff
		if diff == nil {
			t.Fatal("expected diff removing the stale participant")
		}
		if len(diff.ToDelete) != 1 || diff.ToDelete[0] != "p1" {
			t.Errorf("expected p1 deleted, got %v", diff.ToDelete)
		}
	})

	t.Run("unknown id fails before the transaction", func(t *testing.T) {
		achievements, _, _, _, _, svc := newAdminFixture()

		input := validSaveInput()
		input.ID = "missing"
		_, err := svc.SaveAchievement(ctx, input)
		if !errors.Is(err, apperrors.ErrAchievementNotFound) {
			t.Fatalf("expected ErrAchievementNotFound, got %v", err)
		}
		if achievements.updated != nil || achievements.inserted != nil {
			t.Error("no write should happen for an unknown id")
		}
	})
}

func TestSaveAchievementValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*dto.SaveAchievementInput)
	}{
		{name: "missing full name", mutate: func(in *dto.SaveAchievementInput) { in.FullName = "   " }},
		{name: "missing index number", mutate: func(in *dto.SaveAchievementInput) { in.IndexNumber = "" }},
		{name: "missing batch year", mutate: func(in *dto.SaveAchievementInput) { in.BatchYear = "" }},
		{name: "missing title", mutate: func(in *dto.SaveAchievementInput) { in.Title = "" }},
		{name: "missing year", mutate: func(in *dto.SaveAchievementInput) { in.Year = 0 }},
		{name: "invalid gender", mutate: func(in *dto.SaveAchievementInput) { in.Gender = "other" }},
		{name: "invalid student type", mutate: func(in *dto.SaveAchievementInput) { in.StudentType = "teacher" }},
		{name: "invalid category", mutate: func(in *dto.SaveAchievementInput) { in.Category = "gaming" }},
		{name: "invalid curriculum type", mutate: func(in *dto.SaveAchievementInput) { in.CurriculumType = "optional" }},
		{name: "invalid achievement type", mutate: func(in *dto.SaveAchievementInput) { in.AchievementType = "team" }},
		{name: "invalid level", mutate: func(in *dto.SaveAchievementInput) { in.Level = "galactic" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			achievements, _, _, _, _, svc := newAdminFixture()
			input := validSaveInput()
			tc.mutate(input)

			_, err := svc.SaveAchievement(context.Background(), input)
			if !errors.Is(err, apperrors.ErrBadRequest) {
				t.Fatalf("expected ErrBadRequest, got %v", err)
			}
			if achievements.inserted != nil {
				t.Error("invalid input must not reach the repository")
			}
		})
	}
}

func TestFilterValidParticipants(t *testing.T) {
	inputs := []dto.ParticipantInput{
		{Role: "player", Value: "IX-1042"},
		{Role: "umpire", Value: "IX-2077"},
		{Role: "coach", Value: "   "},
		{Role: "captain", Value: "  Nimali Silva  "},
		{Role: "", Value: "IX-3000"},
		{Role: "mic", Value: "Mrs. Jayawardena"},
	}

	got := FilterValidParticipants(inputs)
	if len(got) != 3 {
		t.Fatalf("expected 3 valid rows, got %d: %+v", len(got), got)
	}
	if got[0].Role != "player" || got[0].Value != "IX-1042" {
		t.Errorf("unexpected first row: %+v", got[0])
	}
	if got[1].Role != "captain" || got[1].Value != "Nimali Silva" {
		t.Errorf("expected trimmed captain value, got %+v", got[1])
	}
	if got[2].Role != "mic" {
		t.Errorf("unexpected third row: %+v", got[2])
	}
}

func TestDeleteAchievement(t *testing.T) {
	ctx := context.Background()

	t.Run("removes row then stored files", func(t *testing.T) {
		achievements, _, _, media, storage, svc := newAdminFixture()
		media.byAchievement["a1"] = []models.Media{
			{ID: "m1", FileURL: "/uploads/m1.jpg"},
			{ID: "m2", FileURL: "/uploads/m2.mp4"},
		}

		if err := svc.DeleteAchievement(ctx, "a1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(achievements.deleted) != 1 || achievements.deleted[0] != "a1" {
			t.Errorf("expected achievement row deleted, got %v", achievements.deleted)
		}
		if len(storage.deleted) != 2 {
			t.Errorf("expected 2 files removed, got %v", storage.deleted)
		}
	})

	t.Run("file cleanup failure is not surfaced", func(t *testing.T) {
		_, _, _, media, storage, svc := newAdminFixture()
		media.byAchievement["a1"] = []models.Media{{ID: "m1", FileURL: "/uploads/m1.jpg"}}
		storage.deleteErr = errors.New("permission denied")

		if err := svc.DeleteAchievement(ctx, "a1"); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	})
}

func TestSetPublished(t *testing.T) {
	achievements, _, _, _, _, svc := newAdminFixture()

	if err := svc.SetPublished(context.Background(), "a1", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !achievements.published["a1"] {
		t.Error("expected publish flag set")
	}
}

func uploadHeader(name, contentType string) *multipart.FileHeader {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", contentType)
	return &multipart.FileHeader{Filename: name, Header: header}
}

func TestAddMedia(t *testing.T) {
	ctx := context.Background()

	t.Run("stores file and inserts image row", func(t *testing.T) {
		achievements, _, _, media, _, svc := newAdminFixture()
		achievements.byID["a1"] = &models.Achievement{ID: "a1"}

		got, err := svc.AddMedia(ctx, "a1", uploadHeader("photo.jpg", "image/jpeg"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.FileURL != "/uploads/file.jpg" || got.FileType != "image" {
			t.Errorf("unexpected media: %+v", got)
		}
		if media.inserted == nil || media.inserted.AchievementID != "a1" {
			t.Errorf("expected media row inserted, got %+v", media.inserted)
		}
	})

	t.Run("video content type is detected", func(t *testing.T) {
		achievements, _, _, _, _, svc := newAdminFixture()
		achievements.byID["a1"] = &models.Achievement{ID: "a1"}

		got, err := svc.AddMedia(ctx, "a1", uploadHeader("clip.mp4", "video/mp4"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.FileType != "video" {
			t.Errorf("expected video, got %q", got.FileType)
		}
	})

	t.Run("unknown achievement rejects upload before saving", func(t *testing.T) {
		_, _, _, _, storage, svc := newAdminFixture()

		_, err := svc.AddMedia(ctx, "missing", uploadHeader("photo.jpg", "image/jpeg"))
		if !errors.Is(err, apperrors.ErrAchievementNotFound) {
			t.Fatalf("expected ErrAchievementNotFound, got %v", err)
		}
		if len(storage.deleted) != 0 {
			t.Error("no file should exist to clean up")
		}
	})

	t.Run("insert failure removes the orphaned file", func(t *testing.T) {
		achievements, _, _, media, storage, svc := newAdminFixture()
		achievements.byID["a1"] = &models.Achievement{ID: "a1"}
		media.insertErr = errors.New("connection refused")

		if _, err := svc.AddMedia(ctx, "a1", uploadHeader("photo.jpg", "image/jpeg")); err == nil {
			t.Fatal("expected error, got nil")
		}
		if len(storage.deleted) != 1 || storage.deleted[0] != "/uploads/file.jpg" {
			t.Errorf("expected orphaned file removed, got %v", storage.deleted)
		}
	})
}

func TestDeleteMedia(t *testing.T) {
	ctx := context.Background()

	t.Run("removes row and file", func(t *testing.T) {
		_, _, _, media, storage, svc := newAdminFixture()
		media.byID["m1"] = &models.Media{ID: "m1", FileURL: "/uploads/m1.jpg"}

		if err := svc.DeleteMedia(ctx, "m1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(media.deleted) != 1 || media.deleted[0] != "m1" {
			t.Errorf("expected media row deleted, got %v", media.deleted)
		}
		if len(storage.deleted) != 1 || storage.deleted[0] != "/uploads/m1.jpg" {
			t.Errorf("expected file removed, got %v", storage.deleted)
		}
	})

	t.Run("unknown media id", func(t *testing.T) {
		_, _, _, _, _, svc := newAdminFixture()

		if err := svc.DeleteMedia(ctx, "missing"); !errors.Is(err, apperrors.ErrMediaNotFound) {
			t.Fatalf("expected ErrMediaNotFound, got %v", err)
		}
	})
}
