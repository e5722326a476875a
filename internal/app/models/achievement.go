package models

import "time"

// Achievement represents one accomplishment record in the 'achievements' table.
// It stays a draft until IsPublished is set; the publish flag gates public
// visibility.
type Achievement struct {
	ID              string          `json:"id" db:"id"`
	StudentID       *string         `json:"studentId" db:"student_id"`
	Title           string          `json:"title" db:"title"`
	Description     *string         `json:"description,omitempty" db:"description"`
	Category        Category        `json:"category" db:"category"`
	CurriculumType  CurriculumType  `json:"curriculumType" db:"curriculum_type"`
	AchievementType AchievementType `json:"achievementType" db:"achievement_type"`
	Level           Level           `json:"level" db:"level"`
	EventName       *string         `json:"eventName,omitempty" db:"event_name"`
	Year            int             `json:"year" db:"year"`
	IsPublished     bool            `json:"isPublished" db:"is_published"`
	AgeGroup        *string         `json:"ageGroup,omitempty" db:"age_group"`
	ResultPosition  *string         `json:"resultPosition,omitempty" db:"result_position"`
	Timing          *string         `json:"timing,omitempty" db:"timing"`
	Notes           *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`

	// Relations
	Student      *Student                 `json:"student,omitempty"`
	Media        []Media                  `json:"media"`
	Participants []AchievementParticipant `json:"participants,omitempty"`
}

// AchievementParticipant is a role assignment on an achievement. It points
// either at a student record (StudentID set, Name nil) or carries a free-text
// name for people without a student record (Name set, StudentID nil).
type AchievementParticipant struct {
	ID            string          `json:"id" db:"id"`
	AchievementID string          `json:"achievementId" db:"achievement_id"`
	Role          ParticipantRole `json:"role" db:"role"`
	StudentID     *string         `json:"studentId" db:"student_id"`
	Name          *string         `json:"name" db:"name"`
	DisplayOrder  int             `json:"displayOrder" db:"display_order"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`

	// Relation
	Student *Student `json:"student,omitempty"`
}

// Media is a file reference attached to an achievement. The first item by
// display order is treated as the cover image, the rest as gallery.
type Media struct {
	ID            string    `json:"id" db:"id"`
	AchievementID string    `json:"achievementId" db:"achievement_id"`
	FileURL       string    `json:"fileUrl" db:"file_url"`
	FileType      string    `json:"fileType" db:"file_type"`
	DisplayOrder  int       `json:"displayOrder" db:"display_order"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}
