package dto

import "github.com/sahan/schoolpride/internal/app/models"

// AchievementFilterRequest mirrors the public list's URL query parameters.
// Every field is optional; the zero value means "no filter".
type AchievementFilterRequest struct {
	Search          string `form:"search"`
	Year            int    `form:"year" binding:"omitempty,min=1900,max=2100"`
	Category        string `form:"category"`
	CurriculumType  string `form:"curriculum"`
	AchievementType string `form:"type"`
	Gender          string `form:"gender"`
	Limit           int    `form:"limit" binding:"omitempty,min=1,max=500"`
}

// ParticipantInput is one submitted (role, value) participant row. Value is
// either a student index number or a free-text name.
type ParticipantInput struct {
	Role  string
	Value string
}

// SaveAchievementInput carries the parsed admin achievement form. String
// fields arrive raw from the form; normalization and validation happen in
// the service.
type SaveAchievementInput struct {
	ID              string // empty on create
	StudentType     string
	Gender          string
	AchievementType string
	CurriculumType  string
	Category        string
	FullName        string
	IndexNumber     string
	BatchYear       string
	Title           string
	Description     string
	EventName       string
	Level           string
	Year            int
	AgeGroup        string
	ResultPosition  string
	Timing          string
	Notes           string
	IsPublished     bool
	Participants    []ParticipantInput
}

// StatsResponse carries the public landing page counters
type StatsResponse struct {
	TotalAchievements int   `json:"totalAchievements" example:"128"`
	UniqueAchievers   int   `json:"uniqueAchievers" example:"73"`
	YearsCovered      int   `json:"yearsCovered" example:"12"`
	Years             []int `json:"years"`
}

// AchievementIDsResponse enumerates published achievement ids so a static
// frontend build can pre-materialize detail pages
type AchievementIDsResponse struct {
	IDs []string `json:"ids"`
}

// SaveAchievementResponse reports the id touched by an admin write
type SaveAchievementResponse struct {
	ID string `json:"id"`
}

// PublishRequest toggles the publish flag on an achievement
type PublishRequest struct {
	IsPublished *bool `json:"isPublished" binding:"required"`
}

// ReferenceOption is a machine value with its display label
type ReferenceOption struct {
	Value string `json:"value" example:"arts_culture"`
	Label string `json:"label" example:"Arts & Culture"`
}

// ReferenceDataResponse lists the closed classification sets used by the
// admin form and the public filters
type ReferenceDataResponse struct {
	Categories        []ReferenceOption `json:"categories"`
	CurriculumTypes   []ReferenceOption `json:"curriculumTypes"`
	AchievementTypes  []ReferenceOption `json:"achievementTypes"`
	Levels            []ReferenceOption `json:"levels"`
	StudentTypes      []ReferenceOption `json:"studentTypes"`
	ParticipantRoles  []ReferenceOption `json:"participantRoles"`
	AgeGroups         []string          `json:"ageGroups"`
	ResultPositions   []string          `json:"resultPositions"`
}

// NewReferenceDataResponse assembles the closed sets in a stable order
func NewReferenceDataResponse() ReferenceDataResponse {
	return ReferenceDataResponse{
		Categories: []ReferenceOption{
			{Value: string(models.CategoryAcademic), Label: models.CategoryLabels[models.CategoryAcademic]},
			{Value: string(models.CategorySports), Label: models.CategoryLabels[models.CategorySports]},
			{Value: string(models.CategoryArtsCulture), Label: models.CategoryLabels[models.CategoryArtsCulture]},
			{Value: string(models.CategoryLeadership), Label: models.CategoryLabels[models.CategoryLeadership]},
			{Value: string(models.CategoryCompetitions), Label: models.CategoryLabels[models.CategoryCompetitions]},
			{Value: string(models.CategoryOther), Label: models.CategoryLabels[models.CategoryOther]},
		},
		CurriculumTypes: []ReferenceOption{
			{Value: string(models.CurriculumCurricular), Label: models.CurriculumLabels[models.CurriculumCurricular]},
			{Value: string(models.CurriculumCoCurricular), Label: models.CurriculumLabels[models.CurriculumCoCurricular]},
			{Value: string(models.CurriculumExtraCurricular), Label: models.CurriculumLabels[models.CurriculumExtraCurricular]},
		},
		AchievementTypes: []ReferenceOption{
			{Value: string(models.AchievementIndividual), Label: models.AchievementTypeLabels[models.AchievementIndividual]},
			{Value: string(models.AchievementGroup), Label: models.AchievementTypeLabels[models.AchievementGroup]},
		},
		Levels: []ReferenceOption{
			{Value: string(models.LevelSchool), Label: models.LevelLabels[models.LevelSchool]},
			{Value: string(models.LevelZonal), Label: models.LevelLabels[models.LevelZonal]},
			{Value: string(models.LevelProvincial), Label: models.LevelLabels[models.LevelProvincial]},
			{Value: string(models.LevelNational), Label: models.LevelLabels[models.LevelNational]},
			{Value: string(models.LevelInternational), Label: models.LevelLabels[models.LevelInternational]},
		},
		StudentTypes: []ReferenceOption{
			{Value: string(models.StudentTypeOldBoy), Label: models.StudentTypeLabels[models.StudentTypeOldBoy]},
			{Value: string(models.StudentTypeOldGirl), Label: models.StudentTypeLabels[models.StudentTypeOldGirl]},
			{Value: string(models.StudentTypeCurrentStudent), Label: models.StudentTypeLabels[models.StudentTypeCurrentStudent]},
		},
		ParticipantRoles: []ReferenceOption{
			{Value: string(models.RolePlayer), Label: models.ParticipantRoleLabels[models.RolePlayer]},
			{Value: string(models.RoleCaptain), Label: models.ParticipantRoleLabels[models.RoleCaptain]},
			{Value: string(models.RoleCoach), Label: models.ParticipantRoleLabels[models.RoleCoach]},
			{Value: string(models.RoleMIC), Label: models.ParticipantRoleLabels[models.RoleMIC]},
		},
		AgeGroups:       models.AgeGroupOptions,
		ResultPositions: models.ResultPositionOptions,
	}
}
