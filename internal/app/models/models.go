package models

// Gender of a student
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// StudentType distinguishes alumni from current students
type StudentType string

const (
	StudentTypeOldBoy         StudentType = "old_boy"
	StudentTypeOldGirl        StudentType = "old_girl"
	StudentTypeCurrentStudent StudentType = "current_student"
)

// Category classifies an achievement by the type of activity
type Category string

const (
	CategoryAcademic     Category = "academic"
	CategorySports       Category = "sports"
	CategoryArtsCulture  Category = "arts_culture"
	CategoryLeadership   Category = "leadership"
	CategoryCompetitions Category = "competitions"
	CategoryOther        Category = "other"
)

// CurriculumType classifies an achievement within the school curriculum
type CurriculumType string

const (
	CurriculumCurricular      CurriculumType = "curricular"
	CurriculumCoCurricular    CurriculumType = "co_curricular"
	CurriculumExtraCurricular CurriculumType = "extra_curricular"
)

// AchievementType marks an achievement as individual or group
type AchievementType string

const (
	AchievementIndividual AchievementType = "individual"
	AchievementGroup      AchievementType = "group"
)

// Level is the competition tier, school through international
type Level string

const (
	LevelSchool        Level = "school"
	LevelZonal         Level = "zonal"
	LevelProvincial    Level = "provincial"
	LevelNational      Level = "national"
	LevelInternational Level = "international"
)

// ParticipantRole is a non-primary role on an achievement
type ParticipantRole string

const (
	RolePlayer  ParticipantRole = "player"
	RoleCaptain ParticipantRole = "captain"
	RoleCoach   ParticipantRole = "coach"
	RoleMIC     ParticipantRole = "mic"
)

// CategoryLabels maps categories to their display labels
var CategoryLabels = map[Category]string{
	CategoryAcademic:     "Academic",
	CategorySports:       "Sports",
	CategoryArtsCulture:  "Arts & Culture",
	CategoryLeadership:   "Leadership",
	CategoryCompetitions: "Competitions",
	CategoryOther:        "Other",
}

// CurriculumLabels maps curriculum types to their display labels
var CurriculumLabels = map[CurriculumType]string{
	CurriculumCurricular:      "Curricular",
	CurriculumCoCurricular:    "Co-Curricular",
	CurriculumExtraCurricular: "Extra-Curricular",
}

// LevelLabels maps levels to their display labels
var LevelLabels = map[Level]string{
	LevelSchool:        "School",
	LevelZonal:         "Zonal",
	LevelProvincial:    "Provincial",
	LevelNational:      "National",
	LevelInternational: "International",
}

// StudentTypeLabels maps student types to their display labels
var StudentTypeLabels = map[StudentType]string{
	StudentTypeOldBoy:         "Old Boy",
	StudentTypeOldGirl:        "Old Girl",
	StudentTypeCurrentStudent: "Current Student",
}

// AchievementTypeLabels maps achievement types to their display labels
var AchievementTypeLabels = map[AchievementType]string{
	AchievementIndividual: "Individual",
	AchievementGroup:      "Group",
}

// ParticipantRoleLabels maps participant roles to their display labels
var ParticipantRoleLabels = map[ParticipantRole]string{
	RolePlayer:  "Player",
	RoleCaptain: "Captain",
	RoleCoach:   "Coach",
	RoleMIC:     "MIC (Master in Charge)",
}

// AgeGroupOptions are the suggested age-group values for the admin form
var AgeGroupOptions = []string{
	"Under 15",
	"Under 16",
	"Under 18",
	"Under 20",
	"Open",
}

// ResultPositionOptions are the suggested result-position values for the admin form
var ResultPositionOptions = []string{
	"Champion",
	"Runners-up",
	"First place",
	"Second place",
	"Third place",
	"Leading goal scorer",
	"Best player (tournament)",
	"Selected for national team",
	"Participant",
	"Track champion",
	"Field champion",
}

// IsValidGender reports whether g is a known gender value
func IsValidGender(g string) bool {
	return g == string(GenderMale) || g == string(GenderFemale)
}

// IsValidStudentType reports whether t is a known student type
func IsValidStudentType(t string) bool {
	_, ok := StudentTypeLabels[StudentType(t)]
	return ok
}

// IsValidCategory reports whether c is a known category
func IsValidCategory(c string) bool {
	_, ok := CategoryLabels[Category(c)]
	return ok
}

// IsValidCurriculumType reports whether c is a known curriculum type
func IsValidCurriculumType(c string) bool {
	_, ok := CurriculumLabels[CurriculumType(c)]
	return ok
}

// IsValidAchievementType reports whether t is a known achievement type
func IsValidAchievementType(t string) bool {
	_, ok := AchievementTypeLabels[AchievementType(t)]
	return ok
}

// IsValidLevel reports whether l is a known level
func IsValidLevel(l string) bool {
	_, ok := LevelLabels[Level(l)]
	return ok
}

// IsValidParticipantRole reports whether r is a known participant role
func IsValidParticipantRole(r string) bool {
	_, ok := ParticipantRoleLabels[ParticipantRole(r)]
	return ok
}
