package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sahan/schoolpride/internal/app/models/dto"
	"github.com/sahan/schoolpride/internal/app/services"
	"github.com/sahan/schoolpride/internal/middleware"
)

// AdminController handles the authenticated achievement management endpoints
type AdminController struct {
	adminService services.AdminService
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService services.AdminService) *AdminController {
	return &AdminController{
		adminService: adminService,
	}
}

func bindAchievementID(ctx *gin.Context) (string, bool) {
	id := ctx.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid achievement ID")
		errorDetail = errorDetail.WithDetails("Achievement ID must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return "", false
	}
	return id, true
}

// parseSaveInput reads the flat achievement form. Participant rows arrive as
// repeated participant_role/participant_value fields and are paired by
// position.
func parseSaveInput(ctx *gin.Context) *dto.SaveAchievementInput {
	year, _ := strconv.Atoi(ctx.PostForm("year"))

	input := &dto.SaveAchievementInput{
		StudentType:     ctx.PostForm("student_type"),
		Gender:          ctx.PostForm("gender"),
		AchievementType: ctx.PostForm("achievement_type"),
		CurriculumType:  ctx.PostForm("curriculum_type"),
		Category:        ctx.PostForm("category"),
		FullName:        ctx.PostForm("full_name"),
		IndexNumber:     ctx.PostForm("index_number"),
		BatchYear:       ctx.PostForm("batch_year"),
		Title:           ctx.PostForm("title"),
		Description:     ctx.PostForm("description"),
		EventName:       ctx.PostForm("event_name"),
		Level:           ctx.PostForm("level"),
		Year:            year,
		AgeGroup:        ctx.PostForm("age_group"),
		ResultPosition:  ctx.PostForm("result_position"),
		Timing:          ctx.PostForm("timing"),
		Notes:           ctx.PostForm("notes"),
		IsPublished:     ctx.PostForm("is_published") == "true",
	}

	roles := ctx.PostFormArray("participant_role")
	values := ctx.PostFormArray("participant_value")
	n := len(roles)
	if len(values) > n {
		n = len(values)
	}
	for i := 0; i < n; i++ {
		var role, value string
		if i < len(roles) {
			role = roles[i]
		}
		if i < len(values) {
			value = values[i]
		}
		input.Participants = append(input.Participants, dto.ParticipantInput{Role: role, Value: value})
	}

	return input
}

// ListAchievements handles the admin dashboard list
// @Summary List all achievements
// @Description Retrieves every achievement including drafts, newest first
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Achievement} "Achievements retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /admin/achievements [get]
func (c *AdminController) ListAchievements(ctx *gin.Context) {
	achievements, err := c.adminService.ListAchievements(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(achievements))
}

// GetAchievement handles loading one achievement for the edit form
// @Summary Get an achievement for editing
// @Description Retrieves one achievement regardless of publish state, with relations
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Achievement ID"
// @Success 200 {object} dto.APIResponse{data=models.Achievement} "Achievement retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Achievement not found"
// @Router /admin/achievements/{id} [get]
func (c *AdminController) GetAchievement(ctx *gin.Context) {
	id, ok := bindAchievementID(ctx)
	if !ok {
		return
	}

	achievement, err := c.adminService.GetAchievementForEdit(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(achievement))
}

// CreateAchievement handles the achievement create form
// @Summary Create an achievement
// @Description Creates an achievement from the admin form. The student is upserted by index number; participant values are resolved as index numbers where possible.
// @Tags admin
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Success 201 {object} dto.APIResponse{data=dto.SaveAchievementResponse} "Achievement created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid form data"
// @Router /admin/achievements [post]
func (c *AdminController) CreateAchievement(ctx *gin.Context) {
	input := parseSaveInput(ctx)

	response, err := c.adminService.SaveAchievement(ctx, input)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// UpdateAchievement handles the achievement edit form
// @Summary Update an achievement
// @Description Updates an achievement from the admin form, replacing its participant set
// @Tags admin
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param id path string true "Achievement ID"
// @Success 200 {object} dto.APIResponse{data=dto.SaveAchievementResponse} "Achievement updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid form data"
// @Failure 404 {object} dto.ErrorResponse "Achievement not found"
// @Router /admin/achievements/{id} [put]
func (c *AdminController) UpdateAchievement(ctx *gin.Context) {
	id, ok := bindAchievementID(ctx)
	if !ok {
		return
	}

	input := parseSaveInput(ctx)
	input.ID = id

	response, err := c.adminService.SaveAchievement(ctx, input)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// DeleteAchievement handles deleting an achievement
// @Summary Delete an achievement
// @Description Deletes an achievement with its participants and media
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Achievement ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Achievement deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Achievement not found"
// @Router /admin/achievements/{id} [delete]
func (c *AdminController) DeleteAchievement(ctx *gin.Context) {
	id, ok := bindAchievementID(ctx)
	if !ok {
		return
	}

	if err := c.adminService.DeleteAchievement(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Achievement deleted successfully"}))
}

// SetPublished handles toggling the publish flag
// @Summary Publish or unpublish an achievement
// @Description Flips the publish flag that gates public visibility
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Achievement ID"
// @Param request body dto.PublishRequest true "Publish flag"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Publish state updated"
// @Failure 404 {object} dto.ErrorResponse "Achievement not found"
// @Router /admin/achievements/{id}/publish [patch]
func (c *AdminController) SetPublished(ctx *gin.Context) {
	id, ok := bindAchievementID(ctx)
	if !ok {
		return
	}

	var req dto.PublishRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.adminService.SetPublished(ctx, id, *req.IsPublished); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Publish state updated"}))
}

// UploadMedia handles attaching a media file to an achievement
// @Summary Upload achievement media
// @Description Stores an image or video file and appends it to the achievement's gallery
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Achievement ID"
// @Param file formData file true "Media file"
// @Success 201 {object} dto.APIResponse{data=models.Media} "Media uploaded successfully"
// @Failure 400 {object} dto.ErrorResponse "Missing file"
// @Failure 404 {object} dto.ErrorResponse "Achievement not found"
// @Router /admin/achievements/{id}/media [post]
func (c *AdminController) UploadMedia(ctx *gin.Context) {
	id, ok := bindAchievementID(ctx)
	if !ok {
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Media file is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	media, err := c.adminService.AddMedia(ctx, id, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(media))
}

// DeleteMedia handles removing one media file
// @Summary Delete achievement media
// @Description Removes a media row and its stored file
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param mediaId path string true "Media ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Media deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Media not found"
// @Router /admin/media/{mediaId} [delete]
func (c *AdminController) DeleteMedia(ctx *gin.Context) {
	mediaID := ctx.Param("mediaId")
	if _, err := uuid.Parse(mediaID); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid media ID")
		errorDetail = errorDetail.WithDetails("Media ID must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.adminService.DeleteMedia(ctx, mediaID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Media deleted successfully"}))
}
