package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sahan/schoolpride/internal/app/models/dto"
	"github.com/sahan/schoolpride/internal/app/services"
	"github.com/sahan/schoolpride/internal/middleware"
)

// AchievementController handles the public achievement read endpoints
type AchievementController struct {
	achievementService services.AchievementService
}

// NewAchievementController creates a new AchievementController
func NewAchievementController(achievementService services.AchievementService) *AchievementController {
	return &AchievementController{
		achievementService: achievementService,
	}
}

// ListAchievements handles the public achievement list with filters
// @Summary List published achievements
// @Description Retrieves published achievements with optional filtering. Exact filters apply in the query; free-text search matches student name, index number or title.
// @Tags achievements
// @Accept json
// @Produce json
// @Param search query string false "Free-text search over student name, index number and title"
// @Param year query int false "Filter by year"
// @Param category query string false "Filter by category"
// @Param curriculum query string false "Filter by curriculum type"
// @Param type query string false "Filter by achievement type (individual, group)"
// @Param gender query string false "Filter by the primary student's gender"
// @Param limit query int false "Maximum number of records"
// @Success 200 {object} dto.APIResponse{data=[]models.Achievement} "Achievements retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Router /achievements [get]
func (c *AchievementController) ListAchievements(ctx *gin.Context) {
	var filter dto.AchievementFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	achievements, err := c.achievementService.ListPublished(ctx, &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(achievements))
}

// GetAchievement handles retrieving one published achievement
// @Summary Get a published achievement
// @Description Retrieves one published achievement with its student, media and participants
// @Tags achievements
// @Accept json
// @Produce json
// @Param id path string true "Achievement ID"
// @Success 200 {object} dto.APIResponse{data=models.Achievement} "Achievement retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid achievement ID"
// @Failure 404 {object} dto.ErrorResponse "Achievement not found"
// @Router /achievements/{id} [get]
func (c *AchievementController) GetAchievement(ctx *gin.Context) {
	id := ctx.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid achievement ID")
		errorDetail = errorDetail.WithDetails("Achievement ID must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	achievement, err := c.achievementService.GetPublishedByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(achievement))
}

// GetAchievementIDs handles enumerating published achievement ids
// @Summary List published achievement ids
// @Description Enumerates published achievement ids so a static frontend build can pre-render detail pages
// @Tags achievements
// @Accept json
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AchievementIDsResponse} "IDs retrieved successfully"
// @Router /achievements/ids [get]
func (c *AchievementController) GetAchievementIDs(ctx *gin.Context) {
	response, err := c.achievementService.GetPublishedIDs(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetStats handles the public landing page counters
// @Summary Get achievement statistics
// @Description Returns total published achievements, unique achievers and covered years
// @Tags achievements
// @Accept json
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.StatsResponse} "Stats retrieved successfully"
// @Router /stats [get]
func (c *AchievementController) GetStats(ctx *gin.Context) {
	stats, err := c.achievementService.GetStats(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats))
}
