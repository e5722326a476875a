package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sahan/schoolpride/internal/app/models/dto"
)

// ReferenceController serves the closed classification sets used by the
// public filters and the admin form
type ReferenceController struct{}

// NewReferenceController creates a new ReferenceController
func NewReferenceController() *ReferenceController {
	return &ReferenceController{}
}

// GetReferenceData handles listing the classification sets
// @Summary Get reference data
// @Description Lists categories, curriculum types, achievement types, levels, student types, participant roles, age groups and result positions
// @Tags reference
// @Accept json
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ReferenceDataResponse} "Reference data retrieved successfully"
// @Router /categories [get]
func (c *ReferenceController) GetReferenceData(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewReferenceDataResponse()))
}
