package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sahan/schoolpride/internal/app/controllers"
	"github.com/sahan/schoolpride/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	achievementController *controllers.AchievementController,
	adminController *controllers.AdminController,
	referenceController *controllers.ReferenceController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	achievements := v1.Group("/achievements")
	{
		achievements.GET("", achievementController.ListAchievements)
		achievements.GET("/ids", achievementController.GetAchievementIDs)
		achievements.GET("/:id", achievementController.GetAchievement)
	}

	v1.GET("/stats", achievementController.GetStats)
	v1.GET("/categories", referenceController.GetReferenceData)

	auth := v1.Group("/auth")
	{
		auth.POST("/request-code", authController.RequestCode)
		auth.POST("/verify-code", authController.VerifyCode)
	}

	// --- Admin routes ---
	// The allow-list is re-checked on every request, so removing an email
	// locks the admin out before their token expires.
	admin := v1.Group("/admin")
	admin.Use(authMiddleware.JWTAuth(), authMiddleware.AdminRequired())
	{
		adminAchievements := admin.Group("/achievements")
		{
			adminAchievements.GET("", adminController.ListAchievements)
			adminAchievements.POST("", adminController.CreateAchievement)
			adminAchievements.GET("/:id", adminController.GetAchievement)
			adminAchievements.PUT("/:id", adminController.UpdateAchievement)
			adminAchievements.DELETE("/:id", adminController.DeleteAchievement)
			adminAchievements.PATCH("/:id/publish", adminController.SetPublished)
			adminAchievements.POST("/:id/media", adminController.UploadMedia)
		}

		admin.DELETE("/media/:mediaId", adminController.DeleteMedia)
	}
}
