package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"project-registry/internal/controllers"
	"project-registry/internal/services"
)

func runProjectCodeRouter(
	group *echo.Group,
	projectCodeService services.ProjectCodeServiceInterface,
	defaultPrefix string,
	logger *zap.Logger,
) {
	projectCodeController := controllers.NewProjectCodeController(projectCodeService, defaultPrefix, logger)

	group.POST("/projects/codes", projectCodeController.Generate)
	group.GET("/projects/codes/last", projectCodeController.LastIssued)
}
