package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"project-registry/internal/controllers"
	"project-registry/internal/services"
)

func runAttachmentRouter(
	group *echo.Group,
	attachmentService services.AttachmentVersionServiceInterface,
	logger *zap.Logger,
) {
	attachmentController := controllers.NewAttachmentController(attachmentService, logger)

	group.POST("/projects/:projectId/attachments", attachmentController.Upload)
	group.GET("/projects/:projectId/attachments", attachmentController.ListLatest)
	group.GET("/projects/:projectId/attachments/:fileName/versions", attachmentController.ListVersions)
	group.GET("/projects/:projectId/attachments/:fileName/versions/export", attachmentController.ExportVersions)
	group.GET("/projects/:projectId/attachments/:fileName", attachmentController.Latest)
}
