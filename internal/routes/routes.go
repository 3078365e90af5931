package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"project-registry/internal/services"
	"project-registry/pkg/config"
	"project-registry/pkg/middleware"
)

// InitRouter регистрирует обработчики, вызывающие генератор кодов и менеджер версий.
func InitRouter(
	e *echo.Echo,
	projectCodeService services.ProjectCodeServiceInterface,
	attachmentService services.AttachmentVersionServiceInterface,
	cfg *config.Config,
	logger *zap.Logger,
) {
	logger.Info("InitRouter: Начало создания маршрутов")

	e.Use(middleware.InjectLogger(logger))
	e.Use(middleware.Metrics())

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")
	runProjectCodeRouter(api, projectCodeService, cfg.Project.CodePrefix, logger)
	runAttachmentRouter(api, attachmentService, logger)

	logger.Info("InitRouter: Создание маршрутов завершено")
}
