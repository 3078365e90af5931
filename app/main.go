// Файл: main.go

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"project-registry/internal/bootstrap"
	"project-registry/internal/routes"
	"project-registry/pkg/api"
	"project-registry/pkg/clock"
	"project-registry/pkg/config"
	apperrors "project-registry/pkg/errors"
	applogger "project-registry/pkg/logger"
)

func main() {
	// 1. Конфиг и логгер
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Некорректная конфигурация: %v", err)
	}
	logger := applogger.NewLogger(cfg.Log)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Хранилища и сервисы
	components, err := bootstrap.Build(ctx, cfg, clock.System(), logger)
	if err != nil {
		logger.Fatal("не удалось инициализировать хранилища", zap.Error(err))
	}
	defer components.Close()

	// 3. Echo
	e := echo.New()
	e.HideBanner = true
	e.Validator = components.Validator

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				_ = api.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	// 4. Роуты
	routes.InitRouter(e, components.ProjectCodes, components.Versions, cfg, logger)

	// 5. Запуск
	go func() {
		logger.Info("🚀 Сервер запущен", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("получен сигнал остановки")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("ошибка при остановке сервера", zap.Error(err))
	}
}
