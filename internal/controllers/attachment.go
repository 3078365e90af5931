package controllers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"project-registry/internal/dto"
	"project-registry/internal/report"
	"project-registry/internal/services"
	"project-registry/pkg/api"
	apperrors "project-registry/pkg/errors"
)

type AttachmentController struct {
	attachmentService services.AttachmentVersionServiceInterface
	logger            *zap.Logger
}

func NewAttachmentController(
	attachmentService services.AttachmentVersionServiceInterface,
	logger *zap.Logger,
) *AttachmentController {
	return &AttachmentController{
		attachmentService: attachmentService,
		logger:            logger,
	}
}

// Upload регистрирует новую версию файла. Сам файл сохраняет вызывающая сторона по выданному URL.
func (c *AttachmentController) Upload(ctx echo.Context) error {
	projectID := ctx.Param("projectId")

	var req dto.UploadAttachmentDTO
	if err := ctx.Bind(&req); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат запроса", err, nil), c.logger)
	}
	if err := ctx.Validate(&req); err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}

	version, err := c.attachmentService.UploadAttachment(ctx.Request().Context(), projectID, req.FileName, req.Descriptor())
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "Версия загружена", dto.NewAttachmentResponseDTO(version))
}

func (c *AttachmentController) ListLatest(ctx echo.Context) error {
	versions, err := c.attachmentService.ListLatest(ctx.Request().Context(), ctx.Param("projectId"))
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessList(ctx, "Successfully", dto.NewAttachmentVersionDTOs(versions))
}

func (c *AttachmentController) ListVersions(ctx echo.Context) error {
	// echo уже раскодировал параметр пути.
	fileName := ctx.Param("fileName")
	versions, err := c.attachmentService.ListVersions(ctx.Request().Context(), ctx.Param("projectId"), fileName)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessList(ctx, "Successfully", dto.NewAttachmentVersionDTOs(versions))
}

func (c *AttachmentController) Latest(ctx echo.Context) error {
	fileName := ctx.Param("fileName")
	version, err := c.attachmentService.Latest(ctx.Request().Context(), ctx.Param("projectId"), fileName)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Successfully", dto.NewAttachmentVersionDTO(*version))
}

// ExportVersions отдаёт историю версий файла в XLSX.
func (c *AttachmentController) ExportVersions(ctx echo.Context) error {
	fileName := ctx.Param("fileName")
	projectID := ctx.Param("projectId")
	versions, err := c.attachmentService.ListVersions(ctx.Request().Context(), projectID, fileName)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}

	exportName := fmt.Sprintf("history_%s_%s.xlsx", projectID, fileName)
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+url.PathEscape(exportName))
	ctx.Response().WriteHeader(http.StatusOK)
	return report.WriteAttachmentHistory(ctx.Response().Writer, versions)
}
