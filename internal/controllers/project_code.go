package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"project-registry/internal/dto"
	"project-registry/internal/services"
	"project-registry/pkg/api"
	apperrors "project-registry/pkg/errors"
)

type ProjectCodeController struct {
	projectCodeService services.ProjectCodeServiceInterface
	defaultPrefix      string
	logger             *zap.Logger
}

func NewProjectCodeController(
	projectCodeService services.ProjectCodeServiceInterface,
	defaultPrefix string,
	logger *zap.Logger,
) *ProjectCodeController {
	return &ProjectCodeController{
		projectCodeService: projectCodeService,
		defaultPrefix:      defaultPrefix,
		logger:             logger,
	}
}

func (c *ProjectCodeController) Generate(ctx echo.Context) error {
	var req dto.GenerateProjectCodeDTO
	if err := ctx.Bind(&req); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат запроса", err, nil), c.logger)
	}
	if err := ctx.Validate(&req); err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	prefix := req.Prefix
	if prefix == "" {
		prefix = c.defaultPrefix
	}

	code, err := c.projectCodeService.Generate(ctx.Request().Context(), prefix)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "Код проекта выдан", dto.NewProjectCodeResponseDTO(code))
}

func (c *ProjectCodeController) LastIssued(ctx echo.Context) error {
	prefix := ctx.QueryParam("prefix")
	if prefix == "" {
		prefix = c.defaultPrefix
	}
	year, err := strconv.Atoi(ctx.QueryParam("year"))
	if err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "некорректный или отсутствующий 'year'", err, nil), c.logger)
	}

	code, err := c.projectCodeService.LastIssued(ctx.Request().Context(), prefix, year)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Successfully", dto.NewProjectCodeResponseDTO(*code))
}
