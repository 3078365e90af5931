package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "project-registry/pkg/errors"
)

type Response[T any] struct {
	Status    bool   `json:"status"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
	Body      T      `json:"body,omitempty"`
}

type ListBody[T any] struct {
	List  []T `json:"list"`
	Total int `json:"total"`
}

// SuccessOne — для возврата одного объекта
func SuccessOne[T any](c echo.Context, code int, message string, data T) error {
	return c.JSON(code, Response[T]{
		Status:  true,
		Message: message,
		Body:    data,
	})
}

func SuccessList[T any](c echo.Context, message string, list []T) error {
	if list == nil {
		list = make([]T, 0)
	}
	return c.JSON(http.StatusOK, Response[ListBody[T]]{
		Status:  true,
		Message: message,
		Body:    ListBody[T]{List: list, Total: len(list)},
	})
}

// ErrorResponse переводит ошибку в HTTP-статус по таксономии apperrors.
// Для 5xx наружу уходит общее сообщение, детали остаются в логе.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	code := apperrors.StatusCode(err)
	msg := err.Error()

	var httpErr *apperrors.HttpError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		msg = httpErr.Message
	case errors.As(err, &echoErr):
		code = echoErr.Code
		if m, ok := echoErr.Message.(string); ok {
			msg = m
		}
	case code == http.StatusServiceUnavailable:
		msg = "Хранилище временно недоступно, повторите запрос"
	case code == http.StatusConflict:
		msg = "Параллельное изменение, повторите запрос"
	case code >= http.StatusInternalServerError:
		msg = "Внутренняя ошибка сервера"
	}

	if code >= http.StatusInternalServerError && logger != nil {
		logger.Error("ошибка обработки запроса",
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Int("status", code),
			zap.Error(err),
		)
	}

	return c.JSON(code, Response[any]{
		Status:    false,
		Message:   msg,
		Retryable: apperrors.IsRetryable(err),
	})
}
