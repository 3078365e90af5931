package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// Ввод
	ErrInvalidInput = fmt.Errorf("некорректные входные данные")

	// Хранилище
	ErrStorageUnavailable = fmt.Errorf("хранилище недоступно")
	ErrConflict           = fmt.Errorf("конфликт параллельной записи")
	ErrTransactionAborted = fmt.Errorf("транзакция прервана из-за уровня изоляции")

	// Общие
	ErrNotFound = fmt.Errorf("запись не найдена")
)

// Коды SQLSTATE, которые нас интересуют.
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgQueryCanceled        = "57014"
)

// InvalidInput оборачивает ErrInvalidInput сообщением о конкретном поле.
func InvalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Classify приводит ошибку драйвера к таксономии пакета.
// Исходная ошибка остаётся в цепочке, поэтому errors.As(err, *pgconn.PgError) продолжает работать.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if isTaxonomy(err) {
		return err
	}
	if stderrors.Is(err, context.Canceled) {
		return err
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation:
			return fmt.Errorf("%w: %w", ErrConflict, err)
		case pgErr.Code == pgSerializationFailure, pgErr.Code == pgDeadlockDetected, pgErr.Code == pgLockNotAvailable:
			return fmt.Errorf("%w: %w", ErrTransactionAborted, err)
		case pgErr.Code == pgQueryCanceled:
			return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
		// 22 - data exception: строка не в кодировке базы, значение не влезло в колонку
		case strings.HasPrefix(pgErr.Code, "22"):
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		// 08 - connection exception, 53 - insufficient resources, 57P - operator intervention
		case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "53"), strings.HasPrefix(pgErr.Code, "57P"):
			return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
		}
		return err
	}

	var connErr *pgconn.ConnectError
	if stderrors.As(err, &connErr) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return err
}

func isTaxonomy(err error) bool {
	return stderrors.Is(err, ErrInvalidInput) ||
		stderrors.Is(err, ErrStorageUnavailable) ||
		stderrors.Is(err, ErrConflict) ||
		stderrors.Is(err, ErrTransactionAborted) ||
		stderrors.Is(err, ErrNotFound)
}

// IsRetryable - можно ли безопасно повторить всю операцию целиком.
func IsRetryable(err error) bool {
	return stderrors.Is(err, ErrConflict) ||
		stderrors.Is(err, ErrTransactionAborted) ||
		stderrors.Is(err, ErrStorageUnavailable)
}

// IsContention - конфликт между параллельными писателями (а не сбой хранилища).
func IsContention(err error) bool {
	return stderrors.Is(err, ErrConflict) || stderrors.Is(err, ErrTransactionAborted)
}

// HttpError несёт HTTP-статус до обработчика ответа.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details interface{}
}

func NewHttpError(code int, message string, err error, details interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

// StatusCode сопоставляет ошибку с HTTP-статусом.
// Исчерпанные повторы превращаются в 409/503, чтобы клиент мог повторить запрос.
func StatusCode(err error) int {
	var httpErr *HttpError
	if stderrors.As(err, &httpErr) {
		return httpErr.Code
	}
	switch {
	case err == nil:
		return http.StatusOK
	case stderrors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case stderrors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, ErrConflict), stderrors.Is(err, ErrTransactionAborted):
		return http.StatusConflict
	case stderrors.Is(err, ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	case stderrors.Is(err, context.Canceled):
		return 499
	default:
		return http.StatusInternalServerError
	}
}
