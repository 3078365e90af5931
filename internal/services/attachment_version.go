// Файл: internal/services/attachment_version.go

package services

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"project-registry/internal/entities"
	"project-registry/internal/events"
	"project-registry/internal/repositories"
	"project-registry/pkg/clock"
	apperrors "project-registry/pkg/errors"
	"project-registry/pkg/eventbus"
	"project-registry/pkg/filestorage"
	"project-registry/pkg/metrics"
	"project-registry/pkg/validation"
)

// AttachmentVersionServiceInterface определяет контракт для версий вложений проекта.
type AttachmentVersionServiceInterface interface {
	UploadAttachment(ctx context.Context, projectID, fileName string, payload entities.FileDescriptor) (*entities.AttachmentVersion, error)
	ListVersions(ctx context.Context, projectID, fileName string) ([]entities.AttachmentVersion, error)
	Latest(ctx context.Context, projectID, fileName string) (*entities.AttachmentVersion, error)
	ListLatest(ctx context.Context, projectID string) ([]entities.AttachmentVersion, error)
}

type AttachmentVersionService struct {
	store     repositories.AttachmentStoreInterface
	paths     *filestorage.PathBuilder
	clock     clock.Clock
	policy    RetryPolicy
	timeout   time.Duration
	validator *validation.CustomValidator
	bus       *eventbus.Bus
	logger    *zap.Logger
}

func NewAttachmentVersionService(
	store repositories.AttachmentStoreInterface,
	paths *filestorage.PathBuilder,
	clk clock.Clock,
	policy RetryPolicy,
	timeout time.Duration,
	validator *validation.CustomValidator,
	bus *eventbus.Bus,
	logger *zap.Logger,
) AttachmentVersionServiceInterface {
	return &AttachmentVersionService{
		store:     store,
		paths:     paths,
		clock:     clk,
		policy:    policy,
		timeout:   timeout,
		validator: validator,
		bus:       bus,
		logger:    logger,
	}
}

type uploadInput struct {
	ProjectID string                  `validate:"required,max=64,project_id"`
	FileName  string                  `validate:"required,max=255,file_name"`
	Payload   entities.FileDescriptor
}

// UploadAttachment: выделение версии, снятие is_latest с предыдущей и вставка новой
// выполняются одной транзакцией. Сбой коммита повторяет всё с первого шага,
// номер версии из неудачной попытки пропадает (пропуски допустимы, две текущие версии - нет).
// Существование проекта проверяет вызывающий.
func (s *AttachmentVersionService) UploadAttachment(
	ctx context.Context,
	projectID, fileName string,
	payload entities.FileDescriptor,
) (*entities.AttachmentVersion, error) {
	if err := s.validator.Validate(uploadInput{ProjectID: projectID, FileName: fileName, Payload: payload}); err != nil {
		metrics.AttachmentUploads.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, err
	}

	if _, ok := ctx.Deadline(); !ok && s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	partitionKey := entities.AttachmentPartitionKey(projectID, fileName)
	var (
		created  *entities.AttachmentVersion
		attempts int
		lastErr  error
	)

	operation := func() error {
		attempts++
		metrics.AttachmentUploadAttempts.Inc()

		var row *entities.AttachmentVersion
		err := s.store.RunInTransaction(ctx, func(tx repositories.AttachmentTx) error {
			version, err := tx.NextVersion(ctx, partitionKey)
			if err != nil {
				return err
			}
			if _, err := tx.DemoteLatest(ctx, projectID, fileName); err != nil {
				return err
			}
			row = &entities.AttachmentVersion{
				ID:         uuid.New(),
				ProjectID:  projectID,
				FileName:   fileName,
				Version:    version,
				IsLatest:   true,
				FileURL:    s.paths.URL(projectID, version, fileName),
				Category:   payload.Category,
				MimeType:   payload.MimeType,
				FileSize:   payload.FileSize,
				Comments:   payload.Comments,
				UploadedAt: s.clock.Now().UTC(),
			}
			return tx.Insert(ctx, row)
		})
		if err != nil {
			lastErr = err
			if apperrors.IsContention(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		created = row
		return nil
	}
	notify := func(err error, wait time.Duration) {
		s.logger.Warn("транзакция загрузки не прошла, повтор с начала",
			zap.String("projectID", projectID),
			zap.String("fileName", fileName),
			zap.Int("attempt", attempts),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	if err := backoff.RetryNotify(operation, s.policy.newBackOff(ctx), notify); err != nil {
		err = retryError(err, lastErr, attempts)
		metrics.AttachmentUploads.WithLabelValues(metrics.OutcomeError).Inc()
		s.logger.Error("не удалось загрузить версию вложения",
			zap.String("projectID", projectID),
			zap.String("fileName", fileName),
			zap.Int("attempts", attempts),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.AttachmentUploads.WithLabelValues(metrics.OutcomeOK).Inc()
	s.logger.Info("загружена версия вложения",
		zap.String("projectID", projectID),
		zap.String("fileName", fileName),
		zap.Int64("version", created.Version),
		zap.Int("attempts", attempts),
	)
	s.bus.Publish(ctx, events.AttachmentVersionUploadedEvent{Version: *created, Attempts: attempts})
	return created, nil
}

// ListVersions - вся история файла по возрастанию версии.
func (s *AttachmentVersionService) ListVersions(ctx context.Context, projectID, fileName string) ([]entities.AttachmentVersion, error) {
	if err := s.validateFile(projectID, fileName); err != nil {
		return nil, err
	}
	versions, err := s.store.FindAllByFile(ctx, projectID, fileName)
	if err != nil {
		s.logger.Error("не удалось получить историю версий", zap.String("projectID", projectID), zap.String("fileName", fileName), zap.Error(err))
		return nil, err
	}
	return versions, nil
}

func (s *AttachmentVersionService) Latest(ctx context.Context, projectID, fileName string) (*entities.AttachmentVersion, error) {
	if err := s.validateFile(projectID, fileName); err != nil {
		return nil, err
	}
	return s.store.FindLatest(ctx, projectID, fileName)
}

// ListLatest - по одной текущей версии на каждое имя файла проекта.
func (s *AttachmentVersionService) ListLatest(ctx context.Context, projectID string) ([]entities.AttachmentVersion, error) {
	if err := s.validator.Var(projectID, "required,max=64,project_id"); err != nil {
		return nil, err
	}
	versions, err := s.store.FindLatestByProject(ctx, projectID)
	if err != nil {
		s.logger.Error("не удалось получить вложения проекта", zap.String("projectID", projectID), zap.Error(err))
		return nil, err
	}
	return versions, nil
}

func (s *AttachmentVersionService) validateFile(projectID, fileName string) error {
	if err := s.validator.Var(projectID, "required,max=64,project_id"); err != nil {
		return err
	}
	return s.validator.Var(fileName, "required,max=255,file_name")
}
