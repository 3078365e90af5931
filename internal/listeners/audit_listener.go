package listeners

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"project-registry/internal/events"
	"project-registry/pkg/eventbus"
)

// AuditListener пишет журнал выданных кодов и загруженных версий отдельным логгером.
type AuditListener struct {
	logger *zap.Logger
}

func NewAuditListener(logger *zap.Logger) *AuditListener {
	return &AuditListener{logger: logger.Named("audit")}
}

// Register подписывает слушателя на события реестра.
func (l *AuditListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.AttachmentVersionUploaded, l.onAttachmentUploaded)
	bus.Subscribe(events.ProjectCodeIssued, l.onProjectCodeIssued)
}

func (l *AuditListener) onAttachmentUploaded(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.AttachmentVersionUploadedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события %T", event)
	}
	l.logger.Info("версия вложения",
		zap.String("id", e.Version.ID.String()),
		zap.String("projectID", e.Version.ProjectID),
		zap.String("fileName", e.Version.FileName),
		zap.Int64("version", e.Version.Version),
		zap.String("url", e.Version.FileURL),
		zap.Int64("size", e.Version.FileSize),
		zap.Int("attempts", e.Attempts),
		zap.Time("uploadedAt", e.Version.UploadedAt),
	)
	return nil
}

func (l *AuditListener) onProjectCodeIssued(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.ProjectCodeIssuedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события %T", event)
	}
	l.logger.Info("код проекта", zap.String("code", e.Code.String()))
	return nil
}
