package listeners

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"project-registry/internal/entities"
	"project-registry/internal/events"
	"project-registry/pkg/eventbus"
)

func TestAuditListener(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	bus := eventbus.New(zap.NewNop())
	NewAuditListener(zap.New(core)).Register(bus)

	bus.Publish(context.Background(), events.ProjectCodeIssuedEvent{
		Code: entities.ProjectCode{Prefix: "PRJ", Year: 2026, Sequence: 7},
	})
	bus.Publish(context.Background(), events.AttachmentVersionUploadedEvent{
		Version: entities.AttachmentVersion{ProjectID: "p1", FileName: "a.txt", Version: 3},
	})
	bus.Wait()

	require.Equal(t, 2, logs.Len())
	codes := logs.FilterField(zap.String("code", "PRJ-2026-0007"))
	assert.Equal(t, 1, codes.Len())
	versions := logs.FilterField(zap.Int64("version", 3))
	assert.Equal(t, 1, versions.Len())
	assert.Equal(t, "audit", versions.All()[0].LoggerName)
}

func TestAuditListener_WrongEventType(t *testing.T) {
	l := NewAuditListener(zap.NewNop())
	err := l.onAttachmentUploaded(context.Background(), events.ProjectCodeIssuedEvent{})
	assert.Error(t, err)
}
