package events

import "project-registry/internal/entities"

const (
	AttachmentVersionUploaded = "attachment.version.uploaded"
	ProjectCodeIssued         = "project.code.issued"
)

// AttachmentVersionUploadedEvent публикуется только после коммита транзакции.
type AttachmentVersionUploadedEvent struct {
	Version  entities.AttachmentVersion
	Attempts int
}

func (e AttachmentVersionUploadedEvent) Name() string {
	return AttachmentVersionUploaded
}

type ProjectCodeIssuedEvent struct {
	Code entities.ProjectCode
}

func (e ProjectCodeIssuedEvent) Name() string {
	return ProjectCodeIssued
}
