package entities

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

const attachmentVersionNamespace = "attachmentVersion"

// AttachmentPartitionPrefix - общий префикс ключей счётчиков версий вложений.
const AttachmentPartitionPrefix = attachmentVersionNamespace + ":"

// AttachmentVersion - одна загруженная версия файла проекта.
// История не удаляется, меняется только IsLatest (true -> false).
type AttachmentVersion struct {
	ID         uuid.UUID   `db:"id"`
	ProjectID  string      `db:"project_id"`
	FileName   string      `db:"file_name"`
	Version    int64       `db:"version"`
	IsLatest   bool        `db:"is_latest"`
	FileURL    string      `db:"file_url"`
	Category   null.String `db:"category"`
	MimeType   string      `db:"mime_type"`
	FileSize   int64       `db:"file_size"`
	Comments   null.String `db:"comments"`
	UploadedAt time.Time   `db:"uploaded_at"`
}

// FileDescriptor - описательная часть загрузки, не участвующая в конкурентной логике.
type FileDescriptor struct {
	Category null.String `json:"category" validate:"omitempty,max=100"`
	MimeType string      `json:"mime_type" validate:"omitempty,max=255"`
	FileSize int64       `json:"file_size" validate:"gte=0"`
	Comments null.String `json:"comments" validate:"omitempty,max=2000"`
}

// AttachmentPartitionKey - ключ счётчика версий для (проект, имя файла).
// projectID не содержит ':', поэтому ключ разбирается однозначно.
func AttachmentPartitionKey(projectID, fileName string) string {
	return AttachmentPartitionPrefix + projectID + ":" + fileName
}
