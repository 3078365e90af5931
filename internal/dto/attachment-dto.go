package dto

import (
	"time"

	"github.com/aarondl/null/v8"

	"project-registry/internal/entities"
)

type UploadAttachmentDTO struct {
	FileName string      `json:"file_name" validate:"required,max=255,file_name"`
	Category null.String `json:"category" validate:"omitempty,max=100"`
	MimeType string      `json:"mime_type" validate:"omitempty,max=255"`
	FileSize int64       `json:"file_size" validate:"gte=0"`
	Comments null.String `json:"comments" validate:"omitempty,max=2000"`
}

func (d UploadAttachmentDTO) Descriptor() entities.FileDescriptor {
	return entities.FileDescriptor{
		Category: d.Category,
		MimeType: d.MimeType,
		FileSize: d.FileSize,
		Comments: d.Comments,
	}
}

// AttachmentResponseDTO - то, что обработчик загрузки возвращает клиенту.
type AttachmentResponseDTO struct {
	FileName string      `json:"file_name"`
	Version  int64       `json:"version"`
	URL      string      `json:"url"`
	Category null.String `json:"category"`
}

type AttachmentVersionDTO struct {
	ID         string      `json:"id"`
	ProjectID  string      `json:"project_id"`
	FileName   string      `json:"file_name"`
	Version    int64       `json:"version"`
	IsLatest   bool        `json:"is_latest"`
	URL        string      `json:"url"`
	Category   null.String `json:"category"`
	MimeType   string      `json:"mime_type"`
	FileSize   int64       `json:"file_size"`
	Comments   null.String `json:"comments"`
	UploadedAt time.Time   `json:"uploaded_at"`
}

func NewAttachmentResponseDTO(v *entities.AttachmentVersion) AttachmentResponseDTO {
	return AttachmentResponseDTO{
		FileName: v.FileName,
		Version:  v.Version,
		URL:      v.FileURL,
		Category: v.Category,
	}
}

func NewAttachmentVersionDTO(v entities.AttachmentVersion) AttachmentVersionDTO {
	return AttachmentVersionDTO{
		ID:         v.ID.String(),
		ProjectID:  v.ProjectID,
		FileName:   v.FileName,
		Version:    v.Version,
		IsLatest:   v.IsLatest,
		URL:        v.FileURL,
		Category:   v.Category,
		MimeType:   v.MimeType,
		FileSize:   v.FileSize,
		Comments:   v.Comments,
		UploadedAt: v.UploadedAt,
	}
}

func NewAttachmentVersionDTOs(versions []entities.AttachmentVersion) []AttachmentVersionDTO {
	out := make([]AttachmentVersionDTO, 0, len(versions))
	for _, v := range versions {
		out = append(out, NewAttachmentVersionDTO(v))
	}
	return out
}
