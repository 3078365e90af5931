package dto

import "project-registry/internal/entities"

// GenerateProjectCodeDTO: пустой префикс - берётся PROJECT_CODE_PREFIX.
type GenerateProjectCodeDTO struct {
	Prefix string `json:"prefix" validate:"omitempty,code_prefix"`
}

type ProjectCodeResponseDTO struct {
	Code     string `json:"code"`
	Prefix   string `json:"prefix"`
	Year     int    `json:"year"`
	Sequence int64  `json:"sequence"`
}

func NewProjectCodeResponseDTO(code entities.ProjectCode) ProjectCodeResponseDTO {
	return ProjectCodeResponseDTO{
		Code:     code.String(),
		Prefix:   code.Prefix,
		Year:     code.Year,
		Sequence: code.Sequence,
	}
}
