package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"project-registry/internal/entities"
)

const (
	historySheet = "История версий"
	dateTimeFmt  = "02.01.2006 15:04:05"
)

var historyHeaders = []interface{}{
	"Проект", "Файл", "Версия", "Текущая", "Категория", "MIME", "Размер (байт)", "URL", "Загружено", "Комментарий",
}

// WriteAttachmentHistory выгружает историю версий в XLSX, по строке на версию.
func WriteAttachmentHistory(w io.Writer, versions []entities.AttachmentVersion) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", historySheet); err != nil {
		return fmt.Errorf("переименование листа: %w", err)
	}
	if err := f.SetSheetRow(historySheet, "A1", &historyHeaders); err != nil {
		return fmt.Errorf("запись заголовка: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("стиль заголовка: %w", err)
	}
	_ = f.SetCellStyle(historySheet, "A1", "J1", style)

	for i, v := range versions {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := historyRow(v)
		if err := f.SetSheetRow(historySheet, cell, &row); err != nil {
			return fmt.Errorf("запись строки %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(historySheet, "A", "B", 25)
	_ = f.SetColWidth(historySheet, "H", "H", 60)
	_ = f.SetColWidth(historySheet, "I", "I", 20)
	_ = f.SetColWidth(historySheet, "J", "J", 40)

	return f.Write(w)
}

func historyRow(v entities.AttachmentVersion) []interface{} {
	latest := "нет"
	if v.IsLatest {
		latest = "да"
	}
	return []interface{}{
		v.ProjectID, v.FileName, v.Version, latest, v.Category.String, v.MimeType,
		v.FileSize, v.FileURL, v.UploadedAt.Format(dateTimeFmt), v.Comments.String,
	}
}
