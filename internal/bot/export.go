package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// exportToExcel выгружает всех лидов в xlsx для оператора.
func (b *Bot) exportToExcel(ctx context.Context) (string, error) {
	if err := os.MkdirAll(b.config.Exports.Path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	leads, err := b.store.GetAllLeads(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting leads: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Лиды"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"Chat ID", "Шаг", "Имя", "Цель", "Усталость", "Активность",
		"Пищеварение", "Красота", "Фокус", "Формат",
		"Тип контакта", "Контакт", "Завершен", "Создан",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle)

	for i, lead := range leads {
		row := i + 2
		completed := "нет"
		if lead.Completed {
			completed = "да"
		}
		values := []interface{}{
			lead.ChatID, lead.Step, lead.Name, lead.Goal, lead.Fatigue,
			lead.Activity, lead.Digestion, lead.Beauty,
			strings.Join(lead.Focus, ", "), strings.Join(lead.Format, ", "),
			lead.ContactType, lead.ContactData, completed,
			lead.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "N", 18)
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("leads_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(b.config.Exports.Path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	b.logger.Info().Str("file_path", filePath).Int("leads", len(leads)).Msg("Excel file created")
	return filePath, nil
}
