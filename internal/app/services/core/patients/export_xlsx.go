package patients

import (
	"fmt"
	"patient-directory-service/internal/app/models"
	"strings"

	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Patients"

var exportHeader = []string{
	"ID",
	"Full Name",
	"Document Type",
	"Document Number",
	"Birth Date",
	"Phone",
	"Email",
	"Doctor",
	"Home City",
	"Active",
	"Created At",
}

var exportColumnWidths = []float64{24, 32, 14, 20, 12, 16, 28, 24, 18, 8, 26}

func exportRow(record models.Patient) []interface{} {
	active := "Yes"
	if !record.IsActive() {
		active = "No"
	}
	return []interface{}{
		record.ID,
		record.DisplayName(),
		record.DocumentType,
		record.DocumentNumber,
		record.BirthDate,
		record.Phone,
		record.Email,
		record.Doctor,
		record.HomeCity,
		active,
		record.CreatedAt,
	}
}

// BuildDirectoryWorkbook renders records in the given order as a single
// sheet workbook. The title row lists the filters that produced them.
func BuildDirectoryWorkbook(records []models.Patient, title string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := f.SetCellValue(exportSheetName, "A1", title); err != nil {
		return nil, fmt.Errorf("failed to set title: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]interface{}, len(exportHeader))
	for i, name := range exportHeader {
		header[i] = name
	}
	if err := f.SetSheetRow(exportSheetName, "A2", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	lastColumn, err := excelize.ColumnNumberToName(len(exportHeader))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheetName, "A2", lastColumn+"2", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	for i, width := range exportColumnWidths {
		column, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(exportSheetName, column, column, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return nil, err
		}
		row := exportRow(record)
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+3, err)
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buffer.Bytes(), nil
}

func exportTitle(term, doctor string, showInactive bool) string {
	parts := []string{"Patient directory"}
	if showInactive {
		parts = append(parts, "inactive")
	} else {
		parts = append(parts, "active")
	}
	if strings.TrimSpace(doctor) != "" {
		parts = append(parts, "doctor: "+strings.TrimSpace(doctor))
	}
	if strings.TrimSpace(term) != "" {
		parts = append(parts, "search: "+strings.TrimSpace(term))
	}
	return strings.Join(parts, " | ")
}
