// Package export renders the movement log as a spreadsheet for the monthly
// fleet report.
package export

import (
	"bytes"
	"fmt"

	"flottapool/internal/models"

	"github.com/xuri/excelize/v2"
)

const logSheet = "Registro Movimenti"

var logHeaders = []string{
	"Viaggio", "Movimento", "Data", "Veicolo", "Targa", "Conducente",
	"Commessa", "Km", "Carburante", "Danni Segnalati", "Note",
}

// LogbookExcel renders the given log entries, newest first, into an xlsx
// workbook ready to stream to the client.
func LogbookExcel(entries []*models.LogEntry) (*bytes.Buffer, error) {
	file := excelize.NewFile()
	defer file.Close()

	index, err := file.NewSheet(logSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	file.SetActiveSheet(index)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range logHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(logSheet, cell, header)
		file.SetCellStyle(logSheet, cell, cell, headerStyle)
	}
	file.SetColWidth(logSheet, "A", "K", 18)

	for row, entry := range entries {
		values := []interface{}{
			entry.TripID,
			movementLabel(entry.Movement),
			entry.Timestamp.Format("02/01/2006 15:04"),
			entry.VehicleModel,
			entry.Plate,
			entry.Driver,
			entry.Commessa,
			entry.OdometerKm,
			entry.FuelLevel,
			entry.NewDamage,
			entry.Notes,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			file.SetCellValue(logSheet, cell, value)
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf, nil
}

func movementLabel(movement models.MovementType) string {
	switch movement {
	case models.MovementCheckout:
		return "Uscita"
	case models.MovementCheckin:
		return "Rientro"
	}
	return string(movement)
}
