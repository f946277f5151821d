// Package export writes analyzed statistics to a spreadsheet.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/verte-zerg/d20stats/internal/model"
	"github.com/verte-zerg/d20stats/internal/stats"
)

// Sheet names of the exported workbook.
const (
	SummarySheet      = "Resumo"
	DistributionSheet = "Distribuição"
	SessionsSheet     = "Sessões"
)

// DefaultWorkbookName is the spreadsheet written next to the PDF report.
const DefaultWorkbookName = "estatisticas.xlsx"

// WriteWorkbook writes the summary figures, the current-session distributions, and the
// per-session means of every history to path.
func WriteWorkbook(path string, die model.Die, summaries []model.CharacterSummary, histories []model.CharacterHistory) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return err
	}
	if err := writeSheet(f, SummarySheet, summaryRows(summaries)); err != nil {
		return err
	}
	if _, err := f.NewSheet(DistributionSheet); err != nil {
		return err
	}
	if err := writeSheet(f, DistributionSheet, distributionRows(die, summaries)); err != nil {
		return err
	}
	if _, err := f.NewSheet(SessionsSheet); err != nil {
		return err
	}
	if err := writeSheet(f, SessionsSheet, sessionRows(histories)); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func summaryRows(summaries []model.CharacterSummary) [][]any {
	rows := [][]any{{
		"Personagem", "Média sessão", "DP sessão", "Variância sessão", "Sessões", "Rolagens",
		"Média total", "DP total", "Variância total",
	}}
	for _, s := range summaries {
		rows = append(rows, []any{
			s.Name, s.SessionMean, s.SessionStdDev, s.SessionVariance, s.TotalSessions, s.TotalRolls,
			s.TotalMean, s.TotalStdDev, s.TotalVariance,
		})
	}
	return rows
}

func distributionRows(die model.Die, summaries []model.CharacterSummary) [][]any {
	header := []any{"Valor"}
	for _, s := range summaries {
		header = append(header, s.Name)
	}
	rows := [][]any{header}
	for _, face := range die.FaceValues() {
		row := []any{face}
		for _, s := range summaries {
			row = append(row, s.Distribution[face])
		}
		rows = append(rows, row)
	}
	return rows
}

func sessionRows(histories []model.CharacterHistory) [][]any {
	rows := [][]any{{"Personagem", "Sessão", "Rolagens", "Média"}}
	for _, h := range histories {
		for i, point := range stats.SessionMeans(h.Sessions) {
			rows = append(rows, []any{h.Name, point.Session, len(h.Sessions[i].Rolls), point.Mean})
		}
	}
	return rows
}

func writeSheet(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
