package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/d20stats/internal/model"
)

// Report pairs the parsed summaries with whatever history was found for them.
type Report struct {
	Summaries []model.CharacterSummary
	Histories map[string][]model.SessionHistoryEntry
}

// BuildReport indexes histories by character name.
func BuildReport(summaries []model.CharacterSummary, histories []model.CharacterHistory) Report {
	byName := make(map[string][]model.SessionHistoryEntry, len(histories))
	for _, h := range histories {
		byName[h.Name] = h.Sessions
	}
	return Report{Summaries: summaries, Histories: byName}
}

// RenderSummary prints one row per analyzed character.
func RenderSummary(w io.Writer, report Report) error {
	if len(report.Summaries) == 0 {
		_, err := fmt.Fprintln(w, "Nenhum personagem analisado.")
		return err
	}
	headers := []string{"Personagem", "Média sessão", "Média total", "DP sessão", "DP total", "Sessões", "Rolagens", "Tendência"}
	rows := make([][]string, 0, len(report.Summaries))
	for _, s := range report.Summaries {
		rows = append(rows, []string{
			s.Name,
			fmt.Sprintf("%.2f", s.SessionMean),
			fmt.Sprintf("%.2f", s.TotalMean),
			fmt.Sprintf("%.2f", s.SessionStdDev),
			fmt.Sprintf("%.2f", s.TotalStdDev),
			fmt.Sprintf("%d", s.TotalSessions),
			fmt.Sprintf("%d", s.TotalRolls),
			trendSparkline(report.Histories[s.Name]),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func trendSparkline(history []model.SessionHistoryEntry) string {
	points := SessionMeans(history)
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Mean
	}
	return Sparkline(values)
}

// RenderRuns prints archived runs, newest first.
func RenderRuns(w io.Writer, runs []model.RunAggregate) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "Nenhuma execução arquivada.")
		return err
	}
	headers := []string{"#", "Data", "Personagens", "Média das médias", "Pasta de dados"}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.RunID),
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", r.Characters),
			fmt.Sprintf("%.2f", r.MeanOfMean),
			r.DataDir,
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{0: true, 2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
