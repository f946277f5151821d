package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/d20stats/internal/model"
)

func TestRenderSummary(t *testing.T) {
	summaries := []model.CharacterSummary{
		{Name: "Dean", SessionMean: 12.5, TotalMean: 10.75, SessionStdDev: 4, TotalStdDev: 5.5, TotalSessions: 2, TotalRolls: 5},
		{Name: "Riley", SessionMean: 9, TotalMean: 9, TotalSessions: 1, TotalRolls: 3},
	}
	histories := []model.CharacterHistory{
		{Name: "Dean", Sessions: []model.SessionHistoryEntry{
			{Session: 0, Rolls: []int{1, 2}},
			{Session: 1, Rolls: []int{20, 20}},
		}},
	}
	var buf bytes.Buffer
	if err := RenderSummary(&buf, BuildReport(summaries, histories)); err != nil {
		t.Fatalf("RenderSummary failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d: %q", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "Personagem") || !strings.Contains(lines[0], "Tendência") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "12.50") || !strings.Contains(lines[1], "10.75") {
		t.Fatalf("unexpected Dean row: %q", lines[1])
	}
	if !strings.HasSuffix(lines[1], " @") {
		t.Fatalf("expected Dean sparkline to end high, got %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "3") {
		t.Fatalf("expected Riley row without sparkline, got %q", lines[2])
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, Report{}); err != nil {
		t.Fatalf("RenderSummary failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Nenhum personagem") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestRenderRuns(t *testing.T) {
	runs := []model.RunAggregate{
		{RunID: 12, StartedAt: time.Date(2026, 4, 1, 21, 0, 0, 0, time.Local), DataDir: "/mesa/jogadores", Characters: 7, MeanOfMean: 10.4},
		{RunID: 3, StartedAt: time.Date(2026, 3, 1, 21, 0, 0, 0, time.Local), DataDir: "jogadores_bak", Characters: 1, MeanOfMean: 8},
	}
	var buf bytes.Buffer
	if err := RenderRuns(&buf, runs); err != nil {
		t.Fatalf("RenderRuns failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[1], "12  2026-04-01 21:00") || !strings.HasSuffix(lines[1], "/mesa/jogadores") {
		t.Fatalf("unexpected first row: %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], " 3  2026-03-01 21:00") || !strings.Contains(lines[2], "8.00") {
		t.Fatalf("unexpected second row: %q", lines[2])
	}
}

func TestRenderRunsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderRuns(&buf, nil); err != nil {
		t.Fatalf("RenderRuns failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Nenhuma execução arquivada.") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
