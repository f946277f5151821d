package chart

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"rsc.io/pdf"

	"github.com/verte-zerg/d20stats/internal/model"
)

func testSummaries() []model.CharacterSummary {
	dist := func(faces map[int]float64) map[int]float64 {
		out := make(map[int]float64, 20)
		for i := 1; i <= 20; i++ {
			out[i] = faces[i]
		}
		return out
	}
	return []model.CharacterSummary{
		{
			Name: "Nicolle", SessionMean: 12.5, SessionStdDev: 4.1, SessionVariance: 16.81,
			TotalSessions: 2, TotalRolls: 8, TotalMean: 11, TotalStdDev: 5.2, TotalVariance: 27.04,
			Distribution: dist(map[int]float64{8: 25, 12: 25, 15: 50}),
			Rolls:        []int{8, 12, 15, 15},
		},
		{
			Name: "Dean", SessionMean: 6, SessionStdDev: 2, SessionVariance: 4,
			TotalSessions: 1, TotalRolls: 2, TotalMean: 6, TotalStdDev: 2, TotalVariance: 4,
			Distribution: dist(map[int]float64{4: 50, 8: 50}),
			Rolls:        []int{4, 8},
		},
	}
}

func newTestRenderer(t *testing.T) Renderer {
	t.Helper()
	return Renderer{
		OutputDir:  filepath.Join(t.TempDir(), "graficos"),
		ReportName: "relatorio_completo.pdf",
		Die:        model.D20(),
	}
}

func assertFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected %s to be non-empty", path)
	}
}

func TestRenderSummaries(t *testing.T) {
	r := newTestRenderer(t)
	summaries := testSummaries()

	result, err := r.RenderSummaries(summaries)
	if err != nil {
		t.Fatalf("RenderSummaries failed: %v", err)
	}
	if len(result.Images) != len(summaries)+3 {
		t.Fatalf("expected %d images, got %d", len(summaries)+3, len(result.Images))
	}
	for _, file := range []string{MeansFile, DistributionFile("Nicolle"), DistributionFile("Dean"), BoxPlotFile, StdDevsFile} {
		assertFile(t, filepath.Join(r.OutputDir, file))
	}
	if result.Report != filepath.Join(r.OutputDir, "relatorio_completo.pdf") {
		t.Fatalf("unexpected report path %q", result.Report)
	}

	doc, err := pdf.Open(result.Report)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	if got := doc.NumPage(); got != len(summaries)+3 {
		t.Fatalf("expected %d report pages, got %d", len(summaries)+3, got)
	}
}

func TestRenderSummariesWithoutRolls(t *testing.T) {
	r := newTestRenderer(t)
	summaries := testSummaries()[:1]
	summaries[0].Rolls = nil

	result, err := r.RenderSummaries(summaries)
	if err != nil {
		t.Fatalf("RenderSummaries failed: %v", err)
	}
	if len(result.Images) != 4 {
		t.Fatalf("expected 4 images, got %d", len(result.Images))
	}
	assertFile(t, filepath.Join(r.OutputDir, BoxPlotFile))
}

func TestRenderHistories(t *testing.T) {
	r := newTestRenderer(t)
	histories := []model.CharacterHistory{
		{Name: "Nicolle", Sessions: []model.SessionHistoryEntry{
			{Session: 0, Rolls: []int{1, 1, 2}},
			{Session: 1, Rolls: []int{20, 10, 5, 7}},
		}},
		{Name: "Jaeyk"},
		{Name: "Dean", Sessions: []model.SessionHistoryEntry{
			{Session: 0, Rolls: []int{11}},
		}},
	}

	images, err := r.RenderHistories(histories)
	if err != nil {
		t.Fatalf("RenderHistories failed: %v", err)
	}
	if len(images) != 3 {
		t.Fatalf("expected trend plus 2 heatmaps, got %d", len(images))
	}
	assertFile(t, filepath.Join(r.OutputDir, TrendFile))
	assertFile(t, filepath.Join(r.OutputDir, HeatmapFile("Nicolle")))
	assertFile(t, filepath.Join(r.OutputDir, HeatmapFile("Dean")))
	if _, err := os.Stat(filepath.Join(r.OutputDir, HeatmapFile("Jaeyk"))); !os.IsNotExist(err) {
		t.Fatalf("expected no heatmap for a character without history")
	}
}

func TestRenderHistoriesNoData(t *testing.T) {
	r := newTestRenderer(t)
	images, err := r.RenderHistories([]model.CharacterHistory{{Name: "Riley"}})
	if !errors.Is(err, ErrNoHistory) {
		t.Fatalf("expected ErrNoHistory, got %v", err)
	}
	if images != nil {
		t.Fatalf("expected no images, got %v", images)
	}
	if _, err := os.Stat(r.OutputDir); !os.IsNotExist(err) {
		t.Fatalf("expected output dir not to be created")
	}
}

func TestMarkerForCycles(t *testing.T) {
	if MarkerFor(0) != MarkerFor(len(trendMarkers)) {
		t.Fatalf("expected markers to cycle")
	}
	if MarkerFor(0) == MarkerFor(1) {
		t.Fatalf("expected distinct markers for the first characters")
	}
}

func TestFormatRef(t *testing.T) {
	d := model.D20()
	cases := map[float64]string{
		d.IdealMean():   "10.5",
		d.IdealStdDev(): "5.766",
		d.UniformPct():  "5",
	}
	for v, want := range cases {
		if got := formatRef(v); got != want {
			t.Fatalf("formatRef(%v) = %q, want %q", v, got, want)
		}
	}
}
