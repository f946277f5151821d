// Package analyze runs the full pipeline: find the data directory, parse every character file,
// render the charts, and print the report.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/d20stats/internal/chart"
	"github.com/verte-zerg/d20stats/internal/config"
	"github.com/verte-zerg/d20stats/internal/console"
	"github.com/verte-zerg/d20stats/internal/discovery"
	"github.com/verte-zerg/d20stats/internal/export"
	"github.com/verte-zerg/d20stats/internal/model"
	"github.com/verte-zerg/d20stats/internal/parse"
	"github.com/verte-zerg/d20stats/internal/prompt"
	"github.com/verte-zerg/d20stats/internal/stats"
	"github.com/verte-zerg/d20stats/internal/store"
)

// Analyzer holds everything one analysis run needs.
type Analyzer struct {
	Config  model.AnalysisConfig
	Printer *console.Printer
	// WorkDir is where directory discovery starts. Empty means the current directory.
	WorkDir string
	// Ask is called when no data directory could be found. Nil skips the prompt.
	Ask    func() (string, error)
	DBPath string
	Now    func() time.Time
}

// Result describes what a run produced.
type Result struct {
	DataDir   string
	Summaries []model.CharacterSummary
	Histories []model.CharacterHistory
	Images    []string
	Report    string
	Workbook  string
	RunID     int64
}

// Run analyzes dataDir, or a discovered directory when dataDir is empty. Every outcome of the
// analysis itself is reported through the Printer; the returned error is reserved for a
// canceled context.
func (a *Analyzer) Run(ctx context.Context, dataDir string) (Result, error) {
	var result Result
	dir, ok := a.resolveDataDir(dataDir)
	if !ok {
		return result, nil
	}
	if !discovery.Exists(dir) {
		a.Printer.Errorf("A pasta '%s' não existe.", dir)
		return result, nil
	}
	result.DataDir = dir
	a.Printer.Infof("Usando pasta de dados: %s", dir)

	for _, path := range a.summaryFiles(dir) {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		summary, err := parse.LoadSummary(path, a.Config.Die)
		if err != nil {
			a.Printer.Errorf("Erro ao processar o arquivo %s: %v", filepath.Base(path), err)
			continue
		}
		result.Summaries = append(result.Summaries, summary)
	}

	if len(result.Summaries) == 0 {
		a.Printer.Noticef("Nenhum arquivo de personagem válido encontrado.")
		a.Printer.Infof("Verifique se os arquivos estão presentes em: %s", dir)
		return result, nil
	}

	renderer := chart.Renderer{OutputDir: a.Config.OutputDir, ReportName: a.Config.ReportName, Die: a.Config.Die}
	summaryCharts, err := renderer.RenderSummaries(result.Summaries)
	if err != nil {
		a.Printer.Errorf("Erro ao gerar gráficos: %v", err)
	}
	result.Images = append(result.Images, summaryCharts.Images...)
	result.Report = summaryCharts.Report
	if summaryCharts.Report != "" {
		a.Printer.Successf("Gráficos salvos na pasta '%s' e relatório completo em '%s'", a.Config.OutputDir, summaryCharts.Report)
	}

	result.Histories = a.loadHistories(dir)
	trendCharts, err := renderer.RenderHistories(result.Histories)
	switch {
	case errors.Is(err, chart.ErrNoHistory):
		a.Printer.Noticef("Nenhum arquivo de histórico encontrado.")
	case err != nil:
		a.Printer.Errorf("Erro ao gerar gráficos de tendência: %v", err)
	}
	result.Images = append(result.Images, trendCharts...)
	if len(trendCharts) > 0 {
		a.Printer.Successf("Gráficos de tendência salvos na pasta '%s'", a.Config.OutputDir)
	}

	if a.Config.Workbook {
		path := filepath.Join(a.Config.OutputDir, export.DefaultWorkbookName)
		if err := export.WriteWorkbook(path, a.Config.Die, result.Summaries, result.Histories); err != nil {
			a.Printer.Errorf("Erro ao salvar a planilha: %v", err)
		} else {
			result.Workbook = path
			a.Printer.Successf("Planilha salva em '%s'", path)
		}
	}

	a.Printer.Infof("")
	if err := stats.RenderSummary(a.Printer.Out(), stats.BuildReport(result.Summaries, result.Histories)); err != nil {
		a.Printer.Errorf("Erro ao imprimir o resumo: %v", err)
	}

	if a.Config.Archive {
		id, err := a.archive(ctx, dir, result.Summaries)
		if err != nil {
			a.Printer.Errorf("Erro ao arquivar a execução: %v", err)
		} else {
			result.RunID = id
			a.Printer.Infof("Execução arquivada (#%d).", id)
		}
	}

	a.Printer.Successf("Processamento concluído! %d personagens analisados.", len(result.Summaries))
	return result, nil
}

func (a *Analyzer) resolveDataDir(explicit string) (string, bool) {
	if explicit != "" {
		return explicit, true
	}
	resolver := discovery.Resolver{
		Root:          a.WorkDir,
		DataDir:       a.Config.DataDir,
		BackupDir:     a.Config.BackupDir,
		HistorySuffix: config.HistorySuffix,
	}
	if dir, ok := resolver.Resolve(); ok {
		return dir, true
	}
	a.Printer.Noticef("Não foi possível encontrar a pasta '%s' ou '%s'.", a.Config.DataDir, a.Config.BackupDir)
	if a.Ask == nil {
		return "", false
	}
	answer, err := a.Ask()
	if err != nil {
		if !errors.Is(err, prompt.ErrCanceled) {
			a.Printer.Errorf("Erro ao ler o caminho: %v", err)
		}
		return "", false
	}
	return answer, true
}

// summaryFiles lists the roster's summary files, or every non-history text file when no roster
// file exists.
func (a *Analyzer) summaryFiles(dir string) []string {
	var files []string
	for _, name := range a.Config.Roster {
		path := filepath.Join(dir, config.SummaryFileName(name))
		if discovery.Exists(path) {
			files = append(files, path)
		}
	}
	if len(files) > 0 {
		return files
	}

	a.Printer.Noticef("Arquivos de personagens predefinidos não encontrados. Buscando quaisquer arquivos de texto...")
	matches, err := filepath.Glob(filepath.Join(dir, "*"+config.SummaryExt))
	if err != nil {
		a.Printer.Errorf("Erro ao listar arquivos: %v", err)
		return nil
	}
	for _, path := range matches {
		if strings.HasSuffix(filepath.Base(path), config.HistorySuffix) {
			continue
		}
		files = append(files, path)
	}
	return files
}

func (a *Analyzer) loadHistories(dir string) []model.CharacterHistory {
	var histories []model.CharacterHistory
	for _, name := range a.Config.Roster {
		path := filepath.Join(dir, config.HistoryFileName(name))
		if !discovery.Exists(path) {
			continue
		}
		sessions, err := parse.LoadHistory(path, a.Config.Markers)
		if err != nil {
			a.Printer.Errorf("Erro ao processar o histórico %s: %v", filepath.Base(path), err)
			continue
		}
		histories = append(histories, model.CharacterHistory{Name: name, Sessions: sessions})
	}
	return histories
}

func (a *Analyzer) archive(ctx context.Context, dir string, summaries []model.CharacterSummary) (int64, error) {
	dbPath := a.DBPath
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			a.Printer.Errorf("failed to close db: %v", cerr)
		}
	}()

	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	run := model.Run{StartedAt: now(), DataDir: absPath(dir), OutputDir: absPath(a.Config.OutputDir)}
	return st.InsertRun(ctx, run, summaries)
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

