package config

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/d20stats/internal/model"
)

const (
	DefaultDataDir       = "jogadores"
	DefaultBackupDir     = "jogadores_bak"
	DefaultOutputDir     = "graficos"
	DefaultReportName    = "relatorio_completo.pdf"
	DefaultSessionMarker = "Sessão"
	DefaultRollMarker    = "Rolagem"
	DefaultSeparator     = ":"

	// HistorySuffix names a character's history file: <name>_historico.txt.
	HistorySuffix = "_historico.txt"
	// SummaryExt names a character's summary file: <name>.txt.
	SummaryExt = ".txt"
)

// DefaultRoster is the table the tracker was built for.
var DefaultRoster = []string{"Nicolle", "Jaeyk", "Thorne", "Riley", "Imugi", "Dean", "Mestre"}

// Defaults returns the built-in analysis configuration.
func Defaults() model.AnalysisConfig {
	return model.AnalysisConfig{
		DataDir:    DefaultDataDir,
		BackupDir:  DefaultBackupDir,
		OutputDir:  DefaultOutputDir,
		ReportName: DefaultReportName,
		Roster:     append([]string(nil), DefaultRoster...),
		Die:        model.D20(),
		Markers: model.HistoryMarkers{
			Session:   DefaultSessionMarker,
			Roll:      DefaultRollMarker,
			Separator: DefaultSeparator,
		},
	}
}

// Validate rejects configurations the analysis cannot run with.
func Validate(cfg model.AnalysisConfig) error {
	if cfg.Die.Faces < 2 {
		return fmt.Errorf("faces must be >= 2")
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return fmt.Errorf("output-dir must not be empty")
	}
	if strings.TrimSpace(cfg.ReportName) == "" {
		return fmt.Errorf("report-name must not be empty")
	}
	if cfg.Markers.Session == "" || cfg.Markers.Roll == "" || cfg.Markers.Separator == "" {
		return fmt.Errorf("history markers must not be empty")
	}
	if len(cfg.Roster) == 0 {
		return fmt.Errorf("roster must not be empty")
	}
	return nil
}

// SummaryFileName returns the summary file name for a character.
func SummaryFileName(name string) string {
	return name + SummaryExt
}

// HistoryFileName returns the history file name for a character.
func HistoryFileName(name string) string {
	return name + HistorySuffix
}
