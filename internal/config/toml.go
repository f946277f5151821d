// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/d20stats/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Analysis AnalysisConfig `toml:"analysis"`
	History  HistoryConfig  `toml:"history"`
}

// AnalysisConfig maps analysis-related settings.
type AnalysisConfig struct {
	DataDir    *string  `toml:"data-dir"`
	BackupDir  *string  `toml:"backup-dir"`
	OutputDir  *string  `toml:"output-dir"`
	ReportName *string  `toml:"report-name"`
	Roster     []string `toml:"roster"`
	Faces      *int     `toml:"faces"`
	Archive    *bool    `toml:"archive"`
	Workbook   *bool    `toml:"workbook"`
}

// HistoryConfig maps history file parsing settings.
type HistoryConfig struct {
	SessionMarker *string `toml:"session-marker"`
	RollMarker    *string `toml:"roll-marker"`
	Separator     *string `toml:"separator"`
	Strict        *bool   `toml:"strict"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Apply overlays the values set in the file onto cfg.
func (f FileConfig) Apply(cfg *model.AnalysisConfig) {
	setString(&cfg.DataDir, f.Analysis.DataDir)
	setString(&cfg.BackupDir, f.Analysis.BackupDir)
	setString(&cfg.OutputDir, f.Analysis.OutputDir)
	setString(&cfg.ReportName, f.Analysis.ReportName)
	if len(f.Analysis.Roster) > 0 {
		cfg.Roster = append([]string(nil), f.Analysis.Roster...)
	}
	if f.Analysis.Faces != nil {
		cfg.Die = model.Die{Faces: *f.Analysis.Faces}
	}
	if f.Analysis.Archive != nil {
		cfg.Archive = *f.Analysis.Archive
	}
	if f.Analysis.Workbook != nil {
		cfg.Workbook = *f.Analysis.Workbook
	}
	setString(&cfg.Markers.Session, f.History.SessionMarker)
	setString(&cfg.Markers.Roll, f.History.RollMarker)
	setString(&cfg.Markers.Separator, f.History.Separator)
	if f.History.Strict != nil {
		cfg.Markers.Strict = *f.History.Strict
	}
}

func setString(target, value *string) {
	if value == nil {
		return
	}
	*target = *value
}
