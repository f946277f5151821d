package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/verte-zerg/d20stats/internal/model"
)

// EnvConfig holds the D20STATS_* overrides.
type EnvConfig struct {
	DataDir   *string `env:"DATA_DIR"`
	BackupDir *string `env:"BACKUP_DIR"`
	OutputDir *string `env:"OUTPUT_DIR"`
	Roster    *string `env:"ROSTER"`
	Faces     *int    `env:"FACES"`
	Archive   *bool   `env:"ARCHIVE"`
	Workbook  *bool   `env:"WORKBOOK"`
}

const envPrefix = "D20STATS_"

// LoadDotEnv loads a .env file when one exists. Missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ParseEnv reads D20STATS_* variables from the environment.
func ParseEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Apply overlays the values set in the environment onto cfg.
func (e EnvConfig) Apply(cfg *model.AnalysisConfig) {
	setString(&cfg.DataDir, e.DataDir)
	setString(&cfg.BackupDir, e.BackupDir)
	setString(&cfg.OutputDir, e.OutputDir)
	if e.Roster != nil {
		if roster := splitRoster(*e.Roster); len(roster) > 0 {
			cfg.Roster = roster
		}
	}
	if e.Faces != nil {
		cfg.Die = model.Die{Faces: *e.Faces}
	}
	if e.Archive != nil {
		cfg.Archive = *e.Archive
	}
	if e.Workbook != nil {
		cfg.Workbook = *e.Workbook
	}
}

func splitRoster(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
