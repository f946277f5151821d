package tracker

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/verte-zerg/d20stats/internal/config"
)

// Backup copies each roster character's summary and history file from dataDir into backupDir and
// returns how many files were copied. Missing files are skipped.
func Backup(dataDir, backupDir string, roster []string) (int, error) {
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create backup directory: %w", err)
	}
	copied := 0
	for _, name := range roster {
		for _, file := range []string{config.SummaryFileName(name), config.HistoryFileName(name)} {
			ok, err := copyFile(filepath.Join(dataDir, file), filepath.Join(backupDir, file))
			if err != nil {
				return copied, fmt.Errorf("failed to back up %s: %w", file, err)
			}
			if ok {
				copied++
			}
		}
	}
	return copied, nil
}

func copyFile(src, dst string) (bool, error) {
	in, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.Create(dst)
	if err != nil {
		return false, err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return false, err
	}
	if err := out.Close(); err != nil {
		return false, err
	}
	return true, nil
}
