package tracker

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/verte-zerg/d20stats/internal/config"
	"github.com/verte-zerg/d20stats/internal/model"
)

// RollRangeError reports a roll outside the faces of the die.
type RollRangeError struct {
	Value int
	Faces int
}

func (e *RollRangeError) Error() string {
	return fmt.Sprintf("valor inválido %d: digite entre 1 e %d", e.Value, e.Faces)
}

// CheckRoll returns a RollRangeError when v is not a face of die.
func CheckRoll(v int, die model.Die) error {
	if v < 1 || v > die.Faces {
		return &RollRangeError{Value: v, Faces: die.Faces}
	}
	return nil
}

// ParseRolls converts command-line values. Any non-numeric or out-of-range value fails the batch.
func ParseRolls(values []string, die model.Die) ([]int, error) {
	rolls := make([]int, 0, len(values))
	for _, raw := range values {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("rolagem inválida %q: %w", raw, err)
		}
		if err := CheckRoll(v, die); err != nil {
			return nil, err
		}
		rolls = append(rolls, v)
	}
	return rolls, nil
}

// ReadRolls reads whitespace-separated rolls from r until the first non-numeric token or end of
// input. Out-of-range values are reported on out and skipped.
func ReadRolls(r io.Reader, out io.Writer, die model.Die) ([]int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	var rolls []int
	for scanner.Scan() {
		v, err := strconv.Atoi(scanner.Text())
		if err != nil {
			break
		}
		if err := CheckRoll(v, die); err != nil {
			if _, werr := fmt.Fprintf(out, "Valor invalido. Digite entre 1 e %d.\n", die.Faces); werr != nil {
				return nil, werr
			}
			continue
		}
		rolls = append(rolls, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rolls: %w", err)
	}
	return rolls, nil
}

// Clear backs up the roster's files into backupDir and then removes them from dataDir. It returns
// how many files were backed up and how many were removed. Nothing is removed when the backup fails.
func Clear(dataDir, backupDir string, roster []string) (int, int, error) {
	copied, err := Backup(dataDir, backupDir, roster)
	if err != nil {
		return copied, 0, err
	}
	removed := 0
	for _, name := range roster {
		for _, file := range []string{config.SummaryFileName(name), config.HistoryFileName(name)} {
			err := os.Remove(filepath.Join(dataDir, file))
			switch {
			case err == nil:
				removed++
			case errors.Is(err, fs.ErrNotExist):
			default:
				return copied, removed, fmt.Errorf("failed to remove %s: %w", file, err)
			}
		}
	}
	return copied, removed, nil
}
