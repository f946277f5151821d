package tracker

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/d20stats/internal/model"
)

func TestParseRolls(t *testing.T) {
	rolls, err := ParseRolls([]string{"1", " 20", "7"}, model.D20())
	if err != nil {
		t.Fatalf("ParseRolls failed: %v", err)
	}
	if len(rolls) != 3 || rolls[0] != 1 || rolls[1] != 20 || rolls[2] != 7 {
		t.Fatalf("unexpected rolls: %v", rolls)
	}
}

func TestParseRollsRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		faces  int
	}{
		{name: "zero", values: []string{"3", "0"}, faces: 20},
		{name: "above faces", values: []string{"21"}, faces: 20},
		{name: "small die", values: []string{"7"}, faces: 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRolls(tt.values, model.Die{Faces: tt.faces})
			var rangeErr *RollRangeError
			if !errors.As(err, &rangeErr) {
				t.Fatalf("expected RollRangeError, got %v", err)
			}
			if rangeErr.Faces != tt.faces {
				t.Fatalf("unexpected faces in error: %+v", rangeErr)
			}
		})
	}
}

func TestParseRollsRejectsText(t *testing.T) {
	if _, err := ParseRolls([]string{"12", "doze"}, model.D20()); err == nil {
		t.Fatalf("expected non-numeric roll to fail")
	}
}

func TestReadRolls(t *testing.T) {
	var out bytes.Buffer
	rolls, err := ReadRolls(strings.NewReader("4 25\n18\n0 9 fim 11\n"), &out, model.D20())
	if err != nil {
		t.Fatalf("ReadRolls failed: %v", err)
	}
	if len(rolls) != 3 || rolls[0] != 4 || rolls[1] != 18 || rolls[2] != 9 {
		t.Fatalf("expected input to stop at the first word, got %v", rolls)
	}
	if got := strings.Count(out.String(), "Valor invalido. Digite entre 1 e 20."); got != 2 {
		t.Fatalf("expected 2 range warnings, got %d: %q", got, out.String())
	}
}

func TestReadRollsEmpty(t *testing.T) {
	rolls, err := ReadRolls(strings.NewReader(""), &bytes.Buffer{}, model.D20())
	if err != nil || len(rolls) != 0 {
		t.Fatalf("unexpected result %v, %v", rolls, err)
	}
}

func TestClearBacksUpThenRemoves(t *testing.T) {
	dataDir := t.TempDir()
	backupDir := filepath.Join(t.TempDir(), "jogadores_bak")
	for _, name := range []string{"Thorne", "Riley"} {
		c := &Character{Name: name, Die: model.D20()}
		c.Record([]int{10, 11})
		if err := c.WriteFiles(dataDir); err != nil {
			t.Fatalf("WriteFiles failed: %v", err)
		}
	}
	other := filepath.Join(dataDir, "anotacoes.txt")
	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	copied, removed, err := Clear(dataDir, backupDir, []string{"Thorne", "Riley", "Dean"})
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if copied != 4 || removed != 4 {
		t.Fatalf("expected 4 copied and 4 removed, got %d and %d", copied, removed)
	}
	for _, file := range []string{"Thorne.txt", "Thorne_historico.txt", "Riley.txt", "Riley_historico.txt"} {
		if _, err := os.Stat(filepath.Join(dataDir, file)); !os.IsNotExist(err) {
			t.Fatalf("expected %s to be removed, got %v", file, err)
		}
		if _, err := os.Stat(filepath.Join(backupDir, file)); err != nil {
			t.Fatalf("expected %s in backup: %v", file, err)
		}
	}
	if _, err := os.Stat(other); err != nil {
		t.Fatalf("expected files outside the roster to survive: %v", err)
	}
}

func TestClearKeepsFilesWhenBackupFails(t *testing.T) {
	dataDir := t.TempDir()
	c := &Character{Name: "Dean", Die: model.D20()}
	c.Record([]int{2})
	if err := c.WriteFiles(dataDir); err != nil {
		t.Fatalf("WriteFiles failed: %v", err)
	}
	blocker := filepath.Join(t.TempDir(), "arquivo")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	_, removed, err := Clear(dataDir, filepath.Join(blocker, "bak"), []string{"Dean"})
	if err == nil {
		t.Fatalf("expected backup into a file path to fail")
	}
	if removed != 0 {
		t.Fatalf("expected nothing removed, got %d", removed)
	}
	if _, err := os.Stat(filepath.Join(dataDir, "Dean.txt")); err != nil {
		t.Fatalf("expected summary to survive: %v", err)
	}
}
