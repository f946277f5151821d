package parse

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/d20stats/internal/model"
)

const fullSummary = `Personagem: Thorne

=== ESTATÍSTICAS DA SESSÃO ATUAL ===
Quantidade de rolagens: 4
Média de rolagem (sessão atual): 12.5
Desvio padrão (sessão atual): 4.5
Variância (sessão atual): 20.25

=== ESTATÍSTICAS CUMULATIVAS ===
Total de sessões: 3
Total de rolagens (todas as sessões): 40
Média total (todas as sessões): 10.8
Desvio padrão total: 5.9
Variância total: 34.81

=== DISTRIBUIÇÃO DE ROLAGENS (SESSÃO ATUAL) ===
Valor 1: 25%
Valor 2: 50%
Valor 3: 25%

=== ROLAGENS INDIVIDUAIS (SESSÃO ATUAL) ===
Rolagem 1: 2
Rolagem 2: 1
Rolagem 3: 3
Rolagem 4: 2
`

func TestParseSummaryFields(t *testing.T) {
	s, err := ParseSummary(fullSummary, model.D20())
	if err != nil {
		t.Fatalf("ParseSummary failed: %v", err)
	}
	if s.Name != "Thorne" {
		t.Fatalf("expected name Thorne, got %q", s.Name)
	}
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"session mean", s.SessionMean, 12.5},
		{"session stddev", s.SessionStdDev, 4.5},
		{"session variance", s.SessionVariance, 20.25},
		{"total mean", s.TotalMean, 10.8},
		{"total stddev", s.TotalStdDev, 5.9},
		{"total variance", s.TotalVariance, 34.81},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Fatalf("%s: expected %v, got %v", c.name, c.want, c.got)
		}
	}
	if s.TotalSessions != 3 || s.TotalRolls != 40 {
		t.Fatalf("unexpected totals: sessions=%d rolls=%d", s.TotalSessions, s.TotalRolls)
	}
	want := []int{2, 1, 3, 2}
	if len(s.Rolls) != len(want) {
		t.Fatalf("expected %d rolls, got %v", len(want), s.Rolls)
	}
	for i := range want {
		if s.Rolls[i] != want[i] {
			t.Fatalf("expected rolls %v, got %v", want, s.Rolls)
		}
	}
}

func TestParseSummaryDistributionZeroFilled(t *testing.T) {
	s, err := ParseSummary(fullSummary, model.D20())
	if err != nil {
		t.Fatalf("ParseSummary failed: %v", err)
	}
	if len(s.Distribution) != 20 {
		t.Fatalf("expected 20 faces, got %d", len(s.Distribution))
	}
	if s.Distribution[1] != 25 || s.Distribution[2] != 50 || s.Distribution[3] != 25 {
		t.Fatalf("unexpected labeled faces: %v", s.Distribution)
	}
	for face := 4; face <= 20; face++ {
		if s.Distribution[face] != 0 {
			t.Fatalf("expected face %d to default to 0, got %v", face, s.Distribution[face])
		}
	}
}

func TestParseSummaryFaceTenNotConfusedWithOne(t *testing.T) {
	content := fullSummary + "Valor 10: 7.5%\n"
	content = replaceLine(content, "Valor 1: 25%", "")
	s, err := ParseSummary(content, model.D20())
	if err != nil {
		t.Fatalf("ParseSummary failed: %v", err)
	}
	if s.Distribution[1] != 0 {
		t.Fatalf("expected face 1 to be 0, got %v", s.Distribution[1])
	}
	if s.Distribution[10] != 7.5 {
		t.Fatalf("expected face 10 to be 7.5, got %v", s.Distribution[10])
	}
}

func TestParseSummaryMissingRequiredField(t *testing.T) {
	content := replaceLine(fullSummary, "Média total (todas as sessões): 10.8", "")
	_, err := ParseSummary(content, model.D20())
	if err == nil {
		t.Fatalf("expected failure without the all-time mean")
	}
	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %T: %v", err, err)
	}
	if missing.Field != "média total" {
		t.Fatalf("unexpected field: %q", missing.Field)
	}
}

func TestParseSummaryInvalidNumber(t *testing.T) {
	content := replaceLine(fullSummary, "Desvio padrão total: 5.9", "Desvio padrão total: 5.9.1")
	if _, err := ParseSummary(content, model.D20()); err == nil {
		t.Fatalf("expected failure for an unparsable number")
	}
}

func TestParseSummaryUnknownName(t *testing.T) {
	content := replaceLine(fullSummary, "Personagem: Thorne", "")
	s, err := ParseSummary(content, model.D20())
	if err != nil {
		t.Fatalf("ParseSummary failed: %v", err)
	}
	if s.Name != UnknownName {
		t.Fatalf("expected %q, got %q", UnknownName, s.Name)
	}
}

func TestParseSummaryAccentedName(t *testing.T) {
	content := replaceLine(fullSummary, "Personagem: Thorne", "Personagem: Joaquím")
	s, err := ParseSummary(content, model.D20())
	if err != nil {
		t.Fatalf("ParseSummary failed: %v", err)
	}
	if s.Name != "Joaquím" {
		t.Fatalf("expected accented name, got %q", s.Name)
	}
}

func TestLoadSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Thorne.txt")
	if err := os.WriteFile(path, []byte(fullSummary), 0o644); err != nil {
		t.Fatalf("write summary: %v", err)
	}
	s, err := LoadSummary(path, model.D20())
	if err != nil {
		t.Fatalf("LoadSummary failed: %v", err)
	}
	if s.SessionMean != 12.5 {
		t.Fatalf("expected session mean 12.5, got %v", s.SessionMean)
	}
	if _, err := LoadSummary(filepath.Join(t.TempDir(), "missing.txt"), model.D20()); err == nil {
		t.Fatalf("expected error for a missing file")
	}
}

func replaceLine(content, old, repl string) string {
	return strings.Replace(content, old+"\n", repl+"\n", 1)
}
