// Package tracker records sessions of rolls and writes the summary and history files the
// analysis reads.
package tracker

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/montanaflynn/stats"

	"github.com/verte-zerg/d20stats/internal/config"
	"github.com/verte-zerg/d20stats/internal/model"
	"github.com/verte-zerg/d20stats/internal/parse"
)

// Character is one tracked character: every recorded session plus the latest one.
type Character struct {
	Name    string
	Die     model.Die
	History [][]int
	Current []int
}

// Figures are the statistics written to a summary file.
type Figures struct {
	SessionMean     float64
	SessionStdDev   float64
	SessionVariance float64
	TotalSessions   int
	TotalRolls      int
	TotalMean       float64
	TotalStdDev     float64
	TotalVariance   float64
}

// Load reads the character's existing history from dir. A missing history file starts empty.
func Load(dir, name string, die model.Die, markers model.HistoryMarkers) (*Character, error) {
	c := &Character{Name: name, Die: die}
	entries, err := parse.LoadHistory(filepath.Join(dir, config.HistoryFileName(name)), markers)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("failed to load history of %s: %w", name, err)
	}
	for _, e := range entries {
		c.History = append(c.History, e.Rolls)
	}
	return c, nil
}

// Record makes rolls the current session and appends it to the history. An empty session only
// clears the current one.
func (c *Character) Record(rolls []int) {
	c.Current = append([]int(nil), rolls...)
	if len(rolls) == 0 {
		return
	}
	c.History = append(c.History, c.Current)
}

// Figures computes population statistics for the current session and for every recorded roll.
func (c *Character) Figures() Figures {
	var all []int
	for _, session := range c.History {
		all = append(all, session...)
	}
	f := Figures{
		TotalSessions: len(c.History),
		TotalRolls:    len(all),
	}
	f.SessionMean, f.SessionStdDev, f.SessionVariance = describe(c.Current)
	f.TotalMean, f.TotalStdDev, f.TotalVariance = describe(all)
	return f
}

// Distribution returns the share of each face in the current session, in percent.
func (c *Character) Distribution() map[int]float64 {
	dist := make(map[int]float64, c.Die.Faces)
	for _, face := range c.Die.FaceValues() {
		dist[face] = 0
	}
	if len(c.Current) == 0 {
		return dist
	}
	for _, v := range c.Current {
		dist[v]++
	}
	total := float64(len(c.Current))
	for face, count := range dist {
		dist[face] = count / total * 100
	}
	return dist
}

func describe(rolls []int) (mean, stddev, variance float64) {
	if len(rolls) == 0 {
		return 0, 0, 0
	}
	data := make(stats.Float64Data, len(rolls))
	for i, v := range rolls {
		data[i] = float64(v)
	}
	mean, _ = stats.Mean(data)
	if len(rolls) == 1 {
		return mean, 0, 0
	}
	stddev, _ = stats.StandardDeviationPopulation(data)
	variance, _ = stats.PopulationVariance(data)
	return mean, stddev, variance
}

// WriteFiles writes the summary and history files into dir.
func (c *Character) WriteFiles(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := writeAtomic(filepath.Join(dir, config.SummaryFileName(c.Name)), c.writeSummary); err != nil {
		return fmt.Errorf("failed to write summary of %s: %w", c.Name, err)
	}
	if err := writeAtomic(filepath.Join(dir, config.HistoryFileName(c.Name)), c.writeHistory); err != nil {
		return fmt.Errorf("failed to write history of %s: %w", c.Name, err)
	}
	return nil
}

func (c *Character) writeSummary(w *bufio.Writer) error {
	f := c.Figures()
	dist := c.Distribution()
	lines := []string{
		"Personagem: " + c.Name,
		"",
		"=== ESTATÍSTICAS DA SESSÃO ATUAL ===",
		"Quantidade de rolagens: " + strconv.Itoa(len(c.Current)),
		"Média de rolagem (sessão atual): " + formatNumber(f.SessionMean),
		"Desvio padrão (sessão atual): " + formatNumber(f.SessionStdDev),
		"Variância (sessão atual): " + formatNumber(f.SessionVariance),
		"",
		"=== ESTATÍSTICAS CUMULATIVAS ===",
		"Total de sessões: " + strconv.Itoa(f.TotalSessions),
		"Total de rolagens (todas as sessões): " + strconv.Itoa(f.TotalRolls),
		"Média total (todas as sessões): " + formatNumber(f.TotalMean),
		"Desvio padrão total: " + formatNumber(f.TotalStdDev),
		"Variância total: " + formatNumber(f.TotalVariance),
		"",
		"=== DISTRIBUIÇÃO DE ROLAGENS (SESSÃO ATUAL) ===",
	}
	for _, face := range c.Die.FaceValues() {
		lines = append(lines, fmt.Sprintf("Valor %d: %s%%", face, formatNumber(dist[face])))
	}
	lines = append(lines, "", "=== ROLAGENS INDIVIDUAIS (SESSÃO ATUAL) ===")
	for i, v := range c.Current {
		lines = append(lines, fmt.Sprintf("Rolagem %d: %d", i+1, v))
	}
	return writeLines(w, lines)
}

func (c *Character) writeHistory(w *bufio.Writer) error {
	lines := []string{"Histórico de rolagens para " + c.Name, ""}
	for i, session := range c.History {
		lines = append(lines, fmt.Sprintf("Sessão %d:", i+1))
		for j, v := range session {
			lines = append(lines, fmt.Sprintf("Rolagem %d: %d", j+1, v))
		}
		lines = append(lines, "")
	}
	return writeLines(w, lines)
}

// formatNumber prints like a default C++ stream: six significant digits, no trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func writeLines(w *bufio.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeAtomic(path string, write func(*bufio.Writer) error) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".tracker-*.txt")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := write(writer); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
