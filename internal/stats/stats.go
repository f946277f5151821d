// Package stats derives per-session figures from histories and renders console reports.
package stats

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/verte-zerg/d20stats/internal/model"
)

const sparkChars = " .:-=+*#%@"

// TrendPoint is the mean roll of one session.
type TrendPoint struct {
	Session int
	Mean    float64
}

// SessionMeans returns the mean roll of each session, in history order.
func SessionMeans(history []model.SessionHistoryEntry) []TrendPoint {
	points := make([]TrendPoint, 0, len(history))
	for _, entry := range history {
		mean := 0.0
		if len(entry.Rolls) > 0 {
			mean = stat.Mean(toFloats(entry.Rolls), nil)
		}
		points = append(points, TrendPoint{Session: entry.Session, Mean: mean})
	}
	return points
}

// Heatmap holds per-session face shares. Cells[r][c] is the share of Faces[c] among the rolls
// of Sessions[r], in percent.
type Heatmap struct {
	Sessions []int
	Faces    []int
	Cells    [][]float64
}

// BuildHeatmap counts each session's rolls per face and normalizes every row to 100%. All faces
// of the die are present; faces observed outside the die are kept as extra columns. Columns are
// ascending.
func BuildHeatmap(history []model.SessionHistoryEntry, die model.Die) Heatmap {
	faceSet := make(map[int]struct{}, die.Faces)
	for _, face := range die.FaceValues() {
		faceSet[face] = struct{}{}
	}
	for _, entry := range history {
		for _, v := range entry.Rolls {
			faceSet[v] = struct{}{}
		}
	}
	faces := make([]int, 0, len(faceSet))
	for face := range faceSet {
		faces = append(faces, face)
	}
	sort.Ints(faces)
	column := make(map[int]int, len(faces))
	for i, face := range faces {
		column[face] = i
	}

	hm := Heatmap{Faces: faces}
	for _, entry := range history {
		if len(entry.Rolls) == 0 {
			continue
		}
		row := make([]float64, len(faces))
		for _, v := range entry.Rolls {
			row[column[v]]++
		}
		if total := floats.Sum(row); total > 0 {
			floats.Scale(100/total, row)
		}
		hm.Sessions = append(hm.Sessions, entry.Session)
		hm.Cells = append(hm.Cells, row)
	}
	return hm
}

// Max returns the largest cell value, or 0 for an empty heatmap.
func (h Heatmap) Max() float64 {
	maxVal := 0.0
	for _, row := range h.Cells {
		if len(row) == 0 {
			continue
		}
		if m := floats.Max(row); m > maxVal {
			maxVal = m
		}
	}
	return maxVal
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

func toFloats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
