// Package model defines shared data structures.
package model

import "time"

// AnalysisConfig defines where data is read from and where charts are written.
type AnalysisConfig struct {
	DataDir    string
	BackupDir  string
	OutputDir  string
	ReportName string
	Roster     []string
	Die        Die
	Markers    HistoryMarkers
	Archive    bool
	Workbook   bool
}

// HistoryMarkers controls how history file lines are classified.
type HistoryMarkers struct {
	Session   string
	Roll      string
	Separator string
	Strict    bool
}

// CharacterSummary holds the figures read from one character's summary file.
type CharacterSummary struct {
	Name            string
	SessionMean     float64
	SessionStdDev   float64
	SessionVariance float64
	TotalSessions   int
	TotalRolls      int
	TotalMean       float64
	TotalStdDev     float64
	TotalVariance   float64
	// Distribution maps every die face to its share of the current session, in percent.
	Distribution map[int]float64
	Rolls        []int
}

// SessionHistoryEntry is one recorded session of a history file.
type SessionHistoryEntry struct {
	Session int
	Rolls   []int
}

// CharacterHistory is the full session history of one character.
type CharacterHistory struct {
	Name     string
	Sessions []SessionHistoryEntry
}

// Run describes one archived analysis run.
type Run struct {
	StartedAt time.Time
	DataDir   string
	OutputDir string
}

// RunAggregate summarizes an archived run for listing.
type RunAggregate struct {
	RunID      int64
	StartedAt  time.Time
	DataDir    string
	OutputDir  string
	Characters int
	MeanOfMean float64
}
