package parse

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/verte-zerg/d20stats/internal/model"
)

// maxLineSize bounds a single history line. Real lines are a few bytes; the cap only guards
// against reading an unrelated huge file into memory.
const maxLineSize = 64 << 20

// LoadHistory reads and parses one character's history file.
func LoadHistory(path string, markers model.HistoryMarkers) ([]model.SessionHistoryEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseHistory(file, markers)
}

// ParseHistory splits a history file into sessions. A session marker line closes the session in
// progress; roll lines append the value after the last separator. Sessions without rolls are
// dropped and do not consume an index. A malformed roll fails the whole history.
func ParseHistory(r io.Reader, markers model.HistoryMarkers) ([]model.SessionHistoryEntry, error) {
	var (
		history []model.SessionHistoryEntry
		current []int
		index   int
		lineNo  int
	)
	flush := func() {
		if len(current) == 0 {
			return
		}
		history = append(history, model.SessionHistoryEntry{Session: index, Rolls: current})
		index++
		current = nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		switch {
		case isSessionLine(line, markers):
			flush()
		case isRollLine(line, markers):
			token := line[strings.LastIndex(line, markers.Separator)+len(markers.Separator):]
			value, err := strconv.Atoi(strings.TrimSpace(token))
			if err != nil {
				return nil, fmt.Errorf("linha %d: rolagem inválida %q: %w", lineNo, strings.TrimSpace(token), err)
			}
			current = append(current, value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return history, nil
}

func isSessionLine(line string, markers model.HistoryMarkers) bool {
	if markers.Strict {
		return strings.HasPrefix(strings.TrimSpace(line), markers.Session)
	}
	return strings.Contains(line, markers.Session)
}

func isRollLine(line string, markers model.HistoryMarkers) bool {
	if !strings.Contains(line, markers.Separator) {
		return false
	}
	if markers.Strict {
		return strings.HasPrefix(strings.TrimSpace(line), markers.Roll)
	}
	return strings.Contains(line, markers.Roll)
}
