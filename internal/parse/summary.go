// Package parse extracts character statistics from the tracker's text files.
package parse

import (
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/verte-zerg/d20stats/internal/model"
)

// UnknownName is used when a summary file has no "Personagem:" line.
const UnknownName = "Desconhecido"

const numberPattern = `([\d.]+)`

type field struct {
	name     string
	pattern  *regexp.Regexp
	required bool
	assign   func(s *model.CharacterSummary, value string) error
}

var summaryFields = []field{
	{
		name:    "nome",
		pattern: regexp.MustCompile(`Personagem: ([\p{L}\p{N}_]+)`),
		assign: func(s *model.CharacterSummary, v string) error {
			s.Name = v
			return nil
		},
	},
	floatField("média da sessão", `Média de rolagem \(sessão atual\): `, func(s *model.CharacterSummary) *float64 { return &s.SessionMean }),
	floatField("desvio padrão da sessão", `Desvio padrão \(sessão atual\): `, func(s *model.CharacterSummary) *float64 { return &s.SessionStdDev }),
	floatField("variância da sessão", `Variância \(sessão atual\): `, func(s *model.CharacterSummary) *float64 { return &s.SessionVariance }),
	intField("total de sessões", `Total de sessões: `, func(s *model.CharacterSummary) *int { return &s.TotalSessions }),
	intField("total de rolagens", `Total de rolagens \(todas as sessões\): `, func(s *model.CharacterSummary) *int { return &s.TotalRolls }),
	floatField("média total", `Média total \(todas as sessões\): `, func(s *model.CharacterSummary) *float64 { return &s.TotalMean }),
	floatField("desvio padrão total", `Desvio padrão total: `, func(s *model.CharacterSummary) *float64 { return &s.TotalStdDev }),
	floatField("variância total", `Variância total: `, func(s *model.CharacterSummary) *float64 { return &s.TotalVariance }),
}

var rollPattern = regexp.MustCompile(`Rolagem \d+: (\d+)`)

func floatField(name, label string, target func(*model.CharacterSummary) *float64) field {
	return field{
		name:     name,
		pattern:  regexp.MustCompile(label + numberPattern),
		required: true,
		assign: func(s *model.CharacterSummary, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return err
			}
			*target(s) = f
			return nil
		},
	}
}

func intField(name, label string, target func(*model.CharacterSummary) *int) field {
	return field{
		name:     name,
		pattern:  regexp.MustCompile(label + `(\d+)`),
		required: true,
		assign: func(s *model.CharacterSummary, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			*target(s) = n
			return nil
		},
	}
}

// MissingFieldError reports a required statistic absent from a summary file.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("campo obrigatório ausente: %s", e.Field)
}

// LoadSummary reads and parses one character's summary file.
func LoadSummary(path string, die model.Die) (model.CharacterSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.CharacterSummary{}, err
	}
	return ParseSummary(string(data), die)
}

// ParseSummary extracts a CharacterSummary from the full text of a summary file. Any missing
// required field fails the whole record; missing faces of the distribution default to zero.
func ParseSummary(content string, die model.Die) (model.CharacterSummary, error) {
	summary := model.CharacterSummary{Name: UnknownName}
	for _, f := range summaryFields {
		m := f.pattern.FindStringSubmatch(content)
		if m == nil {
			if f.required {
				return model.CharacterSummary{}, &MissingFieldError{Field: f.name}
			}
			continue
		}
		if err := f.assign(&summary, m[1]); err != nil {
			return model.CharacterSummary{}, fmt.Errorf("campo %s inválido %q: %w", f.name, m[1], err)
		}
	}

	summary.Distribution = make(map[int]float64, die.Faces)
	for _, face := range die.FaceValues() {
		summary.Distribution[face] = 0
		m := facePattern(face).FindStringSubmatch(content)
		if m == nil {
			continue
		}
		pct, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return model.CharacterSummary{}, fmt.Errorf("valor %d inválido %q: %w", face, m[1], err)
		}
		summary.Distribution[face] = pct
	}

	for _, m := range rollPattern.FindAllStringSubmatch(content, -1) {
		v, err := strconv.Atoi(m[1])
		if err != nil {
			return model.CharacterSummary{}, fmt.Errorf("rolagem inválida %q: %w", m[1], err)
		}
		summary.Rolls = append(summary.Rolls, v)
	}
	return summary, nil
}

func facePattern(face int) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`Valor %d: %s%%`, face, numberPattern))
}
