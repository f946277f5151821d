package chart

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/verte-zerg/d20stats/internal/model"
)

const (
	MeansFile   = "comparacao_medias.png"
	BoxPlotFile = "boxplot_rolagens.png"
	StdDevsFile = "comparacao_desvios.png"
	TrendFile   = "tendencia_medias.png"
	distPrefix  = "distribuicao_"
	heatPrefix  = "heatmap_"
)

var (
	sessionMeanColor   = color.RGBA{R: 135, G: 206, B: 235, A: 255}
	totalMeanColor     = color.RGBA{R: 0, G: 0, B: 128, A: 255}
	sessionStdDevColor = color.RGBA{R: 144, G: 238, B: 144, A: 255}
	totalStdDevColor   = color.RGBA{R: 0, G: 100, B: 0, A: 255}
)

// DistributionFile is the per-character distribution chart name.
func DistributionFile(name string) string {
	return distPrefix + name + ".png"
}

// HeatmapFile is the per-character heatmap chart name.
func HeatmapFile(name string) string {
	return heatPrefix + name + ".png"
}

// SummaryResult lists what RenderSummaries wrote.
type SummaryResult struct {
	Images []string
	Report string
}

// RenderSummaries writes the mean comparison, one distribution per character, the box plot, and
// the stddev comparison, each as a PNG and as a page of the combined PDF report. A chart that
// fails is reported in the returned error; the others are still written.
func (r Renderer) RenderSummaries(summaries []model.CharacterSummary) (SummaryResult, error) {
	if err := r.ensureOutputDir(); err != nil {
		return SummaryResult{}, err
	}

	var (
		result SummaryResult
		errs   []error
	)
	report := newPDFReport()
	emit := func(fig figure, err error) {
		if err != nil {
			errs = append(errs, err)
			return
		}
		path, err := r.savePNG(fig)
		if err != nil {
			errs = append(errs, err)
			return
		}
		result.Images = append(result.Images, path)
		report.addPage(fig.plot)
	}

	emit(r.meansFigure(summaries))
	for i, s := range summaries {
		emit(r.distributionFigure(s, plotutil.Color(i)))
	}
	emit(r.boxPlotFigure(summaries))
	emit(r.stdDevsFigure(summaries))

	if report.pages > 0 {
		path := r.path(r.ReportName)
		if err := report.save(path); err != nil {
			errs = append(errs, fmt.Errorf("failed to write %s: %w", r.ReportName, err))
		} else {
			result.Report = path
		}
	}
	return result, errors.Join(errs...)
}

func names(summaries []model.CharacterSummary) []string {
	out := make([]string, len(summaries))
	for i, s := range summaries {
		out[i] = s.Name
	}
	return out
}

func (r Renderer) meansFigure(summaries []model.CharacterSummary) (figure, error) {
	p := newPlot("Comparação de Médias de Rolagem por Personagem", "Personagem", "Média de Rolagem")
	session := make(plotter.Values, len(summaries))
	total := make(plotter.Values, len(summaries))
	for i, s := range summaries {
		session[i] = s.SessionMean
		total[i] = s.TotalMean
	}
	if err := addGroupedBars(p, session, total, "Média da Sessão Atual", "Média Total", sessionMeanColor, totalMeanColor); err != nil {
		return figure{}, fmt.Errorf("comparação de médias: %w", err)
	}
	p.NominalX(names(summaries)...)
	ideal := r.Die.IdealMean()
	addReference(p, ideal, fmt.Sprintf("Média Ideal (%s)", formatRef(ideal)))
	return figure{file: MeansFile, plot: p, width: wideWidth, height: wideHeight}, nil
}

func (r Renderer) stdDevsFigure(summaries []model.CharacterSummary) (figure, error) {
	p := newPlot("Comparação de Desvio Padrão por Personagem", "Personagem", "Desvio Padrão")
	session := make(plotter.Values, len(summaries))
	total := make(plotter.Values, len(summaries))
	for i, s := range summaries {
		session[i] = s.SessionStdDev
		total[i] = s.TotalStdDev
	}
	if err := addGroupedBars(p, session, total, "Desvio Padrão (Sessão Atual)", "Desvio Padrão (Total)", sessionStdDevColor, totalStdDevColor); err != nil {
		return figure{}, fmt.Errorf("comparação de desvios: %w", err)
	}
	p.NominalX(names(summaries)...)
	ideal := r.Die.IdealStdDev()
	addReference(p, ideal, fmt.Sprintf("Desvio Padrão Ideal (%s)", formatRef(ideal)))
	return figure{file: StdDevsFile, plot: p, width: wideWidth, height: wideHeight}, nil
}

func addGroupedBars(p *plot.Plot, left, right plotter.Values, leftLabel, rightLabel string, leftColor, rightColor color.Color) error {
	width := vg.Points(28)
	leftBars, err := plotter.NewBarChart(left, width)
	if err != nil {
		return err
	}
	leftBars.Color = leftColor
	leftBars.LineStyle.Width = 0
	leftBars.Offset = -width / 2

	rightBars, err := plotter.NewBarChart(right, width)
	if err != nil {
		return err
	}
	rightBars.Color = rightColor
	rightBars.LineStyle.Width = 0
	rightBars.Offset = width / 2

	p.Add(leftBars, rightBars)
	p.Legend.Add(leftLabel, leftBars)
	p.Legend.Add(rightLabel, rightBars)
	return nil
}

func (r Renderer) distributionFigure(s model.CharacterSummary, barColor color.Color) (figure, error) {
	p := newPlot(fmt.Sprintf("Distribuição de Rolagens - %s", s.Name), "Valor da Rolagem", "Frequência (%)")
	faces := r.Die.FaceValues()
	values := make(plotter.Values, len(faces))
	labels := make([]string, len(faces))
	for i, face := range faces {
		values[i] = s.Distribution[face]
		labels[i] = fmt.Sprintf("%d", face)
	}
	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return figure{}, fmt.Errorf("distribuição de %s: %w", s.Name, err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(labels...)
	ideal := r.Die.UniformPct()
	addReference(p, ideal, fmt.Sprintf("Distribuição Ideal (%s%%)", formatRef(ideal)))
	return figure{file: DistributionFile(s.Name), plot: p, width: narrowWidth, height: wideHeight}, nil
}

func (r Renderer) boxPlotFigure(summaries []model.CharacterSummary) (figure, error) {
	p := newPlot("Comparação da Distribuição de Rolagens (Sessão Atual)", "", "Valor da Rolagem")
	for i, s := range summaries {
		if len(s.Rolls) == 0 {
			continue
		}
		values := make(plotter.Values, len(s.Rolls))
		for j, v := range s.Rolls {
			values[j] = float64(v)
		}
		box, err := plotter.NewBoxPlot(vg.Points(30), float64(i), values)
		if err != nil {
			return figure{}, fmt.Errorf("boxplot de %s: %w", s.Name, err)
		}
		box.FillColor = plotutil.Color(i)
		p.Add(box)
	}
	p.NominalX(names(summaries)...)
	ideal := r.Die.IdealMean()
	addReference(p, ideal, fmt.Sprintf("Média Ideal (%s)", formatRef(ideal)))
	return figure{file: BoxPlotFile, plot: p, width: wideWidth, height: wideHeight}, nil
}
