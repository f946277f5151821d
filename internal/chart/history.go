package chart

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/verte-zerg/d20stats/internal/model"
	"github.com/verte-zerg/d20stats/internal/stats"
)

// trendMarkers are assigned to characters in roster order and reused past the seventh.
var trendMarkers = []draw.GlyphDrawer{
	draw.CircleGlyph{},
	draw.BoxGlyph{},
	draw.TriangleGlyph{},
	draw.PyramidGlyph{},
	draw.RingGlyph{},
	draw.SquareGlyph{},
	draw.CrossGlyph{},
}

// MarkerFor returns the trend marker of the i-th plotted character.
func MarkerFor(i int) draw.GlyphDrawer {
	return trendMarkers[i%len(trendMarkers)]
}

// RenderHistories writes the per-session mean trend of every character and one heatmap per
// character. Histories without sessions are ignored; ErrNoHistory is returned when none remain.
func (r Renderer) RenderHistories(histories []model.CharacterHistory) ([]string, error) {
	withData := make([]model.CharacterHistory, 0, len(histories))
	for _, h := range histories {
		if len(h.Sessions) > 0 {
			withData = append(withData, h)
		}
	}
	if len(withData) == 0 {
		return nil, ErrNoHistory
	}
	if err := r.ensureOutputDir(); err != nil {
		return nil, err
	}

	var (
		images []string
		errs   []error
	)
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
		images = append(images, path)
	}

	emit(r.trendFigure(withData))
	for _, h := range withData {
		emit(r.heatmapFigure(h))
	}
	return images, errors.Join(errs...)
}

func (r Renderer) trendFigure(histories []model.CharacterHistory) (figure, error) {
	p := newPlot("Tendência de Médias por Sessão", "Número da Sessão", "Média de Rolagem")
	for i, h := range histories {
		points := stats.SessionMeans(h.Sessions)
		xys := make(plotter.XYs, len(points))
		for j, pt := range points {
			xys[j].X = float64(pt.Session)
			xys[j].Y = pt.Mean
		}
		line, scatter, err := plotter.NewLinePoints(xys)
		if err != nil {
			return figure{}, fmt.Errorf("tendência de %s: %w", h.Name, err)
		}
		c := plotutil.Color(i)
		line.LineStyle.Color = c
		line.LineStyle.Width = vg.Points(1.5)
		scatter.GlyphStyle.Color = c
		scatter.GlyphStyle.Shape = MarkerFor(i)
		scatter.GlyphStyle.Radius = vg.Points(4)
		p.Add(line, scatter)
		p.Legend.Add(h.Name, line, scatter)
	}
	ideal := r.Die.IdealMean()
	addReference(p, ideal, fmt.Sprintf("Média Ideal (%s)", formatRef(ideal)))
	return figure{file: TrendFile, plot: p, width: trendWidth, height: trendHeight}, nil
}

// heatGrid adapts a stats.Heatmap to plotter.GridXYZ. Columns and rows are placed at their index;
// tick labels carry the face and session numbers.
type heatGrid struct {
	hm stats.Heatmap
}

func (g heatGrid) Dims() (c, r int)   { return len(g.hm.Faces), len(g.hm.Sessions) }
func (g heatGrid) Z(c, r int) float64 { return g.hm.Cells[r][c] }
func (g heatGrid) X(c int) float64    { return float64(c) }
func (g heatGrid) Y(r int) float64    { return float64(r) }

func (r Renderer) heatmapFigure(h model.CharacterHistory) (figure, error) {
	hm := stats.BuildHeatmap(h.Sessions, r.Die)
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Distribuição de Rolagens por Sessão - %s (Frequência %%)", h.Name)
	p.X.Label.Text = "Valor Rolado"
	p.Y.Label.Text = "Número da Sessão"

	pal, err := heatPalette()
	if err != nil {
		return figure{}, err
	}
	heat := plotter.NewHeatMap(heatGrid{hm: hm}, pal)
	heat.Min = 0
	heat.Max = hm.Max()
	if heat.Max <= heat.Min {
		heat.Max = 100
	}
	p.Add(heat)

	cells := plotter.XYLabels{}
	for row := range hm.Sessions {
		for col := range hm.Faces {
			cells.XYs = append(cells.XYs, plotter.XY{X: float64(col), Y: float64(row)})
			cells.Labels = append(cells.Labels, fmt.Sprintf("%.1f", hm.Cells[row][col]))
		}
	}
	labels, err := plotter.NewLabels(cells)
	if err != nil {
		return figure{}, fmt.Errorf("heatmap de %s: %w", h.Name, err)
	}
	for i, v := range flatten(hm.Cells) {
		style := &labels.TextStyle[i]
		style.XAlign = draw.XCenter
		style.YAlign = draw.YCenter
		style.Font.Size = vg.Points(7)
		style.Color = labelColor(v, heat.Max)
	}
	p.Add(labels)

	p.X.Tick.Marker = indexTicks(hm.Faces)
	p.Y.Tick.Marker = indexTicks(hm.Sessions)
	return figure{file: HeatmapFile(h.Name), plot: p, width: heatmapWidth, height: heatmapHeight}, nil
}

func heatPalette() (palette.Palette, error) {
	pal, err := brewer.GetPalette(brewer.TypeSequential, "YlGnBu", 9)
	if err != nil {
		return nil, fmt.Errorf("heatmap palette: %w", err)
	}
	return pal, nil
}

// labelColor keeps annotations readable on the dark end of the palette.
func labelColor(v, maxVal float64) color.Color {
	if maxVal > 0 && v/maxVal > 0.6 {
		return color.White
	}
	return color.Black
}

func indexTicks(values []int) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, len(values))
	for i, v := range values {
		ticks[i] = plot.Tick{Value: float64(i), Label: fmt.Sprintf("%d", v)}
	}
	return ticks
}

func flatten(rows [][]float64) []float64 {
	var out []float64
	for _, row := range rows {
		out = append(out, row...)
	}
	return out
}
