// Package chart renders roll statistics to PNG images and a multi-page PDF report.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"

	"github.com/verte-zerg/d20stats/internal/model"
)

const (
	wideWidth     = 12 * vg.Inch
	wideHeight    = 6 * vg.Inch
	narrowWidth   = 10 * vg.Inch
	trendWidth    = 14 * vg.Inch
	trendHeight   = 8 * vg.Inch
	heatmapWidth  = 12 * vg.Inch
	heatmapHeight = 8 * vg.Inch

	// headroom keeps reference lines and bar tops off the plot border.
	headroom = 1.1
)

var referenceColor = color.RGBA{R: 220, G: 40, B: 40, A: 255}

// ErrNoHistory is returned when there is no session history to plot.
var ErrNoHistory = errors.New("no history data")

// Renderer writes charts into OutputDir.
type Renderer struct {
	OutputDir  string
	ReportName string
	Die        model.Die
}

type figure struct {
	file   string
	plot   *plot.Plot
	width  vg.Length
	height vg.Length
}

func (r Renderer) ensureOutputDir() error {
	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

func (r Renderer) path(file string) string {
	return filepath.Join(r.OutputDir, file)
}

// savePNG draws one figure to a fresh canvas and writes it out; the canvas is dropped on return.
func (r Renderer) savePNG(fig figure) (string, error) {
	canvas := vgimg.New(fig.width, fig.height)
	fig.plot.Draw(draw.New(canvas))
	path := r.path(fig.file)
	if err := writeFile(path, vgimg.PngCanvas{Canvas: canvas}); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", fig.file, err)
	}
	return path, nil
}

func writeFile(path string, w io.WriterTo) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	_, err = w.WriteTo(file)
	return err
}

// pdfReport accumulates pages of the combined report.
type pdfReport struct {
	canvas *vgpdf.Canvas
	pages  int
}

func newPDFReport() *pdfReport {
	return &pdfReport{canvas: vgpdf.New(wideWidth, wideHeight)}
}

func (d *pdfReport) addPage(p *plot.Plot) {
	if d.pages > 0 {
		d.canvas.NextPage()
	}
	p.Draw(draw.New(d.canvas))
	d.pages++
}

func (d *pdfReport) save(path string) error {
	return writeFile(path, d.canvas)
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p
}

// addReference draws a dashed horizontal line at value and widens the y axis to show it.
func addReference(p *plot.Plot, value float64, label string) {
	line := plotter.NewFunction(func(float64) float64 { return value })
	line.LineStyle.Color = referenceColor
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	p.Add(line)
	p.Legend.Add(label, line)
	if p.Y.Max < value*headroom {
		p.Y.Max = value * headroom
	}
	if p.Y.Min > 0 {
		p.Y.Min = 0
	}
}

func formatRef(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
