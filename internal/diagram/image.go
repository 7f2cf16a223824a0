package diagram

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Curve is one response curve of a hysteresis plot.
type Curve struct {
	Label string
	X     []float64
	Y     []float64
}

// HysteresisData holds the curves and labels of a response plot.
type HysteresisData struct {
	Title  string
	XLabel string
	YLabel string
	Curves []Curve
}

var palette = []color.Color{
	color.RGBA{R: 0, G: 0, B: 139, A: 255},
	color.RGBA{R: 178, G: 34, B: 34, A: 255},
	color.RGBA{R: 0, G: 100, B: 0, A: 255},
	color.RGBA{R: 255, G: 140, B: 0, A: 255},
	color.RGBA{R: 106, G: 90, B: 205, A: 255},
}

// ExportHysteresis draws every curve of data as a line and saves the plot.
// The extension picks the format (.png, .svg, .pdf); any other extension
// gets ".png" appended. It returns the file written.
func ExportHysteresis(data HysteresisData, filename string) (string, error) {
	p := plot.New()
	p.Title.Text = data.Title
	p.X.Label.Text = data.XLabel
	p.Y.Label.Text = data.YLabel
	p.Add(plotter.NewGrid())
	if len(data.Curves) > 1 {
		p.Legend.Top = true
		p.Legend.Left = true
	}

	for i, c := range data.Curves {
		if len(c.X) != len(c.Y) {
			return "", fmt.Errorf("curve %q: %d x values, %d y values", c.Label, len(c.X), len(c.Y))
		}
		if len(c.X) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(c.X))
		for j := range c.X {
			pts[j] = plotter.XY{X: c.X[j], Y: c.Y[j]}
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return "", err
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = palette[i%len(palette)]
		p.Add(line)
		if len(data.Curves) > 1 && c.Label != "" {
			p.Legend.Add(c.Label, line)
		}

		// Mark where the history starts.
		start, err := plotter.NewScatter(pts[:1])
		if err != nil {
			return "", err
		}
		start.GlyphStyle.Color = palette[i%len(palette)]
		start.GlyphStyle.Radius = vg.Points(3)
		start.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(start)
	}

	return save(p, 8*vg.Inch, 6*vg.Inch, filename)
}

// ExportPath plots values against their step number.
func ExportPath(values []float64, title, filename string) (string, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Step"
	p.Y.Label.Text = "Value"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i] = plotter.XY{X: float64(i), Y: v}
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return "", err
	}
	line.LineStyle.Width = vg.Points(1)
	line.LineStyle.Color = palette[0]
	points.GlyphStyle.Color = palette[1]
	points.GlyphStyle.Radius = vg.Points(2)
	p.Add(line, points)

	return save(p, 8*vg.Inch, 4*vg.Inch, filename)
}

func save(p *plot.Plot, width, height vg.Length, filename string) (string, error) {
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create plot directory: %w", err)
		}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".svg", ".pdf":
	default:
		filename += ".png"
	}
	if err := p.Save(width, height, filename); err != nil {
		return "", err
	}
	return filename, nil
}
