package viz

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/dampsim/internal/dynamo"
	"github.com/san-kum/dampsim/internal/experiment"
)

const (
	DefaultFigureWidth  = 10 * vg.Inch
	DefaultFigureHeight = 5 * vg.Inch
	DefaultDPI          = 100
)

// regimeDashes cycles through dashed, dash-dot and dotted strokes.
var regimeDashes = [][]vg.Length{
	{vg.Points(6), vg.Points(3)},
	{vg.Points(6), vg.Points(3), vg.Points(1), vg.Points(3)},
	{vg.Points(1), vg.Points(3)},
}

// PNGRenderer writes one figure per method to Dir as
// <system>_<method>.png.
type PNGRenderer struct {
	Dir    string
	Width  vg.Length
	Height vg.Length
	DPI    int
}

func NewPNGRenderer(dir string) *PNGRenderer {
	return &PNGRenderer{
		Dir:    dir,
		Width:  DefaultFigureWidth,
		Height: DefaultFigureHeight,
		DPI:    DefaultDPI,
	}
}

// FigurePath is where the figure for method m of rep is written.
func (r *PNGRenderer) FigurePath(rep *experiment.Report, m experiment.Method) string {
	return filepath.Join(r.Dir, fmt.Sprintf("%s_%s.png", rep.System, m))
}

func (r *PNGRenderer) Render(rep *experiment.Report) error {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return &dynamo.RenderError{Target: r.Dir, Wrapped: err}
	}
	for _, m := range experiment.Methods {
		path := r.FigurePath(rep, m)
		p, err := Figure(rep, m)
		if err != nil {
			return &dynamo.RenderError{Target: path, Wrapped: err}
		}
		if err := r.save(p, path); err != nil {
			return &dynamo.RenderError{Target: path, Wrapped: err}
		}
	}
	return nil
}

// Figure builds the plot for one method with every regime overlaid.
func Figure(rep *experiment.Report, m experiment.Method) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = rep.FigureTitle(m)
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = rep.OutputLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, resp := range rep.Series(m) {
		if len(resp.Values) != len(rep.Times) {
			return nil, fmt.Errorf("%w: %s has %d samples for %d times",
				dynamo.ErrDimensionMismatch, resp.Variant, len(resp.Values), len(rep.Times))
		}
		pts := make(plotter.XYs, len(rep.Times))
		for k, t := range rep.Times {
			pts[k].X = t
			pts[k].Y = resp.Values[k]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", resp.Variant, err)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = plotutil.Color(i)
		line.LineStyle.Dashes = regimeDashes[i%len(regimeDashes)]
		p.Add(line)
		p.Legend.Add(resp.Variant, line)
	}
	return p, nil
}

func (r *PNGRenderer) save(p *plot.Plot, path string) error {
	c := vgimg.NewWith(
		vgimg.UseWH(r.Width, r.Height),
		vgimg.UseDPI(r.DPI),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return f.Close()
}
