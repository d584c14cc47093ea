package viz

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/dampsim/internal/dynamo"
	"github.com/san-kum/dampsim/internal/experiment"
)

const (
	DefaultChartWidth  = 72
	DefaultChartHeight = 14
)

// TerminalRenderer draws a report as text charts and tables.
type TerminalRenderer struct {
	Out    io.Writer
	Width  int
	Height int
}

func NewTerminalRenderer(out io.Writer, width, height int) *TerminalRenderer {
	if width <= 0 {
		width = DefaultChartWidth
	}
	if height <= 0 {
		height = DefaultChartHeight
	}
	return &TerminalRenderer{Out: out, Width: width, Height: height}
}

func (r *TerminalRenderer) Render(rep *experiment.Report) error {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%s · %s drive", rep.Title, rep.Drive)))
	b.WriteString("\n\n")

	for _, m := range experiment.Methods {
		if chart := r.chart(rep, m); chart != "" {
			b.WriteString(chart)
			b.WriteString("\n\n")
		}
	}

	b.WriteString(TitleStyle.Render("Regimes"))
	b.WriteString("\n")
	writeSummaries(&b, rep)
	b.WriteString("\n")

	b.WriteString(TitleStyle.Render("Method agreement"))
	b.WriteString("\n")
	writeAgreements(&b, rep)

	if hasFrequencyChecks(rep) {
		b.WriteString("\n")
		b.WriteString(TitleStyle.Render("Sinusoidal steady state"))
		b.WriteString("\n")
		writeFrequencyChecks(&b, rep)
	}
	b.WriteString(Separator(r.Width))
	b.WriteString("\n")

	if _, err := io.WriteString(r.Out, b.String()); err != nil {
		return &dynamo.RenderError{Target: "terminal", Wrapped: err}
	}
	return nil
}

func (r *TerminalRenderer) chart(rep *experiment.Report, m experiment.Method) string {
	series := rep.Series(m)
	if len(series) == 0 {
		return ""
	}

	data := make([][]float64, len(series))
	legends := make([]string, len(series))
	colors := make([]asciigraph.AnsiColor, len(series))
	for i, s := range series {
		data[i] = s.Values
		legends[i] = s.Variant
		colors[i] = seriesColor(i)
	}

	return asciigraph.PlotMany(data,
		asciigraph.Width(r.Width),
		asciigraph.Height(r.Height),
		asciigraph.Precision(3),
		asciigraph.Caption(rep.FigureTitle(m)),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
	)
}

func writeSummaries(w io.Writer, rep *experiment.Report) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "variant\tregime\tcoef\tzeta\twn\tovershoot%\tpeak\tsettle(s)\tfinal\tringing(Hz)\t")
	for _, s := range rep.Summaries {
		regime := s.Regime.String()
		if !s.LabelMatches {
			regime += "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%.4g\t%.4f\t%.4f\t%s\t%.4g\t%s\t%.4g\t%s\t\n",
			s.Variant, regime, s.Coefficient, s.Zeta, s.OmegaN,
			formatValue(s.Overshoot, "%.2f"), s.Peak,
			formatValue(s.SettlingTime, "%.3f"), s.FinalValue,
			formatValue(s.RingingHz, "%.3f"))
	}
	tw.Flush()

	for _, s := range rep.Summaries {
		if !s.LabelMatches {
			fmt.Fprintln(w, StatusWarn.Render("* label does not match the regime of its coefficient"))
			break
		}
	}
}

func writeAgreements(w io.Writer, rep *experiment.Report) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "variant\tmethods\tmax abs\tmax rel\ttolerance\tstatus\t")
	for _, a := range rep.Agreements {
		fmt.Fprintf(tw, "%s\t%s vs %s\t%.3e\t%.3e\t%.0e\t%s\t\n",
			a.Variant, a.A.Label(), a.B.Label(), a.MaxAbs, a.MaxRel, a.Tolerance, status(a.Passed()))
	}
	tw.Flush()
}

func hasFrequencyChecks(rep *experiment.Report) bool {
	for _, s := range rep.Summaries {
		if s.Frequency != nil {
			return true
		}
	}
	return false
}

func writeFrequencyChecks(w io.Writer, rep *experiment.Report) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "variant\tdrive(Hz)\texpected\ttime-domain\tstate-space\t")
	for _, s := range rep.Summaries {
		f := s.Frequency
		if f == nil {
			continue
		}
		fmt.Fprintf(tw, "%s\t%.3g\t%.4g\t%.4g\t%.4g\t\n",
			s.Variant, f.DriveHz, f.Expected, f.TimeDomain, f.StateSpace)
	}
	tw.Flush()
}

func formatValue(v float64, format string) string {
	switch {
	case math.IsNaN(v):
		return "-"
	case math.IsInf(v, 1):
		return "inf"
	}
	return fmt.Sprintf(format, v)
}
