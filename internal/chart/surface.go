package chart

import (
	"image/color"
	"os"
	"path/filepath"

	"codeberg.org/mutker/faultplot/internal/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	defaultDirPerm = 0o755

	// pointRadius gives a marker of roughly 3pt² area.
	pointRadius = vg.Length(1)

	// barFill is the fraction of the figure width covered by bars.
	barFill = 0.6
)

// series colors for the first two series, then the plotutil palette
var palette = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
}

var barColor = color.RGBA{R: 0xff, A: 0xff}

// Options controls the size and resolution of written images.
type Options struct {
	DPI    int
	Width  vg.Length
	Height vg.Length
}

// Surface is the rendering target of one chart. It is not safe for
// concurrent use. Close must be called when the chart is done; it is safe
// to call more than once.
type Surface struct {
	opts   Options
	plot   *plot.Plot
	series int
	points int
}

// NewSurface returns an empty surface.
func NewSurface(opts Options) *Surface {
	s := &Surface{opts: opts}
	s.Reset()
	return s
}

// Reset discards everything drawn so far.
func (s *Surface) Reset() {
	p := plot.New()
	p.Y.Tick.Marker = commaTicks{}
	s.plot = p
	s.series = 0
	s.points = 0
}

// Close releases the plot. Further drawing fails until Reset is called.
func (s *Surface) Close() {
	s.plot = nil
	s.series = 0
	s.points = 0
}

// Series returns the number of data series added since the last reset.
func (s *Surface) Series() int {
	return s.series
}

// Points returns the number of data points added since the last reset.
func (s *Surface) Points() int {
	return s.points
}

// Labels sets the title and axis labels.
func (s *Surface) Labels(title, x, y string) error {
	if err := s.check(); err != nil {
		return err
	}
	s.plot.Title.Text = title
	s.plot.X.Label.Text = x
	s.plot.Y.Label.Text = y
	return nil
}

// Scatter adds one scatter series. A non-empty label adds a legend entry.
func (s *Surface) Scatter(label string, xs, ys []int64) error {
	errFactory := errors.New()

	if err := s.check(); err != nil {
		return err
	}
	if len(xs) != len(ys) {
		return errFactory.WithData(errors.ErrLengthMismatch, struct {
			X int
			Y int
		}{
			X: len(xs),
			Y: len(ys),
		})
	}
	if len(xs) == 0 {
		return errFactory.New(errors.ErrEmptyInput)
	}

	pts := make(plotter.XYs, len(xs))
	for i := range pts {
		pts[i].X = float64(xs[i])
		pts[i].Y = float64(ys[i])
	}

	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return errFactory.Wrap(errors.ErrRender, err)
	}
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	sc.GlyphStyle.Radius = pointRadius
	sc.GlyphStyle.Color = seriesColor(s.series)

	s.plot.Add(sc)
	if label != "" {
		s.plot.Legend.Add(label, sc)
		s.plot.Legend.Top = true
		s.plot.Legend.Left = true
	}

	s.series++
	s.points += len(pts)
	return nil
}

// Bars adds a bar chart with one bar per value at x = 1..len(values),
// each tick labeled with the matching entry of labels.
func (s *Surface) Bars(values []float64, labels []string) error {
	errFactory := errors.New()

	if err := s.check(); err != nil {
		return err
	}
	if len(values) != len(labels) {
		return errFactory.WithData(errors.ErrLengthMismatch, struct {
			Values int
			Labels int
		}{
			Values: len(values),
			Labels: len(labels),
		})
	}
	if len(values) == 0 {
		return errFactory.New(errors.ErrEmptyInput)
	}

	width := s.opts.Width * barFill / vg.Length(len(values))
	bars, err := plotter.NewBarChart(plotter.Values(values), width)
	if err != nil {
		return errFactory.Wrap(errors.ErrRender, err)
	}
	bars.XMin = 1
	bars.Color = barColor
	bars.LineStyle.Width = 0

	ticks := make([]plot.Tick, len(labels))
	for i, l := range labels {
		ticks[i] = plot.Tick{Value: float64(i + 1), Label: l}
	}

	s.plot.Add(bars)
	s.plot.X.Tick.Marker = plot.ConstantTicks(ticks)
	s.plot.X.Min = 0.5
	s.plot.X.Max = float64(len(values)) + 0.5
	s.plot.Y.Min = 0

	s.series++
	s.points += len(values)
	return nil
}

// Save renders the surface as a PNG at the configured DPI, creating
// parent directories as needed.
func (s *Surface) Save(path string) error {
	errFactory := errors.New()

	if err := s.check(); err != nil {
		return err
	}

	c := vgimg.NewWith(
		vgimg.UseWH(s.opts.Width, s.opts.Height),
		vgimg.UseDPI(s.opts.DPI),
	)
	s.plot.Draw(draw.New(c))

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
			return errFactory.Wrap(errors.ErrWriteOutput, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errFactory.Wrap(errors.ErrWriteOutput, err)
	}

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		f.Close()
		return errFactory.Wrap(errors.ErrWriteOutput, err)
	}

	if err := f.Close(); err != nil {
		return errFactory.Wrap(errors.ErrWriteOutput, err)
	}

	return nil
}

func (s *Surface) check() error {
	if s.plot == nil {
		return errors.New().WithMessage(errors.ErrRender, "surface is closed")
	}
	return nil
}

func seriesColor(i int) color.Color {
	if i < len(palette) {
		return palette[i]
	}
	return plotutil.Color(i)
}
