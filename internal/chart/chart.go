// Package chart renders accumulated page-fault scatter plots and CPU-use
// bar charts from profile files.
package chart

import (
	"path/filepath"
	"strconv"
	"time"

	"codeberg.org/mutker/faultplot/internal/config"
	"codeberg.org/mutker/faultplot/internal/errors"
	"codeberg.org/mutker/faultplot/internal/logger"
	"codeberg.org/mutker/faultplot/internal/profile"
	"codeberg.org/mutker/faultplot/internal/series"
	"github.com/dustin/go-humanize"
	"gonum.org/v1/plot/vg"
)

const (
	timeAxisLabel  = "Time (in jiffies since the start of the work processes)"
	faultAxisLabel = "Accumulated Page Faults"
	countAxisLabel = "Number of Work Processes"
	cpuAxisLabel   = "Total CPU Use"
	cpuTitle       = "Total CPU Use By Number of Processes"
)

type Kind string

const (
	KindRun       Kind = "run"
	KindCombined  Kind = "combined"
	KindCPU       Kind = "cpu"
	KindCPUScaled Kind = "cpu_scaled"
)

// Input summarizes one profile file a chart was built from.
type Input struct {
	Path        string
	Samples     int
	TotalFaults int64
	CPUTotal    int64
}

// Artifact describes a written chart.
type Artifact struct {
	Path    string
	Kind    Kind
	Title   string
	Series  int
	Points  int
	Inputs  []Input
	Elapsed time.Duration
}

// Builder renders the configured charts. Every call draws on its own
// Surface, so charts never share series.
type Builder struct {
	opts    Options
	resolve func(string) string
	log     logger.Logger
}

// NewBuilder returns a Builder writing images sized and placed per cfg.
func NewBuilder(cfg *config.Config, log logger.Logger) *Builder {
	return &Builder{
		opts: Options{
			DPI:    cfg.DPI,
			Width:  vg.Length(cfg.Width) * vg.Inch,
			Height: vg.Length(cfg.Height) * vg.Inch,
		},
		resolve: cfg.Resolve,
		log:     log,
	}
}

// Run renders the accumulated-fault scatter plot of a single profile.
func (b *Builder) Run(job config.RunJob) (*Artifact, error) {
	start := time.Now()

	surface := NewSurface(b.opts)
	defer surface.Close()

	title := faultTitle(job.Workers)
	if err := surface.Labels(title, timeAxisLabel, faultAxisLabel); err != nil {
		return nil, err
	}

	input, err := b.plotFaults(surface, "", job.Path)
	if err != nil {
		return nil, err
	}

	out := job.Output
	if out == "" {
		out = DefaultRunOutput(job.Workers)
	}

	return b.save(surface, start, &Artifact{
		Path:   b.resolve(out),
		Kind:   KindRun,
		Title:  title,
		Inputs: []Input{input},
	})
}

// Combined overlays the accumulated-fault curves of several profiles on
// one chart, one labeled series per profile.
func (b *Builder) Combined(job config.CombinedJob) (*Artifact, error) {
	errFactory := errors.New()
	start := time.Now()

	if len(job.Paths) != len(job.Workers) {
		return nil, errFactory.WithData(errors.ErrLengthMismatch, struct {
			Paths   int
			Workers int
		}{
			Paths:   len(job.Paths),
			Workers: len(job.Workers),
		})
	}
	if len(job.Paths) == 0 {
		return nil, errFactory.New(errors.ErrEmptyInput)
	}

	surface := NewSurface(b.opts)
	defer surface.Close()

	var all []int
	for _, w := range job.Workers {
		all = append(all, w...)
	}
	title := faultTitle(all)
	if err := surface.Labels(title, timeAxisLabel, faultAxisLabel); err != nil {
		return nil, err
	}

	inputs := make([]Input, 0, len(job.Paths))
	for i, path := range job.Paths {
		input, err := b.plotFaults(surface, legendLabel(job.Workers[i]), path)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input)
	}

	out := job.Output
	if out == "" {
		out = filepath.Join("extra", DefaultRunOutput(all))
	}

	return b.save(surface, start, &Artifact{
		Path:   b.resolve(out),
		Kind:   KindCombined,
		Title:  title,
		Inputs: inputs,
	})
}

// CPU renders total CPU use per process count, divided by the count when
// scale is set.
func (b *Builder) CPU(job config.CPUJob, scale bool) (*Artifact, error) {
	start := time.Now()

	sums := make([]int64, len(job.Counts))
	inputs := make([]Input, len(job.Counts))
	for i, n := range job.Counts {
		path := job.PathFor(n)
		s, err := profile.ReadFile(path)
		if err != nil {
			return nil, err
		}
		sums[i] = series.Sum(s.CPUUse)
		inputs[i] = Input{
			Path:        path,
			Samples:     s.Len(),
			TotalFaults: series.Sum(s.Minor) + series.Sum(s.Major),
			CPUTotal:    sums[i],
		}

		b.log.Debug().
			Str("path", path).
			Int("processes", n).
			Str("cpu_total", humanize.Comma(sums[i])).
			Msg("Read CPU profile")
	}

	values, err := CPUTotals(job.Counts, sums, scale)
	if err != nil {
		return nil, err
	}

	surface := NewSurface(b.opts)
	defer surface.Close()

	if err := surface.Labels(cpuTitle, countAxisLabel, cpuAxisLabel); err != nil {
		return nil, err
	}
	if err := surface.Bars(values, itoa(job.Counts)); err != nil {
		return nil, err
	}

	kind := KindCPU
	if scale {
		kind = KindCPUScaled
	}

	return b.save(surface, start, &Artifact{
		Path:   b.resolve(job.OutputFor(scale)),
		Kind:   kind,
		Title:  cpuTitle,
		Inputs: inputs,
	})
}

// CPUTotals returns one bar height per process count: the CPU-use sum,
// divided by the count when scale is set.
func CPUTotals(counts []int, sums []int64, scale bool) ([]float64, error) {
	errFactory := errors.New()

	if len(counts) != len(sums) {
		return nil, errFactory.WithData(errors.ErrLengthMismatch, struct {
			Counts int
			Sums   int
		}{
			Counts: len(counts),
			Sums:   len(sums),
		})
	}
	if len(counts) == 0 {
		return nil, errFactory.New(errors.ErrEmptyInput)
	}

	values := make([]float64, len(sums))
	for i, sum := range sums {
		d := 1
		if scale {
			d = counts[i]
		}
		if d <= 0 {
			return nil, errFactory.WithMessage(errors.ErrInvalidArgument,
				"process count must be positive, got "+strconv.Itoa(d))
		}
		values[i] = float64(sum) / float64(d)
	}

	return values, nil
}

func (b *Builder) plotFaults(surface *Surface, label, path string) (Input, error) {
	s, err := profile.ReadFile(path)
	if err != nil {
		return Input{}, err
	}

	xs, ys, err := series.AccumulatedFaults(s)
	if err != nil {
		return Input{}, errors.New().Wrap(errors.CodeOf(err), err).WithData(struct {
			Path string
		}{
			Path: path,
		})
	}

	if err := surface.Scatter(label, xs, ys); err != nil {
		return Input{}, err
	}

	total := ys[len(ys)-1]
	b.log.Debug().
		Str("path", path).
		Int("samples", s.Len()).
		Str("total_faults", humanize.Comma(total)).
		Msg("Plotted fault series")

	return Input{
		Path:        path,
		Samples:     s.Len(),
		TotalFaults: total,
		CPUTotal:    series.Sum(s.CPUUse),
	}, nil
}

func (b *Builder) save(surface *Surface, start time.Time, a *Artifact) (*Artifact, error) {
	if err := surface.Save(a.Path); err != nil {
		return nil, err
	}

	a.Series = surface.Series()
	a.Points = surface.Points()
	a.Elapsed = time.Since(start)

	return a, nil
}
