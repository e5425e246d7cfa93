// Package study runs the configured chart jobs in their fixed order:
// single runs, CPU use unscaled, CPU use scaled, then the combined chart.
package study

import (
	"context"
	"strconv"
	"strings"

	"codeberg.org/mutker/faultplot/internal/catalog"
	"codeberg.org/mutker/faultplot/internal/chart"
	"codeberg.org/mutker/faultplot/internal/config"
	"codeberg.org/mutker/faultplot/internal/errors"
	"codeberg.org/mutker/faultplot/internal/logger"
)

// Charter renders one chart per call.
type Charter interface {
	Run(job config.RunJob) (*chart.Artifact, error)
	Combined(job config.CombinedJob) (*chart.Artifact, error)
	CPU(job config.CPUJob, scale bool) (*chart.Artifact, error)
}

// Step is one chart production.
type Step struct {
	Name   string
	Render func() (*chart.Artifact, error)
}

// Plan lists the chart productions cfg asks for, in execution order.
func Plan(cfg *config.Config, c Charter) []Step {
	var steps []Step

	for _, job := range cfg.Runs {
		job := job
		steps = append(steps, Step{
			Name:   "run " + job.Path + " (workers " + joinInts(job.Workers) + ")",
			Render: func() (*chart.Artifact, error) { return c.Run(job) },
		})
	}

	if len(cfg.CPU.Counts) > 0 {
		for _, scale := range []bool{false, true} {
			scale := scale
			name := "cpu"
			if scale {
				name = "cpu scaled"
			}
			steps = append(steps, Step{
				Name:   name,
				Render: func() (*chart.Artifact, error) { return c.CPU(cfg.CPU, scale) },
			})
		}
	}

	if len(cfg.Combined.Paths) > 0 || len(cfg.Combined.Workers) > 0 {
		steps = append(steps, Step{
			Name:   "combined",
			Render: func() (*chart.Artifact, error) { return c.Combined(cfg.Combined) },
		})
	}

	return steps
}

// Run executes every step of Plan and records each chart in rec. It stops
// at the first failure unless cfg.KeepGoing is set, in which case all
// failures are returned joined after the last step.
func Run(ctx context.Context, cfg *config.Config, c Charter, rec catalog.Recorder) ([]*chart.Artifact, error) {
	errFactory := errors.New()

	var (
		artifacts []*chart.Artifact
		failures  []error
	)

	for _, step := range Plan(cfg, c) {
		if err := ctx.Err(); err != nil {
			failures = append(failures, errFactory.Wrap(errors.ErrInternal, err).WithMessage("interrupted before "+step.Name))
			break
		}

		err := runStep(ctx, step, rec, &artifacts)
		if err == nil {
			continue
		}

		err = errFactory.Wrap(errors.CodeOf(err), err).WithMessage("chart " + step.Name)
		if !cfg.KeepGoing {
			return artifacts, err
		}

		logger.ErrorWithCode(err).Str("step", step.Name).Msg("Chart failed, continuing")
		failures = append(failures, err)
	}

	return artifacts, errors.Join(failures...)
}

func runStep(ctx context.Context, step Step, rec catalog.Recorder, artifacts *[]*chart.Artifact) error {
	a, err := step.Render()
	if err != nil {
		return err
	}
	*artifacts = append(*artifacts, a)

	logger.Info().
		Str("path", a.Path).
		Str("kind", string(a.Kind)).
		Int("series", a.Series).
		Int("points", a.Points).
		Dur("elapsed", a.Elapsed).
		Msg("Chart written")

	return rec.Record(ctx, entryFor(a))
}

func entryFor(a *chart.Artifact) *catalog.Entry {
	inputs := make([]catalog.Input, len(a.Inputs))
	for i, in := range a.Inputs {
		inputs[i] = catalog.Input{
			Path:        in.Path,
			Samples:     in.Samples,
			TotalFaults: in.TotalFaults,
			CPUTotal:    in.CPUTotal,
		}
	}

	return &catalog.Entry{
		Path:   a.Path,
		Kind:   string(a.Kind),
		Title:  a.Title,
		Series: a.Series,
		Points: a.Points,
		Inputs: inputs,
	}
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
