package chart

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/plot"
)

// commaTicks is plot.DefaultTicks with thousands separators on major
// tick labels; fault totals routinely run into the millions.
type commaTicks struct{}

func (commaTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i, t := range ticks {
		if t.Label == "" || t.Value != math.Trunc(t.Value) {
			continue
		}
		ticks[i].Label = humanize.Comma(int64(t.Value))
	}
	return ticks
}

func processNoun(n int) string {
	if n == 1 {
		return "Work Process"
	}
	return "Work Processes"
}

// listWorkers joins ids as "1", "1 and 2" or "1, 2, 3, and 4".
func listWorkers(ids []int) string {
	parts := itoa(ids)
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + ", and " + parts[len(parts)-1]
}

func legendLabel(ids []int) string {
	return processNoun(len(ids)) + " " + strings.Join(itoa(ids), " & ")
}

func faultTitle(ids []int) string {
	return "Accumulated Page Faults for " + processNoun(len(ids)) + " " + listWorkers(ids)
}

// DefaultRunOutput is the chart path used for a single run when no
// explicit output is configured.
func DefaultRunOutput(ids []int) string {
	return "case_study_1_work_" + strings.Join(itoa(ids), "_") + ".png"
}

func itoa(ids []int) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strconv.Itoa(id)
	}
	return out
}
