package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListWorkers(t *testing.T) {
	assert.Equal(t, "", listWorkers(nil))
	assert.Equal(t, "1", listWorkers([]int{1}))
	assert.Equal(t, "1 and 2", listWorkers([]int{1, 2}))
	assert.Equal(t, "1, 2, 3, and 4", listWorkers([]int{1, 2, 3, 4}))
}

func TestTitles(t *testing.T) {
	assert.Equal(t, "Accumulated Page Faults for Work Processes 1 and 2", faultTitle([]int{1, 2}))
	assert.Equal(t, "Accumulated Page Faults for Work Processes 1, 2, 3, and 4", faultTitle([]int{1, 2, 3, 4}))
	assert.Equal(t, "Accumulated Page Faults for Work Process 7", faultTitle([]int{7}))
	assert.Equal(t, "Work Processes 3 & 4", legendLabel([]int{3, 4}))
}

func TestDefaultRunOutput(t *testing.T) {
	assert.Equal(t, "case_study_1_work_1_2.png", DefaultRunOutput([]int{1, 2}))
	assert.Equal(t, "case_study_1_work_3_4.png", DefaultRunOutput([]int{3, 4}))
}

func TestCommaTicks(t *testing.T) {
	ticks := commaTicks{}.Ticks(0, 2500000)

	var labels []string
	for _, tick := range ticks {
		if tick.Label != "" {
			labels = append(labels, tick.Label)
		}
	}

	require.NotEmpty(t, labels)
	for _, l := range labels {
		assert.NotContains(t, l, "e+")
		if l != "0" {
			assert.Contains(t, l, ",", "label %q", l)
		}
	}
}
