package series_test

import (
	"math/rand"
	"strings"
	"testing"

	"codeberg.org/mutker/faultplot/internal/errors"
	"codeberg.org/mutker/faultplot/internal/profile"
	"codeberg.org/mutker/faultplot/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulate(t *testing.T) {
	got, err := series.Accumulate([]int64{1, 2, 0, 4})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 3, 7}, got)
}

func TestAccumulateSingle(t *testing.T) {
	got, err := series.Accumulate([]int64{42})
	require.NoError(t, err)
	assert.Equal(t, []int64{42}, got)
}

func TestAccumulateEmpty(t *testing.T) {
	_, err := series.Accumulate(nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrEmptyInput))
}

func TestAccumulatePrefixSums(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for n := 1; n <= 64; n++ {
		v := make([]int64, n)
		for i := range v {
			v[i] = rng.Int63n(2000) - 1000
		}

		got, err := series.Accumulate(v)
		require.NoError(t, err)
		require.Len(t, got, n)

		for i := range v {
			assert.Equal(t, series.Sum(v[:i+1]), got[i], "n=%d i=%d", n, i)
		}
	}
}

func TestAccumulateDoesNotMutateInput(t *testing.T) {
	v := []int64{1, 1, 1}
	_, err := series.Accumulate(v)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 1, 1}, v)
}

func TestAdd(t *testing.T) {
	got, err := series.Add([]int64{1, 3, 3}, []int64{0, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 4, 4}, got)
}

func TestAddLengthMismatch(t *testing.T) {
	_, err := series.Add([]int64{1, 2, 3}, []int64{1, 2})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrLengthMismatch))
}

func TestSinceStart(t *testing.T) {
	got, err := series.SinceStart([]int64{4294937296, 4294937346, 4294937396})
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 50, 100}, got)

	_, err = series.SinceStart(nil)
	assert.True(t, errors.HasCode(err, errors.ErrEmptyInput))
}

func TestSum(t *testing.T) {
	assert.Equal(t, int64(0), series.Sum(nil))
	assert.Equal(t, int64(15), series.Sum([]int64{5, 5, 5}))
}

func TestAccumulatedFaults(t *testing.T) {
	s, err := profile.Parse(strings.NewReader("0 1 0 5\n1 2 1 5\n2 0 0 5\n9 9 9 9\n"))
	require.NoError(t, err)

	xs, ys, err := series.AccumulatedFaults(s)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 1, 2}, xs)
	assert.Equal(t, []int64{1, 4, 4}, ys)
}

func TestAccumulatedFaultsNoSamples(t *testing.T) {
	s, err := profile.Parse(strings.NewReader("0 1 0 5\n"))
	require.NoError(t, err)

	_, _, err = series.AccumulatedFaults(s)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrEmptyInput))
}

func TestAccumulatedFaultsColumnMismatch(t *testing.T) {
	s := &profile.Series{
		Times:  []int64{0, 1, 2},
		Minor:  []int64{1, 1, 1},
		Major:  []int64{1, 1},
		CPUUse: []int64{0, 0, 0},
	}

	_, _, err := series.AccumulatedFaults(s)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrLengthMismatch))
}
