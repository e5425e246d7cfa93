// Package series implements the running-sum arithmetic applied to parsed
// profiles before they are plotted.
package series

import (
	"codeberg.org/mutker/faultplot/internal/errors"
	"codeberg.org/mutker/faultplot/internal/profile"
)

// Accumulate returns the inclusive running sum of v:
// [v0, v0+v1, ..., v0+...+vn].
func Accumulate(v []int64) ([]int64, error) {
	if len(v) == 0 {
		return nil, errors.New().New(errors.ErrEmptyInput)
	}

	out := make([]int64, len(v))
	out[0] = v[0]
	for i := 1; i < len(v); i++ {
		out[i] = out[i-1] + v[i]
	}

	return out, nil
}

// Add returns the element-wise sum of a and b.
func Add(a, b []int64) ([]int64, error) {
	if len(a) != len(b) {
		return nil, errors.New().WithData(errors.ErrLengthMismatch, struct {
			Left  int
			Right int
		}{
			Left:  len(a),
			Right: len(b),
		})
	}

	out := make([]int64, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}

	return out, nil
}

// SinceStart returns times shifted so that the first element is zero.
func SinceStart(times []int64) ([]int64, error) {
	if len(times) == 0 {
		return nil, errors.New().New(errors.ErrEmptyInput)
	}

	out := make([]int64, len(times))
	for i, t := range times {
		out[i] = t - times[0]
	}

	return out, nil
}

// Sum returns the sum of v; zero for an empty slice.
func Sum(v []int64) int64 {
	var total int64
	for _, x := range v {
		total += x
	}
	return total
}

// AccumulatedFaults returns the time since start and the accumulated
// minor+major fault total for every sample in s.
func AccumulatedFaults(s *profile.Series) (xs, ys []int64, err error) {
	minor, err := Accumulate(s.Minor)
	if err != nil {
		return nil, nil, err
	}

	major, err := Accumulate(s.Major)
	if err != nil {
		return nil, nil, err
	}

	ys, err = Add(major, minor)
	if err != nil {
		return nil, nil, err
	}

	xs, err = SinceStart(s.Times)
	if err != nil {
		return nil, nil, err
	}

	return xs, ys, nil
}
