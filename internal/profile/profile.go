// Package profile reads the fixed-format sample logs written by the
// page-fault profiler: one record per line,
//
//	<jiffies> <minor_faults> <major_faults> <cpu_use>
//
// separated by single spaces. The last line of every file is a trailer
// and is never parsed.
package profile

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"codeberg.org/mutker/faultplot/internal/errors"
)

const fieldsPerLine = 4

// Sample is one parsed input line.
type Sample struct {
	Time   int64
	Minor  int64
	Major  int64
	CPUUse int64
}

// Series holds the columns of one profile file. All slices have the same
// length and index i refers to the same input line.
type Series struct {
	Times  []int64
	Minor  []int64
	Major  []int64
	CPUUse []int64
}

// Len returns the number of samples.
func (s *Series) Len() int {
	return len(s.Times)
}

// At returns the i-th sample.
func (s *Series) At(i int) Sample {
	return Sample{
		Time:   s.Times[i],
		Minor:  s.Minor[i],
		Major:  s.Major[i],
		CPUUse: s.CPUUse[i],
	}
}

func (s *Series) append(sample Sample) {
	s.Times = append(s.Times, sample.Time)
	s.Minor = append(s.Minor, sample.Minor)
	s.Major = append(s.Major, sample.Major)
	s.CPUUse = append(s.CPUUse, sample.CPUUse)
}

// ReadFile parses the profile at path.
func ReadFile(path string) (*Series, error) {
	errFactory := errors.New()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errFactory.WithData(errors.ErrNotFound, struct {
				Path string
			}{
				Path: path,
			})
		}
		return nil, errFactory.Wrap(errors.ErrReadInput, err).WithData(struct {
			Path string
		}{
			Path: path,
		})
	}
	defer f.Close()

	s, err := parse(f, path)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Parse reads a profile from r. The final line is discarded.
func Parse(r io.Reader) (*Series, error) {
	return parse(r, "")
}

func parse(r io.Reader, path string) (*Series, error) {
	errFactory := errors.New()

	scanner := bufio.NewScanner(r)
	s := &Series{}

	// Lag one line behind the scanner so the last line is never parsed.
	var (
		pending   string
		hasLine   bool
		lineCount int
	)
	for scanner.Scan() {
		if hasLine {
			sample, err := parseLine(pending)
			if err != nil {
				return nil, errFactory.Wrap(errors.ErrFormat, err).WithData(struct {
					Path string
					Line int
					Text string
				}{
					Path: path,
					Line: lineCount,
					Text: pending,
				})
			}
			s.append(sample)
		}
		pending = scanner.Text()
		hasLine = true
		lineCount++
	}
	if err := scanner.Err(); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadInput, err)
	}

	if !hasLine {
		return nil, errFactory.WithData(errors.ErrEmptyInput, struct {
			Path string
		}{
			Path: path,
		})
	}

	return s, nil
}

func parseLine(line string) (Sample, error) {
	errFactory := errors.New()

	fields := strings.Split(line, " ")
	if len(fields) != fieldsPerLine {
		return Sample{}, errFactory.WithMessage(errors.ErrFormat,
			"expected "+strconv.Itoa(fieldsPerLine)+" fields, got "+strconv.Itoa(len(fields)))
	}

	var values [fieldsPerLine]int64
	for i, field := range fields {
		v, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return Sample{}, err
		}
		values[i] = v
	}

	return Sample{
		Time:   values[0],
		Minor:  values[1],
		Major:  values[2],
		CPUUse: values[3],
	}, nil
}
