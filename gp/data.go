package gp

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Data stores the observations: inputs (one row per observation)
// and outputs.
type Data struct {
	X *mat.Dense
	Y []float64
}

// NewData creates a new data set.
func NewData(x *mat.Dense, y []float64) (*Data, error) {
	r, _ := x.Dims()
	if r != len(y) {
		return nil, errors.Errorf("%d inputs, but %d outputs", r, len(y))
	}
	return &Data{X: x, Y: y}, nil
}

// NewData1D creates a data set with scalar inputs.
func NewData1D(x, y []float64) (*Data, error) {
	if len(x) == 0 {
		return nil, errors.New("empty data")
	}
	xc := append([]float64(nil), x...)
	return NewData(mat.NewDense(len(x), 1, xc), append([]float64(nil), y...))
}

// Len returns the number of observations.
func (d *Data) Len() int {
	return len(d.Y)
}

// input returns the i-th input.
func (d *Data) input(i int) []float64 {
	return d.X.RawRowView(i)
}

// ReadFloats converts string of floats into slice of float64.
func ReadFloats(s string) ([]float64, error) {
	r := strings.NewReader(s)
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	var result []float64
	for scanner.Scan() {
		x, err := strconv.ParseFloat(scanner.Text(), 64)
		if err != nil {
			return result, err
		}
		result = append(result, x)
	}
	return result, scanner.Err()
}

// ReadData reads whitespace separated rows "x1 ... xp y". Empty lines
// and lines starting with # are skipped.
func ReadData(rd io.Reader) (*Data, error) {
	scanner := bufio.NewScanner(rd)
	var xs []float64
	var ys []float64
	ncol := 0
	line := 0
	for scanner.Scan() {
		line++
		s := strings.TrimSpace(scanner.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		v, err := ReadFloats(s)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		if len(v) < 2 {
			return nil, errors.Errorf("line %d: expected at least 2 columns, got %d", line, len(v))
		}
		if ncol == 0 {
			ncol = len(v)
		} else if len(v) != ncol {
			return nil, errors.Errorf("line %d: expected %d columns, got %d", line, ncol, len(v))
		}
		xs = append(xs, v[:ncol-1]...)
		ys = append(ys, v[ncol-1])
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(ys) == 0 {
		return nil, errors.New("no observations")
	}
	log.Infof("Read %d observations with %d-dimensional inputs", len(ys), ncol-1)
	return NewData(mat.NewDense(len(ys), ncol-1, xs), ys)
}
