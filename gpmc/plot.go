package main

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// savePlot plots the trace rows against the retained sample number.
func savePlot(trace *mat.Dense, rows []int, names []string, fn string) error {
	p := plot.New()
	p.Title.Text = "Trace"
	p.X.Label.Text = "sample"
	p.Y.Label.Text = "value"

	_, c := trace.Dims()
	lines := make([]interface{}, 0, 2*len(rows))
	for i, row := range rows {
		pts := make(plotter.XYs, c)
		for j := range pts {
			pts[j].X = float64(j)
			pts[j].Y = trace.At(row, j)
		}
		lines = append(lines, names[i], pts)
	}
	if err := plotutil.AddLines(p, lines...); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 4*vg.Inch, fn)
}
