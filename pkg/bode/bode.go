// Package bode renders AC sweep and transient results to PNG using
// gonum.org/v1/plot. The plotting dependency is declared but never
// imported anywhere in the example pack (RuiCat-circuit's go.mod lists
// it unused); this package is where this simulator actually exercises it.
package bode

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"mnasim/pkg/analysis"
	"mnasim/pkg/cplx"
)

// MagnitudePhase renders the Bode magnitude (dB) and phase (degrees)
// plots for a node's AC sweep to two PNG files.
func MagnitudePhase(res *analysis.ACResult, node, magPath, phasePath string) error {
	values, ok := res.NodeVoltages[node]
	if !ok {
		return fmt.Errorf("bode: no node %q in AC result", node)
	}

	magPts := make(plotter.XYs, len(res.Freqs))
	phasePts := make(plotter.XYs, len(res.Freqs))
	for i, f := range res.Freqs {
		magPts[i].X = f
		magPts[i].Y = 20 * math.Log10(cmplx.Abs(values[i]))
		phasePts[i].X = f
		phasePts[i].Y = cplx.PhaseDeg(values[i])
	}

	if err := savePlot(magPath, "Magnitude — "+node, "Frequency (Hz)", "Magnitude (dB)", magPts, true); err != nil {
		return err
	}
	return savePlot(phasePath, "Phase — "+node, "Frequency (Hz)", "Phase (deg)", phasePts, true)
}

// Transient renders a single node or element current trace against time
// to a PNG file.
func Transient(times, values []float64, title, yLabel, path string) error {
	if len(times) != len(values) {
		return fmt.Errorf("bode: times and values length mismatch: %d != %d", len(times), len(values))
	}
	pts := make(plotter.XYs, len(times))
	for i := range times {
		pts[i].X = times[i]
		pts[i].Y = values[i]
	}
	return savePlot(path, title, "Time (s)", yLabel, pts, false)
}

func savePlot(path, title, xLabel, yLabel string, pts plotter.XYs, logX bool) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	if logX {
		p.X.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("bode: building line plotter: %w", err)
	}
	p.Add(line)
	p.Add(plotter.NewGrid())

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("bode: saving plot to %s: %w", path, err)
	}
	return nil
}
