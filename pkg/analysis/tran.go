package analysis

import (
	"fmt"
	"math"
	"strings"

	"mnasim/pkg/circuit"
	"mnasim/pkg/matrix"
)

const (
	newtonTol     = 1e-6
	newtonMaxIter = 20
)

// TranResult holds the recorded time-domain solution of a transient run.
type TranResult struct {
	Times           []float64
	NodeVoltages    map[string][]float64
	ElementCurrents map[string][]float64
}

// RunTRAN steps c.TRAN's fixed time grid from 0 to Tstop, solving a
// Newton-Raphson iteration at every step to settle diode linearization
// and switch hysteresis before advancing companion-model state.
func RunTRAN(c *circuit.Circuit) (*TranResult, error) {
	if c.TRAN == nil {
		return nil, fmt.Errorf("%w: circuit has no .tran analysis configured", ErrBadInput)
	}
	if c.TRAN.Tstop <= 0 {
		return nil, fmt.Errorf("%w: tran analysis requires Tstop > 0, got Tstop=%g", ErrBadInput, c.TRAN.Tstop)
	}

	dtEff := c.TRAN.Dt
	if dtEff <= circuit.Epsilon {
		dtEff = c.TRAN.Tstop / 1000
		if dtEff < circuit.Epsilon {
			dtEff = circuit.Epsilon
		}
	}
	steps := int(math.Ceil(c.TRAN.Tstop / dtEff))
	if steps < 1 {
		steps = 1
	}
	dt := c.TRAN.Tstop / float64(steps)
	c.TRAN.Dt = dt

	nsteps := steps + 1
	times := make([]float64, nsteps)
	for i := range times {
		times[i] = float64(i) * dt
	}

	recordAll := len(c.Probes) == 0
	probeSet := make(map[string]bool, len(c.Probes))
	for _, p := range c.Probes {
		probeSet[strings.ToUpper(p)] = true
	}

	res := &TranResult{
		Times:           times,
		NodeVoltages:    make(map[string][]float64),
		ElementCurrents: make(map[string][]float64),
	}
	for id := 1; id < c.Nodes.Count(); id++ {
		name := c.Nodes.DisplayName(id)
		if recordAll || probeSet[strings.ToUpper(name)] {
			res.NodeVoltages[name] = make([]float64, nsteps)
		}
	}
	for _, r := range c.Resistors {
		res.ElementCurrents[r.Name] = make([]float64, nsteps)
	}
	for _, cp := range c.Capacitors {
		res.ElementCurrents[cp.Name] = make([]float64, nsteps)
	}
	for _, l := range c.Inductors {
		res.ElementCurrents[l.Name] = make([]float64, nsteps)
	}
	for _, v := range c.VoltageSources {
		res.ElementCurrents[v.Name] = make([]float64, nsteps)
	}
	for _, s := range c.Switches {
		res.ElementCurrents[s.Name] = make([]float64, nsteps)
	}
	for _, d := range c.Diodes {
		res.ElementCurrents[d.Name] = make([]float64, nsteps)
	}

	m := matrix.NewReal(c.Nvar())
	vdSeeds := make([]float64, len(c.Diodes))
	for i, d := range c.Diodes {
		vdSeeds[i] = d.VdPrev
	}

	for ti, t := range times {
		sol, gls, err := settleStep(m, c, t, vdSeeds)
		if err != nil {
			return nil, &StepError{Time: t, Err: err}
		}

		for id := 1; id < c.Nodes.Count(); id++ {
			name := c.Nodes.DisplayName(id)
			if recordAll || probeSet[strings.ToUpper(name)] {
				res.NodeVoltages[name][ti] = sol[circuit.MatrixIndex(id)]
			}
		}
		for _, r := range c.Resistors {
			v1, v2 := tranVoltageAt(sol, r.N1), tranVoltageAt(sol, r.N2)
			res.ElementCurrents[r.Name][ti] = r.Current(v1, v2)
		}
		for _, cp := range c.Capacitors {
			v1, v2 := tranVoltageAt(sol, cp.N1), tranVoltageAt(sol, cp.N2)
			res.ElementCurrents[cp.Name][ti] = cp.Current(v1, v2, c.TRAN.Dt)
			cp.IPrev = res.ElementCurrents[cp.Name][ti]
			cp.VPrev = v1 - v2
		}
		for li, l := range c.Inductors {
			v1, v2 := tranVoltageAt(sol, l.N1), tranVoltageAt(sol, l.N2)
			i := l.Current(gls[li], v1, v2)
			res.ElementCurrents[l.Name][ti] = i
			l.IPrev = i
			l.VPrev = v1 - v2
		}
		for _, v := range c.VoltageSources {
			res.ElementCurrents[v.Name][ti] = sol[v.Index]
		}
		for _, s := range c.Switches {
			v1, v2 := tranVoltageAt(sol, s.N1), tranVoltageAt(sol, s.N2)
			res.ElementCurrents[s.Name][ti] = s.Current(v1, v2)
		}
		for di, d := range c.Diodes {
			v1, v2 := tranVoltageAt(sol, d.NPlus), tranVoltageAt(sol, d.NMinus)
			res.ElementCurrents[d.Name][ti] = d.Current(v1, v2)
			d.VdPrev = v1 - v2
			vdSeeds[di] = v1 - v2
		}
	}

	return res, nil
}

// settleStep runs the Newton-Raphson loop for a single time step: it
// reassembles and resolves the MNA system until every diode's
// linearization point and every switch's discrete state have settled.
// It returns the converged solution and the inductor admittances used
// (needed by the caller to compute final branch currents).
func settleStep(m *matrix.Real, c *circuit.Circuit, t float64, vdSeeds []float64) ([]float64, []float64, error) {
	gls := make([]float64, len(c.Inductors))

	for iter := 0; iter < newtonMaxIter; iter++ {
		m.Reset()

		for _, r := range c.Resistors {
			if err := r.StampTran(m); err != nil {
				return nil, nil, err
			}
		}
		for _, cp := range c.Capacitors {
			cp.StampTran(m, c.TRAN.Dt)
		}
		for li, l := range c.Inductors {
			gls[li] = l.StampTran(m, c.TRAN.Dt)
		}
		for _, v := range c.VoltageSources {
			v.StampTran(m, t)
		}
		for _, s := range c.Switches {
			s.StampTran(m)
		}
		for di, d := range c.Diodes {
			lz := d.Linearize(vdSeeds[di])
			d.StampTran(m, lz)
		}

		sol, err := m.Solve()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrSingularMatrix, err)
		}

		converged := true
		for di, d := range c.Diodes {
			newVd := tranVoltageAt(sol, d.NPlus) - tranVoltageAt(sol, d.NMinus)
			if math.Abs(newVd-vdSeeds[di]) > newtonTol {
				converged = false
			}
			vdSeeds[di] = newVd
		}
		for _, s := range c.Switches {
			vc := tranVoltageAt(sol, s.NCPos) - tranVoltageAt(sol, s.NCNeg)
			if s.UpdateState(vc) {
				converged = false
			}
		}

		if converged {
			return sol, gls, nil
		}
	}

	return nil, nil, ErrNewtonNonConvergence
}

func tranVoltageAt(sol []float64, id int) float64 {
	if id == 0 {
		return 0
	}
	return sol[circuit.MatrixIndex(id)]
}
