package analysis

import (
	"fmt"
	"math"

	"mnasim/pkg/circuit"
	"mnasim/pkg/cplx"
	"mnasim/pkg/matrix"
)

// ACResult holds the per-frequency small-signal solution of a sweep.
type ACResult struct {
	Freqs           []float64
	NodeVoltages    map[string][]complex128
	ElementCurrents map[string][]complex128
}

// RunAC sweeps c.AC's frequency range, assembling and solving the
// complex MNA system at each point. Only resistors, capacitors,
// inductors, and voltage sources contribute: switches and diodes have
// no small-signal model in this engine.
func RunAC(c *circuit.Circuit) (*ACResult, error) {
	if c.AC == nil {
		return nil, fmt.Errorf("%w: circuit has no .ac analysis configured", ErrBadInput)
	}

	freqs, err := frequencyPoints(c.AC)
	if err != nil {
		return nil, err
	}

	res := &ACResult{
		Freqs:           freqs,
		NodeVoltages:    make(map[string][]complex128),
		ElementCurrents: make(map[string][]complex128),
	}

	for id := 1; id < c.Nodes.Count(); id++ {
		res.NodeVoltages[c.Nodes.DisplayName(id)] = make([]complex128, len(freqs))
	}
	for _, r := range c.Resistors {
		res.ElementCurrents[r.Name] = make([]complex128, len(freqs))
	}
	for _, cp := range c.Capacitors {
		res.ElementCurrents[cp.Name] = make([]complex128, len(freqs))
	}
	for _, l := range c.Inductors {
		res.ElementCurrents[l.Name] = make([]complex128, len(freqs))
	}
	for _, v := range c.VoltageSources {
		res.ElementCurrents[v.Name] = make([]complex128, len(freqs))
	}

	m := matrix.NewComplex(c.Nvar())

	for fi, f := range freqs {
		omega := 2 * math.Pi * f
		m.Reset()

		for _, r := range c.Resistors {
			if err := r.StampAC(m, omega); err != nil {
				return nil, &StepError{Freq: f, IsAC: true, Err: err}
			}
		}
		for _, cp := range c.Capacitors {
			cp.StampAC(m, omega)
		}
		for _, l := range c.Inductors {
			l.StampAC(m, omega)
		}
		for _, v := range c.VoltageSources {
			v.StampAC(m)
		}

		sol, err := m.Solve()
		if err != nil {
			return nil, &StepError{Freq: f, IsAC: true, Err: fmt.Errorf("%w: %v", ErrSingularMatrix, err)}
		}

		for id := 1; id < c.Nodes.Count(); id++ {
			res.NodeVoltages[c.Nodes.DisplayName(id)][fi] = sol[circuit.MatrixIndex(id)]
		}
		for _, r := range c.Resistors {
			v1, v2 := acVoltageAt(sol, r.N1), acVoltageAt(sol, r.N2)
			i, err := cplx.Div(v1-v2, complex(r.R, 0))
			if err != nil {
				return nil, &StepError{Freq: f, IsAC: true, Err: fmt.Errorf("%w: resistor %s: %v", ErrArithmeticDegenerate, r.Name, err)}
			}
			res.ElementCurrents[r.Name][fi] = i
		}
		for _, cp := range c.Capacitors {
			v1, v2 := acVoltageAt(sol, cp.N1), acVoltageAt(sol, cp.N2)
			res.ElementCurrents[cp.Name][fi] = complex(0, omega*cp.C) * (v1 - v2)
		}
		for _, l := range c.Inductors {
			v1, v2 := acVoltageAt(sol, l.N1), acVoltageAt(sol, l.N2)
			zl := complex(0, omega*l.L)
			y, err := cplx.Reciprocal(zl)
			if err != nil {
				return nil, &StepError{Freq: f, IsAC: true, Err: fmt.Errorf("%w: inductor %s: %v", ErrArithmeticDegenerate, l.Name, err)}
			}
			res.ElementCurrents[l.Name][fi] = y * (v1 - v2)
		}
		for _, v := range c.VoltageSources {
			res.ElementCurrents[v.Name][fi] = sol[v.Index]
		}
	}

	return res, nil
}

func acVoltageAt(sol []complex128, id int) complex128 {
	if id == 0 {
		return 0
	}
	return sol[circuit.MatrixIndex(id)]
}

// frequencyPoints generates the swept frequency list for spec.Mode:
// "dec"/"oct" step geometrically by N points per decade/octave, "lin"
// spaces N points evenly across [F1, F2].
func frequencyPoints(spec *circuit.ACSpec) ([]float64, error) {
	if spec.F1 <= 0 || spec.F2 < spec.F1 {
		return nil, fmt.Errorf("%w: ac sweep requires 0 < F1 <= F2, got F1=%g F2=%g", ErrBadInput, spec.F1, spec.F2)
	}
	if spec.N <= 0 {
		return nil, fmt.Errorf("%w: ac sweep requires N > 0, got %d", ErrBadInput, spec.N)
	}

	switch spec.Mode {
	case "dec", "oct":
		base := 10.0
		if spec.Mode == "oct" {
			base = 2.0
		}
		ratio := math.Pow(base, 1.0/float64(spec.N))
		var freqs []float64
		for f := spec.F1; f <= spec.F2*(1+1e-9); f *= ratio {
			freqs = append(freqs, f)
		}
		return freqs, nil
	case "lin":
		if spec.N == 1 {
			return []float64{spec.F1}, nil
		}
		step := (spec.F2 - spec.F1) / float64(spec.N-1)
		freqs := make([]float64, spec.N)
		for i := range freqs {
			freqs[i] = spec.F1 + float64(i)*step
		}
		return freqs, nil
	default:
		return nil, fmt.Errorf("%w: unknown ac sweep mode %q", ErrBadInput, spec.Mode)
	}
}
