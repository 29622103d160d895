// Package waveform evaluates independent-source time functions.
//
// The teacher's vsource.go and isource.go each carried their own copy of
// getPulseVoltage/getPulseCurrent and getPWLVoltage/getPWLCurrent as
// methods closed over a *VoltageSource/*CurrentSource. Since this engine
// has no current source, that duplication collapses to one evaluator;
// it is expressed as a tagged variant rather than a closure so a
// Waveform is a plain value the netlist builder can construct, compare,
// and hand to a VoltageSource without entangling it with TRAN's mutable
// analysis state (see the original spec's "Closures for waveforms"
// design note).
package waveform

import "math"

// Epsilon floors denominators (transition times, PWL segment widths) so
// evaluation never divides by exactly zero.
const Epsilon = 1e-15

// Kind distinguishes the evaluation rule a Waveform carries.
type Kind int

const (
	Pulse Kind = iota
	PWL
)

// Waveform is a pure t -> V function, represented as data.
type Waveform struct {
	Kind Kind

	// Pulse fields.
	V1, V2           float64
	Td, Tr, Tf, Ton  float64
	Period           float64
	Ncycles          float64 // math.Inf(1) for unlimited

	// PWL fields. Times must be strictly increasing and len(Times) == len(Values) >= 1.
	Times  []float64
	Values []float64
}

// NewPulse builds a PULSE waveform. Ncycles <= 0 means unlimited repetition.
func NewPulse(v1, v2, td, tr, tf, ton, period, ncycles float64) *Waveform {
	if ncycles <= 0 {
		ncycles = math.Inf(1)
	}
	return &Waveform{
		Kind: Pulse,
		V1: v1, V2: v2,
		Td: td, Tr: tr, Tf: tf, Ton: ton,
		Period:  period,
		Ncycles: ncycles,
	}
}

// NewPWL builds a piecewise-linear waveform from parallel time/value slices.
func NewPWL(times, values []float64) *Waveform {
	return &Waveform{Kind: PWL, Times: times, Values: values}
}

// Eval returns the waveform's value at time t.
func (w *Waveform) Eval(t float64) float64 {
	switch w.Kind {
	case Pulse:
		return w.evalPulse(t)
	case PWL:
		return w.evalPWL(t)
	default:
		return 0
	}
}

func (w *Waveform) evalPulse(t float64) float64 {
	if t < w.Td {
		return w.V1
	}

	tt := t - w.Td
	k := math.Floor(tt / w.Period)
	if k >= w.Ncycles {
		return w.V1
	}
	tc := tt - k*w.Period

	tr := clampMin(w.Tr, Epsilon)
	tf := clampMin(w.Tf, Epsilon)

	switch {
	case tc < tr:
		return w.V1 + (w.V2-w.V1)*tc/tr
	case tc < tr+w.Ton:
		return w.V2
	case tc < tr+w.Ton+tf:
		return w.V2 - (w.V2-w.V1)*(tc-tr-w.Ton)/tf
	default:
		return w.V1
	}
}

func (w *Waveform) evalPWL(t float64) float64 {
	n := len(w.Times)
	if n == 0 {
		return 0
	}
	if t <= w.Times[0] {
		return w.Values[0]
	}
	if t >= w.Times[n-1] {
		return w.Values[n-1]
	}
	for i := 1; i < n; i++ {
		if t <= w.Times[i] {
			t0, t1 := w.Times[i-1], w.Times[i]
			v0, v1 := w.Values[i-1], w.Values[i]
			denom := clampMin(t1-t0, Epsilon)
			return v0 + (v1-v0)*(t-t0)/denom
		}
	}
	return w.Values[n-1]
}

func clampMin(v, floor float64) float64 {
	if v < floor {
		return floor
	}
	return v
}
