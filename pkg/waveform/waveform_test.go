package waveform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mnasim/pkg/waveform"
)

func TestPulseBeforeDelay(t *testing.T) {
	w := waveform.NewPulse(0, 5, 1e-6, 1e-9, 1e-9, 5e-6, 10e-6, 0)
	assert.Equal(t, 0.0, w.Eval(0))
}

func TestPulseDuringRiseAndHigh(t *testing.T) {
	w := waveform.NewPulse(0, 5, 0, 1e-9, 1e-9, 5e-6, 10e-6, 0)
	assert.InDelta(t, 2.5, w.Eval(0.5e-9), 1e-6)
	assert.InDelta(t, 5.0, w.Eval(1e-3+2e-6), 1e-6)
}

func TestPulseRepeats(t *testing.T) {
	w := waveform.NewPulse(0, 5, 0, 0, 0, 5, 10, 0)
	assert.InDelta(t, 5.0, w.Eval(2), 1e-9)
	assert.InDelta(t, 0.0, w.Eval(7), 1e-9)
	assert.InDelta(t, 5.0, w.Eval(12), 1e-9)
}

func TestPulseNcyclesLimited(t *testing.T) {
	w := waveform.NewPulse(0, 5, 0, 0, 0, 5, 10, 2)
	// t=22 falls in the third cycle (k=2), past Ncycles=2 -> clamps to V1 regardless of phase
	assert.InDelta(t, 0.0, w.Eval(22), 1e-9)
}

func TestPWLClampsOutsideRange(t *testing.T) {
	w := waveform.NewPWL([]float64{0, 1, 2}, []float64{0, 10, 0})
	assert.Equal(t, 0.0, w.Eval(-1))
	assert.Equal(t, 0.0, w.Eval(2))
	assert.Equal(t, 0.0, w.Eval(3))
}

func TestPWLInterpolates(t *testing.T) {
	w := waveform.NewPWL([]float64{0, 1, 2}, []float64{0, 10, 0})
	assert.InDelta(t, 5.0, w.Eval(0.5), 1e-9)
	assert.InDelta(t, 5.0, w.Eval(1.5), 1e-9)
}
