package analysis_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"

	"mnasim/pkg/analysis"
	"mnasim/pkg/circuit"
)

func buildRCLowPass(t *testing.T) *circuit.Circuit {
	t.Helper()
	c := circuit.NewCircuit()
	nIn := c.Nodes.GetOrCreate("IN")
	nOut := c.Nodes.GetOrCreate("OUT")

	c.VoltageSources = append(c.VoltageSources, &circuit.VoltageSource{
		Name: "V1", N1: nIn, N2: 0, DC: 0, ACMag: 1, ACPhaseDeg: 0,
	})
	c.Resistors = append(c.Resistors, &circuit.Resistor{Name: "R1", N1: nIn, N2: nOut, R: 1000})
	c.Capacitors = append(c.Capacitors, &circuit.Capacitor{Name: "C1", N1: nOut, N2: 0, C: 1e-6})

	c.AC = &circuit.ACSpec{Mode: "dec", N: 10, F1: 1, F2: 1e6}
	assert.NoError(t, c.Finalize())
	return c
}

func TestRunACSinglePoleMagnitudeAndPhase(t *testing.T) {
	c := buildRCLowPass(t)
	res, err := analysis.RunAC(c)
	assert.NoError(t, err)
	assert.Equal(t, len(res.Freqs), len(res.NodeVoltages["OUT"]))

	fc := 1.0 / (2 * math.Pi * 1000 * 1e-6) // ~159 Hz

	// find the swept frequency closest to fc and verify ~-3dB, ~-45deg
	bestIdx, bestDiff := 0, math.Inf(1)
	for i, f := range res.Freqs {
		if d := math.Abs(f - fc); d < bestDiff {
			bestDiff, bestIdx = d, i
		}
	}
	mag := cmplx.Abs(res.NodeVoltages["OUT"][bestIdx])
	assert.InDelta(t, 0.707, mag, 0.05)
	phaseDeg := cmplx.Phase(res.NodeVoltages["OUT"][bestIdx]) * 180 / math.Pi
	assert.InDelta(t, -45.0, phaseDeg, 1.0)
}

func TestRunACNodeCasingRoundTrip(t *testing.T) {
	c := circuit.NewCircuit()
	nIn := c.Nodes.GetOrCreate("Vin")
	c.VoltageSources = append(c.VoltageSources, &circuit.VoltageSource{Name: "V1", N1: nIn, N2: 0, ACMag: 1})
	c.Resistors = append(c.Resistors, &circuit.Resistor{Name: "R1", N1: c.Nodes.GetOrCreate("VIN"), N2: 0, R: 100})
	c.AC = &circuit.ACSpec{Mode: "lin", N: 1, F1: 100, F2: 100}
	assert.NoError(t, c.Finalize())

	res, err := analysis.RunAC(c)
	assert.NoError(t, err)
	_, ok := res.NodeVoltages["Vin"]
	assert.True(t, ok)
	assert.Len(t, res.NodeVoltages, 1)
}

func TestFrequencyPointsLinCount(t *testing.T) {
	c := circuit.NewCircuit()
	c.Resistors = append(c.Resistors, &circuit.Resistor{Name: "R1", N1: c.Nodes.GetOrCreate("1"), N2: 0, R: 1})
	c.VoltageSources = append(c.VoltageSources, &circuit.VoltageSource{Name: "V1", N1: c.Nodes.GetOrCreate("1"), N2: 0, ACMag: 1})
	c.AC = &circuit.ACSpec{Mode: "lin", N: 5, F1: 10, F2: 50}
	assert.NoError(t, c.Finalize())

	res, err := analysis.RunAC(c)
	assert.NoError(t, err)
	assert.Len(t, res.Freqs, 5)
	assert.InDelta(t, 10.0, res.Freqs[0], 1e-9)
	assert.InDelta(t, 50.0, res.Freqs[4], 1e-9)
}

func TestRunACBadSweepRejected(t *testing.T) {
	c := circuit.NewCircuit()
	c.AC = &circuit.ACSpec{Mode: "lin", N: 5, F1: -1, F2: 50}
	assert.NoError(t, c.Finalize())

	_, err := analysis.RunAC(c)
	assert.ErrorIs(t, err, analysis.ErrBadInput)
}
