package netlist_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"mnasim/pkg/netlist"
)

func TestParseValueSuffixes(t *testing.T) {
	cases := map[string]float64{
		"1k":    1000,
		"4.7k":  4700,
		"100n":  1e-7,
		"1meg":  1e6,
		"2.2u":  2.2e-6,
		"5":     5,
		"-3.3m": -3.3e-3,
	}
	for in, want := range cases {
		got, err := netlist.ParseValue(in)
		assert.NoError(t, err)
		assert.InDelta(t, want, got, math.Abs(want)*1e-9+1e-15)
	}
}

func TestParseValueStripsTrailingUnitLetter(t *testing.T) {
	cases := map[string]float64{
		"4.7kohm": 4700,
		"100mV":   0.1,
		"10f":     1e-14,
		"10fF":    1e-14,
		"5A":      5,
		"2.2uF":   2.2e-6,
		"1MEG":    1e6,
		"1meghz":  1e6,
	}
	for in, want := range cases {
		got, err := netlist.ParseValue(in)
		assert.NoError(t, err, "input %q", in)
		assert.InDelta(t, want, got, math.Abs(want)*1e-9+1e-20, "input %q", in)
	}
}

func TestParseValueRejectsGarbage(t *testing.T) {
	_, err := netlist.ParseValue("abc")
	assert.ErrorIs(t, err, netlist.ErrSyntax)
}

func TestParseResistiveDivider(t *testing.T) {
	deck := `* divider
V1 1 0 DC 10
R1 1 2 1k
R2 2 0 1k
.tran 1m 5m
`
	c, err := netlist.Parse(deck)
	assert.NoError(t, err)
	assert.Equal(t, "divider", c.Title)
	assert.Len(t, c.VoltageSources, 1)
	assert.Len(t, c.Resistors, 2)
	assert.NotNil(t, c.TRAN)
	assert.InDelta(t, 1e-3, c.TRAN.Dt, 1e-12)
	assert.InDelta(t, 5e-3, c.TRAN.Tstop, 1e-12)
}

func TestParseACSource(t *testing.T) {
	deck := `* ac test
V1 in 0 AC 1 0
R1 in out 1k
C1 out 0 1u
.ac dec 10 1 1meg
`
	c, err := netlist.Parse(deck)
	assert.NoError(t, err)
	assert.NotNil(t, c.AC)
	assert.Equal(t, "dec", c.AC.Mode)
	assert.Equal(t, 10, c.AC.N)
	assert.InDelta(t, 1.0, c.AC.F1, 1e-9)
	assert.InDelta(t, 1e6, c.AC.F2, 1e-3)
	assert.Equal(t, 1.0, c.VoltageSources[0].ACMag)
}

func TestParsePulseWaveform(t *testing.T) {
	deck := `* pulse
V1 1 0 PULSE(0 5 1u 1n 1n 5u 10u)
R1 1 0 1k
.tran 1u 20u
`
	c, err := netlist.Parse(deck)
	assert.NoError(t, err)
	assert.NotNil(t, c.VoltageSources[0].Waveform)
	assert.Equal(t, 0.0, c.VoltageSources[0].Waveform.Eval(0))
}

func TestParsePWLWaveform(t *testing.T) {
	deck := `* pwl
V1 1 0 PWL(0 0 1m 5 2m 0)
R1 1 0 1k
.tran 1u 2m
`
	c, err := netlist.Parse(deck)
	assert.NoError(t, err)
	assert.InDelta(t, 5.0, c.VoltageSources[0].Waveform.Eval(1e-3), 1e-9)
}

func TestParseSwitchAndModel(t *testing.T) {
	deck := `* switch
VC c 0 DC 5
V1 1 0 DC 10
S1 1 2 c 0 SWMOD
RL 2 0 1k
.model SWMOD SW(RON=1 ROFF=1e9 VON=2 VOFF=1)
.tran 1m 5m
`
	c, err := netlist.Parse(deck)
	assert.NoError(t, err)
	assert.Len(t, c.Switches, 1)
	assert.NotNil(t, c.Switches[0].Model)
	assert.Equal(t, 1.0, c.Switches[0].Model.Ron)
	assert.Equal(t, 2.0, c.Switches[0].Model.Von)
}

func TestParseDiodeAndModel(t *testing.T) {
	deck := `* diode
V1 1 0 DC 5
R1 1 2 1k
D1 2 0 DMOD
.model DMOD D(IS=1e-12 N=1)
.tran 1u 1m
`
	c, err := netlist.Parse(deck)
	assert.NoError(t, err)
	assert.Len(t, c.Diodes, 1)
	assert.NotNil(t, c.Diodes[0].Model)
	assert.InDelta(t, 1e-12, c.Diodes[0].Model.Is, 1e-20)
}

func TestParsePrintProbes(t *testing.T) {
	deck := `* probes
V1 1 0 DC 5
R1 1 0 1k
.tran 1m 5m
.print 1
`
	c, err := netlist.Parse(deck)
	assert.NoError(t, err)
	assert.Equal(t, []string{"1"}, c.Probes)
}

func TestParsePrintProbesTranVNotation(t *testing.T) {
	deck := `* probes
V1 1 0 DC 5
R1 1 2 1k
R2 2 0 1k
.tran 1m 5m
.print TRAN V(2)
`
	c, err := netlist.Parse(deck)
	assert.NoError(t, err)
	assert.Equal(t, []string{"2"}, c.Probes)
}

func TestParseSwitchModelWithVtVh(t *testing.T) {
	deck := `* switch vt/vh
VC c 0 DC 5
V1 1 0 DC 10
S1 1 2 c 0 SWMOD
RL 2 0 1k
.model SWMOD SW(RON=1 ROFF=1e9 VT=1.5 VH=1)
.tran 1m 5m
`
	c, err := netlist.Parse(deck)
	assert.NoError(t, err)
	assert.InDelta(t, 2.0, c.SwitchModels["swmod"].Von, 1e-12)
	assert.InDelta(t, 1.0, c.SwitchModels["swmod"].Voff, 1e-12)
}

func TestParseUnresolvedModelFails(t *testing.T) {
	deck := `* missing model
V1 1 0 DC 5
R1 1 2 1k
D1 2 0 NOSUCHMODEL
.tran 1u 1m
`
	_, err := netlist.Parse(deck)
	assert.Error(t, err)
}
