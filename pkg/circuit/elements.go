package circuit

import (
	"fmt"
	"math"

	"mnasim/internal/consts"
	"mnasim/pkg/cplx"
	"mnasim/pkg/matrix"
	"mnasim/pkg/waveform"
)

// Epsilon is the general degeneracy floor for the switch resistance and
// the transient time step; it has the same value as the
// Gaussian-elimination pivot floor mnasim/pkg/linsolve.Epsilon. The
// inductor's AC admittance uses mnasim/pkg/cplx's own degeneracy check.
const Epsilon = 1e-15

// Resistor is a linear two-terminal conductance.
type Resistor struct {
	Name   string
	N1, N2 int
	R      float64
}

func (r *Resistor) StampAC(m *matrix.Complex, _ float64) error {
	if r.R <= 0 {
		return fmt.Errorf("%w: resistor %s has non-positive resistance %g", ErrBadElementValue, r.Name, r.R)
	}
	y := complex(1.0/r.R, 0)
	m.StampAdmittance(MatrixIndex(r.N1), MatrixIndex(r.N2), y)
	return nil
}

func (r *Resistor) StampTran(m *matrix.Real) error {
	if r.R <= 0 {
		return fmt.Errorf("%w: resistor %s has non-positive resistance %g", ErrBadElementValue, r.Name, r.R)
	}
	m.StampAdmittance(MatrixIndex(r.N1), MatrixIndex(r.N2), 1.0/r.R)
	return nil
}

// Current returns (v1-v2)/R given the two terminal voltages.
func (r *Resistor) Current(v1, v2 float64) float64 {
	return (v1 - v2) / r.R
}

// Capacitor is a linear two-terminal capacitance with backward-Euler
// companion-model state carried between transient steps.
type Capacitor struct {
	Name   string
	N1, N2 int
	C      float64
	VPrev  float64
	IPrev  float64
}

func (c *Capacitor) StampAC(m *matrix.Complex, omega float64) {
	y := complex(0, omega*c.C)
	m.StampAdmittance(MatrixIndex(c.N1), MatrixIndex(c.N2), y)
}

// StampTran stamps the backward-Euler companion model: Gc = C/dt between
// terminals, plus a current source of magnitude -Gc*VPrev from n1 to n2.
func (c *Capacitor) StampTran(m *matrix.Real, dt float64) {
	i1, i2 := MatrixIndex(c.N1), MatrixIndex(c.N2)
	gc := c.C / dt
	m.StampAdmittance(i1, i2, gc)
	m.StampCurrent(i1, i2, -gc*c.VPrev)
}

// Current returns the backward-Euler branch current C*((v1-v2)-VPrev)/dt.
func (c *Capacitor) Current(v1, v2, dt float64) float64 {
	return c.C * ((v1 - v2) - c.VPrev) / dt
}

// Inductor is a linear two-terminal inductance with backward-Euler Norton
// companion-model state carried between transient steps.
type Inductor struct {
	Name   string
	N1, N2 int
	L      float64
	VPrev  float64
	IPrev  float64
}

func (l *Inductor) StampAC(m *matrix.Complex, omega float64) {
	zl := complex(0, omega*l.L)
	y, err := cplx.Reciprocal(zl)
	if err != nil {
		y = 0
	}
	m.StampAdmittance(MatrixIndex(l.N1), MatrixIndex(l.N2), y)
}

// StampTran stamps the backward-Euler Norton companion model: Gl = dt/L
// between terminals, plus a current source of magnitude IPrev from n1 to n2.
func (l *Inductor) StampTran(m *matrix.Real, dt float64) float64 {
	i1, i2 := MatrixIndex(l.N1), MatrixIndex(l.N2)
	gl := dt / l.L
	m.StampAdmittance(i1, i2, gl)
	m.StampCurrent(i1, i2, l.IPrev)
	return gl
}

// Current returns the companion-form branch current Gl*(v1-v2) + IPrev.
func (l *Inductor) Current(gl, v1, v2 float64) float64 {
	return gl*(v1-v2) + l.IPrev
}

// VoltageSource is an independent voltage source with a DC value, an AC
// small-signal phasor, and an optional time-domain waveform that governs
// its value during transient analysis.
type VoltageSource struct {
	Name       string
	N1, N2     int
	DC         float64
	ACMag      float64
	ACPhaseDeg float64
	Waveform   *waveform.Waveform // nil means "use DC" during TRAN
	Index      int                // MNA branch-current variable, assigned by Circuit.Finalize
}

func (v *VoltageSource) StampAC(m *matrix.Complex) {
	i1, i2 := MatrixIndex(v.N1), MatrixIndex(v.N2)
	phasor := complex(0, 0)
	if v.ACMag != 0 {
		phasor = cplx.FromPolar(v.ACMag, v.ACPhaseDeg)
	}
	m.StampVoltageSource(i1, i2, v.Index, phasor)
}

func (v *VoltageSource) StampTran(m *matrix.Real, t float64) {
	i1, i2 := MatrixIndex(v.N1), MatrixIndex(v.N2)
	val := v.DC
	if v.Waveform != nil {
		val = v.Waveform.Eval(t)
	}
	m.StampVoltageSource(i1, i2, v.Index, val)
}

// SwitchModel holds the resistive/hysteresis parameters a Switch resolves
// its behavior from.
type SwitchModel struct {
	Name      string
	Ron, Roff float64
	Von, Voff float64
}

// Switch is a voltage-controlled switch: its terminal resistance depends
// on a control-node voltage difference evaluated each Newton iteration,
// with hysteresis between Von and Voff.
type Switch struct {
	Name         string
	N1, N2       int
	NCPos, NCNeg int
	ModelName    string
	Model        *SwitchModel
	IsOn         bool
}

// EffectiveResistance returns max(|Ron| or |Roff|, Epsilon) per the
// switch's current discrete state.
func (s *Switch) EffectiveResistance() float64 {
	r := s.Model.Roff
	if s.IsOn {
		r = s.Model.Ron
	}
	r = math.Abs(r)
	if r < Epsilon {
		return Epsilon
	}
	return r
}

func (s *Switch) StampTran(m *matrix.Real) {
	m.StampAdmittance(MatrixIndex(s.N1), MatrixIndex(s.N2), 1.0/s.EffectiveResistance())
}

// UpdateState applies the switch's ON/OFF hysteresis given the latest
// control voltage; returns true if the state changed.
func (s *Switch) UpdateState(vc float64) bool {
	const tol = 1e-6
	switch {
	case s.IsOn && vc <= s.Model.Voff+tol:
		s.IsOn = false
		return true
	case !s.IsOn && vc >= s.Model.Von-tol:
		s.IsOn = true
		return true
	default:
		return false
	}
}

// Current returns (v1-v2)/Reff for the switch's current discrete state.
func (s *Switch) Current(v1, v2 float64) float64 {
	return (v1 - v2) / s.EffectiveResistance()
}

// DiodeModel holds the Shockley saturation current and emission coefficient.
type DiodeModel struct {
	Name string
	Is   float64
	N    float64
}

// refTempC is the reference junction temperature in Celsius this engine's
// diode model runs at; combined with consts.KELVIN it gives the 300K
// reference temperature used for ThermalVoltageAt300K.
const refTempC = 26.85

// ThermalVoltageAt300K is kT/q evaluated at 300K, the reference
// temperature this engine's diode model runs at.
var ThermalVoltageAt300K = consts.BOLTZMANN * (refTempC + consts.KELVIN) / consts.CHARGE

// Diode is a Shockley-model diode: id = Is*(exp(vd/(N*Vth)) - 1).
type Diode struct {
	Name          string
	NPlus, NMinus int
	ModelName     string
	Model         *DiodeModel
	VdPrev        float64
}

// Linearization holds the operating-point conductance/current a diode's
// companion model was built from, for reuse when recording branch current.
type Linearization struct {
	Gd, Id, Vd float64
}

// Linearize clamps vd to [-1.0, 0.8], computes the Shockley exponential,
// and returns the small-signal conductance and operating-point current.
func (d *Diode) Linearize(vd float64) Linearization {
	vt := d.Model.N * ThermalVoltageAt300K
	clamped := vd
	if clamped < -1.0 {
		clamped = -1.0
	} else if clamped > 0.8 {
		clamped = 0.8
	}
	expv := math.Exp(clamped / vt)
	gd := d.Model.Is / vt * expv
	if gd < 1e-12 {
		gd = 1e-12
	}
	id := d.Model.Is * (expv - 1)
	return Linearization{Gd: gd, Id: id, Vd: clamped}
}

// StampTran stamps the diode's companion model: admittance Gd between
// n+ and n-, plus a current source ieq = id - Gd*vd injected from n+ to n-.
func (d *Diode) StampTran(m *matrix.Real, lz Linearization) {
	i1, i2 := MatrixIndex(d.NPlus), MatrixIndex(d.NMinus)
	ieq := lz.Id - lz.Gd*lz.Vd
	m.StampAdmittance(i1, i2, lz.Gd)
	m.StampCurrent(i1, i2, ieq)
}

// Current returns the unclamped post-iteration diode current
// Is*(exp((v1-v2)/Vt) - 1), used for recording rather than stamping.
func (d *Diode) Current(v1, v2 float64) float64 {
	vt := d.Model.N * ThermalVoltageAt300K
	return d.Model.Is * (math.Exp((v1-v2)/vt) - 1)
}
