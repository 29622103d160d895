package circuit

import (
	"fmt"
	"strings"
)

// ACSpec configures a frequency sweep: Mode is "dec", "oct", or "lin",
// N is points-per-decade/octave (dec/oct) or total points (lin), and
// F1/F2 bound the sweep in Hz.
type ACSpec struct {
	Mode   string
	N      int
	F1, F2 float64
}

// TranSpec configures a fixed-step transient run from t=0 to Tstop.
type TranSpec struct {
	Dt    float64
	Tstop float64
}

// Circuit is the fully-parsed, index-resolved netlist: node numbering,
// typed element lists, named models, and the analyses requested for it.
type Circuit struct {
	Title string
	Nodes *NodeIndex

	Resistors      []*Resistor
	Capacitors     []*Capacitor
	Inductors      []*Inductor
	VoltageSources []*VoltageSource
	Switches       []*Switch
	Diodes         []*Diode

	SwitchModels map[string]*SwitchModel
	DiodeModels  map[string]*DiodeModel

	AC     *ACSpec
	TRAN   *TranSpec
	Probes []string

	nvar int
}

// NewCircuit returns an empty circuit ready to be populated by a netlist builder.
func NewCircuit() *Circuit {
	return &Circuit{
		Nodes:        NewNodeIndex(),
		SwitchModels: make(map[string]*SwitchModel),
		DiodeModels:  make(map[string]*DiodeModel),
	}
}

// Nvar returns the total MNA unknown count after Finalize has run:
// one per non-ground node, plus one per voltage source branch current.
func (c *Circuit) Nvar() int {
	return c.nvar
}

// Finalize resolves every Switch/Diode model reference, assigns each
// voltage source's branch-current variable index, and computes Nvar.
// It must be called once, after the netlist is fully parsed and before
// any analysis runs.
func (c *Circuit) Finalize() error {
	nonGround := c.Nodes.Count() - 1

	for _, sw := range c.Switches {
		model, ok := c.SwitchModels[strings.ToLower(sw.ModelName)]
		if !ok {
			return fmt.Errorf("%w: switch %s references model %q", ErrUnresolvedModel, sw.Name, sw.ModelName)
		}
		sw.Model = model
	}
	for _, d := range c.Diodes {
		model, ok := c.DiodeModels[strings.ToLower(d.ModelName)]
		if !ok {
			return fmt.Errorf("%w: diode %s references model %q", ErrUnresolvedModel, d.Name, d.ModelName)
		}
		d.Model = model
	}

	for k, v := range c.VoltageSources {
		v.Index = nonGround + k
	}

	c.nvar = nonGround + len(c.VoltageSources)
	return nil
}
