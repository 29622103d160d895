// Package mnasim is a modified-nodal-analysis circuit simulator: parse a
// SPICE-style netlist, then run its requested AC sweep and/or transient
// analysis.
package mnasim

import (
	"mnasim/pkg/analysis"
	"mnasim/pkg/circuit"
	"mnasim/pkg/netlist"
)

// Result bundles a parsed circuit with whichever analyses its netlist requested.
type Result struct {
	Circuit *circuit.Circuit
	AC      *analysis.ACResult
	TRAN    *analysis.TranResult
}

// Simulate parses a netlist and runs every analysis it declares.
func Simulate(text string) (*Result, error) {
	c, err := netlist.Parse(text)
	if err != nil {
		return nil, err
	}

	res := &Result{Circuit: c}
	if c.AC != nil {
		res.AC, err = analysis.RunAC(c)
		if err != nil {
			return nil, err
		}
	}
	if c.TRAN != nil {
		res.TRAN, err = analysis.RunTRAN(c)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// RunAC runs c's configured AC sweep.
func RunAC(c *circuit.Circuit) (*analysis.ACResult, error) {
	return analysis.RunAC(c)
}

// RunTRAN runs c's configured transient analysis.
func RunTRAN(c *circuit.Circuit) (*analysis.TranResult, error) {
	return analysis.RunTRAN(c)
}
