// Package output formats analysis results for external consumption: CSV
// tables in the teacher cmd's print-results spirit, and a JSON series
// export for downstream plotting or inspection.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/cmplx"

	"mnasim/pkg/analysis"
	"mnasim/pkg/cplx"
)

// WriteTranCSV writes a header row ("time", then one column per node in
// nodes) followed by one row per recorded time step.
func WriteTranCSV(w io.Writer, res *analysis.TranResult, nodes []string) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := append([]string{"time"}, nodes...)
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for i, t := range res.Times {
		row[0] = fmt.Sprintf("%g", t)
		for j, n := range nodes {
			row[j+1] = fmt.Sprintf("%g", res.NodeVoltages[n][i])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

// WriteACCSV writes a header row ("freq", then "<node> mag" and
// "<node> phase_deg" per node) followed by one row per swept frequency.
func WriteACCSV(w io.Writer, res *analysis.ACResult, nodes []string) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"freq"}
	for _, n := range nodes {
		header = append(header, n+" mag", n+" phase_deg")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for i, f := range res.Freqs {
		row[0] = fmt.Sprintf("%g", f)
		for j, n := range nodes {
			v := res.NodeVoltages[n][i]
			row[1+2*j] = fmt.Sprintf("%g", cmplx.Abs(v))
			row[2+2*j] = fmt.Sprintf("%g", cplx.PhaseDeg(v))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}
