package output_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"mnasim/pkg/analysis"
	"mnasim/pkg/output"
)

func TestWriteTranCSV(t *testing.T) {
	res := &analysis.TranResult{
		Times: []float64{0, 1, 2},
		NodeVoltages: map[string][]float64{
			"1": {0, 5, 10},
		},
	}
	var buf strings.Builder
	err := output.WriteTranCSV(&buf, res, []string{"1"})
	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "time,1", lines[0])
	assert.Len(t, lines, 4)
}

func TestWriteACCSV(t *testing.T) {
	res := &analysis.ACResult{
		Freqs: []float64{1, 10},
		NodeVoltages: map[string][]complex128{
			"out": {complex(1, 0), complex(0, 1)},
		},
	}
	var buf strings.Builder
	err := output.WriteACCSV(&buf, res, []string{"out"})
	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "freq,out mag,out phase_deg", lines[0])
	assert.Len(t, lines, 3)
}

func TestMarshalSeries(t *testing.T) {
	s := output.TranSeries([]float64{0, 1}, []float64{0, 5}, "node1")
	data, err := output.MarshalSeries([]output.Series{s})
	assert.NoError(t, err)
	assert.Contains(t, string(data), "node1")
}
