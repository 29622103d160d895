package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mnasim/pkg/matrix"
)

func TestStampAdmittanceSkipsGround(t *testing.T) {
	m := matrix.NewReal(1)
	m.StampAdmittance(-1, 0, 2.0)
	assert.Equal(t, 2.0, m.A[0][0])
}

func TestStampAdmittanceCommutes(t *testing.T) {
	a := matrix.NewReal(2)
	a.StampAdmittance(0, 1, 3.0)

	b := matrix.NewReal(2)
	b.StampAdmittance(1, 0, 3.0)

	assert.Equal(t, a.A, b.A)
}

func TestResistiveDividerSolve(t *testing.T) {
	// two 1k resistors from node1(=10V fixed via source) to node2 to ground
	m := matrix.NewReal(3) // node1, node2, branch for V1
	g := 1.0 / 1000.0
	m.StampAdmittance(0, 1, g) // R1 between node1(0) and node2(1)
	m.StampAdmittance(1, -1, g) // R2 between node2(1) and ground
	m.StampVoltageSource(0, -1, 2, 10.0)

	x, err := m.Solve()
	assert.NoError(t, err)
	assert.InDelta(t, 10.0, x[0], 1e-9)
	assert.InDelta(t, 5.0, x[1], 1e-9)
}
