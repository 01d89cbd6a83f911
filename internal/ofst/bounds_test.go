package ofst

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatsLE(vals ...float32) []byte {
	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func TestComputeGridBounds_S4Scenario(t *testing.T) {
	nam0 := floatsLE(-8192, -8192, 0)
	nam9 := floatsLE(8192, 8192, 0)

	minX, minY, maxX, maxY, ok := ComputeGridBounds(nam0, nam9)
	assert.True(t, ok)
	assert.EqualValues(t, -2, minX)
	assert.EqualValues(t, -2, minY)
	assert.EqualValues(t, 2, maxX)
	assert.EqualValues(t, 2, maxY)
}

func TestComputeGridBounds_NaNAndHugeTreatedAsZero(t *testing.T) {
	nam0 := floatsLE(float32(math.NaN()), -8192, 0)
	nam9 := floatsLE(1e25, 8192, 0)

	minX, minY, maxX, maxY, ok := ComputeGridBounds(nam0, nam9)
	assert.True(t, ok)
	assert.EqualValues(t, 0, minX)
	assert.EqualValues(t, -2, minY)
	assert.EqualValues(t, 0, maxX)
	assert.EqualValues(t, 2, maxY)
}

func TestResolveGridShape_ExactMatch(t *testing.T) {
	columns, rows, ok := ResolveGridShape(-2, -2, 2, 2, 25)
	assert.True(t, ok)
	assert.Equal(t, 5, columns)
	assert.Equal(t, 5, rows)
}

func TestResolveGridShape_FallsBackToColumnDivisor(t *testing.T) {
	// bounds say 5 columns x 5 rows (25) but n is 10: falls back to n/columns.
	columns, rows, ok := ResolveGridShape(-2, -2, 2, 2, 10)
	assert.True(t, ok)
	assert.Equal(t, 5, columns)
	assert.Equal(t, 2, rows)
}

func TestResolveGridShape_NeitherDivides(t *testing.T) {
	_, _, ok := ResolveGridShape(-2, -2, 2, 2, 7)
	assert.False(t, ok)
}
