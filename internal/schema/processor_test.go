package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcess_TwoByteSwap(t *testing.T) {
	// S1 from spec §8: EAMT [0x12, 0x34] -> [0x34, 0x12].
	reg := Default()
	sig := [4]byte{'E', 'A', 'M', 'T'}
	rec := [4]byte{'A', 'M', 'M', 'O'}
	out, err := Process(reg, sig, rec, []byte{0x12, 0x34}, false)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x34, 0x12}, out)
}

func TestProcess_CTDA(t *testing.T) {
	// S2 from spec §8.
	reg := Default()
	sig := [4]byte{'C', 'T', 'D', 'A'}
	rec := [4]byte{'I', 'N', 'F', 'O'}
	data := make([]byte, 28)
	data[4], data[5], data[6], data[7] = 0x41, 0x20, 0x00, 0x00
	data[8], data[9] = 0x00, 0x05

	out, err := Process(reg, sig, rec, data, false)
	require.NoError(t, err)
	assert.Equal(t, []byte{data[0], data[1], data[2], data[3]}, out[:4])
	assert.Equal(t, []byte{0x00, 0x00, 0x20, 0x41}, out[4:8])
	assert.Equal(t, []byte{0x05, 0x00}, out[8:10])
}

func TestProcess_StringSubrecordPassthrough(t *testing.T) {
	reg := Default()
	sig := [4]byte{'E', 'D', 'I', 'D'}
	rec := [4]byte{'A', 'R', 'M', 'O'}
	data := []byte("SomeEditorID\x00")
	out, err := Process(reg, sig, rec, data, true)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestProcess_UnknownPermissivePassthrough(t *testing.T) {
	reg := Default()
	sig := [4]byte{'Z', 'Z', 'Z', 'Z'}
	rec := [4]byte{'Z', 'Z', 'Z', 'Z'}
	data := []byte{1, 2, 3}
	out, err := Process(reg, sig, rec, data, false)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestProcess_UnknownStrictErrors(t *testing.T) {
	reg := Default()
	sig := [4]byte{'Z', 'Z', 'Z', 'Z'}
	rec := [4]byte{'Z', 'Z', 'Z', 'Z'}
	data := []byte{1, 2, 3}
	_, err := Process(reg, sig, rec, data, true)
	assert.ErrorIs(t, err, ErrUnknownSubrecord)
}

func TestProcess_UnknownFourByteSwapsAsU32(t *testing.T) {
	reg := Default()
	sig := [4]byte{'Z', 'Z', 'Z', 'Z'}
	rec := [4]byte{'Z', 'Z', 'Z', 'Z'}
	out, err := Process(reg, sig, rec, []byte{0x01, 0x02, 0x03, 0x04}, false)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, out)
}

func TestApplySchema_FieldExtendingBeyondBufferStopsGracefully(t *testing.T) {
	s := Schema{Fields: []Field{
		f("a", UInt32),
		f("b", UInt32),
	}, ExpectedSize: 8}
	// Only 6 bytes for an 8-byte schema: the second field must not panic
	// and the first field still converts.
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	var out []byte
	assert.NotPanics(t, func() {
		out = applySchema(s, data)
	})
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, out[:4])
	assert.Equal(t, []byte{0x05, 0x06}, out[4:6])
}
