package format

import "testing"

func TestSwap2(t *testing.T) {
	b := []byte{0x12, 0x34}
	Swap2(b, 0)
	if b[0] != 0x34 || b[1] != 0x12 {
		t.Fatalf("Swap2 = %x", b)
	}
}

func TestSwap4(t *testing.T) {
	b := []byte{0x00, 0x00, 0x20, 0x41}
	Swap4(b, 0)
	if b[0] != 0x41 || b[1] != 0x20 || b[2] != 0x00 || b[3] != 0x00 {
		t.Fatalf("Swap4 = %x", b)
	}
}

func TestSwap8(t *testing.T) {
	b := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	Swap8(b, 0)
	want := []byte{8, 7, 6, 5, 4, 3, 2, 1}
	for i := range want {
		if b[i] != want[i] {
			t.Fatalf("Swap8 = %x, want %x", b, want)
		}
	}
}

func TestSignatureValid(t *testing.T) {
	cases := []struct {
		sig  [4]byte
		want bool
	}{
		{[4]byte{'G', 'R', 'U', 'P'}, true},
		{[4]byte{'T', 'E', 'S', '4'}, true},
		{[4]byte{'a', 'b', 'c', 'd'}, false},
		{[4]byte{' ', 'R', 'U', 'P'}, false},
	}
	for _, c := range cases {
		if got := SignatureValid(c.sig); got != c.want {
			t.Errorf("SignatureValid(%q) = %v, want %v", c.sig, got, c.want)
		}
	}
}

func TestReverseSignature(t *testing.T) {
	sig := [4]byte{'P', 'U', 'R', 'G'}
	got := ReverseSignature(sig)
	want := [4]byte{'G', 'R', 'U', 'P'}
	if got != want {
		t.Fatalf("ReverseSignature = %q, want %q", got, want)
	}
	if ReverseSignature(got) != sig {
		t.Fatalf("ReverseSignature is not its own inverse")
	}
}

func TestSignExtend32(t *testing.T) {
	cases := []struct {
		in   uint32
		want int32
	}{
		{0x0000_0000, 0},
		{0x0000_0001, 1},
		{0x7FFF_FFFF, 0x7FFF_FFFF},
		{0x8000_0000, -2147483648},
		{0xFFFF_FFFF, -1},
	}
	for _, c := range cases {
		if got := SignExtend32(c.in); got != c.want {
			t.Errorf("SignExtend32(0x%X) = %d, want %d", c.in, got, c.want)
		}
	}
}
