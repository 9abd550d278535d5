package mathx

import "testing"

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Fatalf("Clamp hi: %d", got)
	}
	if got := Clamp(-1, 3, 0); got != 0 {
		t.Fatalf("Clamp swapped: %d", got)
	}
	if got := Clamp(uint16(7), 1, 9); got != 7 {
		t.Fatalf("Clamp mid: %d", got)
	}
}

func TestSatInc(t *testing.T) {
	var n uint8
	for i := 0; i < 20; i++ {
		n = SatInc(n, 8)
	}
	if n != 8 {
		t.Fatalf("SatInc saturate: %d", n)
	}
	if got := SatInc(uint8(254), 255); got != 255 {
		t.Fatalf("SatInc edge: %d", got)
	}
}
