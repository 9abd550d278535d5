package conv

import "testing"

func TestAppendUint(t *testing.T) {
	cases := map[uint64]string{0: "0", 7: "7", 42: "42", 65535: "65535"}
	for in, want := range cases {
		if got := string(AppendUint([]byte("n="), in)); got != "n="+want {
			t.Fatalf("AppendUint(%d)=%q want %q", in, got, "n="+want)
		}
	}
}

func TestAppendCenti(t *testing.T) {
	cases := map[int64]string{2105: "21.05", 2150: "21.50", -50: "-0.50", 0: "0.00", -1234: "-12.34"}
	for in, want := range cases {
		if got := string(AppendCenti(nil, in)); got != want {
			t.Fatalf("AppendCenti(%d)=%q want %q", in, got, want)
		}
	}
}

func TestAppendHex8(t *testing.T) {
	if got := string(AppendHex8([]byte("0x"), 0xED)); got != "0xED" {
		t.Fatalf("AppendHex8=%q", got)
	}
}
