package rhask

import "envnode-go/errcode"

// Decoder errors.
var (
	ErrNoSync    = &errcode.E{C: errcode.Protocol, Op: "rhask.decode", Msg: "no sync word"}
	ErrBadSymbol = &errcode.E{C: errcode.Protocol, Op: "rhask.decode", Msg: "invalid symbol"}
	ErrBadLength = &errcode.E{C: errcode.IncompletePacket, Op: "rhask.decode", Msg: "bad length"}
	ErrBadFCS    = &errcode.E{C: errcode.WrongChecksum, Op: "rhask.decode", Msg: "fcs mismatch"}
)

// Packet is a decoded frame.
type Packet struct {
	Header
	Payload []byte
	// FCS is the frame-check value as transmitted (already complemented).
	FCS uint16
}

var nibbles = func() (t [64]byte) {
	for i := range t {
		t[i] = 0xFF
	}
	for n, s := range symbols {
		t[s] = byte(n)
	}
	return t
}()

// DecodeSymbol maps a 6-bit symbol back to its nibble.
func DecodeSymbol(s byte) (byte, bool) {
	if s >= 64 || nibbles[s] == 0xFF {
		return 0, false
	}
	return nibbles[s], true
}

// SymbolsFromBits packs a captured bit stream, least-significant bit first,
// into 6-bit symbols. A trailing partial symbol is dropped.
func SymbolsFromBits(bits []bool) []byte {
	out := make([]byte, 0, len(bits)/6)
	for i := 0; i+6 <= len(bits); i += 6 {
		var s byte
		for j := 0; j < 6; j++ {
			if bits[i+j] {
				s |= 1 << j
			}
		}
		out = append(out, s)
	}
	return out
}

// Decode finds the sync word in a symbol stream and decodes the frame that
// follows it. The FCS is checked by running the CRC over the whole frame,
// FCS included, and comparing against the fixed residue.
func Decode(syms []byte) (Packet, error) {
	start := -1
	for i := 0; i+1 < len(syms); i++ {
		if syms[i] == sync1 && syms[i+1] == sync2 {
			start = i + 2
			break
		}
	}
	if start < 0 {
		return Packet{}, ErrNoSync
	}
	body := syms[start:]

	readByte := func(i int) (byte, error) {
		if 2*i+1 >= len(body) {
			return 0, ErrBadLength
		}
		hi, ok1 := DecodeSymbol(body[2*i])
		lo, ok2 := DecodeSymbol(body[2*i+1])
		if !ok1 || !ok2 {
			return 0, ErrBadSymbol
		}
		return hi<<4 | lo, nil
	}

	n, err := readByte(0)
	if err != nil {
		return Packet{}, err
	}
	if int(n) < Overhead || int(n) > MaxPayloadLen+Overhead {
		return Packet{}, ErrBadLength
	}

	frame := make([]byte, n)
	fcs := uint16(fcsSeed)
	for i := range frame {
		b, err := readByte(i)
		if err != nil {
			return Packet{}, err
		}
		frame[i] = b
		fcs = UpdateFCS(fcs, b)
	}
	if fcs != fcsResidue {
		return Packet{}, ErrBadFCS
	}

	return Packet{
		Header: Header{
			From:  frame[1],
			To:    frame[2],
			ID:    frame[3],
			Flags: frame[4],
		},
		Payload: frame[headerLen : n-fcsLen],
		FCS:     uint16(frame[n-2]) | uint16(frame[n-1])<<8,
	}, nil
}
