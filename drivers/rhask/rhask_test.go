package rhask

import (
	"errors"
	"testing"

	"envnode-go/errcode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFCSKnownVector(t *testing.T) {
	// CRC-16/X-25 check value.
	fcs := uint16(fcsSeed)
	for _, b := range []byte("123456789") {
		fcs = UpdateFCS(fcs, b)
	}
	assert.Equal(t, uint16(0x906E), ^fcs)
}

func TestSymbolTableBalanced(t *testing.T) {
	seen := map[byte]bool{}
	for n, s := range symbols {
		require.Less(t, s, byte(64), "nibble %x", n)
		require.False(t, seen[s], "duplicate symbol %x", s)
		seen[s] = true

		ones, run, maxRun := 0, 0, 0
		prev := -1
		for i := 0; i < 6; i++ {
			bit := int(s>>i) & 1
			ones += bit
			if bit == prev {
				run++
			} else {
				run = 1
			}
			prev = bit
			if run > maxRun {
				maxRun = run
			}
		}
		assert.Equal(t, 3, ones, "symbol %#x not balanced", s)
		assert.LessOrEqual(t, maxRun, 3, "symbol %#x has a long run", s)

		got, ok := DecodeSymbol(s)
		require.True(t, ok)
		assert.Equal(t, byte(n), got)
	}
	_, ok := DecodeSymbol(0x00)
	assert.False(t, ok)
	_, ok = DecodeSymbol(0x3F)
	assert.False(t, ok)
}

func TestEncodeRoundTrip(t *testing.T) {
	var e Encoder
	h := Header{From: Broadcast, To: Broadcast, ID: 0xED, Flags: 0}
	payload := []byte{0x01, 0x02}

	syms, err := e.Encode(h, payload)
	require.NoError(t, err)
	require.Len(t, syms, SymbolCount(len(payload)))

	for i := 0; i < PreambleLen; i++ {
		assert.Equal(t, byte(preambleSymbol), syms[i])
	}
	assert.Equal(t, byte(sync1), syms[PreambleLen])
	assert.Equal(t, byte(sync2), syms[PreambleLen+1])

	// Decode every byte after the sync word with the inverse table.
	body := syms[PreambleLen+2:]
	require.Equal(t, 0, len(body)%2)
	raw := make([]byte, 0, len(body)/2)
	for i := 0; i < len(body); i += 2 {
		hi, ok1 := DecodeSymbol(body[i])
		lo, ok2 := DecodeSymbol(body[i+1])
		require.True(t, ok1 && ok2)
		raw = append(raw, hi<<4|lo)
	}
	require.Equal(t, byte(len(payload)+7), raw[0])
	assert.Equal(t, []byte{9, 0xFF, 0xFF, 0xED, 0x00, 0x01, 0x02}, raw[:7])

	// Recompute the FCS over header and payload and compare with what went out.
	fcs := uint16(fcsSeed)
	for _, b := range raw[:len(raw)-2] {
		fcs = UpdateFCS(fcs, b)
	}
	sent := uint16(raw[len(raw)-2]) | uint16(raw[len(raw)-1])<<8
	assert.Equal(t, ^fcs, sent)

	p, err := Decode(syms)
	require.NoError(t, err)
	assert.Equal(t, h, p.Header)
	assert.Equal(t, payload, p.Payload)
	assert.Equal(t, sent, p.FCS)
}

func TestEncodeLimits(t *testing.T) {
	var e Encoder
	syms, err := e.Encode(Header{}, make([]byte, MaxPayloadLen))
	require.NoError(t, err)
	assert.Len(t, syms, maxSymbols)

	_, err = e.Encode(Header{}, make([]byte, MaxPayloadLen+1))
	assert.ErrorIs(t, err, ErrPayloadTooLong)

	syms, err = e.Encode(Header{ID: 1}, nil)
	require.NoError(t, err)
	p, err := Decode(syms)
	require.NoError(t, err)
	assert.Empty(t, p.Payload)
}

func TestDecodeRejectsCorruption(t *testing.T) {
	var e Encoder
	syms, err := e.Encode(Header{From: 1, To: 2, ID: 3}, []byte{0xAA, 0x55, 0x10})
	require.NoError(t, err)

	_, err = Decode(syms[:PreambleLen])
	assert.ErrorIs(t, err, ErrNoSync)

	// Swap one payload symbol for another valid one: symbols decode but the
	// FCS no longer matches.
	bad := append([]byte(nil), syms...)
	idx := PreambleLen + 2 + 2*5
	if bad[idx] == symbols[0] {
		bad[idx] = symbols[1]
	} else {
		bad[idx] = symbols[0]
	}
	_, err = Decode(bad)
	assert.ErrorIs(t, err, ErrBadFCS)
	assert.Equal(t, errcode.WrongChecksum, errcode.Of(err))

	bad = append([]byte(nil), syms...)
	bad[idx] = 0x3F
	_, err = Decode(bad)
	assert.ErrorIs(t, err, ErrBadSymbol)

	_, err = Decode(syms[:len(syms)-1])
	assert.ErrorIs(t, err, ErrBadLength)
}

// recPin records every level it is driven to and can fail on demand.
type recPin struct {
	levels []bool
	failAt int // 1-based Set call that fails; 0 never
	calls  int
}

func (p *recPin) Set(high bool) error {
	p.calls++
	if p.failAt != 0 && p.calls == p.failAt {
		return errors.New("gpio write failed")
	}
	p.levels = append(p.levels, high)
	return nil
}

type countTimer struct {
	hz    uint32
	waits int
}

func (c *countTimer) Start(hz uint32) { c.hz = hz }
func (c *countTimer) Wait()           { c.waits++ }

func TestTransmitterBitStream(t *testing.T) {
	pin := &recPin{}
	tim := &countTimer{}
	tx, err := NewTransmitter(pin, tim)
	require.NoError(t, err)
	require.Equal(t, []bool{false}, pin.levels)
	pin.levels = nil

	payload := []byte{0x34, 0x12}
	require.NoError(t, tx.Send(Header{From: 0xFF, To: 0xFF, ID: 0xEE}, payload))

	bits := SymbolCount(len(payload)) * 6
	assert.Equal(t, uint32(DefaultBitRate), tim.hz)
	assert.Equal(t, bits, tim.waits)
	require.Len(t, pin.levels, bits+1)
	assert.False(t, pin.levels[bits], "line must idle low")

	// Preamble goes out as alternating 0/1 starting with the LSB of 0x2A.
	assert.Equal(t, []bool{false, true, false, true, false, true}, pin.levels[:6])

	p, err := Decode(SymbolsFromBits(pin.levels[:bits]))
	require.NoError(t, err)
	assert.Equal(t, byte(0xEE), p.ID)
	assert.Equal(t, payload, p.Payload)
}

func TestTransmitterPortError(t *testing.T) {
	pin := &recPin{}
	tim := &countTimer{}
	tx, err := NewTransmitter(pin, tim)
	require.NoError(t, err)

	pin.failAt = 40
	err = tx.Send(Header{ID: 1}, []byte{1})
	require.Error(t, err)
	assert.Equal(t, errcode.Port, errcode.Of(err))
	assert.Less(t, tim.waits, SymbolCount(1)*6)
	assert.False(t, pin.levels[len(pin.levels)-1], "aborted frame must leave the line low")

	// The next packet is unaffected.
	pin.failAt = 0
	assert.NoError(t, tx.Send(Header{ID: 2}, []byte{2}))
}

func TestNewTransmitterPinFailure(t *testing.T) {
	_, err := NewTransmitter(&recPin{failAt: 1}, &countTimer{})
	assert.Equal(t, errcode.Port, errcode.Of(err))
}
