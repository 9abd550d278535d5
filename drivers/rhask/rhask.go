// Package rhask encodes and bit-bangs packets in the RadioHead ASK format
// understood by cheap 315/433 MHz OOK receivers (and by rtl_433).
//
// On the wire a packet is
//
//	preamble(6 x 0x2A) sync(0x38 0x2C) len from to id flags payload... fcs_lo fcs_hi
//
// where every byte after the sync word is sent as two 6-bit symbols (high
// nibble first) from a DC-balanced 4-to-6 table, and every symbol is sent
// least-significant bit first at a fixed bit rate. len counts itself, the
// four header bytes, the payload and the two FCS bytes. The FCS is the
// CCITT CRC-16 (reflected, seed 0xFFFF) over len..payload, sent complemented.
package rhask

import "envnode-go/errcode"

const (
	// PreambleLen is the number of training symbols.
	PreambleLen = 6
	// MaxPayloadLen is the largest payload one packet can carry.
	MaxPayloadLen = 60
	// DefaultBitRate is the bit rate in bits per second.
	DefaultBitRate = 2000

	preambleSymbol = 0x2A
	sync1          = 0x38
	sync2          = 0x2C

	// len + from + to + id + flags
	headerLen = 5
	fcsLen    = 2
	// Overhead is what len adds on top of the payload length.
	Overhead = headerLen + fcsLen

	fcsSeed = 0xFFFF
	// fcsResidue is what the CRC of a frame including its own complemented
	// FCS always evaluates to.
	fcsResidue = 0xF0B8

	maxSymbols = PreambleLen + 2 + 2*(MaxPayloadLen+Overhead)
)

// symbols maps a nibble to a 6-bit code with at most three equal bits in a
// row and balanced ones and zeros.
var symbols = [16]byte{
	0x0D, 0x0E, 0x13, 0x15, 0x16, 0x19, 0x1A, 0x1C,
	0x23, 0x25, 0x26, 0x29, 0x2A, 0x2C, 0x32, 0x34,
}

// ErrPayloadTooLong is returned for payloads over MaxPayloadLen.
var ErrPayloadTooLong = &errcode.E{C: errcode.InvalidParams, Op: "rhask", Msg: "payload too long"}

// Header is the RadioHead four-byte addressing header.
type Header struct {
	From  byte
	To    byte
	ID    byte
	Flags byte
}

// Broadcast is the RadioHead broadcast address.
const Broadcast = 0xFF

// UpdateFCS folds one byte into the running frame-check value. It is the
// table-free CCITT CRC-16 update (AVR libc _crc_ccitt_update).
func UpdateFCS(fcs uint16, b byte) uint16 {
	x := b ^ byte(fcs)
	x ^= x << 4
	return (uint16(x)<<8 | fcs>>8) ^ uint16(x>>4) ^ uint16(x)<<3
}

// SymbolCount returns the number of 6-bit symbols a packet with a payload of
// n bytes occupies on the wire.
func SymbolCount(n int) int { return PreambleLen + 2 + 2*(n+Overhead) }

// Encoder turns packets into symbol streams. The zero value is ready to use;
// it reuses its buffer, so the slice returned by Encode is only valid until
// the next call.
type Encoder struct {
	fcs uint16
	buf [maxSymbols]byte
	n   int
}

// Encode frames h and payload and returns the symbol stream.
func (e *Encoder) Encode(h Header, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadLen {
		return nil, ErrPayloadTooLong
	}
	e.n = 0
	e.fcs = fcsSeed

	for i := 0; i < PreambleLen; i++ {
		e.sextet(preambleSymbol)
	}
	e.sextet(sync1)
	e.sextet(sync2)

	e.bytes(byte(len(payload)+Overhead), h.From, h.To, h.ID, h.Flags)
	e.bytes(payload...)

	crc := ^e.fcs
	e.bytes(byte(crc), byte(crc>>8))

	return e.buf[:e.n], nil
}

func (e *Encoder) sextet(s byte) {
	e.buf[e.n] = s
	e.n++
}

func (e *Encoder) bytes(bs ...byte) {
	for _, b := range bs {
		e.sextet(symbols[b>>4])
		e.sextet(symbols[b&0x0F])
		e.fcs = UpdateFCS(e.fcs, b)
	}
}
