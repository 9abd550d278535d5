package rhask

import "envnode-go/errcode"

// Pin is a digital output driving the transmitter's data line.
type Pin interface {
	Set(high bool) error
}

// BitTimer paces the bit stream: Start arms a periodic event at hz, Wait
// blocks until the next period boundary.
type BitTimer interface {
	Start(hz uint32)
	Wait()
}

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// BitRate defaults to DefaultBitRate.
	BitRate uint32
}

// Transmitter bit-bangs packets on a single pin.
type Transmitter struct {
	pin   Pin
	timer BitTimer
	cfg   Config
	enc   Encoder
}

// NewTransmitter takes ownership of pin and timer and drives the pin low.
func NewTransmitter(pin Pin, timer BitTimer) (*Transmitter, error) {
	if err := pin.Set(false); err != nil {
		return nil, errcode.Wrap(errcode.Port, "rhask.init", err)
	}
	t := &Transmitter{pin: pin, timer: timer}
	t.Configure(Config{})
	return t, nil
}

// Configure applies cfg, filling defaults for zero fields.
func (t *Transmitter) Configure(cfg Config) {
	if cfg.BitRate == 0 {
		cfg.BitRate = DefaultBitRate
	}
	t.cfg = cfg
}

// Send encodes and transmits one packet. It blocks for the whole frame,
// SymbolCount(len(payload))*6 bit periods. A pin failure aborts the frame and
// is reported with errcode.Port; the receiver discards the partial frame on
// its FCS check.
func (t *Transmitter) Send(h Header, payload []byte) error {
	syms, err := t.enc.Encode(h, payload)
	if err != nil {
		return err
	}

	t.timer.Start(t.cfg.BitRate)
	for _, s := range syms {
		for i := 0; i < 6; i++ {
			if err := t.pin.Set(s&(1<<i) != 0); err != nil {
				_ = t.pin.Set(false)
				return errcode.Wrap(errcode.Port, "rhask.send", err)
			}
			t.timer.Wait()
		}
	}
	if err := t.pin.Set(false); err != nil {
		return errcode.Wrap(errcode.Port, "rhask.idle", err)
	}
	return nil
}
