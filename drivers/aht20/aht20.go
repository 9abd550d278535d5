// Package aht20 provides a driver for the AHT20 temperature/humidity sensor.
// It exposes a two-phase measurement API:
//
//	d.Trigger()              // start a measurement (fast)
//	err := d.Collect(&s)     // fetch when ready; returns ErrNotReady while busy
//
// For convenience, d.Read() performs trigger + bounded polling until ready,
// and Temperature/Humidity return node channel units from a fresh reading.
//
// NOTE: I2C.Tx MUST perform a write followed by a repeated-start read when both
// w and r are provided, without releasing the bus.
package aht20

import (
	"time"

	"tinygo.org/x/drivers"

	"envnode-go/errcode"
	"envnode-go/x/mathx"
)

// I2C address.
const Address = 0x38

// Commands and status bits (per datasheet/common driver practice).
const (
	cmdTrigger    = 0xAC
	cmdInitialize = 0xBE
	cmdSoftReset  = 0xBA
	cmdStatus     = 0x71

	statusBusy       = 0x80
	statusCalibrated = 0x08
)

// Errors returned by the driver. Bus failures are wrapped with errcode.IO.
var (
	ErrTimeout  = errcode.Timeout
	ErrNotReady = errcode.NotReady
)

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// Address defaults to 0x38 if zero.
	Address uint16
	// PollInterval is used by Read() between Collect() attempts. Default 15 ms.
	PollInterval time.Duration
	// CollectTimeout bounds the total wait in Read(). Default 250 ms.
	CollectTimeout time.Duration
	// Sleep defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Device wraps an I2C connection to an AHT20 device.
type Device struct {
	bus     drivers.I2C
	Address uint16

	cfg  Config
	buf  [7]byte
	last Sample
}

// New creates a new AHT20 connection. The I2C bus must already be configured.
// This function only creates the Device object; it does not touch the device.
func New(bus drivers.I2C) Device {
	return Device{
		bus:     bus,
		Address: Address,
	}
}

// Configure applies cfg and initialises the device if its calibration bit
// is clear.
func (d *Device) Configure(cfg Config) error {
	if cfg.Address != 0 {
		d.Address = cfg.Address
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 15 * time.Millisecond
	}
	if cfg.CollectTimeout <= 0 {
		cfg.CollectTimeout = 250 * time.Millisecond
	}
	if cfg.Sleep == nil {
		cfg.Sleep = time.Sleep
	}
	cfg.Address = d.Address
	d.cfg = cfg

	st, err := d.Status()
	if err == nil && st&statusCalibrated != 0 {
		return nil
	}
	if err := d.bus.Tx(d.Address, []byte{cmdInitialize, 0x08, 0x00}, nil); err != nil {
		return errcode.Wrap(errcode.IO, "aht20.init", err)
	}
	d.cfg.Sleep(10 * time.Millisecond)
	return nil
}

// Reset issues a soft reset. Give the device ~20ms afterwards before using.
func (d *Device) Reset() error {
	return errcode.Wrap(errcode.IO, "aht20.reset", d.bus.Tx(d.Address, []byte{cmdSoftReset}, nil))
}

// Status reads and returns the status byte.
func (d *Device) Status() (byte, error) {
	data := d.buf[:1]
	if err := d.bus.Tx(d.Address, []byte{cmdStatus}, data); err != nil {
		return 0, errcode.Wrap(errcode.IO, "aht20.status", err)
	}
	return data[0], nil
}

// Trigger starts a measurement. It is a quick register write with no blocking.
func (d *Device) Trigger() error {
	if d.cfg.PollInterval == 0 {
		if err := d.Configure(Config{}); err != nil {
			return err
		}
	}
	return errcode.Wrap(errcode.IO, "aht20.trigger", d.bus.Tx(d.Address, []byte{cmdTrigger, 0x33, 0x00}, nil))
}

// Collect attempts to read one measurement. If the device is still
// converting, ErrNotReady is returned.
func (d *Device) Collect(out *Sample) error {
	data := d.buf[:]
	if err := d.bus.Tx(d.Address, nil, data); err != nil {
		return errcode.Wrap(errcode.IO, "aht20.collect", err)
	}
	if (data[0]&statusCalibrated) == 0 || (data[0]&statusBusy) != 0 {
		return ErrNotReady
	}
	s := Sample{
		RawHumidity: (uint32(data[1]) << 12) | (uint32(data[2]) << 4) | (uint32(data[3]) >> 4),
		RawTemp:     (uint32(data[3]&0x0F) << 16) | (uint32(data[4]) << 8) | uint32(data[5]),
	}
	d.last = s
	if out != nil {
		*out = s
	}
	return nil
}

// Read performs a full measurement cycle: Trigger followed by bounded
// polling until Collect succeeds or the timeout elapses.
func (d *Device) Read() error {
	if err := d.Trigger(); err != nil {
		return err
	}
	deadline := time.Now().Add(d.cfg.CollectTimeout)
	for {
		err := d.Collect(nil)
		switch err {
		case nil:
			return nil
		case ErrNotReady:
			if time.Now().After(deadline) {
				return ErrTimeout
			}
			d.cfg.Sleep(d.cfg.PollInterval)
		default:
			return err
		}
	}
}

// Last returns the most recent sample.
func (d *Device) Last() Sample { return d.last }

// Temperature takes a fresh reading and returns hundredths of °C.
func (d *Device) Temperature() (int16, error) {
	if err := d.Read(); err != nil {
		return 0, err
	}
	return int16(d.last.CentiCelsius()), nil
}

// Humidity takes a fresh reading and returns whole %RH.
func (d *Device) Humidity() (uint16, error) {
	if err := d.Read(); err != nil {
		return 0, err
	}
	return uint16(mathx.Clamp(d.last.DeciRelHumidity()/10, 0, 100)), nil
}

// Sample holds raw 20-bit readings.
type Sample struct {
	RawHumidity uint32
	RawTemp     uint32
}

// DeciRelHumidity returns tenths of %RH.
func (s Sample) DeciRelHumidity() int32 {
	return int32(int64(s.RawHumidity) * 1000 / 0x100000)
}

// CentiCelsius returns hundredths of °C.
func (s Sample) CentiCelsius() int32 {
	return int32(int64(s.RawTemp)*20000/0x100000) - 5000
}
