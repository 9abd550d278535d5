//go:build !tinygo

package platform

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"envnode-go/drivers/aht20"
	"envnode-go/x/logx"
	"envnode-go/x/timex"
)

// HostConfig selects Linux devices.
type HostConfig struct {
	SerialPort string
	Baud       int
	TxPin      string // periph.io pin name, e.g. "GPIO17"
	I2CBus     string // "" opens the first bus
}

// serialPort buffers request bytes and writes them on Flush.
type serialPort struct {
	p   serial.Port
	buf []byte
}

func (s *serialPort) WriteByte(c byte) error {
	s.buf = append(s.buf, c)
	return nil
}

func (s *serialPort) Flush() error {
	defer func() { s.buf = s.buf[:0] }()
	if _, err := s.p.Write(s.buf); err != nil {
		return errors.Wrap(err, "failed to write serial request")
	}
	return errors.Wrap(s.p.Drain(), "failed to drain serial port")
}

// pump delivers received bytes to rx until ctx is done, standing in for the
// UART receive interrupt.
func pump(ctx context.Context, p serial.Port, rx func(byte), log logx.Logger) {
	buf := make([]byte, 64)
	for ctx.Err() == nil {
		n, err := p.Read(buf)
		if err != nil {
			if ctx.Err() == nil {
				log.Error("serial read: " + err.Error())
			}
			return
		}
		for _, b := range buf[:n] {
			rx(b)
		}
	}
}

// gpioPin drives the radio data line.
type gpioPin struct{ p gpio.PinIO }

func (g gpioPin) Set(high bool) error { return g.p.Out(gpio.Level(high)) }

// OpenHost opens the Linux peripherals: the CO2 sensor on a serial port, an
// AHT20 on I2C and the radio data line on a GPIO pin.
func OpenHost(ctx context.Context, cfg HostConfig, rx func(byte)) (*Board, error) {
	log := logx.Named("platform")

	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize periph.io host")
	}

	b := &Board{}

	port, err := serial.Open(cfg.SerialPort, &serial.Mode{BaudRate: cfg.Baud})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open serial port %s", cfg.SerialPort)
	}
	if err := port.SetReadTimeout(100 * time.Millisecond); err != nil {
		port.Close()
		return nil, errors.Wrap(err, "failed to set serial read timeout")
	}
	b.onClose(port.Close)
	b.CO2 = &serialPort{p: port}
	go pump(ctx, port, rx, log)

	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		b.Close()
		return nil, errors.Wrapf(err, "failed to open i2c bus %q", cfg.I2CBus)
	}
	b.onClose(bus.Close)
	th := aht20.New(bus)
	if err := th.Configure(aht20.Config{}); err != nil {
		b.Close()
		return nil, errors.Wrap(err, "failed to configure aht20")
	}
	b.Temperature = &th
	b.Humidity = &th

	pin := gpioreg.ByName(cfg.TxPin)
	if pin == nil {
		b.Close()
		return nil, errors.Errorf("failed to open tx pin %s", cfg.TxPin)
	}
	if err := pin.Out(gpio.Low); err != nil {
		b.Close()
		return nil, errors.Wrapf(err, "failed to drive tx pin %s", cfg.TxPin)
	}
	b.onClose(func() error { return pin.Out(gpio.Low) })
	b.Pin = gpioPin{p: pin}
	b.Timer = &timex.Periodic{}

	log.Info("host peripherals open")
	return b, nil
}
