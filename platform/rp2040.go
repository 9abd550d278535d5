//go:build rp2040

package platform

import (
	"context"
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/dht"
	"tinygo.org/x/drivers/ssd1306"

	"envnode-go/drivers/aht20"
	"envnode-go/errcode"
	"envnode-go/services/ui"
	"envnode-go/x/mathx"
	"envnode-go/x/timex"
)

// Pico wiring.
const (
	pinI2CSDA  = machine.GP4
	pinI2CSCL  = machine.GP5
	pinUARTTX  = machine.GP0
	pinUARTRX  = machine.GP1
	pinRadioTX = machine.GP15
	pinDHT     = machine.GP16

	co2Baud = 9600
)

// uartPort buffers the request and writes it on Flush.
type uartPort struct {
	u   *uartx.UART
	buf [16]byte
	n   int
}

func (p *uartPort) WriteByte(c byte) error {
	if p.n == len(p.buf) {
		return &errcode.E{C: errcode.InvalidParams, Op: "uart.write", Msg: "request too long"}
	}
	p.buf[p.n] = c
	p.n++
	return nil
}

func (p *uartPort) Flush() error {
	_, err := p.u.Write(p.buf[:p.n])
	p.n = 0
	return err
}

// uartPump moves received bytes into rx. It runs as its own goroutine and
// plays the role of the UART receive interrupt.
func uartPump(ctx context.Context, u *uartx.UART, rx func(byte)) {
	var buf [16]byte
	for ctx.Err() == nil {
		n, err := u.RecvSomeContext(ctx, buf[:])
		if err != nil {
			continue
		}
		for _, b := range buf[:n] {
			rx(b)
		}
	}
}

type machinePin struct{ p machine.Pin }

func (m machinePin) Set(high bool) error {
	m.p.Set(high)
	return nil
}

// dhtHumidity reads whole %RH from a DHT11.
type dhtHumidity struct{ d dht.Device }

func (h dhtHumidity) Humidity() (uint16, error) {
	v, err := h.d.Humidity()
	if err != nil {
		return 0, err
	}
	return mathx.Clamp(v/10, 0, 100), nil
}

// OpenPico brings up the Pico board: display on I2C0, AHT20 temperature,
// DHT11 humidity, MH-Z19B on UART0 and the ASK transmitter data pin.
func OpenPico(ctx context.Context, rx func(byte)) (*Board, *ui.Screen, error) {
	i2c := machine.I2C0
	if err := i2c.Configure(machine.I2CConfig{
		SDA:       pinI2CSDA,
		SCL:       pinI2CSCL,
		Frequency: 400 * machine.KHz,
	}); err != nil {
		return nil, nil, err
	}

	oled := ssd1306.NewI2C(i2c)
	oled.Configure(ssd1306.Config{
		Address: 0x3C,
		Width:   ui.Width,
		Height:  ui.Height,
	})
	screen := ui.NewScreen(oled)

	th := aht20.New(i2c)
	if err := th.Configure(aht20.Config{}); err != nil {
		return nil, screen, err
	}

	u := uartx.UART0
	if err := u.Configure(uartx.UARTConfig{
		BaudRate: co2Baud,
		TX:       pinUARTTX,
		RX:       pinUARTRX,
	}); err != nil {
		return nil, screen, err
	}
	go uartPump(ctx, u, rx)

	pinRadioTX.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pinRadioTX.Low()

	return &Board{
		Temperature: &th,
		Humidity:    dhtHumidity{d: dht.New(pinDHT, dht.DHT11)},
		CO2:         &uartPort{u: u},
		Pin:         machinePin{p: pinRadioTX},
		Timer:       &timex.Periodic{},
	}, screen, nil
}
