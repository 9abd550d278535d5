package platform

import (
	"time"

	"github.com/chewxy/math32"

	"envnode-go/drivers/mhz19b"
	"envnode-go/drivers/rhask"
)

// SimConfig shapes the simulated sensors.
type SimConfig struct {
	// Period of the slow sine drift applied to every channel.
	Period time.Duration
	// CO2FailEach corrupts every Nth CO2 reply; 0 never.
	CO2FailEach int
	// Now defaults to time.Now.
	Now func() time.Time
}

// SimSensors produces smooth, plausible room readings.
type SimSensors struct {
	cfg   SimConfig
	start time.Time
}

func NewSimSensors(cfg SimConfig) *SimSensors {
	if cfg.Period <= 0 {
		cfg.Period = 10 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &SimSensors{cfg: cfg, start: cfg.Now()}
}

// phase returns sin(2πt/Period) at the current time.
func (s *SimSensors) phase() float32 {
	t := float32(s.cfg.Now().Sub(s.start)) / float32(s.cfg.Period)
	return math32.Sin(2 * math32.Pi * t)
}

// Temperature drifts 21 ± 3 °C.
func (s *SimSensors) Temperature() (int16, error) {
	return int16(math32.Round((21 + 3*s.phase()) * 100)), nil
}

// Humidity drifts 45 ± 10 %RH, out of phase with temperature.
func (s *SimSensors) Humidity() (uint16, error) {
	return uint16(math32.Round(45 - 10*s.phase())), nil
}

// PPM drifts 700 ± 250.
func (s *SimSensors) PPM() uint16 {
	return uint16(math32.Round(700 + 250*s.phase()))
}

// SimUART answers MH-Z19B read requests by delivering a reply through rx,
// the same hook a UART receive interrupt would call.
type SimUART struct {
	ppm   func() uint16
	rx    func(byte)
	fail  int
	req   []byte
	count int
}

func NewSimUART(ppm func() uint16, rx func(byte), failEach int) *SimUART {
	return &SimUART{ppm: ppm, rx: rx, fail: failEach}
}

func (u *SimUART) WriteByte(c byte) error {
	u.req = append(u.req, c)
	return nil
}

func (u *SimUART) Flush() error {
	req := u.req
	u.req = u.req[:0]
	if len(req) != mhz19b.FrameLen || [mhz19b.FrameLen]byte(req) != mhz19b.ReadRequest {
		return nil
	}
	u.count++
	resp := mhz19b.Response(u.ppm())
	if u.fail > 0 && u.count%u.fail == 0 {
		resp[mhz19b.FrameLen-1]++
	}
	for _, b := range resp {
		u.rx(b)
	}
	return nil
}

// SimLine is a simulated radio data line. It implements rhask.Pin and
// rhask.BitTimer, reassembles the bit stream and reports every complete
// frame it sees, as a receiver on the same channel would.
type SimLine struct {
	// Pace, if set, is used to time bits in real time.
	Pace rhask.BitTimer
	// OnPacket receives each frame decoded off the line.
	OnPacket func(p rhask.Packet, err error)

	bits  []bool
	level bool
}

func (l *SimLine) Set(high bool) error {
	l.level = high
	return nil
}

// Level returns the current line level.
func (l *SimLine) Level() bool { return l.level }

func (l *SimLine) Start(hz uint32) {
	l.bits = l.bits[:0]
	if l.Pace != nil {
		l.Pace.Start(hz)
	}
}

// Wait samples the line once per bit period.
func (l *SimLine) Wait() {
	if l.Pace != nil {
		l.Pace.Wait()
	}
	l.bits = append(l.bits, l.level)
	if len(l.bits)%6 == 0 {
		l.tryDecode()
	}
}

func (l *SimLine) tryDecode() {
	const lenSym = rhask.PreambleLen + 2
	syms := rhask.SymbolsFromBits(l.bits)
	if len(syms) < lenSym+2 {
		return
	}
	hi, ok1 := rhask.DecodeSymbol(syms[lenSym])
	lo, ok2 := rhask.DecodeSymbol(syms[lenSym+1])
	if !ok1 || !ok2 {
		l.emit(rhask.Decode(syms))
		return
	}
	if len(syms) < lenSym+2*int(hi<<4|lo) {
		return
	}
	l.emit(rhask.Decode(syms))
}

func (l *SimLine) emit(p rhask.Packet, err error) {
	l.bits = l.bits[:0]
	if l.OnPacket != nil {
		l.OnPacket(p, err)
	}
}

// NewSim returns a fully simulated board. rx is the UART receive hook and
// onPacket observes every frame sent on the radio line.
func NewSim(cfg SimConfig, rx func(byte), onPacket func(rhask.Packet, error)) *Board {
	s := NewSimSensors(cfg)
	line := &SimLine{OnPacket: onPacket}
	return &Board{
		Temperature: s,
		Humidity:    s,
		CO2:         NewSimUART(s.PPM, rx, cfg.CO2FailEach),
		Pin:         line,
		Timer:       line,
	}
}
