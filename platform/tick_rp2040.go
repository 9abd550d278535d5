//go:build rp2040

package platform

import (
	"device/rp"
	"runtime/interrupt"
	"time"

	"envnode-go/x/timex"
)

// The TinyGo runtime sleeps on alarm 0; the node tick owns alarm 1.
const tickAlarmBit = 1 << 1

var (
	tickAlarm Alarm
	tickFn    func()
)

// StartTickInterrupt calls tick from the TIMER alarm 1 interrupt at hz. The
// handler preempts the main loop, including busy-wait bit timing, so tick
// must only touch state through a critical section.
func StartTickInterrupt(hz uint32, tick func()) {
	tickFn = tick
	tickAlarm.Period = uint32(timex.PeriodFromHz(hz) / time.Microsecond)

	intr := interrupt.New(rp.IRQ_TIMER_IRQ_1, tickISR)
	rp.TIMER.INTE.SetBits(tickAlarmBit)
	rp.TIMER.ALARM1.Set(tickAlarm.Arm(rp.TIMER.TIMERAWL.Get()))
	intr.Enable()
}

func tickISR(interrupt.Interrupt) {
	rp.TIMER.INTR.Set(tickAlarmBit) // write-one-to-clear
	rp.TIMER.ALARM1.Set(tickAlarm.Next(rp.TIMER.TIMERAWL.Get()))
	tickFn()
}
