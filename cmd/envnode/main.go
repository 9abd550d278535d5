//go:build rp2040

// Command envnode is the Pico firmware: AHT20 + DHT11 + MH-Z19B readings
// averaged and broadcast as RadioHead ASK packets every ten seconds.
package main

import (
	"context"
	"time"

	"envnode-go/drivers/mhz19b"
	"envnode-go/drivers/rhask"
	"envnode-go/platform"
	"envnode-go/services/node"
	"envnode-go/services/ui"
	"envnode-go/x/logx"
)

func halt(screen *ui.Screen, msg string, err error) {
	log := logx.Named("main")
	log.Error(msg + ": " + err.Error())
	if screen != nil {
		_ = screen.Log(msg)
	}
	for {
	}
}

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	log := logx.Named("main")
	ctx := context.Background()

	sh := node.NewShared(node.DefaultSchedule)

	board, screen, err := platform.OpenPico(ctx, sh.OnRx)
	if screen != nil {
		screen.Clear()
		_ = screen.Log("Display init'd")
	}
	if err != nil {
		halt(screen, "peripheral init failed", err)
	}
	log.Info("display ready")

	platform.StartTickInterrupt(node.TickHz, sh.Tick)
	_ = screen.Log("Interrupts set")

	co2 := mhz19b.New(board.CO2, sh.RX(), sh)
	radio, err := rhask.NewTransmitter(board.Pin, board.Timer)
	if err != nil {
		halt(screen, "radio init failed", err)
	}
	radio.Configure(rhask.Config{BitRate: node.BitRateHz})
	_ = screen.Log("Peripherals init'd")

	n := node.New(sh, node.Peripherals{
		Temperature: board.Temperature,
		Humidity:    board.Humidity,
		CO2:         co2,
		Radio:       radio,
		Display:     screen,
	}, node.Config{})
	_ = n.Run(ctx)
}
