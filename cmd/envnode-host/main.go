// Command envnode-host runs the telemetry node on a Linux host, either on
// simulated peripherals or on real serial/I2C/GPIO devices, and exports
// its readings to Prometheus.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/version"
	log "github.com/sirupsen/logrus"

	"envnode-go/bus"
	"envnode-go/drivers/mhz19b"
	"envnode-go/drivers/rhask"
	"envnode-go/platform"
	"envnode-go/services/config"
	"envnode-go/services/exporter"
	"envnode-go/services/heartbeat"
	"envnode-go/services/node"
	"envnode-go/services/ui"
	"envnode-go/x/logx"
)

const program = "envnode"

var (
	configFile  = flag.String("config", "envnode.yaml", "path to the YAML configuration file")
	showVersion = flag.Bool("version", false, "print version information and exit")
)

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Println(version.Print(program))
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logx.Setup(cfg.Log.Level, os.Stderr); err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}
	log.Infof("Starting %s %s on %s platform", cfg.Name, version.Version, cfg.Platform)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil && err != context.Canceled {
		log.Fatal(err)
	}
	log.Info("Stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	sh := node.NewShared(cfg.Schedule())
	display := ui.NewLogDisplay(logx.Named("display"))
	_ = display.Log("Display init'd")

	board, err := openBoard(ctx, cfg, sh.OnRx)
	if err != nil {
		return err
	}
	defer board.Close()

	go platform.RunTicker(ctx, cfg.Node.TickHz, sh.Tick)
	_ = display.Log("Interrupts set")

	co2 := mhz19b.New(board.CO2, sh.RX(), sh)
	co2.Configure(mhz19b.Config{TimeoutTicks: cfg.Node.CO2TimeoutTicks})
	radio, err := rhask.NewTransmitter(board.Pin, board.Timer)
	if err != nil {
		return err
	}
	radio.Configure(rhask.Config{BitRate: cfg.Node.BitRateHz})
	_ = display.Log("Peripherals init'd")

	b := bus.NewBus(8)

	if cfg.MetricsEnabled() {
		stopMetrics, err := serveMetrics(ctx, cfg, b)
		if err != nil {
			return err
		}
		defer stopMetrics()
	} else {
		log.Info("Metrics listener disabled")
	}
	_ = heartbeat.New(cfg.Heartbeat.Interval).Start(ctx, b.NewConnection("heartbeat"))

	opts := cfg.NodeOptions()
	n := node.New(sh, node.Peripherals{
		Temperature: board.Temperature,
		Humidity:    board.Humidity,
		CO2:         co2,
		Radio:       radio,
		Display:     display,
		Conn:        b.NewConnection("node"),
	}, opts)
	return n.Run(ctx)
}

// serveMetrics starts the exporter and its listener. The returned func
// shuts the listener down.
func serveMetrics(ctx context.Context, cfg *config.Config, b *bus.Bus) (func(), error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(version.NewCollector(program))
	metrics, err := exporter.New(reg, cfg.Name)
	if err != nil {
		return nil, err
	}
	go metrics.Run(ctx, b.NewConnection("exporter"))

	srv := &http.Server{Addr: cfg.Exporter.Listen, Handler: mux(reg)}
	go func() {
		log.Infof("Listening on %s", cfg.Exporter.Listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("Metrics server: %v", err)
		}
	}()
	return func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}, nil
}

func mux(g prometheus.Gatherer) http.Handler {
	m := http.NewServeMux()
	m.Handle("/metrics", exporter.Handler(g))
	return m
}

func openBoard(ctx context.Context, cfg *config.Config, rx func(byte)) (*platform.Board, error) {
	switch cfg.Platform {
	case config.PlatformHost:
		return platform.OpenHost(ctx, platform.HostConfig{
			SerialPort: cfg.Serial.Port,
			Baud:       cfg.Serial.Baud,
			TxPin:      cfg.GPIO.TxPin,
			I2CBus:     cfg.I2C.Bus,
		}, rx)
	default:
		return platform.NewSim(platform.SimConfig{
			Period:      cfg.Sim.Period,
			CO2FailEach: cfg.Sim.CO2FailEach,
		}, rx, loopback()), nil
	}
}

// loopback logs what a receiver on the simulated radio channel would hear.
func loopback() func(rhask.Packet, error) {
	rxLog := log.WithField("component", "receiver")
	return func(p rhask.Packet, err error) {
		if err != nil {
			rxLog.Warnf("Bad frame: %v", err)
			return
		}
		ch, v, err := node.DecodeReading(p)
		if err != nil {
			rxLog.Warnf("Unknown packet id=%#02x: %v", p.Header.ID, err)
			return
		}
		rxLog.Debugf("%s=%d from=%#02x", ch, v, p.Header.From)
	}
}
