// Package config loads the host node configuration. Firmware builds use the
// compile-time constants in services/node instead.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"envnode-go/drivers/mhz19b"
	"envnode-go/services/node"
)

// Platforms.
const (
	PlatformSim  = "sim"
	PlatformHost = "host"
)

// Config represents the host configuration.
type Config struct {
	Name      string          `yaml:"name"`
	Platform  string          `yaml:"platform"` // sim | host
	Node      NodeConfig      `yaml:"node"`
	Radio     RadioConfig     `yaml:"radio"`
	Serial    SerialConfig    `yaml:"serial"`
	GPIO      GPIOConfig      `yaml:"gpio"`
	I2C       I2CConfig       `yaml:"i2c"`
	Exporter  ExporterConfig  `yaml:"exporter"`
	Log       LogConfig       `yaml:"log"`
	Heartbeat HeartbeatConfig `yaml:"heartbeat"`
	Sim       SimConfig       `yaml:"sim"`
}

// NodeConfig contains scheduler and timing parameters.
type NodeConfig struct {
	TickHz          uint32        `yaml:"tick_hz"`
	TxTicks         uint32        `yaml:"tx_ticks"`
	ReadTicks       uint32        `yaml:"read_ticks"`
	CO2TimeoutTicks uint32        `yaml:"co2_timeout_ticks"`
	BitRateHz       uint32        `yaml:"bit_rate_hz"`
	PacketGap       time.Duration `yaml:"packet_gap"`
	LoopDelay       time.Duration `yaml:"loop_delay"`
}

// RadioConfig contains the packet header. Zero addresses mean broadcast.
type RadioConfig struct {
	From  uint8 `yaml:"from"`
	To    uint8 `yaml:"to"`
	Flags uint8 `yaml:"flags"`
}

// SerialConfig contains the CO2 sensor port.
type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// GPIOConfig contains the radio data pin, by periph.io name.
type GPIOConfig struct {
	TxPin string `yaml:"tx_pin"`
}

// I2CConfig contains the temperature/humidity sensor bus.
type I2CConfig struct {
	Bus string `yaml:"bus"` // "" selects the first bus
}

// ExporterConfig contains the metrics listener. An empty address disables it.
type ExporterConfig struct {
	Listen string `yaml:"listen"`
}

// LogConfig contains logging parameters.
type LogConfig struct {
	Level string `yaml:"level"`
}

// HeartbeatConfig sets how often a liveness line is logged.
type HeartbeatConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// SimConfig shapes the simulated sensors.
type SimConfig struct {
	Period      time.Duration `yaml:"period"`        // waveform period
	CO2FailEach int           `yaml:"co2_fail_each"` // drop every Nth CO2 reply, 0 never
}

// Default returns the configuration matching the firmware constants.
func Default() *Config {
	return &Config{
		Name:     "envnode",
		Platform: PlatformSim,
		Node: NodeConfig{
			TickHz:          node.TickHz,
			TxTicks:         node.TxThreshold,
			ReadTicks:       node.ReadThreshold,
			CO2TimeoutTicks: mhz19b.DefaultTimeoutTicks,
			BitRateHz:       node.BitRateHz,
			PacketGap:       node.PacketGap,
			LoopDelay:       node.LoopDelay,
		},
		Radio: RadioConfig{
			From: 0xFF,
			To:   0xFF,
		},
		Serial: SerialConfig{
			Port: "/dev/ttyUSB0",
			Baud: 9600,
		},
		GPIO: GPIOConfig{
			TxPin: "GPIO17",
		},
		Exporter: ExporterConfig{
			Listen: ":9110",
		},
		Log: LogConfig{
			Level: "info",
		},
		Heartbeat: HeartbeatConfig{
			Interval: time.Minute,
		},
		Sim: SimConfig{
			Period: 10 * time.Minute,
		},
	}
}

// Load loads configuration from a YAML file. A missing file or missing
// fields fall back to defaults.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(err, "failed to read config file")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	cfg.ensureDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}

// Validate rejects settings the node cannot run with.
func (c *Config) Validate() error {
	switch c.Platform {
	case PlatformSim, PlatformHost:
	default:
		return errors.Errorf("unknown platform %q", c.Platform)
	}
	if c.Node.TickHz == 0 {
		return errors.New("node.tick_hz must be positive")
	}
	if c.Node.BitRateHz == 0 {
		return errors.New("node.bit_rate_hz must be positive")
	}
	if c.Node.TxTicks == 0 || c.Node.ReadTicks == 0 {
		return errors.New("node thresholds must be positive")
	}
	if c.Platform == PlatformHost && c.Serial.Port == "" {
		return errors.New("serial.port is required on the host platform")
	}
	return nil
}

// MetricsEnabled reports whether the Prometheus listener should run.
func (c *Config) MetricsEnabled() bool { return c.Exporter.Listen != "" }

// Schedule returns the tick thresholds.
func (c *Config) Schedule() node.Schedule {
	return node.Schedule{TxTicks: c.Node.TxTicks, ReadTicks: c.Node.ReadTicks}
}

// NodeOptions returns the main-loop configuration.
func (c *Config) NodeOptions() node.Config {
	return node.Config{
		From:      c.Radio.From,
		To:        c.Radio.To,
		Flags:     c.Radio.Flags,
		PacketGap: c.Node.PacketGap,
		LoopDelay: c.Node.LoopDelay,
	}
}

func (c *Config) ensureDefaults() {
	def := Default()

	if c.Name == "" {
		c.Name = def.Name
	}
	if c.Platform == "" {
		c.Platform = def.Platform
	}
	if c.Node.CO2TimeoutTicks == 0 {
		c.Node.CO2TimeoutTicks = def.Node.CO2TimeoutTicks
	}
	if c.Node.PacketGap == 0 {
		c.Node.PacketGap = def.Node.PacketGap
	}
	if c.Node.LoopDelay == 0 {
		c.Node.LoopDelay = def.Node.LoopDelay
	}
	if c.Serial.Baud == 0 {
		c.Serial.Baud = def.Serial.Baud
	}
	if c.GPIO.TxPin == "" {
		c.GPIO.TxPin = def.GPIO.TxPin
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Heartbeat.Interval == 0 {
		c.Heartbeat.Interval = def.Heartbeat.Interval
	}
	if c.Sim.Period == 0 {
		c.Sim.Period = def.Sim.Period
	}
}
