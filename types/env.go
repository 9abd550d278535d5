package types

// ------------------------
// Sensor channels
// ------------------------

// Channel identifies one measured quantity.
type Channel uint8

const (
	ChannelTemperature Channel = iota
	ChannelHumidity
	ChannelCO2
)

func (c Channel) String() string {
	switch c {
	case ChannelTemperature:
		return "temperature"
	case ChannelHumidity:
		return "humidity"
	case ChannelCO2:
		return "co2"
	}
	return "unknown"
}

// Channels lists every channel in radio transmit order.
var Channels = [...]Channel{ChannelTemperature, ChannelHumidity, ChannelCO2}

// ------------------------
// Values
// ------------------------

type TemperatureValue struct {
	// Hundredths of °C (e.g. 2105 => 21.05°C).
	CentiC int16 `json:"centi_c"`
}

type HumidityValue struct {
	// Whole %RH.
	Percent uint16 `json:"percent"`
}

type CO2Value struct {
	PPM uint16 `json:"ppm"`
}
