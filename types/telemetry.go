package types

// Readings holds one value per channel.
type Readings struct {
	Temperature TemperatureValue `json:"temperature"`
	Humidity    HumidityValue    `json:"humidity"`
	CO2         CO2Value         `json:"co2"`
}

// Averages are the rolling means. Valid is false until the first read
// cycle has completed.
type Averages struct {
	Readings
	Valid bool `json:"valid"`
}

// ChannelErrors records whether the most recent read of each channel failed.
type ChannelErrors struct {
	Temperature bool `json:"temperature"`
	Humidity    bool `json:"humidity"`
	CO2         bool `json:"co2"`
}

// Of reports the error flag for c.
func (e ChannelErrors) Of(c Channel) bool {
	switch c {
	case ChannelTemperature:
		return e.Temperature
	case ChannelHumidity:
		return e.Humidity
	case ChannelCO2:
		return e.CO2
	}
	return false
}

// Any reports whether any channel is in error.
func (e ChannelErrors) Any() bool { return e.Temperature || e.Humidity || e.CO2 }

// Snapshot is a copy of node state taken inside a critical section.
// Published retained on node/snapshot.
type Snapshot struct {
	TicksSinceReset    uint32        `json:"ticks_since_reset"`
	TicksSinceLastTx   uint32        `json:"ticks_since_last_tx"`
	TicksSinceLastRead uint32        `json:"ticks_since_last_read"`
	ReadRequested      bool          `json:"read_requested"`
	TxRequested        bool          `json:"tx_requested"`
	NumPoints          uint8         `json:"num_points"`
	Last               Readings      `json:"last"`
	Averages           Averages      `json:"averages"`
	Errors             ChannelErrors `json:"errors"`
}

// TxReport summarises one transmit cycle. Published on node/tx.
type TxReport struct {
	TicksSinceReset uint32 `json:"ticks_since_reset"`
	Sent            int    `json:"sent"`
	Failed          int    `json:"failed"`
	Skipped         bool   `json:"skipped"`
	Err             string `json:"err,omitempty"`
}
