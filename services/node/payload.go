package node

import (
	"encoding/binary"

	"envnode-go/drivers/rhask"
	"envnode-go/errcode"
	"envnode-go/types"
)

// Radio payloads are two bytes, little-endian. Temperature is signed
// hundredths of °C, humidity whole %RH and CO2 ppm.
const PayloadLen = 2

// PutTemperature encodes centi-degrees.
func PutTemperature(v int16) [PayloadLen]byte { return PutUint16(uint16(v)) }

// PutUint16 encodes an unsigned channel value.
func PutUint16(v uint16) (b [PayloadLen]byte) {
	binary.LittleEndian.PutUint16(b[:], v)
	return b
}

// ChannelID maps a channel to its radio message id.
func ChannelID(c types.Channel) byte {
	switch c {
	case types.ChannelTemperature:
		return IDTemperature
	case types.ChannelHumidity:
		return IDHumidity
	default:
		return IDCO2
	}
}

// EncodeAverages builds the payload for each channel in transmit order.
func EncodeAverages(a types.Averages) (out [len(types.Channels)][PayloadLen]byte) {
	out[types.ChannelTemperature] = PutTemperature(a.Temperature.CentiC)
	out[types.ChannelHumidity] = PutUint16(a.Humidity.Percent)
	out[types.ChannelCO2] = PutUint16(a.CO2.PPM)
	return out
}

// DecodeReading turns a received packet back into a channel and value.
// Temperature values are signed.
func DecodeReading(p rhask.Packet) (types.Channel, int32, error) {
	if len(p.Payload) != PayloadLen {
		return 0, 0, &errcode.E{C: errcode.InvalidParams, Op: "node.decode", Msg: "payload length"}
	}
	raw := binary.LittleEndian.Uint16(p.Payload)
	switch p.ID {
	case IDTemperature:
		return types.ChannelTemperature, int32(int16(raw)), nil
	case IDHumidity:
		return types.ChannelHumidity, int32(raw), nil
	case IDCO2:
		return types.ChannelCO2, int32(raw), nil
	}
	return 0, 0, &errcode.E{C: errcode.Unsupported, Op: "node.decode", Msg: "unknown message id"}
}
