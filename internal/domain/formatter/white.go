package formatter

import (
	"lightbridge/internal/domain/model"
)

// WhiteStrategy handles dimmable white bulbs.
type WhiteStrategy struct{}

func (s *WhiteStrategy) Encode(d *model.RawDevice, out *model.FormattedDevice) {
	light := d.PrimaryLight()
	if light == nil {
		return
	}
	on := light.OnOff
	out.OnOff = &on
	out.DimmerState = float(light.Dimmer)
	if light.ColorTemperature != nil {
		out.Temperature = float(*light.ColorTemperature)
	}
}

func (s *WhiteStrategy) Decode(in *model.FormattedDevice, cmd *model.DeviceStateCommand) {
	if in.DimmerState != nil {
		cmd.Dimmer = float(or(*in.DimmerState, 50))
	}
	if in.Temperature != nil {
		cmd.ColorTemperature = float(or(*in.Temperature, 0))
	}
}
