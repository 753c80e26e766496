package formatter

import (
	"lightbridge/internal/domain/model"
)

// ColorStrategy handles rgb bulbs: light state <-> hsl.
type ColorStrategy struct{}

func (s *ColorStrategy) Encode(d *model.RawDevice, out *model.FormattedDevice) {
	light := d.PrimaryLight()
	if light == nil {
		return
	}
	on := light.OnOff
	out.OnOff = &on
	out.HSL = &model.HSL{
		H: or(deref(light.Hue), 0),
		S: or(deref(light.Saturation)/100, 0),
		L: or(light.Dimmer/100, 0.5),
	}
}

func (s *ColorStrategy) Decode(in *model.FormattedDevice, cmd *model.DeviceStateCommand) {
	if in.HSL == nil {
		return
	}
	cmd.Hue = float(or(in.HSL.H, 0))
	cmd.Saturation = float(or(in.HSL.S*100, 0))
	cmd.Dimmer = float(or(in.HSL.L*100, 50))
}
