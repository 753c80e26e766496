package formatter

import (
	"lightbridge/internal/domain/model"
)

// RemoteStrategy covers battery remotes. Their only payload is the battery
// level, which Encode adds for every device type.
type RemoteStrategy struct{}

func (s *RemoteStrategy) Encode(d *model.RawDevice, out *model.FormattedDevice) {}

func (s *RemoteStrategy) Decode(in *model.FormattedDevice, cmd *model.DeviceStateCommand) {
	// remotes cannot be switched
	cmd.OnOff = nil
}

// GenericStrategy is used for plugs, sensors and bulbs without a known
// spectrum: on/off only.
type GenericStrategy struct{}

func (s *GenericStrategy) Encode(d *model.RawDevice, out *model.FormattedDevice) {
	if light := d.PrimaryLight(); light != nil {
		on := light.OnOff
		out.OnOff = &on
	}
}

func (s *GenericStrategy) Decode(in *model.FormattedDevice, cmd *model.DeviceStateCommand) {}
