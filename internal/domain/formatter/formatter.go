package formatter

import (
	"math"

	"lightbridge/internal/domain/model"
)

// Strategy maps the variant payload of one kind of device in both directions.
type Strategy interface {
	Encode(d *model.RawDevice, out *model.FormattedDevice)
	Decode(in *model.FormattedDevice, cmd *model.DeviceStateCommand)
}

var defaultFactory = NewFactory()

// Encode converts a raw gateway record into its external representation.
func Encode(d *model.RawDevice) model.FormattedDevice {
	out := model.FormattedDevice{
		ID:           d.ID(),
		Name:         d.Name,
		Type:         d.Type,
		Manufacturer: d.DeviceInfo.Manufacturer,
		Model:        d.DeviceInfo.ModelNumber,
		PowerSource:  d.DeviceInfo.Power,
		Variant:      model.VariantOf(d),
	}
	if !d.CreatedAt.IsZero() {
		out.CreatedAt = d.CreatedAt.Unix()
	}
	if out.PowerSource == "" {
		out.PowerSource = model.PowerSourceUnknown
	}

	defaultFactory.GetStrategy(out.Variant).Encode(d, &out)

	if d.DeviceInfo.Battery != nil {
		out.Battery = float(*d.DeviceInfo.Battery)
	}
	return out
}

// EncodeAll encodes a device set keyed by id.
func EncodeAll(devices map[string]*model.RawDevice) map[string]model.FormattedDevice {
	out := make(map[string]model.FormattedDevice, len(devices))
	for id, d := range devices {
		out[id] = Encode(d)
	}
	return out
}

// Decode builds the operate command for a formatted device. Only the fields
// belonging to in.Variant are read; callers set the variant from the cached
// device before decoding.
func Decode(in *model.FormattedDevice) model.DeviceStateCommand {
	var cmd model.DeviceStateCommand
	if in.OnOff != nil {
		on := *in.OnOff
		cmd.OnOff = &on
	}
	defaultFactory.GetStrategy(in.Variant).Decode(in, &cmd)
	return cmd
}

// or returns def when v is 0 or NaN. A legitimate zero is replaced too.
func or(v, def float64) float64 {
	if v == 0 || math.IsNaN(v) {
		return def
	}
	return v
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func float(v float64) *float64 {
	return &v
}
