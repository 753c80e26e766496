package hue

import (
	"math"
	"strings"

	"lightbridge/internal/domain/model"

	"github.com/amimof/huego"
)

// SensorIDOffset keeps sensor instance ids apart from light ids, both of
// which the bridge numbers from 1.
const SensorIDOffset = 10000

const (
	maxBri = 254
	maxSat = 254
	maxHue = 65535
	minCt  = 153
	maxCt  = 500
)

func lightKind(t string) (model.DeviceType, model.Spectrum) {
	switch strings.ToLower(t) {
	case "extended color light", "color light":
		return model.DeviceTypeLightbulb, model.SpectrumRGB
	case "dimmable light", "color temperature light":
		return model.DeviceTypeLightbulb, model.SpectrumWhite
	case "on/off plug-in unit", "on/off light":
		return model.DeviceTypePlug, model.SpectrumNone
	}
	return model.DeviceTypeUnknown, model.SpectrumNone
}

func lightDevice(l huego.Light) *model.RawDevice {
	typ, spectrum := lightKind(l.Type)
	d := &model.RawDevice{
		InstanceID: l.ID,
		Name:       l.Name,
		Type:       typ,
		DeviceInfo: model.DeviceInfo{
			Manufacturer: l.ManufacturerName,
			ModelNumber:  l.ModelID,
			Power:        model.PowerSourceACPower,
		},
	}

	s := l.State
	if s == nil {
		s = &huego.State{}
	}
	light := model.LightState{
		OnOff:    s.On,
		Dimmer:   toPercent(float64(s.Bri), maxBri),
		Spectrum: spectrum,
	}
	if spectrum == model.SpectrumRGB {
		light.Hue = float(math.Round(float64(s.Hue) * 360 / maxHue))
		light.Saturation = float(toPercent(float64(s.Sat), maxSat))
	}
	if s.Ct != 0 {
		light.ColorTemperature = float(toPercent(float64(s.Ct)-minCt, maxCt-minCt))
	}
	d.LightList = []model.LightState{light}
	return d
}

// sensorDevice maps switches to remotes and motion/temperature/light-level
// sensors to sensors. Virtual sensors are skipped.
func sensorDevice(s huego.Sensor) (*model.RawDevice, bool) {
	var typ model.DeviceType
	switch s.Type {
	case "ZLLSwitch", "ZGPSwitch":
		typ = model.DeviceTypeRemote
	case "ZLLPresence", "ZLLTemperature", "ZLLLightLevel":
		typ = model.DeviceTypeSensor
	default:
		return nil, false
	}

	d := &model.RawDevice{
		InstanceID: SensorIDOffset + s.ID,
		Name:       s.Name,
		Type:       typ,
		DeviceInfo: model.DeviceInfo{
			Manufacturer: s.ManufacturerName,
			ModelNumber:  s.ModelID,
			Power:        model.PowerSourceUnknown,
		},
	}
	if b, ok := s.Config["battery"].(float64); ok {
		d.DeviceInfo.Battery = float(b)
		d.DeviceInfo.Power = model.PowerSourceInternalBattery
	}
	return d, true
}

// toState builds the bridge state update for cmd. The bridge needs "on" in
// every update, so an absent OnOff keeps the current value.
func toState(d *model.RawDevice, cmd model.DeviceStateCommand) huego.State {
	var state huego.State
	if light := d.PrimaryLight(); light != nil {
		state.On = light.OnOff
	}
	if cmd.OnOff != nil {
		state.On = *cmd.OnOff
	}
	if cmd.Dimmer != nil {
		state.Bri = uint8(fromPercent(*cmd.Dimmer, 1, maxBri))
	}
	if cmd.Hue != nil {
		h := uint16(clamp(math.Round(math.Mod(*cmd.Hue, 360)*maxHue/360), 0, maxHue))
		// 0 is dropped from the request; 65535 is the same red
		if h == 0 {
			h = maxHue
		}
		state.Hue = h
	}
	if cmd.Saturation != nil {
		state.Sat = uint8(fromPercent(*cmd.Saturation, 1, maxSat))
	}
	if cmd.ColorTemperature != nil {
		state.Ct = uint16(minCt + fromPercent(*cmd.ColorTemperature, 0, maxCt-minCt))
	}
	if cmd.TransitionTime > 0 {
		state.TransitionTime = uint16(math.Round(cmd.TransitionTime * 10))
	}
	return state
}

func toPercent(v, max float64) float64 {
	return clamp(math.Round(v*100/max), 0, 100)
}

func fromPercent(p, min, max float64) float64 {
	return clamp(math.Round(p*max/100), min, max)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func float(v float64) *float64 {
	return &v
}
