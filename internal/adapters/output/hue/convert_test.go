package hue

import (
	"testing"

	"lightbridge/internal/domain/model"

	"github.com/amimof/huego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }
func bptr(v bool) *bool       { return &v }

func TestLightDevice_Color(t *testing.T) {
	d := lightDevice(huego.Light{
		ID:               4,
		Name:             "Living room",
		Type:             "Extended color light",
		ModelID:          "LCT015",
		ManufacturerName: "Signify",
		State:            &huego.State{On: true, Bri: 127, Hue: 21845, Sat: 254, Ct: 153},
	})

	assert.Equal(t, "4", d.ID())
	assert.Equal(t, model.DeviceTypeLightbulb, d.Type)
	assert.Equal(t, model.PowerSourceACPower, d.DeviceInfo.Power)
	assert.Equal(t, "LCT015", d.DeviceInfo.ModelNumber)
	require.Len(t, d.LightList, 1)

	l := d.LightList[0]
	assert.True(t, l.OnOff)
	assert.Equal(t, model.SpectrumRGB, l.Spectrum)
	assert.Equal(t, 50.0, l.Dimmer)
	assert.Equal(t, 120.0, *l.Hue)
	assert.Equal(t, 100.0, *l.Saturation)
	assert.Equal(t, 0.0, *l.ColorTemperature)
	assert.Equal(t, model.VariantColor, model.VariantOf(d))
}

func TestLightDevice_Kinds(t *testing.T) {
	tests := []struct {
		typ      string
		want     model.DeviceType
		spectrum model.Spectrum
	}{
		{"Color light", model.DeviceTypeLightbulb, model.SpectrumRGB},
		{"Dimmable light", model.DeviceTypeLightbulb, model.SpectrumWhite},
		{"Color temperature light", model.DeviceTypeLightbulb, model.SpectrumWhite},
		{"On/Off plug-in unit", model.DeviceTypePlug, model.SpectrumNone},
		{"Something new", model.DeviceTypeUnknown, model.SpectrumNone},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			d := lightDevice(huego.Light{ID: 1, Type: tt.typ})
			assert.Equal(t, tt.want, d.Type)
			assert.Equal(t, tt.spectrum, d.LightList[0].Spectrum)
		})
	}
}

func TestLightDevice_WhiteTemperature(t *testing.T) {
	d := lightDevice(huego.Light{
		ID:    2,
		Type:  "Color temperature light",
		State: &huego.State{Bri: 254, Ct: 500},
	})
	l := d.LightList[0]
	assert.Equal(t, 100.0, l.Dimmer)
	assert.Nil(t, l.Hue)
	assert.Equal(t, 100.0, *l.ColorTemperature)
}

func TestSensorDevice(t *testing.T) {
	d, ok := sensorDevice(huego.Sensor{
		ID:     2,
		Name:   "Dimmer switch",
		Type:   "ZLLSwitch",
		Config: map[string]interface{}{"battery": 80.0},
	})
	require.True(t, ok)
	assert.Equal(t, SensorIDOffset+2, d.InstanceID)
	assert.Equal(t, model.DeviceTypeRemote, d.Type)
	assert.Equal(t, model.PowerSourceInternalBattery, d.DeviceInfo.Power)
	assert.Equal(t, 80.0, *d.DeviceInfo.Battery)
	assert.Empty(t, d.LightList)

	d, ok = sensorDevice(huego.Sensor{ID: 3, Type: "ZLLPresence"})
	require.True(t, ok)
	assert.Equal(t, model.DeviceTypeSensor, d.Type)
	assert.Nil(t, d.DeviceInfo.Battery)

	_, ok = sensorDevice(huego.Sensor{ID: 1, Type: "Daylight"})
	assert.False(t, ok)
}

func TestToState(t *testing.T) {
	bulb := &model.RawDevice{InstanceID: 1, LightList: []model.LightState{{OnOff: true}}}

	state := toState(bulb, model.DeviceStateCommand{
		Hue:            fptr(120),
		Saturation:     fptr(50),
		Dimmer:         fptr(50),
		TransitionTime: 5,
	})
	assert.True(t, state.On)
	assert.Equal(t, uint16(21845), state.Hue)
	assert.Equal(t, uint8(127), state.Sat)
	assert.Equal(t, uint8(127), state.Bri)
	assert.Equal(t, uint16(50), state.TransitionTime)

	state = toState(bulb, model.DeviceStateCommand{OnOff: bptr(false), Hue: fptr(0), Dimmer: fptr(0), ColorTemperature: fptr(100)})
	assert.False(t, state.On)
	assert.Equal(t, uint16(maxHue), state.Hue)
	assert.Equal(t, uint8(1), state.Bri)
	assert.Equal(t, uint16(maxCt), state.Ct)
	assert.Zero(t, state.TransitionTime)
}
