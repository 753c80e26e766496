package model

import (
	"strconv"
	"time"
)

type DeviceType string

const (
	DeviceTypeLightbulb DeviceType = "lightbulb"
	DeviceTypeRemote    DeviceType = "remote"
	DeviceTypePlug      DeviceType = "plug"
	DeviceTypeSensor    DeviceType = "sensor"
	DeviceTypeUnknown   DeviceType = "unknown"
)

type Spectrum string

const (
	SpectrumRGB   Spectrum = "rgb"
	SpectrumWhite Spectrum = "white"
	SpectrumNone  Spectrum = "none"
)

type PowerSource string

const (
	PowerSourceUnknown         PowerSource = "unknown"
	PowerSourceInternalBattery PowerSource = "internalBattery"
	PowerSourceExternalBattery PowerSource = "externalBattery"
	PowerSourceBattery         PowerSource = "battery"
	PowerSourceACPower         PowerSource = "acPower"
)

type DeviceInfo struct {
	Manufacturer string
	ModelNumber  string
	Power        PowerSource
	Battery      *float64 // percent, nil for mains powered devices
}

// LightState is one entry of a device's light list. Optional fields are nil
// when the bulb does not report them.
type LightState struct {
	OnOff            bool
	Dimmer           float64 // 0..100
	Hue              *float64
	Saturation       *float64 // 0..100
	ColorTemperature *float64
	Spectrum         Spectrum
}

// RawDevice is a device record as reported by the gateway.
type RawDevice struct {
	InstanceID int
	Name       string
	Type       DeviceType
	CreatedAt  time.Time
	DeviceInfo DeviceInfo
	LightList  []LightState
}

// ID is the string form of the instance id used as the external device key.
func (d *RawDevice) ID() string {
	return strconv.Itoa(d.InstanceID)
}

// PrimaryLight returns the first light state, or nil for devices without lights.
func (d *RawDevice) PrimaryLight() *LightState {
	if len(d.LightList) == 0 {
		return nil
	}
	return &d.LightList[0]
}

// Variant tags the payload carried by a FormattedDevice.
type Variant string

const (
	VariantColor   Variant = "color"
	VariantWhite   Variant = "white"
	VariantRemote  Variant = "remote"
	VariantGeneric Variant = "generic"
)

// VariantOf derives the variant tag from the device type and the spectrum of
// its first light.
func VariantOf(d *RawDevice) Variant {
	switch d.Type {
	case DeviceTypeLightbulb:
		light := d.PrimaryLight()
		if light == nil {
			return VariantGeneric
		}
		switch light.Spectrum {
		case SpectrumRGB:
			return VariantColor
		case SpectrumWhite:
			return VariantWhite
		}
		return VariantGeneric
	case DeviceTypeRemote:
		return VariantRemote
	default:
		return VariantGeneric
	}
}

type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// FormattedDevice is the flat JSON representation served to the UI.
type FormattedDevice struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	CreatedAt    int64       `json:"createdAt"`
	Type         DeviceType  `json:"type"`
	Manufacturer string      `json:"manufacturer"`
	Model        string      `json:"model"`
	PowerSource  PowerSource `json:"powerSource"`
	Variant      Variant     `json:"variant,omitempty"`

	OnOff       *bool    `json:"onOff,omitempty"`
	HSL         *HSL     `json:"hsl,omitempty"`
	DimmerState *float64 `json:"dimmerState,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Battery     *float64 `json:"battery,omitempty"`
}
