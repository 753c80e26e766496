package model

// DefaultTransitionTime is used when a write request carries none (or 0).
const DefaultTransitionTime = 1.0

// DeviceStateCommand is the operate payload sent to the gateway. Nil fields
// are not sent.
type DeviceStateCommand struct {
	OnOff            *bool    `json:"onOff,omitempty"`
	Dimmer           *float64 `json:"dimmer,omitempty"`
	Hue              *float64 `json:"hue,omitempty"`
	Saturation       *float64 `json:"saturation,omitempty"`
	ColorTemperature *float64 `json:"colorTemperature,omitempty"`
	TransitionTime   float64  `json:"transitionTime"`
}

// WriteRequest is the body of POST /api/device.
type WriteRequest struct {
	Device         *FormattedDevice `json:"device"`
	TransitionTime *float64         `json:"transitionTime,omitempty"`
}

// EffectiveTransitionTime applies the default for a missing or zero value.
func (r *WriteRequest) EffectiveTransitionTime() float64 {
	if r.TransitionTime == nil || *r.TransitionTime == 0 {
		return DefaultTransitionTime
	}
	return *r.TransitionTime
}
