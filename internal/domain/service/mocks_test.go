package service

import (
	"context"
	"lightbridge/internal/domain/model"

	"github.com/stretchr/testify/mock"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Discover(ctx context.Context) (*model.GatewayInfo, error) {
	args := m.Called(ctx)
	info, _ := args.Get(0).(*model.GatewayInfo)
	return info, args.Error(1)
}

func (m *MockGateway) Connect(ctx context.Context, identity, psk string) error {
	args := m.Called(ctx, identity, psk)
	return args.Error(0)
}

func (m *MockGateway) Authenticate(ctx context.Context, securityCode string) (string, string, error) {
	args := m.Called(ctx, securityCode)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockGateway) ObserveDevices(ctx context.Context, onChange func()) error {
	args := m.Called(ctx, onChange)
	return args.Error(0)
}

func (m *MockGateway) Devices(ctx context.Context) ([]*model.RawDevice, error) {
	args := m.Called(ctx)
	devices, _ := args.Get(0).([]*model.RawDevice)
	return devices, args.Error(1)
}

func (m *MockGateway) OperateLight(ctx context.Context, device *model.RawDevice, cmd model.DeviceStateCommand) error {
	args := m.Called(ctx, device, cmd)
	return args.Error(0)
}

type MockCredentialRepo struct {
	mock.Mock
}

func (m *MockCredentialRepo) Get(ctx context.Context) (*model.Credentials, error) {
	args := m.Called(ctx)
	creds, _ := args.Get(0).(*model.Credentials)
	return creds, args.Error(1)
}

func (m *MockCredentialRepo) Save(ctx context.Context, creds *model.Credentials) error {
	args := m.Called(ctx, creds)
	return args.Error(0)
}

func fptr(v float64) *float64 { return &v }

func bptr(v bool) *bool { return &v }

func testColorBulb(id int, hue, sat, dimmer float64) *model.RawDevice {
	return &model.RawDevice{
		InstanceID: id,
		Name:       "Color bulb",
		Type:       model.DeviceTypeLightbulb,
		DeviceInfo: model.DeviceInfo{Manufacturer: "IKEA of Sweden", ModelNumber: "TRADFRI bulb E27 CWS", Power: model.PowerSourceACPower},
		LightList: []model.LightState{{
			OnOff:      true,
			Dimmer:     dimmer,
			Hue:        fptr(hue),
			Saturation: fptr(sat),
			Spectrum:   model.SpectrumRGB,
		}},
	}
}

func testWhiteBulb(id int, dimmer, temp float64) *model.RawDevice {
	return &model.RawDevice{
		InstanceID: id,
		Name:       "White bulb",
		Type:       model.DeviceTypeLightbulb,
		DeviceInfo: model.DeviceInfo{Manufacturer: "IKEA of Sweden", ModelNumber: "TRADFRI bulb GU10 WS", Power: model.PowerSourceACPower},
		LightList: []model.LightState{{
			OnOff:            true,
			Dimmer:           dimmer,
			ColorTemperature: fptr(temp),
			Spectrum:         model.SpectrumWhite,
		}},
	}
}

func testRemote(id int) *model.RawDevice {
	return &model.RawDevice{
		InstanceID: id,
		Name:       "Remote",
		Type:       model.DeviceTypeRemote,
		DeviceInfo: model.DeviceInfo{Power: model.PowerSourceInternalBattery, Battery: fptr(80)},
	}
}
