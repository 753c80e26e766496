package ports

import (
	"context"
	"lightbridge/internal/domain/model"
)

// GatewayPort is the transport to the lighting gateway. Failures are returned
// as *model.TransportError where the adapter can attribute them.
type GatewayPort interface {
	Discover(ctx context.Context) (*model.GatewayInfo, error)
	Connect(ctx context.Context, identity, psk string) error
	Authenticate(ctx context.Context, securityCode string) (identity, psk string, err error)
	// ObserveDevices starts watching the gateway until ctx is done; onChange
	// is called whenever the device set is seen to change.
	ObserveDevices(ctx context.Context, onChange func()) error
	Devices(ctx context.Context) ([]*model.RawDevice, error)
	OperateLight(ctx context.Context, device *model.RawDevice, cmd model.DeviceStateCommand) error
}

type CredentialRepository interface {
	Get(ctx context.Context) (*model.Credentials, error)
	Save(ctx context.Context, creds *model.Credentials) error
}
