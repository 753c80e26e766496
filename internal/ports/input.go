package ports

import (
	"context"
	"lightbridge/internal/domain/model"
)

// BridgePort is what the HTTP adapter needs from the domain.
type BridgePort interface {
	ListDevices(ctx context.Context) (map[string]model.FormattedDevice, error)
	GetDevice(ctx context.Context, id string, force bool) (*model.FormattedDevice, error)
	UpdateDevice(ctx context.Context, req *model.WriteRequest) (*model.FormattedDevice, *model.APIError)
	ConnectionState() model.ConnectionState
}
