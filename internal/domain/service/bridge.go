package service

import (
	"context"
	"lightbridge/internal/domain/formatter"
	"lightbridge/internal/domain/model"
)

// BridgeService is the domain entry point used by the HTTP adapter.
type BridgeService struct {
	bootstrapper *Bootstrapper
	cache        *DeviceCache
	dispatcher   *CommandDispatcher
}

func NewBridgeService(bootstrapper *Bootstrapper, cache *DeviceCache, dispatcher *CommandDispatcher) *BridgeService {
	return &BridgeService{
		bootstrapper: bootstrapper,
		cache:        cache,
		dispatcher:   dispatcher,
	}
}

func (s *BridgeService) ListDevices(ctx context.Context) (map[string]model.FormattedDevice, error) {
	devices, err := s.cache.FetchAll(ctx, false)
	if err != nil {
		return nil, err
	}
	return formatter.EncodeAll(devices), nil
}

func (s *BridgeService) GetDevice(ctx context.Context, id string, force bool) (*model.FormattedDevice, error) {
	d, err := s.cache.GetByID(ctx, id, force)
	if err != nil {
		return nil, err
	}
	out := formatter.Encode(d)
	return &out, nil
}

func (s *BridgeService) UpdateDevice(ctx context.Context, req *model.WriteRequest) (*model.FormattedDevice, *model.APIError) {
	return s.dispatcher.HandleWrite(ctx, req)
}

func (s *BridgeService) ConnectionState() model.ConnectionState {
	if s.bootstrapper == nil {
		return model.StateDisconnected
	}
	return s.bootstrapper.State()
}
