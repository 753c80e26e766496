package service

import (
	"context"
	"fmt"
	"lightbridge/internal/domain/formatter"
	"lightbridge/internal/domain/model"
	"lightbridge/internal/metrics"
	"lightbridge/internal/ports"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// CommandDispatcher validates and executes device writes.
type CommandDispatcher struct {
	gateway ports.GatewayPort
	cache   *DeviceCache
	metrics *metrics.Metrics
}

func NewCommandDispatcher(gateway ports.GatewayPort, cache *DeviceCache, m *metrics.Metrics) *CommandDispatcher {
	return &CommandDispatcher{
		gateway: gateway,
		cache:   cache,
		metrics: m,
	}
}

// HandleWrite checks the request, operates the light and returns the device
// as re-read from the gateway.
func (d *CommandDispatcher) HandleWrite(ctx context.Context, req *model.WriteRequest) (*model.FormattedDevice, *model.APIError) {
	out, apiErr := d.handleWrite(ctx, req)
	if apiErr != nil {
		d.metrics.Command(string(apiErr.Code))
		return nil, apiErr
	}
	d.metrics.Command("ok")
	return out, nil
}

func (d *CommandDispatcher) handleWrite(ctx context.Context, req *model.WriteRequest) (*model.FormattedDevice, *model.APIError) {
	if req == nil || req.Device == nil {
		return nil, model.NewValidationError(model.ErrNoDevice, "No device given")
	}
	if req.Device.Type != model.DeviceTypeLightbulb {
		return nil, model.NewValidationError(model.ErrNotBulb,
			fmt.Sprintf("Device %q is of type %q, only lightbulbs can be operated", req.Device.ID, req.Device.Type))
	}

	devices, err := d.cache.FetchAll(ctx, false)
	if err != nil {
		return nil, model.AsTransportError("fetchDevices", err).ToAPIError()
	}
	raw, ok := devices[req.Device.ID]
	if !ok {
		return nil, model.NewValidationError(model.ErrDeviceNotFound,
			fmt.Sprintf("Device %q not found", req.Device.ID))
	}
	if raw.Type != model.DeviceTypeLightbulb {
		return nil, model.NewValidationError(model.ErrNotBulb,
			fmt.Sprintf("Device %q is of type %q, only lightbulbs can be operated", raw.ID(), raw.Type))
	}

	input := *req.Device
	input.Variant = model.VariantOf(raw)
	cmd := formatter.Decode(&input)
	cmd.TransitionTime = req.EffectiveTransitionTime()

	log.Debug().
		Str("device", raw.ID()).
		Str("variant", string(input.Variant)).
		Interface("command", cmd).
		Msg("Operating light")

	started := time.Now()
	err = d.gateway.OperateLight(ctx, raw, cmd)
	d.metrics.GatewayOperate(started)
	if err != nil {
		te := model.AsTransportError("operateLight", err)
		log.Error().Err(te).Str("device", raw.ID()).Msg("Operate light failed")
		return nil, te.ToAPIError()
	}

	d.cache.Invalidate()
	devices, err = d.cache.FetchAll(ctx, true)
	if err != nil {
		return nil, model.AsTransportError("fetchDevices", err).ToAPIError()
	}
	updated, ok := devices[raw.ID()]
	if !ok {
		return nil, &model.APIError{
			Status:  http.StatusNotFound,
			Code:    model.ErrDeviceNotFound,
			Message: fmt.Sprintf("Device %q disappeared after update", raw.ID()),
		}
	}

	out := formatter.Encode(updated)
	return &out, nil
}
