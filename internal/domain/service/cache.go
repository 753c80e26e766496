package service

import (
	"context"
	"fmt"
	"lightbridge/internal/domain/model"
	"lightbridge/internal/metrics"
	"lightbridge/internal/ports"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// DeviceCache holds the last device list fetched from the gateway. Concurrent
// callers share one in-flight fetch; the result stays valid until Invalidate.
// Returned maps are shared between callers and must not be modified.
type DeviceCache struct {
	gateway ports.GatewayPort
	metrics *metrics.Metrics
	group   singleflight.Group

	mu         sync.Mutex
	generation uint64
	devices    map[string]*model.RawDevice
}

func NewDeviceCache(gateway ports.GatewayPort, m *metrics.Metrics) *DeviceCache {
	return &DeviceCache{
		gateway: gateway,
		metrics: m,
	}
}

// FetchAll returns the cached device set, fetching it when there is none or
// when force is set. A forced call still joins a fetch already in flight for
// the current generation; only Invalidate starts a new one.
func (c *DeviceCache) FetchAll(ctx context.Context, force bool) (map[string]*model.RawDevice, error) {
	c.mu.Lock()
	if !force && c.devices != nil {
		devices := c.devices
		c.mu.Unlock()
		c.metrics.CacheRequest(metrics.CacheHit)
		return devices, nil
	}
	gen := c.generation
	c.mu.Unlock()

	// The fetch outlives any single caller's cancellation since others may
	// be waiting on it.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(strconv.FormatUint(gen, 10), func() (interface{}, error) {
		return c.fetch(fetchCtx, gen)
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.metrics.CacheRequest(metrics.CacheShared)
		} else {
			c.metrics.CacheRequest(metrics.CacheMiss)
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(map[string]*model.RawDevice), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetByID looks a device up in the (possibly refreshed) device set.
func (c *DeviceCache) GetByID(ctx context.Context, id string, force bool) (*model.RawDevice, error) {
	devices, err := c.FetchAll(ctx, force)
	if err != nil {
		return nil, err
	}
	d, ok := devices[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrDeviceMissing, id)
	}
	return d, nil
}

// Invalidate drops the cached result. A fetch still in flight is not stored.
func (c *DeviceCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.devices = nil
}

func (c *DeviceCache) fetch(ctx context.Context, gen uint64) (map[string]*model.RawDevice, error) {
	started := time.Now()
	list, err := c.gateway.Devices(ctx)
	c.metrics.GatewayFetch(err, started)
	if err != nil {
		log.Warn().Err(err).Msg("Device fetch failed")
		return nil, model.AsTransportError("fetchDevices", err)
	}

	devices := make(map[string]*model.RawDevice, len(list))
	for _, d := range list {
		devices[d.ID()] = d
	}

	c.mu.Lock()
	if c.generation == gen {
		c.devices = devices
	}
	c.mu.Unlock()

	log.Debug().
		Int("devices", len(devices)).
		Dur("took", time.Since(started)).
		Msg("Device cache refreshed")
	return devices, nil
}
