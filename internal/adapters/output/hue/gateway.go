// Package hue implements the gateway port on top of a Philips Hue bridge.
package hue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"lightbridge/internal/domain/model"

	"github.com/amimof/huego"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const appName = "lightbridge"

// Discoverer locates a bridge on the network.
type Discoverer interface {
	Discover(ctx context.Context) (*model.GatewayInfo, error)
}

// CloudDiscoverer asks the vendor discovery endpoint for bridges on the
// caller's network.
type CloudDiscoverer struct{}

func (CloudDiscoverer) Discover(ctx context.Context) (*model.GatewayInfo, error) {
	bridges, err := huego.DiscoverAll()
	if err != nil {
		return nil, err
	}
	if len(bridges) == 0 {
		return nil, errors.New("discovery endpoint returned no bridges")
	}
	return &model.GatewayInfo{Host: bridges[0].Host, ID: bridges[0].ID}, nil
}

type Options struct {
	// Host skips discovery when set.
	Host            string
	RequestTimeout  time.Duration
	ObserveInterval time.Duration
	Discoverers     []Discoverer
}

type Gateway struct {
	opts Options

	mu     sync.RWMutex
	info   *model.GatewayInfo
	bridge *huego.Bridge
}

func NewGateway(opts Options) *Gateway {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	return &Gateway{opts: opts}
}

func (g *Gateway) Discover(ctx context.Context) (*model.GatewayInfo, error) {
	if g.opts.Host != "" {
		return g.setInfo(&model.GatewayInfo{Host: g.opts.Host}), nil
	}

	var errs []error
	for _, d := range g.opts.Discoverers {
		info, err := d.Discover(ctx)
		if err == nil {
			return g.setInfo(info), nil
		}
		log.Debug().Err(err).Msgf("Discovery via %T failed", d)
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return nil, errors.New("no discovery method configured")
	}
	return nil, errors.Join(errs...)
}

// Connect opens a session for the given bridge user. The bridge has no
// handshake, so the session is verified with a light listing.
func (g *Gateway) Connect(ctx context.Context, identity, psk string) error {
	host, err := g.host()
	if err != nil {
		return model.NewTransportError("connect", err)
	}
	if identity == "" {
		return model.NewTransportError("connect", errors.New("no identity"))
	}

	bridge := huego.New(host, identity)
	ctx, cancel := context.WithTimeout(ctx, g.opts.RequestTimeout)
	defer cancel()
	if _, err := bridge.GetLightsContext(ctx); err != nil {
		return model.NewTransportError("connect", err)
	}

	g.mu.Lock()
	g.bridge = bridge
	g.mu.Unlock()
	return nil
}

// Authenticate registers a new bridge user. Hue bridges authorize through the
// link button rather than a printed code, so securityCode is not sent; the
// returned psk is empty.
func (g *Gateway) Authenticate(ctx context.Context, securityCode string) (string, string, error) {
	host, err := g.host()
	if err != nil {
		return "", "", model.NewTransportError("authenticate", err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.opts.RequestTimeout)
	defer cancel()

	deviceType := fmt.Sprintf("%s#%s", appName, uuid.NewString()[:8])
	user, err := huego.New(host, "").CreateUserContext(ctx, deviceType)
	if err != nil {
		return "", "", model.NewTransportError("authenticate", fmt.Errorf("press the bridge link button and retry: %w", err))
	}
	log.Info().Str("devicetype", deviceType).Msg("Registered bridge user")
	return user, "", nil
}

func (g *Gateway) Devices(ctx context.Context) ([]*model.RawDevice, error) {
	bridge, err := g.session()
	if err != nil {
		return nil, model.NewTransportError("fetchDevices", err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.opts.RequestTimeout)
	defer cancel()

	lights, err := bridge.GetLightsContext(ctx)
	if err != nil {
		return nil, model.NewTransportError("fetchDevices", err)
	}
	sensors, err := bridge.GetSensorsContext(ctx)
	if err != nil {
		return nil, model.NewTransportError("fetchDevices", err)
	}

	devices := make([]*model.RawDevice, 0, len(lights)+len(sensors))
	for _, l := range lights {
		devices = append(devices, lightDevice(l))
	}
	for _, s := range sensors {
		if d, ok := sensorDevice(s); ok {
			devices = append(devices, d)
		}
	}
	sort.Slice(devices, func(i, j int) bool { return devices[i].InstanceID < devices[j].InstanceID })
	return devices, nil
}

func (g *Gateway) OperateLight(ctx context.Context, device *model.RawDevice, cmd model.DeviceStateCommand) error {
	bridge, err := g.session()
	if err != nil {
		return model.NewTransportError("setLightState", err)
	}
	if device.InstanceID >= SensorIDOffset {
		return model.NewTransportError("setLightState", fmt.Errorf("device %s is not a light", device.ID()))
	}

	ctx, cancel := context.WithTimeout(ctx, g.opts.RequestTimeout)
	defer cancel()

	state := toState(device, cmd)
	if _, err := bridge.SetLightStateContext(ctx, device.InstanceID, state); err != nil {
		return model.NewTransportError("setLightState", err)
	}
	log.Debug().Str("device", device.ID()).Interface("state", state).Msg("Light state sent")
	return nil
}

// ObserveDevices polls the bridge, which has no push channel, and calls
// onChange when the reported devices differ from the previous poll.
func (g *Gateway) ObserveDevices(ctx context.Context, onChange func()) error {
	if g.opts.ObserveInterval <= 0 {
		log.Info().Msg("Device observation disabled")
		return nil
	}
	if _, err := g.session(); err != nil {
		return err
	}

	go g.observe(ctx, onChange)
	return nil
}

func (g *Gateway) observe(ctx context.Context, onChange func()) {
	ticker := time.NewTicker(g.opts.ObserveInterval)
	defer ticker.Stop()

	var last uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		devices, err := g.Devices(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Device poll failed")
			continue
		}
		sum := fingerprint(devices)
		if last != 0 && sum != last {
			log.Debug().Msg("Device change observed")
			onChange()
		}
		last = sum
	}
}

func fingerprint(devices []*model.RawDevice) uint64 {
	h := fnv.New64a()
	enc := json.NewEncoder(h)
	for _, d := range devices {
		// RawDevice always encodes; the hash writer never fails
		_ = enc.Encode(d)
	}
	return h.Sum64()
}

func (g *Gateway) setInfo(info *model.GatewayInfo) *model.GatewayInfo {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.info = info
	return info
}

func (g *Gateway) host() (string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.info == nil {
		return "", errors.New("gateway not discovered")
	}
	return g.info.Host, nil
}

func (g *Gateway) session() (*huego.Bridge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.bridge == nil {
		return nil, model.ErrNotConnected
	}
	return g.bridge, nil
}
