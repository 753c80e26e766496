package service

import (
	"context"
	"fmt"
	"lightbridge/internal/domain/model"
	"lightbridge/internal/ports"
	"sync"

	"github.com/rs/zerolog/log"
)

// Bootstrapper brings up the single gateway connection of the process:
// discover, connect with stored credentials, pair when that fails, persist
// the fresh credentials and start observing devices.
type Bootstrapper struct {
	gateway ports.GatewayPort
	repo    ports.CredentialRepository

	// run serializes Bootstrap calls
	run sync.Mutex

	mu       sync.RWMutex
	state    model.ConnectionState
	err      error
	onChange func()
}

func NewBootstrapper(gateway ports.GatewayPort, repo ports.CredentialRepository) *Bootstrapper {
	return &Bootstrapper{
		gateway: gateway,
		repo:    repo,
		state:   model.StateDisconnected,
	}
}

// OnDeviceChange registers the callback run when observation sees a change.
// Must be called before Bootstrap.
func (b *Bootstrapper) OnDeviceChange(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = fn
}

func (b *Bootstrapper) State() model.ConnectionState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Bootstrap returns the connected gateway. Connected and Failed are terminal:
// later calls return the same outcome without touching the network.
// Concurrent calls wait for the one in progress and share its outcome.
func (b *Bootstrapper) Bootstrap(ctx context.Context, creds *model.Credentials) (ports.GatewayPort, error) {
	b.run.Lock()
	defer b.run.Unlock()

	switch b.State() {
	case model.StateConnected:
		return b.gateway, nil
	case model.StateFailed:
		return nil, b.failure()
	}

	b.setState(model.StateConnecting)
	info, err := b.gateway.Discover(ctx)
	if err != nil {
		return nil, b.fail(fmt.Errorf("%w: %w", model.ErrDiscoveryFailed, err))
	}
	log.Info().Str("host", info.Host).Str("id", info.ID).Msg("Gateway discovered")

	if err := b.gateway.Connect(ctx, creds.Identity, creds.PSK); err != nil {
		log.Warn().Err(err).Msg("Connect with stored credentials failed, pairing with security code")
		if err := b.pair(ctx, creds); err != nil {
			return nil, b.fail(err)
		}
	}

	b.setState(model.StateConnected)
	log.Info().Str("host", info.Host).Msg("Successfully connected")

	b.mu.RLock()
	onChange := b.onChange
	b.mu.RUnlock()
	if onChange == nil {
		onChange = func() {}
	}
	if err := b.gateway.ObserveDevices(ctx, onChange); err != nil {
		log.Warn().Err(err).Msg("Failed to start device observation")
	}

	return b.gateway, nil
}

func (b *Bootstrapper) pair(ctx context.Context, creds *model.Credentials) error {
	b.setState(model.StateAuthenticating)

	identity, psk, err := b.gateway.Authenticate(ctx, creds.SecurityCode)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrPairingFailed, err)
	}
	if err := b.gateway.Connect(ctx, identity, psk); err != nil {
		return fmt.Errorf("%w: %w", model.ErrConnectFailed, err)
	}

	// A failed write is logged; the session stays connected.
	if err := b.repo.Save(ctx, creds.WithPairing(identity, psk)); err != nil {
		log.Error().Err(err).Msg("Failed to persist paired credentials")
	} else {
		log.Info().Str("identity", identity).Msg("Paired with gateway, credentials saved")
	}
	return nil
}

func (b *Bootstrapper) setState(s model.ConnectionState) {
	b.mu.Lock()
	prev := b.state
	b.state = s
	b.mu.Unlock()
	log.Debug().Str("from", string(prev)).Str("to", string(s)).Msg("Gateway connection state")
}

func (b *Bootstrapper) fail(err error) error {
	b.mu.Lock()
	b.state = model.StateFailed
	b.err = err
	b.mu.Unlock()
	return err
}

func (b *Bootstrapper) failure() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.err
}
