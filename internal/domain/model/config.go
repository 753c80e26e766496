package model

const DefaultPort = 3111

// Credentials is the persisted settings file. Identity and PSK are replaced
// after a successful pairing; the security code and port are kept as-is.
type Credentials struct {
	Identity     string `json:"identity"`
	PSK          string `json:"psk"`
	SecurityCode string `json:"securityCode"`
	Port         int    `json:"port,omitempty"`
}

// ListenPort returns the configured port, falling back to DefaultPort.
func (c *Credentials) ListenPort() int {
	if c.Port <= 0 {
		return DefaultPort
	}
	return c.Port
}

// WithPairing returns a copy holding freshly paired identity and psk.
func (c Credentials) WithPairing(identity, psk string) *Credentials {
	c.Identity = identity
	c.PSK = psk
	return &c
}

// GatewayInfo describes a discovered gateway.
type GatewayInfo struct {
	Host string
	ID   string
}

// ConnectionState of the single gateway connection.
type ConnectionState string

const (
	StateDisconnected   ConnectionState = "disconnected"
	StateConnecting     ConnectionState = "connecting"
	StateAuthenticating ConnectionState = "authenticating"
	StateConnected      ConnectionState = "connected"
	StateFailed         ConnectionState = "failed"
)
