package ssdp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"lightbridge/internal/domain/model"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	MulticastAddr = "239.255.255.250:1900"
	searchTarget  = "urn:schemas-upnp-org:device:basic:1"
)

var ErrNoGateway = errors.New("no gateway answered the SSDP search")

// Client finds a gateway on the local network with an SSDP M-SEARCH.
type Client struct {
	addr    string
	timeout time.Duration
}

func NewClient(timeout time.Duration) *Client {
	return &Client{addr: MulticastAddr, timeout: timeout}
}

// Discover returns the first responder that identifies itself as a bridge.
func (c *Client) Discover(ctx context.Context) (*model.GatewayInfo, error) {
	dest, err := net.ResolveUDPAddr("udp4", c.addr)
	if err != nil {
		return nil, err
	}

	conn, err := net.ListenPacket("udp4", ":0")
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, err
	}

	stop := context.AfterFunc(ctx, func() { conn.SetDeadline(time.Now()) })
	defer stop()

	if _, err := conn.WriteTo(searchRequest(c.timeout), dest); err != nil {
		return nil, err
	}

	buf := make([]byte, 2048)
	for {
		n, src, err := conn.ReadFrom(buf)
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				return nil, ErrNoGateway
			}
			return nil, err
		}

		info, ok := parseResponse(buf[:n])
		if !ok {
			log.Debug().Str("from", src.String()).Msg("Ignoring SSDP response")
			continue
		}
		log.Info().Str("host", info.Host).Str("id", info.ID).Msg("Gateway found via SSDP")
		return info, nil
	}
}

func searchRequest(timeout time.Duration) []byte {
	mx := int(timeout.Seconds())
	if mx < 1 {
		mx = 1
	}
	return []byte(fmt.Sprintf("M-SEARCH * HTTP/1.1\r\n"+
		"HOST: %s\r\n"+
		"MAN: \"ssdp:discover\"\r\n"+
		"MX: %d\r\n"+
		"ST: %s\r\n\r\n", MulticastAddr, mx, searchTarget))
}

func parseResponse(data []byte) (*model.GatewayInfo, bool) {
	resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(data)), nil)
	if err != nil {
		return nil, false
	}
	resp.Body.Close()

	bridgeID := resp.Header.Get("hue-bridgeid")
	if bridgeID == "" && !strings.Contains(resp.Header.Get("Server"), "IpBridge") {
		return nil, false
	}

	loc, err := url.Parse(resp.Header.Get("Location"))
	if err != nil || loc.Host == "" {
		return nil, false
	}

	host := loc.Host
	if loc.Port() == "80" {
		host = loc.Hostname()
	}
	return &model.GatewayInfo{Host: host, ID: bridgeID}, true
}
