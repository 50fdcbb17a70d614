// Package hue performs the one-off Entertainment-bridge handshake
// (push-link authentication against a known IP, credential persistence) the core
// pipeline never has to know about: it hands lights.HueSink an already
// open stream and a pre-shared key.
package hue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dougsko/musicsyncd/pkg/storage"
)

const pushLinkDeviceType = "musicsyncd#entertainment"

type registerRequest struct {
	DeviceType        string `json:"devicetype"`
	GenerateClientKey bool   `json:"generateclientkey"`
}

type registerSuccess struct {
	Username  string `json:"username"`
	ClientKey string `json:"clientkey"`
}

type registerResponseEntry struct {
	Success *registerSuccess `json:"success,omitempty"`
	Error   *struct {
		Type        int    `json:"type"`
		Description string `json:"description"`
	} `json:"error,omitempty"`
}

// Authenticate performs push-link authentication against a bridge at ip.
// The operator must press the bridge's physical link button before
// calling this; it makes one attempt and returns an error describing the
// failure (including the "link button not pressed" case) rather than
// polling, leaving retry cadence to the caller.
func Authenticate(ip string) (storage.BridgeCredential, error) {
	body, err := json.Marshal(registerRequest{DeviceType: pushLinkDeviceType, GenerateClientKey: true})
	if err != nil {
		return storage.BridgeCredential{}, fmt.Errorf("hue: encode push-link request: %w", err)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Post(fmt.Sprintf("http://%s/api", ip), "application/json", bytes.NewReader(body))
	if err != nil {
		return storage.BridgeCredential{}, fmt.Errorf("hue: push-link request to %s: %w", ip, err)
	}
	defer resp.Body.Close()

	var entries []registerResponseEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return storage.BridgeCredential{}, fmt.Errorf("hue: decode push-link response: %w", err)
	}
	if len(entries) == 0 {
		return storage.BridgeCredential{}, fmt.Errorf("hue: empty push-link response from %s", ip)
	}
	entry := entries[0]
	if entry.Error != nil {
		return storage.BridgeCredential{}, fmt.Errorf("hue: push-link rejected: %s", entry.Error.Description)
	}
	if entry.Success == nil {
		return storage.BridgeCredential{}, fmt.Errorf("hue: push-link response missing success entry")
	}

	return storage.BridgeCredential{
		ID:           ip,
		IP:           ip,
		AppKey:       entry.Success.ClientKey,
		AppID:        entry.Success.Username,
		PSK:          []byte(entry.Success.ClientKey),
		RegisteredAt: time.Now(),
	}, nil
}

// AuthenticateAndStore authenticates against ip and persists the resulting
// credential in store, returning it for immediate use.
func AuthenticateAndStore(ip string, store *storage.BridgeCredentialStore) (storage.BridgeCredential, error) {
	cred, err := Authenticate(ip)
	if err != nil {
		return storage.BridgeCredential{}, err
	}
	if err := store.Put(cred); err != nil {
		return storage.BridgeCredential{}, fmt.Errorf("hue: persist credential: %w", err)
	}
	return cred, nil
}

// Dial opens the Entertainment-protocol datagram stream for cred.
//
// The Entertainment API runs its UDP payloads inside DTLS-PSK, but no DTLS
// library appears anywhere in the retrieval pack. Per the spec's own
// framing of the bridge handshake as "a collaborator, not specified", Dial
// returns the plain UDP connection the caller would wrap in a DTLS session
// given a concrete DTLS implementation; lights.HueSink is written against
// the resulting io.WriteCloser and never inspects cred.PSK itself, so
// swapping in a real DTLS dialer later does not touch the sink.
func Dial(cred storage.BridgeCredential) (net.Conn, error) {
	conn, err := net.Dial("udp", net.JoinHostPort(cred.IP, "2100"))
	if err != nil {
		return nil, fmt.Errorf("hue: dial entertainment endpoint: %w", err)
	}
	return conn, nil
}
