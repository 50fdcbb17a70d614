// Package wled opens the UDP realtime-control socket WLED strips expose,
// after a quick HTTP sanity check against the device's info endpoint.
package wled

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"
)

type infoResponse struct {
	Leds struct {
		Count int `json:"count"`
	} `json:"leds"`
}

// LEDCount queries a WLED device's /json/info endpoint and returns its
// configured LED count, failing fast if the device is unreachable or the
// response is malformed.
func LEDCount(ip string) (int, error) {
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://%s/json/info", ip))
	if err != nil {
		return 0, fmt.Errorf("wled: info endpoint unreachable for %s: %w", ip, err)
	}
	defer resp.Body.Close()

	var info infoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return 0, fmt.Errorf("wled: malformed info response from %s: %w", ip, err)
	}
	if info.Leds.Count <= 0 {
		return 0, fmt.Errorf("wled: device %s reported zero LEDs", ip)
	}
	return info.Leds.Count, nil
}

// Dial opens the UDP realtime-protocol socket for a WLED device at ip on
// its default DDP/UDP realtime port.
func Dial(ip string) (net.Conn, error) {
	conn, err := net.Dial("udp", net.JoinHostPort(ip, "21324"))
	if err != nil {
		return nil, fmt.Errorf("wled: udp bind failed for %s: %w", ip, err)
	}
	return conn, nil
}
