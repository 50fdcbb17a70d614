// Package protocol defines the line-oriented command/response contract
// spoken over the daemon's Unix control socket.
package protocol

import (
	"encoding/json"
	"strings"
	"time"
)

// Command represents a command sent to the daemon.
type Command struct {
	Type string                 `json:"type"`
	Args map[string]interface{} `json:"args,omitempty"`
}

// Response represents a response from the daemon.
type Response struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// SinkStatus reports one configured onset consumer's health.
type SinkStatus struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Connected   bool   `json:"connected"`
	DatagramsTx int64  `json:"datagrams_tx"`
	LastError   string `json:"last_error,omitempty"`
}

// Status represents the current daemon status.
type Status struct {
	Algorithm string       `json:"algorithm"`
	Uptime    string       `json:"uptime"`
	StartTime time.Time    `json:"start_time"`
	FramesIn  int64        `json:"frames_processed"`
	Onsets    int64        `json:"onsets_emitted"`
	Sinks     []SinkStatus `json:"sinks"`
	Version   string       `json:"version"`
}

// ParseCommand parses a text command into a Command struct.
func ParseCommand(text string) (*Command, error) {
	text = strings.TrimSpace(text)
	parts := strings.SplitN(text, ":", 2)

	cmd := &Command{
		Type: strings.ToUpper(parts[0]),
		Args: make(map[string]interface{}),
	}

	if len(parts) > 1 {
		args := parts[1]

		switch cmd.Type {
		case "SINK":
			// SINK:name
			cmd.Args["name"] = args
		case "CONFIG":
			// CONFIG:get:key
			configParts := strings.SplitN(args, ":", 3)
			if len(configParts) >= 1 {
				cmd.Args["action"] = configParts[0]
			}
			if len(configParts) >= 2 {
				cmd.Args["key"] = configParts[1]
			}
		}
	}

	return cmd, nil
}

// String converts a Response to its JSON wire form.
func (r *Response) String() string {
	data, _ := json.Marshal(r)
	return string(data)
}

// NewSuccessResponse creates a successful response.
func NewSuccessResponse(data map[string]interface{}) *Response {
	return &Response{Success: true, Data: data}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(err string) *Response {
	return &Response{Success: false, Error: err}
}

// Protocol commands
const (
	CmdStatus = "STATUS"
	CmdSinks  = "SINKS"
	CmdSink   = "SINK"
	CmdConfig = "CONFIG"
	CmdQuit   = "QUIT"
	CmdPing   = "PING"
)
