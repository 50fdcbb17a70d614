// Package client talks to a running daemon over its Unix control socket.
package client

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/dougsko/musicsyncd/pkg/protocol"
)

// SocketClient is a client connection to the daemon's control socket.
type SocketClient struct {
	socketPath string
	timeout    time.Duration
}

// NewSocketClient creates a new socket client.
func NewSocketClient(socketPath string) *SocketClient {
	return &SocketClient{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// SendCommand sends a command and returns the parsed response.
func (c *SocketClient) SendCommand(cmd string) (*protocol.Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to socket: %w", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	if _, err := conn.Write([]byte(cmd + "\n")); err != nil {
		return nil, fmt.Errorf("send error: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		return nil, fmt.Errorf("no response received")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	var response protocol.Response
	if err := json.Unmarshal(scanner.Bytes(), &response); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return &response, nil
}

// GetStatus fetches the current pipeline status.
func (c *SocketClient) GetStatus() (*protocol.Status, error) {
	resp, err := c.SendCommand(protocol.CmdStatus)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("status error: %s", resp.Error)
	}

	statusJSON, err := json.Marshal(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to re-marshal status: %w", err)
	}
	var status protocol.Status
	if err := json.Unmarshal(statusJSON, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status: %w", err)
	}
	return &status, nil
}

// GetSinkStatus fetches the health of a single configured sink by name.
func (c *SocketClient) GetSinkStatus(name string) (*protocol.SinkStatus, error) {
	resp, err := c.SendCommand(fmt.Sprintf("%s:%s", protocol.CmdSink, name))
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("sink error: %s", resp.Error)
	}

	sinkJSON, err := json.Marshal(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to re-marshal sink status: %w", err)
	}
	var sink protocol.SinkStatus
	if err := json.Unmarshal(sinkJSON, &sink); err != nil {
		return nil, fmt.Errorf("failed to parse sink status: %w", err)
	}
	return &sink, nil
}

// Ping tests the connection.
func (c *SocketClient) Ping() error {
	resp, err := c.SendCommand(protocol.CmdPing)
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("ping error: %s", resp.Error)
	}
	return nil
}

// IsConnected reports whether the daemon is reachable.
func (c *SocketClient) IsConnected() bool {
	return c.Ping() == nil
}
