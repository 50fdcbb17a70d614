package main

import (
	"fmt"

	"github.com/dougsko/musicsyncd/pkg/config"
	"github.com/dougsko/musicsyncd/pkg/engine"
)

// Daemon wraps the pipeline engine with the process-level concerns (PID
// file, signal handling) main.go already manages; it exists mainly so
// main.go's lifecycle reads the same way the teacher's did.
type Daemon struct {
	config     *config.Config
	coreEngine *engine.Engine
}

// NewDaemon builds a Daemon bound to its control socket path.
func NewDaemon(cfg *config.Config) (*Daemon, error) {
	socketPath := "/tmp/musicsyncd.sock"
	return &Daemon{
		config:     cfg,
		coreEngine: engine.New(cfg, socketPath),
	}, nil
}

// Start starts the pipeline engine.
func (d *Daemon) Start() error {
	if err := d.coreEngine.Start(); err != nil {
		return fmt.Errorf("failed to start pipeline engine: %w", err)
	}
	return nil
}

// Stop stops the pipeline engine, tearing down the capture device and
// every sink.
func (d *Daemon) Stop() error {
	return d.coreEngine.Stop()
}
