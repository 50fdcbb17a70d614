// Package engine implements the pipeline orchestrator (C10): it owns the
// capture device, runs frame assembly through onset detection on the
// audio thread, and fans results out to every configured sink. It also
// serves the daemon's Unix control socket, mirroring the teacher's
// accept/handle-connection idiom.
package engine

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/dougsko/musicsyncd/pkg/audio"
	"github.com/dougsko/musicsyncd/pkg/config"
	"github.com/dougsko/musicsyncd/pkg/hardware"
	"github.com/dougsko/musicsyncd/pkg/lights"
	"github.com/dougsko/musicsyncd/pkg/logging"
	"github.com/dougsko/musicsyncd/pkg/onset"
	"github.com/dougsko/musicsyncd/pkg/pipeline"
	"github.com/dougsko/musicsyncd/pkg/protocol"
	"github.com/dougsko/musicsyncd/pkg/storage"
)

const component = "engine"

// sinkHandle pairs a sink with its supervising polling helper (if it has
// one) and the bookkeeping the control socket's STATUS/SINK commands read.
type sinkHandle struct {
	name    string
	kind    string
	sink    lights.Sink
	helper  *lights.PollingHelper
	mu      sync.Mutex
	txCount int64
	lastErr string
}

// recordTick is the PollingHelper onTick callback: it updates the
// datagram counter and last-error string the control socket's
// STATUS/SINK commands read.
func (h *sinkHandle) recordTick(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.lastErr = err.Error()
		return
	}
	h.txCount++
}

// Engine is the pipeline orchestrator.
type Engine struct {
	cfg        *config.Config
	socketPath string
	listener   net.Listener

	mu      sync.RWMutex
	running bool

	startTime time.Time
	framesIn  int64
	onsets    int64

	capture   *audio.Capture
	assembler *pipeline.Assembler
	buffer    *pipeline.AnalysisBuffer
	melBank   *pipeline.MelBank
	detector  onset.Detector
	specFlux  *onset.SpecFlux // non-nil only when Detector.Algorithm == spec_flux; melbank feeds it directly

	sinks       []*sinkHandle
	credentials *storage.BridgeCredentialStore
}

// New builds an Engine from configuration; it does not yet open the
// capture device or any sink connection — call Start for that.
func New(cfg *config.Config, socketPath string) *Engine {
	return &Engine{
		cfg:        cfg,
		socketPath: socketPath,
	}
}

// Start builds the processing pipeline, opens the capture device, dials
// every configured sink, and starts serving the control socket. Per-sink
// construction errors are logged but do not abort startup; only a
// device-level failure is fatal.
func (e *Engine) Start() error {
	e.mu.Lock()
	e.running = true
	e.startTime = time.Now()
	e.mu.Unlock()

	settings := pipeline.Settings{
		SampleRate: e.cfg.Audio.SampleRate,
		HopSize:    e.cfg.Audio.HopSize,
		BufferSize: e.cfg.Audio.BufferSize,
		FFTSize:    e.cfg.Audio.FFTSize,
		Window:     pipeline.ParseWindowType(e.cfg.Audio.WindowType),
		Channels:   2,
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("engine: invalid audio settings: %w", err)
	}

	e.assembler = pipeline.NewAssembler(settings)
	e.buffer = pipeline.NewAnalysisBuffer(settings)
	e.melBank = pipeline.NewMelBank(settings, e.cfg.Detector.MelBands, e.cfg.Detector.MaxFreqHz)

	switch e.cfg.Detector.Algorithm {
	case "spec_flux":
		sf := onset.NewSpecFlux(onset.DefaultSpecFluxConfig(e.cfg.Detector.MelBands))
		e.specFlux = sf
		e.detector = sf
	default:
		e.detector = onset.NewHFC(onset.DefaultHFCConfig(settings.SampleRate, settings.FFTSize))
	}

	e.buildSinks(settings)

	cap, err := audio.Open(audio.Config{
		DeviceName:      e.cfg.AudioDevice,
		SampleRate:      float64(settings.SampleRate),
		Channels:        settings.Channels,
		FramesPerBuffer: settings.HopSize,
	}, e.onCapture)
	if err != nil {
		return fmt.Errorf("engine: open capture device: %w", err)
	}
	e.capture = cap
	if err := e.capture.Start(); err != nil {
		return fmt.Errorf("engine: start capture: %w", err)
	}

	if err := e.startControlSocket(); err != nil {
		return fmt.Errorf("engine: start control socket: %w", err)
	}

	logging.Info(component, fmt.Sprintf("pipeline started: algorithm=%s sinks=%d", e.cfg.Detector.Algorithm, len(e.sinks)))
	return nil
}

// buildSinks constructs every configured Hue and WLED sink. A construction
// failure for one endpoint is logged and skipped; it never prevents the
// others from starting (per the spec's sink-construction error policy).
func (e *Engine) buildSinks(settings pipeline.Settings) {
	if e.cfg.ConsoleOutput {
		e.sinks = append(e.sinks, &sinkHandle{name: "console", kind: "console", sink: lights.NewConsoleSink()})
	}

	hopMs := int64(settings.HopSize) * 1000 / int64(settings.SampleRate)
	e.sinks = append(e.sinks, &sinkHandle{
		name: "serializer", kind: "cbor",
		sink: lights.NewFileSerializer(e.cfg.SerializeOnsets, hopMs),
	})

	for _, h := range e.cfg.Hue {
		handle, err := e.buildHueSink(h)
		if err != nil {
			logging.Warnf(component, "hue sink %s: %v", h.IP, err)
			continue
		}
		e.sinks = append(e.sinks, handle)
	}

	for _, w := range e.cfg.WLED {
		handle, err := e.buildWLEDSink(w, settings)
		if err != nil {
			logging.Warnf(component, "wled sink %s: %v", w.IP, err)
			continue
		}
		e.sinks = append(e.sinks, handle)
	}
}

// onCapture is the audio-thread entry point: it runs C1-C6 synchronously
// for every complete frame the assembler can extract, then fans the
// results out to every sink, per the orchestrator contract. It must never
// block — sink Process* calls take only the sink's own lock for
// microseconds, and no sink performs I/O here.
func (e *Engine) onCapture(block []float32) {
	// PortAudio owns block's backing array and reuses it on the next
	// callback, so it is copied into a pooled scratch buffer rather than
	// retained; Assembler.Push itself copies out of that buffer before
	// Release returns it to the pool.
	scratch := hardware.GetFrameBuffer(len(block))
	copy(scratch.Data, block)

	frames := e.assembler.Push(scratch.Data)
	for _, frame := range frames {
		e.processFrame(frame)
	}

	scratch.Release()
}

func (e *Engine) processFrame(frame []float32) {
	e.buffer.ProcessRaw(frame)
	e.mu.Lock()
	e.framesIn++
	e.mu.Unlock()

	var mel []float64
	if e.specFlux != nil {
		mel = make([]float64, e.melBank.Bands())
		e.melBank.Apply(e.buffer.Spectrum, mel)
		e.specFlux.ApplyMelBank(mel)
	}

	events := e.detector.Detect(e.buffer.Spectrum, e.buffer.Peak, e.buffer.RMS)

	e.mu.Lock()
	for _, ev := range events {
		if ev.Kind != onset.Raw && ev.Kind != onset.Atmosphere {
			e.onsets++
		}
	}
	e.mu.Unlock()

	for _, handle := range e.sinks {
		handle.sink.ProcessOnsets(events)
		handle.sink.ProcessSpectrum(e.buffer.Spectrum)
		handle.sink.ProcessSamples(e.buffer.Mono)
		handle.sink.Update()
	}
}

func (e *Engine) isRunning() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.running
}

// Stop tears down the control socket, capture stream, and every sink in
// turn. Sink Close() signals and joins its polling goroutine synchronously,
// so Stop does not return until all network I/O has quiesced.
func (e *Engine) Stop() error {
	e.mu.Lock()
	e.running = false
	e.mu.Unlock()

	if e.listener != nil {
		e.listener.Close()
	}
	if e.capture != nil {
		if err := e.capture.Close(); err != nil {
			logging.Warnf(component, "capture shutdown: %v", err)
		}
	}
	for _, handle := range e.sinks {
		if handle.helper != nil {
			handle.helper.Close()
		}
		if err := handle.sink.Close(); err != nil {
			logging.Warnf(component, "sink %s shutdown: %v", handle.name, err)
		}
	}
	if e.credentials != nil {
		e.credentials.Close()
	}
	os.Remove(e.socketPath)
	return nil
}

// startControlSocket mirrors the teacher's Unix-socket accept loop,
// repurposed to serve pipeline/sink health instead of radio state.
func (e *Engine) startControlSocket() error {
	os.Remove(e.socketPath)

	listener, err := net.Listen("unix", e.socketPath)
	if err != nil {
		return err
	}
	e.listener = listener
	os.Chmod(e.socketPath, 0o660)

	go e.acceptConnections()
	return nil
}

func (e *Engine) acceptConnections() {
	for e.isRunning() {
		conn, err := e.listener.Accept()
		if err != nil {
			if e.isRunning() {
				logging.Warnf(component, "socket accept: %v", err)
			}
			continue
		}
		go e.handleConnection(conn)
	}
}

func (e *Engine) handleConnection(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		cmd, err := protocol.ParseCommand(line)
		if err != nil {
			resp := protocol.NewErrorResponse(fmt.Sprintf("parse error: %v", err))
			conn.Write([]byte(resp.String() + "\n"))
			continue
		}
		resp := e.handleCommand(cmd)
		conn.Write([]byte(resp.String() + "\n"))
		if cmd.Type == protocol.CmdQuit {
			break
		}
	}
}

func (e *Engine) handleCommand(cmd *protocol.Command) *protocol.Response {
	switch cmd.Type {
	case protocol.CmdStatus:
		return e.handleStatus()
	case protocol.CmdSinks, protocol.CmdSink:
		return e.handleSink(cmd)
	case protocol.CmdPing:
		return protocol.NewSuccessResponse(map[string]interface{}{"pong": time.Now().Unix()})
	case protocol.CmdQuit:
		return protocol.NewSuccessResponse(map[string]interface{}{"message": "goodbye"})
	default:
		return protocol.NewErrorResponse(fmt.Sprintf("unknown command: %s", cmd.Type))
	}
}

func (e *Engine) handleStatus() *protocol.Response {
	e.mu.RLock()
	status := protocol.Status{
		Algorithm: e.cfg.Detector.Algorithm,
		Uptime:    time.Since(e.startTime).Round(time.Second).String(),
		StartTime: e.startTime,
		FramesIn:  e.framesIn,
		Onsets:    e.onsets,
		Version:   "0.1.0-dev",
	}
	e.mu.RUnlock()

	for _, handle := range e.sinks {
		handle.mu.Lock()
		status.Sinks = append(status.Sinks, protocol.SinkStatus{
			Name:        handle.name,
			Kind:        handle.kind,
			Connected:   true,
			DatagramsTx: handle.txCount,
			LastError:   handle.lastErr,
		})
		handle.mu.Unlock()
	}

	data, _ := structToMap(status)
	return protocol.NewSuccessResponse(data)
}

func (e *Engine) handleSink(cmd *protocol.Command) *protocol.Response {
	name, _ := cmd.Args["name"].(string)
	for _, handle := range e.sinks {
		if name == "" || handle.name == name {
			handle.mu.Lock()
			data := map[string]interface{}{
				"name":         handle.name,
				"kind":         handle.kind,
				"datagrams_tx": handle.txCount,
				"last_error":   handle.lastErr,
			}
			handle.mu.Unlock()
			return protocol.NewSuccessResponse(data)
		}
	}
	return protocol.NewErrorResponse(fmt.Sprintf("unknown sink: %s", name))
}

// structToMap is a tiny JSON round-trip used only to turn protocol.Status
// into the map[string]interface{} shape protocol.Response.Data expects.
func structToMap(v interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
