package midi

import (
	"github.com/mrdg/synthbridge/audio"
	"go.uber.org/zap"
)

// Sender accepts commands for the render thread. It reports false when an older
// pending command had to be dropped.
type Sender interface {
	Send(cmd audio.Command) bool
}

// trace is the per-stream state kept between packets for diagnostics.
type trace struct {
	seen      bool
	timestamp uint64
	value     uint8
}

// Dispatcher decodes packets, translates them and forwards the commands. It
// belongs to one MIDI stream and is not safe for concurrent use; the transport
// calls it from a single callback goroutine.
type Dispatcher struct {
	translator *Translator
	sender     Sender
	log        *zap.Logger
	last       trace
}

func NewDispatcher(t *Translator, s Sender, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{translator: t, sender: s, log: log}
}

// Dispatch handles one packet received at ts and returns the number of commands
// sent.
func (d *Dispatcher) Dispatch(data []byte, ts uint64) int {
	d.observe(data, ts)

	var sent int
	sc := NewScanner(data)
	for sc.Scan() {
		cmd, ok := d.translator.Translate(sc.Message(), ts)
		if !ok {
			continue
		}
		if !d.sender.Send(cmd) {
			d.log.Warn("control channel full; dropped oldest command")
		}
		sent++
	}
	if err := sc.Err(); err != nil {
		d.log.Warn("malformed packet", zap.Error(err), zap.Binary("data", data))
	} else if sc.Offset() < len(data) {
		d.log.Debug("ignored unsupported status",
			zap.Int("offset", sc.Offset()),
			zap.Uint8("status", data[sc.Offset()]))
	}
	return sent
}

// observe logs the time since the previous packet and how fast the data byte
// moved, which shows how densely a controller is sending.
func (d *Dispatcher) observe(data []byte, ts uint64) {
	if len(data) < messageLen {
		return
	}
	value := data[2]
	if d.last.seen && ts > d.last.timestamp && d.log.Core().Enabled(zap.DebugLevel) {
		dt := ts - d.last.timestamp
		speed := 1e9 * (float64(value) - float64(d.last.value)) / float64(dt)
		d.log.Debug("packet",
			zap.Float64("speed", speed),
			zap.Float64("delta_ms", float64(dt)/1e6),
			zap.Uint8("value", value))
	}
	d.last = trace{seen: true, timestamp: ts, value: value}
}
