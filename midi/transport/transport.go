// Package transport connects MIDI input sources to a packet handler.
package transport

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mrdg/synthbridge/midi"
	"go.uber.org/zap"
)

var (
	ErrNoSources   = errors.New("no MIDI sources found")
	ErrNoSource    = errors.New("no such MIDI source")
	ErrUnsupported = errors.New("MIDI transport not supported on this platform")
)

// Handler receives the raw bytes of one packet and the time it arrived, in
// nanoseconds on the transport's clock. It runs on the transport's callback
// goroutine and must not block.
type Handler func(data []byte, ts uint64)

// Transport lists MIDI sources and delivers packets from one of them at a time.
type Transport interface {
	Sources() ([]string, error)
	// Connect replaces any current connection with the source at index.
	Connect(index int, h Handler) error
	Disconnect() error
	Close() error
}

type Options struct {
	ClientName string
	PortName   string
	Clock      *midi.Clock
	Logger     *zap.Logger
}

func (o *Options) defaults() {
	if o.ClientName == "" {
		o.ClientName = "synthbridge"
	}
	if o.PortName == "" {
		o.PortName = "input"
	}
	if o.Clock == nil {
		o.Clock = midi.NewClock()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Kinds lists the transport names accepted by New.
var Kinds = []string{"rtmidi", "coremidi"}

// New opens a transport by name.
func New(kind string, opts Options) (Transport, error) {
	opts.defaults()
	switch kind {
	case "rtmidi", "":
		return newRtmidi(opts)
	case "coremidi":
		return newCoremidi(opts)
	}
	return nil, fmt.Errorf("unknown MIDI transport %q, want one of %s", kind, strings.Join(Kinds, ", "))
}

// Find returns the index of the first source whose name contains name,
// ignoring case.
func Find(t Transport, name string) (int, error) {
	sources, err := t.Sources()
	if err != nil {
		return -1, err
	}
	if len(sources) == 0 {
		return -1, ErrNoSources
	}
	for i, s := range sources {
		if strings.Contains(strings.ToLower(s), strings.ToLower(name)) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrNoSource, name)
}

func checkIndex(index, n int) error {
	if n == 0 {
		return ErrNoSources
	}
	if index < 0 || index >= n {
		return fmt.Errorf("%w: index %d, have %d", ErrNoSource, index, n)
	}
	return nil
}
