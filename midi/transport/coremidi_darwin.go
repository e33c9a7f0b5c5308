//go:build darwin

package transport

import (
	"fmt"
	"sync"

	"github.com/mrdg/synthbridge/midi"
	"github.com/youpy/go-coremidi"
	"go.uber.org/zap"
)

type portConnection interface {
	Disconnect()
}

type coreMidi struct {
	mu     sync.Mutex
	client coremidi.Client
	port   string
	clock  *midi.Clock
	log    *zap.Logger
	conn   portConnection
}

func newCoremidi(opts Options) (Transport, error) {
	client, err := coremidi.NewClient(opts.ClientName)
	if err != nil {
		return nil, fmt.Errorf("coremidi client: %w", err)
	}
	return &coreMidi{client: client, port: opts.PortName, clock: opts.Clock, log: opts.Logger}, nil
}

func (c *coreMidi) Sources() ([]string, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name()
	}
	return names, nil
}

func (c *coreMidi) Connect(index int, h Handler) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sources, err := coremidi.AllSources()
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}
	if err := checkIndex(index, len(sources)); err != nil {
		return err
	}
	c.disconnect()

	port, err := coremidi.NewInputPort(c.client, c.port, func(_ coremidi.Source, p coremidi.Packet) {
		h(p.Data, c.clock.Now())
	})
	if err != nil {
		return fmt.Errorf("input port: %w", err)
	}
	source := sources[index]
	conn, err := port.Connect(source)
	if err != nil {
		return fmt.Errorf("connect %q: %w", source.Name(), err)
	}
	c.conn = conn
	c.log.Info("connected", zap.String("source", source.Name()))
	return nil
}

func (c *coreMidi) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnect()
	return nil
}

func (c *coreMidi) disconnect() {
	if c.conn != nil {
		c.conn.Disconnect()
		c.conn = nil
		c.log.Info("disconnected")
	}
}

func (c *coreMidi) Close() error {
	return c.Disconnect()
}
