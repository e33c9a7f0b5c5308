package transport

import (
	"fmt"
	"sync"

	"github.com/mrdg/synthbridge/midi"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
	"go.uber.org/zap"
)

type rtmidi struct {
	mu    sync.Mutex
	drv   *rtmididrv.Driver
	clock *midi.Clock
	log   *zap.Logger

	in   drivers.In
	stop func()
}

func newRtmidi(opts Options) (Transport, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	return &rtmidi{drv: drv, clock: opts.Clock, log: opts.Logger}, nil
}

func (r *rtmidi) Sources() ([]string, error) {
	ins, err := r.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("list inputs: %w", err)
	}
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	return names, nil
}

func (r *rtmidi) Connect(index int, h Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ins, err := r.drv.Ins()
	if err != nil {
		return fmt.Errorf("list inputs: %w", err)
	}
	if err := checkIndex(index, len(ins)); err != nil {
		return err
	}
	r.disconnect()

	in := ins[index]
	if err := in.Open(); err != nil {
		return fmt.Errorf("open %q: %w", in.String(), err)
	}
	name := in.String()
	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, _ int32) {
		h(msg.Bytes(), r.clock.Now())
	}, gomidi.HandleError(func(err error) {
		r.log.Warn("listener error", zap.String("source", name), zap.Error(err))
	}))
	if err != nil {
		in.Close()
		return fmt.Errorf("listen %q: %w", name, err)
	}
	r.in, r.stop = in, stop
	r.log.Info("connected", zap.String("source", name))
	return nil
}

func (r *rtmidi) Disconnect() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disconnect()
}

func (r *rtmidi) disconnect() error {
	if r.stop != nil {
		r.stop()
		r.stop = nil
	}
	if r.in == nil {
		return nil
	}
	err := r.in.Close()
	r.log.Info("disconnected", zap.String("source", r.in.String()))
	r.in = nil
	return err
}

func (r *rtmidi) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disconnect()
	return r.drv.Close()
}
