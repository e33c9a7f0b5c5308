package main

import (
	"fmt"
	"time"

	"github.com/mrdg/synthbridge/audio"
	"github.com/mrdg/synthbridge/config"
	"github.com/mrdg/synthbridge/midi"
	"github.com/mrdg/synthbridge/midi/transport"
	"go.uber.org/zap"
)

// reportInterval is how often the control side polls render thread reports.
const reportInterval = 50 * time.Millisecond

type session struct {
	cfg *config.Config
	log *zap.Logger

	worker     *audio.Worker
	sender     *audio.Sender
	sink       *audio.Sink
	reports    *audio.Reports
	translator *midi.Translator
	clock      *midi.Clock

	// set once the render loop is pulling; before that commands are applied
	// directly on the calling goroutine
	streaming bool

	transport transport.Transport
	source    string

	done chan struct{}
	quit chan struct{}
}

// newSession builds the engine and submits the default topology.
func newSession(cfg *config.Config, log *zap.Logger) (*session, error) {
	worker, sender, receiver := audio.Create(cfg.Audio.QueueCapacity)
	s := &session{
		cfg:        cfg,
		log:        log,
		worker:     worker,
		sender:     sender,
		sink:       audio.NewSink(worker, receiver, cfg.Audio.SampleRate),
		reports:    worker.Reports(),
		translator: midi.NewTranslator(cfg.Mapping(), cfg.NoteTargets, log.Named("midi")),
		clock:      midi.NewClock(),
		done:       make(chan struct{}),
		quit:       make(chan struct{}),
	}
	for _, n := range defaultTopology(cfg.Audio.SampleRate) {
		if err := worker.HandleNode(n); err != nil {
			return nil, fmt.Errorf("node %d: %w", n.ID, err)
		}
	}
	go s.pollReports()
	return s, nil
}

// Send hands cmd to the engine. It reports false when an older pending command
// was evicted to make room.
func (s *session) Send(cmd audio.Command) bool {
	if !s.streaming {
		s.worker.Apply(cmd)
		return true
	}
	return s.sender.Send(cmd)
}

func (s *session) send(cmd audio.Command) {
	if !s.Send(cmd) {
		s.log.Warn("control channel full; dropped oldest command")
	}
}

// retune swaps the filter cutoff control for a fresh one, exercising a live
// topology change.
func (s *session) retune() {
	n := audio.NewNode(cutoffNode, audio.NewSmoothCtrl(log2(660)), nil, nil)
	n.Timestamp = s.clock.Now()
	s.send(n)
	s.log.Info("retuned cutoff control", zap.Int("node", cutoffNode))
}

// handler returns the packet callback for a newly connected source. Each
// connection gets its own dispatcher and so its own trace state.
func (s *session) handler() transport.Handler {
	d := midi.NewDispatcher(s.translator, s, s.log.Named("midi"))
	return func(data []byte, ts uint64) {
		d.Dispatch(data, ts)
	}
}

func (s *session) connect(index int) error {
	if s.transport == nil {
		return transport.ErrUnsupported
	}
	sources, err := s.transport.Sources()
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return transport.ErrNoSources
	}
	if index < 0 || index >= len(sources) {
		return fmt.Errorf("%w: index %d, have %d", transport.ErrNoSource, index, len(sources))
	}
	if err := s.transport.Connect(index, s.handler()); err != nil {
		return err
	}
	s.source = sources[index]
	return nil
}

func (s *session) disconnect() error {
	if s.transport == nil {
		return nil
	}
	s.source = ""
	return s.transport.Disconnect()
}

// pollReports logs render thread reports until the session is closed.
func (s *session) pollReports() {
	defer close(s.done)
	ticker := time.NewTicker(reportInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.drainReports()
		case <-s.quit:
			s.drainReports()
			return
		}
	}
}

func (s *session) drainReports() {
	s.reports.Poll(func(r audio.Report) {
		switch r.Kind {
		case audio.ReportRetired:
			s.log.Debug("node retired", zap.Int("node", r.Node), zap.Uint64("ts", r.Timestamp))
		case audio.ReportPanic:
			s.log.Error("render panic", zap.Any("value", r.Value), zap.Uint64("ts", r.Timestamp))
		default:
			s.log.Warn(r.Kind.String(), zap.Int("node", r.Node), zap.Error(r.Err), zap.Uint64("ts", r.Timestamp))
		}
	})
}

func (s *session) close() {
	if s.transport != nil {
		if err := s.transport.Close(); err != nil {
			s.log.Warn("close MIDI transport", zap.Error(err))
		}
	}
	close(s.quit)
	<-s.done
	if n := s.reports.Dropped(); n > 0 {
		s.log.Warn("reports dropped", zap.Uint64("count", n))
	}
}
