// Package output plays a render loop on the default PortAudio output device.
package output

import (
	"errors"
	"fmt"

	"github.com/gordonklaus/portaudio"
	"github.com/mrdg/synthbridge/audio"
	"go.uber.org/zap"
)

var (
	ErrBufferSize = errors.New("frames per buffer must be a positive multiple of the chunk size")
	ErrChannels   = errors.New("unsupported channel count")
)

type Config struct {
	SampleRate      float64
	FramesPerBuffer int
	Channels        int
	// Interleaved selects the interleaved driver callback.
	Interleaved bool
}

// Check validates the parts of cfg that do not depend on the device.
func (cfg Config) Check() error {
	if cfg.FramesPerBuffer <= 0 || cfg.FramesPerBuffer%audio.ChunkSize != 0 {
		return fmt.Errorf("%w: %d", ErrBufferSize, cfg.FramesPerBuffer)
	}
	if cfg.Channels < 1 {
		return fmt.Errorf("%w: %d", ErrChannels, cfg.Channels)
	}
	return nil
}

type Stream struct {
	stream *portaudio.Stream
	device string
	log    *zap.Logger
}

// Open initializes PortAudio and opens an output-only stream on the default
// device that pulls audio from sink. The buffer size is fixed so every callback
// covers a whole number of chunks.
func Open(cfg Config, sink *audio.Sink, log *zap.Logger) (*Stream, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio: %w", err)
	}
	s, err := open(cfg, sink, log)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	return s, nil
}

func open(cfg Config, sink *audio.Sink, log *zap.Logger) (*Stream, error) {
	dev, err := portaudio.DefaultOutputDevice()
	if err != nil {
		return nil, fmt.Errorf("default output device: %w", err)
	}
	if cfg.Channels > dev.MaxOutputChannels {
		return nil, fmt.Errorf("%w: %s has %d outputs, want %d",
			ErrChannels, dev.Name, dev.MaxOutputChannels, cfg.Channels)
	}
	p := portaudio.LowLatencyParameters(nil, dev)
	p.Output.Channels = cfg.Channels
	p.SampleRate = cfg.SampleRate
	p.FramesPerBuffer = cfg.FramesPerBuffer

	var callback interface{} = sink.Process
	if cfg.Interleaved {
		callback = sink.ProcessInterleaved(cfg.Channels)
	}
	stream, err := portaudio.OpenStream(p, callback)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	log.Info("opened output",
		zap.String("device", dev.Name),
		zap.Float64("sample_rate", cfg.SampleRate),
		zap.Int("frames", cfg.FramesPerBuffer),
		zap.Int("channels", cfg.Channels),
		zap.Duration("latency", p.Output.Latency))
	return &Stream{stream: stream, device: dev.Name, log: log}, nil
}

func (s *Stream) Device() string { return s.device }

func (s *Stream) Start() error {
	return s.stream.Start()
}

// Close stops the stream and releases PortAudio.
func (s *Stream) Close() error {
	if err := s.stream.Stop(); err != nil {
		s.log.Warn("stop stream", zap.Error(err))
	}
	err := s.stream.Close()
	portaudio.Terminate()
	return err
}
