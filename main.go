package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mrdg/synthbridge/audio"
	"github.com/mrdg/synthbridge/config"
	"github.com/mrdg/synthbridge/midi/transport"
	"github.com/mrdg/synthbridge/output"
	"github.com/mrdg/synthbridge/patch"
	"go.uber.org/zap"
)

func main() {
	var (
		configFile = flag.String("config", "", "JSON configuration file")
		frames     = flag.Int("frames", 0, "frames per buffer, a multiple of 64")
		rate       = flag.Float64("rate", 0, "sample rate in Hz")
		channels   = flag.Int("channels", 0, "number of output channels")
		kind       = flag.String("transport", "", "MIDI transport: rtmidi or coremidi")
		source     = flag.String("source", "", "connect to the first MIDI source whose name contains this")
		render     = flag.String("render", "", "render to this WAV file instead of playing")
		seconds    = flag.Float64("seconds", 5, "length of the offline render")
		run        = flag.String("run", "", "file with console commands to run at startup")
		settle     = flag.Duration("settle", time.Second, "delay before retuning the cutoff control, 0 to disable")
		mlock      = flag.Bool("mlock", false, "lock process memory")
		debug      = flag.Bool("debug", false, "log at debug level")
	)
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	override(cfg, *frames, *rate, *channels, *kind, *source)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := newLogger(cfg, *debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if *mlock {
		if err := lockMemory(); err != nil {
			log.Fatal("lock memory", zap.Error(err))
		}
	}

	var script []patch.Command
	if *run != "" {
		f, err := os.Open(*run)
		if err != nil {
			log.Fatal("open script", zap.Error(err))
		}
		script, err = patch.ReadScript(f)
		f.Close()
		if err != nil {
			log.Fatal("read script", zap.String("file", *run), zap.Error(err))
		}
	}

	s, err := newSession(cfg, log)
	if err != nil {
		log.Fatal("build topology", zap.Error(err))
	}
	defer s.close()

	for _, cmd := range script {
		if result, err := s.evalCommand(cmd); err != nil {
			log.Warn("script", zap.Error(err))
		} else if result != "" {
			fmt.Println(result)
		}
	}

	if *render != "" {
		if err := renderFile(s, *render, *seconds); err != nil {
			log.Error("render", zap.Error(err))
		}
		return
	}

	if err := play(s, *settle); err != nil {
		log.Error("exit", zap.Error(err))
	}
}

func override(cfg *config.Config, frames int, rate float64, channels int, kind, source string) {
	if frames != 0 {
		cfg.Audio.FramesPerBuffer = frames
	}
	if rate != 0 {
		cfg.Audio.SampleRate = rate
	}
	if channels != 0 {
		cfg.Audio.Channels = channels
	}
	if kind != "" {
		cfg.MIDI.Transport = kind
	}
	if source != "" {
		cfg.MIDI.Source = source
	}
}

// renderFile drives the render loop offline for the given duration, rounded
// down to whole chunks.
func renderFile(s *session, file string, seconds float64) error {
	frames := int(seconds*s.cfg.Audio.SampleRate) / audio.ChunkSize * audio.ChunkSize
	channels := s.cfg.Audio.Channels
	if channels < 1 || channels > 2 {
		return fmt.Errorf("%w: %d", audio.ErrWAVChannels, channels)
	}
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := audio.WriteWAV(f, s.sink, frames, channels, s.cfg.Audio.SampleRate); err != nil {
		f.Close()
		return err
	}
	s.log.Info("rendered", zap.String("file", file), zap.Int("frames", frames))
	return f.Close()
}

func play(s *session, settle time.Duration) error {
	stream, err := output.Open(output.Config{
		SampleRate:      s.cfg.Audio.SampleRate,
		FramesPerBuffer: s.cfg.Audio.FramesPerBuffer,
		Channels:        s.cfg.Audio.Channels,
		Interleaved:     s.cfg.Audio.Interleaved,
	}, s.sink, s.log.Named("output"))
	if err != nil {
		return fmt.Errorf("open audio output: %w", err)
	}
	defer stream.Close()

	s.streaming = true
	if err := stream.Start(); err != nil {
		return fmt.Errorf("start audio output: %w", err)
	}

	if settle > 0 {
		t := time.AfterFunc(settle, s.retune)
		defer t.Stop()
	}

	openMIDI(s)
	defer s.disconnect()
	return repl(s)
}

// openMIDI connects the configured source, or the first one. Having no MIDI
// input is not fatal; the console still works.
func openMIDI(s *session) {
	tr, err := transport.New(s.cfg.MIDI.Transport, transport.Options{
		ClientName: s.cfg.MIDI.ClientName,
		PortName:   s.cfg.MIDI.PortName,
		Clock:      s.clock,
		Logger:     s.log.Named("transport"),
	})
	if err != nil {
		s.log.Warn("MIDI unavailable", zap.Error(err))
		return
	}
	s.transport = tr

	index := 0
	if name := s.cfg.MIDI.Source; name != "" {
		index, err = transport.Find(tr, name)
	}
	if err == nil {
		err = s.connect(index)
	}
	switch {
	case errors.Is(err, transport.ErrNoSources):
		s.log.Warn("no MIDI sources; continuing without MIDI input")
	case err != nil:
		s.log.Warn("MIDI connect", zap.Error(err))
	}
}
