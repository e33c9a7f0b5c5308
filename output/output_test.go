package output

import (
	"errors"
	"testing"
)

func TestConfigCheck(t *testing.T) {
	tests := []struct {
		cfg  Config
		want error
	}{
		{Config{FramesPerBuffer: 512, Channels: 2}, nil},
		{Config{FramesPerBuffer: 64, Channels: 1}, nil},
		{Config{FramesPerBuffer: 0, Channels: 2}, ErrBufferSize},
		{Config{FramesPerBuffer: 500, Channels: 2}, ErrBufferSize},
		{Config{FramesPerBuffer: 256, Channels: 0}, ErrChannels},
	}
	for _, test := range tests {
		if got := test.cfg.Check(); !errors.Is(got, test.want) {
			t.Errorf("%+v: want %v, got %v", test.cfg, test.want, got)
		}
	}
}
