package audio

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

type testEngine struct {
	log        []string
	timestamps []uint64
	value      float32
	err        error
}

func (e *testEngine) Apply(cmd Command) {
	e.log = append(e.log, "apply")
	if p, ok := cmd.(SetParam); ok {
		e.value = p.Value
	}
}

func (e *testEngine) RenderChunk(ts uint64) ([]float32, error) {
	e.log = append(e.log, "render")
	e.timestamps = append(e.timestamps, ts)
	if e.err != nil {
		return nil, e.err
	}
	buf := make([]float32, ChunkSize)
	for n := range buf {
		buf[n] = e.value
	}
	return buf, nil
}

func channels(n, frames int) [][]float32 {
	out := make([][]float32, n)
	for i := range out {
		out[i] = make([]float32, frames)
		for j := range out[i] {
			out[i][j] = -99 // garbage the sink must overwrite
		}
	}
	return out
}

func TestChunkDuration(t *testing.T) {
	if want, got := uint64(1451247), ChunkDuration(44100); want != got {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestSinkTimestamps(t *testing.T) {
	engine := &testEngine{}
	_, rx := NewChannel(8)
	sink := NewSink(engine, rx, 44100)

	for n := 0; n < 3; n++ {
		if err := sink.Render(channels(2, 4*ChunkSize)); err != nil {
			t.Fatal(err)
		}
		time.Sleep(time.Duration(n) * 3 * time.Millisecond) // callback jitter
	}

	const step = 1451247
	var want []uint64
	for n := uint64(0); n < 12; n++ {
		want = append(want, n*step)
	}
	if !reflect.DeepEqual(want, engine.timestamps) {
		t.Errorf("wrong timestamps:\nwant: %v\ngot:  %v", want, engine.timestamps)
	}
	stats := sink.Stats()
	if stats.Timestamp != 12*step || stats.Chunks != 12 || stats.Silent != 0 {
		t.Errorf("wrong stats: %+v", stats)
	}
}

func TestSinkAlignment(t *testing.T) {
	engine := &testEngine{}
	_, rx := NewChannel(8)
	sink := NewSink(engine, rx, 44100)

	if err := sink.Render(channels(2, ChunkSize+10)); !errors.Is(err, ErrChunkAlignment) {
		t.Errorf("expected ErrChunkAlignment, got %v", err)
	}
	mismatched := [][]float32{make([]float32, ChunkSize), make([]float32, 2*ChunkSize)}
	if err := sink.Render(mismatched); !errors.Is(err, ErrChunkAlignment) {
		t.Errorf("expected ErrChunkAlignment for uneven channels, got %v", err)
	}
	if err := sink.RenderInterleaved(make([]float32, 2*ChunkSize+1), 2); !errors.Is(err, ErrChunkAlignment) {
		t.Errorf("expected ErrChunkAlignment for interleaved, got %v", err)
	}
	if len(engine.log) != 0 {
		t.Errorf("engine was called for a rejected buffer: %v", engine.log)
	}

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrChunkAlignment) {
			t.Errorf("expected panic with ErrChunkAlignment, got %v", r)
		}
	}()
	sink.Process(channels(1, 100))
}

func TestSinkBroadcast(t *testing.T) {
	engine := &testEngine{value: 0.5}
	_, rx := NewChannel(8)
	sink := NewSink(engine, rx, 44100)

	out := channels(3, 2*ChunkSize)
	if err := sink.Render(out); err != nil {
		t.Fatal(err)
	}
	for c := range out {
		for i, v := range out[c] {
			if v != 0.5 {
				t.Fatalf("channel %d sample %d: want 0.5, got %v", c, i, v)
			}
		}
	}

	interleaved := make([]float32, 2*ChunkSize*2)
	if err := sink.RenderInterleaved(interleaved, 2); err != nil {
		t.Fatal(err)
	}
	for i, v := range interleaved {
		if v != 0.5 {
			t.Fatalf("interleaved sample %d: want 0.5, got %v", i, v)
		}
	}
}

func TestSinkSilenceOnError(t *testing.T) {
	engine := &testEngine{value: 1, err: errors.New("boom")}
	_, rx := NewChannel(8)
	sink := NewSink(engine, rx, 44100)

	out := channels(2, 2*ChunkSize)
	if err := sink.Render(out); err != nil {
		t.Fatalf("render must not fail on engine errors: %v", err)
	}
	for c := range out {
		for i, v := range out[c] {
			if v != 0 {
				t.Fatalf("channel %d sample %d: want silence, got %v", c, i, v)
			}
		}
	}
	if want, got := uint64(2), sink.Stats().Silent; want != got {
		t.Errorf("expected %v silent chunks, got %v", want, got)
	}
}

func TestSinkApplyBeforeRender(t *testing.T) {
	engine := &testEngine{}
	tx, rx := NewChannel(8)
	sink := NewSink(engine, rx, 44100)

	tx.Send(SetParam{Node: 3, Value: 0.75})
	tx.Send(SetParam{Node: 3, Value: 0.25})
	out := channels(1, 2*ChunkSize)
	if err := sink.Render(out); err != nil {
		t.Fatal(err)
	}
	if want := []string{"apply", "apply", "render", "render"}; !reflect.DeepEqual(want, engine.log) {
		t.Errorf("wrong call order: want %v, got %v", want, engine.log)
	}
	if out[0][0] != 0.25 {
		t.Errorf("first chunk did not see the last parameter: %v", out[0][0])
	}
	if want, got := uint64(2), sink.Stats().Commands; want != got {
		t.Errorf("expected %v commands applied, got %v", want, got)
	}
}

func TestSinkEndToEnd(t *testing.T) {
	worker, tx, rx := Create(16)
	nodes := []*Node{
		NewNode(1, NewDc(1), nil, nil),
		NewNode(3, NewConstCtrl(0), nil, nil),
		NewNode(0, NewGain(1), []Wire{{1, 0}}, []Wire{{3, 0}}),
	}
	for _, n := range nodes {
		if err := worker.HandleNode(n); err != nil {
			t.Fatal(err)
		}
	}
	sink := NewSink(worker, rx, 44100)

	tx.Send(SetParam{Node: 3, Slot: 0, Value: 0.25})
	out := channels(2, ChunkSize)
	if err := sink.Render(out); err != nil {
		t.Fatal(err)
	}
	for c := range out {
		for i, v := range out[c] {
			if v != 0.25 {
				t.Fatalf("channel %d sample %d: want 0.25, got %v", c, i, v)
			}
		}
	}
}
