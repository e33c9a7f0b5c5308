package audio

import (
	"errors"
	"reflect"
	"testing"
)

type panicModule struct{}

func (panicModule) Outputs() (int, int) { return 1, 0 }
func (panicModule) Process(_, _ *Ports) { panic("broken module") }

func pollAll(w *Worker) []Report {
	var reports []Report
	w.Reports().Poll(func(r Report) { reports = append(reports, r) })
	return reports
}

func TestWorkerNoOutput(t *testing.T) {
	w := NewWorker(8)
	if _, err := w.RenderChunk(0); !errors.Is(err, ErrNoOutput) {
		t.Errorf("expected ErrNoOutput, got %v", err)
	}
	reports := pollAll(w)
	if len(reports) != 1 || reports[0].Kind != ReportRenderError {
		t.Errorf("expected one render error report, got %+v", reports)
	}
}

func TestWorkerRetiresReplacedNode(t *testing.T) {
	w := NewWorker(8)
	first := NewNode(3, NewSmoothCtrl(1), nil, nil)
	if err := w.HandleNode(first); err != nil {
		t.Fatal(err)
	}
	second := NewNode(3, NewSmoothCtrl(2), nil, nil)
	second.Timestamp = 42
	w.Apply(second)

	reports := pollAll(w)
	if len(reports) != 1 {
		t.Fatalf("expected one report, got %+v", reports)
	}
	r := reports[0]
	if r.Kind != ReportRetired || r.Retired != first || r.Node != 3 || r.Timestamp != 42 {
		t.Errorf("wrong report: %+v", r)
	}
}

func TestWorkerApplyErrors(t *testing.T) {
	w := NewWorker(8)
	if err := w.HandleNode(NewNode(1, Sum{}, nil, nil)); err != nil {
		t.Fatal(err)
	}
	if err := w.HandleNode(NewNode(MaxNodes, Sum{}, nil, nil)); !errors.Is(err, ErrNodeID) {
		t.Errorf("expected ErrNodeID, got %v", err)
	}

	w.Apply(SetParam{Node: 9})
	w.Apply(SetParam{Node: 1})
	w.Apply(Note{Targets: []int{1, 9}, On: true})

	want := []error{ErrNoNode, ErrNoParams, ErrNoNotes, ErrNoNode}
	reports := pollAll(w)
	if len(reports) != len(want) {
		t.Fatalf("expected %d reports, got %+v", len(want), reports)
	}
	for i, r := range reports {
		if r.Kind != ReportApplyError || r.Err != want[i] {
			t.Errorf("report %d: want apply error %v, got %+v", i, want[i], r)
		}
	}
}

func TestWorkerBadSlot(t *testing.T) {
	w := NewWorker(8)
	if err := w.HandleNode(NewNode(3, NewConstCtrl(0), nil, nil)); err != nil {
		t.Fatal(err)
	}
	w.Apply(SetParam{Node: 3, Slot: 0, Value: 1})
	if reports := pollAll(w); len(reports) != 0 {
		t.Fatalf("valid slot should not report, got %+v", reports)
	}

	w.Apply(SetParam{Node: 3, Slot: 7, Value: 1, Timestamp: 42})
	reports := pollAll(w)
	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %+v", reports)
	}
	want := Report{Kind: ReportApplyError, Timestamp: 42, Node: 3, Err: ErrBadSlot}
	if got := reports[0]; !reflect.DeepEqual(want, got) {
		t.Errorf("want %+v, got %+v", want, got)
	}
}

func TestWorkerPanicIsSilence(t *testing.T) {
	w := NewWorker(8)
	if err := w.HandleNode(NewNode(0, panicModule{}, nil, nil)); err != nil {
		t.Fatal(err)
	}
	buf, err := w.RenderChunk(7)
	if !errors.Is(err, ErrRenderPanic) || buf != nil {
		t.Errorf("expected ErrRenderPanic and no buffer, got %v, %v", buf, err)
	}
	reports := pollAll(w)
	if len(reports) != 1 || reports[0].Kind != ReportPanic || reports[0].Value != "broken module" {
		t.Errorf("wrong reports: %+v", reports)
	}
}

func TestGraphCycle(t *testing.T) {
	w := NewWorker(8)
	nodes := []*Node{
		NewNode(2, NewDc(1), nil, nil),
		NewNode(1, Sum{}, []Wire{{0, 0}, {2, 0}}, nil),
		NewNode(0, Sum{}, []Wire{{1, 0}}, nil),
	}
	for _, n := range nodes {
		if err := w.HandleNode(n); err != nil {
			t.Fatal(err)
		}
	}
	// node 1 reads node 0 from the previous chunk
	for chunk, want := range []float32{1, 2, 3} {
		buf, err := w.RenderChunk(0)
		if err != nil {
			t.Fatal(err)
		}
		if buf[0] != want || buf[ChunkSize-1] != want {
			t.Errorf("chunk %d: want %v, got %v", chunk, want, buf[0])
		}
	}
}

func TestGraphUnwiredInputs(t *testing.T) {
	w := NewWorker(8)
	if err := w.HandleNode(NewNode(0, NewGain(1), []Wire{{7, 0}}, []Wire{{7, 3}})); err != nil {
		t.Fatal(err)
	}
	buf, err := w.RenderChunk(0)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("sample %d: want silence, got %v", i, v)
		}
	}
}

func TestGraphRendersSharedInputOnce(t *testing.T) {
	w := NewWorker(8)
	osc := NewOscillator(Saw, 44100, 6)
	nodes := []*Node{
		NewNode(1, osc, nil, nil),
		NewNode(0, Sum{}, []Wire{{1, 0}, {1, 0}}, nil),
	}
	for _, n := range nodes {
		if err := w.HandleNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := w.RenderChunk(0); err != nil {
		t.Fatal(err)
	}
	delta := 64 * twoPi / 44100
	if want := delta * ChunkSize; osc.phase-want > 1e-9 || want-osc.phase > 1e-9 {
		t.Errorf("oscillator advanced more than one chunk: phase %v, want %v", osc.phase, want)
	}
}
