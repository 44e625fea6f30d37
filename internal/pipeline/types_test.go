package pipeline

import (
	"testing"
	"time"
)

func TestTimings(t *testing.T) {
	var tm Timings
	if tm.Has(StagePatch) {
		t.Error("empty timings must not report a stage")
	}
	tm.Set(StagePatch, 3*time.Millisecond)
	tm.Set(StageAssemble, 7*time.Millisecond)
	if !tm.Has(StagePatch) || tm.Duration(StagePatch) != 3*time.Millisecond {
		t.Errorf("patch duration = %v", tm.Duration(StagePatch))
	}
	if got := tm.Sum(StagePatch, StageAssemble, StageSign); got != 10*time.Millisecond {
		t.Errorf("Sum = %v, want 10ms", got)
	}

	var nilTimings *Timings
	nilTimings.Set(StageProbe, time.Second) // must not panic
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{Shader: "blur.cso", Stage: StageSign, Status: StatusDone})
	ev := <-ch
	if ev.Shader != "blur.cso" || ev.Status != StatusDone {
		t.Errorf("event = %+v", ev)
	}
	ChannelSink{}.OnEvent(Event{}) // nil channel must be ignored
}

func TestMultiSink(t *testing.T) {
	ch := make(chan Event, 2)
	sink := MultiSink{nil, ChannelSink{Ch: ch}, NopSink{}}
	sink.OnEvent(Event{Shader: "a"})
	sink.OnEvent(Event{Shader: "b"})
	if len(ch) != 2 {
		t.Errorf("forwarded %d events, want 2", len(ch))
	}
}
