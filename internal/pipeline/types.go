package pipeline

import "time"

// Stage describes a high-level remap phase.
type Stage string

const (
	// StageProbe is the container probing stage.
	StageProbe Stage = "probe"
	// StageDisassemble is the disassembly stage.
	StageDisassemble Stage = "disassemble"
	// StageReflect is the reflection stage.
	StageReflect Stage = "reflect"
	// StagePatch is the IR patching stage.
	StagePatch Stage = "patch"
	// StageAssemble is the reassembly stage.
	StageAssemble Stage = "assemble"
	// StageSign is the validation and signing stage.
	StageSign Stage = "sign"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the shader is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the shader is being processed.
	StatusWorking Status = "working"
	// StatusCached indicates the result came from the disk cache.
	StatusCached Status = "cached"
	// StatusDone indicates the shader is done.
	StatusDone Status = "done"
	// StatusError indicates the shader failed.
	StatusError Status = "error"
)

// Event reports progress for a shader (or for the overall batch when
// Shader is empty).
type Event struct {
	Shader  string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds stage durations.
type Timings struct {
	stages map[Stage]time.Duration
}

func (t *Timings) ensure() {
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
}

// Set stores a duration for the given stage.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	t.ensure()
	t.stages[stage] = dur
}

// Has reports whether a duration for stage is recorded.
func (t Timings) Has(stage Stage) bool {
	if t.stages == nil {
		return false
	}
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	return t.stages[stage]
}

// Sum returns the sum of durations across the provided stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}
