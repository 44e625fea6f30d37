package bind

import "fmt"

// Unbounded marks a runtime-sized array in requests and reflection entries.
// Reflection is asymmetric about it: unbounded constant-buffer arrays report
// Unbounded, every other unbounded resource reports 0. The map builder
// validates that shape instead of normalizing it.
const Unbounded = ^uint32(0)

// Request names one resource and the (space, register) slot it must occupy
// after the remap. Immutable for the duration of one remap.
type Request struct {
	Name     string
	Space    uint32
	Register uint32
	Kind     ResourceKind
	Count    uint32 // 0 or Unbounded = runtime-sized array
}

func (r Request) String() string {
	return fmt.Sprintf("%s -> space %d, register %d (%s)", r.Name, r.Space, r.Register, r.Kind)
}

// ReflectionEntry is one declared resource as the compiler reported it:
// the layout the shader was originally compiled with.
type ReflectionEntry struct {
	Name     string
	Space    uint32
	Register uint32
	Class    BindClass
	Count    uint32 // declared count; see Unbounded
}

// Stage identifies the shader stage reflection reported.
type Stage uint8

const (
	StageUnknown Stage = iota
	StagePixel
	StageVertex
	StageGeometry
	StageHull
	StageDomain
	StageCompute
	StageRayGeneration
	StageIntersection
	StageAnyHit
	StageClosestHit
	StageMiss
	StageCallable
	StageMesh
	StageAmplification
)

var stageNames = [...]string{
	StageUnknown:       "unknown",
	StagePixel:         "pixel",
	StageVertex:        "vertex",
	StageGeometry:      "geometry",
	StageHull:          "hull",
	StageDomain:        "domain",
	StageCompute:       "compute",
	StageRayGeneration: "raygeneration",
	StageIntersection:  "intersection",
	StageAnyHit:        "anyhit",
	StageClosestHit:    "closesthit",
	StageMiss:          "miss",
	StageCallable:      "callable",
	StageMesh:          "mesh",
	StageAmplification: "amplification",
}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", uint8(s))
}

// IsRayTracing reports whether the stage belongs to the ray-tracing pipeline,
// which keeps debug names in its metadata and binds handles through shader
// record tables instead of handle-creation calls.
func (s Stage) IsRayTracing() bool {
	switch s {
	case StageRayGeneration, StageIntersection, StageAnyHit, StageClosestHit, StageMiss, StageCallable:
		return true
	}
	return false
}
