package bind

import "testing"

func TestKindClassBuckets(t *testing.T) {
	tests := []struct {
		kind ResourceKind
		want BindClass
	}{
		{KindConstantBuffer, ClassCBV},
		{KindTextureRead, ClassSRV},
		{KindBufferRead, ClassSRV},
		{KindTextureReadWrite, ClassUAV},
		{KindBufferReadWrite, ClassUAV},
		{KindSampler, ClassSampler},
		{KindInputAttachment, ClassSRV},
		{KindAccelerationStructure, ClassSRV},
	}
	for _, tt := range tests {
		if got := tt.kind.Class(); got != tt.want {
			t.Errorf("%s.Class() = %s, want %s", tt.kind, got, tt.want)
		}
	}
}

func TestClassMatchesHandleEnum(t *testing.T) {
	// The handle-creation instruction encodes the class as 0=SRV, 1=UAV,
	// 2=CBV, 3=Sampler; BindClass values must line up so parsed operands
	// convert directly.
	if ClassSRV != 0 || ClassUAV != 1 || ClassCBV != 2 || ClassSampler != 3 {
		t.Fatalf("BindClass values drifted from the handle-creation enum: %d %d %d %d",
			ClassSRV, ClassUAV, ClassCBV, ClassSampler)
	}
}

func TestParseKindRoundTrip(t *testing.T) {
	for k := KindConstantBuffer; k <= KindAccelerationStructure; k++ {
		parsed, err := ParseKind(k.String())
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", k.String(), err)
		}
		if parsed != k {
			t.Errorf("ParseKind(%q) = %v, want %v", k.String(), parsed, k)
		}
	}
	if _, err := ParseKind("texture2d"); err == nil {
		t.Error("unknown kind name must not parse")
	}
}

func TestStageIsRayTracing(t *testing.T) {
	rt := []Stage{StageRayGeneration, StageIntersection, StageAnyHit, StageClosestHit, StageMiss, StageCallable}
	for _, s := range rt {
		if !s.IsRayTracing() {
			t.Errorf("%s should be ray tracing", s)
		}
	}
	for _, s := range []Stage{StageVertex, StagePixel, StageCompute, StageMesh, StageAmplification, StageUnknown} {
		if s.IsRayTracing() {
			t.Errorf("%s should not be ray tracing", s)
		}
	}
}
