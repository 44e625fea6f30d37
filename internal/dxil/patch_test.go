package dxil

import (
	"strings"
	"testing"

	"rebind/internal/bind"
)

const pixelIR = `  %3 = call %dx.types.Handle @dx.op.createHandle(i32 57, i8 0, i32 0, i32 0, i1 false)
!5 = !{i32 0, %"class.Texture2D<vector<float, 4> >"* undef, !"", i32 2, i32 0, i32 1, i32 2, i32 0, !6}
`

func TestPatchPixelStageRunsBothPasses(t *testing.T) {
	m := mustMap(t,
		[]bind.Request{{Name: "g_Tex", Space: 0, Register: 3, Kind: bind.KindTextureRead, Count: 1}},
		[]bind.ReflectionEntry{{Name: "g_Tex", Space: 2, Register: 0, Class: bind.ClassSRV, Count: 1}})

	b := NewBuffer([]byte(pixelIR))
	if err := Patch(b, m, bind.StagePixel, Options{}); err != nil {
		t.Fatalf("Patch: %v", err)
	}

	out := string(b.Bytes())
	if !strings.Contains(out, `!"g_Tex", i32 0, i32 3,`) {
		t.Errorf("declaration not rewritten:\n%s", out)
	}
	if !strings.Contains(out, "createHandle(i32 57, i8 0, i32 0, i32 3, i1 false)") {
		t.Errorf("handle not rewritten:\n%s", out)
	}
}

func TestPatchRayTracingStageSkipsHandles(t *testing.T) {
	ir := rtDeclIR + `  %3 = call %dx.types.Handle @dx.op.createHandle(i32 57, i8 1, i32 3, i32 4294967295, i1 false)
`
	m := mustMap(t,
		[]bind.Request{{Name: "g_ColorBuffer", Space: 0, Register: 2, Kind: bind.KindTextureReadWrite, Count: 1}},
		[]bind.ReflectionEntry{{Name: "g_ColorBuffer", Space: ^uint32(0), Register: ^uint32(0), Class: bind.ClassUAV, Count: 1}})

	b := NewBuffer([]byte(ir))
	if err := Patch(b, m, bind.StageClosestHit, Options{}); err != nil {
		t.Fatalf("Patch: %v", err)
	}

	out := string(b.Bytes())
	if !strings.Contains(out, `!"g_ColorBuffer", i32 0, i32 2,`) {
		t.Errorf("named record not rewritten:\n%s", out)
	}
	// Ray-tracing binds through shader record tables; handle calls keep
	// their operands.
	if !strings.Contains(out, "i32 3, i32 4294967295, i1 false") {
		t.Errorf("handle call must stay untouched:\n%s", out)
	}
}
