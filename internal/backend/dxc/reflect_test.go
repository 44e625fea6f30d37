package dxc

import (
	"testing"

	"rebind/internal/backend"
	"rebind/internal/bind"
)

const sampleDisassembly = `;
; Resource Bindings:
;
; Name                                 Type  Format         Dim      ID             HLSL Bind  Count
; ------------------------------ ---------- ------- ----------- ------- -------------- ------
; Constants                         cbuffer      NA          NA     CB0            cb0     1
; g_Sampler                         sampler      NA          NA      S0             s1     1
; g_Tex                             texture     f32          2d      T0      t4,space2     1
; g_Textures                        texture     f32          2d      T1             t8 unbounded
; g_Output                              UAV     f32          2d      U0             u0     1
;
target datalayout = "e-m:e-p:32:32-i1:32-i8:32"
target triple = "dxil-ms-dx"

!dx.shaderModel = !{!3}
!3 = !{!"ps", i32 6, i32 0}
`

func TestParseReflection(t *testing.T) {
	refl, err := parseReflection([]byte(sampleDisassembly))
	if err != nil {
		t.Fatalf("parseReflection: %v", err)
	}
	if refl.Stage != bind.StagePixel {
		t.Errorf("stage = %s, want pixel", refl.Stage)
	}
	want := []bind.ReflectionEntry{
		{Name: "Constants", Class: bind.ClassCBV, Register: 0, Space: 0, Count: 1},
		{Name: "g_Sampler", Class: bind.ClassSampler, Register: 1, Space: 0, Count: 1},
		{Name: "g_Tex", Class: bind.ClassSRV, Register: 4, Space: 2, Count: 1},
		{Name: "g_Textures", Class: bind.ClassSRV, Register: 8, Space: 0, Count: 0},
		{Name: "g_Output", Class: bind.ClassUAV, Register: 0, Space: 0, Count: 1},
	}
	if len(refl.Entries) != len(want) {
		t.Fatalf("entries = %d, want %d", len(refl.Entries), len(want))
	}
	for i, w := range want {
		if refl.Entries[i] != w {
			t.Errorf("entry %d = %+v, want %+v", i, refl.Entries[i], w)
		}
	}
}

func TestParseReflectionUnboundedCBV(t *testing.T) {
	const ir = `; Resource Bindings:
;
; Name                                 Type  Format         Dim      ID             HLSL Bind  Count
; ------------------------------ ---------- ------- ----------- ------- -------------- ------
; g_Materials                       cbuffer      NA          NA     CB1            cb2 unbounded
;
`
	refl, err := parseReflection([]byte(ir))
	if err != nil {
		t.Fatalf("parseReflection: %v", err)
	}
	if len(refl.Entries) != 1 || refl.Entries[0].Count != bind.Unbounded {
		t.Errorf("entries = %+v, want one unbounded constant buffer", refl.Entries)
	}
}

func TestParseReflectionLibraryStage(t *testing.T) {
	const ir = "!dx.shaderModel = !{!7}\n!7 = !{!\"lib\", i32 6, i32 5}\n"
	refl, err := parseReflection([]byte(ir))
	if err != nil {
		t.Fatalf("parseReflection: %v", err)
	}
	if !refl.Stage.IsRayTracing() {
		t.Errorf("stage = %s, want a ray tracing stage", refl.Stage)
	}
}

func TestParseReflectionRejectsMalformedRow(t *testing.T) {
	const ir = `; Resource Bindings:
; ------------------------------ ---------- ------- ----------- ------- -------------- ------
; g_Tex texture f32 2d T0 t0
`
	if _, err := parseReflection([]byte(ir)); err == nil {
		t.Fatal("want an error for a short row")
	}
}

func TestParseVersion(t *testing.T) {
	cases := []struct {
		out  string
		want backend.Version
		ok   bool
	}{
		{"dxcompiler.dll: 1.7 - 1.7.0.3789 (df0ee41)", backend.Version{Major: 1, Minor: 7}, true},
		{"libdxcompiler: 1.5.0.2860", backend.Version{Major: 1, Minor: 5}, true},
		{"no digits here", backend.Version{}, false},
	}
	for _, tc := range cases {
		got, ok := parseVersion(tc.out)
		if ok != tc.ok || got != tc.want {
			t.Errorf("parseVersion(%q) = %v, %v; want %v, %v", tc.out, got, ok, tc.want, tc.ok)
		}
	}
}
