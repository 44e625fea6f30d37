package dxil

import (
	"errors"
	"strings"
	"testing"

	"rebind/internal/bind"
	"rebind/internal/diag"
)

func mustMap(t *testing.T, reqs []bind.Request, refl []bind.ReflectionEntry) *bind.Map {
	t.Helper()
	m, err := bind.Build(reqs, refl, bind.BuildOptions{})
	if err != nil {
		t.Fatalf("bind.Build: %v", err)
	}
	return m
}

func kindOf(t *testing.T, err error) ErrorKind {
	t.Helper()
	var perr *PatchError
	if !errors.As(err, &perr) {
		t.Fatalf("want *PatchError, got %v", err)
	}
	return perr.Kind
}

const texDeclIR = `!llvm.ident = !{!0}
!0 = !{!"dxc 1.5"}
!2 = !{i32 1, !"foo bar"}
!5 = !{i32 0, %"class.Texture2D<vector<float, 4> >"* undef, !"", i32 2, i32 0, i32 1, i32 2, i32 0, !6}
`

func TestPatchDeclarationsRewritesTexture(t *testing.T) {
	m := mustMap(t,
		[]bind.Request{{Name: "g_Tex", Space: 0, Register: 3, Kind: bind.KindTextureRead, Count: 1}},
		[]bind.ReflectionEntry{{Name: "g_Tex", Space: 2, Register: 0, Class: bind.ClassSRV, Count: 1}})

	b := NewBuffer([]byte(texDeclIR))
	bag := diag.NewBag(10)
	if err := PatchDeclarations(b, m, Options{Reporter: diag.BagReporter{Bag: bag}}); err != nil {
		t.Fatalf("PatchDeclarations: %v", err)
	}

	out := string(b.Bytes())
	if !strings.Contains(out, `!"g_Tex", i32 0, i32 3, i32 1,`) {
		t.Errorf("declaration not rewritten:\n%s", out)
	}
	if id, ok := m.Entries()[0].RecordID(); !ok || id != 0 {
		t.Errorf("RecordID = (%d, %v), want (0, true)", id, ok)
	}
	// The stripped name was reinstated.
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.PatchNameInserted {
			found = true
		}
	}
	if !found {
		t.Error("expected a PatchNameInserted diagnostic")
	}
}

func TestPatchDeclarationsArray(t *testing.T) {
	ir := `!7 = !{i32 1, [4 x %"class.Texture2D<vector<float, 4> >"]* undef, !"g_Textures", i32 0, i32 5, i32 4, i32 2, i32 0, !6}
`
	m := mustMap(t,
		[]bind.Request{{Name: "g_Textures", Space: 0, Register: 10, Kind: bind.KindTextureRead, Count: 4}},
		[]bind.ReflectionEntry{{Name: "g_Textures", Space: 0, Register: 5, Class: bind.ClassSRV, Count: 4}})

	b := NewBuffer([]byte(ir))
	if err := PatchDeclarations(b, m, Options{}); err != nil {
		t.Fatalf("PatchDeclarations: %v", err)
	}
	if !strings.Contains(string(b.Bytes()), `!"g_Textures", i32 0, i32 10, i32 4,`) {
		t.Errorf("array declaration not rewritten:\n%s", b.Bytes())
	}
	if id, ok := m.Entries()[0].RecordID(); !ok || id != 1 {
		t.Errorf("RecordID = (%d, %v), want (1, true)", id, ok)
	}
}

func TestPatchDeclarationsConstantBufferFallback(t *testing.T) {
	// Optimized constant buffers keep only their symbol name, with or
	// without the legacy alignment prefix.
	ir := `!8 = !{i32 2, %Constants* undef, !"", i32 0, i32 0, i32 1, i32 0, null}
!9 = !{i32 3, %dx.alignment.legacy.Lights* undef, !"", i32 0, i32 1, i32 1, i32 0, null}
!10 = !{i32 4, %struct.Unrelated* undef, !"", i32 9, i32 9, i32 1, i32 0, null}
`
	m := mustMap(t,
		[]bind.Request{
			{Name: "Constants", Space: 1, Register: 0, Kind: bind.KindConstantBuffer, Count: 1},
			{Name: "Lights", Space: 1, Register: 1, Kind: bind.KindConstantBuffer, Count: 1},
		},
		[]bind.ReflectionEntry{
			{Name: "Constants", Space: 0, Register: 0, Class: bind.ClassCBV, Count: 1},
			{Name: "Lights", Space: 0, Register: 1, Class: bind.ClassCBV, Count: 1},
		})

	b := NewBuffer([]byte(ir))
	bag := diag.NewBag(10)
	if err := PatchDeclarations(b, m, Options{Reporter: diag.BagReporter{Bag: bag}}); err != nil {
		t.Fatalf("PatchDeclarations: %v", err)
	}

	out := string(b.Bytes())
	if !strings.Contains(out, `!"Constants", i32 1, i32 0,`) {
		t.Errorf("bare constant buffer not rewritten:\n%s", out)
	}
	if !strings.Contains(out, `!"Lights", i32 1, i32 1,`) {
		t.Errorf("alignment-prefixed constant buffer not rewritten:\n%s", out)
	}
	// The struct-qualified symbol spells a type, so it gets no fallback
	// and stays untouched.
	if !strings.Contains(out, `%struct.Unrelated* undef, !"", i32 9, i32 9,`) {
		t.Errorf("unrelated record must not be rewritten:\n%s", out)
	}
}

func TestPatchDeclarationsPrefixDoesNotClaimLongerName(t *testing.T) {
	ir := `!8 = !{i32 2, %LightParams* undef, !"", i32 0, i32 0, i32 1, i32 0, null}
`
	m := mustMap(t,
		[]bind.Request{{Name: "Light", Space: 1, Register: 0, Kind: bind.KindConstantBuffer, Count: 1}},
		[]bind.ReflectionEntry{{Name: "Light", Space: 0, Register: 0, Class: bind.ClassCBV, Count: 1}})

	b := NewBuffer([]byte(ir))
	if err := PatchDeclarations(b, m, Options{}); err != nil {
		t.Fatalf("PatchDeclarations: %v", err)
	}
	if string(b.Bytes()) != ir {
		t.Errorf("%q must not match the buffer named %q", "LightParams", "Light")
	}
}

func TestPatchDeclarationsLookupFailure(t *testing.T) {
	// A record that passes every shape check but matches no request must
	// abort: leaving it unpatched would ship a stale binding.
	m := mustMap(t,
		[]bind.Request{{Name: "g_Tex", Space: 0, Register: 3, Kind: bind.KindTextureRead, Count: 1}},
		[]bind.ReflectionEntry{{Name: "g_Tex", Space: 7, Register: 7, Class: bind.ClassSRV, Count: 1}})

	b := NewBuffer([]byte(texDeclIR))
	err := PatchDeclarations(b, m, Options{})
	if kindOf(t, err) != LookupFailure {
		t.Fatalf("want LookupFailure, got %v", err)
	}
}

func TestPatchDeclarationsRecordConflict(t *testing.T) {
	// Two declarations resolving to the same request with different record
	// ids mean the matching went wrong.
	ir := `!5 = !{i32 0, %"class.Texture2D<vector<float, 4> >"* undef, !"", i32 2, i32 0, i32 1, i32 2, i32 0, !6}
!7 = !{i32 1, %"class.Texture2D<vector<float, 4> >"* undef, !"", i32 2, i32 0, i32 1, i32 2, i32 0, !6}
`
	m := mustMap(t,
		[]bind.Request{{Name: "g_Tex", Space: 0, Register: 3, Kind: bind.KindTextureRead, Count: 1}},
		[]bind.ReflectionEntry{{Name: "g_Tex", Space: 2, Register: 0, Class: bind.ClassSRV, Count: 1}})

	err := PatchDeclarations(NewBuffer([]byte(ir)), m, Options{})
	if kindOf(t, err) != InvariantViolation {
		t.Fatalf("want InvariantViolation, got %v", err)
	}
}

func TestPatchDeclarationsIgnoresNonDeclarations(t *testing.T) {
	ir := `!llvm.ident = !{!0}
!0 = !{!"dxc 1.5"}
!2 = !{i32 1, !"foo bar"}
!3 = !{null, !"x"}
`
	b := NewBuffer([]byte(ir))
	m := mustMap(t, nil, nil)
	if err := PatchDeclarations(b, m, Options{}); err != nil {
		t.Fatalf("PatchDeclarations: %v", err)
	}
	if string(b.Bytes()) != ir {
		t.Error("non-declaration metadata must stay untouched")
	}
}
