package diag

import (
	"testing"

	"rebind/internal/source"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	if !b.Add(NewError(PatchFormatMismatch, source.Span{}, "one")) {
		t.Fatal("first Add rejected")
	}
	if !b.Add(NewError(PatchFormatMismatch, source.Span{}, "two")) {
		t.Fatal("second Add rejected")
	}
	if b.Add(NewError(PatchFormatMismatch, source.Span{}, "three")) {
		t.Error("Add beyond limit must return false")
	}
	if b.Len() != 2 {
		t.Errorf("Len() = %d, want 2", b.Len())
	}
}

func TestBagSeverityQueries(t *testing.T) {
	b := NewBag(10)
	b.Add(New(SevInfo, ProbeInfo, source.Span{}, "info"))
	if b.HasWarnings() || b.HasErrors() {
		t.Error("info-only bag reports warnings/errors")
	}
	b.Add(NewWarning(MapKindMismatch, source.Span{}, "kind mismatch"))
	if !b.HasWarnings() {
		t.Error("warning not seen")
	}
	if b.HasErrors() {
		t.Error("no errors were added")
	}
	b.Add(NewError(PatchInvariant, source.Span{}, "stale reflection"))
	if !b.HasErrors() {
		t.Error("error not seen")
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(10)
	spanB := source.Span{Shader: 1, Start: 40, End: 44}
	spanA := source.Span{Shader: 1, Start: 10, End: 14}
	b.Add(NewError(PatchInvariant, spanB, "later"))
	b.Add(NewWarning(PatchDynamicIndexReuse, spanA, "earlier"))
	b.Add(NewError(PatchInvariant, spanB, "later"))

	b.Sort()
	b.Dedup()

	items := b.Items()
	if len(items) != 2 {
		t.Fatalf("after dedup Len = %d, want 2", len(items))
	}
	if items[0].Primary != spanA || items[1].Primary != spanB {
		t.Errorf("sort order wrong: %v then %v", items[0].Primary, items[1].Primary)
	}
}

func TestBagDedupKeepsOffsetFreeFindings(t *testing.T) {
	b := NewBag(10)
	// Map-building diagnostics have no byte offsets. Different messages
	// and different shaders must both survive dedup; only true repeats go.
	b.Add(NewWarning(MapKindMismatch, source.Span{}, "g_Tex: want UAV, reflection reports SRV"))
	b.Add(NewWarning(MapKindMismatch, source.Span{}, "g_Out: want SRV, reflection reports UAV"))
	b.Add(NewWarning(MapKindMismatch, source.Span{Shader: 1}, "g_Tex: want UAV, reflection reports SRV"))
	b.Add(NewWarning(MapKindMismatch, source.Span{Shader: 2}, "g_Tex: want UAV, reflection reports SRV"))
	b.Add(NewWarning(MapKindMismatch, source.Span{Shader: 2}, "g_Tex: want UAV, reflection reports SRV"))

	b.Dedup()
	if b.Len() != 4 {
		t.Errorf("after dedup Len = %d, want 4", b.Len())
	}
}

func TestShaderReporterStampsSpans(t *testing.T) {
	bag := NewBag(10)
	r := ShaderReporter{Next: BagReporter{Bag: bag}, Shader: 3}

	ReportWarning(r, MapKindMismatch, source.Span{}, "offset-free finding")
	r.Report(PatchInvariant, SevError, source.Span{Shader: 9, Start: 4, End: 8}, "placed finding",
		[]Note{{Span: source.Span{}, Msg: "declared here"}})

	items := bag.Items()
	if items[0].Primary.Shader != 3 {
		t.Errorf("empty span stamped with shader %d, want 3", items[0].Primary.Shader)
	}
	if items[1].Primary.Shader != 9 {
		t.Errorf("placed span rewritten to shader %d, want 9 untouched", items[1].Primary.Shader)
	}
	if items[1].Notes[0].Span.Shader != 3 {
		t.Errorf("note span stamped with shader %d, want 3", items[1].Notes[0].Span.Shader)
	}
}

func TestBagMerge(t *testing.T) {
	a := NewBag(1)
	a.Add(NewError(BackendAssemble, source.Span{}, "assembler failed"))
	other := NewBag(2)
	other.Add(NewWarning(MapArrayCountSkew, source.Span{}, "skew"))
	other.Add(NewWarning(MapKindMismatch, source.Span{}, "mismatch"))

	a.Merge(other)
	if a.Len() != 3 {
		t.Errorf("merged Len = %d, want 3", a.Len())
	}
	if a.Cap() < 3 {
		t.Errorf("merge must raise cap, got %d", a.Cap())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{Shader: 1, Start: 5, End: 9}
	ReportWarning(r, PatchDynamicIndexReuse, sp, "%7 reused")
	ReportWarning(r, PatchDynamicIndexReuse, sp, "%7 reused")
	ReportWarning(r, PatchDynamicIndexReuse, sp, "%8 reused")
	if bag.Len() != 2 {
		t.Errorf("Len = %d, want 2", bag.Len())
	}
}

func TestCodeString(t *testing.T) {
	if got := PatchInvariant.String(); got != "REBIND(3002)" {
		t.Errorf("String() = %q", got)
	}
	if PatchInvariant.Description() == "Unknown diagnostic code" {
		t.Error("PatchInvariant should have a description")
	}
	if Code(9999).Description() != "Unknown diagnostic code" {
		t.Error("unknown code must report the fallback description")
	}
}
