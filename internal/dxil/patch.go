package dxil

import (
	"fortio.org/safecast"

	"rebind/internal/bind"
	"rebind/internal/diag"
	"rebind/internal/source"
)

// Options carries the diagnostics context shared by the patch passes.
type Options struct {
	Reporter diag.Reporter
	Shader   source.ShaderID
}

// span builds a diagnostic span for the byte range [start, end) of the
// buffer being patched.
func (o Options) span(start, end int) source.Span {
	s, err1 := safecast.Conv[uint32](start)
	e, err2 := safecast.Conv[uint32](end)
	if err1 != nil || err2 != nil {
		return source.Span{Shader: o.Shader}
	}
	return source.Span{Shader: o.Shader, Start: s, End: e}
}

// Patch runs the passes appropriate for the shader stage over the IR text.
//
// Ray-tracing stages keep debug names in their metadata and bind through
// shader record tables, so only the name-driven declaration pass applies.
// Every other stage gets the shape-driven declaration pass followed by the
// handle pass, which depends on the record ids the first pass discovered.
//
// On error the buffer may hold partially patched text; callers must treat
// the remap as failed and keep the original bytecode.
func Patch(b *Buffer, m *bind.Map, stage bind.Stage, opts Options) error {
	if stage.IsRayTracing() {
		return PatchDeclarationsRT(b, m)
	}
	if err := PatchDeclarations(b, m, opts); err != nil {
		return err
	}
	return PatchHandles(b, m, opts)
}
