package dxil

import "rebind/internal/bind"

// PatchDeclarationsRT rewrites resource metadata records located through
// their debug-name literals. Valid for ray-tracing shaders and for
// non-optimized shaders, where the compiler keeps resource names in the
// metadata.
//
// Metadata resource record shape:
//
//	!158 = !{i32 0, %"class.RWTexture2D<...>"* @"...", !"g_ColorBuffer", i32 -1, i32 -1, i32 1, ...}
//
// Field 0 is the record id handle creation refers back to, field 3 the bind
// space, field 4 the register lower bound. This pass records the id and
// rewrites fields 3 and 4.
//
// A name that never appears in the IR is not an error: the compiler drops
// declarations for resources the shader does not use.
func PatchDeclarationsRT(b *Buffer, m *bind.Map) error {
	for _, e := range m.Entries() {
		name := e.Req.Name
		lit := `!"` + name + `"`

		found := b.Index(lit, 0)
		if found < 0 {
			continue
		}

		// !158 = !{i32 0, ... !"g_ColorBuffer", i32 -1, i32 -1,
		//      ^                ^
		//  recStart           found
		recStart := b.LastIndex(recordStartTok, found)
		if recStart < 0 {
			return formatErr(name, "record", "no record start block before the name literal")
		}
		pos := recStart + len(recordStartTok)
		if !b.HasPrefix(pos, i32Tok) {
			return formatErr(name, "record id", "unexpected record type")
		}
		pos += len(i32Tok)

		id, _, ok := b.readNumber(pos)
		if !ok {
			return formatErr(name, "record id", "unable to parse record data")
		}
		if err := e.SetRecordID(id); err != nil {
			return invariantErr(name, "record id", "%v", err)
		}

		// !"g_ColorBuffer", i32 -1, i32 -1,
		//                 ^
		pos = found + len(lit)
		if err := replaceField(b, &pos, e.Req.Space, name, "space", e.SrcSpace); err != nil {
			return err
		}
		if err := replaceField(b, &pos, e.Req.Register, name, "register", e.SrcRegister); err != nil {
			return err
		}
	}
	return nil
}
