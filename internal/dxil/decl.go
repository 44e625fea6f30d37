package dxil

import (
	"fmt"

	"rebind/internal/bind"
	"rebind/internal/diag"
)

// PatchDeclarations rewrites resource declaration records in optimized
// shaders, where the compiler strips debug names from the metadata. With
// no name to search for, the pass scans for declaration-shaped records and
// classifies each one by the type name of its global symbol:
//
//	!5 = !{i32 0, %"class.Texture2D<vector<float, 4> >"* undef, !"", i32 -1, i32 -1, i32 1, ...}
//
// The classified (space, register, class) triple is then matched against
// the binding map. Records that fail any shape check are simply skipped;
// a record that passes every check but matches no map entry is fatal,
// since leaving it unpatched would ship a stale binding.
func PatchDeclarations(b *Buffer, m *bind.Map, opts Options) error {
	for pos := 0; pos < b.Len(); {
		found := b.Index(nameDeclTok, pos)
		if found < 0 {
			break
		}

		// undef, !"", i32 -1,...  or  undef, !"g_Tex2D", i32 -1,...
		//      ^   ^                       ^    ^
		//  found   nameStart           found    nameStart
		endOfTypeRecord := found
		nameStart := found + len(nameDeclTok)

		name, stop, ok := readResName(b, nameStart)
		if !ok {
			pos = stop
			continue
		}
		// stop sits on the closing quote; the binding records follow it.
		bindingRecordStart := stop + 1

		recStart := b.LastIndex(recordStartTok, endOfTypeRecord)
		if recStart < 0 {
			return formatErr(name, "record", "no record start block before the declaration")
		}
		p := recStart + len(recordStartTok)

		// !5 = !{i32 0,
		//        ^
		if !b.HasPrefix(p, i32Tok) {
			pos = bindingRecordStart
			continue
		}
		p += len(i32Tok)

		recordID, idEnd, ok := b.readNumber(p)
		if !ok {
			return formatErr(name, "record id", "unable to parse record data")
		}
		p = idEnd
		if b.Byte(p) != ',' || b.Byte(p+1) != ' ' {
			return formatErr(name, "record id", "no record separator after the record id")
		}
		p += 2

		// !{i32 0, %"class.Texture2D<...  or  !{i32 0, [4 x %"class.Texture2D<...
		//          ^                                   ^
		if b.Byte(p) == '[' {
			p++
			for p < endOfTypeRecord {
				c := b.Byte(p)
				if !isDigit(c) && c != ' ' && c != 'x' {
					break
				}
				p++
			}
		}
		if b.Byte(p) != '%' {
			pos = bindingRecordStart
			continue
		}
		p++

		// A quoted or struct./class. qualified symbol always spells a full
		// type name; only a bare (at most alignment-prefixed) symbol needs
		// the constant-buffer fallback below.
		var structural bool
		if b.Byte(p) == '"' {
			p++
			structural = true
		}
		if b.HasPrefix(p, "dx.alignment.legacy.") {
			p += len("dx.alignment.legacy.")
		}
		if b.HasPrefix(p, "struct.") {
			p += len("struct.")
			structural = true
		}
		if b.HasPrefix(p, "class.") {
			p += len("class.")
			structural = true
		}

		class, ok := classifyType(b, p)
		if !ok && !structural {
			// Constant buffers lose their type here, leaving only the
			// buffer name as the symbol. Fall back to matching the
			// requested constant-buffer names by prefix.
			class, ok = matchConstantBuffer(b, p, m)
			if ok {
				diag.ReportInfo(opts.Reporter, diag.PatchAmbiguousPrefix, opts.span(p, p),
					"classified a bare symbol as a constant buffer by name prefix")
			}
		}
		if !ok {
			pos = bindingRecordStart
			continue
		}

		p = bindingRecordStart
		space, ok := readField(b, &p)
		if !ok {
			pos = bindingRecordStart
			continue
		}
		register, ok := readField(b, &p)
		if !ok {
			pos = bindingRecordStart
			continue
		}

		e := m.ByOriginal(space, register, class)
		if e == nil {
			return lookupErr("declaration at space %d, register %d (%s) matches no binding request",
				space, register, class)
		}
		if name != "" && name != e.Req.Name {
			diag.ReportWarning(opts.Reporter, diag.PatchRecordConflict, opts.span(nameStart, stop),
				fmt.Sprintf("declared name %q disagrees with matched request %q", name, e.Req.Name))
		}
		if err := e.SetRecordID(recordID); err != nil {
			return invariantErr(e.Req.Name, "record id", "%v", err)
		}

		p = bindingRecordStart
		if err := replaceField(b, &p, e.Req.Space, e.Req.Name, "space", e.SrcSpace); err != nil {
			return err
		}
		if err := replaceField(b, &p, e.Req.Register, e.Req.Name, "register", e.SrcRegister); err != nil {
			return err
		}

		// Reinstate the stripped name so later tooling sees it.
		if name == "" {
			b.Insert(nameStart, e.Req.Name)
			p += len(e.Req.Name)
			diag.ReportInfo(opts.Reporter, diag.PatchNameInserted, opts.span(nameStart, nameStart+len(e.Req.Name)),
				fmt.Sprintf("restored resource name %q in declaration metadata", e.Req.Name))
		}
		pos = p
	}
	return nil
}

// readResName reads the quoted resource name starting at pos (the byte
// after the opening quote). ok is false when the text is not a quoted word,
// meaning the match was not a declaration; stop is where scanning resumes.
func readResName(b *Buffer, pos int) (name string, stop int, ok bool) {
	start := pos
	for ; pos < b.Len(); pos++ {
		c := b.Byte(pos)
		if isWordByte(c) {
			continue
		}
		if c == '"' {
			return string(b.Bytes()[start:pos]), pos, true
		}
		break
	}
	return "", pos, false
}

// classifyType buckets an HLSL type name token into a bind class. The
// token sits right after the symbol prefixes.
func classifyType(b *Buffer, pos int) (bind.BindClass, bool) {
	switch {
	case b.HasPrefix(pos, "SamplerState"):
		return bind.ClassSampler, true
	case b.HasPrefix(pos, "Texture") && isTextureSuffix(b, pos+len("Texture")):
		return bind.ClassSRV, true
	case b.HasPrefix(pos, "StructuredBuffer<"),
		b.HasPrefix(pos, "ByteAddressBuffer"),
		b.HasPrefix(pos, "Buffer<"),
		b.HasPrefix(pos, "RaytracingAccelerationStructure"):
		return bind.ClassSRV, true
	case b.HasPrefix(pos, "RWTexture") && isTextureSuffix(b, pos+len("RWTexture")):
		return bind.ClassUAV, true
	case b.HasPrefix(pos, "RWStructuredBuffer<"),
		b.HasPrefix(pos, "RWByteAddressBuffer"),
		b.HasPrefix(pos, "RWBuffer<"):
		return bind.ClassUAV, true
	}
	return 0, false
}

var textureSuffixes = []string{
	"1D<", "1DArray<", "2D<", "2DArray<", "3D<",
	"2DMS<", "2DMSArray<", "Cube<", "CubeArray<",
}

func isTextureSuffix(b *Buffer, pos int) bool {
	for _, s := range textureSuffixes {
		if b.HasPrefix(pos, s) {
			return true
		}
	}
	return false
}

// matchConstantBuffer matches a bare symbol against the requested constant
// buffer names. The name must be followed by a non-word byte so that a
// buffer named "Light" does not claim the symbol "LightParams".
func matchConstantBuffer(b *Buffer, pos int, m *bind.Map) (bind.BindClass, bool) {
	for _, e := range m.ConstantBuffers() {
		name := e.Req.Name
		if b.HasPrefix(pos, name) && !isWordByte(b.Byte(pos+len(name))) {
			return bind.ClassCBV, true
		}
	}
	return 0, false
}
