package dxil

import (
	"fmt"

	"rebind/internal/bind"
	"rebind/internal/diag"
)

const (
	callHandleTok = " = call %dx.types.Handle @dx.op.createHandle("
	addDeclTok    = " = add i32 "
)

// PatchHandles rewrites the register index operand of every handle-creation
// call. Argument layout of the call:
//
//	@dx.op.createHandle(
//	    i32,    ; opcode
//	    i8,     ; resource class: SRV=0, UAV=1, CBV=2, Sampler=3
//	    i32,    ; resource range id, matches a declaration record id
//	    i32,    ; index into the range, literal or an add-computed temporary
//	    i1)     ; non-uniform resource index
//
// A literal index is rewritten in place. A %temporary index points back at
// an add instruction with one constant operand; that constant carries the
// register base, so the add literal is rewritten instead.
func PatchHandles(b *Buffer, m *bind.Map, opts Options) error {
	for pos := 0; pos < b.Len(); {
		call := b.Index(callHandleTok, pos)
		if call < 0 {
			break
		}
		p := call + len(callHandleTok)

		// @dx.op.createHandle(i32 57, i8 2, i32 0, i32 0, i1 false)
		//                     ^
		if !b.HasPrefix(p, i32Tok) {
			return formatErr("", "opcode", "record not found")
		}
		p += len(i32Tok)
		if !nextArg(b, &p) {
			return formatErr("", "opcode", "no end of record data")
		}

		// @dx.op.createHandle(i32 57, i8 2, i32 0, i32 0, i1 false)
		//                           ^
		if b.Byte(p) != ',' || b.Byte(p+1) != ' ' {
			return formatErr("", "resource class", "record not found")
		}
		p += 2
		if !b.HasPrefix(p, i8Tok) {
			return formatErr("", "resource class", "record data not found")
		}
		p += len(i8Tok)
		classStart := p
		if !nextArg(b, &p) {
			return formatErr("", "resource class", "no end of record data")
		}
		classVal, _, ok := b.readNumber(classStart)
		if !ok || classVal > uint32(bind.ClassSampler) {
			return formatErr("", "resource class", "unable to parse record data")
		}
		class := bind.BindClass(classVal)

		// @dx.op.createHandle(i32 57, i8 2, i32 0, i32 0, i1 false)
		//                                   ^
		if b.Byte(p) != ',' || b.Byte(p+1) != ' ' {
			return formatErr("", "range id", "record not found")
		}
		p += 2
		if !b.HasPrefix(p, i32Tok) {
			return formatErr("", "range id", "record data not found")
		}
		p += len(i32Tok)
		rangeStart := p
		if !nextArg(b, &p) {
			return formatErr("", "range id", "no end of record data")
		}
		rangeID, _, ok := b.readNumber(rangeStart)
		if !ok {
			return formatErr("", "range id", "unable to parse record data")
		}

		// @dx.op.createHandle(i32 57, i8 2, i32 0, i32 0, i1 false)
		//                                          ^
		if b.Byte(p) != ',' || b.Byte(p+1) != ' ' {
			return formatErr("", "index", "record not found")
		}
		p += 2
		if !b.HasPrefix(p, i32Tok) {
			return formatErr("", "index", "record data not found")
		}
		p += len(i32Tok)
		indexStart := p
		if !nextArg(b, &p) {
			return formatErr("", "index", "no end of record data")
		}
		indexEnd := p
		if indexEnd == indexStart {
			return formatErr("", "index", "bind point must not be empty")
		}

		var resume int
		var err error
		if b.Byte(indexStart) == '%' {
			resume, err = patchDynamicIndex(b, m, opts, class, rangeID, indexStart, indexEnd)
		} else {
			resume, err = replaceIndex(b, m, class, rangeID, indexStart, indexEnd)
		}
		if err != nil {
			return err
		}
		pos = resume
	}
	return nil
}

// nextArg advances *pos to the comma separating the current call argument
// from the next one. False means the argument list (or the line) ended
// first.
func nextArg(b *Buffer, pos *int) bool {
	for p := *pos; p < b.Len(); p++ {
		switch b.Byte(p) {
		case ',':
			*pos = p
			return true
		case ')', '\n':
			*pos = p
			return false
		}
	}
	*pos = b.Len()
	return false
}

// replaceIndex rewrites the register index literal at [start, end). The
// destination preserves the offset into the array range: an index 3 slots
// past the original base lands 3 slots past the new base. Returns the
// offset just past the new value.
func replaceIndex(b *Buffer, m *bind.Map, class bind.BindClass, rangeID uint32, start, end int) (int, error) {
	src, numEnd, ok := b.readNumber(start)
	if !ok || numEnd != end {
		return 0, formatErr("", "index", "unable to parse bind point")
	}
	e := m.ResolveHandle(rangeID, class, src)
	if e == nil {
		return 0, lookupErr("handle site (record %d, %s, index %d) matches no binding request",
			rangeID, class, src)
	}
	repl := formatValue(e.Req.Register + (src - e.SrcRegister))
	b.Replace(start, end, repl)
	return start + len(repl), nil
}

// patchDynamicIndex handles a %temporary index operand: find the add
// instruction that computes it and rewrite the constant operand there.
//
//	%22 = add i32 %17, 7    or    %22 = add i32 7, %17
//	...
//	%23 = call %dx.types.Handle @dx.op.createHandle(i32 57, i8 0, i32 1, i32 %22, i1 false)
//
// Returns the offset to resume scanning from, adjusted for the edit.
func patchDynamicIndex(b *Buffer, m *bind.Map, opts Options, class bind.BindClass, rangeID uint32, indexStart, indexEnd int) (int, error) {
	varName := string(b.Bytes()[indexStart:indexEnd])
	decl := varName + addDeclTok

	declPos := b.LastIndex(decl, indexEnd)
	if declPos < 0 {
		return 0, formatErr("", "index", "no add declaration for dynamic bind point %s", varName)
	}
	p := declPos + len(decl)

	// %22 = add i32 %17, 7
	//               ^
	if b.Byte(p) == '%' {
		// First operand is the variable part; the constant is second.
		if !nextArg(b, &p) {
			return 0, formatErr("", "index", "no second add operand for %s", varName)
		}
		if b.Byte(p) != ',' || b.Byte(p+1) != ' ' {
			return 0, formatErr("", "index", "malformed add operand list for %s", varName)
		}
		p += 2
	}
	if !isDigit(b.Byte(p)) {
		return 0, formatErr("", "index", "add operand for %s is not an integer constant", varName)
	}
	argStart := p
	for p < b.Len() && isDigit(b.Byte(p)) {
		p++
	}
	if b.Byte(p) != ',' && b.Byte(p) != '\n' {
		return 0, formatErr("", "index", "unable to parse add operand for %s", varName)
	}
	argEnd := p

	newEnd, err := replaceIndex(b, m, class, rangeID, argStart, argEnd)
	if err != nil {
		return 0, err
	}

	// The temporary must feed exactly the add result and this call. A
	// third use would observe the patched base and misindex.
	uses := 0
	for q := b.Index(varName, 0); q >= 0; q = b.Index(varName, q+1) {
		c := b.Byte(q + len(varName))
		if c == ' ' || c == ',' {
			uses++
		}
	}
	if uses > 2 {
		diag.ReportWarning(opts.Reporter, diag.PatchDynamicIndexReuse, opts.span(indexStart, indexEnd),
			fmt.Sprintf("temporary %s holding a patched bind point is referenced %d times", varName, uses))
	}

	return indexEnd + (newEnd - argEnd), nil
}
