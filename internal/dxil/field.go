package dxil

// replaceField rewrites the ", i32 N" record at *pos with value, after
// verifying that N equals expect. The equality gate is what keeps a
// mislocated match from silently corrupting an unrelated literal. On
// success *pos sits just past the freshly written value.
func replaceField(b *Buffer, pos *int, value uint32, resource, field string, expect uint32) error {
	// , i32 -1
	// ^
	p := *pos
	if b.Byte(p) != ',' || b.Byte(p+1) != ' ' {
		return formatErr(resource, field, "record not found")
	}
	p += 2

	// , i32 -1
	//   ^
	if !b.HasPrefix(p, i32Tok) {
		return formatErr(resource, field, "unexpected record type")
	}
	p += len(i32Tok)

	// , i32 -1
	//       ^
	prev, end, ok := b.readNumber(p)
	if !ok {
		return formatErr(resource, field, "unable to parse record data")
	}
	if prev != expect {
		return invariantErr(resource, field, "current value %d does not match the reflected value %d", prev, expect)
	}

	repl := formatValue(value)
	b.Replace(p, end, repl)
	*pos = p + len(repl)
	return nil
}

// readField parses the ", i32 N" record at *pos without editing. A false
// result means the text is not record shaped; the caller resumes scanning
// with *pos untouched.
func readField(b *Buffer, pos *int) (val uint32, ok bool) {
	p := *pos
	if b.Byte(p) != ',' || b.Byte(p+1) != ' ' {
		return 0, false
	}
	p += 2
	if !b.HasPrefix(p, i32Tok) {
		return 0, false
	}
	p += len(i32Tok)
	v, end, ok := b.readNumber(p)
	if !ok {
		return 0, false
	}
	*pos = end
	return v, true
}
