package dxil

import (
	"bytes"
	"strconv"
)

func isWordByte(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Tokens shared by the patch passes.
const (
	i32Tok         = "i32 "
	i8Tok          = "i8 "
	recordStartTok = "= !{"
	nameDeclTok    = ", !\""
)

// Buffer is the mutable IR text the patch passes edit in place. Positions
// are byte offsets into the current text; any edit invalidates positions
// after the edit point, so callers recompute instead of caching.
type Buffer struct {
	text []byte
}

func NewBuffer(text []byte) *Buffer {
	return &Buffer{text: text}
}

func (b *Buffer) Bytes() []byte { return b.text }

func (b *Buffer) Len() int { return len(b.text) }

// Byte returns the byte at pos, or 0 when pos is out of range. The zero
// byte never occurs in IR text, so bounds checks fold into byte compares.
func (b *Buffer) Byte(pos int) byte {
	if pos < 0 || pos >= len(b.text) {
		return 0
	}
	return b.text[pos]
}

// Index finds the first occurrence of tok at or after from, or -1.
func (b *Buffer) Index(tok string, from int) int {
	if from < 0 {
		from = 0
	}
	if from >= len(b.text) {
		return -1
	}
	i := bytes.Index(b.text[from:], []byte(tok))
	if i < 0 {
		return -1
	}
	return from + i
}

// LastIndex finds the last occurrence of tok starting at or before limit,
// or -1.
func (b *Buffer) LastIndex(tok string, limit int) int {
	end := limit + len(tok)
	if end > len(b.text) {
		end = len(b.text)
	}
	if end < 0 {
		return -1
	}
	return bytes.LastIndex(b.text[:end], []byte(tok))
}

// HasPrefix reports whether tok appears at exactly pos.
func (b *Buffer) HasPrefix(pos int, tok string) bool {
	return pos >= 0 && pos+len(tok) <= len(b.text) && string(b.text[pos:pos+len(tok)]) == tok
}

// Replace substitutes text[start:end] with repl. The caller owns fixing up
// any positions past start.
func (b *Buffer) Replace(start, end int, repl string) {
	out := make([]byte, 0, len(b.text)-(end-start)+len(repl))
	out = append(out, b.text[:start]...)
	out = append(out, repl...)
	out = append(out, b.text[end:]...)
	b.text = out
}

// Insert splices s in at pos.
func (b *Buffer) Insert(pos int, s string) {
	b.Replace(pos, pos, s)
}

// numberEnd returns the offset of the first byte at or after pos that is
// not part of a signed decimal run.
func (b *Buffer) numberEnd(pos int) int {
	i := pos
	for i < len(b.text) {
		c := b.text[i]
		if !isDigit(c) && c != '+' && c != '-' {
			break
		}
		i++
	}
	return i
}

// readNumber parses the signed decimal run at pos. Negative literals wrap
// to their two's-complement uint32 value, matching how the IR prints
// unassigned slots as -1.
func (b *Buffer) readNumber(pos int) (val uint32, end int, ok bool) {
	end = b.numberEnd(pos)
	if end == pos {
		return 0, pos, false
	}
	v, err := strconv.ParseInt(string(b.text[pos:end]), 10, 64)
	if err != nil {
		return 0, pos, false
	}
	return uint32(v), end, true
}

// formatValue renders a binding value the way the passes write it back:
// always as an unsigned decimal.
func formatValue(v uint32) string {
	return strconv.FormatUint(uint64(v), 10)
}
