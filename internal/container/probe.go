package container

import (
	"encoding/binary"
	"fmt"

	"rebind/internal/diag"
	"rebind/internal/source"
)

// Probe reports whether data looks like a DXIL container that carries a part
// of the requested kind. It never fails: truncated or corrupt input is a
// plain "not found". The only diagnostic it emits is a single warning when
// the magic tag matches but the major version does not — that blob is one of
// ours from a different toolchain generation, which the caller should hear
// about.
func Probe(data []byte, kind FourCC, reporter diag.Reporter) bool {
	h, ok := readHeader(data)
	if !ok {
		return false
	}
	if h.Magic != MagicDXBC {
		return false
	}
	if h.VersionMajor != VersionMajor {
		diag.ReportWarning(reporter, diag.ProbeVersionMismatch, source.Span{},
			fmt.Sprintf("container major version is %d while %d is expected", h.VersionMajor, VersionMajor))
		return false
	}

	// The header is followed by PartCount little-endian u32 offsets, each
	// pointing at a part header.
	offsetTableEnd := uint64(headerSize) + 4*uint64(h.PartCount)
	if offsetTableEnd > uint64(len(data)) {
		return false
	}

	for _, p := range parts(data, h) {
		if p.Kind == kind {
			return true
		}
	}
	return false
}

// ProbeDXIL is Probe specialised to the IR part the remap pipeline needs.
func ProbeDXIL(data []byte, reporter diag.Reporter) bool {
	return Probe(data, PartDXIL, reporter)
}

// Parts enumerates the well-formed part headers of a container, stopping at
// the first offset whose part header would run past the buffer. A nil result
// means data is not a container with the expected magic and version.
func Parts(data []byte) []Part {
	h, ok := readHeader(data)
	if !ok || h.Magic != MagicDXBC || h.VersionMajor != VersionMajor {
		return nil
	}
	if uint64(headerSize)+4*uint64(h.PartCount) > uint64(len(data)) {
		return nil
	}
	return parts(data, h)
}

func parts(data []byte, h Header) []Part {
	out := make([]Part, 0, h.PartCount)
	for i := uint32(0); i < h.PartCount; i++ {
		offPos := headerSize + 4*i
		offset := binary.LittleEndian.Uint32(data[offPos : offPos+4])
		p, ok := readPart(data, offset)
		if !ok {
			// A part header past the end of the buffer: truncated or
			// corrupt. Everything before it is still reported.
			break
		}
		out = append(out, p)
	}
	return out
}
