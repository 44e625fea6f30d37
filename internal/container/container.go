// Package container models the DXIL bytecode container envelope: a fixed
// header, a part offset table, and a sequence of tagged parts. Only enough of
// the format is implemented to decide whether a blob is one of ours and to
// enumerate its parts; payload interpretation belongs to the backend tools.
package container

import (
	"encoding/binary"
)

// FourCC is a four-character part or container tag.
type FourCC [4]byte

func (f FourCC) String() string {
	buf := make([]byte, 0, 4)
	for _, c := range f {
		if c >= 0x20 && c < 0x7f {
			buf = append(buf, c)
		} else {
			buf = append(buf, '?')
		}
	}
	return string(buf)
}

var (
	// MagicDXBC tags the container header.
	MagicDXBC = FourCC{'D', 'X', 'B', 'C'}
	// PartDXIL tags the IR part the remap pipeline cares about.
	PartDXIL = FourCC{'D', 'X', 'I', 'L'}
)

// VersionMajor is the container major version this package understands.
const VersionMajor = 1

const (
	// headerSize: fourcc(4) + hash digest(16) + major(2) + minor(2) +
	// container size(4) + part count(4).
	headerSize     = 32
	partHeaderSize = 8
)

// Header is the fixed-size container header.
type Header struct {
	Magic         FourCC
	Digest        [16]byte
	VersionMajor  uint16
	VersionMinor  uint16
	ContainerSize uint32
	PartCount     uint32
}

// Part describes one entry of the part table.
type Part struct {
	Kind   FourCC
	Offset uint32 // offset of the part header from the container start
	Size   uint32 // payload size, excluding the part header
}

// readHeader decodes the fixed header without touching anything past it.
// Returns false when the buffer cannot hold a full header.
func readHeader(data []byte) (Header, bool) {
	if len(data) < headerSize {
		return Header{}, false
	}
	var h Header
	copy(h.Magic[:], data[0:4])
	copy(h.Digest[:], data[4:20])
	h.VersionMajor = binary.LittleEndian.Uint16(data[20:22])
	h.VersionMinor = binary.LittleEndian.Uint16(data[22:24])
	h.ContainerSize = binary.LittleEndian.Uint32(data[24:28])
	h.PartCount = binary.LittleEndian.Uint32(data[28:32])
	return h, true
}

// readPart decodes the part header at offset. Returns false when the buffer
// cannot hold it.
func readPart(data []byte, offset uint32) (Part, bool) {
	end := uint64(offset) + partHeaderSize
	if end > uint64(len(data)) {
		return Part{}, false
	}
	var p Part
	copy(p.Kind[:], data[offset:offset+4])
	p.Size = binary.LittleEndian.Uint32(data[offset+4 : offset+8])
	p.Offset = offset
	return p, true
}
