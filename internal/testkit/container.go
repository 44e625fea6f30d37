// Package testkit holds fixtures shared by tests across the repo: a
// container builder producing structurally valid DXIL containers, and a
// scripted toolchain standing in for the real compiler library.
package testkit

import (
	"encoding/binary"

	"fortio.org/safecast"

	"rebind/internal/container"
)

// ContainerPart is one part of a fixture container.
type ContainerPart struct {
	Kind    container.FourCC
	Payload []byte
}

// BuildContainer assembles a structurally valid container blob from the
// given parts. The digest bytes stay zero, which is what unsigned output
// of the compiler looks like.
func BuildContainer(parts ...ContainerPart) []byte {
	headerAndTable := 32 + 4*len(parts)
	total := headerAndTable
	for _, p := range parts {
		total += 8 + len(p.Payload)
	}

	buf := make([]byte, total)
	copy(buf[0:4], container.MagicDXBC[:])
	binary.LittleEndian.PutUint16(buf[20:22], container.VersionMajor)
	binary.LittleEndian.PutUint16(buf[22:24], 0)
	totalU32, err := safecast.Conv[uint32](total)
	if err != nil {
		panic(err)
	}
	partsU32, err := safecast.Conv[uint32](len(parts))
	if err != nil {
		panic(err)
	}
	binary.LittleEndian.PutUint32(buf[24:28], totalU32)
	binary.LittleEndian.PutUint32(buf[28:32], partsU32)

	off := headerAndTable
	for i, p := range parts {
		offU32, err := safecast.Conv[uint32](off)
		if err != nil {
			panic(err)
		}
		lenU32, err := safecast.Conv[uint32](len(p.Payload))
		if err != nil {
			panic(err)
		}
		binary.LittleEndian.PutUint32(buf[32+4*i:32+4*i+4], offU32)
		copy(buf[off:off+4], p.Kind[:])
		binary.LittleEndian.PutUint32(buf[off+4:off+8], lenU32)
		copy(buf[off+8:], p.Payload)
		off += 8 + len(p.Payload)
	}
	return buf
}

// DXILContainer builds a minimal container holding one DXIL part with the
// given payload.
func DXILContainer(payload []byte) []byte {
	return BuildContainer(ContainerPart{Kind: container.PartDXIL, Payload: payload})
}
