package driver

import (
	"crypto/sha256"
	"encoding/binary"

	"rebind/internal/bind"
	"rebind/internal/remap"
)

// Digest is a SHA-256 value.
type Digest [sha256.Size]byte

// IsZero reports whether the digest was never computed.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// CacheKey fingerprints one remap: the input container, the requested
// layout, the target and the toolchain version. Any of these changing
// must miss the cache, since each changes the output bytes.
func CacheKey(container []byte, requests []bind.Request, target remap.Target, toolVersion string) Digest {
	h := sha256.New()

	var scratch [8]byte
	writeU32 := func(v uint32) {
		binary.LittleEndian.PutUint32(scratch[:4], v)
		h.Write(scratch[:4])
	}
	writeStr := func(s string) {
		writeU32(uint32(len(s)))
		h.Write([]byte(s))
	}

	writeStr(string(target))
	writeStr(toolVersion)
	writeU32(uint32(len(requests)))
	for _, r := range requests {
		writeStr(r.Name)
		writeU32(r.Space)
		writeU32(r.Register)
		writeU32(uint32(r.Kind))
		writeU32(r.Count)
	}
	writeU32(uint32(len(container)))
	h.Write(container)

	var d Digest
	h.Sum(d[:0])
	return d
}
