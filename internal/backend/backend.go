// Package backend abstracts the external shader toolchain the remap
// pipeline drives: disassembly, reassembly, validation/signing and
// reflection of DXIL containers. Implementations wrap whatever compiler
// library is loaded at runtime; tests script one.
package backend

import (
	"context"
	"fmt"

	"rebind/internal/bind"
)

// Reflection is the resource interface of one shader as the toolchain
// reports it.
type Reflection struct {
	Stage   bind.Stage
	Entries []bind.ReflectionEntry
}

// ByName finds the reflection entry for a resource name.
func (r *Reflection) ByName(name string) (bind.ReflectionEntry, bool) {
	for _, e := range r.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return bind.ReflectionEntry{}, false
}

// Version is the toolchain's reported version.
type Version struct {
	Major uint32
	Minor uint32
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

func (v Version) packed() uint32 {
	return v.Major<<16 | v.Minor&0xFFFF
}

// ShaderModel is an HLSL shader model such as 6.5.
type ShaderModel struct {
	Major uint8
	Minor uint8
}

func (m ShaderModel) String() string {
	return fmt.Sprintf("%d.%d", m.Major, m.Minor)
}

// MaxShaderModelFor maps a known compiler version to the newest shader
// model it handles. Unknown newer versions are assumed to handle 6.6,
// unknown older ones only 6.0.
func MaxShaderModelFor(v Version) ShaderModel {
	switch v.packed() {
	case 0x10005:
		return ShaderModel{6, 5}
	case 0x10004:
		return ShaderModel{6, 4}
	case 0x10003, 0x10002:
		return ShaderModel{6, 1}
	}
	if v.packed() > 0x10005 {
		return ShaderModel{6, 6}
	}
	return ShaderModel{6, 0}
}

// Disassembler turns a DXIL container into IR text.
type Disassembler interface {
	Disassemble(ctx context.Context, container []byte) ([]byte, error)
}

// Assembler turns patched IR text back into a DXIL container.
type Assembler interface {
	Assemble(ctx context.Context, ir []byte) ([]byte, error)
}

// Signer validates a container and stamps its digest in place. The
// returned bytes are the signed container.
type Signer interface {
	ValidateAndSign(ctx context.Context, container []byte) ([]byte, error)
}

// Reflector extracts the resource interface of a container.
type Reflector interface {
	Reflect(ctx context.Context, container []byte) (*Reflection, error)
}

// Versioner reports the loaded toolchain version.
type Versioner interface {
	Version(ctx context.Context) (Version, error)
}

// Tool is a full toolchain instance. Instances are not safe for
// concurrent use; batch work creates one per worker.
type Tool interface {
	Disassembler
	Assembler
	Signer
	Reflector
	Versioner
}
