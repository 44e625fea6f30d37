package testkit

import (
	"bytes"
	"context"

	"rebind/internal/backend"
)

// Markers the scripted tool prepends so tests can tell what happened to a
// blob without modeling real bytecode.
const (
	AssembledPrefix = "assembled:"
	SignedPrefix    = "signed:"
)

// ScriptedTool implements backend.Tool over canned data. IR is what
// Disassemble hands back; Reflection is what Reflect reports. Assemble and
// ValidateAndSign wrap their input with a marker prefix, and every call
// records its input so tests can assert on the exact pipeline traffic.
type ScriptedTool struct {
	Ver        backend.Version
	IR         []byte
	Reflection *backend.Reflection

	VersionErr     error
	DisassembleErr error
	AssembleErr    error
	SignErr        error
	ReflectErr     error

	DisassembledInputs [][]byte
	AssembledInputs    [][]byte
	SignedInputs       [][]byte
	ReflectedInputs    [][]byte
	VersionCalls       int
}

var _ backend.Tool = (*ScriptedTool)(nil)

func (t *ScriptedTool) Version(ctx context.Context) (backend.Version, error) {
	t.VersionCalls++
	if t.VersionErr != nil {
		return backend.Version{}, t.VersionErr
	}
	return t.Ver, nil
}

func (t *ScriptedTool) Disassemble(ctx context.Context, c []byte) ([]byte, error) {
	t.DisassembledInputs = append(t.DisassembledInputs, bytes.Clone(c))
	if t.DisassembleErr != nil {
		return nil, t.DisassembleErr
	}
	return bytes.Clone(t.IR), nil
}

func (t *ScriptedTool) Assemble(ctx context.Context, ir []byte) ([]byte, error) {
	t.AssembledInputs = append(t.AssembledInputs, bytes.Clone(ir))
	if t.AssembleErr != nil {
		return nil, t.AssembleErr
	}
	return append([]byte(AssembledPrefix), ir...), nil
}

func (t *ScriptedTool) ValidateAndSign(ctx context.Context, c []byte) ([]byte, error) {
	t.SignedInputs = append(t.SignedInputs, bytes.Clone(c))
	if t.SignErr != nil {
		return nil, t.SignErr
	}
	return append([]byte(SignedPrefix), c...), nil
}

func (t *ScriptedTool) Reflect(ctx context.Context, c []byte) (*backend.Reflection, error) {
	t.ReflectedInputs = append(t.ReflectedInputs, bytes.Clone(c))
	if t.ReflectErr != nil {
		return nil, t.ReflectErr
	}
	return t.Reflection, nil
}
