// Package dxc implements the toolchain backend on top of the DirectX
// Shader Compiler command line tools: dxc for disassembly and reflection,
// dxa for reassembly and dxv for validation and signing.
package dxc

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"rebind/internal/backend"
)

// Tool shells out to the DXC binaries. Each call stages its input in a
// private temp directory, so one instance must not be shared between
// goroutines.
type Tool struct {
	// Binary names or paths. Zero values resolve via PATH.
	DXC string
	DXA string
	DXV string
}

var _ backend.Tool = (*Tool)(nil)

// New returns a Tool that resolves dxc, dxa and dxv via PATH.
func New() *Tool {
	return &Tool{DXC: "dxc", DXA: "dxa", DXV: "dxv"}
}

func (t *Tool) dxc() string { return orDefault(t.DXC, "dxc") }
func (t *Tool) dxa() string { return orDefault(t.DXA, "dxa") }
func (t *Tool) dxv() string { return orDefault(t.DXV, "dxv") }

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Disassemble converts a DXIL container into LLVM IR text.
func (t *Tool) Disassemble(ctx context.Context, container []byte) ([]byte, error) {
	return t.throughFiles(ctx, "disassemble", container, "in.cso", "out.ll",
		func(in, out string) *exec.Cmd {
			return exec.CommandContext(ctx, t.dxc(), "-dumpbin", in, "-Fc", out)
		})
}

// Assemble converts patched IR text back into a DXIL container.
func (t *Tool) Assemble(ctx context.Context, ir []byte) ([]byte, error) {
	return t.throughFiles(ctx, "assemble", ir, "in.ll", "out.cso",
		func(in, out string) *exec.Cmd {
			return exec.CommandContext(ctx, t.dxa(), in, "-o", out)
		})
}

// ValidateAndSign runs the validator, which stamps the container digest
// on success.
func (t *Tool) ValidateAndSign(ctx context.Context, container []byte) ([]byte, error) {
	return t.throughFiles(ctx, "validate", container, "in.cso", "out.cso",
		func(in, out string) *exec.Cmd {
			return exec.CommandContext(ctx, t.dxv(), in, "-o", out)
		})
}

// Reflect disassembles the container and parses the resource binding
// table dxc prints ahead of the IR.
func (t *Tool) Reflect(ctx context.Context, container []byte) (*backend.Reflection, error) {
	ir, err := t.Disassemble(ctx, container)
	if err != nil {
		return nil, err
	}
	refl, err := parseReflection(ir)
	if err != nil {
		return nil, &backend.CallError{Op: "reflect", Output: string(ir), Err: err}
	}
	return refl, nil
}

// Version reports the compiler version from dxc --version.
func (t *Tool) Version(ctx context.Context) (backend.Version, error) {
	cmd := exec.CommandContext(ctx, t.dxc(), "--version")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return backend.Version{}, &backend.CallError{Op: "version", Output: string(out), Err: err}
	}
	ver, ok := parseVersion(string(out))
	if !ok {
		return backend.Version{}, &backend.CallError{Op: "version", Output: string(out)}
	}
	return ver, nil
}

// throughFiles stages input on disk, runs the tool and reads the output
// file back. Tool output goes into the CallError on failure.
func (t *Tool) throughFiles(ctx context.Context, op string, input []byte, inName, outName string,
	build func(in, out string) *exec.Cmd) ([]byte, error) {

	dir, err := os.MkdirTemp("", "rebind-"+op+"-*")
	if err != nil {
		return nil, &backend.CallError{Op: op, Err: err}
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, inName)
	out := filepath.Join(dir, outName)
	if err := os.WriteFile(in, input, 0o600); err != nil {
		return nil, &backend.CallError{Op: op, Err: err}
	}

	cmd := build(in, out)
	var sink strings.Builder
	cmd.Stdout = &sink
	cmd.Stderr = &sink
	if err := cmd.Run(); err != nil {
		return nil, &backend.CallError{Op: op, Output: strings.TrimSpace(sink.String()), Err: err}
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, &backend.CallError{Op: op, Output: strings.TrimSpace(sink.String()), Err: err}
	}
	return data, nil
}
