// Package remap drives the whole binding-remap pipeline for one shader:
// probe the container, disassemble it, reflect its resource interface,
// join that with the requested layout, patch the IR text and reassemble,
// validate and sign the result.
//
// The pipeline is all-or-nothing. Any failure aborts before a byte of the
// output is produced, so the caller always holds either the fully patched
// container or the untouched original.
package remap

import (
	"bytes"
	"context"
	"time"

	"rebind/internal/backend"
	"rebind/internal/bind"
	"rebind/internal/container"
	"rebind/internal/diag"
	"rebind/internal/dxil"
	"rebind/internal/pipeline"
	"rebind/internal/source"
)

// Target selects the API the patched shader is destined for.
type Target string

const (
	// TargetDirect3D12 requires the container to be validated and signed.
	TargetDirect3D12 Target = "d3d12"
	// TargetVulkan consumes unsigned DXIL, so signing is skipped.
	TargetVulkan Target = "vulkan"
)

// Options tunes one remap run.
type Options struct {
	Target   Target
	Reporter diag.Reporter
	Sink     pipeline.ProgressSink
	Strict   bool

	// Shader and Name identify the shader in diagnostics and events.
	Shader source.ShaderID
	Name   string
}

// Result is a successful remap.
type Result struct {
	// Bytecode is the patched, reassembled and (for D3D12) signed
	// container. When nothing needed patching it aliases the input.
	Bytecode []byte
	// Changed reports whether the IR text was edited at all.
	Changed bool
	// Stage is the shader stage reflection reported.
	Stage bind.Stage
	// Timings holds per-stage durations.
	Timings pipeline.Timings
}

// Run remaps the resource bindings of one DXIL container.
func Run(ctx context.Context, tool backend.Tool, bytecode []byte, requests []bind.Request, opts Options) (*Result, error) {
	// Stages that report offset-free spans still get attributed to the
	// shader being remapped.
	reporter := diag.ShaderReporter{Next: opts.Reporter, Shader: opts.Shader}
	r := runner{tool: tool, opts: opts, reporter: reporter}
	return r.run(ctx, bytecode, requests)
}

type runner struct {
	tool     backend.Tool
	opts     Options
	reporter diag.Reporter
	timings  pipeline.Timings
}

func (r *runner) run(ctx context.Context, bytecode []byte, requests []bind.Request) (*Result, error) {
	if err := r.step(pipeline.StageProbe, func() error {
		if !container.ProbeDXIL(bytecode, r.reporter) {
			return &formatError{detail: "input is not a DXIL container"}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	var ir []byte
	if err := r.step(pipeline.StageDisassemble, func() (err error) {
		ir, err = r.tool.Disassemble(ctx, bytecode)
		return err
	}); err != nil {
		return nil, err
	}

	var refl *backend.Reflection
	if err := r.step(pipeline.StageReflect, func() (err error) {
		refl, err = r.tool.Reflect(ctx, bytecode)
		return err
	}); err != nil {
		return nil, err
	}

	var patched *dxil.Buffer
	if err := r.step(pipeline.StagePatch, func() error {
		m, err := bind.Build(requests, refl.Entries, bind.BuildOptions{
			Reporter: r.reporter,
			Strict:   r.opts.Strict,
		})
		if err != nil {
			return err
		}
		patched = dxil.NewBuffer(bytes.Clone(ir))
		return dxil.Patch(patched, m, refl.Stage, dxil.Options{
			Reporter: r.reporter,
			Shader:   r.opts.Shader,
		})
	}); err != nil {
		return nil, err
	}

	if bytes.Equal(patched.Bytes(), ir) {
		// Nothing changed, so the original container is already correct
		// and still carries a valid signature.
		return &Result{Bytecode: bytecode, Changed: false, Stage: refl.Stage, Timings: r.timings}, nil
	}

	var out []byte
	if err := r.step(pipeline.StageAssemble, func() (err error) {
		out, err = r.tool.Assemble(ctx, patched.Bytes())
		return err
	}); err != nil {
		return nil, err
	}

	if r.opts.Target != TargetVulkan {
		if err := r.step(pipeline.StageSign, func() (err error) {
			out, err = r.tool.ValidateAndSign(ctx, out)
			return err
		}); err != nil {
			return nil, err
		}
	}

	return &Result{Bytecode: out, Changed: true, Stage: refl.Stage, Timings: r.timings}, nil
}

// step times one stage and reports it to the progress sink.
func (r *runner) step(stage pipeline.Stage, fn func() error) error {
	r.emit(pipeline.Event{Shader: r.opts.Name, Stage: stage, Status: pipeline.StatusWorking})
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	r.timings.Set(stage, elapsed)

	evt := pipeline.Event{Shader: r.opts.Name, Stage: stage, Status: pipeline.StatusDone, Elapsed: elapsed}
	if err != nil {
		evt.Status = pipeline.StatusError
		evt.Err = err
	}
	r.emit(evt)
	return err
}

func (r *runner) emit(evt pipeline.Event) {
	if r.opts.Sink != nil {
		r.opts.Sink.OnEvent(evt)
	}
}
