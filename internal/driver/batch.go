// Package driver runs the remap pipeline over many bytecode files at
// once: a bounded worker pool with one toolchain session per worker and a
// disk cache keyed by the exact remap inputs.
package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"rebind/internal/backend"
	"rebind/internal/bind"
	"rebind/internal/diag"
	"rebind/internal/pipeline"
	"rebind/internal/remap"
	"rebind/internal/source"
)

// shaderExts are the bytecode files a directory walk picks up.
var shaderExts = []string{".cso", ".dxil"}

// defaultMaxDiagnostics bounds the per-file diagnostic bag.
const defaultMaxDiagnostics = 100

// Options configures a batch remap.
type Options struct {
	Jobs           int
	Target         remap.Target
	Strict         bool
	MaxDiagnostics int
	Cache          *DiskCache
	Sink           pipeline.ProgressSink

	// Shaders, when set, receives one entry per input file so the
	// diagnostics in the returned bags resolve back to file paths.
	// Populated before any worker starts; workers only read it.
	Shaders *source.ShaderSet

	// NewTool creates one toolchain instance per worker. Instances are
	// not safe for concurrent use, so they are never shared.
	NewTool func() (backend.Tool, error)
}

// FileResult is the outcome for one bytecode file. Err is per-file: one
// broken shader does not abort the rest of the batch.
type FileResult struct {
	Path     string
	Bytecode []byte
	Changed  bool
	Cached   bool
	Stage    bind.Stage
	Bag      *diag.Bag
	Err      error
}

// ListShaderFiles returns the sorted bytecode files under dir.
func ListShaderFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		for _, want := range shaderExts {
			if ext == want {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Deterministic order regardless of filesystem iteration.
	sort.Strings(files)
	return files, nil
}

// RemapDir remaps every bytecode file under dir.
func RemapDir(ctx context.Context, dir string, requests []bind.Request, opts Options) ([]FileResult, error) {
	files, err := ListShaderFiles(dir)
	if err != nil {
		return nil, err
	}
	return RemapFiles(ctx, files, requests, opts)
}

// RemapFiles remaps the given bytecode files in parallel. The returned
// slice is index-aligned with files.
func RemapFiles(ctx context.Context, files []string, requests []bind.Request, opts Options) ([]FileResult, error) {
	if opts.NewTool == nil {
		return nil, fmt.Errorf("driver: Options.NewTool is required")
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	maxDiag := opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = defaultMaxDiagnostics
	}

	results := make([]FileResult, len(files))
	if len(files) == 0 {
		return results, nil
	}

	shaders := opts.Shaders
	if shaders == nil {
		shaders = source.NewShaderSet()
	}
	for _, path := range files {
		shaders.Add(path, nil)
	}

	// Idle sessions are recycled between files so each worker pays the
	// toolchain load cost once.
	sessions := make(chan *backend.Session, jobs)
	acquire := func() (*backend.Session, error) {
		select {
		case s := <-sessions:
			return s, nil
		default:
			tool, err := opts.NewTool()
			if err != nil {
				return nil, err
			}
			return backend.NewSession(tool), nil
		}
	}
	release := func(s *backend.Session) {
		select {
		case sessions <- s:
		default:
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			// Results are index-unique per goroutine, no mutex needed.
			results[i] = remapOne(gctx, path, requests, opts, shaders, maxDiag, acquire, release)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func remapOne(ctx context.Context, path string, requests []bind.Request, opts Options, shaders *source.ShaderSet, maxDiag int,
	acquire func() (*backend.Session, error), release func(*backend.Session)) FileResult {

	name := filepath.Base(path)
	shaderID, _ := shaders.Lookup(path)
	fileSpan := source.Span{Shader: shaderID}
	bag := diag.NewBag(maxDiag)
	res := FileResult{Path: path, Bag: bag}

	emit := func(status pipeline.Status, err error) {
		if opts.Sink != nil {
			opts.Sink.OnEvent(pipeline.Event{Shader: name, Status: status, Err: err})
		}
	}
	emit(pipeline.StatusWorking, nil)

	data, err := os.ReadFile(path)
	if err != nil {
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.IOLoadFileError,
			Message:  "failed to load file: " + err.Error(),
			Primary:  fileSpan,
		})
		res.Err = err
		emit(pipeline.StatusError, err)
		return res
	}

	session, err := acquire()
	if err != nil {
		res.Err = err
		emit(pipeline.StatusError, err)
		return res
	}
	defer release(session)

	ver, err := session.Version(ctx)
	if err != nil {
		res.Err = err
		emit(pipeline.StatusError, err)
		return res
	}

	key := CacheKey(data, requests, opts.Target, ver.String())
	var payload DiskPayload
	if hit, err := opts.Cache.Get(key, &payload); err != nil {
		bag.Add(diag.Diagnostic{
			Severity: diag.SevWarning,
			Code:     diag.CacheReadError,
			Message:  "cache read failed: " + err.Error(),
			Primary:  fileSpan,
		})
	} else if hit {
		res.Bytecode = payload.Bytecode
		res.Changed = payload.Changed
		res.Stage = payload.StageOf()
		res.Cached = true
		emit(pipeline.StatusCached, nil)
		return res
	}

	out, err := remap.Run(ctx, session.Tool(), data, requests, remap.Options{
		Target:   opts.Target,
		Reporter: diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
		Strict:   opts.Strict,
		Sink:     opts.Sink,
		Shader:   shaderID,
		Name:     name,
	})
	if err != nil {
		res.Err = err
		emit(pipeline.StatusError, err)
		return res
	}

	res.Bytecode = out.Bytecode
	res.Changed = out.Changed
	res.Stage = out.Stage

	if err := opts.Cache.Put(key, &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		ToolVersion: ver.String(),
		Target:      string(opts.Target),
		Bytecode:    out.Bytecode,
		Changed:     out.Changed,
		Stage:       uint8(out.Stage),
	}); err != nil {
		bag.Add(diag.Diagnostic{
			Severity: diag.SevWarning,
			Code:     diag.CacheWriteError,
			Message:  "cache write failed: " + err.Error(),
			Primary:  fileSpan,
		})
	}

	emit(pipeline.StatusDone, nil)
	return res
}
