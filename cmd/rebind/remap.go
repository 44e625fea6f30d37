package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"rebind/internal/backend"
	"rebind/internal/backend/dxc"
	"rebind/internal/diag"
	"rebind/internal/diagfmt"
	"rebind/internal/driver"
	"rebind/internal/layout"
	"rebind/internal/remap"
	"rebind/internal/source"
)

var remapCmd = &cobra.Command{
	Use:   "remap [flags] [path...]",
	Short: "Remap resource bindings of compiled shaders",
	Long: "Remap rewrites the register assignments inside DXIL containers to the layout\n" +
		"declared in rebind.toml. Paths may be shader files or directories; with no\n" +
		"path the current directory is scanned.",
	RunE: remapExecution,
}

func init() {
	remapCmd.Flags().String("target", "", "override the manifest target (d3d12|vulkan)")
	remapCmd.Flags().Int("jobs", 0, "parallel workers (0 = one per CPU)")
	remapCmd.Flags().Bool("strict", false, "escalate remap warnings to errors")
	remapCmd.Flags().String("out", "", "write remapped shaders into this directory instead of in place")
	remapCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	remapCmd.Flags().String("cache-dir", "", "remap cache location")
	remapCmd.Flags().Bool("no-cache", false, "disable the remap cache")
	remapCmd.Flags().Bool("json", false, "emit diagnostics as JSON")
}

func remapExecution(cmd *cobra.Command, args []string) error {
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	targetFlag, _ := cmd.Flags().GetString("target")
	jobsFlag, _ := cmd.Flags().GetInt("jobs")
	strict, _ := cmd.Flags().GetBool("strict")
	outDir, _ := cmd.Flags().GetString("out")
	cacheDir, _ := cmd.Flags().GetString("cache-dir")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	asJSON, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Root().PersistentFlags().GetBool("no-color")
	maxDiagnostics, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")

	startDir := "."
	if len(args) > 0 {
		startDir = args[0]
		if info, err := os.Stat(startDir); err == nil && !info.IsDir() {
			startDir = filepath.Dir(startDir)
		}
	}
	manifest, found, err := layout.Load(startDir)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no %s found in %s or any parent directory", layout.ManifestName, startDir)
	}

	files, err := collectShaderFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no shader files found")
	}

	target := manifest.Target()
	switch targetFlag {
	case "":
	case "d3d12":
		target = remap.TargetDirect3D12
	case "vulkan":
		target = remap.TargetVulkan
	default:
		return fmt.Errorf("unsupported target %q (supported: d3d12, vulkan)", targetFlag)
	}
	jobs := manifest.Config.Remap.Jobs
	if jobsFlag > 0 {
		jobs = jobsFlag
	}

	var cache *driver.DiskCache
	if !noCache {
		dir := cacheDir
		if dir == "" {
			dir = manifest.Config.Remap.CacheDir
		}
		cache, err = driver.OpenDiskCache("rebind", dir)
		if err != nil {
			return err
		}
	}

	shaders := source.NewShaderSet()
	opts := driver.Options{
		Jobs:           jobs,
		Target:         target,
		Strict:         strict || manifest.Config.Remap.Strict,
		MaxDiagnostics: maxDiagnostics,
		Cache:          cache,
		Shaders:        shaders,
		NewTool: func() (backend.Tool, error) {
			return dxc.New(), nil
		},
	}

	ctx := cmd.Context()
	requests := manifest.Requests()
	var results []driver.FileResult
	if shouldUseTUI(uiModeValue) && !asJSON {
		results, err = runRemapWithUI(ctx, "remapping shaders", files, requests, opts)
	} else {
		results, err = driver.RemapFiles(ctx, files, requests, opts)
	}
	if err != nil {
		return err
	}

	failed, err := writeResults(results, outDir)
	if err != nil {
		return err
	}

	bag := diag.NewBag(maxDiagnostics)
	for _, res := range results {
		if res.Bag != nil {
			bag.Merge(res.Bag)
		}
	}
	bag.Sort()
	bag.Dedup()
	if asJSON {
		if err := diagfmt.WriteJSON(cmd.OutOrStdout(), bag, shaders, diagfmt.JSONOpts{IncludeNotes: true}); err != nil {
			return err
		}
	} else {
		diagfmt.Pretty(cmd.ErrOrStderr(), bag, shaders, diagfmt.PrettyOpts{
			Color:     !noColor && isTerminal(os.Stderr),
			ShowNotes: true,
		})
		printSummary(cmd.OutOrStdout(), results)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d shaders failed", failed, len(results))
	}
	return nil
}

// collectShaderFiles expands the positional arguments into shader files.
// Directories are walked, files are taken as given.
func collectShaderFiles(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		found, err := driver.ListShaderFiles(arg)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

// writeResults persists remapped bytecode and reports the failure count.
// Unchanged shaders are only copied when an output directory is set.
func writeResults(results []driver.FileResult, outDir string) (failed int, err error) {
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return 0, err
		}
	}
	for _, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		dest := res.Path
		if outDir != "" {
			dest = filepath.Join(outDir, filepath.Base(res.Path))
		} else if !res.Changed {
			continue
		}
		if err := os.WriteFile(dest, res.Bytecode, 0o644); err != nil {
			return failed, err
		}
	}
	return failed, nil
}

func printSummary(out io.Writer, results []driver.FileResult) {
	var changed, cached, unchanged, failed int
	for _, res := range results {
		switch {
		case res.Err != nil:
			failed++
		case res.Cached:
			cached++
		case res.Changed:
			changed++
		default:
			unchanged++
		}
	}
	fmt.Fprintf(out, "%d remapped, %d cached, %d unchanged, %d failed\n", changed, cached, unchanged, failed)
}
