package dxc

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"rebind/internal/backend"
	"rebind/internal/bind"
)

const bindingTableHeader = "; Resource Bindings:"

// parseReflection recovers the resource interface from the comment table
// and the shader model metadata dxc emits in its disassembly.
func parseReflection(ir []byte) (*backend.Reflection, error) {
	refl := &backend.Reflection{Stage: parseStage(ir)}

	sc := bufio.NewScanner(bytes.NewReader(ir))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	inTable := false
	sawRule := false
	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == bindingTableHeader:
			inTable = true
			continue
		case !inTable:
			continue
		case !strings.HasPrefix(line, ";"):
			return refl, nil // table ends with the comment block
		}

		body := strings.TrimSpace(strings.TrimPrefix(line, ";"))
		if body == "" || strings.HasPrefix(body, "Name ") {
			continue
		}
		if strings.HasPrefix(body, "---") {
			sawRule = true
			continue
		}
		if !sawRule {
			continue
		}
		entry, err := parseBindingRow(body)
		if err != nil {
			return nil, err
		}
		refl.Entries = append(refl.Entries, entry)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return refl, nil
}

// parseBindingRow reads one table row:
//
//	g_Textures                        texture     f32          2d      T1     t4,space2     4
func parseBindingRow(body string) (bind.ReflectionEntry, error) {
	fields := strings.Fields(body)
	if len(fields) != 7 {
		return bind.ReflectionEntry{}, fmt.Errorf("binding row %q: want 7 columns, got %d", body, len(fields))
	}
	name, id, hlslBind, count := fields[0], fields[4], fields[5], fields[6]

	class, err := classOfID(id)
	if err != nil {
		return bind.ReflectionEntry{}, fmt.Errorf("binding row %q: %w", body, err)
	}
	register, space, err := parseHLSLBind(hlslBind)
	if err != nil {
		return bind.ReflectionEntry{}, fmt.Errorf("binding row %q: %w", body, err)
	}

	entry := bind.ReflectionEntry{
		Name:     name,
		Space:    space,
		Register: register,
		Class:    class,
	}
	if count == "unbounded" {
		// Runtime arrays report Unbounded only for constant buffers.
		if class == bind.ClassCBV {
			entry.Count = bind.Unbounded
		}
		return entry, nil
	}
	n, err := strconv.ParseUint(count, 10, 32)
	if err != nil {
		return bind.ReflectionEntry{}, fmt.Errorf("binding row %q: bad count: %w", body, err)
	}
	entry.Count = uint32(n)
	return entry, nil
}

func classOfID(id string) (bind.BindClass, error) {
	switch {
	case strings.HasPrefix(id, "CB"):
		return bind.ClassCBV, nil
	case strings.HasPrefix(id, "T"):
		return bind.ClassSRV, nil
	case strings.HasPrefix(id, "U"):
		return bind.ClassUAV, nil
	case strings.HasPrefix(id, "S"):
		return bind.ClassSampler, nil
	}
	return 0, fmt.Errorf("unrecognized ID column %q", id)
}

// parseHLSLBind reads the bind column, "t4" or "t4,space2".
func parseHLSLBind(s string) (register, space uint32, err error) {
	slot, spacePart, hasSpace := strings.Cut(s, ",")
	digits := strings.TrimLeft(slot, "cbtus")
	reg, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("bad HLSL bind %q", s)
	}
	if hasSpace {
		n, err := strconv.ParseUint(strings.TrimPrefix(spacePart, "space"), 10, 32)
		if err != nil {
			return 0, 0, fmt.Errorf("bad HLSL bind %q", s)
		}
		space = uint32(n)
	}
	return uint32(reg), space, nil
}

var stageAbbrevs = map[string]bind.Stage{
	"ps":  bind.StagePixel,
	"vs":  bind.StageVertex,
	"gs":  bind.StageGeometry,
	"hs":  bind.StageHull,
	"ds":  bind.StageDomain,
	"cs":  bind.StageCompute,
	"ms":  bind.StageMesh,
	"as":  bind.StageAmplification,
	// Library targets carry the ray tracing entry points.
	"lib": bind.StageRayGeneration,
}

// parseStage resolves the !dx.shaderModel metadata node and reads its
// stage abbreviation.
func parseStage(ir []byte) bind.Stage {
	const declTok = "!dx.shaderModel = !{"
	p := bytes.Index(ir, []byte(declTok))
	if p < 0 {
		return bind.StageUnknown
	}
	rest := ir[p+len(declTok):]
	end := bytes.IndexByte(rest, '}')
	if end < 0 {
		return bind.StageUnknown
	}
	node := strings.TrimSpace(string(rest[:end])) // "!3"

	defTok := []byte("\n" + node + " = !{!\"")
	q := bytes.Index(ir, defTok)
	if q < 0 {
		return bind.StageUnknown
	}
	abbrev := ir[q+len(defTok):]
	quote := bytes.IndexByte(abbrev, '"')
	if quote < 0 {
		return bind.StageUnknown
	}
	return stageAbbrevs[string(abbrev[:quote])]
}

// parseVersion finds the first major.minor pair in dxc --version output.
func parseVersion(out string) (backend.Version, bool) {
	for _, field := range strings.Fields(out) {
		major, rest, ok := strings.Cut(field, ".")
		if !ok {
			continue
		}
		minor, _, _ := strings.Cut(rest, ".")
		ma, err := strconv.ParseUint(major, 10, 32)
		if err != nil {
			continue
		}
		mi, err := strconv.ParseUint(strings.TrimRight(minor, ";,)"), 10, 32)
		if err != nil {
			continue
		}
		return backend.Version{Major: uint32(ma), Minor: uint32(mi)}, true
	}
	return backend.Version{}, false
}
