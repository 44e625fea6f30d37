package bind

import (
	"fmt"

	"rebind/internal/diag"
	"rebind/internal/source"
)

// UnknownRecord is the record-id sentinel before a declaration patch pass has
// discovered the real id.
const UnknownRecord = ^uint32(0)

// Extended joins one Request with the reflection data for the same resource,
// plus the record id discovered while patching declarations. Entries are
// keyed by request identity (their position in the request list), not by
// name, so duplicate-named requests stay distinct.
type Extended struct {
	Req Request

	// Originally compiled layout, from reflection.
	SrcSpace      uint32
	SrcRegister   uint32
	Class         BindClass
	DeclaredCount uint32

	recordID uint32
}

// RecordID returns the discovered record id, if any pass has found one.
func (e *Extended) RecordID() (uint32, bool) {
	if e.recordID == UnknownRecord {
		return 0, false
	}
	return e.recordID, true
}

// SetRecordID stores the record id discovered for this entry. Once set the
// id is immutable: two passes disagreeing about it means the declaration
// matching went wrong, which is fatal.
func (e *Extended) SetRecordID(id uint32) error {
	if e.recordID != UnknownRecord && e.recordID != id {
		return fmt.Errorf("resource %q: record id %d conflicts with previously discovered %d",
			e.Req.Name, id, e.recordID)
	}
	e.recordID = id
	return nil
}

// contains reports whether index falls into the half-open register range
// [SrcRegister, SrcRegister+count) of this entry. Runtime-sized arrays have
// no upper bound.
func (e *Extended) contains(index uint32) bool {
	if index < e.SrcRegister {
		return false
	}
	count := e.Req.Count
	if count == 0 || count == Unbounded {
		return true
	}
	return index < e.SrcRegister+count
}

// Map is the extended binding map built once per remap call.
type Map struct {
	entries []*Extended
}

// LookupError reports a request naming a resource reflection does not know
// about — a caller error that aborts the remap.
type LookupError struct {
	Name string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("resource %q not present in shader reflection", e.Name)
}

// BuildOptions tunes map construction.
type BuildOptions struct {
	Reporter diag.Reporter
	// Strict promotes kind/count consistency findings from warnings to
	// fatal errors.
	Strict bool
}

// Build cross-references the requested layout against reflection. Every
// request must resolve to a reflection entry by name; kind and array-count
// consistency findings are surfaced through the reporter (fatal under
// Strict).
func Build(requests []Request, refl []ReflectionEntry, opts BuildOptions) (*Map, error) {
	byName := make(map[string]*ReflectionEntry, len(refl))
	for i := range refl {
		byName[refl[i].Name] = &refl[i]
	}

	seen := make(map[string]bool, len(requests))
	m := &Map{entries: make([]*Extended, 0, len(requests))}
	for _, req := range requests {
		if seen[req.Name] {
			diag.ReportWarning(opts.Reporter, diag.MapDuplicateRequest, source.Span{},
				fmt.Sprintf("duplicate binding request for %q; both entries are kept", req.Name))
		}
		seen[req.Name] = true

		entry, ok := byName[req.Name]
		if !ok {
			return nil, &LookupError{Name: req.Name}
		}

		ext := &Extended{
			Req:           req,
			SrcSpace:      entry.Space,
			SrcRegister:   entry.Register,
			Class:         entry.Class,
			DeclaredCount: entry.Count,
			recordID:      UnknownRecord,
		}

		if want := req.Kind.Class(); want != entry.Class {
			msg := fmt.Sprintf("resource %q: request kind %s maps to %s but reflection reports %s",
				req.Name, req.Kind, want, entry.Class)
			if opts.Strict {
				return nil, fmt.Errorf("%s", msg)
			}
			diag.ReportWarning(opts.Reporter, diag.MapKindMismatch, source.Span{}, msg)
		}

		if err := checkCount(ext, opts); err != nil {
			return nil, err
		}

		m.entries = append(m.entries, ext)
	}
	return m, nil
}

// checkCount validates the declared count against the request, preserving
// the sentinel asymmetry: runtime-sized constant-buffer arrays reflect
// Unbounded while every other runtime-sized resource reflects 0.
func checkCount(e *Extended, opts BuildOptions) error {
	declared := e.DeclaredCount
	switch {
	case e.Class != ClassCBV && declared == 0:
		return nil
	case e.Class == ClassCBV && declared == Unbounded:
		return nil
	case e.Req.Count >= declared:
		return nil
	}
	msg := fmt.Sprintf("resource %q: requested array size %d is smaller than the reflected count %d",
		e.Req.Name, e.Req.Count, declared)
	if opts.Strict {
		return fmt.Errorf("%s", msg)
	}
	diag.ReportWarning(opts.Reporter, diag.MapArrayCountSkew, source.Span{}, msg)
	return nil
}

// Entries exposes the map contents in request order.
func (m *Map) Entries() []*Extended {
	return m.entries
}

// Len reports the number of entries.
func (m *Map) Len() int {
	return len(m.entries)
}

// ByOriginal finds the entry whose originally-reflected (space, register,
// class) triple matches. Used by the generic declaration patcher, which
// cannot rely on names. Request order breaks ties deterministically.
func (m *Map) ByOriginal(space, register uint32, class BindClass) *Extended {
	for _, e := range m.entries {
		if e.SrcSpace == space && e.SrcRegister == register && e.Class == class {
			return e
		}
	}
	return nil
}

// ResolveHandle finds the entry covering a handle-creation site: matching
// record id and class, with index inside the entry's original register
// range.
func (m *Map) ResolveHandle(recordID uint32, class BindClass, index uint32) *Extended {
	for _, e := range m.entries {
		id, ok := e.RecordID()
		if !ok || id != recordID {
			continue
		}
		if e.Class != class {
			continue
		}
		if e.contains(index) {
			return e
		}
	}
	return nil
}

// ConstantBuffers returns the CBV entries in request order, for the
// name-prefix classification fallback.
func (m *Map) ConstantBuffers() []*Extended {
	var out []*Extended
	for _, e := range m.entries {
		if e.Class == ClassCBV {
			out = append(out, e)
		}
	}
	return out
}
