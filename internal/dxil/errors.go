package dxil

import "fmt"

// ErrorKind classifies why a patch pass gave up.
type ErrorKind uint8

const (
	// FormatMismatch means the IR text did not have the expected shape
	// around a record the pass had already committed to patching.
	FormatMismatch ErrorKind = iota
	// InvariantViolation means the text parsed but its values disagree
	// with what reflection reported, so an edit would corrupt the shader.
	InvariantViolation
	// LookupFailure means a well-formed declaration or handle site
	// resolved to no entry in the binding map.
	LookupFailure
)

func (k ErrorKind) String() string {
	switch k {
	case FormatMismatch:
		return "format mismatch"
	case InvariantViolation:
		return "invariant violation"
	case LookupFailure:
		return "lookup failure"
	}
	return fmt.Sprintf("error kind(%d)", uint8(k))
}

// PatchError aborts a patch pass. Resource and Field narrow the failure
// down to the record being edited when they are known.
type PatchError struct {
	Kind     ErrorKind
	Resource string
	Field    string
	Detail   string
}

func (e *PatchError) Error() string {
	switch {
	case e.Resource != "" && e.Field != "":
		return fmt.Sprintf("%s for resource %q (%s): %s", e.Kind, e.Resource, e.Field, e.Detail)
	case e.Resource != "":
		return fmt.Sprintf("%s for resource %q: %s", e.Kind, e.Resource, e.Detail)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
}

func formatErr(resource, field, format string, args ...any) *PatchError {
	return &PatchError{Kind: FormatMismatch, Resource: resource, Field: field, Detail: fmt.Sprintf(format, args...)}
}

func invariantErr(resource, field, format string, args ...any) *PatchError {
	return &PatchError{Kind: InvariantViolation, Resource: resource, Field: field, Detail: fmt.Sprintf(format, args...)}
}

func lookupErr(format string, args ...any) *PatchError {
	return &PatchError{Kind: LookupFailure, Detail: fmt.Sprintf(format, args...)}
}
