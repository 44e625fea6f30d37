package remap

import (
	"errors"
	"fmt"

	"rebind/internal/backend"
	"rebind/internal/bind"
	"rebind/internal/dxil"
)

// FailureKind classifies why a remap was aborted. The caller keeps the
// original bytecode in every case; the kind tells it whose fault that was.
type FailureKind uint8

const (
	// FailureUnknown is an unclassified error.
	FailureUnknown FailureKind = iota
	// FailureFormatMismatch means the input was not a patchable container
	// or its IR text did not have the expected shape.
	FailureFormatMismatch
	// FailureInvariantViolation means parsed values disagreed with
	// reflection; editing would have corrupted the shader.
	FailureInvariantViolation
	// FailureLookupFailure means a resource could not be matched between
	// the request list, reflection and the IR.
	FailureLookupFailure
	// FailureBackend means an external toolchain call failed.
	FailureBackend
)

func (k FailureKind) String() string {
	switch k {
	case FailureFormatMismatch:
		return "format mismatch"
	case FailureInvariantViolation:
		return "invariant violation"
	case FailureLookupFailure:
		return "lookup failure"
	case FailureBackend:
		return "backend failure"
	}
	return "unknown failure"
}

// Classify maps an error returned by Run onto the failure taxonomy.
func Classify(err error) FailureKind {
	var patchErr *dxil.PatchError
	if errors.As(err, &patchErr) {
		switch patchErr.Kind {
		case dxil.FormatMismatch:
			return FailureFormatMismatch
		case dxil.InvariantViolation:
			return FailureInvariantViolation
		case dxil.LookupFailure:
			return FailureLookupFailure
		}
	}
	var lookupErr *bind.LookupError
	if errors.As(err, &lookupErr) {
		return FailureLookupFailure
	}
	var callErr *backend.CallError
	if errors.As(err, &callErr) {
		return FailureBackend
	}
	var fe *formatError
	if errors.As(err, &fe) {
		return FailureFormatMismatch
	}
	return FailureUnknown
}

// formatError flags input that is not a patchable DXIL container.
type formatError struct {
	detail string
}

func (e *formatError) Error() string {
	return fmt.Sprintf("format mismatch: %s", e.detail)
}
