package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Container probing
	ProbeInfo             Code = 1000
	ProbeTruncatedHeader  Code = 1001
	ProbeBadMagic         Code = 1002
	ProbeVersionMismatch  Code = 1003
	ProbeTruncatedOffsets Code = 1004
	ProbeTruncatedPart    Code = 1005
	ProbePartMissing      Code = 1006

	// Binding map construction
	MapInfo              Code = 2000
	MapUnknownResource   Code = 2001
	MapKindMismatch      Code = 2002
	MapArrayCountSkew    Code = 2003
	MapDuplicateRequest  Code = 2004
	MapUnboundedSentinel Code = 2005

	// IR patch passes
	PatchInfo              Code = 3000
	PatchFormatMismatch    Code = 3001
	PatchInvariant         Code = 3002
	PatchLookupFailure     Code = 3003
	PatchRecordConflict    Code = 3004
	PatchDynamicIndexReuse Code = 3005
	PatchNameInserted      Code = 3006
	PatchAmbiguousPrefix   Code = 3007

	// Backend tool calls
	BackendInfo        Code = 4000
	BackendUnavailable Code = 4001
	BackendDisassemble Code = 4002
	BackendAssemble    Code = 4003
	BackendValidate    Code = 4004
	BackendSign        Code = 4005
	BackendReflect     Code = 4006

	// Driver / IO
	IOLoadFileError  Code = 5001
	IOWriteFileError Code = 5002
	CacheReadError   Code = 5003
	CacheWriteError  Code = 5004
	LayoutError      Code = 5005
)

var codeDescriptions = map[Code]string{
	UnknownCode: "Unknown error",

	ProbeInfo:             "Container information",
	ProbeTruncatedHeader:  "container smaller than its fixed header",
	ProbeBadMagic:         "container magic tag mismatch",
	ProbeVersionMismatch:  "container major version mismatch",
	ProbeTruncatedOffsets: "container too small for its part offset table",
	ProbeTruncatedPart:    "container too small for a declared part header",
	ProbePartMissing:      "no part of the requested kind",

	MapInfo:              "Binding map information",
	MapUnknownResource:   "requested resource not present in reflection",
	MapKindMismatch:      "requested resource kind disagrees with reflection",
	MapArrayCountSkew:    "requested array size inconsistent with reflected count",
	MapDuplicateRequest:  "duplicate binding request for resource",
	MapUnboundedSentinel: "unexpected unbounded-array sentinel shape",

	PatchInfo:              "Patch information",
	PatchFormatMismatch:    "IR text did not match the expected record shape",
	PatchInvariant:         "freshly parsed value disagrees with reflected value",
	PatchLookupFailure:     "declaration could not be matched to any binding request",
	PatchRecordConflict:    "conflicting record IDs discovered for one resource",
	PatchDynamicIndexReuse: "dynamic index temporary referenced more than twice",
	PatchNameInserted:      "resource name literal inserted into stripped declaration",
	PatchAmbiguousPrefix:   "constant-buffer classified by name prefix only",

	BackendInfo:        "Backend information",
	BackendUnavailable: "backend tooling could not be loaded",
	BackendDisassemble: "disassembler failed",
	BackendAssemble:    "assembler failed",
	BackendValidate:    "validator rejected the reassembled container",
	BackendSign:        "signing failed",
	BackendReflect:     "reflection failed",

	IOLoadFileError:  "I/O load file error",
	IOWriteFileError: "I/O write file error",
	CacheReadError:   "remap cache read error",
	CacheWriteError:  "remap cache write error",
	LayoutError:      "binding layout manifest error",
}

// String returns the stable textual form REBIND(NNNN) used in output and
// golden files.
func (c Code) String() string {
	return fmt.Sprintf("REBIND(%04d)", uint16(c))
}

// Description returns a short human description of the code.
func (c Code) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "Unknown diagnostic code"
}
