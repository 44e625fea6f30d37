// Package bind holds the caller-facing binding model: resource kinds, the
// requested target layout, compiler-reported reflection entries, and the
// extended map that joins the two for the patch passes.
package bind

import "fmt"

// ResourceKind is the fine-grained resource category used by callers when
// declaring the target layout.
type ResourceKind uint8

const (
	KindConstantBuffer ResourceKind = iota
	KindTextureRead
	KindBufferRead
	KindTextureReadWrite
	KindBufferReadWrite
	KindSampler
	KindInputAttachment
	KindAccelerationStructure
)

var kindNames = [...]string{
	KindConstantBuffer:        "constant-buffer",
	KindTextureRead:           "texture-srv",
	KindBufferRead:            "buffer-srv",
	KindTextureReadWrite:      "texture-uav",
	KindBufferReadWrite:       "buffer-uav",
	KindSampler:               "sampler",
	KindInputAttachment:       "input-attachment",
	KindAccelerationStructure: "acceleration-structure",
}

func (k ResourceKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind resolves the textual kind names used in layout manifests.
func ParseKind(s string) (ResourceKind, error) {
	for k, name := range kindNames {
		if s == name {
			return ResourceKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown resource kind %q", s)
}

// BindClass is the coarse category of the native binding model. Values match
// the resource-class operand of handle-creation instructions, so a parsed
// operand converts directly.
type BindClass uint8

const (
	ClassSRV     BindClass = 0
	ClassUAV     BindClass = 1
	ClassCBV     BindClass = 2
	ClassSampler BindClass = 3
)

func (c BindClass) String() string {
	switch c {
	case ClassSRV:
		return "SRV"
	case ClassUAV:
		return "UAV"
	case ClassCBV:
		return "CBV"
	case ClassSampler:
		return "sampler"
	}
	return fmt.Sprintf("class(%d)", uint8(c))
}

// Class collapses a ResourceKind into its BindClass bucket. Input
// attachments and acceleration structures live in the SRV space.
func (k ResourceKind) Class() BindClass {
	switch k {
	case KindConstantBuffer:
		return ClassCBV
	case KindTextureRead, KindBufferRead, KindInputAttachment, KindAccelerationStructure:
		return ClassSRV
	case KindTextureReadWrite, KindBufferReadWrite:
		return ClassUAV
	case KindSampler:
		return ClassSampler
	}
	return ClassSRV
}
