package source

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) into one shader's IR text.
// Offsets are only valid against the text revision they were computed from:
// any edit invalidates every span at or after the edit point.
type Span struct {
	Shader ShaderID
	Start  uint32
	End    uint32
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.Shader, s.Start, s.End)
}

// Cover widens the span to include other. Spans from different shaders do
// not combine.
func (s Span) Cover(other Span) Span {
	if s.Shader != other.Shader {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}
