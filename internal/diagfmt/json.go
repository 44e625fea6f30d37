package diagfmt

import (
	"encoding/json"
	"io"

	"rebind/internal/diag"
	"rebind/internal/source"
)

// LocationJSON is a byte range inside one shader.
type LocationJSON struct {
	Shader    string `json:"shader,omitempty"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
}

// NoteJSON is a secondary message attached to a diagnostic.
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON is one diagnostic in machine-readable form.
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput is the root of the JSON document.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(span source.Span, shaders *source.ShaderSet) LocationJSON {
	loc := LocationJSON{StartByte: span.Start, EndByte: span.End}
	if span.Shader != 0 && shaders != nil {
		loc.Shader = shaders.Name(span.Shader)
	}
	return loc
}

// BuildDiagnosticsOutput assembles the JSON document without serializing it.
// Count always reports the full bag size even when opts.Max truncates the
// emitted list.
func BuildDiagnosticsOutput(bag *diag.Bag, shaders *source.ShaderSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}

	diagnostics := make([]DiagnosticJSON, 0, maxItems)
	for i := 0; i < maxItems; i++ {
		d := items[i]
		out := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.String(),
			Message:  d.Message,
			Location: makeLocation(d.Primary, shaders),
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				out.Notes = append(out.Notes, NoteJSON{
					Message:  n.Msg,
					Location: makeLocation(n.Span, shaders),
				})
			}
		}
		diagnostics = append(diagnostics, out)
	}

	return DiagnosticsOutput{Diagnostics: diagnostics, Count: bag.Len()}
}

// WriteJSON serializes the bag to w as indented JSON.
func WriteJSON(w io.Writer, bag *diag.Bag, shaders *source.ShaderSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(bag, shaders, opts))
}
