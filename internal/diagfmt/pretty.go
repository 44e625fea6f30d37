// Package diagfmt renders diagnostic bags for terminals and machine
// consumers. Callers are expected to Sort (and usually Dedup) the bag
// before rendering.
package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"rebind/internal/diag"
	"rebind/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	codeColor    = color.New(color.Faint)
)

// Pretty writes one line per diagnostic:
//
//	<shader>:<start>-<end>: <SEV> <CODE>: <message>
//
// followed by indented note lines when opts.ShowNotes is set. Spans with
// no shader attached render without the location prefix.
func Pretty(w io.Writer, bag *diag.Bag, shaders *source.ShaderSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		fmt.Fprintf(w, "%s%s %s: %s\n",
			location(d.Primary, shaders),
			severityLabel(d.Severity, opts.Color),
			codeLabel(d.Code, opts.Color),
			d.Message)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "    %snote: %s\n", location(n.Span, shaders), n.Msg)
		}
	}
}

func location(span source.Span, shaders *source.ShaderSet) string {
	if span.Shader == 0 {
		return ""
	}
	name := fmt.Sprintf("shader#%d", span.Shader)
	if shaders != nil {
		name = shaders.Name(span.Shader)
	}
	return fmt.Sprintf("%s:%d-%d: ", name, span.Start, span.End)
}

func severityLabel(sev diag.Severity, colored bool) string {
	if !colored {
		return sev.String()
	}
	switch sev {
	case diag.SevError:
		return errorColor.Sprint(sev.String())
	case diag.SevWarning:
		return warningColor.Sprint(sev.String())
	default:
		return infoColor.Sprint(sev.String())
	}
}

func codeLabel(code diag.Code, colored bool) string {
	if !colored {
		return code.String()
	}
	return codeColor.Sprint(code.String())
}
