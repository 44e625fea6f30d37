package diag

import "rebind/internal/source"

// Reporter is the minimal contract for receiving diagnostics from stages.
// Implementations: BagReporter (stores into a Bag), NopReporter,
// DedupReporter (suppresses duplicates).
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// BagReporter writes into a *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes,
	})
}

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, source.Span, string, []Note) {}

// ShaderReporter stamps the owning shader onto spans that lack one before
// forwarding. Stages that know exact byte offsets build full spans
// themselves; stages that only know which shader they are working on
// (probing, map building) report empty spans and rely on this wrapper.
type ShaderReporter struct {
	Next   Reporter
	Shader source.ShaderID
}

func (r ShaderReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Next == nil {
		return
	}
	if primary.Shader == 0 {
		primary.Shader = r.Shader
	}
	for i := range notes {
		if notes[i].Span.Shader == 0 {
			notes[i].Span.Shader = r.Shader
		}
	}
	r.Next.Report(code, sev, primary, msg, notes)
}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(r Reporter, code Code, primary source.Span, msg string) {
	if r != nil {
		r.Report(code, SevError, primary, msg, nil)
	}
}

// ReportWarning is a shortcut for SevWarning diagnostics.
func ReportWarning(r Reporter, code Code, primary source.Span, msg string) {
	if r != nil {
		r.Report(code, SevWarning, primary, msg, nil)
	}
}

// ReportInfo is a shortcut for SevInfo diagnostics.
func ReportInfo(r Reporter, code Code, primary source.Span, msg string) {
	if r != nil {
		r.Report(code, SevInfo, primary, msg, nil)
	}
}
