// Package diag defines the diagnostic model shared by every remap stage.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture
//     findings produced by the container prober, the binding-map builder,
//     the IR patch passes and the backend pipeline.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// # Scope
//
// Package diag performs no formatting, IO, or CLI integration. Rendering
// lives in internal/diagfmt; orchestration lives in internal/remap and the
// driver layer.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the source.Span pointing into the IR text (or empty for
//     findings without a text position, e.g. container probe results).
//   - Notes – optional secondary spans/messages for additional context.
//
// Fatal pass failures travel as Go errors, not as diagnostics: a Diagnostic
// records what the caller should read afterwards, an error aborts the remap.
package diag
