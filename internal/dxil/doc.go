// Package dxil rewrites resource bindings inside disassembled DXIL text.
//
// The IR arrives as one mutable byte buffer. Three passes walk it with
// local, token-level pattern matching:
//
//   - the ray-tracing declaration pass finds metadata records through their
//     debug-name literals (ray-tracing DXIL keeps them);
//   - the generic declaration pass scans for declaration-shaped records and
//     classifies them by type-name token, since optimized DXIL strips most
//     debug names;
//   - the handle pass rewrites the index operand of every handle-creation
//     call using the record ids the declaration pass discovered.
//
// Every edit replaces one numeric literal span (or inserts one name
// literal), and every position is recomputed after an edit — offsets are
// never cached across one. Scanning positions only ever move forward, so
// malformed input degenerates to "nothing found", not to a loop.
//
// The passes are deliberately paranoid: any replacement is gated on the
// freshly parsed value matching what reflection reported, and a mismatch
// aborts the whole remap. Half-patched IR is never returned to a caller.
package dxil
