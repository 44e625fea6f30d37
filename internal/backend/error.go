package backend

// CallError wraps one failed toolchain call. Output carries the tool's
// diagnostic text verbatim; for assembly and validation failures that text
// is usually the only clue to what is wrong with the IR.
type CallError struct {
	Op     string
	Output string
	Err    error
}

func (e *CallError) Error() string {
	msg := e.Op + " failed"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Output != "" {
		msg += "\n" + e.Output
	}
	return msg
}

func (e *CallError) Unwrap() error {
	return e.Err
}
