package diag

// Severity ranks how much a finding should worry the caller of a remap.
// The order is meaningful: Bag queries compare with >=, and strict mode
// draws its fatality line at SevWarning.
type Severity uint8

const (
	// SevInfo marks advisory findings, such as a name literal being
	// reinserted into a stripped declaration.
	SevInfo Severity = iota
	// SevWarning marks findings a remap survives on its own but that
	// become fatal under strict mode, like a kind/class mismatch.
	SevWarning
	// SevError marks findings tied to an aborted remap.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
