package lifecycle

import "strings"

// CapaStatus is the lifecycle status of a CAPA record.
type CapaStatus string

const (
	CapaPlanned     CapaStatus = "PLANNED"
	CapaInProgress  CapaStatus = "IN_PROGRESS"
	CapaImplemented CapaStatus = "IMPLEMENTED"
	CapaVerified    CapaStatus = "VERIFIED"
	CapaClosed      CapaStatus = "CLOSED"
	CapaRejected    CapaStatus = "REJECTED"
)

// capaTransitions is the fixed CAPA closure loop. Slice order is the declared
// order and is surfaced verbatim in validation messages.
// REJECTED has no outgoing edges; CLOSED keeps a single reopen edge.
var capaTransitions = map[CapaStatus][]CapaStatus{
	CapaPlanned:     {CapaInProgress, CapaRejected},
	CapaInProgress:  {CapaImplemented, CapaPlanned, CapaRejected},
	CapaImplemented: {CapaVerified, CapaInProgress},
	CapaVerified:    {CapaClosed, CapaImplemented},
	CapaClosed:      {CapaInProgress},
}

// CapaTransitions returns the statuses reachable from the given status in one
// step, in declared order. Unknown statuses yield an empty list, never an error.
func CapaTransitions(from CapaStatus) []CapaStatus {
	next, ok := capaTransitions[from]
	if !ok {
		return nil
	}

	out := make([]CapaStatus, len(next))
	copy(out, next)
	return out
}

// ParseCapaStatus normalizes user input to a known CAPA status.
func ParseCapaStatus(raw string) (CapaStatus, bool) {
	status := CapaStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch status {
	case CapaPlanned, CapaInProgress, CapaImplemented, CapaVerified, CapaClosed, CapaRejected:
		return status, true
	}
	return "", false
}
