package transition

import (
	"fmt"
	"strings"
)

// InvalidTransitionError reports a target status that is not reachable from
// the entity's current status. The message format is consumed by API clients
// for display and must not change shape.
type InvalidTransitionError struct {
	EntityType string
	Current    string
	Allowed    []string
}

func (e *InvalidTransitionError) Error() string {
	allowed := make([]string, 0, len(e.Allowed))
	for _, status := range e.Allowed {
		allowed = append(allowed, strings.ToLower(status))
	}
	return fmt.Sprintf(
		"Allowed next statuses from %s: [%s]",
		strings.ToLower(e.Current),
		strings.Join(allowed, ", "),
	)
}
