package lifecycle

import "strings"

// IssueStatus is the lifecycle status of a compliance finding.
type IssueStatus string

const (
	IssueOpen       IssueStatus = "OPEN"
	IssueInProgress IssueStatus = "IN_PROGRESS"
	IssueResolved   IssueStatus = "RESOLVED"
	IssueClosed     IssueStatus = "CLOSED"
	IssueRejected   IssueStatus = "REJECTED"
)

// issueTransitions mirrors the CAPA table's asymmetry: REJECTED is fully
// terminal while CLOSED can be reopened.
var issueTransitions = map[IssueStatus][]IssueStatus{
	IssueOpen:       {IssueInProgress, IssueRejected},
	IssueInProgress: {IssueResolved, IssueOpen, IssueRejected},
	IssueResolved:   {IssueClosed, IssueInProgress},
	IssueClosed:     {IssueInProgress},
}

// IssueTransitions returns the statuses reachable from the given status in one
// step, in declared order. Unknown statuses yield an empty list.
func IssueTransitions(from IssueStatus) []IssueStatus {
	next, ok := issueTransitions[from]
	if !ok {
		return nil
	}

	out := make([]IssueStatus, len(next))
	copy(out, next)
	return out
}

// ParseIssueStatus normalizes user input to a known Issue status.
func ParseIssueStatus(raw string) (IssueStatus, bool) {
	status := IssueStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch status {
	case IssueOpen, IssueInProgress, IssueResolved, IssueClosed, IssueRejected:
		return status, true
	}
	return "", false
}
