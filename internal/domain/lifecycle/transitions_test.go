package lifecycle

import (
	"testing"
)

func TestCapaTransitionsDeclaredOrder(t *testing.T) {
	cases := []struct {
		from CapaStatus
		want []CapaStatus
	}{
		{CapaPlanned, []CapaStatus{CapaInProgress, CapaRejected}},
		{CapaInProgress, []CapaStatus{CapaImplemented, CapaPlanned, CapaRejected}},
		{CapaImplemented, []CapaStatus{CapaVerified, CapaInProgress}},
		{CapaVerified, []CapaStatus{CapaClosed, CapaImplemented}},
		{CapaClosed, []CapaStatus{CapaInProgress}},
	}

	for _, tc := range cases {
		got := CapaTransitions(tc.from)
		if len(got) != len(tc.want) {
			t.Fatalf("CapaTransitions(%s) = %v, want %v", tc.from, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("CapaTransitions(%s)[%d] = %s, want %s", tc.from, i, got[i], tc.want[i])
			}
		}
	}
}

func TestCapaRejectedIsTerminal(t *testing.T) {
	if got := CapaTransitions(CapaRejected); len(got) != 0 {
		t.Fatalf("CapaTransitions(REJECTED) = %v, want empty", got)
	}
}

func TestCapaTransitionsUnknownStatus(t *testing.T) {
	if got := CapaTransitions(CapaStatus("ARCHIVED")); len(got) != 0 {
		t.Fatalf("CapaTransitions(unknown) = %v, want empty", got)
	}
}

func TestCapaTransitionsReturnsCopy(t *testing.T) {
	first := CapaTransitions(CapaPlanned)
	first[0] = CapaClosed

	second := CapaTransitions(CapaPlanned)
	if second[0] != CapaInProgress {
		t.Fatalf("CapaTransitions table mutated through returned slice: %v", second)
	}
}

func TestIssueTransitionsDeclaredOrder(t *testing.T) {
	cases := []struct {
		from IssueStatus
		want []IssueStatus
	}{
		{IssueOpen, []IssueStatus{IssueInProgress, IssueRejected}},
		{IssueInProgress, []IssueStatus{IssueResolved, IssueOpen, IssueRejected}},
		{IssueResolved, []IssueStatus{IssueClosed, IssueInProgress}},
		{IssueClosed, []IssueStatus{IssueInProgress}},
	}

	for _, tc := range cases {
		got := IssueTransitions(tc.from)
		if len(got) != len(tc.want) {
			t.Fatalf("IssueTransitions(%s) = %v, want %v", tc.from, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("IssueTransitions(%s)[%d] = %s, want %s", tc.from, i, got[i], tc.want[i])
			}
		}
	}
}

func TestIssueRejectedIsTerminal(t *testing.T) {
	if got := IssueTransitions(IssueRejected); len(got) != 0 {
		t.Fatalf("IssueTransitions(REJECTED) = %v, want empty", got)
	}
}

func TestIsTerminalTaskStatus(t *testing.T) {
	cases := []struct {
		status TaskStatus
		want   bool
	}{
		{TaskPending, false},
		{TaskInProgress, false},
		{TaskCompleted, true},
		{TaskCancelled, true},
	}

	for _, tc := range cases {
		if got := IsTerminalTaskStatus(tc.status); got != tc.want {
			t.Fatalf("IsTerminalTaskStatus(%s) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestParseCapaStatus(t *testing.T) {
	if status, ok := ParseCapaStatus(" in_progress "); !ok || status != CapaInProgress {
		t.Fatalf("ParseCapaStatus() = %s, %v", status, ok)
	}
	if _, ok := ParseCapaStatus("bogus"); ok {
		t.Fatal("ParseCapaStatus(bogus) should fail")
	}
}

func TestParseIssueStatus(t *testing.T) {
	if status, ok := ParseIssueStatus("resolved"); !ok || status != IssueResolved {
		t.Fatalf("ParseIssueStatus() = %s, %v", status, ok)
	}
	if _, ok := ParseIssueStatus(""); ok {
		t.Fatal("ParseIssueStatus(empty) should fail")
	}
}
