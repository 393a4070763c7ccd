package transition

import (
	"context"
	"errors"

	"remedia/internal/ports"
)

// UpdateIssueStatus moves an Issue to the requested status under the same
// contract as UpdateCapaStatus.
func (s *Service) UpdateIssueStatus(ctx context.Context, tenantID string, issueID string, input StatusChangeInput, actingUserID string) (ports.Issue, error) {
	if ctx == nil {
		return ports.Issue{}, errors.New("context is required")
	}
	if s.records == nil {
		return ports.Issue{}, errors.New("records repository is required")
	}

	issue, err := s.records.GetIssue(ctx, tenantID, issueID)
	if err != nil {
		return ports.Issue{}, err
	}

	changed, err := s.applyStatus(ctx, s.issueKind(), tenantID, issueID, string(issue.Status), input, actingUserID, ports.SourceUser)
	if err != nil {
		return ports.Issue{}, err
	}
	if !changed {
		return issue, nil
	}

	return s.records.GetIssue(ctx, tenantID, issueID)
}
