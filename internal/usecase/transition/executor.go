package transition

import (
	"context"
	"errors"
	"strings"

	"remedia/internal/domain/lifecycle"
	"remedia/internal/errs"
	"remedia/internal/ports"
)

// entityKind parametrizes the executor over the two entity kinds: the history
// type tag, the transition table and the status write. CAPA and Issue share
// the algorithm, only this capability set differs.
type entityKind struct {
	typeTag     string
	transitions func(current string) []string
	setStatus   func(ctx context.Context, tenantID string, entityID string, status string, updatedAt string) error
}

func (s *Service) capaKind() entityKind {
	return entityKind{
		typeTag: ports.EntityTypeCapa,
		transitions: func(current string) []string {
			next := lifecycle.CapaTransitions(lifecycle.CapaStatus(current))
			out := make([]string, 0, len(next))
			for _, status := range next {
				out = append(out, string(status))
			}
			return out
		},
		setStatus: func(ctx context.Context, tenantID string, entityID string, status string, updatedAt string) error {
			return s.records.SetCapaStatus(ctx, tenantID, entityID, lifecycle.CapaStatus(status), updatedAt)
		},
	}
}

func (s *Service) issueKind() entityKind {
	return entityKind{
		typeTag: ports.EntityTypeIssue,
		transitions: func(current string) []string {
			next := lifecycle.IssueTransitions(lifecycle.IssueStatus(current))
			out := make([]string, 0, len(next))
			for _, status := range next {
				out = append(out, string(status))
			}
			return out
		},
		setStatus: func(ctx context.Context, tenantID string, entityID string, status string, updatedAt string) error {
			return s.records.SetIssueStatus(ctx, tenantID, entityID, lifecycle.IssueStatus(status), updatedAt)
		},
	}
}

// applyStatus runs the shared transition algorithm against an already-loaded
// current status. Returns false without opening a transaction when the target
// equals the current status; callers rely on that idempotence to re-submit
// safely. On a real transition the status write and the history insert commit
// or roll back as one unit.
//
// Validation reads the status loaded before the transaction, so two
// concurrent callers can both pass and race to commit (last-committer-wins,
// one history row each). The engine deliberately carries that weaker
// guarantee instead of a version column.
func (s *Service) applyStatus(
	ctx context.Context,
	kind entityKind,
	tenantID string,
	entityID string,
	current string,
	input StatusChangeInput,
	actingUserID string,
	source string,
) (bool, error) {
	if ctx == nil {
		return false, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return false, errs.Wrap(err, "check context")
	}
	if s.uow == nil {
		return false, errors.New("unit of work is required")
	}
	if s.history == nil {
		return false, errors.New("status history repository is required")
	}

	target := strings.ToUpper(strings.TrimSpace(input.Status))
	if target == "" {
		return false, errors.New("target status is required")
	}

	if target == current {
		return false, nil
	}

	// System-attributed transitions are trusted: the cascade may close a CAPA
	// from any non-closed status, not only along declared edges.
	if source != ports.SourceSystem {
		allowed := kind.transitions(current)
		found := false
		for _, status := range allowed {
			if status == target {
				found = true
				break
			}
		}
		if !found {
			return false, &InvalidTransitionError{
				EntityType: kind.typeTag,
				Current:    current,
				Allowed:    allowed,
			}
		}
	}

	now := nowUTCString()
	previous := current
	var reason *string
	if trimmed := strings.TrimSpace(input.Reason); trimmed != "" {
		reason = &trimmed
	}

	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if err := kind.setStatus(txCtx, tenantID, entityID, target, now); err != nil {
			return err
		}
		return s.history.AppendStatusHistory(txCtx, ports.StatusHistoryCreate{
			TenantID:        tenantID,
			EntityType:      kind.typeTag,
			EntityID:        entityID,
			PreviousStatus:  &previous,
			NewStatus:       target,
			ChangedByUserID: actingUserID,
			ChangeReason:    reason,
			Source:          source,
			CreatedAt:       now,
		})
	}); err != nil {
		return false, err
	}

	s.setCacheBestEffort(ctx, statusCacheKey(kind.typeTag, tenantID, entityID), target)
	return true, nil
}
