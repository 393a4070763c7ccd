package transition

import (
	"context"
	"errors"
	"log/slog"

	"remedia/internal/bootstrap/logging"
	"remedia/internal/domain/lifecycle"
	"remedia/internal/errs"
	"remedia/internal/ports"
)

// AutoCloseReason is recorded on history rows written by the cascade path.
const AutoCloseReason = "Auto-closed: all tasks completed"

// CheckAndCascadeCapaClose closes a CAPA once every one of its tasks has
// reached a terminal status. Returns nil without error when the cascade does
// not apply: the CAPA has no tasks, some task is still in flight, or the CAPA
// is already closed. Safe to call speculatively after every task completion.
func (s *Service) CheckAndCascadeCapaClose(ctx context.Context, tenantID string, capaID string, actingUserID string) (*ports.Capa, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	if s.records == nil {
		return nil, errors.New("records repository is required")
	}

	tasks, err := s.records.ListCapaTasks(ctx, tenantID, capaID)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		// A CAPA with no tasks is never auto-closed.
		return nil, nil
	}
	for _, task := range tasks {
		if !lifecycle.IsTerminalTaskStatus(task.Status) {
			return nil, nil
		}
	}

	capa, err := s.records.GetCapa(ctx, tenantID, capaID)
	if err != nil {
		return nil, err
	}
	if capa.Status == lifecycle.CapaClosed {
		return nil, nil
	}

	updated, err := s.updateCapaStatus(ctx, tenantID, capaID, StatusChangeInput{
		Status: string(lifecycle.CapaClosed),
		Reason: AutoCloseReason,
	}, actingUserID, ports.SourceSystem)
	if err != nil {
		return nil, err
	}

	logging.Info(ctx, "capa auto-closed",
		slog.String("tenant_id", tenantID),
		slog.String("capa_id", capaID),
		slog.Int("tasks", len(tasks)),
	)
	return &updated, nil
}
