package transition

import (
	"context"
	"errors"

	"remedia/internal/ports"
)

// UpdateCapaStatus moves a CAPA to the requested status. Loading the record
// fails with ports.ErrCapaNotFound for unknown or soft-deleted rows; a target
// equal to the current status returns the record untouched with no history
// row; an unreachable target fails with InvalidTransitionError.
func (s *Service) UpdateCapaStatus(ctx context.Context, tenantID string, capaID string, input StatusChangeInput, actingUserID string) (ports.Capa, error) {
	return s.updateCapaStatus(ctx, tenantID, capaID, input, actingUserID, ports.SourceUser)
}

func (s *Service) updateCapaStatus(ctx context.Context, tenantID string, capaID string, input StatusChangeInput, actingUserID string, source string) (ports.Capa, error) {
	if ctx == nil {
		return ports.Capa{}, errors.New("context is required")
	}
	if s.records == nil {
		return ports.Capa{}, errors.New("records repository is required")
	}

	capa, err := s.records.GetCapa(ctx, tenantID, capaID)
	if err != nil {
		return ports.Capa{}, err
	}

	changed, err := s.applyStatus(ctx, s.capaKind(), tenantID, capaID, string(capa.Status), input, actingUserID, source)
	if err != nil {
		return ports.Capa{}, err
	}
	if !changed {
		return capa, nil
	}

	return s.records.GetCapa(ctx, tenantID, capaID)
}
