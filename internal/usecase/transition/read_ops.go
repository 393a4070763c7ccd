package transition

import (
	"context"
	"errors"

	"remedia/internal/domain/lifecycle"
	"remedia/internal/ports"
)

// CapaDetail aggregates everything the console and CLI show for one CAPA:
// the record, its tasks, its audit trail (newest first) and the next statuses
// the transition table allows.
type CapaDetail struct {
	Capa        ports.Capa
	Tasks       []ports.CapaTask
	History     []ports.StatusHistory
	AllowedNext []lifecycle.CapaStatus
}

func (s *Service) ListCapas(ctx context.Context, tenantID string) ([]ports.Capa, error) {
	if s.records == nil {
		return nil, errors.New("records repository is required")
	}
	return s.records.ListCapas(ctx, tenantID)
}

func (s *Service) ListIssues(ctx context.Context, tenantID string) ([]ports.Issue, error) {
	if s.records == nil {
		return nil, errors.New("records repository is required")
	}
	return s.records.ListIssues(ctx, tenantID)
}

func (s *Service) GetCapaDetail(ctx context.Context, tenantID string, capaID string) (CapaDetail, error) {
	if s.records == nil {
		return CapaDetail{}, errors.New("records repository is required")
	}
	if s.history == nil {
		return CapaDetail{}, errors.New("status history repository is required")
	}

	capa, err := s.records.GetCapa(ctx, tenantID, capaID)
	if err != nil {
		return CapaDetail{}, err
	}

	tasks, err := s.records.ListCapaTasks(ctx, tenantID, capaID)
	if err != nil {
		return CapaDetail{}, err
	}

	history, err := s.history.ListStatusHistory(ctx, tenantID, ports.EntityTypeCapa, capaID)
	if err != nil {
		return CapaDetail{}, err
	}

	return CapaDetail{
		Capa:        capa,
		Tasks:       tasks,
		History:     history,
		AllowedNext: lifecycle.CapaTransitions(capa.Status),
	}, nil
}

// StatusHistory returns the audit trail of one entity, newest row first.
func (s *Service) StatusHistory(ctx context.Context, tenantID string, entityType string, entityID string) ([]ports.StatusHistory, error) {
	if s.history == nil {
		return nil, errors.New("status history repository is required")
	}
	return s.history.ListStatusHistory(ctx, tenantID, entityType, entityID)
}
