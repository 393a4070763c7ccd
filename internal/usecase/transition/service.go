package transition

import (
	"context"
	"strings"
	"time"

	"remedia/internal/bootstrap/logging"
	"remedia/internal/ports"
)

// Service is the status-transition engine for CAPA and Issue records. Every
// status mutation in the system goes through it; nothing else writes to the
// status columns or the history table.
type Service struct {
	records ports.RecordsRepository
	history ports.StatusHistoryRepository
	uow     ports.UnitOfWork
	cache   ports.Cache
}

// NewService wires the transition engine with its stores. cache is optional.
func NewService(records ports.RecordsRepository, history ports.StatusHistoryRepository, uow ports.UnitOfWork, cache ports.Cache) *Service {
	return &Service{
		records: records,
		history: history,
		uow:     uow,
		cache:   cache,
	}
}

// StatusChangeInput carries the requested target status and an optional
// free-text reason.
type StatusChangeInput struct {
	Status string
	Reason string
}

func nowUTCString() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func statusCacheKey(entityType string, tenantID string, entityID string) string {
	return "status:" + strings.ToLower(entityType) + ":" + tenantID + ":" + entityID
}

// setCacheBestEffort publishes a value without failing the operation; the
// cache is advisory and a miss only costs readers a table lookup.
func (s *Service) setCacheBestEffort(ctx context.Context, key string, value string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, 0); err != nil {
		logging.Warn(ctx, "status cache update failed")
	}
}
