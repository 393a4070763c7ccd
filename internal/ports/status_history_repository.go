package ports

import "context"

// Entity type tags recorded on history rows.
const (
	EntityTypeCapa  = "CAPA"
	EntityTypeIssue = "ISSUE"
)

// Provenance of a status change.
const (
	SourceUser   = "USER"
	SourceSystem = "SYSTEM"
)

// StatusHistory is one immutable audit record of a status transition.
// PreviousStatus is nil only when the entity had no prior recorded status.
type StatusHistory struct {
	HistoryID       string
	TenantID        string
	EntityType      string
	EntityID        string
	PreviousStatus  *string
	NewStatus       string
	ChangedByUserID string
	ChangeReason    *string
	Source          string
	CreatedAt       string
}

// StatusHistoryCreate is the append payload; the adapter assigns the row id.
type StatusHistoryCreate struct {
	TenantID        string
	EntityType      string
	EntityID        string
	PreviousStatus  *string
	NewStatus       string
	ChangedByUserID string
	ChangeReason    *string
	Source          string
	CreatedAt       string
}

// StatusHistoryRepository is the append-only audit trail store. Rows are never
// updated or deleted.
type StatusHistoryRepository interface {
	AppendStatusHistory(ctx context.Context, input StatusHistoryCreate) error
	ListStatusHistory(ctx context.Context, tenantID string, entityType string, entityID string) ([]StatusHistory, error)
}
