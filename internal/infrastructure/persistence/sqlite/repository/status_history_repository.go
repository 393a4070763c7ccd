package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"remedia/internal/errs"
	"remedia/internal/infrastructure/persistence/sqlite/model"
	"remedia/internal/ports"
)

// StatusHistoryRepository appends and reads the audit trail. There is no
// update or delete path on purpose.
type StatusHistoryRepository struct {
	db *gorm.DB
}

var _ ports.StatusHistoryRepository = (*StatusHistoryRepository)(nil)

func NewStatusHistoryRepository(db *gorm.DB) *StatusHistoryRepository {
	return &StatusHistoryRepository{db: db}
}

func (r *StatusHistoryRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

func (r *StatusHistoryRepository) AppendStatusHistory(ctx context.Context, input ports.StatusHistoryCreate) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	row := model.StatusHistory{
		HistoryID:       uuid.NewString(),
		TenantID:        input.TenantID,
		EntityType:      input.EntityType,
		EntityID:        input.EntityID,
		PreviousStatus:  input.PreviousStatus,
		NewStatus:       input.NewStatus,
		ChangedByUserID: input.ChangedByUserID,
		ChangeReason:    input.ChangeReason,
		Source:          input.Source,
		CreatedAt:       input.CreatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert status history")
	}
	return nil
}

func (r *StatusHistoryRepository) ListStatusHistory(ctx context.Context, tenantID string, entityType string, entityID string) ([]ports.StatusHistory, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.StatusHistory
	if err := db.
		Where("tenant_id = ? AND entity_type = ? AND entity_id = ?", tenantID, entityType, entityID).
		Order("created_at desc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query status history")
	}

	items := make([]ports.StatusHistory, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.StatusHistory{
			HistoryID:       row.HistoryID,
			TenantID:        row.TenantID,
			EntityType:      row.EntityType,
			EntityID:        row.EntityID,
			PreviousStatus:  row.PreviousStatus,
			NewStatus:       row.NewStatus,
			ChangedByUserID: row.ChangedByUserID,
			ChangeReason:    row.ChangeReason,
			Source:          row.Source,
			CreatedAt:       row.CreatedAt,
		})
	}
	return items, nil
}
