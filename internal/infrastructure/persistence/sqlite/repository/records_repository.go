package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"remedia/internal/domain/lifecycle"
	"remedia/internal/errs"
	"remedia/internal/infrastructure/persistence/sqlite/model"
	"remedia/internal/ports"
)

// RecordsRepository is the gorm-backed store for CAPA/Issue/task rows. All
// lookups are tenant-scoped; gorm's DeletedAt handling keeps soft-deleted rows
// out of every query.
type RecordsRepository struct {
	db *gorm.DB
}

var _ ports.RecordsRepository = (*RecordsRepository)(nil)

func NewRecordsRepository(db *gorm.DB) *RecordsRepository {
	return &RecordsRepository{db: db}
}

func (r *RecordsRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
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

func (r *RecordsRepository) GetCapa(ctx context.Context, tenantID string, capaID string) (ports.Capa, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Capa{}, err
	}

	var row model.Capa
	if err := db.
		Where("tenant_id = ? AND capa_id = ?", tenantID, capaID).
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Capa{}, ports.ErrCapaNotFound
		}
		return ports.Capa{}, errs.Wrap(err, "query capa by id")
	}

	return mapCapa(row), nil
}

func (r *RecordsRepository) ListCapas(ctx context.Context, tenantID string) ([]ports.Capa, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Capa
	if err := db.
		Where("tenant_id = ?", tenantID).
		Order("created_at asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query capas")
	}

	items := make([]ports.Capa, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapCapa(row))
	}
	return items, nil
}

func (r *RecordsRepository) CreateCapa(ctx context.Context, capa ports.Capa) (ports.Capa, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Capa{}, err
	}

	capaID := strings.TrimSpace(capa.CapaID)
	if capaID == "" {
		capaID = uuid.NewString()
	}

	row := model.Capa{
		CapaID:    capaID,
		TenantID:  capa.TenantID,
		Title:     capa.Title,
		Status:    string(capa.Status),
		IssueID:   capa.IssueID,
		CreatedAt: capa.CreatedAt,
		UpdatedAt: capa.UpdatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.Capa{}, errs.Wrap(err, "insert capa")
	}

	return mapCapa(row), nil
}

func (r *RecordsRepository) SetCapaStatus(ctx context.Context, tenantID string, capaID string, status lifecycle.CapaStatus, updatedAt string) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	result := db.Model(&model.Capa{}).
		Where("tenant_id = ? AND capa_id = ?", tenantID, capaID).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": updatedAt,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "update capa status")
	}
	if result.RowsAffected == 0 {
		return ports.ErrCapaNotFound
	}
	return nil
}

func (r *RecordsRepository) GetIssue(ctx context.Context, tenantID string, issueID string) (ports.Issue, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Issue{}, err
	}

	var row model.Issue
	if err := db.
		Where("tenant_id = ? AND issue_id = ?", tenantID, issueID).
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Issue{}, ports.ErrIssueNotFound
		}
		return ports.Issue{}, errs.Wrap(err, "query issue by id")
	}

	return mapIssue(row), nil
}

func (r *RecordsRepository) ListIssues(ctx context.Context, tenantID string) ([]ports.Issue, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Issue
	if err := db.
		Where("tenant_id = ?", tenantID).
		Order("created_at asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query issues")
	}

	items := make([]ports.Issue, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapIssue(row))
	}
	return items, nil
}

func (r *RecordsRepository) CreateIssue(ctx context.Context, issue ports.Issue) (ports.Issue, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Issue{}, err
	}

	issueID := strings.TrimSpace(issue.IssueID)
	if issueID == "" {
		issueID = uuid.NewString()
	}

	row := model.Issue{
		IssueID:   issueID,
		TenantID:  issue.TenantID,
		Title:     issue.Title,
		Status:    string(issue.Status),
		CreatedAt: issue.CreatedAt,
		UpdatedAt: issue.UpdatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.Issue{}, errs.Wrap(err, "insert issue")
	}

	return mapIssue(row), nil
}

func (r *RecordsRepository) SetIssueStatus(ctx context.Context, tenantID string, issueID string, status lifecycle.IssueStatus, updatedAt string) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	result := db.Model(&model.Issue{}).
		Where("tenant_id = ? AND issue_id = ?", tenantID, issueID).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": updatedAt,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "update issue status")
	}
	if result.RowsAffected == 0 {
		return ports.ErrIssueNotFound
	}
	return nil
}

func (r *RecordsRepository) ListCapaTasks(ctx context.Context, tenantID string, capaID string) ([]ports.CapaTask, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.CapaTask
	if err := db.
		Where("tenant_id = ? AND capa_id = ?", tenantID, capaID).
		Order("created_at asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query capa tasks")
	}

	items := make([]ports.CapaTask, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapCapaTask(row))
	}
	return items, nil
}

func (r *RecordsRepository) CreateCapaTask(ctx context.Context, task ports.CapaTask) (ports.CapaTask, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.CapaTask{}, err
	}

	taskID := strings.TrimSpace(task.TaskID)
	if taskID == "" {
		taskID = uuid.NewString()
	}

	row := model.CapaTask{
		TaskID:    taskID,
		CapaID:    task.CapaID,
		TenantID:  task.TenantID,
		Name:      task.Name,
		Status:    string(task.Status),
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.CapaTask{}, errs.Wrap(err, "insert capa task")
	}

	return mapCapaTask(row), nil
}

func mapCapa(row model.Capa) ports.Capa {
	return ports.Capa{
		CapaID:    row.CapaID,
		TenantID:  row.TenantID,
		Title:     row.Title,
		Status:    lifecycle.CapaStatus(row.Status),
		IssueID:   row.IssueID,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func mapIssue(row model.Issue) ports.Issue {
	return ports.Issue{
		IssueID:   row.IssueID,
		TenantID:  row.TenantID,
		Title:     row.Title,
		Status:    lifecycle.IssueStatus(row.Status),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func mapCapaTask(row model.CapaTask) ports.CapaTask {
	return ports.CapaTask{
		TaskID:    row.TaskID,
		CapaID:    row.CapaID,
		TenantID:  row.TenantID,
		Name:      row.Name,
		Status:    lifecycle.TaskStatus(row.Status),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
