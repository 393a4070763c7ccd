package ports

import (
	"context"
	"errors"

	"remedia/internal/domain/lifecycle"
)

var (
	ErrCapaNotFound  = errors.New("capa not found")
	ErrIssueNotFound = errors.New("issue not found")
)

// Capa is a corrective/preventive action record, optionally linked to the
// finding it remediates.
type Capa struct {
	CapaID    string
	TenantID  string
	Title     string
	Status    lifecycle.CapaStatus
	IssueID   *string
	CreatedAt string
	UpdatedAt string
}

// CapaTask is one unit of work under a CAPA. Read-only from this engine's
// perspective; the task workflow owns its mutations.
type CapaTask struct {
	TaskID    string
	CapaID    string
	TenantID  string
	Name      string
	Status    lifecycle.TaskStatus
	CreatedAt string
	UpdatedAt string
}

// Issue is a compliance/audit finding.
type Issue struct {
	IssueID   string
	TenantID  string
	Title     string
	Status    lifecycle.IssueStatus
	CreatedAt string
	UpdatedAt string
}

// RecordsRepository is the tenant-scoped store for CAPA/Issue/task rows.
// Every lookup excludes soft-deleted rows.
type RecordsRepository interface {
	GetCapa(ctx context.Context, tenantID string, capaID string) (Capa, error)
	ListCapas(ctx context.Context, tenantID string) ([]Capa, error)
	CreateCapa(ctx context.Context, capa Capa) (Capa, error)
	SetCapaStatus(ctx context.Context, tenantID string, capaID string, status lifecycle.CapaStatus, updatedAt string) error

	GetIssue(ctx context.Context, tenantID string, issueID string) (Issue, error)
	ListIssues(ctx context.Context, tenantID string) ([]Issue, error)
	CreateIssue(ctx context.Context, issue Issue) (Issue, error)
	SetIssueStatus(ctx context.Context, tenantID string, issueID string, status lifecycle.IssueStatus, updatedAt string) error

	ListCapaTasks(ctx context.Context, tenantID string, capaID string) ([]CapaTask, error)
	CreateCapaTask(ctx context.Context, task CapaTask) (CapaTask, error)
}
