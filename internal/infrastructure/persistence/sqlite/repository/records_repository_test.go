package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"remedia/internal/domain/lifecycle"
	"remedia/internal/infrastructure/persistence/sqlite/model"
	"remedia/internal/ports"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "records.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(&model.Capa{}, &model.CapaTask{}, &model.Issue{}, &model.StatusHistory{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func newCapa(tenantID string, title string) ports.Capa {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return ports.Capa{
		TenantID:  tenantID,
		Title:     title,
		Status:    lifecycle.CapaPlanned,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateCapaAssignsID(t *testing.T) {
	repo := NewRecordsRepository(setupDB(t))
	ctx := context.Background()

	created, err := repo.CreateCapa(ctx, newCapa("t-acme", "fix calibration"))
	if err != nil {
		t.Fatalf("CreateCapa() error = %v", err)
	}
	if created.CapaID == "" {
		t.Fatal("CreateCapa() left CapaID empty")
	}

	loaded, err := repo.GetCapa(ctx, "t-acme", created.CapaID)
	if err != nil {
		t.Fatalf("GetCapa() error = %v", err)
	}
	if loaded.Title != "fix calibration" || loaded.Status != lifecycle.CapaPlanned {
		t.Fatalf("loaded = %+v", loaded)
	}
}

func TestGetCapaScopedToTenant(t *testing.T) {
	repo := NewRecordsRepository(setupDB(t))
	ctx := context.Background()

	created, err := repo.CreateCapa(ctx, newCapa("t-acme", "fix calibration"))
	if err != nil {
		t.Fatalf("CreateCapa() error = %v", err)
	}

	if _, err := repo.GetCapa(ctx, "t-other", created.CapaID); !errors.Is(err, ports.ErrCapaNotFound) {
		t.Fatalf("cross-tenant GetCapa() error = %v, want ErrCapaNotFound", err)
	}
}

func TestGetCapaExcludesSoftDeleted(t *testing.T) {
	db := setupDB(t)
	repo := NewRecordsRepository(db)
	ctx := context.Background()

	created, err := repo.CreateCapa(ctx, newCapa("t-acme", "fix calibration"))
	if err != nil {
		t.Fatalf("CreateCapa() error = %v", err)
	}
	if err := db.Where("capa_id = ?", created.CapaID).Delete(&model.Capa{}).Error; err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	if _, err := repo.GetCapa(ctx, "t-acme", created.CapaID); !errors.Is(err, ports.ErrCapaNotFound) {
		t.Fatalf("GetCapa() after soft delete error = %v, want ErrCapaNotFound", err)
	}
	capas, err := repo.ListCapas(ctx, "t-acme")
	if err != nil {
		t.Fatalf("ListCapas() error = %v", err)
	}
	if len(capas) != 0 {
		t.Fatalf("ListCapas() after soft delete = %d rows, want 0", len(capas))
	}
}

func TestSetCapaStatusMissingRow(t *testing.T) {
	repo := NewRecordsRepository(setupDB(t))
	ctx := context.Background()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	err := repo.SetCapaStatus(ctx, "t-acme", "missing", lifecycle.CapaInProgress, now)
	if !errors.Is(err, ports.ErrCapaNotFound) {
		t.Fatalf("SetCapaStatus() error = %v, want ErrCapaNotFound", err)
	}
}

func TestSetIssueStatusUpdatesRow(t *testing.T) {
	repo := NewRecordsRepository(setupDB(t))
	ctx := context.Background()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	created, err := repo.CreateIssue(ctx, ports.Issue{
		TenantID:  "t-acme",
		Title:     "finding",
		Status:    lifecycle.IssueOpen,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateIssue() error = %v", err)
	}

	later := time.Now().UTC().Format(time.RFC3339Nano)
	if err := repo.SetIssueStatus(ctx, "t-acme", created.IssueID, lifecycle.IssueInProgress, later); err != nil {
		t.Fatalf("SetIssueStatus() error = %v", err)
	}

	loaded, err := repo.GetIssue(ctx, "t-acme", created.IssueID)
	if err != nil {
		t.Fatalf("GetIssue() error = %v", err)
	}
	if loaded.Status != lifecycle.IssueInProgress {
		t.Fatalf("status = %s, want %s", loaded.Status, lifecycle.IssueInProgress)
	}
	if loaded.UpdatedAt != later {
		t.Fatalf("updated_at = %s, want %s", loaded.UpdatedAt, later)
	}
}

func TestListCapaTasksScopedToCapa(t *testing.T) {
	repo := NewRecordsRepository(setupDB(t))
	ctx := context.Background()

	first, err := repo.CreateCapa(ctx, newCapa("t-acme", "first"))
	if err != nil {
		t.Fatalf("CreateCapa() error = %v", err)
	}
	second, err := repo.CreateCapa(ctx, newCapa("t-acme", "second"))
	if err != nil {
		t.Fatalf("CreateCapa() error = %v", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, capaID := range []string{first.CapaID, first.CapaID, second.CapaID} {
		if _, err := repo.CreateCapaTask(ctx, ports.CapaTask{
			CapaID:    capaID,
			TenantID:  "t-acme",
			Name:      "task",
			Status:    lifecycle.TaskPending,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			t.Fatalf("CreateCapaTask() error = %v", err)
		}
	}

	tasks, err := repo.ListCapaTasks(ctx, "t-acme", first.CapaID)
	if err != nil {
		t.Fatalf("ListCapaTasks() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(tasks))
	}
}
