package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"remedia/internal/domain/lifecycle"
	"remedia/internal/infrastructure/persistence/sqlite/model"
	"remedia/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "remedia/internal/infrastructure/persistence/sqlite/uow"
)

const sampleSeed = `
tenant = "t-demo"

[[issues]]
key = "finding-1"
title = "Access review overdue"
status = "IN_PROGRESS"

[[capas]]
title = "Quarterly access review"
status = "IN_PROGRESS"
issue = "finding-1"

  [[capas.tasks]]
  name = "Collect entitlement report"
  status = "COMPLETED"

  [[capas.tasks]]
  name = "Review privileged accounts"
`

func setupSeed(t *testing.T) (*Service, *repository.RecordsRepository) {
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
	if err := db.AutoMigrate(&model.Capa{}, &model.CapaTask{}, &model.Issue{}, &model.StatusHistory{}, &model.RemediaKV{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	records := repository.NewRecordsRepository(db)
	return NewService(records, sqliteuow.NewUnitOfWork(db)), records
}

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "seed.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}
	return path
}

func TestLoadFileAndApply(t *testing.T) {
	svc, records := setupSeed(t)
	ctx := context.Background()

	file, err := LoadFile(writeSeedFile(t, sampleSeed))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	result, err := svc.Apply(ctx, file)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if result.Issues != 1 || result.Capas != 1 || result.Tasks != 2 {
		t.Fatalf("Apply() result = %+v", result)
	}

	capas, err := records.ListCapas(ctx, "t-demo")
	if err != nil {
		t.Fatalf("list capas: %v", err)
	}
	if len(capas) != 1 {
		t.Fatalf("capas = %d, want 1", len(capas))
	}
	if capas[0].Status != lifecycle.CapaInProgress {
		t.Fatalf("capa status = %s", capas[0].Status)
	}
	if capas[0].IssueID == nil {
		t.Fatal("capa issue link missing")
	}

	tasks, err := records.ListCapaTasks(ctx, "t-demo", capas[0].CapaID)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(tasks))
	}
	statuses := map[lifecycle.TaskStatus]int{}
	for _, task := range tasks {
		statuses[task.Status]++
	}
	if statuses[lifecycle.TaskCompleted] != 1 || statuses[lifecycle.TaskPending] != 1 {
		t.Fatalf("task statuses = %v, want one COMPLETED and one PENDING default", statuses)
	}
}

func TestLoadFileRejectsUnknownStatus(t *testing.T) {
	_, err := LoadFile(writeSeedFile(t, `
tenant = "t-demo"

[[capas]]
title = "Broken"
status = "ARCHIVED"
`))
	if err == nil {
		t.Fatal("expected unknown status error")
	}
}

func TestLoadFileRejectsUnknownIssueKey(t *testing.T) {
	_, err := LoadFile(writeSeedFile(t, `
tenant = "t-demo"

[[capas]]
title = "Dangling link"
issue = "missing"
`))
	if err == nil {
		t.Fatal("expected unknown issue key error")
	}
}

func TestLoadFileRequiresTenant(t *testing.T) {
	_, err := LoadFile(writeSeedFile(t, `
[[issues]]
title = "No tenant"
`))
	if err == nil {
		t.Fatal("expected tenant required error")
	}
}
